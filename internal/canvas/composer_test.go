package canvas

import (
	"math"
	"testing"

	"bookcanvas/internal/events"
	"bookcanvas/internal/layout"
	"bookcanvas/internal/media"
)

func items(n int) []layout.Item {
	raw := make([]media.RawItem, n)
	for i := range raw {
		raw[i] = media.RawItem{Image: &media.ImageRef{Src: "cover.png"}}
	}
	return layout.Layout(raw)
}

func TestWrap(t *testing.T) {
	type tc struct {
		n, size, want float64
	}
	tests := map[string]tc{
		"negative":        {n: -50, size: 2400, want: 2350},
		"past one period": {n: 2450, size: 2400, want: 50},
		"zero":            {n: 0, size: 2400, want: 0},
		"exact period":    {n: 4800, size: 2400, want: 0},
		"far negative":    {n: -7250, size: 2400, want: 2350},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := Wrap(tt.n, tt.size); got != tt.want {
				t.Fatalf("Wrap(%v, %v) = %v, want %v", tt.n, tt.size, got, tt.want)
			}
		})
	}
}

func TestWrapStaysInRange(t *testing.T) {
	for _, n := range []float64{-1e-17, -1e9, -0.5, 1e12 + 0.25, 2399.999, math.Copysign(0, -1)} {
		got := Wrap(n, 2400)
		if got < 0 || got >= 2400 {
			t.Fatalf("Wrap(%v) = %v out of [0, 2400)", n, got)
		}
	}
}

func TestLoopWidth(t *testing.T) {
	if got := LoopWidth(0); got != MinLoopWidth {
		t.Fatalf("LoopWidth(0) = %v", got)
	}
	if got := LoopWidth(4); got != MinLoopWidth {
		t.Fatalf("LoopWidth(4) = %v, want floor", got)
	}
	if got := LoopWidth(10); got != 5200 {
		t.Fatalf("LoopWidth(10) = %v, want 5200", got)
	}
	if got := NewComposer(items(6)).LoopWidth(); got != 3120 {
		t.Fatalf("composer loop width = %v, want 3120", got)
	}
}

func TestPlace(t *testing.T) {
	list := items(3)
	c := NewComposer(list)

	p := c.Place(list[1])
	if p.X != 480-1200 || p.Y != list[1].BaseY {
		t.Fatalf("unexpected placement %+v", p)
	}

	c.SetScrollX(-600)
	if p := c.Place(list[0]); p.X != 1800-1200 {
		t.Fatalf("wrapped x = %v, want 600", p.X)
	}

	c.SetScrollX(-600 + 3*2400)
	if p := c.Place(list[0]); p.X != 600 {
		t.Fatalf("whole periods of scroll should not move items, got %v", p.X)
	}
}

func TestHoverExclusive(t *testing.T) {
	c := NewComposer(items(2))
	c.SetHovered("book-1")
	c.SetHovered("book-0")
	if got := c.Hovered(); got != "book-0" {
		t.Fatalf("hovered = %q", got)
	}

	c.ClearHovered("book-1")
	if got := c.Hovered(); got != "book-0" {
		t.Fatalf("stale clear removed hover: %q", got)
	}
	c.ClearHovered("book-0")
	if got := c.Hovered(); got != "" {
		t.Fatalf("hovered = %q, want none", got)
	}
}

func TestHoverSignals(t *testing.T) {
	bus := events.NewBus()
	var got []events.Signal
	bus.Subscribe(events.KindFocus, func(s events.Signal) { got = append(got, s) })

	c := NewComposer(items(2))
	c.SetBus(bus)
	c.SetHovered("book-0")
	c.SetHovered("book-0")
	c.SetHovered("book-1")
	c.ClearHovered("book-1")

	want := []struct {
		phase  events.Phase
		target string
	}{
		{events.PhaseStart, "book-0"},
		{events.PhaseEnd, "book-0"},
		{events.PhaseStart, "book-1"},
		{events.PhaseEnd, "book-1"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d signals, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].Phase != w.phase || got[i].Target != w.target {
			t.Fatalf("signal %d = %s %q, want %s %q", i, got[i].Phase, got[i].Target, w.phase, w.target)
		}
	}
}
