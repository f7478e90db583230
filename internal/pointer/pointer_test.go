package pointer

import (
	"reflect"
	"testing"
	"time"
)

type step struct {
	snap Snapshot
	want []Kind
}

func kinds(events []Event) []Kind {
	out := make([]Kind, 0, len(events))
	for _, e := range events {
		out = append(out, e.Kind)
	}
	return out
}

func mouse(x, y float64, pressed bool) Contact {
	return Contact{ID: 0, X: x, Y: y, Pressed: pressed}
}

func TestDiffer(t *testing.T) {
	tests := map[string][]step{
		"hover then drag then release": {
			{snap: Snapshot{Contacts: []Contact{mouse(10, 10, false)}}, want: []Kind{Move}},
			{snap: Snapshot{Contacts: []Contact{mouse(10, 10, false)}}, want: []Kind{}},
			{snap: Snapshot{Contacts: []Contact{mouse(12, 10, true)}}, want: []Kind{Down}},
			{snap: Snapshot{Contacts: []Contact{mouse(40, 10, true)}}, want: []Kind{Move}},
			{snap: Snapshot{Contacts: []Contact{mouse(45, 11, false)}}, want: []Kind{Move, Up}},
		},
		"release without movement": {
			{snap: Snapshot{Contacts: []Contact{mouse(5, 5, true)}}, want: []Kind{Down}},
			{snap: Snapshot{Contacts: []Contact{mouse(5, 5, false)}}, want: []Kind{Up}},
		},
		"touch lifted": {
			{snap: Snapshot{Contacts: []Contact{{ID: 3, X: 1, Y: 1, Pressed: true}}}, want: []Kind{Down}},
			{snap: Snapshot{}, want: []Kind{Up}},
		},
		"interruption cancels once": {
			{snap: Snapshot{Contacts: []Contact{mouse(5, 5, true)}}, want: []Kind{Down}},
			{snap: Snapshot{Contacts: []Contact{mouse(6, 5, true)}, Interrupted: true}, want: []Kind{Cancel}},
			{snap: Snapshot{Contacts: []Contact{mouse(6, 5, true)}, Interrupted: true}, want: []Kind{}},
			{snap: Snapshot{Contacts: []Contact{mouse(6, 5, true)}}, want: []Kind{Down}},
		},
	}

	for name, steps := range tests {
		t.Run(name, func(t *testing.T) {
			d := NewDiffer()
			now := time.Unix(0, 0)
			for i, st := range steps {
				got := kinds(d.Diff(st.snap, now))
				if !reflect.DeepEqual(got, st.want) {
					t.Fatalf("step %d: got %v, want %v", i, got, st.want)
				}
			}
		})
	}
}

func TestDifferOrdersByPointerID(t *testing.T) {
	d := NewDiffer()
	events := d.Diff(Snapshot{Contacts: []Contact{
		{ID: 7, X: 1, Y: 1, Pressed: true},
		{ID: 2, X: 2, Y: 2, Pressed: true},
	}}, time.Now())
	if len(events) != 2 || events[0].PointerID != 2 || events[1].PointerID != 7 {
		t.Fatalf("unexpected order: %+v", events)
	}
	if events[0].ClientX != 2 || events[0].ClientY != 2 {
		t.Fatalf("event should carry the contact position: %+v", events[0])
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 100, Height: 50}
	if !r.Contains(10, 20) || !r.Contains(110, 70) || !r.Contains(50, 40) {
		t.Fatal("expected points on and inside the edges to be contained")
	}
	if r.Contains(9, 40) || r.Contains(50, 71) {
		t.Fatal("expected points outside to be excluded")
	}
}
