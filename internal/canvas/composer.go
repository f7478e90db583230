// Package canvas owns the runtime state of the endless horizontal canvas
// and composes per-item transforms from scroll, parallax and hover.
package canvas

import (
	"math"
	"time"

	"bookcanvas/internal/events"
	"bookcanvas/internal/layout"
)

const (
	// ItemFootprint is the per-item share of the wrap period.
	ItemFootprint = 520
	// MinLoopWidth keeps short lists from wrapping on a tiny period.
	MinLoopWidth = 2400
)

// Placement is an item's wrapped position in canvas space. The canvas
// origin is the horizontal centre of the container.
type Placement struct {
	Item layout.Item
	X    float64
	Y    float64
}

// Composer owns the scroll offset and hover state of one canvas. It is not
// safe for concurrent use.
type Composer struct {
	items     []layout.Item
	scrollX   float64
	hoveredID string
	loopWidth float64
	bus       *events.Bus
	now       func() time.Time
}

// NewComposer returns a composer over items with scroll at zero and nothing
// hovered.
func NewComposer(items []layout.Item) *Composer {
	return &Composer{
		items:     items,
		loopWidth: LoopWidth(len(items)),
		now:       time.Now,
	}
}

// SetBus makes hover changes publish focus signals on bus.
func (c *Composer) SetBus(bus *events.Bus) {
	c.bus = bus
}

// LoopWidth is the wrap period for n items.
func LoopWidth(n int) float64 {
	return math.Max(float64(n*ItemFootprint), MinLoopWidth)
}

// Wrap is the non-negative modulo of n by size. size must be positive.
func Wrap(n, size float64) float64 {
	m := math.Mod(math.Mod(n, size)+size, size)
	// Mod can round up to size for tiny negative n.
	if m >= size {
		return 0
	}
	return m
}

func (c *Composer) Items() []layout.Item { return c.items }

func (c *Composer) LoopWidth() float64 { return c.loopWidth }

func (c *Composer) ScrollX() float64 { return c.scrollX }

func (c *Composer) SetScrollX(x float64) { c.scrollX = x }

// Hovered returns the hovered id, or "" when nothing is hovered.
func (c *Composer) Hovered() string { return c.hoveredID }

// SetHovered makes id the only hovered item. An empty id clears hover.
func (c *Composer) SetHovered(id string) {
	prev := c.hoveredID
	if prev == id {
		return
	}
	c.hoveredID = id
	if prev != "" {
		c.focus(events.PhaseEnd, prev)
	}
	if id != "" {
		c.focus(events.PhaseStart, id)
	}
}

// ClearHovered clears hover only if id is the hovered item, so a late
// leave from one item cannot clear another's hover.
func (c *Composer) ClearHovered(id string) {
	if id != "" && c.hoveredID == id {
		c.SetHovered("")
	}
}

// Place wraps item's world position by the current scroll offset.
func (c *Composer) Place(item layout.Item) Placement {
	wrapped := Wrap(item.BaseX+c.scrollX, c.loopWidth)
	return Placement{
		Item: item,
		X:    wrapped - c.loopWidth/2,
		Y:    item.BaseY,
	}
}

func (c *Composer) focus(phase events.Phase, id string) {
	c.bus.Publish(events.Signal{
		Kind:      events.KindFocus,
		Phase:     phase,
		Source:    "hover",
		Target:    id,
		Timestamp: c.now(),
	})
}
