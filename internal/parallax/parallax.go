// Package parallax tracks the pointer's normalized position inside a
// container. The vector lives in a Cell that readers poll when they
// compute transforms; writes never notify anyone.
package parallax

import (
	"math"
	"sync"

	"bookcanvas/internal/pointer"
)

// VerticalFactor damps the vertical parallax relative to the horizontal.
const VerticalFactor = 0.55

// Vector is the pointer offset from the container centre, in [-1,1] per axis.
type Vector struct {
	NX, NY float64
}

// Cell holds the latest Vector. One writer, any number of readers.
type Cell struct {
	mu sync.RWMutex
	v  Vector
}

func (c *Cell) Load() Vector {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.v
}

func (c *Cell) Store(v Vector) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.v = v
}

// Tracker writes the normalized pointer position of its attached container
// into a Cell.
type Tracker struct {
	cell      *Cell
	container pointer.Container
	epoch     int
}

func NewTracker() *Tracker {
	return &Tracker{cell: &Cell{}}
}

// Cell returns the shared vector cell readers should poll.
func (t *Tracker) Cell() *Cell {
	return t.cell
}

// Vector reads the current vector.
func (t *Tracker) Vector() Vector {
	return t.cell.Load()
}

// Attach starts listening on c, replacing any previous container. The
// returned detach func only detaches this attachment.
func (t *Tracker) Attach(c pointer.Container) (detach func()) {
	t.epoch++
	t.container = c
	epoch := t.epoch
	return func() {
		if t.epoch == epoch {
			t.container = nil
		}
	}
}

// Attached reports whether a container is currently attached.
func (t *Tracker) Attached() bool {
	return t.container != nil
}

// HandleMove updates the vector from a pointer position. The container box
// is measured at move time. Events are ignored while detached or while the
// box is degenerate.
func (t *Tracker) HandleMove(ev pointer.Event) {
	if t.container == nil || ev.Kind != pointer.Move {
		return
	}
	box := t.container.Bounds()
	if box.Width <= 0 || box.Height <= 0 {
		return
	}
	t.cell.Store(Normalize(box, ev.ClientX, ev.ClientY))
}

// Normalize maps (x, y) to the container-relative vector, clamping points
// outside the box (captured drags) to its edges.
func Normalize(box pointer.Rect, x, y float64) Vector {
	fx := clamp01((x - box.X) / box.Width)
	fy := clamp01((y - box.Y) / box.Height)
	return Vector{NX: (fx - 0.5) * 2, NY: (fy - 0.5) * 2}
}

// Offset is the parallax displacement of an item at depth. Far items
// barely move, near ones move most.
func Offset(v Vector, depth, strength float64) (float64, float64) {
	return v.NX * strength * depth, v.NY * strength * VerticalFactor * depth
}

func clamp01(f float64) float64 {
	return math.Max(0, math.Min(1, f))
}
