// Package drag turns pointer-capture events into a single horizontal
// scroll offset. At most one pointer drags at a time.
package drag

import (
	"math"
	"time"

	"bookcanvas/internal/events"
	"bookcanvas/internal/pointer"
)

// Scroller owns the scroll offset the engine writes.
type Scroller interface {
	ScrollX() float64
	SetScrollX(x float64)
}

// Session lives between pointer-down and pointer-up or cancel.
type Session struct {
	PointerID    int
	StartX       float64
	StartScrollX float64

	lastX    float64
	lastTime time.Time
}

type Engine struct {
	container pointer.Container
	scroller  Scroller
	bus       *events.Bus
	session   *Session
}

// New returns an idle engine. bus may be nil.
func New(container pointer.Container, scroller Scroller, bus *events.Bus) *Engine {
	return &Engine{container: container, scroller: scroller, bus: bus}
}

// Dragging reports whether a session is active.
func (e *Engine) Dragging() bool {
	return e.session != nil
}

// Session returns a copy of the active session.
func (e *Engine) Session() (Session, bool) {
	if e.session == nil {
		return Session{}, false
	}
	return *e.session, true
}

// Handle dispatches ev by kind.
func (e *Engine) Handle(ev pointer.Event) {
	switch ev.Kind {
	case pointer.Down:
		e.Down(ev)
	case pointer.Move:
		e.Move(ev)
	case pointer.Up:
		e.Up(ev)
	case pointer.Cancel:
		e.Cancel(ev)
	}
}

// Down starts a session and captures the pointer. Ignored while another
// session is active.
func (e *Engine) Down(ev pointer.Event) {
	if e.session != nil {
		return
	}
	if e.container != nil {
		e.container.SetPointerCapture(ev.PointerID)
	}
	e.session = &Session{
		PointerID:    ev.PointerID,
		StartX:       ev.ClientX,
		StartScrollX: e.scroller.ScrollX(),
		lastX:        ev.ClientX,
		lastTime:     ev.Time,
	}
	e.publish(events.PhaseStart, 0, nil, ev.Time)
}

// Move maps the pointer 1:1 onto the scroll offset.
func (e *Engine) Move(ev pointer.Event) {
	s := e.session
	if s == nil || ev.PointerID != s.PointerID {
		return
	}
	dx := ev.ClientX - s.StartX
	e.scroller.SetScrollX(s.StartScrollX + dx)

	var velocity *float64
	if dt := ev.Time.Sub(s.lastTime).Seconds(); dt > 0 {
		v := (ev.ClientX - s.lastX) / dt
		velocity = &v
	}
	s.lastX = ev.ClientX
	s.lastTime = ev.Time
	e.publish(events.PhaseMove, dx, velocity, ev.Time)
}

// Up ends the session. The scroll offset keeps its last value.
func (e *Engine) Up(ev pointer.Event) {
	e.end(ev, events.PhaseEnd)
}

// Cancel is handled exactly like Up.
func (e *Engine) Cancel(ev pointer.Event) {
	e.end(ev, events.PhaseCancel)
}

func (e *Engine) end(ev pointer.Event, phase events.Phase) {
	s := e.session
	if s == nil || ev.PointerID != s.PointerID {
		return
	}
	e.session = nil
	if e.container != nil {
		e.container.ReleasePointerCapture(ev.PointerID)
	}
	e.publish(phase, e.scroller.ScrollX()-s.StartScrollX, nil, ev.Time)
}

func (e *Engine) publish(phase events.Phase, dx float64, velocity *float64, at time.Time) {
	e.bus.Publish(events.Signal{
		Kind:      events.KindDrag,
		Phase:     phase,
		Direction: events.DirectionOf(dx),
		Magnitude: math.Abs(dx),
		Velocity:  velocity,
		Source:    "pointer",
		Timestamp: at,
	})
}
