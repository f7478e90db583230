// Package events is the typed signal taxonomy components use to tell each
// other about gestures and focus, dispatched through a synchronous bus.
package events

import "time"

type Kind int

const (
	KindDrag Kind = iota
	KindFocus
)

func (k Kind) String() string {
	switch k {
	case KindDrag:
		return "drag"
	case KindFocus:
		return "focus"
	}
	return "unknown"
}

type Phase int

const (
	PhaseStart Phase = iota
	PhaseMove
	PhaseEnd
	PhaseCancel
)

func (p Phase) String() string {
	switch p {
	case PhaseStart:
		return "start"
	case PhaseMove:
		return "move"
	case PhaseEnd:
		return "end"
	case PhaseCancel:
		return "cancel"
	}
	return "unknown"
}

type Direction int

const (
	DirectionNone Direction = iota
	DirectionLeft
	DirectionRight
)

func (d Direction) String() string {
	switch d {
	case DirectionLeft:
		return "left"
	case DirectionRight:
		return "right"
	}
	return "none"
}

// Signal is one gesture or focus notification. Velocity is in pixels per
// second and only set when two samples of the gesture exist.
type Signal struct {
	Kind      Kind
	Phase     Phase
	Direction Direction
	Magnitude float64
	Velocity  *float64
	Source    string
	Target    string
	Timestamp time.Time
}

// DirectionOf maps a signed horizontal delta to a Direction.
func DirectionOf(dx float64) Direction {
	switch {
	case dx < 0:
		return DirectionLeft
	case dx > 0:
		return DirectionRight
	}
	return DirectionNone
}

type handler struct {
	id uint32
	fn func(Signal)
}

// Bus delivers signals synchronously, in subscription order, on the
// publishing goroutine.
type Bus struct {
	handlers map[Kind][]handler
	nextID   uint32
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[Kind][]handler)}
}

// Handle removes a subscription.
type Handle struct {
	bus  *Bus
	kind Kind
	id   uint32
}

// Subscribe registers fn for signals of kind.
func (b *Bus) Subscribe(kind Kind, fn func(Signal)) Handle {
	b.nextID++
	b.handlers[kind] = append(b.handlers[kind], handler{id: b.nextID, fn: fn})
	return Handle{bus: b, kind: kind, id: b.nextID}
}

// Publish delivers s to every subscriber of s.Kind. A nil bus drops it.
func (b *Bus) Publish(s Signal) {
	if b == nil {
		return
	}
	for _, h := range b.handlers[s.Kind] {
		h.fn(s)
	}
}

// Remove unregisters the subscription. Removing twice is a no-op.
func (h Handle) Remove() {
	if h.bus == nil {
		return
	}
	hs := h.bus.handlers[h.kind]
	for i := range hs {
		if hs[i].id == h.id {
			copy(hs[i:], hs[i+1:])
			hs[len(hs)-1] = handler{}
			h.bus.handlers[h.kind] = hs[:len(hs)-1]
			return
		}
	}
}
