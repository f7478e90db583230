// Package pointer defines the pointer events the canvas consumes and turns
// polled mouse and touch state into those events.
package pointer

import (
	"sort"
	"time"
)

type Kind int

const (
	Down Kind = iota
	Move
	Up
	Cancel
)

func (k Kind) String() string {
	switch k {
	case Down:
		return "down"
	case Move:
		return "move"
	case Up:
		return "up"
	case Cancel:
		return "cancel"
	}
	return "unknown"
}

type Event struct {
	Kind      Kind
	PointerID int
	ClientX   float64
	ClientY   float64
	Time      time.Time
}

type Rect struct {
	X, Y, Width, Height float64
}

func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width && y >= r.Y && y <= r.Y+r.Height
}

// Container is the element pointer events are dispatched on. Bounds is
// measured on demand; capture routes a pointer's events to the container
// even outside its box.
type Container interface {
	Bounds() Rect
	SetPointerCapture(pointerID int)
	ReleasePointerCapture(pointerID int)
}

// Contact is one pointer as seen in a frame. The mouse is present while
// it is over the window, pressed or not; touches are always pressed.
type Contact struct {
	ID      int
	X, Y    float64
	Pressed bool
}

// Snapshot is the pointer state sampled once per frame. Interrupted marks a
// frame where the platform took the gesture away (focus loss).
type Snapshot struct {
	Contacts    []Contact
	Interrupted bool
}

// Differ turns successive snapshots into ordered pointer events.
type Differ struct {
	prev map[int]Contact
}

func NewDiffer() *Differ {
	return &Differ{prev: make(map[int]Contact)}
}

// Diff returns the events between the previous snapshot and s, ordered by
// pointer id. A release in the same frame as a move is reported as a move
// followed by up.
func (d *Differ) Diff(s Snapshot, now time.Time) []Event {
	var events []Event
	emit := func(kind Kind, c Contact) {
		events = append(events, Event{Kind: kind, PointerID: c.ID, ClientX: c.X, ClientY: c.Y, Time: now})
	}

	current := make(map[int]Contact, len(s.Contacts))
	for _, c := range s.Contacts {
		current[c.ID] = c
	}

	ids := make([]int, 0, len(current)+len(d.prev))
	for id := range current {
		ids = append(ids, id)
	}
	for id := range d.prev {
		if _, ok := current[id]; !ok {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)

	for _, id := range ids {
		prev, had := d.prev[id]
		cur, has := current[id]

		if s.Interrupted {
			if had && prev.Pressed {
				emit(Cancel, prev)
			}
			if has {
				cur.Pressed = false
				current[id] = cur
			}
			continue
		}

		switch {
		case !has:
			if prev.Pressed {
				emit(Up, prev)
			}
		case !had:
			if cur.Pressed {
				emit(Down, cur)
			} else {
				emit(Move, cur)
			}
		default:
			moved := cur.X != prev.X || cur.Y != prev.Y
			switch {
			case !prev.Pressed && cur.Pressed:
				emit(Down, cur)
			case prev.Pressed && !cur.Pressed:
				if moved {
					emit(Move, cur)
				}
				emit(Up, cur)
			case moved:
				emit(Move, cur)
			}
		}
	}

	d.prev = current
	return events
}
