// Package debug draws the F8 overlay: item bounds, canvas state and the
// most recent gesture signal.
package debug

import (
	"fmt"

	"bookcanvas/internal/canvas"
	"bookcanvas/internal/events"
	"bookcanvas/internal/parallax"
	"bookcanvas/internal/render"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// State is the canvas runtime state shown in the panel.
type State struct {
	Hovered   string
	ScrollX   float64
	LoopWidth float64
	Vector    parallax.Vector
	Dragging  bool
	Items     int
}

type Overlay struct {
	ShowBoundingBoxes bool

	fontSize   int32
	lineHeight int32

	lastDrag  *events.Signal
	lastFocus *events.Signal
	handles   []events.Handle
}

// NewOverlay records drag and focus signals published on bus.
func NewOverlay(bus *events.Bus) *Overlay {
	o := &Overlay{ShowBoundingBoxes: true, fontSize: 16, lineHeight: 22}
	if bus != nil {
		o.handles = append(o.handles,
			bus.Subscribe(events.KindDrag, func(s events.Signal) { o.lastDrag = &s }),
			bus.Subscribe(events.KindFocus, func(s events.Signal) { o.lastFocus = &s }),
		)
	}
	return o
}

// Update handles overlay keys. B toggles bounding boxes.
func (o *Overlay) Update() {
	if rl.IsKeyPressed(rl.KeyB) {
		o.ShowBoundingBoxes = !o.ShowBoundingBoxes
	}
}

func (o *Overlay) Draw(frame []canvas.Rendered, r *render.Renderer, state State) {
	if o.ShowBoundingBoxes {
		for _, item := range frame {
			o.drawItemBoundingBox(item, r)
		}
	}

	lines := []string{
		fmt.Sprintf("FPS: %d", rl.GetFPS()),
		fmt.Sprintf("Items: %d", state.Items),
		fmt.Sprintf("ScrollX: %.1f (loop %.0f)", state.ScrollX, state.LoopWidth),
		fmt.Sprintf("Parallax: %.2f, %.2f", state.Vector.NX, state.Vector.NY),
		fmt.Sprintf("Dragging: %t", state.Dragging),
		fmt.Sprintf("Hovered: %s", orNone(state.Hovered)),
	}
	if s := o.lastDrag; s != nil {
		line := fmt.Sprintf("Drag: %s %s %.1f", s.Phase, s.Direction, s.Magnitude)
		if s.Velocity != nil {
			line += fmt.Sprintf(" (%.0f px/s)", *s.Velocity)
		}
		lines = append(lines, line)
	}
	if s := o.lastFocus; s != nil {
		lines = append(lines, fmt.Sprintf("Focus: %s %s", s.Phase, s.Target))
	}

	panelH := int32(len(lines))*o.lineHeight + 16
	rl.DrawRectangle(8, 8, 340, panelH, rl.NewColor(0, 0, 0, 170))
	for i, line := range lines {
		rl.DrawText(line, 16, 16+int32(i)*o.lineHeight, o.fontSize, rl.RayWhite)
	}
}

func (o *Overlay) drawItemBoundingBox(item canvas.Rendered, r *render.Renderer) {
	b := r.ScreenBounds(item)
	col := rl.NewColor(0, 255, 0, 255)
	if item.Hovered {
		col = rl.NewColor(255, 255, 0, 255)
	}
	rl.DrawRectangleLines(int32(b.X), int32(b.Y), int32(b.Width), int32(b.Height), col)

	cx := b.X + b.Width/2
	cy := b.Y + b.Height/2
	rl.DrawRectangle(int32(cx-2), int32(cy-2), 4, 4, rl.Red)
	rl.DrawText(fmt.Sprintf("%s z%d", item.Item.ID, item.ZIndex), int32(b.X)+4, int32(b.Y)+4, 12, col)
}

// Close drops the bus subscriptions.
func (o *Overlay) Close() {
	for _, h := range o.handles {
		h.Remove()
	}
	o.handles = nil
}

func orNone(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
