package main

import (
	"time"

	"bookcanvas/internal/canvas"
	"bookcanvas/internal/config"
	"bookcanvas/internal/debug"
	"bookcanvas/internal/drag"
	"bookcanvas/internal/events"
	"bookcanvas/internal/layout"
	"bookcanvas/internal/parallax"
	"bookcanvas/internal/pointer"
	"bookcanvas/internal/render"
	"bookcanvas/internal/utils"
	"bookcanvas/internal/visibility"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// mouseID is the pointer id of the mouse. Touch ids are offset past it.
const mouseID = 0

// Window is the canvas container: it reports its bounds, holds pointer
// capture and feeds sampled input to the engines.
type Window struct {
	fps int

	bus      *events.Bus
	composer *canvas.Composer
	dragger  *drag.Engine
	tracker  *parallax.Tracker
	detach   func()
	differ   *pointer.Differ
	captured map[int]bool
	options  canvas.Options

	renderer *render.Renderer
	observer *visibility.Observer
	overlay  *debug.Overlay
	global   *utils.GlobalPointer

	frame []canvas.Rendered
}

func NewWindow(items []layout.Item, cfg config.Config) *Window {
	bus := events.NewBus()
	opacity := visibility.NewRegistry()

	w := &Window{
		fps:      cfg.FPS,
		bus:      bus,
		composer: canvas.NewComposer(items),
		tracker:  parallax.NewTracker(),
		differ:   pointer.NewDiffer(),
		captured: make(map[int]bool),
		options:  canvas.DefaultOptions(),
		renderer: render.NewRenderer(opacity),
		observer: visibility.NewObserver(opacity, visibility.DefaultThresholds(), 0.35),
		overlay:  debug.NewOverlay(bus),
	}
	w.options.Strength = cfg.ParallaxStrength
	w.composer.SetBus(bus)
	w.dragger = drag.New(w, w.composer, bus)
	w.detach = w.tracker.Attach(w)

	if cfg.GlobalPointer {
		gp, err := utils.NewGlobalPointer()
		if err != nil {
			utils.Warn("Global pointer unavailable, using window input: %v", err)
		} else {
			w.global = gp
		}
	}

	bus.Subscribe(events.KindDrag, func(s events.Signal) {
		utils.Debug("drag %s %s %.1f", s.Phase, s.Direction, s.Magnitude)
	})

	return w
}

func (w *Window) Bounds() pointer.Rect {
	return pointer.Rect{Width: float64(rl.GetScreenWidth()), Height: float64(rl.GetScreenHeight())}
}

func (w *Window) SetPointerCapture(pointerID int) {
	w.captured[pointerID] = true
}

func (w *Window) ReleasePointerCapture(pointerID int) {
	delete(w.captured, pointerID)
}

func (w *Window) Run() {
	rl.SetTargetFPS(int32(w.fps))

	for !rl.WindowShouldClose() {
		w.Update()

		rl.BeginDrawing()
		w.Draw()
		rl.EndDrawing()
	}
}

func (w *Window) Update() {
	now := time.Now()
	w.renderer.UpdateViewport(rl.GetScreenWidth(), rl.GetScreenHeight())

	for _, ev := range w.differ.Diff(w.sample(), now) {
		w.dragger.Handle(ev)
		if w.global == nil {
			w.tracker.HandleMove(ev)
		}
	}
	if w.global != nil {
		w.sampleGlobalPointer(now)
	}

	vector := w.tracker.Vector()
	w.frame = canvas.Frame(w.composer, vector, w.options)
	if w.updateHover() {
		w.frame = canvas.Frame(w.composer, vector, w.options)
	}

	viewport := w.renderer.Viewport()
	for _, item := range w.frame {
		w.observer.Observe(item.Item.ID, w.renderer.ScreenBounds(item), viewport)
	}

	if rl.IsKeyPressed(rl.KeyF8) {
		utils.ShowDebugUI = !utils.ShowDebugUI
	}
	if utils.ShowDebugUI {
		w.overlay.Update()
	}
}

// sample reads the mouse and touch state for this frame. raylib also
// reports a single touch as the mouse, so touches are only tracked
// separately when more than one is down.
func (w *Window) sample() pointer.Snapshot {
	var s pointer.Snapshot
	if !rl.IsWindowFocused() {
		s.Interrupted = true
		return s
	}

	pressed := rl.IsMouseButtonDown(rl.MouseLeftButton)
	if rl.IsCursorOnScreen() || w.captured[mouseID] {
		pos := rl.GetMousePosition()
		s.Contacts = append(s.Contacts, pointer.Contact{
			ID:      mouseID,
			X:       float64(pos.X),
			Y:       float64(pos.Y),
			Pressed: pressed,
		})
	}

	if n := rl.GetTouchPointCount(); n > 1 {
		for i := int32(0); i < n; i++ {
			pos := rl.GetTouchPosition(i)
			s.Contacts = append(s.Contacts, pointer.Contact{
				ID:      int(rl.GetTouchPointId(i)) + 1,
				X:       float64(pos.X),
				Y:       float64(pos.Y),
				Pressed: true,
			})
		}
	}
	return s
}

// sampleGlobalPointer feeds the X11 root pointer, relative to the window,
// to the parallax tracker.
func (w *Window) sampleGlobalPointer(now time.Time) {
	x, y, err := w.global.Position()
	if err != nil {
		utils.Warn("Global pointer query failed, falling back to window input: %v", err)
		w.global.Close()
		w.global = nil
		return
	}
	origin := rl.GetWindowPosition()
	w.tracker.HandleMove(pointer.Event{
		Kind:      pointer.Move,
		PointerID: mouseID,
		ClientX:   float64(x) - float64(origin.X),
		ClientY:   float64(y) - float64(origin.Y),
		Time:      now,
	})
}

// updateHover hovers the top-most item under the mouse and reports
// whether the hovered id changed.
func (w *Window) updateHover() bool {
	prev := w.composer.Hovered()
	if !rl.IsCursorOnScreen() {
		w.composer.ClearHovered(prev)
		return prev != ""
	}
	pos := rl.GetMousePosition()
	x, y := w.renderer.ToCanvas(float64(pos.X), float64(pos.Y))
	if hit, ok := canvas.HitTest(w.frame, x, y, render.ItemSize); ok {
		w.composer.SetHovered(hit.Item.ID)
	} else {
		w.composer.ClearHovered(prev)
	}
	return w.composer.Hovered() != prev
}

func (w *Window) Draw() {
	w.renderer.Draw(w.frame)

	if utils.ShowDebugUI {
		w.overlay.Draw(w.frame, w.renderer, debug.State{
			Hovered:   w.composer.Hovered(),
			ScrollX:   w.composer.ScrollX(),
			LoopWidth: w.composer.LoopWidth(),
			Vector:    w.tracker.Vector(),
			Dragging:  w.dragger.Dragging(),
			Items:     len(w.composer.Items()),
		})
	}
}

func (w *Window) Close() {
	w.detach()
	w.overlay.Close()
	w.renderer.Close()
	if w.global != nil {
		w.global.Close()
	}
}
