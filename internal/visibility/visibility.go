// Package visibility fades items by how much of them is inside the
// viewport. The Observer is the only writer of the opacity Registry.
package visibility

import (
	"math"
	"sync"

	"bookcanvas/internal/pointer"
)

// Registry maps an item id to its current opacity.
type Registry struct {
	mu      sync.RWMutex
	opacity map[string]float64
}

func NewRegistry() *Registry {
	return &Registry{opacity: make(map[string]float64)}
}

// Opacity returns the opacity recorded for id. Unobserved items are
// fully opaque.
func (r *Registry) Opacity(id string) float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if o, ok := r.opacity[id]; ok {
		return o
	}
	return 1
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.opacity)
}

func (r *Registry) set(id string, o float64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.opacity[id]; ok && prev == o {
		return false
	}
	r.opacity[id] = o
	return true
}

func (r *Registry) forget(id string) {
	r.mu.Lock()
	delete(r.opacity, id)
	r.mu.Unlock()
}

// Ratio is the fraction of box's area inside viewport, in [0,1]. An empty
// box has ratio 0.
func Ratio(box, viewport pointer.Rect) float64 {
	area := box.Width * box.Height
	if area <= 0 {
		return 0
	}
	w := math.Min(box.X+box.Width, viewport.X+viewport.Width) - math.Max(box.X, viewport.X)
	h := math.Min(box.Y+box.Height, viewport.Y+viewport.Height) - math.Max(box.Y, viewport.Y)
	if w <= 0 || h <= 0 {
		return 0
	}
	return math.Min(w*h/area, 1)
}

// Observer converts intersection ratios into opacities. Ratios are
// snapped down to the nearest threshold so opacity only changes when a
// threshold is crossed.
type Observer struct {
	registry   *Registry
	thresholds []float64
	min        float64
}

// NewObserver writes into r. thresholds must be ascending within [0,1];
// minOpacity is used for items fully outside the viewport.
func NewObserver(r *Registry, thresholds []float64, minOpacity float64) *Observer {
	return &Observer{registry: r, thresholds: thresholds, min: minOpacity}
}

// DefaultThresholds are quarter steps.
func DefaultThresholds() []float64 {
	return []float64{0, 0.25, 0.5, 0.75, 1}
}

// Observe records the opacity for id given its box and the viewport, and
// reports whether the recorded value changed.
func (o *Observer) Observe(id string, box, viewport pointer.Rect) bool {
	ratio := o.snap(Ratio(box, viewport))
	return o.registry.set(id, o.min+(1-o.min)*ratio)
}

// Forget drops id, returning it to full opacity.
func (o *Observer) Forget(id string) {
	o.registry.forget(id)
}

func (o *Observer) snap(ratio float64) float64 {
	if len(o.thresholds) == 0 {
		return ratio
	}
	snapped := 0.0
	for _, t := range o.thresholds {
		if ratio+1e-9 < t {
			break
		}
		snapped = t
	}
	return snapped
}
