package canvas

import (
	"sort"

	"bookcanvas/internal/parallax"
)

// Options tune the per-item transform. Strength is the horizontal parallax
// travel in pixels at depth 1 with the pointer at an edge.
type Options struct {
	Strength          float64
	VerticalPlacement float64
	HoverScale        float64
	// HoverBoost must exceed the largest ZBand*10 so a hovered item is
	// always on top.
	HoverBoost int
}

// DefaultOptions returns the stock transform tuning.
func DefaultOptions() Options {
	return Options{
		Strength:          40,
		VerticalPlacement: 24,
		HoverScale:        1.08,
		HoverBoost:        1000,
	}
}

// Transform is applied as a translate followed by a scale about the
// item's own centre.
type Transform struct {
	TranslateX float64
	TranslateY float64
	Scale      float64
	ZIndex     int
}

// Compose combines a placement with the live parallax vector and hover
// state. Hover only affects Scale and ZIndex.
func Compose(p Placement, v parallax.Vector, hovered bool, opts Options) Transform {
	parX, parY := parallax.Offset(v, p.Item.Depth, opts.Strength)
	placeY := v.NY * opts.VerticalPlacement

	t := Transform{
		TranslateX: p.X + parX,
		TranslateY: p.Y + parY + placeY,
		Scale:      p.Item.BaseScale,
		ZIndex:     p.Item.ZBand * 10,
	}
	if hovered {
		t.Scale *= opts.HoverScale
		t.ZIndex += opts.HoverBoost
	}
	return t
}

// Rendered is one composed item of a frame.
type Rendered struct {
	Index int
	Placement
	Transform
	Hovered bool
}

// Frame composes every item of c against v and returns them in draw
// order: ascending z-index, ties kept in layout order.
func Frame(c *Composer, v parallax.Vector, opts Options) []Rendered {
	items := c.Items()
	out := make([]Rendered, len(items))
	for i, item := range items {
		hovered := item.ID != "" && item.ID == c.Hovered()
		p := c.Place(item)
		out[i] = Rendered{
			Index:     i,
			Placement: p,
			Transform: Compose(p, v, hovered, opts),
			Hovered:   hovered,
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].ZIndex < out[b].ZIndex
	})
	return out
}
