// Package layout derives a deterministic positioned layout from an
// unordered list of media items.
package layout

import (
	"math"
	"strconv"

	"bookcanvas/internal/media"
)

const (
	BaseWidth  = 360
	Gap        = 120
	DepthSteps = 6

	minDepth   = 0.15
	depthRange = 0.85
	minScale   = 0.65
	scaleRange = 0.55
	rowTop     = 80
	rowCount   = 5
	rowHeight  = 90
	rowJitter  = 60

	depthSalt = "::depth"
	scaleSalt = "::scale"
)

// Item is a positioned media item in world space. Every field is a pure
// function of the item's id and index.
type Item struct {
	ID        string
	Alt       string
	Image     media.ImageRef
	BaseX     float64
	BaseY     float64
	Depth     float64
	BaseScale float64
	ZBand     int
}

// ID returns the layout id for the item at idx. The index suffix keeps ids
// unique when titles repeat.
func ID(title *string, idx int) string {
	if title == nil {
		return "book-" + strconv.Itoa(idx)
	}
	return *title + "-" + strconv.Itoa(idx)
}

// Layout drops items without an image and positions the rest.
func Layout(raw []media.RawItem) []Item {
	items := make([]Item, 0, len(raw))
	for _, r := range raw {
		if !r.Resolvable() {
			continue
		}
		idx := len(items)
		id := ID(r.Title, idx)
		r1 := Seed(id, depthSalt)
		r2 := Seed(id, scaleSalt)
		depth := Quantize(minDepth+r1*depthRange, DepthSteps)

		var alt string
		if r.Alt != nil {
			alt = *r.Alt
		}
		items = append(items, Item{
			ID:        id,
			Alt:       alt,
			Image:     *r.Image,
			BaseX:     float64(idx * (BaseWidth + Gap)),
			BaseY:     rowTop + float64(idx%rowCount)*rowHeight + (r2-0.5)*rowJitter,
			Depth:     depth,
			BaseScale: minScale + r2*scaleRange,
			ZBand:     int(math.Floor(depth * 10)),
		})
	}
	return items
}
