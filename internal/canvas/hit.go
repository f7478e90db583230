package canvas

// Size is the unscaled footprint of an item.
type Size struct {
	Width, Height float64
}

// Bounds returns the rectangle r covers in canvas space after scaling
// about its centre.
func (r Rendered) Bounds(size Size) (x, y, w, h float64) {
	w = size.Width * r.Scale
	h = size.Height * r.Scale
	x = r.TranslateX + (size.Width-w)/2
	y = r.TranslateY + (size.Height-h)/2
	return x, y, w, h
}

// HitTest returns the top-most item of frame under the canvas point
// (x, y). frame must be in draw order as returned by Frame.
func HitTest(frame []Rendered, x, y float64, size Size) (Rendered, bool) {
	for i := len(frame) - 1; i >= 0; i-- {
		bx, by, bw, bh := frame[i].Bounds(size)
		if x >= bx && x < bx+bw && y >= by && y < by+bh {
			return frame[i], true
		}
	}
	return Rendered{}, false
}
