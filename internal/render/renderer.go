// Package render draws a composed canvas frame with raylib.
package render

import (
	"image"
	"image/color"

	"bookcanvas/internal/canvas"
	"bookcanvas/internal/pointer"
	"bookcanvas/internal/utils"
	"bookcanvas/internal/visibility"

	rl "github.com/gen2brain/raylib-go/raylib"
)

var logger = utils.Tagged("render")

// ItemSize is the unscaled footprint every cover is fitted into.
var ItemSize = canvas.Size{Width: 360, Height: 480}

type Renderer struct {
	BgColor color.RGBA

	textures map[string]rl.Texture2D
	opacity  *visibility.Registry
	screenW  float64
	screenH  float64
}

// NewRenderer needs an open window. opacity may be nil.
func NewRenderer(opacity *visibility.Registry) *Renderer {
	return &Renderer{
		BgColor:  color.RGBA{R: 18, G: 18, B: 22, A: 255},
		textures: make(map[string]rl.Texture2D),
		opacity:  opacity,
	}
}

// Load uploads img as the texture for id, replacing any previous one.
func (r *Renderer) Load(id string, img image.Image) {
	if old, ok := r.textures[id]; ok {
		rl.UnloadTexture(old)
	}
	raw := rl.NewImageFromImage(img)
	tex := rl.LoadTextureFromImage(raw)
	rl.UnloadImage(raw)
	if tex.ID == 0 {
		logger.Warn("Failed to upload texture for %s", id)
		delete(r.textures, id)
		return
	}
	rl.SetTextureFilter(tex, rl.FilterBilinear)
	r.textures[id] = tex
}

// Has reports whether a texture is loaded for id.
func (r *Renderer) Has(id string) bool {
	_, ok := r.textures[id]
	return ok
}

// UpdateViewport records the screen size used to map canvas space.
func (r *Renderer) UpdateViewport(screenWidth, screenHeight int) {
	r.screenW = float64(screenWidth)
	r.screenH = float64(screenHeight)
}

// Viewport is the screen rectangle.
func (r *Renderer) Viewport() pointer.Rect {
	return pointer.Rect{Width: r.screenW, Height: r.screenH}
}

// ToCanvas maps a screen point into canvas space, whose x origin is the
// horizontal centre of the screen.
func (r *Renderer) ToCanvas(x, y float64) (float64, float64) {
	return x - r.screenW/2, y
}

// ScreenBounds is the on-screen rectangle of a rendered item.
func (r *Renderer) ScreenBounds(item canvas.Rendered) pointer.Rect {
	x, y, w, h := item.Bounds(ItemSize)
	return pointer.Rect{X: x + r.screenW/2, Y: y, Width: w, Height: h}
}

// Draw renders frame in order. frame must come from canvas.Frame.
func (r *Renderer) Draw(frame []canvas.Rendered) {
	rl.ClearBackground(rl.NewColor(r.BgColor.R, r.BgColor.G, r.BgColor.B, 255))

	for _, item := range frame {
		bounds := r.ScreenBounds(item)
		if bounds.X+bounds.Width < 0 || bounds.X > r.screenW ||
			bounds.Y+bounds.Height < 0 || bounds.Y > r.screenH {
			continue
		}

		alpha := float32(1)
		if r.opacity != nil {
			alpha = float32(r.opacity.Opacity(item.Item.ID))
		}
		if alpha <= 0 {
			continue
		}

		destRec := rl.NewRectangle(
			float32(bounds.X+bounds.Width/2),
			float32(bounds.Y+bounds.Height/2),
			float32(bounds.Width),
			float32(bounds.Height),
		)
		origin := rl.NewVector2(destRec.Width/2, destRec.Height/2)

		tex, ok := r.textures[item.Item.ID]
		if !ok {
			r.drawPlaceholder(item, destRec, origin, alpha)
			continue
		}
		rl.DrawTexturePro(tex, coverSource(tex), destRec, origin, 0, rl.Fade(rl.White, alpha))
	}
}

// coverSource crops tex to the item aspect ratio around its centre.
func coverSource(tex rl.Texture2D) rl.Rectangle {
	w, h := float32(tex.Width), float32(tex.Height)
	want := float32(ItemSize.Width / ItemSize.Height)
	if w/h > want {
		cw := h * want
		return rl.NewRectangle((w-cw)/2, 0, cw, h)
	}
	ch := w / want
	return rl.NewRectangle(0, (h-ch)/2, w, ch)
}

func (r *Renderer) drawPlaceholder(item canvas.Rendered, destRec rl.Rectangle, origin rl.Vector2, alpha float32) {
	rl.DrawRectanglePro(destRec, origin, 0, rl.Fade(rl.DarkGray, alpha))

	label := item.Item.Alt
	if label == "" {
		label = item.Item.ID
	}
	fontSize := int32(18 * item.Scale)
	textX := int32(destRec.X-origin.X) + 12
	textY := int32(destRec.Y-origin.Y) + 12
	rl.DrawText(label, textX, textY, fontSize, rl.Fade(rl.RayWhite, alpha))
}

// Close unloads every texture.
func (r *Renderer) Close() {
	for id, tex := range r.textures {
		rl.UnloadTexture(tex)
		delete(r.textures, id)
	}
}
