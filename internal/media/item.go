// Package media holds the raw media descriptors the canvas is built from,
// the data sources that deliver them, and the decoders that turn image
// references into pixels.
package media

import "strings"

type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// ImageRef is an opaque reference to a visual asset. Src is a path inside
// the asset dirs or bundle, or an http(s) URL.
type ImageRef struct {
	Src    string `json:"src"`
	Kind   Kind   `json:"kind,omitempty"`
	Poster string `json:"poster,omitempty"`
}

// RawItem is one unordered media descriptor as delivered by a Source.
// Title and Alt are optional and carry no identity guarantee.
type RawItem struct {
	Title *string   `json:"title,omitempty"`
	Alt   *string   `json:"alt,omitempty"`
	Image *ImageRef `json:"image,omitempty"`
}

// Resolvable reports whether the item has an image reference to render.
func (r RawItem) Resolvable() bool {
	return r.Image != nil && strings.TrimSpace(r.Image.Src) != ""
}

// DrawSource returns the reference to draw: the poster for videos that
// have one, the source itself otherwise.
func (ref ImageRef) DrawSource() string {
	if ref.Kind == KindVideo && ref.Poster != "" {
		return ref.Poster
	}
	return ref.Src
}

// String returns a pointer to s, for building RawItem literals.
func String(s string) *string {
	return &s
}
