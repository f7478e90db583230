package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"path"
	"strings"

	_ "golang.org/x/image/webp"
)

// DecodeImage decodes data by the extension of name: .tex textures go
// through DecodeTex, everything else through the registered image codecs.
func DecodeImage(name string, data []byte) (image.Image, error) {
	if strings.EqualFold(path.Ext(name), ".tex") {
		img, err := DecodeTex(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decode tex %s: %w", name, err)
		}
		return img, nil
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", name, err)
	}
	return img, nil
}

// LoadImage resolves and decodes the drawable source of ref.
func LoadImage(ctx context.Context, r *Resolver, ref ImageRef) (image.Image, error) {
	data, name, err := r.Read(ctx, ref.DrawSource())
	if err != nil {
		return nil, err
	}
	return DecodeImage(name, data)
}
