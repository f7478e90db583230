package media

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"io"

	"github.com/mauserzjeh/dxt"
	"github.com/pierrec/lz4/v4"
)

// Texture formats found in the .tex header. Block-compressed payloads are
// told apart by size instead.
const (
	texFormatRGBA8888 = 0
	texFormatRG88     = 8
	texFormatR8       = 9
)

// maxTexSide caps declared mipmap dimensions before anything is allocated.
const maxTexSide = 16384

type texReader struct {
	r   io.Reader
	err error
}

func (t *texReader) u32() uint32 {
	if t.err != nil {
		return 0
	}
	var v uint32
	t.err = binary.Read(t.r, binary.LittleEndian, &v)
	return v
}

// magic reads an 8 byte tag followed by its NUL terminator.
func (t *texReader) magic() string {
	if t.err != nil {
		return ""
	}
	b := make([]byte, 9)
	if _, err := io.ReadFull(t.r, b); err != nil {
		t.err = err
		return ""
	}
	return string(bytes.TrimRight(b, "\x00"))
}

func (t *texReader) bytes(n uint32) []byte {
	if t.err != nil {
		return nil
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(t.r, b); err != nil {
		t.err = err
		return nil
	}
	return b
}

// DecodeTex decodes the first mipmap of the first image in a Wallpaper
// Engine texture and crops it to the declared image size.
func DecodeTex(r io.Reader) (image.Image, error) {
	t := &texReader{r: r}

	if magic := t.magic(); t.err == nil && magic != "TEXV0005" {
		return nil, fmt.Errorf("invalid magic: %s", magic)
	}
	_ = t.magic() // TEXI0001

	format := t.u32()
	_ = t.u32() // flags
	_ = t.u32() // texture width
	_ = t.u32() // texture height
	imgW := t.u32()
	imgH := t.u32()
	_ = t.u32()

	container := t.magic()
	imageCount := t.u32()
	if container == "TEXB0003" {
		_ = t.u32() // freeimage format
	}
	if t.err != nil {
		return nil, fmt.Errorf("read tex header: %w", t.err)
	}
	logger.Debug("Texture format %d, image %dx%d, container %s", format, imgW, imgH, container)

	if imageCount == 0 {
		return nil, fmt.Errorf("no image found in texture")
	}

	mipmapCount := t.u32()
	if t.err == nil && mipmapCount == 0 {
		return nil, fmt.Errorf("no mipmap found in texture")
	}
	mW := t.u32()
	mH := t.u32()
	var isLZ4 bool
	var decompressedSize uint32
	if container != "TEXB0001" {
		isLZ4 = t.u32() == 1
		decompressedSize = t.u32()
	}
	dataSize := t.u32()
	if t.err != nil {
		return nil, fmt.Errorf("read mipmap header: %w", t.err)
	}
	if mW == 0 || mH == 0 || mW > maxTexSide || mH > maxTexSide {
		return nil, fmt.Errorf("invalid mipmap size %dx%d", mW, mH)
	}
	// Raw payloads never exceed RGBA; LZ4 may add its worst-case overhead.
	limit := mW * mH * 4
	if isLZ4 {
		limit += limit/255 + 16
	}
	if dataSize > limit {
		return nil, fmt.Errorf("mipmap data size %d exceeds %d for %dx%d", dataSize, limit, mW, mH)
	}
	data := t.bytes(dataSize)
	if t.err != nil {
		return nil, fmt.Errorf("read mipmap data: %w", t.err)
	}

	if isLZ4 {
		if decompressedSize > mW*mH*4 {
			return nil, fmt.Errorf("lz4 size %d exceeds %dx%d rgba", decompressedSize, mW, mH)
		}
		decoded := make([]byte, decompressedSize)
		n, err := lz4.UncompressBlock(data, decoded)
		if err != nil {
			return nil, fmt.Errorf("decompress lz4: %w", err)
		}
		data = decoded[:n]
	}

	pix, err := texPixels(format, data, mW, mH)
	if err != nil {
		return nil, err
	}

	img := &image.RGBA{
		Pix:    pix,
		Stride: int(mW * 4),
		Rect:   image.Rect(0, 0, int(mW), int(mH)),
	}
	if imgW == 0 || imgH == 0 || imgW > mW || imgH > mH {
		return img, nil
	}
	return img.SubImage(image.Rect(0, 0, int(imgW), int(imgH))), nil
}

func texPixels(format uint32, data []byte, w, h uint32) ([]byte, error) {
	blocks := ((w + 3) / 4) * ((h + 3) / 4)
	size := uint32(len(data))
	rgbaSize := w * h * 4

	switch {
	case format == texFormatRGBA8888 && size == rgbaSize:
		return data, nil
	case format == texFormatR8 && size == w*h:
		pix := make([]byte, rgbaSize)
		for k, v := range data {
			pix[k*4] = v
			pix[k*4+1] = v
			pix[k*4+2] = v
			pix[k*4+3] = 255
		}
		return pix, nil
	case format == texFormatRG88 && size == w*h*2:
		pix := make([]byte, rgbaSize)
		for k := 0; k < int(w*h); k++ {
			lum, alpha := data[k*2], data[k*2+1]
			pix[k*4] = lum
			pix[k*4+1] = lum
			pix[k*4+2] = lum
			pix[k*4+3] = alpha
		}
		return pix, nil
	case size == blocks*16:
		pix, err := dxt.DecodeDXT5(data, uint(w), uint(h))
		if err != nil {
			return nil, fmt.Errorf("decode dxt5: %w", err)
		}
		return pix, nil
	case size == blocks*8:
		pix, err := dxt.DecodeDXT1(data, uint(w), uint(h))
		if err != nil {
			return nil, fmt.Errorf("decode dxt1: %w", err)
		}
		return pix, nil
	}
	return nil, fmt.Errorf("unsupported format %d with size %d", format, size)
}
