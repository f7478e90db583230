package media

import (
	"bytes"
	"encoding/binary"
	"image"
	"testing"

	"github.com/pierrec/lz4/v4"
)

type texFixture struct {
	format     uint32
	imgW, imgH uint32
	mipW, mipH uint32
	container  string
	lz4        bool
	rawSize    uint32
	payload    []byte
}

func (f texFixture) bytes() []byte {
	var buf bytes.Buffer
	magic := func(s string) { buf.WriteString(s); buf.WriteByte(0) }
	u32 := func(v uint32) { binary.Write(&buf, binary.LittleEndian, v) }

	magic("TEXV0005")
	magic("TEXI0001")
	u32(f.format)
	u32(0)
	u32(f.mipW)
	u32(f.mipH)
	u32(f.imgW)
	u32(f.imgH)
	u32(0)
	magic(f.container)
	u32(1) // image count
	if f.container == "TEXB0003" {
		u32(0)
	}
	u32(1) // mipmap count
	u32(f.mipW)
	u32(f.mipH)
	if f.container != "TEXB0001" {
		if f.lz4 {
			u32(1)
		} else {
			u32(0)
		}
		u32(f.rawSize)
	}
	u32(uint32(len(f.payload)))
	buf.Write(f.payload)
	return buf.Bytes()
}

func rgbaPattern(w, h int) []byte {
	pix := make([]byte, w*h*4)
	for i := 0; i < w*h; i++ {
		pix[i*4] = 200
		pix[i*4+1] = 100
		pix[i*4+2] = 50
		pix[i*4+3] = 255
	}
	return pix
}

func TestDecodeTexRGBA(t *testing.T) {
	pix := rgbaPattern(4, 4)
	data := texFixture{
		format: 0, imgW: 3, imgH: 2, mipW: 4, mipH: 4,
		container: "TEXB0001", payload: pix,
	}.bytes()

	img, err := DecodeTex(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := img.Bounds(); got != image.Rect(0, 0, 3, 2) {
		t.Fatalf("bounds = %v, want cropped 3x2", got)
	}
	r, g, b, a := img.At(1, 1).RGBA()
	if r>>8 != 200 || g>>8 != 100 || b>>8 != 50 || a>>8 != 255 {
		t.Fatalf("pixel = %d,%d,%d,%d", r>>8, g>>8, b>>8, a>>8)
	}
}

func TestDecodeTexLZ4(t *testing.T) {
	pix := rgbaPattern(8, 8)
	compressed := make([]byte, lz4.CompressBlockBound(len(pix)))
	n, err := lz4.CompressBlock(pix, compressed, nil)
	if err != nil || n == 0 {
		t.Fatalf("compress: n=%d err=%v", n, err)
	}
	data := texFixture{
		format: 0, imgW: 8, imgH: 8, mipW: 8, mipH: 8,
		container: "TEXB0003", lz4: true, rawSize: uint32(len(pix)), payload: compressed[:n],
	}.bytes()

	img, err := DecodeTex(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := img.Bounds().Dx(); got != 8 {
		t.Fatalf("width = %d, want 8", got)
	}
	if _, _, b, _ := img.At(7, 7).RGBA(); b>>8 != 50 {
		t.Fatalf("blue = %d, want 50", b>>8)
	}
}

func TestDecodeTexR8(t *testing.T) {
	data := texFixture{
		format: texFormatR8, imgW: 2, imgH: 2, mipW: 2, mipH: 2,
		container: "TEXB0002", payload: []byte{10, 20, 30, 40},
	}.bytes()
	img, err := DecodeTex(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if r, _, _, a := img.At(1, 1).RGBA(); r>>8 != 40 || a>>8 != 255 {
		t.Fatalf("pixel = %d alpha %d", r>>8, a>>8)
	}
}

func TestDecodeTexRG88(t *testing.T) {
	data := texFixture{
		format: texFormatRG88, imgW: 2, imgH: 2, mipW: 2, mipH: 2,
		container: "TEXB0002", payload: []byte{10, 255, 20, 128, 30, 0, 40, 64},
	}.bytes()
	img, err := DecodeTex(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if r, g, _, a := img.At(1, 0).RGBA(); r>>8 != 20 || g>>8 != 20 || a>>8 != 128 {
		t.Fatalf("pixel = %d,%d alpha %d", r>>8, g>>8, a>>8)
	}
}

func TestDecodeTexBlockCompressed(t *testing.T) {
	type tc struct {
		format     uint32
		payload    []byte
		r, g, b, a uint32
	}
	tests := map[string]tc{
		// One 4x4 block, every index 0 selecting color0 (565 red).
		"dxt1": {
			format:  7,
			payload: []byte{0x00, 0xf8, 0x00, 0x00, 0, 0, 0, 0},
			r:       255, a: 255,
		},
		// Alpha endpoints 255/255 make every alpha index opaque; color0 is 565 green.
		"dxt5": {
			format: 4,
			payload: []byte{
				0xff, 0xff, 0, 0, 0, 0, 0, 0,
				0xe0, 0x07, 0x00, 0x00, 0, 0, 0, 0,
			},
			g: 255, a: 255,
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			data := texFixture{
				format: tt.format, imgW: 4, imgH: 4, mipW: 4, mipH: 4,
				container: "TEXB0002", payload: tt.payload,
			}.bytes()
			img, err := DecodeTex(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got := img.Bounds(); got != image.Rect(0, 0, 4, 4) {
				t.Fatalf("bounds = %v", got)
			}
			for _, p := range []image.Point{{0, 0}, {3, 3}, {2, 1}} {
				r, g, b, a := img.At(p.X, p.Y).RGBA()
				if r>>8 != tt.r || g>>8 != tt.g || b>>8 != tt.b || a>>8 != tt.a {
					t.Fatalf("pixel %v = %d,%d,%d,%d", p, r>>8, g>>8, b>>8, a>>8)
				}
			}
		})
	}
}

func TestDecodeTexRejectsOversizedData(t *testing.T) {
	data := texFixture{
		format: 0, imgW: 4, imgH: 4, mipW: 4, mipH: 4, container: "TEXB0001",
	}.bytes()
	// The payload is empty, so the data size is the last field.
	binary.LittleEndian.PutUint32(data[len(data)-4:], 0xffffffff)

	if _, err := DecodeTex(bytes.NewReader(data)); err == nil {
		t.Fatal("expected error for data size beyond the mipmap")
	}
}

func TestDecodeTexErrors(t *testing.T) {
	tests := map[string][]byte{
		"empty":     nil,
		"bad magic": append([]byte("NOTATEX0\x00"), make([]byte, 64)...),
		"truncated": texFixture{format: 0, imgW: 4, imgH: 4, mipW: 4, mipH: 4, container: "TEXB0001", payload: rgbaPattern(4, 4)}.bytes()[:60],
		"bad size":  texFixture{format: 0, imgW: 4, imgH: 4, mipW: 4, mipH: 4, container: "TEXB0001", payload: []byte{1, 2, 3}}.bytes(),
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := DecodeTex(bytes.NewReader(data)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestDecodeImageDispatchesOnExtension(t *testing.T) {
	data := texFixture{
		format: 0, imgW: 4, imgH: 4, mipW: 4, mipH: 4,
		container: "TEXB0001", payload: rgbaPattern(4, 4),
	}.bytes()
	if _, err := DecodeImage("covers/a.TEX", data); err != nil {
		t.Fatalf("decode .tex: %v", err)
	}
	if _, err := DecodeImage("covers/a.png", data); err == nil {
		t.Fatal("tex bytes should not decode as png")
	}
}
