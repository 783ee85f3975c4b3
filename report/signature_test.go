package report

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"golang.org/x/image/bmp"
)

func strokeImage(w, h int, transparent bool) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	bg := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	if transparent {
		bg = color.NRGBA{}
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, bg)
		}
	}
	for x := 0; x < w; x++ {
		img.SetNRGBA(x, h/2, color.NRGBA{A: 255})
	}
	return img
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, strokeImage(w, h, true)); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func signaturePNG(t *testing.T, w, h int) string {
	t.Helper()
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes(t, w, h))
}

func TestDecodePayloadForms(t *testing.T) {
	raw := pngBytes(t, 20, 10)
	std := base64.StdEncoding.EncodeToString(raw)
	unpadded := strings.TrimRight(std, "=")
	wrapped := std[:10] + "\n  " + std[10:20] + "\t" + std[20:]

	tests := map[string]string{
		"data uri":   "data:image/png;base64," + std,
		"raw":        std,
		"unpadded":   unpadded,
		"whitespace": " " + wrapped + "\n",
	}
	for name, payload := range tests {
		img, err := ImageDecoder{}.Decode(payload)
		if err != nil {
			t.Fatalf("%s: decode: %v", name, err)
		}
		if img.Width != 20 || img.Height != 10 {
			t.Fatalf("%s: size = %dx%d, want 20x10", name, img.Width, img.Height)
		}
		if img.SMask == nil {
			t.Fatalf("%s: transparent png should carry a soft mask", name)
		}
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	for _, payload := range []string{
		"",
		"no es base64!!",
		"data:image/png;base64",
		"data:image/png," + base64.StdEncoding.EncodeToString([]byte("x")),
		base64.StdEncoding.EncodeToString([]byte("not an image at all")),
	} {
		if _, err := (ImageDecoder{}).Decode(payload); !errors.Is(err, ErrImageDecode) {
			t.Fatalf("Decode(%q) error = %v, want ErrImageDecode", payload, err)
		}
	}
}

func TestDecodeOtherFormats(t *testing.T) {
	src := strokeImage(30, 12, false)
	encoders := map[string]func(*bytes.Buffer) error{
		"jpeg": func(b *bytes.Buffer) error { return jpeg.Encode(b, src, nil) },
		"gif":  func(b *bytes.Buffer) error { return gif.Encode(b, src, nil) },
		"bmp":  func(b *bytes.Buffer) error { return bmp.Encode(b, src) },
	}
	for name, enc := range encoders {
		var buf bytes.Buffer
		if err := enc(&buf); err != nil {
			t.Fatalf("%s: encode: %v", name, err)
		}
		img, err := ImageDecoder{}.DecodeBytes(buf.Bytes())
		if err != nil {
			t.Fatalf("%s: decode: %v", name, err)
		}
		if img.Width != 30 || img.Height != 12 {
			t.Fatalf("%s: size = %dx%d", name, img.Width, img.Height)
		}
		if img.SMask != nil {
			t.Fatalf("%s: opaque image should not carry a mask", name)
		}
		if len(img.Data) != 30*12*3 {
			t.Fatalf("%s: data length = %d", name, len(img.Data))
		}
	}
}

func TestDecodeDownscalesWideImages(t *testing.T) {
	img, err := ImageDecoder{}.DecodeBytes(pngBytes(t, 1200, 300))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Width != DefaultMaxImageWidth || img.Height != 150 {
		t.Fatalf("size = %dx%d, want 600x150", img.Width, img.Height)
	}

	img, err = ImageDecoder{MaxWidth: -1}.DecodeBytes(pngBytes(t, 1200, 300))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Width != 1200 {
		t.Fatalf("scaling disabled but width = %d", img.Width)
	}
}

func TestCanvasImageErrors(t *testing.T) {
	c := NewCanvas(100, 100)
	c.NewPage(PageFullHeader)
	if err := c.Image(nil, 0, 0, 10, 10, true); !errors.Is(err, ErrImageDraw) {
		t.Fatalf("nil image error = %v", err)
	}
	img, err := ImageDecoder{}.DecodeBytes(pngBytes(t, 4, 4))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if err := c.Image(img, 0, 0, 0, 10, true); !errors.Is(err, ErrImageDraw) {
		t.Fatalf("empty box error = %v", err)
	}
	if err := c.Image(img, 0, 0, 10, 10, true); err != nil {
		t.Fatalf("valid image: %v", err)
	}
	if got := len(c.Document().Pages[0].Ops); got != 1 {
		t.Fatalf("recorded %d ops, want 1", got)
	}
}
