package report

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"
	"unicode"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/builder"
	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/filters"
	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/ir/semantic"
)

// ErrImageDecode wraps every failure to turn a signature payload into an
// image.
var ErrImageDecode = errors.New("report: image decode failed")

// DefaultMaxImageWidth is the widest raster embedded as-is.
const DefaultMaxImageWidth = 600

// ImageDecoder turns signature payloads into embeddable images.
type ImageDecoder struct {
	// MaxWidth downscales wider rasters, preserving aspect ratio. Zero
	// means DefaultMaxImageWidth; negative disables scaling.
	MaxWidth int
}

// Decode accepts raw base64 or a data:image/<fmt>;base64, URI. Padding is
// optional and whitespace is ignored.
func (d ImageDecoder) Decode(payload string) (*semantic.Image, error) {
	data, err := decodePayload(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}
	return d.DecodeBytes(data)
}

// DecodeBytes decodes an already binary PNG, JPEG, GIF, WebP or BMP raster.
func (d ImageDecoder) DecodeBytes(data []byte) (*semantic.Image, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}
	if err := filters.ValidateImageBounds(cfg.Width, cfg.Height); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrImageDecode, format, err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrImageDecode, format, err)
	}
	return builder.FromImage(d.scale(img)), nil
}

func (d ImageDecoder) scale(src image.Image) image.Image {
	limit := d.MaxWidth
	if limit == 0 {
		limit = DefaultMaxImageWidth
	}
	b := src.Bounds()
	if limit < 0 || b.Dx() <= limit {
		return src
	}
	h := b.Dy() * limit / b.Dx()
	if h < 1 {
		h = 1
	}
	dst := image.NewNRGBA(image.Rect(0, 0, limit, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

func decodePayload(payload string) ([]byte, error) {
	s := strings.TrimSpace(payload)
	if s == "" {
		return nil, errors.New("empty payload")
	}
	if strings.HasPrefix(s, "data:") {
		comma := strings.IndexByte(s, ',')
		if comma < 0 {
			return nil, errors.New("data URI without payload")
		}
		if !strings.HasSuffix(s[:comma], ";base64") {
			return nil, errors.New("data URI is not base64")
		}
		s = s[comma+1:]
	}
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	if out, err := base64.StdEncoding.DecodeString(s); err == nil {
		return out, nil
	}
	out, err := base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
	if err != nil {
		return nil, err
	}
	return out, nil
}
