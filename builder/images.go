package builder

import (
	"image"
	"image/draw"

	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/ir/semantic"
)

// FromImage converts a decoded raster to an 8-bit DeviceRGB image. When any
// pixel is not fully opaque the alpha channel is attached as a DeviceGray
// soft mask.
func FromImage(src image.Image) *semantic.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	nrgba, ok := src.(*image.NRGBA)
	if !ok || bounds.Min != (image.Point{}) {
		nrgba = image.NewNRGBA(image.Rect(0, 0, w, h))
		draw.Draw(nrgba, nrgba.Bounds(), src, bounds.Min, draw.Src)
	}

	pixels := make([]byte, 0, w*h*3)
	alpha := make([]byte, 0, w*h)
	hasAlpha := false
	for y := 0; y < h; y++ {
		row := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+w*4]
		for x := 0; x < w*4; x += 4 {
			pixels = append(pixels, row[x], row[x+1], row[x+2])
			a := row[x+3]
			alpha = append(alpha, a)
			if a < 255 {
				hasAlpha = true
			}
		}
	}

	img := &semantic.Image{
		Width:            w,
		Height:           h,
		ColorSpace:       semantic.DeviceColorSpace{Name: "DeviceRGB"},
		BitsPerComponent: 8,
		Data:             pixels,
	}
	if hasAlpha {
		img.SMask = &semantic.Image{
			Width:            w,
			Height:           h,
			ColorSpace:       semantic.DeviceColorSpace{Name: "DeviceGray"},
			BitsPerComponent: 8,
			Data:             alpha,
		}
	}
	return img
}
