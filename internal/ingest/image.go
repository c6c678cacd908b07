package ingest

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

const ocrWidth = 1200

// Normalize prepares a photo for OCR: fit to 1200px width (never enlarge),
// greyscale, stretch contrast, sharpen. Output is PNG.
func Normalize(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if img.Bounds().Dx() > ocrWidth {
		img = imaging.Resize(img, ocrWidth, 0, imaging.Lanczos)
	}
	gray := imaging.Grayscale(img)
	gray = stretch(gray)
	gray = imaging.Sharpen(gray, 1.0)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, gray, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// stretch линейно растягивает яркость на весь диапазон 0..255.
func stretch(img *image.NRGBA) *image.NRGBA {
	lo, hi := uint8(255), uint8(0)
	for i := 0; i < len(img.Pix); i += 4 {
		v := img.Pix[i]
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if hi <= lo {
		return img
	}
	scale := 255.0 / float64(hi-lo)
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		v := uint8(float64(c.R-lo) * scale)
		return color.NRGBA{R: v, G: v, B: v, A: c.A}
	})
}
