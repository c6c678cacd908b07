//go:build tesseract

package ingest

import (
	"context"

	"github.com/otiai10/gosseract/v2"
)

const OCREnabled = true

type Tesseract struct{ lang string }

// NewTesseract needs libtesseract; build with -tags tesseract.
func NewTesseract(lang string) OCR { return &Tesseract{lang: lang} }

func (t *Tesseract) Recognize(ctx context.Context, img []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(t.lang); err != nil {
		return "", err
	}
	if err := client.SetImageFromBytes(img); err != nil {
		return "", err
	}
	return client.Text()
}
