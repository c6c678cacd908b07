package ingest

import (
	"context"
	"strings"
)

// OCR recognizes text in a normalized image.
type OCR interface {
	Recognize(ctx context.Context, img []byte) (string, error)
}

// Extractor routes a file to PDF parsing or image OCR by its type.
type Extractor struct {
	ocr OCR
}

func NewExtractor(ocr OCR) *Extractor { return &Extractor{ocr: ocr} }

func (e *Extractor) ExtractText(ctx context.Context, f *File) (string, error) {
	if f.IsPDF() {
		txt, err := pdfText(f.Data)
		return strings.TrimSpace(txt), err
	}
	img, err := Normalize(f.Data)
	if err != nil {
		return "", err
	}
	txt, err := e.ocr.Recognize(ctx, img)
	return strings.TrimSpace(txt), err
}
