//go:build !tesseract

package ingest

import "context"

// OCREnabled reports whether the binary was built with -tags tesseract.
const OCREnabled = false

type noOCR struct{}

// NewTesseract without the tesseract build tag returns an engine that always
// fails with ErrOCRUnavailable. PDF extraction keeps working.
func NewTesseract(string) OCR { return noOCR{} }

func (noOCR) Recognize(context.Context, []byte) (string, error) { return "", ErrOCRUnavailable }
