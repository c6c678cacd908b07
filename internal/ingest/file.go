// Package ingest validates uploads and turns them into plain text.
package ingest

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrTooLarge       = errors.New("file too large")
	ErrOCRUnavailable = errors.New("ocr engine is not available in this build")
)

var (
	PrescriptionTypes = []string{"application/pdf", "image/jpeg", "image/png", "image/gif", "image/webp"}
	ImageTypes        = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}
)

// File is an upload read fully into memory; MIME is sniffed from content.
type File struct {
	Name string
	Size int64
	MIME string
	Data []byte
}

type FileInfo struct {
	Name string `json:"name"`
	Size string `json:"size"`
	Type string `json:"type"`
}

// Read loads the multipart file, refusing anything above maxBytes.
func Read(fh *multipart.FileHeader, maxBytes int64) (*File, error) {
	if maxBytes > 0 && fh.Size > maxBytes {
		return nil, ErrTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	r := io.Reader(f)
	if maxBytes > 0 {
		r = io.LimitReader(f, maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, ErrTooLarge
	}
	return FromBytes(fh.Filename, data), nil
}

func FromBytes(name string, data []byte) *File {
	return &File{
		Name: name,
		Size: int64(len(data)),
		MIME: mimetype.Detect(data).String(),
		Data: data,
	}
}

// Validate reports whether the sniffed type is one of allowed.
func Validate(f *File, allowed []string) bool {
	return f != nil && mimetype.EqualsAny(f.MIME, allowed...)
}

func (f *File) Info() FileInfo {
	return FileInfo{Name: f.Name, Size: humanize.Bytes(uint64(f.Size)), Type: f.MIME}
}

func (f *File) IsPDF() bool { return mimetype.EqualsAny(f.MIME, "application/pdf") }
