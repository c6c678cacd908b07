package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vishalbagda/MidWiseAi/internal/ingest"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

// MaxBody caps the request body; multipart overhead is added on top of the upload limit.
func MaxBody(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if n > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		}
		c.Next()
	}
}

// readUpload returns (nil, nil) when the field is absent so services can answer
// with their own "no file" message.
func (h *Handler) readUpload(c *gin.Context, field string) (*ingest.File, error) {
	var f *ingest.File
	err := WithSpan(c.Request.Context(), "upload.read", func(ctx context.Context) error {
		fh, err := c.FormFile(field)
		if err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				return ingest.ErrTooLarge
			}
			// нет поля или не multipart
			return nil
		}
		if sp, ok := tracer.SpanFromContext(ctx); ok {
			sp.SetTag("upload.size", fh.Size)
		}
		f, err = ingest.Read(fh, h.UploadMaxBytes)
		return err
	})
	return f, err
}
