package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vishalbagda/MidWiseAi/internal/ingest"
	"github.com/vishalbagda/MidWiseAi/internal/log"
	"github.com/vishalbagda/MidWiseAi/internal/service"
	"go.uber.org/zap"
)

// envelope is the success shape every route answers with.
type envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type errorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func ok(c *gin.Context, status int, data any) {
	c.JSON(status, envelope{Success: true, Data: data})
}

func fail(c *gin.Context, status int, title, msg string) {
	c.AbortWithStatusJSON(status, errorBody{Error: title, Message: msg})
}

// op names the operation for 500 bodies, e.g. {"Analysis failed", "Failed to analyze prescription"}.
type op struct {
	title string
	msg   string
}

// respondError maps service and ingest errors onto the HTTP taxonomy.
func (h *Handler) respondError(c *gin.Context, err error, o op) {
	var ie *service.InputError
	var tooBig *http.MaxBytesError
	switch {
	case errors.As(err, &ie):
		fail(c, http.StatusBadRequest, ie.Title, ie.Message)
	case errors.Is(err, service.ErrEmailTaken):
		fail(c, http.StatusBadRequest, "User already exists", "An account with this email already exists")
	case errors.Is(err, service.ErrInvalidCredentials):
		fail(c, http.StatusUnauthorized, "Invalid credentials", "Email or password is incorrect")
	case errors.Is(err, service.ErrProviderAuth):
		fail(c, http.StatusUnauthorized, "Invalid Google token", "Google sign-in could not be verified")
	case errors.Is(err, service.ErrUnauthorized):
		fail(c, http.StatusUnauthorized, "Unauthorized", "Please sign in again")
	case errors.Is(err, service.ErrSessionNotFound):
		fail(c, http.StatusNotFound, "Session not found", "Chat session does not exist")
	case errors.Is(err, ingest.ErrTooLarge), errors.As(err, &tooBig):
		fail(c, http.StatusRequestEntityTooLarge, "File too large", h.tooLargeMsg())
	case errors.Is(err, ingest.ErrOCRUnavailable):
		fail(c, http.StatusServiceUnavailable, "OCR unavailable", "Text recognition is not available on this server")
	default:
		log.WithDD(c.Request.Context(), log.L(),
			zap.String("route", c.FullPath()),
			zap.String("request_id", requestID(c)),
		).Error(o.title, zap.Error(err))
		fail(c, http.StatusInternalServerError, o.title, o.msg)
	}
}
