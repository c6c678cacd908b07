package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vishalbagda/MidWiseAi/internal/service"
)

type Handler struct {
	Auth      *service.Auth
	Analyzer  *service.Analyzer
	OTC       *service.OTC
	Donations *service.Donations
	Chat      *service.Chat

	// Health is checked by /healthz; nil means always healthy.
	Health         func(ctx context.Context) error
	PingReply      string
	UploadMaxBytes int64
}

func (h *Handler) tooLargeMsg() string {
	return fmt.Sprintf("File size exceeds %dMB limit", h.UploadMaxBytes>>20)
}

// Ping godoc
// @Summary Ping
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Router /api/ping [get]
func (h *Handler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": h.PingReply})
}

// Healthz godoc
// @Summary Liveness and Mongo connectivity
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /healthz [get]
func (h *Handler) Healthz(c *gin.Context) {
	if h.Health != nil {
		if err := h.Health(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
