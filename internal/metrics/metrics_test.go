package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/vishalbagda/MidWiseAi/internal/metrics"
)

func TestMiddleware_CountsByRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(metrics.Middleware())
	r.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	before := testutil.ToFloat64(metrics.RequestsTotal.WithLabelValues("/items/:id", "GET", "418"))
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/42", nil))
	}
	after := testutil.ToFloat64(metrics.RequestsTotal.WithLabelValues("/items/:id", "GET", "418"))

	assert.Equal(t, float64(2), after-before)
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.InFlight))
}
