package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests"},
		[]string{"route", "method", "status"},
	)
	ReqDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Request duration seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	InFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "http_in_flight_requests", Help: "In-flight HTTP requests"},
	)

	AIRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "ai_requests_total", Help: "Generative model calls by feature and outcome"},
		[]string{"feature", "outcome"},
	)
	AIFallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "ai_fallbacks_total", Help: "Static fallback payloads served"},
		[]string{"feature", "reason"},
	)
	ChatSessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "chat_sessions_active", Help: "Chat sessions held by the in-memory store"},
	)
	ChatSessionsSwept = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "chat_sessions_swept_total", Help: "Chat sessions removed for inactivity"},
	)
)

func MustRegister() {
	prometheus.MustRegister(
		RequestsTotal, ReqDuration, InFlight,
		AIRequests, AIFallbacks,
		ChatSessionsActive, ChatSessionsSwept,
	)
}

// Middleware records request count, latency and in-flight gauge per matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		InFlight.Inc()
		defer InFlight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		RequestsTotal.WithLabelValues(route, method, strconv.Itoa(c.Writer.Status())).Inc()
		ReqDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
	}
}
