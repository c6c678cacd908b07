package http

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/vishalbagda/MidWiseAi/internal/log"
	"github.com/vishalbagda/MidWiseAi/internal/repo"
	"github.com/vishalbagda/MidWiseAi/internal/service"
	"go.uber.org/zap"
)

const (
	headerRequestID = "X-Request-ID"
	ctxUID          = "uid"
)

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(headerRequestID))
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(headerRequestID, id)
		c.Header(headerRequestID, id)
		c.Next()
	}
}

func requestID(c *gin.Context) string { return c.GetString(headerRequestID) }

// Logger writes one line per request with Datadog correlation ids.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		l := log.WithDD(c.Request.Context(), log.L(),
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", requestID(c)),
		)
		if c.Writer.Status() >= http.StatusInternalServerError {
			l.Warn("request")
			return
		}
		l.Info("request")
	}
}

// Limiter decides whether key may make another call in the current window.
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

type bucket struct {
	tokens  int
	updated time.Time
}

// RateLimiter is the in-process limiter, one bucket per key.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	rate    int           // максимальное кол-во за окно
	window  time.Duration // окно
	swept   time.Time
	now     func() time.Time
}

func NewRateLimiter(rate int, window time.Duration) *RateLimiter {
	return &RateLimiter{buckets: make(map[string]*bucket), rate: rate, window: window, now: time.Now}
}

func (rl *RateLimiter) Allow(_ context.Context, key string) bool {
	now := rl.now()
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.evict(now)
	b, ok := rl.buckets[key]
	if !ok || now.Sub(b.updated) > rl.window {
		rl.buckets[key] = &bucket{tokens: 1, updated: now}
		return true
	}
	if b.tokens < rl.rate {
		b.tokens++
		b.updated = now
		return true
	}
	return false
}

// evict drops buckets whose window has passed, at most once per window.
func (rl *RateLimiter) evict(now time.Time) {
	if now.Sub(rl.swept) < rl.window {
		return
	}
	rl.swept = now
	for k, b := range rl.buckets {
		if now.Sub(b.updated) > rl.window {
			delete(rl.buckets, k)
		}
	}
}

// RedisLimiter shares the window across replicas. When Redis errors it falls
// back to the local limiter rather than failing the request.
type RedisLimiter struct {
	rds      *repo.Redis
	rate     int
	window   time.Duration
	fallback *RateLimiter
}

func NewRedisLimiter(rds *repo.Redis, rate int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{rds: rds, rate: rate, window: window, fallback: NewRateLimiter(rate, window)}
}

func (rl *RedisLimiter) Allow(ctx context.Context, key string) bool {
	n, err := rl.rds.IncrWithExpire(ctx, "rl:"+key, rl.window)
	if err != nil {
		log.Ctx(ctx).Warn("redis rate limit unavailable", zap.Error(err))
		return rl.fallback.Allow(ctx, key)
	}
	return n <= int64(rl.rate)
}

func ClientIP(c *gin.Context) string {
	ip := c.ClientIP()
	if ip == "" {
		ip = "unknown"
	}
	host, _, err := net.SplitHostPort(ip)
	if err == nil && host != "" {
		return host
	}
	return ip
}

// RateLimit guards the model-backed routes. A nil limiter disables it.
func RateLimit(l Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if l == nil {
			c.Next()
			return
		}
		if !l.Allow(c.Request.Context(), ClientIP(c)) {
			fail(c, http.StatusTooManyRequests, "Too many requests", "Please slow down and try again in a minute")
			return
		}
		c.Next()
	}
}

func bearer(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if !strings.HasPrefix(strings.ToLower(h), "bearer ") {
		return ""
	}
	return strings.TrimSpace(h[len("Bearer "):])
}

func AuthJWT(a *service.Auth) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok := bearer(c)
		if tok == "" {
			fail(c, http.StatusUnauthorized, "Unauthorized", "missing bearer token")
			return
		}
		uid, err := a.Authenticate(tok)
		if err != nil || uid == "" {
			fail(c, http.StatusUnauthorized, "Unauthorized", "invalid token")
			return
		}
		c.Set(ctxUID, uid)
		c.Next()
	}
}

// OptionalAuth sets uid when a valid bearer token is present and lets anonymous
// callers through otherwise.
func OptionalAuth(a *service.Auth) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tok := bearer(c); tok != "" {
			if uid, err := a.Authenticate(tok); err == nil {
				c.Set(ctxUID, uid)
			}
		}
		c.Next()
	}
}
