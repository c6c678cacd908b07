package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("AI_MODEL", "")
	t.Setenv("TOKEN_TTL_DAYS", "")
	t.Setenv("UPLOAD_MAX_MB", "")
	t.Setenv("TRUSTED_PROXIES", "")

	cfg := Load()
	assert.Equal(t, "gemini-2.0-flash", cfg.AIModel)
	assert.Equal(t, 7*24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, int64(10<<20), cfg.UploadMaxBytes)
	assert.Equal(t, 3, cfg.AIRetries)
	assert.Equal(t, 2*time.Second, cfg.AIRetryDelay)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.Empty(t, cfg.TrustedProxies)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("AI_MODEL", "gemini-1.5-pro")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test ,")
	t.Setenv("SESSION_TTL_MIN", "5")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8")

	cfg := Load()
	assert.Equal(t, "gemini-1.5-pro", cfg.AIModel)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigin)
	assert.Equal(t, []string{"10.0.0.0/8"}, cfg.TrustedProxies)
	assert.Equal(t, 5*time.Minute, cfg.SessionTTL)
}
