package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"APP_ENV", "PORT", "DB_PATH", "REDIS_ADDR", "RATE_LIMIT_PER_MIN", "CORS_ORIGINS", "HTTP_READ_TIMEOUT"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "3000", cfg.HTTPPort)
	assert.Equal(t, "./database/lab_management.db", cfg.DBPath)
	assert.Equal(t, "", cfg.RedisAddr)
	assert.Equal(t, 300, cfg.RateLimitPerMin)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, 15*time.Second, cfg.ReadTimeout)
	assert.False(t, cfg.Production())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("DB_PATH", "/tmp/x.db")
	t.Setenv("RATE_LIMIT_PER_MIN", "12")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("HTTP_READ_TIMEOUT", "3s")

	cfg := Load()
	assert.True(t, cfg.Production())
	assert.Equal(t, "/tmp/x.db", cfg.DBPath)
	assert.Equal(t, 12, cfg.RateLimitPerMin)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, 3*time.Second, cfg.ReadTimeout)
}

func TestLoadMalformedFallsBack(t *testing.T) {
	t.Setenv("RATE_LIMIT_PER_MIN", "lots")
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")

	cfg := Load()
	assert.Equal(t, 300, cfg.RateLimitPerMin)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}
