package config_test

import (
	"testing"
	"time"

	"go-vacation/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"APP_ENV", "PORT", "DB_AUTO_MIGRATE", "ROSTER_CACHE_TTL", "OTEL_ENABLED", "OTEL_SAMPLER_RATIO"} {
		t.Setenv(key, "")
	}

	cfg := config.Load()

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "3000", cfg.Port)
	assert.False(t, cfg.Database.AutoMigrate)
	assert.Equal(t, 5, cfg.Database.MaxRetries)
	assert.Equal(t, 30*time.Minute, cfg.RosterCacheTTL)
	assert.False(t, cfg.Tracing.Enabled)
	assert.Equal(t, 0.1, cfg.Tracing.SampleRatio)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("PORT", "8080")
	t.Setenv("DB_AUTO_MIGRATE", "true")
	t.Setenv("ROSTER_CACHE_TTL", "5m")
	t.Setenv("OTEL_ENABLED", "yes")
	t.Setenv("OTEL_SAMPLER_RATIO", "4")
	t.Setenv("RATE_LIMIT_BURST", "not-a-number")

	cfg := config.Load()

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Equal(t, 5*time.Minute, cfg.RosterCacheTTL)
	assert.True(t, cfg.Tracing.Enabled)
	assert.Equal(t, 1.0, cfg.Tracing.SampleRatio)
	assert.Equal(t, 40, cfg.RateLimitBurst)
}
