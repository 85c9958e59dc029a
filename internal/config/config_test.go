package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "netops-admin-service", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.True(t, cfg.Postgres.RunMigrations)
	assert.Equal(t, "netops.ticket-events", cfg.Redis.EventChannel)
	assert.False(t, cfg.Reporting.DemoFallback, "demo data must be opt-in")
	assert.Equal(t, 7, cfg.Reporting.TrendDays)
	assert.Equal(t, time.Hour, cfg.Prediction.Interval())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("REPORTING_DEMO_FALLBACK", "true")
	t.Setenv("PREDICTION_INTERVAL_MINUTES", "15")
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.App.Addr())
	assert.True(t, cfg.Reporting.DemoFallback)
	assert.Equal(t, 15*time.Minute, cfg.Prediction.Interval())
	assert.Equal(t, 5*time.Second, cfg.App.RequestTimeout())
}

func TestLoadRejectsBadRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")
	_, err := Load()
	require.Error(t, err)
}

func TestIntervalFallback(t *testing.T) {
	p := PredictionConfig{IntervalMinutes: 0}
	assert.Equal(t, time.Hour, p.Interval())
}
