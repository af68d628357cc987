package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "REDIS_DB", "DB_ENABLED", "REDIS_ENABLED", "PIPELINE_RETRIES", "MLFLOW_TRACKING_URI", "CORS_ALLOW_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.RequestTimeout)
	assert.Len(t, cfg.Server.AllowOrigins, 5)
	assert.False(t, cfg.Database.Enabled)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, uint32(5), cfg.FeatureStore.FailureThreshold)
	assert.Equal(t, "easy11-ml", cfg.MLflow.Experiment)
	assert.Equal(t, "0 2 * * *", cfg.Pipeline.ETLSchedule)
	assert.Equal(t, 3, cfg.Pipeline.Retries)
	assert.Equal(t, time.Minute, cfg.Pipeline.RetryDelay)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("CORS_ALLOW_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("PIPELINE_RETRY_DELAY", "5s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 2, cfg.Redis.RedisDB)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowOrigins)
	assert.Equal(t, 5*time.Second, cfg.Pipeline.RetryDelay)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string][2]string{
		"redis db":          {"REDIS_DB", "one"},
		"request timeout":   {"REQUEST_TIMEOUT", "soon"},
		"zero timeout":      {"REQUEST_TIMEOUT", "0s"},
		"negative timeout":  {"REQUEST_TIMEOUT", "-5s"},
		"breaker threshold": {"FEATURE_STORE_BREAKER_THRESHOLD", "0"},
		"negative retries":  {"PIPELINE_RETRIES", "-1"},
	}

	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			_, err := Load()
			assert.ErrorContains(t, err, kv[0])
		})
	}
}

func TestLoad_DatabaseNeedsPassword(t *testing.T) {
	t.Setenv("DB_ENABLED", "true")
	t.Setenv("DB_PASSWORD", "")

	_, err := Load()
	assert.EqualError(t, err, "missing database password")
}
