package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"APP_ENV", "HTTP_PORT", "DB_MAX_CONNS", "APP_MIGRATE", "RATE_RPS",
		"WORKER_COUNT", "REWARD_TABLE_PATH", "CORS_ORIGINS", "IDEMPOTENCY_CACHE_SIZE"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, int32(10), cfg.DBMaxConns)
	assert.False(t, cfg.Migrate)
	assert.Equal(t, 100, cfg.RateRPS)
	assert.Equal(t, 4, cfg.WorkerCount)
	assert.Empty(t, cfg.RewardTablePath)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, 1024, cfg.IdempotencyCacheSize)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("APP_MIGRATE", "true")
	t.Setenv("WORKER_COUNT", "8")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("REWARD_TABLE_PATH", "/etc/rewards.yaml")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "prod", cfg.Env)
	assert.True(t, cfg.Migrate)
	assert.Equal(t, 8, cfg.WorkerCount)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, "/etc/rewards.yaml", cfg.RewardTablePath)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct{ key, value string }{
		{"RATE_RPS", "fast"},
		{"APP_MIGRATE", "maybe"},
		{"WORKER_COUNT", "0"},
		{"DB_MAX_CONNS", "-1"},
		{"DB_MAX_CONNS", "4294967297"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_MaxConnsWithinInt32(t *testing.T) {
	t.Setenv("DB_MAX_CONNS", "2147483647")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, int32(2147483647), cfg.DBMaxConns)

	t.Setenv("DB_MAX_CONNS", "2147483648")
	_, err = Load()
	assert.ErrorContains(t, err, "DB_MAX_CONNS")
}
