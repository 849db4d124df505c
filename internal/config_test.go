package internal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"ENV", "LOG_LEVEL", "PORT", "NUMLOOKUP_API_KEY", "SESSION_STORE", "SESSION_TTL_MINUTES", "HISTORY_ENABLED", "HISTORY_LIMIT"} {
		t.Setenv(key, "")
	}

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, uint16(3000), cfg.Port)
	assert.Empty(t, cfg.Lookup.APIKey)
	assert.Equal(t, "https://api.numlookupapi.com", cfg.Lookup.BaseURL)
	assert.False(t, cfg.History.Enabled)
	assert.False(t, cfg.History.PersistFailures)
	assert.Equal(t, 10, cfg.History.Limit)
	assert.Equal(t, "memory", cfg.Session.Store)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.Contains(t, cfg.Map.TileURL, "openstreetmap")
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("ENV", "prod")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("PORT", "8080")
	t.Setenv("NUMLOOKUP_API_KEY", "key")
	t.Setenv("HISTORY_ENABLED", "true")
	t.Setenv("HISTORY_PERSIST_FAILURES", "1")
	t.Setenv("HISTORY_LIMIT", "25")
	t.Setenv("SESSION_STORE", "redis")
	t.Setenv("SESSION_TTL_MINUTES", "15")
	t.Setenv("NATS_URL", "nats://localhost:4222")
	t.Setenv("API_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, uint16(8080), cfg.Port)
	assert.Equal(t, "key", cfg.Lookup.APIKey)
	assert.True(t, cfg.History.Enabled)
	assert.True(t, cfg.History.PersistFailures)
	assert.Equal(t, 25, cfg.History.Limit)
	assert.Equal(t, "redis", cfg.Session.Store)
	assert.Equal(t, 15*time.Minute, cfg.Session.TTL)
	assert.Equal(t, "nats://localhost:4222", cfg.Events.NATSURL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.APIAllowedOrigins)
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("ENV", "staging")
	t.Setenv("LOG_LEVEL", "verbose")
	t.Setenv("SESSION_STORE", "")

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfig_UnknownSessionStore(t *testing.T) {
	t.Setenv("SESSION_STORE", "memcached")

	_, err := loadConfig()
	assert.ErrorContains(t, err, "SESSION_STORE")
}

func TestLoadConfig_ZeroSessionTTL(t *testing.T) {
	t.Setenv("SESSION_STORE", "memory")
	t.Setenv("SESSION_TTL_MINUTES", "0")

	_, err := loadConfig()
	assert.ErrorContains(t, err, "SESSION_TTL_MINUTES")
}
