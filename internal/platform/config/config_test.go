package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"CREDITO_ADDR", "STORE_BACKEND", "EVENTS_BACKEND", "KAFKA_BROKERS", "DB_MIGRATE"} {
		t.Setenv(key, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, StorePostgres, cfg.StoreBackend)
	assert.Equal(t, EventsKafka, cfg.Events.Backend)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Database.Migrate)
	assert.Equal(t, "credit-group", cfg.Consumer.Group)
	assert.Equal(t, "credit-notification-group", cfg.Consumer.NotificationGroup)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("CREDITO_ADDR", ":9090")
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("EVENTS_BACKEND", "redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092,")
	t.Setenv("EVENTS_BREAKER_COOLDOWN", "1m")
	t.Setenv("CONSUMER_ENABLED", "false")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, StoreMemory, cfg.StoreBackend)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, time.Minute, cfg.Events.BreakerCooldown)
	assert.False(t, cfg.Consumer.Enabled)
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	t.Run("reports every malformed variable", func(t *testing.T) {
		t.Setenv("DB_MAX_OPEN_CONNS", "many")
		t.Setenv("SHUTDOWN_TIMEOUT", "soon")

		_, err := FromEnv()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DB_MAX_OPEN_CONNS")
		assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
	})

	t.Run("redis backend needs a url", func(t *testing.T) {
		t.Setenv("EVENTS_BACKEND", "redis")
		t.Setenv("REDIS_URL", "")

		_, err := FromEnv()
		assert.ErrorContains(t, err, "REDIS_URL")
	})

	t.Run("unknown store backend", func(t *testing.T) {
		t.Setenv("STORE_BACKEND", "mongo")

		_, err := FromEnv()
		assert.ErrorContains(t, err, "STORE_BACKEND")
	})
}

func TestLoadDotEnv(t *testing.T) {
	t.Run("missing file is fine", func(t *testing.T) {
		assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), ".env")))
	})

	t.Run("does not override the environment", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte("CREDITO_ADDR=:7000\nLOG_FORMAT=text\n"), 0o600))
		t.Setenv("CREDITO_ADDR", ":9999")
		t.Setenv("LOG_FORMAT", "")
		require.NoError(t, os.Unsetenv("LOG_FORMAT"))

		require.NoError(t, LoadDotEnv(path))
		assert.Equal(t, ":9999", os.Getenv("CREDITO_ADDR"))
		assert.Equal(t, "text", os.Getenv("LOG_FORMAT"))
	})
}
