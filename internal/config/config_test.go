package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	t.Run("Reads the yaml file", func(t *testing.T) {
		// Given: a config file selecting redis
		path := writeConfig(t, `
log-level: debug
base-url: https://play.example.org/
poll-interval: 250ms
transport: redis
redis:
  host: cache
  port: "6380"
  key-ttl: 1h
`)

		// When: loading it
		conf, err := Load(path)

		// Then: the values are taken from the file
		require.NoError(t, err)
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, "https://play.example.org/", conf.BaseURL)
		assert.Equal(t, 250*time.Millisecond, conf.PollInterval)
		assert.Equal(t, TransportRedis, conf.Transport)
		assert.Equal(t, "cache:6380", conf.Redis.GetRedisAddr())
		assert.Equal(t, time.Hour, conf.Redis.KeyTTL)
	})

	t.Run("Defaults when the file is missing", func(t *testing.T) {
		// When: loading a path that does not exist
		conf, err := Load(filepath.Join(t.TempDir(), "missing.yml"))

		// Then: the defaults apply
		require.NoError(t, err)
		assert.Equal(t, "info", conf.LogLevel)
		assert.Equal(t, time.Second, conf.PollInterval)
		assert.Equal(t, TransportURL, conf.Transport)
		assert.Equal(t, "localhost:6379", conf.Redis.GetRedisAddr())
	})

	t.Run("Environment overrides the file", func(t *testing.T) {
		path := writeConfig(t, "transport: url\n")
		t.Setenv("POLL_INTERVAL", "2s")

		conf, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, 2*time.Second, conf.PollInterval)
	})

	t.Run("Unknown transport", func(t *testing.T) {
		path := writeConfig(t, "transport: carrier-pigeon\n")

		_, err := Load(path)

		require.ErrorIs(t, err, ErrUnknownTransport)
	})

	t.Run("MustLoad panics on invalid config", func(t *testing.T) {
		path := writeConfig(t, "poll-interval: -1s\n")

		assert.Panics(t, func() {
			MustLoad(path)
		})
	})
}
