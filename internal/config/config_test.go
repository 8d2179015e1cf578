package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Reads values from a yaml file", func(t *testing.T) {
		// Given: a config file
		path := filepath.Join(t.TempDir(), "config.yml")
		content := []byte(`log-level: debug
http-port: "8080"
storage: redis
redis:
  host: cache
  port: "6380"
computer-move-delay: 250ms
`)
		require.NoError(t, os.WriteFile(path, content, 0o600))

		// When: loading it
		conf, err := Load(path)

		// Then: file values win and the rest is defaulted
		require.NoError(t, err)
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, "8080", conf.HTTPPort)
		assert.Equal(t, "9091", conf.SocketPort)
		assert.Equal(t, StorageRedis, conf.Storage)
		assert.Equal(t, "cache:6380", conf.Redis.GetRedisAddr())
		assert.Equal(t, 250*time.Millisecond, conf.ComputerMoveDelay)
		assert.Equal(t, 24*time.Hour, conf.SessionTTL)
	})

	t.Run("Falls back to defaults without a file", func(t *testing.T) {
		// When: loading a path that does not exist
		conf, err := Load(filepath.Join(t.TempDir(), "missing.yml"))

		// Then: defaults are used
		require.NoError(t, err)
		assert.Equal(t, "info", conf.LogLevel)
		assert.Equal(t, StorageMemory, conf.Storage)
		assert.Equal(t, 500*time.Millisecond, conf.ComputerMoveDelay)
	})

	t.Run("Environment overrides defaults", func(t *testing.T) {
		// Given: env overrides
		t.Setenv("HTTP_PORT", "7070")
		t.Setenv("COMPUTER_MOVE_DELAY", "1s")

		// When: loading without a file
		conf, err := Load(filepath.Join(t.TempDir(), "missing.yml"))

		// Then: env values are used
		require.NoError(t, err)
		assert.Equal(t, "7070", conf.HTTPPort)
		assert.Equal(t, time.Second, conf.ComputerMoveDelay)
	})

	t.Run("Unknown storage is rejected", func(t *testing.T) {
		t.Setenv("STORAGE", "postgres")

		_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))

		require.ErrorIs(t, err, ErrUnknownStorage)
	})
}

func TestMustLoad_Panics(t *testing.T) {
	t.Setenv("STORAGE", "postgres")

	assert.Panics(t, func() {
		MustLoad(filepath.Join(t.TempDir(), "missing.yml"))
	})
}
