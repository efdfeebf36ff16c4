package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestMustLoad(t *testing.T) {
	t.Run("Defaults fill missing keys", func(t *testing.T) {
		// Given: a config that only sets the log level
		path := writeConfig(t, "log-level: debug\n")

		// When: loading it
		conf := MustLoad(path)

		// Then: everything else falls back to defaults
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, "X", conf.HumanMark)
		assert.False(t, conf.Solver.Pruning)
		assert.False(t, conf.Solver.Parallel)
		assert.Equal(t, CacheMemory, conf.Solver.Cache)
		assert.Equal(t, "localhost:6379", conf.Redis.GetRedisAddr())
		assert.Equal(t, "minimax:", conf.Redis.KeyPrefix)
	})

	t.Run("Explicit values win", func(t *testing.T) {
		path := writeConfig(t, `
human-mark: O
solver:
  pruning: true
  parallel: true
  cache: redis
redis:
  host: cache.local
  port: "6380"
`)

		conf := MustLoad(path)

		assert.Equal(t, "O", conf.HumanMark)
		assert.True(t, conf.Solver.Pruning)
		assert.True(t, conf.Solver.Parallel)
		assert.Equal(t, CacheRedis, conf.Solver.Cache)
		assert.Equal(t, "cache.local:6380", conf.Redis.GetRedisAddr())
	})

	t.Run("Missing file panics", func(t *testing.T) {
		assert.Panics(t, func() {
			MustLoad(filepath.Join(t.TempDir(), "missing.yml"))
		})
	})
}
