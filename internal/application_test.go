package application

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/rocketscienceinc/tictactoe-solver/internal/config"
	"github.com/rocketscienceinc/tictactoe-solver/internal/minimax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(cache string) *config.Config {
	return &config.Config{
		LogLevel:  "info",
		HumanMark: "X",
		Solver: config.Solver{
			Pruning: true,
			Cache:   cache,
		},
	}
}

func TestRun(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("Plays a move and quits", func(t *testing.T) {
		// Given: an in-memory cache and a scripted human
		var out bytes.Buffer
		conf := testConfig(config.CacheMemory)

		// When: the application runs
		err := Run(context.Background(), logger, conf, strings.NewReader("1 1\nquit\n"), &out)

		// Then: the bot answered in a corner
		require.NoError(t, err)
		assert.Contains(t, out.String(), " O |   |   \n")
	})

	t.Run("Parallel search without cache", func(t *testing.T) {
		var out bytes.Buffer
		conf := testConfig(config.CacheNone)
		conf.Solver.Parallel = true
		conf.HumanMark = "o"

		err := Run(context.Background(), logger, conf, strings.NewReader(""), &out)

		require.NoError(t, err)
		assert.Contains(t, out.String(), " X |   |   \n")
	})

	t.Run("Unknown mark is rejected", func(t *testing.T) {
		conf := testConfig(config.CacheNone)
		conf.HumanMark = "Z"

		err := Run(context.Background(), logger, conf, strings.NewReader(""), io.Discard)

		require.ErrorIs(t, err, ErrUnknownHumanMark)
	})
}

func TestNewValueCache(t *testing.T) {
	ctx := context.Background()

	t.Run("Memory cache", func(t *testing.T) {
		cache, closeCache, err := newValueCache(ctx, testConfig(config.CacheMemory))

		require.NoError(t, err)
		assert.IsType(t, &minimax.MemoryCache{}, cache)
		assert.NoError(t, closeCache())
	})

	t.Run("No cache", func(t *testing.T) {
		cache, _, err := newValueCache(ctx, testConfig(config.CacheNone))

		require.NoError(t, err)
		assert.Nil(t, cache)
	})

	t.Run("Unknown cache", func(t *testing.T) {
		_, _, err := newValueCache(ctx, testConfig("disk"))

		require.ErrorIs(t, err, ErrUnknownCache)
	})

	t.Run("Redis without host", func(t *testing.T) {
		_, _, err := newValueCache(ctx, testConfig(config.CacheRedis))

		require.ErrorIs(t, err, ErrAddrNotFound)
	})
}
