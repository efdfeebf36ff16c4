package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-solver/internal/config"
	"github.com/rocketscienceinc/tictactoe-solver/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solver/internal/minimax"
	"github.com/rocketscienceinc/tictactoe-solver/internal/repository"
	"github.com/rocketscienceinc/tictactoe-solver/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-solver/internal/service"
	"github.com/rocketscienceinc/tictactoe-solver/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-solver/transport/console"
)

var (
	ErrAddrNotFound      = errors.New("redis host is empty")
	ErrUnknownCache      = errors.New("unknown solver cache")
	ErrUnknownHumanMark  = errors.New("unknown human mark")
	errConsoleTerminated = errors.New("console terminated")
)

// RunApp - runs the application on the process's stdin and stdout.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	return Run(ctx, logger, conf, os.Stdin, os.Stdout)
}

// Run wires the solver stack and plays games until the console stops or ctx is done.
func Run(ctx context.Context, logger *slog.Logger, conf *config.Config, in io.Reader, out io.Writer) error {
	log := logger.With("component", "app")

	humanMark, err := parseMark(conf.HumanMark)
	if err != nil {
		return err
	}

	cache, closeCache, err := newValueCache(ctx, conf)
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := closeCache(); closeErr != nil {
			log.Error("could not close value cache", "error", closeErr)
		}
	}()

	opts := []minimax.Option{minimax.WithLogger(logger)}
	if conf.Solver.Pruning {
		opts = append(opts, minimax.WithPruning())
	}
	if conf.Solver.Parallel {
		opts = append(opts, minimax.WithParallelRoot())
	}
	if cache != nil {
		opts = append(opts, minimax.WithCache(cache))
	}

	searcher := minimax.NewSearcher(opts...)
	botService := service.NewBotService(searcher)
	gameManager := usecase.NewGameManager(logger, botService)

	// run console driver
	consoleErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting console", "human_mark", humanMark.String(), "cache", conf.Solver.Cache)
		consoleServer := console.New(logger, gameManager, humanMark, out)
		consoleErrCh <- consoleServer.Start(ctx, in)
	}()

	select {
	case err = <-consoleErrCh:
		if err != nil {
			return fmt.Errorf("%w: %w", errConsoleTerminated, err)
		}

		stats := searcher.Stats()
		log.Info("Console closed", "nodes", stats.Nodes, "cache_hits", stats.CacheHits)

		return nil
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

// newValueCache returns nil when caching is off; the closer is always safe to call.
func newValueCache(ctx context.Context, conf *config.Config) (minimax.ValueCache, func() error, error) {
	noop := func() error { return nil }

	switch conf.Solver.Cache {
	case config.CacheNone, "":
		return nil, noop, nil
	case config.CacheMemory:
		return minimax.NewMemoryCache(), noop, nil
	case config.CacheRedis:
		if conf.Redis.Host == "" {
			return nil, noop, ErrAddrNotFound
		}

		client, err := storage.New(ctx, conf.Redis.GetRedisAddr())
		if err != nil {
			return nil, noop, fmt.Errorf("could not connect to redis storage: %w", err)
		}

		return repository.NewValueRepository(client, conf.Redis.KeyPrefix), client.Close, nil
	default:
		return nil, noop, fmt.Errorf("%w: %q", ErrUnknownCache, conf.Solver.Cache)
	}
}

func parseMark(s string) (entity.Mark, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "X":
		return entity.X, nil
	case "O":
		return entity.O, nil
	default:
		return entity.Empty, fmt.Errorf("%w: %q", ErrUnknownHumanMark, s)
	}
}
