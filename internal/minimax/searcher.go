package minimax

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sync/atomic"

	"github.com/rocketscienceinc/tictactoe-solver/internal/entity"
	"golang.org/x/sync/errgroup"
)

type Option func(*Searcher)

// WithPruning enables alpha-beta pruning.
func WithPruning() Option {
	return func(that *Searcher) {
		that.pruning = true
	}
}

// WithCache memoises exact values of visited boards in cache.
func WithCache(cache ValueCache) Option {
	return func(that *Searcher) {
		that.cache = cache
	}
}

// WithParallelRoot evaluates the children of the root concurrently.
func WithParallelRoot() Option {
	return func(that *Searcher) {
		that.parallel = true
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(that *Searcher) {
		that.logger = logger
	}
}

type Stats struct {
	Nodes     int64
	CacheHits int64
}

// Searcher computes the same moves as BestMove with optional speedups.
type Searcher struct {
	logger *slog.Logger

	pruning  bool
	parallel bool
	cache    ValueCache

	nodes atomic.Int64
	hits  atomic.Int64
}

func NewSearcher(opts ...Option) *Searcher {
	searcher := &Searcher{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(searcher)
	}

	searcher.logger = searcher.logger.With(
		"component", "searcher",
		"pruning", searcher.pruning,
		"parallel", searcher.parallel,
		"cache", searcher.cache != nil,
	)

	return searcher
}

// Stats returns counters accumulated since the searcher was created.
func (that *Searcher) Stats() Stats {
	return Stats{
		Nodes:     that.nodes.Load(),
		CacheHits: that.hits.Load(),
	}
}

func (that *Searcher) Value(ctx context.Context, board entity.Board) (int, error) {
	if err := board.Validate(); err != nil {
		return 0, err
	}

	if board.IsTerminal() {
		return board.Utility()
	}

	player, err := board.CurrentPlayer()
	if err != nil {
		return 0, err
	}

	if player == entity.X {
		return that.maxValue(ctx, board, math.MinInt, math.MaxInt)
	}

	return that.minValue(ctx, board, math.MinInt, math.MaxInt)
}

// BestMove returns the optimal move for the player to move, breaking ties by LegalMoves order.
func (that *Searcher) BestMove(ctx context.Context, board entity.Board) (entity.Move, error) {
	log := that.logger.With("method", "BestMove")

	player, err := board.CurrentPlayer()
	if err != nil {
		return entity.Move{}, err
	}

	if err = board.Validate(); err != nil {
		return entity.Move{}, err
	}

	maximizing := player == entity.X
	moves := board.LegalMoves()

	var bestIdx, bestValue int
	if that.parallel {
		bestIdx, bestValue, err = that.rootParallel(ctx, board, moves, maximizing)
	} else {
		bestIdx, bestValue, err = that.rootSequential(ctx, board, moves, maximizing)
	}

	if err != nil {
		return entity.Move{}, fmt.Errorf("failed to search %s: %w", board.Key(), err)
	}

	log.Debug("best move selected",
		"board", board.Key(),
		"player", player.String(),
		"move", moves[bestIdx].String(),
		"value", bestValue,
		"nodes", that.nodes.Load(),
		"cache_hits", that.hits.Load(),
	)

	return moves[bestIdx], nil
}

func (that *Searcher) rootSequential(ctx context.Context, board entity.Board, moves []entity.Move, maximizing bool) (int, int, error) {
	bestIdx, bestValue := -1, 0

	for i, move := range moves {
		if err := ctx.Err(); err != nil {
			return 0, 0, err
		}

		// A strictly better sibling is all that matters, so the current best bounds the window.
		alpha, beta := math.MinInt, math.MaxInt
		if that.pruning && bestIdx >= 0 {
			if maximizing {
				alpha = bestValue
			} else {
				beta = bestValue
			}
		}

		value, err := that.childValue(ctx, board, move, maximizing, alpha, beta)
		if err != nil {
			return 0, 0, err
		}

		if bestIdx < 0 || improves(maximizing, value, bestValue) {
			bestIdx, bestValue = i, value
		}

		if that.pruning && bestValue == bound(maximizing) {
			break
		}
	}

	return bestIdx, bestValue, nil
}

func (that *Searcher) rootParallel(ctx context.Context, board entity.Board, moves []entity.Move, maximizing bool) (int, int, error) {
	values := make([]int, len(moves))

	group, groupCtx := errgroup.WithContext(ctx)
	for i, move := range moves {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			value, err := that.childValue(groupCtx, board, move, maximizing, math.MinInt, math.MaxInt)
			if err != nil {
				return err
			}

			values[i] = value

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return 0, 0, err
	}

	bestIdx, bestValue := 0, values[0]
	for i, value := range values[1:] {
		if improves(maximizing, value, bestValue) {
			bestIdx, bestValue = i+1, value
		}
	}

	return bestIdx, bestValue, nil
}

func (that *Searcher) childValue(ctx context.Context, board entity.Board, move entity.Move, maximizing bool, alpha, beta int) (int, error) {
	next := child(board, move)
	if maximizing {
		return that.minValue(ctx, next, alpha, beta)
	}

	return that.maxValue(ctx, next, alpha, beta)
}

// maxValue is fail-soft: a result strictly inside (alpha, beta) is exact.
func (that *Searcher) maxValue(ctx context.Context, board entity.Board, alpha, beta int) (int, error) {
	that.nodes.Add(1)

	if board.IsTerminal() {
		return utility(board), nil
	}

	if value, ok, err := that.lookup(ctx, board); err != nil || ok {
		return value, err
	}

	lower := alpha
	best := math.MinInt

	for _, move := range board.LegalMoves() {
		value, err := that.minValue(ctx, child(board, move), alpha, beta)
		if err != nil {
			return 0, err
		}

		best = max(best, value)

		if that.pruning {
			if best >= beta {
				return best, nil
			}
			alpha = max(alpha, best)
		}
	}

	if best > lower {
		if err := that.store(ctx, board, best); err != nil {
			return 0, err
		}
	}

	return best, nil
}

func (that *Searcher) minValue(ctx context.Context, board entity.Board, alpha, beta int) (int, error) {
	that.nodes.Add(1)

	if board.IsTerminal() {
		return utility(board), nil
	}

	if value, ok, err := that.lookup(ctx, board); err != nil || ok {
		return value, err
	}

	upper := beta
	best := math.MaxInt

	for _, move := range board.LegalMoves() {
		value, err := that.maxValue(ctx, child(board, move), alpha, beta)
		if err != nil {
			return 0, err
		}

		best = min(best, value)

		if that.pruning {
			if best <= alpha {
				return best, nil
			}
			beta = min(beta, best)
		}
	}

	if best < upper {
		if err := that.store(ctx, board, best); err != nil {
			return 0, err
		}
	}

	return best, nil
}

func (that *Searcher) lookup(ctx context.Context, board entity.Board) (int, bool, error) {
	if that.cache == nil {
		return 0, false, nil
	}

	value, ok, err := that.cache.Get(ctx, board)
	if err != nil {
		return 0, false, fmt.Errorf("failed to read cached value: %w", err)
	}

	if ok {
		that.hits.Add(1)
	}

	return value, ok, nil
}

func (that *Searcher) store(ctx context.Context, board entity.Board, value int) error {
	if that.cache == nil {
		return nil
	}

	if err := that.cache.Set(ctx, board, value); err != nil {
		return fmt.Errorf("failed to cache value: %w", err)
	}

	return nil
}

func improves(maximizing bool, value, best int) bool {
	if maximizing {
		return value > best
	}

	return value < best
}

// bound is the best utility the side to move can hope for.
func bound(maximizing bool) int {
	if maximizing {
		return 1
	}

	return -1
}
