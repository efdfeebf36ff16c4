package minimax

import (
	"context"
	"sync"

	"github.com/rocketscienceinc/tictactoe-solver/internal/entity"
)

// ValueCache stores exact minimax values of non-terminal boards.
type ValueCache interface {
	Get(ctx context.Context, board entity.Board) (int, bool, error)
	Set(ctx context.Context, board entity.Board, value int) error
}

// MemoryCache is an in-process ValueCache, safe for concurrent use.
type MemoryCache struct {
	mu     sync.RWMutex
	values map[entity.Board]int
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		values: make(map[entity.Board]int),
	}
}

func (that *MemoryCache) Get(_ context.Context, board entity.Board) (int, bool, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	value, ok := that.values[board]

	return value, ok, nil
}

func (that *MemoryCache) Set(_ context.Context, board entity.Board, value int) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.values[board] = value

	return nil
}

func (that *MemoryCache) Len() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.values)
}
