package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/tictactoe-solver/internal/entity"
)

const DefaultKeyPrefix = "minimax:"

var ErrValueNotFound = errors.New("value not found")

// ValueRepository keeps solved board values in Redis under <prefix><board key>.
type ValueRepository struct {
	client *redis.Client
	prefix string
}

func NewValueRepository(client *redis.Client, prefix string) *ValueRepository {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}

	return &ValueRepository{
		client: client,
		prefix: prefix,
	}
}

func (that *ValueRepository) GetByBoard(ctx context.Context, board entity.Board) (int, error) {
	value, err := that.client.Get(ctx, that.key(board)).Int()

	if errors.Is(err, redis.Nil) {
		return 0, ErrValueNotFound
	}

	if err != nil {
		return 0, fmt.Errorf("failed to get value: %w", err)
	}

	return value, nil
}

func (that *ValueRepository) Get(ctx context.Context, board entity.Board) (int, bool, error) {
	value, err := that.GetByBoard(ctx, board)
	if errors.Is(err, ErrValueNotFound) {
		return 0, false, nil
	}

	if err != nil {
		return 0, false, err
	}

	return value, true, nil
}

func (that *ValueRepository) Set(ctx context.Context, board entity.Board, value int) error {
	if err := that.client.Set(ctx, that.key(board), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set value: %w", err)
	}

	return nil
}

func (that *ValueRepository) key(board entity.Board) string {
	return that.prefix + board.Key()
}
