package repository

import (
	"context"
	"testing"

	"github.com/rocketscienceinc/tictactoe-solver/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solver/internal/minimax"
	"github.com/rocketscienceinc/tictactoe-solver/testing/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ minimax.ValueCache = (*ValueRepository)(nil)

func TestValueRepository_Set(t *testing.T) {
	ctx, st := suite.New(t)

	valueRepo := NewValueRepository(st.Storage, "")

	// Given: a solved board
	board := entity.MustParseBoard("XX. OO. ...")

	// When: Set is called
	err := valueRepo.Set(ctx, board, 1)

	// Then: the value is stored under the default prefix
	require.NoError(t, err)

	stored, err := st.Storage.Get(ctx, DefaultKeyPrefix+"XX.OO....").Result()
	require.NoError(t, err)
	assert.Equal(t, "1", stored)
}

func TestValueRepository_GetByBoard(t *testing.T) {
	t.Run("GetByBoard_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		valueRepo := NewValueRepository(st.Storage, "test:")

		// Given: a stored negative value
		board := entity.MustParseBoard("XX. OO. X..")
		require.NoError(t, valueRepo.Set(ctx, board, -1))

		// When: GetByBoard is called with the same board
		value, err := valueRepo.GetByBoard(ctx, board)

		// Then: the value comes back
		require.NoError(t, err)
		assert.Equal(t, -1, value)
	})

	t.Run("GetByBoard_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		valueRepo := NewValueRepository(st.Storage, "")

		// When: GetByBoard is called for a board never stored
		_, err := valueRepo.GetByBoard(ctx, entity.EmptyBoard())

		// Then: an ErrValueNotFound error should be returned
		require.ErrorIs(t, err, ErrValueNotFound)

		// And: Get reports a miss without an error
		_, ok, err := valueRepo.Get(ctx, entity.EmptyBoard())
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestValueRepository_AsSearchCache(t *testing.T) {
	ctx, st := suite.New(t)

	valueRepo := NewValueRepository(st.Storage, "")

	// Given: a searcher backed by Redis
	searcher := minimax.NewSearcher(minimax.WithPruning(), minimax.WithCache(valueRepo))
	board := entity.MustParseBoard("X.. .O. ...")

	// When: the same board is searched twice
	first, err := searcher.BestMove(ctx, board)
	require.NoError(t, err)
	hitsAfterFirst := searcher.Stats().CacheHits

	second, err := searcher.BestMove(ctx, board)
	require.NoError(t, err)

	// Then: the move is stable and the second search is served from Redis
	assert.Equal(t, first, second)
	assert.Greater(t, searcher.Stats().CacheHits, hitsAfterFirst)

	baseline, err := minimax.BestMove(board)
	require.NoError(t, err)
	assert.Equal(t, baseline, first)

	keys, err := st.Storage.Keys(context.Background(), DefaultKeyPrefix+"*").Result()
	require.NoError(t, err)
	assert.NotEmpty(t, keys)
}
