package minimax

import (
	"testing"

	"github.com/rocketscienceinc/tictactoe-solver/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solver/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// reachable returns every non-terminal board alternating play can produce, in discovery order.
func reachable(t *testing.T) []entity.Board {
	t.Helper()

	seen := map[entity.Board]struct{}{}
	var boards []entity.Board

	var walk func(board entity.Board)
	walk = func(board entity.Board) {
		if _, ok := seen[board]; ok {
			return
		}
		seen[board] = struct{}{}

		if board.IsTerminal() {
			return
		}
		boards = append(boards, board)

		for _, move := range board.LegalMoves() {
			next, err := board.Apply(move)
			require.NoError(t, err)
			walk(next)
		}
	}
	walk(entity.EmptyBoard())

	return boards
}

func TestBestMove(t *testing.T) {
	t.Run("X completes the top row", func(t *testing.T) {
		// Given: X on (0,0),(0,1), O on (1,0),(1,1), X to move
		board := entity.MustParseBoard("XX. OO. ...")

		// When: searching for the best move
		move, err := BestMove(board)
		require.NoError(t, err)

		// Then: X wins immediately at (0,2)
		assert.Equal(t, entity.Move{Row: 0, Col: 2}, move)

		next, err := board.Apply(move)
		require.NoError(t, err)
		utility, err := next.Utility()
		require.NoError(t, err)
		assert.Equal(t, 1, utility)
	})

	t.Run("O blocks instead of losing", func(t *testing.T) {
		// Given: X threatens the top row and O cannot win this turn
		board := entity.MustParseBoard("XX. .O. ...")

		// When: O searches
		move, err := BestMove(board)

		// Then: the only non-losing reply is the block
		require.NoError(t, err)
		assert.Equal(t, entity.Move{Row: 0, Col: 2}, move)
	})

	t.Run("O takes its own win over blocking", func(t *testing.T) {
		// Given: both sides threaten, O to move
		board := entity.MustParseBoard("XX. OO. X..")

		// When: O searches
		move, err := BestMove(board)

		// Then: O completes the middle row
		require.NoError(t, err)
		assert.Equal(t, entity.Move{Row: 1, Col: 2}, move)
	})

	t.Run("Terminal board has no best move", func(t *testing.T) {
		_, err := BestMove(entity.MustParseBoard("XXX OO. ..."))

		require.ErrorIs(t, err, apperror.ErrUndefinedOnTerminal)
	})

	t.Run("Unreachable board is rejected", func(t *testing.T) {
		_, err := BestMove(entity.Board{{entity.O, entity.O}})

		require.ErrorIs(t, err, apperror.ErrInvariantViolation)
	})

	t.Run("Same board gives the same move", func(t *testing.T) {
		board := entity.MustParseBoard("X.. .O. ...")

		first, err := BestMove(board)
		require.NoError(t, err)
		second, err := BestMove(board)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})
}

func TestValue(t *testing.T) {
	t.Run("Empty board is a draw", func(t *testing.T) {
		value, err := Value(entity.EmptyBoard())

		require.NoError(t, err)
		assert.Equal(t, 0, value)
	})

	t.Run("Terminal board is its utility", func(t *testing.T) {
		value, err := Value(entity.MustParseBoard("OOO XX. X.."))

		require.NoError(t, err)
		assert.Equal(t, -1, value)
	})

	t.Run("Fork wins for X", func(t *testing.T) {
		// Given: X threatens two lines and O cannot win at once
		board := entity.MustParseBoard("X.X .O. O.X")

		value, err := Value(board)

		require.NoError(t, err)
		assert.Equal(t, 1, value)
	})
}

func TestSelfPlayIsDraw(t *testing.T) {
	// Given: the empty board
	board := entity.EmptyBoard()

	// When: both sides keep playing the best move
	plies := 0
	for !board.IsTerminal() {
		move, err := BestMove(board)
		require.NoError(t, err)

		board, err = board.Apply(move)
		require.NoError(t, err)
		plies++
	}

	// Then: the game fills the board and ends in a draw
	outcome, err := board.Outcome()
	require.NoError(t, err)
	assert.Equal(t, entity.OutcomeDraw, outcome)
	assert.Equal(t, 9, plies)
}

func TestBestMoveAchievesValue(t *testing.T) {
	if testing.Short() {
		t.Skip("exhaustive check over every reachable board")
	}

	for _, board := range reachable(t) {
		want, err := Value(board)
		require.NoError(t, err)

		move, err := BestMove(board)
		require.NoError(t, err)

		next, err := board.Apply(move)
		require.NoError(t, err)

		got, err := Value(next)
		require.NoError(t, err)
		require.Equal(t, want, got, board.String())
	}
}
