// Package minimax solves the 3x3 game by exhaustive search of the game tree.
//
// The package-level functions are the brute-force baseline: no pruning, no
// memoisation. Searcher layers optional alpha-beta pruning, a transposition
// cache and parallel root evaluation on top of the same value functions; none
// of them changes the move that is chosen.
package minimax

import (
	"fmt"
	"math"

	"github.com/rocketscienceinc/tictactoe-solver/internal/entity"
)

// MaxValue is the value of board when X, the maximising player, is to move.
// board must satisfy entity.Board.Validate.
func MaxValue(board entity.Board) int {
	if board.IsTerminal() {
		return utility(board)
	}

	best := math.MinInt
	for _, move := range board.LegalMoves() {
		best = max(best, MinValue(child(board, move)))
	}

	return best
}

// MinValue is the value of board when O, the minimising player, is to move.
func MinValue(board entity.Board) int {
	if board.IsTerminal() {
		return utility(board)
	}

	best := math.MaxInt
	for _, move := range board.LegalMoves() {
		best = min(best, MaxValue(child(board, move)))
	}

	return best
}

// Value returns the game-theoretic value of board under optimal play by both sides.
func Value(board entity.Board) (int, error) {
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
		return MaxValue(board), nil
	}

	return MinValue(board), nil
}

// BestMove returns the optimal move for the player to move. Among equally good
// moves the first one in LegalMoves order wins.
func BestMove(board entity.Board) (entity.Move, error) {
	player, err := board.CurrentPlayer()
	if err != nil {
		return entity.Move{}, err
	}

	if err = board.Validate(); err != nil {
		return entity.Move{}, err
	}

	var best entity.Move

	switch player {
	case entity.X:
		bestValue := math.MinInt
		for _, move := range board.LegalMoves() {
			if value := MinValue(child(board, move)); value > bestValue {
				bestValue = value
				best = move
			}
		}
	case entity.O:
		bestValue := math.MaxInt
		for _, move := range board.LegalMoves() {
			if value := MaxValue(child(board, move)); value < bestValue {
				bestValue = value
				best = move
			}
		}
	}

	return best, nil
}

// child applies a move taken from board.LegalMoves, which cannot be illegal.
func child(board entity.Board, move entity.Move) entity.Board {
	next, err := board.Apply(move)
	if err != nil {
		panic(fmt.Errorf("legal move %s rejected: %w", move, err))
	}

	return next
}

// utility panics on boards with two winners; the search never produces one from a valid root.
func utility(board entity.Board) int {
	value, err := board.Utility()
	if err != nil {
		panic(err)
	}

	return value
}
