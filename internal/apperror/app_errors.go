package apperror

import "errors"

var (
	ErrIllegalMove         = errors.New("illegal move")
	ErrUndefinedOnTerminal = errors.New("undefined on terminal board")
	ErrNotTerminal         = errors.New("board is not terminal")
	ErrInvariantViolation  = errors.New("board invariant violated")

	ErrGameFinished = errors.New("game is already finished")
	ErrNotYourTurn  = errors.New("it's not your turn")
)
