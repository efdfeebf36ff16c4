package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-solver/internal/apperror"
)

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"

	PlayerTie = "-"
)

type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeXWins
	OutcomeOWins
	OutcomeDraw
)

func (that Outcome) String() string {
	switch that {
	case OutcomeXWins:
		return "X wins"
	case OutcomeOWins:
		return "O wins"
	case OutcomeDraw:
		return "draw"
	default:
		return "in progress"
	}
}

// Outcome is OutcomeNone until the board is terminal.
func (that Board) Outcome() (Outcome, error) {
	winner, err := that.Winner()
	if err != nil {
		return OutcomeNone, err
	}

	switch {
	case winner == X:
		return OutcomeXWins, nil
	case winner == O:
		return OutcomeOWins, nil
	case that.IsTerminal():
		return OutcomeDraw, nil
	default:
		return OutcomeNone, nil
	}
}

// Game is one human versus computer session.
type Game struct {
	ID        string `json:"id"`
	Board     Board  `json:"board"`
	Winner    string `json:"winner"`
	Status    string `json:"status"`
	HumanMark Mark   `json:"human_mark"`
	BotMark   Mark   `json:"bot_mark"`
	Moves     []Move `json:"moves,omitempty"`
}

func NewGame(id string, humanMark Mark) *Game {
	return &Game{
		ID:        id,
		Board:     EmptyBoard(),
		Status:    StatusOngoing,
		HumanMark: humanMark,
		BotMark:   humanMark.Opponent(),
	}
}

// DetermineGameResult returns the winning mark, PlayerTie, or "" while the game goes on.
func (that *Game) DetermineGameResult() (string, error) {
	outcome, err := that.Board.Outcome()
	if err != nil {
		return "", err
	}

	switch outcome {
	case OutcomeXWins:
		return X.String(), nil
	case OutcomeOWins:
		return O.String(), nil
	case OutcomeDraw:
		return PlayerTie, nil
	default:
		return "", nil
	}
}

func (that *Game) UpdateGameState() error {
	winner, err := that.DetermineGameResult()
	if err != nil {
		return fmt.Errorf("failed to determine game result: %w", err)
	}

	if winner == "" {
		that.Status = StatusOngoing
		return nil
	}

	that.Winner = winner
	that.Status = StatusFinished

	return nil
}

// Turn returns the mark to move, NoPlayer once finished.
func (that *Game) Turn() Mark {
	player, err := that.Board.CurrentPlayer()
	if err != nil {
		return NoPlayer
	}

	return player
}

func (that *Game) MakeTurn(mark Mark, move Move) error {
	if that.IsFinished() {
		return apperror.ErrGameFinished
	}

	if that.Turn() != mark {
		return apperror.ErrNotYourTurn
	}

	next, err := that.Board.Apply(move)
	if err != nil {
		return fmt.Errorf("invalid turn: %w", err)
	}

	that.Board = next
	that.Moves = append(that.Moves, move)

	return that.UpdateGameState()
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) IsHumanTurn() bool {
	return that.IsOngoing() && that.Turn() == that.HumanMark
}

func (that *Game) IsBotTurn() bool {
	return that.IsOngoing() && that.Turn() == that.BotMark
}
