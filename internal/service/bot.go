package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-solver/internal/entity"
)

var ErrNoAvailableMoves = errors.New("no available moves")

type BotService interface {
	MakeTurn(ctx context.Context, game *entity.Game) (entity.Move, error)
	SuggestMove(ctx context.Context, game *entity.Game) (entity.Move, error)
}

type moveFinder interface {
	BestMove(ctx context.Context, board entity.Board) (entity.Move, error)
}

type botService struct {
	finder moveFinder
}

func NewBotService(finder moveFinder) BotService {
	return &botService{
		finder: finder,
	}
}

// MakeTurn plays the optimal move for the bot's mark.
func (that *botService) MakeTurn(ctx context.Context, game *entity.Game) (entity.Move, error) {
	move, err := that.SuggestMove(ctx, game)
	if err != nil {
		return entity.Move{}, err
	}

	if err = game.MakeTurn(game.BotMark, move); err != nil {
		return entity.Move{}, fmt.Errorf("bot failed to make turn: %w", err)
	}

	return move, nil
}

// SuggestMove returns the optimal move for whoever is to move, without playing it.
func (that *botService) SuggestMove(ctx context.Context, game *entity.Game) (entity.Move, error) {
	if game.IsFinished() || game.Board.IsTerminal() {
		return entity.Move{}, ErrNoAvailableMoves
	}

	move, err := that.finder.BestMove(ctx, game.Board)
	if err != nil {
		return entity.Move{}, fmt.Errorf("failed to find best move: %w", err)
	}

	return move, nil
}
