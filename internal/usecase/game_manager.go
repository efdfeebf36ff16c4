package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/rocketscienceinc/tictactoe-solver/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solver/internal/entity"
)

var ErrInvalidMark = errors.New("human mark must be X or O")

type botService interface {
	MakeTurn(ctx context.Context, game *entity.Game) (entity.Move, error)
	SuggestMove(ctx context.Context, game *entity.Game) (entity.Move, error)
}

// GameManager runs a human versus computer game.
type GameManager struct {
	logger *slog.Logger
	bot    botService
}

func NewGameManager(logger *slog.Logger, bot botService) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game_manager"),
		bot:    bot,
	}
}

// NewGame starts a game; when the human plays O the bot opens.
func (that *GameManager) NewGame(ctx context.Context, humanMark entity.Mark) (*entity.Game, error) {
	log := that.logger.With("method", "NewGame")

	if humanMark != entity.X && humanMark != entity.O {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidMark, humanMark)
	}

	game := entity.NewGame(uuid.NewString(), humanMark)
	log.Info("game created", "game_id", game.ID, "human_mark", humanMark.String())

	if err := that.botReply(ctx, game); err != nil {
		return nil, err
	}

	return game, nil
}

// MakeTurn plays the human's move and, unless the game ended, the bot's reply.
func (that *GameManager) MakeTurn(ctx context.Context, game *entity.Game, move entity.Move) (*entity.Game, error) {
	log := that.logger.With("method", "MakeTurn", "game_id", game.ID)

	if err := that.confirmHumanTurn(game); err != nil {
		return game, err
	}

	if err := game.MakeTurn(game.HumanMark, move); err != nil {
		return game, fmt.Errorf("failed make turn: %w", err)
	}

	log.Debug("human moved", "move", move.String())

	if err := that.botReply(ctx, game); err != nil {
		return game, err
	}

	if game.IsFinished() {
		log.Info("game finished", "winner", game.Winner, "moves", len(game.Moves))
	}

	return game, nil
}

// Hint returns the optimal move for the human without playing it.
func (that *GameManager) Hint(ctx context.Context, game *entity.Game) (entity.Move, error) {
	if err := that.confirmHumanTurn(game); err != nil {
		return entity.Move{}, err
	}

	move, err := that.bot.SuggestMove(ctx, game)
	if err != nil {
		return entity.Move{}, fmt.Errorf("failed to suggest move: %w", err)
	}

	return move, nil
}

func (that *GameManager) botReply(ctx context.Context, game *entity.Game) error {
	if !game.IsBotTurn() {
		return nil
	}

	move, err := that.bot.MakeTurn(ctx, game)
	if err != nil {
		return fmt.Errorf("failed bot turn: %w", err)
	}

	that.logger.Debug("bot moved", "game_id", game.ID, "move", move.String())

	return nil
}

func (that *GameManager) confirmHumanTurn(game *entity.Game) error {
	switch {
	case game.IsFinished():
		return apperror.ErrGameFinished
	case !game.IsHumanTurn():
		return apperror.ErrNotYourTurn
	default:
		return nil
	}
}
