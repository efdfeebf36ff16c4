package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/muesli/termenv"
	"github.com/rocketscienceinc/tictactoe-solver/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solver/internal/entity"
)

var errQuit = errors.New("quit")

type uGame interface {
	NewGame(ctx context.Context, humanMark entity.Mark) (*entity.Game, error)
	MakeTurn(ctx context.Context, game *entity.Game, move entity.Move) (*entity.Game, error)
	Hint(ctx context.Context, game *entity.Game) (entity.Move, error)
}

// Server plays games against a human over a line-oriented terminal.
type Server struct {
	logger    *slog.Logger
	uGame     uGame
	humanMark entity.Mark
	output    *termenv.Output

	game     *entity.Game
	handlers map[string]func(ctx context.Context) error
}

func New(logger *slog.Logger, uGame uGame, humanMark entity.Mark, out io.Writer, opts ...termenv.OutputOption) *Server {
	server := &Server{
		logger:    logger.With("component", "console"),
		uGame:     uGame,
		humanMark: humanMark,
		output:    termenv.NewOutput(out, opts...),

		handlers: make(map[string]func(ctx context.Context) error),
	}

	server.handlers["new"] = server.handleNewGame
	server.handlers["hint"] = server.handleHint
	server.handlers["quit"] = server.handleQuit

	return server
}

// Start reads commands from in until EOF, "quit" or ctx is done.
func (that *Server) Start(ctx context.Context, in io.Reader) error {
	log := that.logger.With("method", "Start")

	that.printf("You play %s. Enter moves as 'row col' (0-2), or 'hint', 'new', 'quit'.\n", that.humanMark)

	if err := that.handleNewGame(ctx); err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil //nolint: nilerr // cancellation is a normal shutdown
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		err := that.handle(ctx, line)

		switch {
		case errors.Is(err, errQuit):
			return nil
		case isUserError(err):
			log.Debug("rejected input", "input", line, "error", err)
			that.printf("error: %v\n", err)
		case err != nil:
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	return nil
}

func (that *Server) handle(ctx context.Context, line string) error {
	if handler, ok := that.handlers[strings.ToLower(line)]; ok {
		return handler(ctx)
	}

	return that.handleTurn(ctx, line)
}

func (that *Server) handleNewGame(ctx context.Context) error {
	game, err := that.uGame.NewGame(ctx, that.humanMark)
	if err != nil {
		return fmt.Errorf("failed to start game: %w", err)
	}

	that.game = game
	that.render()

	return nil
}

func (that *Server) handleTurn(ctx context.Context, line string) error {
	move, err := entity.ParseMove(line)
	if err != nil {
		return err
	}

	game, err := that.uGame.MakeTurn(ctx, that.game, move)
	if err != nil {
		return err
	}

	that.game = game
	that.render()

	return nil
}

func (that *Server) handleHint(ctx context.Context) error {
	move, err := that.uGame.Hint(ctx, that.game)
	if err != nil {
		return err
	}

	that.printf("hint: %s\n", move)

	return nil
}

func (that *Server) handleQuit(_ context.Context) error {
	return errQuit
}

func (that *Server) render() {
	that.printf("\n")

	for row, cells := range that.game.Board {
		marks := make([]string, len(cells))
		for col, mark := range cells {
			marks[col] = that.styleMark(mark)
		}

		that.printf(" %s \n", strings.Join(marks, " | "))
		if row < entity.Size-1 {
			that.printf("---+---+---\n")
		}
	}

	that.printf("\n")

	if !that.game.IsFinished() {
		return
	}

	outcome, err := that.game.Board.Outcome()
	if err != nil {
		that.printf("game over: %v\n", err)
		return
	}

	var verdict string

	switch {
	case outcome == entity.OutcomeDraw:
		verdict = "nobody wins"
	case that.game.Winner == that.humanMark.String():
		verdict = "you win"
	default:
		verdict = "you lose"
	}

	that.printf("game over: %s, %s. Type 'new' to play again or 'quit'.\n", outcome, verdict)
}

func (that *Server) styleMark(mark entity.Mark) string {
	switch mark {
	case entity.X:
		return that.output.String(mark.String()).Foreground(that.output.Color("1")).Bold().String()
	case entity.O:
		return that.output.String(mark.String()).Foreground(that.output.Color("4")).Bold().String()
	default:
		return " "
	}
}

func (that *Server) printf(format string, args ...any) {
	fmt.Fprintf(that.output, format, args...)
}

func isUserError(err error) bool {
	return errors.Is(err, apperror.ErrIllegalMove) ||
		errors.Is(err, apperror.ErrNotYourTurn) ||
		errors.Is(err, apperror.ErrGameFinished) ||
		errors.Is(err, entity.ErrInvalidMove)
}
