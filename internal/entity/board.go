package entity

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/tictactoe-solver/internal/apperror"
)

// Size is the side length of the grid.
const Size = 3

// Mark is the content of a single cell.
type Mark uint8

const (
	Empty Mark = iota
	X
	O
)

// NoPlayer is returned where the side to move is undefined.
const NoPlayer = Empty

var (
	ErrInvalidBoard = errors.New("invalid board notation")
	ErrInvalidMove  = errors.New("invalid move notation")

	// WinLines lists every row, column and diagonal of the grid.
	WinLines = [8][3]Move{
		{{0, 0}, {0, 1}, {0, 2}},
		{{1, 0}, {1, 1}, {1, 2}},
		{{2, 0}, {2, 1}, {2, 2}},
		{{0, 0}, {1, 0}, {2, 0}},
		{{0, 1}, {1, 1}, {2, 1}},
		{{0, 2}, {1, 2}, {2, 2}},
		{{0, 0}, {1, 1}, {2, 2}},
		{{0, 2}, {1, 1}, {2, 0}},
	}
)

func (that Mark) String() string {
	switch that {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return "."
	}
}

// Opponent returns the other player's mark. Empty stays Empty.
func (that Mark) Opponent() Mark {
	switch that {
	case X:
		return O
	case O:
		return X
	default:
		return Empty
	}
}

// Move addresses a cell, 0-indexed.
type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (that Move) String() string {
	return fmt.Sprintf("(%d,%d)", that.Row, that.Col)
}

func (that Move) InBounds() bool {
	return that.Row >= 0 && that.Row < Size && that.Col >= 0 && that.Col < Size
}

// ParseMove reads "row col" or "row,col".
func ParseMove(s string) (Move, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t'
	})
	if len(fields) != 2 {
		return Move{}, fmt.Errorf("%w: %q", ErrInvalidMove, s)
	}

	row, err := strconv.Atoi(fields[0])
	if err != nil {
		return Move{}, fmt.Errorf("%w: row %q", ErrInvalidMove, fields[0])
	}

	col, err := strconv.Atoi(fields[1])
	if err != nil {
		return Move{}, fmt.Errorf("%w: col %q", ErrInvalidMove, fields[1])
	}

	return Move{Row: row, Col: col}, nil
}

// Board is an immutable value: Apply returns a copy and never touches the receiver.
type Board [Size][Size]Mark

func EmptyBoard() Board {
	return Board{}
}

// IsInitial reports whether no mark has been placed yet.
func (that Board) IsInitial() bool {
	return that == EmptyBoard()
}

func (that Board) At(move Move) Mark {
	return that[move.Row][move.Col]
}

// Count returns the number of cells holding mark.
func (that Board) Count(mark Mark) int {
	count := 0
	for _, row := range that {
		for _, cell := range row {
			if cell == mark {
				count++
			}
		}
	}

	return count
}

// CurrentPlayer returns the mark of the side to move.
func (that Board) CurrentPlayer() (Mark, error) {
	if that.IsTerminal() {
		return NoPlayer, apperror.ErrUndefinedOnTerminal
	}

	if (Size*Size-that.Count(Empty))%2 == 0 {
		return X, nil
	}

	return O, nil
}

// LegalMoves returns the empty cells in row-major order, or nothing once the game is over.
func (that Board) LegalMoves() []Move {
	if that.IsTerminal() {
		return []Move{}
	}

	moves := make([]Move, 0, Size*Size)
	for row := range Size {
		for col := range Size {
			if that[row][col] == Empty {
				moves = append(moves, Move{Row: row, Col: col})
			}
		}
	}

	return moves
}

// Apply places the current player's mark at move on a copy of the board.
func (that Board) Apply(move Move) (Board, error) {
	if !move.InBounds() {
		return that, fmt.Errorf("%w: %s is out of range", apperror.ErrIllegalMove, move)
	}

	player, err := that.CurrentPlayer()
	if err != nil {
		return that, fmt.Errorf("%w: board is terminal", apperror.ErrIllegalMove)
	}

	if that.At(move) != Empty {
		return that, fmt.Errorf("%w: cell %s is occupied", apperror.ErrIllegalMove, move)
	}

	next := that
	next[move.Row][move.Col] = player

	return next, nil
}

// lineOwners reports which marks complete at least one line.
func (that Board) lineOwners() (xLine, oLine bool) {
	for _, line := range WinLines {
		a, b, c := that.At(line[0]), that.At(line[1]), that.At(line[2])
		if a != Empty && a == b && b == c {
			if a == X {
				xLine = true
			} else {
				oLine = true
			}
		}
	}

	return xLine, oLine
}

// Winner returns the mark owning a complete line, or Empty.
func (that Board) Winner() (Mark, error) {
	xLine, oLine := that.lineOwners()

	switch {
	case xLine && oLine:
		return Empty, fmt.Errorf("%w: both marks complete a line", apperror.ErrInvariantViolation)
	case xLine:
		return X, nil
	case oLine:
		return O, nil
	default:
		return Empty, nil
	}
}

func (that Board) IsTerminal() bool {
	xLine, oLine := that.lineOwners()

	return xLine || oLine || that.Count(Empty) == 0
}

// Utility scores a finished game from the first player's side: +1, -1 or 0.
func (that Board) Utility() (int, error) {
	if !that.IsTerminal() {
		return 0, apperror.ErrNotTerminal
	}

	winner, err := that.Winner()
	if err != nil {
		return 0, err
	}

	switch winner {
	case X:
		return 1, nil
	case O:
		return -1, nil
	default:
		return 0, nil
	}
}

// Validate checks that the board could come out of alternating play from EmptyBoard.
func (that Board) Validate() error {
	diff := that.Count(X) - that.Count(O)
	if diff < 0 || diff > 1 {
		return fmt.Errorf("%w: X count minus O count is %d", apperror.ErrInvariantViolation, diff)
	}

	winner, err := that.Winner()
	if err != nil {
		return err
	}

	if winner == X && diff != 1 {
		return fmt.Errorf("%w: X won but O has moved since", apperror.ErrInvariantViolation)
	}

	if winner == O && diff != 0 {
		return fmt.Errorf("%w: O won but X has moved since", apperror.ErrInvariantViolation)
	}

	return nil
}

// Key is a compact nine-character encoding, row-major.
func (that Board) Key() string {
	var sb strings.Builder
	sb.Grow(Size * Size)

	for _, row := range that {
		for _, cell := range row {
			sb.WriteString(cell.String())
		}
	}

	return sb.String()
}

func (that Board) String() string {
	key := that.Key()

	return key[0:3] + "\n" + key[3:6] + "\n" + key[6:9]
}

// ParseBoard reads nine cells of X, O or '.', ignoring whitespace and '|'.
// The result must satisfy Validate.
func ParseBoard(s string) (Board, error) {
	var board Board

	cell := 0
	for _, r := range s {
		var mark Mark

		switch r {
		case ' ', '\t', '\n', '\r', '|':
			continue
		case 'X', 'x':
			mark = X
		case 'O', 'o':
			mark = O
		case '.', '_', '-':
			mark = Empty
		default:
			return Board{}, fmt.Errorf("%w: unexpected %q", ErrInvalidBoard, r)
		}

		if cell >= Size*Size {
			return Board{}, fmt.Errorf("%w: more than %d cells", ErrInvalidBoard, Size*Size)
		}

		board[cell/Size][cell%Size] = mark
		cell++
	}

	if cell != Size*Size {
		return Board{}, fmt.Errorf("%w: got %d cells, want %d", ErrInvalidBoard, cell, Size*Size)
	}

	if err := board.Validate(); err != nil {
		return Board{}, err
	}

	return board, nil
}

// MustParseBoard is ParseBoard that panics; meant for fixtures.
func MustParseBoard(s string) Board {
	board, err := ParseBoard(s)
	if err != nil {
		panic(err)
	}

	return board
}
