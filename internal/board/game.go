package board

import (
	"errors"
	"fmt"
	"strings"

	"github.com/park285/gridchess/internal/obslog"
	"go.uber.org/zap"
)

var (
	ErrMalformedMove = errors.New("malformed move")
	ErrBadCoordinate = errors.New("invalid coordinate")
	ErrEmptySource   = errors.New("no piece at source")
	ErrSelfCapture   = errors.New("cannot capture own piece")
	ErrIllegalMove   = errors.New("illegal move")
)

// IllegalMoveError carries the rejected piece. It matches ErrIllegalMove.
type IllegalMoveError struct {
	Piece Piece
	From  Square
	To    Square
}

func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("illegal move for %s: %s,%s", e.Piece, e.From, e.To)
}

func (e *IllegalMoveError) Is(target error) bool { return target == ErrIllegalMove }

// Result describes an applied move.
type Result struct {
	Piece    Piece
	From     Square
	To       Square
	Captured Piece
	GameOver bool
}

// Game owns one board and the game-over flag. Not safe for concurrent use.
type Game struct {
	grid     Grid
	gameOver bool
}

// NewGame returns a game in the standard starting position.
func NewGame() *Game {
	return &Game{grid: Standard()}
}

// NewGameFrom starts a game from an arbitrary position.
func NewGameFrom(g Grid) *Game {
	return &Game{grid: g}
}

// ResumeGame restores a stored game, including its game-over flag.
func ResumeGame(g Grid, gameOver bool) *Game {
	return &Game{grid: g, gameOver: gameOver}
}

// Board returns a copy of the current grid.
func (g *Game) Board() Grid { return g.grid }

// SetBoard replaces the grid. The game-over flag is kept.
func (g *Game) SetBoard(grid Grid) { g.grid = grid }

func (g *Game) GameOver() bool { return g.gameOver }

// ParseMove splits "<from>,<to>" and decodes both squares.
func ParseMove(input string) (Square, Square, error) {
	parts := strings.Split(input, ",")
	if len(parts) != 2 {
		return Square{}, Square{}, fmt.Errorf("%w: %q", ErrMalformedMove, input)
	}
	from, err := ParseSquare(strings.TrimSpace(parts[0]))
	if err != nil {
		return Square{}, Square{}, err
	}
	to, err := ParseSquare(strings.TrimSpace(parts[1]))
	if err != nil {
		return Square{}, Square{}, err
	}
	return from, to, nil
}

// Apply validates input and moves the piece. On error the board is untouched.
func (g *Game) Apply(input string) (Result, error) {
	from, to, err := ParseMove(input)
	if err != nil {
		return Result{}, err
	}

	piece := g.grid.At(from)
	if piece.IsEmpty() {
		return Result{}, fmt.Errorf("%w: %s", ErrEmptySource, from)
	}
	target := g.grid.At(to)
	if !target.IsEmpty() && !IsEnemy(piece, target) {
		return Result{}, fmt.Errorf("%w: %s", ErrSelfCapture, to)
	}
	if !g.grid.Legal(piece, from, to) {
		return Result{}, &IllegalMoveError{Piece: piece, From: from, To: to}
	}

	g.grid.Set(to, piece)
	g.grid.Set(from, Empty)
	if target.Kind == King {
		g.gameOver = true
	}

	return Result{Piece: piece, From: from, To: to, Captured: target, GameOver: g.gameOver}, nil
}

// MovePiece is the boolean form of Apply. Rejections and king captures are
// logged; the caller reads GameOver to decide whether play continues.
func (g *Game) MovePiece(input string) bool {
	res, err := g.Apply(input)
	if err != nil {
		obslog.L().Info("grid_move_rejected",
			zap.String("input", input),
			zap.String("reason", Reason(err)),
			zap.Error(err),
		)
		return false
	}
	if res.Captured.Kind == King {
		obslog.L().Info("grid_king_captured",
			zap.String("move", res.From.String()+","+res.To.String()),
			zap.String("winner", res.Piece.Color.String()),
		)
	}
	return true
}

// Reason returns a stable code for an Apply error, used as message key suffix.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMalformedMove):
		return "malformed"
	case errors.Is(err, ErrBadCoordinate):
		return "bad_coordinate"
	case errors.Is(err, ErrEmptySource):
		return "empty_source"
	case errors.Is(err, ErrSelfCapture):
		return "self_capture"
	case errors.Is(err, ErrIllegalMove):
		return "illegal"
	default:
		return "unknown"
	}
}
