// Package fenio converts between board.Grid and the corentings/chess board model.
package fenio

import (
	"fmt"
	"strings"

	nchess "github.com/corentings/chess/v2"
	"github.com/park285/gridchess/internal/board"
)

var kindToType = map[board.Kind]nchess.PieceType{
	board.Pawn:   nchess.Pawn,
	board.Knight: nchess.Knight,
	board.Bishop: nchess.Bishop,
	board.Rook:   nchess.Rook,
	board.Queen:  nchess.Queen,
	board.King:   nchess.King,
}

var typeToKind = map[nchess.PieceType]board.Kind{
	nchess.Pawn:   board.Pawn,
	nchess.Knight: board.Knight,
	nchess.Bishop: board.Bishop,
	nchess.Rook:   board.Rook,
	nchess.Queen:  board.Queen,
	nchess.King:   board.King,
}

// Square maps a grid coordinate to the library square. Row 0 is rank 8.
func Square(sq board.Square) nchess.Square {
	return nchess.NewSquare(nchess.File(sq.Col), nchess.Rank(board.Size-1-sq.Row))
}

// FromSquare is the inverse of Square.
func FromSquare(sq nchess.Square) board.Square {
	return board.Square{Row: board.Size - 1 - int(sq.Rank()), Col: int(sq.File())}
}

// Piece maps a tagged piece; the empty marker maps to NoPiece.
func Piece(p board.Piece) nchess.Piece {
	t, ok := kindToType[p.Kind]
	if !ok {
		return nchess.NoPiece
	}
	c := nchess.White
	if p.Color == board.Black {
		c = nchess.Black
	}
	return nchess.NewPiece(t, c)
}

// FromPiece maps a library piece back; NoPiece maps to board.Empty.
func FromPiece(p nchess.Piece) board.Piece {
	if p == nchess.NoPiece {
		return board.Empty
	}
	k, ok := typeToKind[p.Type()]
	if !ok {
		return board.Empty
	}
	c := board.White
	if p.Color() == nchess.Black {
		c = board.Black
	}
	return board.NewPiece(k, c)
}

// ToBoard builds a library board holding the same pieces as g.
func ToBoard(g board.Grid) *nchess.Board {
	m := make(map[nchess.Square]nchess.Piece)
	for r := 0; r < board.Size; r++ {
		for c := 0; c < board.Size; c++ {
			sq := board.Square{Row: r, Col: c}
			if p := g.At(sq); !p.IsEmpty() {
				m[Square(sq)] = Piece(p)
			}
		}
	}
	return nchess.NewBoard(m)
}

// FromBoard copies a library board into a grid.
func FromBoard(b *nchess.Board) board.Grid {
	var g board.Grid
	if b == nil {
		return g
	}
	for sq, p := range b.SquareMap() {
		g.Set(FromSquare(sq), FromPiece(p))
	}
	return g
}

// FromFEN imports a position. A bare placement field is accepted and completed
// with neutral side-to-move and castling fields, which the grid does not model.
func FromFEN(fen string) (board.Grid, error) {
	fen = strings.TrimSpace(fen)
	if fen == "" {
		return board.Grid{}, fmt.Errorf("empty fen")
	}
	if !strings.Contains(fen, " ") {
		fen += " w - - 0 1"
	}
	opt, err := nchess.FEN(fen)
	if err != nil {
		return board.Grid{}, fmt.Errorf("parse fen: %w", err)
	}
	game := nchess.NewGame(opt)
	return FromBoard(game.Position().Board()), nil
}
