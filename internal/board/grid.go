package board

import (
	"fmt"
	"strconv"
	"strings"
)

// Size is the fixed board dimension.
const Size = 8

// Square addresses a cell. Row 0 is rank 8, row 7 is rank 1.
type Square struct {
	Row int
	Col int
}

// ParseSquare decodes exactly "[a-h][1-8]". Uppercase files are rejected.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return Square{}, fmt.Errorf("%w: %q", ErrBadCoordinate, s)
	}
	file, rank := s[0], s[1]
	if file < 'a' || file > 'h' || rank < '1' || rank > '8' {
		return Square{}, fmt.Errorf("%w: %q", ErrBadCoordinate, s)
	}
	return Square{Row: 8 - int(rank-'0'), Col: int(file - 'a')}, nil
}

func (s Square) Valid() bool {
	return s.Row >= 0 && s.Row < Size && s.Col >= 0 && s.Col < Size
}

// String renders the square in algebraic form ("e4"); invalid squares render as "-".
func (s Square) String() string {
	if !s.Valid() {
		return "-"
	}
	return string(rune('a'+s.Col)) + strconv.Itoa(8-s.Row)
}

// Grid is the 8×8 board, row-major.
type Grid [Size][Size]Piece

var backRank = [Size]Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// Standard returns the chess starting position.
func Standard() Grid {
	var g Grid
	for col, k := range backRank {
		g[0][col] = NewPiece(k, Black)
		g[1][col] = NewPiece(Pawn, Black)
		g[6][col] = NewPiece(Pawn, White)
		g[7][col] = NewPiece(k, White)
	}
	return g
}

func (g Grid) At(sq Square) Piece { return g[sq.Row][sq.Col] }

func (g *Grid) Set(sq Square, p Piece) { g[sq.Row][sq.Col] = p }

// Rows returns one string of symbols per row, empty cells as ' '.
func (g Grid) Rows() []string {
	out := make([]string, Size)
	for r := 0; r < Size; r++ {
		var b strings.Builder
		for c := 0; c < Size; c++ {
			b.WriteRune(g[r][c].Symbol())
		}
		out[r] = b.String()
	}
	return out
}

func (g Grid) String() string { return strings.Join(g.Rows(), "\n") }

// Placement encodes the piece-placement field of FEN.
func (g Grid) Placement() string {
	var b strings.Builder
	for r := 0; r < Size; r++ {
		if r > 0 {
			b.WriteByte('/')
		}
		run := 0
		for c := 0; c < Size; c++ {
			p := g[r][c]
			if p.IsEmpty() {
				run++
				continue
			}
			if run > 0 {
				b.WriteString(strconv.Itoa(run))
				run = 0
			}
			b.WriteRune(p.Symbol())
		}
		if run > 0 {
			b.WriteString(strconv.Itoa(run))
		}
	}
	return b.String()
}

// ParsePlacement decodes a FEN piece-placement field. Trailing FEN fields are ignored.
func ParsePlacement(s string) (Grid, error) {
	var g Grid
	field := strings.TrimSpace(s)
	if i := strings.IndexByte(field, ' '); i >= 0 {
		field = field[:i]
	}
	ranks := strings.Split(field, "/")
	if len(ranks) != Size {
		return g, fmt.Errorf("placement %q: want %d ranks, got %d", s, Size, len(ranks))
	}
	for r, rank := range ranks {
		c := 0
		for _, ch := range rank {
			if ch >= '1' && ch <= '8' {
				c += int(ch - '0')
				continue
			}
			p, ok := PieceFromSymbol(ch)
			if !ok || p.IsEmpty() {
				return g, fmt.Errorf("placement %q: bad symbol %q", s, ch)
			}
			if c >= Size {
				return g, fmt.Errorf("placement %q: rank %d overflows", s, 8-r)
			}
			g[r][c] = p
			c++
		}
		if c != Size {
			return g, fmt.Errorf("placement %q: rank %d has %d files", s, 8-r, c)
		}
	}
	return g, nil
}
