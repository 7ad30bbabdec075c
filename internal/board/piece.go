package board

import "unicode"

// Color identifies the side a piece belongs to.
type Color uint8

const (
	NoColor Color = iota
	White
	Black
)

func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	default:
		return ""
	}
}

// Opposite returns the other side. NoColor stays NoColor.
func (c Color) Opposite() Color {
	switch c {
	case White:
		return Black
	case Black:
		return White
	default:
		return NoColor
	}
}

// Kind is the piece type without color.
type Kind uint8

const (
	NoKind Kind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

var kindLetters = [...]rune{NoKind: ' ', Pawn: 'P', Knight: 'N', Bishop: 'B', Rook: 'R', Queen: 'Q', King: 'K'}

func (k Kind) String() string {
	switch k {
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	case King:
		return "king"
	default:
		return ""
	}
}

// Sliding reports whether the kind needs an unobstructed path.
func (k Kind) Sliding() bool {
	return k == Rook || k == Bishop || k == Queen
}

// Piece is a tagged cell value. The zero value is the empty marker.
type Piece struct {
	Kind  Kind
	Color Color
}

// Empty is the marker for an unoccupied cell.
var Empty = Piece{}

func NewPiece(k Kind, c Color) Piece { return Piece{Kind: k, Color: c} }

func (p Piece) IsEmpty() bool { return p.Kind == NoKind }

// Symbol returns the legacy letter form: uppercase white, lowercase black, ' ' for empty.
func (p Piece) Symbol() rune {
	if p.IsEmpty() || int(p.Kind) >= len(kindLetters) {
		return ' '
	}
	r := kindLetters[p.Kind]
	if p.Color == Black {
		return unicode.ToLower(r)
	}
	return r
}

func (p Piece) String() string { return string(p.Symbol()) }

// PieceFromSymbol decodes a legacy letter. ' ' and '.' decode to Empty.
func PieceFromSymbol(r rune) (Piece, bool) {
	if r == ' ' || r == '.' {
		return Empty, true
	}
	c := White
	if unicode.IsLower(r) {
		c = Black
	}
	switch unicode.ToUpper(r) {
	case 'P':
		return NewPiece(Pawn, c), true
	case 'N':
		return NewPiece(Knight, c), true
	case 'B':
		return NewPiece(Bishop, c), true
	case 'R':
		return NewPiece(Rook, c), true
	case 'Q':
		return NewPiece(Queen, c), true
	case 'K':
		return NewPiece(King, c), true
	}
	return Empty, false
}

// IsEnemy reports whether target is occupied by the opposite side of piece.
// An empty target is never an enemy.
func IsEnemy(piece, target Piece) bool {
	if target.IsEmpty() || piece.IsEmpty() {
		return false
	}
	return target.Color == piece.Color.Opposite()
}
