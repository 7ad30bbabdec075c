package render

import (
	"bytes"
	"context"
	"image/png"
	"strings"
	"testing"

	nchess "github.com/corentings/chess/v2"
	"github.com/park285/gridchess/internal/board"
	"github.com/park285/gridchess/internal/fenio"
)

func TestTextStartPosition(t *testing.T) {
	out := Text(board.Standard())
	lines := strings.Split(out, "\n")
	if lines[1] != "  a b c d e f g h" {
		t.Fatalf("header = %q", lines[1])
	}
	if lines[2] != "8 r n b q k b n r 8" {
		t.Fatalf("rank 8 = %q", lines[2])
	}
	if lines[5] != "5                 5" {
		t.Fatalf("rank 5 = %q", lines[5])
	}
	if lines[9] != "1 R N B Q K B N R 1" {
		t.Fatalf("rank 1 = %q", lines[9])
	}
}

func TestRenderPNGDecodes(t *testing.T) {
	r := NewPNGRenderer(32)
	g := board.NewGame()
	if !g.MovePiece("e2,e4") {
		t.Fatalf("move rejected")
	}
	opts := RenderOptions{
		Title:     "white vs black",
		Highlight: &MoveHighlight{From: nchess.NewSquare(nchess.FileE, nchess.Rank2), To: nchess.NewSquare(nchess.FileE, nchess.Rank4)},
	}
	data, err := r.RenderPNG(context.Background(), fenio.ToBoard(g.Board()), opts)
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if w := img.Bounds().Dx(); w != 32*8+48 {
		t.Fatalf("width = %d", w)
	}

	flipped, err := r.RenderPNG(context.Background(), fenio.ToBoard(g.Board()), RenderOptions{Flip: true})
	if err != nil {
		t.Fatalf("RenderPNG flipped: %v", err)
	}
	if bytes.Equal(flipped, data) {
		t.Fatalf("flipped render should differ")
	}
}

func TestRenderPNGCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewPNGRenderer(0).RenderPNG(ctx, fenio.ToBoard(board.Standard()), RenderOptions{}); err == nil {
		t.Fatalf("expected context error")
	}
	if _, err := NewPNGRenderer(0).RenderPNG(context.Background(), nil, RenderOptions{}); err == nil {
		t.Fatalf("expected error for nil board")
	}
}

func TestEveryGlyphParses(t *testing.T) {
	for _, pt := range []nchess.PieceType{nchess.Pawn, nchess.Knight, nchess.Bishop, nchess.Rook, nchess.Queen, nchess.King} {
		for _, c := range []nchess.Color{nchess.White, nchess.Black} {
			if _, err := renderPieceImage(nchess.NewPiece(pt, c), 24); err != nil {
				t.Fatalf("glyph %v/%v: %v", pt, c, err)
			}
		}
	}
}
