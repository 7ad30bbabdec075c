package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	imagedraw "image/draw"
	"image/png"
	"strings"

	nchess "github.com/corentings/chess/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

type MoveHighlight struct {
	From nchess.Square
	To   nchess.Square
}

type RenderOptions struct {
	Highlight *MoveHighlight
	Title     string
	// Flip draws the board from black's side.
	Flip bool
}

type BoardRenderer interface {
	RenderPNG(ctx context.Context, board *nchess.Board, opts RenderOptions) ([]byte, error)
}

type pngBoardRenderer struct {
	squareSize int
}

// NewPNGRenderer returns a renderer drawing squareSize-pixel cells. Sizes below 16 use 64.
func NewPNGRenderer(squareSize int) BoardRenderer {
	if squareSize < 16 {
		squareSize = 64
	}
	return &pngBoardRenderer{squareSize: squareSize}
}

var (
	lightSquare         = color.RGBA{233, 207, 163, 255}
	darkSquare          = color.RGBA{187, 136, 96, 255}
	highlightFill       = color.NRGBA{R: 255, G: 228, B: 120, A: 140}
	backgroundColor     = color.RGBA{28, 31, 46, 255}
	titleTextColor      = color.NRGBA{R: 236, G: 239, B: 255, A: 255}
	coordinateTextColor = color.NRGBA{R: 8, G: 214, B: 120, A: 255}
)

func (r *pngBoardRenderer) RenderPNG(ctx context.Context, board *nchess.Board, opts RenderOptions) ([]byte, error) {
	if board == nil {
		return nil, fmt.Errorf("board is nil")
	}

	const (
		sideMargin  = 24
		titleHeight = 28
	)
	squareSize := r.squareSize
	boardSize := squareSize * 8
	topMargin := sideMargin
	if strings.TrimSpace(opts.Title) != "" {
		topMargin += titleHeight
	}
	origin := image.Point{X: sideMargin, Y: topMargin}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	img := image.NewRGBA(image.Rect(0, 0, boardSize+sideMargin*2, boardSize+topMargin+sideMargin))
	imagedraw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, imagedraw.Src)

	drawTitle(img, opts.Title, sideMargin, titleHeight)
	drawSquares(img, squareSize, origin)
	if opts.Highlight != nil {
		drawSquareOverlay(img, opts.Highlight.From, squareSize, origin, opts.Flip, highlightFill)
		drawSquareOverlay(img, opts.Highlight.To, squareSize, origin, opts.Flip, highlightFill)
	}
	if err := drawPieces(ctx, img, board, squareSize, origin, opts.Flip); err != nil {
		return nil, err
	}
	drawCoordinates(img, squareSize, origin, sideMargin, opts.Flip)

	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return pngBuf.Bytes(), nil
}

func drawSquares(dst imagedraw.Image, squareSize int, origin image.Point) {
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			clr := lightSquare
			if (row+col)%2 == 1 {
				clr = darkSquare
			}
			x := origin.X + col*squareSize
			y := origin.Y + row*squareSize
			imagedraw.Draw(dst, image.Rect(x, y, x+squareSize, y+squareSize), image.NewUniform(clr), image.Point{}, imagedraw.Src)
		}
	}
}

func drawPieces(ctx context.Context, dst imagedraw.Image, board *nchess.Board, squareSize int, origin image.Point, flip bool) error {
	for sq, piece := range board.SquareMap() {
		if piece == nchess.NoPiece {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		img, err := renderPieceImage(piece, squareSize)
		if err != nil {
			return err
		}
		rect := squareRect(sq, squareSize, origin, flip)
		imagedraw.Draw(dst, rect, img, image.Point{}, imagedraw.Over)
	}
	return nil
}

func drawSquareOverlay(img *image.RGBA, sq nchess.Square, squareSize int, origin image.Point, flip bool, clr color.Color) {
	rect := squareRect(sq, squareSize, origin, flip)
	imagedraw.Draw(img, rect, image.NewUniform(clr), image.Point{}, imagedraw.Over)
}

// squareRect maps a square to its pixel rectangle; rank 8 is on top unless flipped.
func squareRect(sq nchess.Square, squareSize int, origin image.Point, flip bool) image.Rectangle {
	col := int(sq.File())
	row := 7 - int(sq.Rank())
	if flip {
		col, row = 7-col, 7-row
	}
	x := origin.X + col*squareSize
	y := origin.Y + row*squareSize
	return image.Rect(x, y, x+squareSize, y+squareSize)
}

func drawTitle(img *image.RGBA, title string, margin, height int) {
	title = strings.TrimSpace(title)
	if title == "" {
		return
	}
	d := &font.Drawer{Dst: img, Src: image.NewUniform(titleTextColor), Face: basicfont.Face7x13}
	d.Dot = fixed.P(margin, margin+height/2)
	d.DrawString(title)
}

func drawCoordinates(img *image.RGBA, squareSize int, origin image.Point, margin int, flip bool) {
	d := &font.Drawer{Dst: img, Src: image.NewUniform(coordinateTextColor), Face: basicfont.Face7x13}
	files := "abcdefgh"
	for i := 0; i < 8; i++ {
		file := files[i]
		rank := byte('8' - i)
		if flip {
			file = files[7-i]
			rank = byte('1' + i)
		}
		cx := origin.X + i*squareSize + squareSize/2
		drawCenteredText(d, string(file), cx, origin.Y+8*squareSize+margin/2+5)

		cy := origin.Y + i*squareSize + squareSize/2 + 5
		drawCenteredText(d, string(rank), margin/2, cy)
	}
}

func drawCenteredText(d *font.Drawer, text string, centerX, baseline int) {
	w := d.MeasureString(text).Round()
	d.Dot = fixed.P(centerX-w/2, baseline)
	d.DrawString(text)
}
