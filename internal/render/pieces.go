package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	nchess "github.com/corentings/chess/v2"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// Glyph bodies on a 45x45 view box. %[1]s is fill, %[2]s is stroke.
var glyphs = map[nchess.PieceType]string{
	nchess.Pawn: `<circle cx="22.5" cy="14" r="6" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>
<path d="M18 21 L27 21 L30 35 L15 35 Z" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>
<rect x="11" y="35" width="23" height="4" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>`,
	nchess.Knight: `<path d="M14 37 L33 37 L31 20 Q30 10 20 9 L18 5 L16 10 L10 17 L12 21 L19 18 L15 29 Z" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>
<circle cx="17" cy="13" r="1.2" fill="%[2]s"/>`,
	nchess.Bishop: `<circle cx="22.5" cy="8" r="2.5" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>
<path d="M22.5 11 Q33 18 28 29 L17 29 Q12 18 22.5 11 Z" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>
<path d="M12 37 L33 37 L31 31 L14 31 Z" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>`,
	nchess.Rook: `<path d="M12 37 L33 37 L33 33 L30 33 L29 16 L32 16 L32 9 L28 9 L28 12 L24.5 12 L24.5 9 L20.5 9 L20.5 12 L17 12 L17 9 L13 9 L13 16 L16 16 L15 33 L12 33 Z" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>`,
	nchess.Queen: `<path d="M9 15 L14 32 L31 32 L36 15 L28 24 L26 10 L22.5 23 L19 10 L17 24 Z" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>
<rect x="12" y="33" width="21" height="4" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>`,
	nchess.King: `<path d="M21 3 L24 3 L24 6 L27 6 L27 9 L24 9 L24 13 L21 13 L21 9 L18 9 L18 6 L21 6 Z" fill="%[1]s" stroke="%[2]s" stroke-width="1.2"/>
<path d="M11 31 Q7 17 22.5 15 Q38 17 34 31 Z" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>
<rect x="12" y="32" width="21" height="5" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>`,
}

type pieceCacheKey struct {
	piece nchess.Piece
	size  int
}

var (
	pieceCache   = map[pieceCacheKey]image.Image{}
	pieceCacheMu sync.RWMutex
)

func pieceSVG(piece nchess.Piece) ([]byte, error) {
	body, ok := glyphs[piece.Type()]
	if !ok {
		return nil, fmt.Errorf("no glyph for piece %v", piece)
	}
	fill, stroke := "#fafafa", "#202020"
	if piece.Color() == nchess.Black {
		fill, stroke = "#262626", "#f0f0f0"
	}
	var b bytes.Buffer
	b.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" width="45" height="45" viewBox="0 0 45 45">`)
	fmt.Fprintf(&b, body, fill, stroke)
	b.WriteString(`</svg>`)
	return b.Bytes(), nil
}

func renderPieceImage(piece nchess.Piece, size int) (image.Image, error) {
	key := pieceCacheKey{piece: piece, size: size}

	pieceCacheMu.RLock()
	if img, ok := pieceCache[key]; ok {
		pieceCacheMu.RUnlock()
		return img, nil
	}
	pieceCacheMu.RUnlock()

	data, err := pieceSVG(piece)
	if err != nil {
		return nil, err
	}
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse piece svg: %w", err)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Transparent), image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)

	pieceCacheMu.Lock()
	pieceCache[key] = img
	pieceCacheMu.Unlock()

	return img, nil
}
