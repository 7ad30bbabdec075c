package render

import (
	"strconv"
	"strings"

	"github.com/park285/gridchess/internal/board"
)

const fileHeader = "  a b c d e f g h"

// Text draws the grid with rank 8 on top and file letters above and below.
// Empty cells print as a space.
func Text(g board.Grid) string {
	var b strings.Builder
	b.WriteString("\n" + fileHeader + "\n")
	for r := 0; r < board.Size; r++ {
		rank := strconv.Itoa(board.Size - r)
		b.WriteString(rank + " ")
		for c := 0; c < board.Size; c++ {
			b.WriteRune(g[r][c].Symbol())
			b.WriteByte(' ')
		}
		b.WriteString(rank + "\n")
	}
	b.WriteString(fileHeader + "\n\n")
	return b.String()
}
