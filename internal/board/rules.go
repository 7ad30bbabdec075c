package board

// PathClear walks the unit step from `from` toward `to` and requires every
// intermediate cell to be empty. The destination must be empty or hold an
// enemy of the moving piece. Squares off a shared rank, file or diagonal
// have no path.
func (g *Grid) PathClear(from, to Square) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	stepRow := sign(to.Row - from.Row)
	stepCol := sign(to.Col - from.Col)
	if stepRow == 0 && stepCol == 0 {
		return false
	}
	if stepRow != 0 && stepCol != 0 && abs(to.Row-from.Row) != abs(to.Col-from.Col) {
		return false
	}

	r, c := from.Row+stepRow, from.Col+stepCol
	for r != to.Row || c != to.Col {
		if !g[r][c].IsEmpty() {
			return false
		}
		r += stepRow
		c += stepCol
	}

	target := g.At(to)
	return target.IsEmpty() || IsEnemy(g.At(from), target)
}

// Legal decides whether piece may go from `from` to `to` on the current grid.
// Turn, check and special moves are not considered.
func (g *Grid) Legal(piece Piece, from, to Square) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	dRow := to.Row - from.Row
	dCol := to.Col - from.Col
	absRow, absCol := abs(dRow), abs(dCol)

	var shape bool
	switch piece.Kind {
	case Pawn:
		return g.pawnLegal(piece, from, to)
	case Rook:
		shape = (dRow == 0) != (dCol == 0)
	case Bishop:
		shape = absRow == absCol && absRow != 0
	case Queen:
		shape = (dRow == 0) != (dCol == 0) || (absRow == absCol && absRow != 0)
	case Knight:
		shape = (absRow == 1 && absCol == 2) || (absRow == 2 && absCol == 1)
	case King:
		shape = absRow <= 1 && absCol <= 1 && (absRow|absCol) != 0
	case NoKind:
		return false
	}
	if !shape {
		return false
	}
	if piece.Kind.Sliding() {
		return g.PathClear(from, to)
	}
	return true
}

func (g *Grid) pawnLegal(piece Piece, from, to Square) bool {
	dir, startRow := -1, 6
	if piece.Color == Black {
		dir, startRow = 1, 1
	}
	target := g.At(to)

	if to.Row != from.Row+dir {
		// only the double step leaves the adjacent row
		if from.Row != startRow || to.Row != from.Row+2*dir || to.Col != from.Col {
			return false
		}
		return g[from.Row+dir][from.Col].IsEmpty() && target.IsEmpty()
	}

	switch abs(to.Col - from.Col) {
	case 0:
		return target.IsEmpty()
	case 1:
		return IsEnemy(piece, target)
	}
	return false
}

func sign(v int) int {
	if v > 0 {
		return 1
	}
	if v < 0 {
		return -1
	}
	return 0
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
