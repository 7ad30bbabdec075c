package msgcat

import (
	"errors"

	"github.com/park285/gridchess/internal/board"
)

// MoveAdvice returns the human-facing text for a rejected move.
func (c *Catalog) MoveAdvice(err error) string {
	if err == nil {
		return ""
	}
	reason := board.Reason(err)
	data := map[string]string{}
	var ime *board.IllegalMoveError
	if errors.As(err, &ime) {
		data["Piece"] = ime.Piece.String()
	}
	return c.Text("move."+reason, data, err.Error())
}

// MoveSummary describes an applied move, including the capture if any.
func (c *Catalog) MoveSummary(res board.Result) string {
	data := map[string]string{
		"Piece":    res.Piece.String(),
		"From":     res.From.String(),
		"To":       res.To.String(),
		"Captured": res.Captured.String(),
	}
	fallback := res.From.String() + "," + res.To.String()
	if res.Captured.IsEmpty() {
		return c.Text("move.ok", data, fallback)
	}
	return c.Text("move.capture", data, fallback)
}
