package session

import (
	"fmt"
	"time"

	"github.com/park285/gridchess/internal/board"
)

// Status represents a session lifecycle state.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusFinished Status = "FINISHED"
)

// Session is the persisted state of one game. Only the current position is
// kept; there is no move list.
type Session struct {
	ID        string    `json:"id"`
	Placement string    `json:"placement"`
	GameOver  bool      `json:"game_over"`
	Status    Status    `json:"status"`
	Winner    string    `json:"winner,omitempty"`
	LastFrom  string    `json:"last_from,omitempty"`
	LastTo    string    `json:"last_to,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Game rebuilds the in-memory game for this session.
func (s *Session) Game() (*board.Game, error) {
	grid, err := board.ParsePlacement(s.Placement)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", s.ID, err)
	}
	return board.ResumeGame(grid, s.GameOver), nil
}

// MoveOutcome is the result of Manager.Move. Exactly one of Result or
// Rejection is meaningful: Rejection is non-nil when the board refused the move.
type MoveOutcome struct {
	Session   *Session
	Result    board.Result
	Rejection error
}

func (o *MoveOutcome) Applied() bool { return o != nil && o.Rejection == nil }

var (
	ErrNotFound         = staticErr("game not found or expired")
	ErrFinished         = staticErr("game already finished")
	ErrConcurrentUpdate = staticErr("game updated concurrently")
	ErrInvalidArgs      = staticErr("invalid arguments")
)

type staticErr string

func (e staticErr) Error() string { return string(e) }
