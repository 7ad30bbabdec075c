package session

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

// Repository archives finished games in Postgres.
type Repository struct {
	db *sql.DB
}

func NewRepository(databaseURL string) (*Repository, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(30 * time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

const schemaDDL = `CREATE TABLE IF NOT EXISTS grid_games (
    game_id         TEXT PRIMARY KEY,
    final_placement TEXT NOT NULL,
    winner          TEXT NOT NULL,
    started_at      TIMESTAMPTZ NOT NULL,
    ended_at        TIMESTAMPTZ NOT NULL,
    duration_ms     BIGINT NOT NULL
)`

// EnsureSchema creates the results table when missing.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, schemaDDL)
	return err
}

// resultRow is one grid_games row.
type resultRow struct {
	GameID     string
	Placement  string
	Winner     string
	StartedAt  time.Time
	EndedAt    time.Time
	DurationMS int64
}

func rowFor(s *Session) resultRow {
	d := s.UpdatedAt.Sub(s.CreatedAt).Milliseconds()
	if d < 0 {
		d = 0
	}
	return resultRow{
		GameID:     s.ID,
		Placement:  s.Placement,
		Winner:     strings.TrimSpace(s.Winner),
		StartedAt:  s.CreatedAt,
		EndedAt:    s.UpdatedAt,
		DurationMS: d,
	}
}

// SaveResult upserts a finished session.
func (r *Repository) SaveResult(ctx context.Context, s *Session) error {
	if r == nil || r.db == nil || s == nil {
		return nil
	}
	row := rowFor(s)

	q := `INSERT INTO grid_games (
        game_id, final_placement, winner, started_at, ended_at, duration_ms
      ) VALUES ($1,$2,$3,$4,$5,$6)
      ON CONFLICT (game_id) DO UPDATE SET
        final_placement=EXCLUDED.final_placement,
        winner=EXCLUDED.winner,
        started_at=EXCLUDED.started_at,
        ended_at=EXCLUDED.ended_at,
        duration_ms=EXCLUDED.duration_ms`

	_, err := r.db.ExecContext(ctx, q,
		row.GameID, row.Placement, row.Winner,
		row.StartedAt, row.EndedAt, row.DurationMS,
	)
	return err
}
