package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/park285/gridchess/internal/board"
	"github.com/park285/gridchess/internal/obslog"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const defaultTTL = 24 * time.Hour

// ResultStore archives finished games.
type ResultStore interface {
	SaveResult(ctx context.Context, s *Session) error
}

type Manager struct {
	rdb     *redis.Client
	ttl     time.Duration
	results ResultStore
	now     func() time.Time

	// beforeCommit runs between the WATCHed read and the MULTI/EXEC write.
	beforeCommit func(ctx context.Context, id string)
}

type Option func(*Manager)

func WithTTL(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.ttl = d
		}
	}
}

func WithResultStore(r ResultStore) Option {
	return func(m *Manager) { m.results = r }
}

// NewManager connects to redisURL ("redis://[:password@]host:port/db") and pings it.
func NewManager(redisURL string, opts ...Option) (*Manager, error) {
	if strings.TrimSpace(redisURL) == "" {
		return nil, fmt.Errorf("REDIS_URL required for session manager")
	}
	ropts, err := parseRedisURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(ropts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	m := &Manager{rdb: rdb, ttl: defaultTTL, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

func (m *Manager) Close() error {
	if m == nil || m.rdb == nil {
		return nil
	}
	return m.rdb.Close()
}

// Create starts a session from placement, or from the standard position when empty.
func (m *Manager) Create(ctx context.Context, placement string) (*Session, error) {
	grid := board.Standard()
	if strings.TrimSpace(placement) != "" {
		g, err := board.ParsePlacement(placement)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArgs, err)
		}
		grid = g
	}

	now := m.now()
	s := &Session{
		ID:        uuid.NewString(),
		Placement: grid.Placement(),
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := m.save(ctx, s); err != nil {
		return nil, err
	}
	obslog.L().Info("grid_game_create",
		zap.String("game_id", s.ID),
		zap.String("placement", s.Placement),
	)
	return s, nil
}

// Load returns the session or ErrNotFound.
func (m *Manager) Load(ctx context.Context, id string) (*Session, error) {
	s, err := m.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, ErrNotFound
	}
	return s, nil
}

// Move validates and applies input against the stored board under WATCH.
// A move the board refuses is reported in MoveOutcome.Rejection with a nil error;
// the stored session is left untouched in that case.
func (m *Manager) Move(ctx context.Context, id, input string) (*MoveOutcome, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrInvalidArgs
	}
	key := gameKey(id)
	out := &MoveOutcome{}

	err := m.rdb.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if err == redis.Nil {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		var cur Session
		if jerr := json.Unmarshal(raw, &cur); jerr != nil {
			return jerr
		}
		out.Session = &cur
		if cur.Status != StatusActive {
			return ErrFinished
		}

		game, err := cur.Game()
		if err != nil {
			return err
		}
		res, merr := game.Apply(input)
		if merr != nil {
			out.Rejection = merr
			return nil
		}

		cur.Placement = game.Board().Placement()
		cur.LastFrom, cur.LastTo = res.From.String(), res.To.String()
		cur.UpdatedAt = m.now()
		if game.GameOver() {
			cur.GameOver = true
			cur.Status = StatusFinished
			cur.Winner = res.Piece.Color.String()
		}

		newRaw, err := json.Marshal(&cur)
		if err != nil {
			return err
		}
		if m.beforeCommit != nil {
			m.beforeCommit(ctx, id)
		}
		pipe := tx.TxPipeline()
		pipe.Set(ctx, key, newRaw, m.ttl)
		if _, err := pipe.Exec(ctx); err != nil {
			return err
		}
		out.Result = res
		return nil
	}, key)

	if err != nil {
		if errors.Is(err, redis.TxFailedErr) {
			return nil, ErrConcurrentUpdate
		}
		if errors.Is(err, ErrFinished) {
			return out, ErrFinished
		}
		return nil, err
	}

	if out.Rejection != nil {
		obslog.L().Info("grid_move_rejected",
			zap.String("game_id", id),
			zap.String("input", input),
			zap.String("reason", board.Reason(out.Rejection)),
		)
		return out, nil
	}

	obslog.L().Info("grid_move",
		zap.String("game_id", id),
		zap.String("from", out.Result.From.String()),
		zap.String("to", out.Result.To.String()),
		zap.String("piece", out.Result.Piece.String()),
		zap.String("captured", strings.TrimSpace(out.Result.Captured.String())),
		zap.Bool("game_over", out.Session.GameOver),
	)
	if out.Session.Status == StatusFinished {
		_ = m.persistIfFinal(ctx, out.Session)
	}
	return out, nil
}

func (m *Manager) save(ctx context.Context, s *Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return m.rdb.Set(ctx, gameKey(s.ID), raw, m.ttl).Err()
}

func (m *Manager) get(ctx context.Context, id string) (*Session, error) {
	raw, err := m.rdb.Get(ctx, gameKey(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (m *Manager) persistIfFinal(ctx context.Context, s *Session) error {
	if m.results == nil || s == nil || s.Status != StatusFinished {
		return nil
	}
	if err := m.results.SaveResult(ctx, s); err != nil {
		obslog.L().Error("grid_result_persist_error", zap.String("game_id", s.ID), zap.Error(err))
		return err
	}
	obslog.L().Info("grid_result_persist", zap.String("game_id", s.ID), zap.String("winner", s.Winner))
	return nil
}

func gameKey(id string) string { return "grid:game:" + strings.TrimSpace(id) }

func parseRedisURL(raw string) (*redis.Options, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "redis" && u.Scheme != "rediss" {
		return nil, fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}
	db := 0
	if p := strings.TrimPrefix(u.Path, "/"); p != "" {
		if n, err := strconv.Atoi(p); err == nil {
			db = n
		}
	}
	pass, _ := u.User.Password()
	return &redis.Options{Addr: u.Host, Password: pass, DB: db}, nil
}
