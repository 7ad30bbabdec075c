package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &Repository{db: db}, mock
}

func TestSaveResultUpserts(t *testing.T) {
	repo, mock := newMockRepository(t)
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s := &Session{
		ID:        "g1",
		Placement: "4Q3/8/8/8/8/8/8/4K3",
		Winner:    "white",
		Status:    StatusFinished,
		CreatedAt: start,
		UpdatedAt: start.Add(90 * time.Second),
	}

	mock.ExpectExec(`(?s)INSERT INTO grid_games .* ON CONFLICT \(game_id\) DO UPDATE`).
		WithArgs("g1", "4Q3/8/8/8/8/8/8/4K3", "white", start, start.Add(90*time.Second), int64(90000)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SaveResult(context.Background(), s); err != nil {
		t.Fatalf("SaveResult: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSaveResultPropagatesError(t *testing.T) {
	repo, mock := newMockRepository(t)
	boom := errors.New("connection reset")
	mock.ExpectExec(`INSERT INTO grid_games`).WillReturnError(boom)

	now := time.Now()
	err := repo.SaveResult(context.Background(), &Session{ID: "g2", CreatedAt: now, UpdatedAt: now})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSaveResultNilIsNoop(t *testing.T) {
	repo, mock := newMockRepository(t)
	if err := repo.SaveResult(context.Background(), nil); err != nil {
		t.Fatalf("SaveResult(nil): %v", err)
	}
	var none *Repository
	if err := none.SaveResult(context.Background(), &Session{ID: "x"}); err != nil {
		t.Fatalf("nil repository: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected statements: %v", err)
	}
}

func TestEnsureSchema(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS grid_games`).WillReturnResult(sqlmock.NewResult(0, 0))
	if err := repo.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestManagerArchivesThroughRepository(t *testing.T) {
	repo, mock := newMockRepository(t)
	m, _ := newTestManager(t, WithResultStore(repo))
	ctx := context.Background()

	s, err := m.Create(ctx, "4k3/4Q3/8/8/8/8/8/4K3")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	mock.ExpectExec(`INSERT INTO grid_games`).
		WithArgs(s.ID, "4Q3/8/8/8/8/8/8/4K3", "white", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if _, err := m.Move(ctx, s.ID, "e7,e8"); err != nil {
		t.Fatalf("Move: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("result not archived: %v", err)
	}
}
