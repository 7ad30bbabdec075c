package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/park285/gridchess/internal/board"
)

func newTestManager(t *testing.T, opts ...Option) (*Manager, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(func() { mr.Close() })
	m, err := NewManager(fmt.Sprintf("redis://%s/0", mr.Addr()), opts...)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	t.Cleanup(func() { _ = m.Close() })
	return m, mr
}

func TestCreateAndLoad(t *testing.T) {
	m, mr := newTestManager(t, WithTTL(time.Hour))
	ctx := context.Background()

	s, err := m.Create(ctx, "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if s.Placement != board.Standard().Placement() || s.Status != StatusActive {
		t.Fatalf("unexpected session: %+v", s)
	}
	if ttl := mr.TTL(gameKey(s.ID)); ttl != time.Hour {
		t.Fatalf("ttl = %v", ttl)
	}

	got, err := m.Load(ctx, s.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.ID != s.ID || got.Placement != s.Placement {
		t.Fatalf("loaded %+v", got)
	}

	if _, err := m.Load(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load(missing) err = %v", err)
	}
	if _, err := m.Create(ctx, "not/a/board"); !errors.Is(err, ErrInvalidArgs) {
		t.Fatalf("Create(bad) err = %v", err)
	}
}

func TestMoveAppliesAndRejects(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()
	s, err := m.Create(ctx, "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	out, err := m.Move(ctx, s.ID, "e2,e4")
	if err != nil || !out.Applied() {
		t.Fatalf("Move e2,e4: %v %+v", err, out)
	}
	if out.Session.LastFrom != "e2" || out.Session.LastTo != "e4" {
		t.Fatalf("last move not recorded: %+v", out.Session)
	}

	out, err = m.Move(ctx, s.ID, "f1,f3")
	if err != nil {
		t.Fatalf("Move f1,f3 infra error: %v", err)
	}
	if out.Applied() || !errors.Is(out.Rejection, board.ErrIllegalMove) {
		t.Fatalf("expected illegal rejection, got %+v", out)
	}

	stored, err := m.Load(ctx, s.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if stored.Placement != "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR" {
		t.Fatalf("rejected move changed the stored board: %q", stored.Placement)
	}

	if _, err := m.Move(ctx, "nope", "e2,e4"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Move on missing game err = %v", err)
	}
	if _, err := m.Move(ctx, " ", "e2,e4"); !errors.Is(err, ErrInvalidArgs) {
		t.Fatalf("Move with blank id err = %v", err)
	}
}

func TestMoveConcurrentUpdate(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()
	s, err := m.Create(ctx, "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	var rival *MoveOutcome
	var rivalErr error
	m.beforeCommit = func(ctx context.Context, id string) {
		m.beforeCommit = nil
		rival, rivalErr = m.Move(ctx, id, "d2,d4")
	}

	out, err := m.Move(ctx, s.ID, "e2,e4")
	if !errors.Is(err, ErrConcurrentUpdate) || out != nil {
		t.Fatalf("expected ErrConcurrentUpdate, got %v %+v", err, out)
	}
	if rivalErr != nil || rival == nil || !rival.Applied() {
		t.Fatalf("rival move should win: %v %+v", rivalErr, rival)
	}

	stored, err := m.Load(ctx, s.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if stored.Placement != "rnbqkbnr/pppppppp/8/8/3P4/8/PPP1PPPP/RNBQKBNR" {
		t.Fatalf("stored placement = %q", stored.Placement)
	}
	if stored.LastFrom != "d2" || stored.LastTo != "d4" {
		t.Fatalf("last move = %s,%s", stored.LastFrom, stored.LastTo)
	}
}

func TestMoveRacingClients(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	for round := 0; round < 20; round++ {
		s, err := m.Create(ctx, "")
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		moves := []string{"e2,e4", "d2,d4"}
		errs := make([]error, len(moves))
		var wg sync.WaitGroup
		for i, mv := range moves {
			wg.Add(1)
			go func(i int, mv string) {
				defer wg.Done()
				_, errs[i] = m.Move(ctx, s.ID, mv)
			}(i, mv)
		}
		wg.Wait()

		applied := 0
		for _, err := range errs {
			switch {
			case err == nil:
				applied++
			case errors.Is(err, ErrConcurrentUpdate):
			default:
				t.Fatalf("round %d: unexpected error %v", round, err)
			}
		}
		stored, err := m.Load(ctx, s.ID)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		grid, err := board.ParsePlacement(stored.Placement)
		if err != nil {
			t.Fatalf("ParsePlacement: %v", err)
		}
		moved := 0
		for _, sq := range []string{"e4", "d4"} {
			to, _ := board.ParseSquare(sq)
			if !grid.At(to).IsEmpty() {
				moved++
			}
		}
		// every successful write is visible; a conflicting one leaves no trace
		if applied == 0 || moved != applied {
			t.Fatalf("round %d: applied=%d moved=%d placement=%q", round, applied, moved, stored.Placement)
		}
	}
}

func TestKingCaptureFinishesAndArchives(t *testing.T) {
	results := NewMemoryResults()
	m, _ := newTestManager(t, WithResultStore(results))
	ctx := context.Background()

	s, err := m.Create(ctx, "4k3/4Q3/8/8/8/8/8/4K3")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	out, err := m.Move(ctx, s.ID, "e7,e8")
	if err != nil || !out.Applied() {
		t.Fatalf("capture: %v %+v", err, out)
	}
	if !out.Session.GameOver || out.Session.Status != StatusFinished || out.Session.Winner != "white" {
		t.Fatalf("session not finished: %+v", out.Session)
	}
	if out.Result.Captured != board.NewPiece(board.King, board.Black) {
		t.Fatalf("captured = %v", out.Result.Captured)
	}
	if w, ok := results.Winner(s.ID); !ok || w != "white" {
		t.Fatalf("result not archived: %q %v", w, ok)
	}
	if ids := results.IDs(); len(ids) != 1 || ids[0] != s.ID {
		t.Fatalf("IDs = %v", ids)
	}

	out, err = m.Move(ctx, s.ID, "e1,e2")
	if !errors.Is(err, ErrFinished) {
		t.Fatalf("move after finish err = %v", err)
	}
	if out == nil || out.Session == nil || out.Session.ID != s.ID {
		t.Fatalf("finished move should still report the session")
	}
}

func TestSessionGameRestoresFlag(t *testing.T) {
	s := &Session{ID: "x", Placement: board.Standard().Placement(), GameOver: true}
	g, err := s.Game()
	if err != nil {
		t.Fatalf("Game: %v", err)
	}
	if !g.GameOver() {
		t.Fatalf("game over flag lost")
	}
	s.Placement = "bogus"
	if _, err := s.Game(); err == nil {
		t.Fatalf("expected error for bad placement")
	}
}

func TestParseRedisURL(t *testing.T) {
	o, err := parseRedisURL("redis://:secret@localhost:6380/3")
	if err != nil {
		t.Fatalf("parseRedisURL: %v", err)
	}
	if o.Addr != "localhost:6380" || o.Password != "secret" || o.DB != 3 {
		t.Fatalf("unexpected options: %+v", o)
	}
	if _, err := parseRedisURL("http://localhost"); err == nil {
		t.Fatalf("expected scheme error")
	}
	if _, err := NewManager(""); err == nil {
		t.Fatalf("expected error for empty url")
	}
}

func TestRowForClampsDuration(t *testing.T) {
	now := time.Now()
	row := rowFor(&Session{ID: "g", Winner: " black ", CreatedAt: now, UpdatedAt: now.Add(-time.Second)})
	if row.DurationMS != 0 || row.Winner != "black" {
		t.Fatalf("unexpected row: %+v", row)
	}
}
