package session

import (
	"context"
	"sort"
	"sync"
)

// MemoryResults is an in-process ResultStore used when no database is configured.
type MemoryResults struct {
	mu   sync.RWMutex
	rows map[string]resultRow
}

func NewMemoryResults() *MemoryResults {
	return &MemoryResults{rows: make(map[string]resultRow)}
}

func (m *MemoryResults) SaveResult(ctx context.Context, s *Session) error {
	if s == nil {
		return nil
	}
	m.mu.Lock()
	m.rows[s.ID] = rowFor(s)
	m.mu.Unlock()
	return nil
}

// Winner returns the stored winner of a game.
func (m *MemoryResults) Winner(id string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	row, ok := m.rows[id]
	return row.Winner, ok
}

// IDs lists archived game ids, most recently ended first.
func (m *MemoryResults) IDs() []string {
	m.mu.RLock()
	rows := make([]resultRow, 0, len(m.rows))
	for _, r := range m.rows {
		rows = append(rows, r)
	}
	m.mu.RUnlock()
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].EndedAt.Equal(rows[j].EndedAt) {
			return rows[i].EndedAt.After(rows[j].EndedAt)
		}
		return rows[i].GameID > rows[j].GameID
	})
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.GameID
	}
	return out
}
