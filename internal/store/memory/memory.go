// Package memory keeps the record set snapshot in process memory.
// Used by the memory backend and as the store fixture in tests.
package memory

import (
	"context"
	"sync"

	"splitcash/internal/core"
)

type Snapshot struct {
	mu    sync.Mutex
	items []core.Transaction
}

func New() *Snapshot {
	return &Snapshot{}
}

// Seed returns a snapshot pre-populated with the given records, as if
// they had been persisted by an earlier process.
func Seed(ts []core.Transaction) *Snapshot {
	s := &Snapshot{}
	s.items = append(s.items, ts...)
	return s
}

func (s *Snapshot) Load(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *Snapshot) Persist(_ context.Context, ts []core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make([]core.Transaction, len(ts))
	copy(s.items, ts)
	return nil
}
