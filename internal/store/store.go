// Package store owns the canonical transaction record set: identity,
// ordering, filtering and aggregation.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"splitcash/internal/core"
)

// Store is a snapshot-backed TransactionStore. Every mutation reads
// the current set, applies its change and persists the full set back
// through the Snapshotter before the in-memory copy is swapped, so a
// failed persist never acknowledges an uncommitted mutation.
//
// Within one process all operations are serialized by the mutex. The
// Snapshotter gives no cross-process mutual exclusion: with a shared
// backing file the last writer wins.
type Store struct {
	mu     sync.Mutex
	snap   Snapshotter
	items  []core.Transaction
	nextID int64
	now    func() time.Time
}

var _ TransactionStore = (*Store)(nil)

// Open loads the persisted set and recovers the id allocator: next id
// is 1+max(existing ids), or 1 for an empty set.
func Open(ctx context.Context, snap Snapshotter) (*Store, error) {
	items, err := snap.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	var maxID int64
	for _, t := range items {
		if t.ID > maxID {
			maxID = t.ID
		}
	}

	slog.InfoContext(ctx, "Transaction store opened",
		"records", len(items),
		"next_id", maxID+1)

	return &Store{
		snap:   snap,
		items:  items,
		nextID: maxID + 1,
		now:    time.Now,
	}, nil
}

func (s *Store) List(_ context.Context, f core.Filter) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return f.Apply(s.items), nil
}

func (s *Store) Get(_ context.Context, id int64) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.items {
		if t.ID == id {
			return t, nil
		}
	}
	return core.Transaction{}, core.ErrNotFound
}

func (s *Store) Create(ctx context.Context, d core.Draft) (core.Transaction, error) {
	if err := d.Validate(); err != nil {
		return core.Transaction{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// The id advances even if the persist below fails, so an id is
	// never handed out twice within this process.
	id := s.nextID
	s.nextID++

	rec := d.Apply(core.Transaction{ID: id, CreatedAt: s.now().UTC()})

	next := make([]core.Transaction, len(s.items), len(s.items)+1)
	copy(next, s.items)
	next = append(next, rec)

	if err := s.snap.Persist(ctx, next); err != nil {
		return core.Transaction{}, fmt.Errorf("persist snapshot: %w", err)
	}
	s.items = next

	slog.InfoContext(ctx, "Transaction created",
		"id", rec.ID,
		"type", rec.Kind,
		"amount_cents", rec.Amount.Cents,
		"date", rec.Date.String())

	return rec, nil
}

func (s *Store) Update(ctx context.Context, id int64, d core.Draft) (core.Transaction, error) {
	if err := d.Validate(); err != nil {
		return core.Transaction{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, t := range s.items {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return core.Transaction{}, core.ErrNotFound
	}

	next := make([]core.Transaction, len(s.items))
	copy(next, s.items)
	next[idx] = d.Apply(next[idx])

	if err := s.snap.Persist(ctx, next); err != nil {
		return core.Transaction{}, fmt.Errorf("persist snapshot: %w", err)
	}
	s.items = next

	slog.InfoContext(ctx, "Transaction updated", "id", id)
	return next[idx], nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, t := range s.items {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return core.ErrNotFound
	}

	next := make([]core.Transaction, 0, len(s.items)-1)
	next = append(next, s.items[:idx]...)
	next = append(next, s.items[idx+1:]...)

	if err := s.snap.Persist(ctx, next); err != nil {
		return fmt.Errorf("persist snapshot: %w", err)
	}
	s.items = next

	slog.InfoContext(ctx, "Transaction deleted", "id", id)
	return nil
}

func (s *Store) Summary(_ context.Context, f core.Filter) (core.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return core.ComputeSummary(f.WithoutKind().Apply(s.items)), nil
}
