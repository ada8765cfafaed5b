package store

import (
	"context"

	"splitcash/internal/core"
)

// TransactionStore is the port every backend implements. Write
// operations validate their input, never partially apply, and report
// core.ErrInvalidInput / core.ErrNotFound wrapped errors.
type TransactionStore interface {
	// List returns the matching transactions ordered by date
	// descending, created_at descending for equal dates.
	List(ctx context.Context, f core.Filter) ([]core.Transaction, error)

	// Get returns the transaction with the given id.
	Get(ctx context.Context, id int64) (core.Transaction, error)

	// Create allocates an id, stamps created_at, persists and returns
	// the stored record.
	Create(ctx context.Context, d core.Draft) (core.Transaction, error)

	// Update replaces all mutable fields of the record with the
	// draft's. ID and created_at never change.
	Update(ctx context.Context, id int64, d core.Draft) (core.Transaction, error)

	// Delete removes the record permanently. A second delete of the
	// same id reports core.ErrNotFound.
	Delete(ctx context.Context, id int64) error

	// Summary recomputes the totals over the records matching the
	// year/month filter; the kind predicate is ignored.
	Summary(ctx context.Context, f core.Filter) (core.Summary, error)
}

// Snapshotter persists the full record set as one coherent snapshot
// per mutation.
type Snapshotter interface {
	// Load reads the current snapshot. A missing snapshot yields an
	// empty set, not an error.
	Load(ctx context.Context) ([]core.Transaction, error)

	// Persist atomically replaces the snapshot with the given set.
	Persist(ctx context.Context, ts []core.Transaction) error
}
