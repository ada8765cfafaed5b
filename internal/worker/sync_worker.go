// Package worker mirrors transaction mutations from the store into the
// external export journal.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"splitcash/internal/amqp"
	"splitcash/internal/core"
	"splitcash/internal/storage"
)

// MutationAppender appends one journal row per mutation.
// *google.Client satisfies it.
type MutationAppender interface {
	AppendMutation(ctx context.Context, op string, t core.Transaction) error
}

// SyncWorker consumes transaction events and mirrors them. Created and
// updated events are resolved against SQLite for the full record;
// deletes carry only the id.
type SyncWorker struct {
	storage *storage.SQLiteRepository
	mirror  MutationAppender
}

func NewSyncWorker(storage *storage.SQLiteRepository, mirror MutationAppender) *SyncWorker {
	return &SyncWorker{
		storage: storage,
		mirror:  mirror,
	}
}

// HandleEvent processes a single transaction event.
func (w *SyncWorker) HandleEvent(ctx context.Context, ev *amqp.TransactionEvent) error {
	slog.InfoContext(ctx, "Processing transaction event", "op", ev.Op, "id", ev.ID)

	switch ev.Op {
	case amqp.OpCreated, amqp.OpUpdated:
		rec, err := w.storage.Get(ctx, ev.ID)
		if errors.Is(err, core.ErrNotFound) {
			// Deleted between publish and consume; nothing to mirror.
			slog.WarnContext(ctx, "Transaction gone before mirroring", "id", ev.ID)
			return nil
		}
		if err != nil {
			return fmt.Errorf("load transaction %d: %w", ev.ID, err)
		}
		if err := w.mirror.AppendMutation(ctx, ev.Op, rec); err != nil {
			return fmt.Errorf("mirror %s event for %d: %w", ev.Op, ev.ID, err)
		}
		return nil

	case amqp.OpDeleted:
		if err := w.mirror.AppendMutation(ctx, ev.Op, core.Transaction{ID: ev.ID}); err != nil {
			return fmt.Errorf("mirror delete event for %d: %w", ev.ID, err)
		}
		return nil

	default:
		slog.WarnContext(ctx, "Skipping unknown event op", "op", ev.Op, "id", ev.ID)
		return nil
	}
}
