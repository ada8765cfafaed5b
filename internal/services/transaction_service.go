// Package services orchestrates the transaction store and the event
// bus.
package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"splitcash/internal/amqp"
	"splitcash/internal/core"
	"splitcash/internal/store"
)

// EventPublisher publishes mutation events. *amqp.Client satisfies it.
type EventPublisher interface {
	PublishTransactionEvent(ctx context.Context, op string, id int64) error
}

// TransactionService decorates a TransactionStore with mutation event
// publishing. Events go out only after the synchronous persist
// succeeded and a publish failure never fails the caller's request:
// the store is the source of truth, the bus is best-effort.
type TransactionService struct {
	store     store.TransactionStore
	publisher EventPublisher
}

var _ store.TransactionStore = (*TransactionService)(nil)

// NewTransactionService wraps the store. publisher may be nil, in
// which case mutations are not announced.
func NewTransactionService(s store.TransactionStore, publisher EventPublisher) *TransactionService {
	return &TransactionService{store: s, publisher: publisher}
}

func (s *TransactionService) List(ctx context.Context, f core.Filter) ([]core.Transaction, error) {
	return s.store.List(ctx, f)
}

func (s *TransactionService) Get(ctx context.Context, id int64) (core.Transaction, error) {
	return s.store.Get(ctx, id)
}

func (s *TransactionService) Summary(ctx context.Context, f core.Filter) (core.Summary, error) {
	return s.store.Summary(ctx, f)
}

func (s *TransactionService) Create(ctx context.Context, d core.Draft) (core.Transaction, error) {
	rec, err := s.store.Create(ctx, d)
	if err != nil {
		return core.Transaction{}, err
	}
	s.publish(ctx, amqp.OpCreated, rec.ID)
	return rec, nil
}

func (s *TransactionService) Update(ctx context.Context, id int64, d core.Draft) (core.Transaction, error) {
	rec, err := s.store.Update(ctx, id, d)
	if err != nil {
		return core.Transaction{}, err
	}
	s.publish(ctx, amqp.OpUpdated, rec.ID)
	return rec, nil
}

func (s *TransactionService) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, amqp.OpDeleted, id)
	return nil
}

func (s *TransactionService) publish(ctx context.Context, op string, id int64) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishTransactionEvent(ctx, op, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"error", err, "op", op, "id", id)
	}
}

// Close releases the store and publisher when they hold resources.
func (s *TransactionService) Close() error {
	var errs []error

	if closer, ok := s.store.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}
	if closer, ok := s.publisher.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("publisher: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close transaction service: %v", errs)
	}
	return nil
}
