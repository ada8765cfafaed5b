package backend

import (
	"context"
	"fmt"
	"log/slog"

	"splitcash/internal/amqp"
	"splitcash/internal/services"
	"splitcash/internal/storage"
	"splitcash/internal/store"
	"splitcash/internal/store/file"
	"splitcash/internal/store/memory"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case FileBackend:
		return f.createFileBackend(ctx, config)
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	case MemoryBackend:
		return f.createMemoryBackend(ctx)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createFileBackend(ctx context.Context, config Config) (*Result, error) {
	st, err := store.Open(ctx, file.New(config.SnapshotPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open file-backed store: %w", err)
	}

	f.logger.Info("Initialized file backend", "snapshot_path", config.SnapshotPath)

	return &Result{
		Store:   services.NewTransactionService(st, nil),
		Cleanup: nil,
	}, nil
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*Result, error) {
	sqliteRepo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	// The event publisher is optional; the mirror worker resolves
	// events against the same SQLite database.
	var amqpClient *amqp.Client
	if config.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without events", "error", err)
			amqpClient = nil
		} else {
			f.logger.Info("Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	}

	svc := services.NewTransactionService(sqliteRepo, publisherOrNil(amqpClient))

	f.logger.Info("Initialized SQLite backend",
		"db_path", config.SQLiteDBPath,
		"amqp_enabled", amqpClient != nil)

	return &Result{
		Store:   svc,
		Cleanup: svc.Close,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend(ctx context.Context) (*Result, error) {
	st, err := store.Open(ctx, memory.New())
	if err != nil {
		return nil, fmt.Errorf("failed to open memory store: %w", err)
	}

	f.logger.Info("Initialized memory backend")

	return &Result{
		Store:   services.NewTransactionService(st, nil),
		Cleanup: nil,
	}, nil
}

// publisherOrNil avoids storing a typed nil in the service's
// interface field.
func publisherOrNil(c *amqp.Client) services.EventPublisher {
	if c == nil {
		return nil
	}
	return c
}
