package backend

import (
	"context"
	"fmt"

	"conta/internal/amqp"
	"conta/internal/log"
	"conta/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.Discard()
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

// Create implements Factory.Create
func (f *DefaultFactory) Create(ctx context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	store, err := f.createStore(config)
	if err != nil {
		return nil, err
	}

	result := &Result{Store: store}

	// AMQP is optional: a broker outage must not keep the ledger from starting
	if config.AMQPURL != "" {
		client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue, f.logger)
		if err != nil {
			f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without events",
				log.NewFields().
					WithOperation(log.OpStartup).
					WithError(err, log.ErrorTypeNetwork).
					ToSlice()...)
		} else {
			result.Publisher = client
			f.logger.InfoContext(ctx, "Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	}

	return result, nil
}

func (f *DefaultFactory) createStore(config Config) (storage.Store, error) {
	switch config.Type {
	case FileBackend:
		f.logger.Info("Initialized file backend", log.FieldPath, config.DataFile)
		return storage.NewFileStore(config.DataFile, f.logger), nil
	case SQLiteBackend:
		store, err := storage.NewSQLiteStore(config.SQLiteDBPath, f.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
		}
		f.logger.Info("Initialized SQLite backend", log.FieldPath, config.SQLiteDBPath)
		return store, nil
	case MemoryBackend:
		f.logger.Info("Initialized memory backend")
		return storage.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}
