package backend

import (
	"context"
	"errors"
	"fmt"

	"condo/internal/amqp"
	applog "condo/internal/log"
	"condo/internal/notify"
	"condo/internal/storage"
	"condo/internal/storage/memory"
	"condo/internal/storage/postgres"
)

type DefaultFactory struct {
	logger *applog.Logger
}

func NewFactory(logger *applog.Logger) Factory {
	if logger == nil {
		logger = applog.Discard()
	}
	return &DefaultFactory{logger: logger.WithComponent(applog.ComponentBackend)}
}

func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		store storage.SnapshotStore
		err   error
	)
	switch config.Type {
	case SQLiteBackend:
		store, err = storage.NewSQLiteRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
	case PostgresBackend:
		store, err = postgres.NewStore(ctx, config.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize postgres store: %w", err)
		}
		f.logger.Info("Initialized postgres backend")
	case MemoryBackend:
		store = memory.New()
		f.logger.Info("Initialized memory backend; state is lost on exit")
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}

	notifier, closeNotifier := f.createNotifier(config)
	return &Result{
		Store:    store,
		Notifier: notifier,
		Cleanup: func() error {
			return errors.Join(closeNotifier(), store.Close())
		},
	}, nil
}

// createNotifier always logs mutations and also publishes them when AMQP
// is configured and reachable. An unreachable broker is not fatal.
func (f *DefaultFactory) createNotifier(config Config) (notify.Notifier, CleanupFunc) {
	logNotifier := notify.NewLogNotifier(f.logger)
	noop := func() error { return nil }
	if config.AMQPURL == "" {
		return logNotifier, noop
	}

	client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue, f.logger)
	if err != nil {
		f.logger.Warn("Failed to initialize AMQP client, continuing without publishing", applog.FieldError, err.Error())
		return logNotifier, noop
	}
	f.logger.Info("Initialized AMQP client",
		"exchange", config.AMQPExchange,
		"queue", config.AMQPQueue)
	return notify.Multi{logNotifier, client}, client.Close
}
