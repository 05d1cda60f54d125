package backend

import (
	"context"

	"condo/internal/notify"
	"condo/internal/storage"
)

// CleanupFunc releases what a backend opened.
type CleanupFunc func() error

// Result is a ready snapshot store plus the notifier mutations report to.
type Result struct {
	Store    storage.SnapshotStore
	Notifier notify.Notifier
	Cleanup  CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}

type Config struct {
	Type Type

	SQLiteDBPath string
	PostgresDSN  string

	// Empty AMQPURL publishes to the log only.
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

type Type string

const (
	SQLiteBackend   Type = "sqlite"
	PostgresBackend Type = "postgres"
	MemoryBackend   Type = "memory"
)

func (t Type) String() string {
	return string(t)
}

func (t Type) IsValid() bool {
	switch t {
	case SQLiteBackend, PostgresBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
