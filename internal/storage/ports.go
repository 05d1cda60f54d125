// Package storage persists the community state as a single JSON document
// stored under one key.
package storage

import (
	"context"
	"errors"
)

// StateKey is the key the whole snapshot is stored under.
const StateKey = "condo-state"

// ErrNoSnapshot is returned by Load when nothing was ever saved.
var ErrNoSnapshot = errors.New("no saved snapshot")

// SnapshotStore keeps one encoded snapshot. Save replaces the previous
// payload atomically: a failed Save leaves the old one readable.
type SnapshotStore interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, payload []byte) error
	Close() error
}

// Pinger is implemented by stores backed by a database connection.
type Pinger interface {
	Ping(ctx context.Context) error
}
