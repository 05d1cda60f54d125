// Package memory is an in-process snapshot store for tests and throwaway
// runs. Nothing survives a restart.
package memory

import (
	"context"
	"sync"

	"condo/internal/storage"
)

var _ storage.SnapshotStore = (*Store)(nil)

type Store struct {
	mu      sync.Mutex
	payload []byte
	saves   int
	saveErr error
	loadErr error
}

func New() *Store { return &Store{} }

// NewWithPayload starts with an already saved payload.
func NewWithPayload(b []byte) *Store {
	return &Store{payload: append([]byte(nil), b...)}
}

func (s *Store) Load(_ context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	if s.payload == nil {
		return nil, storage.ErrNoSnapshot
	}
	return append([]byte(nil), s.payload...), nil
}

func (s *Store) Save(_ context.Context, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.payload = append([]byte(nil), payload...)
	s.saves++
	return nil
}

func (s *Store) Close() error { return nil }

// FailSaves makes every following Save return err; nil restores normal behaviour.
func (s *Store) FailSaves(err error) {
	s.mu.Lock()
	s.saveErr = err
	s.mu.Unlock()
}

func (s *Store) FailLoads(err error) {
	s.mu.Lock()
	s.loadErr = err
	s.mu.Unlock()
}

// Saves counts successful saves.
func (s *Store) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// Payload returns the last saved bytes, nil when nothing was saved.
func (s *Store) Payload() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.payload...)
}
