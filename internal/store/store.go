// Package store owns the in-memory community state and writes it through
// to a storage.SnapshotStore after every change.
package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"condo/internal/core"
	applog "condo/internal/log"
	"condo/internal/metrics"
	"condo/internal/notify"
	"condo/internal/seed"
	"condo/internal/storage"
)

// Source tells where the state came from on Load.
type Source string

const (
	SourcePersisted Source = "persisted"
	SourceSeed      Source = "seed"
	SourceEmpty     Source = "empty"
)

type Store struct {
	mu   sync.RWMutex
	snap core.Snapshot

	backend  storage.SnapshotStore
	seed     func() (core.Snapshot, error)
	notifier notify.Notifier
	metrics  *metrics.Metrics
	logger   *applog.Logger
	now      func() time.Time

	persistTimeout time.Duration
}

// DefaultPersistTimeout bounds a single snapshot write.
const DefaultPersistTimeout = 10 * time.Second

type Option func(*Store)

func WithNotifier(n notify.Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

func WithLogger(l *applog.Logger) Option {
	return func(s *Store) { s.logger = l.WithComponent(applog.ComponentStore) }
}

// WithClock replaces time.Now, mostly for poll closing dates in tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithPersistTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.persistTimeout = d
		}
	}
}

// WithSeed replaces the embedded demo dataset used when nothing was saved.
func WithSeed(fn func() (core.Snapshot, error)) Option {
	return func(s *Store) { s.seed = fn }
}

// New returns an empty store. Call Load before serving reads.
func New(backend storage.SnapshotStore, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		seed:    seed.Default,
		logger:  applog.Discard(),
		now:     time.Now,

		persistTimeout: DefaultPersistTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.notifier == nil {
		s.notifier = notify.NewLogNotifier(s.logger)
	}
	s.snap.Normalize()
	return s
}

// Load replaces the in-memory state with the persisted snapshot, or with
// the seed dataset when nothing usable was saved. It never fails.
func (s *Store) Load(ctx context.Context) Source {
	snap, src := s.read(ctx)

	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "State loaded",
		applog.FieldOperation, applog.OpLoad,
		"source", string(src),
		"properties", len(snap.Properties),
		"polls", len(snap.Polls),
	)
	return src
}

func (s *Store) read(ctx context.Context) (core.Snapshot, Source) {
	payload, err := s.backend.Load(ctx)
	switch {
	case err == nil:
		snap, decodeErr := storage.Decode(payload)
		if decodeErr == nil {
			return snap, SourcePersisted
		}
		s.logger.WarnContext(ctx, "Saved state unreadable, using seed",
			applog.FieldOperation, applog.OpLoad,
			applog.FieldError, decodeErr.Error(),
		)
	case errors.Is(err, storage.ErrNoSnapshot):
		s.logger.InfoContext(ctx, "No saved state, using seed", applog.FieldOperation, applog.OpLoad)
	default:
		s.logger.WarnContext(ctx, "Could not read saved state, using seed",
			applog.FieldOperation, applog.OpLoad,
			applog.FieldError, err.Error(),
		)
	}

	snap, err := s.seed()
	if err != nil {
		s.logger.ErrorContext(ctx, "Seed dataset unavailable, starting empty", applog.FieldError, err.Error())
		empty := core.Snapshot{}
		empty.Normalize()
		return empty, SourceEmpty
	}
	return snap, SourceSeed
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() core.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Clone()
}

// Now is the store clock.
func (s *Store) Now() time.Time {
	return s.now()
}

// persistLocked writes the whole state. Failures are logged and counted;
// memory is never rolled back. The write outlives a cancelled caller so a
// change accepted in memory is also on disk. Callers hold s.mu.
func (s *Store) persistLocked(ctx context.Context) {
	payload, err := storage.Encode(s.snap)
	if err == nil {
		saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.persistTimeout)
		err = s.backend.Save(saveCtx, payload)
		cancel()
	}
	if err != nil {
		s.metrics.RecordPersistFailure()
		s.logger.ErrorContext(ctx, "Failed to persist state",
			applog.FieldOperation, applog.OpPersist,
			applog.FieldError, err.Error(),
		)
		return
	}
	s.logger.DebugContext(ctx, "State persisted", applog.FieldOperation, applog.OpPersist, applog.FieldBytes, len(payload))
}

// update runs fn under the write lock and persists when fn succeeds.
func (s *Store) update(ctx context.Context, fn func(*core.Snapshot) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(&s.snap); err != nil {
		return err
	}
	s.persistLocked(ctx)
	return nil
}

// announce records the change and emits its notification. Notification
// failures never reach the caller.
func (s *Store) announce(ctx context.Context, collection, id, message string) {
	s.metrics.RecordMutation(collection)
	err := s.notifier.Notify(ctx, notify.Event{
		Collection: collection,
		RecordID:   id,
		Message:    message,
		At:         s.now(),
	})
	if err != nil {
		s.metrics.RecordNotifyFailure()
		s.logger.WarnContext(ctx, "Notification not delivered",
			applog.FieldCollection, collection,
			applog.FieldRecordID, id,
			applog.FieldError, err.Error(),
		)
	}
}

func add[T any](ctx context.Context, s *Store, collection, id, message string, rec T, field func(*core.Snapshot) *[]T) {
	_ = s.update(ctx, func(snap *core.Snapshot) error {
		list := field(snap)
		*list = append(*list, rec)
		return nil
	})
	s.logger.InfoContext(ctx, "Record added",
		applog.FieldOperation, applog.OpCreate,
		applog.FieldCollection, collection,
		applog.FieldRecordID, id,
	)
	s.announce(ctx, collection, id, message)
}
