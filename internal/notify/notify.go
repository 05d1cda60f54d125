// Package notify carries the user-facing message emitted after every
// store change.
package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	applog "condo/internal/log"
)

// Event describes one change to the store.
type Event struct {
	Collection string    `json:"collection"`
	RecordID   string    `json:"recordId"`
	Message    string    `json:"message"`
	At         time.Time `json:"at"`
}

type Notifier interface {
	Notify(ctx context.Context, e Event) error
}

// Func adapts a function to Notifier.
type Func func(ctx context.Context, e Event) error

func (f Func) Notify(ctx context.Context, e Event) error { return f(ctx, e) }

// LogNotifier writes each event as an info line.
type LogNotifier struct {
	logger *applog.Logger
}

func NewLogNotifier(logger *applog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.WithComponent(applog.ComponentNotify)}
}

func (n *LogNotifier) Notify(ctx context.Context, e Event) error {
	n.logger.InfoContext(ctx, e.Message,
		applog.FieldCollection, e.Collection,
		applog.FieldRecordID, e.RecordID,
	)
	return nil
}

// Multi fans an event out to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, e Event) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Recorder keeps events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Notify(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}
