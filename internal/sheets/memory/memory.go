// Package memory keeps exported sheets in process, for tests and for
// running without Google credentials.
package memory

import (
	"context"
	"fmt"
	"sync"

	"condo/internal/notify"
	ports "condo/internal/sheets"
)

var (
	_ ports.ReportWriter     = (*Store)(nil)
	_ ports.ActivityAppender = (*Store)(nil)
)

type Store struct {
	mu       sync.Mutex
	tables   map[string]ports.Table
	activity []notify.Event
	writeErr error
}

func New() *Store {
	return &Store{tables: make(map[string]ports.Table)}
}

// WriteTable replaces any table with the same name.
func (s *Store) WriteTable(_ context.Context, t ports.Table) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return "", s.writeErr
	}
	rows := make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		rows[i] = append([]string(nil), r...)
	}
	t.Header = append([]string(nil), t.Header...)
	t.Rows = rows
	s.tables[t.Name] = t
	return fmt.Sprintf("mem:%s!%d", t.Name, len(rows)+1), nil
}

func (s *Store) AppendActivity(_ context.Context, e notify.Event) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return "", s.writeErr
	}
	s.activity = append(s.activity, e)
	return fmt.Sprintf("mem:activity!%d", len(s.activity)), nil
}

// FailWrites makes every following write return err; nil restores it.
func (s *Store) FailWrites(err error) {
	s.mu.Lock()
	s.writeErr = err
	s.mu.Unlock()
}

func (s *Store) Table(name string) (ports.Table, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables[name]
	return t, ok
}

func (s *Store) Activity() []notify.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]notify.Event(nil), s.activity...)
}
