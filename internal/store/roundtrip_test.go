package store

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"condo/internal/core"
	"condo/internal/storage"
	"condo/internal/storage/memory"
)

func openSQLite(t *testing.T) *storage.SQLiteRepository {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "condo.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestReloadMatchesMemory(t *testing.T) {
	backends := []struct {
		name string
		open func(t *testing.T) storage.SnapshotStore
	}{
		{"memory", func(*testing.T) storage.SnapshotStore { return memory.New() }},
		{"sqlite", func(t *testing.T) storage.SnapshotStore { return openSQLite(t) }},
	}

	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()
			backend := b.open(t)
			s := New(backend, WithClock(fixedNow))
			if src := s.Load(ctx); src != SourceSeed {
				t.Fatalf("first load source = %s", src)
			}

			s.AddTransaction(ctx, core.NewTransaction("prop-1", core.TxFine, core.Money{Cents: 125050}, core.TxPending, fixedNow()))
			s.AddVisitor(ctx, core.NewVisitor("Pedro Páramo", "INE-778", "prop-2", fixedNow()))
			if _, err := s.Vote(ctx, "poll-1", "opt-1-1", "owner-1"); err != nil {
				t.Fatalf("vote: %v", err)
			}
			if _, err := s.SetVisitorStatus(ctx, "vis-2", core.VisitorDeparted, fixedNow().Add(time.Hour)); err != nil {
				t.Fatalf("visitor transition: %v", err)
			}
			if _, err := s.MarkPackageDelivered(ctx, "pkg-1", fixedNow()); err != nil {
				t.Fatalf("package transition: %v", err)
			}

			reloaded := New(backend, WithClock(fixedNow))
			if src := reloaded.Load(ctx); src != SourcePersisted {
				t.Fatalf("reload source = %s", src)
			}
			if want, got := s.Snapshot(), reloaded.Snapshot(); !reflect.DeepEqual(want, got) {
				t.Fatalf("reloaded state differs from memory\nwant %+v\ngot  %+v", want, got)
			}
		})
	}
}

func TestPersistOutlivesCancelledRequest(t *testing.T) {
	repo := openSQLite(t)
	s := New(repo, WithClock(fixedNow))
	s.Load(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.AddTransaction(ctx, core.NewTransaction("prop-2", core.TxMaintenanceFee, core.Pesos(1500), core.TxPaid, fixedNow()))

	reloaded := New(repo, WithClock(fixedNow))
	if src := reloaded.Load(context.Background()); src != SourcePersisted {
		t.Fatalf("reload source = %s, the mutation was not written", src)
	}
	if got, want := len(reloaded.Snapshot().Transactions), len(s.Snapshot().Transactions); got != want {
		t.Fatalf("reloaded %d transactions, memory has %d", got, want)
	}
}
