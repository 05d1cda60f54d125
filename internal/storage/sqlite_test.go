package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"condo/internal/core"
)

func TestSQLiteRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "condo.db")

	repo, err := NewSQLiteRepository(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := repo.Load(ctx); !errors.Is(err, ErrNoSnapshot) {
		t.Fatalf("expected ErrNoSnapshot on empty db, got %v", err)
	}

	snap := core.Snapshot{Announcements: []core.Announcement{{ID: "ann-1", Title: "Junta"}}}
	payload, err := Encode(snap)
	if err != nil {
		t.Fatal(err)
	}
	if err := repo.Save(ctx, payload); err != nil {
		t.Fatalf("save: %v", err)
	}
	snap.Announcements = append(snap.Announcements, core.Announcement{ID: "ann-2"})
	payload, _ = Encode(snap)
	if err := repo.Save(ctx, payload); err != nil {
		t.Fatalf("second save: %v", err)
	}
	if err := repo.Close(); err != nil {
		t.Fatal(err)
	}

	// Reopen to make sure the migration is idempotent and data survived.
	repo, err = NewSQLiteRepository(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer repo.Close()
	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	decoded, err := Decode(got)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(decoded.Announcements) != 2 || decoded.Announcements[0].Title != "Junta" {
		t.Fatalf("unexpected announcements: %+v", decoded.Announcements)
	}
}

func TestMigrateStateTableIsRepeatable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "condo.db")
	for i := 0; i < 2; i++ {
		version, err := MigrateStateTable(path)
		if err != nil {
			t.Fatalf("run %d: %v", i+1, err)
		}
		if version != 1 {
			t.Fatalf("run %d: version = %d, want 1", i+1, version)
		}
	}
}

func TestDecodeRejectsUnknownSchema(t *testing.T) {
	if _, err := Decode([]byte(`{"schemaVersion":2}`)); !errors.Is(err, core.ErrUnsupportedSchema) {
		t.Fatalf("expected ErrUnsupportedSchema, got %v", err)
	}
	if _, err := Decode([]byte(`{not json`)); err == nil {
		t.Fatal("expected decode error")
	}
}
