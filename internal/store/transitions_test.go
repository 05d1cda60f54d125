package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"condo/internal/core"
	"condo/internal/storage/memory"
)

func TestMarkPackageDelivered(t *testing.T) {
	backend := memory.New()
	s, rec := newTestStore(t, backend)
	at := time.Date(2023, 10, 25, 18, 30, 0, 0, time.Local)

	p, err := s.MarkPackageDelivered(context.Background(), "pkg-1", at)
	if err != nil {
		t.Fatal(err)
	}
	if p.Status != core.PackageDelivered || p.PickedUpDate == nil || *p.PickedUpDate != "2023-10-25 18:30" {
		t.Fatalf("unexpected package %+v", p)
	}
	if got := persisted(t, backend).Packages[0]; got.Status != core.PackageDelivered {
		t.Fatal("delivery not persisted")
	}
	if len(rec.Events()) != 1 {
		t.Fatal("delivery should notify")
	}

	if _, err := s.MarkPackageDelivered(context.Background(), "pkg-1", at); !errors.Is(err, core.ErrInvalidTransition) {
		t.Fatalf("second delivery: %v", err)
	}
	if _, err := s.MarkPackageDelivered(context.Background(), "pkg-404", at); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("unknown package: %v", err)
	}
	if backend.Saves() != 1 {
		t.Fatalf("failed transitions must not persist, saves = %d", backend.Saves())
	}
}

func TestSetVisitorStatus(t *testing.T) {
	at := time.Date(2023, 10, 25, 16, 0, 0, 0, time.Local)

	tests := []struct {
		name    string
		id      string
		to      core.VisitorStatus
		wantErr error
	}{
		{"expected enters", "vis-3", core.VisitorInside, nil},
		{"inside leaves", "vis-2", core.VisitorDeparted, nil},
		{"expected cannot skip to departed", "vis-4", core.VisitorDeparted, core.ErrInvalidTransition},
		{"departed stays departed", "vis-1", core.VisitorInside, core.ErrInvalidTransition},
		{"no backwards step", "vis-2", core.VisitorExpected, core.ErrInvalidTransition},
		{"unknown visitor", "vis-404", core.VisitorInside, core.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestStore(t, memory.New())
			v, err := s.SetVisitorStatus(context.Background(), tt.id, tt.to, at)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if v.Status != tt.to {
				t.Fatalf("status = %s", v.Status)
			}
			switch tt.to {
			case core.VisitorInside:
				if v.EntryDate != "2023-10-25 16:00" {
					t.Fatalf("entry = %s", v.EntryDate)
				}
			case core.VisitorDeparted:
				if v.ExitDate == nil || *v.ExitDate != "2023-10-25 16:00" {
					t.Fatalf("exit = %v", v.ExitDate)
				}
			}
		})
	}
}

func TestAttachDocument(t *testing.T) {
	backend := memory.New()
	s, rec := newTestStore(t, backend)
	ctx := context.Background()
	doc := core.Document{Name: "Acta.pdf", URL: "documents/prop-1/Acta.pdf"}

	p, err := s.AttachDocument(ctx, "prop-1", doc)
	if err != nil {
		t.Fatal(err)
	}
	if last := p.Documents[len(p.Documents)-1]; last != doc {
		t.Fatalf("last document = %+v", last)
	}
	snap := persisted(t, backend)
	stored, _ := snap.Property("prop-1")
	if len(stored.Documents) != 4 {
		t.Fatalf("persisted documents = %d, want 4", len(stored.Documents))
	}
	if ev := rec.Events(); len(ev) != 1 || ev[0].Collection != core.CollProperties {
		t.Fatalf("events = %+v", ev)
	}

	if _, err := s.AttachDocument(ctx, "prop-1", doc); !errors.Is(err, core.ErrDuplicate) {
		t.Fatalf("duplicate attach: %v", err)
	}
	if _, err := s.AttachDocument(ctx, "prop-404", doc); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("unknown property: %v", err)
	}
}
