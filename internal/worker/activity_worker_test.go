package worker

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"condo/internal/amqp"
	"condo/internal/metrics"
	"condo/internal/notify"
	sheetsmem "condo/internal/sheets/memory"
)

func message() *amqp.ActivityMessage {
	return amqp.NewActivityMessage(notify.Event{
		Collection: "packages",
		RecordID:   "pkg-9",
		Message:    "Nuevo paquete de DHL para el Lote 15.",
		At:         time.Date(2023, 10, 25, 9, 0, 0, 0, time.UTC),
	})
}

func TestHandleActivityMessage(t *testing.T) {
	tests := []struct {
		name     string
		sheets   *sheetsmem.Store
		fail     error
		wantErr  bool
		wantRows int
	}{
		{name: "appends", sheets: sheetsmem.New(), wantRows: 1},
		{name: "append fails", sheets: sheetsmem.New(), fail: errors.New("quota"), wantErr: true},
		{name: "no sheets", sheets: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewActivityWorker(nil, metrics.New(), nil)
			if tt.sheets != nil {
				tt.sheets.FailWrites(tt.fail)
				w = NewActivityWorker(tt.sheets, metrics.New(), nil)
			}
			err := w.HandleActivityMessage(context.Background(), message())
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.sheets == nil {
				return
			}
			got := tt.sheets.Activity()
			if len(got) != tt.wantRows {
				t.Fatalf("rows = %d, want %d", len(got), tt.wantRows)
			}
			if tt.wantRows > 0 && got[0].RecordID != "pkg-9" {
				t.Fatalf("event = %+v", got[0])
			}
		})
	}
}

type fakeConsumer struct {
	msgs []*amqp.ActivityMessage
	err  error
}

func (f fakeConsumer) ConsumeActivity(ctx context.Context, h amqp.Handler) error {
	for _, m := range f.msgs {
		_ = h(ctx, m)
	}
	if f.err != nil {
		return f.err
	}
	<-ctx.Done()
	return ctx.Err()
}

func TestRun(t *testing.T) {
	sheets := sheetsmem.New()
	m := metrics.New()
	w := NewActivityWorker(sheets, m, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, fakeConsumer{msgs: []*amqp.ActivityMessage{message(), message()}}) }()

	deadline := time.After(2 * time.Second)
	for len(sheets.Activity()) < 2 {
		select {
		case <-deadline:
			t.Fatalf("messages not consumed")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run after cancel = %v", err)
	}

	err := w.Run(context.Background(), fakeConsumer{err: errors.New("access refused")})
	if err == nil || !strings.Contains(err.Error(), "access refused") {
		t.Fatalf("Run = %v", err)
	}
}
