// Package worker drains store change events from the broker into the
// activity log.
package worker

import (
	"context"
	"fmt"

	"condo/internal/amqp"
	applog "condo/internal/log"
	"condo/internal/metrics"
	"condo/internal/sheets"
)

const (
	outcomeAppended = "appended"
	outcomeLogged   = "logged"
	outcomeFailed   = "failed"
)

// ActivityWorker appends each consumed event to the activity sheet. With no
// appender configured events are only logged.
type ActivityWorker struct {
	appender sheets.ActivityAppender
	metrics  *metrics.Metrics
	logger   *applog.Logger
}

func NewActivityWorker(appender sheets.ActivityAppender, m *metrics.Metrics, logger *applog.Logger) *ActivityWorker {
	if logger == nil {
		logger = applog.Discard()
	}
	return &ActivityWorker{
		appender: appender,
		metrics:  m,
		logger:   logger.WithComponent(applog.ComponentWorker),
	}
}

// HandleActivityMessage is an amqp.Handler. An append failure is returned
// so the message is requeued once.
func (w *ActivityWorker) HandleActivityMessage(ctx context.Context, msg *amqp.ActivityMessage) error {
	e := msg.Event()
	if w.appender == nil {
		w.logger.InfoContext(ctx, "Activity",
			applog.FieldOperation, applog.OpConsume,
			applog.FieldCollection, e.Collection,
			applog.FieldRecordID, e.RecordID,
			"message", e.Message)
		w.metrics.RecordActivity(outcomeLogged)
		return nil
	}

	ref, err := w.appender.AppendActivity(ctx, e)
	if err != nil {
		w.metrics.RecordActivity(outcomeFailed)
		return fmt.Errorf("append activity %s/%s: %w", e.Collection, e.RecordID, err)
	}
	w.metrics.RecordActivity(outcomeAppended)
	w.logger.DebugContext(ctx, "Activity appended",
		applog.FieldCollection, e.Collection,
		applog.FieldRecordID, e.RecordID,
		applog.FieldSheetsRef, ref)
	return nil
}

// Consumer is the part of the AMQP client the worker runs on.
type Consumer interface {
	ConsumeActivity(ctx context.Context, handler amqp.Handler) error
}

// Run consumes until ctx is cancelled. Cancellation is not an error.
func (w *ActivityWorker) Run(ctx context.Context, c Consumer) error {
	w.logger.InfoContext(ctx, "Activity worker started", "sheets", w.appender != nil)
	err := c.ConsumeActivity(ctx, w.HandleActivityMessage)
	if ctx.Err() != nil {
		w.logger.InfoContext(ctx, "Activity worker stopped")
		return nil
	}
	return err
}
