// Package worker runs the background side of the tracker: statement exports
// driven by payment events and the periodic month reconciliation.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/MarcoIannucci/spotify-tracking/internal/amqp"
	"github.com/MarcoIannucci/spotify-tracking/internal/core"
	"github.com/MarcoIannucci/spotify-tracking/internal/services"
)

// StatementWriter exports one participant's statement to a destination.
type StatementWriter interface {
	WriteStatement(ctx context.Context, s core.Statement) error
}

// StatementWorker rebuilds and exports a participant's statement whenever a
// payment event arrives.
type StatementWorker struct {
	reports *services.Reports
	writers []StatementWriter
}

func NewStatementWorker(reports *services.Reports, writers ...StatementWriter) *StatementWorker {
	return &StatementWorker{reports: reports, writers: writers}
}

// HandleMessage processes one payment.recorded event: the full statement is
// reloaded from the database, so out-of-order deliveries all converge on the
// same final export.
func (w *StatementWorker) HandleMessage(ctx context.Context, msg *amqp.PaymentRecordedMessage) error {
	slog.InfoContext(ctx, "Processing payment event",
		"charge_id", msg.ChargeID,
		"participant_id", msg.ParticipantID)

	stmt, err := w.reports.ParticipantStatement(ctx, msg.ParticipantID)
	if errors.Is(err, core.ErrParticipantNotFound) {
		// The participant was deleted after the event was published. A
		// requeue would redeliver forever, so drop the message.
		slog.WarnContext(ctx, "Dropping event for deleted participant",
			"participant_id", msg.ParticipantID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load statement for %s: %w", msg.ParticipantID, err)
	}

	for _, writer := range w.writers {
		if err := writer.WriteStatement(ctx, stmt); err != nil {
			return fmt.Errorf("export statement for %s: %w", msg.ParticipantID, err)
		}
	}

	slog.InfoContext(ctx, "Statement export completed",
		"participant_id", msg.ParticipantID,
		"writers", len(w.writers))
	return nil
}

// RunReconcileLoop keeps the current month reconciled on a fixed interval.
// It reconciles once at startup, then on every tick until ctx is cancelled,
// so the month stays covered even when nobody opens the dashboard.
func RunReconcileLoop(ctx context.Context, reconciler *services.Reconciler, interval time.Duration) error {
	reconcile := func() {
		created, err := reconciler.EnsureMonth(ctx, core.CurrentMonth())
		if err != nil {
			slog.ErrorContext(ctx, "Periodic reconcile failed", "error", err)
			return
		}
		if created > 0 {
			slog.InfoContext(ctx, "Periodic reconcile created charges", "created", created)
		}
	}

	reconcile()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			reconcile()
		}
	}
}
