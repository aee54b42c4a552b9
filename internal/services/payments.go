package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/MarcoIannucci/spotify-tracking/internal/core"
	"github.com/MarcoIannucci/spotify-tracking/internal/storage"
)

// EventPublisher notifies downstream consumers that a charge changed.
// The statement worker listens for these events.
type EventPublisher interface {
	PublishPaymentRecorded(ctx context.Context, chargeID, participantID string) error
}

// Payments applies payment updates to single charges.
type Payments struct {
	store  storage.Store
	events EventPublisher
}

// NewPayments builds the service. events may be nil when messaging is not
// configured; publishing is then skipped.
func NewPayments(store storage.Store, events EventPublisher) *Payments {
	return &Payments{store: store, events: events}
}

// Record writes a new paid amount for a charge, optionally correcting the
// due amount, and re-derives the paid-at timestamp. Recording against an
// unknown charge id means reconciliation has not run for that month yet:
// that is a caller error and is deliberately a logged no-op, not a crash.
func (s *Payments) Record(ctx context.Context, chargeID string, amountPaid float64, dueOverride *float64) error {
	if amountPaid < 0 {
		return core.ErrInvalidAmount
	}
	if dueOverride != nil && *dueOverride < 0 {
		return core.ErrInvalidAmount
	}

	charge, err := s.store.GetCharge(ctx, chargeID)
	if errors.Is(err, core.ErrChargeNotFound) {
		slog.WarnContext(ctx, "Payment for unknown charge ignored", "charge_id", chargeID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load charge: %w", err)
	}

	due := charge.AmountDue
	switch {
	case dueOverride != nil:
		due = *dueOverride
	case due <= 0:
		// Last resort for records created with a zero snapshot: fall back
		// to the participant's current fee.
		if p, err := s.store.GetParticipant(ctx, charge.ParticipantID); err == nil {
			due = p.MonthlyFee
		}
	}

	// paid_at is derived, never set independently: non-nil iff the charge
	// is fully covered at this write.
	var paidAt *time.Time
	if amountPaid >= due {
		now := time.Now().UTC()
		paidAt = &now
	}

	if err := s.store.UpdateChargePayment(ctx, chargeID, amountPaid, due, paidAt); err != nil {
		return fmt.Errorf("update charge: %w", err)
	}

	slog.InfoContext(ctx, "Payment recorded",
		"charge_id", chargeID,
		"participant_id", charge.ParticipantID,
		"amount_paid", amountPaid,
		"amount_due", due,
		"settled", paidAt != nil)

	if s.events != nil {
		// Best effort: the payment is already persisted, a lost event only
		// delays the statement export.
		if err := s.events.PublishPaymentRecorded(ctx, chargeID, charge.ParticipantID); err != nil {
			slog.ErrorContext(ctx, "Failed to publish payment event",
				"charge_id", chargeID, "error", err)
		}
	}
	return nil
}
