// Package services orchestrates the reconciliation, payment and reporting
// flows over the storage and messaging boundaries.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/MarcoIannucci/spotify-tracking/internal/core"
	"github.com/MarcoIannucci/spotify-tracking/internal/storage"
)

// Reconciler guarantees exactly one charge per participant per month.
type Reconciler struct {
	store storage.Store
}

func NewReconciler(store storage.Store) *Reconciler {
	return &Reconciler{store: store}
}

// EnsureMonth creates the missing charges for the given month, snapshotting
// each participant's current fee as the due amount. Idempotent: with an
// unchanged roster a second call inserts nothing. Store failures propagate
// unchanged to the caller; there is no retry. Returns how many charges the
// store actually wrote, which can be fewer than the missing set when a
// concurrent reconcile wins some inserts.
func (r *Reconciler) EnsureMonth(ctx context.Context, month core.MonthKey) (int, error) {
	participants, err := r.store.ListParticipants(ctx)
	if err != nil {
		return 0, fmt.Errorf("read roster: %w", err)
	}

	existing, err := r.store.ChargesForMonth(ctx, month)
	if err != nil {
		return 0, fmt.Errorf("read charges for %s: %w", month.Key(), err)
	}

	covered := make(map[string]bool, len(existing))
	for _, c := range existing {
		covered[c.ParticipantID] = true
	}

	var missing []core.Charge
	for _, p := range participants {
		if covered[p.ID] {
			continue
		}
		missing = append(missing, core.Charge{
			ID:            uuid.NewString(),
			ParticipantID: p.ID,
			Month:         month,
			AmountDue:     p.MonthlyFee,
			AmountPaid:    0,
		})
	}

	if len(missing) == 0 {
		return 0, nil
	}

	// A concurrent reconcile may win some of these inserts; the store's
	// (participant, month) constraint turns the losses into no-ops.
	inserted, err := r.store.InsertCharges(ctx, missing)
	if err != nil {
		return 0, fmt.Errorf("insert charges for %s: %w", month.Key(), err)
	}

	slog.InfoContext(ctx, "Month reconciled",
		"month", month.Key(),
		"participants", len(participants),
		"created", inserted)
	return inserted, nil
}
