package storage

import (
	"context"
	"time"

	"github.com/MarcoIannucci/spotify-tracking/internal/core"
)

// Store is the persistence boundary for the participant roster and the
// per-month charge records.
type Store interface {
	// ListParticipants returns the full roster in display order
	// (alphabetical by name, case-insensitive).
	ListParticipants(ctx context.Context) ([]core.Participant, error)
	// GetParticipant returns core.ErrParticipantNotFound when the id is unknown.
	GetParticipant(ctx context.Context, id string) (core.Participant, error)
	CreateParticipant(ctx context.Context, p core.Participant) error
	UpdateParticipant(ctx context.Context, p core.Participant) error
	// DeleteParticipant also removes the participant's charges (cascade).
	DeleteParticipant(ctx context.Context, id string) error

	ChargesForMonth(ctx context.Context, month core.MonthKey) ([]core.Charge, error)
	// InsertCharges bulk-inserts the given charges and returns how many
	// rows were actually written. A (participant, month) uniqueness
	// violation is a benign no-op, so concurrent reconciliation of the
	// same month cannot duplicate records.
	InsertCharges(ctx context.Context, charges []core.Charge) (int, error)
	// GetCharge returns core.ErrChargeNotFound when the id is unknown.
	GetCharge(ctx context.Context, id string) (core.Charge, error)
	// UpdateChargePayment writes paid, due and paidAt in a single update
	// keyed by charge id.
	UpdateChargePayment(ctx context.Context, id string, paid, due float64, paidAt *time.Time) error

	// ListCharges returns every charge, for the monthly summary.
	ListCharges(ctx context.Context) ([]core.Charge, error)
	// ListNamedCharges returns every charge joined with its participant's name.
	ListNamedCharges(ctx context.Context) ([]core.NamedCharge, error)
	// ParticipantHistory returns the participant's {month, due, paid}
	// entries, oldest month first.
	ParticipantHistory(ctx context.Context, participantID string) ([]core.HistoryEntry, error)

	Close() error
}
