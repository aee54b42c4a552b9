package services

import (
	"context"
	"fmt"

	"github.com/MarcoIannucci/spotify-tracking/internal/core"
	"github.com/MarcoIannucci/spotify-tracking/internal/storage"
)

// Reports computes the aggregate views for the reports page and the
// statement export. Aggregation happens in-process from raw records so the
// numbers always match the dashboard's per-row classification.
type Reports struct {
	store storage.Store
}

func NewReports(store storage.Store) *Reports {
	return &Reports{store: store}
}

// MonthlySummary returns one row per month with at least one charge,
// most recent month first.
func (s *Reports) MonthlySummary(ctx context.Context) ([]core.MonthlySummaryRow, error) {
	charges, err := s.store.ListCharges(ctx)
	if err != nil {
		return nil, fmt.Errorf("list charges: %w", err)
	}
	return core.SummarizeMonths(charges), nil
}

// MonthlyMissing returns every still-owed quota across all months.
func (s *Reports) MonthlyMissing(ctx context.Context) ([]core.MissingRow, error) {
	charges, err := s.store.ListNamedCharges(ctx)
	if err != nil {
		return nil, fmt.Errorf("list named charges: %w", err)
	}
	return core.MissingByMonth(charges), nil
}

// ParticipantStatement assembles the export shape for one participant:
// name, fee and full payment history, oldest month first.
func (s *Reports) ParticipantStatement(ctx context.Context, participantID string) (core.Statement, error) {
	p, err := s.store.GetParticipant(ctx, participantID)
	if err != nil {
		return core.Statement{}, fmt.Errorf("load participant: %w", err)
	}

	entries, err := s.store.ParticipantHistory(ctx, participantID)
	if err != nil {
		return core.Statement{}, fmt.Errorf("load history: %w", err)
	}

	return core.Statement{
		Name:       p.Name,
		MonthlyFee: p.MonthlyFee,
		Entries:    entries,
	}, nil
}
