package services

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/MarcoIannucci/spotify-tracking/internal/core"
	"github.com/MarcoIannucci/spotify-tracking/internal/storage/memory"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// Runs the whole flow against the in-memory store: reconcile a month for a
// two-person roster, record payments and check that summary and missing
// views agree with the per-row classification.
func TestReportsEndToEnd(t *testing.T) {
	store := memory.New()
	seedRoster(t, store,
		core.Participant{ID: "p-alice", Name: "Alice", MonthlyFee: 5},
		core.Participant{ID: "p-bob", Name: "Bob", MonthlyFee: 5},
	)

	ctx := context.Background()
	month := core.NewMonthKey(2026, time.March)
	reconciler := NewReconciler(store)
	payments := NewPayments(store, nil)
	reports := NewReports(store)

	if _, err := reconciler.EnsureMonth(ctx, month); err != nil {
		t.Fatalf("EnsureMonth failed: %v", err)
	}

	charges, err := store.ChargesForMonth(ctx, month)
	if err != nil {
		t.Fatalf("ChargesForMonth failed: %v", err)
	}
	byParticipant := make(map[string]core.Charge, len(charges))
	for _, c := range charges {
		byParticipant[c.ParticipantID] = c
	}

	if err := payments.Record(ctx, byParticipant["p-alice"].ID, 5, nil); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	t.Run("summary after one full payment", func(t *testing.T) {
		summary, err := reports.MonthlySummary(ctx)
		if err != nil {
			t.Fatalf("MonthlySummary failed: %v", err)
		}
		if len(summary) != 1 {
			t.Fatalf("expected 1 summary row, got %d", len(summary))
		}
		row := summary[0]
		if row.Month.Key() != month.Key() {
			t.Errorf("month = %s, want %s", row.Month.Key(), month.Key())
		}
		if !almostEqual(row.TotalDue, 10) || !almostEqual(row.TotalPaid, 5) || !almostEqual(row.TotalMissing, 5) {
			t.Errorf("totals = %v/%v/%v, want 10/5/5", row.TotalDue, row.TotalPaid, row.TotalMissing)
		}
		if row.PaidCount != 1 || row.PartialCount != 0 || row.UnpaidCount != 1 {
			t.Errorf("counts = %d/%d/%d, want 1/0/1", row.PaidCount, row.PartialCount, row.UnpaidCount)
		}
	})

	if err := payments.Record(ctx, byParticipant["p-bob"].ID, 2.5, nil); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	t.Run("missing lists only unsettled quotas", func(t *testing.T) {
		missing, err := reports.MonthlyMissing(ctx)
		if err != nil {
			t.Fatalf("MonthlyMissing failed: %v", err)
		}
		if len(missing) != 1 {
			t.Fatalf("expected only Bob in missing, got %+v", missing)
		}
		row := missing[0]
		if row.Name != "Bob" || row.Status != core.StatusPartial || !almostEqual(row.Missing, 2.5) {
			t.Errorf("missing row = %+v, want Bob partial with 2.5 owed", row)
		}
	})

	t.Run("summary counts follow the second payment", func(t *testing.T) {
		summary, err := reports.MonthlySummary(ctx)
		if err != nil {
			t.Fatalf("MonthlySummary failed: %v", err)
		}
		row := summary[0]
		if row.PaidCount != 1 || row.PartialCount != 1 || row.UnpaidCount != 0 {
			t.Errorf("counts = %d/%d/%d, want 1/1/0", row.PaidCount, row.PartialCount, row.UnpaidCount)
		}
		if !almostEqual(row.TotalPaid, 7.5) || !almostEqual(row.TotalMissing, 2.5) {
			t.Errorf("totals paid/missing = %v/%v, want 7.5/2.5", row.TotalPaid, row.TotalMissing)
		}
	})
}

func TestMonthlySummaryOrdersRecentFirst(t *testing.T) {
	store := memory.New()
	seedRoster(t, store, core.Participant{ID: "p1", Name: "Alice", MonthlyFee: 2.5})

	ctx := context.Background()
	reconciler := NewReconciler(store)
	for _, m := range []core.MonthKey{
		core.NewMonthKey(2026, time.January),
		core.NewMonthKey(2026, time.March),
		core.NewMonthKey(2026, time.February),
	} {
		if _, err := reconciler.EnsureMonth(ctx, m); err != nil {
			t.Fatalf("EnsureMonth failed: %v", err)
		}
	}

	summary, err := NewReports(store).MonthlySummary(ctx)
	if err != nil {
		t.Fatalf("MonthlySummary failed: %v", err)
	}
	if len(summary) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(summary))
	}
	for i := 1; i < len(summary); i++ {
		if !summary[i].Month.Before(summary[i-1].Month.Time) {
			t.Errorf("rows out of order: %s before %s", summary[i-1].Month.Key(), summary[i].Month.Key())
		}
	}
}

func TestParticipantStatement(t *testing.T) {
	store := memory.New()
	seedRoster(t, store, core.Participant{ID: "p1", Name: "Alice", MonthlyFee: 2.5})

	ctx := context.Background()
	reconciler := NewReconciler(store)
	payments := NewPayments(store, nil)
	reports := NewReports(store)

	jan := core.NewMonthKey(2026, time.January)
	feb := core.NewMonthKey(2026, time.February)
	for _, m := range []core.MonthKey{feb, jan} {
		if _, err := reconciler.EnsureMonth(ctx, m); err != nil {
			t.Fatalf("EnsureMonth failed: %v", err)
		}
	}

	janCharges, _ := store.ChargesForMonth(ctx, jan)
	if err := payments.Record(ctx, janCharges[0].ID, 2.5, nil); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	stmt, err := reports.ParticipantStatement(ctx, "p1")
	if err != nil {
		t.Fatalf("ParticipantStatement failed: %v", err)
	}
	if stmt.Name != "Alice" || stmt.MonthlyFee != 2.5 {
		t.Errorf("statement header = %q/%v", stmt.Name, stmt.MonthlyFee)
	}
	if len(stmt.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(stmt.Entries))
	}
	if stmt.Entries[0].Month.Key() != jan.Key() {
		t.Errorf("history must start with the oldest month, got %s", stmt.Entries[0].Month.Key())
	}
	if !almostEqual(stmt.TotalPaid(), 2.5) || !almostEqual(stmt.TotalDue(), 5) {
		t.Errorf("totals paid/due = %v/%v, want 2.5/5", stmt.TotalPaid(), stmt.TotalDue())
	}

	if _, err := reports.ParticipantStatement(ctx, "ghost"); err == nil {
		t.Error("expected error for unknown participant")
	}
}
