package core

import (
	"testing"
	"time"
)

func TestMergeMonth(t *testing.T) {
	month := NewMonthKey(2026, time.February)
	participants := []Participant{
		{ID: "p2", Name: "bruno", MonthlyFee: 5},
		{ID: "p1", Name: "Alice", MonthlyFee: 2.5},
		{ID: "p3", Name: "Carla", MonthlyFee: 2.5},
	}
	charges := []Charge{
		{ID: "c1", ParticipantID: "p1", Month: month, AmountDue: 2.5, AmountPaid: 2.5},
		{ID: "c2", ParticipantID: "p2", Month: month, AmountDue: 5, AmountPaid: 1},
	}

	rows := MergeMonth(participants, charges)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	// Alphabetical by name, case-insensitive.
	if rows[0].Name != "Alice" || rows[1].Name != "bruno" || rows[2].Name != "Carla" {
		t.Fatalf("unexpected order: %s, %s, %s", rows[0].Name, rows[1].Name, rows[2].Name)
	}

	if rows[0].Charge == nil || rows[0].Charge.ID != "c1" {
		t.Fatalf("Alice should carry charge c1, got %+v", rows[0].Charge)
	}
	if rows[0].Status() != StatusPaid {
		t.Errorf("Alice status = %v, want %v", rows[0].Status(), StatusPaid)
	}
	if rows[1].Status() != StatusPartial || rows[1].Missing() != 4 {
		t.Errorf("bruno status = %v missing = %v, want partial 4", rows[1].Status(), rows[1].Missing())
	}

	// Carla has no charge yet: the record's absence stays observable and
	// the due amount falls back to her roster fee.
	if rows[2].Charge != nil {
		t.Fatalf("Carla should have no charge, got %+v", rows[2].Charge)
	}
	if rows[2].EffectiveDue() != 2.5 || rows[2].Status() != StatusUnpaid {
		t.Errorf("Carla due = %v status = %v, want 2.5 unpaid", rows[2].EffectiveDue(), rows[2].Status())
	}
}

func TestMergeMonthResidualClamp(t *testing.T) {
	month := NewMonthKey(2026, time.March)
	rows := MergeMonth(
		[]Participant{{ID: "p1", Name: "Alice", MonthlyFee: 2.5}},
		[]Charge{{ID: "c1", ParticipantID: "p1", Month: month, AmountDue: 2.5, AmountPaid: 5}},
	)
	if rows[0].Missing() != 0 {
		t.Fatalf("overpaid residual = %v, want 0", rows[0].Missing())
	}
}

func TestMergeMonthEmptyRoster(t *testing.T) {
	if rows := MergeMonth(nil, nil); len(rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(rows))
	}
}
