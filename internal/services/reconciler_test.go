package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MarcoIannucci/spotify-tracking/internal/core"
	"github.com/MarcoIannucci/spotify-tracking/internal/storage/memory"
)

func seedRoster(t *testing.T, store *memory.Store, participants ...core.Participant) {
	t.Helper()
	for _, p := range participants {
		if err := store.CreateParticipant(context.Background(), p); err != nil {
			t.Fatalf("seed participant %s: %v", p.Name, err)
		}
	}
}

func TestEnsureMonthCreatesMissingCharges(t *testing.T) {
	store := memory.New()
	seedRoster(t, store,
		core.Participant{ID: "p1", Name: "Alice", MonthlyFee: 5},
		core.Participant{ID: "p2", Name: "Bob", MonthlyFee: 5},
	)

	ctx := context.Background()
	month := core.NewMonthKey(2026, time.February)
	rec := NewReconciler(store)

	created, err := rec.EnsureMonth(ctx, month)
	if err != nil {
		t.Fatalf("EnsureMonth failed: %v", err)
	}
	if created != 2 {
		t.Fatalf("created = %d, want 2", created)
	}

	charges, err := store.ChargesForMonth(ctx, month)
	if err != nil {
		t.Fatalf("ChargesForMonth failed: %v", err)
	}
	if len(charges) != 2 {
		t.Fatalf("expected 2 charges, got %d", len(charges))
	}
	for _, c := range charges {
		if c.AmountDue != 5 || c.AmountPaid != 0 || c.PaidAt != nil {
			t.Errorf("new charge %+v, want due 5, paid 0, no paid_at", c)
		}
	}
}

func TestEnsureMonthIsIdempotent(t *testing.T) {
	store := memory.New()
	seedRoster(t, store, core.Participant{ID: "p1", Name: "Alice", MonthlyFee: 2.5})

	ctx := context.Background()
	month := core.NewMonthKey(2026, time.February)
	rec := NewReconciler(store)

	for i := 0; i < 5; i++ {
		created, err := rec.EnsureMonth(ctx, month)
		if err != nil {
			t.Fatalf("EnsureMonth call %d failed: %v", i+1, err)
		}
		if i == 0 && created != 1 {
			t.Fatalf("first call created %d, want 1", created)
		}
		if i > 0 && created != 0 {
			t.Fatalf("call %d created %d, want 0", i+1, created)
		}
	}

	charges, _ := store.ChargesForMonth(ctx, month)
	if len(charges) != 1 {
		t.Fatalf("expected exactly 1 charge after repeated calls, got %d", len(charges))
	}
}

func TestEnsureMonthPicksUpNewParticipants(t *testing.T) {
	store := memory.New()
	seedRoster(t, store, core.Participant{ID: "p1", Name: "Alice", MonthlyFee: 2.5})

	ctx := context.Background()
	month := core.NewMonthKey(2026, time.February)
	rec := NewReconciler(store)

	if _, err := rec.EnsureMonth(ctx, month); err != nil {
		t.Fatalf("EnsureMonth failed: %v", err)
	}

	seedRoster(t, store, core.Participant{ID: "p2", Name: "Bob", MonthlyFee: 5})
	created, err := rec.EnsureMonth(ctx, month)
	if err != nil {
		t.Fatalf("EnsureMonth failed: %v", err)
	}
	if created != 1 {
		t.Fatalf("created = %d, want 1 for the new participant", created)
	}

	charges, _ := store.ChargesForMonth(ctx, month)
	if len(charges) != 2 {
		t.Fatalf("expected 2 charges, got %d", len(charges))
	}
}

func TestEnsureMonthSnapshotsCurrentFee(t *testing.T) {
	store := memory.New()
	alice := core.Participant{ID: "p1", Name: "Alice", MonthlyFee: 2.5}
	seedRoster(t, store, alice)

	ctx := context.Background()
	rec := NewReconciler(store)

	jan := core.NewMonthKey(2026, time.January)
	if _, err := rec.EnsureMonth(ctx, jan); err != nil {
		t.Fatalf("EnsureMonth failed: %v", err)
	}

	// Fee change applies to new months only; January keeps its snapshot.
	alice.MonthlyFee = 3
	if err := store.UpdateParticipant(ctx, alice); err != nil {
		t.Fatalf("UpdateParticipant failed: %v", err)
	}
	feb := core.NewMonthKey(2026, time.February)
	if _, err := rec.EnsureMonth(ctx, feb); err != nil {
		t.Fatalf("EnsureMonth failed: %v", err)
	}

	janCharges, _ := store.ChargesForMonth(ctx, jan)
	febCharges, _ := store.ChargesForMonth(ctx, feb)
	if janCharges[0].AmountDue != 2.5 {
		t.Errorf("january due = %v, want snapshot 2.5", janCharges[0].AmountDue)
	}
	if febCharges[0].AmountDue != 3 {
		t.Errorf("february due = %v, want current fee 3", febCharges[0].AmountDue)
	}
}

// racingStore simulates a concurrent reconcile that wins one insert between
// the set-difference computation and the bulk write.
type racingStore struct {
	*memory.Store
	raced bool
}

func (r *racingStore) InsertCharges(ctx context.Context, charges []core.Charge) (int, error) {
	if !r.raced && len(charges) > 0 {
		r.raced = true
		rival := charges[0]
		rival.ID = "rival"
		if _, err := r.Store.InsertCharges(ctx, []core.Charge{rival}); err != nil {
			return 0, err
		}
	}
	return r.Store.InsertCharges(ctx, charges)
}

func TestEnsureMonthReportsOnlyWrittenCharges(t *testing.T) {
	store := &racingStore{Store: memory.New()}
	seedRoster(t, store.Store,
		core.Participant{ID: "p1", Name: "Alice", MonthlyFee: 2.5},
		core.Participant{ID: "p2", Name: "Bob", MonthlyFee: 2.5},
	)

	ctx := context.Background()
	month := core.NewMonthKey(2026, time.February)

	created, err := NewReconciler(store).EnsureMonth(ctx, month)
	if err != nil {
		t.Fatalf("EnsureMonth failed: %v", err)
	}
	if created != 1 {
		t.Fatalf("created = %d, want 1 after losing one insert to the rival", created)
	}

	charges, _ := store.ChargesForMonth(ctx, month)
	if len(charges) != 2 {
		t.Fatalf("expected 2 charges total, got %d", len(charges))
	}
}

// failingStore wraps the memory store and fails the roster read.
type failingStore struct {
	*memory.Store
	rosterErr error
}

func (f *failingStore) ListParticipants(ctx context.Context) ([]core.Participant, error) {
	if f.rosterErr != nil {
		return nil, f.rosterErr
	}
	return f.Store.ListParticipants(ctx)
}

func TestEnsureMonthPropagatesStoreFailures(t *testing.T) {
	rosterErr := errors.New("connection refused")
	rec := NewReconciler(&failingStore{Store: memory.New(), rosterErr: rosterErr})

	_, err := rec.EnsureMonth(context.Background(), core.NewMonthKey(2026, time.February))
	if !errors.Is(err, rosterErr) {
		t.Fatalf("EnsureMonth error = %v, want wrapped %v", err, rosterErr)
	}
}
