// Package memory provides an in-memory Store used by tests and by the
// DATA_BACKEND=memory mode, where data lives only for the process lifetime.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/MarcoIannucci/spotify-tracking/internal/core"
	"github.com/MarcoIannucci/spotify-tracking/internal/storage"
)

var _ storage.Store = (*Store)(nil)

type Store struct {
	mu           sync.Mutex
	participants map[string]core.Participant
	charges      map[string]core.Charge
}

func New() *Store {
	return &Store{
		participants: make(map[string]core.Participant),
		charges:      make(map[string]core.Charge),
	}
}

func (s *Store) Close() error { return nil }

func (s *Store) ListParticipants(_ context.Context) ([]core.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.Participant, 0, len(s.participants))
	for _, p := range s.participants {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

func (s *Store) GetParticipant(_ context.Context, id string) (core.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.participants[id]
	if !ok {
		return core.Participant{}, core.ErrParticipantNotFound
	}
	return p, nil
}

func (s *Store) CreateParticipant(_ context.Context, p core.Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.participants[p.ID] = p
	return nil
}

func (s *Store) UpdateParticipant(_ context.Context, p core.Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.participants[p.ID]; !ok {
		return core.ErrParticipantNotFound
	}
	s.participants[p.ID] = p
	return nil
}

func (s *Store) DeleteParticipant(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.participants[id]; !ok {
		return core.ErrParticipantNotFound
	}
	delete(s.participants, id)
	// Cascade, mirroring the SQL schema.
	for cid, c := range s.charges {
		if c.ParticipantID == id {
			delete(s.charges, cid)
		}
	}
	return nil
}

func (s *Store) ChargesForMonth(_ context.Context, month core.MonthKey) ([]core.Charge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.Charge
	for _, c := range s.charges {
		if c.Month.Key() == month.Key() {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *Store) InsertCharges(_ context.Context, charges []core.Charge) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inserted := 0
	for _, c := range charges {
		if s.monthTaken(c.ParticipantID, c.Month) {
			continue // uniqueness violation is a benign no-op
		}
		s.charges[c.ID] = c
		inserted++
	}
	return inserted, nil
}

func (s *Store) monthTaken(participantID string, month core.MonthKey) bool {
	for _, c := range s.charges {
		if c.ParticipantID == participantID && c.Month.Key() == month.Key() {
			return true
		}
	}
	return false
}

func (s *Store) GetCharge(_ context.Context, id string) (core.Charge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.charges[id]
	if !ok {
		return core.Charge{}, core.ErrChargeNotFound
	}
	return c, nil
}

func (s *Store) UpdateChargePayment(_ context.Context, id string, paid, due float64, paidAt *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.charges[id]
	if !ok {
		return core.ErrChargeNotFound
	}
	c.AmountPaid = paid
	c.AmountDue = due
	c.PaidAt = paidAt
	s.charges[id] = c
	return nil
}

func (s *Store) ListCharges(_ context.Context) ([]core.Charge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.Charge, 0, len(s.charges))
	for _, c := range s.charges {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Month.After(out[j].Month.Time)
	})
	return out, nil
}

func (s *Store) ListNamedCharges(ctx context.Context) ([]core.NamedCharge, error) {
	charges, err := s.ListCharges(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.NamedCharge, 0, len(charges))
	for _, c := range charges {
		out = append(out, core.NamedCharge{Charge: c, Name: s.participants[c.ParticipantID].Name})
	}
	return out, nil
}

func (s *Store) ParticipantHistory(_ context.Context, participantID string) ([]core.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.HistoryEntry
	for _, c := range s.charges {
		if c.ParticipantID == participantID {
			out = append(out, core.HistoryEntry{Month: c.Month, AmountDue: c.AmountDue, AmountPaid: c.AmountPaid})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Month.Before(out[j].Month.Time)
	})
	return out, nil
}
