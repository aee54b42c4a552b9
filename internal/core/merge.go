package core

import (
	"sort"
	"strings"
)

// MonthRow is the dashboard view of one participant in one month: roster
// data joined with that month's charge, if any.
type MonthRow struct {
	ParticipantID string
	Name          string
	MonthlyFee    float64

	// Charge is nil until reconciliation has created the month's record.
	// Callers can observe "record exists" instead of getting silently
	// substituted values.
	Charge *Charge
}

// EffectiveDue falls back to the roster fee when no charge exists yet, so
// the dashboard stays meaningful between the roster read and reconciliation.
func (r MonthRow) EffectiveDue() float64 {
	if r.Charge != nil {
		return r.Charge.AmountDue
	}
	return r.MonthlyFee
}

func (r MonthRow) Paid() float64 {
	if r.Charge != nil {
		return r.Charge.AmountPaid
	}
	return 0
}

// Missing is the residual still owed, never negative.
func (r MonthRow) Missing() float64 {
	return Residual(r.EffectiveDue(), r.Paid())
}

func (r MonthRow) Status() Status {
	return Classify(r.EffectiveDue(), r.Paid())
}

// MergeMonth joins the roster with one month's charges into one row per
// participant, ordered alphabetically by name. Pure function: it does not
// touch the store and has no failure modes.
func MergeMonth(participants []Participant, charges []Charge) []MonthRow {
	byParticipant := make(map[string]*Charge, len(charges))
	for i := range charges {
		byParticipant[charges[i].ParticipantID] = &charges[i]
	}

	rows := make([]MonthRow, 0, len(participants))
	for _, p := range participants {
		rows = append(rows, MonthRow{
			ParticipantID: p.ID,
			Name:          p.Name,
			MonthlyFee:    p.MonthlyFee,
			Charge:        byParticipant[p.ID],
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		li, lj := strings.ToLower(rows[i].Name), strings.ToLower(rows[j].Name)
		if li == lj {
			return rows[i].Name < rows[j].Name
		}
		return li < lj
	})
	return rows
}
