package core

import (
	"errors"
	"strings"
	"time"
)

type (
	// Participant is a member of the shared subscription with a fixed
	// monthly fee.
	Participant struct {
		ID            string
		Name          string
		MonthlyFee    float64
		PaymentMethod string
		Notes         string
	}

	// Charge is one participant's obligation and payment state for one
	// month. AmountDue is a snapshot of the fee at creation time and does
	// not follow later fee changes.
	Charge struct {
		ID            string
		ParticipantID string
		Month         MonthKey
		AmountDue     float64
		AmountPaid    float64
		PaidAt        *time.Time
	}
)

var (
	ErrEmptyName           = errors.New("empty participant name")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrChargeNotFound      = errors.New("charge not found")
)

func (p Participant) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if len(p.Name) > 100 {
		return errors.New("participant name too long (max 100 characters)")
	}
	if p.MonthlyFee < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Settled reports whether the charge is fully covered at its recorded
// amounts. PaidAt is derived from this condition at write time.
func (c Charge) Settled() bool {
	return c.AmountPaid >= c.AmountDue
}
