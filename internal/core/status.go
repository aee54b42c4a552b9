package core

// Status is the derived payment classification of a charge.
type Status string

const (
	StatusPaid    Status = "paid"
	StatusPartial Status = "partial"
	StatusUnpaid  Status = "unpaid"
)

// Epsilon absorbs binary floating point noise in due/paid arithmetic.
// Without it, an exact payment like 2.50 against a 2.50 fee can classify as
// partial because of representation error.
const Epsilon = 0.001

// Classify derives the tri-state status from due vs paid amounts.
func Classify(due, paid float64) Status {
	missing := due - paid
	switch {
	case missing <= Epsilon:
		return StatusPaid
	case paid > 0:
		return StatusPartial
	default:
		return StatusUnpaid
	}
}

// Residual is the amount still owed, clamped to zero: an overpayment never
// shows as a negative remainder.
func Residual(due, paid float64) float64 {
	if r := due - paid; r > 0 {
		return r
	}
	return 0
}
