// Package core holds the domain model of the payment tracker: month keys,
// amounts, charges, the month-view merge and the report aggregations.
package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseAmount converts a decimal string to a non-negative euro amount.
// Both dot (2.50) and comma (2,50) decimal separators are accepted, since the
// dashboard is used with Italian keyboards. Zero is a valid amount (a payment
// correction may reset a charge to unpaid).
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

// FormatEuro renders an amount with Italian conventions, e.g. "€2,50".
// Amounts are rounded to the cent for display only.
func FormatEuro(v float64) string {
	neg := v < 0
	cents := int64(math.Round(math.Abs(v) * 100))
	s := "€" + strconv.FormatInt(cents/100, 10) + "," + fmt.Sprintf("%02d", cents%100)
	if neg {
		return "-" + s
	}
	return s
}
