package core

import (
	"fmt"
	"time"
)

// MonthKey identifies a calendar month by its first day. Keys are
// timezone-naive: every key is built in UTC at midnight so that two keys for
// the same month always compare equal, regardless of where they were parsed.
type MonthKey struct {
	time.Time
}

// NewMonthKey builds the key for the given year and month.
func NewMonthKey(year int, month time.Month) MonthKey {
	return MonthKey{Time: time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)}
}

// MonthKeyOf normalizes any instant to its month's key.
func MonthKeyOf(t time.Time) MonthKey {
	return NewMonthKey(t.Year(), t.Month())
}

// CurrentMonth returns the key for the month containing time.Now().
func CurrentMonth() MonthKey {
	return MonthKeyOf(time.Now())
}

// ParseMonthKey accepts "2006-01-02" (day ignored, normalized to the 1st)
// and the shorter "2006-01" form used by <input type="month">.
func ParseMonthKey(s string) (MonthKey, error) {
	for _, layout := range []string{"2006-01-02", "2006-01"} {
		if t, err := time.Parse(layout, s); err == nil {
			return MonthKeyOf(t), nil
		}
	}
	return MonthKey{}, fmt.Errorf("invalid month key %q", s)
}

// Key returns the canonical storage form, e.g. "2026-02-01".
func (m MonthKey) Key() string {
	return m.Format("2006-01-02")
}

var monthNames = [12]string{
	"gennaio", "febbraio", "marzo", "aprile", "maggio", "giugno",
	"luglio", "agosto", "settembre", "ottobre", "novembre", "dicembre",
}

// Label renders the month for display, e.g. "febbraio 2026".
func (m MonthKey) Label() string {
	return fmt.Sprintf("%s %d", monthNames[m.Month()-1], m.Year())
}
