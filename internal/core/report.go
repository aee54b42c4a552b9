package core

import "sort"

type (
	// MonthlySummaryRow aggregates one month of charges for the reports view.
	MonthlySummaryRow struct {
		Month        MonthKey
		TotalDue     float64
		TotalPaid    float64
		TotalMissing float64
		PaidCount    int
		PartialCount int
		UnpaidCount  int
	}

	// NamedCharge pairs a charge with its participant's display name.
	NamedCharge struct {
		Charge
		Name string
	}

	// MissingRow is one still-owed quota in one month.
	MissingRow struct {
		Month      MonthKey
		Name       string
		AmountDue  float64
		AmountPaid float64
		Missing    float64
	}

	// HistoryEntry is one month of a participant's payment history.
	HistoryEntry struct {
		Month      MonthKey
		AmountDue  float64
		AmountPaid float64
	}

	// Statement is the shape handed to statement-export consumers: the
	// participant's identity plus their full history, oldest month first.
	Statement struct {
		Name       string
		MonthlyFee float64
		Entries    []HistoryEntry
	}
)

func (s Statement) TotalDue() float64 {
	var t float64
	for _, e := range s.Entries {
		t += e.AmountDue
	}
	return t
}

func (s Statement) TotalPaid() float64 {
	var t float64
	for _, e := range s.Entries {
		t += e.AmountPaid
	}
	return t
}

// TotalResidual is the overall amount still owed, clamped to zero.
func (s Statement) TotalResidual() float64 {
	return Residual(s.TotalDue(), s.TotalPaid())
}

// SummarizeMonths groups charges by month and totals due, paid and clamped
// residual plus per-status counts, most recent month first. Computing this
// in-process from raw records keeps it numerically identical to the
// per-row classification shown on the dashboard.
func SummarizeMonths(charges []Charge) []MonthlySummaryRow {
	byMonth := make(map[string]*MonthlySummaryRow)
	for _, c := range charges {
		row, ok := byMonth[c.Month.Key()]
		if !ok {
			row = &MonthlySummaryRow{Month: c.Month}
			byMonth[c.Month.Key()] = row
		}
		row.TotalDue += c.AmountDue
		row.TotalPaid += c.AmountPaid
		row.TotalMissing += Residual(c.AmountDue, c.AmountPaid)
		switch Classify(c.AmountDue, c.AmountPaid) {
		case StatusPaid:
			row.PaidCount++
		case StatusPartial:
			row.PartialCount++
		default:
			row.UnpaidCount++
		}
	}

	rows := make([]MonthlySummaryRow, 0, len(byMonth))
	for _, row := range byMonth {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Month.After(rows[j].Month.Time)
	})
	return rows
}

// MissingByMonth lists every (month, participant) whose charge is not fully
// paid, most recent month first and then by name.
func MissingByMonth(charges []NamedCharge) []MissingRow {
	var rows []MissingRow
	for _, c := range charges {
		if Classify(c.AmountDue, c.AmountPaid) == StatusPaid {
			continue
		}
		rows = append(rows, MissingRow{
			Month:      c.Month,
			Name:       c.Name,
			AmountDue:  c.AmountDue,
			AmountPaid: c.AmountPaid,
			Missing:    Residual(c.AmountDue, c.AmountPaid),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Month.Equal(rows[j].Month.Time) {
			return rows[i].Month.After(rows[j].Month.Time)
		}
		return rows[i].Name < rows[j].Name
	})
	return rows
}
