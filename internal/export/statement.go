// Package export renders participant statements to downloadable and
// archivable formats.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/MarcoIannucci/spotify-tracking/internal/core"
)

const statementTitle = "Spotify Premium — Storico pagamenti"

// FileName returns the base name for a statement download, without
// extension. Whitespace in the participant name is flattened so the result
// is safe as a filename.
func FileName(participantName string) string {
	name := strings.TrimSpace(participantName)
	name = strings.Join(strings.Fields(name), "_")
	if name == "" {
		name = "partecipante"
	}
	return "storico_" + name
}

// RenderText renders a statement as a plain-text document: title, the
// participant header, one line per month and the running totals.
func RenderText(s core.Statement) string {
	var b strings.Builder

	fmt.Fprintln(&b, statementTitle)
	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "Nome: %s\n", s.Name)
	fmt.Fprintf(&b, "Quota mensile: %s\n", core.FormatEuro(s.MonthlyFee))
	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "%-12s %10s %10s %10s\n", "Mese", "Dovuto", "Pagato", "Mancante")

	for _, e := range s.Entries {
		fmt.Fprintf(&b, "%-12s %10s %10s %10s\n",
			e.Month.Label(),
			core.FormatEuro(e.AmountDue),
			core.FormatEuro(e.AmountPaid),
			core.FormatEuro(core.Residual(e.AmountDue, e.AmountPaid)))
	}

	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "Totale dovuto: %s\n", core.FormatEuro(s.TotalDue()))
	fmt.Fprintf(&b, "Totale pagato: %s\n", core.FormatEuro(s.TotalPaid()))
	fmt.Fprintf(&b, "Residuo: %s\n", core.FormatEuro(s.TotalResidual()))

	return b.String()
}

// RenderCSV renders a statement as CSV with a header row, one row per month
// and a closing totals row.
func RenderCSV(s core.Statement) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	rows := [][]string{
		{"mese", "dovuto", "pagato", "mancante"},
	}
	for _, e := range s.Entries {
		rows = append(rows, []string{
			e.Month.Key(),
			formatAmount(e.AmountDue),
			formatAmount(e.AmountPaid),
			formatAmount(core.Residual(e.AmountDue, e.AmountPaid)),
		})
	}
	rows = append(rows, []string{
		"totale",
		formatAmount(s.TotalDue()),
		formatAmount(s.TotalPaid()),
		formatAmount(s.TotalResidual()),
	})

	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return buf.Bytes(), nil
}

func formatAmount(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
