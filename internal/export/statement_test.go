package export

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/MarcoIannucci/spotify-tracking/internal/core"
)

func sampleStatement() core.Statement {
	return core.Statement{
		Name:       "Alice Rossi",
		MonthlyFee: 2.5,
		Entries: []core.HistoryEntry{
			{Month: core.NewMonthKey(2026, time.January), AmountDue: 2.5, AmountPaid: 2.5},
			{Month: core.NewMonthKey(2026, time.February), AmountDue: 2.5, AmountPaid: 1},
		},
	}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain name", "Alice", "storico_Alice"},
		{"spaces flattened", "Alice Rossi", "storico_Alice_Rossi"},
		{"surrounding whitespace", "  Bob  ", "storico_Bob"},
		{"empty falls back", "   ", "storico_partecipante"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FileName(tt.input); got != tt.expected {
				t.Errorf("FileName(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestRenderText(t *testing.T) {
	out := RenderText(sampleStatement())

	for _, want := range []string{
		statementTitle,
		"Nome: Alice Rossi",
		"Quota mensile: €2,50",
		"gennaio 2026",
		"febbraio 2026",
		"Totale dovuto: €5,00",
		"Totale pagato: €3,50",
		"Residuo: €1,50",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered text missing %q:\n%s", want, out)
		}
	}

	// The residual column is clamped per month, overpayments never show as
	// negative amounts.
	over := core.Statement{
		Name:       "Bob",
		MonthlyFee: 2.5,
		Entries: []core.HistoryEntry{
			{Month: core.NewMonthKey(2026, time.January), AmountDue: 2.5, AmountPaid: 3},
		},
	}
	if got := RenderText(over); strings.Contains(got, "-€") {
		t.Errorf("overpayment rendered as negative residual:\n%s", got)
	}
}

func TestRenderCSV(t *testing.T) {
	data, err := RenderCSV(sampleStatement())
	if err != nil {
		t.Fatalf("RenderCSV failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header + 2 months + totals, got %d lines:\n%s", len(lines), data)
	}
	if lines[0] != "mese,dovuto,pagato,mancante" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "2026-01-01,2.50,2.50,0.00" {
		t.Errorf("first row = %q", lines[1])
	}
	if lines[2] != "2026-02-01,2.50,1.00,1.50" {
		t.Errorf("second row = %q", lines[2])
	}
	if lines[3] != "totale,5.00,3.50,1.50" {
		t.Errorf("totals row = %q", lines[3])
	}
}

func TestFileWriterWritesStatement(t *testing.T) {
	dir := t.TempDir()
	w, err := NewFileWriter(filepath.Join(dir, "statements"))
	if err != nil {
		t.Fatalf("NewFileWriter failed: %v", err)
	}

	stmt := sampleStatement()
	if err := w.WriteStatement(context.Background(), stmt); err != nil {
		t.Fatalf("WriteStatement failed: %v", err)
	}

	path := filepath.Join(dir, "statements", "storico_Alice_Rossi.txt")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("statement file not written: %v", err)
	}
	if !strings.Contains(string(data), "Nome: Alice Rossi") {
		t.Errorf("file content missing header:\n%s", data)
	}

	// A second export replaces the file.
	stmt.Entries = stmt.Entries[:1]
	if err := w.WriteStatement(context.Background(), stmt); err != nil {
		t.Fatalf("second WriteStatement failed: %v", err)
	}
	data, _ = os.ReadFile(path)
	if strings.Contains(string(data), "febbraio 2026") {
		t.Errorf("second export should replace the file:\n%s", data)
	}
}
