package http

import (
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/MarcoIannucci/spotify-tracking/internal/core"
)

type summaryRowView struct {
	Month        string
	TotalDue     string
	TotalPaid    string
	TotalMissing string
	PaidCount    int
	PartialCount int
	UnpaidCount  int
}

type missingRowView struct {
	Month   string
	Name    string
	Paid    string
	Missing string
}

type reportsViewData struct {
	Summary []summaryRowView
	Missing []missingRowView
}

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	if err := s.templates.ExecuteTemplate(w, "reports.html", nil); err != nil {
		slog.ErrorContext(r.Context(), "Reports template execution failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleReportsView renders the reports partial. The two aggregations read
// independent data, so they load concurrently.
func (s *Server) handleReportsView(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	ctx := r.Context()

	var (
		summary []core.MonthlySummaryRow
		missing []core.MissingRow
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		summary, err = s.reports.MonthlySummary(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		missing, err = s.reports.MonthlyMissing(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		slog.ErrorContext(ctx, "Reports load failed", "error", err)
		_, _ = w.Write([]byte(`<section id="reports-view"><div class="error">Errore caricando i report</div></section>`))
		return
	}

	data := reportsViewData{}
	for _, row := range summary {
		data.Summary = append(data.Summary, summaryRowView{
			Month:        row.Month.Label(),
			TotalDue:     core.FormatEuro(row.TotalDue),
			TotalPaid:    core.FormatEuro(row.TotalPaid),
			TotalMissing: core.FormatEuro(row.TotalMissing),
			PaidCount:    row.PaidCount,
			PartialCount: row.PartialCount,
			UnpaidCount:  row.UnpaidCount,
		})
	}
	for _, row := range missing {
		data.Missing = append(data.Missing, missingRowView{
			Month:   row.Month.Label(),
			Name:    row.Name,
			Paid:    core.FormatEuro(row.AmountPaid),
			Missing: core.FormatEuro(row.Missing),
		})
	}

	if s.templates == nil {
		_, _ = w.Write([]byte(`<section id="reports-view"><div class="placeholder">Report non disponibili</div></section>`))
		return
	}
	if err := s.templates.ExecuteTemplate(w, "reports_view.html", data); err != nil {
		slog.ErrorContext(ctx, "Reports view template execution failed", "error", err)
		_, _ = w.Write([]byte(`<section id="reports-view"><div class="error">Errore rendering report</div></section>`))
	}
}
