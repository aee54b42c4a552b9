package http

import (
	"log/slog"
	"net/http"

	"github.com/MarcoIannucci/spotify-tracking/internal/core"
)

type monthRowView struct {
	ChargeID    string
	Name        string
	Due         string
	DueInput    string
	Paid        string
	Missing     string
	Status      string
	StatusClass string
	HasCharge   bool
	Settled     bool
	PaidAt      string
}

type monthViewData struct {
	Month        string
	MonthInput   string
	OnlyDue      bool
	Rows         []monthRowView
	TotalDue     string
	TotalPaid    string
	TotalMissing string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	data := struct {
		Month      string
		MonthInput string
		OnlyDue    bool
	}{
		Month:      parseMonthParam(r).Label(),
		MonthInput: parseMonthParam(r).Format("2006-01"),
		OnlyDue:    r.URL.Query().Get("onlyDue") == "1",
	}

	if err := s.templates.ExecuteTemplate(w, "dashboard.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Dashboard template execution failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleMonthView renders the month table partial. Opening a month also
// reconciles it, so every listed participant has a charge by the time the
// rows render.
func (s *Server) handleMonthView(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	ctx := r.Context()
	month := parseMonthParam(r)
	onlyDue := r.URL.Query().Get("onlyDue") == "1"

	created, err := s.reconciler.EnsureMonth(ctx, month)
	if err != nil {
		slog.ErrorContext(ctx, "Month reconciliation failed", "error", err, "month", month.Key())
		_, _ = w.Write([]byte(`<section id="month-view"><div class="error">Errore caricando il mese</div></section>`))
		return
	}
	if created > 0 {
		chargesCreatedTotal.Add(float64(created))
		s.invalidateViews()
	}

	rows, err := s.loadMonthRows(ctx, month)
	if err != nil {
		slog.ErrorContext(ctx, "Month view load failed", "error", err, "month", month.Key())
		_, _ = w.Write([]byte(`<section id="month-view"><div class="error">Errore caricando il mese</div></section>`))
		return
	}

	data := monthViewData{
		Month:      month.Label(),
		MonthInput: month.Format("2006-01"),
		OnlyDue:    onlyDue,
	}
	var totalDue, totalPaid, totalMissing float64
	for _, row := range rows {
		totalDue += row.EffectiveDue()
		totalPaid += row.Paid()
		totalMissing += row.Missing()
		if onlyDue && row.Status() == core.StatusPaid {
			continue
		}
		data.Rows = append(data.Rows, newMonthRowView(row))
	}
	data.TotalDue = core.FormatEuro(totalDue)
	data.TotalPaid = core.FormatEuro(totalPaid)
	data.TotalMissing = core.FormatEuro(totalMissing)

	if s.templates == nil {
		_, _ = w.Write([]byte(`<section id="month-view"><div class="placeholder">Totale mancante: ` + data.TotalMissing + `</div></section>`))
		return
	}
	if err := s.templates.ExecuteTemplate(w, "month_view.html", data); err != nil {
		slog.ErrorContext(ctx, "Month view template execution failed", "error", err, "month", month.Key())
		_, _ = w.Write([]byte(`<section id="month-view"><div class="error">Errore rendering mese</div></section>`))
	}
}

func newMonthRowView(row core.MonthRow) monthRowView {
	v := monthRowView{
		Name:      row.Name,
		Due:       core.FormatEuro(row.EffectiveDue()),
		DueInput:  formatAmountInput(row.EffectiveDue()),
		Paid:      core.FormatEuro(row.Paid()),
		Missing:   core.FormatEuro(row.Missing()),
		Status:    statusLabel(row.Status()),
		HasCharge: row.Charge != nil,
	}
	switch row.Status() {
	case core.StatusPaid:
		v.StatusClass = "status-paid"
	case core.StatusPartial:
		v.StatusClass = "status-partial"
	default:
		v.StatusClass = "status-unpaid"
	}
	if row.Charge != nil {
		v.ChargeID = row.Charge.ID
		v.Settled = row.Charge.Settled()
		if row.Charge.PaidAt != nil {
			v.PaidAt = row.Charge.PaidAt.Format("02/01/2006")
		}
	}
	return v
}
