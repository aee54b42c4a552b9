package http

import (
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/MarcoIannucci/spotify-tracking/internal/core"
)

// handleRecordPayment updates a single charge from the month view form.
// Responds with an htmx-friendly fragment and triggers a table refresh.
func (s *Server) handleRecordPayment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "url", r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Formato richiesta non valido</div>`))
		return
	}

	chargeID := strings.TrimSpace(r.Form.Get("charge_id"))
	if chargeID == "" {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Addebito mancante</div>`))
		return
	}

	amountStr := strings.TrimSpace(r.Form.Get("amount"))
	amount, err := core.ParseAmount(amountStr)
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Importo non valido</div>`))
		return
	}

	// An optional due correction rides along with the payment.
	var dueOverride *float64
	if dueStr := strings.TrimSpace(r.Form.Get("due")); dueStr != "" {
		due, err := core.ParseAmount(dueStr)
		if err != nil {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`<div class="error">Importo non valido</div>`))
			return
		}
		dueOverride = &due
	}

	if err := s.payments.Record(r.Context(), chargeID, amount, dueOverride); err != nil {
		slog.ErrorContext(r.Context(), "Payment record error", "error", err, "charge_id", chargeID)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="error">Errore nel salvataggio</div>`))
		return
	}

	paymentsRecordedTotal.Inc()
	s.invalidateViews()

	w.Header().Set("HX-Trigger", "payment:recorded")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">Pagamento registrato: €` +
		template.HTMLEscapeString(amountStr) + `</div>`))
}
