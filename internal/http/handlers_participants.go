package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/MarcoIannucci/spotify-tracking/internal/core"
	"github.com/MarcoIannucci/spotify-tracking/internal/export"
)

type participantView struct {
	ID            string
	Name          string
	MonthlyFee    string
	FeeInput      string
	PaymentMethod string
	Notes         string
}

func (s *Server) handleParticipants(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	participants, err := s.store.ListParticipants(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List participants error", "error", err)
		http.Error(w, "errore caricando i partecipanti", http.StatusInternalServerError)
		return
	}

	data := struct {
		Participants []participantView
	}{}
	for _, p := range participants {
		data.Participants = append(data.Participants, participantView{
			ID:            p.ID,
			Name:          p.Name,
			MonthlyFee:    core.FormatEuro(p.MonthlyFee),
			FeeInput:      formatAmountInput(p.MonthlyFee),
			PaymentMethod: p.PaymentMethod,
			Notes:         p.Notes,
		})
	}

	if err := s.templates.ExecuteTemplate(w, "participants.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Participants template execution failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleSaveParticipant creates a participant when no id is posted and
// updates the existing one otherwise.
func (s *Server) handleSaveParticipant(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Formato richiesta non valido</div>`))
		return
	}

	fee, err := core.ParseAmount(strings.TrimSpace(r.Form.Get("monthly_fee")))
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Importo non valido</div>`))
		return
	}

	p := core.Participant{
		ID:            strings.TrimSpace(r.Form.Get("id")),
		Name:          sanitizeInput(r.Form.Get("name")),
		MonthlyFee:    fee,
		PaymentMethod: sanitizeInput(r.Form.Get("payment_method")),
		Notes:         sanitizeInput(r.Form.Get("notes")),
	}
	if err := p.Validate(); err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Dati non validi</div>`))
		return
	}

	ctx := r.Context()
	if p.ID == "" {
		p.ID = uuid.NewString()
		err = s.store.CreateParticipant(ctx, p)
	} else {
		err = s.store.UpdateParticipant(ctx, p)
	}
	if err != nil {
		slog.ErrorContext(ctx, "Save participant error", "error", err, "participant_id", p.ID)
		status := http.StatusInternalServerError
		if errors.Is(err, core.ErrParticipantNotFound) {
			status = http.StatusNotFound
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`<div class="error">Errore nel salvataggio</div>`))
		return
	}

	s.invalidateViews()
	http.Redirect(w, r, "/participants", http.StatusSeeOther)
}

func (s *Server) handleDeleteParticipant(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	id := strings.TrimSpace(r.Form.Get("id"))
	if id == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	// Charges cascade with the participant.
	if err := s.store.DeleteParticipant(r.Context(), id); err != nil {
		if errors.Is(err, core.ErrParticipantNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		slog.ErrorContext(r.Context(), "Delete participant error", "error", err, "participant_id", id)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	s.invalidateViews()
	http.Redirect(w, r, "/participants", http.StatusSeeOther)
}

// handleStatementCSV streams a participant's full payment history as a CSV
// download.
func (s *Server) handleStatementCSV(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		http.Error(w, "id mancante", http.StatusBadRequest)
		return
	}

	stmt, err := s.reports.ParticipantStatement(r.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrParticipantNotFound) {
			http.NotFound(w, r)
			return
		}
		slog.ErrorContext(r.Context(), "Statement load error", "error", err, "participant_id", id)
		http.Error(w, "errore generando lo storico", http.StatusInternalServerError)
		return
	}

	data, err := export.RenderCSV(stmt)
	if err != nil {
		slog.ErrorContext(r.Context(), "Statement render error", "error", err, "participant_id", id)
		http.Error(w, "errore generando lo storico", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.FileName(stmt.Name)+`.csv"`)
	_, _ = w.Write(data)
}
