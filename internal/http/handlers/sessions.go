package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rkbeauty/booking-gateway/internal/bookingapi"
	"github.com/rkbeauty/booking-gateway/pkg/logging"
)

// SessionsHandler serves the public formation session list the widget
// renders as a date dropdown.
type SessionsHandler struct {
	api    *bookingapi.Client
	logger *logging.Logger
}

func NewSessionsHandler(api *bookingapi.Client, logger *logging.Logger) *SessionsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &SessionsHandler{api: api, logger: logger}
}

type sessionOption struct {
	bookingapi.FormationSession
	DisplayLabel string `json:"display_label"`
	Full         bool   `json:"full"`
}

// List handles GET /api/formations/{code}/sessions.
func (h *SessionsHandler) List(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "Code formation requis.")
		return
	}

	sessions, err := h.api.ListFormationSessions(r.Context(), code)
	if err != nil {
		writeFlowError(w, err)
		return
	}

	options := make([]sessionOption, 0, len(sessions))
	for _, s := range sessions {
		if s.Status != bookingapi.SessionStatusPublished {
			continue
		}
		options = append(options, sessionOption{
			FormationSession: s,
			DisplayLabel:     sessionLabel(s),
			Full:             s.Remaining <= 0,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"sessions": options})
}

// sessionLabel formats a dropdown entry, e.g. "12/09/2026 (3 places
// restantes)" or "12/09/2026 — Complet".
func sessionLabel(s bookingapi.FormationSession) string {
	display := s.StartDate
	if t, err := time.Parse("2006-01-02", s.StartDate); err == nil {
		display = t.Format("02/01/2006")
	}
	if s.Remaining <= 0 {
		return display + " — Complet"
	}
	if s.Remaining == 1 {
		return display + " (1 place restante)"
	}
	return fmt.Sprintf("%s (%d places restantes)", display, s.Remaining)
}
