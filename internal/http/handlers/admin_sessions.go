package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rkbeauty/booking-gateway/internal/adminpanel"
	"github.com/rkbeauty/booking-gateway/internal/bookingapi"
	"github.com/rkbeauty/booking-gateway/pkg/logging"
)

// AdminSessionsHandler serves the formation session CRUD panel. Every
// mutation responds with the refreshed list so the panel never renders
// stale rows.
type AdminSessionsHandler struct {
	ctrl   *adminpanel.Controller
	logger *logging.Logger
}

func NewAdminSessionsHandler(ctrl *adminpanel.Controller, logger *logging.Logger) *AdminSessionsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AdminSessionsHandler{ctrl: ctrl, logger: logger}
}

func (h *AdminSessionsHandler) token(r *http.Request) string {
	return r.Header.Get(bookingapi.AdminTokenHeader)
}

func (h *AdminSessionsHandler) writeList(w http.ResponseWriter, sessions []bookingapi.FormationSession) {
	writeJSON(w, http.StatusOK, map[string]any{"sessions": sessions})
}

// List handles GET /api/admin/sessions.
func (h *AdminSessionsHandler) List(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.ctrl.ListSessions(r.Context(), h.token(r))
	if err != nil {
		writeFlowError(w, err)
		return
	}
	h.writeList(w, sessions)
}

// Create handles POST /api/admin/sessions.
func (h *AdminSessionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req bookingapi.CreateSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Requête invalide.")
		return
	}

	sessions, err := h.ctrl.CreateSession(r.Context(), h.token(r), req)
	if err != nil {
		writeFlowError(w, err)
		return
	}
	h.writeList(w, sessions)
}

// Update handles PATCH /api/admin/sessions/{id}.
func (h *AdminSessionsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "Identifiant de session invalide.")
		return
	}

	var req bookingapi.UpdateSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Requête invalide.")
		return
	}

	sessions, err := h.ctrl.UpdateSession(r.Context(), h.token(r), id, req)
	if err != nil {
		writeFlowError(w, err)
		return
	}
	h.writeList(w, sessions)
}

// Delete handles DELETE /api/admin/sessions/{id}.
func (h *AdminSessionsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "Identifiant de session invalide.")
		return
	}

	sessions, err := h.ctrl.DeleteSession(r.Context(), h.token(r), id)
	if err != nil {
		writeFlowError(w, err)
		return
	}
	h.writeList(w, sessions)
}
