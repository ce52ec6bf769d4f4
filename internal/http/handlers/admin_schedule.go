package handlers

import (
	"net/http"
	"strings"

	"github.com/rkbeauty/booking-gateway/internal/adminpanel"
	"github.com/rkbeauty/booking-gateway/internal/bookingapi"
	"github.com/rkbeauty/booking-gateway/internal/live"
	"github.com/rkbeauty/booking-gateway/pkg/logging"
)

// AdminScheduleHandler serves the planning panel's override endpoints.
// After every mutation it pushes the refreshed day to connected widgets.
type AdminScheduleHandler struct {
	ctrl   *adminpanel.Controller
	api    *bookingapi.Client
	hub    *live.Hub
	logger *logging.Logger
}

func NewAdminScheduleHandler(ctrl *adminpanel.Controller, api *bookingapi.Client, hub *live.Hub, logger *logging.Logger) *AdminScheduleHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AdminScheduleHandler{ctrl: ctrl, api: api, hub: hub, logger: logger}
}

func scheduleParams(r *http.Request) (token, date string, typ bookingapi.BookingType, ok bool) {
	token = r.Header.Get(bookingapi.AdminTokenHeader)
	date = strings.TrimSpace(r.URL.Query().Get("date"))
	typ, err := bookingapi.ParseBookingType(r.URL.Query().Get("type"))
	if err != nil || date == "" {
		return "", "", "", false
	}
	return token, date, typ, true
}

// Get handles GET /api/admin/schedule.
func (h *AdminScheduleHandler) Get(w http.ResponseWriter, r *http.Request) {
	token, date, typ, ok := scheduleParams(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Paramètres date et type requis.")
		return
	}

	ov, err := h.ctrl.LoadOverride(r.Context(), token, date, typ)
	if err != nil {
		writeFlowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"override": ov})
}

// Put handles PUT /api/admin/schedule.
func (h *AdminScheduleHandler) Put(w http.ResponseWriter, r *http.Request) {
	token, date, typ, ok := scheduleParams(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Paramètres date et type requis.")
		return
	}

	var ov bookingapi.Override
	if err := decodeJSON(r, &ov); err != nil {
		writeError(w, http.StatusBadRequest, "Requête invalide.")
		return
	}

	if err := h.ctrl.SaveOverride(r.Context(), token, date, typ, ov); err != nil {
		writeFlowError(w, err)
		return
	}
	h.pushDay(r, date, typ)
	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

// Block handles POST /api/admin/schedule/block.
func (h *AdminScheduleHandler) Block(w http.ResponseWriter, r *http.Request) {
	token, date, typ, ok := scheduleParams(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Paramètres date et type requis.")
		return
	}

	if err := h.ctrl.BlockDay(r.Context(), token, date, typ); err != nil {
		writeFlowError(w, err)
		return
	}
	if h.hub != nil {
		h.hub.BroadcastDayBlocked(typ, date)
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "blocked"})
}

// Delete handles DELETE /api/admin/schedule.
func (h *AdminScheduleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	token, date, typ, ok := scheduleParams(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Paramètres date et type requis.")
		return
	}

	if err := h.ctrl.DeleteOverride(r.Context(), token, date, typ); err != nil {
		writeFlowError(w, err)
		return
	}
	h.pushDay(r, date, typ)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// pushDay re-reads the mutated day and broadcasts it. A failed refresh is
// logged, never surfaced: the mutation already succeeded.
func (h *AdminScheduleHandler) pushDay(r *http.Request, date string, typ bookingapi.BookingType) {
	if h.hub == nil {
		return
	}
	snap, err := h.api.GetAvailability(r.Context(), date, typ)
	if err != nil {
		h.logger.Warn("post-mutation availability refresh failed", "date", date, "error", err)
		return
	}
	h.hub.BroadcastAvailability(typ, date, snap)
}
