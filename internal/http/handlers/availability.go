package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/rkbeauty/booking-gateway/internal/availability"
	"github.com/rkbeauty/booking-gateway/internal/bookingapi"
	"github.com/rkbeauty/booking-gateway/internal/slotpicker"
	"github.com/rkbeauty/booking-gateway/pkg/logging"
)

// AvailabilityHandler serves the per-day availability the widget renders.
type AvailabilityHandler struct {
	api    *bookingapi.Client
	logger *logging.Logger
}

func NewAvailabilityHandler(api *bookingapi.Client, logger *logging.Logger) *AvailabilityHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AvailabilityHandler{api: api, logger: logger}
}

// availabilityResponse pairs the raw snapshot with the ready-to-render slot
// controls. Degraded is set when the upstream could not be reached and the
// day is shown closed rather than guessed open.
type availabilityResponse struct {
	Date         string                `json:"date"`
	BookingType  string                `json:"type"`
	Availability availability.Snapshot `json:"availability"`
	Morning      slotpicker.Control    `json:"morning"`
	Afternoon    slotpicker.Control    `json:"afternoon"`
	Degraded     bool                  `json:"degraded,omitempty"`
}

// Get handles GET /api/availability.
func (h *AvailabilityHandler) Get(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	date := strings.TrimSpace(q.Get("date"))
	typ, err := bookingapi.ParseBookingType(q.Get("type"))
	if err != nil || date == "" {
		writeError(w, http.StatusBadRequest, "Paramètres date et type requis.")
		return
	}

	picker := slotpicker.New()
	picker.SetDate(date)
	if sid := q.Get("session_id"); sid != "" {
		id, convErr := strconv.ParseInt(sid, 10, 64)
		if convErr != nil || id <= 0 {
			writeError(w, http.StatusBadRequest, "session_id invalide.")
			return
		}
		picker.SetSession(id, q.Get("policy"))
	}

	resp := availabilityResponse{Date: date, BookingType: string(typ)}

	snap, err := h.api.GetAvailability(r.Context(), date, typ)
	if err != nil {
		if apiErr, ok := bookingapi.AsAPIError(err); ok && apiErr.Status < http.StatusInternalServerError {
			writeError(w, apiErr.Status, apiErr.Message)
			return
		}
		// Network or upstream failure: show the day closed instead of
		// letting customers pick slots that may not exist.
		h.logger.Warn("availability fetch failed, serving closed fallback",
			"date", date, "type", string(typ), "error", err)
		snap = availability.FallbackClosed(date)
		resp.Degraded = true
	}

	picker.ApplyAvailability(snap)
	resp.Availability = snap
	resp.Morning = picker.Morning
	resp.Afternoon = picker.Afternoon
	writeJSON(w, http.StatusOK, resp)
}
