package handlers

import (
	"net/http"

	"github.com/rkbeauty/booking-gateway/internal/reservation"
	"github.com/rkbeauty/booking-gateway/pkg/logging"
)

// ReservationsHandler drives both payment flows.
type ReservationsHandler struct {
	ctrl   *reservation.Controller
	logger *logging.Logger
}

func NewReservationsHandler(ctrl *reservation.Controller, logger *logging.Logger) *ReservationsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &ReservationsHandler{ctrl: ctrl, logger: logger}
}

// Checkout handles POST /api/reservations/checkout (formation, card flow).
func (h *ReservationsHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req reservation.FormationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Requête invalide.")
		return
	}

	url, err := h.ctrl.SubmitFormation(r.Context(), req)
	if err != nil {
		writeFlowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

// PayPal handles POST /api/reservations/paypal (service, deposit flow).
func (h *ReservationsHandler) PayPal(w http.ResponseWriter, r *http.Request) {
	var req reservation.ServiceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Requête invalide.")
		return
	}

	url, err := h.ctrl.SubmitService(r.Context(), req)
	if err != nil {
		writeFlowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"approvalUrl": url})
}
