// Package handlers exposes the booking widget's HTTP surface.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rkbeauty/booking-gateway/internal/adminpanel"
	"github.com/rkbeauty/booking-gateway/internal/bookingapi"
	"github.com/rkbeauty/booking-gateway/internal/reservation"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// errorBody is the uniform error envelope the widget displays as-is.
type errorBody struct {
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Message: message})
}

// writeFlowError maps controller errors onto HTTP statuses: form problems
// are 422, stale availability is 409, upstream rejections keep their status
// and message, and anything else is a 502 with a generic display message.
func writeFlowError(w http.ResponseWriter, err error) {
	var vErr *reservation.ValidationError
	if errors.As(err, &vErr) {
		writeError(w, http.StatusUnprocessableEntity, vErr.Message)
		return
	}
	var uErr *reservation.UnavailableError
	if errors.As(err, &uErr) {
		writeError(w, http.StatusConflict, uErr.Message)
		return
	}
	var aErr *adminpanel.ValidationError
	if errors.As(err, &aErr) {
		writeError(w, http.StatusUnprocessableEntity, aErr.Message)
		return
	}
	if apiErr, ok := bookingapi.AsAPIError(err); ok {
		writeError(w, apiErr.Status, apiErr.Message)
		return
	}
	writeError(w, http.StatusBadGateway, "Service indisponible. Réessayez plus tard.")
}

func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	return dec.Decode(dst)
}
