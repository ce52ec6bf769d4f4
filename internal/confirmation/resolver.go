// Package confirmation resolves a checkout session after the customer
// returns from the hosted payment page.
package confirmation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rkbeauty/booking-gateway/internal/bookingapi"
	"github.com/rkbeauty/booking-gateway/pkg/logging"
)

// ErrMissingSessionID means the return URL carried no session identifier.
// That is a page configuration problem, not a payment failure, and no
// resolution call is attempted.
var ErrMissingSessionID = errors.New("confirmation: missing session id")

// Result is the display model of a resolved reservation.
type Result struct {
	ReservationID string `json:"reservation_id"`
	Status        string `json:"status"`
	StatusLabel   string `json:"status_label"`
	Date          string `json:"date"`
	Slot          string `json:"slot"`
	SlotLabel     string `json:"slot_label"`
	Formation     string `json:"formation,omitempty"`
	CustomerName  string `json:"customer_name,omitempty"`
	CustomerEmail string `json:"customer_email,omitempty"`
}

// Resolver turns checkout session ids into display results.
type Resolver struct {
	api    *bookingapi.Client
	logger *logging.Logger
}

// NewResolver creates a confirmation resolver.
func NewResolver(api *bookingapi.Client, logger *logging.Logger) *Resolver {
	if logger == nil {
		logger = logging.Default()
	}
	return &Resolver{api: api, logger: logger}
}

// Resolve fetches the reservation behind a checkout session id.
func (r *Resolver) Resolve(ctx context.Context, sessionID string) (*Result, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrMissingSessionID
	}

	rec, err := r.api.ResolveCheckoutSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("resolve checkout session: %w", err)
	}

	result := &Result{
		ReservationID: rec.ID.String(),
		Status:        rec.Status,
		StatusLabel:   StatusLabel(rec.Status),
		Date:          rec.Date,
		Slot:          rec.Slot,
		SlotLabel:     SlotLabel(rec.Slot),
	}
	if rec.Meta != nil {
		result.Formation = rec.Meta.Formation
		if rec.Meta.Customer != nil {
			result.CustomerName = rec.Meta.Customer.Name
			result.CustomerEmail = rec.Meta.Customer.Email
		}
	}

	r.logger.Info("checkout session resolved", "status", rec.Status)
	return result, nil
}

// StatusLabel maps a backend payment status to its display label.
// Unrecognized statuses pass through unchanged.
func StatusLabel(status string) string {
	switch status {
	case "paid":
		return "Paiement validé"
	case "pending":
		return "Paiement en attente"
	case "failed":
		return "Paiement refusé"
	case "canceled":
		return "Paiement annulé"
	case "":
		return "—"
	}
	return status
}

// SlotLabel maps a slot key to its display label, passing through unknowns.
func SlotLabel(slot string) string {
	switch slot {
	case "morning":
		return "Matin"
	case "afternoon":
		return "Après-midi"
	case "":
		return "—"
	}
	return slot
}
