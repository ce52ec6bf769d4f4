// Package reservation drives the booking form workflow: validate the form,
// re-verify availability just before payment, and hand off to the hosted
// checkout page.
package reservation

import (
	"context"
	"fmt"
	"strings"

	"github.com/rkbeauty/booking-gateway/internal/bookingapi"
	"github.com/rkbeauty/booking-gateway/internal/observability/metrics"
	"github.com/rkbeauty/booking-gateway/pkg/logging"
)

// Controller submits validated reservations to the booking API.
type Controller struct {
	api         *bookingapi.Client
	logger      *logging.Logger
	metrics     *metrics.GatewayMetrics
	depositRate float64
}

// NewController creates a reservation controller. depositRate is the share
// of the service total paid up front (0.5 on the booking pages).
func NewController(api *bookingapi.Client, logger *logging.Logger, m *metrics.GatewayMetrics, depositRate float64) *Controller {
	if logger == nil {
		logger = logging.Default()
	}
	if depositRate <= 0 {
		depositRate = 0.5
	}
	return &Controller{
		api:         api,
		logger:      logger,
		metrics:     m,
		depositRate: depositRate,
	}
}

// SubmitFormation runs the training reservation flow and returns the hosted
// checkout URL. The chosen session is re-resolved and the start date's
// availability re-verified before any payment session is created; a failed
// verification blocks the submission. No lock is held, so the upstream
// remains the authority on double-booking.
func (c *Controller) SubmitFormation(ctx context.Context, req FormationRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	session, err := c.resolveSession(ctx, req)
	if err != nil {
		c.metrics.ObserveCheckout("formation", "blocked")
		return "", err
	}

	label := strings.TrimSpace(session.FormationLabel)
	if label == "" {
		label = strings.TrimSpace(req.Formation)
	}
	price := session.PriceEUR
	if price <= 0 {
		price = req.fallbackPrice()
	}
	if price <= 0 {
		return "", &ValidationError{Message: "Choisis une formation."}
	}

	if err := c.verifySlot(ctx, session.StartDate, bookingapi.BookingTypeFormation, req.Slot); err != nil {
		c.metrics.ObserveCheckout("formation", "blocked")
		return "", err
	}

	resp, err := c.api.CreateCheckoutSession(ctx, bookingapi.CheckoutSessionRequest{
		FormationSessionID: session.ID,
		Slot:               req.Slot,
		Customer:           req.Customer,
		Formation:          label,
		TotalPriceEUR:      FormatPriceEUR(price),
		Message:            strings.TrimSpace(req.Message),
	})
	if err != nil {
		c.metrics.ObserveCheckout("formation", "error")
		return "", fmt.Errorf("create checkout session: %w", err)
	}

	c.metrics.ObserveCheckout("formation", "ok")
	c.logger.Info("checkout session created",
		"session_id", session.ID,
		"slot", req.Slot,
		"formation", label,
	)
	return resp.URL, nil
}

// SubmitService runs the service reservation flow and returns the approval
// page URL of the alternate payment processor.
func (c *Controller) SubmitService(ctx context.Context, req ServiceRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	if err := c.verifySlot(ctx, req.SlotDate, bookingapi.BookingTypeService, req.SlotTime); err != nil {
		c.metrics.ObserveCheckout("service", "blocked")
		return "", err
	}

	deposit := Deposit(req.Service.TotalEUR, c.depositRate)
	resp, err := c.api.CreatePayPalOrder(ctx, bookingapi.PayPalOrderRequest{
		SlotDate: req.SlotDate,
		SlotTime: req.SlotTime,
		Customer: req.Customer,
		Service: bookingapi.ServiceInfo{
			Name:       req.Service.Name,
			TotalEUR:   req.Service.TotalEUR,
			DepositEUR: deposit,
		},
	})
	if err != nil {
		c.metrics.ObserveCheckout("service", "error")
		return "", fmt.Errorf("create paypal order: %w", err)
	}

	c.metrics.ObserveCheckout("service", "ok")
	c.logger.Info("paypal order created",
		"date", req.SlotDate,
		"slot", req.SlotTime,
		"service", req.Service.Name,
		"deposit_eur", deposit,
	)
	return resp.ApprovalURL, nil
}

// resolveSession re-reads the session row for the chosen formation and
// rejects sessions that are gone, unpublished, full, or whose slot policy
// excludes the chosen slot.
func (c *Controller) resolveSession(ctx context.Context, req FormationRequest) (*bookingapi.FormationSession, error) {
	sessions, err := c.api.ListFormationSessions(ctx, req.FormationCode)
	if err != nil {
		c.logger.Warn("session lookup failed", "formation_code", req.FormationCode, "error", err)
		return nil, &UnavailableError{Message: "Impossible de vérifier la session. Réessayez."}
	}

	for i := range sessions {
		s := &sessions[i]
		if s.ID != req.FormationSessionID {
			continue
		}
		if s.Status != "" && s.Status != bookingapi.SessionStatusPublished {
			return nil, &UnavailableError{Message: "Cette session n'est plus disponible."}
		}
		if s.Remaining <= 0 {
			return nil, &UnavailableError{Message: "Cette session est complète."}
		}
		if !s.AllowsSlot(req.Slot) {
			return nil, &UnavailableError{Message: "Ce créneau n'est pas disponible."}
		}
		return s, nil
	}
	return nil, &UnavailableError{Message: "Cette session n'est plus disponible."}
}

// verifySlot is the pre-submission availability re-check. Any failure blocks
// the submission with a user-facing message instead of proceeding.
func (c *Controller) verifySlot(ctx context.Context, date string, typ bookingapi.BookingType, slot string) error {
	snap, err := c.api.GetAvailability(ctx, date, typ)
	if err != nil {
		c.logger.Warn("availability re-check failed", "date", date, "type", string(typ), "error", err)
		return &UnavailableError{Message: "Impossible de vérifier la disponibilité. Réessayez."}
	}
	if !snap.Bookable(slot) {
		return &UnavailableError{Message: "Ce créneau n'est plus disponible."}
	}
	return nil
}
