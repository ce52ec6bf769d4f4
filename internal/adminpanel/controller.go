// Package adminpanel drives the operator workflows: per-date schedule
// overrides and formation session rows. Every call carries the operator's
// shared-secret token; the token is never stored here.
package adminpanel

import (
	"context"
	"fmt"
	"strings"

	"github.com/rkbeauty/booking-gateway/internal/bookingapi"
	"github.com/rkbeauty/booking-gateway/pkg/logging"
)

// ValidationError is a locally rejected admin input; it never reaches the
// booking API.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Controller wraps the booking API admin surface.
type Controller struct {
	api    *bookingapi.Client
	logger *logging.Logger
}

// NewController creates an admin controller.
func NewController(api *bookingapi.Client, logger *logging.Logger) *Controller {
	if logger == nil {
		logger = logging.Default()
	}
	return &Controller{api: api, logger: logger}
}

// LoadOverride reads the override for one date and booking type.
func (c *Controller) LoadOverride(ctx context.Context, token, date string, typ bookingapi.BookingType) (*bookingapi.Override, error) {
	return c.api.GetScheduleOverride(ctx, token, date, typ)
}

// SaveOverride validates and writes an override. Negative quotas are
// rejected locally, before any network call.
func (c *Controller) SaveOverride(ctx context.Context, token, date string, typ bookingapi.BookingType, ov bookingapi.Override) error {
	if ov.Morning.Quota < 0 {
		return &ValidationError{Message: "Quota matin invalide."}
	}
	if ov.Afternoon.Quota < 0 {
		return &ValidationError{Message: "Quota après-midi invalide."}
	}
	if err := c.api.SaveScheduleOverride(ctx, token, date, typ, ov); err != nil {
		return err
	}
	c.logger.Info("schedule override saved",
		"date", date,
		"type", string(typ),
		"morning_open", ov.Morning.Open,
		"afternoon_open", ov.Afternoon.Open,
	)
	return nil
}

// BlockDay writes the closed/zero override for both slots, irrespective of
// the date's prior state.
func (c *Controller) BlockDay(ctx context.Context, token, date string, typ bookingapi.BookingType) error {
	if err := c.api.SaveScheduleOverride(ctx, token, date, typ, bookingapi.BlockedOverride()); err != nil {
		return err
	}
	c.logger.Info("day blocked", "date", date, "type", string(typ))
	return nil
}

// DeleteOverride removes the override, reverting the date to defaults.
func (c *Controller) DeleteOverride(ctx context.Context, token, date string, typ bookingapi.BookingType) error {
	if err := c.api.DeleteScheduleOverride(ctx, token, date, typ); err != nil {
		return err
	}
	c.logger.Info("schedule override deleted", "date", date, "type", string(typ))
	return nil
}

// ListSessions returns every session row for the admin table.
func (c *Controller) ListSessions(ctx context.Context, token string) ([]bookingapi.FormationSession, error) {
	return c.api.AdminListFormationSessions(ctx, token)
}

// CreateSession validates and creates a session row, then re-fetches the
// full list. The admin table always re-renders from a fresh list after a
// mutation.
func (c *Controller) CreateSession(ctx context.Context, token string, req bookingapi.CreateSessionRequest) ([]bookingapi.FormationSession, error) {
	req = applyCodeDefaults(req)
	if err := validateCreate(req); err != nil {
		return nil, err
	}
	if err := c.api.CreateFormationSession(ctx, token, req); err != nil {
		return nil, err
	}
	c.logger.Info("formation session created",
		"formation_code", req.FormationCode,
		"start_date", req.StartDate,
		"capacity", req.Capacity,
	)
	return c.api.AdminListFormationSessions(ctx, token)
}

// UpdateSession validates and applies a partial update, then re-fetches the
// full list.
func (c *Controller) UpdateSession(ctx context.Context, token string, id int64, req bookingapi.UpdateSessionRequest) ([]bookingapi.FormationSession, error) {
	if err := validateUpdate(req); err != nil {
		return nil, err
	}
	if err := c.api.UpdateFormationSession(ctx, token, id, req); err != nil {
		return nil, err
	}
	c.logger.Info("formation session updated", "id", id)
	return c.api.AdminListFormationSessions(ctx, token)
}

// DeleteSession removes a session row, then re-fetches the full list.
func (c *Controller) DeleteSession(ctx context.Context, token string, id int64) ([]bookingapi.FormationSession, error) {
	if err := c.api.DeleteFormationSession(ctx, token, id); err != nil {
		return nil, err
	}
	c.logger.Info("formation session deleted", "id", id)
	return c.api.AdminListFormationSessions(ctx, token)
}

func applyCodeDefaults(req bookingapi.CreateSessionRequest) bookingapi.CreateSessionRequest {
	inferred, ok := InferFromCode(req.FormationCode)
	if !ok {
		return req
	}
	if strings.TrimSpace(req.FormationLabel) == "" {
		req.FormationLabel = inferred.Label
	}
	if req.PriceEUR == 0 {
		req.PriceEUR = inferred.PriceEUR
	}
	if req.DaysCount == 0 {
		req.DaysCount = inferred.DaysCount
	}
	return req
}

func validateCreate(req bookingapi.CreateSessionRequest) error {
	if strings.TrimSpace(req.FormationCode) == "" {
		return &ValidationError{Message: "Choisis une formation_code."}
	}
	if strings.TrimSpace(req.FormationLabel) == "" {
		return &ValidationError{Message: "Libellé requis."}
	}
	if strings.TrimSpace(req.StartDate) == "" {
		return &ValidationError{Message: "Date début requise."}
	}
	if req.PriceEUR < 0 {
		return &ValidationError{Message: "Prix invalide."}
	}
	if req.DaysCount < 1 || req.DaysCount > 60 {
		return &ValidationError{Message: "Durée invalide."}
	}
	if req.Capacity < 1 {
		return &ValidationError{Message: "Capacity invalide."}
	}
	if err := validateSlotPolicy(req.SlotPolicy); err != nil {
		return err
	}
	return validateStatus(req.Status)
}

func validateUpdate(req bookingapi.UpdateSessionRequest) error {
	if req.DaysCount != nil && (*req.DaysCount < 1 || *req.DaysCount > 60) {
		return &ValidationError{Message: "Durée invalide."}
	}
	if req.Capacity != nil && *req.Capacity < 1 {
		return &ValidationError{Message: "Capacity invalide."}
	}
	if req.SlotPolicy != nil {
		if err := validateSlotPolicy(*req.SlotPolicy); err != nil {
			return err
		}
	}
	if req.Status != nil {
		return validateStatus(*req.Status)
	}
	return nil
}

func validateSlotPolicy(policy string) error {
	switch policy {
	case "", bookingapi.SlotPolicyMorning, bookingapi.SlotPolicyAfternoon, bookingapi.SlotPolicyBoth:
		return nil
	}
	return &ValidationError{Message: fmt.Sprintf("Slot policy invalide: %s", policy)}
}

func validateStatus(status string) error {
	switch status {
	case "", bookingapi.SessionStatusDraft, bookingapi.SessionStatusPublished, bookingapi.SessionStatusClosed:
		return nil
	}
	return &ValidationError{Message: fmt.Sprintf("Statut invalide: %s", status)}
}
