// Package bookingapi is the typed HTTP client for the remote booking API.
// Every network operation of the booking pages goes through this package.
package bookingapi

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// BookingType selects the schedule a date query applies to.
type BookingType string

const (
	BookingTypeService   BookingType = "service"
	BookingTypeFormation BookingType = "formation"
)

// ParseBookingType validates a type query parameter.
func ParseBookingType(s string) (BookingType, error) {
	switch BookingType(strings.TrimSpace(s)) {
	case BookingTypeService:
		return BookingTypeService, nil
	case BookingTypeFormation:
		return BookingTypeFormation, nil
	}
	return "", fmt.Errorf("bookingapi: invalid booking type %q", s)
}

// SlotOverride is one half-day of an admin schedule override.
type SlotOverride struct {
	Open  bool `json:"open"`
	Quota int  `json:"quota"`
}

// Override is an admin-authored exception to the default schedule for one
// date and booking type. Deleting it reverts the date to defaults.
type Override struct {
	Morning   SlotOverride `json:"morning"`
	Afternoon SlotOverride `json:"afternoon"`
}

// BlockedOverride is the override a one-click "block day" writes: both slots
// closed with zero quota, irrespective of prior state.
func BlockedOverride() Override {
	return Override{
		Morning:   SlotOverride{Open: false, Quota: 0},
		Afternoon: SlotOverride{Open: false, Quota: 0},
	}
}

// Formation session statuses.
const (
	SessionStatusDraft     = "draft"
	SessionStatusPublished = "published"
	SessionStatusClosed    = "closed"
)

// Slot policies restricting which half-day a session can be booked on.
const (
	SlotPolicyMorning   = "morning"
	SlotPolicyAfternoon = "afternoon"
	SlotPolicyBoth      = "both"
)

// FormationSession is a scheduled multi-day training instance. Owned and
// mutated by the backend; this client only reads rows and issues partial
// updates.
type FormationSession struct {
	ID             int64   `json:"id"`
	FormationCode  string  `json:"formation_code"`
	FormationLabel string  `json:"formation_label"`
	PriceEUR       float64 `json:"price_eur"`
	StartDate      string  `json:"start_date"`
	DaysCount      int     `json:"days_count"`
	Capacity       int     `json:"capacity"`
	Reserved       int     `json:"reserved"`
	Holds          int     `json:"holds"`
	Remaining      int     `json:"remaining"`
	Status         string  `json:"status"`
	SlotPolicy     string  `json:"slot_policy"`
	Note           string  `json:"note,omitempty"`
}

// AllowsSlot reports whether the session's slot policy permits the slot.
func (s FormationSession) AllowsSlot(slot string) bool {
	switch s.SlotPolicy {
	case SlotPolicyMorning:
		return slot == SlotPolicyMorning
	case SlotPolicyAfternoon:
		return slot == SlotPolicyAfternoon
	}
	return slot == SlotPolicyMorning || slot == SlotPolicyAfternoon
}

// CreateSessionRequest is the admin payload creating a session row.
type CreateSessionRequest struct {
	FormationCode  string  `json:"formation_code"`
	FormationLabel string  `json:"formation_label"`
	PriceEUR       float64 `json:"price_eur"`
	DaysCount      int     `json:"days_count"`
	StartDate      string  `json:"start_date"`
	Capacity       int     `json:"capacity"`
	SlotPolicy     string  `json:"slot_policy"`
	Status         string  `json:"status"`
	Note           *string `json:"note"`
}

// UpdateSessionRequest carries a partial update; nil fields are untouched.
type UpdateSessionRequest struct {
	StartDate  *string `json:"start_date,omitempty"`
	DaysCount  *int    `json:"days_count,omitempty"`
	Capacity   *int    `json:"capacity,omitempty"`
	Status     *string `json:"status,omitempty"`
	SlotPolicy *string `json:"slot_policy,omitempty"`
	Note       *string `json:"note,omitempty"`
}

// CustomerInfo identifies the customer on a formation reservation.
type CustomerInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// CheckoutSessionRequest is the reservation payload for the card checkout
// flow. Field names follow the backend contract.
type CheckoutSessionRequest struct {
	FormationSessionID int64        `json:"formation_session_id"`
	Slot               string       `json:"slot"`
	Customer           CustomerInfo `json:"customer"`
	Formation          string       `json:"formation"`
	TotalPriceEUR      string       `json:"totalPriceEUR"`
	Message            string       `json:"message,omitempty"`
}

// CheckoutSessionResponse carries the hosted checkout page URL.
type CheckoutSessionResponse struct {
	URL string `json:"url"`
}

// ServiceCustomer identifies the customer on a service reservation.
type ServiceCustomer struct {
	LastName  string `json:"nom"`
	FirstName string `json:"prenom"`
	Email     string `json:"email"`
}

// ServiceInfo describes the chosen service and its pricing.
type ServiceInfo struct {
	Name       string  `json:"name"`
	TotalEUR   float64 `json:"totalEUR"`
	DepositEUR float64 `json:"depositEUR"`
}

// PayPalOrderRequest is the reservation payload for the alternate-processor
// flow (deposit paid up front).
type PayPalOrderRequest struct {
	SlotDate string          `json:"slotDate"`
	SlotTime string          `json:"slotTime"`
	Customer ServiceCustomer `json:"customer"`
	Service  ServiceInfo     `json:"service"`
}

// PayPalOrderResponse carries the hosted approval page URL.
type PayPalOrderResponse struct {
	ApprovalURL string `json:"approvalUrl"`
}

// FlexID tolerates reservation ids serialized as either a JSON string or a
// JSON number.
type FlexID string

func (f *FlexID) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexID(n.String())
	return nil
}

func (f FlexID) String() string { return string(f) }

// ParseSessionID converts a path parameter into a session row id.
func ParseSessionID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("bookingapi: invalid session id %q", s)
	}
	return id, nil
}

// ReservationMeta is the free-form metadata attached to a reservation.
type ReservationMeta struct {
	Formation string        `json:"formation"`
	Customer  *MetaCustomer `json:"customer"`
}

// MetaCustomer is the customer snapshot stored on a reservation.
type MetaCustomer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ReservationRecord is the reservation as resolved from a checkout session
// after the customer returns from the hosted payment page.
type ReservationRecord struct {
	ID     FlexID           `json:"id"`
	Status string           `json:"status"`
	Date   string           `json:"date"`
	Slot   string           `json:"slot"`
	Meta   *ReservationMeta `json:"meta"`
}
