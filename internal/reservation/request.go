package reservation

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rkbeauty/booking-gateway/internal/bookingapi"
)

// FormationRequest is the reservation form for the training (card checkout)
// flow. Formation and TotalPriceEUR are only fallbacks: when the session row
// resolves, its label and price win over anything user-editable.
type FormationRequest struct {
	FormationSessionID int64                   `json:"formation_session_id"`
	FormationCode      string                  `json:"formation_code"`
	Slot               string                  `json:"slot"`
	Customer           bookingapi.CustomerInfo `json:"customer"`
	Formation          string                  `json:"formation"`
	TotalPriceEUR      string                  `json:"totalPriceEUR"`
	Message            string                  `json:"message"`
}

// Validate checks the form in submission order. The first failure wins.
func (r *FormationRequest) Validate() error {
	if r.FormationSessionID <= 0 {
		return &ValidationError{Message: "Choisis une date de session."}
	}
	if r.Slot != "morning" && r.Slot != "afternoon" {
		return &ValidationError{Message: "Choisis un créneau."}
	}
	if strings.TrimSpace(r.Customer.Name) == "" ||
		strings.TrimSpace(r.Customer.Email) == "" ||
		strings.TrimSpace(r.Customer.Phone) == "" {
		return &ValidationError{Message: "Complète nom, email et téléphone."}
	}
	if strings.TrimSpace(r.FormationCode) == "" && strings.TrimSpace(r.Formation) == "" {
		return &ValidationError{Message: "Choisis une formation."}
	}
	return nil
}

// fallbackPrice parses the user-visible price text ("150€", "89,90") used
// only when the session row carries no structured price.
func (r *FormationRequest) fallbackPrice() float64 {
	s := strings.TrimSpace(r.TotalPriceEUR)
	s = strings.ReplaceAll(s, "€", "")
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// ServiceSelection is the chosen service and its catalog price.
type ServiceSelection struct {
	Name     string  `json:"name"`
	TotalEUR float64 `json:"totalEUR"`
}

// ServiceRequest is the reservation form for the service (alternate
// processor) flow. The deposit is computed server-side, never taken from the
// form.
type ServiceRequest struct {
	SlotDate string                     `json:"slotDate"`
	SlotTime string                     `json:"slotTime"`
	Customer bookingapi.ServiceCustomer `json:"customer"`
	Service  ServiceSelection           `json:"service"`
}

// Validate checks the form in submission order. The first failure wins.
func (r *ServiceRequest) Validate() error {
	if !validDate(r.SlotDate) || (r.SlotTime != "morning" && r.SlotTime != "afternoon") {
		return &ValidationError{Message: "Veuillez choisir un créneau."}
	}
	if strings.TrimSpace(r.Customer.LastName) == "" ||
		strings.TrimSpace(r.Customer.FirstName) == "" ||
		strings.TrimSpace(r.Customer.Email) == "" {
		return &ValidationError{Message: "Veuillez remplir nom, prénom et email."}
	}
	if strings.TrimSpace(r.Service.Name) == "" ||
		math.IsNaN(r.Service.TotalEUR) || math.IsInf(r.Service.TotalEUR, 0) || r.Service.TotalEUR <= 0 {
		return &ValidationError{Message: "Veuillez sélectionner une prestation."}
	}
	return nil
}

// Deposit computes the up-front deposit, rounded to cents.
func Deposit(totalEUR, rate float64) float64 {
	if totalEUR <= 0 || rate <= 0 {
		return 0
	}
	return math.Round(totalEUR*rate*100) / 100
}

// FormatPriceEUR renders a price the way the checkout payload expects it,
// without trailing zeros.
func FormatPriceEUR(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func validDate(s string) bool {
	_, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	return err == nil
}
