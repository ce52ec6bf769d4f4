package bookingapi

import (
	"encoding/json"
	"errors"
	"fmt"
)

// APIError is a non-success response from the booking API. Message carries
// the backend's JSON message field when one was parseable, otherwise a
// generic "HTTP <status>" string.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("bookingapi: HTTP %d: %s", e.Status, e.Message)
}

// AsAPIError unwraps err into an APIError when one is present.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func newAPIError(status int, body []byte) *APIError {
	var payload struct {
		Message string `json:"message"`
	}
	// An unparseable body is tolerated and treated as an empty object.
	_ = json.Unmarshal(body, &payload)
	if payload.Message == "" {
		payload.Message = fmt.Sprintf("HTTP %d", status)
	}
	return &APIError{Status: status, Message: payload.Message}
}
