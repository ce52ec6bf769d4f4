package reservation

import "errors"

// ValidationError is a locally detected input problem. It is surfaced to the
// user and never sent upstream.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// UnavailableError blocks a submission whose chosen slot or session no
// longer has capacity at re-verification time.
type UnavailableError struct {
	Message string
}

func (e *UnavailableError) Error() string { return e.Message }

// AsValidationError unwraps err into a ValidationError when one is present.
func AsValidationError(err error) (*ValidationError, bool) {
	var v *ValidationError
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}

// AsUnavailableError unwraps err into an UnavailableError when one is present.
func AsUnavailableError(err error) (*UnavailableError, bool) {
	var u *UnavailableError
	if errors.As(err, &u) {
		return u, true
	}
	return nil, false
}
