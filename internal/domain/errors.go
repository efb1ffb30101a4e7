package domain

import (
	"errors"
	"fmt"
)

// ErrValidation is returned when caller input breaks a precondition.
var ErrValidation = errors.New("validation error")

// ErrNotFound is returned when a flight id does not resolve in the current list.
var ErrNotFound = errors.New("not found")

// TransportError is a network or HTTP failure talking to a remote endpoint.
// StatusCode is 0 when no response was received.
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsTransport reports whether err wraps a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
