package skyscanner

import (
	"errors"
	"fmt"
)

var (
	// ErrNoFares is returned when a poll has no itinerary to price.
	ErrNoFares = errors.New("no fares found")
	// ErrMissingLocation is returned when a created session has no Location header.
	ErrMissingLocation = errors.New("session response has no location")
	// ErrEmptySessionID is returned when the Location header ends without a session id.
	ErrEmptySessionID = errors.New("session location has no id")
)

// APIError is returned when the API responds with a non-2xx status.
type APIError struct {
	StatusCode int
	Status     string
	Endpoint   string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("skyscanner api error: %s %s: %s", e.Endpoint, e.Status, e.Body)
}

type NoFaresError struct {
	SessionKey string
}

func (e *NoFaresError) Error() string {
	return fmt.Sprintf("session %q: %s", e.SessionKey, ErrNoFares.Error())
}

func (e *NoFaresError) Unwrap() error {
	return ErrNoFares
}
