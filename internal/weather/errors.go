package weather

import (
	"errors"
	"fmt"
)

// ErrNoAPIKey signals a missing weather provider credential. Autocomplete
// degrades to an empty list with this as the distinguishable cause; the
// primary fetch path surfaces it as a hard error.
var ErrNoAPIKey = errors.New("weather API key not configured")

// ErrLocationUnavailable is what a caller surfaces when its runtime denies or
// cannot provide device coordinates. It is deliberately distinct from a fetch
// error: the provider was never reached.
var ErrLocationUnavailable = errors.New("unable to retrieve your location")

// ErrSubmitInFlight rejects a submission that overlaps one still in flight.
var ErrSubmitInFlight = errors.New("a weather submission is already in flight")

// ValidationError reports invalid user input caught before any network call.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// UpstreamError is a non-2xx response from the weather provider. Message holds
// the provider's own error text when it reported one, a generic fallback
// otherwise. Never retried.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("weather provider returned status %d: %s", e.StatusCode, e.Message)
}

// ParseError reports a provider payload that decoded but is missing a field
// the normalized shape requires.
type ParseError struct {
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parsing provider response: %v", e.Err)
	}
	return fmt.Sprintf("provider response missing required field %q", e.Field)
}

func (e *ParseError) Unwrap() error { return e.Err }
