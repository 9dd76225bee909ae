package domain

import "errors"

// Failure taxonomy. Adapters wrap these with fmt.Errorf("...: %w") so callers
// can branch with errors.Is while logs keep the full cause chain.
var (
	// ErrSensorUnavailable means no user position could be read (no
	// geolocation capability or permission). It ends the navigation flow.
	ErrSensorUnavailable = errors.New("position unavailable")

	// ErrNoShelters means the shelter set is empty.
	ErrNoShelters = errors.New("no shelters available")

	// ErrEmptyResult means an upstream call succeeded but returned nothing
	// usable, such as a Directions response with zero routes.
	ErrEmptyResult = errors.New("empty result")

	// ErrMalformedPayload means an upstream payload lacked expected fields or
	// could not be decoded.
	ErrMalformedPayload = errors.New("malformed payload")

	// ErrTransport covers network failures and non-success HTTP statuses.
	ErrTransport = errors.New("transport failure")
)

// UserMessage converts an error into a short, non-technical message suitable
// for display. Diagnostic detail stays in the logs.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrSensorUnavailable):
		return "Your current location could not be determined. Please allow location access."
	case errors.Is(err, ErrNoShelters):
		return "No shelters are available right now."
	case errors.Is(err, ErrEmptyResult), errors.Is(err, ErrTransport), errors.Is(err, ErrMalformedPayload):
		return "A road route could not be found. Showing a straight line to the shelter instead."
	default:
		return "Something went wrong. Please try again."
	}
}
