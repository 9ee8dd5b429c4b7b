package weather

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned when the caller breaks the city/coordinates
	// exclusivity or passes out-of-range values.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned when geocoding has no match.
	ErrNotFound = errors.New("location not found")
	// ErrUpstreamConnection covers network failures and timeouts.
	ErrUpstreamConnection = errors.New("upstream connection failed")
	// ErrUpstreamAuth is returned when the provider rejects the API key.
	ErrUpstreamAuth = errors.New("upstream rejected credentials")
	// ErrUpstreamServer covers any other non-2xx upstream status.
	ErrUpstreamServer = errors.New("upstream returned an error status")
	// ErrMalformedUpstreamData is returned when a 2xx payload cannot be parsed.
	ErrMalformedUpstreamData = errors.New("malformed upstream data")
	// ErrSchemaValidation is returned when an assembled report fails validation.
	ErrSchemaValidation = errors.New("schema validation failed")
)

// Endpoint identifies one upstream REST resource.
type Endpoint string

const (
	EndpointGeocode      Endpoint = "/geo/1.0/direct"
	EndpointReverse      Endpoint = "/geo/1.0/reverse"
	EndpointCurrent      Endpoint = "/data/2.5/weather"
	EndpointForecast     Endpoint = "/data/2.5/forecast"
	EndpointAirPollution Endpoint = "/data/2.5/air_pollution"
)

// Name returns a short label for logs and metrics.
func (e Endpoint) Name() string {
	switch e {
	case EndpointGeocode:
		return "geocode"
	case EndpointReverse:
		return "reverse_geocode"
	case EndpointCurrent:
		return "current"
	case EndpointForecast:
		return "forecast"
	case EndpointAirPollution:
		return "air_pollution"
	default:
		return string(e)
	}
}

// InputError reports a caller mistake on a single field.
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input for field '%s': %s", e.Field, e.Message)
}

func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}

// UpstreamError reports a failed call to one upstream endpoint. Kind is one of
// ErrUpstreamConnection, ErrUpstreamAuth or ErrUpstreamServer.
type UpstreamError struct {
	Endpoint   Endpoint
	Kind       error
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: %v (status %d)", e.Kind, e.Endpoint.Name(), e.Err, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: %v", e.Kind, e.Endpoint.Name(), e.Err)
}

func (e *UpstreamError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// MalformedDataError reports a payload missing a required field.
type MalformedDataError struct {
	Endpoint Endpoint
	Field    string
	Err      error
}

func (e *MalformedDataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s from %s: field '%s': %v", ErrMalformedUpstreamData, e.Endpoint.Name(), e.Field, e.Err)
	}
	return fmt.Sprintf("%s from %s: missing field '%s'", ErrMalformedUpstreamData, e.Endpoint.Name(), e.Field)
}

func (e *MalformedDataError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMalformedUpstreamData}
	}
	return []error{ErrMalformedUpstreamData, e.Err}
}

// SchemaError wraps the validator output for a report that failed validation.
type SchemaError struct {
	Err error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: %v", ErrSchemaValidation, e.Err)
}

func (e *SchemaError) Unwrap() []error {
	return []error{ErrSchemaValidation, e.Err}
}
