package routing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RouteEstimate is the resolved distance/duration between two addresses
type RouteEstimate struct {
	DistanceKm          float64 `json:"distance_km"`
	DurationSeconds     int     `json:"duration_seconds"`
	ResolvedOrigin      string  `json:"resolved_origin"`
	ResolvedDestination string  `json:"resolved_destination"`

	// Fallback marks a bounded-random placeholder produced when the provider
	// was unreachable. Only the estimate path may return fallback values.
	Fallback bool `json:"fallback,omitempty"`
}

// ProviderResponse is the raw routing provider payload
type ProviderResponse struct {
	Status              string `json:"status"`
	DistanceMeters      int    `json:"distance_meters"`
	DurationSeconds     int    `json:"duration_seconds"`
	ResolvedOrigin      string `json:"resolved_origin"`
	ResolvedDestination string `json:"resolved_destination"`
}

// APICallLog is one append-only audit row for a provider call
type APICallLog struct {
	ID              uuid.UUID `json:"id" db:"id"`
	Endpoint        string    `json:"endpoint" db:"endpoint"`
	RequestPayload  string    `json:"request_payload" db:"request_payload"`
	ResponsePayload string    `json:"response_payload" db:"response_payload"`
	Success         bool      `json:"success" db:"success"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// Resolution error codes
const (
	ErrCodeMissingParams   = "MISSING_PARAMS"
	ErrCodeConnectionError = "CONNECTION_ERROR"
	ErrCodeProviderError   = "PROVIDER_ERROR"
	ErrCodeNoRoute         = "NO_ROUTE"
)

// ResolveError classifies a failed distance resolution
type ResolveError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ResolveError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error
func (e *ResolveError) Unwrap() error {
	return e.Err
}

func newResolveError(code, message string, err error) *ResolveError {
	return &ResolveError{Code: code, Message: message, Err: err}
}
