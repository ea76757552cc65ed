package ai

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredential indicates no API key is configured. Fatal for the
	// call path: retrying cannot help, and callers must surface it
	// distinctly from transient failures.
	ErrMissingCredential = errors.New("assistant API key not configured")

	// ErrNoResponse indicates the provider returned a non-2xx status or an
	// empty/malformed completion. Transient; the user may retry the action.
	ErrNoResponse = errors.New("no response from assistant")
)

// APIError carries provider error details for logging and status mapping.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("assistant API error (status %d): %s", e.StatusCode, e.Message)
}

// Transient failures wrap ErrNoResponse so callers can classify without
// inspecting the concrete type.
func (e *APIError) Unwrap() error { return ErrNoResponse }

// IsConfigurationError reports whether err is a non-retryable credential
// problem rather than a transient service failure.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrMissingCredential)
}

// IsTransient reports whether err is a retryable service failure.
func IsTransient(err error) bool {
	return errors.Is(err, ErrNoResponse)
}
