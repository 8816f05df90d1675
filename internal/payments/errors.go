package payments

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParams marks a user-correctable checkout request problem.
	ErrInvalidParams = errors.New("invalid checkout parameters")

	// ErrSessionNotFound is returned when the provider does not know the
	// requested session id.
	ErrSessionNotFound = errors.New("checkout session not found")

	// ErrMissingSignature is returned for webhook requests without a
	// signature header.
	ErrMissingSignature = errors.New("missing webhook signature header")
)

// UpstreamError wraps a provider rejection. The Code and Message carry
// provider detail for server-side logs and must not be exposed to clients.
type UpstreamError struct {
	Operation  string
	StatusCode int
	Code       string
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: stripe error (%d) %s: %s", e.Operation, e.StatusCode, e.Code, e.Message)
}
