package domain

import "errors"

// Error taxonomy for the gateway. SessionNotFound and InvalidInput are
// client errors; ProviderError and HandlerTimeout are dependency failures
// surfaced with a generic message and never retried within a request.
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrProviderError   = errors.New("provider error")
	ErrHandlerTimeout  = errors.New("handler timeout")
)
