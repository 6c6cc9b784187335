// Package common defines shared constants and sentinel errors used across
// fleetdesk components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Validation errors. Field-specific details are wrapped around this
	// sentinel so handlers can map every variant to one status code.
	ErrorValidation = errors.New("validation error")

	// Lifecycle transition errors.
	ErrorAlreadyDeleted = errors.New("already deleted")
	ErrorAlreadyActive  = errors.New("already active")
	ErrorEntityDeleted  = errors.New("entity is deleted")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
)
