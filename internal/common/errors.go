// Package common defines shared constants and sentinel errors used across
// the ApniSec server layers. Callers should use errors.Is to match these
// values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level error kinds. Each maps to one HTTP status at the boundary.
	ErrorValidation   = errors.New("validation error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")
	ErrorConflict     = errors.New("conflict")
	ErrorUnavailable  = errors.New("unavailable")

	// Auth errors (invalid, malformed or expired token).
	ErrInvalidToken = errors.New("invalid token")
)

// Error is a classified error carrying a message that is safe to show to the
// caller. Kind is one of the service-level sentinels above.
type Error struct {
	Kind    error
	Message string
	Details map[string]string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%v: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func NewValidationError(msg string, details map[string]string) *Error {
	return &Error{Kind: ErrorValidation, Message: msg, Details: details}
}

func NewAuthenticationError(msg string) *Error {
	return &Error{Kind: ErrorUnauthorized, Message: msg}
}

func NewForbiddenError(msg string) *Error {
	return &Error{Kind: ErrorForbidden, Message: msg}
}

func NewNotFoundError(msg string) *Error {
	return &Error{Kind: ErrorNotFound, Message: msg}
}

func NewConflictError(msg string) *Error {
	return &Error{Kind: ErrorConflict, Message: msg}
}

func NewUnavailableError(msg string) *Error {
	return &Error{Kind: ErrorUnavailable, Message: msg}
}

// AsError extracts a classified *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
