package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound signals a missing article or resource.
	ErrNotFound = errors.New("not found")
	// ErrValidation signals a request that cannot be served as given.
	ErrValidation = errors.New("invalid request parameters")
	// ErrUnprocessable signals an article payload that failed field validation.
	ErrUnprocessable = errors.New("request validation failed")
	// ErrAlreadyPublished signals a publish of an article that is already live.
	ErrAlreadyPublished = errors.New("article is already published")
	// ErrUnauthorized signals a missing or invalid credential.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden signals a credential without the required scope.
	ErrForbidden = errors.New("forbidden")
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
)

// ValidationError wraps ErrValidation with the list of offending parameters.
type ValidationError struct {
	Params []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(e.Params, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidation creates a validation error for the given parameter messages.
func NewValidation(params ...string) error {
	return &ValidationError{Params: params}
}

// FieldError describes one rejected field of an article payload.
type FieldError struct {
	Field   string
	Message string
	Code    string
}

// Field error codes.
const (
	CodeMinLength = "MIN_LENGTH"
	CodeRequired  = "REQUIRED"
	CodeInvalid   = "INVALID"
)

// FieldErrors wraps ErrUnprocessable with per-field details.
type FieldErrors []FieldError

func (e FieldErrors) Error() string {
	parts := make([]string, len(e))
	for i, f := range e {
		parts[i] = f.Field + ": " + f.Message
	}
	return fmt.Sprintf("%s: %s", ErrUnprocessable.Error(), strings.Join(parts, "; "))
}

func (e FieldErrors) Unwrap() error { return ErrUnprocessable }

// ScopeError wraps ErrForbidden with the scope the caller lacked.
type ScopeError struct {
	Required string
}

func (e *ScopeError) Error() string {
	return fmt.Sprintf("%s: missing scope %q", ErrForbidden.Error(), e.Required)
}

func (e *ScopeError) Unwrap() error { return ErrForbidden }
