package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Error kinds. Every error returned by a service wraps one of these so the
// HTTP layer can pick a status code with errors.Is.
var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrNotFound         = errors.New("resource not found")
	ErrAlreadyExists    = errors.New("already exists")
	ErrValidation       = errors.New("validation failed")
	ErrInvalidOperation = errors.New("invalid operation")
)

// Auth errors
var (
	ErrInvalidCredentials = &Error{Kind: ErrInvalidArgument, Message: "Invalid username/password"}
	ErrInvalidToken       = &Error{Kind: ErrInvalidArgument, Message: "Invalid refresh token"}
)

// Error is a domain failure with a client-facing message.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func InvalidArgument(format string, args ...any) error {
	return newError(ErrInvalidArgument, format, args...)
}

func NotFound(format string, args ...any) error {
	return newError(ErrNotFound, format, args...)
}

func Forbidden(format string, args ...any) error {
	return newError(ErrForbidden, format, args...)
}

func AlreadyExists(format string, args ...any) error {
	return newError(ErrAlreadyExists, format, args...)
}

func InvalidOperation(format string, args ...any) error {
	return newError(ErrInvalidOperation, format, args...)
}

// ValidationError carries per-field messages keyed by JSON field name.
type ValidationError struct {
	Errors map[string]string
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for f := range e.Errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return "validation failed: " + strings.Join(fields, ", ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError builds a single-field validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Errors: map[string]string{field: message}}
}
