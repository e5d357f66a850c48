// Package common defines shared constants and sentinel errors used across
// the FlatFinder server layers. Callers should use errors.Is to match these
// values and errors.As to extract *ValidationError.
package common

import (
	"errors"
	"strings"
)

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal           = errors.New("internal error")
	ErrorUnauthorized       = errors.New("authentication required")
	ErrorForbidden          = errors.New("forbidden")
	ErrorInvalidCredentials = errors.New("invalid email or password")
	ErrorValidation         = errors.New("validation error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// ValidationError reports bad or missing input. Fields lists the offending
// field names in the order they were checked.
type ValidationError struct {
	Fields []string
	Msg    string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// Unwrap lets errors.Is(err, ErrorValidation) match any *ValidationError.
func (e *ValidationError) Unwrap() error {
	return ErrorValidation
}

// NewValidationError builds a ValidationError for the given fields.
func NewValidationError(msg string, fields ...string) *ValidationError {
	return &ValidationError{Fields: fields, Msg: msg}
}

// MissingFieldsError reports every missing field, comma-joined.
func MissingFieldsError(fields []string) *ValidationError {
	return &ValidationError{
		Fields: fields,
		Msg:    "missing required fields: " + strings.Join(fields, ", "),
	}
}

// Error pairs a sentinel kind with a message that is safe to return to
// clients, e.g. NewError(ErrorNotFound, "flat not found").
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func NewError(kind error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}
