package services

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
)

// ErrUserNotFound is returned when a user ID has no matching record.
var ErrUserNotFound = errors.New("user not found")

// ValidationError carries the field-keyed violations of a rejected payload.
type ValidationError struct {
	Fields validation.Errors
}

func (e *ValidationError) Error() string { return "validation failed" }

// ConflictError reports a duplicate identity. Field/Reason feed the
// response's error map, Message its top-level message.
type ConflictError struct {
	Message string
	Field   string
	Reason  string
}

func (e *ConflictError) Error() string { return e.Message }

// CredentialsError reports a failed login attempt, attributed to the
// field that failed. The outward message stays a generic "Invalid
// credentials" either way; only the error map names the field.
type CredentialsError struct {
	Field  string
	Reason string
}

func (e *CredentialsError) Error() string { return "invalid credentials" }
