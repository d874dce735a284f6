// Package shared contains common domain types, errors, and value objects
// that are used across all domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrNonPositive     = errors.New("value must be positive")
	ErrValueOutOfRange = errors.New("value out of range")

	// State errors
	ErrInvalidState    = errors.New("invalid state")
	ErrStateTransition = errors.New("invalid state transition")
	ErrFinalized       = errors.New("record is finalized")
	ErrFrozen          = errors.New("collection is frozen")
)

// ValidationError is a construction-time invariant violation. It carries the
// offending field and the constraint it violated so callers can map it to
// user-facing messages without parsing strings.
type ValidationError struct {
	Field      string // e.g. "credits", "weight", "grade"
	Constraint error  // base error for errors.Is() checking, e.g. ErrNonPositive
	Message    string // human-readable detail
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: field %q: %s", e.Field, e.Message)
}

// Unwrap returns the violated constraint for errors.Unwrap().
func (e *ValidationError) Unwrap() error {
	return e.Constraint
}

// Is implements errors.Is() matching. A ValidationError matches ErrValidation
// and its specific constraint.
func (e *ValidationError) Is(target error) bool {
	if target == ErrValidation {
		return true
	}
	return e.Constraint != nil && errors.Is(e.Constraint, target)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, constraint error, message string) *ValidationError {
	return &ValidationError{
		Field:      field,
		Constraint: constraint,
		Message:    message,
	}
}

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g. "program", "module", "assessment"
	Op      string // operation that failed, e.g. "RecordResult"
	Kind    error  // base error type for errors.Is() checking
	Message string // human-readable message
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error kind for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	return e.Kind
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
