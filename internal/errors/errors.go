// Package errors consolidates error definitions for the colbench tool.
//
// This package provides:
// - Sentinel errors for all error conditions
// - Error category checking functions
// - Error wrapping utilities
package errors

import (
	"errors"
	"fmt"
)

// ============================================================================
// Sentinel errors for common conditions
// ============================================================================

var (
	// Not found errors
	ErrNotFound       = errors.New("not found")
	ErrTableNotFound  = errors.New("table not found")
	ErrColumnNotFound = errors.New("column not found")
	ErrQueryNotFound  = errors.New("query not found")

	// Already exists errors
	ErrAlreadyExists      = errors.New("already exists")
	ErrTableAlreadyExists = errors.New("table already exists")

	// Validation errors
	ErrInvalidName       = errors.New("invalid name")
	ErrInvalidConfig     = errors.New("invalid configuration")
	ErrInvalidLayout     = errors.New("invalid layout")
	ErrInvalidQuery      = errors.New("invalid query")
	ErrInvalidDialect    = errors.New("invalid dialect")
	ErrInvalidMultiplier = errors.New("invalid multiplier")
	ErrMissingField      = errors.New("missing required field")
	ErrEmptySuite        = errors.New("benchmark suite is empty")

	// State errors
	ErrClosed       = errors.New("already closed")
	ErrWriterClosed = errors.New("writer is closed")

	// Internal errors
	ErrInternal = errors.New("internal error")
	ErrDatabase = errors.New("database error")
)

// ============================================================================
// Helper functions for error checking
// ============================================================================

// Is is a convenience wrapper for errors.Is
var Is = errors.Is

// As is a convenience wrapper for errors.As
var As = errors.As

// IsNotFound returns true if err is a not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrTableNotFound) ||
		errors.Is(err, ErrColumnNotFound) ||
		errors.Is(err, ErrQueryNotFound)
}

// IsAlreadyExists returns true if err is an already-exists error.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists) ||
		errors.Is(err, ErrTableAlreadyExists)
}

// IsValidation returns true if err is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidName) ||
		errors.Is(err, ErrInvalidConfig) ||
		errors.Is(err, ErrInvalidLayout) ||
		errors.Is(err, ErrInvalidQuery) ||
		errors.Is(err, ErrInvalidDialect) ||
		errors.Is(err, ErrInvalidMultiplier) ||
		errors.Is(err, ErrMissingField) ||
		errors.Is(err, ErrEmptySuite)
}

// ============================================================================
// Error wrapping utilities
// ============================================================================

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// ============================================================================
// Error constructors with context
// ============================================================================

// NewMissingField creates a missing field error.
func NewMissingField(field string) error {
	return fmt.Errorf("field %q: %w", field, ErrMissingField)
}

// NewInvalidValue creates an invalid value error.
func NewInvalidValue(field string, value interface{}, reason string) error {
	return fmt.Errorf("field %q value %v: %s: %w", field, value, reason, ErrInvalidConfig)
}

// ============================================================================
// Validation Errors Collection
// ============================================================================

// ValidationErrors collects multiple validation errors.
type ValidationErrors struct {
	errs []error
}

// NewValidationErrors creates a new ValidationErrors collector.
func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{}
}

// Add adds an error to the collection. Nil errors are ignored.
func (v *ValidationErrors) Add(err error) {
	if err != nil {
		v.errs = append(v.errs, err)
	}
}

// Addf adds a formatted validation error.
func (v *ValidationErrors) Addf(format string, args ...interface{}) {
	v.errs = append(v.errs, fmt.Errorf(format, args...))
}

// HasErrors returns true if any errors were collected.
func (v *ValidationErrors) HasErrors() bool {
	return len(v.errs) > 0
}

// Err returns the combined error, or nil if none were collected.
func (v *ValidationErrors) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return errors.Join(v.errs...)
}
