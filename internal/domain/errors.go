package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")
	ErrConflict      = errors.New("conflict")

	// ErrOwnerNotFound means an indicator has no owner assignment. Every
	// indicator gets one at creation time, so this is a data-integrity
	// fault, not a caller mistake.
	ErrOwnerNotFound = errors.New("indicator has no owner assignment")

	// ErrScanInProgress is returned when a staleness run is requested while
	// a previous run is still dispatching.
	ErrScanInProgress = errors.New("staleness scan already in progress")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// UnrelatedGoalError is returned by the featured-slot flow when the indicator
// is not a member of every goal referenced in the update. Titles carries the
// offending goal titles so the caller can attach the indicator first.
type UnrelatedGoalError struct {
	IndicatorID int64
	Titles      []string
}

func (e *UnrelatedGoalError) Error() string {
	return fmt.Sprintf("indicator %d is not related to goals: %s; assign the indicator to these goals before featuring it",
		e.IndicatorID, strings.Join(e.Titles, ", "))
}

func (e *UnrelatedGoalError) Unwrap() error { return ErrValidation }
