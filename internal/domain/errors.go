package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPlanParameter is wrapped by every plan validation failure
	ErrInvalidPlanParameter = errors.New("invalid plan parameter")

	// ErrMalformedHolding marks a holding that cannot be valued (missing asset or negative quantity)
	ErrMalformedHolding = errors.New("malformed holding")

	// ErrNotFound is returned by repositories when a record does not exist
	ErrNotFound = errors.New("not found")

	// ErrValidation is wrapped by naming and input rule violations
	ErrValidation = errors.New("validation failed")
)

// ValidationError carries a user-facing message for a rejected input
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Unwrap lets errors.Is match ErrValidation
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// PlanParameterError describes which plan field is outside its domain
type PlanParameterError struct {
	Field  string
	Reason string
}

func (e *PlanParameterError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidPlanParameter
func (e *PlanParameterError) Unwrap() error {
	return ErrInvalidPlanParameter
}
