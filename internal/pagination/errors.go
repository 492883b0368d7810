package pagination

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes pagination failures.
type ErrorCode string

const (
	// ErrCodeInvalidPageSize indicates a requested page size below 1.
	ErrCodeInvalidPageSize ErrorCode = "INVALID_PAGE_SIZE"

	// ErrCodeNegativeCardinality indicates the cost estimator returned a
	// negative cardinality, which violates its contract.
	ErrCodeNegativeCardinality ErrorCode = "NEGATIVE_CARDINALITY"

	// ErrCodeUnsupportedPlan indicates a pagination plan with more than
	// one simultaneous vertex partition. Callers should read this as
	// "pagination unavailable for this query", not as bad input.
	ErrCodeUnsupportedPlan ErrorCode = "UNSUPPORTED_PLAN"

	// ErrCodeInvariantViolation indicates the plan or query handed to the
	// rewriter is internally inconsistent, e.g. a partition path that does
	// not exist in the query tree. This is a bug in the producing
	// collaborator, never user-correctable input.
	ErrCodeInvariantViolation ErrorCode = "INVARIANT_VIOLATION"
)

// Error is a structured pagination failure.
type Error struct {
	// Code identifies the failure category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Path is the partition path involved, if any.
	Path []string

	// Field is the pagination field involved, if any.
	Field string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Path) > 0 {
		return fmt.Sprintf("%s: %s (path=%v, field=%s)", e.Code, e.Message, e.Path, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsInvalidArgument returns true for failures the caller caused with bad
// arguments (page size below 1) or a misbehaving estimator (negative
// cardinality). Uses errors.As to handle wrapped errors.
func IsInvalidArgument(err error) bool {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Code == ErrCodeInvalidPageSize || pe.Code == ErrCodeNegativeCardinality
	}
	return false
}

// IsUnsupportedPlan returns true if the error is the unsupported-plan-shape
// failure. Uses errors.As to handle wrapped errors.
func IsUnsupportedPlan(err error) bool {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Code == ErrCodeUnsupportedPlan
	}
	return false
}

// IsInvariantViolation returns true if the error is a fatal internal
// invariant violation. Uses errors.As to handle wrapped errors.
func IsInvariantViolation(err error) bool {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Code == ErrCodeInvariantViolation
	}
	return false
}
