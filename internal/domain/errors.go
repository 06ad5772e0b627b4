package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrValidation signals rejected caller input.
	ErrValidation = errors.New("validation failed")
	// ErrSearchExecution signals a failed search backend call.
	ErrSearchExecution = errors.New("search execution failed")
	// ErrStatistics signals a failed statistics aggregation.
	ErrStatistics = errors.New("statistics aggregation failed")
	// ErrUserLookup signals a failed directory lookup for a single user.
	ErrUserLookup = errors.New("user lookup failed")
	// ErrNoCredentials signals that no directory credentials are configured.
	ErrNoCredentials = errors.New("no directory credentials configured")
)

// ValidationError names the offending input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a field-level validation error.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// SearchExecutionError carries the backend failure behind a search.
type SearchExecutionError struct {
	Cause error
}

func (e *SearchExecutionError) Error() string {
	return fmt.Sprintf("%s: %v", ErrSearchExecution.Error(), e.Cause)
}

// Is matches ErrSearchExecution; Unwrap exposes the cause.
func (e *SearchExecutionError) Is(target error) bool { return target == ErrSearchExecution }

func (e *SearchExecutionError) Unwrap() error { return e.Cause }

// StatisticsError carries the failing sub-aggregation.
type StatisticsError struct {
	Aggregation string
	Cause       error
}

func (e *StatisticsError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrStatistics.Error(), e.Aggregation, e.Cause)
}

// Is matches ErrStatistics; Unwrap exposes the cause.
func (e *StatisticsError) Is(target error) bool { return target == ErrStatistics }

func (e *StatisticsError) Unwrap() error { return e.Cause }

// UserLookupError is a per-identifier directory failure. It is always
// absorbed into a fallback identity and never reaches an HTTP client.
type UserLookupError struct {
	UserID string
	Cause  error
}

func (e *UserLookupError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrUserLookup.Error(), e.UserID, e.Cause)
}

// Is matches ErrUserLookup; Unwrap exposes the cause.
func (e *UserLookupError) Is(target error) bool { return target == ErrUserLookup }

func (e *UserLookupError) Unwrap() error { return e.Cause }
