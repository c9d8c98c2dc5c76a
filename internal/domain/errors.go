package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")
	ErrConflict      = errors.New("conflict")

	// ErrVotingNotOpen is returned when a ballot arrives outside the
	// election's ACTIVE status + VOTING phase + time window.
	ErrVotingNotOpen = errors.New("voting is not open")

	// ErrInvalidCredential is returned when a presented secret code does not
	// match the stored hash, or the code is expired or missing.
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrRateLimited is returned once the failure threshold for a
	// (voter, election) pair is exceeded inside the sliding window,
	// regardless of whether the presented code is correct.
	ErrRateLimited = errors.New("too many failed attempts")

	// ErrNotEligible is returned when the voter's access record does not
	// cover the requested position.
	ErrNotEligible = errors.New("voter is not eligible for this position")

	// ErrAlreadyVoted is returned when the voter has already consumed their
	// one vote for the position, including when a concurrent duplicate insert
	// is rejected by the storage-level uniqueness constraint.
	ErrAlreadyVoted = errors.New("already voted for this position")

	// ErrAccessRevoked is returned when a voter's access record exists but
	// has been revoked.
	ErrAccessRevoked = errors.New("voter access has been revoked")

	// ErrInvalidPosition is returned when a position does not belong to the
	// election, or is otherwise unusable for the operation.
	ErrInvalidPosition = errors.New("invalid position")

	// ErrInvalidCandidate is returned when a candidate does not belong to
	// the position or is not approved.
	ErrInvalidCandidate = errors.New("invalid candidate")

	// ErrIntegrityViolation is returned when tabulation detects duplicate
	// vote rows or votes referencing foreign candidates.
	ErrIntegrityViolation = errors.New("ballot integrity violation")
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
		return fmt.Sprintf("validation: %s — %s", e.Errors[0].Field, e.Errors[0].Message)
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

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}
