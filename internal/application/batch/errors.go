package batch

import (
	"errors"
	"strings"
)

var (
	ErrValidation           = errors.New("validation failed")
	ErrInvalidJSON          = errors.New("body is not valid JSON")
	ErrBatchNotFound        = errors.New("batch not found")
	ErrBatchForbidden       = errors.New("batch belongs to another user")
	ErrArtifactNotAvailable = errors.New("artifact not available")
	ErrConflict             = errors.New("batch status does not allow reprocessing")

	ErrStorage = errors.New("object storage operation failed")
	ErrIndex   = errors.New("index write failed")
	ErrQueue   = errors.New("queue send failed")
	ErrPublish = errors.New("event publish failed")
)

// ValidationError carries the per-field specifics surfaced in the response
// details; errors.Is(err, ErrValidation) still matches.
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	if len(e.Details) == 0 {
		return ErrValidation.Error()
	}
	return ErrValidation.Error() + ": " + strings.Join(e.Details, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func newValidationError(details ...string) error {
	return &ValidationError{Details: details}
}
