package core

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by every layer. The store and the aggregation
// code return these; the transport layer translates them to HTTP status
// codes and never sees raw driver errors.
var (
	// ErrNotFound means the entity does not exist or is not owned by the caller.
	ErrNotFound = errors.New("not found")

	// ErrConflict means a concurrent mutation invalidated an assumption.
	ErrConflict = errors.New("conflict")

	// ErrStoreUnavailable is a transient infrastructure failure. Safe to
	// retry with backoff at the transport layer.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// ValidationError reports bad input shape or range. Caller's fault,
// never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
