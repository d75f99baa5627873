package errors

import (
	"errors"
	"fmt"
)

// Error kinds shared by the registry, the resolver and the HTTP layer.
// Callers match them with errors.Is.

// ErrValidation is returned when caller input is malformed. Prefer ValidationError
// to tell the caller which field was rejected.
var ErrValidation = errors.New("validation failed")

// ErrSlugConflict is returned when a requested custom alias is already taken
var ErrSlugConflict = errors.New("slug already in use")

// ErrSlugSpaceExhausted is returned when every generated code collided
var ErrSlugSpaceExhausted = errors.New("failed to generate unique slug")

// ErrForbidden is returned when a principal touches a link it does not own
var ErrForbidden = errors.New("link belongs to another owner")

// ErrNotFound is returned when a link id or slug does not resolve to a link
var ErrNotFound = errors.New("link not found")

// ErrUnauthorized is returned when a request carries no usable identity
var ErrUnauthorized = errors.New("missing or invalid credentials")

// ValidationError describes a rejected input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Is makes every ValidationError match ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// PersistenceError wraps a failure of the underlying store.
// The operation may be retried by the caller.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Retryable is always true for store failures.
func (e *PersistenceError) Retryable() bool {
	return true
}

// IsRetryable reports whether err carries a retryable PersistenceError.
func IsRetryable(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe) && pe.Retryable()
}

// ErrClickRecordingFailed is returned when a click event could not be stored
type ErrClickRecordingFailed struct {
	LinkID string
	Reason string
}

func (e ErrClickRecordingFailed) Error() string {
	return fmt.Sprintf("failed to record click for link %s: %s", e.LinkID, e.Reason)
}

// ErrURLCheckFailed is returned when a destination health check fails
type ErrURLCheckFailed struct {
	URL    string
	Reason string
}

func (e ErrURLCheckFailed) Error() string {
	return fmt.Sprintf("failed to check URL %s: %s", e.URL, e.Reason)
}

// ErrConfigLoad is returned when configuration loading fails
type ErrConfigLoad struct {
	Path   string
	Reason string
}

func (e ErrConfigLoad) Error() string {
	return fmt.Sprintf("failed to load config from %s: %s", e.Path, e.Reason)
}
