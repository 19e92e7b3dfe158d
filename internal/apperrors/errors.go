// Package apperrors defines the error taxonomy shared by the intake
// pipeline, status manager and vote registry. Adapter failures are mapped
// into these types at the service boundary; raw gorm/redis/http errors
// never reach the handlers.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyVoted is returned on a duplicate (complaint, user) vote.
	// Benign and expected; never mutates the count.
	ErrAlreadyVoted = errors.New("already voted")
	// ErrUnauthorized covers unauthenticated callers and role failures.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidTransition is returned for backward, repeated or
	// unrecognized status changes.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrExtractionUnavailable signals that the AI endpoint could not be
	// reached; callers fall back to manual fields.
	ErrExtractionUnavailable = errors.New("extraction service unavailable")
	// ErrNotFound is returned when the referenced complaint does not exist.
	ErrNotFound = errors.New("complaint not found")
)

// ValidationError rejects a request before any side effect.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s %s", e.Field, e.Message)
}

// IngestionKind classifies terminal intake failures.
type IngestionKind string

const (
	// UploadFailed: evidence upload failed, no record written, retry-safe.
	UploadFailed IngestionKind = "upload_failed"
	// ContentRejected: vision flagged the image as not a civic issue.
	// Terminal for this submission; the citizen must provide new input.
	ContentRejected IngestionKind = "content_rejected"
	// PersistenceFailed: the complaint row could not be written.
	PersistenceFailed IngestionKind = "persistence_failed"
)

// IngestionError is the single failure type surfaced by the intake
// pipeline. Reason carries correction detail for upload/content failures;
// persistence failures are reported generically.
type IngestionError struct {
	Kind   IngestionKind
	Reason string
	Err    error
}

func (e *IngestionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
	}
	return string(e.Kind)
}

func (e *IngestionError) Unwrap() error { return e.Err }

// Ingestion builds an IngestionError wrapping the underlying cause.
func Ingestion(kind IngestionKind, reason string, err error) *IngestionError {
	return &IngestionError{Kind: kind, Reason: reason, Err: err}
}
