package engine

import (
	"errors"
	"fmt"
)

// Kind classifies job-level failures.
type Kind string

const (
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindSpawn      Kind = "spawn"
	KindRuntime    Kind = "runtime"
	KindCancelled  Kind = "cancelled"
	KindIO         Kind = "io"
	KindPartial    Kind = "partial"
)

// ErrCancelled marks a user-initiated cancellation; matched via errors.Is.
var ErrCancelled = errors.New("CANCELLED")

// JobError is a typed job failure surfaced to the caller. The cancelled kind
// always carries the distinguished CANCELLED reason and is never conflated
// with a runtime failure.
type JobError struct {
	Kind    Kind
	Message string
	Err     error
}

// Error formats the failure reason for logs and UI.
func (e *JobError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the underlying error for errors.Is / errors.As.
func (e *JobError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches cancelled job errors against ErrCancelled.
func (e *JobError) Is(target error) bool {
	return target == ErrCancelled && e != nil && e.Kind == KindCancelled
}

// cancelledError builds the distinguished cancellation result.
func cancelledError() *JobError {
	return &JobError{Kind: KindCancelled, Message: "CANCELLED"}
}
