package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every failure that leaves the pipeline wraps exactly one.
var (
	ErrResolution   = errors.New("location resolution failed")
	ErrNetwork      = errors.New("search request failed")
	ErrConfig       = errors.New("invalid configuration")
	ErrPersistence  = errors.New("state store failed")
	ErrNotification = errors.New("notification delivery failed")
)

// StageError records which pipeline stage failed, the kind of failure and
// the underlying cause. errors.Is matches both Kind and Err.
type StageError struct {
	Stage string
	Kind  error
	Err   error
}

func (e *StageError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Stage, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Stage, e.Kind, e.Err)
}

func (e *StageError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Fail builds a StageError.
func Fail(stage string, kind, err error) error {
	return &StageError{Stage: stage, Kind: kind, Err: err}
}

// Failf is Fail with a formatted cause.
func Failf(stage string, kind error, format string, args ...any) error {
	return &StageError{Stage: stage, Kind: kind, Err: fmt.Errorf(format, args...)}
}
