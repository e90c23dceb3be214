package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business-level errors that can occur in the system.
// These errors are used across layers to communicate specific failure conditions.
var (
	// Container errors
	ErrContainerNotFound = errors.New("container not found")
	ErrEmptyCommand      = errors.New("workload command is empty")

	// Image errors
	ErrImageNotFound      = errors.New("image not found")
	ErrImagePullFailed    = errors.New("failed to pull image")
	ErrInvalidImageFormat = errors.New("invalid image format")

	// Destination errors
	ErrInvalidDestination = errors.New("invalid log destination")

	// Config errors
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ProvisionError reports that a log group or stream could not be confirmed
// to exist. It is fatal to a run.
type ProvisionError struct {
	Resource string // "log group" or "log stream"
	Name     string
	Err      error
}

func (e *ProvisionError) Error() string {
	return fmt.Sprintf("failed to provision %s %q: %v", e.Resource, e.Name, e.Err)
}

func (e *ProvisionError) Unwrap() error { return e.Err }

// WorkloadStartError reports that the workload could not be started. It is
// fatal to a run.
type WorkloadStartError struct {
	Image string
	Err   error
}

func (e *WorkloadStartError) Error() string {
	return fmt.Sprintf("failed to start workload from image %q: %v", e.Image, e.Err)
}

func (e *WorkloadStartError) Unwrap() error { return e.Err }

// SourceError reports that reading workload output failed. The line
// sequence ends early but the run carries on to teardown.
type SourceError struct {
	Err error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("output source failed: %v", e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// ForwardFailure classifies why a backend append call failed.
type ForwardFailure string

const (
	ForwardThrottled    ForwardFailure = "throttled"
	ForwardUnauthorized ForwardFailure = "unauthorized"
	ForwardNotFound     ForwardFailure = "not_found"
	ForwardRejected     ForwardFailure = "rejected"
	ForwardOther        ForwardFailure = "other"
)

// ForwardError reports a failed append of one batch of records.
type ForwardError struct {
	Kind ForwardFailure
	Err  error
}

func (e *ForwardError) Error() string {
	return fmt.Sprintf("forward failed (%s): %v", e.Kind, e.Err)
}

func (e *ForwardError) Unwrap() error { return e.Err }

// Retryable reports whether another immediate attempt may succeed.
func (e *ForwardError) Retryable() bool {
	return e.Kind == ForwardThrottled || e.Kind == ForwardOther
}

// TeardownError reports that stopping or removing the workload failed.
// It is logged, never propagated over a successful relay.
type TeardownError struct {
	WorkloadID string
	Stop       error
	Remove     error
}

func (e *TeardownError) Error() string {
	switch {
	case e.Stop != nil && e.Remove != nil:
		return fmt.Sprintf("teardown of %s failed: stop: %v; remove: %v", e.WorkloadID, e.Stop, e.Remove)
	case e.Remove != nil:
		return fmt.Sprintf("teardown of %s failed: remove: %v", e.WorkloadID, e.Remove)
	default:
		return fmt.Sprintf("teardown of %s failed: stop: %v", e.WorkloadID, e.Stop)
	}
}

func (e *TeardownError) Unwrap() []error {
	var errs []error
	if e.Stop != nil {
		errs = append(errs, e.Stop)
	}
	if e.Remove != nil {
		errs = append(errs, e.Remove)
	}
	return errs
}

// AsForwardError returns err as a *ForwardError, classifying unknown
// errors as ForwardOther.
func AsForwardError(err error) *ForwardError {
	var fe *ForwardError
	if errors.As(err, &fe) {
		return fe
	}
	return &ForwardError{Kind: ForwardOther, Err: err}
}
