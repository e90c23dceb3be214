package domain

import (
	"strings"
	"sync/atomic"
)

// WorkloadSpec is what the operator asked to run.
type WorkloadSpec struct {
	Image   string
	Command string
}

// Validate checks that an image and a command are present.
func (s WorkloadSpec) Validate() error {
	if strings.TrimSpace(s.Image) == "" {
		return ErrInvalidImageFormat
	}
	if strings.TrimSpace(s.Command) == "" {
		return ErrEmptyCommand
	}
	return nil
}

// WorkloadConfig holds configuration for creating a container.
type WorkloadConfig struct {
	Name   string
	Image  string
	Cmd    []string
	Labels map[string]string
}

// Workload is a container started on behalf of a run.
type Workload struct {
	ID      string
	Name    string
	Image   string
	Command []string

	released atomic.Bool
}

// Release marks the workload as torn down. It returns true only for the
// first caller.
func (w *Workload) Release() bool {
	return w.released.CompareAndSwap(false, true)
}

// Released reports whether teardown already ran.
func (w *Workload) Released() bool {
	return w.released.Load()
}

// ShortID returns the first 12 characters of the container ID.
func (w *Workload) ShortID() string {
	if len(w.ID) > 12 {
		return w.ID[:12]
	}
	return w.ID
}
