// Package out defines output ports (interfaces) for infrastructure.
// These interfaces define the contract between use cases and driven adapters
// (Docker, CloudWatch, local sinks).
package out

import (
	"context"

	"logrelay/internal/domain"
)

// ContainerRuntime defines the contract for container runtime operations.
// This interface abstracts the underlying runtime access (Docker API or docker CLI).
type ContainerRuntime interface {
	// Image operations
	ImageExists(ctx context.Context, imageRef string) (bool, error)
	PullImage(ctx context.Context, imageRef string) error

	// Container lifecycle
	CreateContainer(ctx context.Context, config *domain.WorkloadConfig) (*domain.Workload, error)
	StartContainer(ctx context.Context, containerID string) error
	StopContainer(ctx context.Context, containerID string) error
	RemoveContainer(ctx context.Context, containerID string, force bool) error

	// OpenOutput returns the container's standard output as a line source.
	// The source ends when the container exits.
	OpenOutput(ctx context.Context, containerID string) (LineSource, error)

	// Runtime information
	Ping(ctx context.Context) error
	Version(ctx context.Context) (string, error)
}
