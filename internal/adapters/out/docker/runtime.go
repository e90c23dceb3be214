// Package docker implements the container runtime adapter using Docker API.
package docker

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/bnema/zerowrap"
	cerrdefs "github.com/containerd/errdefs"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"

	"logrelay/internal/adapters/out/linesource"
	"logrelay/internal/boundaries/out"
	"logrelay/internal/domain"
)

// DefaultStopTimeout is how long a container gets to exit before it is killed.
const DefaultStopTimeout = 10 * time.Second

// Runtime implements the ContainerRuntime interface using Docker API.
type Runtime struct {
	client      *client.Client
	stopTimeout time.Duration
}

// NewRuntime creates a new Docker runtime instance from the environment
// (DOCKER_HOST, DOCKER_CERT_PATH and friends).
func NewRuntime(stopTimeout time.Duration) (*Runtime, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create Docker client: %w", err)
	}

	return NewRuntimeWithClient(cli, stopTimeout), nil
}

// NewRuntimeWithClient creates a new Docker runtime instance with a custom client (for testing).
func NewRuntimeWithClient(cli *client.Client, stopTimeout time.Duration) *Runtime {
	if stopTimeout <= 0 {
		stopTimeout = DefaultStopTimeout
	}
	return &Runtime{
		client:      cli,
		stopTimeout: stopTimeout,
	}
}

func (r *Runtime) logCtx(ctx context.Context, action string, fields map[string]any) (context.Context, zerowrap.Logger) {
	all := map[string]any{
		zerowrap.FieldLayer:   "adapter",
		zerowrap.FieldAdapter: "docker",
		zerowrap.FieldAction:  action,
	}
	for k, v := range fields {
		all[k] = v
	}
	ctx = zerowrap.CtxWithFields(ctx, all)
	return ctx, zerowrap.FromCtx(ctx)
}

// ImageExists reports whether imageRef is present locally.
func (r *Runtime) ImageExists(ctx context.Context, imageRef string) (bool, error) {
	ctx, log := r.logCtx(ctx, "ImageExists", map[string]any{"image": imageRef})

	images, err := r.client.ImageList(ctx, image.ListOptions{
		Filters: filters.NewArgs(filters.Arg("reference", imageRef)),
	})
	if err != nil {
		return false, log.WrapErr(err, "failed to list images")
	}

	log.Debug().Int(zerowrap.FieldCount, len(images)).Msg("image lookup done")
	return len(images) > 0, nil
}

// PullImage pulls an image.
func (r *Runtime) PullImage(ctx context.Context, imageRef string) error {
	ctx, log := r.logCtx(ctx, "PullImage", map[string]any{"image": imageRef})

	log.Info().Msg("pulling image")

	reader, err := r.client.ImagePull(ctx, imageRef, image.PullOptions{})
	if err != nil {
		return log.WrapErr(err, "failed to pull image")
	}
	defer reader.Close()

	// The pull only completes once the progress stream is drained.
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return log.WrapErr(err, "failed to read pull response")
	}

	log.Info().Msg("image pulled successfully")
	return nil
}

// CreateContainer creates a new container.
func (r *Runtime) CreateContainer(ctx context.Context, config *domain.WorkloadConfig) (*domain.Workload, error) {
	ctx, log := r.logCtx(ctx, "CreateContainer", map[string]any{
		"container_name": config.Name,
		"image":          config.Image,
	})

	resp, err := r.client.ContainerCreate(ctx, containerConfig(config), &container.HostConfig{}, nil, nil, config.Name)
	if err != nil {
		return nil, log.WrapErr(err, "failed to create container")
	}
	for _, w := range resp.Warnings {
		log.Warn().Str("warning", w).Msg("docker warning on create")
	}

	log.Info().Str(zerowrap.FieldEntityID, resp.ID).Msg("container created")

	return &domain.Workload{
		ID:      resp.ID,
		Name:    config.Name,
		Image:   config.Image,
		Command: config.Cmd,
	}, nil
}

func containerConfig(config *domain.WorkloadConfig) *container.Config {
	return &container.Config{
		Image:        config.Image,
		Cmd:          config.Cmd,
		Labels:       config.Labels,
		AttachStdout: true,
		AttachStderr: true,
		Tty:          false,
	}
}

// StartContainer starts a container.
func (r *Runtime) StartContainer(ctx context.Context, containerID string) error {
	ctx, log := r.logCtx(ctx, "StartContainer", map[string]any{zerowrap.FieldEntityID: containerID})

	if err := r.client.ContainerStart(ctx, containerID, container.StartOptions{}); err != nil {
		return log.WrapErr(err, "failed to start container")
	}

	log.Info().Msg("container started")
	return nil
}

// StopContainer stops a container. A container that no longer exists is
// treated as stopped.
func (r *Runtime) StopContainer(ctx context.Context, containerID string) error {
	ctx, log := r.logCtx(ctx, "StopContainer", map[string]any{zerowrap.FieldEntityID: containerID})

	timeout := int(r.stopTimeout.Seconds())
	err := r.client.ContainerStop(ctx, containerID, container.StopOptions{Timeout: &timeout})
	if cerrdefs.IsNotFound(err) {
		log.Debug().Msg("container already gone")
		return nil
	}
	if err != nil {
		return log.WrapErr(err, "failed to stop container")
	}

	log.Info().Msg("container stopped")
	return nil
}

// RemoveContainer removes a container. A container that no longer exists is
// treated as removed.
func (r *Runtime) RemoveContainer(ctx context.Context, containerID string, force bool) error {
	ctx, log := r.logCtx(ctx, "RemoveContainer", map[string]any{
		zerowrap.FieldEntityID: containerID,
		"force":                force,
	})

	err := r.client.ContainerRemove(ctx, containerID, container.RemoveOptions{Force: force})
	if cerrdefs.IsNotFound(err) {
		log.Debug().Msg("container already gone")
		return nil
	}
	if err != nil {
		return log.WrapErr(err, "failed to remove container")
	}

	log.Info().Msg("container removed")
	return nil
}

// OpenOutput attaches to the container's stdout. Output written before the
// attach is replayed, so nothing is lost between start and attach.
func (r *Runtime) OpenOutput(ctx context.Context, containerID string) (out.LineSource, error) {
	ctx, log := r.logCtx(ctx, "OpenOutput", map[string]any{zerowrap.FieldEntityID: containerID})

	resp, err := r.client.ContainerAttach(ctx, containerID, container.AttachOptions{
		Stream: true,
		Stdout: true,
		Logs:   true,
	})
	if err != nil {
		return nil, log.WrapErr(err, "failed to attach to container")
	}

	log.Debug().Msg("attached to container output")
	return linesource.NewStream(demultiplex(resp)), nil
}

// Ping checks if Docker is responsive.
func (r *Runtime) Ping(ctx context.Context) error {
	ctx, log := r.logCtx(ctx, "Ping", nil)

	if _, err := r.client.Ping(ctx); err != nil {
		return log.WrapErr(err, "Docker ping failed")
	}
	return nil
}

// Version returns Docker version.
func (r *Runtime) Version(ctx context.Context) (string, error) {
	ctx, log := r.logCtx(ctx, "Version", nil)

	version, err := r.client.ServerVersion(ctx)
	if err != nil {
		return "", log.WrapErr(err, "failed to get Docker version")
	}
	return version.Version, nil
}
