// Package dockercli implements the container runtime adapter by driving the
// docker command line client. Workload output is read from a
// "docker logs --follow" subprocess.
package dockercli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"maps"
	"os/exec"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/bnema/zerowrap"

	"logrelay/internal/adapters/out/linesource"
	"logrelay/internal/boundaries/out"
	"logrelay/internal/domain"
)

// DefaultBinary is the client looked up on PATH when none is configured.
const DefaultBinary = "docker"

// CommandError is returned when the docker client exits unsuccessfully.
type CommandError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("docker %s failed: %v", e.Args[0], e.Err)
	}
	return fmt.Sprintf("docker %s failed: %v: %s", e.Args[0], e.Err, e.Stderr)
}

func (e *CommandError) Unwrap() error { return e.Err }

func isNoSuchObject(err error) bool {
	var cmdErr *CommandError
	return errors.As(err, &cmdErr) && strings.Contains(strings.ToLower(cmdErr.Stderr), "no such")
}

// Runtime implements the ContainerRuntime interface on top of the docker CLI.
type Runtime struct {
	binary      string
	stopTimeout time.Duration
}

// NewRuntime creates a CLI runtime. An empty binary means "docker" on PATH.
func NewRuntime(binary string, stopTimeout time.Duration) *Runtime {
	if binary == "" {
		binary = DefaultBinary
	}
	if stopTimeout <= 0 {
		stopTimeout = 10 * time.Second
	}
	return &Runtime{binary: binary, stopTimeout: stopTimeout}
}

func (r *Runtime) logCtx(ctx context.Context, action string, fields map[string]any) (context.Context, zerowrap.Logger) {
	all := map[string]any{
		zerowrap.FieldLayer:   "adapter",
		zerowrap.FieldAdapter: "dockercli",
		zerowrap.FieldAction:  action,
	}
	maps.Copy(all, fields)
	ctx = zerowrap.CtxWithFields(ctx, all)
	return ctx, zerowrap.FromCtx(ctx)
}

func (r *Runtime) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, r.binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", &CommandError{Args: args, Stderr: strings.TrimSpace(stderr.String()), Err: err}
	}
	return strings.TrimSpace(stdout.String()), nil
}

// ImageExists reports whether imageRef is present locally.
func (r *Runtime) ImageExists(ctx context.Context, imageRef string) (bool, error) {
	ctx, log := r.logCtx(ctx, "ImageExists", map[string]any{"image": imageRef})

	_, err := r.run(ctx, "image", "inspect", "--format", "{{.Id}}", imageRef)
	if isNoSuchObject(err) {
		return false, nil
	}
	if err != nil {
		return false, log.WrapErr(err, "failed to inspect image")
	}
	return true, nil
}

// PullImage pulls an image.
func (r *Runtime) PullImage(ctx context.Context, imageRef string) error {
	ctx, log := r.logCtx(ctx, "PullImage", map[string]any{"image": imageRef})

	log.Info().Msg("pulling image")
	if _, err := r.run(ctx, "pull", "--quiet", imageRef); err != nil {
		return log.WrapErr(err, "failed to pull image")
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

	id, err := r.run(ctx, createArgs(config)...)
	if err != nil {
		return nil, log.WrapErr(err, "failed to create container")
	}
	if id == "" {
		return nil, log.WrapErr(domain.ErrContainerNotFound, "docker create returned no container ID")
	}

	log.Info().Str(zerowrap.FieldEntityID, id).Msg("container created")

	return &domain.Workload{
		ID:      id,
		Name:    config.Name,
		Image:   config.Image,
		Command: config.Cmd,
	}, nil
}

func createArgs(config *domain.WorkloadConfig) []string {
	args := []string{"create"}
	if config.Name != "" {
		args = append(args, "--name", config.Name)
	}
	for _, k := range slices.Sorted(maps.Keys(config.Labels)) {
		args = append(args, "--label", k+"="+config.Labels[k])
	}
	args = append(args, config.Image)
	return append(args, config.Cmd...)
}

// StartContainer starts a container.
func (r *Runtime) StartContainer(ctx context.Context, containerID string) error {
	ctx, log := r.logCtx(ctx, "StartContainer", map[string]any{zerowrap.FieldEntityID: containerID})

	if _, err := r.run(ctx, "start", containerID); err != nil {
		return log.WrapErr(err, "failed to start container")
	}

	log.Info().Msg("container started")
	return nil
}

// StopContainer stops a container. A container that no longer exists is
// treated as stopped.
func (r *Runtime) StopContainer(ctx context.Context, containerID string) error {
	ctx, log := r.logCtx(ctx, "StopContainer", map[string]any{zerowrap.FieldEntityID: containerID})

	timeout := strconv.Itoa(int(r.stopTimeout.Seconds()))
	_, err := r.run(ctx, "stop", "--time", timeout, containerID)
	if isNoSuchObject(err) {
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

	args := []string{"rm"}
	if force {
		args = append(args, "--force")
	}
	_, err := r.run(ctx, append(args, containerID)...)
	if isNoSuchObject(err) {
		log.Debug().Msg("container already gone")
		return nil
	}
	if err != nil {
		return log.WrapErr(err, "failed to remove container")
	}

	log.Info().Msg("container removed")
	return nil
}

// OpenOutput follows the container's stdout through a "docker logs"
// subprocess. The subprocess is not bound to ctx; closing the source
// kills it.
func (r *Runtime) OpenOutput(ctx context.Context, containerID string) (out.LineSource, error) {
	_, log := r.logCtx(ctx, "OpenOutput", map[string]any{zerowrap.FieldEntityID: containerID})

	cmd := exec.Command(r.binary, "logs", "--follow", containerID)
	src, err := linesource.NewProcess(cmd)
	if err != nil {
		return nil, log.WrapErr(err, "failed to follow container output")
	}

	log.Debug().Int("pid", cmd.Process.Pid).Msg("following container output")
	return src, nil
}

// Ping checks that the docker client can reach a daemon.
func (r *Runtime) Ping(ctx context.Context) error {
	_, err := r.Version(ctx)
	return err
}

// Version returns the daemon version reported by the client.
func (r *Runtime) Version(ctx context.Context) (string, error) {
	ctx, log := r.logCtx(ctx, "Version", nil)

	version, err := r.run(ctx, "version", "--format", "{{.Server.Version}}")
	if err != nil {
		return "", log.WrapErr(err, "failed to get Docker version")
	}
	return version, nil
}
