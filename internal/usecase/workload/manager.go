// Package workload implements the workload lifecycle use case: start a
// container for a command, hand its output to the relay and tear it down.
package workload

import (
	"context"
	"fmt"
	"time"

	"github.com/bnema/zerowrap"
	"github.com/google/uuid"

	"logrelay/internal/boundaries/out"
	"logrelay/internal/domain"
)

// PullPolicy decides when the image is pulled before the container is created.
type PullPolicy string

const (
	PullMissing PullPolicy = "missing"
	PullAlways  PullPolicy = "always"
	PullNever   PullPolicy = "never"
)

// ParsePullPolicy parses a policy name. An empty name means PullMissing.
func ParsePullPolicy(name string) (PullPolicy, error) {
	switch p := PullPolicy(name); p {
	case "":
		return PullMissing, nil
	case PullMissing, PullAlways, PullNever:
		return p, nil
	default:
		return "", fmt.Errorf("%w: unknown pull policy %q", domain.ErrInvalidConfig, name)
	}
}

// Config holds configuration needed by the workload manager.
type Config struct {
	Shell           string
	PullPolicy      PullPolicy
	TeardownTimeout time.Duration
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Shell:           "/bin/sh",
		PullPolicy:      PullMissing,
		TeardownTimeout: 30 * time.Second,
	}
}

// Manager starts and tears down workloads.
type Manager struct {
	runtime out.ContainerRuntime
	config  Config
	newName func() string
	now     func() time.Time
}

// NewManager creates a new workload manager.
func NewManager(runtime out.ContainerRuntime, config Config) *Manager {
	defaults := DefaultConfig()
	if config.Shell == "" {
		config.Shell = defaults.Shell
	}
	if config.PullPolicy == "" {
		config.PullPolicy = defaults.PullPolicy
	}
	if config.TeardownTimeout <= 0 {
		config.TeardownTimeout = defaults.TeardownTimeout
	}

	return &Manager{
		runtime: runtime,
		config:  config,
		newName: func() string { return "logrelay-" + uuid.NewString()[:8] },
		now:     time.Now,
	}
}

// Run ensures the image is available, then creates and starts a container
// executing spec.Command through the configured shell. A container that was
// created but failed to start is removed again.
func (m *Manager) Run(ctx context.Context, spec domain.WorkloadSpec) (*domain.Workload, error) {
	ctx = zerowrap.CtxWithFields(ctx, map[string]any{
		zerowrap.FieldLayer:   "usecase",
		zerowrap.FieldUseCase: "RunWorkload",
		"image":               spec.Image,
	})
	log := zerowrap.FromCtx(ctx)

	if err := spec.Validate(); err != nil {
		return nil, &domain.WorkloadStartError{Image: spec.Image, Err: err}
	}

	if err := m.ensureImage(ctx, spec.Image); err != nil {
		return nil, &domain.WorkloadStartError{Image: spec.Image, Err: err}
	}

	w, err := m.runtime.CreateContainer(ctx, &domain.WorkloadConfig{
		Name:  m.newName(),
		Image: spec.Image,
		Cmd:   []string{m.config.Shell, "-c", spec.Command},
		Labels: map[string]string{
			domain.LabelManaged: "true",
			domain.LabelImage:   spec.Image,
			domain.LabelCommand: spec.Command,
			domain.LabelCreated: m.now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return nil, &domain.WorkloadStartError{Image: spec.Image, Err: err}
	}

	if err := m.runtime.StartContainer(ctx, w.ID); err != nil {
		if tdErr := m.Teardown(ctx, w); tdErr != nil {
			log.Warn().Err(tdErr).Msg("failed to clean up container that did not start")
		}
		return nil, &domain.WorkloadStartError{Image: spec.Image, Err: err}
	}

	log.Info().
		Str(zerowrap.FieldEntityID, w.ShortID()).
		Str("container_name", w.Name).
		Msg("workload started")
	return w, nil
}

func (m *Manager) ensureImage(ctx context.Context, image string) error {
	log := zerowrap.FromCtx(ctx)

	if m.config.PullPolicy == PullAlways {
		return m.pull(ctx, image)
	}

	exists, err := m.runtime.ImageExists(ctx, image)
	if err != nil {
		return err
	}
	if exists {
		log.Debug().Msg("image present locally")
		return nil
	}
	if m.config.PullPolicy == PullNever {
		return fmt.Errorf("%w: %s (pull policy %q)", domain.ErrImageNotFound, image, PullNever)
	}
	return m.pull(ctx, image)
}

func (m *Manager) pull(ctx context.Context, image string) error {
	if err := m.runtime.PullImage(ctx, image); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrImagePullFailed, err)
	}
	return nil
}

// Output opens the workload's standard output as a line source.
func (m *Manager) Output(ctx context.Context, w *domain.Workload) (out.LineSource, error) {
	src, err := m.runtime.OpenOutput(ctx, w.ID)
	if err != nil {
		return nil, &domain.SourceError{Err: err}
	}
	return src, nil
}

// Teardown stops and force-removes the workload. Only the first call for a
// workload acts; later calls return nil. Teardown runs even when ctx is
// already cancelled, bounded by the configured timeout.
func (m *Manager) Teardown(ctx context.Context, w *domain.Workload) error {
	if w == nil || !w.Release() {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.config.TeardownTimeout)
	defer cancel()

	ctx = zerowrap.CtxWithFields(ctx, map[string]any{
		zerowrap.FieldLayer:    "usecase",
		zerowrap.FieldUseCase:  "TeardownWorkload",
		zerowrap.FieldEntityID: w.ShortID(),
	})
	log := zerowrap.FromCtx(ctx)

	stopErr := m.runtime.StopContainer(ctx, w.ID)
	removeErr := m.runtime.RemoveContainer(ctx, w.ID, true)
	if stopErr != nil || removeErr != nil {
		return &domain.TeardownError{WorkloadID: w.ID, Stop: stopErr, Remove: removeErr}
	}

	log.Info().Msg("workload stopped and removed")
	return nil
}

// RuntimeVersion checks that the runtime answers and returns its version.
func (m *Manager) RuntimeVersion(ctx context.Context) (string, error) {
	if err := m.runtime.Ping(ctx); err != nil {
		return "", err
	}
	return m.runtime.Version(ctx)
}
