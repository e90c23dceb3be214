// Package pipeline implements one relay run end to end: provision the
// destination, start the workload, relay its output and tear it down.
package pipeline

import (
	"context"
	"time"

	"github.com/bnema/zerowrap"

	"logrelay/internal/domain"
	"logrelay/internal/usecase/provision"
	"logrelay/internal/usecase/relay"
	"logrelay/internal/usecase/workload"
)

// Service implements the RelayService interface.
type Service struct {
	provisioner *provision.Service
	workloads   *workload.Manager
	relay       *relay.Service
}

// NewService creates a new pipeline service.
func NewService(provisioner *provision.Service, workloads *workload.Manager, relay *relay.Service) *Service {
	return &Service{
		provisioner: provisioner,
		workloads:   workloads,
		relay:       relay,
	}
}

// Preflight checks that the container runtime is reachable.
func (s *Service) Preflight(ctx context.Context) (string, error) {
	return s.workloads.RuntimeVersion(ctx)
}

// Run executes one relay run. Provisioning and start failures are returned
// as is. Once the workload is started it is always torn down, whatever
// happens to the relay.
func (s *Service) Run(ctx context.Context, req domain.RunRequest) (domain.RelaySummary, error) {
	ctx = zerowrap.CtxWithFields(ctx, map[string]any{
		zerowrap.FieldLayer:   "usecase",
		zerowrap.FieldUseCase: "RunRelay",
		"image":               req.Workload.Image,
		"log_group":           req.Destination.Group,
		"log_stream":          req.Destination.Stream,
	})
	log := zerowrap.FromCtx(ctx)
	started := time.Now()

	var summary domain.RelaySummary

	if _, err := s.provisioner.Ensure(ctx, req.Destination); err != nil {
		return summary, err
	}

	w, err := s.workloads.Run(ctx, req.Workload)
	if err != nil {
		return summary, err
	}
	// No-op once the explicit teardown below ran.
	defer s.teardown(ctx, w)

	src, err := s.workloads.Output(ctx, w)
	if err != nil {
		log.Warn().Err(err).Msg("could not open workload output")
		summary.SourceErr = err
		summary.Cancelled = ctx.Err() != nil
	} else {
		summary = s.relay.Relay(ctx, src, req.Destination)
		if err := src.Close(); err != nil {
			log.Debug().Err(err).Msg("output source closed with an error")
		}
	}

	s.teardown(ctx, w)

	log.Info().
		Int("lines", summary.Lines).
		Int("forwarded", summary.Forwarded).
		Int("failed", summary.Failed).
		Bool("cancelled", summary.Cancelled).
		Dur(zerowrap.FieldDuration, time.Since(started)).
		Msg("run finished")

	if summary.Cancelled {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		return summary, context.Canceled
	}
	return summary, nil
}

func (s *Service) teardown(ctx context.Context, w *domain.Workload) {
	if err := s.workloads.Teardown(ctx, w); err != nil {
		zerowrap.FromCtx(ctx).Warn().Err(err).Msg("failed to tear down workload")
	}
}
