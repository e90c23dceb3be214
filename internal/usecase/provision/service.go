// Package provision implements the log destination provisioning use case.
package provision

import (
	"context"

	"github.com/bnema/zerowrap"

	"logrelay/internal/boundaries/out"
	"logrelay/internal/domain"
)

// Service ensures a log group and stream exist before any record is sent.
type Service struct {
	backend out.LogBackend
}

// NewService creates a new provisioning service.
func NewService(backend out.LogBackend) *Service {
	return &Service{backend: backend}
}

// Ensure creates the group and the stream of dest. Resources that already
// exist are not an error, so Ensure is safe to call on every run.
func (s *Service) Ensure(ctx context.Context, dest domain.LogDestination) (domain.ProvisionResult, error) {
	ctx = zerowrap.CtxWithFields(ctx, map[string]any{
		zerowrap.FieldLayer:   "usecase",
		zerowrap.FieldUseCase: "EnsureDestination",
		"log_group":           dest.Group,
		"log_stream":          dest.Stream,
	})
	log := zerowrap.FromCtx(ctx)

	var result domain.ProvisionResult

	if err := dest.Validate(); err != nil {
		return result, &domain.ProvisionError{Resource: "log destination", Name: dest.String(), Err: err}
	}

	outcome, err := s.backend.CreateLogGroup(ctx, dest.Group)
	if err != nil {
		return result, &domain.ProvisionError{Resource: "log group", Name: dest.Group, Err: err}
	}
	result.Group = outcome
	logOutcome(log, "log group", outcome)

	outcome, err = s.backend.CreateLogStream(ctx, dest.Group, dest.Stream)
	if err != nil {
		return result, &domain.ProvisionError{Resource: "log stream", Name: dest.Stream, Err: err}
	}
	result.Stream = outcome
	logOutcome(log, "log stream", outcome)

	return result, nil
}

func logOutcome(log zerowrap.Logger, resource string, outcome domain.ProvisionOutcome) {
	if outcome == domain.ProvisionAlreadyExists {
		log.Info().Str("resource", resource).Msg("already exists")
		return
	}
	log.Info().Str("resource", resource).Msg("created")
}
