package out

import (
	"context"

	"logrelay/internal/domain"
)

// LogBackend defines the contract for the remote log-aggregation service.
type LogBackend interface {
	// CreateLogGroup creates the group or reports that it already exists.
	CreateLogGroup(ctx context.Context, group string) (domain.ProvisionOutcome, error)

	// CreateLogStream creates the stream under group or reports that it
	// already exists.
	CreateLogStream(ctx context.Context, group, stream string) (domain.ProvisionOutcome, error)

	// PutLogEvents appends records, in order, to dest. Failures are
	// returned as *domain.ForwardError.
	PutLogEvents(ctx context.Context, dest domain.LogDestination, records []domain.LogRecord) error
}
