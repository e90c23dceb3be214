package out

import (
	"context"
	"time"

	"logrelay/internal/domain"
)

// RelayMetrics records forwarding outcomes.
type RelayMetrics interface {
	// LineForwarded records a record accepted by the backend.
	LineForwarded(ctx context.Context, dest domain.LogDestination, attempts int)

	// LineFailed records a record dropped after its attempts were spent.
	LineFailed(ctx context.Context, dest domain.LogDestination, kind domain.ForwardFailure, attempts int)

	// RelayFinished records the outcome of a whole relay.
	RelayFinished(ctx context.Context, dest domain.LogDestination, summary domain.RelaySummary, elapsed time.Duration)
}
