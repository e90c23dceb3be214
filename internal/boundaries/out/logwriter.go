package out

import (
	"context"

	"logrelay/internal/domain"
)

// LineSink receives every record before it is sent to the backend, so the
// operator keeps seeing output while the backend is unavailable.
type LineSink interface {
	Echo(ctx context.Context, record domain.LogRecord) error

	// Close flushes and releases the sink.
	Close() error
}
