// Package in defines input ports (interfaces) for driving adapters.
package in

import (
	"context"

	"logrelay/internal/domain"
)

// RelayService defines the contract for one relay run: provision the
// destination, start the workload, forward its output and tear it down.
type RelayService interface {
	// Preflight checks that the container runtime is reachable and
	// returns its version.
	Preflight(ctx context.Context) (string, error)

	// Run executes a whole relay run. Per-line forwarding failures are
	// reported in the summary, never as an error. A cancelled run returns
	// the partial summary together with the context error.
	Run(ctx context.Context, req domain.RunRequest) (domain.RelaySummary, error)
}
