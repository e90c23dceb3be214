package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"logrelay/internal/boundaries/out"
	"logrelay/internal/domain"
)

// Ensure Metrics implements out.RelayMetrics.
var _ out.RelayMetrics = (*Metrics)(nil)

// Metrics holds logrelay OTel metrics instruments.
type Metrics struct {
	// Per line
	LinesForwarded  metric.Int64Counter
	LinesFailed     metric.Int64Counter
	ForwardAttempts metric.Int64Histogram

	// Per relay
	RelayDuration metric.Float64Histogram
	SourceErrors  metric.Int64Counter
}

// NewMetrics creates and registers all logrelay metric instruments on the
// global meter provider. All fields are always initialized (OTel returns
// noop instruments when no MeterProvider is set).
func NewMetrics() (*Metrics, error) {
	return NewMetricsFrom(otel.GetMeterProvider())
}

// NewMetricsFrom creates the instruments on the given meter provider.
func NewMetricsFrom(provider metric.MeterProvider) (*Metrics, error) {
	meter := provider.Meter("logrelay")
	m := &Metrics{}
	var err error

	if m.LinesForwarded, err = meter.Int64Counter("logrelay.lines.forwarded",
		metric.WithDescription("Total lines accepted by the log backend")); err != nil {
		return nil, err
	}
	if m.LinesFailed, err = meter.Int64Counter("logrelay.lines.failed",
		metric.WithDescription("Total lines dropped after retries")); err != nil {
		return nil, err
	}
	if m.ForwardAttempts, err = meter.Int64Histogram("logrelay.forward.attempts",
		metric.WithDescription("Backend calls spent per line"),
		metric.WithExplicitBucketBoundaries(1, 2, 3, 5, 10)); err != nil {
		return nil, err
	}
	if m.RelayDuration, err = meter.Float64Histogram("logrelay.relay.duration_seconds",
		metric.WithDescription("Relay duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(1, 5, 10, 30, 60, 300, 1800, 3600)); err != nil {
		return nil, err
	}
	if m.SourceErrors, err = meter.Int64Counter("logrelay.source.errors",
		metric.WithDescription("Relays whose output source ended with an error")); err != nil {
		return nil, err
	}

	return m, nil
}

func destAttrs(dest domain.LogDestination, extra ...attribute.KeyValue) metric.MeasurementOption {
	attrs := append([]attribute.KeyValue{
		attribute.String("log_group", dest.Group),
		attribute.String("log_stream", dest.Stream),
	}, extra...)
	return metric.WithAttributes(attrs...)
}

// LineForwarded implements out.RelayMetrics.
func (m *Metrics) LineForwarded(ctx context.Context, dest domain.LogDestination, attempts int) {
	opt := destAttrs(dest)
	m.LinesForwarded.Add(ctx, 1, opt)
	m.ForwardAttempts.Record(ctx, int64(attempts), opt)
}

// LineFailed implements out.RelayMetrics.
func (m *Metrics) LineFailed(ctx context.Context, dest domain.LogDestination, kind domain.ForwardFailure, attempts int) {
	m.LinesFailed.Add(ctx, 1, destAttrs(dest, attribute.String("reason", string(kind))))
	m.ForwardAttempts.Record(ctx, int64(attempts), destAttrs(dest))
}

// RelayFinished implements out.RelayMetrics.
func (m *Metrics) RelayFinished(ctx context.Context, dest domain.LogDestination, summary domain.RelaySummary, elapsed time.Duration) {
	m.RelayDuration.Record(ctx, elapsed.Seconds(), destAttrs(dest, attribute.Bool("cancelled", summary.Cancelled)))
	if summary.SourceErr != nil {
		m.SourceErrors.Add(ctx, 1, destAttrs(dest))
	}
}
