// Package relay implements the log relay use case: it drains workload output
// and forwards every line to the log backend, one record per call, in order.
package relay

import (
	"context"
	"errors"
	"time"

	"github.com/bnema/zerowrap"
	"github.com/cenkalti/backoff/v4"

	"logrelay/internal/boundaries/out"
	"logrelay/internal/domain"
)

// Config holds the forwarding policy.
type Config struct {
	// MaxAttempts bounds the backend calls spent on a single record.
	MaxAttempts int
	// RetryDelay is the pause between two attempts for the same record.
	RetryDelay time.Duration
}

// DefaultConfig returns the policy used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 3,
		RetryDelay:  200 * time.Millisecond,
	}
}

// Service forwards output lines to a log destination.
type Service struct {
	backend out.LogBackend
	sink    out.LineSink
	config  Config
	limiter out.RateLimiter
	metrics out.RelayMetrics
	now     func() time.Time
}

// NewService creates a new relay service. A nil limiter disables pacing.
func NewService(backend out.LogBackend, sink out.LineSink, limiter out.RateLimiter, config Config) *Service {
	if config.MaxAttempts < 1 {
		config.MaxAttempts = 1
	}
	if config.RetryDelay < 0 {
		config.RetryDelay = 0
	}

	return &Service{
		backend: backend,
		sink:    sink,
		config:  config,
		limiter: limiter,
		now:     time.Now,
	}
}

// SetMetrics sets the recorder for forwarding outcomes. Nil disables
// recording.
func (s *Service) SetMetrics(m out.RelayMetrics) {
	s.metrics = m
}

// Relay drains source and forwards each line to dest. A failed record is
// counted and skipped; the loop only ends when the source is exhausted or
// ctx is cancelled.
func (s *Service) Relay(ctx context.Context, source out.LineSource, dest domain.LogDestination) domain.RelaySummary {
	ctx = zerowrap.CtxWithFields(ctx, map[string]any{
		zerowrap.FieldLayer:   "usecase",
		zerowrap.FieldUseCase: "Relay",
		"log_group":           dest.Group,
		"log_stream":          dest.Stream,
	})
	log := zerowrap.FromCtx(ctx)

	var (
		summary domain.RelaySummary
		last    int64
		started = time.Now()
	)

	for source.Next(ctx) {
		line := source.Line()
		summary.Lines++

		record := domain.NewLogRecord(s.now(), line.Text)
		// CloudWatch expects non-decreasing timestamps within a stream.
		if record.Timestamp < last {
			record.Timestamp = last
		}
		last = record.Timestamp

		if err := s.sink.Echo(ctx, record); err != nil {
			log.Warn().Err(err).Int64("seq", line.Seq).Msg("failed to echo line locally")
		}

		attempts, err := s.forward(ctx, dest, record)
		if err != nil {
			summary.Failed++
			summary.LastError = err
			if s.metrics != nil {
				s.metrics.LineFailed(ctx, dest, domain.AsForwardError(err).Kind, attempts)
			}
			log.Warn().
				Err(err).
				Int64("seq", line.Seq).
				Int("attempts", attempts).
				Msg("failed to forward line, skipping")
			continue
		}
		summary.Forwarded++
		if s.metrics != nil {
			s.metrics.LineForwarded(ctx, dest, attempts)
		}
	}

	if err := source.Err(); err != nil {
		summary.SourceErr = err
		log.Warn().Err(err).Msg("output source ended with an error")
	}
	if ctx.Err() != nil {
		summary.Cancelled = true
		log.Info().Msg("relay cancelled")
	}

	log.Info().
		Int("lines", summary.Lines).
		Int("forwarded", summary.Forwarded).
		Int("failed", summary.Failed).
		Msg("relay finished")

	if s.metrics != nil {
		s.metrics.RelayFinished(ctx, dest, summary, time.Since(started))
	}

	return summary
}

// forward submits record with a bounded number of immediate attempts. It
// returns the number of attempts made.
func (s *Service) forward(ctx context.Context, dest domain.LogDestination, record domain.LogRecord) (int, error) {
	log := zerowrap.FromCtx(ctx)
	records := []domain.LogRecord{record}
	key := dest.String()
	attempts := 0

	op := func() error {
		if s.limiter != nil {
			if err := s.limiter.Wait(ctx, key); err != nil {
				return backoff.Permanent(err)
			}
		}
		attempts++

		err := s.backend.PutLogEvents(ctx, dest, records)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}

		ferr := domain.AsForwardError(err)
		if !ferr.Retryable() {
			return backoff.Permanent(ferr)
		}
		log.Debug().Err(ferr).Int("attempt", attempts).Msg("forward attempt failed")
		return ferr
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(s.config.RetryDelay), uint64(s.config.MaxAttempts-1)),
		ctx,
	)

	err := backoff.Retry(op, policy)
	if err == nil {
		return attempts, nil
	}

	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		err = perm.Err
	}
	return attempts, domain.AsForwardError(err)
}
