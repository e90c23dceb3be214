package out

import (
	"context"

	"logrelay/internal/domain"
)

// LineSource is a pull iterator over workload output lines.
//
//	for src.Next(ctx) {
//		line := src.Line()
//	}
//	if err := src.Err(); err != nil { ... }
type LineSource interface {
	// Next advances to the next line. It returns false once the source is
	// exhausted or ctx is done.
	Next(ctx context.Context) bool

	// Line returns the line produced by the last successful Next.
	Line() domain.OutputLine

	// Err returns the *domain.SourceError that ended the sequence, if any.
	// Cancellation and a clean end of stream both yield nil.
	Err() error

	// Close releases the underlying stream or process.
	Close() error
}
