package testutils

import (
	"context"
	"sync"

	"logrelay/internal/domain"
)

// SliceSource is an in-memory out.LineSource.
type SliceSource struct {
	lines []string
	// FailAfter ends the sequence with FailErr once that many lines were served.
	// Negative disables it.
	FailAfter int
	FailErr   error

	mu     sync.Mutex
	pos    int
	cur    domain.OutputLine
	err    error
	closed int
}

// NewSliceSource returns a source yielding lines in order.
func NewSliceSource(lines ...string) *SliceSource {
	return &SliceSource{lines: lines, FailAfter: -1}
}

// NewFailingSource yields lines and then ends with a source error.
func NewFailingSource(err error, lines ...string) *SliceSource {
	return &SliceSource{lines: lines, FailAfter: len(lines), FailErr: err}
}

func (s *SliceSource) Next(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ctx.Err() != nil || s.err != nil {
		return false
	}
	if s.FailAfter >= 0 && s.pos >= s.FailAfter {
		s.err = &domain.SourceError{Err: s.FailErr}
		return false
	}
	if s.pos >= len(s.lines) {
		return false
	}
	s.cur = domain.OutputLine{Seq: int64(s.pos + 1), Text: s.lines[s.pos]}
	s.pos++
	return true
}

func (s *SliceSource) Line() domain.OutputLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur
}

func (s *SliceSource) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *SliceSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed++
	return nil
}

// Closed returns how many times Close was called.
func (s *SliceSource) Closed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
