// Package linesource turns workload output into an ordered sequence of lines.
//
// A worker goroutine performs the blocking reads and hands lines over a
// channel of capacity one, so Next can honour cancellation while a read is
// still pending.
package linesource

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"logrelay/internal/domain"
)

const readBufferSize = 64 * 1024

// Source implements out.LineSource on top of an io.Reader.
type Source struct {
	lines chan domain.OutputLine
	quit  chan struct{}
	done  chan struct{}

	release   func() error
	closeOnce sync.Once
	closeErr  error

	mu  sync.Mutex
	cur domain.OutputLine
	err error
}

type sourceOptions struct {
	skipBlank bool
	release   func() error
	// finish runs once the reader is drained, before the sequence ends.
	finish func() error
}

func newSource(r io.Reader, opts sourceOptions) *Source {
	s := &Source{
		lines:   make(chan domain.OutputLine, 1),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
		release: opts.release,
	}
	go s.run(r, opts)
	return s
}

func (s *Source) run(r io.Reader, opts sourceOptions) {
	defer close(s.done)
	defer close(s.lines)

	br := bufio.NewReaderSize(r, readBufferSize)
	var seq int64

loop:
	for {
		// ReadString returns a trailing undelimited chunk together with io.EOF.
		chunk, err := br.ReadString('\n')
		if chunk != "" {
			text := decode(chunk)
			if !opts.skipBlank || strings.TrimSpace(text) != "" {
				seq++
				select {
				case s.lines <- domain.OutputLine{Seq: seq, Text: text}:
				case <-s.quit:
					break loop
				}
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.fail(err)
			}
			break
		}
	}

	if opts.finish != nil {
		if err := opts.finish(); err != nil {
			s.fail(err)
		}
	}
}

// fail records err unless the source is being closed, in which case read
// errors are the expected result of releasing the stream.
func (s *Source) fail(err error) {
	select {
	case <-s.quit:
		return
	default:
	}
	s.mu.Lock()
	if s.err == nil {
		s.err = &domain.SourceError{Err: err}
	}
	s.mu.Unlock()
}

// Next advances to the next line.
func (s *Source) Next(ctx context.Context) bool {
	if ctx.Err() != nil {
		return false
	}
	select {
	case <-s.quit:
		return false
	default:
	}
	select {
	case <-ctx.Done():
		return false
	case <-s.quit:
		return false
	case line, ok := <-s.lines:
		if !ok {
			return false
		}
		s.mu.Lock()
		s.cur = line
		s.mu.Unlock()
		return true
	}
}

// Line returns the current line.
func (s *Source) Line() domain.OutputLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur
}

// Err returns the *domain.SourceError that ended the sequence, if any.
func (s *Source) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close stops the worker and releases the underlying stream. It is safe to
// call more than once.
func (s *Source) Close() error {
	s.closeOnce.Do(func() {
		close(s.quit)
		if s.release != nil {
			s.closeErr = s.release()
		}
		<-s.done
	})
	return s.closeErr
}

// decode strips the line terminator and replaces invalid UTF-8 sequences
// with U+FFFD.
func decode(chunk string) string {
	chunk = strings.TrimSuffix(chunk, "\n")
	chunk = strings.TrimSuffix(chunk, "\r")
	return strings.ToValidUTF8(chunk, "\uFFFD")
}
