package linesource

import "io"

// NewStream reads lines from an attached output stream. Partial chunks are
// buffered until a line break; a trailing undelimited chunk is emitted as
// the last line. Blank lines are kept.
func NewStream(rc io.ReadCloser) *Source {
	return newSource(rc, sourceOptions{release: rc.Close})
}
