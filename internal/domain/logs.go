// Package domain contains pure business types without external dependencies.
// These types are used throughout the application and have no tags or framework dependencies.
package domain

import (
	"fmt"
	"strings"
	"time"
)

// LogDestination identifies where records are appended: a log group and
// a log stream inside it.
type LogDestination struct {
	Group  string
	Stream string
}

// Validate reports whether both names are set.
func (d LogDestination) Validate() error {
	if strings.TrimSpace(d.Group) == "" {
		return fmt.Errorf("%w: log group name is empty", ErrInvalidDestination)
	}
	if strings.TrimSpace(d.Stream) == "" {
		return fmt.Errorf("%w: log stream name is empty", ErrInvalidDestination)
	}
	return nil
}

func (d LogDestination) String() string {
	return d.Group + "/" + d.Stream
}

// OutputLine is a single decoded line of workload output.
type OutputLine struct {
	// Seq is the 1-based position of the line in the workload output.
	Seq  int64
	Text string
}

// LogRecord is an output line stamped with its capture time.
type LogRecord struct {
	// Timestamp is expressed in milliseconds since the Unix epoch.
	Timestamp int64
	Message   string
}

// NewLogRecord stamps message with t.
func NewLogRecord(t time.Time, message string) LogRecord {
	return LogRecord{
		Timestamp: t.UnixMilli(),
		Message:   message,
	}
}

// Time returns the record timestamp as a time.Time.
func (r LogRecord) Time() time.Time {
	return time.UnixMilli(r.Timestamp)
}

// ProvisionOutcome is the result of an idempotent create call.
type ProvisionOutcome string

const (
	ProvisionCreated       ProvisionOutcome = "created"
	ProvisionAlreadyExists ProvisionOutcome = "already_exists"
)

// ProvisionResult holds the outcome for both halves of a destination.
type ProvisionResult struct {
	Group  ProvisionOutcome
	Stream ProvisionOutcome
}

// RelaySummary is returned when the relay loop ends.
type RelaySummary struct {
	Lines     int
	Forwarded int
	Failed    int
	// LastError is the last forward failure, nil when every record went through.
	LastError error
	// SourceErr is set when the output source ended on an I/O error.
	SourceErr error
	Cancelled bool
}

// RunRequest describes a whole run: what to start and where its output goes.
type RunRequest struct {
	Workload    WorkloadSpec
	Destination LogDestination
}
