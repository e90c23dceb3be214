// Package logwriter provides the local echo of relayed records: every
// message goes to the console and, optionally, to a rotating file.
package logwriter

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bnema/zerowrap"
	"gopkg.in/natefinch/lumberjack.v2"

	"logrelay/internal/domain"
)

// Config holds the configuration for the log writer.
type Config struct {
	// Console receives each message verbatim. Defaults to os.Stdout.
	Console io.Writer
	// File is the path of the rotating echo file. Empty disables it.
	File string
	// MaxSize is the maximum size in megabytes before rotation.
	MaxSize int
	// MaxBackups is the number of old log files to retain.
	MaxBackups int
	// MaxAge is the maximum number of days to retain old log files.
	MaxAge int
}

// LogWriter implements the LineSink interface.
type LogWriter struct {
	console io.Writer
	file    *lumberjack.Logger
	mu      sync.Mutex
}

// New creates a new LogWriter.
func New(config Config) (*LogWriter, error) {
	w := &LogWriter{console: config.Console}
	if w.console == nil {
		w.console = os.Stdout
	}

	if config.File != "" {
		if err := os.MkdirAll(filepath.Dir(config.File), 0700); err != nil {
			return nil, err
		}
		w.file = &lumberjack.Logger{
			Filename:   config.File,
			MaxSize:    config.MaxSize,
			MaxBackups: config.MaxBackups,
			MaxAge:     config.MaxAge,
			Compress:   true,
		}
	}

	return w, nil
}

// Echo writes the record's message to the console, and to the echo file
// prefixed with its timestamp.
func (w *LogWriter) Echo(ctx context.Context, record domain.LogRecord) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var errs []error
	if _, err := io.WriteString(w.console, record.Message+"\n"); err != nil {
		errs = append(errs, err)
	}
	if w.file != nil {
		line := record.Time().UTC().Format(time.RFC3339Nano) + " " + record.Message + "\n"
		if _, err := io.WriteString(w.file, line); err != nil {
			errs = append(errs, err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		ctx = zerowrap.CtxWithFields(ctx, map[string]any{
			zerowrap.FieldLayer:   "adapter",
			zerowrap.FieldAdapter: "logwriter",
			zerowrap.FieldAction:  "Echo",
		})
		return zerowrap.FromCtx(ctx).WrapErr(err, "failed to echo record")
	}
	return nil
}

// Close releases the echo file.
func (w *LogWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return nil
	}
	return w.file.Close()
}
