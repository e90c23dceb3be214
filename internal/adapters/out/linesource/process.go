package linesource

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// NewProcess starts cmd and reads lines from its standard output until the
// process exits. Whitespace-only lines are skipped. A non-zero exit status
// ends the sequence with a source error.
func NewProcess(cmd *exec.Cmd) (*Source, error) {
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", cmd.Path, err)
	}

	return newSource(stdout, sourceOptions{
		skipBlank: true,
		release: func() error {
			if err := cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
				return err
			}
			return nil
		},
		finish: func() error {
			if err := cmd.Wait(); err != nil {
				return fmt.Errorf("%s exited: %w", cmd.Path, err)
			}
			return nil
		},
	}), nil
}
