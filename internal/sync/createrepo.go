package sync

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
)

// Createrepo regenerates RPM repository metadata by shelling out to
// createrepo_c (or whatever command is configured).
type Createrepo struct {
	Command string
}

// Update runs an incremental metadata rebuild against dir. The tool is
// opaque: success demands a zero exit AND a silent error stream. Tools that
// exit 0 while printing diagnostics are treated as failed, trusting the
// error stream over the exit code.
func (c Createrepo) Update(ctx context.Context, dir string) error {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.Command, "--update", dir)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return &ToolError{Command: c.Command, ExitCode: -1, Stderr: err.Error()}
		}
		exitCode = exitErr.ExitCode()
	}
	if exitCode != 0 || stderr.Len() > 0 {
		return &ToolError{Command: c.Command, ExitCode: exitCode, Stderr: stderr.String()}
	}
	return nil
}
