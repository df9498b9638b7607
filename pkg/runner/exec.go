package runner

import (
	"context"
	"io"
	"os/exec"
)

// CommandExecutor runs external collaborator tools. The indirection
// keeps the driver testable without invoking real pipelines.
type CommandExecutor interface {
	// Run starts the command, streams its combined output to w and waits
	// for it to finish. It returns the process exit code along with any
	// start or nonzero-exit error.
	Run(ctx context.Context, w io.Writer, name string, args ...string) (int, error)
}

// RealExecutor is the production CommandExecutor backed by os/exec.
type RealExecutor struct{}

// Run implements CommandExecutor.
func (RealExecutor) Run(ctx context.Context, w io.Writer, name string, args ...string) (int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = w
	cmd.Stderr = w
	if err := cmd.Run(); err != nil {
		code := -1
		if cmd.ProcessState != nil {
			code = cmd.ProcessState.ExitCode()
		}
		return code, err
	}
	return 0, nil
}
