package runner

import (
	"context"
	"io"
)

// MockResult scripts the outcome of one MockExecutor call.
type MockResult struct {
	ExitCode int
	Err      error
	// OnRun, when set, runs before the call returns. Tests use it to
	// fabricate the output files a real tool would have written.
	OnRun func(argv []string) error
}

// MockExecutor records commands instead of running them. Results are
// consumed per call in order; calls past the scripted results succeed.
type MockExecutor struct {
	Commands [][]string
	Results  []MockResult
	// Output is written to the tool output writer on every call.
	Output string
}

// Run implements CommandExecutor.
func (m *MockExecutor) Run(ctx context.Context, w io.Writer, name string, args ...string) (int, error) {
	argv := append([]string{name}, args...)
	m.Commands = append(m.Commands, argv)
	if m.Output != "" {
		io.WriteString(w, m.Output)
	}
	if i := len(m.Commands) - 1; i < len(m.Results) {
		r := m.Results[i]
		if r.OnRun != nil {
			if err := r.OnRun(argv); err != nil {
				return -1, err
			}
		}
		return r.ExitCode, r.Err
	}
	return 0, nil
}
