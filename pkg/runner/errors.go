package runner

import (
	"errors"
	"fmt"
)

// Process exit codes. CI configurations depend on these values: usage
// errors get dedicated codes, every other failure collapses to the
// generic one and the log trail carries the detail.
const (
	ExitOK            = 0
	ExitFailure       = -1
	ExitNoConfig      = -2
	ExitConfigMissing = -3
)

// UsageError is a command-line usage problem: no config argument, or a
// config path that does not exist.
type UsageError struct {
	Message string
	Code    int
}

func (e *UsageError) Error() string { return e.Message }

// ConfigError wraps an unusable run configuration, etalon or report
// file.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string { return "invalid configuration: " + e.Err.Error() }
func (e *ConfigError) Unwrap() error { return e.Err }

// ToolError reports a collaborator tool that could not be started or
// exited nonzero.
type ToolError struct {
	Tool     string
	ExitCode int
	Err      error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("%s failed (exit code %d): %v", e.Tool, e.ExitCode, e.Err)
}

func (e *ToolError) Unwrap() error { return e.Err }

// ToleranceError reports a quality metric that is missing from the
// report or outside the etalon tolerance window.
type ToleranceError struct {
	Metric       string
	Want         float64
	Got          float64
	Lower, Upper float64
	Missing      bool
}

func (e *ToleranceError) Error() string {
	if e.Missing {
		return fmt.Sprintf("metric %q missing from quality report (etalon value %g)", e.Metric, e.Want)
	}
	return fmt.Sprintf("metric %q = %g outside etalon window [%g, %g]", e.Metric, e.Got, e.Lower, e.Upper)
}

// ExitCode maps a run failure to the process exit code. Usage errors
// carry their own codes; nil means success; anything else is the
// generic failure.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var usage *UsageError
	if errors.As(err, &usage) {
		return usage.Code
	}
	return ExitFailure
}
