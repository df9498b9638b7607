// Package cmd wires the pipecheck command-line interface.
package cmd

import (
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lrseq/pipecheck/pkg/runner"
)

var rootCmd = &cobra.Command{
	Use:   "pipecheck [config.tsv]",
	Short: "CI runner for pipeline regression configs",
	Long: `pipecheck runs a pipeline regression config: it invokes the pipeline
tool and the quality-assessment tool, then compares the produced quality
metrics against the configured etalon file within a 1% tolerance.
Progress is reported as TeamCity service messages on stdout.`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRun,
}

func init() {
	addRunFlags(rootCmd)
	rootCmd.AddCommand(runCmd)
}

// Execute runs the root command and maps any failure to the process
// exit code. Usage errors keep their dedicated codes and are already on
// the structured log; everything else is reported here before it
// collapses to the generic failure code.
func Execute() int {
	err := rootCmd.Execute()
	if err == nil {
		return runner.ExitOK
	}
	var usage *runner.UsageError
	if !errors.As(err, &usage) {
		logrus.WithError(err).Error("pipeline run failed")
	}
	return runner.ExitCode(err)
}
