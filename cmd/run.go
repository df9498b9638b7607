package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lrseq/pipecheck/pkg/config"
	"github.com/lrseq/pipecheck/pkg/runner"
	"github.com/lrseq/pipecheck/pkg/teamcity"
)

var runCmd = &cobra.Command{
	Use:   "run <config.tsv>",
	Short: "Run a pipeline config and check its quality metrics",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRun,
}

var (
	settingsPath string
	sourceDir    string
	forceTC      bool
	verbose      bool
)

// Test seams: production always talks to the real world.
var (
	eventOutput  io.Writer              = os.Stdout
	toolExecutor runner.CommandExecutor = runner.RealExecutor{}
	stdoutIsTTY                         = func() bool { return isatty.IsTerminal(os.Stdout.Fd()) }
)

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&settingsPath, "settings", "", "runner settings file (default: pipecheck.yml next to the config)")
	cmd.Flags().StringVar(&sourceDir, "source-dir", "", "directory the default tool locations are resolved against (default: working directory)")
	cmd.Flags().BoolVar(&forceTC, "teamcity", false, "force TeamCity service-message output even on a terminal")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug diagnostics on stderr")
}

func init() {
	addRunFlags(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	log := newEventLogger()

	if len(args) < 1 {
		log.Error("Provide configuration file", "")
		return &runner.UsageError{Message: "no configuration file given", Code: runner.ExitNoConfig}
	}
	configPath := args[0]
	if _, err := os.Stat(configPath); err != nil {
		log.Error("Provide correct path to configuration file", "")
		return &runner.UsageError{
			Message: fmt.Sprintf("configuration file not found: %s", configPath),
			Code:    runner.ExitConfigMissing,
		}
	}

	log.Message("Loading config from " + configPath)
	cfg, err := config.ParseRunConfig(configPath)
	if err != nil {
		log.Error("Invalid configuration", err.Error())
		return &runner.ConfigError{Err: err}
	}

	settings, err := loadSettings(configPath)
	if err != nil {
		log.Error("Invalid runner settings", err.Error())
		return &runner.ConfigError{Err: err}
	}

	diag := logrus.New()
	diag.SetOutput(os.Stderr)
	if verbose {
		diag.SetLevel(logrus.DebugLevel)
	}

	r := runner.New(cfg, settings, log, toolExecutor, diag)
	if err := r.Run(cmd.Context()); err != nil {
		// The transcript is the CI-visible diagnostic trail; replay it
		// on stderr so a failed run is debuggable from either stream.
		log.WriteTranscript(os.Stderr)
		return err
	}
	return nil
}

// newEventLogger picks the output format: service messages for CI (any
// non-terminal stdout, or forced via --teamcity), plain colored lines
// for interactive use.
func newEventLogger() *teamcity.Logger {
	if !forceTC && stdoutIsTTY() {
		return teamcity.NewLogger(eventOutput, teamcity.PlainOutput())
	}
	return teamcity.NewLogger(eventOutput)
}

// loadSettings resolves the runner settings for a run config: the
// --settings flag wins, then a pipecheck.yml next to the config, then
// built-in defaults.
func loadSettings(configPath string) (*config.Settings, error) {
	path := settingsPath
	if path == "" {
		candidate := filepath.Join(filepath.Dir(configPath), config.SettingsFileName)
		if _, err := os.Stat(candidate); err == nil {
			path = candidate
		}
	}

	settings := &config.Settings{}
	if path != "" {
		loaded, err := config.LoadSettings(path)
		if err != nil {
			return nil, err
		}
		settings = loaded
	}

	dir := sourceDir
	if dir == "" {
		dir, _ = os.Getwd()
	}
	settings.ApplyDefaults(dir)
	return settings, nil
}
