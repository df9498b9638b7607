// Package runner drives one CI pipeline run: it invokes the pipeline
// tool and the quality-assessment tool as subprocesses, then compares
// the produced quality metrics against the configured etalon file.
package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/lrseq/pipecheck/pkg/config"
	"github.com/lrseq/pipecheck/pkg/teamcity"
)

// reportFileName is the fixed name of the quality report written into
// the output folder.
const reportFileName = "report.tsv"

// Runner executes the phases of a single pipeline run. All phases are
// fatal on failure; the first typed error is returned and nothing is
// retried.
type Runner struct {
	Config   *config.RunConfig
	Settings *config.Settings
	Log      *teamcity.Logger
	Exec     CommandExecutor

	// ToolOutput receives the collaborator tools' combined output.
	// Defaults to os.Stdout.
	ToolOutput io.Writer

	diag *logrus.Entry
}

// New creates a Runner. diag receives diagnostic (non-CI) log entries;
// nil means a default stderr logger. Every entry is tagged with a fresh
// run ID so interleaved CI agent logs stay attributable.
func New(cfg *config.RunConfig, settings *config.Settings, log *teamcity.Logger, execr CommandExecutor, diag *logrus.Logger) *Runner {
	if diag == nil {
		diag = logrus.New()
		diag.SetOutput(os.Stderr)
	}
	return &Runner{
		Config:     cfg,
		Settings:   settings,
		Log:        log,
		Exec:       execr,
		ToolOutput: os.Stdout,
		diag: diag.WithFields(logrus.Fields{
			"run_id": uuid.NewString(),
			"label":  cfg.Label,
		}),
	}
}

// Run executes the pipeline, the quality assessment and, when an etalon
// file is configured, the metric comparison. It returns the first
// failure as a typed error.
func (r *Runner) Run(ctx context.Context) error {
	bam, assignments, err := r.runPipeline(ctx)
	if err != nil {
		return err
	}
	report, err := r.runQuality(ctx, bam, assignments)
	if err != nil {
		return err
	}
	if r.Config.Etalon == "" {
		return nil
	}
	return r.checkMetrics(report)
}

// runPipeline invokes the pipeline tool and returns the mapping (BAM)
// path and the read-assignments path for the quality step.
func (r *Runner) runPipeline(ctx context.Context) (bam, assignments string, err error) {
	block := r.Log.StartBlock("isoquant", "Running IsoQuant")
	defer block.End()

	argv := append([]string{}, r.Settings.Pipeline...)
	argv = append(argv,
		"-o", r.Config.OutputFolder,
		"--genedb", r.Config.GeneDB,
		"-d", r.Config.DataType,
		"-t", strconv.Itoa(r.Settings.Threads),
		"-l", r.Config.Label,
	)
	if r.Config.BAM != "" {
		bam = r.Config.BAM
		argv = append(argv, "--bam", bam)
	} else {
		argv = append(argv, "--fastq", r.Config.Reads, "--r", r.Config.Genome)
		// The tool is trusted to write the BAM at its conventional
		// location; nothing verifies the file exists afterwards.
		bam = filepath.Join(r.Config.OutputFolder, r.Config.Label, r.Config.Label+".bam")
	}
	if r.Config.Options != "" {
		argv = append(argv, splitOptions(r.Config.Options)...)
	}

	r.Log.Message("IsoQuant command line: " + strings.Join(argv, " "))
	if err := r.runTool(ctx, "isoquant", argv); err != nil {
		return "", "", err
	}

	assignments = filepath.Join(r.Config.OutputFolder, r.Config.Label,
		r.Config.Label+".read_assignments.tsv")
	return bam, assignments, nil
}

// runQuality invokes the quality-assessment tool and returns the report
// path it wrote.
func (r *Runner) runQuality(ctx context.Context, bam, assignments string) (string, error) {
	block := r.Log.StartBlock("quality", "Running quality assessment")
	defer block.End()

	report := filepath.Join(r.Config.OutputFolder, reportFileName)
	argv := append([]string{}, r.Settings.Quality...)
	argv = append(argv,
		"-o", report,
		"--gene_db", r.Config.GeneDB,
		"--tsv", assignments,
		"--mapping", bam,
		"--fasta", r.Config.Reads,
	)

	r.Log.Message("QA command line: " + strings.Join(argv, " "))
	if err := r.runTool(ctx, "quality", argv); err != nil {
		return "", err
	}
	return report, nil
}

// checkMetrics loads the etalon and the quality report and verifies
// every etalon metric is within tolerance.
func (r *Runner) checkMetrics(report string) error {
	block := r.Log.StartBlock("assessment", "Checking quality metrics")
	defer block.End()

	etalon, err := config.LoadTSV(r.Config.Etalon)
	if err != nil {
		return &ConfigError{Err: fmt.Errorf("loading etalon: %w", err)}
	}
	measured, err := config.LoadTSV(report)
	if err != nil {
		return &ConfigError{Err: fmt.Errorf("loading quality report: %w", err)}
	}

	if err := CompareMetrics(etalon, measured, r.Log); err != nil {
		r.Log.Error("Quality metrics do not match the etalon", err.Error())
		return err
	}
	return nil
}

// runTool runs one collaborator tool and converts a failure into a
// ToolError carrying the child exit code.
func (r *Runner) runTool(ctx context.Context, tool string, argv []string) error {
	out := r.ToolOutput
	if out == nil {
		out = os.Stdout
	}

	start := time.Now()
	code, err := r.Exec.Run(ctx, out, argv[0], argv[1:]...)
	r.diag.WithFields(logrus.Fields{
		"phase":       tool,
		"exit_code":   code,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("tool finished")

	if err != nil {
		r.Log.Error(tool+" run failed", err.Error())
		return &ToolError{Tool: tool, ExitCode: code, Err: err}
	}
	return nil
}

// splitOptions turns the raw isoquant_options passthrough value into
// argv elements: double quotes are stripped and the remainder splits on
// whitespace.
func splitOptions(raw string) []string {
	return strings.Fields(strings.ReplaceAll(raw, `"`, ""))
}
