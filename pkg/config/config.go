// Package config loads pipecheck run configurations: the tab-separated
// key/value files that describe a pipeline run, and the optional YAML
// settings that locate the external tools.
package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// requiredKeys must be present in every run configuration.
var requiredKeys = []string{"genedb", "reads", "datatype", "output", "name"}

// MissingKeyError reports a required configuration key that is absent.
type MissingKeyError struct {
	Path string
	Key  string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("%s: missing required key %q", e.Path, e.Key)
}

// LoadTSV reads a tab-separated key/value file into a map. Lines
// starting with '#' are comments; lines with fewer than two tab-delimited
// fields are skipped; a repeated key keeps its last value. Tokens past
// the second are ignored. Callers are expected to check the file exists
// before calling; the error return covers open and read failures only.
func LoadTSV(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	values := make(map[string]string)
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}
		tokens := strings.Split(strings.TrimSpace(line), "\t")
		if len(tokens) < 2 {
			continue
		}
		values[tokens[0]] = tokens[1]
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return values, nil
}

// ResolvePath resolves value against the directory containing
// configPath, so config files can reference inputs relative to their own
// location. Absolute values are returned unchanged.
func ResolvePath(configPath, value string) string {
	if filepath.IsAbs(value) {
		return value
	}
	return filepath.Join(filepath.Dir(configPath), value)
}

// RunConfig is a validated view of a run configuration file. Input paths
// are resolved against the config file's directory; OutputFolder is the
// configured output root joined with the run label, kept as written.
type RunConfig struct {
	Path         string
	Label        string
	OutputFolder string
	GeneDB       string
	Reads        string
	DataType     string

	// Exactly one of BAM and Genome is set: BAM when the config supplies
	// pre-aligned reads, Genome when the pipeline tool must align them.
	BAM    string
	Genome string

	// Options is the raw isoquant_options passthrough value, if any.
	Options string

	// Etalon is the resolved reference-metrics path, empty when the run
	// has no metric comparison step.
	Etalon string
}

// ParseRunConfig loads and validates a run configuration file.
func ParseRunConfig(path string) (*RunConfig, error) {
	values, err := LoadTSV(path)
	if err != nil {
		return nil, fmt.Errorf("loading run config: %w", err)
	}

	for _, key := range requiredKeys {
		if _, ok := values[key]; !ok {
			return nil, &MissingKeyError{Path: path, Key: key}
		}
	}

	cfg := &RunConfig{
		Path:     path,
		Label:    values["name"],
		DataType: values["datatype"],
		GeneDB:   ResolvePath(path, values["genedb"]),
		Reads:    ResolvePath(path, values["reads"]),
		Options:  values["isoquant_options"],
	}
	cfg.OutputFolder = filepath.Join(values["output"], cfg.Label)

	if bam, ok := values["bam"]; ok {
		cfg.BAM = ResolvePath(path, bam)
	} else {
		genome, ok := values["genome"]
		if !ok {
			return nil, &MissingKeyError{Path: path, Key: "genome"}
		}
		cfg.Genome = ResolvePath(path, genome)
	}

	if etalon, ok := values["etalon"]; ok {
		cfg.Etalon = ResolvePath(path, etalon)
	}
	return cfg, nil
}
