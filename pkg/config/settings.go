package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SettingsFileName is looked up next to the run config when no settings
// file is given explicitly.
const SettingsFileName = "pipecheck.yml"

// defaultThreads is passed to the pipeline tool's -t flag.
const defaultThreads = 16

// Settings locates the external collaborator tools and fixes run-wide
// invocation parameters. Fields left empty in the settings file fall
// back to defaults via ApplyDefaults.
type Settings struct {
	// Pipeline is the argv prefix for the pipeline tool, e.g.
	// ["python", "isoquant.py"].
	Pipeline []string `yaml:"pipeline"`
	// Quality is the argv prefix for the quality-assessment tool.
	Quality []string `yaml:"quality"`
	// Threads is the pipeline tool's thread count.
	Threads int `yaml:"threads"`
}

// LoadSettings reads a YAML settings file.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing settings %s: %w", path, err)
	}
	return &s, nil
}

// ApplyDefaults fills unset fields with the conventional tool locations
// under sourceDir.
func (s *Settings) ApplyDefaults(sourceDir string) {
	if len(s.Pipeline) == 0 {
		s.Pipeline = []string{"python", filepath.Join(sourceDir, "isoquant.py")}
	}
	if len(s.Quality) == 0 {
		s.Quality = []string{"python", filepath.Join(sourceDir, "src", "assess_assignment_quality.py")}
	}
	if s.Threads == 0 {
		s.Threads = defaultThreads
	}
}
