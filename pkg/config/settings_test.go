package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	s := &Settings{}
	s.ApplyDefaults("/opt/isoquant")

	assert.Equal(t, []string{"python", filepath.Join("/opt/isoquant", "isoquant.py")}, s.Pipeline)
	assert.Equal(t, []string{"python", filepath.Join("/opt/isoquant", "src", "assess_assignment_quality.py")}, s.Quality)
	assert.Equal(t, 16, s.Threads)
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	s := &Settings{
		Pipeline: []string{"isoquant"},
		Threads:  4,
	}
	s.ApplyDefaults("/src")

	assert.Equal(t, []string{"isoquant"}, s.Pipeline)
	assert.Equal(t, 4, s.Threads)
	assert.NotEmpty(t, s.Quality, "unset fields still get defaults")
}

func TestLoadSettings(t *testing.T) {
	path := writeFile(t, t.TempDir(), SettingsFileName,
		"pipeline: [python3, /tools/isoquant.py]\n"+
			"quality: [python3, /tools/assess.py]\n"+
			"threads: 8\n")

	s, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"python3", "/tools/isoquant.py"}, s.Pipeline)
	assert.Equal(t, []string{"python3", "/tools/assess.py"}, s.Quality)
	assert.Equal(t, 8, s.Threads)
}

func TestLoadSettingsBadYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), SettingsFileName, "pipeline: [unclosed\n")
	_, err := LoadSettings(path)
	assert.Error(t, err)
}

func TestLoadSettingsMissingFile(t *testing.T) {
	_, err := LoadSettings(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}
