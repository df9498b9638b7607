package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadTSV(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    map[string]string
	}{
		{
			name:    "comments and short lines skipped",
			content: "#c\nfoo\tbar\nbaz\n",
			want:    map[string]string{"foo": "bar"},
		},
		{
			name:    "later key wins",
			content: "k\tfirst\nk\tsecond\n",
			want:    map[string]string{"k": "second"},
		},
		{
			name:    "extra tokens ignored",
			content: "k\tv\textra\tmore\n",
			want:    map[string]string{"k": "v"},
		},
		{
			name:    "blank lines skipped",
			content: "\n\na\t1\n\n",
			want:    map[string]string{"a": "1"},
		},
		{
			name:    "trailing tab leaves one token",
			content: "only\t\n",
			want:    map[string]string{},
		},
		{
			name:    "empty file",
			content: "",
			want:    map[string]string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "config.tsv", tt.content)
			got, err := LoadTSV(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadTSVMissingFile(t *testing.T) {
	_, err := LoadTSV(filepath.Join(t.TempDir(), "nope.tsv"))
	assert.Error(t, err)
}

func TestResolvePath(t *testing.T) {
	assert.Equal(t, filepath.Join("/a/b", "data/x.fa"), ResolvePath("/a/b/config.tsv", "data/x.fa"))
	assert.Equal(t, "/abs/x.fa", ResolvePath("/a/b/config.tsv", "/abs/x.fa"))
}

func TestParseRunConfigBAM(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "run.tsv",
		"name\trun1\n"+
			"output\t/tmp/out\n"+
			"genedb\tdb.gff\n"+
			"reads\treads.fa\n"+
			"bam\taligned.bam\n"+
			"datatype\tnanopore\n")

	cfg, err := ParseRunConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "run1", cfg.Label)
	assert.Equal(t, filepath.Join("/tmp/out", "run1"), cfg.OutputFolder)
	assert.Equal(t, filepath.Join(dir, "db.gff"), cfg.GeneDB)
	assert.Equal(t, filepath.Join(dir, "reads.fa"), cfg.Reads)
	assert.Equal(t, filepath.Join(dir, "aligned.bam"), cfg.BAM)
	assert.Empty(t, cfg.Genome)
	assert.Empty(t, cfg.Etalon)
}

func TestParseRunConfigGenome(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "run.tsv",
		"name\trun2\n"+
			"output\t/tmp/out\n"+
			"genedb\t/abs/db.gff\n"+
			"reads\treads.fq\n"+
			"genome\tref.fa\n"+
			"datatype\tpacbio\n"+
			"etalon\tetalon.tsv\n"+
			"isoquant_options\t\"--check_canonical\"\n")

	cfg, err := ParseRunConfig(path)
	require.NoError(t, err)

	assert.Empty(t, cfg.BAM)
	assert.Equal(t, "/abs/db.gff", cfg.GeneDB, "absolute paths stay unchanged")
	assert.Equal(t, filepath.Join(dir, "ref.fa"), cfg.Genome)
	assert.Equal(t, filepath.Join(dir, "etalon.tsv"), cfg.Etalon)
	assert.Equal(t, `"--check_canonical"`, cfg.Options)
}

func TestParseRunConfigMissingKeys(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantKey string
	}{
		{
			name:    "missing name",
			content: "output\t/tmp/out\ngenedb\tdb.gff\nreads\tr.fa\ndatatype\tnanopore\nbam\tb.bam\n",
			wantKey: "name",
		},
		{
			name:    "missing datatype",
			content: "name\tx\noutput\t/tmp/out\ngenedb\tdb.gff\nreads\tr.fa\nbam\tb.bam\n",
			wantKey: "datatype",
		},
		{
			name:    "neither bam nor genome",
			content: "name\tx\noutput\t/tmp/out\ngenedb\tdb.gff\nreads\tr.fa\ndatatype\tnanopore\n",
			wantKey: "genome",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "run.tsv", tt.content)
			_, err := ParseRunConfig(path)

			var missing *MissingKeyError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, tt.wantKey, missing.Key)
			assert.Equal(t, path, missing.Path)
		})
	}
}

func TestParseRunConfigUnreadable(t *testing.T) {
	_, err := ParseRunConfig(filepath.Join(t.TempDir(), "absent.tsv"))
	require.Error(t, err)
	var missing *MissingKeyError
	assert.False(t, errors.As(err, &missing), "read failures are not key errors")
}
