package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/termset/config"
	"github.com/c360studio/termset/pipeline"
)

const sourceCSV = "UBERON Preferred Term,UBERON Code,UBERON Definition,UBERON Synonyms(s),NCIt Preferred Term,NCIt Concept Code,NCIt Definition\n" +
	`Left Kidney,UBERON:0004538,The left kidney.,"Kidney, Left || Renal Body, Left",Left Kidney,C32667,One of the two kidneys.` + "\n" +
	"Brain,UBERON:0000955,Organ of the nervous system.,,,,\n"

// execute runs the root command with args and an isolated home directory.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	err := cmd.Execute()
	return out.String(), err
}

func writeProject(t *testing.T, csv string) (dir, configPath string) {
	t.Helper()
	dir = t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "source-data"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "source-data", "uberon.csv"), []byte(csv), 0644))

	configPath = filepath.Join(dir, "termset.yaml")
	cfg := "input:\n  path: source-data/uberon.csv\noutput:\n  path: model-desc/uberon_terms.yml\n"
	require.NoError(t, os.WriteFile(configPath, []byte(cfg), 0644))
	return dir, configPath
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "termset version "+Version+" (build: "+BuildTime+")\n", out)
}

func TestHandle(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"handle", "Left Kidney"}, "left_kidney\n"},
		{[]string{"handle", "leftKidney"}, "left_kidney\n"},
		{[]string{"handle", "Renal", "Body,", "Left"}, "renal_body,_left\n"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args[1:], " "), func(t *testing.T) {
			out, err := execute(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}

	_, err := execute(t, "handle")
	assert.Error(t, err)
}

func TestBuild(t *testing.T) {
	dir, configPath := writeProject(t, sourceCSV)

	out, err := execute(t, "--config", configPath, "--log-level", "error", "build", "--format", "turtle")
	require.NoError(t, err)

	output := filepath.Join(dir, "model-desc", "uberon_terms.yml")
	assert.Contains(t, out, "Wrote 2 terms from 2 rows to "+output)
	assert.Contains(t, out, "Exported "+filepath.Join(dir, "model-desc", "uberon_terms.ttl"))

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Terms:\n"))
	assert.Contains(t, string(data), "    left_kidney:\n")
}

func TestBuild_FlagOverrides(t *testing.T) {
	_, configPath := writeProject(t, sourceCSV)
	output := filepath.Join(t.TempDir(), "terms.yml")

	_, err := execute(t, "--config", configPath, "build", "--output", output, "--mode", "legacy")
	require.NoError(t, err)
	assert.FileExists(t, output)

	_, err = execute(t, "--config", configPath, "build", "--mode", "two-phase")
	assert.Error(t, err)
}

func TestBuild_MissingField(t *testing.T) {
	csv := "UBERON Preferred Term,UBERON Code,UBERON Definition\nHeart,,Pumps blood.\n"
	dir, configPath := writeProject(t, csv)

	_, err := execute(t, "--config", configPath, "build")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UBERON Code")

	_, statErr := os.Stat(filepath.Join(dir, "model-desc", "uberon_terms.yml"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestInitialBuild_FailureLogged(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	csv := "UBERON Preferred Term,UBERON Code,UBERON Definition\nHeart,,Pumps blood.\n"
	_, configPath := writeProject(t, csv)

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	cfg, err := config.NewLoader(logger).Load(configPath)
	require.NoError(t, err)
	runner, err := pipeline.NewRunner(cfg, logger)
	require.NoError(t, err)
	defer runner.Close()

	err = initialBuild(context.Background(), runner, logger)
	require.Error(t, err)
	assert.Contains(t, logs.String(), "level=WARN")
	assert.Contains(t, logs.String(), "Initial build failed, waiting for changes")
	assert.Contains(t, logs.String(), "UBERON Code")
}

func TestInitialBuild_Success(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	_, configPath := writeProject(t, sourceCSV)

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	cfg, err := config.NewLoader(logger).Load(configPath)
	require.NoError(t, err)
	runner, err := pipeline.NewRunner(cfg, logger)
	require.NoError(t, err)
	defer runner.Close()

	require.NoError(t, initialBuild(context.Background(), runner, logger))
	assert.NotContains(t, logs.String(), "Initial build failed")
}

func TestConfigShow(t *testing.T) {
	_, configPath := writeProject(t, sourceCSV)

	out, err := execute(t, "--config", configPath, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "handle: UBERON")
	assert.Contains(t, out, "mode: terms")
}

func TestConfigInit(t *testing.T) {
	out, err := execute(t, "config", "init")
	require.NoError(t, err)

	path := strings.TrimSpace(out)
	assert.True(t, strings.HasSuffix(path, filepath.Join(".config", "termset", "config.yaml")))
	assert.FileExists(t, path)
}
