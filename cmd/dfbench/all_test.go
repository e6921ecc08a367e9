package main

import (
	"context"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dfbench/internal/benchmark"
	"dfbench/internal/report"
)

func resetAllFlags() {
	allBaselineCmd = ""
	allBaselineFile = ""
	allBaselineName = ""
	allCandidateCmd = ""
	allCandidateFile = ""
	allCandidateName = ""
	allNoTUI = false
	allNotify = false
	allSaveHistory = false
}

type execCall struct {
	name string
	args []string
}

// mockExec records invocations and substitutes a no-op process.
func mockExec(calls *[]execCall, fail map[string]bool) func(context.Context, string, ...string) *exec.Cmd {
	return func(ctx context.Context, name string, args ...string) *exec.Cmd {
		*calls = append(*calls, execCall{name: name, args: args})
		if fail[name] {
			return exec.CommandContext(ctx, "false")
		}
		return exec.CommandContext(ctx, "true")
	}
}

func TestAllCmd(t *testing.T) {
	defer func() {
		resetAllFlags()
		allExecCommand = exec.CommandContext
		generateReportFunc = report.Generate
		viper.Reset()
	}()

	var calls []execCall
	allExecCommand = mockExec(&calls, nil)
	generateReportFunc = func(baselineName, candidateName string, cmp *benchmark.Comparison, dir string) (*report.Artifacts, error) {
		return &report.Artifacts{HTML: filepath.Join(dir, "comparison_report.html")}, nil
	}

	baseline, candidate := compareTestFiles(t)

	out, err := executeCommand(t, "all", "--no-tui",
		"--baseline-cmd", "uv run bench.py --engine pandas",
		"--baseline-file", baseline,
		"--candidate-cmd", "polars-bench",
		"--candidate-file", candidate)
	require.NoError(t, err)

	require.Len(t, calls, 2)
	assert.Equal(t, "uv", calls[0].name)
	assert.Equal(t, []string{"run", "bench.py", "--engine", "pandas"}, calls[0].args)
	assert.Equal(t, "polars-bench", calls[1].name)

	assert.Contains(t, out, "Running pandas benchmark")
	assert.Contains(t, out, "Running polars benchmark")
	assert.Contains(t, out, "Matched operations: 2")
	assert.Contains(t, out, "Report written to")
}

func TestAllCmdOneEngineFails(t *testing.T) {
	defer func() {
		resetAllFlags()
		allExecCommand = exec.CommandContext
		generateReportFunc = report.Generate
		viper.Reset()
	}()

	var calls []execCall
	allExecCommand = mockExec(&calls, map[string]bool{"flaky-bench": true})
	generateReportFunc = func(baselineName, candidateName string, cmp *benchmark.Comparison, dir string) (*report.Artifacts, error) {
		return &report.Artifacts{}, nil
	}

	// Both result files exist from earlier runs, so a failing command
	// still leaves something to compare.
	baseline, candidate := compareTestFiles(t)

	out, err := executeCommand(t, "all", "--no-tui",
		"--baseline-cmd", "flaky-bench",
		"--baseline-file", baseline,
		"--candidate-cmd", "stable-bench",
		"--candidate-file", candidate)
	require.NoError(t, err)

	require.Len(t, calls, 2)
	assert.Contains(t, out, "Warning: pandas benchmark failed")
	assert.Contains(t, out, "Matched operations: 2")
}

func TestAllCmdMissingConfig(t *testing.T) {
	defer func() {
		resetAllFlags()
		viper.Reset()
	}()

	_, err := executeCommand(t, "all", "--no-tui",
		"--baseline-cmd", "bench", "--baseline-file", "a.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "both engines need a command and a result file")
}

func TestAllCmdMissingResultFile(t *testing.T) {
	defer func() {
		resetAllFlags()
		allExecCommand = exec.CommandContext
		viper.Reset()
	}()

	var calls []execCall
	allExecCommand = mockExec(&calls, nil)

	_, candidate := compareTestFiles(t)
	missing := filepath.Join(t.TempDir(), "never_written_results.json")

	_, err := executeCommand(t, "all", "--no-tui",
		"--baseline-cmd", "bench-a",
		"--baseline-file", missing,
		"--candidate-cmd", "bench-b",
		"--candidate-file", candidate)
	require.Error(t, err)
	assert.ErrorIs(t, err, benchmark.ErrMissingInput)
}

func TestAllCmdSaveHistory(t *testing.T) {
	defer func() {
		resetAllFlags()
		allExecCommand = exec.CommandContext
		generateReportFunc = report.Generate
		viper.Reset()
	}()

	var calls []execCall
	allExecCommand = mockExec(&calls, nil)
	generateReportFunc = func(baselineName, candidateName string, cmp *benchmark.Comparison, dir string) (*report.Artifacts, error) {
		return &report.Artifacts{}, nil
	}

	baseline, candidate := compareTestFiles(t)
	store := &fakeStore{}
	withFakeStore(t, store, func() {
		_, err := executeCommand(t, "all", "--no-tui", "--save-history",
			"--baseline-cmd", "bench-a",
			"--baseline-file", baseline,
			"--candidate-cmd", "bench-b",
			"--candidate-file", candidate)
		require.NoError(t, err)
	})

	require.Len(t, store.savedComparisons, 1)
	assert.Equal(t, "pandas", store.savedComparisons[0].baseline)
	assert.Equal(t, "polars", store.savedComparisons[0].candidate)
}

func TestJobFromConfig(t *testing.T) {
	defer viper.Reset()

	viper.Set("all.baseline.name", "pandas")
	viper.Set("all.baseline.cmd", "uv run bench.py")
	viper.Set("all.baseline.file", "benchmark_results/pandas_results.json")

	job := jobFromConfig("baseline", "", "", "")
	assert.Equal(t, "pandas", job.name)
	assert.Equal(t, "uv run bench.py", job.command)

	// Flags win over config, and the name falls back to the file name.
	job = jobFromConfig("baseline", "other-bench", "polars_results.json", "")
	assert.Equal(t, "other-bench", job.command)
	assert.Equal(t, "polars_results.json", job.file)
	assert.Equal(t, "pandas", job.name)

	viper.Set("all.candidate.file", "polars_results.json")
	job = jobFromConfig("candidate", "x", "", "")
	assert.Equal(t, "polars", job.name)
}
