package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dfbench/internal/benchmark"
)

func writeResultFile(t *testing.T, dir, name string, results []benchmark.OperationResult) string {
	t.Helper()
	rs := &benchmark.ResultSet{Version: benchmark.CurrentVersion}
	for _, r := range results {
		require.NoError(t, rs.Add(r))
	}
	data, err := json.Marshal(rs)
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func int64p(v int64) *int64 { return &v }

func compareTestFiles(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	baseline := writeResultFile(t, dir, "pandas_results.json", []benchmark.OperationResult{
		{Operation: "read", DurationMS: 200, MemoryMB: 10, RowsProcessed: int64p(1000)},
		{Operation: "filter", DurationMS: 50, MemoryMB: 2, RowsProcessed: int64p(500)},
		{Operation: "sort", DurationMS: 80, MemoryMB: 4},
	})
	candidate := writeResultFile(t, dir, "polars_results.json", []benchmark.OperationResult{
		{Operation: "read", DurationMS: 100, MemoryMB: 8, RowsProcessed: int64p(1000)},
		{Operation: "filter", DurationMS: 25, MemoryMB: 1, RowsProcessed: int64p(500)},
		{Operation: "group_by", DurationMS: 30, MemoryMB: 3},
	})
	return baseline, candidate
}

func resetCompareFlags() {
	compareBaselineName = ""
	compareCandidateName = ""
	compareSaveHistory = false
	compareNotify = false
}

func TestCompareCmd(t *testing.T) {
	defer func() {
		resetCompareFlags()
		viper.Reset()
	}()

	baseline, candidate := compareTestFiles(t)

	out, err := executeCommand(t, "compare", baseline, candidate)
	require.NoError(t, err)

	assert.Contains(t, out, "pandas")
	assert.Contains(t, out, "polars")
	assert.Contains(t, out, "Read")
	assert.Contains(t, out, "Filter")
	assert.Contains(t, out, "2.00x")
	// sort and group_by are each measured by only one side.
	assert.NotContains(t, out, "Sort")
	assert.NotContains(t, out, "Group By")
	assert.Contains(t, out, "Matched operations: 2")
}

func TestCompareCmdExplicitNames(t *testing.T) {
	defer func() {
		resetCompareFlags()
		viper.Reset()
	}()

	baseline, candidate := compareTestFiles(t)

	out, err := executeCommand(t, "compare", baseline, candidate,
		"--baseline-name", "old", "--candidate-name", "new")
	require.NoError(t, err)
	assert.Contains(t, out, "old")
	assert.Contains(t, out, "new")
}

func TestCompareCmdMissingInput(t *testing.T) {
	defer func() {
		resetCompareFlags()
		viper.Reset()
	}()

	_, candidate := compareTestFiles(t)
	missing := filepath.Join(t.TempDir(), "absent_results.json")

	_, err := executeCommand(t, "compare", missing, candidate)
	require.Error(t, err)
	assert.ErrorIs(t, err, benchmark.ErrMissingInput)
}

func TestCompareCmdNoMatches(t *testing.T) {
	defer func() {
		resetCompareFlags()
		viper.Reset()
	}()

	dir := t.TempDir()
	baseline := writeResultFile(t, dir, "a_results.json", []benchmark.OperationResult{
		{Operation: "read", DurationMS: 100, MemoryMB: 1},
	})
	candidate := writeResultFile(t, dir, "b_results.json", []benchmark.OperationResult{
		{Operation: "sort", DurationMS: 100, MemoryMB: 1},
	})

	out, err := executeCommand(t, "compare", baseline, candidate)
	require.NoError(t, err)
	assert.Contains(t, out, "no operations matched")
}

func TestCompareCmdSaveHistory(t *testing.T) {
	defer func() {
		resetCompareFlags()
		viper.Reset()
	}()

	baseline, candidate := compareTestFiles(t)
	store := &fakeStore{}
	withFakeStore(t, store, func() {
		out, err := executeCommand(t, "compare", baseline, candidate, "--save-history")
		require.NoError(t, err)
		assert.Contains(t, out, "Recorded comparison 1 in history")
	})

	require.Len(t, store.savedComparisons, 1)
	assert.Equal(t, "pandas", store.savedComparisons[0].baseline)
	assert.Equal(t, "polars", store.savedComparisons[0].candidate)
	assert.Len(t, store.savedComparisons[0].cmp.Rows, 2)
	assert.True(t, store.closed)
}

func TestCompareCmdHistoryFailureIsWarning(t *testing.T) {
	defer func() {
		resetCompareFlags()
		viper.Reset()
	}()

	baseline, candidate := compareTestFiles(t)
	store := &fakeStore{err: errors.New("db down")}
	withFakeStore(t, store, func() {
		out, err := executeCommand(t, "compare", baseline, candidate, "--save-history")
		require.NoError(t, err)
		assert.Contains(t, out, "Warning: failed to record comparison")
	})
}

func TestResultSetName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"benchmark_results/pandas_results.json", "pandas"},
		{"polars_results.json", "polars"},
		{"/tmp/run.json", "run"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, resultSetName(tt.path))
	}
}
