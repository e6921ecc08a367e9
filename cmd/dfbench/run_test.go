package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dfbench/internal/benchmark"
	"dfbench/internal/dataset"
	"dfbench/internal/db"
	"dfbench/internal/engine"
	"dfbench/internal/sysinfo"
)

const runTestCSV = `id,name,x,y,timestamp
0,alice,0.9,0.1,2024-01-01T00:00:00Z
1,bob,-0.2,0.4,2024-01-01T00:00:01Z
2,carol,0.7,-0.3,2024-01-01T00:00:02Z
3,alice,0.1,0.9,2024-01-01T00:00:03Z
4,bob,0.8,0.2,2024-01-01T00:00:04Z
`

func writeRunTestCSV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(runTestCSV), 0644))
	return path
}

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	rootCmd.SetArgs(nil)
	return buf.String(), err
}

func resetRunFlags() {
	runEngine = ""
	runSource = ""
	runRowsLimit = 0
	runOutput = ""
	runSaveHistory = false
	runServeMetric = false
}

func TestRunCmd(t *testing.T) {
	defer func() {
		resetRunFlags()
		collectSysInfo = sysinfo.Collect
		resolveDataset = dataset.Resolve
		viper.Reset()
	}()

	collectSysInfo = func() benchmark.SystemInfo {
		return benchmark.SystemInfo{OS: "linux", CPUCount: 4, TotalMemoryGB: 8}
	}

	csvPath := writeRunTestCSV(t)
	output := filepath.Join(t.TempDir(), "gota_results.json")

	out, err := executeCommand(t, "run",
		"--engine", "gota",
		"--source", csvPath,
		"--output", output)
	require.NoError(t, err)

	assert.Contains(t, out, "Read")
	assert.Contains(t, out, "Completed 6/6 operations")

	data, err := os.ReadFile(output)
	require.NoError(t, err)

	var rs benchmark.ResultSet
	require.NoError(t, json.Unmarshal(data, &rs))
	assert.Equal(t, benchmark.CurrentVersion, rs.Version)
	require.Len(t, rs.Results, 6)
	assert.Equal(t, "read", rs.Results[0].Operation)
	assert.Equal(t, "complex_query", rs.Results[5].Operation)
	assert.Equal(t, "linux", rs.SystemInfo.OS)
	assert.Equal(t, csvPath, rs.DatasetInfo.Source)
	require.NotNil(t, rs.Results[0].RowsProcessed)
	assert.Equal(t, int64(5), *rs.Results[0].RowsProcessed)
}

func TestRunCmdRowsLimit(t *testing.T) {
	defer func() {
		resetRunFlags()
		viper.Reset()
	}()

	csvPath := writeRunTestCSV(t)
	output := filepath.Join(t.TempDir(), "out.json")

	_, err := executeCommand(t, "run",
		"--engine", "gota",
		"--source", csvPath,
		"--rows-limit", "3",
		"--output", output)
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)

	var rs benchmark.ResultSet
	require.NoError(t, json.Unmarshal(data, &rs))
	require.NotNil(t, rs.Results[0].RowsProcessed)
	assert.Equal(t, int64(3), *rs.Results[0].RowsProcessed)
	require.NotNil(t, rs.DatasetInfo.RowsLimit)
	assert.Equal(t, int64(3), *rs.DatasetInfo.RowsLimit)
}

func TestRunCmdUnknownEngine(t *testing.T) {
	defer func() {
		resetRunFlags()
		viper.Reset()
	}()

	_, err := executeCommand(t, "run", "--engine", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown engine")
}

func TestRunCmdMissingDataset(t *testing.T) {
	defer func() {
		resetRunFlags()
		viper.Reset()
	}()

	_, err := executeCommand(t, "run",
		"--engine", "gota",
		"--source", filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dataset not found")
}

func TestRunCmdSaveHistory(t *testing.T) {
	defer func() {
		resetRunFlags()
		newStoreFunc = db.NewStore
		viper.Reset()
	}()

	store := &fakeStore{}
	newStoreFunc = func(cfg db.StoreConfig) (db.Store, error) { return store, nil }

	csvPath := writeRunTestCSV(t)
	output := filepath.Join(t.TempDir(), "out.json")

	out, err := executeCommand(t, "run",
		"--engine", "gota",
		"--source", csvPath,
		"--output", output,
		"--save-history")
	require.NoError(t, err)

	assert.Contains(t, out, "Recorded run")
	require.Len(t, store.savedRuns, 1)
	assert.Equal(t, "gota", store.savedRuns[0].engine)
	assert.True(t, store.closed)
}

func TestRunCmdFailedStepsOmitted(t *testing.T) {
	defer func() {
		resetRunFlags()
		viper.Reset()
	}()

	// An unparseable dataset fails the read step; the dependent steps
	// fail too and the result set comes out empty but the command exits 0.
	path := filepath.Join(t.TempDir(), "broken.csv")
	require.NoError(t, os.WriteFile(path, []byte("not,a\nvalid\"csv"), 0644))
	output := filepath.Join(t.TempDir(), "out.json")

	out, err := executeCommand(t, "run",
		"--engine", "gota",
		"--source", path,
		"--output", output)
	require.NoError(t, err)
	assert.Contains(t, out, "Completed 0/6 operations")

	var rs benchmark.ResultSet
	data, err := os.ReadFile(output)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &rs))
	assert.Empty(t, rs.Results)
}

func TestEngineNamesRegistered(t *testing.T) {
	assert.Contains(t, engine.Names(), "gota")
}
