package main

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"dfbench/internal/benchmark"
	"dfbench/internal/dataset"
	"dfbench/internal/db"
	"dfbench/internal/engine"
	"dfbench/internal/metrics"
	"dfbench/internal/sysinfo"
	"dfbench/internal/telemetry"
	"dfbench/internal/ui"
)

var (
	runEngine      string
	runSource      string
	runRowsLimit   int64
	runOutput      string
	runSaveHistory bool
	runServeMetric bool
)

// Mockable seams for tests.
var (
	collectSysInfo  = sysinfo.Collect
	resolveDataset  = dataset.Resolve
	newEngineFunc   = engine.New
	newStoreFunc    = db.NewStore
	startMetricsSrv = telemetry.StartMetricsServer
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the benchmark suite with one engine and persist the results",
	Long: `Runs the full operation suite (read, filter, aggregation, group_by,
sort, complex_query) against the configured dataset with the selected engine.
A failing operation is logged and omitted; the rest of the suite still runs.
Results are written as a versioned JSON result set.`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&runEngine, "engine", "", "Engine to benchmark (default from config)")
	runCmd.Flags().StringVar(&runSource, "source", "", "Dataset source: local path, gs:// or http(s):// URL")
	runCmd.Flags().Int64Var(&runRowsLimit, "rows-limit", 0, "Cap the number of rows loaded (0 = full dataset)")
	runCmd.Flags().StringVar(&runOutput, "output", "", "Result file path (default <results_dir>/<engine>_results.json)")
	runCmd.Flags().BoolVar(&runSaveHistory, "save-history", false, "Also record the run in the history database")
	runCmd.Flags().BoolVar(&runServeMetric, "metrics", false, "Expose live suite metrics on the metrics port")
}

func runRun(cmd *cobra.Command, args []string) error {
	engineName := runEngine
	if engineName == "" {
		engineName = viper.GetString("engine")
	}
	eng, err := newEngineFunc(engineName)
	if err != nil {
		return err
	}

	source := runSource
	if source == "" {
		source = viper.GetString("dataset.source")
	}

	var limit *int64
	if runRowsLimit > 0 {
		limit = &runRowsLimit
	} else if l := viper.GetInt64("dataset.rows_limit"); l > 0 {
		limit = &l
	}

	localPath, err := resolveDataset(cmd.Context(), source, viper.GetString("dataset.cache_dir"))
	if err != nil {
		return err
	}

	m := metrics.NewMetrics()
	if runServeMetric {
		go func() {
			if err := startMetricsSrv(viper.GetInt("metrics_port"), m.Handler()); err != nil {
				slog.Error("metrics server stopped", "error", err)
			}
		}()
	}

	runner := &benchmark.Runner{
		Steps:  eng.Steps(),
		Logger: slog.Default(),
		Observer: func(res benchmark.OperationResult) {
			m.TrackOperation(res.Operation, res.DurationMS, res.MemoryMB, res.RowsProcessed)
		},
		OnFailure: m.TrackOperationFailure,
	}

	rc := &benchmark.RunContext{
		Context:   cmd.Context(),
		Source:    localPath,
		RowsLimit: limit,
	}
	rs := runner.Run(rc)
	rs.Finalize(collectSysInfo(), benchmark.DatasetInfo{Source: source, RowsLimit: limit})
	m.TrackRun(engineName, len(rs.Results) == len(eng.Steps()))

	output := runOutput
	if output == "" {
		output = filepath.Join(viper.GetString("results_dir"), engineName+"_results.json")
	}
	if err := benchmark.SaveResultSet(output, rs); err != nil {
		return fmt.Errorf("failed to save results: %w", err)
	}

	fmt.Fprint(cmd.OutOrStdout(), ui.RunTable(rs))
	fmt.Fprintf(cmd.OutOrStdout(), "\nCompleted %d/%d operations. Results written to %s\n",
		len(rs.Results), len(eng.Steps()), output)

	if runSaveHistory {
		// History is best-effort: a broken store never fails the run.
		store, err := newStoreFunc(db.StoreConfig{
			Type:             viper.GetString("history.db_type"),
			ConnectionString: historyConnectionString(),
		})
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to open history store: %v\n", err)
			return nil
		}
		defer store.Close()

		id, err := store.SaveRun(engineName, rs)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to record run: %v\n", err)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Recorded run %d in history\n", id)
	}

	return nil
}

func historyConnectionString() string {
	if dsn := viper.GetString("history.dsn"); dsn != "" {
		return dsn
	}
	return viper.GetString("history.db_path")
}
