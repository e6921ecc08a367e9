package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"dfbench/internal/benchmark"
	"dfbench/internal/db"
	"dfbench/internal/notify"
	"dfbench/internal/ui"
)

var (
	compareBaselineName  string
	compareCandidateName string
	compareSaveHistory   bool
	compareNotify        bool
)

var newManagerFunc = notify.NewManager

var compareCmd = &cobra.Command{
	Use:   "compare <baseline.json> <candidate.json>",
	Short: "Compare two persisted result sets operation by operation",
	Long: `Aligns two result sets by operation name and prints the relative
durations, memory and speedups. Operations measured by only one side are
excluded; totals cover the matched operations only. A missing input file
is an error.`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)
	compareCmd.Flags().StringVar(&compareBaselineName, "baseline-name", "", "Display name for the baseline (default derived from the file name)")
	compareCmd.Flags().StringVar(&compareCandidateName, "candidate-name", "", "Display name for the candidate (default derived from the file name)")
	compareCmd.Flags().BoolVar(&compareSaveHistory, "save-history", false, "Record the comparison in the history database")
	compareCmd.Flags().BoolVar(&compareNotify, "notify", false, "Send the comparison summary to configured notifiers")
}

// resultSetName derives a display name from a result file path, so
// "benchmark_results/pandas_results.json" reads as "pandas" in output.
func resultSetName(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return strings.TrimSuffix(name, "_results")
}

func runCompare(cmd *cobra.Command, args []string) error {
	baseline, err := benchmark.LoadResultSet(args[0])
	if err != nil {
		return err
	}
	candidate, err := benchmark.LoadResultSet(args[1])
	if err != nil {
		return err
	}

	baselineName := compareBaselineName
	if baselineName == "" {
		baselineName = resultSetName(args[0])
	}
	candidateName := compareCandidateName
	if candidateName == "" {
		candidateName = resultSetName(args[1])
	}

	cmp := benchmark.Compare(baseline, candidate)
	fmt.Fprint(cmd.OutOrStdout(), ui.ComparisonTable(baselineName, candidateName, cmp))

	if len(cmp.Rows) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Warning: no operations matched between the two result sets")
	}

	if compareNotify {
		threshold := viper.GetFloat64("report.regression_threshold")
		manager := newManagerFunc(nil)
		message := notify.ComparisonMessage(baselineName, candidateName, cmp, threshold)
		if err := manager.Notify(cmd.Context(), notify.EventComplete, message); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: notification failed: %v\n", err)
		}
		if regressions := notify.Regressions(cmp, threshold); len(regressions) > 0 {
			alert := fmt.Sprintf(":rotating_light: %s regressed on: %s",
				candidateName, strings.Join(regressions, ", "))
			if err := manager.Notify(cmd.Context(), notify.EventRegression, alert); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: regression notification failed: %v\n", err)
			}
		}
	}

	if compareSaveHistory {
		store, err := newStoreFunc(db.StoreConfig{
			Type:             viper.GetString("history.db_type"),
			ConnectionString: historyConnectionString(),
		})
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to open history store: %v\n", err)
			return nil
		}
		defer store.Close()

		id, err := store.SaveComparison(baselineName, candidateName, cmp)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to record comparison: %v\n", err)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Recorded comparison %d in history\n", id)
	}

	return nil
}
