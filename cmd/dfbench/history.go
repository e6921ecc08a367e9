package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"dfbench/internal/db"
	"dfbench/internal/ui"
)

var (
	historyEngine string
	historyLimit  int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect recorded benchmark runs and comparisons",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded benchmark runs",
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show the full result set of a recorded run",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyComparisonsCmd = &cobra.Command{
	Use:   "comparisons",
	Short: "List recorded comparisons",
	RunE:  runHistoryComparisons,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyComparisonsCmd)

	historyCmd.PersistentFlags().IntVar(&historyLimit, "limit", 20, "Maximum entries to list")
	historyListCmd.Flags().StringVar(&historyEngine, "engine", "", "Only list runs for this engine")
}

func openHistoryStore() (db.Store, error) {
	return newStoreFunc(db.StoreConfig{
		Type:             viper.GetString("history.db_type"),
		ConnectionString: historyConnectionString(),
	})
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := openHistoryStore()
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.ListRuns(historyEngine, historyLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No recorded runs.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tENGINE\tTIMESTAMP\tOPS\tTOTAL MS\tSOURCE")
	for _, r := range runs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%s\n",
			r.ID, r.Engine, r.Timestamp, r.Operations, r.TotalDurationMS, r.Source)
	}
	return w.Flush()
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid run id %q", args[0])
	}

	store, err := openHistoryStore()
	if err != nil {
		return err
	}
	defer store.Close()

	rs, err := store.GetRun(id)
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), ui.RunTable(rs))
	return nil
}

func runHistoryComparisons(cmd *cobra.Command, args []string) error {
	store, err := openHistoryStore()
	if err != nil {
		return err
	}
	defer store.Close()

	comparisons, err := store.ListComparisons(historyLimit)
	if err != nil {
		return err
	}
	if len(comparisons) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No recorded comparisons.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tBASELINE\tCANDIDATE\tMATCHED\tCREATED")
	for _, c := range comparisons {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n",
			c.ID, c.BaselineEngine, c.CandidateEngine, c.Matched,
			c.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}
