package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/kballard/go-shellquote"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"dfbench/internal/benchmark"
	"dfbench/internal/db"
	"dfbench/internal/notify"
	"dfbench/internal/ui"
)

var (
	allBaselineCmd   string
	allBaselineFile  string
	allBaselineName  string
	allCandidateCmd  string
	allCandidateFile string
	allCandidateName string
	allNoTUI         bool
	allNotify        bool
	allSaveHistory   bool
)

// allExecCommand allows mocking in tests.
var allExecCommand = exec.CommandContext

// engineJob is one external benchmark invocation: a command to run and
// the result file that command writes.
type engineJob struct {
	name    string
	command string
	file    string
}

var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Run both engine benchmarks, then compare and report",
	Long: `Runs the baseline and candidate benchmark commands as subprocesses,
waits for both result files, and then produces the comparison table and the
full report bundle. One engine failing does not stop the other: whatever
results exist are compared.

Commands and result files come from flags or the all.* config keys, e.g.:

  all:
    baseline:  {name: pandas, cmd: "uv run bench.py",        file: benchmark_results/pandas_results.json}
    candidate: {name: polars, cmd: "cargo run --release",    file: benchmark_results/polars_results.json}`,
	RunE: runAll,
}

func init() {
	rootCmd.AddCommand(allCmd)
	allCmd.Flags().StringVar(&allBaselineCmd, "baseline-cmd", "", "Command that runs the baseline benchmark")
	allCmd.Flags().StringVar(&allBaselineFile, "baseline-file", "", "Result file the baseline command writes")
	allCmd.Flags().StringVar(&allBaselineName, "baseline-name", "", "Display name for the baseline")
	allCmd.Flags().StringVar(&allCandidateCmd, "candidate-cmd", "", "Command that runs the candidate benchmark")
	allCmd.Flags().StringVar(&allCandidateFile, "candidate-file", "", "Result file the candidate command writes")
	allCmd.Flags().StringVar(&allCandidateName, "candidate-name", "", "Display name for the candidate")
	allCmd.Flags().BoolVar(&allNoTUI, "no-tui", false, "Disable the progress display")
	allCmd.Flags().BoolVar(&allNotify, "notify", false, "Send the comparison summary to configured notifiers")
	allCmd.Flags().BoolVar(&allSaveHistory, "save-history", false, "Record the comparison in the history database")
}

func jobFromConfig(side, cmdFlag, fileFlag, nameFlag string) engineJob {
	job := engineJob{
		name:    viper.GetString("all." + side + ".name"),
		command: viper.GetString("all." + side + ".cmd"),
		file:    viper.GetString("all." + side + ".file"),
	}
	if cmdFlag != "" {
		job.command = cmdFlag
	}
	if fileFlag != "" {
		job.file = fileFlag
	}
	if nameFlag != "" {
		job.name = nameFlag
	}
	if job.name == "" && job.file != "" {
		job.name = resultSetName(job.file)
	}
	return job
}

func runAll(cmd *cobra.Command, args []string) error {
	baseline := jobFromConfig("baseline", allBaselineCmd, allBaselineFile, allBaselineName)
	candidate := jobFromConfig("candidate", allCandidateCmd, allCandidateFile, allCandidateName)

	for _, job := range []engineJob{baseline, candidate} {
		if job.command == "" || job.file == "" {
			return fmt.Errorf("both engines need a command and a result file; missing for %q", job.name)
		}
	}

	steps := []string{
		"benchmark " + baseline.name,
		"benchmark " + candidate.name,
		"compare and report",
	}

	useTUI := !allNoTUI && isatty.IsTerminal(os.Stdout.Fd())
	if !useTUI {
		return runAllPlain(cmd, baseline, candidate)
	}

	p := tea.NewProgram(ui.NewProgressModel(steps))
	var runErr error
	go func() {
		runErr = runAllPipeline(cmd.Context(), io.Discard, baseline, candidate, func(err error) {
			p.Send(ui.StepCompleteMsg{Err: err})
		}, cmd)
		p.Send(ui.DoneMsg{})
	}()

	if _, err := p.Run(); err != nil {
		return err
	}
	return runErr
}

func runAllPlain(cmd *cobra.Command, baseline, candidate engineJob) error {
	out := cmd.OutOrStdout()
	return runAllPipeline(cmd.Context(), out, baseline, candidate, nil, cmd)
}

// runAllPipeline executes both jobs and then the comparison stage.
// progress, if set, is told when each of the three steps completes.
func runAllPipeline(ctx context.Context, out io.Writer, baseline, candidate engineJob, progress func(error), cmd *cobra.Command) error {
	for _, job := range []engineJob{baseline, candidate} {
		fmt.Fprintf(out, "Running %s benchmark: %s\n", job.name, job.command)
		err := runEngineCommand(ctx, job)
		if err != nil {
			// Partial tolerance: the other engine still gets its run.
			fmt.Fprintf(out, "Warning: %s benchmark failed: %v\n", job.name, err)
		}
		if progress != nil {
			progress(err)
		}
	}

	err := compareAndReport(ctx, cmd, baseline, candidate)
	if progress != nil {
		progress(err)
	}
	return err
}

func runEngineCommand(ctx context.Context, job engineJob) error {
	words, err := shellquote.Split(job.command)
	if err != nil {
		return fmt.Errorf("invalid command %q: %w", job.command, err)
	}
	if len(words) == 0 {
		return fmt.Errorf("empty command for %s", job.name)
	}

	c := allExecCommand(ctx, words[0], words[1:]...)
	c.Stdout = os.Stderr
	c.Stderr = os.Stderr
	return c.Run()
}

func compareAndReport(ctx context.Context, cmd *cobra.Command, baseline, candidate engineJob) error {
	baselineSet, err := benchmark.LoadResultSet(baseline.file)
	if err != nil {
		return err
	}
	candidateSet, err := benchmark.LoadResultSet(candidate.file)
	if err != nil {
		return err
	}

	cmp := benchmark.Compare(baselineSet, candidateSet)
	fmt.Fprint(cmd.OutOrStdout(), ui.ComparisonTable(baseline.name, candidate.name, cmp))

	dir := viper.GetString("report.dir")
	artifacts, err := generateReportFunc(baseline.name, candidate.name, cmp, dir)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", artifacts.HTML)

	if allNotify {
		threshold := viper.GetFloat64("report.regression_threshold")
		manager := newManagerFunc(nil)
		message := notify.ComparisonMessage(baseline.name, candidate.name, cmp, threshold)
		if err := manager.Notify(ctx, notify.EventComplete, message); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: notification failed: %v\n", err)
		}
		if regressions := notify.Regressions(cmp, threshold); len(regressions) > 0 {
			alert := fmt.Sprintf(":rotating_light: %s regressed on: %s",
				candidate.name, strings.Join(regressions, ", "))
			if err := manager.Notify(ctx, notify.EventRegression, alert); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: regression notification failed: %v\n", err)
			}
		}
	}

	if allSaveHistory {
		store, err := newStoreFunc(db.StoreConfig{
			Type:             viper.GetString("history.db_type"),
			ConnectionString: historyConnectionString(),
		})
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to open history store: %v\n", err)
			return nil
		}
		defer store.Close()

		if _, err := store.SaveComparison(baseline.name, candidate.name, cmp); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to record comparison: %v\n", err)
		}
	}

	return nil
}
