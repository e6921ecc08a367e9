package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"dfbench/internal/benchmark"
	"dfbench/internal/report"
)

var (
	reportBaselineName  string
	reportCandidateName string
	reportDir           string
	reportNoRender      bool
)

var generateReportFunc = report.Generate

var reportCmd = &cobra.Command{
	Use:   "report <baseline.json> <candidate.json>",
	Short: "Generate the comparison report bundle (HTML, markdown, charts)",
	Long: `Compares two result sets and writes the full report bundle into the
report directory: an HTML report, a markdown summary and PNG charts. The
markdown summary is also rendered to the terminal.`,
	Args: cobra.ExactArgs(2),
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVar(&reportBaselineName, "baseline-name", "", "Display name for the baseline (default derived from the file name)")
	reportCmd.Flags().StringVar(&reportCandidateName, "candidate-name", "", "Display name for the candidate (default derived from the file name)")
	reportCmd.Flags().StringVar(&reportDir, "output-dir", "", "Directory for report artifacts (default from config)")
	reportCmd.Flags().BoolVar(&reportNoRender, "no-render", false, "Skip the terminal rendering of the summary")
}

func runReport(cmd *cobra.Command, args []string) error {
	baseline, err := benchmark.LoadResultSet(args[0])
	if err != nil {
		return err
	}
	candidate, err := benchmark.LoadResultSet(args[1])
	if err != nil {
		return err
	}

	baselineName := reportBaselineName
	if baselineName == "" {
		baselineName = resultSetName(args[0])
	}
	candidateName := reportCandidateName
	if candidateName == "" {
		candidateName = resultSetName(args[1])
	}

	dir := reportDir
	if dir == "" {
		dir = viper.GetString("report.dir")
	}

	cmp := benchmark.Compare(baseline, candidate)
	artifacts, err := generateReportFunc(baselineName, candidateName, cmp, dir)
	if err != nil {
		return err
	}

	if !reportNoRender {
		fmt.Fprint(cmd.OutOrStdout(), report.RenderTerminal(report.Markdown(baselineName, candidateName, cmp)))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", artifacts.HTML)
	fmt.Fprintf(cmd.OutOrStdout(), "Summary written to %s\n", artifacts.Markdown)
	for _, chart := range artifacts.Charts {
		fmt.Fprintf(cmd.OutOrStdout(), "Chart written to %s\n", chart)
	}
	return nil
}
