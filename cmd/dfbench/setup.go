package main

import (
	"fmt"
	"strconv"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"dfbench/internal/engine"
)

// Wrapper for survey functions to allow mocking in tests
var askOneFunc = survey.AskOne

// setupCmd represents the setup command
var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactively set up dfbench configuration",
	Long:  `Runs an interactive wizard to configure the engine, dataset, report and notification settings, and writes them to config.yaml.`,
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	fmt.Fprintln(cmd.OutOrStdout(), "Welcome to dfbench setup!")
	fmt.Fprintln(cmd.OutOrStdout(), "-------------------------")

	answers := struct {
		Engine       string
		Source       string
		RowsLimit    string
		ResultsDir   string
		HistoryType  string
		EnableSlack  bool
		SlackChannel string
	}{}

	if err := askOneFunc(&survey.Select{
		Message: "Default engine:",
		Options: engine.Names(),
		Default: viper.GetString("engine"),
	}, &answers.Engine); err != nil {
		return err
	}

	if err := askOneFunc(&survey.Input{
		Message: "Dataset source (local path, gs:// or http(s):// URL):",
		Default: viper.GetString("dataset.source"),
	}, &answers.Source); err != nil {
		return err
	}

	if err := askOneFunc(&survey.Input{
		Message: "Rows limit (0 = full dataset):",
		Default: "0",
	}, &answers.RowsLimit); err != nil {
		return err
	}
	rowsLimit, err := strconv.ParseInt(answers.RowsLimit, 10, 64)
	if err != nil || rowsLimit < 0 {
		return fmt.Errorf("rows limit must be a non-negative integer, got %q", answers.RowsLimit)
	}

	if err := askOneFunc(&survey.Input{
		Message: "Results directory:",
		Default: viper.GetString("results_dir"),
	}, &answers.ResultsDir); err != nil {
		return err
	}

	if err := askOneFunc(&survey.Select{
		Message: "History database backend:",
		Options: []string{"sqlite", "postgres"},
		Default: "sqlite",
	}, &answers.HistoryType); err != nil {
		return err
	}

	if err := askOneFunc(&survey.Confirm{
		Message: "Enable Slack notifications?",
		Default: false,
	}, &answers.EnableSlack); err != nil {
		return err
	}

	if answers.EnableSlack {
		if err := askOneFunc(&survey.Input{
			Message: "Slack channel:",
			Default: viper.GetString("notifications.slack.channel"),
		}, &answers.SlackChannel); err != nil {
			return err
		}
	}

	viper.Set("engine", answers.Engine)
	viper.Set("dataset.source", answers.Source)
	viper.Set("dataset.rows_limit", rowsLimit)
	viper.Set("results_dir", answers.ResultsDir)
	viper.Set("report.dir", answers.ResultsDir)
	viper.Set("history.db_type", answers.HistoryType)
	viper.Set("notifications.slack.enabled", answers.EnableSlack)
	if answers.SlackChannel != "" {
		viper.Set("notifications.slack.channel", answers.SlackChannel)
	}

	target := cfgFile
	if target == "" {
		target = "config.yaml"
	}
	if err := viper.WriteConfigAs(target); err != nil {
		return fmt.Errorf("failed to write configuration: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", target)
	return nil
}
