package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load initializes the configuration from file and environment variables.
func Load(cfgFile string) {
	// explicit .env loading; a missing .env is fine
	_ = godotenv.Load()

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("DFBENCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// Set defaults
	viper.SetDefault("engine", "gota")
	viper.SetDefault("results_dir", "benchmark_results")
	viper.SetDefault("dataset.source", "data/timeseries.csv")
	viper.SetDefault("dataset.cache_dir", ".dataset_cache")
	viper.SetDefault("dataset.rows_limit", 0)
	viper.SetDefault("report.dir", "benchmark_results")
	viper.SetDefault("report.regression_threshold", 0.8)
	viper.SetDefault("history.db_type", "sqlite")
	viper.SetDefault("history.db_path", "dfbench.db")
	viper.SetDefault("metrics_port", 2112)
	viper.SetDefault("verbose", false)

	// Notification Defaults
	slackEnabled := false
	if os.Getenv("SLACK_BOT_USER_TOKEN") != "" {
		slackEnabled = true
	}
	viper.SetDefault("notifications.slack.enabled", slackEnabled)
	viper.SetDefault("notifications.slack.channel", "#benchmarks")
	viper.SetDefault("notifications.slack.events.on_complete", true)
	viper.SetDefault("notifications.slack.events.on_regression", true)

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
