package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// ValidateConfig validates configuration values and returns an error if any are invalid.
// This function should be called after viper has loaded the configuration.
func ValidateConfig() error {
	var errors []string

	// Validate rows limit (if set, must be non-negative; 0 means no limit)
	if viper.IsSet("dataset.rows_limit") {
		limit := viper.GetInt64("dataset.rows_limit")
		if limit < 0 {
			errors = append(errors, fmt.Sprintf("dataset.rows_limit must be non-negative, got: %d", limit))
		}
	}

	// Validate regression threshold (if set, must be positive)
	if viper.IsSet("report.regression_threshold") {
		threshold := viper.GetFloat64("report.regression_threshold")
		if threshold <= 0 {
			errors = append(errors, fmt.Sprintf("report.regression_threshold must be positive, got: %v", threshold))
		}
	}

	// Validate history backend (if set)
	if viper.IsSet("history.db_type") {
		dbType := viper.GetString("history.db_type")
		if dbType != "sqlite" && dbType != "postgres" {
			errors = append(errors, fmt.Sprintf("history.db_type must be sqlite or postgres, got: %q", dbType))
		}
	}

	// Validate metrics_port (if set)
	if viper.IsSet("metrics_port") {
		port := viper.GetInt("metrics_port")
		if port < 1 || port > 65535 {
			errors = append(errors, fmt.Sprintf("metrics_port must be between 1 and 65535, got: %d", port))
		}
	}

	// If there are any errors, return them
	if len(errors) > 0 {
		errorMsg := errors[0]
		for i := 1; i < len(errors); i++ {
			errorMsg += "\n  " + errors[i]
		}
		return fmt.Errorf("configuration validation failed:\n  %s", errorMsg)
	}

	return nil
}

// ValidateAndExit validates the configuration and exits with a non-zero code if validation fails.
// This is a convenience function that prints errors to stderr and exits.
func ValidateAndExit() {
	if err := ValidateConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
