// Package cmd implements the CLI commands for the syncdeck tool.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/syncdeck/syncdeck/internal/client/output"
	"github.com/syncdeck/syncdeck/internal/config"
	"github.com/syncdeck/syncdeck/internal/constants"
	"github.com/syncdeck/syncdeck/internal/logger"

	"github.com/spf13/cobra"
)

var (
	debug   bool
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   constants.ProjectName,
	Short: constants.ProjectName,
	Long: fmt.Sprintf(`%s - %s
Watch your save-sync workers and their reachability in real time`,
		constants.ProjectName, *constants.GetVersion()),
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logLevel := slog.LevelInfo
		if debug {
			logLevel = slog.LevelDebug
		}
		logger.Initialize(constants.CLI, logLevel)

		if verbose {
			output.Infof("CLI build: " + output.Bold(*constants.GetVersion()))
		}
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debugging logs")
}

// loadConfig loads the CLI configuration and reports a friendly error when
// the user has not configured the tool yet.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.APIEndpoint == "" {
		return nil, fmt.Errorf("no API endpoint configured; run '%s configure' first", constants.ProjectName)
	}
	return cfg, nil
}
