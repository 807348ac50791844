package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/anonymousuni/cats/internal/clierrors"
	"github.com/anonymousuni/cats/internal/logging"
)

var (
	verbose    bool
	quiet      bool
	logFormat  string
	configPath string

	logger         *logging.Logger
	errorFormatter *clierrors.ErrorFormatter

	appVersion string
	appCommit  string
	appDate    string
	appBuiltBy string
)

var rootCmd = &cobra.Command{
	Use:          "cats",
	Short:        "Cost- and deadline-aware pipeline timeline scheduler",
	Long:         "cats searches for pipeline deployment schedules that fit a deadline and budget, given a catalog of resources and a corpus of dry-run measurements.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logConfig := &logging.Config{
			Level:         logging.LevelInfo,
			Format:        logFormat,
			Output:        os.Stderr,
			Quiet:         quiet,
			Verbose:       verbose,
			EnableMetrics: true,
		}
		logger = logging.New(logConfig)
		logging.SetDefault(logger)

		errorFormatter = clierrors.NewErrorFormatter(verbose)

		logger.Debug("root command initialization completed",
			"verbose", verbose, "quiet", quiet, "log_format", logFormat, "config_path", configPath)
		return nil
	},
}

// Execute runs the cats root command.
func Execute(version, commit, date, builtBy string) {
	appVersion, appCommit, appDate, appBuiltBy = version, commit, date, builtBy

	if err := rootCmd.Execute(); err != nil {
		if errorFormatter != nil {
			fmt.Fprintln(os.Stderr, errorFormatter.Format(err))
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		if logger != nil {
			logger.Error("command execution failed", "error", err.Error())
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging with detailed output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log output format: text, json")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file (default: CATS_CONFIG_FILE env, or none)")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	rootCmd.AddCommand(newScheduleCmd())

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("cats version: %s\n", appVersion)
			fmt.Printf("Build time: %s\n", appDate)
			fmt.Printf("Git commit: %s\n", appCommit)
			fmt.Printf("Built by: %s\n", appBuiltBy)
			return nil
		},
	}
	rootCmd.AddCommand(versionCmd)
}
