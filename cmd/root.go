package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pable/go-cs-mapstats/internal/config"
	"github.com/pable/go-cs-mapstats/internal/logger"
)

var (
	dbPath   string
	logLevel string

	cfg *config.Config
	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "csmapstats",
	Short: "CS2 pro match map statistics",
	Long: `Load professional CS2 match and map results, then summarize a trailing
window of them: map pick frequency, series scores, map volatility and the
best map of each top team.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to SQLite database (default $CSMAPSTATS_DB or ~/.csmapstats/mapstats.db)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (default $CSMAPSTATS_LOG_LEVEL or info)")

	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(teamCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(dropCmd)
	rootCmd.AddCommand(policyCmd)
	rootCmd.AddCommand(shellCmd)
}

// setup loads configuration and builds the logger. Flags given on the command
// line win over the environment.
func setup(cmd *cobra.Command, _ []string) error {
	var envLoaded bool
	cfg, envLoaded = config.Load()

	if !cmd.Flags().Changed("db") {
		dbPath = cfg.DBPath
	}
	if !cmd.Flags().Changed("log-level") {
		logLevel = cfg.LogLevel
	}
	log = logger.New(os.Stderr, logLevel)
	log.Debug().Bool("dotenv", envLoaded).Str("db", dbPath).Msg("config loaded")
	return nil
}
