// snek is a Battlesnake heuristic engine.
//
// Usage:
//
//	snek serve            - Serve the Battlesnake webhook API
//	snek arena            - Play local games between engine-driven snakes
//	snek report           - Summarise journaled decisions and stored results
//
// Global flags:
//
//	--config <path>       - Config file (default search: ~/.snek/config.yaml, ./configs/snek.yaml)
//	--log-level <level>   - debug, info, warn, error
//	--log-format <fmt>    - text, json, logfmt
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nickburris/battlesnake/config"
	"github.com/nickburris/battlesnake/logging"
)

var (
	// Global flags
	flagConfig    string
	flagLogLevel  string
	flagLogFormat string
	flagJournal   string
	flagDBPath    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "snek",
	Short: "Battlesnake heuristic engine",
	Long: `snek picks one move per turn from a handful of cheap board heuristics:
flood-fill open space, head-to-head danger, nearest food and tail following.

Examples:
  snek serve --listen :8080
  snek arena --games 100 --snakes 4 --journal data/journal
  snek report --journal data/journal --db ~/.snek/results.db`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "Log format: text, json, logfmt (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagJournal, "journal", "", "Decision journal directory (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Results database path (overrides config)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(arenaCmd)
	rootCmd.AddCommand(reportCmd)
}

// setup loads config, applies global flag overrides and builds the logger.
func setup(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.Config{}, nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = flagLogLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = flagLogFormat
	}
	if flags.Changed("journal") {
		cfg.Journal.Dir = flagJournal
	}
	if flags.Changed("db") {
		cfg.Results.DBPath = flagDBPath
	}

	logger, err := logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return config.Config{}, nil, err
	}
	slog.SetDefault(logger)
	return cfg, logger, nil
}
