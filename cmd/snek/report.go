package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nickburris/battlesnake/game"
	"github.com/nickburris/battlesnake/report"
	"github.com/nickburris/battlesnake/store"
)

var flagReportLimit int

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarise journaled decisions and stored results",
	Long: `Read the parquet decision journal with duckdb and print one line per
game: turns, longest length, tail-follow and trapped turns, move mix.
When a results database is configured, the win/loss tally and the most
recent games are printed too.

Examples:
  snek report --journal data/journal
  snek report --db ~/.snek/results.db --limit 20`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().IntVar(&flagReportLimit, "limit", 10, "Games to list")
}

func runReport(cmd *cobra.Command, _ []string) error {
	cfg, _, err := setup(cmd)
	if err != nil {
		return err
	}
	if cfg.Journal.Dir == "" && cfg.Results.DBPath == "" {
		return fmt.Errorf("nothing to report: set --journal or --db")
	}
	ctx := cmd.Context()

	if cfg.Journal.Dir != "" {
		summaries, err := report.Summarize(ctx, cfg.Journal.Dir)
		if err != nil {
			return err
		}
		fmt.Printf("Journal - %s (%d games)\n\n", cfg.Journal.Dir, len(summaries))
		fmt.Printf("  %-36s  %-5s  %-6s  %-4s  %-7s  %s\n", "Game", "Turns", "MaxLen", "Tail", "Trapped", "Moves")
		fmt.Printf("  %-36s  %-5s  %-6s  %-4s  %-7s  %s\n", "----", "-----", "------", "----", "-------", "-----")
		for i, s := range summaries {
			if i == flagReportLimit {
				break
			}
			fmt.Printf("  %-36s  %-5d  %-6d  %-4d  %-7d  %s\n", s.GameID, s.Turns, s.MaxLength, s.TailFollow, s.Trapped, formatMoves(s.Moves))
		}
		fmt.Println()
	}

	if cfg.Results.DBPath != "" {
		results, err := store.OpenResults(cfg.Results.DBPath)
		if err != nil {
			return err
		}
		defer results.Close()

		tally, err := results.Tally(ctx)
		if err != nil {
			return err
		}
		recent, err := results.Recent(ctx, flagReportLimit)
		if err != nil {
			return err
		}

		fmt.Printf("Results - won %d, lost %d, draw %d\n\n", tally.Won, tally.Lost, tally.Draw)
		fmt.Printf("  %-36s  %-5s  %-6s  %-6s  %s\n", "Game", "Turns", "Result", "Length", "Date")
		fmt.Printf("  %-36s  %-5s  %-6s  %-6s  %s\n", "----", "-----", "------", "------", "----")
		for _, r := range recent {
			fmt.Printf("  %-36s  %-5d  %-6s  %-6d  %s\n", r.GameID, r.Turns, r.Outcome, r.Length, r.EndedAt.Format("2006-01-02 15:04"))
		}
	}
	return nil
}

// formatMoves prints the histogram in move order, e.g. "up:4 left:2".
func formatMoves(moves map[string]int) string {
	var parts []string
	for _, m := range game.AllMoves {
		if n := moves[m.String()]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", m, n))
		}
	}
	return strings.Join(parts, " ")
}
