package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nickburris/battlesnake/arena"
	"github.com/nickburris/battlesnake/logging"
)

var (
	flagGames     int
	flagSnakes    int
	flagWidth     int
	flagHeight    int
	flagParallel  int
	flagMaxTurns  int
	flagArenaSeed int64
	flagTUI       bool
)

var arenaCmd = &cobra.Command{
	Use:   "arena",
	Short: "Play local games between engine-driven snakes",
	Long: `Play games locally with standard rules. Every snake is driven by its
own engine through the same session store the server uses.

Examples:
  snek arena --games 100
  snek arena --games 500 --snakes 4 --parallel 8 --journal data/journal
  snek arena --snakes 1 --width 7 --height 7 --tui`,
	RunE: runArena,
}

func init() {
	def := arena.DefaultConfig()
	arenaCmd.Flags().IntVar(&flagGames, "games", def.Games, "Number of games to play")
	arenaCmd.Flags().IntVar(&flagSnakes, "snakes", def.Snakes, "Snakes per game (1 plays solo)")
	arenaCmd.Flags().IntVar(&flagWidth, "width", def.Width, "Board width")
	arenaCmd.Flags().IntVar(&flagHeight, "height", def.Height, "Board height")
	arenaCmd.Flags().IntVar(&flagParallel, "parallel", def.Parallel, "Games played concurrently")
	arenaCmd.Flags().IntVar(&flagMaxTurns, "max-turns", def.MaxTurns, "Stop a game after this many turns (0 = no limit)")
	arenaCmd.Flags().Int64Var(&flagArenaSeed, "seed", 0, "RNG seed for boards and engines (0 = random based on time)")
	arenaCmd.Flags().BoolVar(&flagTUI, "tui", false, "Show live progress instead of logging each game")
}

func runArena(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}

	sk, err := openSinks(cfg, logger)
	if err != nil {
		return err
	}
	defer sk.close()

	ac := arena.DefaultConfig()
	ac.Games = flagGames
	ac.Snakes = flagSnakes
	ac.Width = flagWidth
	ac.Height = flagHeight
	ac.Parallel = flagParallel
	ac.MaxTurns = flagMaxTurns
	ac.Engine = cfg.Strategy.Engine()
	if flagArenaSeed != 0 {
		ac.Seed = flagArenaSeed
		ac.Engine.Seed = flagArenaSeed
	}
	ac.Journal = sk.journal
	ac.Results = sk.results
	ac.Logger = logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if flagTUI {
		return runArenaTUI(ctx, ac)
	}

	results, err := arena.Run(ctx, ac)
	if err != nil {
		return err
	}
	printArenaSummary(results)
	return nil
}

// runArenaTUI plays the games in the background and renders progress. The
// TUI owns the terminal, so game logs are dropped.
func runArenaTUI(ctx context.Context, ac arena.Config) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	updates := make(chan arena.GameResult, ac.Games)
	done := make(chan runDone, 1)
	ac.Logger = logging.Discard()
	ac.OnResult = func(res arena.GameResult) { updates <- res }
	ac.OnTurn = func() { totalTurns.Add(1) }

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		results, err := arena.Run(ctx, ac)
		done <- runDone{results: results, err: err}
	}()

	p := tea.NewProgram(newArenaModel(ac.Games, updates, done))
	final, err := p.Run()
	// Quitting early stops the remaining games before the sinks close.
	cancel()
	<-finished
	if err != nil {
		return err
	}
	m := final.(arenaModel)
	if m.err != nil {
		return m.err
	}
	if m.results != nil {
		printArenaSummary(m.results)
	}
	return nil
}

func printArenaSummary(results []arena.GameResult) {
	wins := make(map[string]int)
	turns := 0
	for _, r := range results {
		if r.Winner == "" {
			wins["(none)"]++
		} else {
			wins[r.Winner]++
		}
		turns += r.Turns
	}
	fmt.Printf("Games: %d\n", len(results))
	if len(results) > 0 {
		fmt.Printf("Avg turns: %.1f\n", float64(turns)/float64(len(results)))
	}
	fmt.Println()
	fmt.Printf("  %-10s  %s\n", "Winner", "Games")
	fmt.Printf("  %-10s  %s\n", "------", "-----")
	for _, name := range sortedKeys(wins) {
		fmt.Printf("  %-10s  %d\n", name, wins[name])
	}
}
