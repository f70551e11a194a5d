package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nickburris/battlesnake/server"
	"github.com/nickburris/battlesnake/session"
)

var (
	flagListen string
	flagSeed   int64
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the Battlesnake webhook API",
	Long: `Serve GET /, POST /start, POST /move and POST /end.

Every game gets its own engine. When a journal directory or results
database is configured, decisions and outcomes are recorded.

Examples:
  snek serve
  snek serve --listen :9000 --log-level debug`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagListen, "listen", "", "HTTP listen address (overrides config)")
	serveCmd.Flags().Int64Var(&flagSeed, "seed", 0, "Engine RNG seed (0 = random based on time)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("listen") {
		cfg.Server.Listen = flagListen
	}
	if cmd.Flags().Changed("seed") {
		cfg.Strategy.Seed = flagSeed
	}

	sk, err := openSinks(cfg, logger)
	if err != nil {
		return err
	}
	defer sk.close()

	a := cfg.Appearance
	srv := server.New(
		session.NewStore(server.NewFactory(cfg.Strategy.Engine(), logger)),
		server.Options{
			Info: server.InfoResponse{
				APIVersion: a.APIVersion,
				Author:     a.Author,
				Color:      a.Color,
				Head:       a.Head,
				Tail:       a.Tail,
				Version:    a.Version,
			},
			Journal: sk.journal,
			Results: sk.results,
			Logger:  logger,
		},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.ListenAndServe(ctx, cfg.Server.Listen, cfg.Server.ReadHeaderTimeout)
}
