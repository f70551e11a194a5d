package main

import (
	"errors"
	"log/slog"

	"github.com/nickburris/battlesnake/config"
	"github.com/nickburris/battlesnake/store"
)

// sinks are the optional journal and results store a run writes to.
type sinks struct {
	journal *store.Journal
	results *store.Results
}

func openSinks(cfg config.Config, logger *slog.Logger) (*sinks, error) {
	s := &sinks{}
	if cfg.Journal.Dir != "" {
		j, err := store.OpenJournal(cfg.Journal.Dir, cfg.Journal.FlushGames, logger)
		if err != nil {
			return nil, err
		}
		s.journal = j
	}
	if cfg.Results.DBPath != "" {
		r, err := store.OpenResults(cfg.Results.DBPath)
		if err != nil {
			s.close()
			return nil, err
		}
		s.results = r
	}
	return s, nil
}

func (s *sinks) close() error {
	var errs []error
	if s.journal != nil {
		errs = append(errs, s.journal.Close())
	}
	if s.results != nil {
		errs = append(errs, s.results.Close())
	}
	return errors.Join(errs...)
}
