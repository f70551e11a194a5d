// Package logging builds the process logger: a charmbracelet/log handler
// behind the standard slog API.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

type Options struct {
	Level  string // debug, info, warn, error
	Format string // text, json, logfmt, pretty
	Prefix string
	Writer io.Writer
}

// New returns a slog logger writing through charmbracelet/log.
func New(opts Options) (*slog.Logger, error) {
	level := log.InfoLevel
	if opts.Level != "" {
		l, err := log.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = l
	}

	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	var formatter log.Formatter
	switch strings.ToLower(opts.Format) {
	case "pretty":
		return slog.New(newPrettyHandler(w, slogLevel(level))), nil
	case "", "text":
		formatter = log.TextFormatter
	case "json":
		formatter = log.JSONFormatter
	case "logfmt":
		formatter = log.LogfmtFormatter
	default:
		return nil, fmt.Errorf("invalid log format %q", opts.Format)
	}

	prefix := opts.Prefix
	if prefix == "" {
		prefix = "snek"
	}

	handler := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
		Formatter:       formatter,
	})
	return slog.New(handler), nil
}

func slogLevel(l log.Level) slog.Level {
	switch {
	case l <= log.DebugLevel:
		return slog.LevelDebug
	case l <= log.InfoLevel:
		return slog.LevelInfo
	case l <= log.WarnLevel:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
