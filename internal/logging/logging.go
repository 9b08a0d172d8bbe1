// Package logging builds the process logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

type Options struct {
	// Writer defaults to os.Stderr.
	Writer io.Writer
	Level  string
	JSON   bool

	FluentEnabled bool
	FluentHost    string
	FluentPort    int
	FluentTag     string
}

func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// New returns the logger and a func that flushes and closes any remote sink.
func New(opts Options) (*slog.Logger, func() error, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	var console slog.Handler
	if opts.JSON {
		console = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	} else {
		console = tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: "2006-01-02 15:04:05",
			NoColor:    !isTerminal(w),
		})
	}

	closeFn := func() error { return nil }
	if !opts.FluentEnabled {
		return slog.New(console), closeFn, nil
	}

	client, err := fluent.New(fluent.Config{
		FluentHost: opts.FluentHost,
		FluentPort: opts.FluentPort,
		TagPrefix:  opts.FluentTag,
		Async:      true,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("fluent: %w", err)
	}
	h := newMultiHandler(console, newFluentHandler(client, level))
	return slog.New(h), client.Close, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
