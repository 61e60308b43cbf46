// Package logging builds the slog loggers used across dragdom. Records are
// rendered by charmbracelet/log so terminal output is readable while call
// sites stay on log/slog.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/log"
)

// ParseFormat maps "text", "json" and "logfmt" to a formatter.
func ParseFormat(s string) (log.Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return log.TextFormatter, nil
	case "json":
		return log.JSONFormatter, nil
	case "logfmt":
		return log.LogfmtFormatter, nil
	}
	return log.TextFormatter, fmt.Errorf("unknown log format %q", s)
}

// New returns a logger writing to w at the given level ("debug", "info",
// "warn", "error") and format.
func New(w io.Writer, level, format string) (*slog.Logger, error) {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		level = "info"
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	formatter, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}

	handler := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "dragdom",
		Level:           lvl,
		Formatter:       formatter,
	})
	return slog.New(handler), nil
}

// Discard returns a logger that drops everything, for tests and quiet CLI
// runs.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
