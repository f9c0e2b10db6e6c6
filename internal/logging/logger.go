// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging builds the process slog.Logger. Logs go to stderr so
// that stdout stays free for the MCP stdio transport and command output.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pdiddy/zenodo-mcp/pkg/types"
)

// Levels and Formats list the accepted configuration values.
var (
	Levels  = []string{"debug", "info", "warn", "error"}
	Formats = []string{"text", "json"}
)

// New returns a logger for cfg writing to stderr.
func New(cfg types.LogConfig) *slog.Logger {
	return NewWithWriter(cfg, os.Stderr)
}

// NewWithWriter returns a logger for cfg writing to w. Unknown levels fall
// back to info and unknown formats to text; Validate reports them.
func NewWithWriter(cfg types.LogConfig, w io.Writer) *slog.Logger {
	lvl, err := ParseLevel(cfg.Level)
	if err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler).With("service", "zenodo-mcp")
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// ParseLevel maps a level name to a slog.Level. Empty means info.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q (use %s)", level, strings.Join(Levels, ", "))
	}
}

// Validate checks the level and format names.
func Validate(cfg types.LogConfig) error {
	if _, err := ParseLevel(cfg.Level); err != nil {
		return err
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", "text", "json":
		return nil
	default:
		return fmt.Errorf("unknown log format %q (use %s)", cfg.Format, strings.Join(Formats, " or "))
	}
}
