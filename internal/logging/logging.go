// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging builds the process logger from the log section of the
// configuration.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pdiddy/wordpack-audit/pkg/types"
)

// New creates a *slog.Logger writing to stderr and installs it as the
// default logger.
//
// Format "json" produces one JSON object per record. Any other format
// produces text. Level is one of debug, info, warn, error
// (case-insensitive) and defaults to info.
func New(cfg types.LogConfig) *slog.Logger {
	logger := NewWriter(os.Stderr, cfg)
	slog.SetDefault(logger)
	return logger
}

// NewWriter creates a logger writing to w without touching the default logger.
func NewWriter(w io.Writer, cfg types.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var handler slog.Handler
	if strings.EqualFold(strings.TrimSpace(cfg.Format), "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
