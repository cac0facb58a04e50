// SPDX-License-Identifier: EPL-2.0

// Package logging builds the process slog.Logger from configuration.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation limits for the log file.
const (
	maxSizeMB  = 50
	maxBackups = 5
	maxAgeDays = 28
)

type Options struct {
	Level  string
	Format string // text or json
	// File, when set, sends output to a rotating log file instead of Stderr.
	File string
	// Stderr defaults to os.Stderr.
	Stderr io.Writer
}

// ParseLevel converts a case-insensitive level string to slog.Level.
// An empty string returns slog.LevelInfo.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q (want debug|info|warn|error)", s)
	}
}

// New returns a logger for opts and a close function that releases the
// log file, if any. An unknown level falls back to info and is reported
// through the returned logger.
func New(opts Options) (*slog.Logger, func() error) {
	level, levelErr := ParseLevel(opts.Level)

	var w io.Writer = opts.Stderr
	if w == nil {
		w = os.Stderr
	}

	closer := func() error { return nil }

	if opts.File != "" {
		file := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
		}
		w = file
		closer = file.Close
	}

	handlerOpts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if strings.EqualFold(opts.Format, "json") {
		h = slog.NewJSONHandler(w, handlerOpts)
	} else {
		h = slog.NewTextHandler(w, handlerOpts)
	}

	logger := slog.New(h)
	if levelErr != nil {
		logger.Warn("using info level", "error", levelErr)
	}

	return logger, closer
}
