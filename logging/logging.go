// Package logging routes slog output to a rotating file.
//
// The terminal belongs to the compositor, so nothing is ever logged to
// stdout or stderr; without a log file all output is discarded.
package logging

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// MaxLogSize is the size above which an existing log is rotated on startup
const MaxLogSize = 10 * 1024 * 1024

// Setup installs the default logger and returns it with the open file
// With debug false and no path, logs are discarded and the file is nil.
// Debug enables debug-level records; otherwise info and above are kept.
func Setup(debug bool, path string) (*slog.Logger, *os.File, error) {
	if !debug && path == "" {
		logger := slog.New(slog.DiscardHandler)
		install(logger, io.Discard)
		return logger, nil, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating log dir: %w", err)
	}
	if err := rotate(path); err != nil {
		return nil, nil, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	install(logger, f)
	logger.Info("logging started", "pid", os.Getpid(), "debug", debug)
	return logger, f, nil
}

// install makes logger the default and points the stdlib log package at w
func install(logger *slog.Logger, w io.Writer) {
	slog.SetDefault(logger)
	log.SetOutput(w)
}

// rotate moves path aside with a timestamp suffix when it exceeds MaxLogSize
func rotate(path string) error {
	info, err := os.Stat(path)
	if err != nil || info.Size() <= MaxLogSize {
		return nil
	}
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	rotated := fmt.Sprintf("%s-%s%s", base, time.Now().Format("20060102-150405"), ext)
	if err := os.Rename(path, rotated); err != nil {
		return fmt.Errorf("rotating log: %w", err)
	}
	return nil
}
