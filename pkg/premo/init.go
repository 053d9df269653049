// Package premo provides presentation models: a tree of UI-independent state
// holders whose lifecycles follow their parents, whose state survives process
// death through a keyed store, and which navigators attach and detach as the
// user moves around.
//
// The package holds the core: Lifecycle, Action, PresentationModel, the state
// store contract and the precondition errors. Navigators live in the
// navigation package, persistent backends in saver and the host-side driver
// in host.
package premo

import (
	"context"
	"log/slog"

	"github.com/BrandonKowalski/premo/pkg/premo/internal"
)

// SetLogPath sets the full path for the log file, including filename.
// Creates all necessary parent directories.
// Call before the first log line to take effect.
func SetLogPath(path string) {
	internal.SetLogPath(path)
}

// GetLogger returns the application logger for structured logging.
func GetLogger() *slog.Logger {
	return internal.GetLogger()
}

// SetLogLevel sets the minimum log level for the application logger.
func SetLogLevel(level slog.Level) {
	internal.SetLogLevel(level)
}

// SetRawLogLevel parses and sets the log level from a string (e.g., "debug", "info", "error").
func SetRawLogLevel(level string) {
	internal.SetRawLogLevel(level)
}

// SetDebug turns lifecycle and navigation tracing on or off.
func SetDebug(enabled bool) {
	if enabled {
		internal.SetInternalLogLevel(slog.LevelDebug)
		return
	}
	internal.SetInternalLogLevel(slog.LevelError)
}

// Debug reports whether lifecycle and navigation tracing is on.
func Debug() bool {
	return internal.GetInternalLogger().Enabled(context.Background(), slog.LevelDebug)
}

// CloseLogger closes the log file, if one was opened.
func CloseLogger() {
	internal.CloseLogger()
}
