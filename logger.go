package pixio

import (
	"log/slog"

	"github.com/gogpu/pixio/internal/logging"
)

// SetLogger configures the logger for pixio and all its sub-packages.
// By default, pixio produces no log output. Call SetLogger to enable logging.
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by pixio:
//   - [slog.LevelDebug]: conversions, texture transfers, cancellation
//   - [slog.LevelInfo]: session lifecycle (backend chosen, decode finished)
//   - [slog.LevelWarn]: backend warnings about malformed auxiliary data
//
// Example:
//
//	// Enable info-level logging to stderr:
//	pixio.SetLogger(slog.Default())
//
//	// Enable debug-level logging for full diagnostics:
//	pixio.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	logging.Set(l)
}

// Logger returns the current logger used by pixio.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return logging.Logger()
}
