package vmem

import (
	"io"
	"log/slog"
	"math"
	"os"
	"sync/atomic"
)

// Logger wraps slog.Logger for the mapping engine's diagnostics. All
// engine output is at debug level; nothing is logged unless a caller
// installs a logger via SetLogger.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger with the given handler. If handler is nil,
// a text handler to stderr at info level is used.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NoopLogger creates a Logger that discards all output. This is the
// package default.
func NoopLogger() *Logger {
	// slog.DiscardHandler requires Go 1.24; this handler is equivalent
	// because no level is ever enabled.
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(math.MaxInt),
	}))}
}

var defaultLogger atomic.Pointer[Logger]

func init() {
	defaultLogger.Store(NoopLogger())
}

// SetLogger installs the logger used by package-level operations.
// Passing nil restores the discarding default.
func SetLogger(l *Logger) {
	if l == nil {
		l = NoopLogger()
	}
	defaultLogger.Store(l)
}

func logger() *Logger {
	return defaultLogger.Load()
}
