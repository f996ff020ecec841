package genalloc

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with helpers for allocator events, so every
// record about a block uses the same attribute names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger from handler.
// A nil handler logs Info and above as text to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		return NewTextLogger(slog.LevelInfo)
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger creates a Logger writing JSON records at or above level to stderr.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewTextLogger creates a Logger writing key=value records at or above level to stderr.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NoopLogger creates a Logger that discards all records. It is the default.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithClass returns a Logger that tags every record with a size class.
func (l *Logger) WithClass(class uintptr) *Logger {
	return &Logger{
		Logger: l.Logger.With("class", class),
	}
}

// LogGrow logs the acquisition of a new backing chunk.
func (l *Logger) LogGrow(chunk, bytes int, backing Backing) {
	l.Debug("backing chunk acquired",
		"chunk", chunk,
		"bytes", bytes,
		"backing", backing.String(),
	)
}

// LogDoubleFree logs a free of a block that was already on the free list.
func (l *Logger) LogDoubleFree(addr uintptr, gen uint64) {
	l.Warn("block freed twice",
		"addr", addr,
		"generation", gen,
	)
}

// LogStale logs a detected use after free.
func (l *Logger) LogStale(addr uintptr, want, got uint64) {
	l.Error("stale reference dereferenced",
		"addr", addr,
		"want_generation", want,
		"got_generation", got,
	)
}

// LogAllocFailure logs a backing store failure.
func (l *Logger) LogAllocFailure(class, align uintptr, err error) {
	l.Error("allocation failed",
		"class", class,
		"align", align,
		"error", err,
	)
}
