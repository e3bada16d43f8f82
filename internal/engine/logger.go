package engine

import "log"

// Logger receives non-fatal diagnostics (saturated spans, degenerate
// fills, dropped images) that the spec says must not abort a render.
// NewEngine installs noopLogger when given a nil Logger; callers who
// want messages on stderr can pass NewStdLogger().
type Logger interface {
	Warnf(format string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Warnf(string, ...any) {}

// StdLogger adapts the standard library's log package to Logger.
type StdLogger struct{ *log.Logger }

// NewStdLogger returns a StdLogger writing through log.Default().
func NewStdLogger() StdLogger { return StdLogger{log.Default()} }

// Warnf implements Logger.
func (l StdLogger) Warnf(format string, args ...any) { l.Printf("rasterix: "+format, args...) }
