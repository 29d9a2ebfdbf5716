// Package plog is the compiler's logger. It wraps the standard library
// "log" package rather than pulling in a structured logging library.
package plog

import (
	"io"
	"log"
	"os"

	"github.com/google/uuid"
)

// Logger writes ERROR/WARN-level compiler diagnostics, tagged with a
// per-compile correlation id so that concurrent callers of the library
// (even though a single compile itself is single-threaded) can tell their
// diagnostics apart in a shared log stream.
type Logger struct {
	std *log.Logger
	id  string
}

// New returns a Logger stamped with a fresh correlation id.
func New() *Logger {
	return NewWithWriter(os.Stderr)
}

// NewWithWriter returns a Logger writing to w instead of os.Stderr, for
// tests and embedding callers that capture diagnostics.
func NewWithWriter(w io.Writer) *Logger {
	return &Logger{
		std: log.New(w, "[pamela] ", log.LstdFlags),
		id:  uuid.NewString(),
	}
}

// ID returns this logger's correlation id.
func (l *Logger) ID() string { return l.id }

// Error logs a compiler error at ERROR level.
func (l *Logger) Error(format string, args ...any) {
	l.std.Printf("ERROR [%s] "+format, append([]any{l.id}, args...)...)
}

// Warn logs a non-fatal diagnostic, such as the "literal escaped
// disambiguation" warning or the legacy field.:member deprecation notice.
func (l *Logger) Warn(format string, args ...any) {
	l.std.Printf("WARN [%s] "+format, append([]any{l.id}, args...)...)
}
