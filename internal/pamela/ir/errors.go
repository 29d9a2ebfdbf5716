package ir

import (
	"fmt"

	"github.com/dekarrin/rosed"
)

// ErrorClass partitions CompileError into I/O, lex/parse, ambiguous
// grammar, structural IR, semantic, and dependency errors. It
// exists purely for the logger and for callers who want to branch on error
// category; the message text is always the authoritative, single-line
// description.
type ErrorClass int

const (
	ErrIO ErrorClass = iota
	ErrParse
	ErrAmbiguous
	ErrStructural
	ErrSemantic
	ErrDependency
)

// CompileError is the one-line error record produced by any stage of the
// compiler, carrying an optional source position so a terminal-facing
// caller can render a cursor under the offending text.
type CompileError struct {
	Class ErrorClass
	File  string
	Msg   string

	// Line/Pos are 1-indexed; zero means "not applicable" (e.g. a
	// structural meta error has no source position).
	Line int
	Pos  int

	// SourceLine is the exact text of the line the error occurred on, used
	// only for FullMessage's cursor rendering.
	SourceLine string
}

func (e *CompileError) Error() string {
	if e.Line == 0 {
		return e.Msg
	}
	return fmt.Sprintf("%s (line %d, char %d)", e.Msg, e.Line, e.Pos)
}

// FullMessage renders the error message along with the offending source
// line and a cursor pointing at the exact column, wrapped at a
// terminal-friendly width with rosed.
func (e *CompileError) FullMessage() string {
	msg := e.Error()
	if e.SourceLine == "" {
		return msg
	}

	cursor := ""
	for i := 0; i < e.Pos-1; i++ {
		cursor += " "
	}
	cursor += "^"

	annotated := rosed.Edit(e.SourceLine + "\n" + cursor).Wrap(100).String()
	return annotated + "\n" + msg
}

// IOError builds the class-1 error: "parse: input file not found: PATH".
func IOError(file string) *CompileError {
	return &CompileError{Class: ErrIO, File: file, Msg: fmt.Sprintf("parse: input file not found: %s", file)}
}

// ParseError builds the class-2 error: "parse: invalid input file: PATH".
func ParseError(file string, line, pos int, sourceLine, detail string) *CompileError {
	msg := fmt.Sprintf("parse: invalid input file: %s", file)
	if detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, detail)
	}
	return &CompileError{Class: ErrParse, File: file, Msg: msg, Line: line, Pos: pos, SourceLine: sourceLine}
}

// AmbiguousError builds the class-3 error.
func AmbiguousError(file string) *CompileError {
	return &CompileError{Class: ErrAmbiguous, File: file, Msg: fmt.Sprintf("parse: grammar is ambiguous for input file: %s", file)}
}

// Structuralf builds a class-4 structural IR error with a formatted
// message (e.g. "defpclass meta :KEY must be TYPE (not \"VALUE\")").
func Structuralf(format string, args ...any) *CompileError {
	return &CompileError{Class: ErrStructural, Msg: fmt.Sprintf(format, args...)}
}

// Semanticf builds a class-5 semantic error.
func Semanticf(format string, args ...any) *CompileError {
	return &CompileError{Class: ErrSemantic, Msg: fmt.Sprintf(format, args...)}
}

// Dependencyf builds a class-6 dependency error.
func Dependencyf(format string, args ...any) *CompileError {
	return &CompileError{Class: ErrDependency, Msg: fmt.Sprintf(format, args...)}
}
