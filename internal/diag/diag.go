// Package diag is the structured-logging/diagnostics-reporting surface
// cmd/jerry and internal/repl share: every "Error reading file: %v"-style
// fmt.Fprintf(os.Stderr, ...) call the teacher's cmd/sentra/main.go makes
// ad hoc, collected behind one Logger so formatting (and TTY-aware color)
// stays consistent across the CLI and the REPL.
package diag

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// Level is the severity of one logged line.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

func (l Level) label() string {
	switch l {
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

func (l Level) ansiColor() string {
	switch l {
	case LevelWarn:
		return "\033[33m"
	case LevelError:
		return "\033[31m"
	default:
		return "\033[36m"
	}
}

const ansiReset = "\033[0m"

// Logger writes leveled, optionally colorized lines to an underlying
// writer. Color is only enabled when the writer is a real terminal
// (isatty), matching internal/repl never colorizing output
// that's been piped or redirected.
type Logger struct {
	out   io.Writer
	color bool
}

// New wraps out, auto-detecting color support when out is *os.File.
func New(out io.Writer) *Logger {
	color := false
	if f, ok := out.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Logger{out: out, color: color}
}

// NewNoColor wraps out with color forced off, for log files and test
// golden output.
func NewNoColor(out io.Writer) *Logger {
	return &Logger{out: out}
}

func (lg *Logger) log(level Level, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if lg.color {
		fmt.Fprintf(lg.out, "%s%-5s%s %s\n", level.ansiColor(), level.label(), ansiReset, msg)
		return
	}
	fmt.Fprintf(lg.out, "%-5s %s\n", level.label(), msg)
}

// Info logs an informational line (compiled-ok summaries, --mem-stats
// output, REPL banners).
func (lg *Logger) Info(format string, args ...interface{}) { lg.log(LevelInfo, format, args...) }

// Warn logs a recoverable condition (a --snapshot-load checksum mismatch
// falling back to a fresh compile, an OOM callback retry).
func (lg *Logger) Warn(format string, args ...interface{}) { lg.log(LevelWarn, format, args...) }

// Error logs an unrecoverable condition the caller is about to exit or
// abort a REPL line over.
func (lg *Logger) Error(format string, args ...interface{}) { lg.log(LevelError, format, args...) }

// Diagnostic renders a parse/runtime error (an *ecmaerr.Diagnostic or any
// error implementing Error() with the same multi-line shape) verbatim,
// without the level prefix the other Logger methods add — the error's
// own Error() method already carries location/call-stack formatting.
func (lg *Logger) Diagnostic(err error) {
	fmt.Fprint(lg.out, err.Error())
}

// MemStats logs a heap/GC occupancy summary (internal/heap.Stats' or
// internal/runtime.Context.Stats' output) at Info level.
func (lg *Logger) MemStats(stats string) {
	lg.Info("%s", stats)
}
