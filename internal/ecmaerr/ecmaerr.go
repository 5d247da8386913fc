// Package ecmaerr defines the engine's own error catalog: the seven
// standard ECMAScript error constructors (spec §4.2's numeric/type
// semantics and the parser's early-error catalog both report through
// this set) plus a distinguished out-of-memory sentinel. It is a Go-level
// diagnostic type — the interpreter is responsible for materializing a
// *Diagnostic into a real heap Error object when the script can observe
// it (via value.Arena), the same way a syntax error surfaces straight to
// the embedder without ever becoming a script-visible value.
package ecmaerr

import (
	"fmt"
	"strings"
)

// Kind names one of the seven standard error constructors ECMA-262
// defines (15.11), plus the one this engine's own diagnostics need
// beyond the call-stack-surfaced standard set (OutOfMemoryError).
type Kind string

const (
	Error          Kind = "Error"
	EvalError      Kind = "EvalError"
	RangeError     Kind = "RangeError"
	ReferenceError Kind = "ReferenceError"
	SyntaxError    Kind = "SyntaxError"
	TypeError      Kind = "TypeError"
	URIError       Kind = "URIError"

	// OutOfMemoryError is not part of ECMA-262; it surfaces a
	// heap.ErrOutOfMemory that survived a full GC at critical severity
	// (spec §4.1 "Only after critical severity still fails does
	// allocation abort the runtime").
	OutOfMemoryError Kind = "OutOfMemoryError"
)

// Location is a source position, used by parser/lexer diagnostics.
type Location struct {
	File   string
	Line   int
	Column int
}

// Frame is one call-stack entry attached to a runtime (not parse-time)
// diagnostic.
type Frame struct {
	Function string
	File     string
	Line     int
	Column   int
}

// Diagnostic is the engine's internal representation of an error before
// it is either reported to the embedder (parse-time) or turned into a
// thrown script value (run-time).
type Diagnostic struct {
	Kind      Kind
	Message   string
	Location  Location
	CallStack []Frame
	Source    string // the offending source line, when available
}

func (d *Diagnostic) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s: %s\n", d.Kind, d.Message))

	if d.Location.File != "" {
		sb.WriteString(fmt.Sprintf("  at %s:%d:%d\n", d.Location.File, d.Location.Line, d.Location.Column))
		if d.Source != "" {
			prefix := fmt.Sprintf("  %d | ", d.Location.Line)
			sb.WriteString(fmt.Sprintf("\n%s%s\n", prefix, d.Source))
			sb.WriteString(strings.Repeat(" ", len(prefix)))
			if d.Location.Column > 0 {
				sb.WriteString(strings.Repeat(" ", d.Location.Column-1))
			}
			sb.WriteString("^\n")
		}
	}

	if len(d.CallStack) > 0 {
		sb.WriteString("\nCall Stack:\n")
		for _, f := range d.CallStack {
			if f.Function != "" {
				sb.WriteString(fmt.Sprintf("  at %s (%s:%d:%d)\n", f.Function, f.File, f.Line, f.Column))
			} else {
				sb.WriteString(fmt.Sprintf("  at %s:%d:%d\n", f.File, f.Line, f.Column))
			}
		}
	}
	return sb.String()
}

// NewSyntaxError builds a parse-time SyntaxError at the given location.
func NewSyntaxError(message, file string, line, column int) *Diagnostic {
	return &Diagnostic{Kind: SyntaxError, Message: message, Location: Location{File: file, Line: line, Column: column}}
}

// NewTypeError builds a TypeError as the interpreter reports it — run-
// time diagnostics rarely carry a source file/line, since the bytecode
// may have come from eval or a snapshot with no retained text.
func NewTypeError(message string) *Diagnostic {
	return &Diagnostic{Kind: TypeError, Message: message}
}

// NewReferenceError builds a ReferenceError, e.g. for resolving an
// undeclared binding or assigning to one in strict mode (spec §4.6).
func NewReferenceError(message string) *Diagnostic {
	return &Diagnostic{Kind: ReferenceError, Message: message}
}

// NewRangeError builds a RangeError, e.g. for an out-of-range array
// length or a recursion/stack-depth limit.
func NewRangeError(message string) *Diagnostic {
	return &Diagnostic{Kind: RangeError, Message: message}
}

// NewOutOfMemoryError wraps a heap allocation failure that survived
// critical-severity GC escalation.
func NewOutOfMemoryError(cause error) *Diagnostic {
	return &Diagnostic{Kind: OutOfMemoryError, Message: cause.Error()}
}

// WithSource attaches the offending source line for a caret-pointer
// rendering in Error().
func (d *Diagnostic) WithSource(source string) *Diagnostic {
	d.Source = source
	return d
}

// WithStack replaces the call stack wholesale.
func (d *Diagnostic) WithStack(stack []Frame) *Diagnostic {
	d.CallStack = stack
	return d
}

// PushFrame appends one call-stack frame, innermost call last.
func (d *Diagnostic) PushFrame(function, file string, line, column int) *Diagnostic {
	d.CallStack = append(d.CallStack, Frame{Function: function, File: file, Line: line, Column: column})
	return d
}
