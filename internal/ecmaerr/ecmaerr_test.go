package ecmaerr

import (
	"errors"
	"strings"
	"testing"
)

func TestSyntaxErrorMessageIncludesLocationAndCaret(t *testing.T) {
	d := NewSyntaxError("unexpected token", "main.js", 3, 5).WithSource("let x = ;")
	msg := d.Error()
	if !strings.Contains(msg, "SyntaxError: unexpected token") {
		t.Fatalf("message missing kind/text: %q", msg)
	}
	if !strings.Contains(msg, "main.js:3:5") {
		t.Fatalf("message missing location: %q", msg)
	}
	if !strings.Contains(msg, "let x = ;") {
		t.Fatalf("message missing source line: %q", msg)
	}
}

func TestPushFrameAccumulatesCallStack(t *testing.T) {
	d := NewTypeError("x is not a function")
	d.PushFrame("inner", "a.js", 1, 1).PushFrame("outer", "a.js", 5, 1)
	if len(d.CallStack) != 2 {
		t.Fatalf("CallStack length = %d, want 2", len(d.CallStack))
	}
	msg := d.Error()
	if !strings.Contains(msg, "at inner (a.js:1:1)") || !strings.Contains(msg, "at outer (a.js:5:1)") {
		t.Fatalf("message missing call stack frames: %q", msg)
	}
}

func TestNewOutOfMemoryErrorWrapsCause(t *testing.T) {
	cause := errors.New("heap exhausted")
	d := NewOutOfMemoryError(cause)
	if d.Kind != OutOfMemoryError {
		t.Fatalf("Kind = %v, want OutOfMemoryError", d.Kind)
	}
	if !strings.Contains(d.Error(), "heap exhausted") {
		t.Fatalf("message does not include the wrapped cause: %q", d.Error())
	}
}
