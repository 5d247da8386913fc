package diag

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestNewNoColorNeverEmitsAnsiCodes(t *testing.T) {
	var buf bytes.Buffer
	lg := NewNoColor(&buf)
	lg.Info("compiled %s", "ok")
	lg.Warn("heap at %d%%", 80)
	lg.Error("boom")

	out := buf.String()
	if strings.Contains(out, "\033[") {
		t.Fatalf("NewNoColor logger emitted an ANSI escape:\n%q", out)
	}
	for _, want := range []string{"info  compiled ok", "warn  heap at 80%", "error boom"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestDiagnosticWritesErrorVerbatim(t *testing.T) {
	var buf bytes.Buffer
	lg := NewNoColor(&buf)
	lg.Diagnostic(errors.New("SyntaxError: unexpected token"))
	if buf.String() != "SyntaxError: unexpected token" {
		t.Fatalf("Diagnostic output = %q, want the error's Error() text verbatim", buf.String())
	}
}

func TestMemStatsLogsAtInfoLevel(t *testing.T) {
	var buf bytes.Buffer
	lg := NewNoColor(&buf)
	lg.MemStats("heap: 12 KiB/64 KiB live")
	if !strings.HasPrefix(buf.String(), "info ") {
		t.Fatalf("MemStats output = %q, want an info-level line", buf.String())
	}
}
