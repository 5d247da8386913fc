package snapshot

import (
	"bytes"
	"testing"

	"github.com/jerryscript-project/jerryscript-sub014/internal/runtime"
)

func newTestContext(t *testing.T) *runtime.Context {
	t.Helper()
	ctx, err := runtime.New(runtime.Options{})
	if err != nil {
		t.Fatalf("runtime.New: %v", err)
	}
	return ctx
}

func TestSaveLoadRoundTripsSimpleProgram(t *testing.T) {
	src := newTestContext(t)
	code, err := src.Compile(`1 + 2 * 3;`, "round-trip.js")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	var buf bytes.Buffer
	if err := Save(&buf, src.Lits, code, src.Arena); err != nil {
		t.Fatalf("Save: %v", err)
	}

	dst := newTestContext(t)
	loaded, err := Load(&buf, dst.Lits, dst.Arena)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	result, err := dst.VM.Run(loaded)
	if err != nil {
		t.Fatalf("Run(loaded): %v", err)
	}
	n, ok := dst.Arena.ToNumber(result)
	if !ok {
		t.Fatalf("result %v is not a number", result)
	}
	if n != 7 {
		t.Fatalf("1 + 2 * 3 = %v, want 7", n)
	}
}

func TestSaveLoadRoundTripsStringLiteralsAndClosures(t *testing.T) {
	src := newTestContext(t)
	code, err := src.Compile(`
		function greet(name) {
			return "hello, " + name;
		}
		greet("world");
	`, "closure.js")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	var buf bytes.Buffer
	if err := Save(&buf, src.Lits, code, src.Arena); err != nil {
		t.Fatalf("Save: %v", err)
	}

	dst := newTestContext(t)
	loaded, err := Load(&buf, dst.Lits, dst.Arena)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	result, err := dst.VM.Run(loaded)
	if err != nil {
		t.Fatalf("Run(loaded): %v", err)
	}
	text, ok := dst.Arena.ToStringText(result)
	if !ok {
		t.Fatalf("result %v is not a string", result)
	}
	if text != "hello, world" {
		t.Fatalf("greet(\"world\") = %q, want %q", text, "hello, world")
	}
}

func TestLoadRejectsCorruptedChecksum(t *testing.T) {
	src := newTestContext(t)
	code, err := src.Compile(`"literal-table";`, "corrupt.js")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	var buf bytes.Buffer
	if err := Save(&buf, src.Lits, code, src.Arena); err != nil {
		t.Fatalf("Save: %v", err)
	}

	corrupted := buf.Bytes()
	// Flip a byte inside the literal table, past the 8-byte magic and
	// 4-byte literal count, leaving the footer checksum unchanged.
	if len(corrupted) > 20 {
		corrupted[20] ^= 0xFF
	}

	dst := newTestContext(t)
	if _, err := Load(bytes.NewReader(corrupted), dst.Lits, dst.Arena); err == nil {
		t.Fatal("Load accepted a corrupted literal table without a checksum error")
	}
}
