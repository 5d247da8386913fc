package runtime

import "testing"

func TestEvalReturnsCompletionValue(t *testing.T) {
	ctx, err := New(Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	result, err := ctx.Eval(`2 + 2;`, "t.js")
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	n, ok := ctx.Arena.ToNumber(result)
	if !ok || n != 4 {
		t.Fatalf("Eval(2 + 2) = %v, want 4", result)
	}
}

func TestEvalPersistsGlobalsAcrossCalls(t *testing.T) {
	ctx, err := New(Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := ctx.Eval(`var counter = 1;`, "a.js"); err != nil {
		t.Fatalf("Eval(decl): %v", err)
	}
	result, err := ctx.Eval(`counter = counter + 1; counter;`, "b.js")
	if err != nil {
		t.Fatalf("Eval(use): %v", err)
	}
	n, ok := ctx.Arena.ToNumber(result)
	if !ok || n != 2 {
		t.Fatalf("counter after two Eval calls = %v, want 2", result)
	}
}

func TestEvalDrainsMicrotasksBeforeReturning(t *testing.T) {
	ctx, err := New(Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	result, err := ctx.Eval(`
		var seen = 0;
		Promise.resolve(5).then(function(v) { seen = v; });
		seen;
	`, "promise.js")
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	n, ok := ctx.Arena.ToNumber(result)
	if !ok || n != 0 {
		t.Fatalf("seen observed synchronously = %v, want 0 (reaction hasn't run yet)", result)
	}

	result, err = ctx.Eval(`seen;`, "check.js")
	if err != nil {
		t.Fatalf("Eval(check): %v", err)
	}
	n, ok = ctx.Arena.ToNumber(result)
	if !ok || n != 5 {
		t.Fatalf("seen after Eval drained microtasks = %v, want 5", result)
	}
}

func TestDefaultHeapSizeAppliesWhenUnset(t *testing.T) {
	ctx, err := New(Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if ctx.Options.HeapSize != DefaultHeapSize {
		t.Fatalf("HeapSize = %d, want default %d", ctx.Options.HeapSize, DefaultHeapSize)
	}
}
