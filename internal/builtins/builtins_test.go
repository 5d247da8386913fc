package builtins_test

import (
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

func evalNumber(t *testing.T, ctx *runtime.Context, src string) float64 {
	t.Helper()
	result, err := ctx.Eval(src, "t.js")
	if err != nil {
		t.Fatalf("Eval(%q): %v", src, err)
	}
	n, ok := ctx.Arena.ToNumber(result)
	if !ok {
		t.Fatalf("Eval(%q) = %v, not a number", src, result)
	}
	return n
}

func evalString(t *testing.T, ctx *runtime.Context, src string) string {
	t.Helper()
	result, err := ctx.Eval(src, "t.js")
	if err != nil {
		t.Fatalf("Eval(%q): %v", src, err)
	}
	text, ok := ctx.Arena.ToStringText(result)
	if !ok {
		t.Fatalf("Eval(%q) = %v, not a string", src, result)
	}
	return text
}

func TestArrayPrototypeMapFilterReduce(t *testing.T) {
	ctx := newTestContext(t)
	got := evalNumber(t, ctx, `
		[1, 2, 3, 4, 5]
			.map(function(x) { return x * 2; })
			.filter(function(x) { return x > 4; })
			.reduce(function(acc, x) { return acc + x; }, 0);
	`)
	if got != 24 { // (6+8+10) after doubling and filtering >4
		t.Fatalf("map/filter/reduce chain = %v, want 24", got)
	}
}

func TestStringPrototypeMethods(t *testing.T) {
	ctx := newTestContext(t)
	got := evalString(t, ctx, `"  Hello World  ".trim().toLowerCase().split(" ").join("-");`)
	if got != "hello-world" {
		t.Fatalf("string chain = %q, want %q", got, "hello-world")
	}
}

func TestObjectKeysAndAssign(t *testing.T) {
	ctx := newTestContext(t)
	got := evalNumber(t, ctx, `
		var base = { a: 1, b: 2 };
		var merged = Object.assign({}, base, { c: 3 });
		Object.keys(merged).length;
	`)
	if got != 3 {
		t.Fatalf("Object.keys(merged).length = %v, want 3", got)
	}
}

func TestMathAndJSONRoundTrip(t *testing.T) {
	ctx := newTestContext(t)
	got := evalNumber(t, ctx, `
		var data = { x: Math.max(1, 9, 3), y: Math.floor(4.7) };
		var parsed = JSON.parse(JSON.stringify(data));
		parsed.x + parsed.y;
	`)
	if got != 13 {
		t.Fatalf("JSON round-trip result = %v, want 13", got)
	}
}

func TestPromiseAllSettlesAfterEveryElement(t *testing.T) {
	ctx := newTestContext(t)
	if _, err := ctx.Eval(`
		var total = -1;
		Promise.all([Promise.resolve(1), Promise.resolve(2), 3]).then(function(values) {
			total = values[0] + values[1] + values[2];
		});
	`, "all.js"); err != nil {
		t.Fatalf("Eval: %v", err)
	}
	got := evalNumber(t, ctx, `total;`)
	if got != 6 {
		t.Fatalf("Promise.all total = %v, want 6", got)
	}
}

func TestPromiseCatchRunsOnRejection(t *testing.T) {
	ctx := newTestContext(t)
	if _, err := ctx.Eval(`
		var reason = "";
		Promise.reject("nope").catch(function(r) { reason = r; });
	`, "catch.js"); err != nil {
		t.Fatalf("Eval: %v", err)
	}
	got := evalString(t, ctx, `reason;`)
	if got != "nope" {
		t.Fatalf("reason = %q, want %q", got, "nope")
	}
}
