package interp

import (
	"testing"

	"github.com/jerryscript-project/jerryscript-sub014/internal/compiler"
	"github.com/jerryscript-project/jerryscript-sub014/internal/gc"
	"github.com/jerryscript-project/jerryscript-sub014/internal/heap"
	"github.com/jerryscript-project/jerryscript-sub014/internal/lexer"
	"github.com/jerryscript-project/jerryscript-sub014/internal/literal"
	"github.com/jerryscript-project/jerryscript-sub014/internal/parser"
	"github.com/jerryscript-project/jerryscript-sub014/internal/value"
)

// newTestInterpreter wires the same arena/literal-store/GC stack Run's
// caller (eventually cmd/jerry) assembles, sized small enough that a
// runaway test trips the heap limit instead of eating test-runner memory.
func newTestInterpreter(t *testing.T) *Interpreter {
	t.Helper()
	h, err := heap.New(1<<22, "interp-test-heap")
	if err != nil {
		t.Fatalf("heap.New: %v", err)
	}
	arena := value.NewArena(h)
	lits := literal.New(arena)
	collector := gc.New(arena, 1<<21)
	vm, err := New(arena, lits, collector)
	if err != nil {
		t.Fatalf("interp.New: %v", err)
	}
	return vm
}

// run compiles and executes src against a fresh interpreter. run discards
// the script's completion value, so a test script reports its result by
// assigning a global `var`, read back afterward with global(vm, name).
func run(t *testing.T, src string) (*Interpreter, error) {
	t.Helper()
	vm := newTestInterpreter(t)

	toks, err := lexer.NewScanner(src, "t.js").ScanTokens()
	if err != nil {
		t.Fatalf("scan(%q): %v", src, err)
	}
	stmts, err := parser.NewParserWithSource(toks, src, "t.js").ParseProgram()
	if err != nil {
		t.Fatalf("parse(%q): %v", src, err)
	}
	res, err := compiler.New(vm.Lits, "t.js").CompileProgram(stmts, false)
	if err != nil {
		t.Fatalf("compile(%q): %v", src, err)
	}
	codeV, err := vm.Arena.NewCompiledCode(res.Chunk, res.ConstantPool, res.Children, res.ParamNames, res.RestParam, res.ArgCount, res.RegCount, res.Flags)
	if err != nil {
		t.Fatalf("NewCompiledCode(%q): %v", src, err)
	}
	code, ok := vm.Arena.CodeAt(codeV)
	if !ok {
		t.Fatalf("CodeAt(%q): not a compiled-code value", src)
	}
	_, err = vm.Run(code)
	return vm, err
}

func runOK(t *testing.T, src string) *Interpreter {
	t.Helper()
	vm, err := run(t, src)
	if err != nil {
		t.Fatalf("run(%q) error: %v", src, err)
	}
	return vm
}

// global reads a top-level `var`/`function` binding back off the global
// object, where execDeclareVar's object-bound environment puts it.
func global(t *testing.T, vm *Interpreter, name string) value.Value {
	t.Helper()
	o, ok := vm.Arena.ObjAt(vm.GlobalObj)
	if !ok {
		t.Fatalf("global object missing")
	}
	key, err := vm.Arena.NewString(name)
	if err != nil {
		t.Fatalf("NewString(%q): %v", name, err)
	}
	slot, ok := vm.Arena.FindOwnProperty(o, key)
	if !ok {
		t.Fatalf("global %q was never set", name)
	}
	return slot.Value
}

func wantNumber(t *testing.T, vm *Interpreter, v value.Value, want float64) {
	t.Helper()
	n, ok := vm.Arena.ToNumber(v)
	if !ok || n != want {
		t.Fatalf("got %v, want number %v", v, want)
	}
}

func wantString(t *testing.T, vm *Interpreter, v value.Value, want string) {
	t.Helper()
	s, ok := vm.Arena.ToStringText(v)
	if !ok || s != want {
		t.Fatalf("got %v, want string %q", v, want)
	}
}

func TestArithmeticPrecedence(t *testing.T) {
	vm := runOK(t, "var result = 1 + 2 * 3;")
	wantNumber(t, vm, global(t, vm, "result"), 7)
}

func TestStringConcatenation(t *testing.T) {
	vm := runOK(t, `var result = "foo" + "bar";`)
	wantString(t, vm, global(t, vm, "result"), "foobar")
}

func TestMixedAddCoercesToString(t *testing.T) {
	vm := runOK(t, `var result = "x" + 1;`)
	wantString(t, vm, global(t, vm, "result"), "x1")
}

func TestVarLetConstAndClosures(t *testing.T) {
	vm := runOK(t, `
		function counter() {
			let n = 0;
			return function() { n = n + 1; return n; };
		}
		var c = counter();
		c();
		c();
		var result = c();
	`)
	wantNumber(t, vm, global(t, vm, "result"), 3)
}

func TestIfElseBranching(t *testing.T) {
	vm := runOK(t, `
		var x = 10;
		var result;
		if (x > 5) { result = "big"; } else { result = "small"; }
	`)
	wantString(t, vm, global(t, vm, "result"), "big")
}

func TestWhileLoopAccumulates(t *testing.T) {
	vm := runOK(t, `
		var i = 0;
		var result = 0;
		while (i < 5) { result = result + i; i = i + 1; }
	`)
	wantNumber(t, vm, global(t, vm, "result"), 10)
}

func TestObjectAndArrayLiterals(t *testing.T) {
	vm := runOK(t, `
		var o = { a: 1, b: 2 };
		var arr = [o.a, o.b, o.a + o.b];
		var result = arr[2];
	`)
	wantNumber(t, vm, global(t, vm, "result"), 3)
}

func TestTryCatchRecoversThrownValue(t *testing.T) {
	vm := runOK(t, `
		var result;
		try {
			throw "boom";
		} catch (e) {
			result = "caught:" + e;
		}
	`)
	wantString(t, vm, global(t, vm, "result"), "caught:boom")
}

func TestTryWithoutCatchRunsFinally(t *testing.T) {
	vm := runOK(t, `
		var log = "";
		function f() {
			try {
				log = log + "try;";
			} finally {
				log = log + "finally;";
			}
		}
		f();
	`)
	wantString(t, vm, global(t, vm, "log"), "try;finally;")
}

func TestClassInstanceMethodAndInheritance(t *testing.T) {
	vm := runOK(t, `
		class Animal {
			constructor(name) { this.name = name; }
			speak() { return this.name + " makes a sound"; }
		}
		class Dog extends Animal {
			speak() { return super.speak() + ", specifically a bark"; }
		}
		var d = new Dog("Rex");
		var result = d.speak();
	`)
	wantString(t, vm, global(t, vm, "result"), "Rex makes a sound, specifically a bark")
}

func TestForOfOverArray(t *testing.T) {
	vm := runOK(t, `
		var result = 0;
		for (var x of [1, 2, 3, 4]) { result = result + x; }
	`)
	wantNumber(t, vm, global(t, vm, "result"), 10)
}

func TestForInOverObjectKeys(t *testing.T) {
	vm := runOK(t, `
		var o = { a: 1, b: 2, c: 3 };
		var result = "";
		for (var k in o) { result = result + k; }
	`)
	wantString(t, vm, global(t, vm, "result"), "abc")
}

func TestInstanceOfAndIn(t *testing.T) {
	vm := runOK(t, `
		function Foo() {}
		var f = new Foo();
		var hasProp = "x" in { x: 1 };
		var result = (f instanceof Foo) && hasProp;
	`)
	if !vm.Arena.ToBoolean(global(t, vm, "result")) {
		t.Fatalf("got %v, want truthy", global(t, vm, "result"))
	}
}

func TestAbstractEqualityCoercion(t *testing.T) {
	vm := runOK(t, `var result = (1 == "1") && (null == undefined) && (0 == false);`)
	if !vm.Arena.ToBoolean(global(t, vm, "result")) {
		t.Fatalf("got %v, want truthy", global(t, vm, "result"))
	}
}

func TestStrictEqualityRejectsCoercion(t *testing.T) {
	vm := runOK(t, `var result = (1 === "1");`)
	if vm.Arena.ToBoolean(global(t, vm, "result")) {
		t.Fatalf("got %v, want falsy", global(t, vm, "result"))
	}
}

func TestTernaryAndNullishCoalescing(t *testing.T) {
	vm := runOK(t, `
		var a = null;
		var b = a ?? "fallback";
		var result = (b === "fallback") ? "yes" : "no";
	`)
	wantString(t, vm, global(t, vm, "result"), "yes")
}

func TestLogicalShortCircuitSkipsRightSideEffect(t *testing.T) {
	vm := runOK(t, `
		var calls = 0;
		function bump() { calls = calls + 1; return true; }
		false && bump();
		true || bump();
		var result = calls;
	`)
	wantNumber(t, vm, global(t, vm, "result"), 0)
}

func TestGeneratorCollectsYieldedValues(t *testing.T) {
	vm := runOK(t, `
		function* gen() {
			yield 1;
			yield 2;
			yield 3;
		}
		var result = 0;
		for (var x of gen()) { result = result + x; }
	`)
	wantNumber(t, vm, global(t, vm, "result"), 6)
}

func TestUncaughtThrowReturnsError(t *testing.T) {
	_, err := run(t, `throw "nope";`)
	if err == nil {
		t.Fatal("expected an uncaught-exception error, got nil")
	}
}

func TestSpreadIntoArrayLiteral(t *testing.T) {
	vm := runOK(t, `
		var a = [1, 2];
		var b = [0, ...a, 3];
		var result = b[0] + b[1] + b[2] + b[3];
	`)
	wantNumber(t, vm, global(t, vm, "result"), 6)
}

func TestBitwiseAndShiftOperators(t *testing.T) {
	vm := runOK(t, `var result = (6 & 3) + (1 << 3) + (-1 >>> 28);`)
	wantNumber(t, vm, global(t, vm, "result"), 2+8+15)
}
