// Package runtime wires a heap, arena, collector, literal store and
// interpreter into one ready-to-use instance: the "runtime-init" the
// embedder-facing surface names, and the thing cmd/jerry and
// internal/repl both drive instead of poking internal/heap or
// internal/interp directly. Several instances may coexist in one
// process — each gets its own heap region and its own uuid-stamped
// identity — since nothing here is package-level state.
package runtime

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/jerryscript-project/jerryscript-sub014/internal/builtins"
	"github.com/jerryscript-project/jerryscript-sub014/internal/compiler"
	"github.com/jerryscript-project/jerryscript-sub014/internal/ecmaerr"
	"github.com/jerryscript-project/jerryscript-sub014/internal/gc"
	"github.com/jerryscript-project/jerryscript-sub014/internal/heap"
	"github.com/jerryscript-project/jerryscript-sub014/internal/interp"
	"github.com/jerryscript-project/jerryscript-sub014/internal/lexer"
	"github.com/jerryscript-project/jerryscript-sub014/internal/literal"
	"github.com/jerryscript-project/jerryscript-sub014/internal/microtask"
	"github.com/jerryscript-project/jerryscript-sub014/internal/parser"
	"github.com/jerryscript-project/jerryscript-sub014/internal/value"
)

// Options configures a Context at construction. Zero values pick the
// defaults a small embedded target would: a 512 KiB heap, GC triggered
// once a quarter of it is live.
type Options struct {
	HeapSize    int    // bytes; 0 means DefaultHeapSize
	GCThreshold uint64 // live-byte threshold that triggers collection; 0 means HeapSize/4
	Strict      bool   // every Eval/Compile runs under an implicit "use strict"
}

// DefaultHeapSize is the region size used when Options.HeapSize is zero,
// sized for the "resource-constrained device" target rather than a
// workstation default.
const DefaultHeapSize = 512 * 1024

// Context is one independent runtime instance: its own heap region,
// literal store, collector and interpreter. Compile/Eval are the
// embedder-facing entry points; cmd/jerry and internal/repl never touch
// internal/heap or internal/interp directly.
type Context struct {
	ID uuid.UUID

	Heap       *heap.Heap
	Arena      *value.Arena
	Lits       *literal.Store
	GC         *gc.Collector
	VM         *interp.Interpreter
	Microtasks *microtask.Queue
	Options    Options
}

// New builds a fully wired Context: heap, arena, literal store,
// collector, interpreter, and every standard built-in installed on the
// interpreter's global object.
func New(opts Options) (*Context, error) {
	size := opts.HeapSize
	if size <= 0 {
		size = DefaultHeapSize
	}
	threshold := opts.GCThreshold
	if threshold == 0 {
		threshold = uint64(size) / 4
	}

	id := uuid.New()
	h, err := heap.New(size, id.String())
	if err != nil {
		return nil, fmt.Errorf("runtime: create heap: %w", err)
	}

	arena := value.NewArena(h)
	lits := literal.New(arena)
	collector := gc.New(arena, threshold)

	vm, err := interp.New(arena, lits, collector)
	if err != nil {
		return nil, fmt.Errorf("runtime: create interpreter: %w", err)
	}
	jobs := microtask.New()
	vm.SetMicrotaskQueue(jobs)
	if err := builtins.Install(vm); err != nil {
		return nil, fmt.Errorf("runtime: install builtins: %w", err)
	}

	return &Context{
		ID:         id,
		Heap:       h,
		Arena:      arena,
		Lits:       lits,
		GC:         collector,
		VM:         vm,
		Microtasks: jobs,
		Options:    Options{HeapSize: size, GCThreshold: threshold, Strict: opts.Strict},
	}, nil
}

// Compile lexes, parses and emits bytecode for source, returning the
// heap-resident CompiledCode header ready for Run/Eval. file names the
// source for diagnostics; pass "" for anonymous/eval sources.
func (ctx *Context) Compile(source, file string) (*value.CompiledCode, error) {
	scanner := lexer.NewScanner(source, file)
	tokens, err := scanner.ScanTokens()
	if err != nil {
		return nil, err
	}

	p := parser.NewParserWithSource(tokens, source, file)
	stmts, err := p.ParseProgram()
	if err != nil {
		return nil, err
	}

	c := compiler.New(ctx.Lits, file)
	result, err := c.CompileProgram(stmts, ctx.Options.Strict)
	if err != nil {
		return nil, err
	}

	codeV, err := ctx.Arena.NewCompiledCode(result.Chunk, result.ConstantPool, result.Children,
		result.ParamNames, result.RestParam, result.ArgCount, result.RegCount, result.Flags)
	if err != nil {
		return nil, err
	}
	code, ok := ctx.Arena.CodeAt(codeV)
	if !ok {
		return nil, ecmaerr.NewTypeError("runtime: compiled code header missing after allocation")
	}
	return code, nil
}

// Eval compiles and runs source as a top-level program, returning the
// value of its final statement when that is an expression statement
// (Undefined otherwise). Once the program
// returns, any Promise-reaction jobs it scheduled are drained to
// completion before Eval returns — the "run jobs until the microtask
// queue is empty" step ECMA-262's host-level RunJobs performs between
// top-level script executions.
func (ctx *Context) Eval(source, file string) (value.Value, error) {
	code, err := ctx.Compile(source, file)
	if err != nil {
		return value.Undefined, err
	}
	result, err := ctx.VM.Run(code)
	if err != nil {
		return result, err
	}
	if err := ctx.Microtasks.Drain(); err != nil {
		return result, err
	}
	return result, nil
}

// Stats renders a human-readable snapshot of heap occupancy, the form
// cmd/jerry's --mem-stats flag prints.
func (ctx *Context) Stats() string {
	return ctx.Heap.Stats()
}
