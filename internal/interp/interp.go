// Package interp runs the bytecode package compiler emits: the
// fetch-decode-dispatch loop, call-frame management, and the lexical
// environment/heap-object operations every opcode ultimately bottoms out
// in (spec §4.6 "Interpreter & Built-in Dispatch"). It consumes exactly
// the stack and operand conventions internal/compiler documents — a
// single implicit value stack, name-based variable resolution through
// internal/value's Environment chain, and the [this, callee, arg1..argN]
// call shape.
package interp

import (
	"fmt"

	"github.com/jerryscript-project/jerryscript-sub014/internal/bytecode"
	"github.com/jerryscript-project/jerryscript-sub014/internal/ecmaerr"
	"github.com/jerryscript-project/jerryscript-sub014/internal/gc"
	"github.com/jerryscript-project/jerryscript-sub014/internal/heap"
	"github.com/jerryscript-project/jerryscript-sub014/internal/literal"
	"github.com/jerryscript-project/jerryscript-sub014/internal/value"
)

// tryHandler is one active try-block entry, mirroring the teacher's
// TryFrame: enough state to unwind the value stack and jump to catchIP
// when an exception is thrown inside the block. internal/compiler's
// compileTry only ever reserves one jump target per try region — the
// catch clause's entry when present, otherwise wherever its unconditional
// jump-over-catch lands (straight into a trailing finally block, or past
// the whole construct) — so a single target is all this needs to track.
type tryHandler struct {
	catchIP    int
	hasCatch   bool
	stackDepth int
	envCP      heap.CompressedPointer
}

// frame is one call's execution state: its bytecode cursor, lexical
// environment, and try-block stack. Frames are chained through the
// Interpreter's frames slice rather than linked pointers, matching the
// teacher's EnhancedCallFrame array-of-frames shape.
type frame struct {
	code       *value.CompiledCode
	chunk      *bytecode.Chunk
	ip         int
	envCP      heap.CompressedPointer
	this       value.Value
	newTarget  value.Value
	homeObject heap.CompressedPointer // [[HomeObject]] for super.prop inside a method body
	superCtor  heap.CompressedPointer // superclass constructor for super(...) inside a derived constructor
	stackBase  int
	tryStack   []tryHandler
	registers  []value.Value // fixed-size register file sized to code.RegCount

	// yielded values collected by a generator call; nil for an ordinary call.
	gen *generatorState
}

// Interpreter owns one script's execution state: the shared heap arena,
// literal store, value stack, call-frame stack, and global scope.
type Interpreter struct {
	Arena *value.Arena
	Lits  *literal.Store
	GC    *gc.Collector

	GlobalObj heap.CompressedPointer
	GlobalEnv heap.CompressedPointer

	stack  []value.Value
	frames []*frame

	instrCount   uint64
	instrLimit   uint64
	maxFrames    int
	gcEvery      uint64 // run ShouldCollect() every gcEvery instructions

	functionProto heap.CompressedPointer
	objectProto   heap.CompressedPointer

	// Natives backs every ObjBuiltin function object's [[Call]]/
	// [[Construct]]: internal/builtins populates this table (keyed by the
	// BuiltinID its NewNativeFunction calls were given) once the
	// Interpreter exists, keeping the dependency one-directional —
	// internal/interp never imports internal/builtins.
	Natives map[int]NativeFunc

	// ErrorProtos lets internal/builtins register the real per-kind
	// error prototype (TypeError.prototype, RangeError.prototype, ...)
	// that a materialized diagnostic should chain to; errorProtoFor
	// falls back to objectProto for any kind nobody has registered yet.
	ErrorProtos map[ecmaerr.Kind]heap.CompressedPointer

	// StringProto/NumberProto/BooleanProto back property access on a bare
	// primitive (`"abc".length`, `(5).toString()`) without ever
	// allocating a boxed wrapper object: execGetByName/execGetByValue
	// walk straight from the primitive value into the matching
	// prototype's chain, with the primitive itself threaded through as
	// `this`. Left Null until internal/builtins registers them, in which
	// case primitive property access behaves as it did before this
	// field existed (a TypeError, since there is nothing to chain to).
	StringProto  heap.CompressedPointer
	NumberProto  heap.CompressedPointer
	BooleanProto heap.CompressedPointer

	// ArrayProto is Array.prototype's compressed pointer, set once
	// internal/builtins builds it; every ObjArray literal and
	// array-returning built-in chains to it so push/map/join/... are
	// visible on array literals and not just on values Array's
	// constructor produced directly.
	ArrayProto heap.CompressedPointer

	// PromiseProto is Promise.prototype's compressed pointer, set once
	// internal/builtins installs the Promise built-in.
	PromiseProto heap.CompressedPointer

	// Microtasks is the Promise-reaction job queue spec §5 names.
	// internal/builtins' Promise built-in enqueues reaction jobs onto it;
	// internal/runtime drains it after each top-level Run. Left nil until
	// a caller sets it via SetMicrotaskQueue, in which case EnqueueMicrotask
	// is a no-op (matches executing with no Promise support installed).
	Microtasks microtaskQueue
}

// microtaskQueue is the subset of *microtask.Queue the interpreter
// needs. Declared locally (rather than importing internal/microtask) so
// internal/interp's dependency graph stays leaf-ward: internal/microtask
// depends on nothing, and internal/runtime wires the two together.
type microtaskQueue interface {
	Enqueue(job func() error)
}

// SetMicrotaskQueue installs the queue internal/builtins' Promise
// reactions enqueue onto; internal/runtime calls this once at startup.
func (vm *Interpreter) SetMicrotaskQueue(q microtaskQueue) {
	vm.Microtasks = q
}

// EnqueueMicrotask schedules job to run once the current synchronous
// call completes, or runs it nowhere if no queue has been installed
// (defensive: every runtime.Context wires one before installing
// builtins).
func (vm *Interpreter) EnqueueMicrotask(job func() error) {
	if vm.Microtasks == nil {
		return
	}
	vm.Microtasks.Enqueue(job)
}

// arrayProto returns Array.prototype if internal/builtins has registered
// it yet, otherwise objectProto — so every array the interpreter itself
// allocates (rest params, arguments objects, spread results) still gets
// a usable prototype chain during bootstrap, before Install runs.
func (vm *Interpreter) arrayProto() heap.CompressedPointer {
	if vm.ArrayProto != heap.Null {
		return vm.ArrayProto
	}
	return vm.objectProto
}

// ObjectProto returns Object.prototype's compressed pointer, the
// [[Prototype]] internal/builtins gives every plain object it builds
// that isn't itself meant to terminate the chain.
func (vm *Interpreter) ObjectProto() heap.CompressedPointer { return vm.objectProto }

// FunctionProto returns Function.prototype's compressed pointer, the
// [[Prototype]] every function object (bytecode-backed or native) gets.
func (vm *Interpreter) FunctionProto() heap.CompressedPointer { return vm.functionProto }

// FunctionProtoObject returns Function.prototype itself so
// internal/builtins can attach call/apply/bind and friends to it.
func (vm *Interpreter) FunctionProtoObject() (*value.Object, bool) {
	return vm.Arena.ObjAt(vm.functionProto)
}

// ObjectProtoObject returns Object.prototype itself so internal/builtins
// can attach hasOwnProperty/toString/valueOf and friends to it.
func (vm *Interpreter) ObjectProtoObject() (*value.Object, bool) {
	return vm.Arena.ObjAt(vm.objectProto)
}

// New creates an Interpreter over arena/lits, with a fresh global object
// bound as the outermost (object-bound) lexical environment — spec §3's
// global environment record is an object environment over the global
// object, so `var x` at top level becomes a global-object property the
// same way a `with` binding would.
func New(arena *value.Arena, lits *literal.Store, collector *gc.Collector) (*Interpreter, error) {
	globalObj, err := arena.NewObject(value.ObjGeneral, heap.Null)
	if err != nil {
		return nil, err
	}
	globalObjCP := heap.CompressedPointer(globalObj.AsCompressedPointer())

	globalEnvCP, err := arena.NewEnvironment(value.EnvObjectBound, heap.Null)
	if err != nil {
		return nil, err
	}
	globalEnv, _ := arena.EnvAt(globalEnvCP)
	globalEnv.BoundObject = globalObjCP

	objectProto, err := arena.NewObject(value.ObjGeneral, heap.Null)
	if err != nil {
		return nil, err
	}
	functionProto, err := arena.NewObject(value.ObjGeneral, heap.CompressedPointer(objectProto.AsCompressedPointer()))
	if err != nil {
		return nil, err
	}

	vm := &Interpreter{
		Arena:         arena,
		Lits:          lits,
		GC:            collector,
		GlobalObj:     globalObjCP,
		GlobalEnv:     globalEnvCP,
		stack:         make([]value.Value, 0, 1024),
		instrLimit:    200_000_000,
		maxFrames:     2048,
		gcEvery:       4096,
		Natives:       make(map[int]NativeFunc),
		ErrorProtos:   make(map[ecmaerr.Kind]heap.CompressedPointer),
		functionProto: heap.CompressedPointer(functionProto.AsCompressedPointer()),
		objectProto:   heap.CompressedPointer(objectProto.AsCompressedPointer()),
	}
	collector.SetRootProvider(vm.BuildRoots)
	return vm, nil
}

// Run executes a top-level program's CompiledCode and returns the
// value of its final statement when that is an expression statement
// (Undefined otherwise),
// or the error an uncaught exception (or an ecmaerr.Diagnostic) produced.
func (vm *Interpreter) Run(code *value.CompiledCode) (value.Value, error) {
	result, err := vm.runFrame(code, value.Undefined, value.Undefined, vm.GlobalEnv, heap.Null, heap.Null)
	if te, ok := err.(thrownError); ok {
		return value.Undefined, vm.uncaught(te.value)
	}
	return result, err
}

// runFrame pushes a fresh call frame for code and drives the dispatch
// loop until that frame (and everything it calls) returns or throws
// uncaught.
func (vm *Interpreter) runFrame(code *value.CompiledCode, this, newTarget value.Value, envCP heap.CompressedPointer, homeObject, superCtor heap.CompressedPointer) (value.Value, error) {
	f := &frame{
		code:       code,
		chunk:      code.Chunk,
		envCP:      envCP,
		this:       this,
		newTarget:  newTarget,
		homeObject: homeObject,
		superCtor:  superCtor,
		stackBase:  len(vm.stack),
		registers:  make([]value.Value, code.RegCount),
	}
	if len(vm.frames) >= vm.maxFrames {
		return value.Undefined, ecmaerr.NewRangeError("call stack size exceeded")
	}
	vm.frames = append(vm.frames, f)
	defer func() {
		vm.frames = vm.frames[:len(vm.frames)-1]
	}()

	return vm.dispatch(f)
}

// dispatch is the fetch-decode-execute loop for one frame. It returns
// when that frame executes OpReturn/OpReturnUndefined (the normal case)
// or when an exception unwinds past it uncaught (the caller propagates).
func (vm *Interpreter) dispatch(f *frame) (value.Value, error) {
	for {
		if f.ip >= len(f.chunk.Code) {
			return value.Undefined, nil
		}
		vm.instrCount++
		if vm.instrCount > vm.instrLimit {
			return value.Undefined, fmt.Errorf("interp: execution step limit exceeded")
		}
		if vm.instrCount%vm.gcEvery == 0 && vm.GC != nil && vm.GC.ShouldCollect() {
			vm.collectGarbage()
		}

		op := bytecode.OpCode(f.chunk.Code[f.ip])
		f.ip++

		var result value.Value
		var done bool
		var thrown value.Value
		var hasThrown bool
		var err error

		switch op {
		case bytecode.OpExtended:
			ext := bytecode.ExtOpCode(f.chunk.Code[f.ip])
			f.ip++
			thrown, hasThrown, err = vm.execExt(f, ext)
		case bytecode.OpReturn:
			result = vm.pop()
			done = true
		case bytecode.OpReturnUndefined:
			result = value.Undefined
			done = true
		default:
			thrown, hasThrown, err = vm.execPrimary(f, op)
		}

		if err != nil {
			return value.Undefined, err
		}
		if hasThrown {
			if handled := vm.propagateThrow(f, thrown); handled {
				continue
			}
			return value.Undefined, thrownError{value: thrown.Unwrap()}
		}
		if done {
			return result, nil
		}
	}
}

// propagateThrow looks for a handler in f's own try stack first (the
// common case — still executing the frame that raised); if none
// remains, the throw unwinds out of this frame entirely and the caller
// (runFrame's caller, another dispatch loop one level up, via the
// thrownError a Go error return carries) continues the search.
func (vm *Interpreter) propagateThrow(f *frame, thrown value.Value) bool {
	for len(f.tryStack) > 0 {
		h := f.tryStack[len(f.tryStack)-1]
		f.tryStack = f.tryStack[:len(f.tryStack)-1]
		vm.stack = vm.stack[:f.stackBase+h.stackDepth]
		f.envCP = h.envCP
		if h.hasCatch {
			vm.push(thrown.Unwrap())
		}
		f.ip = h.catchIP
		return true
	}
	return false
}

// uncaught formats a thrown value that unwound every frame (the top-level
// Run caller never gets a recoverable thrownError back, since there is no
// enclosing frame left to catch it).
func (vm *Interpreter) uncaught(thrown value.Value) error {
	if s, ok := vm.errorMessageOf(thrown); ok {
		return fmt.Errorf("uncaught exception: %s", s)
	}
	if s, ok := vm.Arena.ToStringText(thrown); ok {
		return fmt.Errorf("uncaught exception: %s", s)
	}
	return fmt.Errorf("uncaught exception: %s", thrown.String())
}

func (a *Interpreter) errorMessageOf(v value.Value) (string, bool) {
	obj, ok := a.Arena.Obj(v)
	if !ok {
		return "", false
	}
	nameSlot, hasName := a.Arena.FindOwnProperty(obj, a.Arena.InternMagic(value.MagicName))
	msgSlot, hasMsg := a.Arena.FindOwnProperty(obj, a.Arena.InternMagic(value.MagicMessage))
	name := "Error"
	if hasName {
		if s, ok := a.Arena.ToStringText(nameSlot.Value); ok {
			name = s
		}
	}
	msg := ""
	if hasMsg {
		if s, ok := a.Arena.ToStringText(msgSlot.Value); ok {
			msg = s
		}
	}
	return name + ": " + msg, true
}

// --- value stack -------------------------------------------------------

func (vm *Interpreter) push(v value.Value) { vm.stack = append(vm.stack, v) }

func (vm *Interpreter) pop() value.Value {
	v := vm.stack[len(vm.stack)-1]
	vm.stack = vm.stack[:len(vm.stack)-1]
	return v
}

func (vm *Interpreter) peek(offset int) value.Value {
	return vm.stack[len(vm.stack)-1-offset]
}

func (vm *Interpreter) popN(n int) []value.Value {
	out := make([]value.Value, n)
	copy(out, vm.stack[len(vm.stack)-n:])
	vm.stack = vm.stack[:len(vm.stack)-n]
	return out
}

// --- operand decoding ----------------------------------------------------

func (f *frame) readByte() byte {
	b := f.chunk.Code[f.ip]
	f.ip++
	return b
}

func (f *frame) readLiteralIndex() uint32 {
	idx, width := bytecode.DecodeLiteralIndex(f.chunk.Code, f.ip)
	f.ip += width
	return idx
}

func (f *frame) readJumpOffset() int32 {
	off, width := bytecode.DecodeJumpOffset(f.chunk.Code, f.ip)
	f.ip += width
	return off
}

// constant resolves a constant-pool index to its runtime Value: the
// pool holds literal-store cps directly, so wrapping as a pointer-tagged
// Value is all resolution needs (spec §4.4's interning already ensures
// one canonical heap object per distinct literal).
func (vm *Interpreter) constant(f *frame, idx uint32) value.Value {
	cp := f.code.ConstantPool[idx]
	return value.FromCompressedPointer(cp)
}

func (vm *Interpreter) name(f *frame) value.Value {
	idx := f.readLiteralIndex()
	return vm.constant(f, idx)
}

func (vm *Interpreter) env(f *frame) *value.Environment {
	e, _ := vm.Arena.EnvAt(f.envCP)
	return e
}

func (vm *Interpreter) collectGarbage() {
	vm.GC.Collect(vm.BuildRoots())
}

// BuildRoots assembles the current root set: the global object and, for
// every live call frame, its environment chain (including any home
// object/super-constructor a method frame carries) plus its register
// file and operand-stack slice. This is also what gc.Collector's OOM
// escalation path calls through RootProvider, so a GC triggered from
// allocator pressure scans the same roots as one triggered between
// bytecode instructions.
func (vm *Interpreter) BuildRoots() gc.Roots {
	roots := gc.Roots{
		GlobalObject: vm.GlobalObj,
	}
	for _, f := range vm.frames {
		roots.Environments = append(roots.Environments, f.envCP, f.homeObject, f.superCtor)
		end := len(vm.stack)
		roots.Frames = append(roots.Frames, gc.Frame{Operands: vm.stack[f.stackBase:end], Registers: f.registers})
	}
	return roots
}
