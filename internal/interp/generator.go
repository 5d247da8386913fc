package interp

import (
	"github.com/jerryscript-project/jerryscript-sub014/internal/heap"
	"github.com/jerryscript-project/jerryscript-sub014/internal/value"
)

// generatorState accumulates a generator call's yielded values. Each
// invocation of a generator function runs its body to completion up
// front rather than truly suspending between yields — a deliberate
// simplification (see DESIGN.md's interpreter entry) in place of a real
// coroutine scheduler, since nothing elsewhere in this engine needs
// interleaved generator/driver execution yet. The resulting
// sequence of yielded values is exposed through the same iterator-state
// object shape for-of already steps through.
type generatorState struct {
	yields []value.Value
}

// runGeneratorBody executes a generator function's body synchronously,
// collecting every OpYield's operand, then hands the caller an iterator
// object over the collected sequence instead of the function's own return
// value (which ECMA-262 would expose as the final {done:true,value:...}
// result — dropped here along with true suspension).
func (vm *Interpreter) runGeneratorBody(code *value.CompiledCode, this value.Value, envCP heap.CompressedPointer, homeObject, superCtor heap.CompressedPointer) (value.Value, value.Value, bool, error) {
	if len(vm.frames) >= vm.maxFrames {
		thrown, hasThrown, err := vm.typeError("call stack size exceeded")
		return value.Undefined, thrown, hasThrown, err
	}
	f := &frame{
		code:       code,
		chunk:      code.Chunk,
		envCP:      envCP,
		this:       this,
		homeObject: homeObject,
		superCtor:  superCtor,
		stackBase:  len(vm.stack),
		registers:  make([]value.Value, code.RegCount),
		gen:        &generatorState{},
	}
	vm.frames = append(vm.frames, f)
	_, err := vm.dispatch(f)
	vm.frames = vm.frames[:len(vm.frames)-1]

	if te, ok := err.(thrownError); ok {
		return value.Undefined, te.value, true, nil
	}
	if err != nil {
		return value.Undefined, value.Undefined, false, err
	}
	state, nerr := vm.newIterState(f.gen.yields)
	if nerr != nil {
		return value.Undefined, value.Undefined, false, nerr
	}
	return state, value.Undefined, false, nil
}

// execYield implements OpYield: append the yielded value (or, for
// `yield*`, every element the delegated-to iterable already produced) to
// the enclosing generator's sequence. The pushed "resume value" is always
// Undefined, since nothing ever sends one back in under this
// synchronous-collection model.
func (vm *Interpreter) execYield(f *frame) (value.Value, bool, error) {
	v := vm.pop()
	delegate := f.readByte()
	if f.gen == nil {
		return vm.typeError("yield is only valid inside a generator function")
	}
	if delegate == 1 {
		f.gen.yields = append(f.gen.yields, vm.arrayElements(v)...)
	} else {
		f.gen.yields = append(f.gen.yields, v)
	}
	vm.push(value.Undefined)
	return value.Undefined, false, nil
}

// execAwait implements OpAwait as a synchronous pass-through: an awaited
// value is pushed back unchanged. A Promise operand is not unwrapped and
// the function does not suspend on it.
func (vm *Interpreter) execAwait(f *frame) (value.Value, bool, error) {
	v := vm.pop()
	vm.push(v)
	return value.Undefined, false, nil
}
