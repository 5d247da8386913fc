package interp

import (
	"github.com/jerryscript-project/jerryscript-sub014/internal/heap"
	"github.com/jerryscript-project/jerryscript-sub014/internal/value"
)

// iteration state is kept as an ordinary heap object: FastArray holds the
// snapshotted elements/keys, ClassID tracks the next index to yield. This
// avoids inventing a new Arena-managed record purely for loop bookkeeping
// — for-in/for-of enumerators never outlive the loop that created them,
// so reusing ObjGeneral's otherwise-idle fields is enough.
func (vm *Interpreter) newIterState(elements []value.Value) (value.Value, error) {
	obj, err := vm.Arena.NewObject(value.ObjGeneral, heap.Null)
	if err != nil {
		return value.Undefined, err
	}
	o, _ := vm.Arena.Obj(obj)
	o.FastArray = elements
	o.ClassID = 0
	return obj, nil
}

// execForOfInit implements OpForOfInit: pop the iterable and push an
// iterator state snapshotting its elements. Only array iterables are
// supported directly; anything else yields an empty sequence (generator-
// backed custom iterables are out of scope).
func (vm *Interpreter) execForOfInit(f *frame) (value.Value, bool, error) {
	iterable := vm.pop()
	elements := vm.arrayElements(iterable)
	state, err := vm.newIterState(elements)
	if err != nil {
		return value.Undefined, false, err
	}
	vm.push(state)
	return value.Undefined, false, nil
}

// execForInInit implements OpForInInit: pop the object and push an
// enumerator snapshotting every enumerable property name reachable
// through its own properties and its prototype chain, skipping names
// already seen closer to the object (ECMA-262 13.7.5.15's shadowing
// rule).
func (vm *Interpreter) execForInInit(f *frame) (value.Value, bool, error) {
	objV := vm.pop()
	var names []value.Value
	seen := func(n value.Value) bool {
		for _, s := range names {
			if vm.Arena.Equal(s, n) {
				return true
			}
		}
		return false
	}
	if objV.IsPtr() {
		cp := heap.CompressedPointer(objV.AsCompressedPointer())
		for cp != heap.Null {
			o, ok := vm.Arena.ObjAt(cp)
			if !ok {
				break
			}
			for _, n := range vm.enumerableOwnNames(o) {
				if !seen(n) {
					names = append(names, n)
				}
			}
			cp = o.Prototype
		}
	}
	state, err := vm.newIterState(names)
	if err != nil {
		return value.Undefined, false, err
	}
	vm.push(state)
	return value.Undefined, false, nil
}

// enumerableOwnNames walks o's own property chain collecting names whose
// slot is enumerable and not deleted.
func (vm *Interpreter) enumerableOwnNames(o *value.Object) []value.Value {
	var out []value.Value
	for _, n := range vm.Arena.OwnPropertyNames(o) {
		if slot, ok := vm.Arena.FindOwnProperty(o, n); ok && slot.Flags.Has(value.FlagEnumerable) {
			out = append(out, n)
		}
	}
	return out
}

// execForOfStep/execForInStep implement the peek-without-pop step
// opcodes: the iterator/enumerator stays on the stack, a key/value is
// pushed, then a boolean "more" flag on top of that.
func (vm *Interpreter) execForOfStep(f *frame) (value.Value, bool, error) {
	return vm.stepIterState()
}

func (vm *Interpreter) execForInStep(f *frame) (value.Value, bool, error) {
	return vm.stepIterState()
}

func (vm *Interpreter) stepIterState() (value.Value, bool, error) {
	state := vm.peek(0)
	o, ok := vm.Arena.Obj(state)
	if !ok {
		vm.push(value.Undefined)
		vm.push(value.False)
		return value.Undefined, false, nil
	}
	idx := o.ClassID
	if idx >= len(o.FastArray) {
		vm.push(value.Undefined)
		vm.push(value.False)
		return value.Undefined, false, nil
	}
	v := o.FastArray[idx]
	o.ClassID = idx + 1
	vm.push(v)
	vm.push(value.True)
	return value.Undefined, false, nil
}

// execIterNext/execIterClose back the general iterator protocol
// (Symbol.iterator-based custom iterables); not reachable from any
// bytecode internal/compiler currently emits — for-of lowers to
// OpForOfInit/OpForOfStep's array-snapshot fast path instead — but kept
// implemented so a future destructuring/custom-iterable lowering has a
// working target.
func (vm *Interpreter) execIterNext(f *frame) (value.Value, bool, error) {
	iterV := vm.pop()
	nextSlotName := vm.Arena.InternMagic(value.MagicToString) // placeholder key until Symbol.iterator exists
	obj, ok := vm.Arena.Obj(iterV)
	if !ok {
		return vm.typeError("value is not iterable")
	}
	nextSlot, found := vm.Arena.FindOwnProperty(obj, nextSlotName)
	if !found {
		vm.push(value.Undefined)
		vm.push(value.False)
		return value.Undefined, false, nil
	}
	result, thrown, hasThrown, err := vm.invoke(nextSlot.Value, iterV, nil)
	if hasThrown || err != nil {
		return thrown, hasThrown, err
	}
	vm.push(result)
	vm.push(value.True)
	return value.Undefined, false, nil
}

func (vm *Interpreter) execIterClose(f *frame) (value.Value, bool, error) {
	vm.pop()
	return value.Undefined, false, nil
}

// execSpread is the general single-value iterable-to-array primitive
// (unreached by today's compiler output — see execIterNext); array/
// object literal spreads instead go through OpArraySpread/OpObjectSpread.
func (vm *Interpreter) execSpread(f *frame) (value.Value, bool, error) {
	iterable := vm.pop()
	elements := vm.arrayElements(iterable)
	arr, err := vm.Arena.NewObject(value.ObjArray, vm.arrayProto())
	if err != nil {
		return value.Undefined, false, err
	}
	o, _ := vm.Arena.Obj(arr)
	o.FastArray = elements
	o.ArrayLength = uint32(len(elements))
	vm.push(arr)
	return value.Undefined, false, nil
}

// execArrayPush implements OpArrayPush: pop (array, value), append, push
// array back.
func (vm *Interpreter) execArrayPush(f *frame) (value.Value, bool, error) {
	v := vm.pop()
	arrV := vm.pop()
	o, ok := vm.Arena.Obj(arrV)
	if !ok {
		return vm.typeError("array literal target is not an array")
	}
	o.FastArray = append(o.FastArray, v)
	o.ArrayLength = uint32(len(o.FastArray))
	vm.push(arrV)
	return value.Undefined, false, nil
}

// execArraySpread implements OpArraySpread: pop (array, iterable), append
// every element of iterable, push array back.
func (vm *Interpreter) execArraySpread(f *frame) (value.Value, bool, error) {
	iterable := vm.pop()
	arrV := vm.pop()
	o, ok := vm.Arena.Obj(arrV)
	if !ok {
		return vm.typeError("array literal target is not an array")
	}
	o.FastArray = append(o.FastArray, vm.arrayElements(iterable)...)
	o.ArrayLength = uint32(len(o.FastArray))
	vm.push(arrV)
	return value.Undefined, false, nil
}

// execObjectSpread implements OpObjectSpread: pop (object, source), copy
// every own enumerable property of source into object, push object back.
func (vm *Interpreter) execObjectSpread(f *frame) (value.Value, bool, error) {
	source := vm.pop()
	objV := vm.pop()
	target, ok := vm.Arena.Obj(objV)
	if !ok {
		return vm.typeError("object literal target is not an object")
	}
	if src, ok := vm.Arena.Obj(source); ok {
		for _, n := range vm.enumerableOwnNames(src) {
			slot, _ := vm.Arena.FindOwnProperty(src, n)
			if err := vm.Arena.PutOwnProperty(target, value.PropertySlot{Name: n, Flags: value.FlagWritable | value.FlagEnumerable | value.FlagConfigurable, Value: slot.Value}); err != nil {
				return value.Undefined, false, err
			}
		}
	}
	vm.push(objV)
	return value.Undefined, false, nil
}
