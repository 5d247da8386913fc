package interp

import (
	"github.com/jerryscript-project/jerryscript-sub014/internal/ecmaerr"
	"github.com/jerryscript-project/jerryscript-sub014/internal/heap"
	"github.com/jerryscript-project/jerryscript-sub014/internal/value"
)

// This file is the surface internal/builtins (and nothing else) is
// expected to call through: thin exported wrappers over the unexported
// call/property/coercion machinery every opcode handler already uses, so
// a native function body can raise the same TypeErrors, walk the same
// prototype chains, and invoke the same callables a bytecode-driven
// script would.

// Invoke calls fnV (an ObjFunction, ObjBoundFunction, or ObjBuiltin
// value) with thisVal and args, the same path OpCall drives.
func (vm *Interpreter) Invoke(fnV, thisVal value.Value, args []value.Value) (result, thrown value.Value, hasThrown bool, err error) {
	return vm.invoke(fnV, thisVal, args)
}

// Construct calls ctorV as `new ctorV(args...)`, the same path OpNew
// drives.
func (vm *Interpreter) Construct(ctorV value.Value, args []value.Value) (result, thrown value.Value, hasThrown bool, err error) {
	return vm.construct(ctorV, args)
}

// IsCallable reports whether o can appear on the left of a call/new
// expression.
func IsCallable(o *value.Object) bool { return isCallable(o) }

// ToPrimitive implements ECMA-262 7.1.1 ToPrimitive for a native's own
// argument coercion (e.g. Array.prototype.join's element stringification).
func (vm *Interpreter) ToPrimitive(v value.Value, hint string) (prim, thrown value.Value, hasThrown bool, err error) {
	return vm.toPrimitive(v, hint)
}

// ToPropertyKey implements ECMA-262 7.1.14.
func (vm *Interpreter) ToPropertyKey(v value.Value) (key, thrown value.Value, hasThrown bool, err error) {
	k, hasThrown, err := vm.toPropertyKey(v)
	if hasThrown || err != nil {
		return value.Undefined, k, hasThrown, err
	}
	return k, value.Undefined, false, nil
}

// ToStringValue fully coerces v (including an object's valueOf/toString
// dance) to its string text, the ECMA-262 9.8 ToString abstract
// operation a native like String(x) or Array.prototype.join needs.
func (vm *Interpreter) ToStringValue(v value.Value) (text string, thrown value.Value, hasThrown bool, err error) {
	if text, ok := vm.Arena.ToStringText(v); ok {
		return text, value.Undefined, false, nil
	}
	prim, thrown, hasThrown, err := vm.toPrimitive(v, "string")
	if hasThrown || err != nil {
		return "", thrown, hasThrown, err
	}
	text, ok := vm.Arena.ToStringText(prim)
	if !ok {
		return "", value.Undefined, false, nil
	}
	return text, value.Undefined, false, nil
}

// ToNumberValue fully coerces v (including object coercion, and
// rejecting symbols) to a float64, the ECMA-262 7.1.4 ToNumber abstract
// operation.
func (vm *Interpreter) ToNumberValue(v value.Value) (n float64, thrown value.Value, hasThrown bool, err error) {
	return vm.toNumeric(v)
}

// NumberValue wraps a float64 result as a Value, using the small-integer
// fast path when it fits (the same choice every numeric opcode makes).
func (vm *Interpreter) NumberValue(n float64) (value.Value, error) {
	return vm.numberValue(n)
}

// GetProperty reads objV's named property following the prototype chain,
// the same lookup OpGetByName/OpGetByValue perform.
func (vm *Interpreter) GetProperty(objV, name, thisVal value.Value) (result, thrown value.Value, hasThrown bool, err error) {
	return vm.getProperty(thisVal, heap.CompressedPointer(objV.AsCompressedPointer()), name, thisVal)
}

// SetProperty writes objV's named property, the same path
// OpSetByName/OpSetByValue drive.
func (vm *Interpreter) SetProperty(objV, name, v value.Value) (thrown value.Value, hasThrown bool, err error) {
	return vm.setProperty(heap.CompressedPointer(objV.AsCompressedPointer()), name, v, objV)
}

// ThrowTypeError/ThrowRangeError raise the named diagnostic as a thrown
// completion, for a native to return directly as its own (result, thrown,
// hasThrown, err) tuple.
func (vm *Interpreter) ThrowTypeError(msg string) (value.Value, value.Value, bool, error) {
	thrown, hasThrown, err := vm.typeError(msg)
	return value.Undefined, thrown, hasThrown, err
}

func (vm *Interpreter) ThrowRangeError(msg string) (value.Value, value.Value, bool, error) {
	thrown, hasThrown, err := vm.throwDiagnostic(ecmaerr.NewRangeError(msg))
	return value.Undefined, thrown, hasThrown, err
}

func (vm *Interpreter) ThrowReferenceError(msg string) (value.Value, value.Value, bool, error) {
	thrown, hasThrown, err := vm.referenceError(msg)
	return value.Undefined, thrown, hasThrown, err
}
