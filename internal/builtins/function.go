package builtins

import (
	"strconv"

	"github.com/jerryscript-project/jerryscript-sub014/internal/heap"
	"github.com/jerryscript-project/jerryscript-sub014/internal/interp"
	"github.com/jerryscript-project/jerryscript-sub014/internal/value"
)

// installFunction attaches call/apply/bind/toString to the
// Function.prototype object internal/interp already allocated for every
// function (bytecode-backed or native) to chain to.
func installFunction(vm *interp.Interpreter) error {
	proto, ok := vm.FunctionProtoObject()
	if !ok {
		return errNoGlobal
	}
	if err := method(vm, proto, "call", 1, idFunctionCall, nativeFunctionCall); err != nil {
		return err
	}
	if err := method(vm, proto, "apply", 2, idFunctionApply, nativeFunctionApply); err != nil {
		return err
	}
	if err := method(vm, proto, "bind", 1, idFunctionBind, nativeFunctionBind); err != nil {
		return err
	}
	return method(vm, proto, "toString", 0, idFunctionToString, nativeFunctionToString)
}

func nativeFunctionCall(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	if !isCallableValue(vm, this) {
		return vm.ThrowTypeError("Function.prototype.call called on non-callable value")
	}
	callThis := arg(args, 0)
	callArgs := []value.Value{}
	if len(args) > 1 {
		callArgs = args[1:]
	}
	result, thrown, hasThrown, err := vm.Invoke(this, callThis, callArgs)
	return result, thrown, hasThrown, err
}

func nativeFunctionApply(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	if !isCallableValue(vm, this) {
		return vm.ThrowTypeError("Function.prototype.apply called on non-callable value")
	}
	callThis := arg(args, 0)
	argArrayV := arg(args, 1)
	callArgs, thrown, hasThrown, err := arrayLikeToSlice(vm, argArrayV)
	if hasThrown || err != nil {
		return value.Undefined, thrown, hasThrown, err
	}
	return vm.Invoke(this, callThis, callArgs)
}

func nativeFunctionBind(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	if !isCallableValue(vm, this) {
		return vm.ThrowTypeError("Function.prototype.bind called on non-callable value")
	}
	boundThis := arg(args, 0)
	var boundArgs []value.Value
	if len(args) > 1 {
		boundArgs = append(boundArgs, args[1:]...)
	}
	boundV, err := vm.Arena.NewObject(value.ObjBoundFunction, vm.FunctionProto())
	if err != nil {
		return value.Undefined, value.Undefined, false, err
	}
	bound, _ := vm.Arena.Obj(boundV)
	bound.BoundTarget = heap.CompressedPointer(this.AsCompressedPointer())
	bound.BoundThis = boundThis
	bound.BoundArgs = boundArgs

	lenV, err := vm.NumberValue(boundFunctionLength(vm, this, len(boundArgs)))
	if err != nil {
		return value.Undefined, value.Undefined, false, err
	}
	if err := vm.Arena.PutOwnProperty(bound, value.PropertySlot{
		Name: vm.Arena.InternMagic(value.MagicLength), Flags: value.FlagConfigurable, Value: lenV,
	}); err != nil {
		return value.Undefined, value.Undefined, false, err
	}
	name, err := vm.Arena.NewString("bound " + functionDisplayName(vm, this))
	if err != nil {
		return value.Undefined, value.Undefined, false, err
	}
	if err := vm.Arena.PutOwnProperty(bound, value.PropertySlot{
		Name: vm.Arena.InternMagic(value.MagicName), Flags: value.FlagConfigurable, Value: name,
	}); err != nil {
		return value.Undefined, value.Undefined, false, err
	}
	return ok(boundV)
}

func nativeFunctionToString(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	s, err := vm.Arena.NewString("function " + functionDisplayName(vm, this) + "() { [native code] }")
	if err != nil {
		return value.Undefined, value.Undefined, false, err
	}
	return ok(s)
}

func isCallableValue(vm *interp.Interpreter, v value.Value) bool {
	o, isObj := vm.Arena.Obj(v)
	return isObj && interp.IsCallable(o)
}

func boundFunctionLength(vm *interp.Interpreter, target value.Value, boundArgCount int) float64 {
	o, isObj := vm.Arena.Obj(target)
	if !isObj {
		return 0
	}
	slot, found := vm.Arena.FindOwnProperty(o, vm.Arena.InternMagic(value.MagicLength))
	if !found {
		return 0
	}
	n, isNum := vm.Arena.ToNumber(slot.Value)
	if !isNum {
		return 0
	}
	remaining := n - float64(boundArgCount)
	if remaining < 0 {
		return 0
	}
	return remaining
}

func functionDisplayName(vm *interp.Interpreter, target value.Value) string {
	o, isObj := vm.Arena.Obj(target)
	if !isObj {
		return ""
	}
	slot, found := vm.Arena.FindOwnProperty(o, vm.Arena.InternMagic(value.MagicName))
	if !found {
		return ""
	}
	text, _ := vm.Arena.ToStringText(slot.Value)
	return text
}

// arrayLikeToSlice reads a length property off v and collects v[0..length)
// into a slice, the shape Function.prototype.apply's second argument and
// Promise.all/Promise.race's iterable argument both need.
func arrayLikeToSlice(vm *interp.Interpreter, v value.Value) ([]value.Value, value.Value, bool, error) {
	if v.IsUndefined() || v.IsNull() {
		return nil, value.Undefined, false, nil
	}
	o, isObj := vm.Arena.Obj(v)
	if isObj && o.Kind == value.ObjArray {
		out := make([]value.Value, len(o.FastArray))
		copy(out, o.FastArray)
		return out, value.Undefined, false, nil
	}
	lenV, thrown, hasThrown, err := vm.GetProperty(v, vm.Arena.InternMagic(value.MagicLength), v)
	if hasThrown || err != nil {
		return nil, thrown, hasThrown, err
	}
	n, thrown2, hasThrown2, err2 := vm.ToNumberValue(lenV)
	if hasThrown2 || err2 != nil {
		return nil, thrown2, hasThrown2, err2
	}
	length := int(n)
	if length < 0 {
		length = 0
	}
	out := make([]value.Value, 0, length)
	for i := 0; i < length; i++ {
		idx, err := vm.Arena.NewString(strconv.Itoa(i))
		if err != nil {
			return nil, value.Undefined, false, err
		}
		elem, thrown3, hasThrown3, err3 := vm.GetProperty(v, idx, v)
		if hasThrown3 || err3 != nil {
			return nil, thrown3, hasThrown3, err3
		}
		out = append(out, elem)
	}
	return out, value.Undefined, false, nil
}
