package builtins

import (
	"github.com/jerryscript-project/jerryscript-sub014/internal/heap"
	"github.com/jerryscript-project/jerryscript-sub014/internal/interp"
	"github.com/jerryscript-project/jerryscript-sub014/internal/value"
)

// installBoolean builds the Boolean constructor/coercion function and
// registers vm.BooleanProto so bare true/false primitives resolve
// toString/valueOf through internal/interp's primitiveProto fallback.
func installBoolean(vm *interp.Interpreter, globalObj *value.Object) error {
	protoV, protoObj, err := newPlainObject(vm)
	if err != nil {
		return err
	}
	if err := method(vm, protoObj, "toString", 0, idBooleanToString, nativeBooleanToString); err != nil {
		return err
	}
	if err := method(vm, protoObj, "valueOf", 0, idBooleanValueOf, nativeBooleanValueOf); err != nil {
		return err
	}

	ctorV, err := vm.NewNativeFunction(int(idBooleanCtor), "Boolean", 1)
	if err != nil {
		return err
	}
	vm.DefineNative(int(idBooleanCtor), nativeBooleanCtor)
	if err := linkCtorAndProto(vm, ctorV, protoV); err != nil {
		return err
	}
	vm.BooleanProto = heap.CompressedPointer(protoV.AsCompressedPointer())
	return defineGlobal(vm, globalObj, "Boolean", ctorV)
}

func nativeBooleanCtor(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	return ok(value.Bool(vm.Arena.ToBoolean(arg(args, 0))))
}

func nativeBooleanToString(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	b := vm.Arena.ToBoolean(this)
	text := "false"
	if b {
		text = "true"
	}
	s, err := vm.Arena.NewString(text)
	return s, value.Undefined, false, err
}

func nativeBooleanValueOf(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	return ok(value.Bool(vm.Arena.ToBoolean(this)))
}
