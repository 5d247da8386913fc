package builtins

import (
	"github.com/jerryscript-project/jerryscript-sub014/internal/interp"
	"github.com/jerryscript-project/jerryscript-sub014/internal/value"
)

// arg returns args[i], or Undefined past the end — every built-in method
// here tolerates being called with fewer arguments than its declared
// length, per ECMA-262's uniform argument-padding rule.
func arg(args []value.Value, i int) value.Value {
	if i < len(args) {
		return args[i]
	}
	return value.Undefined
}

// method registers fn under BuiltinID nid and attaches it to target as a
// writable, configurable, non-enumerable own property named name — the
// shape every Foo.prototype.bar built-in method has.
func method(vm *interp.Interpreter, target *value.Object, name string, length int, nid id, fn interp.NativeFunc) error {
	vm.DefineNative(int(nid), fn)
	fnV, err := vm.NewNativeFunction(int(nid), name, length)
	if err != nil {
		return err
	}
	key, err := vm.Arena.NewString(name)
	if err != nil {
		return err
	}
	return vm.Arena.PutOwnProperty(target, value.PropertySlot{
		Name:  key,
		Flags: value.FlagWritable | value.FlagConfigurable,
		Value: fnV,
	})
}

// dataProp sets a writable, configurable, non-enumerable own data
// property, the shape most constructor statics (Number.MAX_SAFE_INTEGER,
// Math.PI, ...) want.
func dataProp(vm *interp.Interpreter, target *value.Object, name string, v value.Value) error {
	key, err := vm.Arena.NewString(name)
	if err != nil {
		return err
	}
	return vm.Arena.PutOwnProperty(target, value.PropertySlot{
		Name:  key,
		Flags: value.FlagWritable | value.FlagConfigurable,
		Value: v,
	})
}

// newArray builds an ObjArray value over elements, the shape every
// array-returning method (Object.keys, Array.prototype.slice, ...)
// produces.
func newArray(vm *interp.Interpreter, elements []value.Value) (value.Value, error) {
	proto := vm.ArrayProto
	if proto == 0 {
		proto = vm.ObjectProto()
	}
	v, err := vm.Arena.NewObject(value.ObjArray, proto)
	if err != nil {
		return value.Undefined, err
	}
	o, _ := vm.Arena.Obj(v)
	o.FastArray = elements
	o.ArrayLength = uint32(len(elements))
	return v, nil
}

// ok is the non-throwing native-function return shorthand.
func ok(v value.Value) (value.Value, value.Value, bool, error) {
	return v, value.Undefined, false, nil
}
