package interp

import (
	"github.com/jerryscript-project/jerryscript-sub014/internal/heap"
	"github.com/jerryscript-project/jerryscript-sub014/internal/value"
)

// NativeFunc is the Go-side implementation behind an ObjBuiltin function
// object's [[Call]]/[[Construct]] — internal/builtins supplies one of
// these per built-in (Object.prototype.toString, Array.prototype.push,
// parseInt, ...) and registers it with DefineNative. Its return shape
// mirrors invoke()'s own: a normal result, or a thrown value with
// hasThrown set, or a Go-level error for conditions the interpreter
// itself cannot recover from.
type NativeFunc func(vm *Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error)

// DefineNative registers fn as the implementation dispatched through a
// native function object carrying BuiltinID id. internal/builtins calls
// this once per built-in after constructing the Interpreter; invoke()
// looks the id back up at call time via vm.Natives.
func (vm *Interpreter) DefineNative(id int, fn NativeFunc) {
	vm.Natives[id] = fn
}

// NewNativeFunction builds the ObjBuiltin-kind function object a built-in
// table entry exposes to script: same .length/.name surface an ordinary
// function literal gets (newFunctionObject), but carrying BuiltinID
// instead of a CompiledCode pointer, and no own .prototype object unless
// the caller adds one (most natives are never used with `new`).
func (vm *Interpreter) NewNativeFunction(id int, name string, length int) (value.Value, error) {
	fnV, err := vm.Arena.NewObject(value.ObjBuiltin, vm.functionProto)
	if err != nil {
		return value.Undefined, err
	}
	fn, _ := vm.Arena.Obj(fnV)
	fn.BuiltinID = id

	lenV, err := vm.Arena.NewNumberBox(float64(length))
	if err != nil {
		return value.Undefined, err
	}
	if err := vm.Arena.PutOwnProperty(fn, value.PropertySlot{Name: vm.Arena.InternMagic(value.MagicLength), Flags: value.FlagConfigurable, Value: lenV}); err != nil {
		return value.Undefined, err
	}

	nameV, err := vm.Arena.NewString(name)
	if err != nil {
		return value.Undefined, err
	}
	if err := vm.Arena.PutOwnProperty(fn, value.PropertySlot{Name: vm.Arena.InternMagic(value.MagicName), Flags: value.FlagConfigurable, Value: nameV}); err != nil {
		return value.Undefined, err
	}
	return fnV, nil
}

// NewNativeConstructor is NewNativeFunction plus a fresh .prototype
// object, for built-ins callable with `new` (Array, Error and its
// subtypes, Map, ...). protoProto is the prototype object's own
// [[Prototype]] (Object.prototype for most, Null for Object itself).
func (vm *Interpreter) NewNativeConstructor(id int, name string, length int, protoProto value.Value) (ctorV, protoV value.Value, err error) {
	ctorV, err = vm.NewNativeFunction(id, name, length)
	if err != nil {
		return value.Undefined, value.Undefined, err
	}
	ctor, _ := vm.Arena.Obj(ctorV)

	var protoParent = heap.Null
	if !protoProto.IsUndefined() && !protoProto.IsNull() {
		protoParent = heap.CompressedPointer(protoProto.AsCompressedPointer())
	}
	protoObjV, err := vm.Arena.NewObject(value.ObjGeneral, protoParent)
	if err != nil {
		return value.Undefined, value.Undefined, err
	}
	protoObj, _ := vm.Arena.Obj(protoObjV)
	if err := vm.Arena.PutOwnProperty(protoObj, value.PropertySlot{Name: vm.Arena.InternMagic(value.MagicConstructor), Flags: value.FlagWritable | value.FlagConfigurable, Value: ctorV}); err != nil {
		return value.Undefined, value.Undefined, err
	}
	if err := vm.Arena.PutOwnProperty(ctor, value.PropertySlot{Name: vm.Arena.InternMagic(value.MagicPrototype), Flags: value.FlagWritable, Value: protoObjV}); err != nil {
		return value.Undefined, value.Undefined, err
	}
	return ctorV, protoObjV, nil
}
