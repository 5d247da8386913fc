package builtins

import (
	"github.com/jerryscript-project/jerryscript-sub014/internal/heap"
	"github.com/jerryscript-project/jerryscript-sub014/internal/interp"
	"github.com/jerryscript-project/jerryscript-sub014/internal/value"
)

// installObject builds Object.prototype's methods onto the prototype
// object internal/interp already allocated (every other object in the
// engine chains to it), then builds the Object constructor itself and
// exposes Object.{keys,values,entries,assign,freeze,isFrozen,
// getPrototypeOf,defineProperty,create} as its own statics.
func installObject(vm *interp.Interpreter) error {
	proto, ok := vm.ObjectProtoObject()
	if !ok {
		return errNoGlobal
	}

	if err := method(vm, proto, "hasOwnProperty", 1, idObjectHasOwnProperty, nativeObjectHasOwnProperty); err != nil {
		return err
	}
	if err := method(vm, proto, "toString", 0, idObjectToString, nativeObjectToString); err != nil {
		return err
	}
	if err := method(vm, proto, "valueOf", 0, idObjectValueOf, nativeObjectValueOf); err != nil {
		return err
	}
	if err := method(vm, proto, "isPrototypeOf", 1, idObjectIsPrototypeOf, nativeObjectIsPrototypeOf); err != nil {
		return err
	}

	ctorV, err := vm.NewNativeFunction(int(idObjectCtor), "Object", 1)
	if err != nil {
		return err
	}
	vm.DefineNative(int(idObjectCtor), nativeObjectCtor)
	protoV := value.FromCompressedPointer(uint32(vm.ObjectProto()))
	if err := linkCtorAndProto(vm, ctorV, protoV); err != nil {
		return err
	}

	ctorObj := protoObjectOf(vm, ctorV)
	if err := method(vm, ctorObj, "keys", 1, idObjectKeys, nativeObjectKeys); err != nil {
		return err
	}
	if err := method(vm, ctorObj, "values", 1, idObjectValues, nativeObjectValues); err != nil {
		return err
	}
	if err := method(vm, ctorObj, "entries", 1, idObjectEntries, nativeObjectEntries); err != nil {
		return err
	}
	if err := method(vm, ctorObj, "assign", 2, idObjectAssign, nativeObjectAssign); err != nil {
		return err
	}
	if err := method(vm, ctorObj, "freeze", 1, idObjectFreeze, nativeObjectFreeze); err != nil {
		return err
	}
	if err := method(vm, ctorObj, "isFrozen", 1, idObjectIsFrozen, nativeObjectIsFrozen); err != nil {
		return err
	}
	if err := method(vm, ctorObj, "getPrototypeOf", 1, idObjectGetPrototypeOf, nativeObjectGetPrototypeOf); err != nil {
		return err
	}
	if err := method(vm, ctorObj, "create", 1, idObjectCreate, nativeObjectCreate); err != nil {
		return err
	}
	if err := method(vm, ctorObj, "defineProperty", 3, idObjectDefineProperty, nativeObjectDefineProperty); err != nil {
		return err
	}

	globalObj, _ := vm.Arena.ObjAt(vm.GlobalObj)
	return defineGlobal(vm, globalObj, "Object", ctorV)
}

// nativeObjectCtor implements `new Object()`/`Object()`: given an object
// argument, return it unchanged; given undefined/null or no argument,
// return the freshly-allocated instance construct() already prepared.
func nativeObjectCtor(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	a := arg(args, 0)
	if a.IsPtr() {
		if _, isObj := vm.Arena.Obj(a); isObj {
			return ok(a)
		}
	}
	return ok(this)
}

func nativeObjectHasOwnProperty(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	o, isObj := vm.Arena.Obj(this)
	if !isObj {
		return ok(value.False)
	}
	key, thrown, hasThrown, err := vm.ToPropertyKey(arg(args, 0))
	if hasThrown || err != nil {
		return value.Undefined, thrown, hasThrown, err
	}
	_, found := vm.Arena.FindOwnProperty(o, key)
	return ok(value.Bool(found))
}

func nativeObjectToString(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	tag := "Object"
	switch {
	case this.IsUndefined():
		tag = "Undefined"
	case this.IsNull():
		tag = "Null"
	case this.IsPtr():
		if o, isObj := vm.Arena.Obj(this); isObj {
			switch o.Kind {
			case value.ObjArray:
				tag = "Array"
			case value.ObjFunction, value.ObjBoundFunction, value.ObjBuiltin:
				tag = "Function"
			}
		}
	}
	s, err := vm.Arena.NewString("[object " + tag + "]")
	if err != nil {
		return value.Undefined, value.Undefined, false, err
	}
	return ok(s)
}

func nativeObjectValueOf(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	return ok(this)
}

func nativeObjectIsPrototypeOf(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	candidate := arg(args, 0)
	selfObj, isObj := vm.Arena.Obj(this)
	if !isObj || !candidate.IsPtr() {
		return ok(value.False)
	}
	co, isObj2 := vm.Arena.Obj(candidate)
	if !isObj2 {
		return ok(value.False)
	}
	cp := co.Prototype
	for cp != 0 {
		proto, protoOk := vm.Arena.ObjAt(cp)
		if !protoOk {
			break
		}
		if proto == selfObj {
			return ok(value.True)
		}
		cp = proto.Prototype
	}
	return ok(value.False)
}

func nativeObjectKeys(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	o, isObj := vm.Arena.Obj(arg(args, 0))
	if !isObj {
		return vm.ThrowTypeError("Object.keys called on non-object")
	}
	names := vm.Arena.OwnPropertyNames(o)
	elems := make([]value.Value, 0, len(names))
	for _, n := range names {
		if _, isStr := vm.Arena.Str(n); isStr {
			elems = append(elems, n)
		}
	}
	arrV, err := newArray(vm, elems)
	if err != nil {
		return value.Undefined, value.Undefined, false, err
	}
	return ok(arrV)
}

func nativeObjectValues(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	o, isObj := vm.Arena.Obj(arg(args, 0))
	if !isObj {
		return vm.ThrowTypeError("Object.values called on non-object")
	}
	names := vm.Arena.OwnPropertyNames(o)
	elems := make([]value.Value, 0, len(names))
	for _, n := range names {
		if slot, found := vm.Arena.FindOwnProperty(o, n); found && !slot.Flags.Has(value.FlagAccessor) {
			elems = append(elems, slot.Value)
		}
	}
	arrV, err := newArray(vm, elems)
	if err != nil {
		return value.Undefined, value.Undefined, false, err
	}
	return ok(arrV)
}

func nativeObjectEntries(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	o, isObj := vm.Arena.Obj(arg(args, 0))
	if !isObj {
		return vm.ThrowTypeError("Object.entries called on non-object")
	}
	names := vm.Arena.OwnPropertyNames(o)
	elems := make([]value.Value, 0, len(names))
	for _, n := range names {
		slot, found := vm.Arena.FindOwnProperty(o, n)
		if !found || slot.Flags.Has(value.FlagAccessor) {
			continue
		}
		pair, err := newArray(vm, []value.Value{n, slot.Value})
		if err != nil {
			return value.Undefined, value.Undefined, false, err
		}
		elems = append(elems, pair)
	}
	arrV, err := newArray(vm, elems)
	if err != nil {
		return value.Undefined, value.Undefined, false, err
	}
	return ok(arrV)
}

func nativeObjectAssign(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	target, isObj := vm.Arena.Obj(arg(args, 0))
	if !isObj {
		return vm.ThrowTypeError("Object.assign target must be an object")
	}
	for i := 1; i < len(args); i++ {
		src, isObj := vm.Arena.Obj(args[i])
		if !isObj {
			continue
		}
		for _, n := range vm.Arena.OwnPropertyNames(src) {
			slot, found := vm.Arena.FindOwnProperty(src, n)
			if !found {
				continue
			}
			v := slot.Value
			if slot.Flags.Has(value.FlagAccessor) {
				var thrown value.Value
				var hasThrown bool
				var err error
				v, thrown, hasThrown, err = vm.GetProperty(args[i], n, args[i])
				if hasThrown || err != nil {
					return value.Undefined, thrown, hasThrown, err
				}
			}
			if err := vm.Arena.PutOwnProperty(target, value.PropertySlot{
				Name: n, Flags: value.FlagWritable | value.FlagEnumerable | value.FlagConfigurable, Value: v,
			}); err != nil {
				return value.Undefined, value.Undefined, false, err
			}
		}
	}
	return ok(arg(args, 0))
}

func nativeObjectFreeze(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	o, isObj := vm.Arena.Obj(arg(args, 0))
	if !isObj {
		return ok(arg(args, 0))
	}
	o.Extensible = false
	for _, n := range vm.Arena.OwnPropertyNames(o) {
		if slot, found := vm.Arena.FindOwnProperty(o, n); found {
			slot.Flags &^= value.FlagWritable | value.FlagConfigurable
		}
	}
	return ok(arg(args, 0))
}

func nativeObjectIsFrozen(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	o, isObj := vm.Arena.Obj(arg(args, 0))
	if !isObj {
		return ok(value.True)
	}
	if o.Extensible {
		return ok(value.False)
	}
	for _, n := range vm.Arena.OwnPropertyNames(o) {
		if slot, found := vm.Arena.FindOwnProperty(o, n); found {
			if slot.Flags.Has(value.FlagWritable) || slot.Flags.Has(value.FlagConfigurable) {
				return ok(value.False)
			}
		}
	}
	return ok(value.True)
}

func nativeObjectGetPrototypeOf(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	o, isObj := vm.Arena.Obj(arg(args, 0))
	if !isObj || o.Prototype == heap.Null {
		return ok(value.Null)
	}
	return ok(value.FromCompressedPointer(uint32(o.Prototype)))
}

func nativeObjectCreate(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	protoArg := arg(args, 0)
	protoCP := heap.Null
	if protoArg.IsPtr() {
		if _, isObj := vm.Arena.Obj(protoArg); isObj {
			protoCP = heap.CompressedPointer(protoArg.AsCompressedPointer())
		}
	} else if !protoArg.IsNull() {
		return vm.ThrowTypeError("Object.create prototype must be an object or null")
	}
	v, err := vm.Arena.NewObject(value.ObjGeneral, protoCP)
	if err != nil {
		return value.Undefined, value.Undefined, false, err
	}
	return ok(v)
}

// nativeObjectDefineProperty reads a descriptor's value/writable/
// enumerable/configurable data-descriptor fields (accessor descriptors
// via get/set are out of scope for this integration surface) and
// installs the resulting slot on target.
func nativeObjectDefineProperty(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	target, isObj := vm.Arena.Obj(arg(args, 0))
	if !isObj {
		return vm.ThrowTypeError("Object.defineProperty called on non-object")
	}
	key, thrown, hasThrown, err := vm.ToPropertyKey(arg(args, 1))
	if hasThrown || err != nil {
		return value.Undefined, thrown, hasThrown, err
	}
	desc, isObj := vm.Arena.Obj(arg(args, 2))
	if !isObj {
		return vm.ThrowTypeError("Object.defineProperty descriptor must be an object")
	}
	slot := value.PropertySlot{Name: key}
	if v, found := descField(vm, desc, "value"); found {
		slot.Value = v
	}
	if v, found := descField(vm, desc, "writable"); found && vm.Arena.ToBoolean(v) {
		slot.Flags |= value.FlagWritable
	}
	if v, found := descField(vm, desc, "enumerable"); found && vm.Arena.ToBoolean(v) {
		slot.Flags |= value.FlagEnumerable
	}
	if v, found := descField(vm, desc, "configurable"); found && vm.Arena.ToBoolean(v) {
		slot.Flags |= value.FlagConfigurable
	}
	if err := vm.Arena.PutOwnProperty(target, slot); err != nil {
		return value.Undefined, value.Undefined, false, err
	}
	return ok(arg(args, 0))
}

func descField(vm *interp.Interpreter, desc *value.Object, name string) (value.Value, bool) {
	key, err := vm.Arena.NewString(name)
	if err != nil {
		return value.Undefined, false
	}
	slot, found := vm.Arena.FindOwnProperty(desc, key)
	if !found {
		return value.Undefined, false
	}
	return slot.Value, true
}
