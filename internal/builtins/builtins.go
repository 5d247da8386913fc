package builtins

import (
	"github.com/jerryscript-project/jerryscript-sub014/internal/interp"
	"github.com/jerryscript-project/jerryscript-sub014/internal/value"
)

// Install builds the standard built-in object graph over vm and exposes
// each constructor (plus the free global functions) as a property of
// vm's global object — the integration surface spec.md §1 and §4.2
// describe. Every built-in property is defined here, when Install runs;
// value.Object's Instantiated/MarkInstantiated record is not consulted, so
// no built-in property is materialized lazily on first access.
func Install(vm *interp.Interpreter) error {
	globalObj, ok := vm.Arena.ObjAt(vm.GlobalObj)
	if !ok {
		return errNoGlobal
	}

	if err := installObject(vm); err != nil {
		return err
	}
	if err := installFunction(vm); err != nil {
		return err
	}
	if err := installErrors(vm, globalObj); err != nil {
		return err
	}
	if err := installArray(vm, globalObj); err != nil {
		return err
	}
	if err := installString(vm, globalObj); err != nil {
		return err
	}
	if err := installNumber(vm, globalObj); err != nil {
		return err
	}
	if err := installBoolean(vm, globalObj); err != nil {
		return err
	}
	if err := installMath(vm, globalObj); err != nil {
		return err
	}
	if err := installJSON(vm, globalObj); err != nil {
		return err
	}
	if err := installGlobalFunctions(vm, globalObj); err != nil {
		return err
	}
	if err := installPromise(vm, globalObj); err != nil {
		return err
	}
	return nil
}

type installError string

func (e installError) Error() string { return string(e) }

const errNoGlobal = installError("builtins: interpreter has no global object")

// linkCtorAndProto wires ctorV.prototype = protoV and protoV.constructor
// = ctorV, the mutual link every built-in constructor/prototype pair
// shares (ECMA-262 "the value of the prototype property ... and the
// initial value of prototype.constructor").
func linkCtorAndProto(vm *interp.Interpreter, ctorV, protoV value.Value) error {
	ctorObj, ok := vm.Arena.Obj(ctorV)
	if !ok {
		return errNoGlobal
	}
	protoObj, ok := vm.Arena.Obj(protoV)
	if !ok {
		return errNoGlobal
	}
	if err := vm.Arena.PutOwnProperty(ctorObj, value.PropertySlot{
		Name: vm.Arena.InternMagic(value.MagicPrototype), Flags: value.FlagConfigurable, Value: protoV,
	}); err != nil {
		return err
	}
	return vm.Arena.PutOwnProperty(protoObj, value.PropertySlot{
		Name: vm.Arena.InternMagic(value.MagicConstructor), Flags: value.FlagWritable | value.FlagConfigurable, Value: ctorV,
	})
}

// defineGlobal exposes v as a named, writable, configurable property of
// the global object (`Array`, `Math`, `parseInt`, ...).
func defineGlobal(vm *interp.Interpreter, globalObj *value.Object, name string, v value.Value) error {
	key, err := vm.Arena.NewString(name)
	if err != nil {
		return err
	}
	return vm.Arena.PutOwnProperty(globalObj, value.PropertySlot{
		Name: key, Flags: value.FlagWritable | value.FlagConfigurable, Value: v,
	})
}

// protoObjectOf dereferences a constructor/prototype object pointer for
// method() calls below, treating an allocation-time lookup failure as
// the same unrecoverable condition newFunctionObject's callers do.
func protoObjectOf(vm *interp.Interpreter, v value.Value) *value.Object {
	o, _ := vm.Arena.Obj(v)
	return o
}

// newPlainObject allocates an ObjGeneral object chained to
// Object.prototype, the shape every constructor's own .prototype object
// (Array.prototype, Error.prototype, ...) starts from.
func newPlainObject(vm *interp.Interpreter) (value.Value, *value.Object, error) {
	v, err := vm.Arena.NewObject(value.ObjGeneral, vm.ObjectProto())
	if err != nil {
		return value.Undefined, nil, err
	}
	o, _ := vm.Arena.Obj(v)
	return v, o, nil
}

// newNamespaceObject allocates a plain, non-constructible object like
// Math or JSON: a property bag chained to Object.prototype with no
// [[Call]].
func newNamespaceObject(vm *interp.Interpreter) (value.Value, *value.Object, error) {
	return newPlainObject(vm)
}
