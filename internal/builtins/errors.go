package builtins

import (
	"github.com/jerryscript-project/jerryscript-sub014/internal/ecmaerr"
	"github.com/jerryscript-project/jerryscript-sub014/internal/heap"
	"github.com/jerryscript-project/jerryscript-sub014/internal/interp"
	"github.com/jerryscript-project/jerryscript-sub014/internal/value"
)

// errorFamily describes one of the seven standard error constructors:
// its BuiltinID and its ecmaerr.Kind (the key internal/interp's
// errorProtoFor/ErrorProtos registry uses to pick a thrown error's
// prototype).
type errorFamily struct {
	id   id
	kind ecmaerr.Kind
}

var errorFamilies = []errorFamily{
	{idEvalErrorCtor, ecmaerr.EvalError},
	{idRangeErrorCtor, ecmaerr.RangeError},
	{idReferenceErrorCtor, ecmaerr.ReferenceError},
	{idSyntaxErrorCtor, ecmaerr.SyntaxError},
	{idTypeErrorCtor, ecmaerr.TypeError},
	{idURIErrorCtor, ecmaerr.URIError},
}

// installErrors builds Error and its six subtypes, registering each
// prototype in vm.ErrorProtos so a thrown ecmaerr.Diagnostic (from
// anywhere in internal/interp) materializes with the right prototype
// chain and .name, matching what a script-visible catch clause expects.
func installErrors(vm *interp.Interpreter, globalObj *value.Object) error {
	errProtoV, errProtoObj, err := newPlainObject(vm)
	if err != nil {
		return err
	}
	if err := dataProp(vm, errProtoObj, "name", mustString(vm, "Error")); err != nil {
		return err
	}
	if err := dataProp(vm, errProtoObj, "message", mustString(vm, "")); err != nil {
		return err
	}
	if err := method(vm, errProtoObj, "toString", 0, idErrorToString, nativeErrorToString); err != nil {
		return err
	}

	errCtorV, err := vm.NewNativeFunction(int(idErrorCtor), "Error", 1)
	if err != nil {
		return err
	}
	vm.DefineNative(int(idErrorCtor), makeErrorCtor(ecmaerr.Error))
	if err := linkCtorAndProto(vm, errCtorV, errProtoV); err != nil {
		return err
	}
	vm.ErrorProtos[ecmaerr.Error] = heap.CompressedPointer(errProtoV.AsCompressedPointer())
	if err := defineGlobal(vm, globalObj, "Error", errCtorV); err != nil {
		return err
	}

	for _, fam := range errorFamilies {
		protoV, err := vm.Arena.NewObject(value.ObjGeneral, heap.CompressedPointer(errProtoV.AsCompressedPointer()))
		if err != nil {
			return err
		}
		protoObj, _ := vm.Arena.Obj(protoV)
		if err := dataProp(vm, protoObj, "name", mustString(vm, string(fam.kind))); err != nil {
			return err
		}
		if err := dataProp(vm, protoObj, "message", mustString(vm, "")); err != nil {
			return err
		}

		ctorV, err := vm.NewNativeFunction(int(fam.id), string(fam.kind), 1)
		if err != nil {
			return err
		}
		vm.DefineNative(int(fam.id), makeErrorCtor(fam.kind))
		if err := linkCtorAndProto(vm, ctorV, protoV); err != nil {
			return err
		}
		vm.ErrorProtos[fam.kind] = heap.CompressedPointer(protoV.AsCompressedPointer())
		if err := defineGlobal(vm, globalObj, string(fam.kind), ctorV); err != nil {
			return err
		}
	}
	return nil
}

// makeErrorCtor returns the [[Call]]/[[Construct]] body shared by every
// error constructor: called with `new`, construct() already allocated
// `this` with the right prototype; called bare, allocate one ourselves
// so `TypeError("x")` without `new` still produces a real error object,
// per ECMA-262's error constructors being callable both ways.
func makeErrorCtor(kind ecmaerr.Kind) interp.NativeFunc {
	return func(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
		instance, isObj := vm.Arena.Obj(this)
		result := this
		if !isObj {
			protoCP, ok := vm.ErrorProtos[kind]
			if !ok {
				protoCP = vm.ObjectProto()
			}
			thisV, err := vm.Arena.NewObject(value.ObjGeneral, protoCP)
			if err != nil {
				return value.Undefined, value.Undefined, false, err
			}
			instance, _ = vm.Arena.Obj(thisV)
			result = thisV
		}
		msgArg := arg(args, 0)
		if !msgArg.IsUndefined() {
			text, thrown, hasThrown, err := vm.ToStringValue(msgArg)
			if hasThrown || err != nil {
				return value.Undefined, thrown, hasThrown, err
			}
			msgV, err := vm.Arena.NewString(text)
			if err != nil {
				return value.Undefined, value.Undefined, false, err
			}
			if err := vm.Arena.PutOwnProperty(instance, value.PropertySlot{
				Name: vm.Arena.InternMagic(value.MagicMessage), Flags: value.FlagWritable | value.FlagConfigurable, Value: msgV,
			}); err != nil {
				return value.Undefined, value.Undefined, false, err
			}
		}
		return ok(result)
	}
}

func nativeErrorToString(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	if _, isObj := vm.Arena.Obj(this); !isObj {
		return vm.ThrowTypeError("Error.prototype.toString called on non-object")
	}
	nameV, thrown, hasThrown, err := vm.GetProperty(this, vm.Arena.InternMagic(value.MagicName), this)
	if hasThrown || err != nil {
		return value.Undefined, thrown, hasThrown, err
	}
	name, ok2 := vm.Arena.ToStringText(nameV)
	if !ok2 {
		name = "Error"
	}
	msgV, thrown, hasThrown, err := vm.GetProperty(this, vm.Arena.InternMagic(value.MagicMessage), this)
	if hasThrown || err != nil {
		return value.Undefined, thrown, hasThrown, err
	}
	message, _ := vm.Arena.ToStringText(msgV)

	text := name
	if message != "" {
		text = name + ": " + message
	}
	s, err := vm.Arena.NewString(text)
	if err != nil {
		return value.Undefined, value.Undefined, false, err
	}
	return ok(s)
}

func mustString(vm *interp.Interpreter, s string) value.Value {
	v, _ := vm.Arena.NewString(s)
	return v
}
