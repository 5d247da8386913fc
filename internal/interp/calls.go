package interp

import (
	"github.com/jerryscript-project/jerryscript-sub014/internal/bytecode"
	"github.com/jerryscript-project/jerryscript-sub014/internal/heap"
	"github.com/jerryscript-project/jerryscript-sub014/internal/value"
)

// newFunctionObject builds the function object backing an
// OpCreateFunction/OpCreateArrow/OpCreateMethod/OpCreateGenerator/
// OpCreateAsyncFunction opcode: one Object of kind ObjFunction carrying
// the CompiledCode reached through f.code.Children[idx] plus the closure
// environment captured at this point in the enclosing frame.
//
// Generators and async functions are distinguished purely by the code's
// own CodeIsGenerator/CodeIsAsync flags (set by the compiler), so all
// three of OpCreateMethod/OpCreateGenerator/OpCreateAsyncFunction share
// this path with OpCreateFunction — the opcode distinction exists for
// bytecode readability, not because the runtime needs a fifth object
// shape.
func (vm *Interpreter) newFunctionObject(f *frame, childIdx int, isArrow bool) (value.Value, bool, error) {
	codeCP := f.code.Children[childIdx]
	codeV := value.FromCompressedPointer(uint32(codeCP))
	code, ok := vm.Arena.CodeAt(codeV)
	if !ok {
		return vm.typeError("corrupt function literal")
	}

	fnV, err := vm.Arena.NewObject(value.ObjFunction, vm.functionProto)
	if err != nil {
		return value.Undefined, false, err
	}
	fn, _ := vm.Arena.Obj(fnV)
	fn.Code = codeCP
	fn.ClosureEnv = f.envCP
	fn.HomeObject = f.homeObject
	fn.IsArrow = isArrow
	if isArrow {
		fn.ArrowThis = f.this
	}

	lenV, _ := vm.Arena.NewNumberBox(float64(code.ArgCount))
	vm.Arena.PutOwnProperty(fn, value.PropertySlot{Name: vm.Arena.InternMagic(value.MagicLength), Flags: value.FlagConfigurable, Value: lenV})
	if code.Name != heap.Null {
		nameV := value.FromCompressedPointer(uint32(code.Name))
		vm.Arena.PutOwnProperty(fn, value.PropertySlot{Name: vm.Arena.InternMagic(value.MagicName), Flags: value.FlagConfigurable, Value: nameV})
	}

	if !isArrow && !code.Flags.Has(value.CodeIsGenerator) && !code.Flags.Has(value.CodeIsAsync) {
		protoObjV, err := vm.Arena.NewObject(value.ObjGeneral, vm.objectProto)
		if err != nil {
			return value.Undefined, false, err
		}
		protoObj, _ := vm.Arena.Obj(protoObjV)
		vm.Arena.PutOwnProperty(protoObj, value.PropertySlot{Name: vm.Arena.InternMagic(value.MagicConstructor), Flags: value.FlagWritable | value.FlagConfigurable, Value: fnV})
		vm.Arena.PutOwnProperty(fn, value.PropertySlot{Name: vm.Arena.InternMagic(value.MagicPrototype), Flags: value.FlagWritable, Value: protoObjV})
	}
	return fnV, false, nil
}

func (vm *Interpreter) execCreateFunctionLike(f *frame, isArrow bool) (value.Value, bool, error) {
	idx := int(f.readByte())
	fnV, hasThrown, err := vm.newFunctionObject(f, idx, isArrow)
	if hasThrown || err != nil {
		return fnV, hasThrown, err
	}
	vm.push(fnV)
	return value.Undefined, false, nil
}

// bindArguments implements positional parameter binding for a call: each
// ParamNames[i] binds to args[i] (or Undefined past the end), and a
// non-empty RestParam binds to an array of every argument beyond
// len(ParamNames) — spec §4.5/§4.6's described call-setup sequence,
// before the callee's own chunk starts executing (default-value bytecode
// runs as the first thing in the body, per internal/compiler).
func (vm *Interpreter) bindArguments(env *value.Environment, code *value.CompiledCode, args []value.Value) error {
	for i, name := range code.ParamNames {
		var v value.Value
		if i < len(args) {
			v = args[i]
		} else {
			v = value.Undefined
		}
		nameV, err := vm.Arena.NewLiteralString(name)
		if err != nil {
			return err
		}
		if err := vm.Arena.DeclareBinding(env, nameV, v, true); err != nil {
			return err
		}
	}
	if code.RestParam != "" {
		restArr, err := vm.Arena.NewObject(value.ObjArray, vm.arrayProto())
		if err != nil {
			return err
		}
		ro, _ := vm.Arena.Obj(restArr)
		if len(args) > len(code.ParamNames) {
			ro.FastArray = append(ro.FastArray, args[len(code.ParamNames):]...)
			ro.ArrayLength = uint32(len(ro.FastArray))
		}
		nameV, err := vm.Arena.NewLiteralString(code.RestParam)
		if err != nil {
			return err
		}
		if err := vm.Arena.DeclareBinding(env, nameV, restArr, true); err != nil {
			return err
		}
	}
	return nil
}

// invoke calls a function Value with thisVal/args, handling both ordinary
// user functions (a fresh declarative environment chained to the
// closure's captured scope) and arrow functions (same chain, but this/
// homeObject/superCtor are inherited from the defining scope rather than
// rebound per call, per ECMA-262 9.2's arrow-function [[Call]]).
func (vm *Interpreter) invoke(fnV value.Value, thisVal value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	fnObj, ok := vm.Arena.Obj(fnV)
	if !ok || !isCallable(fnObj) {
		thrown, hasThrown, err := vm.typeError("value is not a function")
		return value.Undefined, thrown, hasThrown, err
	}
	if fnObj.Kind == value.ObjBuiltin {
		native, found := vm.Natives[fnObj.BuiltinID]
		if !found {
			thrown, hasThrown, err := vm.typeError("built-in function is not wired")
			return value.Undefined, thrown, hasThrown, err
		}
		return native(vm, thisVal, args)
	}
	if fnObj.Kind == value.ObjBoundFunction {
		targetV := value.FromCompressedPointer(uint32(fnObj.BoundTarget))
		boundArgs := append(append([]value.Value{}, fnObj.BoundArgs...), args...)
		return vm.invoke(targetV, fnObj.BoundThis, boundArgs)
	}
	codeV := value.FromCompressedPointer(uint32(fnObj.Code))
	code, ok := vm.Arena.CodeAt(codeV)
	if !ok {
		thrown, hasThrown, err := vm.typeError("corrupt function object")
		return value.Undefined, thrown, hasThrown, err
	}

	callEnvCP, err := vm.Arena.NewEnvironment(value.EnvDeclarative, fnObj.ClosureEnv)
	if err != nil {
		return value.Undefined, value.Undefined, false, err
	}
	callEnv, _ := vm.Arena.EnvAt(callEnvCP)

	effectiveThis := thisVal
	homeObject := fnObj.HomeObject
	superCtor := fnObj.SuperCtor
	if fnObj.IsArrow {
		effectiveThis = fnObj.ArrowThis
	}

	if err := vm.bindArguments(callEnv, code, args); err != nil {
		return value.Undefined, value.Undefined, false, err
	}

	if code.Flags.Has(value.CodeHasArgumentsObject) {
		argsArr, err := vm.Arena.NewObject(value.ObjArray, vm.arrayProto())
		if err == nil {
			ao, _ := vm.Arena.Obj(argsArr)
			ao.FastArray = append(ao.FastArray, args...)
			ao.ArrayLength = uint32(len(args))
			nameV, _ := vm.Arena.NewLiteralString("arguments")
			vm.Arena.DeclareBinding(callEnv, nameV, argsArr, true)
		}
	}

	if code.Flags.Has(value.CodeIsGenerator) {
		return vm.runGeneratorBody(code, effectiveThis, callEnvCP, homeObject, superCtor)
	}

	result, runErr := vm.runFrame(code, effectiveThis, value.Undefined, callEnvCP, homeObject, superCtor)
	if runErr != nil {
		if thrownVal, ok := runErr.(thrownError); ok {
			return value.Undefined, thrownVal.value, true, nil
		}
		return value.Undefined, value.Undefined, false, runErr
	}
	return result, value.Undefined, false, nil
}

// thrownError lets runFrame distinguish a script-level uncaught throw
// (recoverable by an enclosing call's own try machinery one level up)
// from a genuine Go/host failure (OOM, step-limit abort) that must not be
// caught by script code.
type thrownError struct{ value value.Value }

func (t thrownError) Error() string { return "uncaught: " + t.value.String() }

// execCall implements OpCall: pop [this, callee, arg1..argN] (argCount is
// a following byte operand) and push the call's result.
func (vm *Interpreter) execCall(f *frame) (value.Value, bool, error) {
	argc := int(f.readByte())
	args := vm.popN(argc)
	callee := vm.pop()
	thisVal := vm.pop()
	result, thrown, hasThrown, err := vm.invoke(callee, thisVal, args)
	if hasThrown || err != nil {
		return thrown, hasThrown, err
	}
	vm.push(result)
	return value.Undefined, false, nil
}

// execCallWithSpread implements OpCallWithSpread: the argument list was
// already flattened into a single array by compileElementsIntoArray, so
// the stack is [this, callee, argsArray].
func (vm *Interpreter) execCallWithSpread(f *frame) (value.Value, bool, error) {
	argsArrV := vm.pop()
	callee := vm.pop()
	thisVal := vm.pop()
	args := vm.arrayElements(argsArrV)
	result, thrown, hasThrown, err := vm.invoke(callee, thisVal, args)
	if hasThrown || err != nil {
		return thrown, hasThrown, err
	}
	vm.push(result)
	return value.Undefined, false, nil
}

// isCallable reports whether o can appear on the left of a call/new
// expression: an ordinary bytecode-backed function, a bound function
// (invoke forwards the call to its BoundTarget with BoundThis and
// BoundArgs), or a native builtin dispatched through
// vm.Natives by BuiltinID.
func isCallable(o *value.Object) bool {
	return o.Kind == value.ObjFunction || o.Kind == value.ObjBoundFunction || o.Kind == value.ObjBuiltin
}

func (vm *Interpreter) arrayElements(v value.Value) []value.Value {
	o, ok := vm.Arena.Obj(v)
	if !ok {
		return nil
	}
	out := make([]value.Value, len(o.FastArray))
	copy(out, o.FastArray)
	return out
}

// construct implements ECMA-262 9.2.2 [[Construct]]: allocate a fresh
// instance chained to the constructor's .prototype, invoke the
// constructor with that instance as this, and — unless the constructor
// itself returned an object, which ECMA-262 lets override the implicit
// one — keep the allocated instance as the `new` expression's result.
func (vm *Interpreter) construct(ctorV value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	ctorObj, ok := vm.Arena.Obj(ctorV)
	if !ok || !isCallable(ctorObj) {
		thrown, hasThrown, err := vm.typeError("value is not a constructor")
		return value.Undefined, thrown, hasThrown, err
	}
	if ctorObj.Kind == value.ObjBoundFunction {
		// ECMA-262 9.4.1.2 [[Construct]] on a bound function forwards to
		// the bound target with the bound args prepended; the bound
		// this-value is only for [[Call]], never [[Construct]].
		targetV := value.FromCompressedPointer(uint32(ctorObj.BoundTarget))
		boundArgs := append(append([]value.Value{}, ctorObj.BoundArgs...), args...)
		return vm.construct(targetV, boundArgs)
	}
	protoSlot, found := vm.Arena.FindOwnProperty(ctorObj, vm.Arena.InternMagic(value.MagicPrototype))
	proto := vm.objectProto
	if found && protoSlot.Value.IsPtr() {
		proto = heap.CompressedPointer(protoSlot.Value.AsCompressedPointer())
	}
	instance, err := vm.Arena.NewObject(value.ObjClassInstance, proto)
	if err != nil {
		return value.Undefined, value.Undefined, false, err
	}
	result, thrown, hasThrown, err := vm.invoke(ctorV, instance, args)
	if hasThrown || err != nil {
		return value.Undefined, thrown, hasThrown, err
	}
	if result.IsPtr() {
		if _, isObj := vm.Arena.Obj(result); isObj {
			return result, value.Undefined, false, nil
		}
	}
	return instance, value.Undefined, false, nil
}

func (vm *Interpreter) execNew(f *frame) (value.Value, bool, error) {
	argc := int(f.readByte())
	args := vm.popN(argc)
	ctor := vm.pop()
	result, thrown, hasThrown, err := vm.construct(ctor, args)
	if hasThrown || err != nil {
		return thrown, hasThrown, err
	}
	vm.push(result)
	return value.Undefined, false, nil
}

func (vm *Interpreter) execNewWithSpread(f *frame) (value.Value, bool, error) {
	argsArrV := vm.pop()
	ctor := vm.pop()
	args := vm.arrayElements(argsArrV)
	result, thrown, hasThrown, err := vm.construct(ctor, args)
	if hasThrown || err != nil {
		return thrown, hasThrown, err
	}
	vm.push(result)
	return value.Undefined, false, nil
}

// execExt dispatches the second opcode space (function creation, classes,
// iteration, generators) — the colder families spec §4.5 keeps out of the
// dense primary byte.
func (vm *Interpreter) execExt(f *frame, op bytecode.ExtOpCode) (value.Value, bool, error) {
	switch op {
	case bytecode.OpCreateFunction, bytecode.OpCreateMethod, bytecode.OpCreateGenerator, bytecode.OpCreateAsyncFunction:
		return vm.execCreateFunctionLike(f, false)
	case bytecode.OpCreateArrow:
		return vm.execCreateFunctionLike(f, true)
	case bytecode.OpCreateClass:
		return vm.execCreateClass(f)
	case bytecode.OpDefineMethod:
		return vm.execDefineMethod(f)
	case bytecode.OpSuperCall:
		return vm.execSuperCall(f)
	case bytecode.OpSuperGet:
		return vm.execSuperGet(f)
	case bytecode.OpForInInit:
		return vm.execForInInit(f)
	case bytecode.OpForOfInit:
		return vm.execForOfInit(f)
	case bytecode.OpForInStep:
		return vm.execForInStep(f)
	case bytecode.OpForOfStep:
		return vm.execForOfStep(f)
	case bytecode.OpIterNext:
		return vm.execIterNext(f)
	case bytecode.OpIterClose:
		return vm.execIterClose(f)
	case bytecode.OpSpread:
		return vm.execSpread(f)
	case bytecode.OpArrayPush:
		return vm.execArrayPush(f)
	case bytecode.OpArraySpread:
		return vm.execArraySpread(f)
	case bytecode.OpObjectSpread:
		return vm.execObjectSpread(f)
	case bytecode.OpYield:
		return vm.execYield(f)
	case bytecode.OpAwait:
		return vm.execAwait(f)
	case bytecode.OpTypeOfName:
		return vm.execTypeOfName(f)
	}
	return value.Undefined, false, nil
}
