package builtins

import (
	"github.com/jerryscript-project/jerryscript-sub014/internal/heap"
	"github.com/jerryscript-project/jerryscript-sub014/internal/interp"
	"github.com/jerryscript-project/jerryscript-sub014/internal/value"
)

// installPromise builds the Promise constructor and Promise.prototype's
// then/catch/finally over value.Object's PromiseState/PromiseResult/
// PromiseReactions payload. Settling and reaction dispatch route through
// vm.EnqueueMicrotask, the FIFO internal/runtime drains after each
// top-level Eval — the "Promise-reaction job" ECMA-262 25.6 describes,
// minus the macrotask/timer half this engine has no event loop for.
func installPromise(vm *interp.Interpreter, globalObj *value.Object) error {
	protoV, protoObj, err := newPlainObject(vm)
	if err != nil {
		return err
	}
	if err := method(vm, protoObj, "then", 2, idPromiseThen, nativePromiseThen); err != nil {
		return err
	}
	if err := method(vm, protoObj, "catch", 1, idPromiseCatch, nativePromiseCatch); err != nil {
		return err
	}
	if err := method(vm, protoObj, "finally", 1, idPromiseFinally, nativePromiseFinally); err != nil {
		return err
	}
	vm.DefineNative(int(idPromiseFinallyFulfilled), nativePromiseFinallyFulfilled)
	vm.DefineNative(int(idPromiseFinallyRejected), nativePromiseFinallyRejected)
	vm.DefineNative(int(idPromiseResolveFn), nativePromiseResolveFn)
	vm.DefineNative(int(idPromiseRejectFn), nativePromiseRejectFn)

	vm.PromiseProto = heap.CompressedPointer(protoV.AsCompressedPointer())

	ctorV, err := vm.NewNativeFunction(int(idPromiseCtor), "Promise", 1)
	if err != nil {
		return err
	}
	vm.DefineNative(int(idPromiseCtor), nativePromiseCtor)
	if err := linkCtorAndProto(vm, ctorV, protoV); err != nil {
		return err
	}
	ctorObj := protoObjectOf(vm, ctorV)
	if err := method(vm, ctorObj, "resolve", 1, idPromiseStaticResolve, nativePromiseStaticResolve); err != nil {
		return err
	}
	if err := method(vm, ctorObj, "reject", 1, idPromiseStaticReject, nativePromiseStaticReject); err != nil {
		return err
	}
	if err := method(vm, ctorObj, "all", 1, idPromiseAll, nativePromiseAll); err != nil {
		return err
	}
	if err := method(vm, ctorObj, "race", 1, idPromiseRace, nativePromiseRace); err != nil {
		return err
	}
	return defineGlobal(vm, globalObj, "Promise", ctorV)
}

func newPromiseObject(vm *interp.Interpreter) (value.Value, error) {
	v, err := vm.Arena.NewObject(value.ObjPromise, vm.PromiseProto)
	if err != nil {
		return value.Undefined, err
	}
	o, _ := vm.Arena.Obj(v)
	o.PromiseState = value.PromisePending
	o.PromiseResult = value.Undefined
	return v, nil
}

// nativePromiseCtor ignores the ObjClassInstance construct() pre-
// allocated (the same discard-and-rebuild shape nativeArrayCtor uses):
// a promise needs ObjPromise's payload fields, not a generic instance.
func nativePromiseCtor(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	executor := arg(args, 0)
	if !isCallableValue(vm, executor) {
		return vm.ThrowTypeError("Promise resolver is not a function")
	}
	promiseV, err := newPromiseObject(vm)
	if err != nil {
		return value.Undefined, value.Undefined, false, err
	}
	promiseCP := heap.CompressedPointer(promiseV.AsCompressedPointer())

	resolveV, err := bindToPromise(vm, idPromiseResolveFn, promiseCP)
	if err != nil {
		return value.Undefined, value.Undefined, false, err
	}
	rejectV, err := bindToPromise(vm, idPromiseRejectFn, promiseCP)
	if err != nil {
		return value.Undefined, value.Undefined, false, err
	}

	_, thrown, hasThrown, err := vm.Invoke(executor, value.Undefined, []value.Value{resolveV, rejectV})
	if err != nil {
		return value.Undefined, value.Undefined, false, err
	}
	if hasThrown {
		if err := rejectPromise(vm, promiseCP, thrown); err != nil {
			return value.Undefined, value.Undefined, false, err
		}
	}
	return ok(promiseV)
}

// bindToPromise wraps the generic BuiltinID nid as a bound function whose
// receiver is always promiseCP, so resolve()/reject() called from script
// know which promise to settle without the Natives dispatch table ever
// seeing which instance invoked it (NativeFunc gets no access to the
// function object it was called through, only this/args).
func bindToPromise(vm *interp.Interpreter, nid id, promiseCP heap.CompressedPointer) (value.Value, error) {
	targetV, err := vm.NewNativeFunction(int(nid), "", 1)
	if err != nil {
		return value.Undefined, err
	}
	boundV, err := vm.Arena.NewObject(value.ObjBoundFunction, vm.FunctionProto())
	if err != nil {
		return value.Undefined, err
	}
	bound, _ := vm.Arena.Obj(boundV)
	bound.BoundTarget = heap.CompressedPointer(targetV.AsCompressedPointer())
	bound.BoundThis = value.FromCompressedPointer(uint32(promiseCP))
	return boundV, nil
}

func nativePromiseResolveFn(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	o, isObj := vm.Arena.Obj(this)
	if !isObj || o.Kind != value.ObjPromise {
		return ok(value.Undefined)
	}
	if err := resolvePromise(vm, heap.CompressedPointer(this.AsCompressedPointer()), arg(args, 0)); err != nil {
		return value.Undefined, value.Undefined, false, err
	}
	return ok(value.Undefined)
}

func nativePromiseRejectFn(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	o, isObj := vm.Arena.Obj(this)
	if !isObj || o.Kind != value.ObjPromise {
		return ok(value.Undefined)
	}
	if err := rejectPromise(vm, heap.CompressedPointer(this.AsCompressedPointer()), arg(args, 0)); err != nil {
		return value.Undefined, value.Undefined, false, err
	}
	return ok(value.Undefined)
}

// resolvePromise settles promiseCP fulfilled with v, unless v is itself a
// promise — in which case promiseCP instead adopts v's eventual state
// (ECMA-262 25.6.1.3's "thenable job" collapsed to the promise-only case;
// a plain-object thenable with a .then method is treated as an ordinary
// value, a documented simplification).
func resolvePromise(vm *interp.Interpreter, promiseCP heap.CompressedPointer, v value.Value) error {
	if inner, isObj := vm.Arena.Obj(v); isObj && inner.Kind == value.ObjPromise {
		innerCP := heap.CompressedPointer(v.AsCompressedPointer())
		if innerCP == promiseCP {
			return rejectPromise(vm, promiseCP, v)
		}
		return addReaction(vm, innerCP, value.PromiseReaction{Derived: promiseCP})
	}
	return settlePromise(vm, promiseCP, value.PromiseFulfilled, v)
}

func rejectPromise(vm *interp.Interpreter, promiseCP heap.CompressedPointer, reason value.Value) error {
	return settlePromise(vm, promiseCP, value.PromiseRejected, reason)
}

func settlePromise(vm *interp.Interpreter, promiseCP heap.CompressedPointer, state value.PromiseState, result value.Value) error {
	o, ok := vm.Arena.ObjAt(promiseCP)
	if !ok || o.PromiseState != value.PromisePending {
		return nil
	}
	o.PromiseState = state
	o.PromiseResult = result
	reactions := o.PromiseReactions
	o.PromiseReactions = nil
	for _, r := range reactions {
		if err := scheduleReactionJob(vm, state, result, r); err != nil {
			return err
		}
	}
	return nil
}

// addReaction registers reaction against promiseCP: appended to the
// pending-reaction list if still unsettled, or scheduled as a microtask
// immediately if the promise already settled (ECMA-262 25.6.5.4's two
// branches of PerformPromiseThen).
func addReaction(vm *interp.Interpreter, promiseCP heap.CompressedPointer, reaction value.PromiseReaction) error {
	o, isOk := vm.Arena.ObjAt(promiseCP)
	if !isOk {
		return nil
	}
	if o.PromiseState == value.PromisePending {
		o.PromiseReactions = append(o.PromiseReactions, reaction)
		return nil
	}
	return scheduleReactionJob(vm, o.PromiseState, o.PromiseResult, reaction)
}

func scheduleReactionJob(vm *interp.Interpreter, state value.PromiseState, result value.Value, reaction value.PromiseReaction) error {
	vm.EnqueueMicrotask(func() error {
		return runReaction(vm, state, result, reaction)
	})
	return nil
}

// runReaction is the queued job itself: pick the handler matching state,
// run it (or propagate result/reason untouched if there is none), and
// settle the derived promise .then returned with whatever comes out.
func runReaction(vm *interp.Interpreter, state value.PromiseState, result value.Value, reaction value.PromiseReaction) error {
	var handlerCP heap.CompressedPointer
	if state == value.PromiseFulfilled {
		handlerCP = reaction.OnFulfilled
	} else {
		handlerCP = reaction.OnRejected
	}
	if handlerCP == heap.Null {
		if state == value.PromiseFulfilled {
			return resolvePromise(vm, reaction.Derived, result)
		}
		return rejectPromise(vm, reaction.Derived, result)
	}
	handlerV := value.FromCompressedPointer(uint32(handlerCP))
	out, thrown, hasThrown, err := vm.Invoke(handlerV, value.Undefined, []value.Value{result})
	if err != nil {
		return err
	}
	if hasThrown {
		return rejectPromise(vm, reaction.Derived, thrown)
	}
	return resolvePromise(vm, reaction.Derived, out)
}

func nativePromiseThen(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	o, isObj := vm.Arena.Obj(this)
	if !isObj || o.Kind != value.ObjPromise {
		return vm.ThrowTypeError("Promise.prototype.then called on non-promise")
	}
	derivedV, err := newPromiseObject(vm)
	if err != nil {
		return value.Undefined, value.Undefined, false, err
	}
	reaction := value.PromiseReaction{Derived: heap.CompressedPointer(derivedV.AsCompressedPointer())}
	if onFulfilled := arg(args, 0); isCallableValue(vm, onFulfilled) {
		reaction.OnFulfilled = heap.CompressedPointer(onFulfilled.AsCompressedPointer())
	}
	if onRejected := arg(args, 1); isCallableValue(vm, onRejected) {
		reaction.OnRejected = heap.CompressedPointer(onRejected.AsCompressedPointer())
	}
	if err := addReaction(vm, heap.CompressedPointer(this.AsCompressedPointer()), reaction); err != nil {
		return value.Undefined, value.Undefined, false, err
	}
	return ok(derivedV)
}

func nativePromiseCatch(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	return nativePromiseThen(vm, this, []value.Value{value.Undefined, arg(args, 0)})
}

func nativePromiseFinally(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	onFinally := arg(args, 0)
	fulfilledWrapper, err := bindOnFinally(vm, idPromiseFinallyFulfilled, onFinally)
	if err != nil {
		return value.Undefined, value.Undefined, false, err
	}
	rejectedWrapper, err := bindOnFinally(vm, idPromiseFinallyRejected, onFinally)
	if err != nil {
		return value.Undefined, value.Undefined, false, err
	}
	return nativePromiseThen(vm, this, []value.Value{fulfilledWrapper, rejectedWrapper})
}

func bindOnFinally(vm *interp.Interpreter, nid id, onFinally value.Value) (value.Value, error) {
	targetV, err := vm.NewNativeFunction(int(nid), "", 1)
	if err != nil {
		return value.Undefined, err
	}
	boundV, err := vm.Arena.NewObject(value.ObjBoundFunction, vm.FunctionProto())
	if err != nil {
		return value.Undefined, err
	}
	bound, _ := vm.Arena.Obj(boundV)
	bound.BoundTarget = heap.CompressedPointer(targetV.AsCompressedPointer())
	bound.BoundArgs = []value.Value{onFinally}
	return boundV, nil
}

func nativePromiseFinallyFulfilled(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	onFinally, passthrough := arg(args, 0), arg(args, 1)
	if isCallableValue(vm, onFinally) {
		_, thrown, hasThrown, err := vm.Invoke(onFinally, value.Undefined, nil)
		if err != nil {
			return value.Undefined, value.Undefined, false, err
		}
		if hasThrown {
			return value.Undefined, thrown, true, nil
		}
	}
	return ok(passthrough)
}

func nativePromiseFinallyRejected(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	onFinally, reason := arg(args, 0), arg(args, 1)
	if isCallableValue(vm, onFinally) {
		_, thrown, hasThrown, err := vm.Invoke(onFinally, value.Undefined, nil)
		if err != nil {
			return value.Undefined, value.Undefined, false, err
		}
		if hasThrown {
			return value.Undefined, thrown, true, nil
		}
	}
	return value.Undefined, reason, true, nil
}

func nativePromiseStaticResolve(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	v := arg(args, 0)
	if o, isObj := vm.Arena.Obj(v); isObj && o.Kind == value.ObjPromise {
		return ok(v)
	}
	promiseV, err := newPromiseObject(vm)
	if err != nil {
		return value.Undefined, value.Undefined, false, err
	}
	if err := resolvePromise(vm, heap.CompressedPointer(promiseV.AsCompressedPointer()), v); err != nil {
		return value.Undefined, value.Undefined, false, err
	}
	return ok(promiseV)
}

func nativePromiseStaticReject(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	promiseV, err := newPromiseObject(vm)
	if err != nil {
		return value.Undefined, value.Undefined, false, err
	}
	if err := rejectPromise(vm, heap.CompressedPointer(promiseV.AsCompressedPointer()), arg(args, 0)); err != nil {
		return value.Undefined, value.Undefined, false, err
	}
	return ok(promiseV)
}

// nativePromiseAll/nativePromiseRace walk an array-like eagerly (via
// arrayLikeToSlice, shared with Function.prototype.apply) rather than
// implementing the full iterator-protocol-driven algorithm ECMA-262
// 25.6.4.1 describes; every element the spec permits in practice is
// already a concrete array by the time script code calls Promise.all.
func nativePromiseAll(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	elems, thrown, hasThrown, err := arrayLikeToSlice(vm, arg(args, 0))
	if hasThrown || err != nil {
		return value.Undefined, thrown, hasThrown, err
	}
	resultV, err := newPromiseObject(vm)
	if err != nil {
		return value.Undefined, value.Undefined, false, err
	}
	resultCP := heap.CompressedPointer(resultV.AsCompressedPointer())

	if len(elems) == 0 {
		arrV, err := newArray(vm, nil)
		if err != nil {
			return value.Undefined, value.Undefined, false, err
		}
		if err := resolvePromise(vm, resultCP, arrV); err != nil {
			return value.Undefined, value.Undefined, false, err
		}
		return ok(resultV)
	}

	values := make([]value.Value, len(elems))
	remaining := len(elems)
	for i, elem := range elems {
		i := i
		settleOne := func(v value.Value, hasThrown bool) error {
			if hasThrown {
				return rejectPromise(vm, resultCP, v)
			}
			values[i] = v
			remaining--
			if remaining == 0 {
				arrV, err := newArray(vm, values)
				if err != nil {
					return err
				}
				return resolvePromise(vm, resultCP, arrV)
			}
			return nil
		}
		if o, isObj := vm.Arena.Obj(elem); isObj && o.Kind == value.ObjPromise {
			cp := heap.CompressedPointer(elem.AsCompressedPointer())
			if err := watchUntilSettled(vm, cp, settleOne); err != nil {
				return value.Undefined, value.Undefined, false, err
			}
		} else {
			if err := settleOne(elem, false); err != nil {
				return value.Undefined, value.Undefined, false, err
			}
		}
	}
	return ok(resultV)
}

// watchUntilSettled re-enqueues itself until cp leaves the pending state,
// then reports the final state/value through settle. Used by
// Promise.all/race to observe an element promise's outcome without a
// dedicated reaction-callback allocation per element.
func watchUntilSettled(vm *interp.Interpreter, cp heap.CompressedPointer, settle func(value.Value, bool) error) error {
	o, isOk := vm.Arena.ObjAt(cp)
	if !isOk {
		return settle(value.Undefined, false)
	}
	if o.PromiseState == value.PromisePending {
		vm.EnqueueMicrotask(func() error {
			return watchUntilSettled(vm, cp, settle)
		})
		return nil
	}
	return settle(o.PromiseResult, o.PromiseState == value.PromiseRejected)
}

func nativePromiseRace(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	elems, thrown, hasThrown, err := arrayLikeToSlice(vm, arg(args, 0))
	if hasThrown || err != nil {
		return value.Undefined, thrown, hasThrown, err
	}
	resultV, err := newPromiseObject(vm)
	if err != nil {
		return value.Undefined, value.Undefined, false, err
	}
	resultCP := heap.CompressedPointer(resultV.AsCompressedPointer())

	for _, elem := range elems {
		if o, isObj := vm.Arena.Obj(elem); isObj && o.Kind == value.ObjPromise {
			cp := heap.CompressedPointer(elem.AsCompressedPointer())
			err := watchUntilSettled(vm, cp, func(v value.Value, hasThrown bool) error {
				if hasThrown {
					return rejectPromise(vm, resultCP, v)
				}
				return resolvePromise(vm, resultCP, v)
			})
			if err != nil {
				return value.Undefined, value.Undefined, false, err
			}
		} else {
			if err := resolvePromise(vm, resultCP, elem); err != nil {
				return value.Undefined, value.Undefined, false, err
			}
		}
	}
	return ok(resultV)
}
