package interp

import (
	"github.com/jerryscript-project/jerryscript-sub014/internal/heap"
	"github.com/jerryscript-project/jerryscript-sub014/internal/value"
)

// execCreateClass implements OpCreateClass: build the constructor function
// object the same way an ordinary function literal would, then wire the
// subclassing relationship spec's class model needs — the constructor's
// own [[Prototype]] points at the superclass constructor (static
// inheritance) and its .prototype object's [[Prototype]] points at the
// superclass's .prototype (instance inheritance), per ECMA-262 9.2's
// extends semantics. Undefined supplants any superclass for an ordinary
// (non-derived) class.
func (vm *Interpreter) execCreateClass(f *frame) (value.Value, bool, error) {
	ctorIdx := int(f.readByte())
	superV := vm.pop()

	fnV, hasThrown, err := vm.newFunctionObject(f, ctorIdx, false)
	if hasThrown || err != nil {
		return fnV, hasThrown, err
	}
	fn, _ := vm.Arena.Obj(fnV)

	protoSlot, found := vm.Arena.FindOwnProperty(fn, vm.Arena.InternMagic(value.MagicPrototype))
	if !found {
		return vm.typeError("class constructor missing its own prototype object")
	}
	protoCP := heap.CompressedPointer(protoSlot.Value.AsCompressedPointer())
	protoObj, _ := vm.Arena.ObjAt(protoCP)

	if !superV.IsUndefined() {
		superObj, ok := vm.Arena.Obj(superV)
		if !ok || !isCallable(superObj) {
			return vm.typeError("class extends value is not a constructor")
		}
		fn.SuperCtor = heap.CompressedPointer(superV.AsCompressedPointer())
		fn.Prototype = heap.CompressedPointer(superV.AsCompressedPointer())
		if superProtoSlot, ok := vm.Arena.FindOwnProperty(superObj, vm.Arena.InternMagic(value.MagicPrototype)); ok {
			protoObj.Prototype = heap.CompressedPointer(superProtoSlot.Value.AsCompressedPointer())
		}
	}
	fn.HomeObject = protoCP

	vm.push(fnV)
	return value.Undefined, false, nil
}

// execDefineMethod implements OpDefineMethod: attach a method/getter/
// setter function to the class constructor (static) or its prototype
// (instance), giving the method function's own HomeObject that same
// target so `super.prop` inside it resolves relative to the right
// prototype chain.
func (vm *Interpreter) execDefineMethod(f *frame) (value.Value, bool, error) {
	static := f.readByte()
	kind := f.readByte()
	keyRaw := vm.pop()
	methodFn := vm.pop()
	classV := vm.peek(0)

	key, thrown, hasThrown, err := vm.toPropertyKey(keyRaw)
	if hasThrown || err != nil {
		return thrown, hasThrown, err
	}
	classObj, ok := vm.Arena.Obj(classV)
	if !ok {
		return vm.typeError("cannot define a method on a non-class value")
	}

	var targetCP heap.CompressedPointer
	if static == 1 {
		targetCP = heap.CompressedPointer(classV.AsCompressedPointer())
	} else {
		protoSlot, found := vm.Arena.FindOwnProperty(classObj, vm.Arena.InternMagic(value.MagicPrototype))
		if !found {
			return vm.typeError("class has no prototype object")
		}
		targetCP = heap.CompressedPointer(protoSlot.Value.AsCompressedPointer())
	}
	target, ok := vm.Arena.ObjAt(targetCP)
	if !ok {
		return vm.typeError("class method target is missing")
	}

	if methodObj, ok := vm.Arena.Obj(methodFn); ok {
		methodObj.HomeObject = targetCP
	}

	methodCP := heap.CompressedPointer(methodFn.AsCompressedPointer())
	switch kind {
	case 1, 2: // getter, setter
		slot, found := vm.Arena.FindOwnProperty(target, key)
		newSlot := value.PropertySlot{Name: key, Flags: value.FlagAccessor | value.FlagConfigurable}
		if found && slot.Flags.Has(value.FlagAccessor) {
			newSlot.Getter, newSlot.Setter = slot.Getter, slot.Setter
		}
		if kind == 1 {
			newSlot.Getter = methodCP
		} else {
			newSlot.Setter = methodCP
		}
		if err := vm.Arena.PutOwnProperty(target, newSlot); err != nil {
			return value.Undefined, false, err
		}
	default: // ordinary method
		if err := vm.Arena.PutOwnProperty(target, value.PropertySlot{Name: key, Flags: value.FlagWritable | value.FlagConfigurable, Value: methodFn}); err != nil {
			return value.Undefined, false, err
		}
	}
	return value.Undefined, false, nil
}

// execSuperCall implements OpSuperCall: invoke the superclass constructor
// against the instance already allocated for this construction (spec's
// simplified model keeps `this` allocated up front by [[Construct]]
// rather than deferring allocation to the first super() call, unlike
// ECMA-262's own this-uninitialized-until-super TDZ — see DESIGN.md).
func (vm *Interpreter) execSuperCall(f *frame) (value.Value, bool, error) {
	argc := int(f.readByte())
	args := vm.popN(argc)
	if f.superCtor == heap.Null {
		return vm.typeError("'super' keyword is only valid inside a derived class constructor")
	}
	superCtorV := value.FromCompressedPointer(uint32(f.superCtor))
	_, thrown, hasThrown, err := vm.invoke(superCtorV, f.this, args)
	if hasThrown || err != nil {
		return thrown, hasThrown, err
	}
	vm.push(value.Undefined)
	return value.Undefined, false, nil
}

// execSuperGet implements OpSuperGet: look up a property starting from
// the enclosing method's home object's own [[Prototype]], so a method
// override can still reach the implementation it shadowed.
func (vm *Interpreter) execSuperGet(f *frame) (value.Value, bool, error) {
	keyRaw := vm.pop()
	key, thrown, hasThrown, err := vm.toPropertyKey(keyRaw)
	if hasThrown || err != nil {
		return thrown, hasThrown, err
	}
	if f.homeObject == heap.Null {
		return vm.typeError("'super' keyword is unexpected here")
	}
	homeObj, ok := vm.Arena.ObjAt(f.homeObject)
	if !ok {
		return vm.typeError("'super' keyword is unexpected here")
	}
	v, thrown, hasThrown, err := vm.getProperty(value.Undefined, homeObj.Prototype, key, f.this)
	if hasThrown || err != nil {
		return thrown, hasThrown, err
	}
	vm.push(v)
	return value.Undefined, false, nil
}
