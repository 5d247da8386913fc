package interp

import (
	"unicode/utf8"

	"github.com/jerryscript-project/jerryscript-sub014/internal/heap"
	"github.com/jerryscript-project/jerryscript-sub014/internal/value"
)

// primitiveProto resolves the prototype chain a bare string/number/
// boolean primitive reads properties from, without ever materializing a
// boxed wrapper object (spec's boxed-primitive object variant is out of
// scope). ok is false for undefined/null/object/symbol,
// or for a primitive kind whose prototype internal/builtins hasn't
// registered yet.
func (vm *Interpreter) primitiveProto(v value.Value) (heap.CompressedPointer, bool) {
	switch {
	case v.IsTrue(), v.IsFalse():
		return vm.BooleanProto, vm.BooleanProto != heap.Null
	case v.IsSmallInt():
		return vm.NumberProto, vm.NumberProto != heap.Null
	case v.IsPtr():
		if _, ok := vm.Arena.NumberBox(v); ok {
			return vm.NumberProto, vm.NumberProto != heap.Null
		}
		if _, ok := vm.Arena.Str(v); ok {
			return vm.StringProto, vm.StringProto != heap.Null
		}
	}
	return heap.Null, false
}

// getPrimitiveProperty implements property read on a bare primitive base:
// a string's own `.length` is computed directly (ECMA-262 6.1.4 "String
// Type" — a String exotic object has a length own property only observers
// actually need, so no real exotic object is allocated for it); every
// other name resolves through the matching prototype's chain with the
// primitive threaded through as `this`.
func (vm *Interpreter) getPrimitiveProperty(base, name value.Value) (value.Value, value.Value, bool, error) {
	if s, ok := vm.Arena.Str(base); ok {
		if text, ok := vm.Arena.ToStringText(name); ok && text == "length" {
			n, err := vm.Arena.NewNumberBox(float64(utf8.RuneCountInString(s.Text())))
			return n, value.Undefined, false, err
		}
	}
	protoCP, ok := vm.primitiveProto(base)
	if !ok {
		return value.Undefined, value.Undefined, false, nil
	}
	return vm.getProperty(base, protoCP, name, base)
}

// typeOfString implements the `typeof` operator's string results.
func (vm *Interpreter) typeOfString(v value.Value) value.Value {
	text := "object"
	switch {
	case v.IsUndefined():
		text = "undefined"
	case v.IsNull():
		text = "object"
	case v.IsBool():
		text = "boolean"
	case v.IsSmallInt():
		text = "number"
	case v.IsPtr():
		if _, ok := vm.Arena.NumberBox(v); ok {
			text = "number"
		} else if _, ok := vm.Arena.Str(v); ok {
			text = "string"
		} else if _, ok := vm.Arena.Sym(v); ok {
			text = "symbol"
		} else if _, ok := vm.Arena.BigIntAt(v); ok {
			text = "bigint"
		} else if o, ok := vm.Arena.Obj(v); ok {
			if isCallable(o) {
				text = "function"
			}
		}
	}
	s, _ := vm.Arena.NewLiteralString(text)
	return s
}

// toPropertyKey coerces a computed member-access value to the string or
// symbol a property lookup indexes by (ECMA-262 7.1.14): objects route
// through ToPrimitive first (hint string), everything else through
// ToStringText.
func (vm *Interpreter) toPropertyKey(v value.Value) (value.Value, bool, error) {
	if v.IsPtr() {
		if _, ok := vm.Arena.Sym(v); ok {
			return v, false, nil
		}
		prim, thrown, hasThrown, err := vm.toPrimitive(v, "string")
		if hasThrown || err != nil {
			return value.Undefined, hasThrown, err
		}
		_ = thrown
		v = prim
	}
	text, ok := vm.Arena.ToStringText(v)
	if !ok {
		return vm.typeError("cannot convert value to a property key")
	}
	s, err := vm.Arena.NewString(text)
	if err != nil {
		return value.Undefined, false, err
	}
	return s, false, nil
}

// toPrimitive implements ECMA-262 7.1.1: primitives pass through
// unchanged; objects call methodNames (in hint order) looking for one
// that returns a primitive. hint is "string" or "number" (or "default",
// treated as "number").
func (vm *Interpreter) toPrimitive(v value.Value, hint string) (value.Value, value.Value, bool, error) {
	if !v.IsPtr() {
		return v, value.Undefined, false, nil
	}
	if _, ok := vm.Arena.Str(v); ok {
		return v, value.Undefined, false, nil
	}
	if _, ok := vm.Arena.NumberBox(v); ok {
		return v, value.Undefined, false, nil
	}
	obj, ok := vm.Arena.Obj(v)
	if !ok {
		return v, value.Undefined, false, nil
	}
	methods := []string{"valueOf", "toString"}
	if hint == "string" {
		methods = []string{"toString", "valueOf"}
	}
	for _, name := range methods {
		nameV := vm.Arena.InternMagic(magicFor(name))
		slot, found := vm.Arena.FindOwnProperty(obj, nameV)
		if !found {
			continue
		}
		fnObj, ok := vm.Arena.Obj(slot.Value)
		if !ok || !isCallable(fnObj) {
			continue
		}
		result, thrown, hasThrown, err := vm.invoke(slot.Value, v, nil)
		if hasThrown || err != nil {
			return value.Undefined, thrown, hasThrown, err
		}
		if !result.IsPtr() {
			return result, value.Undefined, false, nil
		}
		if _, isObj := vm.Arena.Obj(result); !isObj {
			return result, value.Undefined, false, nil
		}
	}
	return vm.typeErrorPrimitive("cannot convert object to primitive value")
}

func (vm *Interpreter) typeErrorPrimitive(msg string) (value.Value, value.Value, bool, error) {
	thrown, hasThrown, err := vm.typeError(msg)
	return value.Undefined, thrown, hasThrown, err
}

func magicFor(name string) value.MagicID {
	switch name {
	case "valueOf":
		return value.MagicValueOf
	case "toString":
		return value.MagicToString
	default:
		return value.MagicToString
	}
}

// getProperty implements property read (ECMA-262 9.1.8 [[Get]]): walk the
// prototype chain for a named slot; an accessor slot invokes its getter
// with thisVal bound; an array index past the fast array's own length
// falls through to the chain like any other miss.
func (vm *Interpreter) getProperty(receiver value.Value, objCP heap.CompressedPointer, name value.Value, thisVal value.Value) (value.Value, value.Value, bool, error) {
	if idx, ok := arrayIndexOf(vm, name); ok {
		if o, ok := vm.Arena.ObjAt(objCP); ok && o.Kind == value.ObjArray && int(idx) < len(o.FastArray) {
			return o.FastArray[idx], value.Undefined, false, nil
		}
	}
	cp := objCP
	for cp != heap.Null {
		o, ok := vm.Arena.ObjAt(cp)
		if !ok {
			break
		}
		if slot, found := vm.Arena.FindOwnProperty(o, name); found {
			if slot.Flags.Has(value.FlagAccessor) {
				if slot.Getter == heap.Null {
					return value.Undefined, value.Undefined, false, nil
				}
				getter := value.FromCompressedPointer(uint32(slot.Getter))
				return vm.invoke(getter, thisVal, nil)
			}
			return slot.Value, value.Undefined, false, nil
		}
		cp = o.Prototype
	}
	if o, ok := vm.Arena.ObjAt(objCP); ok && o.Kind == value.ObjArray {
		if text, ok := vm.Arena.ToStringText(name); ok && text == "length" {
			n, _ := vm.Arena.NewNumberBox(float64(o.ArrayLength))
			return n, value.Undefined, false, nil
		}
	}
	return value.Undefined, value.Undefined, false, nil
}

// setProperty implements property write (ECMA-262 9.1.9 [[Set]]): an
// accessor anywhere in the chain invokes its setter; otherwise the value
// is written (or created) as an own data property of the receiver
// (prototype chain properties never shadow an own write, per the spec's
// own-property-creation rule for [[Set]] on a data property found only on
// a prototype).
func (vm *Interpreter) setProperty(objCP heap.CompressedPointer, name value.Value, v value.Value, thisVal value.Value) (value.Value, bool, error) {
	if idx, ok := arrayIndexOf(vm, name); ok {
		if o, ok := vm.Arena.ObjAt(objCP); ok && o.Kind == value.ObjArray {
			for len(o.FastArray) <= int(idx) {
				o.FastArray = append(o.FastArray, value.Undefined)
			}
			o.FastArray[idx] = v
			if uint32(idx)+1 > o.ArrayLength {
				o.ArrayLength = uint32(idx) + 1
			}
			return value.Undefined, false, nil
		}
	}
	cp := objCP
	for cp != heap.Null {
		o, ok := vm.Arena.ObjAt(cp)
		if !ok {
			break
		}
		if slot, found := vm.Arena.FindOwnProperty(o, name); found {
			if slot.Flags.Has(value.FlagAccessor) {
				if slot.Setter == heap.Null {
					return value.Undefined, false, nil
				}
				setter := value.FromCompressedPointer(uint32(slot.Setter))
				_, thrown, hasThrown, err := vm.invoke(setter, thisVal, []value.Value{v})
				return thrown, hasThrown, err
			}
			if cp == objCP {
				slot.Value = v
				return value.Undefined, false, nil
			}
			break
		}
		cp = o.Prototype
	}
	o, ok := vm.Arena.ObjAt(objCP)
	if !ok {
		return vm.typeError("cannot set property on non-object")
	}
	if err := vm.Arena.PutOwnProperty(o, value.PropertySlot{Name: name, Flags: value.FlagWritable | value.FlagEnumerable | value.FlagConfigurable, Value: v}); err != nil {
		return value.Undefined, false, err
	}
	return value.Undefined, false, nil
}

func arrayIndexOf(vm *Interpreter, name value.Value) (uint32, bool) {
	s, ok := vm.Arena.Str(name)
	if !ok || s.Variant != value.StringIntIndex {
		return 0, false
	}
	return s.IntVal, true
}

// execGetByName/execGetByValue/execSetByName/execSetByValue/execDeleteProperty/
// execHasProperty implement the property-access opcode family. Reading a
// property off a bare string/number/boolean routes through
// getPrimitiveProperty (no boxed wrapper object is ever allocated: see
// primitiveProto); writing one, deleting one, or reading/writing off
// undefined/null always raises a TypeError, matching ECMA-262's
// ToObject-on-primitive-base coercion failure.
func (vm *Interpreter) execGetByName(f *frame) (value.Value, bool, error) {
	name := vm.name(f)
	base := vm.pop()
	if base.IsUndefined() || base.IsNull() {
		return vm.typeError("cannot read properties of " + debugBaseName(base))
	}
	obj, ok := vm.Arena.Obj(base)
	if !ok {
		v, thrown, hasThrown, err := vm.getPrimitiveProperty(base, name)
		if hasThrown || err != nil {
			return thrown, hasThrown, err
		}
		vm.push(v)
		return value.Undefined, false, nil
	}
	v, thrown, hasThrown, err := vm.getProperty(base, heap.CompressedPointer(base.AsCompressedPointer()), name, base)
	_ = obj
	if hasThrown || err != nil {
		return thrown, hasThrown, err
	}
	vm.push(v)
	return value.Undefined, false, nil
}

func (vm *Interpreter) execGetByValue(f *frame) (value.Value, bool, error) {
	keyRaw := vm.pop()
	base := vm.pop()
	key, thrown, hasThrown, err := vm.toPropertyKey(keyRaw)
	if hasThrown || err != nil {
		return thrown, hasThrown, err
	}
	if base.IsUndefined() || base.IsNull() {
		return vm.typeError("cannot read properties of " + debugBaseName(base))
	}
	obj, ok := vm.Arena.Obj(base)
	if !ok {
		v, thrown, hasThrown, err := vm.getPrimitiveProperty(base, key)
		if hasThrown || err != nil {
			return thrown, hasThrown, err
		}
		vm.push(v)
		return value.Undefined, false, nil
	}
	v, thrown, hasThrown, err := vm.getProperty(base, heap.CompressedPointer(base.AsCompressedPointer()), key, base)
	_ = obj
	if hasThrown || err != nil {
		return thrown, hasThrown, err
	}
	vm.push(v)
	return value.Undefined, false, nil
}

// debugBaseName names undefined/null for the "cannot read properties of
// X" TypeError message, matching the wording engines conventionally use.
func debugBaseName(base value.Value) string {
	if base.IsUndefined() {
		return "undefined"
	}
	return "null"
}

func (vm *Interpreter) execSetByName(f *frame) (value.Value, bool, error) {
	name := vm.name(f)
	v := vm.pop()
	base := vm.pop()
	if !base.IsPtr() {
		return vm.typeError("cannot set properties of non-object")
	}
	thrown, hasThrown, err := vm.setProperty(heap.CompressedPointer(base.AsCompressedPointer()), name, v, base)
	if hasThrown || err != nil {
		return thrown, hasThrown, err
	}
	vm.push(v)
	return value.Undefined, false, nil
}

func (vm *Interpreter) execSetByValue(f *frame) (value.Value, bool, error) {
	v := vm.pop()
	keyRaw := vm.pop()
	base := vm.pop()
	key, thrown, hasThrown, err := vm.toPropertyKey(keyRaw)
	if hasThrown || err != nil {
		return thrown, hasThrown, err
	}
	if !base.IsPtr() {
		return vm.typeError("cannot set properties of non-object")
	}
	thrown, hasThrown, err = vm.setProperty(heap.CompressedPointer(base.AsCompressedPointer()), key, v, base)
	if hasThrown || err != nil {
		return thrown, hasThrown, err
	}
	vm.push(v)
	return value.Undefined, false, nil
}

func (vm *Interpreter) execDeleteProperty(f *frame) (value.Value, bool, error) {
	keyRaw := vm.pop()
	base := vm.pop()
	key, thrown, hasThrown, err := vm.toPropertyKey(keyRaw)
	if hasThrown || err != nil {
		return thrown, hasThrown, err
	}
	o, ok := vm.Arena.Obj(base)
	if !ok {
		vm.push(value.True)
		return value.Undefined, false, nil
	}
	vm.push(value.Bool(vm.Arena.DeleteOwnProperty(o, key)))
	return value.Undefined, false, nil
}

func (vm *Interpreter) execHasProperty(f *frame) (value.Value, bool, error) {
	keyRaw := vm.pop()
	base := vm.pop()
	key, thrown, hasThrown, err := vm.toPropertyKey(keyRaw)
	if hasThrown || err != nil {
		return thrown, hasThrown, err
	}
	found := false
	cp := heap.Null
	if base.IsPtr() {
		cp = heap.CompressedPointer(base.AsCompressedPointer())
		if _, ok := vm.Arena.ObjAt(cp); !ok {
			cp, _ = vm.primitiveProto(base)
		}
	} else if !base.IsUndefined() && !base.IsNull() {
		cp, _ = vm.primitiveProto(base)
	}
	for cp != heap.Null {
		o, ok := vm.Arena.ObjAt(cp)
		if !ok {
			break
		}
		if _, ok := vm.Arena.FindOwnProperty(o, key); ok {
			found = true
			break
		}
		cp = o.Prototype
	}
	vm.push(value.Bool(found))
	return value.Undefined, false, nil
}

// execCreateObject/execCreateArray implement OpCreateObject/OpCreateArray:
// push a fresh empty instance chained to the engine's shared prototypes.
func (vm *Interpreter) execCreateObject(f *frame) (value.Value, bool, error) {
	obj, err := vm.Arena.NewObject(value.ObjGeneral, vm.objectProto)
	if err != nil {
		return value.Undefined, false, err
	}
	vm.push(obj)
	return value.Undefined, false, nil
}

func (vm *Interpreter) execCreateArray(f *frame) (value.Value, bool, error) {
	f.readLiteralIndex() // reserved length-hint operand, always 0 today
	obj, err := vm.Arena.NewObject(value.ObjArray, vm.arrayProto())
	if err != nil {
		return value.Undefined, false, err
	}
	vm.push(obj)
	return value.Undefined, false, nil
}

// execDefineProperty implements OpDefineProperty: pop (object, key,
// value), define key as an own writable/enumerable/configurable data
// property without consulting the prototype chain, unlike OpSetByName/
// OpSetByValue — object/array literal properties are always own
// properties regardless of what the shared prototype already declares.
func (vm *Interpreter) execDefineProperty(f *frame) (value.Value, bool, error) {
	v := vm.pop()
	keyRaw := vm.pop()
	objV := vm.peek(0)
	key, thrown, hasThrown, err := vm.toPropertyKey(keyRaw)
	if hasThrown || err != nil {
		return thrown, hasThrown, err
	}
	o, ok := vm.Arena.Obj(objV)
	if !ok {
		return vm.typeError("cannot define property on non-object")
	}
	if err := vm.Arena.PutOwnProperty(o, value.PropertySlot{Name: key, Flags: value.FlagWritable | value.FlagEnumerable | value.FlagConfigurable, Value: v}); err != nil {
		return value.Undefined, false, err
	}
	return value.Undefined, false, nil
}

func (vm *Interpreter) execDefineAccessor(f *frame, isGetter bool) (value.Value, bool, error) {
	fnV := vm.pop()
	keyRaw := vm.pop()
	objV := vm.peek(0)
	key, thrown, hasThrown, err := vm.toPropertyKey(keyRaw)
	if hasThrown || err != nil {
		return thrown, hasThrown, err
	}
	o, ok := vm.Arena.Obj(objV)
	if !ok {
		return vm.typeError("cannot define accessor on non-object")
	}
	fnCP := heap.CompressedPointer(fnV.AsCompressedPointer())
	slot, found := vm.Arena.FindOwnProperty(o, key)
	if found && slot.Flags.Has(value.FlagAccessor) {
		if isGetter {
			slot.Getter = fnCP
		} else {
			slot.Setter = fnCP
		}
		return value.Undefined, false, nil
	}
	newSlot := value.PropertySlot{Name: key, Flags: value.FlagAccessor | value.FlagEnumerable | value.FlagConfigurable}
	if isGetter {
		newSlot.Getter = fnCP
	} else {
		newSlot.Setter = fnCP
	}
	if err := vm.Arena.PutOwnProperty(o, newSlot); err != nil {
		return value.Undefined, false, err
	}
	return value.Undefined, false, nil
}
