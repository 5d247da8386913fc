package builtins

import (
	"sort"
	"strings"

	"github.com/jerryscript-project/jerryscript-sub014/internal/heap"
	"github.com/jerryscript-project/jerryscript-sub014/internal/interp"
	"github.com/jerryscript-project/jerryscript-sub014/internal/value"
)

// installArray builds the Array constructor and Array.prototype's
// methods over value.Object's FastArray/ArrayLength payload — the dense
// backing store every ObjArray instance carries. Array.prototype is
// itself an (empty) array object, per ECMA-262.
func installArray(vm *interp.Interpreter, globalObj *value.Object) error {
	protoV, err := vm.Arena.NewObject(value.ObjArray, vm.ObjectProto())
	if err != nil {
		return err
	}
	protoObj, _ := vm.Arena.Obj(protoV)

	methods := []struct {
		name   string
		length int
		nid    id
		fn     interp.NativeFunc
	}{
		{"toString", 0, idArrayToString, nativeArrayToString},
		{"join", 1, idArrayJoin, nativeArrayJoin},
		{"push", 1, idArrayPush, nativeArrayPush},
		{"pop", 0, idArrayPop, nativeArrayPop},
		{"shift", 0, idArrayShift, nativeArrayShift},
		{"unshift", 1, idArrayUnshift, nativeArrayUnshift},
		{"slice", 2, idArraySlice, nativeArraySlice},
		{"splice", 2, idArraySplice, nativeArraySplice},
		{"concat", 1, idArrayConcat, nativeArrayConcat},
		{"indexOf", 1, idArrayIndexOf, nativeArrayIndexOf},
		{"lastIndexOf", 1, idArrayLastIndexOf, nativeArrayLastIndexOf},
		{"includes", 1, idArrayIncludes, nativeArrayIncludes},
		{"reverse", 0, idArrayReverse, nativeArrayReverse},
		{"forEach", 1, idArrayForEach, nativeArrayForEach},
		{"map", 1, idArrayMap, nativeArrayMap},
		{"filter", 1, idArrayFilter, nativeArrayFilter},
		{"reduce", 1, idArrayReduce, nativeArrayReduce},
		{"find", 1, idArrayFind, nativeArrayFind},
		{"findIndex", 1, idArrayFindIndex, nativeArrayFindIndex},
		{"some", 1, idArraySome, nativeArraySome},
		{"every", 1, idArrayEvery, nativeArrayEvery},
		{"sort", 1, idArraySort, nativeArraySort},
	}
	for _, m := range methods {
		if err := method(vm, protoObj, m.name, m.length, m.nid, m.fn); err != nil {
			return err
		}
	}

	ctorV, err := vm.NewNativeFunction(int(idArrayCtor), "Array", 1)
	if err != nil {
		return err
	}
	vm.DefineNative(int(idArrayCtor), nativeArrayCtor)
	if err := linkCtorAndProto(vm, ctorV, protoV); err != nil {
		return err
	}
	ctorObj := protoObjectOf(vm, ctorV)
	if err := method(vm, ctorObj, "isArray", 1, idArrayIsArray, nativeArrayIsArray); err != nil {
		return err
	}
	vm.ArrayProto = heap.CompressedPointer(protoV.AsCompressedPointer())
	return defineGlobal(vm, globalObj, "Array", ctorV)
}

func nativeArrayCtor(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	var elems []value.Value
	if len(args) == 1 {
		if n, ok := vm.Arena.ToNumber(args[0]); ok && n == float64(uint32(n)) {
			elems = make([]value.Value, uint32(n))
			for i := range elems {
				elems[i] = value.Undefined
			}
		} else {
			elems = []value.Value{args[0]}
		}
	} else {
		elems = append(elems, args...)
	}
	v, err := newArray(vm, elems)
	if err != nil {
		return value.Undefined, value.Undefined, false, err
	}
	return ok(v)
}

func nativeArrayIsArray(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	o, isObj := vm.Arena.Obj(arg(args, 0))
	return ok(value.Bool(isObj && o.Kind == value.ObjArray))
}

func arrayOf(vm *interp.Interpreter, this value.Value) (*value.Object, bool) {
	o, isObj := vm.Arena.Obj(this)
	if !isObj || o.Kind != value.ObjArray {
		return nil, false
	}
	return o, true
}

func nativeArrayToString(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	return nativeArrayJoin(vm, this, nil)
}

func nativeArrayJoin(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	o, isArr := arrayOf(vm, this)
	if !isArr {
		return vm.ThrowTypeError("Array.prototype.join called on non-array")
	}
	sep := ","
	if len(args) > 0 && !args[0].IsUndefined() {
		text, thrown, hasThrown, err := vm.ToStringValue(args[0])
		if hasThrown || err != nil {
			return value.Undefined, thrown, hasThrown, err
		}
		sep = text
	}
	parts := make([]string, len(o.FastArray))
	for i, elem := range o.FastArray {
		if elem.IsUndefined() || elem.IsNull() {
			parts[i] = ""
			continue
		}
		text, thrown, hasThrown, err := vm.ToStringValue(elem)
		if hasThrown || err != nil {
			return value.Undefined, thrown, hasThrown, err
		}
		parts[i] = text
	}
	s, err := vm.Arena.NewString(strings.Join(parts, sep))
	if err != nil {
		return value.Undefined, value.Undefined, false, err
	}
	return ok(s)
}

func nativeArrayPush(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	o, isArr := arrayOf(vm, this)
	if !isArr {
		return vm.ThrowTypeError("Array.prototype.push called on non-array")
	}
	o.FastArray = append(o.FastArray, args...)
	o.ArrayLength = uint32(len(o.FastArray))
	n, err := vm.NumberValue(float64(o.ArrayLength))
	if err != nil {
		return value.Undefined, value.Undefined, false, err
	}
	return ok(n)
}

func nativeArrayPop(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	o, isArr := arrayOf(vm, this)
	if !isArr {
		return vm.ThrowTypeError("Array.prototype.pop called on non-array")
	}
	if len(o.FastArray) == 0 {
		return ok(value.Undefined)
	}
	last := o.FastArray[len(o.FastArray)-1]
	o.FastArray = o.FastArray[:len(o.FastArray)-1]
	o.ArrayLength = uint32(len(o.FastArray))
	return ok(last)
}

func nativeArrayShift(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	o, isArr := arrayOf(vm, this)
	if !isArr {
		return vm.ThrowTypeError("Array.prototype.shift called on non-array")
	}
	if len(o.FastArray) == 0 {
		return ok(value.Undefined)
	}
	first := o.FastArray[0]
	o.FastArray = append([]value.Value{}, o.FastArray[1:]...)
	o.ArrayLength = uint32(len(o.FastArray))
	return ok(first)
}

func nativeArrayUnshift(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	o, isArr := arrayOf(vm, this)
	if !isArr {
		return vm.ThrowTypeError("Array.prototype.unshift called on non-array")
	}
	o.FastArray = append(append([]value.Value{}, args...), o.FastArray...)
	o.ArrayLength = uint32(len(o.FastArray))
	n, err := vm.NumberValue(float64(o.ArrayLength))
	if err != nil {
		return value.Undefined, value.Undefined, false, err
	}
	return ok(n)
}

// relativeIndex resolves a possibly-negative, possibly-fractional
// length argument the way slice/splice do: clamp into [0, length].
func relativeIndex(n float64, length int) int {
	i := int(n)
	if i < 0 {
		i += length
	}
	if i < 0 {
		i = 0
	}
	if i > length {
		i = length
	}
	return i
}

func nativeArraySlice(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	o, isArr := arrayOf(vm, this)
	if !isArr {
		return vm.ThrowTypeError("Array.prototype.slice called on non-array")
	}
	length := len(o.FastArray)
	start, end := 0, length
	if len(args) > 0 && !args[0].IsUndefined() {
		n, _ := vm.Arena.ToNumber(args[0])
		start = relativeIndex(n, length)
	}
	if len(args) > 1 && !args[1].IsUndefined() {
		n, _ := vm.Arena.ToNumber(args[1])
		end = relativeIndex(n, length)
	}
	if start > end {
		start = end
	}
	out := append([]value.Value{}, o.FastArray[start:end]...)
	v, err := newArray(vm, out)
	if err != nil {
		return value.Undefined, value.Undefined, false, err
	}
	return ok(v)
}

func nativeArraySplice(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	o, isArr := arrayOf(vm, this)
	if !isArr {
		return vm.ThrowTypeError("Array.prototype.splice called on non-array")
	}
	length := len(o.FastArray)
	start := 0
	if len(args) > 0 {
		n, _ := vm.Arena.ToNumber(args[0])
		start = relativeIndex(n, length)
	}
	deleteCount := length - start
	if len(args) > 1 {
		n, _ := vm.Arena.ToNumber(args[1])
		if n < 0 {
			n = 0
		}
		if int(n) < deleteCount {
			deleteCount = int(n)
		}
	}
	var inserted []value.Value
	if len(args) > 2 {
		inserted = args[2:]
	}
	removed := append([]value.Value{}, o.FastArray[start:start+deleteCount]...)
	rest := append([]value.Value{}, o.FastArray[start+deleteCount:]...)
	head := append([]value.Value{}, o.FastArray[:start]...)
	o.FastArray = append(append(head, inserted...), rest...)
	o.ArrayLength = uint32(len(o.FastArray))
	v, err := newArray(vm, removed)
	if err != nil {
		return value.Undefined, value.Undefined, false, err
	}
	return ok(v)
}

func nativeArrayConcat(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	o, isArr := arrayOf(vm, this)
	if !isArr {
		return vm.ThrowTypeError("Array.prototype.concat called on non-array")
	}
	out := append([]value.Value{}, o.FastArray...)
	for _, a := range args {
		if ao, isArr := arrayOf(vm, a); isArr {
			out = append(out, ao.FastArray...)
		} else {
			out = append(out, a)
		}
	}
	v, err := newArray(vm, out)
	if err != nil {
		return value.Undefined, value.Undefined, false, err
	}
	return ok(v)
}

func nativeArrayIndexOf(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	o, isArr := arrayOf(vm, this)
	if !isArr {
		return vm.ThrowTypeError("Array.prototype.indexOf called on non-array")
	}
	target := arg(args, 0)
	start := 0
	if len(args) > 1 {
		n, _ := vm.Arena.ToNumber(args[1])
		start = relativeIndex(n, len(o.FastArray))
	}
	for i := start; i < len(o.FastArray); i++ {
		if vm.Arena.StrictEquals(o.FastArray[i], target) {
			n, err := vm.NumberValue(float64(i))
			return n, value.Undefined, false, err
		}
	}
	n, err := vm.NumberValue(-1)
	return n, value.Undefined, false, err
}

func nativeArrayLastIndexOf(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	o, isArr := arrayOf(vm, this)
	if !isArr {
		return vm.ThrowTypeError("Array.prototype.lastIndexOf called on non-array")
	}
	target := arg(args, 0)
	for i := len(o.FastArray) - 1; i >= 0; i-- {
		if vm.Arena.StrictEquals(o.FastArray[i], target) {
			n, err := vm.NumberValue(float64(i))
			return n, value.Undefined, false, err
		}
	}
	n, err := vm.NumberValue(-1)
	return n, value.Undefined, false, err
}

func nativeArrayIncludes(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	o, isArr := arrayOf(vm, this)
	if !isArr {
		return vm.ThrowTypeError("Array.prototype.includes called on non-array")
	}
	target := arg(args, 0)
	for _, elem := range o.FastArray {
		if vm.Arena.SameValueZero(elem, target) {
			return ok(value.True)
		}
	}
	return ok(value.False)
}

func nativeArrayReverse(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	o, isArr := arrayOf(vm, this)
	if !isArr {
		return vm.ThrowTypeError("Array.prototype.reverse called on non-array")
	}
	for i, j := 0, len(o.FastArray)-1; i < j; i, j = i+1, j-1 {
		o.FastArray[i], o.FastArray[j] = o.FastArray[j], o.FastArray[i]
	}
	return ok(this)
}

func nativeArrayForEach(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	o, isArr := arrayOf(vm, this)
	if !isArr {
		return vm.ThrowTypeError("Array.prototype.forEach called on non-array")
	}
	cb := arg(args, 0)
	cbThis := arg(args, 1)
	for i, elem := range o.FastArray {
		idx, err := vm.NumberValue(float64(i))
		if err != nil {
			return value.Undefined, value.Undefined, false, err
		}
		_, thrown, hasThrown, err := vm.Invoke(cb, cbThis, []value.Value{elem, idx, this})
		if hasThrown || err != nil {
			return value.Undefined, thrown, hasThrown, err
		}
	}
	return ok(value.Undefined)
}

func nativeArrayMap(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	o, isArr := arrayOf(vm, this)
	if !isArr {
		return vm.ThrowTypeError("Array.prototype.map called on non-array")
	}
	cb := arg(args, 0)
	cbThis := arg(args, 1)
	out := make([]value.Value, len(o.FastArray))
	for i, elem := range o.FastArray {
		idx, err := vm.NumberValue(float64(i))
		if err != nil {
			return value.Undefined, value.Undefined, false, err
		}
		result, thrown, hasThrown, err := vm.Invoke(cb, cbThis, []value.Value{elem, idx, this})
		if hasThrown || err != nil {
			return value.Undefined, thrown, hasThrown, err
		}
		out[i] = result
	}
	v, err := newArray(vm, out)
	if err != nil {
		return value.Undefined, value.Undefined, false, err
	}
	return ok(v)
}

func nativeArrayFilter(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	o, isArr := arrayOf(vm, this)
	if !isArr {
		return vm.ThrowTypeError("Array.prototype.filter called on non-array")
	}
	cb := arg(args, 0)
	cbThis := arg(args, 1)
	var out []value.Value
	for i, elem := range o.FastArray {
		idx, err := vm.NumberValue(float64(i))
		if err != nil {
			return value.Undefined, value.Undefined, false, err
		}
		result, thrown, hasThrown, err := vm.Invoke(cb, cbThis, []value.Value{elem, idx, this})
		if hasThrown || err != nil {
			return value.Undefined, thrown, hasThrown, err
		}
		if vm.Arena.ToBoolean(result) {
			out = append(out, elem)
		}
	}
	v, err := newArray(vm, out)
	if err != nil {
		return value.Undefined, value.Undefined, false, err
	}
	return ok(v)
}

func nativeArrayReduce(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	o, isArr := arrayOf(vm, this)
	if !isArr {
		return vm.ThrowTypeError("Array.prototype.reduce called on non-array")
	}
	cb := arg(args, 0)
	elems := o.FastArray
	var acc value.Value
	start := 0
	if len(args) > 1 {
		acc = args[1]
	} else {
		if len(elems) == 0 {
			return vm.ThrowTypeError("Reduce of empty array with no initial value")
		}
		acc = elems[0]
		start = 1
	}
	for i := start; i < len(elems); i++ {
		idx, err := vm.NumberValue(float64(i))
		if err != nil {
			return value.Undefined, value.Undefined, false, err
		}
		result, thrown, hasThrown, err := vm.Invoke(cb, value.Undefined, []value.Value{acc, elems[i], idx, this})
		if hasThrown || err != nil {
			return value.Undefined, thrown, hasThrown, err
		}
		acc = result
	}
	return ok(acc)
}

func nativeArrayFind(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	o, isArr := arrayOf(vm, this)
	if !isArr {
		return vm.ThrowTypeError("Array.prototype.find called on non-array")
	}
	cb := arg(args, 0)
	cbThis := arg(args, 1)
	for i, elem := range o.FastArray {
		idx, err := vm.NumberValue(float64(i))
		if err != nil {
			return value.Undefined, value.Undefined, false, err
		}
		result, thrown, hasThrown, err := vm.Invoke(cb, cbThis, []value.Value{elem, idx, this})
		if hasThrown || err != nil {
			return value.Undefined, thrown, hasThrown, err
		}
		if vm.Arena.ToBoolean(result) {
			return ok(elem)
		}
	}
	return ok(value.Undefined)
}

func nativeArrayFindIndex(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	o, isArr := arrayOf(vm, this)
	if !isArr {
		return vm.ThrowTypeError("Array.prototype.findIndex called on non-array")
	}
	cb := arg(args, 0)
	cbThis := arg(args, 1)
	for i, elem := range o.FastArray {
		idx, err := vm.NumberValue(float64(i))
		if err != nil {
			return value.Undefined, value.Undefined, false, err
		}
		result, thrown, hasThrown, err := vm.Invoke(cb, cbThis, []value.Value{elem, idx, this})
		if hasThrown || err != nil {
			return value.Undefined, thrown, hasThrown, err
		}
		if vm.Arena.ToBoolean(result) {
			return ok(idx)
		}
	}
	n, err := vm.NumberValue(-1)
	return n, value.Undefined, false, err
}

func nativeArraySome(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	o, isArr := arrayOf(vm, this)
	if !isArr {
		return vm.ThrowTypeError("Array.prototype.some called on non-array")
	}
	cb := arg(args, 0)
	cbThis := arg(args, 1)
	for i, elem := range o.FastArray {
		idx, err := vm.NumberValue(float64(i))
		if err != nil {
			return value.Undefined, value.Undefined, false, err
		}
		result, thrown, hasThrown, err := vm.Invoke(cb, cbThis, []value.Value{elem, idx, this})
		if hasThrown || err != nil {
			return value.Undefined, thrown, hasThrown, err
		}
		if vm.Arena.ToBoolean(result) {
			return ok(value.True)
		}
	}
	return ok(value.False)
}

func nativeArrayEvery(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	o, isArr := arrayOf(vm, this)
	if !isArr {
		return vm.ThrowTypeError("Array.prototype.every called on non-array")
	}
	cb := arg(args, 0)
	cbThis := arg(args, 1)
	for i, elem := range o.FastArray {
		idx, err := vm.NumberValue(float64(i))
		if err != nil {
			return value.Undefined, value.Undefined, false, err
		}
		result, thrown, hasThrown, err := vm.Invoke(cb, cbThis, []value.Value{elem, idx, this})
		if hasThrown || err != nil {
			return value.Undefined, thrown, hasThrown, err
		}
		if !vm.Arena.ToBoolean(result) {
			return ok(value.False)
		}
	}
	return ok(value.True)
}

func nativeArraySort(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	o, isArr := arrayOf(vm, this)
	if !isArr {
		return vm.ThrowTypeError("Array.prototype.sort called on non-array")
	}
	cmp := arg(args, 0)
	var sortErr error
	var thrownV value.Value
	var hasThrownOut bool
	sort.SliceStable(o.FastArray, func(i, j int) bool {
		if sortErr != nil || hasThrownOut {
			return false
		}
		a, b := o.FastArray[i], o.FastArray[j]
		if !cmp.IsUndefined() {
			result, thrown, hasThrown, err := vm.Invoke(cmp, value.Undefined, []value.Value{a, b})
			if hasThrown || err != nil {
				thrownV, hasThrownOut, sortErr = thrown, hasThrown, err
				return false
			}
			n, _ := vm.Arena.ToNumber(result)
			return n < 0
		}
		at, _ := vm.Arena.ToStringText(a)
		bt, _ := vm.Arena.ToStringText(b)
		return at < bt
	})
	if sortErr != nil || hasThrownOut {
		return value.Undefined, thrownV, hasThrownOut, sortErr
	}
	return ok(this)
}
