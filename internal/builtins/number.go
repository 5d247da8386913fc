package builtins

import (
	"math"
	"strconv"

	"github.com/jerryscript-project/jerryscript-sub014/internal/heap"
	"github.com/jerryscript-project/jerryscript-sub014/internal/interp"
	"github.com/jerryscript-project/jerryscript-sub014/internal/value"
)

// installNumber builds the Number constructor/coercion function and
// registers vm.NumberProto so bare number primitives resolve
// toFixed/toString/... through internal/interp's primitiveProto
// fallback without ever being boxed.
func installNumber(vm *interp.Interpreter, globalObj *value.Object) error {
	protoV, protoObj, err := newPlainObject(vm)
	if err != nil {
		return err
	}
	if err := method(vm, protoObj, "toString", 1, idNumberToString, nativeNumberToString); err != nil {
		return err
	}
	if err := method(vm, protoObj, "valueOf", 0, idNumberValueOf, nativeNumberValueOf); err != nil {
		return err
	}
	if err := method(vm, protoObj, "toFixed", 1, idNumberToFixed, nativeNumberToFixed); err != nil {
		return err
	}

	ctorV, err := vm.NewNativeFunction(int(idNumberCtor), "Number", 1)
	if err != nil {
		return err
	}
	vm.DefineNative(int(idNumberCtor), nativeNumberCtor)
	if err := linkCtorAndProto(vm, ctorV, protoV); err != nil {
		return err
	}
	ctorObj := protoObjectOf(vm, ctorV)
	if err := method(vm, ctorObj, "isInteger", 1, idNumberIsInteger, nativeNumberIsInteger); err != nil {
		return err
	}
	if err := method(vm, ctorObj, "isFinite", 1, idNumberIsFinite, nativeNumberIsFinite); err != nil {
		return err
	}
	if err := method(vm, ctorObj, "isNaN", 1, idNumberIsNaN, nativeNumberIsNaN); err != nil {
		return err
	}
	statics := []struct {
		name string
		v    float64
	}{
		{"MAX_SAFE_INTEGER", 9007199254740991},
		{"MIN_SAFE_INTEGER", -9007199254740991},
		{"EPSILON", math.Nextafter(1, 2) - 1},
		{"POSITIVE_INFINITY", math.Inf(1)},
		{"NEGATIVE_INFINITY", math.Inf(-1)},
		{"NaN", math.NaN()},
	}
	for _, s := range statics {
		v, err := vm.NumberValue(s.v)
		if err != nil {
			return err
		}
		if err := dataProp(vm, ctorObj, s.name, v); err != nil {
			return err
		}
	}

	vm.NumberProto = heap.CompressedPointer(protoV.AsCompressedPointer())
	return defineGlobal(vm, globalObj, "Number", ctorV)
}

func numberOf(vm *interp.Interpreter, this value.Value) (float64, value.Value, bool, error) {
	if n, ok := vm.Arena.ToNumber(this); ok {
		return n, value.Undefined, false, nil
	}
	return vm.ToNumberValue(this)
}

func nativeNumberCtor(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	if len(args) == 0 {
		v, err := vm.NumberValue(0)
		return v, value.Undefined, false, err
	}
	n, thrown, hasThrown, err := numberOf(vm, args[0])
	if hasThrown || err != nil {
		return value.Undefined, thrown, hasThrown, err
	}
	v, err := vm.NumberValue(n)
	return v, value.Undefined, false, err
}

func nativeNumberToString(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	n, thrown, hasThrown, err := numberOf(vm, this)
	if hasThrown || err != nil {
		return value.Undefined, thrown, hasThrown, err
	}
	base := 10
	if len(args) > 0 && !args[0].IsUndefined() {
		bn, _ := vm.Arena.ToNumber(args[0])
		base = int(bn)
	}
	var text string
	if base == 10 {
		text = strconv.FormatFloat(n, 'g', -1, 64)
	} else {
		text = strconv.FormatInt(int64(n), base)
	}
	s, err := vm.Arena.NewString(text)
	return s, value.Undefined, false, err
}

func nativeNumberValueOf(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	n, thrown, hasThrown, err := numberOf(vm, this)
	if hasThrown || err != nil {
		return value.Undefined, thrown, hasThrown, err
	}
	v, err := vm.NumberValue(n)
	return v, value.Undefined, false, err
}

func nativeNumberToFixed(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	n, thrown, hasThrown, err := numberOf(vm, this)
	if hasThrown || err != nil {
		return value.Undefined, thrown, hasThrown, err
	}
	digits := 0
	if len(args) > 0 && !args[0].IsUndefined() {
		dn, _ := vm.Arena.ToNumber(args[0])
		digits = int(dn)
	}
	s, err := vm.Arena.NewString(strconv.FormatFloat(n, 'f', digits, 64))
	return s, value.Undefined, false, err
}

// isNumberValue reports whether v is actually a Number (small int or
// boxed float), never coercing a string/boolean — Number.isInteger and
// friends must say false for "5", unlike the global isFinite/isNaN.
func isNumberValue(vm *interp.Interpreter, v value.Value) (float64, bool) {
	if v.IsSmallInt() {
		return float64(v.AsSmallInt()), true
	}
	if nb, ok := vm.Arena.NumberBox(v); ok {
		return nb.Float, true
	}
	return 0, false
}

func nativeNumberIsInteger(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	n, isNum := isNumberValue(vm, arg(args, 0))
	return ok(value.Bool(isNum && !math.IsNaN(n) && !math.IsInf(n, 0) && n == math.Trunc(n)))
}

func nativeNumberIsFinite(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	n, isNum := isNumberValue(vm, arg(args, 0))
	return ok(value.Bool(isNum && !math.IsNaN(n) && !math.IsInf(n, 0)))
}

func nativeNumberIsNaN(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	n, isNum := isNumberValue(vm, arg(args, 0))
	return ok(value.Bool(isNum && math.IsNaN(n)))
}
