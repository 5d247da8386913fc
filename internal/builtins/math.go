package builtins

import (
	"math"
	"math/rand"

	"github.com/jerryscript-project/jerryscript-sub014/internal/interp"
	"github.com/jerryscript-project/jerryscript-sub014/internal/value"
)

// installMath builds the non-constructible Math namespace object,
// grounded on the teacher's createMathFunc(name, arity, fn) table-driven
// registration pattern generalized to method()'s BuiltinID-keyed form.
// Algorithmic correctness of the wrapped math/rand calls themselves is
// explicitly out of scope; only the dispatch surface is specified.
func installMath(vm *interp.Interpreter, globalObj *value.Object) error {
	mathV, mathObj, err := newNamespaceObject(vm)
	if err != nil {
		return err
	}

	unary := []struct {
		name string
		nid  id
		fn   func(float64) float64
	}{
		{"abs", idMathAbs, math.Abs},
		{"floor", idMathFloor, math.Floor},
		{"ceil", idMathCeil, math.Ceil},
		{"round", idMathRound, math.Round},
		{"trunc", idMathTrunc, math.Trunc},
		{"sqrt", idMathSqrt, math.Sqrt},
	}
	for _, u := range unary {
		fn := u.fn
		if err := method(vm, mathObj, u.name, 1, u.nid, func(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
			n, thrown, hasThrown, err := vm.ToNumberValue(arg(args, 0))
			if hasThrown || err != nil {
				return value.Undefined, thrown, hasThrown, err
			}
			v, err := vm.NumberValue(fn(n))
			return v, value.Undefined, false, err
		}); err != nil {
			return err
		}
	}

	if err := method(vm, mathObj, "sign", 1, idMathSign, nativeMathSign); err != nil {
		return err
	}
	if err := method(vm, mathObj, "pow", 2, idMathPow, nativeMathPow); err != nil {
		return err
	}
	if err := method(vm, mathObj, "max", 2, idMathMax, nativeMathMax); err != nil {
		return err
	}
	if err := method(vm, mathObj, "min", 2, idMathMin, nativeMathMin); err != nil {
		return err
	}
	if err := method(vm, mathObj, "random", 0, idMathRandom, nativeMathRandom); err != nil {
		return err
	}

	consts := map[string]float64{
		"PI":      math.Pi,
		"E":       math.E,
		"LN2":     math.Ln2,
		"LN10":    math.Log(10),
		"LOG2E":   1 / math.Ln2,
		"LOG10E":  1 / math.Log(10),
		"SQRT2":   math.Sqrt2,
		"SQRT1_2": math.Sqrt(0.5),
	}
	for name, v := range consts {
		nv, err := vm.NumberValue(v)
		if err != nil {
			return err
		}
		if err := dataProp(vm, mathObj, name, nv); err != nil {
			return err
		}
	}

	return defineGlobal(vm, globalObj, "Math", mathV)
}

func nativeMathSign(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	n, thrown, hasThrown, err := vm.ToNumberValue(arg(args, 0))
	if hasThrown || err != nil {
		return value.Undefined, thrown, hasThrown, err
	}
	sign := 0.0
	switch {
	case n > 0:
		sign = 1
	case n < 0:
		sign = -1
	default:
		sign = n // preserves NaN/±0
	}
	v, err := vm.NumberValue(sign)
	return v, value.Undefined, false, err
}

func nativeMathPow(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	base, thrown, hasThrown, err := vm.ToNumberValue(arg(args, 0))
	if hasThrown || err != nil {
		return value.Undefined, thrown, hasThrown, err
	}
	exp, thrown, hasThrown, err := vm.ToNumberValue(arg(args, 1))
	if hasThrown || err != nil {
		return value.Undefined, thrown, hasThrown, err
	}
	v, err := vm.NumberValue(math.Pow(base, exp))
	return v, value.Undefined, false, err
}

func nativeMathMax(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	result := math.Inf(-1)
	for _, a := range args {
		n, thrown, hasThrown, err := vm.ToNumberValue(a)
		if hasThrown || err != nil {
			return value.Undefined, thrown, hasThrown, err
		}
		if math.IsNaN(n) {
			result = math.NaN()
			continue
		}
		if n > result {
			result = n
		}
	}
	v, err := vm.NumberValue(result)
	return v, value.Undefined, false, err
}

func nativeMathMin(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	result := math.Inf(1)
	for _, a := range args {
		n, thrown, hasThrown, err := vm.ToNumberValue(a)
		if hasThrown || err != nil {
			return value.Undefined, thrown, hasThrown, err
		}
		if math.IsNaN(n) {
			result = math.NaN()
			continue
		}
		if n < result {
			result = n
		}
	}
	v, err := vm.NumberValue(result)
	return v, value.Undefined, false, err
}

func nativeMathRandom(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	v, err := vm.NumberValue(rand.Float64())
	return v, value.Undefined, false, err
}
