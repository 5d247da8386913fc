package builtins

import (
	"math"
	"strconv"
	"strings"

	"github.com/jerryscript-project/jerryscript-sub014/internal/interp"
	"github.com/jerryscript-project/jerryscript-sub014/internal/value"
)

// installGlobalFunctions exposes parseInt/parseFloat/isNaN/isFinite
// directly on the global object, the four free functions ECMA-262
// defines outside any constructor's namespace.
func installGlobalFunctions(vm *interp.Interpreter, globalObj *value.Object) error {
	fns := []struct {
		name   string
		length int
		nid    id
		fn     interp.NativeFunc
	}{
		{"parseInt", 2, idGlobalParseInt, nativeParseInt},
		{"parseFloat", 1, idGlobalParseFloat, nativeParseFloat},
		{"isNaN", 1, idGlobalIsNaN, nativeIsNaN},
		{"isFinite", 1, idGlobalIsFinite, nativeIsFinite},
	}
	for _, f := range fns {
		vm.DefineNative(int(f.nid), f.fn)
		fnV, err := vm.NewNativeFunction(int(f.nid), f.name, f.length)
		if err != nil {
			return err
		}
		if err := defineGlobal(vm, globalObj, f.name, fnV); err != nil {
			return err
		}
	}
	return nil
}

func nativeParseInt(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	text, thrown, hasThrown, err := vm.ToStringValue(arg(args, 0))
	if hasThrown || err != nil {
		return value.Undefined, thrown, hasThrown, err
	}
	text = strings.TrimSpace(text)
	base := 0
	if len(args) > 1 && !args[1].IsUndefined() {
		n, _ := vm.Arena.ToNumber(args[1])
		base = int(n)
	}
	neg := false
	if strings.HasPrefix(text, "-") {
		neg = true
		text = text[1:]
	} else if strings.HasPrefix(text, "+") {
		text = text[1:]
	}
	if base == 0 || base == 16 {
		if strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X") {
			text = text[2:]
			base = 16
		} else if base == 0 {
			base = 10
		}
	}
	end := 0
	for end < len(text) && isDigitInBase(text[end], base) {
		end++
	}
	if end == 0 {
		v, err := vm.NumberValue(math.NaN())
		return v, value.Undefined, false, err
	}
	n, err := strconv.ParseInt(text[:end], base, 64)
	if err != nil {
		v, verr := vm.NumberValue(math.NaN())
		return v, value.Undefined, false, verr
	}
	result := float64(n)
	if neg {
		result = -result
	}
	v, err := vm.NumberValue(result)
	return v, value.Undefined, false, err
}

func isDigitInBase(c byte, base int) bool {
	var d int
	switch {
	case c >= '0' && c <= '9':
		d = int(c - '0')
	case c >= 'a' && c <= 'z':
		d = int(c-'a') + 10
	case c >= 'A' && c <= 'Z':
		d = int(c-'A') + 10
	default:
		return false
	}
	return d < base
}

func nativeParseFloat(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	text, thrown, hasThrown, err := vm.ToStringValue(arg(args, 0))
	if hasThrown || err != nil {
		return value.Undefined, thrown, hasThrown, err
	}
	text = strings.TrimSpace(text)
	end := 0
	seenDot, seenExp, seenDigit := false, false, false
	for end < len(text) {
		c := text[end]
		switch {
		case c >= '0' && c <= '9':
			seenDigit = true
		case c == '.' && !seenDot && !seenExp:
			seenDot = true
		case (c == 'e' || c == 'E') && !seenExp && seenDigit:
			seenExp = true
		case (c == '+' || c == '-') && (end == 0 || text[end-1] == 'e' || text[end-1] == 'E'):
		default:
			goto done
		}
		end++
	}
done:
	if end == 0 || !seenDigit {
		v, err := vm.NumberValue(math.NaN())
		return v, value.Undefined, false, err
	}
	n, err := strconv.ParseFloat(text[:end], 64)
	if err != nil {
		v, verr := vm.NumberValue(math.NaN())
		return v, value.Undefined, false, verr
	}
	v, err := vm.NumberValue(n)
	return v, value.Undefined, false, err
}

func nativeIsNaN(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	n, thrown, hasThrown, err := vm.ToNumberValue(arg(args, 0))
	if hasThrown || err != nil {
		return value.Undefined, thrown, hasThrown, err
	}
	return ok(value.Bool(math.IsNaN(n)))
}

func nativeIsFinite(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	n, thrown, hasThrown, err := vm.ToNumberValue(arg(args, 0))
	if hasThrown || err != nil {
		return value.Undefined, thrown, hasThrown, err
	}
	return ok(value.Bool(!math.IsNaN(n) && !math.IsInf(n, 0)))
}
