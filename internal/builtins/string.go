package builtins

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/jerryscript-project/jerryscript-sub014/internal/heap"
	"github.com/jerryscript-project/jerryscript-sub014/internal/interp"
	"github.com/jerryscript-project/jerryscript-sub014/internal/value"
)

// installString builds the String constructor/coercion function and
// registers vm.StringProto so bare string primitives resolve
// charAt/slice/... through internal/interp's primitiveProto fallback
// without ever being boxed.
func installString(vm *interp.Interpreter, globalObj *value.Object) error {
	protoV, protoObj, err := newPlainObject(vm)
	if err != nil {
		return err
	}

	methods := []struct {
		name   string
		length int
		nid    id
		fn     interp.NativeFunc
	}{
		{"toString", 0, idStringToString, nativeStringToString},
		{"valueOf", 0, idStringValueOf, nativeStringValueOf},
		{"charAt", 1, idStringCharAt, nativeStringCharAt},
		{"charCodeAt", 1, idStringCharCodeAt, nativeStringCharCodeAt},
		{"indexOf", 1, idStringIndexOf, nativeStringIndexOf},
		{"lastIndexOf", 1, idStringLastIndexOf, nativeStringLastIndexOf},
		{"includes", 1, idStringIncludes, nativeStringIncludes},
		{"startsWith", 1, idStringStartsWith, nativeStringStartsWith},
		{"endsWith", 1, idStringEndsWith, nativeStringEndsWith},
		{"slice", 2, idStringSlice, nativeStringSlice},
		{"substring", 2, idStringSubstring, nativeStringSubstring},
		{"split", 2, idStringSplit, nativeStringSplit},
		{"toUpperCase", 0, idStringToUpperCase, nativeStringToUpperCase},
		{"toLowerCase", 0, idStringToLowerCase, nativeStringToLowerCase},
		{"trim", 0, idStringTrim, nativeStringTrim},
		{"concat", 1, idStringConcat, nativeStringConcat},
		{"repeat", 1, idStringRepeat, nativeStringRepeat},
		{"padStart", 1, idStringPadStart, nativeStringPadStart},
		{"padEnd", 1, idStringPadEnd, nativeStringPadEnd},
		{"replace", 2, idStringReplace, nativeStringReplace},
	}
	for _, m := range methods {
		if err := method(vm, protoObj, m.name, m.length, m.nid, m.fn); err != nil {
			return err
		}
	}

	ctorV, err := vm.NewNativeFunction(int(idStringCtor), "String", 1)
	if err != nil {
		return err
	}
	vm.DefineNative(int(idStringCtor), nativeStringCtor)
	if err := linkCtorAndProto(vm, ctorV, protoV); err != nil {
		return err
	}
	ctorObj := protoObjectOf(vm, ctorV)
	if err := method(vm, ctorObj, "fromCharCode", 1, idStringFromCharCode, nativeStringFromCharCode); err != nil {
		return err
	}
	vm.StringProto = heap.CompressedPointer(protoV.AsCompressedPointer())
	return defineGlobal(vm, globalObj, "String", ctorV)
}

// textOf coerces this to its underlying string, working whether this is
// a bare string primitive or a call through call/apply with some other
// receiver (ToStringValue then handles full ToPrimitive coercion).
func textOf(vm *interp.Interpreter, this value.Value) (string, value.Value, bool, error) {
	if s, ok := vm.Arena.Str(this); ok {
		return s.Text(), value.Undefined, false, nil
	}
	return vm.ToStringValue(this)
}

func nativeStringCtor(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	if len(args) == 0 {
		s, err := vm.Arena.NewString("")
		return s, value.Undefined, false, err
	}
	text, thrown, hasThrown, err := vm.ToStringValue(args[0])
	if hasThrown || err != nil {
		return value.Undefined, thrown, hasThrown, err
	}
	s, err := vm.Arena.NewString(text)
	return s, value.Undefined, false, err
}

func nativeStringFromCharCode(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	var sb strings.Builder
	for _, a := range args {
		n, thrown, hasThrown, err := vm.ToNumberValue(a)
		if hasThrown || err != nil {
			return value.Undefined, thrown, hasThrown, err
		}
		sb.WriteRune(rune(int32(n)))
	}
	s, err := vm.Arena.NewString(sb.String())
	return s, value.Undefined, false, err
}

func nativeStringToString(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	text, thrown, hasThrown, err := textOf(vm, this)
	if hasThrown || err != nil {
		return value.Undefined, thrown, hasThrown, err
	}
	s, err := vm.Arena.NewString(text)
	return s, value.Undefined, false, err
}

func nativeStringValueOf(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	return nativeStringToString(vm, this, args)
}

func nativeStringCharAt(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	text, thrown, hasThrown, err := textOf(vm, this)
	if hasThrown || err != nil {
		return value.Undefined, thrown, hasThrown, err
	}
	runes := []rune(text)
	n, _ := vm.Arena.ToNumber(arg(args, 0))
	i := int(n)
	if i < 0 || i >= len(runes) {
		s, err := vm.Arena.NewString("")
		return s, value.Undefined, false, err
	}
	s, err := vm.Arena.NewString(string(runes[i]))
	return s, value.Undefined, false, err
}

func nativeStringCharCodeAt(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	text, thrown, hasThrown, err := textOf(vm, this)
	if hasThrown || err != nil {
		return value.Undefined, thrown, hasThrown, err
	}
	runes := []rune(text)
	n, _ := vm.Arena.ToNumber(arg(args, 0))
	i := int(n)
	if i < 0 || i >= len(runes) {
		nv, err := vm.NumberValue(math.NaN())
		return nv, value.Undefined, false, err
	}
	nv, err := vm.NumberValue(float64(runes[i]))
	return nv, value.Undefined, false, err
}

func nativeStringIndexOf(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	text, thrown, hasThrown, err := textOf(vm, this)
	if hasThrown || err != nil {
		return value.Undefined, thrown, hasThrown, err
	}
	search, thrown, hasThrown, err := vm.ToStringValue(arg(args, 0))
	if hasThrown || err != nil {
		return value.Undefined, thrown, hasThrown, err
	}
	idx := strings.Index(text, search)
	n, err := vm.NumberValue(float64(runeIndex(text, idx)))
	return n, value.Undefined, false, err
}

func nativeStringLastIndexOf(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	text, thrown, hasThrown, err := textOf(vm, this)
	if hasThrown || err != nil {
		return value.Undefined, thrown, hasThrown, err
	}
	search, thrown, hasThrown, err := vm.ToStringValue(arg(args, 0))
	if hasThrown || err != nil {
		return value.Undefined, thrown, hasThrown, err
	}
	idx := strings.LastIndex(text, search)
	n, err := vm.NumberValue(float64(runeIndex(text, idx)))
	return n, value.Undefined, false, err
}

// runeIndex converts a byte offset (as strings.Index returns) into a
// rune offset, the unit every other string method here uses, since JS
// string indices are UTF-16 code units and our nearest affordable
// approximation is rune count.
func runeIndex(text string, byteIdx int) int {
	if byteIdx <= 0 {
		return byteIdx
	}
	return utf8.RuneCountInString(text[:byteIdx])
}

func nativeStringIncludes(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	text, thrown, hasThrown, err := textOf(vm, this)
	if hasThrown || err != nil {
		return value.Undefined, thrown, hasThrown, err
	}
	search, thrown, hasThrown, err := vm.ToStringValue(arg(args, 0))
	if hasThrown || err != nil {
		return value.Undefined, thrown, hasThrown, err
	}
	return ok(value.Bool(strings.Contains(text, search)))
}

func nativeStringStartsWith(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	text, thrown, hasThrown, err := textOf(vm, this)
	if hasThrown || err != nil {
		return value.Undefined, thrown, hasThrown, err
	}
	search, thrown, hasThrown, err := vm.ToStringValue(arg(args, 0))
	if hasThrown || err != nil {
		return value.Undefined, thrown, hasThrown, err
	}
	return ok(value.Bool(strings.HasPrefix(text, search)))
}

func nativeStringEndsWith(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	text, thrown, hasThrown, err := textOf(vm, this)
	if hasThrown || err != nil {
		return value.Undefined, thrown, hasThrown, err
	}
	search, thrown, hasThrown, err := vm.ToStringValue(arg(args, 0))
	if hasThrown || err != nil {
		return value.Undefined, thrown, hasThrown, err
	}
	return ok(value.Bool(strings.HasSuffix(text, search)))
}

func nativeStringSlice(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	text, thrown, hasThrown, err := textOf(vm, this)
	if hasThrown || err != nil {
		return value.Undefined, thrown, hasThrown, err
	}
	runes := []rune(text)
	length := len(runes)
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
	s, err := vm.Arena.NewString(string(runes[start:end]))
	return s, value.Undefined, false, err
}

func nativeStringSubstring(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	text, thrown, hasThrown, err := textOf(vm, this)
	if hasThrown || err != nil {
		return value.Undefined, thrown, hasThrown, err
	}
	runes := []rune(text)
	length := len(runes)
	clamp := func(n float64) int {
		i := int(n)
		if i < 0 {
			i = 0
		}
		if i > length {
			i = length
		}
		return i
	}
	start, end := 0, length
	if len(args) > 0 && !args[0].IsUndefined() {
		n, _ := vm.Arena.ToNumber(args[0])
		start = clamp(n)
	}
	if len(args) > 1 && !args[1].IsUndefined() {
		n, _ := vm.Arena.ToNumber(args[1])
		end = clamp(n)
	}
	if start > end {
		start, end = end, start
	}
	s, err := vm.Arena.NewString(string(runes[start:end]))
	return s, value.Undefined, false, err
}

func nativeStringSplit(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	text, thrown, hasThrown, err := textOf(vm, this)
	if hasThrown || err != nil {
		return value.Undefined, thrown, hasThrown, err
	}
	sepArg := arg(args, 0)
	var parts []string
	if sepArg.IsUndefined() {
		parts = []string{text}
	} else {
		sep, thrown, hasThrown, err := vm.ToStringValue(sepArg)
		if hasThrown || err != nil {
			return value.Undefined, thrown, hasThrown, err
		}
		if sep == "" {
			for _, r := range text {
				parts = append(parts, string(r))
			}
		} else {
			parts = strings.Split(text, sep)
		}
	}
	elems := make([]value.Value, len(parts))
	for i, p := range parts {
		s, err := vm.Arena.NewString(p)
		if err != nil {
			return value.Undefined, value.Undefined, false, err
		}
		elems[i] = s
	}
	v, err := newArray(vm, elems)
	return v, value.Undefined, false, err
}

func nativeStringToUpperCase(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	text, thrown, hasThrown, err := textOf(vm, this)
	if hasThrown || err != nil {
		return value.Undefined, thrown, hasThrown, err
	}
	s, err := vm.Arena.NewString(strings.ToUpper(text))
	return s, value.Undefined, false, err
}

func nativeStringToLowerCase(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	text, thrown, hasThrown, err := textOf(vm, this)
	if hasThrown || err != nil {
		return value.Undefined, thrown, hasThrown, err
	}
	s, err := vm.Arena.NewString(strings.ToLower(text))
	return s, value.Undefined, false, err
}

func nativeStringTrim(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	text, thrown, hasThrown, err := textOf(vm, this)
	if hasThrown || err != nil {
		return value.Undefined, thrown, hasThrown, err
	}
	s, err := vm.Arena.NewString(strings.TrimSpace(text))
	return s, value.Undefined, false, err
}

func nativeStringConcat(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	text, thrown, hasThrown, err := textOf(vm, this)
	if hasThrown || err != nil {
		return value.Undefined, thrown, hasThrown, err
	}
	var sb strings.Builder
	sb.WriteString(text)
	for _, a := range args {
		part, thrown, hasThrown, err := vm.ToStringValue(a)
		if hasThrown || err != nil {
			return value.Undefined, thrown, hasThrown, err
		}
		sb.WriteString(part)
	}
	s, err := vm.Arena.NewString(sb.String())
	return s, value.Undefined, false, err
}

func nativeStringRepeat(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	text, thrown, hasThrown, err := textOf(vm, this)
	if hasThrown || err != nil {
		return value.Undefined, thrown, hasThrown, err
	}
	n, _ := vm.Arena.ToNumber(arg(args, 0))
	if n < 0 {
		return vm.ThrowRangeError("repeat count must be non-negative")
	}
	s, err := vm.Arena.NewString(strings.Repeat(text, int(n)))
	return s, value.Undefined, false, err
}

func nativeStringPadStart(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	return stringPad(vm, this, args, true)
}

func nativeStringPadEnd(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	return stringPad(vm, this, args, false)
}

func stringPad(vm *interp.Interpreter, this value.Value, args []value.Value, atStart bool) (value.Value, value.Value, bool, error) {
	text, thrown, hasThrown, err := textOf(vm, this)
	if hasThrown || err != nil {
		return value.Undefined, thrown, hasThrown, err
	}
	targetLen, _ := vm.Arena.ToNumber(arg(args, 0))
	pad := " "
	if len(args) > 1 && !args[1].IsUndefined() {
		pad, thrown, hasThrown, err = vm.ToStringValue(args[1])
		if hasThrown || err != nil {
			return value.Undefined, thrown, hasThrown, err
		}
	}
	runes := []rune(text)
	need := int(targetLen) - len(runes)
	if need <= 0 || pad == "" {
		s, err := vm.Arena.NewString(text)
		return s, value.Undefined, false, err
	}
	padRunes := []rune(strings.Repeat(pad, need/utf8.RuneCountInString(pad)+1))[:need]
	var s value.Value
	if atStart {
		s, err = vm.Arena.NewString(string(padRunes) + text)
	} else {
		s, err = vm.Arena.NewString(text + string(padRunes))
	}
	return s, value.Undefined, false, err
}

// nativeStringReplace implements the non-regexp case only: replace the
// first textual occurrence of the search argument. Pattern-based
// replace is out of scope (the regex engine is its own component).
func nativeStringReplace(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	text, thrown, hasThrown, err := textOf(vm, this)
	if hasThrown || err != nil {
		return value.Undefined, thrown, hasThrown, err
	}
	search, thrown, hasThrown, err := vm.ToStringValue(arg(args, 0))
	if hasThrown || err != nil {
		return value.Undefined, thrown, hasThrown, err
	}
	replacement, thrown, hasThrown, err := vm.ToStringValue(arg(args, 1))
	if hasThrown || err != nil {
		return value.Undefined, thrown, hasThrown, err
	}
	s, err := vm.Arena.NewString(strings.Replace(text, search, replacement, 1))
	return s, value.Undefined, false, err
}
