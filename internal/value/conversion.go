package value

import (
	"math"
	"strconv"
	"strings"
)

// ToBoolean implements ECMA-262 9.2 ToBoolean; it never allocates and
// never fails (object references are always truthy, so no interpreter
// call-out is needed).
func (a *Arena) ToBoolean(v Value) bool {
	switch {
	case v.IsUndefined(), v.IsNull(), v.IsEmpty():
		return false
	case v.IsTrue():
		return true
	case v.IsFalse():
		return false
	case v.IsSmallInt():
		return v.AsSmallInt() != 0
	case v.IsPtr():
		if nb, ok := a.NumberBox(v); ok {
			return !math.IsNaN(nb.Float) && nb.Float != 0
		}
		if s, ok := a.Str(v); ok {
			return s.Text() != ""
		}
		return true // object, symbol, bigint-with-nonzero-digits
	default:
		return true
	}
}

// ToNumber implements ECMA-262 9.3 ToNumber for the primitive value
// kinds; object-to-primitive coercion (via an interpreter call into
// valueOf/toString) is the caller's responsibility, matching how
// ecma_op_to_number delegates to ecma_op_to_primitive before recursing.
// ok is false only when v addresses an object/symbol/bigint, which the
// caller must reject (symbol) or route to BigInt arithmetic instead.
func (a *Arena) ToNumber(v Value) (float64, bool) {
	switch {
	case v.IsUndefined():
		return math.NaN(), true
	case v.IsNull(), v.IsFalse():
		return 0, true
	case v.IsTrue():
		return 1, true
	case v.IsSmallInt():
		return float64(v.AsSmallInt()), true
	case v.IsPtr():
		if nb, ok := a.NumberBox(v); ok {
			return nb.Float, true
		}
		if s, ok := a.Str(v); ok {
			return stringToNumber(s.Text()), true
		}
		return 0, false
	default:
		return 0, false
	}
}

// stringToNumber follows ECMA-262 9.3.1: trim whitespace, empty string is
// zero, otherwise parse as a StrDecimalLiteral or HexIntegerLiteral and
// produce NaN on any leftover characters.
func stringToNumber(s string) float64 {
	t := strings.TrimSpace(s)
	if t == "" {
		return 0
	}
	// ParseFloat also accepts inf/nan spellings and hex floats, which are
	// not StrDecimalLiterals; those texts fall through to the checks below.
	if n, err := strconv.ParseFloat(t, 64); err == nil && !strings.ContainsAny(t, "iInNxX") {
		return n
	}
	if len(t) > 2 && t[0] == '0' && (t[1] == 'x' || t[1] == 'X') {
		if n, err := strconv.ParseUint(t[2:], 16, 64); err == nil {
			return float64(n)
		}
	}
	switch t {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	return math.NaN()
}

// ToStringText implements the primitive half of ECMA-262 9.8 ToString;
// it returns the Go string a caller wraps in a new heap String (or
// interns via the literal table). ok is false for an object/symbol,
// which the caller must route through default-value coercion instead.
func (a *Arena) ToStringText(v Value) (string, bool) {
	switch {
	case v.IsUndefined():
		return "undefined", true
	case v.IsNull():
		return "null", true
	case v.IsTrue():
		return "true", true
	case v.IsFalse():
		return "false", true
	case v.IsSmallInt():
		return strconv.FormatInt(v.AsSmallInt(), 10), true
	case v.IsPtr():
		if nb, ok := a.NumberBox(v); ok {
			return numberToString(nb.Float), true
		}
		if s, ok := a.Str(v); ok {
			return s.Text(), true
		}
		return "", false
	default:
		return "", false
	}
}

// numberToString implements the notable special cases of ECMA-262 7.1.12.1;
// the general shortest-round-trip digit generation is delegated to
// strconv, matching Go's own float-to-string conventions.
func numberToString(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	case n == 0:
		return "0" // ToString(-0) is "0"; FormatFloat would give "-0"
	default:
		return strconv.FormatFloat(n, 'g', -1, 64)
	}
}

// numberEquals implements the numeric half of same-value comparisons
// shared by SameValue/SameValueZero: NaN compares equal to itself, and
// zeroSensitive controls whether +0 and -0 are distinguished.
func numberEquals(x, y float64, zeroSensitive bool) bool {
	xNaN, yNaN := math.IsNaN(x), math.IsNaN(y)
	if xNaN || yNaN {
		return xNaN && yNaN
	}
	if zeroSensitive && x == 0 && y == 0 && math.Signbit(x) != math.Signbit(y) {
		return false
	}
	return x == y
}

// SameValue implements ECMA-262 7.2.9 SameValue (distinguishes +0/-0,
// treats NaN as equal to itself), grounded on ecma_op_same_value: equal
// encoded words are trivially same-value, otherwise numbers and strings
// get content comparison and every other heap kind falls back to
// identity (which the x==y check above already covers).
func (a *Arena) SameValue(x, y Value) bool {
	if x == y {
		return true
	}
	xn, xIsNum := a.numberIfAny(x)
	yn, yIsNum := a.numberIfAny(y)
	if xIsNum && yIsNum {
		return numberEquals(xn, yn, true)
	}
	if xIsNum != yIsNum {
		return false
	}
	return a.Equal(x, y) // both resolved as strings, or both failed (non-string heap kinds)
}

// SameValueZero implements ECMA-262 7.2.10 SameValueZero, used by
// Array.prototype.includes and Map/Set key comparison: identical to
// SameValue except +0 and -0 compare equal.
func (a *Arena) SameValueZero(x, y Value) bool {
	xn, xIsNum := a.numberIfAny(x)
	yn, yIsNum := a.numberIfAny(y)
	if xIsNum && yIsNum {
		return numberEquals(xn, yn, false)
	}
	return a.SameValue(x, y)
}

// StrictEquals implements the `===` operator (ECMA-262 11.9.6): like
// SameValue but +0 equals -0 and NaN is never equal to itself.
func (a *Arena) StrictEquals(x, y Value) bool {
	xn, xIsNum := a.numberIfAny(x)
	yn, yIsNum := a.numberIfAny(y)
	if xIsNum && yIsNum {
		return xn == yn
	}
	if xIsNum != yIsNum {
		return false
	}
	return a.SameValue(x, y)
}

// numberIfAny reports the numeric value of v when v is a small integer
// or a boxed float, used to give SameValue/StrictEquals the ECMA-262
// number-specific comparison rules without a full type switch.
func (a *Arena) numberIfAny(v Value) (float64, bool) {
	if v.IsSmallInt() {
		return float64(v.AsSmallInt()), true
	}
	if v.IsPtr() {
		if nb, ok := a.NumberBox(v); ok {
			return nb.Float, true
		}
	}
	return 0, false
}
