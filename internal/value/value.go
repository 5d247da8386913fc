// Package value implements the tagged Value encoding and the heap-resident
// object/string/environment representations described by the runtime core
// (spec §3, §4.2). Value itself is a NaN-boxed 64-bit word: the low tag
// space mirrors the quiet-NaN scheme a register-based interpreter would use
// for branch-light fast paths, generalized here to the full undefined /
// null / true / false / empty / small-integer / heap-cp taxonomy spec.md
// names, plus a dedicated bit for "error in progress" completions.
package value

import "fmt"

// Value is a tagged word uniquely encoding one of: undefined, null, true,
// false, empty (internal sentinel), a small integer, or a compressed
// pointer to a heap-resident object (number box, string, symbol, object,
// or big-integer — disambiguated by the object's own Kind field).
type Value uint64

const (
	nanMask  Value = 0x7FF8000000000000
	errorBit Value = 0x8000000000000000

	tagDirect Value = 0x7FF8000000000000 // nil/false/true/empty/undefined live here
	tagPtr    Value = 0x7FFC000000000000
	tagInt    Value = 0x7FFE000000000000

	ptrPayloadMask Value = 0x0000FFFFFFFFFFFF
	intPayloadMask Value = 0x0000FFFFFFFFFFFF
	intSignBit     Value = 0x0000800000000000

	tag16Mask Value = 0xFFFF000000000000
)

const (
	directUndefined = 0
	directNull      = 1
	directFalse     = 2
	directTrue      = 3
	directEmpty     = 4
)

var (
	Undefined = tagDirect | directUndefined
	Null      = tagDirect | directNull
	False     = tagDirect | directFalse
	True      = tagDirect | directTrue
	// Empty is the internal sentinel used for uninitialized bindings and
	// "no value produced" completions; never observable from script.
	Empty = tagDirect | directEmpty
)

// Bool returns True or False for a Go bool.
func Bool(b bool) Value {
	if b {
		return True
	}
	return False
}

// SmallInt encodes an integer that fits in 48 bits signed. Callers must
// check FitsSmallInt first; out-of-range integers must be boxed as a
// NumberBox heap object instead.
func SmallInt(n int64) Value {
	return tagInt | (Value(n) & intPayloadMask)
}

// FitsSmallInt reports whether n fits the small-integer fast path.
func FitsSmallInt(n int64) bool {
	return n >= -(1<<47) && n < (1<<47)
}

// FromCompressedPointer wraps a heap-resident object's compressed pointer
// as a Value. cp must never be the reserved Null compressed pointer for a
// live object — callers use Undefined/Null Value constants for those.
func FromCompressedPointer(cp uint32) Value {
	return tagPtr | (Value(cp) & ptrPayloadMask)
}

// IsUndefined, IsNull, IsBool, IsTrue, IsFalse, IsEmpty, IsSmallInt, IsPtr
// classify a Value's direct tag. All ignore the error bit: callers are
// expected to have already branched on IsError.
func (v Value) stripError() Value { return v &^ errorBit }

func (v Value) IsUndefined() bool { return v.stripError() == Undefined }
func (v Value) IsNull() bool      { return v.stripError() == Null }
func (v Value) IsBool() bool {
	s := v.stripError()
	return s == True || s == False
}
func (v Value) IsTrue() bool  { return v.stripError() == True }
func (v Value) IsFalse() bool { return v.stripError() == False }
func (v Value) IsEmpty() bool { return v.stripError() == Empty }

func (v Value) IsSmallInt() bool { return v.stripError()&tag16Mask == tagInt&tag16Mask }

func (v Value) IsPtr() bool { return v.stripError()&tag16Mask == tagPtr&tag16Mask }

// AsSmallInt extracts the signed 48-bit payload. Behavior is undefined if
// !IsSmallInt().
func (v Value) AsSmallInt() int64 {
	p := v.stripError() & intPayloadMask
	if p&intSignBit != 0 {
		p |= ^intPayloadMask // sign-extend
	}
	return int64(p)
}

// AsCompressedPointer extracts the 48-bit (stored as 32-bit in practice)
// payload. Behavior is undefined if !IsPtr().
func (v Value) AsCompressedPointer() uint32 {
	return uint32(v.stripError() & ptrPayloadMask)
}

// MarkError wraps v as an "error in progress" completion. The spec
// requires is_error to be a single comparison; here it is a single AND.
func MarkError(v Value) Value { return v | errorBit }

// IsError reports whether v represents an in-progress error completion.
func (v Value) IsError() bool { return v&errorBit != 0 }

// Unwrap strips the error bit, returning the underlying thrown value.
// Only meaningful when IsError() is true.
func (v Value) Unwrap() Value { return v.stripError() }

// Kind enumerates the direct classification of a Value for typeof-style
// dispatch, ignoring the error bit.
type Kind int

const (
	KindUndefined Kind = iota
	KindNull
	KindBoolean
	KindEmpty
	KindSmallInt
	KindObjectPtr // cp to a heap-resident kind; consult the object header
)

func (v Value) Kind() Kind {
	switch {
	case v.IsUndefined():
		return KindUndefined
	case v.IsNull():
		return KindNull
	case v.IsBool():
		return KindBoolean
	case v.IsEmpty():
		return KindEmpty
	case v.IsSmallInt():
		return KindSmallInt
	default:
		return KindObjectPtr
	}
}

func (v Value) String() string {
	errTag := ""
	if v.IsError() {
		errTag = "!"
	}
	switch v.Kind() {
	case KindUndefined:
		return errTag + "undefined"
	case KindNull:
		return errTag + "null"
	case KindBoolean:
		if v.IsTrue() {
			return errTag + "true"
		}
		return errTag + "false"
	case KindEmpty:
		return errTag + "<empty>"
	case KindSmallInt:
		return fmt.Sprintf("%s%d", errTag, v.AsSmallInt())
	default:
		return fmt.Sprintf("%scp(%d)", errTag, v.AsCompressedPointer())
	}
}
