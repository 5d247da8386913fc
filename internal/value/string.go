package value

import (
	"strconv"

	"github.com/jerryscript-project/jerryscript-sub014/internal/heap"
)

// StringVariant discriminates the container kinds a String may hold
// (spec §3 String definition). Rope/concatenation-node strings are an
// explicitly unimplemented optional variant (see SPEC_FULL.md §5 Open
// Questions #1): every concatenation eagerly flattens to StringBytes.
type StringVariant int

const (
	StringMagic StringVariant = iota // common static string, no heap bytes
	StringBytes                      // length-prefixed UTF-8 byte sequence
	StringIntIndex                   // fast path for array-index-shaped names
	StringLiteral                    // interned, lives in the literal pool
)

// MagicID enumerates the common strings InternMagic allocates once per
// arena and then caches. Extend
// this table as built-ins need more; each entry must have stable text in
// magicText.
type MagicID int

const (
	MagicLength MagicID = iota
	MagicUndefined
	MagicNull
	MagicTrue
	MagicFalse
	MagicPrototype
	MagicConstructor
	MagicName
	MagicMessage
	MagicValueOf
	MagicToString
	magicCount
)

var magicText = [magicCount]string{
	MagicLength:      "length",
	MagicUndefined:    "undefined",
	MagicNull:         "null",
	MagicTrue:         "true",
	MagicFalse:        "false",
	MagicPrototype:    "prototype",
	MagicConstructor:  "constructor",
	MagicName:         "name",
	MagicMessage:      "message",
	MagicValueOf:      "valueOf",
	MagicToString:     "toString",
}

// String is the heap-resident record for a non-magic string. Every
// String carries a reference count per spec §3: allocated at refcount 1,
// freed at refcount 0, except literalPinned strings which the literal
// pool itself keeps alive for the runtime's lifetime regardless of
// refcount (spec §4.4).
type String struct {
	header
	Variant StringVariant
	Magic   MagicID
	Bytes   string // valid for StringBytes/StringLiteral
	IntVal  uint32 // valid for StringIntIndex

	refcount      uint32
	literalPinned bool
}

const avgStringOverhead = 32 // header + small-string-optimization budget

// InternMagic returns (allocating once, on first use) the Value for a
// magic string id, then caches it for the arena's lifetime.
func (a *Arena) InternMagic(id MagicID) Value {
	if v, ok := a.magicCache[id]; ok {
		return v
	}
	v, err := a.newStringValue(&String{
		header:  header{kind: HeapString},
		Variant: StringMagic,
		Magic:   id,
		Bytes:   magicText[id],
	})
	if err != nil {
		// Magic strings are tiny and allocated once at startup; treat
		// failure here as unrecoverable heap misconfiguration.
		panic(err)
	}
	if a.magicCache == nil {
		a.magicCache = make(map[MagicID]Value)
	}
	a.magicCache[id] = v
	return v
}

func (a *Arena) newStringValue(s *String) (Value, error) {
	cp, err := a.h.Allocate(avgStringOverhead+len(s.Bytes), heap.LifetimeShort)
	if err != nil {
		return 0, err
	}
	s.refcount = 1
	a.strings[cp] = s
	return FromCompressedPointer(uint32(cp)), nil
}

// NewString interns nothing; it allocates a fresh, non-pooled byte-sequence
// string. Use literal.Store's FindOrCreateString for the interned form
// used by bytecode.
func (a *Arena) NewString(s string) (Value, error) {
	if n, ok := parseIntIndex(s); ok {
		return a.newStringValue(&String{header: header{kind: HeapString}, Variant: StringIntIndex, IntVal: n})
	}
	return a.newStringValue(&String{header: header{kind: HeapString}, Variant: StringBytes, Bytes: s})
}

// NewLiteralString allocates a string pinned in the literal pool (spec
// §4.4: "created with a special single-reference flag; kept alive by the
// storage itself"). Release is a no-op for a pinned string; only the
// literal store itself (never reached in this package) controls its
// lifetime.
func (a *Arena) NewLiteralString(s string) (Value, error) {
	if n, ok := parseIntIndex(s); ok {
		return a.newStringValue(&String{header: header{kind: HeapString}, Variant: StringIntIndex, IntVal: n, literalPinned: true})
	}
	v, err := a.newStringValue(&String{header: header{kind: HeapString}, Variant: StringLiteral, Bytes: s})
	if err != nil {
		return 0, err
	}
	str, _ := a.Str(v)
	str.literalPinned = true
	return v, nil
}

// parseIntIndex recognizes canonical uint32 array-index strings ("0",
// "41", never "-1"/"01"/"4294967296") per the spec §4.2 integer-indexed
// fast path.
func parseIntIndex(s string) (uint32, bool) {
	if s == "" || (len(s) > 1 && s[0] == '0') {
		return 0, false
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil || n >= 1<<32-1 {
		return 0, false
	}
	return uint32(n), true
}

// Str resolves a Value known to address a heap string.
func (a *Arena) Str(v Value) (*String, bool) {
	s, ok := a.strings[heap.CompressedPointer(v.AsCompressedPointer())]
	return s, ok
}

// Text returns the string's flattened UTF-8 content, regardless of
// variant.
func (s *String) Text() string {
	switch s.Variant {
	case StringMagic, StringBytes, StringLiteral:
		return s.Bytes
	case StringIntIndex:
		return strconv.FormatUint(uint64(s.IntVal), 10)
	default:
		return ""
	}
}

// Equal implements spec §4.2 string equality: length and byte-wise
// contents, with an O(1) shortcut when both sides are the same interned
// literal pool cp.
func (a *Arena) Equal(x, y Value) bool {
	if x == y {
		return true
	}
	xs, xok := a.Str(x)
	ys, yok := a.Str(y)
	if !xok || !yok {
		return false
	}
	if xs.Variant == StringLiteral && ys.Variant == StringLiteral {
		return false // distinct cps already ruled out by x==y check above
	}
	return xs.Text() == ys.Text()
}

// AddRef increments a string's reference count.
func (a *Arena) AddRef(v Value) {
	if s, ok := a.Str(v); ok {
		s.refcount++
	}
}

// Release decrements a string's reference count, freeing it at zero
// unless it is pinned by the literal pool.
func (a *Arena) Release(v Value) {
	cp := heap.CompressedPointer(v.AsCompressedPointer())
	s, ok := a.strings[cp]
	if !ok || s.literalPinned {
		return
	}
	if s.refcount > 0 {
		s.refcount--
	}
	if s.refcount == 0 {
		delete(a.strings, cp)
		a.h.Free(cp, avgStringOverhead+len(s.Bytes))
	}
}
