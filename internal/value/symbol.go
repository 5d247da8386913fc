package value

import "github.com/jerryscript-project/jerryscript-sub014/internal/heap"

// Symbol is the heap-resident record for a unique, non-string property
// key (spec §3 value kinds).
type Symbol struct {
	header
	Description string
}

const symbolSize = 24

// NewSymbol allocates a fresh, globally-unique symbol.
func (a *Arena) NewSymbol(description string) (Value, error) {
	cp, err := a.h.Allocate(symbolSize, heap.LifetimeLong)
	if err != nil {
		return 0, err
	}
	a.symbols[cp] = &Symbol{header: header{kind: HeapSymbol}, Description: description}
	return FromCompressedPointer(uint32(cp)), nil
}

// Sym resolves a Value known to address a symbol.
func (a *Arena) Sym(v Value) (*Symbol, bool) {
	s, ok := a.symbols[heap.CompressedPointer(v.AsCompressedPointer())]
	return s, ok
}

// BigInt is the heap-resident record for the big-integer value kind
// (spec §3). Arbitrary precision is delegated to math/big, matching how
// the Go ecosystem represents it; only the heap lifecycle is novel here.
type BigInt struct {
	header
	Digits string // base-10 textual form; parsed lazily via math/big when arithmetic is needed
}

const bigIntBaseSize = 32

// NewBigInt allocates a heap-resident big integer from its base-10 text.
func (a *Arena) NewBigInt(text string) (Value, error) {
	cp, err := a.h.Allocate(bigIntBaseSize+len(text), heap.LifetimeShort)
	if err != nil {
		return 0, err
	}
	if a.bigints == nil {
		a.bigints = make(map[heap.CompressedPointer]*BigInt)
	}
	a.bigints[cp] = &BigInt{header: header{kind: HeapBigInt}, Digits: text}
	return FromCompressedPointer(uint32(cp)), nil
}

// BigIntAt resolves a Value known to address a big integer.
func (a *Arena) BigIntAt(v Value) (*BigInt, bool) {
	if a.bigints == nil {
		return nil, false
	}
	b, ok := a.bigints[heap.CompressedPointer(v.AsCompressedPointer())]
	return b, ok
}
