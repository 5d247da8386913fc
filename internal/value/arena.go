package value

import "github.com/jerryscript-project/jerryscript-sub014/internal/heap"

// HeapKind discriminates the heap-resident object kinds a compressed
// pointer inside a Value may address (spec §3 Value definition).
type HeapKind int

const (
	HeapNumberBox HeapKind = iota
	HeapString
	HeapSymbol
	HeapObject
	HeapBigInt
	HeapPropertyPair
	HeapEnvironment
	HeapCompiledCode
)

// header is embedded at the front of every arena-resident record so the
// GC (package gc) can discover an object's kind without a type switch on
// the concrete Go type, and so the generic byte-size bookkeeping in
// package heap stays meaningful.
type header struct {
	kind   HeapKind
	marked bool // GC mark bit (spec §4.3)
}

// Arena is the Go-idiomatic realization of the "arena indexed by handle"
// design note: rather than packing bytes into the raw heap region (which
// Go cannot do safely without unsafe casts), object payloads are ordinary
// Go values stored in handle-indexed tables. The underlying *heap.Heap
// still owns size accounting, the free list, and the OOM-escalation
// policy; a cp is never valid unless heap.Allocate (or PoolAllocate)
// produced it, so the spec's cp-validity invariant holds by construction.
type Arena struct {
	h *heap.Heap

	numberBoxes map[heap.CompressedPointer]*NumberBox
	strings     map[heap.CompressedPointer]*String
	symbols     map[heap.CompressedPointer]*Symbol
	objects     map[heap.CompressedPointer]*Object
	propPairs   map[heap.CompressedPointer]*PropertyPair
	envs        map[heap.CompressedPointer]*Environment
	code        map[heap.CompressedPointer]*CompiledCode
	bigints     map[heap.CompressedPointer]*BigInt

	magicCache map[MagicID]Value
}

// NewArena creates an object arena backed by h.
func NewArena(h *heap.Heap) *Arena {
	return &Arena{
		h:           h,
		numberBoxes: make(map[heap.CompressedPointer]*NumberBox),
		strings:     make(map[heap.CompressedPointer]*String),
		symbols:     make(map[heap.CompressedPointer]*Symbol),
		objects:     make(map[heap.CompressedPointer]*Object),
		propPairs:   make(map[heap.CompressedPointer]*PropertyPair),
		envs:        make(map[heap.CompressedPointer]*Environment),
		code:        make(map[heap.CompressedPointer]*CompiledCode),
	}
}

// Heap returns the backing heap, used by the GC and diagnostics.
func (a *Arena) Heap() *heap.Heap { return a.h }

// KindOf reports the heap kind addressed by a pointer-tagged Value's cp,
// or false if cp addresses nothing live.
func (a *Arena) KindOf(cp heap.CompressedPointer) (HeapKind, bool) {
	switch {
	case a.numberBoxes[cp] != nil:
		return HeapNumberBox, true
	case a.strings[cp] != nil:
		return HeapString, true
	case a.symbols[cp] != nil:
		return HeapSymbol, true
	case a.objects[cp] != nil:
		return HeapObject, true
	case a.propPairs[cp] != nil:
		return HeapPropertyPair, true
	case a.envs[cp] != nil:
		return HeapEnvironment, true
	case a.code[cp] != nil:
		return HeapCompiledCode, true
	case a.bigints[cp] != nil:
		return HeapBigInt, true
	default:
		return 0, false
	}
}

const numberBoxSize = 16

// NewNumberBox allocates a boxed float64 for values outside the
// small-integer fast path.
func (a *Arena) NewNumberBox(f float64) (Value, error) {
	cp, err := a.h.Allocate(numberBoxSize, heap.LifetimeShort)
	if err != nil {
		return 0, err
	}
	a.numberBoxes[cp] = &NumberBox{header: header{kind: HeapNumberBox}, Float: f}
	return FromCompressedPointer(uint32(cp)), nil
}

// NumberBox resolves a Value known to address a boxed float.
func (a *Arena) NumberBox(v Value) (*NumberBox, bool) {
	nb, ok := a.numberBoxes[heap.CompressedPointer(v.AsCompressedPointer())]
	return nb, ok
}

func (a *Arena) freeNumberBox(cp heap.CompressedPointer) {
	delete(a.numberBoxes, cp)
	a.h.Free(cp, numberBoxSize)
}

// NumberBox is the heap-resident box for a double outside small-int range.
type NumberBox struct {
	header
	Float float64
}
