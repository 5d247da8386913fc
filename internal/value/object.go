package value

import "github.com/jerryscript-project/jerryscript-sub014/internal/heap"

// ObjectKind is the type tag distinguishing the object variants spec §3
// lists: general, array, function, bound-function, class instance,
// built-in of kind K, proxy, arraybuffer, typed-array, map/set, promise,
// date, regexp.
type ObjectKind int

const (
	ObjGeneral ObjectKind = iota
	ObjArray
	ObjFunction
	ObjBoundFunction
	ObjClassInstance
	ObjBuiltin
	ObjProxy
	ObjArrayBuffer
	ObjTypedArray
	ObjMap
	ObjSet
	ObjPromise
	ObjDate
	ObjRegExp
)

// Object is the record every script-visible object shares. Extended
// payload fields are only meaningful for the matching ObjectKind; this
// mirrors spec §3's "for extended variants a payload" wording without
// resorting to Go's interface{} (the payload shape is known at
// allocation time from Kind).
type Object struct {
	header

	Prototype    heap.CompressedPointer // may be Null
	Kind         ObjectKind
	Extensible   bool
	IsBuiltin    bool
	Properties   heap.CompressedPointer // cp to first PropertyPair, or Null

	// ObjArray / ObjTypedArray
	ArrayLength uint32
	FastArray   []Value

	// ObjFunction
	Code        heap.CompressedPointer // cp to CompiledCode
	ClosureEnv  heap.CompressedPointer // lexical environment captured at creation time
	HomeObject  heap.CompressedPointer // [[HomeObject]], for super property lookups in methods
	SuperCtor   heap.CompressedPointer // a derived class constructor's superclass constructor, for super(...) calls
	IsArrow     bool                   // arrow functions never get their own this/arguments/prototype
	ArrowThis   Value                  // this captured from the defining scope, valid only when IsArrow

	// ObjBoundFunction
	BoundTarget heap.CompressedPointer
	BoundThis   Value
	BoundArgs   []Value

	// ObjClassInstance / boxed primitives
	ClassID      int
	PrimitiveVal Value

	// ObjProxy
	ProxyTarget   heap.CompressedPointer
	ProxyHandler  heap.CompressedPointer

	// ObjBuiltin: lazy-instantiation bitset (spec §4.2 "instantiated bitset")
	BuiltinID          int
	instantiatedProps  map[string]bool

	// ObjPromise
	PromiseState     PromiseState
	PromiseResult    Value
	PromiseReactions []PromiseReaction
}

// PromiseState is one of the three states ECMA-262 25.6.1 defines.
type PromiseState int

const (
	PromisePending PromiseState = iota
	PromiseFulfilled
	PromiseRejected
)

// PromiseReaction is one .then/.catch registration waiting on a still-
// pending promise: the fulfill/reject handlers (Null if the call site
// passed none) plus the derived promise their return value settles.
type PromiseReaction struct {
	OnFulfilled heap.CompressedPointer
	OnRejected  heap.CompressedPointer
	Derived     heap.CompressedPointer // the promise .then(...) returned
}

const baseObjectSize = 64

// NewObject allocates an ordinary object with the given prototype.
func (a *Arena) NewObject(kind ObjectKind, prototype heap.CompressedPointer) (Value, error) {
	cp, err := a.h.Allocate(baseObjectSize, heap.LifetimeLong)
	if err != nil {
		return 0, err
	}
	a.objects[cp] = &Object{
		header:     header{kind: HeapObject},
		Prototype:  prototype,
		Kind:       kind,
		Extensible: true,
		Properties: heap.Null,
	}
	return FromCompressedPointer(uint32(cp)), nil
}

// Obj resolves a Value known to address a heap object.
func (a *Arena) Obj(v Value) (*Object, bool) {
	o, ok := a.objects[heap.CompressedPointer(v.AsCompressedPointer())]
	return o, ok
}

// ObjAt resolves an object directly by compressed pointer (used when
// walking a prototype chain without round-tripping through Value).
func (a *Arena) ObjAt(cp heap.CompressedPointer) (*Object, bool) {
	if cp == heap.Null {
		return nil, false
	}
	o, ok := a.objects[cp]
	return o, ok
}

// MarkInstantiated records that a lazily-declared built-in property has
// been materialized into the object's real property chain, per spec
// §4.2's "built-in instantiated bitset".
func (o *Object) MarkInstantiated(name string) {
	if o.instantiatedProps == nil {
		o.instantiatedProps = make(map[string]bool)
	}
	o.instantiatedProps[name] = true
}

// Instantiated reports whether MarkInstantiated(name) has already run.
func (o *Object) Instantiated(name string) bool {
	return o.instantiatedProps != nil && o.instantiatedProps[name]
}
