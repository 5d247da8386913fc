package value

import "github.com/jerryscript-project/jerryscript-sub014/internal/heap"

// PropFlags packs the writable/enumerable/configurable/accessor/virtual/
// deleted bits spec §3 assigns to each property slot.
type PropFlags uint8

const (
	FlagWritable PropFlags = 1 << iota
	FlagEnumerable
	FlagConfigurable
	FlagAccessor // data property if unset
	FlagVirtual  // lazily-instantiated built-in, not yet materialized
	FlagDeleted
)

func (f PropFlags) Has(bit PropFlags) bool { return f&bit != 0 }

// PropertySlot is one named binding. For a data property, Value holds
// the value; for an accessor, Getter/Setter hold object cps (Null if
// absent).
type PropertySlot struct {
	Name   Value // cp to String or Symbol; Empty if this slot is unused
	Flags  PropFlags
	Value  Value
	Getter heap.CompressedPointer
	Setter heap.CompressedPointer
}

// PropertyPair is a two-slot chunk in an object's property chain (spec
// §3/glossary: chosen for allocator friendliness over one-property-per-
// allocation).
type PropertyPair struct {
	header
	Slots [2]PropertySlot
	Next  heap.CompressedPointer
}

// NewPropertyPair allocates an empty property-pair chunk from the pool
// allocator (spec §4.1: property pairs are a pool-allocator citizen).
func (a *Arena) NewPropertyPair() (heap.CompressedPointer, error) {
	cp, err := a.h.PoolAllocate(heap.PoolPropertyPair)
	if err != nil {
		return heap.Null, err
	}
	pp := &PropertyPair{header: header{kind: HeapPropertyPair}, Next: heap.Null}
	pp.Slots[0].Name = Empty
	pp.Slots[1].Name = Empty
	a.propPairs[cp] = pp
	return cp, nil
}

// PairAt resolves a property-pair chunk by compressed pointer.
func (a *Arena) PairAt(cp heap.CompressedPointer) (*PropertyPair, bool) {
	if cp == heap.Null {
		return nil, false
	}
	pp, ok := a.propPairs[cp]
	return pp, ok
}

func (a *Arena) freePropertyPair(cp heap.CompressedPointer) {
	delete(a.propPairs, cp)
	a.h.PoolFree(cp, heap.PoolPropertyPair)
}

// FindOwnProperty linearly scans o's property chain for a non-deleted
// slot named name (spec §4.2 step 2: "scan the property-pair chain
// linearly; objects are expected small").
func (a *Arena) FindOwnProperty(o *Object, name Value) (*PropertySlot, bool) {
	cp := o.Properties
	for cp != heap.Null {
		pp, ok := a.PairAt(cp)
		if !ok {
			return nil, false
		}
		for i := range pp.Slots {
			s := &pp.Slots[i]
			if s.Flags.Has(FlagDeleted) || s.Name.IsEmpty() {
				continue
			}
			if a.Equal(s.Name, name) {
				return s, true
			}
		}
		cp = pp.Next
	}
	return nil, false
}

// PutOwnProperty inserts or overwrites a non-accessor/accessor slot for
// name, reusing the first empty/deleted slot in the chain or appending a
// new pair. Maintains the invariant that a chain has no two non-deleted
// entries with equal names (spec §3/§8).
func (a *Arena) PutOwnProperty(o *Object, slot PropertySlot) error {
	if existing, ok := a.FindOwnProperty(o, slot.Name); ok {
		*existing = slot
		return nil
	}
	cp := o.Properties
	var last *PropertyPair
	for cp != heap.Null {
		pp, ok := a.PairAt(cp)
		if !ok {
			break
		}
		for i := range pp.Slots {
			if pp.Slots[i].Name.IsEmpty() || pp.Slots[i].Flags.Has(FlagDeleted) {
				pp.Slots[i] = slot
				return nil
			}
		}
		last = pp
		cp = pp.Next
	}
	newCP, err := a.NewPropertyPair()
	if err != nil {
		return err
	}
	newPair, _ := a.PairAt(newCP)
	newPair.Slots[0] = slot
	if last != nil {
		last.Next = newCP
	} else {
		o.Properties = newCP
	}
	return nil
}

// DeleteOwnProperty marks a slot deleted (configurable callers are
// expected to have already checked FlagConfigurable).
func (a *Arena) DeleteOwnProperty(o *Object, name Value) bool {
	s, ok := a.FindOwnProperty(o, name)
	if !ok {
		return false
	}
	s.Flags |= FlagDeleted
	s.Name = Empty
	return true
}

// OwnPropertyNames returns the non-deleted slot names in chain order,
// used by Object.keys/for-in enumeration.
func (a *Arena) OwnPropertyNames(o *Object) []Value {
	var names []Value
	cp := o.Properties
	for cp != heap.Null {
		pp, ok := a.PairAt(cp)
		if !ok {
			break
		}
		for i := range pp.Slots {
			s := &pp.Slots[i]
			if !s.Flags.Has(FlagDeleted) && !s.Name.IsEmpty() {
				names = append(names, s.Name)
			}
		}
		cp = pp.Next
	}
	return names
}
