// Package literal implements the interning store bytecode blocks share
// constants through (spec §4.4): every string and number appearing in a
// compiled script is looked up (or created) here once, so duplicate
// constants across scripts reuse one heap object.
package literal

import (
	"math"

	"github.com/jerryscript-project/jerryscript-sub014/internal/heap"
	"github.com/jerryscript-project/jerryscript-sub014/internal/value"
)

const itemSlots = 6

// entry pairs a literal's cp with enough of its own identity to let
// find-or-create compare without re-resolving through the arena on every
// scan step.
type entry struct {
	cp     heap.CompressedPointer
	isNum  bool
	text   string  // valid when !isNum
	number float64 // valid when isNum
	used   bool
}

// item is a fixed-size chunk in the literal chain (spec §4.4 "linked
// chain of fixed-size literal items each holding a small constant number
// of cps").
type item struct {
	slots [itemSlots]entry
	next  heap.CompressedPointer
}

// Store is the shared interning table. It sits above value.Arena: every
// entry it returns is an Arena-resident String or NumberBox cp.
type Store struct {
	arena *value.Arena
	items map[heap.CompressedPointer]*item
	head  heap.CompressedPointer
}

// New creates an empty literal store backed by arena.
func New(arena *value.Arena) *Store {
	return &Store{arena: arena, items: make(map[heap.CompressedPointer]*item), head: heap.Null}
}

// Arena returns the store's backing arena, so callers that already hold
// a Store (the compiler, the runtime) don't need to thread a second
// *value.Arena handle of their own alongside it.
func (s *Store) Arena() *value.Arena { return s.arena }

// FindOrCreateString interns s, returning the cp of the (possibly newly
// allocated) literal-pool String. Identical text always yields the same
// cp (spec §4.4 "duplicate constants across scripts share one heap
// object").
func (s *Store) FindOrCreateString(text string) (heap.CompressedPointer, error) {
	if found := s.scan(func(e *entry) bool { return !e.isNum && e.text == text }); found != heap.Null {
		return found, nil
	}
	v, err := s.arena.NewLiteralString(text)
	if err != nil {
		return heap.Null, err
	}
	cp := heap.CompressedPointer(v.AsCompressedPointer())
	if err := s.insert(entry{cp: cp, text: text, used: true}); err != nil {
		return heap.Null, err
	}
	return cp, nil
}

// FindOrCreateNumber interns n, returning the cp of its literal-pool
// NumberBox. Matching uses bit-identical float equality so +0 and -0
// stay distinct; a NaN literal never matches an existing entry and
// always allocates fresh (spec §4.4 "treating NaN specially").
func (s *Store) FindOrCreateNumber(n float64) (heap.CompressedPointer, error) {
	if !math.IsNaN(n) {
		bits := math.Float64bits(n)
		if found := s.scan(func(e *entry) bool {
			return e.isNum && math.Float64bits(e.number) == bits
		}); found != heap.Null {
			return found, nil
		}
	}
	v, err := s.arena.NewNumberBox(n)
	if err != nil {
		return heap.Null, err
	}
	cp := heap.CompressedPointer(v.AsCompressedPointer())
	if err := s.insert(entry{cp: cp, isNum: true, number: n, used: true}); err != nil {
		return heap.Null, err
	}
	return cp, nil
}

// scan performs the linear walk spec §4.4 describes, returning the cp of
// the first matching used slot, or heap.Null.
func (s *Store) scan(match func(*entry) bool) heap.CompressedPointer {
	for cp := s.head; cp != heap.Null; {
		it, ok := s.items[cp]
		if !ok {
			return heap.Null
		}
		for i := range it.slots {
			e := &it.slots[i]
			if e.used && match(e) {
				return e.cp
			}
		}
		cp = it.next
	}
	return heap.Null
}

// insert places e into the first empty slot found while walking the
// chain, appending a fresh item when every existing item is full.
func (s *Store) insert(e entry) error {
	var last *item
	for cp := s.head; cp != heap.Null; {
		it := s.items[cp]
		for i := range it.slots {
			if !it.slots[i].used {
				it.slots[i] = e
				return nil
			}
		}
		last = it
		if it.next == heap.Null {
			break
		}
		cp = it.next
	}
	newCP, err := s.arena.Heap().PoolAllocate(heap.PoolLiteralItem)
	if err != nil {
		return err
	}
	newItem := &item{next: heap.Null}
	newItem.slots[0] = e
	s.items[newCP] = newItem
	if last != nil {
		last.next = newCP
	} else {
		s.head = newCP
	}
	return nil
}

// Entry is one interned literal, exported read-only for
// internal/snapshot's save path: it never touches Store's internal
// item-chain representation directly.
type Entry struct {
	CP     heap.CompressedPointer
	IsNum  bool
	Text   string
	Number float64
}

// Entries returns every interned literal in chain-traversal order — the
// same order Count below sums over, and stable across calls as long as
// nothing is inserted in between. internal/snapshot uses the resulting
// slice index as the on-disk literal-table index.
func (s *Store) Entries() []Entry {
	var out []Entry
	for cp := s.head; cp != heap.Null; {
		it, ok := s.items[cp]
		if !ok {
			break
		}
		for i := range it.slots {
			e := &it.slots[i]
			if !e.used {
				continue
			}
			out = append(out, Entry{CP: e.cp, IsNum: e.isNum, Text: e.text, Number: e.number})
		}
		cp = it.next
	}
	return out
}

// Count returns the number of interned entries (strings and numbers
// combined), used by the snapshot header (spec §4.4 "Header
// {string-count, number-count}").
func (s *Store) Count() (strings, numbers int) {
	for cp := s.head; cp != heap.Null; {
		it, ok := s.items[cp]
		if !ok {
			break
		}
		for i := range it.slots {
			if !it.slots[i].used {
				continue
			}
			if it.slots[i].isNum {
				numbers++
			} else {
				strings++
			}
		}
		cp = it.next
	}
	return strings, numbers
}
