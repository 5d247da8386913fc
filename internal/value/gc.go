package value

import "github.com/jerryscript-project/jerryscript-sub014/internal/heap"

// The four GC-managed kinds participate in mark-and-sweep because they can
// form cycles (spec §4.3); String/NumberBox/Symbol/BigInt stay reference-
// counted and are acyclic by construction (spec §9 "Cyclic object graphs").

// ResetMarks clears every GC-managed object's mark bit before a new
// collection's marking phase begins.
func (a *Arena) ResetMarks() {
	for _, o := range a.objects {
		o.marked = false
	}
	for _, p := range a.propPairs {
		p.marked = false
	}
	for _, e := range a.envs {
		e.marked = false
	}
	for _, c := range a.code {
		c.marked = false
	}
}

// MarkReachable performs the BFS marking phase over the given root cps
// (spec §4.3 "BFS over cps found in every heap object according to its
// type tag"). Roots of a non-GC-managed kind (a string, number box,
// symbol) are simply ignored — they are kept alive by refcounting, not
// by this traversal.
func (a *Arena) MarkReachable(roots []heap.CompressedPointer) {
	queue := make([]heap.CompressedPointer, 0, len(roots))
	for _, cp := range roots {
		if cp != heap.Null {
			queue = append(queue, cp)
		}
	}
	for len(queue) > 0 {
		cp := queue[0]
		queue = queue[1:]
		if o, ok := a.objects[cp]; ok {
			if o.marked {
				continue
			}
			o.marked = true
			queue = append(queue, o.Prototype, o.Properties, o.Code, o.BoundTarget, o.ProxyTarget, o.ProxyHandler, o.ClosureEnv, o.HomeObject, o.SuperCtor)
			queue = append(queue, valuesSlice(o.BoundArgs).compressedPointers()...)
			queue = append(queue, valuesSlice(o.FastArray).compressedPointers()...)
			if o.IsArrow && o.ArrowThis.IsPtr() {
				queue = append(queue, heap.CompressedPointer(o.ArrowThis.AsCompressedPointer()))
			}
			continue
		}
		if pp, ok := a.propPairs[cp]; ok {
			if pp.marked {
				continue
			}
			pp.marked = true
			queue = append(queue, pp.Next)
			for _, s := range pp.Slots {
				queue = append(queue, s.Getter, s.Setter)
				if s.Value.IsPtr() {
					queue = append(queue, heap.CompressedPointer(s.Value.AsCompressedPointer()))
				}
			}
			continue
		}
		if e, ok := a.envs[cp]; ok {
			if e.marked {
				continue
			}
			e.marked = true
			queue = append(queue, e.Outer, e.Bindings, e.BoundObject, e.SuperBase)
			if e.HasThis && e.ThisBinding.IsPtr() {
				queue = append(queue, heap.CompressedPointer(e.ThisBinding.AsCompressedPointer()))
			}
			continue
		}
		if c, ok := a.code[cp]; ok {
			if c.marked {
				continue
			}
			c.marked = true
			queue = append(queue, c.Name)
			queue = append(queue, c.Children...)
			continue
		}
	}
}

// valuesSlice is the shared cp-extraction helper for the []Value payload
// fields (array elements, bound arguments) the marker must descend into.
type valuesSlice []Value

func (vs valuesSlice) compressedPointers() []heap.CompressedPointer {
	out := make([]heap.CompressedPointer, 0, len(vs))
	for _, v := range vs {
		if v.IsPtr() {
			out = append(out, heap.CompressedPointer(v.AsCompressedPointer()))
		}
	}
	return out
}

// SweepStats reports what a sweep phase reclaimed.
type SweepStats struct {
	ObjectsFreed       int
	PropertyPairsFreed int
	EnvironmentsFreed  int
	CodeBlocksFreed    int
}

// Sweep finalizes and frees every unmarked GC-managed object (spec §4.3
// "Sweeping"), then clears survivors' marks in place so the next
// collection starts clean. Finalization releases string/number-box
// refcounts the object owned directly, per spec's "decrement refcounts on
// strings/boxes they own"; it does not allocate.
func (a *Arena) Sweep() SweepStats {
	var stats SweepStats
	for cp, o := range a.objects {
		if o.marked {
			o.marked = false
			continue
		}
		a.releaseOwnedValue(o.PrimitiveVal)
		for _, v := range o.FastArray {
			a.releaseOwnedValue(v)
		}
		for _, v := range o.BoundArgs {
			a.releaseOwnedValue(v)
		}
		delete(a.objects, cp)
		a.h.Free(cp, baseObjectSize)
		stats.ObjectsFreed++
	}
	for cp, pp := range a.propPairs {
		if pp.marked {
			pp.marked = false
			continue
		}
		for _, s := range pp.Slots {
			a.releaseOwnedValue(s.Name)
			if !s.Flags.Has(FlagAccessor) {
				a.releaseOwnedValue(s.Value)
			}
		}
		a.freePropertyPair(cp)
		stats.PropertyPairsFreed++
	}
	for cp, e := range a.envs {
		if e.marked {
			e.marked = false
			continue
		}
		if e.HasThis {
			a.releaseOwnedValue(e.ThisBinding)
		}
		delete(a.envs, cp)
		a.h.Free(cp, environmentSize)
		stats.EnvironmentsFreed++
	}
	for cp, c := range a.code {
		if c.marked {
			c.marked = false
			continue
		}
		a.freeCompiledCode(cp, len(c.ConstantPool))
		stats.CodeBlocksFreed++
	}
	return stats
}

// releaseOwnedValue decrements the refcount of v if it is a refcounted
// string; number boxes, symbols and bigints currently have no finalizer
// work of their own (they hold no outbound references).
func (a *Arena) releaseOwnedValue(v Value) {
	if !v.IsPtr() {
		return
	}
	if _, ok := a.Str(v); ok {
		a.Release(v)
	}
}
