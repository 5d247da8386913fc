// Package gc drives the runtime's stop-the-world mark-and-sweep collector
// over the object/property-pair/environment/compiled-code graph (spec
// §4.3). It owns nothing of its own; it is a root-set collector plus a
// threshold policy layered on top of value.Arena's mark/sweep primitives.
package gc

import (
	"github.com/jerryscript-project/jerryscript-sub014/internal/heap"
	"github.com/jerryscript-project/jerryscript-sub014/internal/value"
)

// Frame is the subset of an interpreter call frame the collector needs to
// scan: its register file and operand stack (spec §4.3 root set).
type Frame struct {
	Registers []value.Value
	Operands  []value.Value
}

// Roots is the full root set spec §4.3 names. GlobalObject and ErrorSlot
// are single cps (Null when absent); Builtins, Frames, and Environments
// are collections gathered by the runtime before each collection.
type Roots struct {
	GlobalObject     heap.CompressedPointer
	ErrorSlot        heap.CompressedPointer
	Builtins         []heap.CompressedPointer
	Frames           []Frame
	Environments     []heap.CompressedPointer
	ExternallyRooted []heap.CompressedPointer // C-API-held refcounted objects (spec §4.3)
	UnderConstruction []value.Value            // values mid-construction, not yet assigned anywhere
}

// RootProvider builds the current root set on demand. The interpreter
// registers one via SetRootProvider once it exists, since the collector
// is constructed before the interpreter that owns the live frames,
// environments and global object it must scan.
type RootProvider func() Roots

// Collector runs mark-and-sweep over an Arena on demand.
type Collector struct {
	arena *value.Arena

	// liveBytesThreshold is the live-byte level at which ShouldCollect
	// reports a proactive collection as due (0 disables it). The
	// OOM-triggered collection in onOOM does not consult it.
	liveBytesThreshold uint64

	roots RootProvider
}

// SetRootProvider registers the callback Collect's OOM-triggered path
// uses to obtain the live root set. Until this is called, onOOM refuses
// to run a collection rather than sweep against an empty Roots{} — an
// empty root set marks nothing reachable and a subsequent Sweep would
// free every live object.
func (c *Collector) SetRootProvider(rp RootProvider) {
	c.roots = rp
}

// New creates a collector over arena and wires it into arena.Heap()'s OOM
// escalation so a full collection runs automatically at SeverityHigh
// before the allocator gives up (spec §4.1, §4.3).
func New(arena *value.Arena, liveBytesThreshold uint64) *Collector {
	c := &Collector{arena: arena, liveBytesThreshold: liveBytesThreshold}
	arena.Heap().RegisterOOMCallback(c.onOOM)
	return c
}

// onOOM is the heap.OOMCallback: lower severities are left to the caches
// the runtime package manages (literal cache eviction, etc); only at High
// and Critical does a full GC run, matching spec's described escalation
// ladder of "release caches, shrink pools, and finally perform a full
// mark-and-sweep". It collects against the interpreter-supplied root
// set rather than an empty one — sweeping with no roots would reclaim
// every live object, including the global object and every active call
// frame's environment.
func (c *Collector) onOOM(sev heap.Severity) bool {
	if sev < heap.SeverityHigh {
		return false
	}
	if c.roots == nil {
		return false
	}
	c.Collect(c.roots())
	return true
}

// ShouldCollect reports whether live bytes have crossed the configured
// threshold, for callers that want to trigger a collection proactively
// between bytecode instructions rather than waiting for OOM pressure.
func (c *Collector) ShouldCollect() bool {
	return c.liveBytesThreshold > 0 && c.arena.Heap().TotalLiveBytes() >= c.liveBytesThreshold
}

// Collect runs one full stop-the-world mark-and-sweep cycle: reset marks,
// BFS-mark from every root, then sweep and finalize everything left
// unmarked (spec §4.3). The caller must guarantee no mutator code runs
// concurrently (spec §4.6 "Between bytecode instructions GC may run;
// ... no other code — including GC — runs" between two instructions).
func (c *Collector) Collect(roots Roots) value.SweepStats {
	c.arena.ResetMarks()

	seed := make([]heap.CompressedPointer, 0, len(roots.Builtins)+len(roots.Environments)+len(roots.ExternallyRooted)+2)
	if roots.GlobalObject != heap.Null {
		seed = append(seed, roots.GlobalObject)
	}
	if roots.ErrorSlot != heap.Null {
		seed = append(seed, roots.ErrorSlot)
	}
	seed = append(seed, roots.Builtins...)
	seed = append(seed, roots.Environments...)
	seed = append(seed, roots.ExternallyRooted...)
	for _, f := range roots.Frames {
		seed = append(seed, cpsOf(f.Registers)...)
		seed = append(seed, cpsOf(f.Operands)...)
	}
	seed = append(seed, cpsOf(roots.UnderConstruction)...)

	c.arena.MarkReachable(seed)
	return c.arena.Sweep()
}

func cpsOf(vs []value.Value) []heap.CompressedPointer {
	out := make([]heap.CompressedPointer, 0, len(vs))
	for _, v := range vs {
		if v.IsPtr() {
			out = append(out, heap.CompressedPointer(v.AsCompressedPointer()))
		}
	}
	return out
}
