// Package heap implements the fixed-region allocator described by the
// runtime core: a single contiguous memory region split into
// allocation-granularity units, exposing compressed pointers (cp) rather
// than native pointers for every cross-object reference.
package heap

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
)

// CompressedPointer is an offset from the heap base expressed in
// allocation-granularity units. Zero denotes null.
type CompressedPointer uint32

// Null is the reserved compressed-pointer value meaning "no object".
const Null CompressedPointer = 0

// Granularity is the allocation unit size in bytes. All block sizes are
// rounded up to a multiple of this.
const Granularity = 8

// Severity levels passed to a registered OOM callback, escalating until
// allocation either succeeds or the runtime aborts.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// OOMCallback is invoked with escalating severity before an allocation is
// allowed to fail. It should free memory (shrink caches, run a collection)
// and return true if the caller should retry the allocation.
type OOMCallback func(s Severity) (retry bool)

// ErrOutOfMemory is returned when allocation fails even after the
// callback has been invoked at SeverityCritical.
var ErrOutOfMemory = errors.New("heap: out of memory")

// freeBlock is a node in the granularity-indexed free list.
type freeBlock struct {
	offset CompressedPointer // in granularity units
	units  uint32
}

// Heap is a fixed-size arena producing compressed pointers. It is not
// safe for concurrent use from multiple goroutines: a runtime instance's
// heap is owned exclusively by its instance's thread (spec §5).
type Heap struct {
	region   []byte
	regionID string // uuid stamped at creation, surfaced in diagnostics

	totalUnits uint32
	freeList   []freeBlock // sorted by offset, coalesced on free

	liveBytes uint64
	liveCount uint64

	pools map[PoolKind]*pool

	onOOM OOMCallback
}

// New creates a heap backed by a region of sizeBytes (rounded down to a
// multiple of Granularity). See newRegion in region_unix.go/region_other.go
// for how the backing store is obtained.
func New(sizeBytes int, id string) (*Heap, error) {
	if sizeBytes <= 0 {
		return nil, errors.New("heap: size must be positive")
	}
	region, err := newRegion(sizeBytes)
	if err != nil {
		return nil, errors.Wrap(err, "heap: allocate region")
	}
	units := uint32(len(region) / Granularity)
	h := &Heap{
		region:     region,
		regionID:   id,
		totalUnits: units,
		freeList:   []freeBlock{{offset: 1, units: units - 1}}, // unit 0 reserved for Null
		pools:      make(map[PoolKind]*pool),
	}
	return h, nil
}

// RegionID returns the UUID stamped on this heap instance.
func (h *Heap) RegionID() string { return h.regionID }

// Size returns the total region size in bytes.
func (h *Heap) Size() int { return len(h.region) }

// RegisterOOMCallback installs the callback the allocator invokes with
// escalating severity before failing an allocation.
func (h *Heap) RegisterOOMCallback(cb OOMCallback) {
	h.onOOM = cb
}

// unitsFor rounds a byte size up to a whole number of granularity units.
func unitsFor(size int) uint32 {
	u := (size + Granularity - 1) / Granularity
	if u <= 0 {
		u = 1
	}
	return uint32(u)
}

// Allocate reserves size bytes and returns a compressed pointer to the
// start of the block. lifetimeHint is advisory only (see AllocateHint).
func (h *Heap) Allocate(size int, hint LifetimeHint) (CompressedPointer, error) {
	units := unitsFor(size)
	cp, ok := h.tryAllocate(units, hint)
	if ok {
		return cp, nil
	}

	for _, sev := range []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical} {
		if h.onOOM == nil {
			break
		}
		if retry := h.onOOM(sev); retry {
			if cp, ok := h.tryAllocate(units, hint); ok {
				return cp, nil
			}
		}
	}
	return Null, ErrOutOfMemory
}

// LifetimeHint steers first-fit search order: short-lived allocations
// favor blocks near the front of the free list (reuse-friendly), long-lived
// ones favor blocks near the back (keep stable regions intact).
type LifetimeHint int

const (
	LifetimeShort LifetimeHint = iota
	LifetimeLong
)

func (h *Heap) tryAllocate(units uint32, hint LifetimeHint) (CompressedPointer, bool) {
	search := func(i int) bool { return h.freeList[i].units >= units }
	idx := -1
	if hint == LifetimeLong {
		for i := len(h.freeList) - 1; i >= 0; i-- {
			if search(i) {
				idx = i
				break
			}
		}
	} else {
		for i := 0; i < len(h.freeList); i++ {
			if search(i) {
				idx = i
				break
			}
		}
	}
	if idx < 0 {
		return Null, false
	}
	blk := h.freeList[idx]
	cp := CompressedPointer(blk.offset)
	if blk.units == units {
		h.freeList = append(h.freeList[:idx], h.freeList[idx+1:]...)
	} else {
		h.freeList[idx] = freeBlock{offset: blk.offset + CompressedPointer(units), units: blk.units - units}
	}
	h.liveBytes += uint64(units) * Granularity
	h.liveCount++
	return cp, true
}

// Free returns a previously-allocated block of size bytes to the free
// list, coalescing with adjacent free blocks.
func (h *Heap) Free(cp CompressedPointer, size int) {
	if cp == Null {
		return
	}
	units := unitsFor(size)
	h.liveBytes -= uint64(units) * Granularity
	if h.liveCount > 0 {
		h.liveCount--
	}
	h.insertFree(freeBlock{offset: cp, units: units})
}

func (h *Heap) insertFree(nb freeBlock) {
	i := 0
	for i < len(h.freeList) && h.freeList[i].offset < nb.offset {
		i++
	}
	// Merge with following block if adjacent.
	if i < len(h.freeList) && nb.offset+CompressedPointer(nb.units) == h.freeList[i].offset {
		nb.units += h.freeList[i].units
		h.freeList = append(h.freeList[:i], h.freeList[i+1:]...)
	}
	// Merge with preceding block if adjacent.
	if i > 0 && h.freeList[i-1].offset+CompressedPointer(h.freeList[i-1].units) == nb.offset {
		h.freeList[i-1].units += nb.units
		return
	}
	h.freeList = append(h.freeList, freeBlock{})
	copy(h.freeList[i+1:], h.freeList[i:])
	h.freeList[i] = nb
}

// ResizeInPlace grows or shrinks the block at cp from oldSize to newSize
// without moving it, when the adjacent free space allows it. Returns
// false if the resize cannot be satisfied in place.
func (h *Heap) ResizeInPlace(cp CompressedPointer, oldSize, newSize int) bool {
	oldUnits := unitsFor(oldSize)
	newUnits := unitsFor(newSize)
	if newUnits <= oldUnits {
		if newUnits < oldUnits {
			h.insertFree(freeBlock{offset: cp + CompressedPointer(newUnits), units: oldUnits - newUnits})
			h.liveBytes -= uint64(oldUnits-newUnits) * Granularity
		}
		return true
	}
	need := newUnits - oldUnits
	end := cp + CompressedPointer(oldUnits)
	for i, blk := range h.freeList {
		if blk.offset == end && blk.units >= need {
			if blk.units == need {
				h.freeList = append(h.freeList[:i], h.freeList[i+1:]...)
			} else {
				h.freeList[i] = freeBlock{offset: blk.offset + CompressedPointer(need), units: blk.units - need}
			}
			h.liveBytes += uint64(need) * Granularity
			return true
		}
	}
	return false
}

// Compress converts a raw byte offset within the region into a
// compressed pointer (the inverse of Decompress).
func (h *Heap) Compress(rawOffset int) CompressedPointer {
	return CompressedPointer(rawOffset / Granularity)
}

// Decompress resolves a compressed pointer to a byte slice view over the
// live region, or nil if cp is Null or out of range. The caller must not
// retain the returned slice across any operation that could trigger GC
// or reallocation (spec §4.1: "callers use raw pointers only for the
// duration of a single uninterruptible operation").
func (h *Heap) Decompress(cp CompressedPointer) []byte {
	if cp == Null {
		return nil
	}
	off := int(cp) * Granularity
	if off < 0 || off >= len(h.region) {
		return nil
	}
	return h.region[off:]
}

// Valid reports whether cp addresses a location inside the region at
// granularity alignment (spec §3 cp invariant).
func (h *Heap) Valid(cp CompressedPointer) bool {
	if cp == Null {
		return true
	}
	return int(cp) < int(h.totalUnits)
}

// TotalLiveBytes reports bytes currently allocated (not counting pool
// free chunks held in reserve).
func (h *Heap) TotalLiveBytes() uint64 {
	total := h.liveBytes
	for _, p := range h.pools {
		total += p.liveBytes()
	}
	return total
}

// LiveObjectCount reports the number of live (non-pooled) allocations.
func (h *Heap) LiveObjectCount() uint64 { return h.liveCount }

// Stats renders a human-readable summary, used by the CLI's --mem-stats
// flag and by diagnostics around an OOM escalation.
func (h *Heap) Stats() string {
	return fmt.Sprintf("heap %s: %s live / %s capacity, %d free blocks",
		h.regionID,
		humanize.IBytes(h.TotalLiveBytes()),
		humanize.IBytes(uint64(len(h.region))),
		len(h.freeList))
}
