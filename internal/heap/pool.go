package heap

// PoolKind identifies a fixed-size object class carved from the pool
// allocator: property pairs and number boxes are the two hottest small
// allocations, so dedicated pools combat fragmentation (spec §4.1).
type PoolKind int

const (
	PoolPropertyPair PoolKind = iota
	PoolNumberBox
	PoolLiteralItem
)

func (k PoolKind) size() int {
	switch k {
	case PoolPropertyPair:
		return 48 // two name/flags/value slots
	case PoolNumberBox:
		return 16 // tag + float64
	case PoolLiteralItem:
		return 28 // six cp slots + chain pointer
	default:
		return Granularity
	}
}

// chunkObjects is how many fixed-size objects each pool carves out of one
// heap allocation at a time.
const chunkObjects = 64

type pool struct {
	kind      PoolKind
	objSize   int
	free      []CompressedPointer
	liveUnits uint32
}

func (h *Heap) poolFor(kind PoolKind) *pool {
	p, ok := h.pools[kind]
	if !ok {
		p = &pool{kind: kind, objSize: kind.size()}
		h.pools[kind] = p
	}
	return p
}

// PoolAllocate returns one fixed-size object of the given kind, carving a
// fresh chunk from the general allocator when the pool's free list is
// empty.
func (h *Heap) PoolAllocate(kind PoolKind) (CompressedPointer, error) {
	p := h.poolFor(kind)
	if len(p.free) == 0 {
		if err := h.refillPool(p); err != nil {
			return Null, err
		}
	}
	cp := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	p.liveUnits += unitsFor(p.objSize)
	return cp, nil
}

// PoolFree returns a fixed-size object to its pool's free list.
func (h *Heap) PoolFree(cp CompressedPointer, kind PoolKind) {
	if cp == Null {
		return
	}
	p := h.poolFor(kind)
	p.free = append(p.free, cp)
	units := unitsFor(p.objSize)
	if p.liveUnits >= units {
		p.liveUnits -= units
	}
}

func (h *Heap) refillPool(p *pool) error {
	chunkBytes := p.objSize * chunkObjects
	base, err := h.Allocate(chunkBytes, LifetimeLong)
	if err != nil {
		return err
	}
	// The chunk is pool reserve, not a live allocation of its own: each
	// object in it is counted through liveUnits once PoolAllocate hands
	// it out.
	h.liveBytes -= uint64(unitsFor(chunkBytes)) * Granularity
	h.liveCount--
	stride := unitsFor(p.objSize)
	for i := 0; i < chunkObjects; i++ {
		p.free = append(p.free, base+CompressedPointer(i)*stride)
	}
	return nil
}

func (p *pool) liveBytes() uint64 {
	return uint64(p.liveUnits) * Granularity
}
