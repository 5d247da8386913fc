package heap

import "testing"

func TestAllocateAndFreeRoundTrip(t *testing.T) {
	h, err := New(4096, "test-heap")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	cp, err := h.Allocate(32, LifetimeShort)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if cp == Null {
		t.Fatal("Allocate returned Null for a successful allocation")
	}
	if !h.Valid(cp) {
		t.Fatal("allocated cp is not Valid")
	}
	before := h.TotalLiveBytes()
	h.Free(cp, 32)
	after := h.TotalLiveBytes()
	if after >= before {
		t.Fatalf("Free did not reduce live bytes: before=%d after=%d", before, after)
	}
}

func TestAllocateZeroIsNeverReturned(t *testing.T) {
	h, err := New(4096, "test-heap")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i := 0; i < 50; i++ {
		cp, err := h.Allocate(8, LifetimeShort)
		if err != nil {
			t.Fatalf("Allocate: %v", err)
		}
		if cp == Null {
			t.Fatalf("allocation %d returned the reserved Null value", i)
		}
	}
}

func TestOOMCallbackEscalation(t *testing.T) {
	h, err := New(256, "tiny-heap")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	var seen []Severity
	h.RegisterOOMCallback(func(s Severity) bool {
		seen = append(seen, s)
		return false
	})
	_, err = h.Allocate(1<<20, LifetimeShort)
	if err != ErrOutOfMemory {
		t.Fatalf("expected ErrOutOfMemory, got %v", err)
	}
	want := []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}
	if len(seen) != len(want) {
		t.Fatalf("callback invoked %d times, want %d (severities seen: %v)", len(seen), len(want), seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("severity[%d] = %v, want %v", i, seen[i], want[i])
		}
	}
}

func TestOOMCallbackRetrySucceeds(t *testing.T) {
	h, err := New(4096, "retry-heap")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	// Exhaust the heap with one big allocation, then free it from within
	// the callback to simulate a GC reclaiming space.
	big, err := h.Allocate(3000, LifetimeLong)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	freed := false
	h.RegisterOOMCallback(func(s Severity) bool {
		if !freed {
			h.Free(big, 3000)
			freed = true
			return true
		}
		return false
	})
	cp, err := h.Allocate(3000, LifetimeShort)
	if err != nil {
		t.Fatalf("expected retry to succeed, got error: %v", err)
	}
	if cp == Null {
		t.Fatal("expected non-null cp after retry")
	}
}

func TestResizeInPlaceGrowAndShrink(t *testing.T) {
	h, err := New(4096, "resize-heap")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	cp, err := h.Allocate(16, LifetimeShort)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if !h.ResizeInPlace(cp, 16, 8) {
		t.Fatal("shrink should always succeed in place")
	}
	// Growing back within the space just freed by the shrink should
	// succeed because it is immediately adjacent.
	if !h.ResizeInPlace(cp, 8, 16) {
		t.Fatal("grow into freshly-freed adjacent space should succeed")
	}
}

func TestPoolAllocateReusesFreedSlot(t *testing.T) {
	h, err := New(8192, "pool-heap")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	a, err := h.PoolAllocate(PoolPropertyPair)
	if err != nil {
		t.Fatalf("PoolAllocate: %v", err)
	}
	h.PoolFree(a, PoolPropertyPair)
	b, err := h.PoolAllocate(PoolPropertyPair)
	if err != nil {
		t.Fatalf("PoolAllocate: %v", err)
	}
	if a != b {
		t.Fatalf("expected freed pool slot to be reused: a=%d b=%d", a, b)
	}
}

func TestCompressDecompressRoundTrip(t *testing.T) {
	h, err := New(4096, "cp-heap")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	cp := h.Compress(Granularity * 3)
	view := h.Decompress(cp)
	if view == nil {
		t.Fatal("Decompress returned nil for a valid cp")
	}
	if h.Decompress(Null) != nil {
		t.Fatal("Decompress(Null) must be nil")
	}
}
