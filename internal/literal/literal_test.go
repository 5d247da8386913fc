package literal

import (
	"math"
	"testing"

	"github.com/jerryscript-project/jerryscript-sub014/internal/heap"
	"github.com/jerryscript-project/jerryscript-sub014/internal/value"
)

func newTestStore(t *testing.T) (*value.Arena, *Store) {
	t.Helper()
	h, err := heap.New(1<<20, "literal-test-heap")
	if err != nil {
		t.Fatalf("heap.New: %v", err)
	}
	a := value.NewArena(h)
	return a, New(a)
}

func TestFindOrCreateStringDeduplicates(t *testing.T) {
	_, s := newTestStore(t)
	cp1, err := s.FindOrCreateString("hello")
	if err != nil {
		t.Fatalf("FindOrCreateString: %v", err)
	}
	cp2, err := s.FindOrCreateString("hello")
	if err != nil {
		t.Fatalf("FindOrCreateString: %v", err)
	}
	if cp1 != cp2 {
		t.Fatalf("FindOrCreateString(\"hello\") returned distinct cps: %v vs %v", cp1, cp2)
	}
	cp3, err := s.FindOrCreateString("world")
	if err != nil {
		t.Fatalf("FindOrCreateString: %v", err)
	}
	if cp3 == cp1 {
		t.Fatal("distinct strings interned to the same cp")
	}
}

func TestFindOrCreateNumberDistinguishesZeroSigns(t *testing.T) {
	_, s := newTestStore(t)
	posCP, err := s.FindOrCreateNumber(0)
	if err != nil {
		t.Fatalf("FindOrCreateNumber: %v", err)
	}
	negCP, err := s.FindOrCreateNumber(math.Copysign(0, -1))
	if err != nil {
		t.Fatalf("FindOrCreateNumber: %v", err)
	}
	if posCP == negCP {
		t.Fatal("+0 and -0 literal interned to the same cp")
	}
	posCP2, err := s.FindOrCreateNumber(0)
	if err != nil {
		t.Fatalf("FindOrCreateNumber: %v", err)
	}
	if posCP != posCP2 {
		t.Fatal("repeated +0 literal did not dedupe")
	}
}

func TestFindOrCreateNumberNeverMergesNaN(t *testing.T) {
	_, s := newTestStore(t)
	cp1, err := s.FindOrCreateNumber(math.NaN())
	if err != nil {
		t.Fatalf("FindOrCreateNumber: %v", err)
	}
	cp2, err := s.FindOrCreateNumber(math.NaN())
	if err != nil {
		t.Fatalf("FindOrCreateNumber: %v", err)
	}
	if cp1 == cp2 {
		t.Fatal("two NaN literals interned to the same cp")
	}
}

func TestStoreSpillsAcrossItems(t *testing.T) {
	_, s := newTestStore(t)
	const n = itemSlots*2 + 3
	cps := make([]heap.CompressedPointer, n)
	for i := 0; i < n; i++ {
		cp, err := s.FindOrCreateNumber(float64(i))
		if err != nil {
			t.Fatalf("FindOrCreateNumber(%d): %v", i, err)
		}
		cps[i] = cp
	}
	for i := 0; i < n; i++ {
		got, err := s.FindOrCreateNumber(float64(i))
		if err != nil {
			t.Fatalf("FindOrCreateNumber(%d) second call: %v", i, err)
		}
		if got != cps[i] {
			t.Fatalf("number literal %d did not dedupe across item chunks", i)
		}
	}
	_, numbers := s.Count()
	if numbers != n {
		t.Fatalf("Count() numbers = %d, want %d", numbers, n)
	}
}
