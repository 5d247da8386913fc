package gc

import (
	"testing"

	"github.com/jerryscript-project/jerryscript-sub014/internal/heap"
	"github.com/jerryscript-project/jerryscript-sub014/internal/value"
)

func newTestArena(t *testing.T) *value.Arena {
	t.Helper()
	h, err := heap.New(1<<20, "gc-test-heap")
	if err != nil {
		t.Fatalf("heap.New: %v", err)
	}
	return value.NewArena(h)
}

func TestCollectFreesUnreachableObject(t *testing.T) {
	a := newTestArena(t)
	c := New(a, 0)

	v, err := a.NewObject(value.ObjGeneral, heap.Null)
	if err != nil {
		t.Fatalf("NewObject: %v", err)
	}
	cp := heap.CompressedPointer(v.AsCompressedPointer())

	stats := c.Collect(Roots{})
	if stats.ObjectsFreed != 1 {
		t.Fatalf("ObjectsFreed = %d, want 1", stats.ObjectsFreed)
	}
	if _, ok := a.ObjAt(cp); ok {
		t.Fatal("unreachable object still resolves after Collect")
	}
}

func TestCollectKeepsReachableObject(t *testing.T) {
	a := newTestArena(t)
	c := New(a, 0)

	v, err := a.NewObject(value.ObjGeneral, heap.Null)
	if err != nil {
		t.Fatalf("NewObject: %v", err)
	}
	cp := heap.CompressedPointer(v.AsCompressedPointer())

	stats := c.Collect(Roots{GlobalObject: cp})
	if stats.ObjectsFreed != 0 {
		t.Fatalf("ObjectsFreed = %d, want 0", stats.ObjectsFreed)
	}
	if _, ok := a.ObjAt(cp); !ok {
		t.Fatal("rooted object was freed by Collect")
	}
}

func TestCollectTracesPrototypeChain(t *testing.T) {
	a := newTestArena(t)
	c := New(a, 0)

	protoV, err := a.NewObject(value.ObjGeneral, heap.Null)
	if err != nil {
		t.Fatalf("NewObject(proto): %v", err)
	}
	protoCP := heap.CompressedPointer(protoV.AsCompressedPointer())

	childV, err := a.NewObject(value.ObjGeneral, protoCP)
	if err != nil {
		t.Fatalf("NewObject(child): %v", err)
	}
	childCP := heap.CompressedPointer(childV.AsCompressedPointer())

	c.Collect(Roots{GlobalObject: childCP})

	if _, ok := a.ObjAt(childCP); !ok {
		t.Fatal("rooted child object was freed")
	}
	if _, ok := a.ObjAt(protoCP); !ok {
		t.Fatal("prototype reachable only via the rooted child was freed")
	}
}

func TestCollectDetectsCycle(t *testing.T) {
	a := newTestArena(t)
	c := New(a, 0)

	env1CP, err := a.NewEnvironment(value.EnvDeclarative, heap.Null)
	if err != nil {
		t.Fatalf("NewEnvironment: %v", err)
	}
	env2CP, err := a.NewEnvironment(value.EnvDeclarative, env1CP)
	if err != nil {
		t.Fatalf("NewEnvironment: %v", err)
	}
	env1, _ := a.EnvAt(env1CP)
	env1.Outer = env2CP // close the cycle: env1 -> env2 -> env1

	stats := c.Collect(Roots{}) // neither environment is rooted
	if stats.EnvironmentsFreed != 2 {
		t.Fatalf("EnvironmentsFreed = %d, want 2 (cyclic garbage must still be collected)", stats.EnvironmentsFreed)
	}
}

func TestShouldCollectThreshold(t *testing.T) {
	a := newTestArena(t)
	c := New(a, 16)
	if c.ShouldCollect() {
		t.Fatal("ShouldCollect true on an empty heap")
	}
	if _, err := a.NewObject(value.ObjGeneral, heap.Null); err != nil {
		t.Fatalf("NewObject: %v", err)
	}
	if !c.ShouldCollect() {
		t.Fatal("ShouldCollect false after live bytes exceeded the threshold")
	}
}
