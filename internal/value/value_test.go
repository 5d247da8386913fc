package value

import (
	"math"
	"testing"

	"github.com/jerryscript-project/jerryscript-sub014/internal/heap"
)

func newTestArena(t *testing.T) *Arena {
	t.Helper()
	h, err := heap.New(1<<20, "value-test-heap")
	if err != nil {
		t.Fatalf("heap.New: %v", err)
	}
	return NewArena(h)
}

func TestSmallIntRoundTrip(t *testing.T) {
	for _, n := range []int64{0, 1, -1, 1 << 40, -(1 << 40)} {
		if !FitsSmallInt(n) {
			t.Fatalf("FitsSmallInt(%d) = false, want true", n)
		}
		v := SmallInt(n)
		if !v.IsSmallInt() {
			t.Fatalf("SmallInt(%d).IsSmallInt() = false", n)
		}
		if got := v.AsSmallInt(); got != n {
			t.Fatalf("SmallInt(%d) round-trip = %d", n, got)
		}
	}
}

func TestDirectValuesAreDistinct(t *testing.T) {
	vs := []Value{Undefined, Null, True, False, Empty}
	for i := range vs {
		for j := range vs {
			if i != j && vs[i] == vs[j] {
				t.Fatalf("direct values %d and %d collide: %v", i, j, vs[i])
			}
		}
	}
}

func TestErrorBitDoesNotAliasASmallInt(t *testing.T) {
	v := SmallInt(5)
	e := MarkError(v)
	if !e.IsError() {
		t.Fatal("MarkError result does not report IsError")
	}
	if !e.IsSmallInt() {
		t.Fatal("error-marked small int lost its IsSmallInt classification")
	}
	if e.AsSmallInt() != 5 {
		t.Fatalf("error-marked small int payload = %d, want 5", e.AsSmallInt())
	}
	if e.Unwrap() != v {
		t.Fatalf("Unwrap() = %v, want %v", e.Unwrap(), v)
	}
}

func TestFromCompressedPointerIsPtr(t *testing.T) {
	v := FromCompressedPointer(42)
	if !v.IsPtr() {
		t.Fatal("FromCompressedPointer result is not IsPtr")
	}
	if v.IsSmallInt() {
		t.Fatal("FromCompressedPointer result misclassified as IsSmallInt")
	}
	if got := v.AsCompressedPointer(); got != 42 {
		t.Fatalf("AsCompressedPointer() = %d, want 42", got)
	}
}

func TestArenaStringEquality(t *testing.T) {
	a := newTestArena(t)
	x, err := a.NewString("hello")
	if err != nil {
		t.Fatalf("NewString: %v", err)
	}
	y, err := a.NewString("hello")
	if err != nil {
		t.Fatalf("NewString: %v", err)
	}
	if x == y {
		t.Fatal("two independently allocated strings share a cp")
	}
	if !a.Equal(x, y) {
		t.Fatal("Equal(\"hello\", \"hello\") = false")
	}
	z, err := a.NewString("world")
	if err != nil {
		t.Fatalf("NewString: %v", err)
	}
	if a.Equal(x, z) {
		t.Fatal("Equal(\"hello\", \"world\") = true")
	}
}

func TestArenaMagicStringsAreCached(t *testing.T) {
	a := newTestArena(t)
	first := a.InternMagic(MagicLength)
	second := a.InternMagic(MagicLength)
	if first != second {
		t.Fatalf("InternMagic(MagicLength) returned different Values across calls: %v vs %v", first, second)
	}
	s, ok := a.Str(first)
	if !ok {
		t.Fatal("InternMagic result does not resolve via Str")
	}
	if s.Text() != "length" {
		t.Fatalf("magic string text = %q, want %q", s.Text(), "length")
	}
}

func TestPropertyChainPutFindDelete(t *testing.T) {
	a := newTestArena(t)
	objV, err := a.NewObject(ObjGeneral, heap.Null)
	if err != nil {
		t.Fatalf("NewObject: %v", err)
	}
	obj, _ := a.ObjAt(heap.CompressedPointer(objV.AsCompressedPointer()))
	name, _ := a.NewString("x")

	if _, ok := a.FindOwnProperty(obj, name); ok {
		t.Fatal("FindOwnProperty found a property before it was ever put")
	}
	if err := a.PutOwnProperty(obj, PropertySlot{Name: name, Flags: FlagWritable | FlagEnumerable, Value: SmallInt(7)}); err != nil {
		t.Fatalf("PutOwnProperty: %v", err)
	}
	slot, ok := a.FindOwnProperty(obj, name)
	if !ok {
		t.Fatal("FindOwnProperty did not find the property after PutOwnProperty")
	}
	if slot.Value.AsSmallInt() != 7 {
		t.Fatalf("slot.Value = %v, want SmallInt(7)", slot.Value)
	}
	if !a.DeleteOwnProperty(obj, name) {
		t.Fatal("DeleteOwnProperty returned false for an existing property")
	}
	if _, ok := a.FindOwnProperty(obj, name); ok {
		t.Fatal("FindOwnProperty still finds a deleted property")
	}
}

func TestPropertyPairSpillsAcrossChunks(t *testing.T) {
	a := newTestArena(t)
	objV, err := a.NewObject(ObjGeneral, heap.Null)
	if err != nil {
		t.Fatalf("NewObject: %v", err)
	}
	obj, _ := a.ObjAt(heap.CompressedPointer(objV.AsCompressedPointer()))

	const n = 9 // more than fits in one two-slot PropertyPair chunk
	names := make([]Value, n)
	for i := 0; i < n; i++ {
		names[i], _ = a.NewString(string(rune('a' + i)))
		if err := a.PutOwnProperty(obj, PropertySlot{Name: names[i], Flags: FlagWritable, Value: SmallInt(int64(i))}); err != nil {
			t.Fatalf("PutOwnProperty(%d): %v", i, err)
		}
	}
	for i := 0; i < n; i++ {
		slot, ok := a.FindOwnProperty(obj, names[i])
		if !ok {
			t.Fatalf("property %d not found after chain grew across chunks", i)
		}
		if slot.Value.AsSmallInt() != int64(i) {
			t.Fatalf("property %d value = %v, want SmallInt(%d)", i, slot.Value, i)
		}
	}
	if got := len(a.OwnPropertyNames(obj)); got != n {
		t.Fatalf("OwnPropertyNames returned %d names, want %d", got, n)
	}
}

func TestEnvironmentDeclareResolveAssign(t *testing.T) {
	a := newTestArena(t)
	cp, err := a.NewEnvironment(EnvDeclarative, heap.Null)
	if err != nil {
		t.Fatalf("NewEnvironment: %v", err)
	}
	env, _ := a.EnvAt(cp)
	name, _ := a.NewString("x")

	if _, ok := a.Resolve(env, name); ok {
		t.Fatal("Resolve found an undeclared binding")
	}
	if err := a.DeclareBinding(env, name, SmallInt(1), true); err != nil {
		t.Fatalf("DeclareBinding: %v", err)
	}
	v, ok := a.Resolve(env, name)
	if !ok || v.AsSmallInt() != 1 {
		t.Fatalf("Resolve after declare = (%v, %v), want (SmallInt(1), true)", v, ok)
	}
	if !a.Assign(env, name, SmallInt(2)) {
		t.Fatal("Assign returned false for a declared binding")
	}
	v, _ = a.Resolve(env, name)
	if v.AsSmallInt() != 2 {
		t.Fatalf("Resolve after assign = %v, want SmallInt(2)", v)
	}

	other, _ := a.NewString("y")
	if a.Assign(env, other, SmallInt(9)) {
		t.Fatal("Assign returned true for an undeclared binding")
	}
}

func TestEnvironmentOuterChainResolution(t *testing.T) {
	a := newTestArena(t)
	outerCP, _ := a.NewEnvironment(EnvDeclarative, heap.Null)
	outer, _ := a.EnvAt(outerCP)
	name, _ := a.NewString("g")
	if err := a.DeclareBinding(outer, name, SmallInt(100), true); err != nil {
		t.Fatalf("DeclareBinding: %v", err)
	}

	innerCP, _ := a.NewEnvironment(EnvDeclarative, outerCP)
	inner, _ := a.EnvAt(innerCP)
	v, ok := a.Resolve(inner, name)
	if !ok || v.AsSmallInt() != 100 {
		t.Fatalf("Resolve through outer chain = (%v, %v), want (SmallInt(100), true)", v, ok)
	}
}

func TestToBooleanPrimitives(t *testing.T) {
	a := newTestArena(t)
	cases := []struct {
		v    Value
		want bool
	}{
		{Undefined, false},
		{Null, false},
		{True, true},
		{False, false},
		{SmallInt(0), false},
		{SmallInt(-1), true},
	}
	for _, c := range cases {
		if got := a.ToBoolean(c.v); got != c.want {
			t.Fatalf("ToBoolean(%v) = %v, want %v", c.v, got, c.want)
		}
	}
	empty, _ := a.NewString("")
	if a.ToBoolean(empty) {
		t.Fatal("ToBoolean(\"\") = true")
	}
	nonEmpty, _ := a.NewString("x")
	if !a.ToBoolean(nonEmpty) {
		t.Fatal("ToBoolean(\"x\") = false")
	}
	nan, _ := a.NewNumberBox(math.NaN())
	if a.ToBoolean(nan) {
		t.Fatal("ToBoolean(NaN) = true")
	}
}

func TestToNumberAndToStringText(t *testing.T) {
	a := newTestArena(t)
	if n, ok := a.ToNumber(Undefined); !ok || !math.IsNaN(n) {
		t.Fatalf("ToNumber(undefined) = (%v, %v), want (NaN, true)", n, ok)
	}
	if n, ok := a.ToNumber(Null); !ok || n != 0 {
		t.Fatalf("ToNumber(null) = (%v, %v), want (0, true)", n, ok)
	}
	if n, ok := a.ToNumber(True); !ok || n != 1 {
		t.Fatalf("ToNumber(true) = (%v, %v), want (1, true)", n, ok)
	}
	s, _ := a.NewString("  42  ")
	if n, ok := a.ToNumber(s); !ok || n != 42 {
		t.Fatalf("ToNumber(\"  42  \") = (%v, %v), want (42, true)", n, ok)
	}
	if txt, ok := a.ToStringText(SmallInt(-3)); !ok || txt != "-3" {
		t.Fatalf("ToStringText(-3) = (%q, %v), want (\"-3\", true)", txt, ok)
	}
	nb, _ := a.NewNumberBox(math.Inf(1))
	if txt, ok := a.ToStringText(nb); !ok || txt != "Infinity" {
		t.Fatalf("ToStringText(Infinity) = (%q, %v), want (\"Infinity\", true)", txt, ok)
	}
}

func TestSameValueDistinguishesZeroSigns(t *testing.T) {
	a := newTestArena(t)
	posZero, _ := a.NewNumberBox(0)
	negZero, _ := a.NewNumberBox(math.Copysign(0, -1))
	if a.SameValue(posZero, negZero) {
		t.Fatal("SameValue(+0, -0) = true")
	}
	if !a.SameValueZero(posZero, negZero) {
		t.Fatal("SameValueZero(+0, -0) = false")
	}
	nan1, _ := a.NewNumberBox(math.NaN())
	nan2, _ := a.NewNumberBox(math.NaN())
	if !a.SameValue(nan1, nan2) {
		t.Fatal("SameValue(NaN, NaN) = false")
	}
}

func TestStrictEqualsRejectsNaNAcceptsZeroSigns(t *testing.T) {
	a := newTestArena(t)
	nan1, _ := a.NewNumberBox(math.NaN())
	nan2, _ := a.NewNumberBox(math.NaN())
	if a.StrictEquals(nan1, nan2) {
		t.Fatal("StrictEquals(NaN, NaN) = true")
	}
	posZero, _ := a.NewNumberBox(0)
	negZero, _ := a.NewNumberBox(math.Copysign(0, -1))
	if !a.StrictEquals(posZero, negZero) {
		t.Fatal("StrictEquals(+0, -0) = false")
	}
}
