package bytecode

import "testing"

func TestLiteralIndexRoundTrip(t *testing.T) {
	for _, idx := range []uint32{0, 1, 253, 254, 255, 256, 65534} {
		var code []byte
		code = EncodeLiteralIndex(code, idx)
		got, width := DecodeLiteralIndex(code, 0)
		if got != idx {
			t.Fatalf("EncodeLiteralIndex(%d) round trip = %d", idx, got)
		}
		if width != len(code) {
			t.Fatalf("DecodeLiteralIndex(%d) width = %d, want %d", idx, width, len(code))
		}
	}
}

func TestLiteralIndexWidthBoundary(t *testing.T) {
	var small []byte
	small = EncodeLiteralIndex(small, 254)
	if len(small) != 1 {
		t.Fatalf("EncodeLiteralIndex(254) used %d bytes, want 1", len(small))
	}
	var wide []byte
	wide = EncodeLiteralIndex(wide, 255)
	if len(wide) != 3 {
		t.Fatalf("EncodeLiteralIndex(255) used %d bytes, want 3", len(wide))
	}
}

func TestJumpOffsetRoundTrip(t *testing.T) {
	for _, off := range []int32{0, 1, -1, 127, -127, -128, 200, -200, 30000, -30000} {
		var code []byte
		code = EncodeJumpOffset(code, off)
		got, width := DecodeJumpOffset(code, 0)
		if got != off {
			t.Fatalf("EncodeJumpOffset(%d) round trip = %d", off, got)
		}
		if width != len(code) {
			t.Fatalf("DecodeJumpOffset(%d) width = %d, want %d", off, width, len(code))
		}
	}
}

func TestRegisterOrLiteralOperandRoundTrip(t *testing.T) {
	b := EncodeRegisterOperand(42)
	n, isLiteral := DecodeRegisterOrLiteral(b)
	if isLiteral || n != 42 {
		t.Fatalf("DecodeRegisterOrLiteral(register 42) = (%d, %v), want (42, false)", n, isLiteral)
	}
	b = EncodeInlineLiteralOperand(42)
	n, isLiteral = DecodeRegisterOrLiteral(b)
	if !isLiteral || n != 42 {
		t.Fatalf("DecodeRegisterOrLiteral(literal 42) = (%d, %v), want (42, true)", n, isLiteral)
	}
}

func TestChunkJumpPatchRoundTrip(t *testing.T) {
	c := NewChunk()
	c.WriteOp(OpJumpIfFalse, DebugInfo{Line: 1})
	pos := c.ReserveJumpOffset(DebugInfo{Line: 1})
	c.WriteOp(OpPop, DebugInfo{Line: 2})
	target := len(c.Code)
	c.PatchJumpOffset(pos, int32(target-pos))

	off, width := DecodeJumpOffset(c.Code, pos)
	if width != 3 {
		t.Fatalf("patched jump width = %d, want 3 (reserved wide form)", width)
	}
	if int(off) != target-pos {
		t.Fatalf("patched jump offset = %d, want %d", off, target-pos)
	}
}

func TestChunkDebugInfoTracksInstructionPositions(t *testing.T) {
	c := NewChunk()
	c.WriteOp(OpPushLiteral, DebugInfo{Line: 10, Column: 3})
	c.WriteLiteralIndex(5, DebugInfo{Line: 10, Column: 3})

	if got := c.GetDebugInfo(0).Line; got != 10 {
		t.Fatalf("GetDebugInfo(0).Line = %d, want 10", got)
	}
	if got := c.GetDebugInfo(1000); got != (DebugInfo{}) {
		t.Fatalf("GetDebugInfo(out of range) = %+v, want zero value", got)
	}
}
