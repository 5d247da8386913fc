package bytecode

// literalIndexWide marks the one-byte form as insufficient; the real
// index follows as a big-endian uint16 (spec §4.5 "literal-index
// operands use one byte when <= 254 and a two-byte form otherwise" —
// 255 itself is reserved as this marker, so 254 is the largest index the
// one-byte form can carry).
const literalIndexWide = 255

// EncodeLiteralIndex appends idx's variable-width encoding to code.
func EncodeLiteralIndex(code []byte, idx uint32) []byte {
	if idx < literalIndexWide {
		return append(code, byte(idx))
	}
	return append(code, literalIndexWide, byte(idx>>8), byte(idx))
}

// DecodeLiteralIndex reads a literal index starting at pos, returning the
// index and the number of bytes consumed.
func DecodeLiteralIndex(code []byte, pos int) (idx uint32, width int) {
	b := code[pos]
	if b != literalIndexWide {
		return uint32(b), 1
	}
	return uint32(code[pos+1])<<8 | uint32(code[pos+2]), 3
}

// jumpOffsetWide is the sentinel one-byte value signaling a two-byte
// signed offset follows (spec §4.5 "jump offsets use a one-byte signed
// form when in range, otherwise a two-byte form").
const jumpOffsetWide = -128

// jumpOffsetWideByte is jumpOffsetWide's two's-complement byte pattern, the
// value actually written into the code stream.
const jumpOffsetWideByte = 0x80

// EncodeJumpOffset appends off's variable-width signed encoding to code.
func EncodeJumpOffset(code []byte, off int32) []byte {
	if off > jumpOffsetWide && off <= 127 {
		return append(code, byte(int8(off)))
	}
	return append(code, jumpOffsetWideByte, byte(off>>8), byte(off))
}

// DecodeJumpOffset reads a jump offset starting at pos, returning the
// offset and the number of bytes consumed.
func DecodeJumpOffset(code []byte, pos int) (off int32, width int) {
	b := int8(code[pos])
	if b != jumpOffsetWide {
		return int32(b), 1
	}
	return int32(int16(uint16(code[pos+1])<<8 | uint16(code[pos+2]))), 3
}

// registerLiteralBit distinguishes a packed register/literal operand
// byte's two halves (spec §4.5 "register operands ... use a single byte
// with a reserved range distinguishing register N from literal N"). Set:
// the low 7 bits are a literal-pool index (0-127, the common-case small
// index — larger indices use OpPushLiteral's full EncodeLiteralIndex
// instead). Clear: the low 7 bits are a register number.
const registerLiteralBit = 0x80

// EncodeRegisterOperand packs a register index into the single-byte
// reg-or-literal operand form. n must be < 128.
func EncodeRegisterOperand(n uint8) byte { return n &^ registerLiteralBit }

// EncodeInlineLiteralOperand packs a small literal-pool index (< 128)
// into the single-byte reg-or-literal operand form.
func EncodeInlineLiteralOperand(n uint8) byte { return n | registerLiteralBit }

// DecodeRegisterOrLiteral splits a packed operand byte back into its
// index and whether that index names a literal (true) or a register
// (false).
func DecodeRegisterOrLiteral(b byte) (n uint8, isLiteral bool) {
	return b &^ registerLiteralBit, b&registerLiteralBit != 0
}
