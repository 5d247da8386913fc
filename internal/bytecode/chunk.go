package bytecode

// DebugInfo stores the source location an emitted instruction came from,
// used for thrown-error line/column reporting and --show-opcodes dumps.
type DebugInfo struct {
	Line     int
	Column   int
	File     string
	Function string
}

// Chunk is one function's emitted instruction stream. The literal
// constants it references live outside the chunk, in the owning
// CompiledCode's constant pool (package value) and ultimately the
// runtime's shared literal store (package literal); Chunk itself only
// knows byte offsets and opcodes.
type Chunk struct {
	Code  []byte
	Debug []DebugInfo
}

func NewChunk() *Chunk {
	return &Chunk{Code: []byte{}, Debug: []DebugInfo{}}
}

func (c *Chunk) WriteOp(op OpCode, debug DebugInfo) int {
	pos := len(c.Code)
	c.Code = append(c.Code, byte(op))
	c.Debug = append(c.Debug, debug)
	return pos
}

func (c *Chunk) WriteByte(b byte, debug DebugInfo) {
	c.Code = append(c.Code, b)
	c.Debug = append(c.Debug, debug)
}

// WriteLiteralIndex appends idx's variable-width encoding.
func (c *Chunk) WriteLiteralIndex(idx uint32, debug DebugInfo) {
	before := len(c.Code)
	c.Code = EncodeLiteralIndex(c.Code, idx)
	for range c.Code[before:] {
		c.Debug = append(c.Debug, debug)
	}
}

// WriteJumpOffset appends off's variable-width encoding for an already-
// known target (a backward jump, e.g. a loop's back-edge).
func (c *Chunk) WriteJumpOffset(off int32, debug DebugInfo) {
	before := len(c.Code)
	c.Code = EncodeJumpOffset(c.Code, off)
	for range c.Code[before:] {
		c.Debug = append(c.Debug, debug)
	}
}

// ReserveJumpOffset emits a placeholder for a forward jump whose target
// isn't known yet. It always reserves the two-byte wide form so the
// later PatchJumpOffset call never needs to shift trailing bytes.
func (c *Chunk) ReserveJumpOffset(debug DebugInfo) int {
	pos := len(c.Code)
	c.Code = append(c.Code, jumpOffsetWideByte, 0, 0)
	c.Debug = append(c.Debug, debug, debug, debug)
	return pos
}

// PatchJumpOffset rewrites a placeholder from ReserveJumpOffset once the
// jump target is known.
func (c *Chunk) PatchJumpOffset(pos int, off int32) {
	c.Code[pos] = jumpOffsetWideByte
	c.Code[pos+1] = byte(off >> 8)
	c.Code[pos+2] = byte(off)
}

// GetDebugInfo resolves the source location of the instruction at ip.
func (c *Chunk) GetDebugInfo(ip int) DebugInfo {
	if ip >= 0 && ip < len(c.Debug) {
		return c.Debug[ip]
	}
	return DebugInfo{}
}
