package bytecode

import (
	"fmt"
	"strings"
)

// Dump renders chunk's raw instruction stream as a human-readable
// listing for --show-opcodes: consecutive code bytes sharing the same
// DebugInfo (emitted together by one WriteOp/WriteByte/WriteLiteralIndex/
// WriteJumpOffset call) are grouped onto one line, rather than decoding
// each opcode's own operand width — the primary opcode space alone packs
// three different variable-width operand encodings (literal index,
// jump offset, register-or-literal byte), so a byte-accurate decode
// would have to duplicate internal/interp's own per-opcode dispatch
// rather than read it declaratively.
func Dump(chunk *Chunk, name string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "== %s ==\n", name)

	start := 0
	for i := 1; i <= len(chunk.Code); i++ {
		if i < len(chunk.Code) && chunk.Debug[i] == chunk.Debug[start] {
			continue
		}
		writeRun(&b, chunk, start, i)
		start = i
	}
	return b.String()
}

func writeRun(b *strings.Builder, chunk *Chunk, start, end int) {
	loc := chunk.GetDebugInfo(start)
	fmt.Fprintf(b, "%04d  ", start)
	if loc.File != "" {
		fmt.Fprintf(b, "%s:%d:%d  ", loc.File, loc.Line, loc.Column)
	} else {
		fmt.Fprintf(b, "%-20s  ", "")
	}
	for _, by := range chunk.Code[start:end] {
		fmt.Fprintf(b, "%02x ", by)
	}
	b.WriteByte('\n')
}
