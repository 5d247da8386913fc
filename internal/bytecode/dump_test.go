package bytecode

import (
	"strings"
	"testing"
)

func TestDumpGroupsRunsBySourceLocation(t *testing.T) {
	c := NewChunk()
	d1 := DebugInfo{Line: 1, Column: 1, File: "t.js", Function: "top"}
	d2 := DebugInfo{Line: 2, Column: 1, File: "t.js", Function: "top"}

	c.WriteOp(OpPushUndefined, d1)
	c.WriteOp(OpPop, d1)
	c.WriteOp(OpReturnUndefined, d2)

	out := Dump(c, "t.js")
	for _, want := range []string{"== t.js ==", "t.js:1:1", "t.js:2:1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("Dump output missing %q:\n%s", want, out)
		}
	}
}
