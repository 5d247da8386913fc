package compiler

import (
	"testing"

	"github.com/kr/pretty"

	"github.com/jerryscript-project/jerryscript-sub014/internal/heap"
	"github.com/jerryscript-project/jerryscript-sub014/internal/lexer"
	"github.com/jerryscript-project/jerryscript-sub014/internal/literal"
	"github.com/jerryscript-project/jerryscript-sub014/internal/parser"
	"github.com/jerryscript-project/jerryscript-sub014/internal/value"
)

func compileSource(t *testing.T, src string) (Result, *literal.Store) {
	t.Helper()
	h, err := heap.New(1<<20, "compiler-test-heap")
	if err != nil {
		t.Fatalf("heap.New: %v", err)
	}
	arena := value.NewArena(h)
	lits := literal.New(arena)

	toks, err := lexer.NewScanner(src, "t.js").ScanTokens()
	if err != nil {
		t.Fatalf("scan(%q): %v", src, err)
	}
	stmts, err := parser.NewParserWithSource(toks, src, "t.js").ParseProgram()
	if err != nil {
		t.Fatalf("parse(%q): %v", src, err)
	}
	res, err := New(lits, "t.js").CompileProgram(stmts, false)
	if err != nil {
		t.Fatalf("CompileProgram(%q): %v", src, err)
	}
	return res, lits
}

func TestCompileProgramEmitsNonEmptyChunk(t *testing.T) {
	res, _ := compileSource(t, `1 + 2;`)
	if len(res.Chunk.Code) == 0 {
		t.Fatal("CompileProgram emitted an empty chunk for a non-empty program")
	}
}

func TestConstantPoolDeduplicatesRepeatedLiteral(t *testing.T) {
	res, _ := compileSource(t, `"same" + "same" + "same";`)
	seen := make(map[uint32]int)
	for _, cp := range res.ConstantPool {
		seen[cp]++
	}
	for cp, count := range seen {
		if count > 1 {
			t.Fatalf("literal-store cp %d appears %d times in ConstantPool, want each cp to get one local slot (repeat references should share it)", cp, count)
		}
	}
	if len(res.ConstantPool) == 0 {
		t.Fatal("expected at least one interned literal for a program with a string literal")
	}
}

func TestConstantPoolEntriesResolveThroughLiteralStore(t *testing.T) {
	res, lits := compileSource(t, `"hello"; 42;`)
	entries := lits.Entries()
	known := make(map[heap.CompressedPointer]bool, len(entries))
	for _, e := range entries {
		known[e.CP] = true
	}
	for _, cp := range res.ConstantPool {
		if !known[heap.CompressedPointer(cp)] {
			t.Fatalf("ConstantPool entry %d doesn't resolve to any literal.Store entry, have:\n%# v", cp, pretty.Formatter(entries))
		}
	}
}

func TestNestedFunctionRegistersAsChild(t *testing.T) {
	res, _ := compileSource(t, `
		function outer() {
			function inner() { return 1; }
			return inner();
		}
		outer();
	`)
	if len(res.Children) == 0 {
		t.Fatal("expected the top-level function declaration to register as a Children entry")
	}
}

func TestParseProgramRejectsUnparsableSource(t *testing.T) {
	h, err := heap.New(1<<20, "compiler-test-heap")
	if err != nil {
		t.Fatalf("heap.New: %v", err)
	}
	arena := value.NewArena(h)
	lits := literal.New(arena)

	src := `function (` // unparsable
	toks, err := lexer.NewScanner(src, "t.js").ScanTokens()
	if err != nil {
		return // a lex-time error also satisfies "doesn't silently succeed"
	}
	_, err = parser.NewParserWithSource(toks, src, "t.js").ParseProgram()
	if err == nil {
		t.Fatal("expected a parse error for unparsable source, got nil")
	}
	_ = lits
}
