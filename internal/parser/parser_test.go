package parser

import (
	"testing"

	"github.com/jerryscript-project/jerryscript-sub014/internal/lexer"
)

func parseSource(t *testing.T, src string) []Stmt {
	t.Helper()
	toks, err := lexer.NewScanner(src, "t.js").ScanTokens()
	if err != nil {
		t.Fatalf("scan(%q) error: %v", src, err)
	}
	stmts, err := NewParserWithSource(toks, src, "t.js").ParseProgram()
	if err != nil {
		t.Fatalf("parse(%q) error: %v", src, err)
	}
	return stmts
}

func TestParseVarDeclKinds(t *testing.T) {
	stmts := parseSource(t, "var a = 1; let b = 2; const c = 3;")
	if len(stmts) != 3 {
		t.Fatalf("got %d statements, want 3", len(stmts))
	}
	for i, kind := range []string{"var", "let", "const"} {
		v, ok := stmts[i].(*VarDeclStmt)
		if !ok || v.Kind != kind {
			t.Fatalf("stmt %d = %+v, want kind %s", i, stmts[i], kind)
		}
	}
}

func TestParseBinaryPrecedence(t *testing.T) {
	stmts := parseSource(t, "1 + 2 * 3;")
	es := stmts[0].(*ExpressionStmt)
	bin := es.Expr.(*BinaryExpr)
	if bin.Operator != "+" {
		t.Fatalf("top operator = %s, want +", bin.Operator)
	}
	if _, ok := bin.Right.(*BinaryExpr); !ok {
		t.Fatalf("right side should be the nested '*' expression: %+v", bin.Right)
	}
}

func TestParseExponentRightAssociative(t *testing.T) {
	stmts := parseSource(t, "2 ** 3 ** 2;")
	bin := stmts[0].(*ExpressionStmt).Expr.(*BinaryExpr)
	if _, ok := bin.Right.(*BinaryExpr); !ok {
		t.Fatalf("** should associate right: %+v", bin)
	}
}

func TestParseIfElse(t *testing.T) {
	stmts := parseSource(t, "if (x) { y(); } else { z(); }")
	ifs := stmts[0].(*IfStmt)
	if ifs.Then == nil || ifs.Else == nil {
		t.Fatalf("if statement missing branch: %+v", ifs)
	}
}

func TestParseFunctionDeclaration(t *testing.T) {
	stmts := parseSource(t, "function add(a, b) { return a + b; }")
	fd := stmts[0].(*FunctionDeclStmt)
	if fd.Fn.Name != "add" || len(fd.Fn.Params) != 2 {
		t.Fatalf("function decl = %+v", fd.Fn)
	}
}

func TestParseArrowFunctionExpressionBody(t *testing.T) {
	stmts := parseSource(t, "const f = x => x * 2;")
	decl := stmts[0].(*VarDeclStmt)
	fn := decl.Declarations[0].Init.(*FunctionExpr)
	if !fn.IsArrow || fn.ExprBody == nil {
		t.Fatalf("arrow function = %+v", fn)
	}
}

func TestParseObjectLiteralShorthandAndMethod(t *testing.T) {
	stmts := parseSource(t, "const o = {x, y: 1, f() { return 1; }};")
	decl := stmts[0].(*VarDeclStmt)
	obj := decl.Declarations[0].Init.(*ObjectLiteral)
	if len(obj.Properties) != 3 {
		t.Fatalf("object literal properties = %+v", obj.Properties)
	}
	if !obj.Properties[0].Shorthand {
		t.Fatalf("first property should be shorthand: %+v", obj.Properties[0])
	}
	if obj.Properties[2].Kind != "method" {
		t.Fatalf("third property should be a method: %+v", obj.Properties[2])
	}
}

func TestParseTemplateLiteralWithInterpolation(t *testing.T) {
	stmts := parseSource(t, "`a${1}b`;")
	tmpl := stmts[0].(*ExpressionStmt).Expr.(*TemplateLiteral)
	if len(tmpl.Quasis) != 2 || len(tmpl.Exprs) != 1 {
		t.Fatalf("template literal = %+v", tmpl)
	}
}

func TestParseForOfLoop(t *testing.T) {
	stmts := parseSource(t, "for (const x of xs) { f(x); }")
	fi := stmts[0].(*ForInStmt)
	if !fi.ForOf || fi.DeclKind != "const" || fi.Name != "x" {
		t.Fatalf("for-of statement = %+v", fi)
	}
}

func TestParseTryCatchFinally(t *testing.T) {
	stmts := parseSource(t, "try { f(); } catch (e) { g(); } finally { h(); }")
	ts := stmts[0].(*TryStmt)
	if !ts.HasCatch || ts.CatchParam != "e" || ts.FinallyBlock == nil {
		t.Fatalf("try statement = %+v", ts)
	}
}

func TestParseClassWithConstructorAndMethod(t *testing.T) {
	stmts := parseSource(t, "class A extends B { constructor(x) { super(x); } m() { return 1; } }")
	cd := stmts[0].(*ClassDeclStmt)
	if cd.Class.Name != "A" || cd.Class.Superclass == nil || len(cd.Class.Methods) != 2 {
		t.Fatalf("class decl = %+v", cd.Class)
	}
	if cd.Class.Methods[0].Kind != "constructor" {
		t.Fatalf("first member should be constructor: %+v", cd.Class.Methods[0])
	}
}

func TestParseAutomaticSemicolonInsertion(t *testing.T) {
	stmts := parseSource(t, "a = 1\nb = 2")
	if len(stmts) != 2 {
		t.Fatalf("ASI should split into two statements, got %d: %+v", len(stmts), stmts)
	}
}

func TestParseSyntaxErrorReported(t *testing.T) {
	toks, err := lexer.NewScanner("let = ;", "t.js").ScanTokens()
	if err != nil {
		t.Fatalf("scan error: %v", err)
	}
	_, perr := NewParserWithSource(toks, "let = ;", "t.js").ParseProgram()
	if perr == nil {
		t.Fatal("expected a SyntaxError for 'let = ;'")
	}
}
