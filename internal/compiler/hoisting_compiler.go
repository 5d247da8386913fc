package compiler

import (
	"github.com/jerryscript-project/jerryscript-sub014/internal/bytecode"
	"github.com/jerryscript-project/jerryscript-sub014/internal/parser"
)

// hoist pre-declares every `var` and function-declaration binding a body
// introduces, before any statement in it runs (ECMA-262's variable and
// function hoisting — spec.md's interpreter module assumes declarations
// are visible from the top of their enclosing function regardless of
// where textually they occur). It does not descend into nested function
// bodies: their own hoisting pass runs when compileFunctionBody compiles
// them.
func (c *Compiler) hoist(stmts []parser.Stmt) error {
	names := map[string]bool{}
	collectVarNames(stmts, names)
	for name := range names {
		c.emitOp(bytecode.OpDeclareVar)
		if err := c.emitName(name); err != nil {
			return err
		}
	}

	for _, s := range stmts {
		if fd, ok := s.(*parser.FunctionDeclStmt); ok {
			if err := c.compileFunctionDecl(fd); err != nil {
				return err
			}
		}
	}
	return nil
}

// collectVarNames walks stmts (descending into every nested block/control
// construct but never into a nested function body) gathering every `var`
// binding name.
func collectVarNames(stmts []parser.Stmt, out map[string]bool) {
	for _, s := range stmts {
		collectVarNamesStmt(s, out)
	}
}

func collectVarNamesStmt(s parser.Stmt, out map[string]bool) {
	switch st := s.(type) {
	case *parser.VarDeclStmt:
		if st.Kind == "var" {
			for _, d := range st.Declarations {
				out[d.Name] = true
			}
		}
	case *parser.BlockStmt:
		collectVarNames(st.Stmts, out)
	case *parser.IfStmt:
		collectVarNamesStmt(st.Then, out)
		if st.Else != nil {
			collectVarNamesStmt(st.Else, out)
		}
	case *parser.WhileStmt:
		collectVarNamesStmt(st.Body, out)
	case *parser.DoWhileStmt:
		collectVarNamesStmt(st.Body, out)
	case *parser.ForStmt:
		if vd, ok := st.Init.(*parser.VarDeclStmt); ok {
			collectVarNamesStmt(vd, out)
		}
		collectVarNamesStmt(st.Body, out)
	case *parser.ForInStmt:
		if st.DeclKind == "var" {
			out[st.Name] = true
		}
		collectVarNamesStmt(st.Body, out)
	case *parser.TryStmt:
		collectVarNames(st.Block.Stmts, out)
		if st.CatchBlock != nil {
			collectVarNames(st.CatchBlock.Stmts, out)
		}
		if st.FinallyBlock != nil {
			collectVarNames(st.FinallyBlock.Stmts, out)
		}
	case *parser.SwitchStmt:
		for _, c := range st.Cases {
			collectVarNames(c.Stmts, out)
		}
	case *parser.LabeledStmt:
		collectVarNamesStmt(st.Body, out)
	}
}
