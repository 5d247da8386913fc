package compiler

import (
	"github.com/jerryscript-project/jerryscript-sub014/internal/bytecode"
	"github.com/jerryscript-project/jerryscript-sub014/internal/parser"
)

// syntheticConstructor fabricates the implicit constructor ECMA-262 gives a
// class with none declared: an empty body, or (for a derived class) one
// that forwards every argument to the superclass.
func syntheticConstructor(hasSuper bool) *parser.FunctionExpr {
	if !hasSuper {
		return &parser.FunctionExpr{Name: "constructor"}
	}
	return &parser.FunctionExpr{
		Name:   "constructor",
		Params: []parser.Param{{Name: "args", Rest: true}},
		Body: []parser.Stmt{
			&parser.ExpressionStmt{Expr: &parser.CallExpr{
				Callee:  &parser.SuperExpr{},
				Args:    []parser.Expr{&parser.Identifier{Name: "args"}},
				Spreads: []bool{true},
			}},
		},
	}
}

// compileClassExpr lowers a class body to OpCreateClass (built from the
// constructor, found or synthesized) followed by one OpDefineMethod per
// remaining member. Instance field initializers are deferred: they belong
// in the constructor's prologue, lowered the same way a default parameter
// is, which is future work once OpCreateClass grows a field-descriptor
// table of its own.
func (c *Compiler) compileClassExpr(cls *parser.ClassExpr) error {
	hasSuper := cls.Superclass != nil
	var ctor *parser.FunctionExpr
	for _, m := range cls.Methods {
		if m.Kind == "constructor" {
			ctor = m.Value
			break
		}
	}
	if ctor == nil {
		ctor = syntheticConstructor(hasSuper)
	}

	ctorIdx, err := c.compileFunctionLiteral(ctor)
	if err != nil {
		return err
	}

	if hasSuper {
		if err := c.compileExpr(cls.Superclass); err != nil {
			return err
		}
	} else {
		c.emitOp(bytecode.OpPushUndefined)
	}
	c.emitExt(bytecode.OpCreateClass)
	c.emitByte(byte(ctorIdx))

	for _, m := range cls.Methods {
		if m.Kind == "constructor" || m.Kind == "field" {
			continue
		}
		methodIdx, err := c.compileFunctionLiteral(m.Value)
		if err != nil {
			return err
		}
		c.emitExt(bytecode.OpCreateFunction)
		c.emitByte(byte(methodIdx))

		if m.Computed {
			if err := c.compileExpr(m.Key); err != nil {
				return err
			}
		} else {
			idx, err := c.internString(propName(m.Key))
			if err != nil {
				return err
			}
			c.emitOp(bytecode.OpPushLiteral)
			c.emitLiteralIndex(idx)
		}

		kind := byte(0)
		switch m.Kind {
		case "get":
			kind = 1
		case "set":
			kind = 2
		}
		static := byte(0)
		if m.Static {
			static = 1
		}
		c.emitExt(bytecode.OpDefineMethod)
		c.emitByte(static)
		c.emitByte(kind)
	}
	return nil
}
