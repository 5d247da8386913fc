package compiler

import (
	"github.com/jerryscript-project/jerryscript-sub014/internal/bytecode"
	"github.com/jerryscript-project/jerryscript-sub014/internal/parser"
)

func anySpread(spreads []bool) bool {
	for _, s := range spreads {
		if s {
			return true
		}
	}
	return false
}

// compileCall lowers a call expression to the stack shape every OpCall
// consumes: [thisValue, calleeValue, arg1..argN]. A member-expression
// callee supplies its object as this; every other form supplies
// Undefined so OpCall's argument-popping logic never has to special-case
// the callee's shape.
func (c *Compiler) compileCall(e *parser.CallExpr) error {
	if _, ok := e.Callee.(*parser.SuperExpr); ok {
		for _, a := range e.Args {
			if err := c.compileExpr(a); err != nil {
				return err
			}
		}
		c.emitExt(bytecode.OpSuperCall)
		c.emitByte(byte(len(e.Args)))
		return nil
	}

	if m, ok := e.Callee.(*parser.MemberExpr); ok {
		if err := c.compileExpr(m.Object); err != nil {
			return err
		}
		c.emitOp(bytecode.OpDup)
		if m.Computed {
			if err := c.compileExpr(m.Property); err != nil {
				return err
			}
			c.emitOp(bytecode.OpGetByValue)
		} else {
			c.emitOp(bytecode.OpGetByName)
			if err := c.emitName(propName(m.Property)); err != nil {
				return err
			}
		}
	} else {
		c.emitOp(bytecode.OpPushUndefined)
		if err := c.compileExpr(e.Callee); err != nil {
			return err
		}
	}

	if anySpread(e.Spreads) {
		if err := c.compileElementsIntoArray(e.Args, e.Spreads); err != nil {
			return err
		}
		c.emitOp(bytecode.OpCallWithSpread)
		return nil
	}
	for _, a := range e.Args {
		if err := c.compileExpr(a); err != nil {
			return err
		}
	}
	c.emitOp(bytecode.OpCall)
	c.emitByte(byte(len(e.Args)))
	return nil
}

// compileNew lowers `new callee(args)`: [calleeValue, arg1..argN], no
// this slot since construction produces its own.
func (c *Compiler) compileNew(e *parser.NewExpr) error {
	if err := c.compileExpr(e.Callee); err != nil {
		return err
	}
	for _, a := range e.Args {
		if err := c.compileExpr(a); err != nil {
			return err
		}
	}
	c.emitOp(bytecode.OpNew)
	c.emitByte(byte(len(e.Args)))
	return nil
}

// compileMember lowers property access, including optional chaining
// (?.) and `super.prop`/`super[prop]`.
func (c *Compiler) compileMember(e *parser.MemberExpr) error {
	if _, ok := e.Object.(*parser.SuperExpr); ok {
		if e.Computed {
			if err := c.compileExpr(e.Property); err != nil {
				return err
			}
		} else {
			idx, err := c.internString(propName(e.Property))
			if err != nil {
				return err
			}
			c.emitOp(bytecode.OpPushLiteral)
			c.emitLiteralIndex(idx)
		}
		c.emitExt(bytecode.OpSuperGet)
		return nil
	}

	if err := c.compileExpr(e.Object); err != nil {
		return err
	}
	if !e.Optional {
		if e.Computed {
			if err := c.compileExpr(e.Property); err != nil {
				return err
			}
			c.emitOp(bytecode.OpGetByValue)
			return nil
		}
		c.emitOp(bytecode.OpGetByName)
		return c.emitName(propName(e.Property))
	}

	nullJump := c.emitJump(bytecode.OpJumpIfNullish)
	if e.Computed {
		if err := c.compileExpr(e.Property); err != nil {
			return err
		}
		c.emitOp(bytecode.OpGetByValue)
	} else {
		c.emitOp(bytecode.OpGetByName)
		if err := c.emitName(propName(e.Property)); err != nil {
			return err
		}
	}
	afterJump := c.emitJump(bytecode.OpJump)
	c.patchJump(nullJump)
	c.emitOp(bytecode.OpPop)
	c.emitOp(bytecode.OpPushUndefined)
	c.patchJump(afterJump)
	return nil
}
