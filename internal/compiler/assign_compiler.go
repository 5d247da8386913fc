package compiler

import (
	"fmt"

	"github.com/jerryscript-project/jerryscript-sub014/internal/bytecode"
	"github.com/jerryscript-project/jerryscript-sub014/internal/parser"
)

// newTemp mints a synthetic binding name that can never collide with a
// source identifier (the lexer never produces a '%' in TokenIdent text),
// used to stash an already-evaluated object/key/result so a compound
// member assignment or update only evaluates its object/key once.
func (c *Compiler) newTemp() string {
	c.fn.tempCounter++
	return fmt.Sprintf("%%t%d", c.fn.tempCounter)
}

// stashTemp declares a fresh synthetic binding and pops the value on top
// of the stack into it, returning the binding's name for later loadTemp
// calls.
func (c *Compiler) stashTemp() (string, error) {
	name := c.newTemp()
	c.emitOp(bytecode.OpDeclareVar)
	if err := c.emitName(name); err != nil {
		return "", err
	}
	c.emitOp(bytecode.OpInitBinding)
	if err := c.emitName(name); err != nil {
		return "", err
	}
	c.emitOp(bytecode.OpPop)
	return name, nil
}

func (c *Compiler) loadTemp(name string) error {
	c.emitOp(bytecode.OpResolve)
	return c.emitName(name)
}

var compoundOps = map[string]string{
	"+=": "+", "-=": "-", "*=": "*", "/=": "/", "%=": "%", "**=": "**",
	"<<=": "<<", ">>=": ">>", ">>>=": ">>>", "&=": "&", "|=": "|", "^=": "^",
	"&&=": "&&", "||=": "||", "??=": "??",
}

func (c *Compiler) compileAssign(e *parser.AssignExpr) error {
	switch t := e.Target.(type) {
	case *parser.Identifier:
		return c.compileIdentAssign(t.Name, e.Operator, e.Value)
	case *parser.MemberExpr:
		return c.compileMemberAssign(t, e.Operator, e.Value)
	default:
		return c.syntaxError("invalid assignment target")
	}
}

func (c *Compiler) compileIdentAssign(name, op string, rhs parser.Expr) error {
	if op == "=" {
		if err := c.compileExpr(rhs); err != nil {
			return err
		}
		c.emitOp(bytecode.OpAssign)
		return c.emitName(name)
	}
	if base, ok := compoundOps[op]; ok && (base == "&&" || base == "||" || base == "??") {
		// Logical assignment only evaluates/stores the rhs when the
		// short-circuit test lets it through.
		c.emitOp(bytecode.OpResolve)
		if err := c.emitName(name); err != nil {
			return err
		}
		var jumpOp bytecode.OpCode
		switch base {
		case "&&":
			jumpOp = bytecode.OpAndJump
		case "||":
			jumpOp = bytecode.OpOrJump
		default:
			jumpOp = bytecode.OpCoalesceJump
		}
		skip := c.emitJump(jumpOp)
		c.emitOp(bytecode.OpPop)
		if err := c.compileExpr(rhs); err != nil {
			return err
		}
		c.emitOp(bytecode.OpAssign)
		if err := c.emitName(name); err != nil {
			return err
		}
		c.patchJump(skip)
		return nil
	}
	c.emitOp(bytecode.OpResolve)
	if err := c.emitName(name); err != nil {
		return err
	}
	if err := c.compileExpr(rhs); err != nil {
		return err
	}
	base := compoundOps[op]
	if err := c.emitBinaryOp(base); err != nil {
		return err
	}
	c.emitOp(bytecode.OpAssign)
	return c.emitName(name)
}

func (c *Compiler) compileMemberAssign(m *parser.MemberExpr, op string, rhs parser.Expr) error {
	if err := c.compileExpr(m.Object); err != nil {
		return err
	}
	if op == "=" {
		if m.Computed {
			if err := c.compileExpr(m.Property); err != nil {
				return err
			}
			if err := c.compileExpr(rhs); err != nil {
				return err
			}
			c.emitOp(bytecode.OpSetByValue)
			return nil
		}
		if err := c.compileExpr(rhs); err != nil {
			return err
		}
		c.emitOp(bytecode.OpSetByName)
		return c.emitName(propName(m.Property))
	}

	objTmp, err := c.stashTemp()
	if err != nil {
		return err
	}
	base := compoundOps[op]

	if m.Computed {
		if err := c.compileExpr(m.Property); err != nil {
			return err
		}
		keyTmp, err := c.stashTemp()
		if err != nil {
			return err
		}
		if err := c.loadTemp(objTmp); err != nil {
			return err
		}
		if err := c.loadTemp(keyTmp); err != nil {
			return err
		}
		c.emitOp(bytecode.OpGetByValue)
		if err := c.compileExpr(rhs); err != nil {
			return err
		}
		if err := c.emitBinaryOp(base); err != nil {
			return err
		}
		resTmp, err := c.stashTemp()
		if err != nil {
			return err
		}
		if err := c.loadTemp(objTmp); err != nil {
			return err
		}
		if err := c.loadTemp(keyTmp); err != nil {
			return err
		}
		if err := c.loadTemp(resTmp); err != nil {
			return err
		}
		c.emitOp(bytecode.OpSetByValue)
		return nil
	}

	name := propName(m.Property)
	if err := c.loadTemp(objTmp); err != nil {
		return err
	}
	c.emitOp(bytecode.OpGetByName)
	if err := c.emitName(name); err != nil {
		return err
	}
	if err := c.compileExpr(rhs); err != nil {
		return err
	}
	if err := c.emitBinaryOp(base); err != nil {
		return err
	}
	resTmp, err := c.stashTemp()
	if err != nil {
		return err
	}
	if err := c.loadTemp(objTmp); err != nil {
		return err
	}
	if err := c.loadTemp(resTmp); err != nil {
		return err
	}
	c.emitOp(bytecode.OpSetByName)
	return c.emitName(name)
}

// compileUpdate lowers ++/-- for both identifier and member targets.
// Postfix keeps a duplicate of the pre-update value as the expression's
// result; prefix returns the post-update value.
func (c *Compiler) compileUpdate(u *parser.UpdateExpr) error {
	if id, ok := u.Operand.(*parser.Identifier); ok {
		c.emitOp(bytecode.OpResolve)
		if err := c.emitName(id.Name); err != nil {
			return err
		}
		if !u.Prefix {
			c.emitOp(bytecode.OpDup)
		}
		if err := c.emitDelta(u.Operator); err != nil {
			return err
		}
		c.emitOp(bytecode.OpAssign)
		if err := c.emitName(id.Name); err != nil {
			return err
		}
		if !u.Prefix {
			c.emitOp(bytecode.OpPop)
		}
		return nil
	}

	m, ok := u.Operand.(*parser.MemberExpr)
	if !ok {
		return c.syntaxError("invalid update target")
	}
	if err := c.compileExpr(m.Object); err != nil {
		return err
	}
	objTmp, err := c.stashTemp()
	if err != nil {
		return err
	}
	var keyTmp string
	if m.Computed {
		if err := c.compileExpr(m.Property); err != nil {
			return err
		}
		keyTmp, err = c.stashTemp()
		if err != nil {
			return err
		}
	}

	loadCurrent := func() error {
		if err := c.loadTemp(objTmp); err != nil {
			return err
		}
		if m.Computed {
			if err := c.loadTemp(keyTmp); err != nil {
				return err
			}
			c.emitOp(bytecode.OpGetByValue)
			return nil
		}
		c.emitOp(bytecode.OpGetByName)
		return c.emitName(propName(m.Property))
	}
	if err := loadCurrent(); err != nil {
		return err
	}
	if !u.Prefix {
		c.emitOp(bytecode.OpDup)
	}
	if err := c.emitDelta(u.Operator); err != nil {
		return err
	}

	resTmp, err := c.stashTemp()
	if err != nil {
		return err
	}
	if err := c.loadTemp(objTmp); err != nil {
		return err
	}
	if m.Computed {
		if err := c.loadTemp(keyTmp); err != nil {
			return err
		}
		if err := c.loadTemp(resTmp); err != nil {
			return err
		}
		c.emitOp(bytecode.OpSetByValue)
	} else {
		if err := c.loadTemp(resTmp); err != nil {
			return err
		}
		c.emitOp(bytecode.OpSetByName)
		if err := c.emitName(propName(m.Property)); err != nil {
			return err
		}
	}
	c.emitOp(bytecode.OpPop) // discard SetBy*'s pushed-back value

	if !u.Prefix {
		// The postfix old value is still sitting under everything we've
		// stashed/loaded since; nothing further to push — OpDup above
		// already left it as the net expression result.
		return nil
	}
	return c.loadTemp(resTmp)
}

func (c *Compiler) emitDelta(op string) error {
	idx, err := c.internNumber(1)
	if err != nil {
		return err
	}
	c.emitOp(bytecode.OpPushLiteral)
	c.emitLiteralIndex(idx)
	if op == "++" {
		c.emitOp(bytecode.OpAdd)
	} else {
		c.emitOp(bytecode.OpSub)
	}
	return nil
}
