package compiler

import (
	"strconv"

	"github.com/jerryscript-project/jerryscript-sub014/internal/bytecode"
	"github.com/jerryscript-project/jerryscript-sub014/internal/parser"
)

func (c *Compiler) compileExpr(e parser.Expr) error {
	switch ex := e.(type) {
	case *parser.Identifier:
		c.emitOp(bytecode.OpResolve)
		return c.emitName(ex.Name)
	case *parser.NumberLiteral:
		idx, err := c.internNumber(ex.Value)
		if err != nil {
			return err
		}
		c.emitOp(bytecode.OpPushLiteral)
		c.emitLiteralIndex(idx)
		return nil
	case *parser.StringLiteral:
		idx, err := c.internString(ex.Value)
		if err != nil {
			return err
		}
		c.emitOp(bytecode.OpPushLiteral)
		c.emitLiteralIndex(idx)
		return nil
	case *parser.BooleanLiteral:
		if ex.Value {
			c.emitOp(bytecode.OpPushTrue)
		} else {
			c.emitOp(bytecode.OpPushFalse)
		}
		return nil
	case *parser.NullLiteral:
		c.emitOp(bytecode.OpPushNull)
		return nil
	case *parser.ThisExpr:
		c.emitOp(bytecode.OpPushThis)
		return nil
	case *parser.TemplateLiteral:
		return c.compileTemplate(ex)
	case *parser.RegexLiteral:
		// The regex engine's own matching semantics are out of scope;
		// regex literal evaluation yields undefined until a builtins
		// layer constructs a real RegExp object around Pattern/Flags.
		c.emitOp(bytecode.OpPushUndefined)
		return nil
	case *parser.ArrayLiteral:
		return c.compileArrayLiteral(ex)
	case *parser.ObjectLiteral:
		return c.compileObjectLiteral(ex)
	case *parser.FunctionExpr:
		idx, err := c.compileFunctionLiteral(ex)
		if err != nil {
			return err
		}
		if ex.IsArrow {
			c.emitExt(bytecode.OpCreateArrow)
		} else {
			c.emitExt(bytecode.OpCreateFunction)
		}
		c.emitByte(byte(idx))
		return nil
	case *parser.UnaryExpr:
		return c.compileUnary(ex)
	case *parser.UpdateExpr:
		return c.compileUpdate(ex)
	case *parser.BinaryExpr:
		if err := c.compileExpr(ex.Left); err != nil {
			return err
		}
		if err := c.compileExpr(ex.Right); err != nil {
			return err
		}
		return c.emitBinaryOp(ex.Operator)
	case *parser.LogicalExpr:
		return c.compileLogical(ex)
	case *parser.AssignExpr:
		return c.compileAssign(ex)
	case *parser.ConditionalExpr:
		return c.compileConditional(ex)
	case *parser.CallExpr:
		return c.compileCall(ex)
	case *parser.NewExpr:
		return c.compileNew(ex)
	case *parser.MemberExpr:
		return c.compileMember(ex)
	case *parser.SequenceExpr:
		for i, sub := range ex.Exprs {
			if err := c.compileExpr(sub); err != nil {
				return err
			}
			if i < len(ex.Exprs)-1 {
				c.emitOp(bytecode.OpPop)
			}
		}
		return nil
	case *parser.SpreadElement:
		// Reached only if a spread appears somewhere compileArrayLiteral/
		// compileCall don't already special-case; compile the operand so
		// the stack stays balanced rather than leaving a silent gap.
		return c.compileExpr(ex.Argument)
	case *parser.ClassExpr:
		return c.compileClassExpr(ex)
	case *parser.YieldExpr:
		return c.compileYield(ex)
	case *parser.AwaitExpr:
		if err := c.compileExpr(ex.Argument); err != nil {
			return err
		}
		c.emitExt(bytecode.OpAwait)
		return nil
	default:
		return c.syntaxError("unsupported expression form")
	}
}

func (c *Compiler) compileTemplate(t *parser.TemplateLiteral) error {
	idx, err := c.internString(t.Quasis[0])
	if err != nil {
		return err
	}
	c.emitOp(bytecode.OpPushLiteral)
	c.emitLiteralIndex(idx)
	for i, sub := range t.Exprs {
		if err := c.compileExpr(sub); err != nil {
			return err
		}
		c.emitOp(bytecode.OpAdd)
		qidx, err := c.internString(t.Quasis[i+1])
		if err != nil {
			return err
		}
		c.emitOp(bytecode.OpPushLiteral)
		c.emitLiteralIndex(qidx)
		c.emitOp(bytecode.OpAdd)
	}
	return nil
}

// compileElementsIntoArray builds a fresh array from elements left to
// right, appending spread elements' contents instead of the iterable
// itself (shared by array literals and spread call/new argument lists).
func (c *Compiler) compileElementsIntoArray(elements []parser.Expr, spreads []bool) error {
	c.emitOp(bytecode.OpCreateArray)
	c.fn.chunk.WriteLiteralIndex(0, c.debug())
	for i, el := range elements {
		if el == nil { // elision
			c.emitOp(bytecode.OpPushUndefined)
			c.emitExt(bytecode.OpArrayPush)
			continue
		}
		if i < len(spreads) && spreads[i] {
			if sp, ok := el.(*parser.SpreadElement); ok {
				if err := c.compileExpr(sp.Argument); err != nil {
					return err
				}
			} else if err := c.compileExpr(el); err != nil {
				return err
			}
			c.emitExt(bytecode.OpArraySpread)
			continue
		}
		if err := c.compileExpr(el); err != nil {
			return err
		}
		c.emitExt(bytecode.OpArrayPush)
	}
	return nil
}

func (c *Compiler) compileArrayLiteral(a *parser.ArrayLiteral) error {
	return c.compileElementsIntoArray(a.Elements, a.Spreads)
}

func (c *Compiler) compileObjectLiteral(o *parser.ObjectLiteral) error {
	c.emitOp(bytecode.OpCreateObject)
	for _, p := range o.Properties {
		switch p.Kind {
		case "spread":
			if err := c.compileExpr(p.Value); err != nil {
				return err
			}
			c.emitExt(bytecode.OpObjectSpread)
		case "method", "init":
			if err := c.compileObjectKey(p); err != nil {
				return err
			}
			if err := c.compileExpr(p.Value); err != nil {
				return err
			}
			c.emitOp(bytecode.OpDefineProperty)
		case "get":
			if err := c.compileObjectKey(p); err != nil {
				return err
			}
			if err := c.compileExpr(p.Value); err != nil {
				return err
			}
			c.emitOp(bytecode.OpDefineGetter)
		case "set":
			if err := c.compileObjectKey(p); err != nil {
				return err
			}
			if err := c.compileExpr(p.Value); err != nil {
				return err
			}
			c.emitOp(bytecode.OpDefineSetter)
		}
	}
	return nil
}

// compileObjectKey pushes p's key as a value (computed keys evaluate
// their expression; static keys push an interned string literal).
func (c *Compiler) compileObjectKey(p parser.ObjectProperty) error {
	if p.Computed {
		return c.compileExpr(p.Key)
	}
	idx, err := c.internString(propName(p.Key))
	if err != nil {
		return err
	}
	c.emitOp(bytecode.OpPushLiteral)
	c.emitLiteralIndex(idx)
	return nil
}

func (c *Compiler) compileUnary(u *parser.UnaryExpr) error {
	if u.Operator == "typeof" {
		if id, ok := u.Operand.(*parser.Identifier); ok {
			c.emitExt(bytecode.OpTypeOfName)
			return c.emitName(id.Name)
		}
	}
	if err := c.compileExpr(u.Operand); err != nil {
		return err
	}
	switch u.Operator {
	case "!":
		c.emitOp(bytecode.OpNot)
	case "-":
		c.emitOp(bytecode.OpNeg)
	case "typeof":
		c.emitOp(bytecode.OpTypeOf)
	case "~":
		c.emitOp(bytecode.OpBitNot)
	case "void":
		c.emitOp(bytecode.OpPop)
		c.emitOp(bytecode.OpPushUndefined)
	case "delete":
		return c.compileDelete(u.Operand)
	}
	return nil
}

// compileDelete handles `delete obj.prop` / `delete obj[prop]`; any other
// operand, a bare identifier included, deletes nothing and evaluates to
// true.
func (c *Compiler) compileDelete(target parser.Expr) error {
	m, ok := target.(*parser.MemberExpr)
	if !ok {
		c.emitOp(bytecode.OpPushTrue)
		return nil
	}
	if err := c.compileExpr(m.Object); err != nil {
		return err
	}
	if m.Computed {
		if err := c.compileExpr(m.Property); err != nil {
			return err
		}
	} else {
		idx, err := c.internString(propName(m.Property))
		if err != nil {
			return err
		}
		c.emitOp(bytecode.OpPushLiteral)
		c.emitLiteralIndex(idx)
	}
	c.emitOp(bytecode.OpDeleteProperty)
	return nil
}

func (c *Compiler) emitBinaryOp(op string) error {
	switch op {
	case "+":
		c.emitOp(bytecode.OpAdd)
	case "-":
		c.emitOp(bytecode.OpSub)
	case "*":
		c.emitOp(bytecode.OpMul)
	case "/":
		c.emitOp(bytecode.OpDiv)
	case "%":
		c.emitOp(bytecode.OpMod)
	case "**":
		c.emitOp(bytecode.OpPow)
	case "&":
		c.emitOp(bytecode.OpBitAnd)
	case "|":
		c.emitOp(bytecode.OpBitOr)
	case "^":
		c.emitOp(bytecode.OpBitXor)
	case "<<":
		c.emitOp(bytecode.OpShl)
	case ">>":
		c.emitOp(bytecode.OpShr)
	case ">>>":
		c.emitOp(bytecode.OpUShr)
	case "==":
		c.emitOp(bytecode.OpEq)
	case "===":
		c.emitOp(bytecode.OpStrictEq)
	case "!=":
		c.emitOp(bytecode.OpEq)
		c.emitOp(bytecode.OpNot)
	case "!==":
		c.emitOp(bytecode.OpStrictEq)
		c.emitOp(bytecode.OpNot)
	case "<":
		c.emitOp(bytecode.OpLess)
	case "<=":
		c.emitOp(bytecode.OpLessEq)
	case ">":
		c.emitOp(bytecode.OpGreater)
	case ">=":
		c.emitOp(bytecode.OpGreaterEq)
	case "instanceof":
		c.emitOp(bytecode.OpInstanceOf)
	case "in":
		c.emitOp(bytecode.OpIn)
	default:
		return c.syntaxError("unsupported binary operator " + op)
	}
	return nil
}

func (c *Compiler) compileLogical(l *parser.LogicalExpr) error {
	if err := c.compileExpr(l.Left); err != nil {
		return err
	}
	var op bytecode.OpCode
	switch l.Operator {
	case "&&":
		op = bytecode.OpAndJump
	case "||":
		op = bytecode.OpOrJump
	case "??":
		op = bytecode.OpCoalesceJump
	default:
		return c.syntaxError("unsupported logical operator " + l.Operator)
	}
	pos := c.emitJump(op)
	c.emitOp(bytecode.OpPop)
	if err := c.compileExpr(l.Right); err != nil {
		return err
	}
	c.patchJump(pos)
	return nil
}

func (c *Compiler) compileConditional(e *parser.ConditionalExpr) error {
	if err := c.compileExpr(e.Test); err != nil {
		return err
	}
	elseJump := c.emitJump(bytecode.OpJumpIfFalse)
	if err := c.compileExpr(e.Then); err != nil {
		return err
	}
	endJump := c.emitJump(bytecode.OpJump)
	c.patchJump(elseJump)
	if err := c.compileExpr(e.Else); err != nil {
		return err
	}
	c.patchJump(endJump)
	return nil
}

func (c *Compiler) compileYield(y *parser.YieldExpr) error {
	if y.Argument != nil {
		if err := c.compileExpr(y.Argument); err != nil {
			return err
		}
	} else {
		c.emitOp(bytecode.OpPushUndefined)
	}
	c.emitExt(bytecode.OpYield)
	if y.Delegate {
		c.emitByte(1)
	} else {
		c.emitByte(0)
	}
	return nil
}

func propName(e parser.Expr) string {
	switch k := e.(type) {
	case *parser.Identifier:
		return k.Name
	case *parser.StringLiteral:
		return k.Value
	case *parser.NumberLiteral:
		return strconv.FormatFloat(k.Value, 'g', -1, 64)
	}
	return ""
}
