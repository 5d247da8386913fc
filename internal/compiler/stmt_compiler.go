package compiler

import (
	"github.com/jerryscript-project/jerryscript-sub014/internal/bytecode"
	"github.com/jerryscript-project/jerryscript-sub014/internal/parser"
	"github.com/jerryscript-project/jerryscript-sub014/internal/value"
)

func (c *Compiler) compileStmt(s parser.Stmt) error {
	switch st := s.(type) {
	case *parser.VarDeclStmt:
		return c.compileVarDecl(st)
	case *parser.ExpressionStmt:
		if err := c.compileExpr(st.Expr); err != nil {
			return err
		}
		c.emitOp(bytecode.OpPop)
		return nil
	case *parser.BlockStmt:
		for _, inner := range st.Stmts {
			if err := c.compileStmt(inner); err != nil {
				return err
			}
		}
		return nil
	case *parser.EmptyStmt:
		return nil
	case *parser.FunctionDeclStmt:
		// Already emitted by hoist; a bare reference here is a no-op.
		return nil
	case *parser.ClassDeclStmt:
		if err := c.compileClassExpr(st.Class); err != nil {
			return err
		}
		c.emitOp(bytecode.OpDeclareLet)
		if err := c.emitName(st.Class.Name); err != nil {
			return err
		}
		c.emitOp(bytecode.OpInitBinding)
		if err := c.emitName(st.Class.Name); err != nil {
			return err
		}
		c.emitOp(bytecode.OpPop)
		return nil
	case *parser.ReturnStmt:
		if st.Value != nil {
			if err := c.compileExpr(st.Value); err != nil {
				return err
			}
			c.emitOp(bytecode.OpReturn)
		} else {
			c.emitOp(bytecode.OpReturnUndefined)
		}
		return nil
	case *parser.IfStmt:
		return c.compileIf(st)
	case *parser.WhileStmt:
		return c.compileWhile("", st)
	case *parser.DoWhileStmt:
		return c.compileDoWhile("", st)
	case *parser.ForStmt:
		return c.compileFor("", st)
	case *parser.ForInStmt:
		return c.compileForIn("", st)
	case *parser.BreakStmt:
		ls := c.findLoop(st.Label)
		if ls == nil {
			return c.syntaxError("illegal break statement")
		}
		pos := c.emitJump(bytecode.OpJump)
		ls.breakJumps = append(ls.breakJumps, pos)
		return nil
	case *parser.ContinueStmt:
		ls := c.findLoop(st.Label)
		if ls == nil || ls.isSwitch {
			return c.syntaxError("illegal continue statement")
		}
		pos := c.emitJump(bytecode.OpJump)
		ls.continueJumps = append(ls.continueJumps, pos)
		return nil
	case *parser.LabeledStmt:
		return c.compileLabeled(st)
	case *parser.ThrowStmt:
		if err := c.compileExpr(st.Value); err != nil {
			return err
		}
		c.emitOp(bytecode.OpThrow)
		return nil
	case *parser.TryStmt:
		return c.compileTry(st)
	case *parser.SwitchStmt:
		return c.compileSwitch(st)
	default:
		return c.syntaxError("unsupported statement form")
	}
}

func (c *Compiler) compileVarDecl(st *parser.VarDeclStmt) error {
	var declOp bytecode.OpCode
	switch st.Kind {
	case "let":
		declOp = bytecode.OpDeclareLet
	case "const":
		declOp = bytecode.OpDeclareConst
	default:
		declOp = bytecode.OpDeclareVar
	}
	for _, d := range st.Declarations {
		if st.Kind != "var" {
			c.emitOp(declOp)
			if err := c.emitName(d.Name); err != nil {
				return err
			}
		}
		if d.Init != nil {
			if err := c.compileExpr(d.Init); err != nil {
				return err
			}
			c.emitOp(bytecode.OpInitBinding)
			if err := c.emitName(d.Name); err != nil {
				return err
			}
			c.emitOp(bytecode.OpPop)
		}
	}
	return nil
}

func (c *Compiler) compileIf(st *parser.IfStmt) error {
	if err := c.compileExpr(st.Cond); err != nil {
		return err
	}
	elseJump := c.emitJump(bytecode.OpJumpIfFalse)
	if err := c.compileStmt(st.Then); err != nil {
		return err
	}
	if st.Else == nil {
		c.patchJump(elseJump)
		return nil
	}
	endJump := c.emitJump(bytecode.OpJump)
	c.patchJump(elseJump)
	if err := c.compileStmt(st.Else); err != nil {
		return err
	}
	c.patchJump(endJump)
	return nil
}

func (c *Compiler) compileWhile(label string, st *parser.WhileStmt) error {
	loopStart := len(c.fn.chunk.Code)
	if err := c.compileExpr(st.Cond); err != nil {
		return err
	}
	exitJump := c.emitJump(bytecode.OpJumpIfFalse)

	ls := c.pushLoop(label, false)
	if err := c.compileStmt(st.Body); err != nil {
		return err
	}
	for _, pos := range ls.continueJumps {
		c.fn.chunk.PatchJumpOffset(pos, int32(loopStart-(pos+3)))
	}
	c.popLoop()

	c.emitJumpTo(bytecode.OpJump, loopStart)
	c.patchJump(exitJump)
	for _, pos := range ls.breakJumps {
		c.patchJump(pos)
	}
	return nil
}

func (c *Compiler) compileDoWhile(label string, st *parser.DoWhileStmt) error {
	bodyStart := len(c.fn.chunk.Code)

	ls := c.pushLoop(label, false)
	if err := c.compileStmt(st.Body); err != nil {
		return err
	}
	condStart := len(c.fn.chunk.Code)
	for _, pos := range ls.continueJumps {
		c.fn.chunk.PatchJumpOffset(pos, int32(condStart-(pos+3)))
	}
	c.popLoop()

	if err := c.compileExpr(st.Cond); err != nil {
		return err
	}
	c.emitJumpTo(bytecode.OpJumpIfTrue, bodyStart)
	for _, pos := range ls.breakJumps {
		c.patchJump(pos)
	}
	return nil
}

func (c *Compiler) compileFor(label string, st *parser.ForStmt) error {
	if st.Init != nil {
		if err := c.compileStmt(st.Init); err != nil {
			return err
		}
	}
	loopStart := len(c.fn.chunk.Code)
	exitJump := -1
	if st.Cond != nil {
		if err := c.compileExpr(st.Cond); err != nil {
			return err
		}
		exitJump = c.emitJump(bytecode.OpJumpIfFalse)
	}

	ls := c.pushLoop(label, false)
	if err := c.compileStmt(st.Body); err != nil {
		return err
	}
	updateStart := len(c.fn.chunk.Code)
	for _, pos := range ls.continueJumps {
		c.fn.chunk.PatchJumpOffset(pos, int32(updateStart-(pos+3)))
	}
	c.popLoop()

	if st.Update != nil {
		if err := c.compileExpr(st.Update); err != nil {
			return err
		}
		c.emitOp(bytecode.OpPop)
	}
	c.emitJumpTo(bytecode.OpJump, loopStart)
	if exitJump >= 0 {
		c.patchJump(exitJump)
	}
	for _, pos := range ls.breakJumps {
		c.patchJump(pos)
	}
	return nil
}

// compileForIn lowers both for-in and for-of: the iterable is initialized
// once into an enumerator/iterator value kept on the stack for the loop's
// duration, and each iteration's OpForInStep/OpForOfStep peeks it without
// popping (see internal/bytecode's opcode doc comments for the exact
// stack shape).
func (c *Compiler) compileForIn(label string, st *parser.ForInStmt) error {
	if err := c.compileExpr(st.Object); err != nil {
		return err
	}
	if st.ForOf {
		c.emitExt(bytecode.OpForOfInit)
	} else {
		c.emitExt(bytecode.OpForInInit)
	}

	loopStart := len(c.fn.chunk.Code)
	if st.ForOf {
		c.emitExt(bytecode.OpForOfStep)
	} else {
		c.emitExt(bytecode.OpForInStep)
	}
	exitJump := c.emitJump(bytecode.OpJumpIfFalse)

	if st.DeclKind != "" && st.DeclKind != "var" {
		declOp := bytecode.OpDeclareLet
		if st.DeclKind == "const" {
			declOp = bytecode.OpDeclareConst
		}
		c.emitOp(declOp)
		if err := c.emitName(st.Name); err != nil {
			return err
		}
	}
	c.emitOp(bytecode.OpInitBinding)
	if err := c.emitName(st.Name); err != nil {
		return err
	}
	c.emitOp(bytecode.OpPop)

	ls := c.pushLoop(label, false)
	if err := c.compileStmt(st.Body); err != nil {
		return err
	}
	for _, pos := range ls.continueJumps {
		c.fn.chunk.PatchJumpOffset(pos, int32(loopStart-(pos+3)))
	}
	c.popLoop()

	c.emitJumpTo(bytecode.OpJump, loopStart)
	c.patchJump(exitJump)
	c.emitOp(bytecode.OpPop) // drop the exhausted enumerator/iterator
	for _, pos := range ls.breakJumps {
		c.patchJump(pos)
	}
	return nil
}

// compileLabeled attaches a label to the loop it wraps so break/continue
// can target it by name; a label on a non-loop statement only affects
// break (ECMA-262 §13.13).
func (c *Compiler) compileLabeled(st *parser.LabeledStmt) error {
	switch inner := st.Body.(type) {
	case *parser.WhileStmt:
		return c.compileWhile(st.Label, inner)
	case *parser.DoWhileStmt:
		return c.compileDoWhile(st.Label, inner)
	case *parser.ForStmt:
		return c.compileFor(st.Label, inner)
	case *parser.ForInStmt:
		return c.compileForIn(st.Label, inner)
	default:
		ls := c.pushLoop(st.Label, true)
		if err := c.compileStmt(st.Body); err != nil {
			return err
		}
		c.popLoop()
		for _, pos := range ls.breakJumps {
			c.patchJump(pos)
		}
		return nil
	}
}

// compileTry emits try/catch/finally as OpTryEnter bracketing the guarded
// block, with jumps routing control around the handler when no exception
// was thrown (spec's interpreter module relies on OpTryEnter/OpTryExit to
// install/uninstall the runtime's handler stack; this compiler only needs
// to emit the bracketing pair and the normal-path jumps).
func (c *Compiler) compileTry(st *parser.TryStmt) error {
	enterPos := c.emitJump(bytecode.OpTryEnter)
	if st.HasCatch {
		c.emitByte(1)
	} else {
		c.emitByte(0)
	}
	for _, inner := range st.Block.Stmts {
		if err := c.compileStmt(inner); err != nil {
			return err
		}
	}
	c.emitOp(bytecode.OpTryExit)
	skipCatch := -1
	if st.HasCatch {
		skipCatch = c.emitJump(bytecode.OpJump)
	}
	c.patchJump(enterPos)

	if st.HasCatch {
		if st.CatchParam != "" {
			c.emitOp(bytecode.OpDeclareLet)
			if err := c.emitName(st.CatchParam); err != nil {
				return err
			}
			c.emitOp(bytecode.OpInitBinding)
			if err := c.emitName(st.CatchParam); err != nil {
				return err
			}
			c.emitOp(bytecode.OpPop)
		} else {
			c.emitOp(bytecode.OpPop) // discard the exception value
		}
		for _, inner := range st.CatchBlock.Stmts {
			if err := c.compileStmt(inner); err != nil {
				return err
			}
		}
		c.patchJump(skipCatch)
	}

	if st.FinallyBlock != nil {
		for _, inner := range st.FinallyBlock.Stmts {
			if err := c.compileStmt(inner); err != nil {
				return err
			}
		}
	}
	return nil
}

// compileSwitch lowers to a chain of strict-equality tests against the
// discriminant (left on the operand stack and copied with OpDup for each
// case test, so it is evaluated once and popped at the end), falling through to the default arm — or past the whole
// statement — when nothing matches (spec §4.6 "Interpreter & Built-in
// Dispatch" control-flow operations).
func (c *Compiler) compileSwitch(st *parser.SwitchStmt) error {
	if err := c.compileExpr(st.Discriminant); err != nil {
		return err
	}

	type arm struct {
		bodyJumpPos int
		isDefault   bool
	}
	var arms []arm
	defaultIdx := -1

	for i, cs := range st.Cases {
		if cs.Test == nil {
			defaultIdx = i
			continue
		}
		c.emitOp(bytecode.OpDup)
		if err := c.compileExpr(cs.Test); err != nil {
			return err
		}
		c.emitOp(bytecode.OpStrictEq)
		pos := c.emitJump(bytecode.OpJumpIfTrue)
		arms = append(arms, arm{bodyJumpPos: pos})
	}
	endOfTests := c.emitJump(bytecode.OpJump) // no case matched
	_ = defaultIdx

	caseStarts := make(map[int]int)
	ls := c.pushLoop("", true)
	for i, cs := range st.Cases {
		caseStarts[i] = len(c.fn.chunk.Code)
		for _, inner := range cs.Stmts {
			if err := c.compileStmt(inner); err != nil {
				return err
			}
		}
	}
	endPos := len(c.fn.chunk.Code)
	c.popLoop()

	armI := 0
	for i, cs := range st.Cases {
		if cs.Test == nil {
			continue
		}
		c.fn.chunk.PatchJumpOffset(arms[armI].bodyJumpPos, int32(caseStarts[i]-(arms[armI].bodyJumpPos+3)))
		armI++
	}
	if defaultIdx >= 0 {
		c.fn.chunk.PatchJumpOffset(endOfTests, int32(caseStarts[defaultIdx]-(endOfTests+3)))
	} else {
		c.fn.chunk.PatchJumpOffset(endOfTests, int32(endPos-(endOfTests+3)))
	}
	for _, pos := range ls.breakJumps {
		c.fn.chunk.PatchJumpOffset(pos, int32(endPos-(pos+3)))
	}

	c.emitOp(bytecode.OpPop) // drop the discriminant
	return nil
}

// compileFunctionDecl compiles a named function declaration's body as a
// nested CompiledCode and binds it into the enclosing scope eagerly
// (hoisting already declared the name as a var before this runs).
func (c *Compiler) compileFunctionDecl(fd *parser.FunctionDeclStmt) error {
	idx, err := c.compileFunctionLiteral(fd.Fn)
	if err != nil {
		return err
	}
	c.emitExt(bytecode.OpCreateFunction)
	c.emitByte(byte(idx))
	c.emitOp(bytecode.OpInitBinding)
	if err := c.emitName(fd.Fn.Name); err != nil {
		return err
	}
	c.emitOp(bytecode.OpPop)
	return nil
}

// compileFunctionLiteral compiles fn's body into a nested CompiledCode and
// returns its index in the enclosing function's Children table.
func (c *Compiler) compileFunctionLiteral(fn *parser.FunctionExpr) (uint32, error) {
	flags := value.CodeFlags(0)
	if fn.IsArrow {
		flags |= value.CodeIsArrow
	}
	if fn.IsGenerator {
		flags |= value.CodeIsGenerator
	}
	if fn.IsAsync {
		flags |= value.CodeIsAsync
	}

	var body []parser.Stmt
	if fn.ExprBody != nil {
		body = []parser.Stmt{&parser.ReturnStmt{Value: fn.ExprBody}}
	} else {
		body = fn.Body
	}

	res, err := c.compileFunctionBody(c.fn, body, fn.Params, flags)
	if err != nil {
		return 0, err
	}
	return c.addChild(res)
}
