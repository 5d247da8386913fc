// Package compiler lowers a parsed program (package parser's AST) into
// bytecode (package bytecode) plus the heap-resident CompiledCode header
// the interpreter calls through (spec §4.5/§4.6 "Parser & Bytecode
// Emitter").
//
// Evaluation follows a single implicit value stack: every expression
// opcode pops the operands it needs and pushes exactly one result. Calls
// use a fixed [this, callee, arg1..argN] stack shape so plain calls and
// method calls share one OpCall encoding (see compileCall). Variable
// access always goes through the environment chain by name (OpDeclareVar/
// OpResolve/OpAssign) rather than through statically allocated registers;
// RegCount on the emitted CompiledCode is therefore always zero for now —
// slot promotion is future work a register-aware pass could add without
// changing the opcode encoding.
package compiler

import (
	"github.com/jerryscript-project/jerryscript-sub014/internal/bytecode"
	"github.com/jerryscript-project/jerryscript-sub014/internal/ecmaerr"
	"github.com/jerryscript-project/jerryscript-sub014/internal/heap"
	"github.com/jerryscript-project/jerryscript-sub014/internal/literal"
	"github.com/jerryscript-project/jerryscript-sub014/internal/parser"
	"github.com/jerryscript-project/jerryscript-sub014/internal/value"
)

// loopScope tracks one enclosing loop or labeled statement's break/continue
// fix-up points while its body is being compiled.
type loopScope struct {
	label         string
	isSwitch      bool // switch bodies accept break but not continue
	breakJumps    []int
	continueJumps []int
}

// funcScope is the per-function compilation unit: its own chunk, constant
// pool, and nested-function table, chained to the enclosing function so
// closures can be told apart from a true compile error (an unresolved name
// is never a compile-time error in a dynamically scoped language — it is
// left to OpResolve to fail at run time).
type funcScope struct {
	parent *funcScope

	chunk    *bytecode.Chunk
	children []heap.CompressedPointer

	constants  []uint32
	constIndex map[uint32]int

	argCount int
	flags    value.CodeFlags

	loops       []*loopScope
	tempCounter int
}

// Compiler emits bytecode for one translation unit (a script, or a single
// eval body); compileFunctionLiteral spins up nested funcScopes for function/arrow/
// method/class bodies it encounters along the way.
type Compiler struct {
	lits *literal.Store
	file string
	fn   *funcScope
}

// New creates a Compiler that interns string/number literals through lits.
func New(lits *literal.Store, file string) *Compiler {
	return &Compiler{lits: lits, file: file}
}

// Result is everything CompileProgram needs handed to value.NewCompiledCode.
type Result struct {
	Chunk        *bytecode.Chunk
	ConstantPool []uint32
	Children     []heap.CompressedPointer
	ParamNames   []string
	RestParam    string
	ArgCount     int
	RegCount     int
	Flags        value.CodeFlags
}

// CompileProgram lowers a whole program (or eval body) into top-level
// Result ready for value.Arena.NewCompiledCode. strict marks a "use strict"
// directive prologue or a caller (eval, module) that already runs strict.
func (c *Compiler) CompileProgram(stmts []parser.Stmt, strict bool) (Result, error) {
	flags := value.CodeFlags(0)
	if strict {
		flags |= value.CodeStrict
	}
	// A final expression statement's value is the program's completion
	// value: it is returned rather than popped.
	if n := len(stmts); n > 0 {
		if es, ok := stmts[n-1].(*parser.ExpressionStmt); ok {
			stmts = append(stmts[:n-1:n-1], &parser.ReturnStmt{Value: es.Expr})
		}
	}
	return c.compileFunctionBody(nil, stmts, nil, flags)
}

// compileFunctionBody compiles a function/program body under a fresh
// funcScope chained to outer, returning the finished Result. Hoisting runs
// first so every var/function declared anywhere in the body is visible
// from the first statement (spec's ECMA-262 variable/function hoisting).
func (c *Compiler) compileFunctionBody(outer *funcScope, stmts []parser.Stmt, params []parser.Param, flags value.CodeFlags) (Result, error) {
	fs := &funcScope{
		parent:     outer,
		chunk:      bytecode.NewChunk(),
		constIndex: make(map[uint32]int),
		argCount:   len(params),
		flags:      flags,
	}
	prevFn := c.fn
	c.fn = fs
	defer func() { c.fn = prevFn }()

	var paramNames []string
	restParam := ""
	for _, p := range params {
		if p.Rest {
			restParam = p.Name
			continue
		}
		paramNames = append(paramNames, p.Name)
		if p.Default != nil {
			if err := c.emitParamDefault(p); err != nil {
				return Result{}, err
			}
		}
	}

	if err := c.hoist(stmts); err != nil {
		return Result{}, err
	}
	for _, s := range stmts {
		if err := c.compileStmt(s); err != nil {
			return Result{}, err
		}
	}
	c.emitOp(bytecode.OpPushUndefined)
	c.emitOp(bytecode.OpReturn)

	return Result{
		Chunk:        fs.chunk,
		ConstantPool: fs.constants,
		Children:     fs.children,
		ParamNames:   paramNames,
		RestParam:    restParam,
		ArgCount:     fs.argCount,
		RegCount:     0,
		Flags:        fs.flags,
	}, nil
}

// emitParamDefault emits `if (name === undefined) name = <default>;` at the
// top of the body for a parameter declared with a default initializer.
// name is already bound (to the argument, or Undefined past the end) by
// the interpreter's call setup before the chunk starts running.
func (c *Compiler) emitParamDefault(p parser.Param) error {
	c.emitOp(bytecode.OpResolve)
	if err := c.emitName(p.Name); err != nil {
		return err
	}
	c.emitOp(bytecode.OpPushUndefined)
	c.emitOp(bytecode.OpStrictEq)
	skip := c.emitJump(bytecode.OpJumpIfFalse)
	if err := c.compileExpr(p.Default); err != nil {
		return err
	}
	c.emitOp(bytecode.OpAssign)
	if err := c.emitName(p.Name); err != nil {
		return err
	}
	c.emitOp(bytecode.OpPop)
	c.patchJump(skip)
	return nil
}

// --- constant pool plumbing -------------------------------------------------

// internString interns s and returns its function-local constant-pool index,
// reusing an existing slot when s's cp was already interned by this
// function (spec §4.4's interning applies globally; this local index table
// just avoids duplicate entries inside one ConstantPool).
func (c *Compiler) internString(s string) (uint32, error) {
	cp, err := c.lits.FindOrCreateString(s)
	if err != nil {
		return 0, err
	}
	return c.localConstIndex(cp), nil
}

func (c *Compiler) internNumber(n float64) (uint32, error) {
	cp, err := c.lits.FindOrCreateNumber(n)
	if err != nil {
		return 0, err
	}
	return c.localConstIndex(cp), nil
}

func (c *Compiler) localConstIndex(cp heap.CompressedPointer) uint32 {
	key := uint32(cp)
	if idx, ok := c.fn.constIndex[key]; ok {
		return uint32(idx)
	}
	idx := len(c.fn.constants)
	c.fn.constants = append(c.fn.constants, key)
	c.fn.constIndex[key] = idx
	return uint32(idx)
}

func (c *Compiler) addChild(r Result) (uint32, error) {
	v, err := c.lits.Arena().NewCompiledCode(r.Chunk, r.ConstantPool, r.Children, r.ParamNames, r.RestParam, r.ArgCount, r.RegCount, r.Flags)
	if err != nil {
		return 0, err
	}
	idx := uint32(len(c.fn.children))
	c.fn.children = append(c.fn.children, heap.CompressedPointer(v.AsCompressedPointer()))
	return idx, nil
}

// --- low-level emission -----------------------------------------------------

func (c *Compiler) debug() bytecode.DebugInfo {
	return bytecode.DebugInfo{File: c.file}
}

func (c *Compiler) emitOp(op bytecode.OpCode) int {
	return c.fn.chunk.WriteOp(op, c.debug())
}

func (c *Compiler) emitExt(op bytecode.ExtOpCode) {
	c.fn.chunk.WriteOp(bytecode.OpExtended, c.debug())
	c.fn.chunk.WriteByte(byte(op), c.debug())
}

func (c *Compiler) emitByte(b byte) {
	c.fn.chunk.WriteByte(b, c.debug())
}

func (c *Compiler) emitLiteralIndex(idx uint32) {
	c.fn.chunk.WriteLiteralIndex(idx, c.debug())
}

// emitName interns name as a string literal and writes its index, the
// operand shape every name-taking opcode (OpDeclareVar, OpResolve,
// OpAssign, OpGetByName, ...) shares.
func (c *Compiler) emitName(name string) error {
	idx, err := c.internString(name)
	if err != nil {
		return err
	}
	c.emitLiteralIndex(idx)
	return nil
}

// emitJump writes op followed by a reserved (always wide) jump offset and
// returns the offset's position for a later patchJump.
func (c *Compiler) emitJump(op bytecode.OpCode) int {
	c.emitOp(op)
	return c.fn.chunk.ReserveJumpOffset(c.debug())
}

// patchJump resolves a previously reserved jump to the chunk's current end.
func (c *Compiler) patchJump(pos int) {
	target := len(c.fn.chunk.Code)
	c.fn.chunk.PatchJumpOffset(pos, int32(target-(pos+3)))
}

// emitJumpTo reserves and immediately patches a jump to a known target,
// the shape every backward (loop back-edge) jump uses.
func (c *Compiler) emitJumpTo(op bytecode.OpCode, target int) {
	pos := c.emitJump(op)
	c.fn.chunk.PatchJumpOffset(pos, int32(target-(pos+3)))
}

// --- loop/label bookkeeping --------------------------------------------------

func (c *Compiler) pushLoop(label string, isSwitch bool) *loopScope {
	ls := &loopScope{label: label, isSwitch: isSwitch}
	c.fn.loops = append(c.fn.loops, ls)
	return ls
}

func (c *Compiler) popLoop() {
	c.fn.loops = c.fn.loops[:len(c.fn.loops)-1]
}

func (c *Compiler) findLoop(label string) *loopScope {
	for i := len(c.fn.loops) - 1; i >= 0; i-- {
		ls := c.fn.loops[i]
		if label == "" || ls.label == label {
			return ls
		}
	}
	return nil
}

func (c *Compiler) syntaxError(msg string) error {
	return ecmaerr.NewSyntaxError(msg, c.file, 0, 0)
}
