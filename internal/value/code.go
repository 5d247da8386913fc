package value

import (
	"github.com/jerryscript-project/jerryscript-sub014/internal/bytecode"
	"github.com/jerryscript-project/jerryscript-sub014/internal/heap"
)

// CodeFlags packs the per-function attributes spec §4.2/§4.5 attach to a
// compiled-code header: strictness, the presence of an arguments object,
// non-strict direct eval, and the various non-ordinary-function shapes.
type CodeFlags uint16

const (
	CodeStrict CodeFlags = 1 << iota
	CodeHasArgumentsObject
	CodeHasNonStrictEval
	CodeIsArrow
	CodeIsGenerator
	CodeIsAsync
	CodeExtendedInfo // extended byte-code header present (spec §4.5 opcode prefix note)
)

func (f CodeFlags) Has(bit CodeFlags) bool { return f&bit != 0 }

// CompiledCode is the heap-resident header a Function object's cp refers
// to: the emitted instruction stream plus the function-level metadata the
// interpreter's call sequence needs before it can build a frame (spec §3
// "Compiled Code", §4.5).
type CompiledCode struct {
	header

	ArgCount int
	RegCount int
	Flags    CodeFlags

	// ConstantPool holds the literal-index operands opcodes like OpConstant
	// resolve through; it is separate from Chunk.Constants so a snapshot
	// can relocate the two independently (spec §4.4/§6).
	ConstantPool []uint32

	// Children holds the cps of nested CompiledCode headers this function's
	// bytecode closes over — OpExtended/OpCreateFunction and its siblings
	// index into this table rather than ConstantPool, since a nested
	// function is a heap object in its own right, not an interned literal.
	Children []heap.CompressedPointer

	Chunk *bytecode.Chunk

	Name heap.CompressedPointer // cp to String, Null if anonymous

	// ParamNames/RestParam drive the interpreter's call-setup: each
	// ParamNames[i] is bound positionally to the i-th argument (or
	// Undefined past the end) before the chunk starts executing; defaults
	// are then applied by bytecode at the top of the body (see
	// internal/compiler's emitParamDefault). RestParam, if non-empty, is
	// bound to an array of every argument past len(ParamNames).
	ParamNames []string
	RestParam  string
}

const compiledCodeBaseSize = 40

// NewCompiledCode allocates a compiled-code header around an already-
// emitted chunk, its function-local constant pool (local literal indices
// resolved by the compiler to global literal-store cps), and its nested
// function table.
func (a *Arena) NewCompiledCode(chunk *bytecode.Chunk, constantPool []uint32, children []heap.CompressedPointer, paramNames []string, restParam string, argCount, regCount int, flags CodeFlags) (Value, error) {
	size := compiledCodeBaseSize + len(constantPool)*4 + len(children)*4
	cp, err := a.h.Allocate(size, heap.LifetimeLong)
	if err != nil {
		return 0, err
	}
	a.code[cp] = &CompiledCode{
		header:       header{kind: HeapCompiledCode},
		ArgCount:     argCount,
		RegCount:     regCount,
		Flags:        flags,
		ConstantPool: constantPool,
		Children:     children,
		Chunk:        chunk,
		Name:         heap.Null,
		ParamNames:   paramNames,
		RestParam:    restParam,
	}
	return FromCompressedPointer(uint32(cp)), nil
}

// CodeAt resolves a Value known to address a compiled-code header.
func (a *Arena) CodeAt(v Value) (*CompiledCode, bool) {
	c, ok := a.code[heap.CompressedPointer(v.AsCompressedPointer())]
	return c, ok
}

func (a *Arena) freeCompiledCode(cp heap.CompressedPointer, constCount int) {
	delete(a.code, cp)
	a.h.Free(cp, compiledCodeBaseSize+constCount*4)
}
