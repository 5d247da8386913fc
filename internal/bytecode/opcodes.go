package bytecode

// OpCode is a primary one-byte opcode (spec §4.5 "primary opcodes occupy
// one byte"). OpExtended introduces the second opcode space for the
// colder opcode families (function creation, iteration, spread, classes,
// generators/async, typeof-by-name; see ExtOpCode) so the
// hot path — arithmetic, property access, control flow, calls — stays in
// the dense, commonly-dispatched primary space.
type OpCode byte

const (
	// Push-constant family.
	OpPushLiteral   OpCode = iota // push-constant from the literal pool, by constant-pool index
	OpPushRegister                // push the value already held in a register
	OpPushSmallInt                // push a small-integer immediate encoded inline
	OpPushUndefined
	OpPushNull
	OpPushTrue
	OpPushFalse
	OpPushThis

	// Arithmetic.
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpPow
	OpNeg
	OpBitAnd
	OpBitOr
	OpBitXor
	OpBitNot
	OpShl
	OpShr
	OpUShr
	OpTypeOf
	OpNot // logical negation: ToBoolean then invert

	// Comparison.
	OpEq
	OpStrictEq
	OpLess
	OpLessEq
	OpGreater
	OpGreaterEq
	OpInstanceOf
	OpIn

	// Logical short-circuit (the jump target is a second operand).
	OpAndJump
	OpOrJump
	OpCoalesceJump

	// Property access.
	OpGetByName
	OpGetByValue
	OpSetByName
	OpSetByValue
	OpDeleteProperty
	OpHasProperty

	// Control flow.
	OpJump
	OpJumpIfTrue
	OpJumpIfFalse
	// OpJumpIfNullish peeks the top of stack without popping it: if
	// null/undefined, jumps to the given target leaving that value in
	// place (optional chaining's short-circuit result); otherwise falls
	// through with the value still on top for the next instruction.
	OpJumpIfNullish
	OpTryEnter
	OpTryExit
	OpThrow
	OpReturn
	OpReturnUndefined

	// Calls.
	OpCall
	OpCallWithSpread
	OpNew
	OpNewWithSpread

	// Variable access.
	OpDeclareVar
	OpDeclareLet
	OpDeclareConst
	OpInitBinding
	OpResolve
	OpAssign
	OpPop
	OpDup

	// Object/array construction.
	OpCreateObject
	OpCreateArray
	OpDefineProperty
	OpDefineGetter
	OpDefineSetter

	// Escape hatch into the extended (second-byte) opcode space.
	OpExtended
)

// ExtOpCode is the second-opcode-space family spec.md's opcode-family
// table lists as the colder paths: function creation, iteration, and
// the handful of ES2015+ forms (generator/async, spread/rest, classes).
type ExtOpCode byte

const (
	OpCreateFunction ExtOpCode = iota
	OpCreateArrow
	OpCreateMethod
	OpCreateGenerator
	OpCreateAsyncFunction

	OpForInInit // pop an object, push its for-in enumerator state
	OpForOfInit // pop an iterable, push its for-of iterator state
	// OpForInStep/OpForOfStep peek the enumerator/iterator beneath the top
	// of stack (never popping it) and push its next key/value followed by
	// a boolean "more" flag, so the boolean lands on top for a following
	// OpJumpIfFalse to consume — leaving the key/value as the new top once
	// the jump's own pop is done.
	OpForInStep
	OpForOfStep
	OpIterNext
	OpIterClose
	OpSpread

	// OpArrayPush pops (array, value) and pushes array with value appended;
	// OpArraySpread pops (array, iterable) and pushes array with every
	// element of iterable appended. Both build an ArrayLiteral incrementally
	// so plain and spread elements share one construction sequence.
	OpArrayPush
	OpArraySpread
	// OpObjectSpread pops (object, source) and pushes object with every own
	// enumerable property of source copied in.
	OpObjectSpread

	// OpCreateClass pops a superclass value (Undefined if none was
	// declared) and takes a byte operand indexing the constructor's
	// CompiledCode in Children, pushing the new class constructor.
	OpCreateClass
	// OpDefineMethod pops a method function and a name value, peeks the
	// class beneath them without popping it, and defines the method on
	// the class (or its prototype, depending on the static byte) under
	// that name. Operand bytes: static (0/1), kind (0 method, 1 getter,
	// 2 setter).
	OpDefineMethod
	// OpSuperCall pops argCount (a following byte operand) argument values
	// and invokes the home object's [[Prototype]] constructor with this's
	// binding still being initialized, binding the result as this.
	OpSuperCall
	// OpSuperGet pops a property value (string or computed) and looks it
	// up starting from the home object's prototype rather than this,
	// unlike OpGetByName/OpGetByValue.
	OpSuperGet

	// OpYield pops the value to yield, appends it to the enclosing
	// generator's collected sequence and pushes Undefined as the resume
	// value. The generator body runs to completion before iteration
	// starts; nothing suspends at a yield. A following byte operand of 1
	// marks `yield*` (append every element of the operand) vs. 0 for a
	// plain `yield`.
	OpYield
	// OpAwait pops a value and pushes it back unchanged: the function does
	// not suspend, and a Promise operand is not unwrapped.
	OpAwait

	// OpTypeOfName takes a literal-index name operand and pushes its
	// typeof string directly, resolving the name without raising a
	// ReferenceError when unbound (the one place ECMA-262 exempts
	// identifier resolution from that failure mode).
	OpTypeOfName
)
