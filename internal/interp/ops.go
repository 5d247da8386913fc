package interp

import (
	"math"

	"github.com/jerryscript-project/jerryscript-sub014/internal/bytecode"
	"github.com/jerryscript-project/jerryscript-sub014/internal/value"
)

// execPrimary dispatches every primary-space opcode dispatch() doesn't
// already handle directly (OpExtended/OpReturn/OpReturnUndefined). This
// covers push-constant, arithmetic, comparison, logical short-circuit,
// control flow, calls, variable access, and object/array construction —
// the dense, commonly-executed opcode families spec §4.5 keeps out of the
// extended byte.
func (vm *Interpreter) execPrimary(f *frame, op bytecode.OpCode) (value.Value, bool, error) {
	switch op {
	// --- push-constant family ---
	case bytecode.OpPushLiteral:
		idx := f.readLiteralIndex()
		vm.push(vm.constant(f, idx))
		return value.Undefined, false, nil
	case bytecode.OpPushRegister:
		b := f.readByte()
		n, isLiteral := bytecode.DecodeRegisterOrLiteral(b)
		if isLiteral {
			vm.push(vm.constant(f, uint32(n)))
		} else if int(n) < len(f.registers) {
			vm.push(f.registers[n])
		} else {
			vm.push(value.Undefined)
		}
		return value.Undefined, false, nil
	case bytecode.OpPushSmallInt:
		// Not emitted by today's compiler (OpPushLiteral covers every
		// numeric literal through the constant pool instead); kept
		// implemented against a plain 4-byte big-endian immediate for a
		// future fast-path lowering.
		n := int32(f.readByte())<<24 | int32(f.readByte())<<16 | int32(f.readByte())<<8 | int32(f.readByte())
		vm.push(value.SmallInt(int64(n)))
		return value.Undefined, false, nil
	case bytecode.OpPushUndefined:
		vm.push(value.Undefined)
		return value.Undefined, false, nil
	case bytecode.OpPushNull:
		vm.push(value.Null)
		return value.Undefined, false, nil
	case bytecode.OpPushTrue:
		vm.push(value.True)
		return value.Undefined, false, nil
	case bytecode.OpPushFalse:
		vm.push(value.False)
		return value.Undefined, false, nil
	case bytecode.OpPushThis:
		vm.push(f.this)
		return value.Undefined, false, nil

	// --- arithmetic ---
	case bytecode.OpAdd:
		return vm.execAdd(f)
	case bytecode.OpSub:
		return vm.binaryNumeric(f, func(a, b float64) float64 { return a - b })
	case bytecode.OpMul:
		return vm.binaryNumeric(f, func(a, b float64) float64 { return a * b })
	case bytecode.OpDiv:
		return vm.binaryNumeric(f, func(a, b float64) float64 { return a / b })
	case bytecode.OpMod:
		return vm.binaryNumeric(f, math.Mod)
	case bytecode.OpPow:
		return vm.binaryNumeric(f, math.Pow)
	case bytecode.OpNeg:
		return vm.execNeg(f)
	case bytecode.OpBitAnd:
		return vm.binaryInt32(f, func(a, b int32) int32 { return a & b })
	case bytecode.OpBitOr:
		return vm.binaryInt32(f, func(a, b int32) int32 { return a | b })
	case bytecode.OpBitXor:
		return vm.binaryInt32(f, func(a, b int32) int32 { return a ^ b })
	case bytecode.OpBitNot:
		return vm.execBitNot(f)
	case bytecode.OpShl:
		return vm.binaryShift(f, func(a int32, s uint32) int32 { return a << s })
	case bytecode.OpShr:
		return vm.binaryShift(f, func(a int32, s uint32) int32 { return a >> s })
	case bytecode.OpUShr:
		return vm.execUShr(f)
	case bytecode.OpTypeOf:
		v := vm.pop()
		vm.push(vm.typeOfString(v))
		return value.Undefined, false, nil
	case bytecode.OpNot:
		v := vm.pop()
		vm.push(value.Bool(!vm.Arena.ToBoolean(v)))
		return value.Undefined, false, nil

	// --- comparison ---
	case bytecode.OpEq:
		return vm.execAbstractEq(f, false)
	case bytecode.OpStrictEq:
		r := vm.pop()
		l := vm.pop()
		vm.push(value.Bool(vm.Arena.StrictEquals(l, r)))
		return value.Undefined, false, nil
	case bytecode.OpLess:
		return vm.execRelational(f, func(c int, eq bool) bool { return c < 0 })
	case bytecode.OpLessEq:
		return vm.execRelational(f, func(c int, eq bool) bool { return c < 0 || eq })
	case bytecode.OpGreater:
		return vm.execRelational(f, func(c int, eq bool) bool { return c > 0 })
	case bytecode.OpGreaterEq:
		return vm.execRelational(f, func(c int, eq bool) bool { return c > 0 || eq })
	case bytecode.OpInstanceOf:
		return vm.execInstanceOf(f)
	case bytecode.OpIn:
		return vm.execIn(f)

	// --- logical short-circuit ---
	case bytecode.OpAndJump:
		return vm.execShortCircuit(f, func(b bool) bool { return !b })
	case bytecode.OpOrJump:
		return vm.execShortCircuit(f, func(b bool) bool { return b })
	case bytecode.OpCoalesceJump:
		return vm.execCoalesceJump(f)

	// --- property access (objects.go) ---
	case bytecode.OpGetByName:
		return vm.execGetByName(f)
	case bytecode.OpGetByValue:
		return vm.execGetByValue(f)
	case bytecode.OpSetByName:
		return vm.execSetByName(f)
	case bytecode.OpSetByValue:
		return vm.execSetByValue(f)
	case bytecode.OpDeleteProperty:
		return vm.execDeleteProperty(f)
	case bytecode.OpHasProperty:
		return vm.execHasProperty(f)

	// --- control flow ---
	case bytecode.OpJump:
		off := f.readJumpOffset()
		f.ip += int(off)
		return value.Undefined, false, nil
	case bytecode.OpJumpIfTrue:
		off := f.readJumpOffset()
		v := vm.pop()
		if vm.Arena.ToBoolean(v) {
			f.ip += int(off)
		}
		return value.Undefined, false, nil
	case bytecode.OpJumpIfFalse:
		off := f.readJumpOffset()
		v := vm.pop()
		if !vm.Arena.ToBoolean(v) {
			f.ip += int(off)
		}
		return value.Undefined, false, nil
	case bytecode.OpJumpIfNullish:
		off := f.readJumpOffset()
		v := vm.peek(0)
		if v.IsNull() || v.IsUndefined() {
			f.ip += int(off)
		}
		return value.Undefined, false, nil
	case bytecode.OpTryEnter:
		return vm.execTryEnter(f)
	case bytecode.OpTryExit:
		return vm.execTryExit(f)
	case bytecode.OpThrow:
		return vm.execThrow(f)

	// --- calls ---
	case bytecode.OpCall:
		return vm.execCall(f)
	case bytecode.OpCallWithSpread:
		return vm.execCallWithSpread(f)
	case bytecode.OpNew:
		return vm.execNew(f)
	case bytecode.OpNewWithSpread:
		return vm.execNewWithSpread(f)

	// --- variable access ---
	case bytecode.OpDeclareVar:
		return vm.execDeclareVar(f, true)
	case bytecode.OpDeclareLet:
		return vm.execDeclareVar(f, true)
	case bytecode.OpDeclareConst:
		return vm.execDeclareVar(f, false)
	case bytecode.OpInitBinding:
		return vm.execInitBinding(f)
	case bytecode.OpResolve:
		return vm.execResolve(f)
	case bytecode.OpAssign:
		return vm.execAssign(f)
	case bytecode.OpPop:
		vm.pop()
		return value.Undefined, false, nil
	case bytecode.OpDup:
		vm.push(vm.peek(0))
		return value.Undefined, false, nil

	// --- object/array construction ---
	case bytecode.OpCreateObject:
		return vm.execCreateObject(f)
	case bytecode.OpCreateArray:
		return vm.execCreateArray(f)
	case bytecode.OpDefineProperty:
		return vm.execDefineProperty(f)
	case bytecode.OpDefineGetter:
		return vm.execDefineAccessor(f, true)
	case bytecode.OpDefineSetter:
		return vm.execDefineAccessor(f, false)
	}
	return value.Undefined, false, nil
}

// numberValue boxes n as a SmallInt when it round-trips exactly (and isn't
// negative zero, which SmallInt's integer encoding can't distinguish from
// positive zero), falling back to a heap NumberBox otherwise.
func (vm *Interpreter) numberValue(n float64) (value.Value, error) {
	if i := int64(n); float64(i) == n && value.FitsSmallInt(i) && !(i == 0 && math.Signbit(n)) {
		return value.SmallInt(i), nil
	}
	return vm.Arena.NewNumberBox(n)
}

// toNumeric coerces v to a float64 per ECMA-262 ToNumber (7.1.4),
// round-tripping objects through ToPrimitive(hint number) first.
func (vm *Interpreter) toNumeric(v value.Value) (float64, value.Value, bool, error) {
	if n, ok := vm.Arena.ToNumber(v); ok {
		return n, value.Undefined, false, nil
	}
	if v.IsPtr() {
		if _, ok := vm.Arena.Sym(v); ok {
			thrown, hasThrown, err := vm.typeError("cannot convert a symbol value to a number")
			return 0, thrown, hasThrown, err
		}
		prim, thrown, hasThrown, err := vm.toPrimitive(v, "number")
		if hasThrown || err != nil {
			return 0, thrown, hasThrown, err
		}
		if n, ok := vm.Arena.ToNumber(prim); ok {
			return n, value.Undefined, false, nil
		}
	}
	thrown, hasThrown, err := vm.typeError("cannot convert value to a number")
	return 0, thrown, hasThrown, err
}

// execAdd implements `+` (ECMA-262 12.8.3): ToPrimitive both operands
// (hint default), then string-concatenate if either is a string,
// otherwise numeric add.
func (vm *Interpreter) execAdd(f *frame) (value.Value, bool, error) {
	r := vm.pop()
	l := vm.pop()
	lp, thrown, hasThrown, err := vm.toPrimitive(l, "default")
	if hasThrown || err != nil {
		return thrown, hasThrown, err
	}
	rp, thrown, hasThrown, err := vm.toPrimitive(r, "default")
	if hasThrown || err != nil {
		return thrown, hasThrown, err
	}
	_, lIsStr := vm.Arena.Str(lp)
	_, rIsStr := vm.Arena.Str(rp)
	if lIsStr || rIsStr {
		lt, _ := vm.Arena.ToStringText(lp)
		rt, _ := vm.Arena.ToStringText(rp)
		s, err := vm.Arena.NewString(lt + rt)
		if err != nil {
			return value.Undefined, false, err
		}
		vm.push(s)
		return value.Undefined, false, nil
	}
	ln, thrown, hasThrown, err := vm.toNumeric(lp)
	if hasThrown || err != nil {
		return thrown, hasThrown, err
	}
	rn, thrown, hasThrown, err := vm.toNumeric(rp)
	if hasThrown || err != nil {
		return thrown, hasThrown, err
	}
	n, err := vm.numberValue(ln + rn)
	if err != nil {
		return value.Undefined, false, err
	}
	vm.push(n)
	return value.Undefined, false, nil
}

// binaryNumeric implements every other numeric binary operator: both
// operands coerce through ToNumber (via toNumeric), then combine takes the
// resulting pair.
func (vm *Interpreter) binaryNumeric(f *frame, combine func(a, b float64) float64) (value.Value, bool, error) {
	r := vm.pop()
	l := vm.pop()
	ln, thrown, hasThrown, err := vm.toNumeric(l)
	if hasThrown || err != nil {
		return thrown, hasThrown, err
	}
	rn, thrown, hasThrown, err := vm.toNumeric(r)
	if hasThrown || err != nil {
		return thrown, hasThrown, err
	}
	n, err := vm.numberValue(combine(ln, rn))
	if err != nil {
		return value.Undefined, false, err
	}
	vm.push(n)
	return value.Undefined, false, nil
}

func toInt32(n float64) int32 {
	if math.IsNaN(n) || math.IsInf(n, 0) || n == 0 {
		return 0
	}
	m := math.Mod(math.Trunc(n), 4294967296)
	if m < 0 {
		m += 4294967296
	}
	if m >= 2147483648 {
		m -= 4294967296
	}
	return int32(m)
}

func toUint32(n float64) uint32 {
	if math.IsNaN(n) || math.IsInf(n, 0) || n == 0 {
		return 0
	}
	m := math.Mod(math.Trunc(n), 4294967296)
	if m < 0 {
		m += 4294967296
	}
	return uint32(m)
}

// binaryInt32 implements the bitwise binary operators: both operands
// coerce through ToInt32 (ECMA-262 7.1.6) before combine runs.
func (vm *Interpreter) binaryInt32(f *frame, combine func(a, b int32) int32) (value.Value, bool, error) {
	r := vm.pop()
	l := vm.pop()
	ln, thrown, hasThrown, err := vm.toNumeric(l)
	if hasThrown || err != nil {
		return thrown, hasThrown, err
	}
	rn, thrown, hasThrown, err := vm.toNumeric(r)
	if hasThrown || err != nil {
		return thrown, hasThrown, err
	}
	result := combine(toInt32(ln), toInt32(rn))
	n, err := vm.numberValue(float64(result))
	if err != nil {
		return value.Undefined, false, err
	}
	vm.push(n)
	return value.Undefined, false, nil
}

// binaryShift implements << and >>: the shift count is ToUint32 masked to
// 5 bits (ECMA-262 12.9.3/12.9.4), the shiftee is ToInt32.
func (vm *Interpreter) binaryShift(f *frame, combine func(a int32, s uint32) int32) (value.Value, bool, error) {
	r := vm.pop()
	l := vm.pop()
	ln, thrown, hasThrown, err := vm.toNumeric(l)
	if hasThrown || err != nil {
		return thrown, hasThrown, err
	}
	rn, thrown, hasThrown, err := vm.toNumeric(r)
	if hasThrown || err != nil {
		return thrown, hasThrown, err
	}
	shift := toUint32(rn) & 0x1f
	result := combine(toInt32(ln), shift)
	n, err := vm.numberValue(float64(result))
	if err != nil {
		return value.Undefined, false, err
	}
	vm.push(n)
	return value.Undefined, false, nil
}

// execUShr implements >>> (ECMA-262 12.9.5): the shiftee is ToUint32, the
// result stays unsigned (it can exceed the int32 range >>> always
// produces a non-negative result).
func (vm *Interpreter) execUShr(f *frame) (value.Value, bool, error) {
	r := vm.pop()
	l := vm.pop()
	ln, thrown, hasThrown, err := vm.toNumeric(l)
	if hasThrown || err != nil {
		return thrown, hasThrown, err
	}
	rn, thrown, hasThrown, err := vm.toNumeric(r)
	if hasThrown || err != nil {
		return thrown, hasThrown, err
	}
	shift := toUint32(rn) & 0x1f
	result := toUint32(ln) >> shift
	n, err := vm.numberValue(float64(result))
	if err != nil {
		return value.Undefined, false, err
	}
	vm.push(n)
	return value.Undefined, false, nil
}

func (vm *Interpreter) execNeg(f *frame) (value.Value, bool, error) {
	v := vm.pop()
	n, thrown, hasThrown, err := vm.toNumeric(v)
	if hasThrown || err != nil {
		return thrown, hasThrown, err
	}
	r, err := vm.numberValue(-n)
	if err != nil {
		return value.Undefined, false, err
	}
	vm.push(r)
	return value.Undefined, false, nil
}

func (vm *Interpreter) execBitNot(f *frame) (value.Value, bool, error) {
	v := vm.pop()
	n, thrown, hasThrown, err := vm.toNumeric(v)
	if hasThrown || err != nil {
		return thrown, hasThrown, err
	}
	r, err := vm.numberValue(float64(^toInt32(n)))
	if err != nil {
		return value.Undefined, false, err
	}
	vm.push(r)
	return value.Undefined, false, nil
}

// execAbstractEq implements `==` (ECMA-262 11.9.3's abstract equality
// comparison), with negate flipping the result for `!=`'s compiled-down
// OpEq+OpNot pair — negate is always false here since that pairing already
// handles negation at the compiler level; kept as a parameter in case a
// future lowering wants the fused form.
func (vm *Interpreter) execAbstractEq(f *frame, negate bool) (value.Value, bool, error) {
	r := vm.pop()
	l := vm.pop()
	eq, thrown, hasThrown, err := vm.abstractEquals(l, r)
	if hasThrown || err != nil {
		return thrown, hasThrown, err
	}
	if negate {
		eq = !eq
	}
	vm.push(value.Bool(eq))
	return value.Undefined, false, nil
}

func (vm *Interpreter) abstractEquals(l, r value.Value) (bool, value.Value, bool, error) {
	lIsNullish := l.IsNull() || l.IsUndefined()
	rIsNullish := r.IsNull() || r.IsUndefined()
	if lIsNullish || rIsNullish {
		return lIsNullish && rIsNullish, value.Undefined, false, nil
	}
	if classifyType(vm, l) == classifyType(vm, r) {
		return vm.Arena.StrictEquals(l, r), value.Undefined, false, nil
	}
	lIsNum, rIsNum := l.IsSmallInt() || isNumberBox(vm, l), r.IsSmallInt() || isNumberBox(vm, r)
	_, lIsStr := vm.Arena.Str(l)
	_, rIsStr := vm.Arena.Str(r)
	switch {
	case lIsNum && rIsStr:
		rn, _ := vm.Arena.ToNumber(r)
		ln, _ := vm.Arena.ToNumber(l)
		return ln == rn, value.Undefined, false, nil
	case lIsStr && rIsNum:
		ln, _ := vm.Arena.ToNumber(l)
		rn, _ := vm.Arena.ToNumber(r)
		return ln == rn, value.Undefined, false, nil
	case l.IsBool():
		ln, _ := vm.Arena.ToNumber(l)
		return vm.abstractEquals(value.SmallInt(int64(ln)), r)
	case r.IsBool():
		rn, _ := vm.Arena.ToNumber(r)
		return vm.abstractEquals(l, value.SmallInt(int64(rn)))
	case (lIsNum || lIsStr) && r.IsPtr():
		if _, isObj := vm.Arena.Obj(r); isObj {
			rp, thrown, hasThrown, err := vm.toPrimitive(r, "default")
			if hasThrown || err != nil {
				return false, thrown, hasThrown, err
			}
			return vm.abstractEquals(l, rp)
		}
	case (rIsNum || rIsStr) && l.IsPtr():
		if _, isObj := vm.Arena.Obj(l); isObj {
			lp, thrown, hasThrown, err := vm.toPrimitive(l, "default")
			if hasThrown || err != nil {
				return false, thrown, hasThrown, err
			}
			return vm.abstractEquals(lp, r)
		}
	}
	return false, value.Undefined, false, nil
}

func isNumberBox(vm *Interpreter, v value.Value) bool {
	if !v.IsPtr() {
		return false
	}
	_, ok := vm.Arena.NumberBox(v)
	return ok
}

// classifyType buckets v by ECMA-262 Type for abstractEquals's same-type
// fast path (null/undefined already handled by the caller).
func classifyType(vm *Interpreter, v value.Value) int {
	switch {
	case v.IsBool():
		return 1
	case v.IsSmallInt():
		return 2
	case !v.IsPtr():
		return 0
	case isNumberBox(vm, v):
		return 2
	}
	if _, ok := vm.Arena.Str(v); ok {
		return 3
	}
	if _, ok := vm.Arena.Sym(v); ok {
		return 4
	}
	if _, ok := vm.Arena.BigIntAt(v); ok {
		return 5
	}
	return 6
}

// execRelational implements the four abstract relational comparisons
// (ECMA-262 11.8.5): ToPrimitive(hint number) both sides, compare
// lexicographically if both are strings, numerically otherwise — a NaN
// comparison always answers false for every operator, matched here by
// want never being called when either side is NaN.
func (vm *Interpreter) execRelational(f *frame, want func(cmp int, eq bool) bool) (value.Value, bool, error) {
	r := vm.pop()
	l := vm.pop()
	lp, thrown, hasThrown, err := vm.toPrimitive(l, "number")
	if hasThrown || err != nil {
		return thrown, hasThrown, err
	}
	rp, thrown, hasThrown, err := vm.toPrimitive(r, "number")
	if hasThrown || err != nil {
		return thrown, hasThrown, err
	}
	ls, lIsStr := vm.Arena.Str(lp)
	rs, rIsStr := vm.Arena.Str(rp)
	if lIsStr && rIsStr {
		lt, rt := ls.Text(), rs.Text()
		cmp := 0
		switch {
		case lt < rt:
			cmp = -1
		case lt > rt:
			cmp = 1
		}
		vm.push(value.Bool(want(cmp, lt == rt)))
		return value.Undefined, false, nil
	}
	ln, lok := vm.Arena.ToNumber(lp)
	rn, rok := vm.Arena.ToNumber(rp)
	if !lok || !rok || math.IsNaN(ln) || math.IsNaN(rn) {
		vm.push(value.False)
		return value.Undefined, false, nil
	}
	cmp := 0
	switch {
	case ln < rn:
		cmp = -1
	case ln > rn:
		cmp = 1
	}
	vm.push(value.Bool(want(cmp, ln == rn)))
	return value.Undefined, false, nil
}

// execInstanceOf implements `instanceof` (ECMA-262 11.8.6): walk the
// object's prototype chain looking for the constructor's own .prototype
// object.
func (vm *Interpreter) execInstanceOf(f *frame) (value.Value, bool, error) {
	ctorV := vm.pop()
	objV := vm.pop()
	ctorObj, ok := vm.Arena.Obj(ctorV)
	if !ok || !isCallable(ctorObj) {
		return vm.typeError("right-hand side of 'instanceof' is not callable")
	}
	protoSlot, found := vm.Arena.FindOwnProperty(ctorObj, vm.Arena.InternMagic(value.MagicPrototype))
	if !found || !protoSlot.Value.IsPtr() {
		vm.push(value.False)
		return value.Undefined, false, nil
	}
	target := protoSlot.Value
	if !objV.IsPtr() {
		vm.push(value.False)
		return value.Undefined, false, nil
	}
	o, ok := vm.Arena.Obj(objV)
	if !ok {
		vm.push(value.False)
		return value.Undefined, false, nil
	}
	cp := o.Prototype
	for cp != 0 {
		candObj, ok := vm.Arena.ObjAt(cp)
		if !ok {
			break
		}
		if vm.Arena.SameValue(value.FromCompressedPointer(uint32(cp)), target) {
			vm.push(value.True)
			return value.Undefined, false, nil
		}
		cp = candObj.Prototype
	}
	vm.push(value.False)
	return value.Undefined, false, nil
}

// execIn implements `in` (ECMA-262 13.10.1): stack holds [key, obj] with
// obj on top, matching left-then-right evaluation order.
func (vm *Interpreter) execIn(f *frame) (value.Value, bool, error) {
	objV := vm.pop()
	keyRaw := vm.pop()
	key, thrown, hasThrown, err := vm.toPropertyKey(keyRaw)
	if hasThrown || err != nil {
		return thrown, hasThrown, err
	}
	if !objV.IsPtr() {
		return vm.typeError("cannot use 'in' operator on a non-object")
	}
	found := false
	cp := objV
	for cp.IsPtr() {
		o, ok := vm.Arena.Obj(cp)
		if !ok {
			break
		}
		if _, ok := vm.Arena.FindOwnProperty(o, key); ok {
			found = true
			break
		}
		if o.Prototype == 0 {
			break
		}
		cp = value.FromCompressedPointer(uint32(o.Prototype))
	}
	vm.push(value.Bool(found))
	return value.Undefined, false, nil
}

// execShortCircuit implements OpAndJump/OpOrJump: peek (not pop) the left
// operand; jump past the right-hand operand's evaluation when stop(bool)
// says to short-circuit, otherwise fall through to it, leaving the left
// value for the OpPop compileLogical emits right after the jump. This mirrors OpJumpIfNullish's peek-without-pop convention.
func (vm *Interpreter) execShortCircuit(f *frame, stop func(truthy bool) bool) (value.Value, bool, error) {
	off := f.readJumpOffset()
	v := vm.peek(0)
	if stop(vm.Arena.ToBoolean(v)) {
		f.ip += int(off)
	}
	return value.Undefined, false, nil
}

// execCoalesceJump implements OpCoalesceJump (`??`): short-circuit (peek,
// don't pop) unless the left operand is null/undefined.
func (vm *Interpreter) execCoalesceJump(f *frame) (value.Value, bool, error) {
	off := f.readJumpOffset()
	v := vm.peek(0)
	if !(v.IsNull() || v.IsUndefined()) {
		f.ip += int(off)
	}
	return value.Undefined, false, nil
}
