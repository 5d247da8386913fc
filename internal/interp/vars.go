package interp

import (
	"github.com/jerryscript-project/jerryscript-sub014/internal/value"
)

// execDeclareVar implements OpDeclareVar/OpDeclareLet/OpDeclareConst: pop
// nothing (the initializer, if any, arrives through a later OpInitBinding
// once hoisting and TDZ rules allow it — see internal/compiler's hoisting
// pass), and declare name as Empty (uninitialized) in the current
// environment. `var` additionally walks to the nearest function/global
// scope: the compiler already arranges for that by choosing which
// environment is current when it emits the declare opcode, so this
// handler treats all three uniformly.
func (vm *Interpreter) execDeclareVar(f *frame, writable bool) (value.Value, bool, error) {
	name := vm.name(f)
	env := vm.env(f)
	if err := vm.Arena.DeclareBinding(env, name, value.Empty, writable); err != nil {
		return value.Undefined, false, err
	}
	return value.Undefined, false, nil
}

// execInitBinding implements OpInitBinding: peek (not pop) the
// initializer value sitting on top of the stack and store it into the
// named binding the nearest enclosing OpDeclare* call already created,
// lifting it out of the TDZ. Every call site follows up with its own
// explicit OpPop once the value is no longer needed, the same way
// OpJumpIfNullish's peek-without-pop lets a caller choose whether to keep
// using the top-of-stack value.
func (vm *Interpreter) execInitBinding(f *frame) (value.Value, bool, error) {
	name := vm.name(f)
	v := vm.peek(0)
	env := vm.env(f)
	if err := vm.Arena.DeclareBinding(env, name, v, true); err != nil {
		return value.Undefined, false, err
	}
	return value.Undefined, false, nil
}

// execResolve implements OpResolve: push the value bound to name anywhere
// in the environment chain, or throw a ReferenceError if unbound — and a
// ReferenceError too if the binding is still Empty (TDZ access).
func (vm *Interpreter) execResolve(f *frame) (value.Value, bool, error) {
	name := vm.name(f)
	env := vm.env(f)
	v, ok := vm.Arena.Resolve(env, name)
	if !ok {
		text, _ := vm.Arena.ToStringText(name)
		return vm.referenceError(text + " is not defined")
	}
	if v.IsEmpty() {
		text, _ := vm.Arena.ToStringText(name)
		return vm.referenceError("cannot access '" + text + "' before initialization")
	}
	vm.push(v)
	return value.Undefined, false, nil
}

// execAssign implements OpAssign: pop the value, assign it to an already-
// declared binding (throwing ReferenceError if unbound, matching strict-
// mode assignment-to-undeclared semantics), then push the value back so
// assignment expressions remain expressions.
func (vm *Interpreter) execAssign(f *frame) (value.Value, bool, error) {
	name := vm.name(f)
	v := vm.pop()
	env := vm.env(f)
	if !vm.Arena.Assign(env, name, v) {
		text, _ := vm.Arena.ToStringText(name)
		return vm.referenceError(text + " is not defined")
	}
	vm.push(v)
	return value.Undefined, false, nil
}

// execTypeOfName implements OpTypeOfName: typeof on an identifier never
// throws even when the identifier is unbound, the one exemption ECMA-262
// gives identifier resolution.
func (vm *Interpreter) execTypeOfName(f *frame) (value.Value, bool, error) {
	name := vm.name(f)
	env := vm.env(f)
	v, ok := vm.Arena.Resolve(env, name)
	if !ok || v.IsEmpty() {
		s, _ := vm.Arena.NewLiteralString("undefined")
		vm.push(s)
		return value.Undefined, false, nil
	}
	vm.push(vm.typeOfString(v))
	return value.Undefined, false, nil
}
