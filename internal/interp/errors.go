package interp

import (
	"github.com/jerryscript-project/jerryscript-sub014/internal/ecmaerr"
	"github.com/jerryscript-project/jerryscript-sub014/internal/heap"
	"github.com/jerryscript-project/jerryscript-sub014/internal/value"
)

// materializeDiagnostic turns an internal *ecmaerr.Diagnostic into a real
// heap Error object with .name/.message, the thing a script-visible catch
// clause actually observes. Parse-time diagnostics never reach here; only
// the interpreter materializes one, per ecmaerr's own package doc.
func (vm *Interpreter) materializeDiagnostic(d *ecmaerr.Diagnostic) value.Value {
	obj, err := vm.Arena.NewObject(value.ObjGeneral, vm.errorProtoFor(d.Kind))
	if err != nil {
		// Allocation failed while building the error for an allocation
		// failure; fall back to a direct small-int sentinel rather than
		// recursing.
		return value.SmallInt(0)
	}
	o, _ := vm.Arena.Obj(obj)
	nameV, _ := vm.Arena.NewString(string(d.Kind))
	msgV, _ := vm.Arena.NewString(d.Message)
	vm.Arena.PutOwnProperty(o, value.PropertySlot{Name: vm.Arena.InternMagic(value.MagicName), Flags: value.FlagWritable | value.FlagConfigurable, Value: nameV})
	vm.Arena.PutOwnProperty(o, value.PropertySlot{Name: vm.Arena.InternMagic(value.MagicMessage), Flags: value.FlagWritable | value.FlagConfigurable, Value: msgV})
	return obj
}

// errorProtoFor resolves the prototype a thrown error of the given kind
// should chain to. internal/builtins registers the real per-kind
// prototype (TypeError.prototype and friends) in vm.ErrorProtos once it
// builds the Error constructor family; any kind it hasn't registered
// falls back to the plain object prototype.
func (vm *Interpreter) errorProtoFor(kind ecmaerr.Kind) heap.CompressedPointer {
	if p, ok := vm.ErrorProtos[kind]; ok {
		return p
	}
	return vm.objectProto
}

// throwDiagnostic materializes d and returns it as a thrown completion
// for the caller to hand back up through propagateThrow.
func (vm *Interpreter) throwDiagnostic(d *ecmaerr.Diagnostic) (value.Value, bool, error) {
	return value.MarkError(vm.materializeDiagnostic(d)), true, nil
}

func (vm *Interpreter) typeError(msg string) (value.Value, bool, error) {
	return vm.throwDiagnostic(ecmaerr.NewTypeError(msg))
}

func (vm *Interpreter) referenceError(msg string) (value.Value, bool, error) {
	return vm.throwDiagnostic(ecmaerr.NewReferenceError(msg))
}

// execThrow implements OpThrow: pop the value, mark it as an in-progress
// error completion the same way a materialized diagnostic is, so both
// paths unwind through the identical propagateThrow logic.
func (vm *Interpreter) execThrow(f *frame) (value.Value, bool, error) {
	v := vm.pop()
	return value.MarkError(v), true, nil
}

// execTryEnter implements OpTryEnter: a jump-offset operand marking where
// execution resumes if the guarded block throws — the catch clause's entry
// point when one is present, otherwise wherever compileTry's unconditional
// jump-over-catch lands (straight into a trailing finally block, or past
// the whole construct) — followed by a byte flagging whether a catch
// clause is actually there to receive the thrown value. Without a catch,
// nothing expects a value on the stack at the landing site, so
// propagateThrow must not push one.
func (vm *Interpreter) execTryEnter(f *frame) (value.Value, bool, error) {
	off := f.readJumpOffset()
	targetPos := f.ip
	hasCatch := f.readByte() != 0

	f.tryStack = append(f.tryStack, tryHandler{
		catchIP:    targetPos + int(off),
		hasCatch:   hasCatch,
		stackDepth: len(vm.stack) - f.stackBase,
		envCP:      f.envCP,
	})
	return value.Undefined, false, nil
}

// execTryExit implements OpTryExit: pop the innermost still-open handler
// without following its catch/finally target (normal fall-through out of
// the protected block).
func (vm *Interpreter) execTryExit(f *frame) (value.Value, bool, error) {
	if len(f.tryStack) > 0 {
		f.tryStack = f.tryStack[:len(f.tryStack)-1]
	}
	return value.Undefined, false, nil
}

