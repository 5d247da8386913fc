// Package builtins materializes the standard built-in objects spec.md §1
// names as integration surface (Object, Function, Array, String, Number,
// Boolean, the Error family, Math, JSON, Promise, and the global
// parseInt/parseFloat/isNaN/isFinite functions) over internal/interp's
// native-function dispatch. Per-built-in algorithmic bodies for
// Math/Date/JSON are explicitly out of scope (spec.md §1); what's
// implemented here is the native-dispatch machinery and a
// representative, correctly-wired set of methods for each constructor
// family, grounded on the teacher's own registerGlobal/NativeFnObj table
// (internal/vmregister/stdlib.go) generalized from "one flat global
// namespace" to "per-prototype method tables". Promise reaction
// scheduling (promise.go) is the one place this package reaches past
// the Natives dispatch table into interp.Interpreter.EnqueueMicrotask,
// the FIFO internal/microtask and internal/runtime define.
package builtins

// id is the BuiltinID every native function object here carries;
// interp.Interpreter.Natives is keyed by this exact value. One shared
// iota sequence across every file in this package keeps IDs unique
// without per-family bookkeeping.
type id int

const (
	idObjectCtor id = iota
	idObjectHasOwnProperty
	idObjectToString
	idObjectValueOf
	idObjectIsPrototypeOf
	idObjectKeys
	idObjectValues
	idObjectEntries
	idObjectAssign
	idObjectFreeze
	idObjectIsFrozen
	idObjectGetPrototypeOf
	idObjectDefineProperty
	idObjectCreate

	idFunctionToString
	idFunctionCall
	idFunctionApply
	idFunctionBind

	idArrayCtor
	idArrayIsArray
	idArrayToString
	idArrayJoin
	idArrayPush
	idArrayPop
	idArrayShift
	idArrayUnshift
	idArraySlice
	idArraySplice
	idArrayConcat
	idArrayIndexOf
	idArrayLastIndexOf
	idArrayIncludes
	idArrayReverse
	idArrayForEach
	idArrayMap
	idArrayFilter
	idArrayReduce
	idArrayFind
	idArrayFindIndex
	idArraySome
	idArrayEvery
	idArraySort

	idStringCtor
	idStringToString
	idStringValueOf
	idStringCharAt
	idStringCharCodeAt
	idStringIndexOf
	idStringLastIndexOf
	idStringIncludes
	idStringStartsWith
	idStringEndsWith
	idStringSlice
	idStringSubstring
	idStringSplit
	idStringToUpperCase
	idStringToLowerCase
	idStringTrim
	idStringConcat
	idStringRepeat
	idStringPadStart
	idStringPadEnd
	idStringReplace
	idStringFromCharCode

	idNumberCtor
	idNumberToString
	idNumberValueOf
	idNumberToFixed
	idNumberIsInteger
	idNumberIsFinite
	idNumberIsNaN

	idBooleanCtor
	idBooleanToString
	idBooleanValueOf

	idErrorCtor
	idEvalErrorCtor
	idRangeErrorCtor
	idReferenceErrorCtor
	idSyntaxErrorCtor
	idTypeErrorCtor
	idURIErrorCtor
	idErrorToString

	idMathAbs
	idMathFloor
	idMathCeil
	idMathRound
	idMathTrunc
	idMathSqrt
	idMathPow
	idMathMax
	idMathMin
	idMathRandom
	idMathSign

	idJSONStringify
	idJSONParse

	idGlobalParseInt
	idGlobalParseFloat
	idGlobalIsNaN
	idGlobalIsFinite

	idPromiseCtor
	idPromiseThen
	idPromiseCatch
	idPromiseFinally
	idPromiseFinallyFulfilled
	idPromiseFinallyRejected
	idPromiseResolveFn
	idPromiseRejectFn
	idPromiseStaticResolve
	idPromiseStaticReject
	idPromiseAll
	idPromiseRace
)
