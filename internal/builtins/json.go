package builtins

import (
	"encoding/json"

	"github.com/jerryscript-project/jerryscript-sub014/internal/interp"
	"github.com/jerryscript-project/jerryscript-sub014/internal/value"
)

// installJSON builds the non-constructible JSON namespace object.
// stringify/parse bridge through encoding/json's Go-native tree rather
// than a hand-rolled encoder/decoder — no pack example ships a
// third-party JSON library, and the algorithmic body of JSON itself is
// explicitly out of scope; only the integration surface (a callable
// JSON.stringify/JSON.parse reachable from script) is specified.
func installJSON(vm *interp.Interpreter, globalObj *value.Object) error {
	jsonV, jsonObj, err := newNamespaceObject(vm)
	if err != nil {
		return err
	}
	if err := method(vm, jsonObj, "stringify", 3, idJSONStringify, nativeJSONStringify); err != nil {
		return err
	}
	if err := method(vm, jsonObj, "parse", 2, idJSONParse, nativeJSONParse); err != nil {
		return err
	}
	return defineGlobal(vm, globalObj, "JSON", jsonV)
}

func nativeJSONStringify(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	native, thrown, hasThrown, err := toGoValue(vm, arg(args, 0), map[interface{}]bool{})
	if hasThrown || err != nil {
		return value.Undefined, thrown, hasThrown, err
	}
	buf, err := json.Marshal(native)
	if err != nil {
		return ok(value.Undefined)
	}
	s, err := vm.Arena.NewString(string(buf))
	return s, value.Undefined, false, err
}

func nativeJSONParse(vm *interp.Interpreter, this value.Value, args []value.Value) (value.Value, value.Value, bool, error) {
	text, thrown, hasThrown, err := vm.ToStringValue(arg(args, 0))
	if hasThrown || err != nil {
		return value.Undefined, thrown, hasThrown, err
	}
	var native interface{}
	if err := json.Unmarshal([]byte(text), &native); err != nil {
		return vm.ThrowRangeError("invalid JSON: " + err.Error())
	}
	v, err := fromGoValue(vm, native)
	if err != nil {
		return value.Undefined, value.Undefined, false, err
	}
	return ok(v)
}

// toGoValue walks a script value into the nearest encoding/json-
// marshalable Go shape. seen holds the objects on the current path: a
// value that refers back to one of them encodes as null rather than
// recursing forever, and no TypeError is thrown for the cycle.
func toGoValue(vm *interp.Interpreter, v value.Value, seen map[interface{}]bool) (interface{}, value.Value, bool, error) {
	switch {
	case v.IsUndefined():
		return nil, value.Undefined, false, nil
	case v.IsNull():
		return nil, value.Undefined, false, nil
	case v.IsTrue():
		return true, value.Undefined, false, nil
	case v.IsFalse():
		return false, value.Undefined, false, nil
	case v.IsSmallInt():
		return float64(v.AsSmallInt()), value.Undefined, false, nil
	}
	if s, ok := vm.Arena.Str(v); ok {
		return s.Text(), value.Undefined, false, nil
	}
	if nb, ok := vm.Arena.NumberBox(v); ok {
		return nb.Float, value.Undefined, false, nil
	}
	o, isObj := vm.Arena.Obj(v)
	if !isObj {
		return nil, value.Undefined, false, nil
	}
	key := interface{}(o)
	if seen[key] {
		return nil, value.Undefined, false, nil
	}
	seen[key] = true
	defer delete(seen, key)

	if o.Kind == value.ObjArray {
		out := make([]interface{}, len(o.FastArray))
		for i, elem := range o.FastArray {
			gv, thrown, hasThrown, err := toGoValue(vm, elem, seen)
			if hasThrown || err != nil {
				return nil, thrown, hasThrown, err
			}
			out[i] = gv
		}
		return out, value.Undefined, false, nil
	}
	out := map[string]interface{}{}
	for _, n := range vm.Arena.OwnPropertyNames(o) {
		text, ok := vm.Arena.ToStringText(n)
		if !ok {
			continue
		}
		pv, thrown, hasThrown, err := vm.GetProperty(v, n, v)
		if hasThrown || err != nil {
			return nil, thrown, hasThrown, err
		}
		gv, thrown, hasThrown, err := toGoValue(vm, pv, seen)
		if hasThrown || err != nil {
			return nil, thrown, hasThrown, err
		}
		out[text] = gv
	}
	return out, value.Undefined, false, nil
}

func fromGoValue(vm *interp.Interpreter, native interface{}) (value.Value, error) {
	switch n := native.(type) {
	case nil:
		return value.Null, nil
	case bool:
		return value.Bool(n), nil
	case float64:
		return vm.NumberValue(n)
	case string:
		return vm.Arena.NewString(n)
	case []interface{}:
		elems := make([]value.Value, len(n))
		for i, e := range n {
			ev, err := fromGoValue(vm, e)
			if err != nil {
				return value.Undefined, err
			}
			elems[i] = ev
		}
		return newArray(vm, elems)
	case map[string]interface{}:
		objV, obj, err := newPlainObject(vm)
		if err != nil {
			return value.Undefined, err
		}
		for key, val := range n {
			vv, err := fromGoValue(vm, val)
			if err != nil {
				return value.Undefined, err
			}
			if err := dataProp(vm, obj, key, vv); err != nil {
				return value.Undefined, err
			}
		}
		return objV, nil
	default:
		return value.Undefined, nil
	}
}
