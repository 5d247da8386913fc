package value

import "github.com/jerryscript-project/jerryscript-sub014/internal/heap"

// EnvKind distinguishes the lexical environment forms spec §3 names.
type EnvKind int

const (
	EnvDeclarative EnvKind = iota
	EnvObjectBound
	EnvSuperBound
)

// Environment is a heap-resident lexical scope: an outer-reference cp
// plus either its own property chain (declarative/super) or a bound
// object cp (object-bound, for `with` and the global scope).
type Environment struct {
	header

	Kind  EnvKind
	Outer heap.CompressedPointer

	// EnvDeclarative / EnvSuperBound
	Bindings heap.CompressedPointer // cp to first PropertyPair

	// EnvObjectBound
	BoundObject heap.CompressedPointer

	// EnvSuperBound carries its own "this" and super base separately from
	// any outer declarative scope, per spec §3.
	ThisBinding Value
	HasThis     bool
	SuperBase   heap.CompressedPointer
}

const environmentSize = 48

// NewEnvironment allocates a lexical environment chained to outer.
func (a *Arena) NewEnvironment(kind EnvKind, outer heap.CompressedPointer) (heap.CompressedPointer, error) {
	cp, err := a.h.Allocate(environmentSize, heap.LifetimeShort)
	if err != nil {
		return heap.Null, err
	}
	a.envs[cp] = &Environment{
		header:   header{kind: HeapEnvironment},
		Kind:     kind,
		Outer:    outer,
		Bindings: heap.Null,
	}
	return cp, nil
}

// EnvAt resolves an environment by compressed pointer.
func (a *Arena) EnvAt(cp heap.CompressedPointer) (*Environment, bool) {
	if cp == heap.Null {
		return nil, false
	}
	e, ok := a.envs[cp]
	return e, ok
}

// DeclareBinding creates (or overwrites) a declarative binding. Used for
// `var`/`let`/`const` and function parameters that were not promoted to
// registers by the compiler (spec §4.5 "Non-promoted bindings live in
// the declarative environment record").
func (a *Arena) DeclareBinding(e *Environment, name Value, v Value, writable bool) error {
	if e.Kind == EnvObjectBound {
		obj, ok := a.ObjAt(e.BoundObject)
		if !ok {
			return errEnvBoundObjectMissing
		}
		flags := FlagEnumerable | FlagConfigurable
		if writable {
			flags |= FlagWritable
		}
		return a.PutOwnProperty(obj, PropertySlot{Name: name, Flags: flags, Value: v})
	}
	cp := e.Bindings
	var last *PropertyPair
	for cp != heap.Null {
		pp, _ := a.PairAt(cp)
		for i := range pp.Slots {
			if a.Equal(pp.Slots[i].Name, name) {
				pp.Slots[i].Value = v
				return nil
			}
			if pp.Slots[i].Name.IsEmpty() {
				flags := PropFlags(0)
				if writable {
					flags |= FlagWritable
				}
				pp.Slots[i] = PropertySlot{Name: name, Flags: flags, Value: v}
				return nil
			}
		}
		last = pp
		cp = pp.Next
	}
	newCP, err := a.NewPropertyPair()
	if err != nil {
		return err
	}
	np, _ := a.PairAt(newCP)
	flags := PropFlags(0)
	if writable {
		flags |= FlagWritable
	}
	np.Slots[0] = PropertySlot{Name: name, Flags: flags, Value: v}
	if last != nil {
		last.Next = newCP
	} else {
		e.Bindings = newCP
	}
	return nil
}

// Resolve walks outward from e looking for name, returning the binding
// value and true, or (Undefined, false) if unbound in every scope up to
// and including the global environment.
func (a *Arena) Resolve(e *Environment, name Value) (Value, bool) {
	for env := e; env != nil; {
		if env.Kind == EnvObjectBound {
			if obj, ok := a.ObjAt(env.BoundObject); ok {
				if s, ok := a.FindOwnProperty(obj, name); ok {
					return s.Value, true
				}
			}
		} else {
			cp := env.Bindings
			for cp != heap.Null {
				pp, _ := a.PairAt(cp)
				for i := range pp.Slots {
					if !pp.Slots[i].Name.IsEmpty() && a.Equal(pp.Slots[i].Name, name) {
						return pp.Slots[i].Value, true
					}
				}
				cp = pp.Next
			}
		}
		if env.Outer == heap.Null {
			break
		}
		env, _ = a.EnvAt(env.Outer)
	}
	return Undefined, false
}

// Assign sets an already-declared binding, returning false if name is
// unbound anywhere in the chain (callers use this to implement strict-
// mode "assignment to undeclared binding throws", spec §4.6).
func (a *Arena) Assign(e *Environment, name Value, v Value) bool {
	for env := e; env != nil; {
		if env.Kind == EnvObjectBound {
			if obj, ok := a.ObjAt(env.BoundObject); ok {
				if s, ok := a.FindOwnProperty(obj, name); ok {
					s.Value = v
					return true
				}
			}
		} else {
			cp := env.Bindings
			for cp != heap.Null {
				pp, _ := a.PairAt(cp)
				for i := range pp.Slots {
					if !pp.Slots[i].Name.IsEmpty() && a.Equal(pp.Slots[i].Name, name) {
						pp.Slots[i].Value = v
						return true
					}
				}
				cp = pp.Next
			}
		}
		if env.Outer == heap.Null {
			break
		}
		env, _ = a.EnvAt(env.Outer)
	}
	return false
}
