package coretypes

import "fmt"

// ConflictError reports that two types could not be unified because their
// outermost shapes disagree (different constructors, different names, or
// incompatible arities) — spec.md §7's Conflict(lhs, rhs).
type ConflictError struct {
	LHS, RHS Type
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("cannot unify %s with %s", e.LHS.String(), e.RHS.String())
}

// UnifyWith is the direct, non-HM type unifier described in spec.md §4.6:
// structural recursion on each type's own shape, returning a binding from
// type-variable ordinal to the type it was unified against. It handles
// TypeVar, DataType (by name and argument count), Tuple, Record (equal
// field-name sets), List, and Primitive; every other pairing — including
// Fn, Forall, Apply, Alias and Multi on either side — fails with
// ConflictError. It is meant for one-off structural queries outside the
// main inference loop, which instead builds termPairs for internal/unify.
func UnifyWith(a, b Type) (map[uint32]Type, error) {
	bindings := map[uint32]Type{}
	if err := unifyWithInto(a, b, bindings); err != nil {
		return nil, err
	}
	return bindings, nil
}

func unifyWithInto(a, b Type, bindings map[uint32]Type) error {
	if av, ok := a.(*TypeVar); ok {
		return bindTypeVar(av, b, bindings)
	}
	if bv, ok := b.(*TypeVar); ok {
		return bindTypeVar(bv, a, bindings)
	}

	switch at := a.(type) {
	case *PrimitiveType:
		bt, ok := b.(*PrimitiveType)
		if !ok || bt.Kind != at.Kind {
			return &ConflictError{LHS: a, RHS: b}
		}
		return nil

	case *List:
		bt, ok := b.(*List)
		if !ok {
			return &ConflictError{LHS: a, RHS: b}
		}
		return unifyWithInto(at.Elem, bt.Elem, bindings)

	case *Record:
		bt, ok := b.(*Record)
		if !ok || len(at.Fields) != len(bt.Fields) {
			return &ConflictError{LHS: a, RHS: b}
		}
		byName := make(map[string]Type, len(bt.Fields))
		for _, f := range bt.Fields {
			byName[f.Name] = f.Type
		}
		for _, f := range at.Fields {
			other, ok := byName[f.Name]
			if !ok {
				return &ConflictError{LHS: a, RHS: b}
			}
			if err := unifyWithInto(f.Type, other, bindings); err != nil {
				return err
			}
		}
		return nil

	case *DataType:
		bt, ok := b.(*DataType)
		if !ok || at.Name != bt.Name || len(at.Args) != len(bt.Args) {
			return &ConflictError{LHS: a, RHS: b}
		}
		for i := range at.Args {
			if err := unifyWithInto(at.Args[i], bt.Args[i], bindings); err != nil {
				return err
			}
		}
		return nil

	default:
		return &ConflictError{LHS: a, RHS: b}
	}
}

// bindTypeVar records v ↦ other, or checks consistency against an
// existing binding for the same ordinal. It does not perform an
// occurs-check: unifyWith is a finite structural convenience used outside
// the main inference loop (spec.md §4.6), which is where occurs-check
// protected unification actually lives (internal/unify).
func bindTypeVar(v *TypeVar, other Type, bindings map[uint32]Type) error {
	if existing, ok := bindings[v.Ordinal]; ok {
		if existing == other {
			return nil
		}
		return unifyWithInto(existing, other, bindings)
	}
	bindings[v.Ordinal] = other
	return nil
}
