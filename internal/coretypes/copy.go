package coretypes

// Copy applies transform to each immediate child of t, reconstructs t if
// any child changed, and reinterns the result via ts. If no child
// changed, the original object is returned identity-preservingly — the
// single substitution mechanism described in spec.md §4.2. This is a
// direct match-expression recursion, the "visitor becomes a switch"
// adaptation spec.md §9 calls for in place of the teacher's
// accept/visit-style traversal.
//
// transform is applied to t itself only when t is a leaf (TypeVar,
// PrimitiveType, Dummy, TemporaryType), so substituting a bare variable
// works without a wrapping container; a container t is rebuilt from its
// children instead. Each child goes
// through transform and, if the result is itself a container,
// recurseIfContainer walks back into Copy so a leaf-only transform (e.g.
// TypeVar(i) -> someType) still reaches a variable nested arbitrarily
// deep inside a child's own children — not just the ones that are
// themselves bare variables. changed/equality is always decided from
// that fully-recursed child, never from the one-level transform(child)
// result alone, so a change two or more levels down is never missed.
func Copy(ts *TypeSystem, t Type, transform func(Type) Type) Type {
	switch tt := t.(type) {
	case *TypeVar, *PrimitiveType, *Dummy, *TemporaryType:
		return transform(t)

	case *Fn:
		param := recurseIfContainer(ts, transform(tt.Param), transform)
		result := recurseIfContainer(ts, transform(tt.Result), transform)
		if param == tt.Param && result == tt.Result {
			return t
		}
		return ts.intern(&Fn{Param: param, Result: result})

	case *List:
		elem := recurseIfContainer(ts, transform(tt.Elem), transform)
		if elem == tt.Elem {
			return t
		}
		return ts.intern(&List{Elem: elem})

	case *Record:
		changed := false
		fields := make([]RecordField, len(tt.Fields))
		for i, f := range tt.Fields {
			nt := recurseIfContainer(ts, transform(f.Type), transform)
			if nt != f.Type {
				changed = true
			}
			fields[i] = RecordField{Name: f.Name, Type: nt}
		}
		if !changed {
			return t
		}
		return ts.intern(&Record{Fields: fields, Progressive: tt.Progressive})

	case *DataType:
		changed := false
		args := make([]Type, len(tt.Args))
		for i, a := range tt.Args {
			na := recurseIfContainer(ts, transform(a), transform)
			if na != a {
				changed = true
			}
			args[i] = na
		}
		if !changed {
			return t
		}
		// Constructor payloads are left untouched by a plain field-level
		// Copy: a DataType's own identity already fixes its constructors
		// (see DataType.Key), and rewriting them here would require
		// re-running the fixup in datatype.go. Callers that need to
		// substitute into constructor argument types operate on the
		// Ctor.Arg types directly before calling TypeSystem.DataTypes.
		return ts.intern(&DataType{Name: tt.Name, Args: args, Constructors: tt.Constructors})

	case *Forall:
		// Forall's bound variables (TypeVar(0)..TypeVar(ParamCount-1)) are
		// shadowed inside Body, so Body is copied with a transform that
		// leaves those ordinals untouched and passes every other child to
		// transform as usual.
		inner := func(c Type) Type {
			if tv, ok := c.(*TypeVar); ok && int(tv.Ordinal) < tt.ParamCount {
				return c
			}
			return transform(c)
		}
		body := recurseIfContainer(ts, inner(tt.Body), inner)
		if body == tt.Body {
			return t
		}
		return ts.intern(&Forall{ParamCount: tt.ParamCount, Body: body})

	case *Apply:
		changed := false
		args := make([]Type, len(tt.Args))
		for i, a := range tt.Args {
			na := recurseIfContainer(ts, transform(a), transform)
			if na != a {
				changed = true
			}
			args[i] = na
		}
		if !changed {
			return t
		}
		return ts.intern(&Apply{PolyKey: tt.PolyKey, Args: args})

	case *Alias:
		target := recurseIfContainer(ts, transform(tt.Target), transform)
		changed := target != tt.Target
		args := make([]Type, len(tt.Args))
		for i, a := range tt.Args {
			na := recurseIfContainer(ts, transform(a), transform)
			if na != a {
				changed = true
			}
			args[i] = na
		}
		if !changed {
			return t
		}
		return ts.intern(&Alias{Name: tt.Name, Target: target, Args: args})

	case *Multi:
		changed := false
		alts := make([]Type, len(tt.Alternatives))
		for i, a := range tt.Alternatives {
			na := recurseIfContainer(ts, transform(a), transform)
			if na != a {
				changed = true
			}
			alts[i] = na
		}
		if !changed {
			return t
		}
		return ts.intern(&Multi{Alternatives: alts})

	default:
		return t
	}
}

// recurseIfContainer lets Copy apply transform one level deeper when a
// child transform returned a container type rather than a leaf variable,
// so that a leaf-only transform (e.g. TypeVar(i) -> someType) still
// reaches every variable in a nested shape without every caller having to
// write a fully-recursive transform by hand.
func recurseIfContainer(ts *TypeSystem, t Type, transform func(Type) Type) Type {
	switch t.(type) {
	case *TypeVar, *PrimitiveType, *Dummy, *TemporaryType:
		return t
	default:
		return Copy(ts, t, transform)
	}
}

// FreeOrdinals returns the distinct TypeVar ordinals occurring free in t
// (i.e. not bound by an enclosing Forall), in no particular order.
func FreeOrdinals(t Type) []uint32 {
	seen := map[uint32]bool{}
	collectFreeOrdinals(t, seen)
	out := make([]uint32, 0, len(seen))
	for ord := range seen {
		out = append(out, ord)
	}
	return out
}

// collectFreeOrdinals walks t, adding every TypeVar ordinal it finds that
// is not bound by an enclosing Forall into seen.
func collectFreeOrdinals(t Type, seen map[uint32]bool) {
	switch tt := t.(type) {
	case *TypeVar:
		seen[tt.Ordinal] = true
	case *Fn:
		collectFreeOrdinals(tt.Param, seen)
		collectFreeOrdinals(tt.Result, seen)
	case *List:
		collectFreeOrdinals(tt.Elem, seen)
	case *Record:
		for _, f := range tt.Fields {
			collectFreeOrdinals(f.Type, seen)
		}
	case *DataType:
		for _, a := range tt.Args {
			collectFreeOrdinals(a, seen)
		}
	case *Forall:
		// Body's TypeVar(0..ParamCount-1) are bound; anything else free
		// inside Body (shouldn't normally occur, since Forall bodies are
		// built closed over exactly their own params, but handled
		// defensively) is still free in the outer term.
		inner := map[uint32]bool{}
		collectFreeOrdinals(tt.Body, inner)
		for ord := range inner {
			if int(ord) >= tt.ParamCount {
				seen[ord] = true
			}
		}
	case *Apply:
		for _, a := range tt.Args {
			collectFreeOrdinals(a, seen)
		}
	case *Alias:
		for _, a := range tt.Args {
			collectFreeOrdinals(a, seen)
		}
	case *Multi:
		for _, a := range tt.Alternatives {
			collectFreeOrdinals(a, seen)
		}
	}
}
