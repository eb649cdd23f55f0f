package coretypes

import (
	"sort"
	"strconv"
)

// ctorRef locates one constructor inside a DataType, for
// TypeSystem.typeConstructorByName (spec.md §5's shared-resource table).
// NewTypeSystem creates that table empty; nothing in this package fills
// or reads it, and it has no exported accessor.
type ctorRef struct {
	DataType *DataType
	Index    int
}

// TypeSystem is the hash-consed type interner. It owns three tables
// (typeByKey, typeByName, typeConstructorByName per spec.md §5) and is
// not safe for concurrent use — the scheduling model is single-threaded
// cooperative (spec.md §5), matching the teacher's own assumption that
// nothing in internal/typesystem is guarded by a mutex.
type TypeSystem struct {
	typeByKey             map[string]Type
	typeByName            map[string]Type
	typeConstructorByName map[string]ctorRef
}

// NewTypeSystem creates a TypeSystem pre-populated with the five
// primitive types and unit.
func NewTypeSystem() *TypeSystem {
	ts := &TypeSystem{
		typeByKey:             make(map[string]Type),
		typeByName:            make(map[string]Type),
		typeConstructorByName: make(map[string]ctorRef),
	}
	for name, kind := range map[string]Primitive{
		"bool": PBool, "char": PChar, "int": PInt, "real": PReal, "string": PString,
	} {
		t := ts.intern(&PrimitiveType{Kind: kind})
		ts.typeByName[name] = t
	}
	ts.typeByName["unit"] = ts.intern(&Record{})
	return ts
}

// intern stores t under its own key's digest if no type with that digest
// is already present, returning whichever object is now canonical for
// that digest. This is the single hash-consing choke point: every
// constructor funnels through here (directly, or via TypeFor), so
// typeByKey[k.Digest()] == canonical object is an invariant maintained
// from the first insertion onward.
func (ts *TypeSystem) intern(t Type) Type {
	d := t.Key().Digest()
	if existing, ok := ts.typeByKey[d]; ok {
		return existing
	}
	ts.typeByKey[d] = t
	return t
}

// TypeFor materializes the Type described by key, hash-consing it against
// any previously interned type with the same structural shape. It is the
// only way to turn a bare Key back into a Type for the shapes whose full
// structure key alone determines (variables, primitives, functions,
// lists, records, foralls, applications, multi-markers, dummy) — exactly
// spec.md §4.1's "typeFor... the only legal way to materialize a type
// from a key" contract for those shapes.
//
// Datatypes and aliases are not among them: a DataType's Key includes
// its constructors, but reconstructing one from scratch would require rebuilding
// every constructor argument type, including — for recursive or mutually
// recursive datatypes — the datatype currently under construction, which
// is exactly the cycle DataTypes's two-pass fixup exists to avoid
// (datatype.go). An Alias's Key does not encode its Target at all (only
// Name and Args), since the target is not part of the alias's printed
// identity. Both are therefore constructed via their own dedicated
// methods (DataTypes, AliasType), which still finish by calling intern so
// the round-trip invariant (typeByKey[t.Key()] == t) holds for them too;
// TypeFor only ever sees them on a cache hit.
func (ts *TypeSystem) TypeFor(key Key) (Type, error) {
	if existing, ok := ts.typeByKey[key.Digest()]; ok {
		return existing, nil
	}
	t, err := key.toType(ts)
	if err != nil {
		return nil, err
	}
	return ts.intern(t), nil
}

// Lookup resolves a declared name (e.g. "int", "option") to its Type.
func (ts *TypeSystem) Lookup(name string) (Type, error) {
	if t, ok := ts.typeByName[name]; ok {
		return t, nil
	}
	return nil, &UnknownTypeError{Name: name}
}

// LookupOpt is the non-failing form of Lookup.
func (ts *TypeSystem) LookupOpt(name string) (Type, bool) {
	t, ok := ts.typeByName[name]
	return t, ok
}

// FnType constructs a function type param -> result.
func (ts *TypeSystem) FnType(param, result Type) Type {
	return ts.intern(&Fn{Param: param, Result: result})
}

// ListType constructs the list type "elem list".
func (ts *TypeSystem) ListType(elem Type) Type {
	return ts.intern(&List{Elem: elem})
}

// TupleType constructs a tuple as a Record whose field names are
// "1".."n" (spec.md §3.1). A single element collapses to itself; zero
// elements collapses to unit.
func (ts *TypeSystem) TupleType(elems []Type) Type {
	switch len(elems) {
	case 0:
		t, _ := ts.Lookup("unit")
		return t
	case 1:
		return elems[0]
	default:
		fields := make(map[string]Type, len(elems))
		for i, e := range elems {
			fields[strconv.Itoa(i+1)] = e
		}
		return ts.RecordType(fields, false)
	}
}

// RecordType constructs a (progressive, if requested) record type from a
// field map, canonicalizing field order per CompareNames.
func (ts *TypeSystem) RecordType(fields map[string]Type, progressive bool) Type {
	names := sortedFieldNames(fields)
	rf := make([]RecordField, len(names))
	for i, n := range names {
		rf[i] = RecordField{Name: n, Type: fields[n]}
	}
	return ts.intern(&Record{Fields: rf, Progressive: progressive})
}

// RecordOrScalarType returns the sole value in fields if it has exactly
// one entry, otherwise a record (spec.md §4.1).
func (ts *TypeSystem) RecordOrScalarType(fields map[string]Type) Type {
	if len(fields) == 1 {
		for _, v := range fields {
			return v
		}
	}
	return ts.RecordType(fields, false)
}

// TypeVariable constructs the type variable with the given ordinal.
func (ts *TypeSystem) TypeVariable(ordinal uint32) Type {
	return ts.intern(&TypeVar{Ordinal: ordinal})
}

// ForallType constructs a Forall over paramCount fresh, de-Bruijn indexed
// type variables: build is handed TypeVar(0)..TypeVar(paramCount-1) and
// must return the quantified body in terms of them.
func (ts *TypeSystem) ForallType(paramCount int, build func(vars []Type) Type) (Type, error) {
	vars := make([]Type, paramCount)
	for i := range vars {
		vars[i] = ts.TypeVariable(uint32(i))
	}
	body := build(vars)
	if n := len(FreeOrdinals(body)); n != paramCount {
		return nil, invariantf("forall body has %d free variable ordinals, paramCount is %d", n, paramCount)
	}
	return ts.intern(&Forall{ParamCount: paramCount, Body: body}), nil
}

// Apply constructs an unreduced application of the polymorphic type
// identified by polyKey to args.
func (ts *TypeSystem) Apply(polyKey Key, args []Type) Type {
	return ts.intern(&Apply{PolyKey: polyKey, Args: args})
}

// AliasType constructs a named alias for target, transparent to
// unification (see the Alias doc comment in types.go) but opaque to
// printing.
func (ts *TypeSystem) AliasType(name string, target Type, args []Type) Type {
	a := ts.intern(&Alias{Name: name, Target: target, Args: args})
	ts.typeByName[name] = a
	return a
}

// EnsureClosed wraps t in a fresh Forall of the right arity if it has any
// free type variables, otherwise returns t unchanged.
func (ts *TypeSystem) EnsureClosed(t Type) Type {
	free := FreeOrdinals(t)
	if len(free) == 0 {
		return t
	}
	sort.Slice(free, func(i, j int) bool { return free[i] < free[j] })
	remap := make(map[uint32]uint32, len(free))
	for i, ord := range free {
		remap[ord] = uint32(i)
	}
	body := Copy(ts, t, func(child Type) Type {
		if tv, ok := child.(*TypeVar); ok {
			return ts.TypeVariable(remap[tv.Ordinal])
		}
		return child
	})
	return ts.intern(&Forall{ParamCount: len(free), Body: body})
}
