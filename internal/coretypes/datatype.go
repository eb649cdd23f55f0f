package coretypes

// This file implements spec.md §4.1's "temporary types (datatype fixup)"
// mechanism: constructing one or more possibly-mutually-recursive
// datatypes in a single transaction, so that a constructor argument can
// refer to its own datatype (or a sibling being declared alongside it)
// before that datatype's final, interned identity exists.
//
// The approach, per spec.md §9's design notes, is a two-pass fixup: first
// install a TemporaryType placeholder under each datatype's name, build
// every constructor argument type against those placeholders, then walk
// the built constructors once, replacing every TemporaryType occurrence
// with the real sibling DataType and performing the single permitted
// mutation of DataType.Constructors. Names are installed and resolved
// through a scoped transaction on typeByName so a failed or abandoned
// fixup never leaves a temporary visible to later lookups.

// TemporaryType stands in for a DataType whose final Constructors are not
// yet known, during TypeSystem.DataTypes. It must never escape the
// transaction that created it: every reference is rewritten to the real
// DataType before DataTypes returns.
type TemporaryType struct {
	Name string
}

func (t *TemporaryType) Key() Key      { return temporaryKey(t.Name) }
func (t *TemporaryType) String() string { return t.Name }

// CtorDef describes one constructor to be built as part of a DataTypeDef.
// Arg is nil for a nullary constructor. When non-nil, it is called with
// the datatype's own type parameters (TypeVar(0)..TypeVar(ParamCount-1))
// and a lookup from sibling name to that sibling's (possibly still
// temporary) type, and must return the constructor's argument type.
type CtorDef struct {
	Name string
	Arg  func(params []Type, siblings map[string]Type) Type
}

// DataTypeDef describes one datatype to be built by TypeSystem.DataTypes.
// ParamCount is the number of type parameters the datatype is
// polymorphic over (0 for a monomorphic datatype).
type DataTypeDef struct {
	Name       string
	ParamCount int
	Ctors      []CtorDef
}

// transaction snapshots typeByName so DataTypes can install temporaries,
// and guarantees they are either all replaced by commit or all discarded
// by revert, on every exit path (including a panic unwinding through the
// deferred revert, which is a no-op once commit has run).
type transaction struct {
	ts        *TypeSystem
	snapshot  map[string]Type
	committed bool
}

func (ts *TypeSystem) beginTransaction() *transaction {
	snap := make(map[string]Type, len(ts.typeByName))
	for k, v := range ts.typeByName {
		snap[k] = v
	}
	return &transaction{ts: ts, snapshot: snap}
}

func (tx *transaction) commit() { tx.committed = true }

func (tx *transaction) revert() {
	if tx.committed {
		return
	}
	tx.ts.typeByName = tx.snapshot
}

// DataTypes builds one or more datatypes as a single batch, so that any
// constructor in the batch may refer to any datatype in the same batch
// (including itself), whether or not that datatype's declaration comes
// later. A single non-recursive datatype is just a batch of one.
//
// Cross-references within the batch are resolved as direct references to
// the sibling's own DataType object: a constructor that mentions a
// sibling datatype is assumed to apply it at that sibling's own type
// parameters (the overwhelmingly common shape — `'a tree = Leaf | Node of
// 'a * 'a tree * 'a tree`, `datatype 'a even = EZ | ES of 'a odd` and
// `'a odd = OS of 'a even`). A constructor that needs to instantiate a
// sibling at *different* type arguments than the sibling's own parameters
// is out of scope here; a caller with that need builds an Apply directly
// against the sibling's eventual Forall key once it is known.
func (ts *TypeSystem) DataTypes(defs []DataTypeDef) ([]Type, error) {
	if len(defs) == 0 {
		return nil, nil
	}
	tx := ts.beginTransaction()
	defer tx.revert()

	siblings := make(map[string]Type, len(defs))
	for _, d := range defs {
		tmp := &TemporaryType{Name: d.Name}
		siblings[d.Name] = tmp
		ts.typeByName[d.Name] = tmp
	}

	built := make([]*DataType, len(defs))
	for i, d := range defs {
		params := make([]Type, d.ParamCount)
		for p := range params {
			params[p] = ts.TypeVariable(uint32(p))
		}
		ctors := make([]Ctor, len(d.Ctors))
		for j, c := range d.Ctors {
			var arg Type = &Dummy{}
			if c.Arg != nil {
				arg = c.Arg(params, siblings)
			}
			ctors[j] = Ctor{Name: c.Name, Arg: arg}
		}
		built[i] = &DataType{Name: d.Name, Args: params, Constructors: ctors}
	}

	// Second pass: replace every TemporaryType with the real sibling
	// DataType. This is the single place DataType.Constructors is mutated
	// after construction, and it happens exactly once, before the first
	// intern, so no caller ever observes a DataType whose Constructors
	// still mention a temporary.
	finals := make(map[string]Type, len(defs))
	for i, d := range defs {
		finals[d.Name] = built[i]
	}
	resolve := func(t Type) Type {
		if tmp, ok := t.(*TemporaryType); ok {
			return finals[tmp.Name]
		}
		return t
	}

	// Fix up every datatype's constructors before interning any of them:
	// a sibling's Key() walks its Constructors, so all of them must already
	// be temporary-free before the first Key digest is computed, or two
	// datatypes built in the same batch could hash-cons inconsistently
	// depending on which one happened to be processed first.
	for _, dt := range built {
		newCtors := make([]Ctor, len(dt.Constructors))
		changed := false
		for j, c := range dt.Constructors {
			na := Copy(ts, c.Arg, resolve)
			if na != c.Arg {
				changed = true
			}
			newCtors[j] = Ctor{Name: c.Name, Arg: na}
		}
		if changed {
			dt.Constructors = newCtors
		}
	}

	results := make([]Type, len(defs))
	for i, d := range defs {
		final := ts.intern(built[i]).(*DataType)
		scheme, err := ts.schemeFor(d.ParamCount, final)
		if err != nil {
			return nil, err
		}
		results[i] = scheme
		ts.typeByName[d.Name] = scheme
	}

	tx.commit()
	return results, nil
}

// schemeFor wraps a built DataType in a Forall when it has type
// parameters, otherwise returns it bare. DataTypeScheme is the equivalent
// entry point for a single, non-recursive datatype declaration.
func (ts *TypeSystem) schemeFor(paramCount int, dt *DataType) (Type, error) {
	if paramCount == 0 {
		return dt, nil
	}
	if n := len(FreeOrdinals(dt)); n > paramCount {
		return nil, invariantf("datatype %q has %d free variable ordinals, ParamCount is %d", dt.Name, n, paramCount)
	}
	return ts.intern(&Forall{ParamCount: paramCount, Body: dt}), nil
}

// DataTypeScheme builds a single datatype with no mutual recursion with
// any other pending declaration; it is DataTypes for a batch of one.
func (ts *TypeSystem) DataTypeScheme(def DataTypeDef) (Type, error) {
	results, err := ts.DataTypes([]DataTypeDef{def})
	if err != nil {
		return nil, err
	}
	return results[0], nil
}
