// Package coretypes implements the hash-consed type representation and
// the type interner (TypeSystem) for the core of a Standard-ML-like type
// system: type variables, primitives, functions, lists, records,
// algebraic datatypes, universally quantified (forall) types, deferred
// polymorphic applications, transparent aliases, and the overload marker
// type Multi.
//
// Every Type reachable through a TypeSystem is immutable after
// construction (with the single, narrowly-scoped exception described in
// datatype.go), canonical (same structural shape => same *Type object),
// and produced exclusively via TypeSystem.TypeFor or one of its
// constructor convenience methods — never via a bare struct literal from
// outside this package, since that would bypass hash-consing.
package coretypes

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Type is the interface implemented by every canonical type object. All
// implementations are pointer types so that identity (==) after interning
// coincides with structural equality, which is the hash-consing contract
// TypeSystem.TypeFor guarantees.
type Type interface {
	// Key returns this type's canonical structural identifier.
	Key() Key
	// String renders the type using the grammar in spec.md §6.
	String() string
}

// Primitive enumerates the five scalar primitive kinds. Unit is NOT a
// Primitive: spec.md §3.1 treats it as a record-like type with zero
// fields, so TypeSystem.lookup("unit") resolves to an empty *Record, not
// to a Primitive value. This mirrors the 0-element-tuple-is-unit
// invariant in the same section.
type Primitive int

const (
	PBool Primitive = iota
	PChar
	PInt
	PReal
	PString
)

func (p Primitive) String() string {
	switch p {
	case PBool:
		return "bool"
	case PChar:
		return "char"
	case PInt:
		return "int"
	case PReal:
		return "real"
	case PString:
		return "string"
	default:
		return fmt.Sprintf("primitive(%d)", int(p))
	}
}

// ---- TypeVar ---------------------------------------------------------

// TypeVar is a type variable, printed 'a, 'b, ... 'z, 'ba, ... per
// spec.md §3.1 (base-26 over a-z).
type TypeVar struct {
	Ordinal uint32
}

func (t *TypeVar) Key() Key { return varKey(t.Ordinal) }

func (t *TypeVar) String() string { return "'" + OrdinalName(t.Ordinal) }

// OrdinalName renders a type-variable ordinal as base-26 digits over the
// alphabet a-z: 0 -> "a", 25 -> "z", 26 -> "ba".
func OrdinalName(ordinal uint32) string {
	if ordinal < 26 {
		return string(rune('a' + ordinal))
	}
	var digits []byte
	n := ordinal
	for n > 0 {
		digits = append(digits, byte('a'+n%26))
		n /= 26
	}
	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		digits[i], digits[j] = digits[j], digits[i]
	}
	return string(digits)
}

// ---- PrimitiveType -----------------------------------------------------

// PrimitiveType wraps one of the five scalar Primitive kinds.
type PrimitiveType struct {
	Kind Primitive
}

func (t *PrimitiveType) Key() Key      { return primitiveKey(t.Kind) }
func (t *PrimitiveType) String() string { return t.Kind.String() }

// ---- Fn ----------------------------------------------------------------

// Fn is a right-associative function type.
type Fn struct {
	Param  Type
	Result Type
}

func (t *Fn) Key() Key { return fnKey(t.Param.Key(), t.Result.Key()) }

func (t *Fn) String() string {
	return describeFnOperand(t.Param, 6) + " -> " + describeAt(t.Result, 5)
}

// describeFnOperand parens the left operand of "->" whenever it is itself
// a function type, since -> is right-associative (precedence 5) and a
// left-nested function would otherwise misparse.
func describeFnOperand(t Type, prec int) string {
	if _, ok := t.(*Fn); ok {
		return "(" + t.String() + ")"
	}
	return describeAt(t, prec)
}

// ---- List ---------------------------------------------------------------

// List is a unary postfix "T list" type constructor.
type List struct {
	Elem Type
}

func (t *List) Key() Key { return listKey(t.Elem.Key()) }

func (t *List) String() string { return describeAt(t.Elem, 8) + " list" }

// ---- Record / Tuple / Unit ----------------------------------------------

// RecordField is one field of a Record, in canonical order (see
// CompareNames). A Tuple per spec.md §3.1 is simply a Record whose field
// names are exactly "1", "2", ..., "n" for n >= 2: there is no separate
// Tuple type; TypeSystem.TupleType is a smart constructor over Record,
// and a 0-element tuple collapses to Unit (itself the empty Record) while
// a 1-element tuple collapses to its sole element, per the same section.
type RecordField struct {
	Name string
	Type Type
}

// Record is a general record type; when Progressive is set it prints with
// a trailing "...". Unification adds no fields to a progressive record:
// UnifyWith requires equal field-name sets, and the unify package's
// Bridge flattens it to a "precord" term that only unifies with a
// "precord" term carrying the same fields.
type Record struct {
	Fields      []RecordField // already in CompareNames order
	Progressive bool
}

func (t *Record) Key() Key {
	m := make(map[string]Key, len(t.Fields))
	for _, f := range t.Fields {
		m[f.Name] = f.Type.Key()
	}
	return recordKey(m, t.Progressive)
}

// IsTuple reports whether this record's field names are exactly
// "1".."n" for n = len(Fields) >= 2, i.e. it should print using tuple
// grammar ("T1 * T2 * ... * Tn", precedence 7) rather than record grammar.
func (t *Record) IsTuple() bool {
	if len(t.Fields) < 2 {
		return false
	}
	for i, f := range t.Fields {
		if f.Name != strconv.Itoa(i+1) {
			return false
		}
	}
	return true
}

func (t *Record) String() string {
	if len(t.Fields) == 0 {
		if t.Progressive {
			return "{...}"
		}
		return "unit"
	}
	if t.IsTuple() {
		parts := make([]string, len(t.Fields))
		for i, f := range t.Fields {
			parts[i] = describeAt(f.Type, 8)
		}
		return strings.Join(parts, " * ")
	}
	parts := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		parts[i] = f.Name + ": " + f.Type.String()
	}
	suffix := ""
	if t.Progressive {
		suffix = ", ..."
	}
	return "{ " + strings.Join(parts, ", ") + suffix + " }"
}

// ---- DataType ------------------------------------------------------------

// Ctor is one named constructor of a DataType. Arg is Dummy{} for a
// nullary constructor.
type Ctor struct {
	Name string
	Arg  Type
}

// DataType is an algebraic sum type. Constructors preserve declaration
// order, which is part of the type's identity (see Key). The
// Constructors slice is mutated exactly once, during the recursive
// datatype fixup performed by TypeSystem.DataTypes (see datatype.go);
// every other access is read-only.
type DataType struct {
	Name         string
	Args         []Type
	Constructors []Ctor

	// keying is set while Key runs on this datatype, so a constructor
	// argument that refers back to it (directly or through a sibling) is
	// keyed by name and arguments only instead of recursing forever.
	keying bool
}

func (t *DataType) Key() Key {
	argKeys := make([]Key, len(t.Args))
	for i, a := range t.Args {
		argKeys[i] = a.Key()
	}
	if t.keying {
		return dataTypeKey(t.Name, argKeys, nil)
	}
	t.keying = true
	defer func() { t.keying = false }()
	ctorKeys := make([]CtorKey, len(t.Constructors))
	for i, c := range t.Constructors {
		ctorKeys[i] = CtorKey{Name: c.Name, Arg: c.Arg.Key()}
	}
	return dataTypeKey(t.Name, argKeys, ctorKeys)
}

func (t *DataType) String() string {
	if len(t.Args) == 0 {
		return t.Name
	}
	if len(t.Args) == 1 {
		return describeAt(t.Args[0], 8) + " " + t.Name
	}
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}
	return "(" + strings.Join(parts, ", ") + ") " + t.Name
}

// ---- Forall ---------------------------------------------------------------

// Forall is a universally quantified type over ParamCount de-Bruijn
// indexed type variables TypeVar(0)..TypeVar(ParamCount-1), appearing
// free in Body.
type Forall struct {
	ParamCount int
	Body       Type
}

func (t *Forall) Key() Key { return forallKey(t.ParamCount, t.Body.Key()) }

func (t *Forall) String() string {
	vars := make([]string, t.ParamCount)
	for i := range vars {
		vars[i] = "'" + OrdinalName(uint32(i))
	}
	return "forall " + strings.Join(vars, " ") + ". " + t.Body.String()
}

// ---- Apply ------------------------------------------------------------------

// Apply is the application of a polymorphic type (identified by the key
// of its Forall scheme) to actual type arguments, kept unreduced because
// the scheme behind PolyKey is not locally available to reduce eagerly
// (e.g. it is still being constructed during a recursive datatype fixup).
type Apply struct {
	PolyKey Key
	Args    []Type
}

func (t *Apply) Key() Key {
	argKeys := make([]Key, len(t.Args))
	for i, a := range t.Args {
		argKeys[i] = a.Key()
	}
	return applyKey(t.PolyKey, argKeys)
}

func (t *Apply) String() string {
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}
	return "apply(" + strings.Join(parts, ", ") + ")"
}

// ---- Alias ------------------------------------------------------------------

// Alias names another type. It is equal to Target for unification
// through the unify package's Bridge, which flattens an Alias to its
// Target (transparent), but prints under Name (opaque to
// pretty-printing) — the resolution documented as an open question in
// spec.md §9: aliases are transparent to unification, opaque to display.
// UnifyWith does not unfold aliases: an Alias on either side fails there.
type Alias struct {
	Name   string
	Target Type
	Args   []Type
}

func (t *Alias) Key() Key {
	argKeys := make([]Key, len(t.Args))
	for i, a := range t.Args {
		argKeys[i] = a.Key()
	}
	return aliasKey(t.Name, argKeys)
}

func (t *Alias) String() string {
	if len(t.Args) == 0 {
		return t.Name
	}
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}
	return "(" + strings.Join(parts, ", ") + ") " + t.Name
}

// ---- Multi ------------------------------------------------------------------

// Multi is a set of overload alternatives. It is not a true type: the
// overload constraint engine (internal/unify) destructures it immediately
// and it must never appear in a final solved substitution (spec.md §9).
type Multi struct {
	Alternatives []Type
}

func (t *Multi) Key() Key {
	keys := make([]Key, len(t.Alternatives))
	for i, a := range t.Alternatives {
		keys[i] = a.Key()
	}
	return multiKey(keys)
}

func (t *Multi) String() string {
	parts := make([]string, len(t.Alternatives))
	for i, a := range t.Alternatives {
		parts[i] = a.String()
	}
	return strings.Join(parts, " & ")
}

// ---- Dummy ------------------------------------------------------------------

// Dummy is the placeholder argument type of a nullary constructor.
type Dummy struct{}

func (t *Dummy) Key() Key      { return dummyKey() }
func (t *Dummy) String() string { return "<dummy>" }

// ---- printing precedence --------------------------------------------------

// describeAt renders t, parenthesizing it if its own grammar precedence
// is looser (binds weaker) than the precedence required at this print
// site. Precedences follow spec.md §6: tuple = 7, function (->) = 5,
// everything else (atoms, lists, datatype application, forall) = 9
// (never needs parens on its own). The operand of a postfix constructor
// such as list is printed at minimum precedence 8.
func describeAt(t Type, minPrec int) string {
	if precedenceOf(t) < minPrec {
		return "(" + t.String() + ")"
	}
	return t.String()
}

func precedenceOf(t Type) int {
	switch tt := t.(type) {
	case *Fn:
		return 5
	case *Record:
		if tt.IsTuple() {
			return 7
		}
		return 9
	default:
		return 9
	}
}

// sortedFieldNames is a small helper shared by interner constructors that
// need to canonicalize a field map before building RecordField slices or
// Keys, mirroring the teacher's "sort.Strings then walk" discipline
// (TRecord.String, TRecord.FreeTypeVariables) generalized to CompareNames.
func sortedFieldNames(fields map[string]Type) []string {
	names := make([]string, 0, len(fields))
	for n := range fields {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool { return CompareNames(names[i], names[j]) < 0 })
	return names
}
