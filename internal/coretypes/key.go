package coretypes

import (
	"sort"
	"strconv"
	"strings"
)

// KeyTag identifies the structural shape a Key describes.
type KeyTag int

const (
	KVar KeyTag = iota
	KPrimitive
	KFn
	KList
	KRecord
	KDataType
	KForall
	KApply
	KAlias
	KMulti
	KDummy
	KTemporary
)

// CtorKey is the structural identifier of one constructor within a
// DataType key. Order matters: it is part of the datatype's identity.
type CtorKey struct {
	Name string
	Arg  Key
}

// FieldKey is the structural identifier of one field within a Record key.
// Fields must already be presented in canonical name order (see
// CompareNames); Key itself does not re-sort, since the caller
// (recordType/tupleType) is responsible for canonicalizing first.
type FieldKey struct {
	Name string
	Type Key
}

// Key is the canonical structural identifier used to intern a Type. Two
// keys that describe the same shape compare equal via Digest, regardless
// of how they were built.
type Key struct {
	Tag         KeyTag
	Ordinal     uint32     // KVar
	PrimKind    Primitive  // KPrimitive
	Children    []Key      // KFn: [param, result]; KList: [elem]; KApply args: see Args
	Fields      []FieldKey // KRecord
	Progressive bool       // KRecord
	Name        string      // KDataType, KAlias
	Args        []Key       // KDataType type-arguments, KApply args, KAlias args
	Ctors       []CtorKey   // KDataType, in declaration order
	ParamCount  int         // KForall
	Body        *Key        // KForall
	PolyKey     *Key        // KApply
	Alts        []Key       // KMulti
}

// Digest returns a canonical string encoding of the key, suitable for use
// as a hash-consing map key. Equal keys always produce equal digests;
// unequal keys are not guaranteed distinct digests in theory, but the
// encoding below is injective for every shape this package constructs.
func (k Key) Digest() string {
	var b strings.Builder
	k.writeDigest(&b)
	return b.String()
}

func (k Key) writeDigest(b *strings.Builder) {
	switch k.Tag {
	case KVar:
		b.WriteString("var:")
		b.WriteString(strconv.FormatUint(uint64(k.Ordinal), 10))
	case KPrimitive:
		b.WriteString("prim:")
		b.WriteString(k.PrimKind.String())
	case KFn:
		b.WriteString("fn(")
		k.Children[0].writeDigest(b)
		b.WriteString(",")
		k.Children[1].writeDigest(b)
		b.WriteString(")")
	case KList:
		b.WriteString("list(")
		k.Children[0].writeDigest(b)
		b.WriteString(")")
	case KRecord:
		if k.Progressive {
			b.WriteString("precord{")
		} else {
			b.WriteString("record{")
		}
		for i, f := range k.Fields {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(f.Name)
			b.WriteString(":")
			f.Type.writeDigest(b)
		}
		b.WriteString("}")
	case KDataType:
		b.WriteString("datatype:")
		b.WriteString(k.Name)
		b.WriteString("(")
		for i, a := range k.Args {
			if i > 0 {
				b.WriteString(",")
			}
			a.writeDigest(b)
		}
		b.WriteString(")[")
		for i, c := range k.Ctors {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(c.Name)
			b.WriteString(":")
			c.Arg.writeDigest(b)
		}
		b.WriteString("]")
	case KForall:
		b.WriteString("forall:")
		b.WriteString(strconv.Itoa(k.ParamCount))
		b.WriteString("(")
		k.Body.writeDigest(b)
		b.WriteString(")")
	case KApply:
		b.WriteString("apply(")
		k.PolyKey.writeDigest(b)
		b.WriteString(";")
		for i, a := range k.Args {
			if i > 0 {
				b.WriteString(",")
			}
			a.writeDigest(b)
		}
		b.WriteString(")")
	case KAlias:
		b.WriteString("alias:")
		b.WriteString(k.Name)
		b.WriteString("(")
		for i, a := range k.Args {
			if i > 0 {
				b.WriteString(",")
			}
			a.writeDigest(b)
		}
		b.WriteString(")")
	case KMulti:
		b.WriteString("multi[")
		for i, a := range k.Alts {
			if i > 0 {
				b.WriteString(",")
			}
			a.writeDigest(b)
		}
		b.WriteString("]")
	case KDummy:
		b.WriteString("dummy")
	case KTemporary:
		b.WriteString("temp:")
		b.WriteString(k.Name)
	default:
		b.WriteString("?")
	}
}

// Equal reports whether two keys describe the same structural shape.
func (k Key) Equal(other Key) bool {
	return k.Digest() == other.Digest()
}

// toType reconstructs the Type described by k, recursively materializing
// child keys through ts.TypeFor. Only called by TypeSystem.TypeFor on a
// cache miss; see TypeFor's doc comment for why KDataType and KAlias
// cannot be handled here.
func (k Key) toType(ts *TypeSystem) (Type, error) {
	switch k.Tag {
	case KVar:
		return &TypeVar{Ordinal: k.Ordinal}, nil
	case KPrimitive:
		return &PrimitiveType{Kind: k.PrimKind}, nil
	case KFn:
		param, err := ts.TypeFor(k.Children[0])
		if err != nil {
			return nil, err
		}
		result, err := ts.TypeFor(k.Children[1])
		if err != nil {
			return nil, err
		}
		return &Fn{Param: param, Result: result}, nil
	case KList:
		elem, err := ts.TypeFor(k.Children[0])
		if err != nil {
			return nil, err
		}
		return &List{Elem: elem}, nil
	case KRecord:
		fields := make([]FieldKey, len(k.Fields))
		copy(fields, k.Fields)
		rf := make([]RecordField, len(fields))
		for i, f := range fields {
			t, err := ts.TypeFor(f.Type)
			if err != nil {
				return nil, err
			}
			rf[i] = RecordField{Name: f.Name, Type: t}
		}
		return &Record{Fields: rf, Progressive: k.Progressive}, nil
	case KForall:
		body, err := ts.TypeFor(*k.Body)
		if err != nil {
			return nil, err
		}
		return &Forall{ParamCount: k.ParamCount, Body: body}, nil
	case KApply:
		args := make([]Type, len(k.Args))
		for i, a := range k.Args {
			t, err := ts.TypeFor(a)
			if err != nil {
				return nil, err
			}
			args[i] = t
		}
		return &Apply{PolyKey: *k.PolyKey, Args: args}, nil
	case KMulti:
		alts := make([]Type, len(k.Alts))
		for i, a := range k.Alts {
			t, err := ts.TypeFor(a)
			if err != nil {
				return nil, err
			}
			alts[i] = t
		}
		return &Multi{Alternatives: alts}, nil
	case KDummy:
		return &Dummy{}, nil
	case KDataType:
		return nil, invariantf("TypeFor cannot materialize an unseen datatype key for %q; construct it via TypeSystem.DataTypes first", k.Name)
	case KAlias:
		return nil, invariantf("TypeFor cannot materialize an unseen alias key for %q; construct it via TypeSystem.AliasType first", k.Name)
	case KTemporary:
		return nil, invariantf("temporary placeholder for %q escaped its datatype fixup transaction", k.Name)
	default:
		return nil, invariantf("unknown key tag %d", k.Tag)
	}
}

// fnKey, listKey, etc. are small constructors kept next to Digest so the
// Key methods in types.go never have to hand-assemble a Key by touching
// private fields from another file's perspective; they are still in the
// same package, but this keeps "how a Key is shaped" in one place.

func fnKey(param, result Key) Key {
	return Key{Tag: KFn, Children: []Key{param, result}}
}

func listKey(elem Key) Key {
	return Key{Tag: KList, Children: []Key{elem}}
}

func varKey(ordinal uint32) Key {
	return Key{Tag: KVar, Ordinal: ordinal}
}

func primitiveKey(p Primitive) Key {
	return Key{Tag: KPrimitive, PrimKind: p}
}

func dummyKey() Key {
	return Key{Tag: KDummy}
}

func multiKey(alts []Key) Key {
	return Key{Tag: KMulti, Alts: alts}
}

func forallKey(paramCount int, body Key) Key {
	b := body
	return Key{Tag: KForall, ParamCount: paramCount, Body: &b}
}

func applyKey(poly Key, args []Key) Key {
	p := poly
	return Key{Tag: KApply, PolyKey: &p, Args: args}
}

func aliasKey(name string, args []Key) Key {
	return Key{Tag: KAlias, Name: name, Args: args}
}

// recordKey canonicalizes fields into the record name ordering (§3.1)
// before building the key, so two callers who pass the same field set in
// different orders get the same Key.
func recordKey(fields map[string]Key, progressive bool) Key {
	names := make([]string, 0, len(fields))
	for n := range fields {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool { return CompareNames(names[i], names[j]) < 0 })
	fs := make([]FieldKey, len(names))
	for i, n := range names {
		fs[i] = FieldKey{Name: n, Type: fields[n]}
	}
	return Key{Tag: KRecord, Fields: fs, Progressive: progressive}
}

func dataTypeKey(name string, args []Key, ctors []CtorKey) Key {
	return Key{Tag: KDataType, Name: name, Args: args, Ctors: ctors}
}

func temporaryKey(name string) Key {
	return Key{Tag: KTemporary, Name: name}
}
