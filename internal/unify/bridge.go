package unify

import (
	"fmt"

	"github.com/hydromatic/morel-sub009/internal/coreconfig"
	"github.com/hydromatic/morel-sub009/internal/coretypes"
)

// Bridge flattens coretypes.Type values into unify.Term values and maps
// solved Terms back into Types. spec.md §4.3 places the real Type<->Term
// translation in the external compiler and says the unifier "only
// assumes the caller has already translated each type into a term"; this
// file is that translation, kept in the unify package purely as a
// convenience for this repo's own tests and end-to-end examples (spec.md
// §2's "Glue" component), not as part of the unifier's public contract.
type Bridge struct {
	ts *coretypes.TypeSystem
	ws *Workspace

	// varOf/termVar map a TypeVar ordinal to the unifier variable that
	// stands in for it, and back, so repeated ToTerm calls on the same
	// type variable produce the same Term (required for occurs-check and
	// substitution to behave sensibly across a whole termPairs batch).
	varOf   map[uint32]*Variable
	termVar map[string]uint32
}

// NewBridge creates a Bridge over ts, allocating fresh unifier variables
// from ws as type variables are encountered.
func NewBridge(ts *coretypes.TypeSystem, ws *Workspace) *Bridge {
	return &Bridge{
		ts:      ts,
		ws:      ws,
		varOf:   map[uint32]*Variable{},
		termVar: map[string]uint32{},
	}
}

// variableName picks the unifier-facing name for type-variable ordinal
// ord. coreconfig.DeterministicNames (the ambient display-only toggle
// carried over from the teacher's IsTestMode/IsLSPMode flags) switches
// between the raw "T{ordinal}" counter form and the human-readable
// "'a"-style form also used by Type.String(), purely so a trace or test
// assertion can read variable names the same way whichever layer printed
// them.
func (b *Bridge) variableName(ord uint32) string {
	if coreconfig.DeterministicNames {
		return "'" + coretypes.OrdinalName(ord)
	}
	return fmt.Sprintf("T%d", ord)
}

// ToTerm flattens t into a Term, allocating (and memoizing) a fresh
// unifier Variable for every distinct TypeVar ordinal it encounters.
func (b *Bridge) ToTerm(t coretypes.Type) Term {
	switch tt := t.(type) {
	case *coretypes.TypeVar:
		if v, ok := b.varOf[tt.Ordinal]; ok {
			return v
		}
		v := b.ws.Var(b.variableName(tt.Ordinal))
		b.varOf[tt.Ordinal] = v
		b.termVar[v.Name] = tt.Ordinal
		return v

	case *coretypes.PrimitiveType:
		return b.ws.Atom(tt.Kind.String())

	case *coretypes.Fn:
		return b.ws.Seq("fn", b.ToTerm(tt.Param), b.ToTerm(tt.Result))

	case *coretypes.List:
		return b.ws.Seq("list", b.ToTerm(tt.Elem))

	case *coretypes.Record:
		args := make([]Term, len(tt.Fields))
		for i, f := range tt.Fields {
			args[i] = b.ws.Seq("field", b.ws.Atom(f.Name), b.ToTerm(f.Type))
		}
		op := "record"
		if tt.Progressive {
			op = "precord"
		}
		return b.ws.Seq(op, args...)

	case *coretypes.DataType:
		args := make([]Term, len(tt.Args))
		for i, a := range tt.Args {
			args[i] = b.ToTerm(a)
		}
		return b.ws.Seq(tt.Name, args...)

	case *coretypes.Alias:
		// Aliases are transparent to unification (spec.md §9's resolved
		// open question): flattening an Alias flattens its Target, so the
		// unifier never sees the alias name at all.
		return b.ToTerm(tt.Target)

	case *coretypes.Dummy:
		return b.ws.Atom("dummy")

	default:
		// Forall, Apply, and Multi are not meant to reach the unifier
		// directly: a Forall must be instantiated first, an Apply
		// reduced, and a Multi destructured into a constraint's
		// candidate list (spec.md §9). Flattening them as opaque atoms
		// keyed by their own Key digest at least keeps ToTerm total
		// rather than panicking, for callers exercising edge cases in
		// tests.
		return b.ws.Atom(t.Key().Digest())
	}
}

// FromTerm maps a solved Term back into a Type, following ordinal
// bookkeeping recorded by ToTerm for variables still unbound in sub.
func (b *Bridge) FromTerm(t Term, sub *Substitution) (coretypes.Type, error) {
	t = sub.Apply(t)
	switch tt := t.(type) {
	case *Variable:
		ord, ok := b.termVar[tt.Name]
		if !ok {
			return nil, fmt.Errorf("unify: variable %s was never produced by this bridge", tt.Name)
		}
		return b.ts.TypeVariable(ord), nil

	case *Sequence:
		return b.sequenceToType(tt, sub)

	default:
		return nil, fmt.Errorf("unify: unrecognized term %v", t)
	}
}

func (b *Bridge) sequenceToType(s *Sequence, sub *Substitution) (coretypes.Type, error) {
	if len(s.Args) == 0 {
		if prim, ok := primitiveByName(s.Operator); ok {
			return b.ts.Lookup(prim)
		}
		if s.Operator == "record" || s.Operator == "precord" {
			return b.ts.RecordType(nil, s.Operator == "precord"), nil
		}
		if s.Operator == "dummy" {
			return &coretypes.Dummy{}, nil
		}
		if dt, ok := b.ts.LookupOpt(s.Operator); ok {
			return dt, nil
		}
		return nil, fmt.Errorf("unify: unrecognized atom %q", s.Operator)
	}

	switch s.Operator {
	case "fn":
		param, err := b.FromTerm(s.Args[0], sub)
		if err != nil {
			return nil, err
		}
		result, err := b.FromTerm(s.Args[1], sub)
		if err != nil {
			return nil, err
		}
		return b.ts.FnType(param, result), nil

	case "list":
		elem, err := b.FromTerm(s.Args[0], sub)
		if err != nil {
			return nil, err
		}
		return b.ts.ListType(elem), nil

	case "record", "precord":
		fields := make(map[string]coretypes.Type, len(s.Args))
		for _, a := range s.Args {
			fa, ok := a.(*Sequence)
			if !ok || fa.Operator != "field" || len(fa.Args) != 2 {
				return nil, fmt.Errorf("unify: malformed record field term %v", a)
			}
			nameAtom, ok := fa.Args[0].(*Sequence)
			if !ok {
				return nil, fmt.Errorf("unify: malformed record field name %v", fa.Args[0])
			}
			ft, err := b.FromTerm(fa.Args[1], sub)
			if err != nil {
				return nil, err
			}
			fields[nameAtom.Operator] = ft
		}
		return b.ts.RecordType(fields, s.Operator == "precord"), nil

	default:
		// A parameterized datatype application that wasn't reduced during
		// ToTerm/FromTerm: rebuild it as an unreduced coretypes.Apply
		// against the named scheme, per spec.md §3.1's Apply variant. The
		// datatype must already be registered under s.Operator (built via
		// TypeSystem.DataTypes before this term was produced).
		poly, ok := b.ts.LookupOpt(s.Operator)
		if !ok {
			return nil, fmt.Errorf("unify: unrecognized datatype constructor %q", s.Operator)
		}
		args := make([]coretypes.Type, len(s.Args))
		for i, a := range s.Args {
			at, err := b.FromTerm(a, sub)
			if err != nil {
				return nil, err
			}
			args[i] = at
		}
		return b.ts.Apply(poly.Key(), args), nil
	}
}

func primitiveByName(op string) (string, bool) {
	switch op {
	case "bool", "char", "int", "real", "string", "unit":
		return op, true
	default:
		return "", false
	}
}
