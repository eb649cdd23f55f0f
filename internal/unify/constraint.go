package unify

// Candidate is one alternative shape an overloaded call site might take:
// ArgTerm is the shape the actual argument would have to unify with for
// this alternative to apply, and Action fires once this is the only
// candidate left standing (spec.md §4.5).
type Candidate struct {
	ArgTerm Term
	// Action receives the constraint's actual argument term, this
	// candidate's (already-substituted) ArgTerm, and an emit callback for
	// adding new equations to the run. The built-in "equiv" action family
	// from spec.md §4.5 is just Emit(actualArg, candidateArgTerm); an
	// overloaded function site's action additionally emits a result
	// equation, which is why Action is a plain func rather than a fixed
	// two-term emit.
	Action func(actualArg, candidateArgTerm Term, emit func(l, r Term))
}

// Constraint is a deferred overload obligation: Arg must eventually
// unify with exactly one of Candidates, at which point that candidate's
// Action fires and the constraint is retired. Candidates shrinks as the
// run narrows Arg and the candidate terms; it must never contain two
// candidates with the same parameter type (spec.md §3.1's Multi
// invariant), though this package does not itself enforce that — it is
// the caller's responsibility when building the candidate list.
type Constraint struct {
	Arg        Term
	Candidates []Candidate
	resolved   bool
}

// NewConstraint builds a Constraint over the given argument placeholder
// and candidate list.
func NewConstraint(arg Term, candidates []Candidate) *Constraint {
	return &Constraint{Arg: arg, Candidates: append([]Candidate(nil), candidates...)}
}

// possiblyUnify is the lightweight structural check from spec.md §4.5:
// either side is a variable (always possibly-compatible, since it could
// still be bound to anything), or both are sequences with the same
// operator and arity and every child pair possibly unifies. It never
// returns false for a pair that could still unify, so it never prunes a
// viable candidate, and never loops (it walks structurally, no fixed
// point needed).
func possiblyUnify(a, b Term) bool {
	if _, ok := a.(*Variable); ok {
		return true
	}
	if _, ok := b.(*Variable); ok {
		return true
	}
	as, aok := a.(*Sequence)
	bs, bok := b.(*Sequence)
	if !aok || !bok {
		return false
	}
	if as.Operator != bs.Operator || len(as.Args) != len(bs.Args) {
		return false
	}
	for i := range as.Args {
		if !possiblyUnify(as.Args[i], bs.Args[i]) {
			return false
		}
	}
	return true
}

// rewrite replaces every occurrence of v with t inside the constraint's
// Arg and each remaining candidate's ArgTerm (step 1 of the narrowing
// algorithm).
func (c *Constraint) rewrite(v *Variable, t Term) {
	c.Arg = substituteTerm(c.Arg, v.Name, t)
	for i := range c.Candidates {
		c.Candidates[i].ArgTerm = substituteTerm(c.Candidates[i].ArgTerm, v.Name, t)
	}
}

// narrow runs one round of spec.md §4.5's narrowing algorithm: prune
// candidates that can no longer possibly unify with Arg, fail if none
// remain, and fire the sole survivor's Action if exactly one remains.
// emit is the run's shared equation sink; firing is the re-entrancy guard
// described in spec.md §4.5 ("a per-call working set of variables
// currently being acted upon"), keyed by the name of Arg's root variable
// when Arg is itself a bare variable (the only shape an action could
// plausibly recurse back through).
func (c *Constraint) narrow(tracer Tracer, emit func(l, r Term), firing map[string]bool) error {
	if c.resolved {
		return nil
	}
	kept := c.Candidates[:0:0]
	for _, cand := range c.Candidates {
		if possiblyUnify(cand.ArgTerm, c.Arg) {
			kept = append(kept, cand)
		}
	}
	c.Candidates = kept
	tracer.OnNarrow(c.Arg, len(c.Candidates))
	if len(c.Candidates) == 0 {
		return &ConstraintExhaustedError{Arg: c.Arg}
	}
	if len(c.Candidates) > 1 {
		return nil
	}
	winner := c.Candidates[0]
	if av, ok := c.Arg.(*Variable); ok {
		if firing[av.Name] {
			return nil
		}
		firing[av.Name] = true
		defer delete(firing, av.Name)
	}
	c.resolved = true
	tracer.OnFire(c.Arg, winner.ArgTerm)
	winner.Action(c.Arg, winner.ArgTerm, emit)
	return nil
}

// Equiv is the built-in action family from spec.md §4.5: it simply emits
// actualArg = candidateArgTerm.
func Equiv(actualArg, candidateArgTerm Term, emit func(l, r Term)) {
	emit(actualArg, candidateArgTerm)
}
