// This file implements the Martelli–Montanari unifier described in
// spec.md §4.4: a worklist algorithm over equations between Terms, kept
// in three queues (DELETE, SEQ_SEQ, VAR_ANY; an f(...) = X equation is
// swapped to X = f(...) on insertion and queued as VAR_ANY), interleaved
// with the overload constraint narrowing of §4.5.
package unify

// Equation is one obligation t = u submitted to Unify.
type Equation struct {
	L, R Term
}

// TermAction is invoked once, exactly when its variable is bound to a
// term: (var, term, substitution-so-far, emit). emit adds a new equation
// to the run, exactly like a constraint's Action (spec.md §4.4).
type TermAction func(v *Variable, t Term, sub *Substitution, emit func(l, r Term))

// Substitution is the variable -> term map Unify produces on success. It
// is kept fully applied at every point: binding X also rewrites X out of
// every previously bound value, so Substitution.Apply never needs to
// chase a chain of bindings (spec.md's idempotence property, §8.6).
type Substitution struct {
	bindings map[string]Term
}

func newSubstitution() *Substitution {
	return &Substitution{bindings: make(map[string]Term)}
}

// Get returns the term bound to the variable with this name, if any.
func (s *Substitution) Get(name string) (Term, bool) {
	t, ok := s.bindings[name]
	return t, ok
}

// Len reports how many variables this substitution binds.
func (s *Substitution) Len() int { return len(s.bindings) }

// Range calls f for every (name, term) binding. Iteration order is
// unspecified, matching spec.md §4.4's "final substitution is the same
// regardless of ... order" guarantee: callers must not depend on it.
func (s *Substitution) Range(f func(name string, t Term)) {
	for n, t := range s.bindings {
		f(n, t)
	}
}

// Apply rewrites every variable in t that this substitution binds, to a
// fixed point. Because bindings are kept normalized as they are added
// (see bind below), a single top-down pass already reaches the fixed
// point; Apply does not need to loop.
func (s *Substitution) Apply(t Term) Term {
	switch tt := t.(type) {
	case *Variable:
		if repl, ok := s.bindings[tt.Name]; ok {
			return repl
		}
		return t
	case *Sequence:
		if len(tt.Args) == 0 {
			return t
		}
		args := make([]Term, len(tt.Args))
		changed := false
		for i, a := range tt.Args {
			na := s.Apply(a)
			if na != a {
				changed = true
			}
			args[i] = na
		}
		if !changed {
			return t
		}
		return &Sequence{Operator: tt.Operator, Args: args}
	default:
		return t
	}
}

// bind records v ↦ t, rewriting v out of every value already bound so
// the map stays fully applied (spec.md §4.4's "substitute through ...
// the result map").
func (s *Substitution) bind(v *Variable, t Term) {
	for name, bound := range s.bindings {
		s.bindings[name] = substituteTerm(bound, v.Name, t)
	}
	s.bindings[v.Name] = t
}

// equationKind classifies an equation per spec.md §4.4's table.
type equationKind int

const (
	kindDelete equationKind = iota
	kindSeqSeq
	kindVarAny
)

// classify normalizes l = r into the canonical orientation for its kind:
// NON_VAR_VAR (f(...) = X) is swapped in place to VAR_ANY's (X = f(...))
// shape, so downstream code only ever has to handle three cases, not
// four.
func classify(l, r Term) (equationKind, Term, Term) {
	if termsEqual(l, r) {
		return kindDelete, l, r
	}
	if _, ok := l.(*Variable); ok {
		return kindVarAny, l, r
	}
	if rv, ok := r.(*Variable); ok {
		return kindVarAny, rv, l
	}
	return kindSeqSeq, l, r
}

func termsEqual(a, b Term) bool {
	return a.termString() == b.termString()
}

// substituteTerm replaces every occurrence of the variable named name
// with repl inside t.
func substituteTerm(t Term, name string, repl Term) Term {
	switch tt := t.(type) {
	case *Variable:
		if tt.Name == name {
			return repl
		}
		return t
	case *Sequence:
		if len(tt.Args) == 0 {
			return t
		}
		args := make([]Term, len(tt.Args))
		changed := false
		for i, a := range tt.Args {
			na := substituteTerm(a, name, repl)
			if na != a {
				changed = true
			}
			args[i] = na
		}
		if !changed {
			return t
		}
		return &Sequence{Operator: tt.Operator, Args: args}
	default:
		return t
	}
}

// occursIn reports whether the variable named name occurs anywhere
// inside t (the unifier's occurs-check, spec.md §4.4's VAR_ANY row).
func occursIn(name string, t Term) bool {
	switch tt := t.(type) {
	case *Variable:
		return tt.Name == name
	case *Sequence:
		for _, a := range tt.Args {
			if occursIn(name, a) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// queue is a simple FIFO of equations.
type queue struct {
	items []Equation
}

func (q *queue) push(l, r Term)   { q.items = append(q.items, Equation{L: l, R: r}) }
func (q *queue) empty() bool      { return len(q.items) == 0 }
func (q *queue) pop() Equation {
	e := q.items[0]
	q.items = q.items[1:]
	return e
}

// Unify is the public entry point of the Martelli–Montanari engine
// (spec.md §4.4). It drains the DELETE, SEQ_SEQ and VAR_ANY queues in
// strict priority order, invoking termActions as each variable is bound
// and narrowing every overload constraint after every binding. It
// returns the resulting Substitution, or the first Conflict/Cycle/
// ConstraintExhausted error encountered — no error is ever recovered
// mid-run (spec.md §7).
func Unify(pairs []Equation, actions map[string]TermAction, constraints []*Constraint, tracer Tracer) (*Substitution, error) {
	if tracer == nil {
		tracer = NoopTracer{}
	}
	if actions == nil {
		actions = map[string]TermAction{}
	}

	sub := newSubstitution()
	var deleteQ, seqQ, varQ queue
	firing := map[string]bool{}

	var runErr error

	enqueue := func(l, r Term) {
		kind, l2, r2 := classify(l, r)
		switch kind {
		case kindDelete:
			deleteQ.push(l2, r2)
		case kindSeqSeq:
			seqQ.push(l2, r2)
		case kindVarAny:
			varQ.push(l2, r2)
		}
	}

	for _, p := range pairs {
		enqueue(p.L, p.R)
	}

	// narrowAll re-runs every unresolved constraint's narrowing step. It
	// is cheap enough (constraint lists are small — overloaded
	// identifiers, not general data) to simply run over all of them
	// after every binding rather than tracking which constraints mention
	// the bound variable.
	narrowAll := func() {
		if runErr != nil {
			return
		}
		for _, c := range constraints {
			if c.resolved {
				continue
			}
			if err := c.narrow(tracer, enqueue, firing); err != nil {
				runErr = err
				return
			}
		}
	}

	for runErr == nil {
		switch {
		case !deleteQ.empty():
			deleteQ.pop()

		case !seqQ.empty():
			e := seqQ.pop()
			ls, lok := e.L.(*Sequence)
			rs, rok := e.R.(*Sequence)
			if !lok || !rok || ls.Operator != rs.Operator || len(ls.Args) != len(rs.Args) {
				tracer.OnConflict(e.L, e.R)
				runErr = &ConflictError{LHS: e.L, RHS: e.R}
				continue
			}
			tracer.OnDecompose(ls, rs)
			for i := range ls.Args {
				enqueue(ls.Args[i], rs.Args[i])
			}

		case !varQ.empty():
			e := varQ.pop()
			v := e.L.(*Variable)
			// An equation emitted by an action may still mention variables
			// bound earlier; resolve them so the occurs-check and bind see
			// the fully applied term.
			t := sub.Apply(e.R)

			if occursIn(v.Name, t) {
				runErr = &CycleError{Var: v, Term: t}
				continue
			}

			if existing, ok := sub.Get(v.Name); ok {
				// X is already bound to something else: the new pair
				// converges the two values (spec.md §4.4's "chains of
				// variable equivalences").
				enqueue(existing, t)
				continue
			}

			sub.bind(v, t)
			tracer.OnBind(v, t)

			// Rewrite every other pending equation, possibly migrating
			// it to a different queue if its kind changed.
			rewriteQueue := func(q *queue) {
				items := q.items
				q.items = nil
				for _, eq := range items {
					nl := substituteTerm(eq.L, v.Name, t)
					nr := substituteTerm(eq.R, v.Name, t)
					enqueue(nl, nr)
				}
			}
			rewriteQueue(&deleteQ)
			rewriteQueue(&seqQ)
			rewriteQueue(&varQ)

			for _, c := range constraints {
				c.rewrite(v, t)
			}
			narrowAll()
			if runErr != nil {
				continue
			}

			if action, ok := actions[v.Name]; ok {
				if !firing[v.Name] {
					firing[v.Name] = true
					action(v, t, sub, enqueue)
					delete(firing, v.Name)
				}
			}

		default:
			return sub, nil
		}
	}

	return nil, runErr
}
