package unify

import "testing"

// These tests exercise spec.md §8's end-to-end scenarios S1-S6 directly
// against Term/Unify, without going through the Type bridge, mirroring
// the teacher's plain table-driven testing.T style (kinds_test.go) rather
// than a property-testing framework.

func mustUnify(t *testing.T, pairs []Equation, constraints []*Constraint) *Substitution {
	t.Helper()
	sub, err := Unify(pairs, nil, constraints, nil)
	if err != nil {
		t.Fatalf("Unify failed: %v", err)
	}
	return sub
}

// S1: fn(X, int) = fn(bool, Y) -> X=bool, Y=int.
func TestS1FunctionUnification(t *testing.T) {
	ws := NewWorkspace()
	x, y := ws.Var("X"), ws.Var("Y")
	intA, boolA := ws.Atom("int"), ws.Atom("bool")

	sub := mustUnify(t, []Equation{
		{L: ws.Seq("fn", x, intA), R: ws.Seq("fn", boolA, y)},
	}, nil)

	if got, _ := sub.Get("X"); got.termString() != "bool" {
		t.Errorf("X = %v, want bool", got)
	}
	if got, _ := sub.Get("Y"); got.termString() != "int" {
		t.Errorf("Y = %v, want int", got)
	}
}

// S2: list(X) = list(list(Y)); Y = int -> X = list(int), Y = int.
func TestS2NestedListUnification(t *testing.T) {
	ws := NewWorkspace()
	x, y := ws.Var("X"), ws.Var("Y")
	intA := ws.Atom("int")

	sub := mustUnify(t, []Equation{
		{L: ws.Seq("list", x), R: ws.Seq("list", ws.Seq("list", y))},
		{L: y, R: intA},
	}, nil)

	if got, _ := sub.Get("X"); got.termString() != "list(int)" {
		t.Errorf("X = %v, want list(int)", got)
	}
	if got, _ := sub.Get("Y"); got.termString() != "int" {
		t.Errorf("Y = %v, want int", got)
	}
}

// S3: X = fn(X, int) -> Cycle.
func TestS3OccursCheck(t *testing.T) {
	ws := NewWorkspace()
	x := ws.Var("X")
	intA := ws.Atom("int")

	_, err := Unify([]Equation{
		{L: x, R: ws.Seq("fn", x, intA)},
	}, nil, nil, nil)

	var cycleErr *CycleError
	if err == nil {
		t.Fatal("expected CycleError, got success")
	}
	if ce, ok := err.(*CycleError); !ok {
		t.Fatalf("expected *CycleError, got %T (%v)", err, err)
	} else {
		cycleErr = ce
	}
	if cycleErr.Var.Name != "X" {
		t.Errorf("cycle var = %s, want X", cycleErr.Var.Name)
	}
}

// S4: fn(A, B) = list(C) -> Conflict.
func TestS4Conflict(t *testing.T) {
	ws := NewWorkspace()
	a, b, c := ws.Var("A"), ws.Var("B"), ws.Var("C")

	_, err := Unify([]Equation{
		{L: ws.Seq("fn", a, b), R: ws.Seq("list", c)},
	}, nil, nil, nil)

	if _, ok := err.(*ConflictError); !ok {
		t.Fatalf("expected *ConflictError, got %T (%v)", err, err)
	}
}

// S5: record {a:int, b:X} unified with {a:Y, b:string} -> X=string, Y=int.
func TestS5RecordUnification(t *testing.T) {
	ws := NewWorkspace()
	x, y := ws.Var("X"), ws.Var("Y")
	intA, stringA := ws.Atom("int"), ws.Atom("string")

	rec1 := ws.Seq("record",
		ws.Seq("field", ws.Atom("a"), intA),
		ws.Seq("field", ws.Atom("b"), x))
	rec2 := ws.Seq("record",
		ws.Seq("field", ws.Atom("a"), y),
		ws.Seq("field", ws.Atom("b"), stringA))

	sub := mustUnify(t, []Equation{{L: rec1, R: rec2}}, nil)

	if got, _ := sub.Get("X"); got.termString() != "string" {
		t.Errorf("X = %v, want string", got)
	}
	if got, _ := sub.Get("Y"); got.termString() != "int" {
		t.Errorf("Y = %v, want int", got)
	}
}

// S6: overload candidates (int -> int), (real -> real); arg unified with
// int fires the int->int candidate and binds the result variable to int.
func TestS6OverloadResolution(t *testing.T) {
	ws := NewWorkspace()
	arg := ws.Var("A")
	result := ws.Var("R")
	intA, realA := ws.Atom("int"), ws.Atom("real")

	fired := false
	constraint := NewConstraint(arg, []Candidate{
		{ArgTerm: intA, Action: func(actualArg, candidateArgTerm Term, emit func(l, r Term)) {
			fired = true
			emit(actualArg, candidateArgTerm)
			emit(result, intA)
		}},
		{ArgTerm: realA, Action: func(actualArg, candidateArgTerm Term, emit func(l, r Term)) {
			fired = true
			emit(actualArg, candidateArgTerm)
			emit(result, realA)
		}},
	})

	sub := mustUnify(t, []Equation{
		{L: arg, R: intA},
	}, []*Constraint{constraint})

	if !fired {
		t.Fatal("expected an overload candidate to fire")
	}
	if got, _ := sub.Get("R"); got == nil || got.termString() != "int" {
		t.Errorf("R = %v, want int", got)
	}
}

// A constraint narrowed to zero candidates fails with
// ConstraintExhaustedError.
func TestConstraintExhausted(t *testing.T) {
	ws := NewWorkspace()
	arg := ws.Var("A")
	intA, realA, boolA := ws.Atom("int"), ws.Atom("real"), ws.Atom("bool")

	constraint := NewConstraint(arg, []Candidate{
		{ArgTerm: intA, Action: Equiv},
		{ArgTerm: realA, Action: Equiv},
	})

	_, err := Unify([]Equation{
		{L: arg, R: boolA},
	}, nil, []*Constraint{constraint}, nil)

	if _, ok := err.(*ConstraintExhaustedError); !ok {
		t.Fatalf("expected *ConstraintExhaustedError, got %T (%v)", err, err)
	}
}

// A variable bound twice to structurally different terms still converges
// via the "chain of equivalences" path (spec.md §4.4).
func TestVariableChainConvergence(t *testing.T) {
	ws := NewWorkspace()
	x, y, z := ws.Var("X"), ws.Var("Y"), ws.Var("Z")
	intA := ws.Atom("int")

	sub := mustUnify(t, []Equation{
		{L: x, R: y},
		{L: y, R: z},
		{L: z, R: intA},
	}, nil)

	for _, name := range []string{"X", "Y", "Z"} {
		got, ok := sub.Get(name)
		if !ok || got.termString() != "int" {
			t.Errorf("%s = %v, want int", name, got)
		}
	}
}

// termActions fire exactly once, when their variable is bound.
func TestTermAction(t *testing.T) {
	ws := NewWorkspace()
	x := ws.Var("X")
	intA := ws.Atom("int")

	calls := 0
	actions := map[string]TermAction{
		"X": func(v *Variable, term Term, sub *Substitution, emit func(l, r Term)) {
			calls++
		},
	}

	_, err := Unify([]Equation{{L: x, R: intA}}, actions, nil, nil)
	if err != nil {
		t.Fatalf("Unify failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("action called %d times, want 1", calls)
	}
}

// DELETE equations (t = t) are simply dropped, not treated as bindings.
func TestDeleteEquation(t *testing.T) {
	ws := NewWorkspace()
	intA := ws.Atom("int")

	sub := mustUnify(t, []Equation{{L: intA, R: intA}}, nil)
	if sub.Len() != 0 {
		t.Errorf("expected no bindings from a trivial equation, got %d", sub.Len())
	}
}
