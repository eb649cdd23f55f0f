package unify

import "fmt"

// ConflictError reports two sequences that cannot be decomposed against
// each other: different operators, or the same operator at different
// arities (spec.md §7, §4.4).
type ConflictError struct {
	LHS, RHS Term
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict: %s vs %s", e.LHS.termString(), e.RHS.termString())
}

// CycleError reports an occurs-check failure: Var occurs free inside Term
// itself, so no finite substitution can bind Var to it.
type CycleError struct {
	Var  *Variable
	Term Term
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cycle: %s occurs in %s", e.Var.Name, e.Term.termString())
}

// ConstraintExhaustedError reports that an overload constraint was
// narrowed to zero viable candidates.
type ConstraintExhaustedError struct {
	Arg Term
}

func (e *ConstraintExhaustedError) Error() string {
	return fmt.Sprintf("no overload candidate applies to %s", e.Arg.termString())
}
