package unify

// Tracer receives notifications of the unifier's internal steps. Every
// method may be a no-op (see NoopTracer); a tracer is never consulted for
// control flow, only for observability.
type Tracer interface {
	// OnBind is called when a variable is committed to a term.
	OnBind(v *Variable, t Term)
	// OnDecompose is called before a SEQ_SEQ equation is split into its
	// per-argument child equations.
	OnDecompose(lhs, rhs *Sequence)
	// OnConflict is called when two sequences cannot be decomposed.
	OnConflict(lhs, rhs Term)
	// OnNarrow is called after every narrowing round of an unresolved
	// constraint, with the number of candidates left, whether or not the
	// round removed any.
	OnNarrow(arg Term, remaining int)
	// OnFire is called when a constraint narrows to exactly one candidate
	// and its action is invoked.
	OnFire(arg Term, candidate Term)
}

// NoopTracer discards every event. It is the default tracer when the
// caller passes nil.
type NoopTracer struct{}

func (NoopTracer) OnBind(*Variable, Term)       {}
func (NoopTracer) OnDecompose(*Sequence, *Sequence) {}
func (NoopTracer) OnConflict(Term, Term)        {}
func (NoopTracer) OnNarrow(Term, int)           {}
func (NoopTracer) OnFire(Term, Term)            {}

// traceEvent is one recorded call, for RecordingTracer's introspection in
// tests and diagnostics.
type traceEvent struct {
	Kind string
	Data []string
}

// RecordingTracer appends every event to Events, in order, for assertions
// in tests without having to stub out a whole interface per test.
type RecordingTracer struct {
	Events []traceEvent
}

func NewRecordingTracer() *RecordingTracer { return &RecordingTracer{} }

func (r *RecordingTracer) OnBind(v *Variable, t Term) {
	r.Events = append(r.Events, traceEvent{Kind: "bind", Data: []string{v.termString(), t.termString()}})
}

func (r *RecordingTracer) OnDecompose(lhs, rhs *Sequence) {
	r.Events = append(r.Events, traceEvent{Kind: "decompose", Data: []string{lhs.termString(), rhs.termString()}})
}

func (r *RecordingTracer) OnConflict(lhs, rhs Term) {
	r.Events = append(r.Events, traceEvent{Kind: "conflict", Data: []string{lhs.termString(), rhs.termString()}})
}

func (r *RecordingTracer) OnNarrow(arg Term, remaining int) {
	r.Events = append(r.Events, traceEvent{Kind: "narrow", Data: []string{arg.termString()}})
}

func (r *RecordingTracer) OnFire(arg Term, candidate Term) {
	r.Events = append(r.Events, traceEvent{Kind: "fire", Data: []string{arg.termString(), candidate.termString()}})
}
