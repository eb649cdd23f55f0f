package coretypes

import "fmt"

// UnknownTypeError is returned by TypeSystem.Lookup when the requested
// name was never declared (spec.md §7).
type UnknownTypeError struct {
	Name string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown type: %s", e.Name)
}

// InvariantViolationError signals a genuine bug in the caller's use of a
// construction operation (e.g. a Forall whose declared arity does not
// match its body's free-variable count). It is fatal and never recovered
// (spec.md §7); it is still returned as an error value rather than a
// panic, so a caller can at least report it before aborting.
type InvariantViolationError struct {
	Message string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("invariant violation: %s", e.Message)
}

func invariantf(format string, args ...any) error {
	return &InvariantViolationError{Message: fmt.Sprintf(format, args...)}
}
