// Package coreconfig holds small package-level flags that the core consults
// purely for display purposes. Nothing here changes inference or
// unification behavior, only how volatile names are rendered.
package coreconfig

// DeterministicNames, when set, makes unify.Bridge name the unifier
// variable for a type variable after its 'a-style display name (the form
// Type.String() uses) instead of "T{ordinal}", so traces and test
// assertions read the same at both layers. No String() method reads it.
// Mirrors the teacher's IsTestMode/IsLSPMode display-only toggles.
var DeterministicNames = false
