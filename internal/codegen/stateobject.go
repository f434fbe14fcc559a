// Package codegen is the StubGenerator: it turns a validated
// descriptor.BenchmarkDescriptor into a runnable codegen.BenchmarkStub
// (SPEC_FULL.md §4.1). Two front ends share this one ordering/validation
// core: EmitSource renders Go source text for a build-time stub package,
// Generator.Generate returns a BenchmarkStub wired directly against user
// code for in-process use — grounded on StateObjectHandler/BaseMicroBenchmarkHandler
// in original_source/jmh-core, adapted since Go has no annotation
// processor to hang a source-generation phase off of.
package codegen

import (
	"sort"

	"github.com/colorfulnotion/jamhbench/internal/bench"
)

// StateObject is the generator's internal handle for one bound parameter:
// the original state type, its assigned padded wrapper name, the scope it
// binds at, and the field/local identifiers the emitted or in-process stub
// uses to refer to it. Mirrors StateObjectHandler.StateObject.
type StateObject struct {
	Type            string
	PaddedType      string
	Scope           bench.Scope
	FieldIdentifier string
	LocalIdentifier string
}

// IDComparator orders StateObjects by FieldIdentifier, mirroring
// StateObjectHandler.ID_COMPARATOR. Helper blocks are always walked in this
// order so generated output is byte-stable for a fixed descriptor.
func IDComparator(a, b StateObject) bool {
	return a.FieldIdentifier < b.FieldIdentifier
}

// SortStateObjects returns a copy of objs ordered by IDComparator.
func SortStateObjects(objs []StateObject) []StateObject {
	out := make([]StateObject, len(objs))
	copy(out, objs)
	sort.Slice(out, func(i, j int) bool { return IDComparator(out[i], out[j]) })
	return out
}
