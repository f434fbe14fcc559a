// Package descriptor holds BenchmarkDescriptor, the record the build-time
// front-end resolves from source annotations and hands to the
// StubGenerator (SPEC_FULL.md §3, §6). The core never parses annotations
// itself; it only consumes this already-resolved shape.
package descriptor

import (
	"fmt"
	"sort"

	"github.com/colorfulnotion/jamhbench/internal/bench"
)

// ParamBinding is one benchmark-method parameter: a state type and the
// scope it should be bound at.
type ParamBinding struct {
	StateType string
	Scope     bench.Scope
}

// HelperMethod is one Setup or Teardown method declared on a state type
// (or inherited from an ancestor type — the front-end has already flattened
// the inheritance walk, per SPEC_FULL.md §9).
type HelperMethod struct {
	Name  string
	Level bench.Level
	Kind  bench.HelperKind
}

// BenchmarkDescriptor is what the StubGenerator consumes.
type BenchmarkDescriptor struct {
	MethodName     string
	OwnerType      string
	BenchmarkTypes []bench.BenchmarkType
	Parameters     []ParamBinding
	// Helpers is keyed by StateType and includes every helper method
	// discovered transitively, including ones inherited from ancestor
	// types (SPEC_FULL.md §9: "do not re-implement class-hierarchy
	// traversal in the core").
	Helpers map[string][]HelperMethod
}

// FullName is the "<owner>.<method>" identifier used in BenchmarkList.
func (d *BenchmarkDescriptor) FullName() string {
	return d.OwnerType + "." + d.MethodName
}

// Validate checks the invariants BenchmarkDescriptor must satisfy before
// the StubGenerator can process it (SPEC_FULL.md §3 invariants a-c):
// duplicate Benchmark/Group-scoped parameters of the same type are
// rejected; Thread-scoped parameters may repeat freely.
func (d *BenchmarkDescriptor) Validate() error {
	if d.MethodName == "" || d.OwnerType == "" {
		return fmt.Errorf("descriptor: method_name and owner_type are required")
	}
	seen := make(map[string]bool)
	for _, p := range d.Parameters {
		if p.Scope == bench.ScopeThread {
			continue
		}
		key := fmt.Sprintf("%s@%s", p.StateType, p.Scope)
		if seen[key] {
			return fmt.Errorf("descriptor: %s: duplicate %s-scoped parameter of type %s",
				d.FullName(), p.Scope, p.StateType)
		}
		seen[key] = true
	}
	return nil
}

// HelpersFor returns the helper methods declared on stateType, sorted into
// declared-source order as supplied by the front end (the slice order in
// Helpers is preserved; this accessor exists so callers don't reach into
// the map directly and risk mutating it).
func (d *BenchmarkDescriptor) HelpersFor(stateType string) []HelperMethod {
	return d.Helpers[stateType]
}

// StateTypes returns the distinct state types referenced by Parameters, in
// first-encounter order (used by the generator for deterministic walks).
func (d *BenchmarkDescriptor) StateTypes() []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range d.Parameters {
		if !seen[p.StateType] {
			seen[p.StateType] = true
			out = append(out, p.StateType)
		}
	}
	return out
}

// SortedStateTypes returns StateTypes in lexicographic order, used
// wherever the determinism contract (SPEC_FULL.md §4.1) requires a sorted
// walk rather than first-encounter order.
func (d *BenchmarkDescriptor) SortedStateTypes() []string {
	out := d.StateTypes()
	sort.Strings(out)
	return out
}
