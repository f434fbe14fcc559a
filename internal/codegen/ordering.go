package codegen

import (
	"github.com/colorfulnotion/jamhbench/internal/bench"
	"github.com/colorfulnotion/jamhbench/internal/descriptor"
)

// HelperInvocation pairs a bound StateObject with one of its helper
// methods, ready to be ordered into a block and invoked.
type HelperInvocation struct {
	State  StateObject
	Helper descriptor.HelperMethod
}

// HelperBlock returns the helper invocations for one (level, kind) pair, in
// the strict order SPEC_FULL.md §4.1 requires:
//
//	Setup:    Thread-scoped, then Benchmark-scoped, then Group-scoped.
//	Teardown: the reverse — Group-scoped, then Benchmark-scoped, then
//	          Thread-scoped.
//
// Within one scope, state objects are walked by IDComparator so the
// resulting sequence is byte-stable for a fixed descriptor. Thread-scoped
// helpers carry no synchronization guard: HelperBlock only decides order,
// the caller (codegen.BenchmarkStub) decides whether a given invocation
// actually runs this time.
func HelperBlock(d *descriptor.BenchmarkDescriptor, states []StateObject, level bench.Level, kind bench.HelperKind) []HelperInvocation {
	sorted := SortStateObjects(states)

	var scopeOrder []bench.Scope
	if kind == bench.HelperSetup {
		scopeOrder = []bench.Scope{bench.ScopeThread, bench.ScopeBenchmark, bench.ScopeGroup}
	} else {
		scopeOrder = []bench.Scope{bench.ScopeGroup, bench.ScopeBenchmark, bench.ScopeThread}
	}

	var out []HelperInvocation
	for _, scope := range scopeOrder {
		for _, so := range sorted {
			if so.Scope != scope {
				continue
			}
			for _, h := range d.HelpersFor(so.Type) {
				if h.Level == level && h.Kind == kind {
					out = append(out, HelperInvocation{State: so, Helper: h})
				}
			}
		}
	}
	return out
}
