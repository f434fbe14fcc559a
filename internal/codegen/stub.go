package codegen

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/colorfulnotion/jamhbench/internal/bench"
	"github.com/colorfulnotion/jamhbench/internal/descriptor"
	"github.com/colorfulnotion/jamhbench/internal/registry"
)

// StateFactory constructs a fresh, zero-value instance of a state type. The
// front end registers one per state type name — the Go stand-in for
// "clazz.newInstance()" in the original processor, since Go has no
// reflective no-arg constructor call for an arbitrary named type.
type StateFactory func() (any, error)

// InvokeFunc is the measured benchmark body. owner is the benchmark
// method's receiver instance, resolved once per stub through its
// InstanceProvider (nil if none was configured). states holds the
// tryInit'd state instances in descriptor.Parameters order. Operations, if
// nonzero, tells the runner how many logical operations this single call
// performed (batched benchmarks); zero means "one".
type InvokeFunc func(owner any, loop *bench.Loop, states []any) (bench.Result, error)

// BenchmarkStub is what BaseMicroBenchmarkHandler generated per annotated
// method: the ordered helper blocks for every (level, kind) pair, plus the
// measured call itself. threadgroup.Runner drives it; codegen never touches
// goroutines or barriers directly.
type BenchmarkStub struct {
	Descriptor *descriptor.BenchmarkDescriptor
	States     []StateObject
	Invoke     InvokeFunc

	factories map[string]StateFactory
	reg       *registry.Registry
	owner     InstanceProvider

	trialTeardownOnce sync.Once

	trialTeardown      []HelperInvocation
	iterationSetup     []HelperInvocation
	iterationTeardown  []HelperInvocation
	invocationSetup    []HelperInvocation
	invocationTeardown []HelperInvocation
}

func newStub(d *descriptor.BenchmarkDescriptor, states []StateObject, factories map[string]StateFactory, body InvokeFunc, owner InstanceProvider) *BenchmarkStub {
	return &BenchmarkStub{
		Descriptor: d,
		States:     states,
		Invoke:     body,
		factories:  factories,
		reg:        registry.New(),
		owner:      owner,

		// Trial-level Setup is embedded in tryInit_ (see Bind below) and
		// fires exactly once per relevant scope on first construction, so
		// there is no separate trialSetup block here. Trial-level
		// Teardown is fired once at run end by RunTrialTeardown, gated on
		// which instances the registry shows were actually constructed
		// rather than on any Setup/Teardown guard.
		trialTeardown:      HelperBlock(d, states, bench.LevelTrial, bench.HelperTeardown),
		iterationSetup:     HelperBlock(d, states, bench.LevelIteration, bench.HelperSetup),
		iterationTeardown:  HelperBlock(d, states, bench.LevelIteration, bench.HelperTeardown),
		invocationSetup:    HelperBlock(d, states, bench.LevelInvocation, bench.HelperSetup),
		invocationTeardown: HelperBlock(d, states, bench.LevelInvocation, bench.HelperTeardown),
	}
}

// OwnerInstance resolves the benchmark method's receiver through the
// stub's InstanceProvider. Eager providers already hold their instance;
// Lazy providers construct it on this call's first arrival and cache it
// for every subsequent worker. Returns (nil, nil) if the stub was built
// without an owner (the common case: most state objects in this codebase
// double as their own receiver, as in the demo suite).
func (s *BenchmarkStub) OwnerInstance() (any, error) {
	if s.owner == nil {
		return nil, nil
	}
	return s.owner.Get()
}

// Bind performs tryInit_ for every state object relevant to (threadSlot,
// groupID): Benchmark-scoped instances are constructed once for the whole
// run, Group-scoped once per group, Thread-scoped once per worker slot.
// Construction runs each state's Level.Trial Setup helpers exactly once,
// on the call that actually builds it, then returns the bound instances in
// descriptor.Parameters order for use as Invoke's states argument.
func (s *BenchmarkStub) Bind(threadSlot, groupID int) ([]any, error) {
	out := make([]any, len(s.States))
	for i, so := range s.States {
		factory := s.factories[so.Type]
		construct := func() (any, error) {
			inst, err := factory()
			if err != nil {
				return nil, err
			}
			for _, h := range s.Descriptor.HelpersFor(so.Type) {
				if h.Level == bench.LevelTrial && h.Kind == bench.HelperSetup {
					if err := InvokeHelper(inst, h.Name); err != nil {
						return nil, err
					}
				}
			}
			return box(inst), nil
		}

		var (
			inst any
			err  error
		)
		switch so.Scope {
		case bench.ScopeBenchmark:
			inst, err = s.reg.GetOrInitBenchmark(so.FieldIdentifier, construct)
		case bench.ScopeGroup:
			inst, err = s.reg.GetOrInitGroup(so.FieldIdentifier, groupID, construct)
		default: // ScopeThread
			inst, err = s.reg.GetOrInitThread(so.FieldIdentifier, threadSlot, construct)
		}
		if err != nil {
			return nil, &GenerationError{Benchmark: s.Descriptor.FullName(), Err: err}
		}
		out[i] = unbox(inst)
	}
	return out, nil
}

// RunIterationSetup runs the Iteration-level Setup block for (threadSlot,
// groupID). Called once per worker before it crosses the start barrier, so
// the work never lands inside the measured window.
func (s *BenchmarkStub) RunIterationSetup(threadSlot, groupID int) error {
	return s.runBlock(s.iterationSetup, threadSlot, groupID)
}

// RunIterationTeardown runs the Iteration-level Teardown block, called once
// per worker after it crosses the end barrier.
func (s *BenchmarkStub) RunIterationTeardown(threadSlot, groupID int) error {
	return s.runBlock(s.iterationTeardown, threadSlot, groupID)
}

// RunInvocationSetup/RunInvocationTeardown wrap a single measured call.
// These sit inside the measured window by design — invariant 3 in
// SPEC_FULL.md §8 expects Invocation-level helpers to be attributable to
// the iteration they ran in.
func (s *BenchmarkStub) RunInvocationSetup(threadSlot, groupID int) error {
	return s.runBlock(s.invocationSetup, threadSlot, groupID)
}

func (s *BenchmarkStub) RunInvocationTeardown(threadSlot, groupID int) error {
	return s.runBlock(s.invocationTeardown, threadSlot, groupID)
}

// RunTrialTeardown runs every state object's Level.Trial Teardown helpers
// exactly once, at the very end of the run, against every instance that was
// actually constructed: the single instance for a Benchmark-scoped field,
// one instance per group actually bound for a Group-scoped field, one
// instance per worker slot actually bound for a Thread-scoped field. A
// state that was never constructed (e.g. a benchmark that errored before
// binding) never has its teardown invoked either.
//
// This does not reuse runBlock's Setup/Teardown guard toggle: Trial-level
// Setup runs embedded in construction (see Bind's construct closure) and
// never flips that guard, so gating Teardown on it would mean Teardown
// could never fire. Gating on "was this instance actually constructed"
// instead is both correct and simpler. RunTrialTeardown itself only runs
// once regardless of how many times it's called, matching the guarantee
// callers (IterationCoordinator) rely on.
func (s *BenchmarkStub) RunTrialTeardown() error {
	var runErr error
	s.trialTeardownOnce.Do(func() {
		for _, inv := range s.trialTeardown {
			var instances []any
			switch inv.State.Scope {
			case bench.ScopeBenchmark:
				if inst, ok := s.reg.BenchmarkInstance(inv.State.FieldIdentifier); ok {
					instances = append(instances, inst)
				}
			case bench.ScopeGroup:
				instances = s.reg.GroupInstances(inv.State.FieldIdentifier)
			default: // ScopeThread
				instances = s.reg.ThreadInstances(inv.State.FieldIdentifier)
			}
			for _, inst := range instances {
				if err := InvokeHelper(unbox(inst), inv.Helper.Name); err != nil {
					runErr = &GenerationError{Benchmark: s.Descriptor.FullName(), Err: err}
					return
				}
			}
		}
	})
	return runErr
}

// runBlock executes Iteration- and Invocation-level invocations in order,
// called once per worker per iteration. Thread-scoped invocations always
// run (no guard: only the owning worker calls this). Benchmark/Group
// invocations are gated by a registry guard so a Setup/Teardown broadcast
// from every worker actually fires once. RunTrialTeardown does not use this
// path — see its own comment.
func (s *BenchmarkStub) runBlock(block []HelperInvocation, threadSlot, groupID int) error {
	for _, inv := range block {
		var proceed bool
		switch inv.State.Scope {
		case bench.ScopeThread:
			proceed = true
		default:
			key := registry.GuardKey(inv.State.Scope, inv.State.FieldIdentifier, inv.Helper.Level, groupID)
			if inv.Helper.Kind == bench.HelperSetup {
				proceed = s.reg.MarkSetup(key)
			} else {
				proceed = s.reg.MarkTeardown(key)
			}
		}
		if !proceed {
			continue
		}
		inst, err := s.instanceFor(inv.State, threadSlot, groupID)
		if err != nil {
			return &GenerationError{Benchmark: s.Descriptor.FullName(), Err: err}
		}
		if err := InvokeHelper(unbox(inst), inv.Helper.Name); err != nil {
			return &GenerationError{Benchmark: s.Descriptor.FullName(), Err: err}
		}
	}
	return nil
}

// instanceFor fetches an already-bound instance; it never constructs one,
// since Bind is required to have run first for (threadSlot, groupID).
func (s *BenchmarkStub) instanceFor(so StateObject, threadSlot, groupID int) (any, error) {
	construct := func() (any, error) {
		return nil, fmt.Errorf("state %s used before Bind", so.FieldIdentifier)
	}
	switch so.Scope {
	case bench.ScopeBenchmark:
		return s.reg.GetOrInitBenchmark(so.FieldIdentifier, construct)
	case bench.ScopeGroup:
		return s.reg.GetOrInitGroup(so.FieldIdentifier, groupID, construct)
	default:
		return s.reg.GetOrInitThread(so.FieldIdentifier, threadSlot, construct)
	}
}

// InvokeHelper calls a zero-argument, no-return (or single error-return)
// helper method by name via reflection — the one deliberate use of
// reflection in the core, standing in for the annotation processor's
// compile-time knowledge of the exact method to call (SPEC_FULL.md §7.2).
// Exported because generated stub source (see EmitSource) also needs it:
// a generated wrapper's fields hold state instances behind a StateType that
// is only ever a logical "owner.Type" string, never a real importable Go
// type, so the generated helper-call sequence dispatches through this same
// reflection path rather than a direct, statically typed method call.
func InvokeHelper(recv any, name string) error {
	v := reflect.ValueOf(recv)
	m := v.MethodByName(name)
	if !m.IsValid() {
		return fmt.Errorf("helper method %s not found on %T", name, recv)
	}
	results := m.Call(nil)
	if len(results) == 1 {
		if err, ok := results[0].Interface().(error); ok && err != nil {
			return err
		}
	}
	return nil
}
