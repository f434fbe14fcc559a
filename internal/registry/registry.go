package registry

import (
	"fmt"
	"sync"

	"github.com/colorfulnotion/jamhbench/internal/bench"
)

// Registry is the three-way StateRegistry partition described in
// SPEC_FULL.md §4.4: Benchmark-scoped state is one slot shared by the whole
// run, Group-scoped state is one slot per thread-group id, Thread-scoped
// state is one entry per worker slot index. All three partitions share the
// registry mutex for their map lookups; Thread-scoped entries have no
// per-slot once-guard, since only the owning worker touches its own entry.
//
// Registry additionally tracks the per-level init guards that Benchmark-
// and Group-scoped helper blocks consult so Setup/Teardown run exactly once
// per level-cycle despite being invoked from every worker (SPEC_FULL.md
// §4.1, invariant 1). Thread-scoped helpers need no guard: only the owning
// worker ever calls them.
type Registry struct {
	mu sync.Mutex

	benchSlots map[string]*OnceSlot
	groupSlots map[string]map[int]*OnceSlot
	threadVals map[string]map[int]any

	guards map[string]bool
}

// New returns an empty Registry, one per run.
func New() *Registry {
	return &Registry{
		benchSlots: make(map[string]*OnceSlot),
		groupSlots: make(map[string]map[int]*OnceSlot),
		threadVals: make(map[string]map[int]any),
		guards:     make(map[string]bool),
	}
}

// GetOrInitBenchmark returns the single instance for a Benchmark-scoped
// field, constructing it on the first caller across the whole run.
func (r *Registry) GetOrInitBenchmark(field string, factory func() (any, error)) (any, error) {
	slot := r.benchSlot(field)
	return slot.GetOrInit(factory)
}

func (r *Registry) benchSlot(field string) *OnceSlot {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.benchSlots[field]
	if !ok {
		s = &OnceSlot{}
		r.benchSlots[field] = s
	}
	return s
}

// GetOrInitGroup returns the single instance for a Group-scoped field
// within groupID, constructing it on the first caller in that group.
func (r *Registry) GetOrInitGroup(field string, groupID int, factory func() (any, error)) (any, error) {
	slot := r.groupSlot(field, groupID)
	return slot.GetOrInit(factory)
}

func (r *Registry) groupSlot(field string, groupID int) *OnceSlot {
	r.mu.Lock()
	defer r.mu.Unlock()
	byGroup, ok := r.groupSlots[field]
	if !ok {
		byGroup = make(map[int]*OnceSlot)
		r.groupSlots[field] = byGroup
	}
	s, ok := byGroup[groupID]
	if !ok {
		s = &OnceSlot{}
		byGroup[groupID] = s
	}
	return s
}

// GetOrInitThread returns the instance owned by threadSlot for field,
// constructing it on first access. Like the Benchmark/Group paths it takes
// the registry lock for the lookup and again to install the value (workers
// may bind concurrently at worker startup); the factory itself runs outside
// the lock and without a once-guard. Every later call for the same
// (field, threadSlot) pair returns the stored value under that same lock.
func (r *Registry) GetOrInitThread(field string, threadSlot int, factory func() (any, error)) (any, error) {
	r.mu.Lock()
	byThread, ok := r.threadVals[field]
	if !ok {
		byThread = make(map[int]any)
		r.threadVals[field] = byThread
	}
	if v, ok := byThread[threadSlot]; ok {
		r.mu.Unlock()
		return v, nil
	}
	r.mu.Unlock()

	v, err := factory()
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	byThread[threadSlot] = v
	r.mu.Unlock()
	return v, nil
}

// BenchmarkInstance returns the constructed Benchmark-scoped instance for
// field, if construction has actually happened. Used by Trial-level
// Teardown, which must run against real instances rather than the
// Setup/Teardown guard toggle (Trial-level Setup never touches that guard —
// it runs embedded in construction, see BenchmarkStub.Bind).
func (r *Registry) BenchmarkInstance(field string) (any, bool) {
	r.mu.Lock()
	slot, ok := r.benchSlots[field]
	r.mu.Unlock()
	if !ok || !slot.Initialized() {
		return nil, false
	}
	return slot.Value(), true
}

// GroupInstances returns the constructed Group-scoped instance for field in
// every group that was ever bound. Used by Trial-level Teardown so every
// group actually constructed during the run gets torn down, not just
// group 0.
func (r *Registry) GroupInstances(field string) []any {
	r.mu.Lock()
	byGroup := r.groupSlots[field]
	slots := make([]*OnceSlot, 0, len(byGroup))
	for _, s := range byGroup {
		slots = append(slots, s)
	}
	r.mu.Unlock()

	out := make([]any, 0, len(slots))
	for _, s := range slots {
		if s.Initialized() {
			out = append(out, s.Value())
		}
	}
	return out
}

// ThreadInstances returns the constructed Thread-scoped instance for field
// on every worker slot that was ever bound. Used by Trial-level Teardown so
// every worker's instance is torn down once, rather than looking up a
// sentinel slot that Bind never populates.
func (r *Registry) ThreadInstances(field string) []any {
	r.mu.Lock()
	defer r.mu.Unlock()
	byThread := r.threadVals[field]
	out := make([]any, 0, len(byThread))
	for _, v := range byThread {
		out = append(out, v)
	}
	return out
}

// MarkSetup flips the named guard from false to true and reports whether
// this call was the one that did so (i.e. whether the caller should
// actually run the Setup helper). Used for Benchmark/Group-scoped Setup at
// Iteration/Invocation level.
func (r *Registry) MarkSetup(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.guards[key] {
		return false
	}
	r.guards[key] = true
	return true
}

// MarkTeardown flips the named guard from true to false and reports
// whether this call was the one that did so.
func (r *Registry) MarkTeardown(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.guards[key] {
		return false
	}
	r.guards[key] = false
	return true
}

// GuardKey builds the guard identity for a Benchmark/Group-scoped helper at
// a given level. groupID is ignored (pass 0) for Benchmark scope.
func GuardKey(scope bench.Scope, field string, level bench.Level, groupID int) string {
	if scope == bench.ScopeGroup {
		return fmt.Sprintf("grp|%s|%d|%s", field, groupID, level)
	}
	return fmt.Sprintf("bm|%s|%s", field, level)
}
