// Package registry is the runtime StateRegistry: the mapping from
// (scope, group, thread) to state instance that generated stubs populate
// via GetOrInit* (SPEC_FULL.md §4.4). It owns no teardown logic — teardown
// stays inline in the generator's helper blocks so ordering is preserved.
package registry

import "sync"

// OnceSlot lazily constructs and publishes a single instance under a
// double-checked lock, the idiomatic Go stand-in for JMH's
// synchronized-null-check singleton (SPEC_FULL.md §9: "map onto the target
// language's idiomatic once-initialization primitive").
type OnceSlot struct {
	once sync.Once
	val  any
	err  error
	done bool
	mu   sync.Mutex
}

// GetOrInit runs factory at most once and returns its (cached) result on
// every call. Publication of val happens-before any subsequent read, per
// sync.Once's documented guarantee (SPEC_FULL.md §5).
func (s *OnceSlot) GetOrInit(factory func() (any, error)) (any, error) {
	s.once.Do(func() {
		s.val, s.err = factory()
		s.mu.Lock()
		s.done = true
		s.mu.Unlock()
	})
	return s.val, s.err
}

// Initialized reports whether factory has already run and succeeded — the
// gate Trial-level Teardown uses to find which instances actually exist to
// tear down, since Trial-level Setup runs embedded in construction rather
// than through a separate guard.
func (s *OnceSlot) Initialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done && s.err == nil
}

// Value returns the constructed instance, or nil if none was ever
// published. Callers check Initialized first.
func (s *OnceSlot) Value() any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.val
}
