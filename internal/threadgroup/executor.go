package threadgroup

import (
	"sync"

	"github.com/colorfulnotion/jamhbench/internal/bench"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// pool abstracts over the four executor strategies from SPEC_FULL.md §4.3.
// A run needs exactly MaxThreads worker slots for its lifetime regardless
// of strategy — Go's goroutine scheduler collapses the practical
// distinction the JVM draws between fixed/cached/fork-join thread pools.
// What the strategies still change observably: SharedForkJoin borrows
// slots from a process-wide registry and refuses to release them, and
// ForkJoin/SharedForkJoin propagate the first worker error instead of
// letting every worker run to completion regardless (errgroup semantics).
type pool struct {
	kind    bench.ExecutorType
	workers []string
}

func newPool(kind bench.ExecutorType, n int) *pool {
	p := &pool{kind: kind}
	if kind == bench.ExecutorSharedForkJoin {
		p.workers = sharedRegistry.reserve(n)
		return p
	}
	p.workers = make([]string, n)
	for i := range p.workers {
		p.workers[i] = uuid.NewString()
	}
	return p
}

// run launches fn once per worker slot, passing the slot index, and blocks
// until every call has returned.
func (p *pool) run(fn func(slot int) error) error {
	n := len(p.workers)
	if p.kind == bench.ExecutorForkJoin || p.kind == bench.ExecutorSharedForkJoin {
		var g errgroup.Group
		for i := 0; i < n; i++ {
			i := i
			g.Go(func() error { return fn(i) })
		}
		return g.Wait()
	}

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = fn(i)
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// shutdown releases the pool's worker slots. For SharedForkJoin this is a
// no-op: the pool is not owned by this run and must outlive it
// (SPEC_FULL.md §4.3).
func (p *pool) shutdown() {
	if p.kind == bench.ExecutorSharedForkJoin {
		sharedRegistry.release(p.workers)
		return
	}
	p.workers = nil
}
