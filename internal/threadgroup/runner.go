package threadgroup

import (
	"fmt"
	"sync"
	"time"

	"github.com/colorfulnotion/jamhbench/internal/bench"
	"github.com/colorfulnotion/jamhbench/internal/codegen"
	"github.com/colorfulnotion/jamhbench/internal/jlog"
)

// stuckWorkerTimeout bounds how long RunIteration waits for every worker to
// finish before giving up on them, per SPEC_FULL.md §5: "if a worker is
// stuck in a blocking call inside user code, the coordinator waits up to a
// bounded timeout, then logs and abandons."
const stuckWorkerTimeout = 30 * time.Second

// Runner owns the persistent worker-slot identity (0..MaxThreads-1) for one
// benchmark run and drives one iteration at a time through the barrier
// protocol. Worker slots are logical, not tied to any one goroutine: each
// RunIteration call spawns fresh goroutines for that iteration, and
// Thread-scoped state survives across iterations because it lives in the
// stub's Registry, keyed by slot index, not by goroutine identity.
type Runner struct {
	cfg     bench.Config
	stub    *codegen.BenchmarkStub
	control *bench.Control
	groups  []int
	pool    *pool
	log     jlog.Logger
}

// NewRunner prepares a Runner for cfg's thread-group layout and executor
// strategy. It does not start any goroutines; call RunIteration once per
// warmup/measurement iteration and Shutdown when the run is complete.
func NewRunner(cfg bench.Config, stub *codegen.BenchmarkStub, control *bench.Control) *Runner {
	groups := cfg.NormalizedThreadGroups()
	return &Runner{
		cfg:     cfg,
		stub:    stub,
		control: control,
		groups:  groups,
		pool:    newPool(cfg.ExecutorType, cfg.MaxThreads),
		log:     jlog.Root(),
	}
}

// RunIteration drives one full iteration: every worker slot binds its
// state (a no-op after the first call), runs Iteration-level Setup off the
// clock, crosses the start barrier, repeatedly runs Invocation-level Setup
// / the measured body / Invocation-level Teardown until the shared Control
// says stop, crosses the end barrier, then runs Iteration-level Teardown
// off the clock. It returns each slot's observed operation count and the
// measured duration — strictly the span between every worker crossing the
// start barrier and every worker crossing the end barrier, excluding
// Bind and Iteration-level Setup/Teardown, which always run off the clock.
func (r *Runner) RunIteration() ([]uint64, time.Duration, error) {
	n := r.cfg.MaxThreads
	startBarrier := newCyclicBarrier(n)
	endBarrier := newCyclicBarrier(n)
	opCounts := make([]uint64, n)

	var mu sync.Mutex
	var firstErr error
	var start time.Time
	var elapsed time.Duration
	record := func(err error) {
		if err == nil {
			return
		}
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	done := make(chan error, 1)
	go func() {
		done <- r.pool.run(func(slot int) error {
			groupID := bench.GroupForThread(r.groups, slot)
			tp := bench.ThreadParams{
				ThreadID:         slot,
				ThreadGroupID:    groupID,
				ThreadGroupCount: r.groups[groupID],
				GroupThreadIndex: bench.GroupThreadIndex(r.groups, slot),
			}

			states, err := r.stub.Bind(slot, groupID)
			if err != nil {
				record(err)
				startBarrier.await()
				endBarrier.await()
				return err
			}
			owner, err := r.stub.OwnerInstance()
			if err != nil {
				record(err)
				startBarrier.await()
				endBarrier.await()
				return err
			}

			if err := r.stub.RunIterationSetup(slot, groupID); err != nil {
				record(err)
			}

			if last := startBarrier.await(); last {
				mu.Lock()
				start = time.Now()
				mu.Unlock()
			}

			loop := bench.NewBatchLoop(r.control, tp, r.batchBudget())
			for loop.KeepGoing() {
				if err := r.stub.RunInvocationSetup(slot, groupID); err != nil {
					record(err)
					break
				}
				res, err := r.stub.Invoke(owner, loop, states)
				if err != nil {
					record(err)
					_ = r.stub.RunInvocationTeardown(slot, groupID)
					break
				}
				if err := r.stub.RunInvocationTeardown(slot, groupID); err != nil {
					record(err)
					break
				}
				ops := res.Operations
				if ops == 0 {
					ops = 1
				}
				loop.RecordOps(ops)
			}
			opCounts[slot] = loop.Operations()

			if last := endBarrier.await(); last {
				mu.Lock()
				elapsed = time.Since(start)
				mu.Unlock()
			}

			if err := r.stub.RunIterationTeardown(slot, groupID); err != nil {
				record(err)
			}
			return nil
		})
	}()

	select {
	case err := <-done:
		if err != nil {
			record(err)
		}
	case <-time.After(stuckWorkerTimeout):
		r.log.Warn(jlog.ThreadGroup, "abandoning iteration: workers did not finish within timeout",
			"timeout", stuckWorkerTimeout)
		return opCounts, 0, fmt.Errorf("threadgroup: iteration abandoned after %s", stuckWorkerTimeout)
	}

	mu.Lock()
	defer mu.Unlock()
	return opCounts, elapsed, firstErr
}

// batchBudget returns the per-worker operation budget for SingleShotTime
// runs (each worker performs exactly cfg.BatchSize invocations regardless
// of Control), or 0 (unbounded, Control-driven) for every other
// benchmark type.
func (r *Runner) batchBudget() uint64 {
	for _, bt := range r.cfg.BenchmarkTypes {
		if bt == bench.SingleShotTime {
			if r.cfg.BatchSize == 0 {
				return 1
			}
			return r.cfg.BatchSize
		}
	}
	return 0
}

// Shutdown releases the runner's executor slots, waiting up to a bounded
// timeout the way BaseMicroBenchmarkHandler.shutdownExecutor does, then
// logging a warning if the pool still hasn't quiesced. SharedForkJoin's
// slots are never actually released (see pool.shutdown).
func (r *Runner) Shutdown() {
	done := make(chan struct{})
	go func() {
		r.pool.shutdown()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		r.log.Warn(jlog.ThreadGroup, "executor did not shut down within 10s", "kind", r.cfg.ExecutorType)
	}
}
