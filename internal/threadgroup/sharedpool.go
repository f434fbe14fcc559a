package threadgroup

import (
	"sync"

	"github.com/google/uuid"
)

// sharedWorkerRegistry is the process-wide pool backing
// bench.ExecutorSharedForkJoin: a set of worker labels that outlive any one
// Runner. It never shrinks — SPEC_FULL.md §4.3 requires the shared pool to
// survive across benchmark methods within one process, the same contract
// JMH's SHARED_FJP_SINGLE_UTILS gives Fork/Join's commonPool(). Grounded on
// node/gosafe.WorkerManager's registration-by-id pattern in the teacher
// repo, adapted here to a grow-only set of labels: reserve adds labels
// when a run asks for more than exist and nothing ever removes them — the
// registry only hands out stable identity labels, it does not manage
// actual OS threads.
type sharedWorkerRegistry struct {
	mu      sync.Mutex
	workers []string
}

var sharedRegistry = &sharedWorkerRegistry{}

// reserve returns n worker labels, growing the shared pool if it doesn't
// yet have enough. Labels already in the pool are reused across calls.
func (r *sharedWorkerRegistry) reserve(n int) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	for len(r.workers) < n {
		r.workers = append(r.workers, uuid.NewString())
	}
	out := make([]string, n)
	copy(out, r.workers[:n])
	return out
}

// release is a deliberate no-op: the shared pool is never shut down.
func (r *sharedWorkerRegistry) release([]string) {}
