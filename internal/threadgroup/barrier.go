// Package threadgroup drives the worker fan-out for one benchmark run:
// thread-group dispatch, executor strategy selection, and the barrier
// protocol that delimits the measured window. Grounded on
// bmt/merkle.UpdatePool and node/gosafe.WorkerManager in the teacher repo
// for worker lifecycle shape, and on
// BaseMicroBenchmarkHandler/ThreadGroupRunner in original_source/jmh-core
// for the barrier and shutdown protocol itself.
package threadgroup

import "sync"

// cyclicBarrier is an N-way barrier that resets automatically once every
// party has arrived, so the same instance can be reused iteration after
// iteration. No dependency in the example pack ships a reusable barrier
// (SPEC_FULL.md §7.2), so this is built directly on sync.Mutex/sync.Cond —
// the idiomatic Go primitive for exactly this problem.
type cyclicBarrier struct {
	mu      sync.Mutex
	cond    *sync.Cond
	parties int
	count   int
	gen     int
}

func newCyclicBarrier(parties int) *cyclicBarrier {
	b := &cyclicBarrier{parties: parties}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// await blocks until `parties` goroutines have called it in this round,
// then releases them all and starts a fresh round. It reports true for
// exactly one caller per round — the one whose arrival completed it — so
// that caller can time-stamp "everyone is here" without a second
// synchronization point.
func (b *cyclicBarrier) await() (isLast bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	gen := b.gen
	b.count++
	if b.count == b.parties {
		b.count = 0
		b.gen++
		b.cond.Broadcast()
		return true
	}
	for gen == b.gen {
		b.cond.Wait()
	}
	return false
}
