package bench

import "sync/atomic"

// Control is the shared stop flag threaded through a benchmark run. It is
// single-writer (the IterationCoordinator), many-reader (the worker
// goroutines), and monotonic within its phases: WarmUp goes true->false
// exactly once per run and has no method to reverse it, while
// StopMeasurement goes false->true once per iteration and is cleared again
// only by Reset, which the coordinator calls at the start of each iteration.
type Control struct {
	stop   atomic.Bool
	warmUp atomic.Bool
}

// NewControl returns a Control in the warmup state with stop not yet set.
func NewControl() *Control {
	c := &Control{}
	c.warmUp.Store(true)
	return c
}

// StopMeasurement reports whether the coordinator has asked workers to stop.
func (c *Control) StopMeasurement() bool { return c.stop.Load() }

// SetStopMeasurement asks all workers to leave the measured region at their
// next loop check. Called only by the coordinator/runner.
func (c *Control) SetStopMeasurement() { c.stop.Store(true) }

// WarmUp reports whether the current iteration is a warmup iteration.
func (c *Control) WarmUp() bool { return c.warmUp.Load() }

// EndWarmUp transitions out of the warmup phase. Called once, between the
// last warmup iteration and the first measurement iteration.
func (c *Control) EndWarmUp() { c.warmUp.Store(false) }

// Reset clears StopMeasurement for the next iteration without touching
// WarmUp; used by the coordinator between iterations of the same phase.
func (c *Control) Reset() { c.stop.Store(false) }
