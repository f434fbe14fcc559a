package bench

// ThreadParams identifies a worker's position in the current run: its
// global thread id, which thread group it was assigned to (SPEC_FULL.md
// §3.1, grounded on JMH's ThreadParams), and its index within that group.
type ThreadParams struct {
	ThreadID         int
	ThreadGroupID    int
	ThreadGroupCount int
	GroupThreadIndex int
}

// Loop is handed to the benchmark body so it can report operations and
// cooperatively check Control. It wraps a per-thread operation counter and
// a reference to the shared Control flag; the harness sums operation
// counts across threads only after the end barrier (SPEC_FULL.md §5).
type Loop struct {
	control *Control
	thread  ThreadParams
	ops     uint64
	budget  uint64 // 0 means unbounded; used by SingleShotTime's batch mode
}

// NewLoop returns a Loop bound to control for the given thread, with no
// operation budget: it runs until Control says stop.
func NewLoop(control *Control, thread ThreadParams) *Loop {
	return &Loop{control: control, thread: thread}
}

// NewBatchLoop returns a Loop that also stops once it has recorded budget
// operations, regardless of Control. SingleShotTime benchmarks use this so
// one iteration means "exactly budget invocations", not "however many fit
// in a time window" (SPEC_FULL.md §4.2.1).
func NewBatchLoop(control *Control, thread ThreadParams, budget uint64) *Loop {
	return &Loop{control: control, thread: thread, budget: budget}
}

// KeepGoing reports whether the worker should keep invoking the benchmark
// body. It is the sole cooperative-stop check inside the measured region.
func (l *Loop) KeepGoing() bool {
	if l.budget != 0 && l.ops >= l.budget {
		return false
	}
	return !l.control.StopMeasurement()
}

// RecordOp increments this thread's local operation counter. Benchmark
// bodies that don't measure in units of "one call = one op" (e.g. batched
// work) may call it more than once per invocation.
func (l *Loop) RecordOp() { l.ops++ }

// RecordOps increments the local operation counter by n.
func (l *Loop) RecordOps(n uint64) { l.ops += n }

// Operations returns this thread's local operation count so far.
func (l *Loop) Operations() uint64 { return l.ops }

// ThreadParams returns this worker's thread/group identity.
func (l *Loop) ThreadParams() ThreadParams { return l.thread }

// Control returns the shared stop flag, for benchmark bodies that need to
// poll it directly inside a tight inner loop rather than per-invocation.
func (l *Loop) Control() *Control { return l.control }
