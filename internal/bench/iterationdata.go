package bench

import "time"

// ProfilerResult is the opaque per-iteration output of one ProfilerHook.
type ProfilerResult struct {
	Name string
	Data map[string]any
}

// IterationData is the result of one warmup or measurement iteration.
type IterationData struct {
	Duration        time.Duration
	OperationCounts []uint64
	ProfilerResults []ProfilerResult
	Status          IterationStatus
	FailureReason   string
	Warmup          bool
	BenchmarkType   BenchmarkType
}

// Result folds this iteration's per-thread operation counts into a Result
// against this iteration's own wall-clock duration, without applying the
// BenchmarkType's Combine rule. The coordinator sums these per-iteration
// Results over the measurement iterations to produce the run's Result.
func (d IterationData) Result() Result {
	var sum uint64
	for _, c := range d.OperationCounts {
		sum += c
	}
	return Result{Operations: sum, Time: d.Duration}
}

// PerThreadResults expands OperationCounts into one Result per thread, each
// timed against the iteration's overall duration (the coordinator's timer,
// not a per-thread self-timer, per SPEC_FULL.md §4.3).
func (d IterationData) PerThreadResults() []Result {
	out := make([]Result, len(d.OperationCounts))
	for i, c := range d.OperationCounts {
		out[i] = Result{Operations: c, Time: d.Duration}
	}
	return out
}
