package bench

import "time"

// Result is a benchmark method's return contract: the operations it
// performed and the time it took. Combine merges the per-thread Results
// collected at the end barrier into a single run-level Result according to
// the BenchmarkType's aggregation rule; Rate turns that combined Result
// into the scalar score a report would print.
type Result struct {
	Operations uint64
	Time       time.Duration
}

// Combine merges per-thread Results according to bt's aggregation rule:
// Throughput/All sum operations and take the max per-thread time (the
// measured region ends when the slowest thread observes the stop flag);
// AverageTime/SampleTime/SingleShotTime sum both operations and time.
func Combine(bt BenchmarkType, perThread []Result) Result {
	var sumOps uint64
	var sumTime, maxTime time.Duration
	for _, r := range perThread {
		sumOps += r.Operations
		sumTime += r.Time
		if r.Time > maxTime {
			maxTime = r.Time
		}
	}
	switch bt {
	case AverageTime, SampleTime, SingleShotTime:
		return Result{Operations: sumOps, Time: sumTime}
	default: // Throughput, All
		return Result{Operations: sumOps, Time: maxTime}
	}
}

// Rate turns a combined Result into the scalar score for bt: operations per
// second for Throughput/All, time per operation for the *Time modes.
func Rate(bt BenchmarkType, r Result) float64 {
	switch bt {
	case AverageTime, SampleTime, SingleShotTime:
		if r.Operations == 0 {
			return 0
		}
		return float64(r.Time) / float64(r.Operations)
	default:
		secs := r.Time.Seconds()
		if secs == 0 {
			return 0
		}
		return float64(r.Operations) / secs
	}
}
