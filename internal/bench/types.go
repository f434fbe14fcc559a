// Package bench holds the supporting types shared by every layer of the
// harness: the sharing discipline of a state object (Scope), the time scale
// a helper fires at (Level), the shared stop flag (Control), the
// operation-count/duration result of one benchmark method (Result), and the
// benchmark's runtime knobs (Config). See SPEC_FULL.md §4.5 and §3.
package bench

import "fmt"

// Scope is the sharing discipline of a state object.
type Scope int

const (
	ScopeBenchmark Scope = iota
	ScopeGroup
	ScopeThread
)

func (s Scope) String() string {
	switch s {
	case ScopeBenchmark:
		return "Benchmark"
	case ScopeGroup:
		return "Group"
	case ScopeThread:
		return "Thread"
	default:
		return fmt.Sprintf("Scope(%d)", int(s))
	}
}

// Level is the time scale at which a helper method fires.
type Level int

const (
	LevelTrial Level = iota
	LevelIteration
	LevelInvocation
)

func (l Level) String() string {
	switch l {
	case LevelTrial:
		return "Trial"
	case LevelIteration:
		return "Iteration"
	case LevelInvocation:
		return "Invocation"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// HelperKind distinguishes Setup from Teardown helpers.
type HelperKind int

const (
	HelperSetup HelperKind = iota
	HelperTeardown
)

func (k HelperKind) String() string {
	if k == HelperSetup {
		return "Setup"
	}
	return "Teardown"
}

// BenchmarkType selects the measurement mode and its aggregation rule.
type BenchmarkType int

const (
	Throughput BenchmarkType = iota
	AverageTime
	SampleTime
	SingleShotTime
	All
)

func (b BenchmarkType) String() string {
	switch b {
	case Throughput:
		return "Throughput"
	case AverageTime:
		return "AverageTime"
	case SampleTime:
		return "SampleTime"
	case SingleShotTime:
		return "SingleShotTime"
	case All:
		return "All"
	default:
		return fmt.Sprintf("BenchmarkType(%d)", int(b))
	}
}

// ParseBenchmarkType parses a benchmark_types configuration knob value.
func ParseBenchmarkType(s string) (BenchmarkType, error) {
	switch s {
	case "Throughput":
		return Throughput, nil
	case "AverageTime":
		return AverageTime, nil
	case "SampleTime":
		return SampleTime, nil
	case "SingleShotTime":
		return SingleShotTime, nil
	case "All":
		return All, nil
	default:
		return 0, fmt.Errorf("bench: unknown benchmark type %q", s)
	}
}

// ExecutorType selects the worker-pool construction strategy (SPEC_FULL.md §4.3).
type ExecutorType int

const (
	ExecutorFixed ExecutorType = iota
	ExecutorCached
	ExecutorForkJoin
	ExecutorSharedForkJoin
)

func (e ExecutorType) String() string {
	switch e {
	case ExecutorFixed:
		return "fixed"
	case ExecutorCached:
		return "cached"
	case ExecutorForkJoin:
		return "forkjoin"
	case ExecutorSharedForkJoin:
		return "shared_forkjoin"
	default:
		return fmt.Sprintf("ExecutorType(%d)", int(e))
	}
}

func ParseExecutorType(s string) (ExecutorType, error) {
	switch s {
	case "fixed":
		return ExecutorFixed, nil
	case "cached":
		return ExecutorCached, nil
	case "forkjoin":
		return ExecutorForkJoin, nil
	case "shared_forkjoin":
		return ExecutorSharedForkJoin, nil
	default:
		return 0, fmt.Errorf("bench: unknown executor type %q", s)
	}
}

// IterationStatus is the outcome of one iteration.
type IterationStatus int

const (
	StatusOK IterationStatus = iota
	StatusFailed
)

func (s IterationStatus) String() string {
	if s == StatusOK {
		return "Ok"
	}
	return "Failed"
}
