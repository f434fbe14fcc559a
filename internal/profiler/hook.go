// Package profiler defines the ProfilerHook contract the coordinator calls
// around each warmup and measurement iteration and a no-op implementation for runs
// that don't want one. Errors from a Hook are logged and otherwise
// swallowed — profiling must never fail a benchmark run (SPEC_FULL.md §7).
package profiler

import "github.com/colorfulnotion/jamhbench/internal/bench"

// Hook brackets one measured iteration.
type Hook interface {
	StartProfile() error
	EndProfile() (bench.ProfilerResult, error)
}

// Noop implements Hook by doing nothing; it is the default when no
// profiler is configured.
type Noop struct{}

func (Noop) StartProfile() error { return nil }
func (Noop) EndProfile() (bench.ProfilerResult, error) {
	return bench.ProfilerResult{}, nil
}
