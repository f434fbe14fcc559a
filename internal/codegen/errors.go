package codegen

import "fmt"

// GenerationError reports a problem discovered while binding or ordering a
// descriptor, tagged with the benchmark it came from so a Sink can surface
// it the way BaseMicroBenchmarkHandler.recordFailure does for the console.
type GenerationError struct {
	Benchmark string
	Err       error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("codegen: %s: %v", e.Benchmark, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
