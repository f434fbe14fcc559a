package coordinator

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/colorfulnotion/jamhbench/internal/bench"
	"github.com/colorfulnotion/jamhbench/internal/codegen"
	"github.com/colorfulnotion/jamhbench/internal/descriptor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildStub(t *testing.T, invoke codegen.InvokeFunc) *codegen.BenchmarkStub {
	t.Helper()
	d := &descriptor.BenchmarkDescriptor{
		MethodName:     "run",
		OwnerType:      "bench.Job",
		BenchmarkTypes: []bench.BenchmarkType{bench.Throughput},
	}
	stub, err := codegen.NewGenerator().Generate(d, map[string]codegen.StateFactory{}, invoke)
	require.NoError(t, err)
	return stub
}

func TestRunProducesNonZeroThroughputResult(t *testing.T) {
	var calls int64
	stub := buildStub(t, func(owner any, loop *bench.Loop, states []any) (bench.Result, error) {
		atomic.AddInt64(&calls, 1)
		return bench.Result{Operations: 1}, nil
	})

	cfg := bench.Config{
		MaxThreads:            2,
		WarmupIterations:      1,
		MeasurementIterations: 2,
		IterationTime:         10 * time.Millisecond,
		ExecutorType:          bench.ExecutorFixed,
		BenchmarkTypes:        []bench.BenchmarkType{bench.Throughput},
	}
	c := New(cfg, stub)

	var iterations int
	result, err := c.Run(context.Background(), func(r RunResult) { iterations++ })
	require.NoError(t, err)
	assert.Equal(t, 3, iterations, "1 warmup + 2 measurement iterations reported")
	assert.Greater(t, result.Operations, uint64(0))
	assert.Greater(t, atomic.LoadInt64(&calls), int64(0))
}

func TestRunStartsMeasurementImmediatelyWithZeroWarmupIterations(t *testing.T) {
	stub := buildStub(t, func(owner any, loop *bench.Loop, states []any) (bench.Result, error) {
		return bench.Result{Operations: 1}, nil
	})
	cfg := bench.Config{
		MaxThreads:            1,
		WarmupIterations:      0,
		MeasurementIterations: 1,
		IterationTime:         5 * time.Millisecond,
		ExecutorType:          bench.ExecutorFixed,
		BenchmarkTypes:        []bench.BenchmarkType{bench.Throughput},
	}
	c := New(cfg, stub)

	var sawWarmup bool
	_, err := c.Run(context.Background(), func(r RunResult) {
		if r.Warmup {
			sawWarmup = true
		}
	})
	require.NoError(t, err)
	assert.False(t, sawWarmup)
}

func TestRunPropagatesErrorWhenFailOnError(t *testing.T) {
	stub := buildStub(t, func(owner any, loop *bench.Loop, states []any) (bench.Result, error) {
		return bench.Result{}, assertErr
	})
	cfg := bench.Config{
		MaxThreads:            1,
		WarmupIterations:      0,
		MeasurementIterations: 1,
		IterationTime:         5 * time.Millisecond,
		FailOnError:           true,
		ExecutorType:          bench.ExecutorFixed,
		BenchmarkTypes:        []bench.BenchmarkType{bench.Throughput},
	}
	c := New(cfg, stub)
	_, err := c.Run(context.Background(), nil)
	assert.Error(t, err)
}

var assertErr = &testError{"benchmark body failed"}

type testError struct{ msg string }

func (e *testError) Error() string { return e.msg }

type countingHook struct {
	starts int32
	ends   int32
}

func (h *countingHook) StartProfile() error {
	atomic.AddInt32(&h.starts, 1)
	return nil
}

func (h *countingHook) EndProfile() (bench.ProfilerResult, error) {
	atomic.AddInt32(&h.ends, 1)
	return bench.ProfilerResult{Name: "counting", Data: map[string]any{"n": h.ends}}, nil
}

func TestRunBracketsEveryIterationWithTheConfiguredProfiler(t *testing.T) {
	stub := buildStub(t, func(owner any, loop *bench.Loop, states []any) (bench.Result, error) {
		return bench.Result{Operations: 1}, nil
	})
	cfg := bench.Config{
		MaxThreads:            1,
		WarmupIterations:      1,
		MeasurementIterations: 2,
		IterationTime:         5 * time.Millisecond,
		ExecutorType:          bench.ExecutorFixed,
		BenchmarkTypes:        []bench.BenchmarkType{bench.Throughput},
	}
	hook := &countingHook{}
	c := New(cfg, stub, WithProfiler(hook))

	var profiled int
	_, err := c.Run(context.Background(), func(r RunResult) {
		if len(r.Data.ProfilerResults) > 0 {
			profiled++
		}
	})
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&hook.starts), "1 warmup + 2 measurement iterations")
	assert.Equal(t, int32(3), atomic.LoadInt32(&hook.ends))
	assert.Equal(t, 3, profiled)
}
