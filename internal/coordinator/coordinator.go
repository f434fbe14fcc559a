// Package coordinator drives one benchmark run end to end: warmup then
// measurement iterations, per-iteration timing/batch control, and the
// aggregation of per-thread results into the run's final bench.Result.
// Grounded on BaseMicroBenchmarkHandler.runWarmup/runMeasurement in
// original_source/jmh-core.
package coordinator

import (
	"context"
	"time"

	"github.com/colorfulnotion/jamhbench/internal/bench"
	"github.com/colorfulnotion/jamhbench/internal/codegen"
	"github.com/colorfulnotion/jamhbench/internal/jlog"
	"github.com/colorfulnotion/jamhbench/internal/profiler"
	"github.com/colorfulnotion/jamhbench/internal/threadgroup"
)

// Runner is the subset of threadgroup.Runner the coordinator depends on,
// narrowed for testability.
type Runner interface {
	RunIteration() ([]uint64, time.Duration, error)
	Shutdown()
}

// IterationCoordinator runs the full warmup+measurement protocol for one
// bound BenchmarkStub, one thread-group layout, and one bench.Config.
type IterationCoordinator struct {
	cfg      bench.Config
	stub     *codegen.BenchmarkStub
	control  *bench.Control
	runner   Runner
	log      jlog.Logger
	profiler profiler.Hook
}

// Option configures optional parts of New that most callers don't need —
// currently just which profiler.Hook brackets each iteration.
type Option func(*IterationCoordinator)

// WithProfiler swaps in hook in place of the default profiler.Noop, so
// every iteration's StartProfile/EndProfile calls actually measure
// something (e.g. an OTelHook emitting a span per iteration).
func WithProfiler(hook profiler.Hook) Option {
	return func(c *IterationCoordinator) { c.profiler = hook }
}

// New builds a coordinator that drives stub with cfg. It owns the
// threadgroup.Runner it creates and will shut it down when Run returns.
func New(cfg bench.Config, stub *codegen.BenchmarkStub, opts ...Option) *IterationCoordinator {
	control := bench.NewControl()
	c := &IterationCoordinator{
		cfg:      cfg,
		stub:     stub,
		control:  control,
		runner:   threadgroup.NewRunner(cfg, stub, control),
		log:      jlog.Root(),
		profiler: profiler.Noop{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RunResult is one measurement iteration's outcome, reported to an
// output.Sink as it completes.
type RunResult struct {
	Iteration int
	Warmup    bool
	Data      bench.IterationData
}

// Run executes WarmupIterations, then MeasurementIterations, of the bound
// benchmark, invoking onIteration after each one (both warmup and
// measurement, tagged via RunResult.Warmup) and returning the combined
// Result over the measurement iterations only. It implements the 8-step
// per-iteration protocol from SPEC_FULL.md §4.2:
//  1. reset Control for the new iteration
//  2. let the runner broadcast Iteration-level Setup, cross the start
//     barrier, run the measured loop, cross the end barrier, and broadcast
//     Iteration-level Teardown
//  3. collect per-thread operation counts and iteration duration
//  4. fold the per-thread counts into one bench.Result (IterationData.Result)
//  5. report the iteration via onIteration
//  6. on FailOnError and a worker error, stop the whole run
//  7. after the last measurement iteration, run RunTrialTeardown once
//  8. return the sum of the measurement iterations' operations and durations
func (c *IterationCoordinator) Run(ctx context.Context, onIteration func(RunResult)) (bench.Result, error) {
	defer c.runner.Shutdown()

	for i := 0; i < c.cfg.WarmupIterations; i++ {
		if err := ctx.Err(); err != nil {
			return bench.Result{}, err
		}
		data, err := c.runOneIteration(true)
		if onIteration != nil {
			onIteration(RunResult{Iteration: i, Warmup: true, Data: data})
		}
		if err != nil && c.cfg.FailOnError {
			return bench.Result{}, err
		}
	}
	c.control.EndWarmUp()

	var perIteration []bench.Result
	for i := 0; i < c.cfg.MeasurementIterations; i++ {
		if err := ctx.Err(); err != nil {
			return bench.Result{}, err
		}
		data, err := c.runOneIteration(false)
		if onIteration != nil {
			onIteration(RunResult{Iteration: i, Warmup: false, Data: data})
		}
		if err != nil {
			if c.cfg.FailOnError {
				return bench.Result{}, err
			}
			continue
		}
		perIteration = append(perIteration, data.Result())
	}

	if err := c.stub.RunTrialTeardown(); err != nil {
		c.log.Warn(jlog.Coordinator, "trial teardown failed", "err", err)
		if c.cfg.FailOnError {
			return bench.Result{}, err
		}
	}

	// Each iteration's Result already folds its threads together against
	// that iteration's own duration, so the run total sums operations and
	// durations across iterations rather than applying Combine's
	// per-thread max-time rule to whole iterations.
	var total bench.Result
	for _, r := range perIteration {
		total.Operations += r.Operations
		total.Time += r.Time
	}
	return total, nil
}

func (c *IterationCoordinator) isSingleShot() bool {
	for _, bt := range c.cfg.BenchmarkTypes {
		if bt == bench.SingleShotTime {
			return true
		}
	}
	return false
}

func (c *IterationCoordinator) runOneIteration(warmup bool) (bench.IterationData, error) {
	c.control.Reset()

	if !c.isSingleShot() {
		timer := time.AfterFunc(c.cfg.IterationTime, c.control.SetStopMeasurement)
		defer timer.Stop()
	}
	// SingleShotTime iterations are bounded by BatchSize invocations per
	// worker (threadgroup.Runner.batchBudget), not by a wall-clock timer.

	if err := c.profiler.StartProfile(); err != nil {
		c.log.Warn(jlog.Coordinator, "profiler start failed, continuing unprofiled", "err", err)
	}

	opCounts, elapsed, err := c.runner.RunIteration()

	var profilerResults []bench.ProfilerResult
	if pr, perr := c.profiler.EndProfile(); perr != nil {
		c.log.Warn(jlog.Coordinator, "profiler end failed", "err", perr)
	} else if pr.Name != "" {
		profilerResults = append(profilerResults, pr)
	}

	status := bench.StatusOK
	reason := ""
	if err != nil {
		status = bench.StatusFailed
		reason = err.Error()
	}

	bt := bench.Throughput
	if len(c.cfg.BenchmarkTypes) > 0 {
		bt = c.cfg.BenchmarkTypes[0]
	}

	return bench.IterationData{
		Duration:        elapsed,
		OperationCounts: opCounts,
		ProfilerResults: profilerResults,
		Status:          status,
		FailureReason:   reason,
		Warmup:          warmup,
		BenchmarkType:   bt,
	}, err
}
