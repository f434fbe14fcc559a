package main

import (
	"sync/atomic"

	"github.com/colorfulnotion/jamhbench/internal/bench"
	"github.com/colorfulnotion/jamhbench/internal/codegen"
	"github.com/colorfulnotion/jamhbench/internal/descriptor"
)

// suite is one runnable benchmark: its descriptor plus everything
// codegen.Generator needs to bind and invoke it. Stubs emitted by
// cmd/jamhbench-gen register only their descriptors, with
// codegen.RegisterGenerated; they do not add entries to this map. This demo
// binary ships one built-in suite so `jamhbench run` works out of the box.
type suite struct {
	Descriptor *descriptor.BenchmarkDescriptor
	Factories  map[string]codegen.StateFactory
	Invoke     codegen.InvokeFunc
}

var registry = map[string]suite{}

func register(s suite) {
	registry[s.Descriptor.FullName()] = s
}

// counterState is the built-in demo's Benchmark-scoped shared state.
type counterState struct {
	total int64
}

func (c *counterState) Setup() error    { return nil }
func (c *counterState) Teardown() error { return nil }

func init() {
	d := &descriptor.BenchmarkDescriptor{
		MethodName:     "increment",
		OwnerType:      "demo.Counter",
		BenchmarkTypes: []bench.BenchmarkType{bench.Throughput},
		Parameters: []descriptor.ParamBinding{
			{StateType: "demo.CounterState", Scope: bench.ScopeBenchmark},
		},
		Helpers: map[string][]descriptor.HelperMethod{
			"demo.CounterState": {
				{Name: "Setup", Level: bench.LevelTrial, Kind: bench.HelperSetup},
				{Name: "Teardown", Level: bench.LevelTrial, Kind: bench.HelperTeardown},
			},
		},
	}

	register(suite{
		Descriptor: d,
		Factories: map[string]codegen.StateFactory{
			"demo.CounterState": func() (any, error) { return &counterState{}, nil },
		},
		Invoke: func(owner any, loop *bench.Loop, states []any) (bench.Result, error) {
			c := states[0].(*counterState)
			atomic.AddInt64(&c.total, 1)
			return bench.Result{Operations: 1}, nil
		},
	})
}
