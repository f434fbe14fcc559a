package codegen

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/colorfulnotion/jamhbench/internal/bench"
	"github.com/colorfulnotion/jamhbench/internal/descriptor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sharedState struct {
	setupCalls    int32
	teardownCalls int32
}

func (s *sharedState) Setup() error    { atomic.AddInt32(&s.setupCalls, 1); return nil }
func (s *sharedState) Teardown() error { atomic.AddInt32(&s.teardownCalls, 1); return nil }

type localState struct {
	iterSetups int32
}

func (s *localState) IterSetup() error { atomic.AddInt32(&s.iterSetups, 1); return nil }

func sharedStubDescriptor() *descriptor.BenchmarkDescriptor {
	return &descriptor.BenchmarkDescriptor{
		MethodName:     "add",
		OwnerType:      "bench.Counter",
		BenchmarkTypes: []bench.BenchmarkType{bench.Throughput},
		Parameters: []descriptor.ParamBinding{
			{StateType: "bench.SharedState", Scope: bench.ScopeBenchmark},
			{StateType: "bench.LocalState", Scope: bench.ScopeThread},
		},
		Helpers: map[string][]descriptor.HelperMethod{
			"bench.SharedState": {
				{Name: "Setup", Level: bench.LevelTrial, Kind: bench.HelperSetup},
				{Name: "Teardown", Level: bench.LevelTrial, Kind: bench.HelperTeardown},
			},
			"bench.LocalState": {
				{Name: "IterSetup", Level: bench.LevelIteration, Kind: bench.HelperSetup},
			},
		},
	}
}

func newSharedStub(t *testing.T) *BenchmarkStub {
	t.Helper()
	shared := &sharedState{}
	factories := map[string]StateFactory{
		"bench.SharedState": func() (any, error) { return shared, nil },
		"bench.LocalState":  func() (any, error) { return &localState{}, nil },
	}
	body := func(owner any, loop *bench.Loop, states []any) (bench.Result, error) {
		return bench.Result{Operations: 1}, nil
	}
	g := NewGenerator()
	stub, err := g.Generate(sharedStubDescriptor(), factories, body)
	require.NoError(t, err)
	return stub
}

func TestBindRunsTrialSetupExactlyOnceAcrossThreads(t *testing.T) {
	stub := newSharedStub(t)

	var wg sync.WaitGroup
	for slot := 0; slot < 8; slot++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			_, err := stub.Bind(slot, 0)
			assert.NoError(t, err)
		}(slot)
	}
	wg.Wait()

	states, err := stub.Bind(0, 0)
	require.NoError(t, err)
	ss := states[0].(*sharedState)
	assert.Equal(t, int32(1), atomic.LoadInt32(&ss.setupCalls))
}

func TestIterationSetupRunsPerThreadForThreadScope(t *testing.T) {
	stub := newSharedStub(t)
	s0, err := stub.Bind(0, 0)
	require.NoError(t, err)
	s1, err := stub.Bind(1, 0)
	require.NoError(t, err)

	require.NoError(t, stub.RunIterationSetup(0, 0))
	require.NoError(t, stub.RunIterationSetup(1, 0))

	l0 := s0[1].(*localState)
	l1 := s1[1].(*localState)
	assert.Equal(t, int32(1), atomic.LoadInt32(&l0.iterSetups))
	assert.Equal(t, int32(1), atomic.LoadInt32(&l1.iterSetups))
}

func TestTrialTeardownRunsExactlyOnce(t *testing.T) {
	stub := newSharedStub(t)
	states, err := stub.Bind(0, 0)
	require.NoError(t, err)
	ss := states[0].(*sharedState)

	require.NoError(t, stub.RunTrialTeardown())
	require.NoError(t, stub.RunTrialTeardown())
	assert.Equal(t, int32(1), atomic.LoadInt32(&ss.teardownCalls))
}

type threadState struct {
	teardownCalls int32
}

func (s *threadState) Teardown() error { atomic.AddInt32(&s.teardownCalls, 1); return nil }

func threadTrialTeardownDescriptor() *descriptor.BenchmarkDescriptor {
	return &descriptor.BenchmarkDescriptor{
		MethodName:     "run",
		OwnerType:      "bench.Job",
		BenchmarkTypes: []bench.BenchmarkType{bench.Throughput},
		Parameters: []descriptor.ParamBinding{
			{StateType: "bench.ThreadState", Scope: bench.ScopeThread},
		},
		Helpers: map[string][]descriptor.HelperMethod{
			"bench.ThreadState": {
				{Name: "Teardown", Level: bench.LevelTrial, Kind: bench.HelperTeardown},
			},
		},
	}
}

func TestTrialTeardownRunsOncePerBoundThreadSlot(t *testing.T) {
	instances := make([]*threadState, 4)
	factories := map[string]StateFactory{
		"bench.ThreadState": func() (any, error) {
			ts := &threadState{}
			for i, existing := range instances {
				if existing == nil {
					instances[i] = ts
					break
				}
			}
			return ts, nil
		},
	}
	body := func(owner any, loop *bench.Loop, states []any) (bench.Result, error) {
		return bench.Result{Operations: 1}, nil
	}
	stub, err := NewGenerator().Generate(threadTrialTeardownDescriptor(), factories, body)
	require.NoError(t, err)

	for slot := 0; slot < 4; slot++ {
		_, err := stub.Bind(slot, 0)
		require.NoError(t, err)
	}

	require.NoError(t, stub.RunTrialTeardown())
	require.NoError(t, stub.RunTrialTeardown())

	for i, ts := range instances {
		require.NotNil(t, ts, "slot %d never bound", i)
		assert.Equal(t, int32(1), atomic.LoadInt32(&ts.teardownCalls), "slot %d", i)
	}
}
