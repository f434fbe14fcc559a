package bench

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestControlMonotonicTransitions(t *testing.T) {
	c := NewControl()
	assert.True(t, c.WarmUp())
	assert.False(t, c.StopMeasurement())

	c.EndWarmUp()
	assert.False(t, c.WarmUp())

	c.SetStopMeasurement()
	assert.True(t, c.StopMeasurement())

	c.Reset()
	assert.False(t, c.StopMeasurement(), "Reset clears stop for the next iteration")
	assert.False(t, c.WarmUp(), "Reset must not resurrect the warmup phase")
}

func TestLoopRecordsOperationsAndRespectsControl(t *testing.T) {
	c := NewControl()
	loop := NewLoop(c, ThreadParams{ThreadID: 3, ThreadGroupID: 1})

	assert.True(t, loop.KeepGoing())
	loop.RecordOp()
	loop.RecordOps(4)
	assert.Equal(t, uint64(5), loop.Operations())
	assert.Equal(t, 3, loop.ThreadParams().ThreadID)

	c.SetStopMeasurement()
	assert.False(t, loop.KeepGoing())
}

func TestCombineThroughputSumsOpsMaxTime(t *testing.T) {
	perThread := []Result{
		{Operations: 100, Time: 1 * time.Second},
		{Operations: 200, Time: 2 * time.Second},
	}
	got := Combine(Throughput, perThread)
	assert.Equal(t, uint64(300), got.Operations)
	assert.Equal(t, 2*time.Second, got.Time)
	assert.InDelta(t, 150.0, Rate(Throughput, got), 0.001)
}

func TestCombineAverageTimeSumsBoth(t *testing.T) {
	perThread := []Result{
		{Operations: 10, Time: 1 * time.Second},
		{Operations: 10, Time: 3 * time.Second},
	}
	got := Combine(AverageTime, perThread)
	assert.Equal(t, uint64(20), got.Operations)
	assert.Equal(t, 4*time.Second, got.Time)
	rateSeconds := Rate(AverageTime, got) / float64(time.Second)
	assert.InDelta(t, 0.2, rateSeconds, 0.0001)
}

func TestConfigValidateThreadGroups(t *testing.T) {
	cfg := Config{MaxThreads: 4, ThreadGroups: []int{2, 2}}
	require.NoError(t, cfg.Validate())

	bad := Config{MaxThreads: 4, ThreadGroups: []int{2, 1}}
	assert.Error(t, bad.Validate())

	zero := Config{MaxThreads: 0}
	assert.Error(t, zero.Validate())
}

func TestConfigNormalizedThreadGroupsDegeneratesToOne(t *testing.T) {
	cfg := Config{MaxThreads: 1}
	assert.Equal(t, []int{1}, cfg.NormalizedThreadGroups())
}

func TestGroupForThreadPartitioning(t *testing.T) {
	groups := []int{2, 2}
	assert.Equal(t, 0, GroupForThread(groups, 0))
	assert.Equal(t, 0, GroupForThread(groups, 1))
	assert.Equal(t, 1, GroupForThread(groups, 2))
	assert.Equal(t, 1, GroupForThread(groups, 3))

	assert.Equal(t, 0, GroupThreadIndex(groups, 0))
	assert.Equal(t, 1, GroupThreadIndex(groups, 1))
	assert.Equal(t, 0, GroupThreadIndex(groups, 2))
	assert.Equal(t, 1, GroupThreadIndex(groups, 3))
}

func TestParseBenchmarkTypeAndExecutorType(t *testing.T) {
	bt, err := ParseBenchmarkType("AverageTime")
	require.NoError(t, err)
	assert.Equal(t, AverageTime, bt)

	_, err = ParseBenchmarkType("nonsense")
	assert.Error(t, err)

	et, err := ParseExecutorType("shared_forkjoin")
	require.NoError(t, err)
	assert.Equal(t, ExecutorSharedForkJoin, et)
}
