package compare

import (
	"testing"
	"time"

	"github.com/colorfulnotion/jamhbench/internal/bench"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareFlagsThroughputRegression(t *testing.T) {
	baseline := Baseline{
		"bench.Counter.add": {Operations: 1000, Time: time.Second},
	}
	current := map[string]bench.Result{
		"bench.Counter.add": {Operations: 800, Time: time.Second},
	}
	deltas, err := Compare(bench.Throughput, baseline, current)
	require.NoError(t, err)
	require.Len(t, deltas, 1)
	assert.True(t, deltas[0].Regressed)
	assert.Less(t, deltas[0].PercentChange, 0.0)
}

func TestCompareTreatsFasterAverageTimeAsImprovement(t *testing.T) {
	baseline := Baseline{
		"bench.Counter.add": {Operations: 1, Time: 100 * time.Millisecond},
	}
	current := map[string]bench.Result{
		"bench.Counter.add": {Operations: 1, Time: 50 * time.Millisecond},
	}
	deltas, err := Compare(bench.AverageTime, baseline, current)
	require.NoError(t, err)
	require.Len(t, deltas, 1)
	assert.False(t, deltas[0].Regressed)
	assert.Greater(t, deltas[0].PercentChange, 0.0)
}

func TestCompareReportsNewBenchmarkWithoutBaseline(t *testing.T) {
	deltas, err := Compare(bench.Throughput, Baseline{}, map[string]bench.Result{
		"bench.New.method": {Operations: 10, Time: time.Second},
	})
	require.NoError(t, err)
	require.Len(t, deltas, 1)
	assert.False(t, deltas[0].Regressed)
}
