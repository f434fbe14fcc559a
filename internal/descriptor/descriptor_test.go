package descriptor

import (
	"testing"

	"github.com/colorfulnotion/jamhbench/internal/bench"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRejectsDuplicateBenchmarkScopedParam(t *testing.T) {
	d := &BenchmarkDescriptor{
		MethodName: "m",
		OwnerType:  "a.B",
		Parameters: []ParamBinding{
			{StateType: "a.MyState", Scope: bench.ScopeBenchmark},
			{StateType: "a.MyState", Scope: bench.ScopeBenchmark},
		},
	}
	assert.Error(t, d.Validate())
}

func TestValidateAllowsRepeatedThreadScopedParam(t *testing.T) {
	d := &BenchmarkDescriptor{
		MethodName: "m",
		OwnerType:  "a.B",
		Parameters: []ParamBinding{
			{StateType: "a.MyState", Scope: bench.ScopeThread},
			{StateType: "a.MyState", Scope: bench.ScopeThread},
		},
	}
	require.NoError(t, d.Validate())
}

func TestValidateRequiresNameAndOwner(t *testing.T) {
	d := &BenchmarkDescriptor{}
	assert.Error(t, d.Validate())
}

func TestSortedStateTypesIsLexicographic(t *testing.T) {
	d := &BenchmarkDescriptor{
		MethodName: "m",
		OwnerType:  "a.B",
		Parameters: []ParamBinding{
			{StateType: "z.Zeta", Scope: bench.ScopeThread},
			{StateType: "a.Alpha", Scope: bench.ScopeThread},
		},
	}
	assert.Equal(t, []string{"a.Alpha", "z.Zeta"}, d.SortedStateTypes())
	assert.Equal(t, []string{"z.Zeta", "a.Alpha"}, d.StateTypes())
}

func TestToTreeRendersWithoutPanicking(t *testing.T) {
	d := &BenchmarkDescriptor{
		MethodName:     "m",
		OwnerType:      "a.B",
		BenchmarkTypes: []bench.BenchmarkType{bench.Throughput},
		Parameters: []ParamBinding{
			{StateType: "a.MyState", Scope: bench.ScopeThread},
		},
		Helpers: map[string][]HelperMethod{
			"a.MyState": {{Name: "setUp", Level: bench.LevelTrial, Kind: bench.HelperSetup}},
		},
	}
	out := d.String()
	assert.Contains(t, out, "a.B.m")
	assert.Contains(t, out, "setUp")
}
