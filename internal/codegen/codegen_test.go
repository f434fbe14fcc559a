package codegen

import (
	"errors"
	"testing"

	"github.com/colorfulnotion/jamhbench/internal/bench"
	"github.com/colorfulnotion/jamhbench/internal/descriptor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterDescriptor() *descriptor.BenchmarkDescriptor {
	return &descriptor.BenchmarkDescriptor{
		MethodName:     "add",
		OwnerType:      "bench.Counter",
		BenchmarkTypes: []bench.BenchmarkType{bench.Throughput},
		Parameters: []descriptor.ParamBinding{
			{StateType: "bench.SharedState", Scope: bench.ScopeBenchmark},
			{StateType: "bench.LocalState", Scope: bench.ScopeThread},
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

func TestBindAssignsDistinctIdentifiersForRepeatedThreadScope(t *testing.T) {
	g := NewGenerator()
	states, err := g.Bind(counterDescriptor())
	require.NoError(t, err)
	require.Len(t, states, 3)

	assert.Equal(t, bench.ScopeBenchmark, states[0].Scope)
	assert.Equal(t, bench.ScopeThread, states[1].Scope)
	assert.Equal(t, bench.ScopeThread, states[2].Scope)
	assert.NotEqual(t, states[1].FieldIdentifier, states[2].FieldIdentifier)
}

func TestBindSharesPaddedTypeAcrossDescriptors(t *testing.T) {
	g := NewGenerator()
	d1 := counterDescriptor()
	d2 := &descriptor.BenchmarkDescriptor{
		MethodName: "sub",
		OwnerType:  "bench.Counter",
		Parameters: []descriptor.ParamBinding{
			{StateType: "bench.SharedState", Scope: bench.ScopeBenchmark},
		},
	}
	s1, err := g.Bind(d1)
	require.NoError(t, err)
	s2, err := g.Bind(d2)
	require.NoError(t, err)

	assert.Equal(t, s1[0].PaddedType, s2[0].PaddedType,
		"identical original state types must share one padded type across the run")
}

func TestBindRejectsInvalidDescriptor(t *testing.T) {
	g := NewGenerator()
	d := &descriptor.BenchmarkDescriptor{
		MethodName: "m",
		OwnerType:  "a.B",
		Parameters: []descriptor.ParamBinding{
			{StateType: "a.S", Scope: bench.ScopeBenchmark},
			{StateType: "a.S", Scope: bench.ScopeBenchmark},
		},
	}
	_, err := g.Bind(d)
	require.Error(t, err)
	var genErr *GenerationError
	assert.True(t, errors.As(err, &genErr))
}

func TestHelperBlockIterationSetupCoversEveryThreadScopedState(t *testing.T) {
	d := counterDescriptor()
	g := NewGenerator()
	states, err := g.Bind(d)
	require.NoError(t, err)

	block := HelperBlock(d, states, bench.LevelIteration, bench.HelperSetup)
	require.Len(t, block, 2)
	assert.Equal(t, bench.ScopeThread, block[0].State.Scope)
	assert.Equal(t, bench.ScopeThread, block[1].State.Scope)
}

func TestHelperBlockTeardownOrderIsReversedFromSetup(t *testing.T) {
	d := &descriptor.BenchmarkDescriptor{
		MethodName: "m",
		OwnerType:  "a.B",
		Parameters: []descriptor.ParamBinding{
			{StateType: "a.Bench", Scope: bench.ScopeBenchmark},
			{StateType: "a.Grp", Scope: bench.ScopeGroup},
			{StateType: "a.Thr", Scope: bench.ScopeThread},
		},
		Helpers: map[string][]descriptor.HelperMethod{
			"a.Bench": {{Name: "S", Level: bench.LevelTrial, Kind: bench.HelperTeardown}},
			"a.Grp":   {{Name: "S", Level: bench.LevelTrial, Kind: bench.HelperTeardown}},
			"a.Thr":   {{Name: "S", Level: bench.LevelTrial, Kind: bench.HelperTeardown}},
		},
	}
	g := NewGenerator()
	states, err := g.Bind(d)
	require.NoError(t, err)

	block := HelperBlock(d, states, bench.LevelTrial, bench.HelperTeardown)
	require.Len(t, block, 3)
	assert.Equal(t, bench.ScopeGroup, block[0].State.Scope)
	assert.Equal(t, bench.ScopeBenchmark, block[1].State.Scope)
	assert.Equal(t, bench.ScopeThread, block[2].State.Scope)
}

func TestFingerprintIsStableAndSensitiveToMethodName(t *testing.T) {
	d := counterDescriptor()
	f1 := Fingerprint(d)
	f2 := Fingerprint(counterDescriptor())
	assert.Equal(t, f1, f2, "fingerprint must be deterministic for an identical descriptor")

	other := counterDescriptor()
	other.MethodName = "different"
	assert.NotEqual(t, f1, Fingerprint(other))
}

func TestEmitSourceIsByteStableAndValidGo(t *testing.T) {
	d := counterDescriptor()
	g := NewGenerator()
	states, err := g.Bind(d)
	require.NoError(t, err)

	out1, err := EmitSource("stubs", d, states)
	require.NoError(t, err)

	states2, err := NewGenerator().Bind(counterDescriptor())
	require.NoError(t, err)
	out2, err := EmitSource("stubs", counterDescriptor(), states2)
	require.NoError(t, err)

	assert.Equal(t, string(out1), string(out2))
	assert.Contains(t, string(out1), "package stubs")
}
