package codegen

import (
	"fmt"

	"github.com/colorfulnotion/jamhbench/internal/bench"
	"github.com/colorfulnotion/jamhbench/internal/descriptor"
)

// Generator binds descriptors into StateObjects and BenchmarkStubs. It is
// typically long-lived across many descriptors within one generation run
// (one process invocation of jamhbench-gen, or one CLI run's discovery
// pass) so that the padded-type invariant holds globally: two benchmarks
// that both declare a parameter of type "a.Counters" get the same
// padded_N wrapper. Field/local identifiers, by contrast, only need to be
// unique within a single descriptor's own stub, so those are assigned
// fresh per call to Bind.
type Generator struct {
	padding *paddingAssigner
}

// NewGenerator returns a Generator ready to bind descriptors.
func NewGenerator() *Generator {
	return &Generator{padding: newPaddingAssigner()}
}

type stateKey struct {
	typ   string
	scope bench.Scope
}

// Bind validates d and produces its ordered StateObjects, mirroring
// StateObjectHandler.bindState: Benchmark- and Group-scoped parameters
// always land at local index 0 (Validate already rejects duplicates of
// those scopes), Thread-scoped parameters increment per repeated
// occurrence of the same type so each gets a distinct identifier.
func (g *Generator) Bind(d *descriptor.BenchmarkDescriptor) ([]StateObject, error) {
	if err := d.Validate(); err != nil {
		return nil, &GenerationError{Benchmark: d.FullName(), Err: err}
	}

	localIndex := make(map[stateKey]int)
	collapsed := make(map[string]string)
	nextCollapse := 0

	out := make([]StateObject, 0, len(d.Parameters))
	for _, p := range d.Parameters {
		k := stateKey{p.StateType, p.Scope}
		idx := localIndex[k]
		localIndex[k] = idx + 1

		prefix, ok := collapsed[p.StateType]
		if !ok {
			prefix = collapseTypeName(p.StateType, nextCollapse)
			nextCollapse++
			collapsed[p.StateType] = prefix
		}
		ident := fmt.Sprintf("%s%d", prefix, idx)

		out = append(out, StateObject{
			Type:            p.StateType,
			PaddedType:      g.padding.paddedTypeFor(p.StateType),
			Scope:           p.Scope,
			FieldIdentifier: "f_" + ident,
			LocalIdentifier: "l_" + ident,
		})
	}
	return out, nil
}

// GenerateOption configures optional parts of Generate that most callers
// don't need — currently just the owner receiver's InstanceProvider.
type GenerateOption func(*generateConfig)

type generateConfig struct {
	owner InstanceProvider
}

// WithEagerOwner builds the benchmark method's receiver immediately, via
// factory, before Generate returns.
func WithEagerOwner(factory func() (any, error)) GenerateOption {
	return func(c *generateConfig) { c.owner = NewEager(factory) }
}

// WithLazyOwner defers building the benchmark method's receiver until the
// first worker's Invoke call actually needs it.
func WithLazyOwner(factory func() (any, error)) GenerateOption {
	return func(c *generateConfig) { c.owner = NewLazy(factory) }
}

// Generate binds d and assembles a runnable BenchmarkStub around it. body
// is the measured call each worker invokes repeatedly inside an
// iteration's measured loop; factories supplies a constructor per state
// type referenced by d.Parameters, and Generate fails if one is missing.
// By default the stub has no owner receiver and InvokeFunc's
// owner argument is nil; pass WithEagerOwner/WithLazyOwner when the
// benchmark method's receiver is a distinct object from its state
// parameters.
func (g *Generator) Generate(d *descriptor.BenchmarkDescriptor, factories map[string]StateFactory, body InvokeFunc, opts ...GenerateOption) (*BenchmarkStub, error) {
	states, err := g.Bind(d)
	if err != nil {
		return nil, err
	}
	for _, so := range states {
		if _, ok := factories[so.Type]; !ok {
			return nil, &GenerationError{
				Benchmark: d.FullName(),
				Err:       fmt.Errorf("no factory registered for state type %s", so.Type),
			}
		}
	}
	var cfg generateConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return newStub(d, states, factories, body, cfg.owner), nil
}
