package codegen

import "sync"

// InstanceProvider supplies the benchmark-method receiver object,
// independent of state-object lifetimes — the original processor's
// BaseMicroBenchmarkHandler.InstanceProvider. State objects (bound via
// BenchmarkStub.Bind) have their own scoped lifetimes; the receiver itself
// may still be constructed eagerly (one instance built up front and reused
// by every call) or lazily (built on first Get, still reused thereafter).
// Lives alongside BenchmarkStub, which owns one and hands the result to
// InvokeFunc's owner argument, rather than in internal/coordinator: codegen
// is the layer that actually calls Invoke, and coordinator already imports
// codegen, so keeping InstanceProvider one level down avoids a cycle.
type InstanceProvider interface {
	Get() (any, error)
}

// Eager constructs its instance immediately and always returns it.
type Eager struct {
	instance any
	err      error
}

// NewEager builds an Eager provider by calling factory once, right away.
func NewEager(factory func() (any, error)) *Eager {
	inst, err := factory()
	return &Eager{instance: inst, err: err}
}

func (e *Eager) Get() (any, error) { return e.instance, e.err }

// Lazy defers construction until the first Get call, then caches it. Safe
// for concurrent Get calls from multiple workers racing to bind the same
// stub, mirroring the double-checked lazy singleton internal/registry.OnceSlot
// uses for scoped state.
type Lazy struct {
	once     sync.Once
	factory  func() (any, error)
	instance any
	err      error
}

// NewLazy builds a Lazy provider around factory.
func NewLazy(factory func() (any, error)) *Lazy {
	return &Lazy{factory: factory}
}

func (l *Lazy) Get() (any, error) {
	l.once.Do(func() {
		l.instance, l.err = l.factory()
	})
	return l.instance, l.err
}
