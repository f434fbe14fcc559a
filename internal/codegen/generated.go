package codegen

import (
	"sync"

	"github.com/colorfulnotion/jamhbench/internal/descriptor"
)

// generatedRegistry is what a stub package's init() function registers
// into: the build-time twin of registry.Registry's runtime state table.
// Where Registry holds bound *instances*, this holds the *descriptors*
// that jamhbench-gen emitted, keyed by BenchmarkDescriptor.FullName, so a
// runtime front end can discover which generated stub packages are linked
// in without listing a directory of .go files. cmd/jamhbench does not read
// this table; its suites come from its own built-in registry map.
var generatedRegistry = struct {
	mu    sync.Mutex
	stubs map[string]*descriptor.BenchmarkDescriptor
}{stubs: make(map[string]*descriptor.BenchmarkDescriptor)}

// RegisterGenerated records d under its FullName. Called from the init()
// function EmitSource writes into every generated stub file — the guarded,
// run-once registration side effect that gives the generated file's init()
// a real effect on the process, rather than existing purely to document a
// binding decision in comments.
func RegisterGenerated(d *descriptor.BenchmarkDescriptor) {
	generatedRegistry.mu.Lock()
	defer generatedRegistry.mu.Unlock()
	generatedRegistry.stubs[d.FullName()] = d
}

// LookupGenerated returns the descriptor a generated stub package
// registered under fullName, if any.
func LookupGenerated(fullName string) (*descriptor.BenchmarkDescriptor, bool) {
	generatedRegistry.mu.Lock()
	defer generatedRegistry.mu.Unlock()
	d, ok := generatedRegistry.stubs[fullName]
	return d, ok
}

// GeneratedNames returns the FullName of every descriptor registered so
// far, for a suite loader that wants to enumerate what jamhbench-gen has
// produced.
func GeneratedNames() []string {
	generatedRegistry.mu.Lock()
	defer generatedRegistry.mu.Unlock()
	out := make([]string, 0, len(generatedRegistry.stubs))
	for name := range generatedRegistry.stubs {
		out = append(out, name)
	}
	return out
}
