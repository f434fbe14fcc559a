package codegen

import (
	"fmt"
	"strings"
	"sync"
)

// cacheLinePad is the padding size (in bytes) appended to a state object's
// wrapper struct to push neighboring fields onto separate cache lines
// (SPEC_FULL.md §5, "false-sharing mitigation"). 128 bytes covers the
// common 64-byte line plus adjacent-line prefetch on most amd64/arm64 parts.
const cacheLinePad = 128

// paddingAssigner hands out a stable padded_N wrapper name per original
// state type, first-encounter order, so identical original types always
// share one padded type across an entire generation run — the invariant
// SPEC_FULL.md §4.1 calls out explicitly. Field/local identifiers, by
// contrast, only need to be unique within a single descriptor's stub, so
// they are not tracked here (see Generator.Bind).
type paddingAssigner struct {
	mu       sync.Mutex
	assigned map[string]string
	next     int
}

func newPaddingAssigner() *paddingAssigner {
	return &paddingAssigner{assigned: make(map[string]string)}
}

func (p *paddingAssigner) paddedTypeFor(original string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if name, ok := p.assigned[original]; ok {
		return name
	}
	name := fmt.Sprintf("padded_%d", p.next)
	p.next++
	p.assigned[original] = name
	return name
}

// paddedBox is the runtime padding for the padded_N name recorded in
// StateObject.PaddedType (EmitSource itself emits no padded type): whatever
// BenchmarkStub.Bind constructs for a state object is boxed in one of these
// before it's handed to the Registry. The box holds the instance as an
// interface value followed by cacheLinePad bytes, so two boxes never share
// a cache line; the instance the StateFactory allocated is a separate
// allocation and is not itself padded. box/unbox are the only places that
// see paddedBox; every other caller — Invoke, runBlock, Trial-level
// Teardown — always works with the unboxed value.
type paddedBox struct {
	val any
	_   [cacheLinePad]byte
}

func box(v any) any {
	return &paddedBox{val: v}
}

// unbox returns v's payload if v is a paddedBox, or v itself otherwise —
// the latter case covers instanceFor's "used before Bind" sentinel error,
// which is never boxed.
func unbox(v any) any {
	if b, ok := v.(*paddedBox); ok {
		return b.val
	}
	return v
}

// collapseTypeName produces a short, generator-unique field/local prefix
// for a fully-qualified state type name, e.g. "com.acme.MyState" at
// encounter index 3 becomes "mystate3_". Mirrors
// StateObjectHandler.collapseTypeName; the trailing encounter index keeps
// two different types whose last path segment collides (e.g. "a.State"
// and "b.State") from producing the same prefix.
func collapseTypeName(fqType string, encounterIndex int) string {
	parts := strings.Split(fqType, ".")
	last := strings.ToLower(parts[len(parts)-1])
	return fmt.Sprintf("%s%d_", last, encounterIndex)
}
