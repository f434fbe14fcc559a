package codegen

import (
	"fmt"
	"strings"

	"github.com/colorfulnotion/jamhbench/internal/descriptor"
	"golang.org/x/crypto/blake2b"
)

// Fingerprint hashes the parts of a descriptor that determine its bound
// StateObjects and helper ordering. Two descriptors with the same
// fingerprint would produce byte-identical EmitSource output. jamhbench-gen
// prints it beside each stub file it writes; it rewrites every stub on each
// run and does not compare fingerprints to skip unchanged ones.
func Fingerprint(d *descriptor.BenchmarkDescriptor) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", d.FullName())
	for _, bt := range d.BenchmarkTypes {
		fmt.Fprintf(&b, "type:%s\n", bt)
	}
	for _, p := range d.Parameters {
		fmt.Fprintf(&b, "param:%s@%s\n", p.StateType, p.Scope)
	}
	for _, st := range d.SortedStateTypes() {
		for _, h := range d.HelpersFor(st) {
			fmt.Fprintf(&b, "helper:%s:%s:%s:%s\n", st, h.Level, h.Kind, h.Name)
		}
	}
	sum := blake2b.Sum256([]byte(b.String()))
	return fmt.Sprintf("%x", sum)
}
