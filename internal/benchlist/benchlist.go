// Package benchlist emits the sorted, deduplicated list of discovered
// benchmark method names, matching MicroBenchmarkProcessor's TreeSet+println
// output exactly (SPEC_FULL.md §6, scenario S5).
package benchlist

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"sort"
)

// signature is the discovery-time method shape MicroBenchmarkProcessor
// accepts: a single *bench.Loop parameter and a bench.Result return, e.g.
// "func(*bench.Loop) bench.Result". It is intentionally narrower than
// descriptor.BenchmarkDescriptor.Parameters, which supports arbitrary
// state-object bindings once a method is accepted here. The two are
// reconciled this way: benchlist's discovery check gates
// which methods are eligible at all, codegen's descriptor binding decides
// how their state is wired.
var signature = regexp.MustCompile(`^func\(\*bench\.Loop\) bench\.Result$`)

// ValidMethodSignature reports whether sig matches the shape
// MicroBenchmarkProcessor.validMethodSignature requires for a method to be
// discoverable as a benchmark at all.
func ValidMethodSignature(sig string) bool {
	return signature.MatchString(sig)
}

// Write sorts methods ascending, drops duplicates, and writes one
// "<owner>.<method>" per line with a trailing newline.
func Write(w io.Writer, methods []string) error {
	seen := make(map[string]bool, len(methods))
	unique := make([]string, 0, len(methods))
	for _, m := range methods {
		if !seen[m] {
			seen[m] = true
			unique = append(unique, m)
		}
	}
	sort.Strings(unique)

	bw := bufio.NewWriter(w)
	for _, m := range unique {
		if _, err := fmt.Fprintln(bw, m); err != nil {
			return err
		}
	}
	return bw.Flush()
}
