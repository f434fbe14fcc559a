// Package compare diffs a benchmark run's results against a previously
// recorded baseline, reporting per-benchmark percentage deltas — the
// jmh:compare workflow, grounded on
// other_examples/utkarsh5026-poolme__types.go's RunResult comparison shape
// and implemented with the teacher's own gojsondiff/jsondiff dependencies.
package compare

import (
	"encoding/json"
	"fmt"

	"github.com/colorfulnotion/jamhbench/internal/bench"
	"github.com/nsf/jsondiff"
	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"
)

// Baseline maps a benchmark's full name to its previously recorded Result.
type Baseline map[string]bench.Result

// Delta is one benchmark's comparison outcome.
type Delta struct {
	Benchmark      string
	Baseline       bench.Result
	Current        bench.Result
	PercentChange  float64 // positive = current is faster/higher throughput
	Regressed      bool
	StructuralDiff string // human-readable diff of the raw JSON, when present
}

// regressionThreshold is the percentage drop in rate that counts as a
// regression rather than noise.
const regressionThreshold = -5.0

// Compare diffs current against baseline for every benchmark in current,
// using bench.Rate under bt to compute the percentage change and
// gojsondiff to render a structural diff of the two Result values for
// diagnostics.
func Compare(bt bench.BenchmarkType, baseline Baseline, current map[string]bench.Result) ([]Delta, error) {
	var out []Delta
	for name, cur := range current {
		base, ok := baseline[name]
		if !ok {
			out = append(out, Delta{Benchmark: name, Current: cur})
			continue
		}

		baseRate := bench.Rate(bt, base)
		curRate := bench.Rate(bt, cur)
		pct := 0.0
		if baseRate != 0 {
			pct = (curRate - baseRate) / baseRate * 100
		}
		if bt == bench.AverageTime || bt == bench.SampleTime || bt == bench.SingleShotTime {
			pct = -pct // lower time-per-op is an improvement
		}

		diffText, err := structuralDiff(base, cur)
		if err != nil {
			return nil, fmt.Errorf("compare: %s: %w", name, err)
		}

		out = append(out, Delta{
			Benchmark:      name,
			Baseline:       base,
			Current:        cur,
			PercentChange:  pct,
			Regressed:      pct < regressionThreshold,
			StructuralDiff: diffText,
		})
	}
	return out, nil
}

func structuralDiff(base, cur bench.Result) (string, error) {
	baseJSON, err := json.Marshal(base)
	if err != nil {
		return "", err
	}
	curJSON, err := json.Marshal(cur)
	if err != nil {
		return "", err
	}

	diff, err := gojsondiff.New().Compare(baseJSON, curJSON)
	if err != nil {
		return "", err
	}
	if !diff.Modified() {
		return "", nil
	}

	var baseMap map[string]any
	if err := json.Unmarshal(baseJSON, &baseMap); err != nil {
		return "", err
	}
	f := formatter.NewAsciiFormatter(baseMap, formatter.AsciiFormatterConfig{ShowArrayIndex: true})
	return f.Format(diff)
}

// QuickEqual reports whether two raw JSON documents are byte-for-byte
// equivalent modulo formatting, using jsondiff for a cheap pre-check before
// paying for the fuller gojsondiff structural report.
func QuickEqual(a, b []byte) bool {
	diff, _ := jsondiff.Compare(a, b, &jsondiff.Options{})
	return diff == jsondiff.FullMatch
}
