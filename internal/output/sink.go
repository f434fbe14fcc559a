// Package output is where a run's results go: the console, a JSONL file
// for later comparison, an HTML chart, or a live websocket feed. Every
// implementation satisfies Sink so the coordinator's caller can fan an
// iteration out to several sinks without knowing which ones are wired up.
package output

import "github.com/colorfulnotion/jamhbench/internal/bench"

// Sink receives per-iteration results and out-of-band diagnostics as a run
// progresses (SPEC_FULL.md §6).
type Sink interface {
	IterationResult(bench.IterationData) error
	Exception(error)
	VerbosePrint(string)
}

// Multi fans every call out to all its sinks, matching how
// BaseMicroBenchmarkHandler used to report to console+file simultaneously.
type Multi []Sink

func (m Multi) IterationResult(d bench.IterationData) error {
	var firstErr error
	for _, s := range m {
		if err := s.IterationResult(d); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (m Multi) Exception(err error) {
	for _, s := range m {
		s.Exception(err)
	}
}

func (m Multi) VerbosePrint(msg string) {
	for _, s := range m {
		s.VerbosePrint(msg)
	}
}
