package output

import (
	"github.com/colorfulnotion/jamhbench/internal/bench"
	"github.com/colorfulnotion/jamhbench/internal/jlog"
)

// ConsoleSink writes human-readable progress through the ambient jlog
// logger, the same split the teacher's cmd/ binaries use between library
// code (structured log.*) and their own progress banners.
type ConsoleSink struct {
	log jlog.Logger
}

// NewConsoleSink returns a ConsoleSink writing to the process-wide root
// logger.
func NewConsoleSink() *ConsoleSink {
	return &ConsoleSink{log: jlog.Root()}
}

func (c *ConsoleSink) IterationResult(d bench.IterationData) error {
	res := d.Result()
	c.log.Info(jlog.Output, "iteration complete",
		"warmup", d.Warmup,
		"status", d.Status,
		"ops", res.Operations,
		"duration", d.Duration,
		"rate", bench.Rate(d.BenchmarkType, res),
	)
	for _, pr := range d.ProfilerResults {
		c.log.Debug(jlog.Output, "profiler result", "profiler", pr.Name, "data", pr.Data)
	}
	return nil
}

func (c *ConsoleSink) Exception(err error) {
	c.log.Error(jlog.Output, "benchmark exception", "err", err)
}

func (c *ConsoleSink) VerbosePrint(msg string) {
	c.log.Debug(jlog.Output, msg)
}
