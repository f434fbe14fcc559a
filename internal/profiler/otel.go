package profiler

import (
	"context"
	"time"

	"github.com/colorfulnotion/jamhbench/internal/bench"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// OTelHook wraps an otel tracer to emit one span per iteration (warmup and
// measurement alike), tagged with its duration once the span ends; the
// operation count is not recorded on the span. The module imports no otel
// SDK or exporter: callers install a tracer provider via
// otel.SetTracerProvider before constructing the Hook, otherwise spans go
// to otel's global no-op tracer.
type OTelHook struct {
	tracer trace.Tracer
	name   string

	span  trace.Span
	start time.Time
}

// NewOTelHook returns a Hook that emits spans named benchmarkName under the
// tracer registered globally via otel.SetTracerProvider.
func NewOTelHook(benchmarkName string) *OTelHook {
	return &OTelHook{
		tracer: otel.Tracer("jamhbench"),
		name:   benchmarkName,
	}
}

func (h *OTelHook) StartProfile() error {
	_, span := h.tracer.Start(context.Background(), h.name)
	h.span = span
	h.start = time.Now()
	return nil
}

func (h *OTelHook) EndProfile() (bench.ProfilerResult, error) {
	elapsed := time.Since(h.start)
	if h.span != nil {
		h.span.SetAttributes(attribute.Int64("duration_ns", elapsed.Nanoseconds()))
		h.span.End()
	}
	return bench.ProfilerResult{
		Name: "otel",
		Data: map[string]any{"duration": elapsed},
	}, nil
}
