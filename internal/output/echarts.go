package output

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/colorfulnotion/jamhbench/internal/bench"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// EChartsSink accumulates ops/sec per measurement iteration and renders a
// go-echarts line chart to an HTML file once the run finishes. Structurally
// grounded on pvm/performance/charts.go's ChartConfig+output-dir shape; the
// underlying chart library is go-echarts rather than gonum/plot since it's
// the one the teacher's go.mod actually vendors.
type EChartsSink struct {
	mu       sync.Mutex
	title    string
	filename string

	iteration int
	x         []string
	y         []opts.LineData
}

// NewEChartsSink returns a sink that writes title's chart to outDir/name.html
// once Flush is called.
func NewEChartsSink(outDir, name, title string) *EChartsSink {
	return &EChartsSink{
		title:    title,
		filename: filepath.Join(outDir, name+".html"),
	}
}

func (s *EChartsSink) IterationResult(d bench.IterationData) error {
	if d.Warmup {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.iteration++
	rate := bench.Rate(d.BenchmarkType, d.Result())
	s.x = append(s.x, fmt.Sprintf("%d", s.iteration))
	s.y = append(s.y, opts.LineData{Value: rate})
	return nil
}

func (s *EChartsSink) Exception(error)      {}
func (s *EChartsSink) VerbosePrint(string) {}

// Flush renders the accumulated series to the configured HTML file.
func (s *EChartsSink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.filename), 0o755); err != nil {
		return fmt.Errorf("output: create chart dir: %w", err)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: s.title, Subtitle: "rate per measurement iteration"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "iteration"}),
	)
	line.SetXAxis(s.x).AddSeries("rate", s.y)

	f, err := os.Create(s.filename)
	if err != nil {
		return fmt.Errorf("output: create chart file: %w", err)
	}
	defer f.Close()

	page := components.NewPage()
	page.AddCharts(line)
	return page.Render(f)
}
