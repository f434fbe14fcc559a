// Command jamhbench is the CLI front end driving the whole pipeline:
// discover a registered benchmark, bind it into a stub, run it through the
// coordinator, and report to whichever sinks were requested. Structured
// after the teacher's cmd/evm-builder: a cobra root
// command, subcommands with their own flag sets, fmt.Printf progress
// banners at this layer only, structured jlog underneath.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/chzyer/readline"
	"github.com/colorfulnotion/jamhbench/internal/bench"
	"github.com/colorfulnotion/jamhbench/internal/codegen"
	"github.com/colorfulnotion/jamhbench/internal/coordinator"
	"github.com/colorfulnotion/jamhbench/internal/jlog"
	"github.com/colorfulnotion/jamhbench/internal/output"
	"github.com/colorfulnotion/jamhbench/internal/profiler"
	"github.com/spf13/cobra"
)

var (
	Version = "dev"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "jamhbench",
		Short: "A JMH-like microbenchmark harness",
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	var (
		maxThreads   int
		warmupIters  int
		measureIters int
		iterTime     time.Duration
		executorType string
		benchType    string
		failOnError  bool
		threadGroups []int
		logLevel     string
		jsonlOut     string
		chartOut     string
		profileRun   bool
	)

	runCmd := &cobra.Command{
		Use:   "run [benchmark]",
		Short: "Run a registered benchmark",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := jlog.InitLogger(logLevel); err != nil {
				return err
			}

			s, ok := registry[args[0]]
			if !ok {
				return fmt.Errorf("jamhbench: unknown benchmark %q", args[0])
			}

			et, err := bench.ParseExecutorType(executorType)
			if err != nil {
				return err
			}
			bt, err := bench.ParseBenchmarkType(benchType)
			if err != nil {
				return err
			}

			cfg := bench.Config{
				MaxThreads:            maxThreads,
				WarmupIterations:      warmupIters,
				MeasurementIterations: measureIters,
				IterationTime:         iterTime,
				FailOnError:           failOnError,
				ThreadGroups:          threadGroups,
				ExecutorType:          et,
				BenchmarkTypes:        []bench.BenchmarkType{bt},
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			g := codegen.NewGenerator()
			stub, err := g.Generate(s.Descriptor, s.Factories, s.Invoke)
			if err != nil {
				return err
			}

			var sinks output.Multi
			sinks = append(sinks, output.NewConsoleSink())
			if jsonlOut != "" {
				f, err := os.Create(jsonlOut)
				if err != nil {
					return fmt.Errorf("jamhbench: open jsonl output: %w", err)
				}
				defer f.Close()
				sinks = append(sinks, output.NewJSONLSink(f))
			}
			var chart *output.EChartsSink
			if chartOut != "" {
				chart = output.NewEChartsSink(chartOut, s.Descriptor.MethodName, s.Descriptor.FullName())
				sinks = append(sinks, chart)
			}

			fmt.Printf("Running %s (%s)\n", s.Descriptor.FullName(), bt)
			fmt.Printf("  threads=%d warmup=%d measure=%d iteration_time=%s executor=%s\n",
				cfg.MaxThreads, cfg.WarmupIterations, cfg.MeasurementIterations, cfg.IterationTime, et)

			var copts []coordinator.Option
			if profileRun {
				copts = append(copts, coordinator.WithProfiler(profiler.NewOTelHook(s.Descriptor.FullName())))
			}
			c := coordinator.New(cfg, stub, copts...)
			failed := false
			result, err := c.Run(context.Background(), func(r coordinator.RunResult) {
				if serr := sinks.IterationResult(r.Data); serr != nil {
					sinks.Exception(serr)
				}
				if r.Data.Status == bench.StatusFailed {
					failed = true
				}
			})
			if err != nil {
				sinks.Exception(err)
				if cfg.FailOnError {
					return err
				}
			}
			if chart != nil {
				if err := chart.Flush(); err != nil {
					sinks.Exception(err)
				}
			}

			fmt.Printf("Result: %d ops in %s (%.2f ops/sec)\n",
				result.Operations, result.Time, bench.Rate(bench.Throughput, result))

			if failed && cfg.FailOnError {
				os.Exit(1)
			}
			return nil
		},
	}
	runCmd.Flags().IntVar(&maxThreads, "max-threads", 4, "number of worker threads")
	runCmd.Flags().IntVar(&warmupIters, "warmup-iterations", 2, "warmup iteration count")
	runCmd.Flags().IntVar(&measureIters, "measurement-iterations", 5, "measurement iteration count")
	runCmd.Flags().DurationVar(&iterTime, "iteration-time", time.Second, "duration of each iteration")
	runCmd.Flags().StringVar(&executorType, "executor", "fixed", "executor type: fixed|cached|forkjoin|shared_forkjoin")
	runCmd.Flags().StringVar(&benchType, "type", "Throughput", "benchmark type: Throughput|AverageTime|SampleTime|SingleShotTime|All")
	runCmd.Flags().BoolVar(&failOnError, "fail-on-error", false, "abort the run on the first failed iteration")
	runCmd.Flags().IntSliceVar(&threadGroups, "thread-groups", nil, "explicit per-group thread counts, must sum to max-threads")
	runCmd.Flags().StringVar(&logLevel, "log-level", "info", "trace|debug|info|warn|error|crit")
	runCmd.Flags().StringVar(&jsonlOut, "jsonl-out", "", "write per-iteration JSON lines to this file")
	runCmd.Flags().StringVar(&chartOut, "chart-out", "", "write an HTML chart of the run to this directory")
	runCmd.Flags().BoolVar(&profileRun, "profile", false, "wrap each iteration in an OpenTelemetry span (requires a tracer provider set via otel.SetTracerProvider)")

	describeCmd := &cobra.Command{
		Use:   "describe [benchmark]",
		Short: "Print a benchmark's state/helper breakdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, ok := registry[args[0]]
			if !ok {
				return fmt.Errorf("jamhbench: unknown benchmark %q", args[0])
			}
			fmt.Println(s.Descriptor.String())
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List registered benchmarks",
		RunE: func(cmd *cobra.Command, args []string) error {
			for name := range registry {
				fmt.Println(name)
			}
			return nil
		},
	}

	consoleCmd := &cobra.Command{
		Use:   "console",
		Short: "Interactive REPL for listing/describing/running benchmarks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConsole()
		},
	}

	rootCmd.AddCommand(runCmd, describeCmd, listCmd, consoleCmd)
	rootCmd.PersistentFlags().StringVar(&Version, "version", Version, "")
	_ = rootCmd.PersistentFlags().MarkHidden("version")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runConsole is the chzyer/readline-backed REPL front end (SPEC_FULL.md
// §6.1): line-oriented, out of the core's scope, purely a convenience over
// the same registry/coordinator the cobra subcommands use.
func runConsole() error {
	rl, err := readline.New("jamhbench> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	fmt.Println("jamhbench console. Commands: list, describe <name>, run <name>, exit")
	for {
		line, err := rl.Readline()
		if err != nil {
			return nil
		}
		switch {
		case line == "list":
			for name := range registry {
				fmt.Println(name)
			}
		case line == "exit", line == "quit":
			return nil
		case len(line) > len("describe ") && line[:9] == "describe ":
			name := line[9:]
			if s, ok := registry[name]; ok {
				fmt.Println(s.Descriptor.String())
			} else {
				fmt.Printf("unknown benchmark %q\n", name)
			}
		case len(line) > len("run ") && line[:4] == "run ":
			name := line[4:]
			s, ok := registry[name]
			if !ok {
				fmt.Printf("unknown benchmark %q\n", name)
				continue
			}
			if err := runInConsole(s); err != nil {
				fmt.Println("error:", err)
			}
		default:
			fmt.Println("unrecognized command")
		}
	}
}

func runInConsole(s suite) error {
	g := codegen.NewGenerator()
	stub, err := g.Generate(s.Descriptor, s.Factories, s.Invoke)
	if err != nil {
		return err
	}
	cfg := bench.Config{
		MaxThreads:            2,
		WarmupIterations:      1,
		MeasurementIterations: 2,
		IterationTime:         200 * time.Millisecond,
		ExecutorType:          bench.ExecutorFixed,
		BenchmarkTypes:        []bench.BenchmarkType{bench.Throughput},
	}
	c := coordinator.New(cfg, stub)
	result, err := c.Run(context.Background(), nil)
	if err != nil {
		return err
	}
	fmt.Printf("%d ops in %s (%.2f ops/sec)\n", result.Operations, result.Time, bench.Rate(bench.Throughput, result))
	return nil
}
