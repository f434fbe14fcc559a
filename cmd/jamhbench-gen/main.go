// Command jamhbench-gen is the build-time front end: it reads a small
// declarative YAML description of one or more benchmark methods, resolves
// each into a descriptor.BenchmarkDescriptor, and emits the corresponding
// Go stub source via internal/codegen.EmitSource. This is the build-time
// mode SPEC_FULL.md §4.1 describes — Go has no annotation processor to hang real source-level discovery off of, so this
// declarative form stands in for the @Benchmark/@State annotations the
// original processor scanned.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/colorfulnotion/jamhbench/internal/bench"
	"github.com/colorfulnotion/jamhbench/internal/codegen"
	"github.com/colorfulnotion/jamhbench/internal/descriptor"
	"github.com/colorfulnotion/jamhbench/internal/output"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// sourceFile is the YAML shape a declarative benchmark description takes.
type sourceFile struct {
	Package    string          `yaml:"package"`
	Benchmarks []sourceMethod `yaml:"benchmarks"`
}

type sourceMethod struct {
	MethodName     string           `yaml:"method_name"`
	OwnerType      string           `yaml:"owner_type"`
	BenchmarkTypes []string         `yaml:"benchmark_types"`
	Parameters     []sourceParam    `yaml:"parameters"`
	Helpers        []sourceHelper   `yaml:"helpers"`
}

type sourceParam struct {
	StateType string `yaml:"state_type"`
	Scope     string `yaml:"scope"`
}

type sourceHelper struct {
	StateType string `yaml:"state_type"`
	Name      string `yaml:"name"`
	Level     string `yaml:"level"`
	Kind      string `yaml:"kind"`
}

func parseScope(s string) (bench.Scope, error) {
	switch s {
	case "Benchmark":
		return bench.ScopeBenchmark, nil
	case "Group":
		return bench.ScopeGroup, nil
	case "Thread":
		return bench.ScopeThread, nil
	default:
		return 0, fmt.Errorf("jamhbench-gen: unknown scope %q", s)
	}
}

func parseLevel(s string) (bench.Level, error) {
	switch s {
	case "Trial":
		return bench.LevelTrial, nil
	case "Iteration":
		return bench.LevelIteration, nil
	case "Invocation":
		return bench.LevelInvocation, nil
	default:
		return 0, fmt.Errorf("jamhbench-gen: unknown level %q", s)
	}
}

func parseKind(s string) (bench.HelperKind, error) {
	switch s {
	case "Setup":
		return bench.HelperSetup, nil
	case "Teardown":
		return bench.HelperTeardown, nil
	default:
		return 0, fmt.Errorf("jamhbench-gen: unknown helper kind %q", s)
	}
}

func toDescriptor(m sourceMethod) (*descriptor.BenchmarkDescriptor, error) {
	d := &descriptor.BenchmarkDescriptor{
		MethodName: m.MethodName,
		OwnerType:  m.OwnerType,
		Helpers:    make(map[string][]descriptor.HelperMethod),
	}
	for _, bt := range m.BenchmarkTypes {
		parsed, err := bench.ParseBenchmarkType(bt)
		if err != nil {
			return nil, err
		}
		d.BenchmarkTypes = append(d.BenchmarkTypes, parsed)
	}
	for _, p := range m.Parameters {
		scope, err := parseScope(p.Scope)
		if err != nil {
			return nil, err
		}
		d.Parameters = append(d.Parameters, descriptor.ParamBinding{StateType: p.StateType, Scope: scope})
	}
	for _, h := range m.Helpers {
		level, err := parseLevel(h.Level)
		if err != nil {
			return nil, err
		}
		kind, err := parseKind(h.Kind)
		if err != nil {
			return nil, err
		}
		d.Helpers[h.StateType] = append(d.Helpers[h.StateType], descriptor.HelperMethod{
			Name: h.Name, Level: level, Kind: kind,
		})
	}
	return d, nil
}

// generateOne resolves and emits the stub source for a single YAML
// benchmark entry. Pulled out of main's RunE so the loop there can treat
// any stage's failure — bad descriptor, Bind, EmitSource, or the file
// write — as "skip this one" rather than "abort the run".
func generateOne(g *codegen.Generator, pkg, out string, m sourceMethod) error {
	d, err := toDescriptor(m)
	if err != nil {
		return err
	}
	states, err := g.Bind(d)
	if err != nil {
		return err
	}
	code, err := codegen.EmitSource(pkg, d, states)
	if err != nil {
		return err
	}
	owner := strings.ReplaceAll(d.OwnerType, ".", "_")
	filename := filepath.Join(out, fmt.Sprintf("%s_%s_stub.go", owner, d.MethodName))
	if err := os.WriteFile(filename, code, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filename, err)
	}
	fmt.Printf("wrote %s (fingerprint %s)\n", filename, codegen.Fingerprint(d))
	return nil
}

func main() {
	var (
		in  string
		out string
	)
	rootCmd := &cobra.Command{
		Use:   "jamhbench-gen",
		Short: "Emit benchmark stub source from a declarative YAML description",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(in)
			if err != nil {
				return fmt.Errorf("jamhbench-gen: read %s: %w", in, err)
			}
			var src sourceFile
			if err := yaml.Unmarshal(raw, &src); err != nil {
				return fmt.Errorf("jamhbench-gen: parse %s: %w", in, err)
			}

			if err := os.MkdirAll(out, 0o755); err != nil {
				return fmt.Errorf("jamhbench-gen: create output dir: %w", err)
			}

			g := codegen.NewGenerator()

			// A bad descriptor in one benchmark's YAML entry must not abort
			// the whole generation run: BenchmarkList-style front ends
			// (MicroBenchmarkProcessor's own behavior) skip the offending
			// method and keep going, so the rest of the suite still gets
			// stub source. Failures are reported through a Sink instead of
			// returned, and only turn into a nonzero exit once every
			// benchmark has had its turn.
			sink := output.NewConsoleSink()
			var failed int
			for _, m := range src.Benchmarks {
				name := m.OwnerType + "." + m.MethodName
				if err := generateOne(g, src.Package, out, m); err != nil {
					sink.Exception(fmt.Errorf("jamhbench-gen: %s: %w", name, err))
					failed++
					continue
				}
			}
			if failed > 0 {
				return fmt.Errorf("jamhbench-gen: %d of %d benchmark(s) failed to generate", failed, len(src.Benchmarks))
			}
			return nil
		},
	}
	rootCmd.Flags().StringVar(&in, "in", "", "path to the declarative benchmark YAML source (required)")
	rootCmd.Flags().StringVar(&out, "out", "stubs", "output directory for generated stub source")
	_ = rootCmd.MarkFlagRequired("in")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
