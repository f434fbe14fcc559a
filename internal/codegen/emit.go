package codegen

import (
	"bytes"
	"fmt"
	"go/format"
	"sort"
	"strconv"
	"strings"
	"text/template"

	"github.com/colorfulnotion/jamhbench/internal/bench"
	"github.com/colorfulnotion/jamhbench/internal/descriptor"
)

// callLine is one reflective helper dispatch in a generated ordering
// method: `codegen.InvokeHelper(s.<Field>, "<Helper>")`.
type callLine struct {
	Field  string
	Helper string
}

// helperMapEntry renders one `"owner.Type": {...}` line of the generated
// Descriptor.Helpers map literal.
type helperMapEntry struct {
	StateType string
	Methods   []string
}

// fieldLine renders one wrapper-struct field and its documenting comment.
type fieldLine struct {
	Name    string
	Comment string
}

// emitData is the view text/template renders from. Every value here is
// already a finished Go source fragment or identifier; the template's job
// is only layout, not decision-making, so two Bind() calls against
// identical descriptors always drive the template with identical data and
// produce byte-identical output regardless of map iteration order.
type emitData struct {
	Package        string
	FullName       string
	MethodName     string
	OwnerType      string
	BenchmarkTypes []string
	Parameters     []string
	Helpers        []helperMapEntry
	StructName     string
	OnceVar        string
	InstVar        string
	ConstructorFn  string
	Fields         []fieldLine

	TrialTeardown      []callLine
	IterationSetup     []callLine
	IterationTeardown  []callLine
	InvocationSetup    []callLine
	InvocationTeardown []callLine
}

var stubTemplate = template.Must(template.New("stub").Parse(`// Code generated by jamhbench-gen from {{.FullName}}. DO NOT EDIT.

package {{.Package}}

import (
	"sync"

	"github.com/colorfulnotion/jamhbench/internal/bench"
	"github.com/colorfulnotion/jamhbench/internal/codegen"
	"github.com/colorfulnotion/jamhbench/internal/descriptor"
)

// Descriptor is the resolved binding jamhbench-gen produced for
// {{.FullName}}. RegisterGenerated below makes it discoverable to any
// runtime front end that wants to enumerate generated stubs without
// walking the filesystem.
var Descriptor = &descriptor.BenchmarkDescriptor{
	MethodName: {{printf "%q" .MethodName}},
	OwnerType:  {{printf "%q" .OwnerType}},
	BenchmarkTypes: []bench.BenchmarkType{ {{range .BenchmarkTypes}}{{.}}, {{end}} },
	Parameters: []descriptor.ParamBinding{
{{range .Parameters}}		{{.}},
{{end}}	},
	Helpers: map[string][]descriptor.HelperMethod{
{{range .Helpers}}		{{printf "%q" .StateType}}: {
{{range .Methods}}			{{.}},
{{end}}		},
{{end}}	},
}

// {{.StructName}} is the wrapper {{.FullName}} binds its state objects
// into, one field per Descriptor.Parameters entry, in order. Fields are
// declared any: StateType is a logical "owner.Type" identifier the front
// end resolved from the declarative source, not an importable Go type, so
// there is no concrete field type to declare here. Bind still constructs
// and boxes the real instances at runtime (see codegen.BenchmarkStub.Bind);
// this struct only carries them for the ordered helper dispatch below,
// which — for the same reason — goes through codegen.InvokeHelper's
// reflection rather than a direct, statically typed method call.
type {{.StructName}} struct {
{{range .Fields}}	{{.Name}} any // {{.Comment}}
{{end}}}

var (
	{{.OnceVar}} sync.Once
	{{.InstVar}} *{{.StructName}}
)

// {{.ConstructorFn}} returns the process-wide {{.StructName}}, constructing
// it on first call and reusing it for every caller after that — the
// generated stand-in for BaseMicroBenchmarkHandler's InstanceProvider,
// guarding {{.StructName}}'s own construction the way codegen.Lazy guards
// an arbitrary owner factory.
func {{.ConstructorFn}}() *{{.StructName}} {
	{{.OnceVar}}.Do(func() {
		{{.InstVar}} = &{{.StructName}}{}
	})
	return {{.InstVar}}
}

func init() {
	codegen.RegisterGenerated(Descriptor)
}

// runTrialTeardown runs {{.FullName}}'s Level.Trial Teardown helpers in the
// order Descriptor.Parameters and Descriptor.Helpers require.
func (s *{{.StructName}}) runTrialTeardown() error {
{{range .TrialTeardown}}	if err := codegen.InvokeHelper(s.{{.Field}}, {{printf "%q" .Helper}}); err != nil {
		return err
	}
{{end}}	return nil
}

// runIterationSetup runs {{.FullName}}'s Level.Iteration Setup helpers,
// once per worker, before that worker crosses the measured-window start
// barrier.
func (s *{{.StructName}}) runIterationSetup() error {
{{range .IterationSetup}}	if err := codegen.InvokeHelper(s.{{.Field}}, {{printf "%q" .Helper}}); err != nil {
		return err
	}
{{end}}	return nil
}

// runIterationTeardown runs {{.FullName}}'s Level.Iteration Teardown
// helpers, once per worker, after that worker crosses the measured-window
// end barrier.
func (s *{{.StructName}}) runIterationTeardown() error {
{{range .IterationTeardown}}	if err := codegen.InvokeHelper(s.{{.Field}}, {{printf "%q" .Helper}}); err != nil {
		return err
	}
{{end}}	return nil
}

// runInvocationSetup runs {{.FullName}}'s Level.Invocation Setup helpers.
// These sit inside the measured window by design.
func (s *{{.StructName}}) runInvocationSetup() error {
{{range .InvocationSetup}}	if err := codegen.InvokeHelper(s.{{.Field}}, {{printf "%q" .Helper}}); err != nil {
		return err
	}
{{end}}	return nil
}

// runInvocationTeardown runs {{.FullName}}'s Level.Invocation Teardown
// helpers.
func (s *{{.StructName}}) runInvocationTeardown() error {
{{range .InvocationTeardown}}	if err := codegen.InvokeHelper(s.{{.Field}}, {{printf "%q" .Helper}}); err != nil {
		return err
	}
{{end}}	return nil
}
`)).Option("missingkey=error")

// scopeConst/levelConst/kindConst/benchmarkTypeConst render a bench package
// constant reference from its value, e.g. bench.ScopeBenchmark ->
// "bench.ScopeBenchmark". String()'s own text is reused rather than
// duplicating the switch here, so a new bench.Scope value can't silently
// desync EmitSource from the type it renders.
func scopeConst(s bench.Scope) string                 { return "bench.Scope" + s.String() }
func levelConst(l bench.Level) string                 { return "bench.Level" + l.String() }
func benchmarkTypeConst(b bench.BenchmarkType) string { return "bench." + b.String() }

func kindConst(k bench.HelperKind) string {
	if k == bench.HelperSetup {
		return "bench.HelperSetup"
	}
	return "bench.HelperTeardown"
}

// capitalize upper-cases s's first byte, leaving the rest untouched. Every
// identifier fragment EmitSource capitalizes here (owner-type path
// segments, method names) is already valid Go-identifier text supplied by
// the declarative source, so a byte-level operation is enough — no need
// for strings.Title's full Unicode word-boundary handling.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// goStructName turns "owner.Type" + a method name into an exported,
// generator-unique Go identifier, e.g. "bench.Counter" + "add" ->
// "BenchCounterAddStub".
func goStructName(ownerType, methodName string) string {
	var b strings.Builder
	for _, part := range strings.Split(ownerType, ".") {
		b.WriteString(capitalize(part))
	}
	b.WriteString(capitalize(methodName))
	b.WriteString("Stub")
	return b.String()
}

func helperMethodLiteral(h descriptor.HelperMethod) string {
	return fmt.Sprintf("{Name: %s, Level: %s, Kind: %s}", strconv.Quote(h.Name), levelConst(h.Level), kindConst(h.Kind))
}

func callLines(block []HelperInvocation) []callLine {
	out := make([]callLine, 0, len(block))
	for _, inv := range block {
		out = append(out, callLine{Field: inv.State.FieldIdentifier, Helper: inv.Helper.Name})
	}
	return out
}

// EmitSource renders deterministic, gofmt-clean Go source implementing the
// bound stub for d — the build-time mode of SPEC_FULL.md §4.1. The output
// is a real,
// compilable package: a Descriptor literal, a wrapper struct, a
// sync.Once-guarded constructor, a registering init() function, and the
// ordered Setup/Teardown dispatch methods for every (level, kind) block —
// not documentation of those decisions, the decisions themselves as Go
// declarations. The one thing it cannot emit is a statically typed call
// into the state types themselves: StateType is a logical "owner.Type"
// string the front end resolved from the declarative YAML source, never a
// resolvable Go import, so both the wrapper's fields and its dispatch
// methods go through the same reflection path (codegen.InvokeHelper) that
// BenchmarkStub itself uses at runtime for exactly the same reason.
func EmitSource(pkg string, d *descriptor.BenchmarkDescriptor, states []StateObject) ([]byte, error) {
	var benchmarkTypes []string
	for _, bt := range d.BenchmarkTypes {
		benchmarkTypes = append(benchmarkTypes, benchmarkTypeConst(bt))
	}

	var params []string
	for _, p := range d.Parameters {
		params = append(params, fmt.Sprintf("{StateType: %s, Scope: %s}", strconv.Quote(p.StateType), scopeConst(p.Scope)))
	}

	stateTypes := make([]string, 0, len(d.Helpers))
	for st := range d.Helpers {
		stateTypes = append(stateTypes, st)
	}
	sort.Strings(stateTypes)
	var helpers []helperMapEntry
	for _, st := range stateTypes {
		entry := helperMapEntry{StateType: st}
		for _, h := range d.Helpers[st] {
			entry.Methods = append(entry.Methods, helperMethodLiteral(h))
		}
		helpers = append(helpers, entry)
	}

	sorted := SortStateObjects(states)
	var fields []fieldLine
	for _, so := range sorted {
		fields = append(fields, fieldLine{
			Name:    so.FieldIdentifier,
			Comment: fmt.Sprintf("%s (%s)", so.Type, so.Scope.String()),
		})
	}

	structName := goStructName(d.OwnerType, d.MethodName)
	unexported := strings.ToLower(structName[:1]) + structName[1:]

	data := emitData{
		Package:        pkg,
		FullName:       d.FullName(),
		MethodName:     d.MethodName,
		OwnerType:      d.OwnerType,
		BenchmarkTypes: benchmarkTypes,
		Parameters:     params,
		Helpers:        helpers,
		StructName:     structName,
		OnceVar:        unexported + "Once",
		InstVar:        unexported + "Inst",
		ConstructorFn:  "new" + structName,
		Fields:         fields,

		TrialTeardown:      callLines(HelperBlock(d, states, bench.LevelTrial, bench.HelperTeardown)),
		IterationSetup:     callLines(HelperBlock(d, states, bench.LevelIteration, bench.HelperSetup)),
		IterationTeardown:  callLines(HelperBlock(d, states, bench.LevelIteration, bench.HelperTeardown)),
		InvocationSetup:    callLines(HelperBlock(d, states, bench.LevelInvocation, bench.HelperSetup)),
		InvocationTeardown: callLines(HelperBlock(d, states, bench.LevelInvocation, bench.HelperTeardown)),
	}

	var buf bytes.Buffer
	if err := stubTemplate.Execute(&buf, data); err != nil {
		return nil, &GenerationError{Benchmark: d.FullName(), Err: fmt.Errorf("render: %w", err)}
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, &GenerationError{Benchmark: d.FullName(), Err: fmt.Errorf("gofmt: %w", err)}
	}
	return formatted, nil
}
