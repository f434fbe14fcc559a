package codegen

import (
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitSourceParsesAsGo(t *testing.T) {
	d := counterDescriptor()
	states, err := NewGenerator().Bind(d)
	require.NoError(t, err)

	src, err := EmitSource("stubs", d, states)
	require.NoError(t, err)

	fset := token.NewFileSet()
	_, err = parser.ParseFile(fset, "stub.go", src, parser.AllErrors)
	require.NoError(t, err, "generated source must parse as valid Go:\n%s", src)
}

func TestEmitSourceDeclaresRunnableScaffolding(t *testing.T) {
	d := counterDescriptor()
	states, err := NewGenerator().Bind(d)
	require.NoError(t, err)

	src, err := EmitSource("stubs", d, states)
	require.NoError(t, err)
	out := string(src)

	assert.Contains(t, out, "var Descriptor = &descriptor.BenchmarkDescriptor{")
	assert.Contains(t, out, "type BenchCounterAddStub struct {")
	assert.Contains(t, out, "func newBenchCounterAddStub() *BenchCounterAddStub {")
	assert.Contains(t, out, "sync.Once")
	assert.Contains(t, out, "func init() {")
	assert.Contains(t, out, "codegen.RegisterGenerated(Descriptor)")
	assert.Contains(t, out, "func (s *BenchCounterAddStub) runTrialTeardown() error {")
	assert.Contains(t, out, "codegen.InvokeHelper(s.")
}

func TestEmitSourceOrdersIterationSetupCallsByFieldIdentifier(t *testing.T) {
	d := counterDescriptor()
	states, err := NewGenerator().Bind(d)
	require.NoError(t, err)

	src, err := EmitSource("stubs", d, states)
	require.NoError(t, err)
	out := string(src)

	body := out[strings.Index(out, "func (s *BenchCounterAddStub) runIterationSetup() error {"):]
	body = body[:strings.Index(body, "\n}\n")]

	// counterDescriptor declares two Thread-scoped bench.LocalState
	// parameters, each with an IterSetup helper (the Benchmark-scoped
	// SharedState has none at this level), so both calls must appear
	// here in the field order Bind assigned them.
	first := strings.Index(body, "InvokeHelper(s.")
	second := strings.Index(body[first+1:], "InvokeHelper(s.")
	require.NotEqual(t, -1, first)
	require.NotEqual(t, -1, second)
	assert.Less(t, strings.Index(body, "s.f_localstate1_0"), strings.Index(body, "s.f_localstate1_1"))
}

func TestEmitSourceStructNameIsDeterministicAcrossOwnerTypeSegments(t *testing.T) {
	assert.Equal(t, "BenchCounterAddStub", goStructName("bench.Counter", "add"))
	assert.Equal(t, "AStub", goStructName("a", ""))
}
