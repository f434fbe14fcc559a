package benchlist

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteSortsAndDeduplicates(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, []string{
		"bench.Counter.add",
		"bench.Adder.sum",
		"bench.Counter.add",
	})
	require.NoError(t, err)
	assert.Equal(t, "bench.Adder.sum\nbench.Counter.add\n", buf.String())
}

func TestWriteEmptyProducesEmptyOutput(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, nil))
	assert.Empty(t, buf.String())
}

func TestValidMethodSignature(t *testing.T) {
	assert.True(t, ValidMethodSignature("func(*bench.Loop) bench.Result"))
	assert.False(t, ValidMethodSignature("func(*bench.Loop, int) bench.Result"))
	assert.False(t, ValidMethodSignature("func() bench.Result"))
}
