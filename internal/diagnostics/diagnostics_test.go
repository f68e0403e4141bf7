package diagnostics

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSinkAccumulatesInOrder(t *testing.T) {
	s := NewSink()
	s.Addf(Type, "BinaryOperator", 0, 1, "first")
	s.Addf(Type, "IfCondition", 2, 3, "second")

	require.True(t, s.HasErrors())
	require.Len(t, s.All(), 2)
	assert.Equal(t, "first", s.All()[0].Message)
	assert.Equal(t, "second", s.All()[1].Message)
}

func TestRenderPlainNonTerminal(t *testing.T) {
	s := NewSink()
	s.Addf(Type, "BinaryOperator", 4, 9, "no valid operator for int and bool")

	var buf bytes.Buffer
	Render(&buf, "input.millie", "1 + true", s.All())

	out := buf.String()
	assert.Contains(t, out, "input.millie:1,5: error: no valid operator for int and bool")
	assert.Contains(t, out, "1 + true")
	assert.Contains(t, out, "^")
}

func TestResyncSuppressesUntilThresholdTokens(t *testing.T) {
	var r Resync
	assert.False(t, r.Suppressed())

	r.ReportedError()
	assert.True(t, r.Suppressed())

	for i := 0; i < ResyncThreshold-1; i++ {
		r.ConsumedValidToken()
		assert.True(t, r.Suppressed(), "should still suppress after %d good tokens", i+1)
	}
	r.ConsumedValidToken()
	assert.False(t, r.Suppressed())
}

func TestLexicalCoalescerMergesAdjacentRuns(t *testing.T) {
	sink := NewSink()
	c := NewLexicalCoalescer(sink)
	c.Bad(3, 4)
	c.Bad(4, 5)
	c.Bad(5, 6)
	c.Flush()

	require.Len(t, sink.All(), 1)
	assert.Equal(t, 3, sink.All()[0].Start)
	assert.Equal(t, 6, sink.All()[0].End)
}

func TestLexicalCoalescerSeparatesNonAdjacentRuns(t *testing.T) {
	sink := NewSink()
	c := NewLexicalCoalescer(sink)
	c.Bad(0, 1)
	c.Bad(10, 11)
	c.Flush()

	require.Len(t, sink.All(), 2)
}
