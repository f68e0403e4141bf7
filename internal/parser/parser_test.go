package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"millie/internal/ast"
	"millie/internal/diagnostics"
	"millie/internal/lexer"
	"millie/internal/symbols"
)

func parse(t *testing.T, src string) (*ast.Arena, ast.ID, *diagnostics.Sink) {
	t.Helper()
	sink := diagnostics.NewSink()
	tokens := lexer.Scan(src, sink)
	a := ast.NewArena()
	interner := symbols.NewInterner()
	id := New(tokens, a, interner, sink).Parse()
	return a, id, sink
}

func TestParseArithmeticPrecedence(t *testing.T) {
	a, id, sink := parse(t, "1 + 2 * 3")
	require.False(t, sink.HasErrors())

	n := a.Get(id)
	require.Equal(t, ast.Binary, n.Kind)
	assert.Equal(t, ast.Add, n.BinOp)
	assert.Equal(t, ast.IntLit, a.Get(n.Left).Kind)
	assert.Equal(t, ast.Binary, a.Get(n.Right).Kind)
	assert.Equal(t, ast.Mul, a.Get(n.Right).BinOp)
}

func TestParseLetRec(t *testing.T) {
	a, id, sink := parse(t, "let rec f = fn x => x in f 1")
	require.False(t, sink.HasErrors())
	assert.Equal(t, ast.LetRec, a.Get(id).Kind)
}

func TestParseTupleNestsRightward(t *testing.T) {
	a, id, sink := parse(t, "(1, 2, 3)")
	require.False(t, sink.HasErrors())

	n := a.Get(id)
	require.Equal(t, ast.Tuple, n.Kind)
	assert.Equal(t, 3, n.Length)

	rest := a.Get(n.Rest)
	require.Equal(t, ast.Tuple, rest.Kind)
	final := a.Get(rest.Rest)
	assert.Equal(t, ast.TupleFinal, final.Kind)
}

func TestParseApplicationIsLeftAssociative(t *testing.T) {
	a, id, sink := parse(t, "f 1 2")
	require.False(t, sink.HasErrors())

	n := a.Get(id)
	require.Equal(t, ast.Apply, n.Kind)
	assert.Equal(t, ast.IntLit, a.Get(n.Arg).Kind)
	inner := a.Get(n.Func)
	require.Equal(t, ast.Apply, inner.Kind)
	assert.Equal(t, ast.Identifier, a.Get(inner.Func).Kind)
}

func TestParseUnexpectedTokenReportsSyntaxError(t *testing.T) {
	_, _, sink := parse(t, "let x = in x")
	require.True(t, sink.HasErrors())
	assert.Equal(t, diagnostics.Syntactic, sink.All()[0].Kind)
}
