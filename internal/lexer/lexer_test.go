package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"millie/internal/diagnostics"
	"millie/internal/token"
)

func kinds(table *token.Table) []token.Kind {
	var out []token.Kind
	for i := 0; i < table.Len(); i++ {
		out = append(out, table.At(token.Index(i)).Kind)
	}
	return out
}

func TestScanKeywordsAndOperators(t *testing.T) {
	sink := diagnostics.NewSink()
	table := Scan("let rec f = fn x => x + 1 in f 41", sink)

	require.False(t, sink.HasErrors())
	assert.Equal(t, []token.Kind{
		token.KwLet, token.KwRec, token.Ident, token.Equals, token.KwFn,
		token.Ident, token.Arrow, token.Ident, token.Plus, token.Int,
		token.KwIn, token.Ident, token.Int, token.EOF,
	}, kinds(table))
}

func TestScanIntegerOverflowReportsDiagnostic(t *testing.T) {
	sink := diagnostics.NewSink()
	table := Scan("99999999999999999999999999", sink)

	require.True(t, sink.HasErrors())
	assert.Equal(t, diagnostics.Syntactic, sink.All()[0].Kind)
	assert.Equal(t, token.Int, table.At(0).Kind)
}

func TestScanCoalescesUnexpectedCharacterRun(t *testing.T) {
	sink := diagnostics.NewSink()
	Scan("1 @@@ 2", sink)

	require.Len(t, sink.All(), 1)
	assert.Equal(t, diagnostics.Lexical, sink.All()[0].Kind)
	assert.Equal(t, 2, sink.All()[0].Start)
	assert.Equal(t, 5, sink.All()[0].End)
}

func TestIdentifierAllowsQuoteSuffix(t *testing.T) {
	sink := diagnostics.NewSink()
	table := Scan("x'", sink)
	require.False(t, sink.HasErrors())
	assert.Equal(t, "x'", table.At(0).Text)
}
