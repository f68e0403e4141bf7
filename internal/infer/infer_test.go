package infer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"millie/internal/ast"
	"millie/internal/diagnostics"
	"millie/internal/symbols"
	"millie/internal/token"
	"millie/internal/types"
)

// fix builds a minimal single-token span so analyze() can compute spans
// without a real lexer run.
func fix() (*ast.Arena, *token.Table) {
	a := ast.NewArena()
	tbl := token.NewTable()
	tbl.Add(token.Token{Kind: token.Ident, Span: token.Span{Start: 0, End: 1}})
	return a, tbl
}

func TestInferIdentityFunctionIsPolymorphic(t *testing.T) {
	a, tbl := fix()
	interner := symbols.NewInterner()
	store := types.NewStore()
	sink := diagnostics.NewSink()
	x := interner.Intern("x")

	body := a.New(ast.Identifier, 0, 0)
	a.Get(body).Sym = x

	lambda := a.New(ast.Lambda, 0, 0)
	a.Get(lambda).Name = x
	a.Get(lambda).Body = body

	c := NewChecker(store, a, tbl, sink, interner)
	typ := c.Infer(lambda)

	require.False(t, sink.HasErrors())
	assert.Equal(t, types.FuncKind, store.Kind(typ))
	from, to := store.FuncParts(typ)
	assert.Equal(t, store.Prune(from), store.Prune(to))
}

func TestInferUnboundIdentifierReportsNameError(t *testing.T) {
	a, tbl := fix()
	interner := symbols.NewInterner()
	store := types.NewStore()
	sink := diagnostics.NewSink()

	id := a.New(ast.Identifier, 0, 0)
	a.Get(id).Sym = interner.Intern("nope")

	c := NewChecker(store, a, tbl, sink, interner)
	typ := c.Infer(id)

	require.True(t, sink.HasErrors())
	assert.Equal(t, diagnostics.NameResolution, sink.All()[0].Kind)
	assert.Equal(t, types.ErrorKind, store.Kind(typ))
}

func TestInferIfBranchMismatchReported(t *testing.T) {
	a, tbl := fix()
	interner := symbols.NewInterner()
	store := types.NewStore()
	sink := diagnostics.NewSink()

	test := a.New(ast.True, 0, 0)
	then := a.New(ast.IntLit, 0, 0)
	els := a.New(ast.False, 0, 0)
	ifNode := a.New(ast.If, 0, 0)
	n := a.Get(ifNode)
	n.Test, n.Then, n.Else = test, then, els

	c := NewChecker(store, a, tbl, sink, interner)
	c.Infer(ifNode)

	require.True(t, sink.HasErrors())
	assert.Equal(t, "IfBranches", sink.All()[0].Rule)
}

func TestInferLetGeneralizesAcrossUses(t *testing.T) {
	a, tbl := fix()
	interner := symbols.NewInterner()
	store := types.NewStore()
	sink := diagnostics.NewSink()
	idSym := interner.Intern("id")
	x := interner.Intern("x")

	// let id = fn x => x in (id 1, id true)
	idBody := a.New(ast.Identifier, 0, 0)
	a.Get(idBody).Sym = x
	lambda := a.New(ast.Lambda, 0, 0)
	a.Get(lambda).Name, a.Get(lambda).Body = x, idBody

	idRef1 := a.New(ast.Identifier, 0, 0)
	a.Get(idRef1).Sym = idSym
	one := a.New(ast.IntLit, 0, 0)
	apply1 := a.New(ast.Apply, 0, 0)
	a.Get(apply1).Func, a.Get(apply1).Arg = idRef1, one

	idRef2 := a.New(ast.Identifier, 0, 0)
	a.Get(idRef2).Sym = idSym
	tru := a.New(ast.True, 0, 0)
	apply2 := a.New(ast.Apply, 0, 0)
	a.Get(apply2).Func, a.Get(apply2).Arg = idRef2, tru

	body := a.New(ast.Tuple, 0, 0)
	bn := a.Get(body)
	bn.First = apply1
	final := a.New(ast.TupleFinal, 0, 0)
	a.Get(final).First = apply2
	bn.Rest = final
	bn.Length = 2

	letNode := a.New(ast.Let, 0, 0)
	ln := a.Get(letNode)
	ln.Name, ln.Value, ln.Body = idSym, lambda, body

	c := NewChecker(store, a, tbl, sink, interner)
	c.Infer(letNode)

	assert.False(t, sink.HasErrors(), "polymorphic let-bound identity should apply to both int and bool")
}
