package format

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"millie/internal/ast"
	"millie/internal/bytecode"
	"millie/internal/compiler"
	"millie/internal/diagnostics"
	"millie/internal/infer"
	"millie/internal/symbols"
	"millie/internal/token"
	"millie/internal/types"
	"millie/internal/vm"
)

func run(t *testing.T, build func(a *ast.Arena) ast.ID) (*types.Store, types.ID, *vm.Machine, vm.Word) {
	t.Helper()
	a := ast.NewArena()
	tbl := token.NewTable()
	tbl.Add(token.Token{Kind: token.Int, Span: token.Span{Start: 0, End: 1}})
	interner := symbols.NewInterner()
	sink := diagnostics.NewSink()

	id := build(a)

	store := types.NewStore()
	checker := infer.NewChecker(store, a, tbl, sink, interner)
	ty := checker.Infer(id)
	if sink.HasErrors() {
		t.Fatalf("unexpected inference errors: %+v", sink.All())
	}

	mod := bytecode.NewModule()
	fid := compiler.New(a, tbl, mod, sink).Compile(id)
	if sink.HasErrors() {
		t.Fatalf("unexpected compile errors: %+v", sink.All())
	}

	m := vm.New(mod)
	w := m.Run(fid)
	return store, ty, m, w
}

func TestValueFormatsInt(t *testing.T) {
	store, ty, m, w := run(t, func(a *ast.Arena) ast.ID {
		id := a.New(ast.IntLit, 0, 0)
		a.Get(id).IntValue = 9
		return id
	})
	assert.Equal(t, "9", Value(store, ty, m, w))
}

func TestValueFormatsBool(t *testing.T) {
	store, ty, m, w := run(t, func(a *ast.Arena) ast.ID {
		return a.New(ast.True, 0, 0)
	})
	assert.Equal(t, "true", Value(store, ty, m, w))
}

func TestValueFormatsFunctionOpaquely(t *testing.T) {
	store, ty, m, w := run(t, func(a *ast.Arena) ast.ID {
		interner := symbols.NewInterner()
		x := interner.Intern("x")
		body := a.New(ast.Identifier, 0, 0)
		a.Get(body).Sym = x
		lambda := a.New(ast.Lambda, 0, 0)
		a.Get(lambda).Name, a.Get(lambda).Body = x, body
		return lambda
	})
	assert.Equal(t, "A FUNCTION", Value(store, ty, m, w))
}

func TestValueFormatsTuple(t *testing.T) {
	store, ty, m, w := run(t, func(a *ast.Arena) ast.ID {
		one := a.New(ast.IntLit, 0, 0)
		a.Get(one).IntValue = 1
		final := a.New(ast.TupleFinal, 0, 0)
		a.Get(final).First = a.New(ast.True, 0, 0)
		tup := a.New(ast.Tuple, 0, 0)
		n := a.Get(tup)
		n.First, n.Rest, n.Length = one, final, 2
		return tup
	})
	assert.Equal(t, "(1, true)", Value(store, ty, m, w))
}
