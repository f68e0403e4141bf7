// Package infer implements Algorithm W over Millie's AST: Hindley-Milner
// type inference with let-polymorphism, reporting unification failures
// and unbound identifiers through a diagnostics.Sink.
package infer

import (
	"millie/internal/ast"
	"millie/internal/diagnostics"
	"millie/internal/symbols"
	"millie/internal/token"
	"millie/internal/types"
)

// env is an immutable linked chain of symbol -> type bindings.
type env struct {
	parent *env
	sym    symbols.Symbol
	typ    types.ID
}

func (e *env) lookup(sym symbols.Symbol) (types.ID, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if cur.sym == sym {
			return cur.typ, true
		}
	}
	return types.NoType, false
}

func (e *env) extend(sym symbols.Symbol, typ types.ID) *env {
	return &env{parent: e, sym: sym, typ: typ}
}

// Checker threads the type Store, the arena and token table of the
// program under analysis, and the diagnostics sink through one pass of
// Algorithm W.
type Checker struct {
	Types    *types.Store
	Arena    *ast.Arena
	Tokens   *token.Table
	Sink     *diagnostics.Sink
	Interner *symbols.Interner
}

// NewChecker returns a Checker ready to analyse nodes from arena/tokens,
// reporting into sink and allocating types from store. interner resolves
// symbols back to their source text for diagnostic messages.
func NewChecker(store *types.Store, arena *ast.Arena, tokens *token.Table, sink *diagnostics.Sink, interner *symbols.Interner) *Checker {
	return &Checker{Types: store, Arena: arena, Tokens: tokens, Sink: sink, Interner: interner}
}

// Infer returns the principal type of the top-level expression id.
func (c *Checker) Infer(id ast.ID) types.ID {
	return c.analyze(id, nil, nil)
}

func (c *Checker) span(id ast.ID) (start, end int) {
	n := c.Arena.Get(id)
	return c.Tokens.SpanOf(n.Start, n.End)
}

func (c *Checker) analyze(id ast.ID, e *env, nonGeneric []types.ID) types.ID {
	n := c.Arena.Get(id)

	switch n.Kind {
	case ast.IntLit:
		return c.Types.Int

	case ast.True, ast.False:
		return c.Types.Bool

	case ast.Identifier:
		t, ok := e.lookup(n.Sym)
		if !ok {
			start, end := c.span(id)
			c.Sink.Addf(diagnostics.NameResolution, "", start, end, "unbound identifier %q", c.Interner.KeyOf(n.Sym))
			return c.Types.Error
		}
		return c.Types.Instantiate(t)

	case ast.Lambda:
		param := c.Types.NewVar()
		bodyEnv := e.extend(n.Name, param)
		result := c.analyze(n.Body, bodyEnv, append(nonGeneric, param))
		return c.Types.NewFunc(param, result)

	case ast.Apply:
		tf := c.analyze(n.Func, e, nonGeneric)
		tx := c.analyze(n.Arg, e, nonGeneric)
		result := c.Types.NewVar()
		start, end := c.span(id)
		c.Types.Unify(c.Sink, start, end, types.InvalidApply, tf, c.Types.NewFunc(tx, result))
		return result

	case ast.Let:
		tv := c.analyze(n.Value, e, nonGeneric)
		tg := c.Types.Generalize(tv, nonGeneric)
		return c.analyze(n.Body, e.extend(n.Name, tg), nonGeneric)

	case ast.LetRec:
		self := c.Types.NewVar()
		e2 := e.extend(n.Name, self)
		ng2 := append(nonGeneric, self)
		tv := c.analyze(n.Value, e2, ng2)
		start, end := c.span(id)
		c.Types.Unify(c.Sink, start, end, types.InconsistentRecursion, self, tv)
		c.Types.SetInstance(self, c.Types.Generalize(self, nonGeneric))
		return c.analyze(n.Body, e2, nonGeneric)

	case ast.If:
		tc := c.analyze(n.Test, e, nonGeneric)
		start, end := c.span(n.Test)
		c.Types.Unify(c.Sink, start, end, types.IfCondition, tc, c.Types.Bool)

		tt := c.analyze(n.Then, e, nonGeneric)
		te := c.analyze(n.Else, e, nonGeneric)
		start, end = c.span(id)
		c.Types.Unify(c.Sink, start, end, types.IfBranches, tt, te)
		return tt

	case ast.Binary:
		tl := c.analyze(n.Left, e, nonGeneric)
		tr := c.analyze(n.Right, e, nonGeneric)
		start, end := c.span(id)
		if n.BinOp == ast.EqOp {
			c.Types.Unify(c.Sink, start, end, types.BinaryOperator, tl, tr)
			return c.Types.Bool
		}
		c.Types.Unify(c.Sink, start, end, types.BinaryOperator, tl, c.Types.Int)
		c.Types.Unify(c.Sink, start, end, types.BinaryOperator, tr, c.Types.Int)
		return c.Types.Int

	case ast.Unary:
		tx := c.analyze(n.Arg, e, nonGeneric)
		start, end := c.span(id)
		// Decided open question: unary '-' constrains its operand to Int.
		c.Types.Unify(c.Sink, start, end, types.BinaryOperator, tx, c.Types.Int)
		return c.Types.Int

	case ast.Tuple:
		first := c.analyze(n.First, e, nonGeneric)
		rest := c.analyze(n.Rest, e, nonGeneric)
		return c.Types.NewTuple(first, rest)

	case ast.TupleFinal:
		first := c.analyze(n.First, e, nonGeneric)
		return c.Types.NewTupleFinal(first)

	case ast.Error:
		start, end := c.span(id)
		c.Sink.Addf(diagnostics.Type, "", start, end, "invalid expression")
		return c.Types.Error

	default:
		start, end := c.span(id)
		c.Sink.Addf(diagnostics.Type, "", start, end, "invalid expression")
		return c.Types.Error
	}
}
