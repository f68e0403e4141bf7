// Package parser implements a hand-written recursive-descent parser for
// Millie's minimal grammar, building an ast.Arena-backed tree over a
// token.Table and reporting syntax errors through a diagnostics.Sink
// with resync-based cascade suppression.
package parser

import (
	"millie/internal/ast"
	"millie/internal/diagnostics"
	"millie/internal/symbols"
	"millie/internal/token"
)

// Parser holds the cursor over one token table.
type Parser struct {
	tokens   *token.Table
	arena    *ast.Arena
	interner *symbols.Interner
	sink     *diagnostics.Sink
	resync   diagnostics.Resync

	pos token.Index
}

// New returns a Parser over tokens, building nodes into arena, interning
// identifiers through interner, and reporting into sink.
func New(tokens *token.Table, arena *ast.Arena, interner *symbols.Interner, sink *diagnostics.Sink) *Parser {
	return &Parser{tokens: tokens, arena: arena, interner: interner, sink: sink}
}

// Parse parses the whole token stream as a single expression.
func (p *Parser) Parse() ast.ID {
	id := p.parseExpr()
	if p.cur().Kind != token.EOF {
		p.errorf(p.cur().Span.Start, p.cur().Span.End, "unexpected %s after end of expression", p.cur().Kind)
	}
	return id
}

func (p *Parser) cur() token.Token {
	return p.tokens.At(p.pos)
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if t.Kind != token.EOF {
		p.pos++
	}
	p.resync.ConsumedValidToken()
	return t
}

func (p *Parser) at(k token.Kind) bool {
	return p.cur().Kind == k
}

func (p *Parser) expect(k token.Kind) token.Token {
	if p.at(k) {
		return p.advance()
	}
	p.errorf(p.cur().Span.Start, p.cur().Span.End, "expected %s, found %s", k, p.cur().Kind)
	return p.cur()
}

func (p *Parser) errorf(start, end int, format string, args ...any) {
	if p.resync.Suppressed() {
		return
	}
	p.sink.Addf(diagnostics.Syntactic, "", start, end, format, args...)
	p.resync.ReportedError()
}

// errorNode builds an Error node spanning [start, end]. It reports
// nothing itself; callers report the error (and enter resync) via errorf.
func (p *Parser) errorNode(start, end token.Index) ast.ID {
	return p.arena.New(ast.Error, start, end)
}

func (p *Parser) parseExpr() ast.ID {
	switch p.cur().Kind {
	case token.KwLet:
		return p.parseLet()
	case token.KwIf:
		return p.parseIf()
	case token.KwFn:
		return p.parseLambda()
	default:
		return p.parseComparison()
	}
}

func (p *Parser) parseLet() ast.ID {
	start := p.pos
	p.advance() // 'let'
	rec := false
	if p.at(token.KwRec) {
		p.advance()
		rec = true
	}

	nameTok := p.expect(token.Ident)
	name := p.interner.Intern(nameTok.Text)
	p.expect(token.Equals)
	value := p.parseExpr()
	p.expect(token.KwIn)
	body := p.parseExpr()

	kind := ast.Let
	if rec {
		kind = ast.LetRec
	}
	id := p.arena.New(kind, start, p.lastConsumed())
	n := p.arena.Get(id)
	n.Name, n.Value, n.Body = name, value, body
	return id
}

func (p *Parser) parseIf() ast.ID {
	start := p.pos
	p.advance() // 'if'
	test := p.parseExpr()
	p.expect(token.KwThen)
	then := p.parseExpr()
	p.expect(token.KwElse)
	els := p.parseExpr()

	id := p.arena.New(ast.If, start, p.lastConsumed())
	n := p.arena.Get(id)
	n.Test, n.Then, n.Else = test, then, els
	return id
}

func (p *Parser) parseLambda() ast.ID {
	start := p.pos
	p.advance() // 'fn'
	paramTok := p.expect(token.Ident)
	param := p.interner.Intern(paramTok.Text)
	p.expect(token.Arrow)
	body := p.parseExpr()

	id := p.arena.New(ast.Lambda, start, p.lastConsumed())
	n := p.arena.Get(id)
	n.Name, n.Body = param, body
	return id
}

func (p *Parser) parseComparison() ast.ID {
	start := p.pos
	left := p.parseTerm()
	for p.at(token.Equals) {
		p.advance()
		right := p.parseTerm()
		id := p.arena.New(ast.Binary, start, p.lastConsumed())
		n := p.arena.Get(id)
		n.BinOp, n.Left, n.Right = ast.EqOp, left, right
		left = id
	}
	return left
}

func (p *Parser) parseTerm() ast.ID {
	start := p.pos
	left := p.parseFactor()
	for p.at(token.Plus) || p.at(token.Minus) {
		op := ast.Add
		if p.cur().Kind == token.Minus {
			op = ast.Sub
		}
		p.advance()
		right := p.parseFactor()
		id := p.arena.New(ast.Binary, start, p.lastConsumed())
		n := p.arena.Get(id)
		n.BinOp, n.Left, n.Right = op, left, right
		left = id
	}
	return left
}

func (p *Parser) parseFactor() ast.ID {
	start := p.pos
	left := p.parseUnary()
	for p.at(token.Star) || p.at(token.Slash) {
		op := ast.Mul
		if p.cur().Kind == token.Slash {
			op = ast.Div
		}
		p.advance()
		right := p.parseUnary()
		id := p.arena.New(ast.Binary, start, p.lastConsumed())
		n := p.arena.Get(id)
		n.BinOp, n.Left, n.Right = op, left, right
		left = id
	}
	return left
}

func (p *Parser) parseUnary() ast.ID {
	start := p.pos
	if p.at(token.Plus) || p.at(token.Minus) {
		op := ast.Pos
		if p.cur().Kind == token.Minus {
			op = ast.Neg
		}
		p.advance()
		operand := p.parseUnary()
		id := p.arena.New(ast.Unary, start, p.lastConsumed())
		n := p.arena.Get(id)
		n.UnOp, n.Arg = op, operand
		return id
	}
	return p.parseApplication()
}

func (p *Parser) parseApplication() ast.ID {
	start := p.pos
	fn := p.parsePrimary()
	for p.startsPrimary() {
		arg := p.parsePrimary()
		id := p.arena.New(ast.Apply, start, p.lastConsumed())
		n := p.arena.Get(id)
		n.Func, n.Arg = fn, arg
		fn = id
	}
	return fn
}

func (p *Parser) startsPrimary() bool {
	switch p.cur().Kind {
	case token.Ident, token.Int, token.KwTrue, token.KwFalse, token.LParen:
		return true
	default:
		return false
	}
}

func (p *Parser) parsePrimary() ast.ID {
	start := p.pos
	switch p.cur().Kind {
	case token.Ident:
		tok := p.advance()
		id := p.arena.New(ast.Identifier, start, p.lastConsumed())
		p.arena.Get(id).Sym = p.interner.Intern(tok.Text)
		return id

	case token.Int:
		tok := p.advance()
		id := p.arena.New(ast.IntLit, start, p.lastConsumed())
		p.arena.Get(id).IntValue = tok.Value
		return id

	case token.KwTrue:
		p.advance()
		return p.arena.New(ast.True, start, p.lastConsumed())

	case token.KwFalse:
		p.advance()
		return p.arena.New(ast.False, start, p.lastConsumed())

	case token.LParen:
		return p.parseParenthesized(start)

	default:
		p.errorf(p.cur().Span.Start, p.cur().Span.End, "expected an expression, found %s", p.cur().Kind)
		end := p.pos
		if !p.at(token.EOF) {
			p.advance()
		}
		return p.errorNode(start, end)
	}
}

// parseParenthesized handles both a grouped expression "(e)" and a tuple
// literal "(e1, e2, ..., en)" with n >= 2, right-nested into
// Tuple/TupleFinal per the AST's encoding.
func (p *Parser) parseParenthesized(start token.Index) ast.ID {
	p.advance() // '('
	first := p.parseExpr()
	if !p.at(token.Comma) {
		p.expect(token.RParen)
		return first
	}

	elems := []ast.ID{first}
	for p.at(token.Comma) {
		p.advance()
		elems = append(elems, p.parseExpr())
	}
	p.expect(token.RParen)

	last := p.arena.New(ast.TupleFinal, start, p.lastConsumed())
	p.arena.Get(last).First = elems[len(elems)-1]

	node := last
	for i := len(elems) - 2; i >= 0; i-- {
		head := p.arena.New(ast.Tuple, start, p.lastConsumed())
		n := p.arena.Get(head)
		n.First, n.Rest = elems[i], node
		node = head
	}
	// Length is only meaningful on the outermost Tuple node.
	p.arena.Get(node).Length = len(elems)
	return node
}

func (p *Parser) lastConsumed() token.Index {
	if p.pos == 0 {
		return 0
	}
	return p.pos - 1
}
