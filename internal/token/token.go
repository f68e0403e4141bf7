// Package token defines the lexical token kinds and the token position
// table shared by the lexer, parser, and diagnostics formatter.
package token

import "fmt"

// Kind identifies the lexical category of a token.
type Kind int

const (
	Invalid Kind = iota
	EOF

	Ident
	Int

	KwLet
	KwRec
	KwIn
	KwIf
	KwThen
	KwElse
	KwFn
	KwTrue
	KwFalse

	Arrow   // =>
	Equals  // =
	Plus    // +
	Minus   // -
	Star    // *
	Slash   // /
	LParen  // (
	RParen  // )
	Comma   // ,
)

var kindNames = map[Kind]string{
	Invalid: "invalid",
	EOF:     "eof",
	Ident:   "identifier",
	Int:     "integer",
	KwLet:   "let",
	KwRec:   "rec",
	KwIn:    "in",
	KwIf:    "if",
	KwThen:  "then",
	KwElse:  "else",
	KwFn:    "fn",
	KwTrue:  "true",
	KwFalse: "false",
	Arrow:   "=>",
	Equals:  "=",
	Plus:    "+",
	Minus:   "-",
	Star:    "*",
	Slash:   "/",
	LParen:  "(",
	RParen:  ")",
	Comma:   ",",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

var Keywords = map[string]Kind{
	"let":   KwLet,
	"rec":   KwRec,
	"in":    KwIn,
	"if":    KwIf,
	"then":  KwThen,
	"else":  KwElse,
	"fn":    KwFn,
	"true":  KwTrue,
	"false": KwFalse,
}

// Span is a byte range [Start, End) into the source buffer, plus the
// 1-based line/column of Start for diagnostic rendering.
type Span struct {
	Start, End int
	Line, Col  int
}

// Token is a single lexical token: its kind, the literal text it covers,
// and its span. For Int tokens, Value holds the parsed magnitude.
type Token struct {
	Kind  Kind
	Text  string
	Span  Span
	Value uint64 // only meaningful for Kind == Int
}

// Index identifies a token's position within a Table.
type Index int

// Table is the append-only sequence of tokens produced by the lexer for
// one source file, with a trailing EOF sentinel. AST nodes reference
// tokens by Index rather than storing Span directly; diagnostics carry
// the byte range that SpanOf computes from those indices.
type Table struct {
	tokens []Token
}

// NewTable creates an empty token table.
func NewTable() *Table {
	return &Table{}
}

// Add appends tok and returns its Index.
func (t *Table) Add(tok Token) Index {
	t.tokens = append(t.tokens, tok)
	return Index(len(t.tokens) - 1)
}

// At returns the token at idx.
func (t *Table) At(idx Index) Token {
	return t.tokens[idx]
}

// Len returns the number of tokens in the table, including the trailing EOF.
func (t *Table) Len() int {
	return len(t.tokens)
}

// SpanOf returns the byte range covering tokens [start, end] inclusive.
func (t *Table) SpanOf(start, end Index) (int, int) {
	s := t.tokens[start].Span
	e := t.tokens[end].Span
	return s.Start, e.End
}
