// Package ast defines Millie's expression tree: a tagged-variant node
// per syntactic form, owned by a single arena for the life of one
// compile, referencing children by index rather than by pointer.
package ast

import (
	"millie/internal/symbols"
	"millie/internal/token"
)

// Kind tags the syntactic form of a Node.
type Kind int

const (
	Error Kind = iota
	Lambda
	Identifier
	Apply
	Let
	LetRec
	IntLit
	True
	False
	If
	Binary
	Unary
	Tuple
	TupleFinal
)

// BinaryOp and UnaryOp enumerate the operator tokens a Binary/Unary node
// can carry.
type BinaryOp int

const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
	EqOp
)

type UnaryOp int

const (
	Neg UnaryOp = iota
	Pos
)

// ID indexes a Node within an Arena.
type ID int

// NoID is the sentinel "no child" id. New sets it in Rest, where it
// stays on every node except a Tuple.
const NoID ID = -1

// Node is one arena-owned AST node. Only the fields relevant to Kind are
// meaningful; Go has no cheap discriminated union, so a flat struct with
// per-variant fields stands in for a tagged union.
type Node struct {
	Kind Kind

	Start, End token.Index // source span, inclusive token indices

	// Lambda, Let, LetRec
	Name symbols.Symbol

	// Lambda body / Let body / LetRec body
	Body ID

	// Identifier
	Sym symbols.Symbol

	// Apply
	Func, Arg ID

	// Let, LetRec
	Value ID

	// IntLit
	IntValue uint64

	// If
	Test, Then, Else ID

	// Binary
	BinOp       BinaryOp
	Left, Right ID

	// Unary
	UnOp UnaryOp
	// Unary operand reuses Arg.

	// Tuple / TupleFinal
	First  ID
	Rest   ID // NoID for TupleFinal
	Length int // only meaningful on the Tuple head
}

// Arena owns every Node allocated during one compile. Nodes are
// immutable once built and referenced by ID, never copied.
type Arena struct {
	nodes []Node
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// New allocates and returns the ID of a new node with the given Kind;
// callers fill in the remaining fields through the pointer Arena.Get
// returns before sharing the ID.
func (a *Arena) New(kind Kind, start, end token.Index) ID {
	a.nodes = append(a.nodes, Node{Kind: kind, Start: start, End: end, Rest: NoID})
	return ID(len(a.nodes) - 1)
}

// Get returns a pointer to the node for id, so callers can finish
// populating it after New or read it during analysis/compilation.
func (a *Arena) Get(id ID) *Node {
	return &a.nodes[id]
}

// Len returns the number of nodes allocated in this arena.
func (a *Arena) Len() int {
	return len(a.nodes)
}
