// Package types implements Millie's type representation: an
// arena-indexed tagged variant with a union-find style instance link on
// type variables, plus the formatter that renders a pruned type tree.
package types

// ID indexes a type node within a Store.
type ID int

// NoType is the "no instance" / "no id" sentinel.
const NoType ID = -1

// Kind tags the variant of a type node.
type Kind int

const (
	ErrorKind Kind = iota
	VarKind
	GenericVarKind
	FuncKind
	IntKind
	BoolKind
	TupleKind
	TupleFinalKind
)

// node is one arena slot. Only the fields relevant to Kind are
// meaningful, mirroring ast.Node's flat-struct replacement for a tagged
// union.
type node struct {
	kind Kind

	// VarKind: union-find instance link, None until unified.
	instance ID

	// FuncKind, TupleKind: two child slots.
	from, to ID
	// TupleFinalKind: one child slot (aliases `from`).

	// scratch is a temporary field used by generalize/instantiate to
	// record "the fresh node already built for this one".
	// It MUST be NoType on entry to and exit from every public Store
	// operation.
	scratch ID
}

// Store owns every type node allocated during one type-check. Int, Bool,
// and Error are singletons allocated once by NewStore.
type Store struct {
	nodes []node

	Int   ID
	Bool  ID
	Error ID
}

// NewStore returns an empty Store with its Int/Bool/Error singletons
// pre-allocated.
func NewStore() *Store {
	s := &Store{}
	s.Int = s.alloc(node{kind: IntKind, instance: NoType, scratch: NoType})
	s.Bool = s.alloc(node{kind: BoolKind, instance: NoType, scratch: NoType})
	s.Error = s.alloc(node{kind: ErrorKind, instance: NoType, scratch: NoType})
	return s
}

func (s *Store) alloc(n node) ID {
	s.nodes = append(s.nodes, n)
	return ID(len(s.nodes) - 1)
}

// NewVar allocates a fresh, uninstantiated type variable.
func (s *Store) NewVar() ID {
	return s.alloc(node{kind: VarKind, instance: NoType, scratch: NoType})
}

// NewGenericVar allocates a fresh generic variable.
func (s *Store) NewGenericVar() ID {
	return s.alloc(node{kind: GenericVarKind, instance: NoType, scratch: NoType})
}

// NewFunc allocates a Func{from, to} node.
func (s *Store) NewFunc(from, to ID) ID {
	return s.alloc(node{kind: FuncKind, instance: NoType, from: from, to: to, scratch: NoType})
}

// NewTuple allocates a Tuple{first, rest} node.
func (s *Store) NewTuple(first, rest ID) ID {
	return s.alloc(node{kind: TupleKind, instance: NoType, from: first, to: rest, scratch: NoType})
}

// NewTupleFinal allocates a TupleFinal{first} node.
func (s *Store) NewTupleFinal(first ID) ID {
	return s.alloc(node{kind: TupleFinalKind, instance: NoType, from: first, to: NoType, scratch: NoType})
}

// Kind returns the node's variant tag.
func (s *Store) Kind(id ID) Kind {
	return s.nodes[id].kind
}

// SetInstance records that Var id has been unified to instance. Only
// valid for VarKind nodes.
func (s *Store) SetInstance(id, instance ID) {
	s.nodes[id].instance = instance
}

// Instance returns the Var's current instance, or NoType if unbound.
func (s *Store) Instance(id ID) ID {
	return s.nodes[id].instance
}

// FuncParts returns a Func node's (from, to) children.
func (s *Store) FuncParts(id ID) (from, to ID) {
	n := s.nodes[id]
	return n.from, n.to
}

// TupleParts returns a Tuple node's (first, rest) children.
func (s *Store) TupleParts(id ID) (first, rest ID) {
	n := s.nodes[id]
	return n.from, n.to
}

// TupleFinalFirst returns a TupleFinal node's single child.
func (s *Store) TupleFinalFirst(id ID) ID {
	return s.nodes[id].from
}

// Prune follows the instance chain of a Var until it reaches a
// non-Var node or an unbound Var, per the invariant that every
// algorithm inspects only pruned types.
func (s *Store) Prune(id ID) ID {
	if s.nodes[id].kind != VarKind {
		return id
	}
	inst := s.nodes[id].instance
	if inst == NoType {
		return id
	}
	pruned := s.Prune(inst)
	s.nodes[id].instance = pruned // path compression
	return pruned
}

func (s *Store) setScratch(id, v ID) { s.nodes[id].scratch = v }
func (s *Store) getScratch(id ID) ID { return s.nodes[id].scratch }
