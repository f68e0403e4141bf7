package bytecode

import "millie/internal/symbols"

// FunctionID indexes a CompiledFunction within a Module. Functions are
// added when their compilation finishes, so a nested lambda comes before
// the function that encloses it and the top-level expression is not
// necessarily index 0; compiler.Compile returns its FunctionID.
type FunctionID int

// ClosureDescriptor records how a function's closure is constructed.
// A function with no free variables is Static: a single RuntimeClosure
// is built once and reused by every reference. A function that captures
// one or more free variables is Dynamic: the caller allocates a fresh
// RuntimeClosure at the point of construction and fills in Captures, in
// the order they were first referenced.
type ClosureDescriptor struct {
	Static   bool
	Captures []symbols.Symbol // capture order; empty iff Static
}

// CompiledFunction is one function's compiled body plus its frame shape.
type CompiledFunction struct {
	Code           []byte
	RegisterCount  int
	ResultRegister Register
	Closure        ClosureDescriptor
}

// Module is the append-only sequence of compiled functions produced by
// one compile. Function indices, once assigned, never change.
type Module struct {
	Functions []*CompiledFunction
}

// NewModule returns an empty module.
func NewModule() *Module {
	return &Module{}
}

// Add appends fn to the module and returns its stable FunctionID.
func (m *Module) Add(fn *CompiledFunction) FunctionID {
	m.Functions = append(m.Functions, fn)
	return FunctionID(len(m.Functions) - 1)
}

// Get returns the function at id.
func (m *Module) Get(id FunctionID) *CompiledFunction {
	return m.Functions[id]
}
