package compiler

import (
	"millie/internal/bytecode"
	"millie/internal/symbols"
)

type binding struct {
	sym symbols.Symbol
	reg bytecode.Register
}

// funcCtx holds the compiler state for one function body under
// construction: its instruction buffer, the monotonic register
// allocator, the lexical binding stack, and the free-variable capture
// list in first-reference order.
type funcCtx struct {
	buf *bytecode.Buffer

	nextReg      int
	maxRegUsed   int
	bindings     []binding
	captures     []symbols.Symbol
	captureIndex map[symbols.Symbol]int
}

func newFuncCtx() *funcCtx {
	return &funcCtx{
		buf:          bytecode.NewBuffer(),
		nextReg:      2, // r0 = closure, r1 = argument
		maxRegUsed:   1,
		captureIndex: map[symbols.Symbol]int{},
	}
}

// allocReg hands out the next register and never reuses one, so a
// function body needing more than 255 live values (bytecode.Register is
// a uint8) overflows here rather than silently truncating at a WriteReg
// call site.
func (c *funcCtx) allocReg() bytecode.Register {
	r := c.nextReg
	c.nextReg++
	if r > c.maxRegUsed {
		c.maxRegUsed = r
	}
	if r > 255 {
		panic("compiler: function exceeds 255 registers")
	}
	return bytecode.Register(r)
}

func (c *funcCtx) pushBinding(sym symbols.Symbol, reg bytecode.Register) {
	c.bindings = append(c.bindings, binding{sym: sym, reg: reg})
}

func (c *funcCtx) popBinding() {
	c.bindings = c.bindings[:len(c.bindings)-1]
}

// lookupLocal scans the binding stack top-down; the first match wins,
// giving later (inner) bindings shadowing priority.
func (c *funcCtx) lookupLocal(sym symbols.Symbol) (bytecode.Register, bool) {
	for i := len(c.bindings) - 1; i >= 0; i-- {
		if c.bindings[i].sym == sym {
			return c.bindings[i].reg, true
		}
	}
	return 0, false
}

// captureOffset returns sym's 1-based offset into the closure's capture
// slots, recording it as a new capture (in first-reference order) if
// this is the first time sym has been seen as free in this function.
func (c *funcCtx) captureOffset(sym symbols.Symbol) int {
	if idx, ok := c.captureIndex[sym]; ok {
		return idx + 1
	}
	idx := len(c.captures)
	c.captures = append(c.captures, sym)
	c.captureIndex[sym] = idx
	return idx + 1
}
