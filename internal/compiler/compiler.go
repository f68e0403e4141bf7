// Package compiler lowers a type-checked Millie AST into bytecode:
// register allocation, lexical-scope bracketing, closure-capture
// tracking, and jump patching for conditionals.
package compiler

import (
	"millie/internal/ast"
	"millie/internal/bytecode"
	"millie/internal/diagnostics"
	"millie/internal/symbols"
	"millie/internal/token"
)

// Compiler lowers one program's AST against a shared bytecode.Module.
type Compiler struct {
	arena  *ast.Arena
	tokens *token.Table
	module *bytecode.Module
	sink   *diagnostics.Sink
}

// New returns a Compiler that appends functions to module as it compiles
// expressions from arena/tokens, reporting unsupported forms into sink.
func New(arena *ast.Arena, tokens *token.Table, module *bytecode.Module, sink *diagnostics.Sink) *Compiler {
	return &Compiler{arena: arena, tokens: tokens, module: module, sink: sink}
}

// Compile lowers the top-level expression id and appends it to the
// module as a fresh CompiledFunction, returning its FunctionID. Any
// lambda nested in id's body is compiled (and appended to module) while
// compiling id's own body, so the returned FunctionID is the top-level
// expression's index, not necessarily 0 -- callers must thread it
// through rather than assume the entry point is always function 0.
func (c *Compiler) Compile(id ast.ID) bytecode.FunctionID {
	ctx := newFuncCtx()
	result := c.compileExpr(ctx, id)
	ctx.buf.WriteOp(bytecode.RET)

	fn := &bytecode.CompiledFunction{
		Code:           ctx.buf.Bytes(),
		RegisterCount:  ctx.maxRegUsed + 1,
		ResultRegister: result,
		Closure:        closureDescriptorFor(ctx),
	}
	return c.module.Add(fn)
}

func closureDescriptorFor(ctx *funcCtx) bytecode.ClosureDescriptor {
	if len(ctx.captures) == 0 {
		return bytecode.ClosureDescriptor{Static: true}
	}
	return bytecode.ClosureDescriptor{Static: false, Captures: ctx.captures}
}

func (c *Compiler) span(id ast.ID) (start, end int) {
	n := c.arena.Get(id)
	return c.tokens.SpanOf(n.Start, n.End)
}

func (c *Compiler) compileExpr(ctx *funcCtx, id ast.ID) bytecode.Register {
	n := c.arena.Get(id)

	switch n.Kind {
	case ast.IntLit:
		return c.compileIntLit(ctx, n.IntValue)

	case ast.True:
		return c.compileBoolLit(ctx, true)
	case ast.False:
		return c.compileBoolLit(ctx, false)

	case ast.Identifier:
		return c.compileIdentifier(ctx, n.Sym)

	case ast.Let:
		rv := c.compileExpr(ctx, n.Value)
		ctx.pushBinding(n.Name, rv)
		rb := c.compileExpr(ctx, n.Body)
		ctx.popBinding()
		return rb

	case ast.LetRec:
		return c.compileLetRec(ctx, n)

	case ast.Lambda:
		return c.compileLambdaRef(ctx, n.Name, n.Body, symbols.Invalid)

	case ast.Apply:
		rf := c.compileExpr(ctx, n.Func)
		ra := c.compileExpr(ctx, n.Arg)
		rret := ctx.allocReg()
		ctx.buf.WriteOp(bytecode.CALL)
		ctx.buf.WriteReg(rf)
		ctx.buf.WriteReg(ra)
		ctx.buf.WriteReg(rret)
		return rret

	case ast.Binary:
		return c.compileBinary(ctx, n)

	case ast.Unary:
		if n.UnOp != ast.Neg {
			start, end := c.span(id)
			c.sink.Addf(diagnostics.Compilation, "UnsupportedForm", start, end, "unary '+' is not supported by the compiler")
			return c.compileIntLit(ctx, 0)
		}
		ra := c.compileExpr(ctx, n.Arg)
		rdst := ctx.allocReg()
		ctx.buf.WriteOp(bytecode.NEG)
		ctx.buf.WriteReg(ra)
		ctx.buf.WriteReg(rdst)
		return rdst

	case ast.If:
		return c.compileIf(ctx, n)

	case ast.Tuple:
		return c.compileTuple(ctx, id)

	default:
		start, end := c.span(id)
		c.sink.Addf(diagnostics.Compilation, "UnsupportedForm", start, end, "this expression form is not supported by the compiler")
		return c.compileIntLit(ctx, 0)
	}
}

func (c *Compiler) compileIntLit(ctx *funcCtx, v uint64) bytecode.Register {
	dst := ctx.allocReg()
	switch {
	case v <= 0xFF:
		ctx.buf.WriteOp(bytecode.LOADI_8)
		ctx.buf.WriteU8(uint8(v))
		ctx.buf.WriteReg(dst)
	case v <= 0xFFFF:
		ctx.buf.WriteOp(bytecode.LOADI_16)
		ctx.buf.WriteU16(uint16(v))
		ctx.buf.WriteReg(dst)
	case v <= 0xFFFFFFFF:
		ctx.buf.WriteOp(bytecode.LOADI_32)
		ctx.buf.WriteU32(uint32(v))
		ctx.buf.WriteReg(dst)
	default:
		ctx.buf.WriteOp(bytecode.LOADI_64)
		ctx.buf.WriteU64(v)
		ctx.buf.WriteReg(dst)
	}
	return dst
}

func (c *Compiler) compileBoolLit(ctx *funcCtx, v bool) bytecode.Register {
	dst := ctx.allocReg()
	ctx.buf.WriteOp(bytecode.LOADI_8)
	if v {
		ctx.buf.WriteU8(1)
	} else {
		ctx.buf.WriteU8(0)
	}
	ctx.buf.WriteReg(dst)
	return dst
}

func (c *Compiler) compileIdentifier(ctx *funcCtx, sym symbols.Symbol) bytecode.Register {
	if reg, ok := ctx.lookupLocal(sym); ok {
		return reg
	}
	offset := ctx.captureOffset(sym)
	dst := ctx.allocReg()
	ctx.buf.WriteOp(bytecode.LOADA_64)
	ctx.buf.WriteReg(0)
	ctx.buf.WriteU16(uint16(int16(offset)))
	ctx.buf.WriteReg(dst)
	return dst
}

func (c *Compiler) compileBinary(ctx *funcCtx, n *ast.Node) bytecode.Register {
	rl := c.compileExpr(ctx, n.Left)
	rr := c.compileExpr(ctx, n.Right)
	dst := ctx.allocReg()

	var op bytecode.Op
	switch n.BinOp {
	case ast.Add:
		op = bytecode.ADD
	case ast.Sub:
		op = bytecode.SUB
	case ast.Mul:
		op = bytecode.MUL
	case ast.Div:
		op = bytecode.DIV
	case ast.EqOp:
		op = bytecode.EQ
	}
	ctx.buf.WriteOp(op)
	ctx.buf.WriteReg(rl)
	ctx.buf.WriteReg(rr)
	ctx.buf.WriteReg(dst)
	return dst
}

func (c *Compiler) compileIf(ctx *funcCtx, n *ast.Node) bytecode.Register {
	rt := c.compileExpr(ctx, n.Test)
	ctx.buf.WriteOp(bytecode.JZ)
	ctx.buf.WriteReg(rt)
	jzHole := ctx.buf.WriteI16Hole()

	rThen := c.compileExpr(ctx, n.Then)
	ctx.buf.WriteOp(bytecode.JMP)
	jmpHole := ctx.buf.WriteI16Hole()

	elseStart := ctx.buf.Here()
	ctx.buf.PatchI16(jzHole, int16(elseStart-(jzHole+2)))

	rElse := c.compileExpr(ctx, n.Else)
	if rElse != rThen {
		ctx.buf.WriteOp(bytecode.MOV)
		ctx.buf.WriteReg(rElse)
		ctx.buf.WriteReg(rThen)
	}

	end := ctx.buf.Here()
	ctx.buf.PatchI16(jmpHole, int16(end-(jmpHole+2)))

	return rThen
}

func (c *Compiler) compileTuple(ctx *funcCtx, id ast.ID) bytecode.Register {
	n := c.arena.Get(id)
	dst := ctx.allocReg()
	ctx.buf.WriteOp(bytecode.NEW_TUPLE)
	ctx.buf.WriteU8(uint8(n.Length))
	ctx.buf.WriteReg(dst)

	i := 0
	cur := id
	for {
		cn := c.arena.Get(cur)
		if cn.Kind == ast.TupleFinal {
			relt := c.compileExpr(ctx, cn.First)
			ctx.buf.WriteOp(bytecode.STOREA_64)
			ctx.buf.WriteReg(dst)
			ctx.buf.WriteU16(uint16(int16(i)))
			ctx.buf.WriteReg(relt)
			break
		}
		relt := c.compileExpr(ctx, cn.First)
		ctx.buf.WriteOp(bytecode.STOREA_64)
		ctx.buf.WriteReg(dst)
		ctx.buf.WriteU16(uint16(int16(i)))
		ctx.buf.WriteReg(relt)
		i++
		cur = cn.Rest
	}
	return dst
}

// compileLambdaRef compiles a lambda into a fresh function, then emits
// the NEW_CLOSURE + capture-store sequence in the enclosing context.
// selfSym, if not symbols.Invalid, binds directly to r0 inside the
// callee (used by LetRec so the function's own name never becomes a
// capture).
func (c *Compiler) compileLambdaRef(outer *funcCtx, param symbols.Symbol, body ast.ID, selfSym symbols.Symbol) bytecode.Register {
	fid, captures := c.compileLambdaBody(param, body, selfSym)

	dst := outer.allocReg()
	ctx := outer
	ctx.buf.WriteOp(bytecode.NEW_CLOSURE)
	ctx.buf.WriteU32(uint32(fid))
	ctx.buf.WriteReg(dst)

	for i, sym := range captures {
		rsrc := c.compileIdentifier(outer, sym)
		ctx.buf.WriteOp(bytecode.STOREA_64)
		ctx.buf.WriteReg(dst)
		ctx.buf.WriteU16(uint16(int16(i + 1)))
		ctx.buf.WriteReg(rsrc)
	}
	return dst
}

func (c *Compiler) compileLambdaBody(param symbols.Symbol, body ast.ID, selfSym symbols.Symbol) (bytecode.FunctionID, []symbols.Symbol) {
	child := newFuncCtx()
	child.pushBinding(param, 1)
	if selfSym != symbols.Invalid {
		child.pushBinding(selfSym, 0)
	}

	result := c.compileExpr(child, body)
	child.buf.WriteOp(bytecode.RET)

	fn := &bytecode.CompiledFunction{
		Code:           child.buf.Bytes(),
		RegisterCount:  child.maxRegUsed + 1,
		ResultRegister: result,
		Closure:        closureDescriptorFor(child),
	}
	fid := c.module.Add(fn)
	return fid, child.captures
}

func (c *Compiler) compileLetRec(ctx *funcCtx, n *ast.Node) bytecode.Register {
	valueNode := c.arena.Get(n.Value)
	if valueNode.Kind != ast.Lambda {
		start, end := c.span(n.Value)
		c.sink.Addf(diagnostics.Compilation, "UnsupportedLetRecForm", start, end, "let rec currently only supports binding a lambda directly")
		rb := c.compileExpr(ctx, n.Body)
		return rb
	}

	dst := c.compileLambdaRef(ctx, valueNode.Name, valueNode.Body, n.Name)
	// compileLambdaRef already allocated dst and wrote NEW_CLOSURE there,
	// but the binding must be visible before the body is compiled, so
	// rebind to the register it actually produced.
	ctx.pushBinding(n.Name, dst)
	rb := c.compileExpr(ctx, n.Body)
	ctx.popBinding()
	return rb
}
