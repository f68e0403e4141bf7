// Package vm implements Millie's register-based bytecode interpreter: a
// fetch-decode-execute loop over bytecode.Module functions, with CALL
// recursing through the native Go call stack and a growing-only bump
// allocator backing closures and tuples.
package vm

import (
	"fmt"

	"millie/internal/bytecode"
)

// Word is a 64-bit runtime value: an Int, a Bool (0/1), or a pointer
// (encoded as an index into the Machine's heap) to a RuntimeClosure or
// tuple.
type Word uint64

// heapKind tags what a heap pointer refers to.
type heapKind int

const (
	heapClosure heapKind = iota
	heapTuple
)

// heapObject is a closure or a tuple. Both are addressed the same way,
// through LOADA_64/STOREA_64 against slots: a closure reserves slots[0]
// for the (unused) closure-pointer-to-self convention and stores its N
// captures at 1..N, while a tuple has no reserved slot and stores its N
// elements at 0..N-1.
type heapObject struct {
	kind heapKind

	functionID bytecode.FunctionID // heapClosure only
	slots      []Word
}

// Machine owns the heap and the lifetime-allocation counter for one
// evaluation run; it is never package-level mutable state, so independent
// Machines never interfere with each other.
type Machine struct {
	Module *bytecode.Module
	heap   []heapObject

	// staticClosures caches the single RuntimeClosure built for each
	// Static function, so every NEW_CLOSURE referencing it returns the
	// same heap word rather than allocating a fresh one per call site.
	staticClosures map[bytecode.FunctionID]Word

	// Allocations counts every heap object allocated on this Machine
	// (tuples, closures, and the entry closure Run builds), for --verbose
	// diagnostics. A NEW_CLOSURE that reuses a cached static closure
	// allocates nothing and is not counted.
	Allocations uint64
}

// New returns a Machine ready to evaluate functions from module.
func New(module *bytecode.Module) *Machine {
	return &Machine{Module: module, staticClosures: map[bytecode.FunctionID]Word{}}
}

func (m *Machine) alloc(obj heapObject) Word {
	idx := len(m.heap)
	m.heap = append(m.heap, obj)
	m.Allocations++
	return Word(idx)
}

// Run evaluates entry, the FunctionID of the program's top-level
// expression as returned by compiler.Compile. Its closure pointer is a
// captureless closure freshly allocated by each Run call.
func (m *Machine) Run(entry bytecode.FunctionID) Word {
	closure := m.alloc(heapObject{kind: heapClosure, functionID: entry, slots: make([]Word, 1)})
	return m.Evaluate(entry, closure, 0)
}

// Evaluate runs function fid with r0 = closure and r1 = arg, returning
// the value in its result register.
func (m *Machine) Evaluate(fid bytecode.FunctionID, closure, arg Word) Word {
	fn := m.Module.Get(fid)
	frame := make([]Word, fn.RegisterCount)
	frame[0] = closure
	frame[1] = arg

	code := fn.Code
	ip := 0
	for {
		op := bytecode.Op(code[ip])
		ip++

		switch op {
		case bytecode.LOADI_8:
			v := bytecode.ReadU8(code, ip)
			dst := code[ip+1]
			frame[dst] = Word(v)
			ip += 2

		case bytecode.LOADI_16:
			v := bytecode.ReadU16(code, ip)
			dst := code[ip+2]
			frame[dst] = Word(v)
			ip += 3

		case bytecode.LOADI_32:
			v := bytecode.ReadU32(code, ip)
			dst := code[ip+4]
			frame[dst] = Word(v)
			ip += 5

		case bytecode.LOADI_64:
			v := bytecode.ReadU64(code, ip)
			dst := code[ip+8]
			frame[dst] = Word(v)
			ip += 9

		case bytecode.RET:
			return frame[fn.ResultRegister]

		case bytecode.CALL:
			rfun, rarg, rret := code[ip], code[ip+1], code[ip+2]
			ip += 3
			closureWord := frame[rfun]
			obj := m.heap[closureWord]
			result := m.Evaluate(obj.functionID, closureWord, frame[rarg])
			frame[rret] = result

		case bytecode.ADD:
			l, r, dst := code[ip], code[ip+1], code[ip+2]
			ip += 3
			frame[dst] = Word(int64(frame[l]) + int64(frame[r]))

		case bytecode.SUB:
			l, r, dst := code[ip], code[ip+1], code[ip+2]
			ip += 3
			frame[dst] = Word(int64(frame[l]) - int64(frame[r]))

		case bytecode.MUL:
			l, r, dst := code[ip], code[ip+1], code[ip+2]
			ip += 3
			frame[dst] = Word(int64(frame[l]) * int64(frame[r]))

		case bytecode.DIV:
			l, r, dst := code[ip], code[ip+1], code[ip+2]
			ip += 3
			if int64(frame[r]) == 0 {
				panic(runtimeError{"division by zero"})
			}
			frame[dst] = Word(int64(frame[l]) / int64(frame[r]))

		case bytecode.EQ:
			l, r, dst := code[ip], code[ip+1], code[ip+2]
			ip += 3
			if frame[l] == frame[r] {
				frame[dst] = 1
			} else {
				frame[dst] = 0
			}

		case bytecode.NEG:
			a, dst := code[ip], code[ip+1]
			ip += 2
			frame[dst] = Word(-int64(frame[a]))

		case bytecode.JZ:
			rt := code[ip]
			offset := bytecode.ReadI16(code, ip+1)
			ip += 3
			if frame[rt] == 0 {
				ip += int(offset)
			}

		case bytecode.JMP:
			offset := bytecode.ReadI16(code, ip)
			ip += 2
			ip += int(offset)

		case bytecode.MOV:
			src, dst := code[ip], code[ip+1]
			ip += 2
			frame[dst] = frame[src]

		case bytecode.NEW_CLOSURE:
			targetFid := bytecode.FunctionID(bytecode.ReadU32(code, ip))
			dst := code[ip+4]
			ip += 5
			targetFn := m.Module.Get(targetFid)
			if targetFn.Closure.Static {
				if w, ok := m.staticClosures[targetFid]; ok {
					frame[dst] = w
				} else {
					w := m.alloc(heapObject{kind: heapClosure, functionID: targetFid, slots: make([]Word, 1)})
					m.staticClosures[targetFid] = w
					frame[dst] = w
				}
			} else {
				slots := make([]Word, len(targetFn.Closure.Captures)+1)
				frame[dst] = m.alloc(heapObject{kind: heapClosure, functionID: targetFid, slots: slots})
			}

		case bytecode.LOADA_64:
			rsrc := code[ip]
			offset := bytecode.ReadI16(code, ip+1)
			dst := code[ip+3]
			ip += 4
			frame[dst] = m.heap[frame[rsrc]].slots[offset]

		case bytecode.STOREA_64:
			rsrc := code[ip]
			offset := bytecode.ReadI16(code, ip+1)
			rval := code[ip+3]
			ip += 4
			m.heap[frame[rsrc]].slots[offset] = frame[rval]

		case bytecode.NEW_TUPLE:
			length := code[ip]
			dst := code[ip+1]
			ip += 2
			frame[dst] = m.alloc(heapObject{kind: heapTuple, slots: make([]Word, length)})

		default:
			panic(runtimeError{fmt.Sprintf("unknown opcode %d", op)})
		}
	}
}

// TupleElem returns element i of the tuple held in w.
func (m *Machine) TupleElem(w Word, i int) Word {
	return m.heap[w].slots[i]
}

// TupleLen returns the number of elements in the tuple held in w.
func (m *Machine) TupleLen(w Word) int {
	return len(m.heap[w].slots)
}

// runtimeError is the panic payload for VM faults the caller is expected
// to recover and report as a Runtime diagnostic.
type runtimeError struct {
	message string
}

func (e runtimeError) Error() string {
	return e.message
}
