package bytecode

import (
	"fmt"
	"strings"
)

// Disassemble returns a human-readable listing of fn's instructions, one
// line per instruction, prefixed with its byte offset.
func Disassemble(fn *CompiledFunction, name string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "== %s ==\n", name)

	offset := 0
	for offset < len(fn.Code) {
		offset = disassembleInstruction(&sb, fn.Code, offset)
	}
	return sb.String()
}

func disassembleInstruction(sb *strings.Builder, code []byte, offset int) int {
	start := offset
	op := Op(code[offset])
	offset++

	switch op {
	case LOADI_8:
		fmt.Fprintf(sb, "%04d LOADI_8   %d, r%d\n", start, code[offset], code[offset+1])
		return offset + 2
	case LOADI_16:
		fmt.Fprintf(sb, "%04d LOADI_16  %d, r%d\n", start, ReadU16(code, offset), code[offset+2])
		return offset + 3
	case LOADI_32:
		fmt.Fprintf(sb, "%04d LOADI_32  %d, r%d\n", start, ReadU32(code, offset), code[offset+4])
		return offset + 5
	case LOADI_64:
		fmt.Fprintf(sb, "%04d LOADI_64  %d, r%d\n", start, ReadU64(code, offset), code[offset+8])
		return offset + 9
	case RET:
		fmt.Fprintf(sb, "%04d RET\n", start)
		return offset
	case CALL:
		fmt.Fprintf(sb, "%04d CALL      r%d, r%d, r%d\n", start, code[offset], code[offset+1], code[offset+2])
		return offset + 3
	case ADD, SUB, MUL, DIV, EQ:
		fmt.Fprintf(sb, "%04d %-9s r%d, r%d, r%d\n", start, op, code[offset], code[offset+1], code[offset+2])
		return offset + 3
	case NEG:
		fmt.Fprintf(sb, "%04d NEG       r%d, r%d\n", start, code[offset], code[offset+1])
		return offset + 2
	case JZ:
		fmt.Fprintf(sb, "%04d JZ        r%d, %+d\n", start, code[offset], ReadI16(code, offset+1))
		return offset + 3
	case JMP:
		fmt.Fprintf(sb, "%04d JMP       %+d\n", start, ReadI16(code, offset))
		return offset + 2
	case MOV:
		fmt.Fprintf(sb, "%04d MOV       r%d, r%d\n", start, code[offset], code[offset+1])
		return offset + 2
	case NEW_CLOSURE:
		fmt.Fprintf(sb, "%04d NEW_CLOSURE fn#%d, r%d\n", start, ReadU32(code, offset), code[offset+4])
		return offset + 5
	case LOADA_64:
		fmt.Fprintf(sb, "%04d LOADA_64  r%d, %+d, r%d\n", start, code[offset], ReadI16(code, offset+1), code[offset+3])
		return offset + 4
	case STOREA_64:
		fmt.Fprintf(sb, "%04d STOREA_64 r%d, %+d, r%d\n", start, code[offset], ReadI16(code, offset+1), code[offset+3])
		return offset + 4
	case NEW_TUPLE:
		fmt.Fprintf(sb, "%04d NEW_TUPLE %d, r%d\n", start, code[offset], code[offset+1])
		return offset + 2
	default:
		fmt.Fprintf(sb, "%04d <unknown opcode %d>\n", start, op)
		return offset
	}
}
