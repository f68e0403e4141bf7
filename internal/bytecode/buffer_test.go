package bytecode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteAndReadImmediates(t *testing.T) {
	b := NewBuffer()
	b.WriteOp(LOADI_64)
	b.WriteReg(3)
	b.WriteU64(0xdeadbeefcafebabe)

	assert.Equal(t, LOADI_64, Op(b.Bytes()[0]))
	assert.Equal(t, Register(3), Register(b.Bytes()[1]))
	assert.Equal(t, uint64(0xdeadbeefcafebabe), ReadU64(b.Bytes(), 2))
}

func TestI16HolePatchedAfterTargetKnown(t *testing.T) {
	b := NewBuffer()
	b.WriteOp(JZ)
	b.WriteReg(0)
	hole := b.WriteI16Hole()
	b.WriteOp(MOV)
	b.WriteReg(1)
	b.WriteReg(2)
	target := b.Here()

	b.PatchI16(hole, int16(target-(hole+2)))

	offset := ReadI16(b.Bytes(), hole)
	assert.Equal(t, int16(3), offset) // MOV opcode + 2 register operands
}

func TestNegativeOffsetRoundTrips(t *testing.T) {
	b := NewBuffer()
	hole := b.WriteI16Hole()
	b.PatchI16(hole, -12)
	assert.Equal(t, int16(-12), ReadI16(b.Bytes(), hole))
}
