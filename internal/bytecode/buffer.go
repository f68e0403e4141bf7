package bytecode

import "encoding/binary"

// Register names a slot in a function's frame. r0 is always the incoming
// closure pointer, r1 the single argument.
type Register uint8

// Buffer is a growable instruction stream with an explicit seek/overwrite
// operation, so the compiler can leave a 16-bit hole at a jump site and
// patch it once the jump target is known without slicing the backing
// array by hand.
type Buffer struct {
	code []byte
}

// NewBuffer returns an empty instruction buffer.
func NewBuffer() *Buffer {
	return &Buffer{code: make([]byte, 0, 64)}
}

// Len returns the number of bytes written so far.
func (b *Buffer) Len() int {
	return len(b.code)
}

// Bytes returns the underlying instruction stream.
func (b *Buffer) Bytes() []byte {
	return b.code
}

// WriteOp appends a single opcode byte.
func (b *Buffer) WriteOp(op Op) {
	b.code = append(b.code, byte(op))
}

// WriteReg appends a register operand.
func (b *Buffer) WriteReg(r Register) {
	b.code = append(b.code, byte(r))
}

// WriteU8 appends a single byte immediate.
func (b *Buffer) WriteU8(v uint8) {
	b.code = append(b.code, v)
}

// WriteU16 appends a little-endian 16-bit immediate.
func (b *Buffer) WriteU16(v uint16) {
	b.code = append(b.code, byte(v), byte(v>>8))
}

// WriteU32 appends a little-endian 32-bit immediate.
func (b *Buffer) WriteU32(v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	b.code = append(b.code, tmp[:]...)
}

// WriteU64 appends a little-endian 64-bit immediate.
func (b *Buffer) WriteU64(v uint64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	b.code = append(b.code, tmp[:]...)
}

// WriteI16Hole reserves two bytes for a signed jump offset and returns
// their position, to be filled in later by PatchI16 once the jump target
// is known.
func (b *Buffer) WriteI16Hole() int {
	pos := len(b.code)
	b.code = append(b.code, 0, 0)
	return pos
}

// PatchI16 overwrites the 16-bit hole at pos with offset, measured from
// the byte immediately following the hole.
func (b *Buffer) PatchI16(pos int, offset int16) {
	b.code[pos] = byte(uint16(offset))
	b.code[pos+1] = byte(uint16(offset) >> 8)
}

// Here returns the current write position, suitable as a jump target for
// PatchI16 computations.
func (b *Buffer) Here() int {
	return len(b.code)
}

// ReadU8 reads an unsigned byte at offset.
func ReadU8(code []byte, offset int) uint8 {
	return code[offset]
}

// ReadU16 reads a little-endian unsigned 16-bit value at offset.
func ReadU16(code []byte, offset int) uint16 {
	return binary.LittleEndian.Uint16(code[offset:])
}

// ReadU32 reads a little-endian unsigned 32-bit value at offset.
func ReadU32(code []byte, offset int) uint32 {
	return binary.LittleEndian.Uint32(code[offset:])
}

// ReadU64 reads a little-endian unsigned 64-bit value at offset.
func ReadU64(code []byte, offset int) uint64 {
	return binary.LittleEndian.Uint64(code[offset:])
}

// ReadI16 reads a little-endian signed 16-bit value at offset.
func ReadI16(code []byte, offset int) int16 {
	return int16(ReadU16(code, offset))
}
