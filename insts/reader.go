package insts

import (
	"encoding/binary"
	"math"
)

// BytesPerLine is the size of one program line: four 32-bit words.
const BytesPerLine = 16

// Reader is a cursor over an in-memory fragment-program binary. Program
// words are stored with the high and low 16-bit halves of each dword
// swapped; the reader unswaps them on load.
type Reader struct {
	data       []byte
	pos        uint32
	bytesRead  uint32
	lineNumber uint32

	// readConstant is set when the current instruction consumed the
	// trailing vec4 constant line.
	readConstant  bool
	inInstruction bool
}

// NewReader creates a reader over the given program bytes.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// ReadDword returns the i-th dword relative to the current line, with the
// halfword swap undone.
func (r *Reader) ReadDword(i int) (uint32, error) {
	offset := int(r.pos) + 4*i
	if offset < 0 || offset+4 > len(r.data) {
		return 0, ErrOutOfBounds
	}
	w := binary.LittleEndian.Uint32(r.data[offset:])
	return (w >> 16) | (w << 16), nil
}

// ReadFloat returns the i-th dword reinterpreted as a float32. Floats are
// stored with the same halfword swap as instruction words.
func (r *Reader) ReadFloat(i int) (float32, error) {
	w, err := r.ReadDword(i)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(w), nil
}

// BeginInstruction loads the four words of the instruction at the cursor.
// If the previous instruction was not ended explicitly, it is ended here.
func (r *Reader) BeginInstruction() (dst, src0, src1, src2 uint32, err error) {
	if r.inInstruction {
		r.EndInstruction()
	}
	r.inInstruction = true

	words := [4]uint32{}
	for i := range words {
		words[i], err = r.ReadDword(i)
		if err != nil {
			return 0, 0, 0, 0, err
		}
	}
	return words[0], words[1], words[2], words[3], nil
}

// ReadVec4 reads the constant line that follows the current instruction
// (dwords 4-7) and marks the instruction as carrying constant data, so the
// extra line is skipped by EndInstruction. Only call this when an operand
// actually resolved to a constant.
func (r *Reader) ReadVec4() (x, y, z, w float32, err error) {
	r.readConstant = true
	var v [4]float32
	for i := range v {
		v[i], err = r.ReadFloat(4 + i)
		if err != nil {
			return 0, 0, 0, 0, err
		}
	}
	return v[0], v[1], v[2], v[3], nil
}

// EndInstruction advances the cursor past the current instruction line and,
// if ReadVec4 was called, past its constant line.
func (r *Reader) EndInstruction() {
	if !r.inInstruction {
		return
	}

	r.pos += BytesPerLine
	r.bytesRead += BytesPerLine
	r.lineNumber++

	if r.readConstant {
		r.pos += BytesPerLine
		r.bytesRead += BytesPerLine
		r.lineNumber++
		r.readConstant = false
	}

	r.inInstruction = false
}

// LineNumber returns the number of 16-byte lines consumed so far.
func (r *Reader) LineNumber() uint32 { return r.lineNumber }

// BytesRead returns the number of bytes consumed so far.
func (r *Reader) BytesRead() uint32 { return r.bytesRead }

// lineDump returns the raw bytes of the line at the cursor, for error
// reporting. The bytes are returned as stored, without the halfword unswap.
func (r *Reader) lineDump() []byte {
	start := int(r.pos)
	if start >= len(r.data) {
		return nil
	}
	end := start + BytesPerLine
	if end > len(r.data) {
		end = len(r.data)
	}
	return r.data[start:end]
}
