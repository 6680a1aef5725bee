package insts_test

import (
	"encoding/binary"
	"math"

	"github.com/nohbdy/rsxfrag/insts"
)

// Program-building helpers. The packing mirrors the hardware line layout:
// four 32-bit words per line, each stored with its 16-bit halves swapped.

const (
	// swizzleXYZW selects .xyzw in order (no swizzling).
	swizzleXYZW = 0xE4

	// condAlways sets the (lt, eq, gr) triple to 1,1,1: unconditional.
	condAlways = uint32(7) << 18
)

func swapHalves(w uint32) uint32 { return w>>16 | w<<16 }

// line packs four decoded words into their stored 16-byte form.
func line(dst, src0, src1, src2 uint32) []byte {
	buf := make([]byte, 0, insts.BytesPerLine)
	for _, w := range []uint32{dst, src0, src1, src2} {
		buf = binary.LittleEndian.AppendUint32(buf, swapHalves(w))
	}
	return buf
}

// vecLine packs a constant line holding a vec4 float literal.
func vecLine(x, y, z, w float32) []byte {
	buf := make([]byte, 0, insts.BytesPerLine)
	for _, v := range []float32{x, y, z, w} {
		buf = binary.LittleEndian.AppendUint32(buf, swapHalves(math.Float32bits(v)))
	}
	return buf
}

func concat(lines ...[]byte) []byte {
	var buf []byte
	for _, l := range lines {
		buf = append(buf, l...)
	}
	return buf
}

// dstSpec describes the DST word of one instruction.
type dstSpec struct {
	op        insts.Opcode
	end       bool
	destReg   uint8
	fp16      bool
	setCond   bool
	mask      uint8
	semantic  insts.Semantic
	sampler   uint8
	biased    bool
	precision insts.Precision
	noDest    bool
	saturate  bool
}

func dstWord(s dstSpec) uint32 {
	w := uint32(s.op&0x3F) << 24 // bits [29:24]: low six opcode bits
	if s.end {
		w |= 1 << 0
	}
	w |= uint32(s.destReg&0x3F) << 1 // bits [6:1]
	if s.fp16 {
		w |= 1 << 7
	}
	if s.setCond {
		w |= 1 << 8
	}
	w |= uint32(s.mask&0xF) << 9      // bits [12:9]
	w |= uint32(s.semantic&0xF) << 13 // bits [16:13]
	w |= uint32(s.sampler&0xF) << 17  // bits [20:17]
	if s.biased {
		w |= 1 << 21
	}
	w |= uint32(s.precision&0x3) << 22 // bits [23:22]
	if s.noDest {
		w |= 1 << 30
	}
	if s.saturate {
		w |= 1 << 31
	}
	return w
}

// tempReg builds a source word selecting temporary register rN with a
// pass-through swizzle.
func tempReg(index uint8) uint32 {
	return uint32(insts.OperandRegister) | uint32(index&0x3F)<<2 | swizzleXYZW<<9
}

// inputReg builds a source word selecting the special-input operand; the
// semantic itself lives in the DST word.
func inputReg() uint32 {
	return uint32(insts.OperandSpecial) | swizzleXYZW<<9
}

// constReg builds a source word selecting the embedded constant operand.
func constReg() uint32 {
	return uint32(insts.OperandConstant) | swizzleXYZW<<9
}

// uncond completes a SRC0 word with an always-true predicate.
func uncond(src0 uint32) uint32 {
	return src0 | condAlways | uint32(swizzleXYZW)<<21
}

// predicated completes a SRC0 word with the given condition triple,
// condition swizzle, and condition-register read index.
func predicated(src0 uint32, cond insts.Condition, condSwizzle uint8, readIdx uint8) uint32 {
	return src0 | uint32(cond)<<18 | uint32(condSwizzle)<<21 | uint32(readIdx&0x1)<<30
}

// branchSrc1 builds the SRC1 word for IFE and CAL: branch flag plus the
// 17-bit target line.
func branchSrc1(target uint32) uint32 {
	return 1<<31 | (target&0x1FFFF)<<2
}

// loopSrc1 builds the SRC1 word for LOOP and REP.
func loopSrc1(end, init, incr uint32) uint32 {
	return 1<<31 | (end&0xFF)<<2 | (init&0xFF)<<10 | (incr&0xFF)<<19
}

// loopEndSrc2 builds the SRC2 word carrying the block's end line.
func loopEndSrc2(endLine uint32) uint32 {
	return (endLine & 0x1FFFF) << 2
}

func scaled(src1 uint32, scale insts.Scale) uint32 {
	return src1 | uint32(scale&0x7)<<28
}
