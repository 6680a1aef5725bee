package insts

// Operand is one source operand of an instruction. Kind selects which of
// the payload groups is meaningful.
type Operand struct {
	Kind OperandKind

	// Common modifiers, present on every variant.
	Index   uint8 // temporary register index
	FP16    bool  // operand is a half register
	Swizzle uint8 // four 2-bit channel selectors, x in the low bits
	Abs     bool
	Neg     bool

	// Special-operand payload.
	Semantic             Semantic
	PerspectiveCorrected bool
	UseIndexRegister     bool
	LoopRegisterOffset   uint32 // aL+### offset for indexed inputs

	// Constant-operand payload.
	X, Y, Z, W   float32
	SourceOffset uint32 // byte offset of the owning instruction line
}

// loadOperand decodes source operand slot (1-based) of the current
// instruction. The slot picks which word supplies the register selection;
// the abs bit for slot 1 lives in SRC0 bit 29, for slots 2 and 3 in the
// respective word's bit 18. Constant operands consume the trailing vec4
// line through the reader.
func loadOperand(slot int, dstW, src0W, src1W, src2W uint32, r *Reader) (*Operand, error) {
	var w uint32
	var abs bool
	switch slot {
	case 1:
		w = src0W
		abs = (src0W>>29)&0x1 != 0
	case 2:
		w = src1W
		abs = (src1W>>18)&0x1 != 0
	case 3:
		w = src2W
		abs = (src2W>>18)&0x1 != 0
	}

	common := decodeSrcCommon(w)
	op := &Operand{
		Kind:    OperandKind(common.RegType),
		Index:   common.TmpRegIndex,
		FP16:    common.FP16,
		Swizzle: common.Swizzle,
		Abs:     abs,
		Neg:     common.Neg,
	}

	switch op.Kind {
	case OperandRegister:
		// Nothing beyond the common fields.

	case OperandSpecial:
		dst := decodeOpDest(dstW)
		src2 := decodeSrc2(src2W)
		if dst.InputSemantic >= NumSemantics {
			return nil, ErrBadSemantic
		}
		op.Semantic = Semantic(dst.InputSemantic)
		op.PerspectiveCorrected = !src2.PerspCorrectionOff
		op.UseIndexRegister = src2.UseIndexReg
		op.LoopRegisterOffset = src2.AddrReg

	case OperandConstant:
		op.SourceOffset = r.BytesRead()
		x, y, z, w4, err := r.ReadVec4()
		if err != nil {
			return nil, err
		}
		op.X, op.Y, op.Z, op.W = x, y, z, w4

	default:
		return nil, ErrBadSrcRegType
	}

	return op, nil
}
