package insts

// Instruction is one decoded fragment-program instruction. Control-flow
// instructions own their nested bodies, so a parsed program forms a tree.
type Instruction struct {
	Opcode Opcode

	// Line is the line number (starting at 0) of this instruction in the
	// program stream.
	Line uint32

	// Destination.
	DestReg        uint8
	WriteMask      uint8 // low bit = x, high bit = w
	DestFP16       bool
	TargetsCondReg bool // destination is a condition register, not rN/hN
	HasDest        bool

	// Condition flags.
	SetCond     bool      // instruction updates condition flags
	CondRegSet  uint8     // which condition register is written (0 or 1)
	CondRegRead uint8     // which condition register is tested (0 or 1)
	Cond        Condition // predicate for this instruction
	CondMask    uint8     // condition-register swizzle

	// Result modifiers.
	Precision Precision
	Scale     Scale
	Biased    bool // _bx2: result * 2 - 1
	Saturated bool // clamp result to [0, 1]

	// Sampler index for texture lookups.
	Sampler uint8

	// Source operands, populated up to the opcode's operand count.
	Operands [3]*Operand

	// Control-flow payload.
	Body          []*Instruction // IFE then-branch, LOOP body, REP body
	ElseBody      []*Instruction // IFE else-branch
	LoopInit      uint32
	LoopEnd       uint32
	LoopIncrement uint32
	RepCount      uint32
	CallTarget    uint32
}

// loadMeta fills the shared instruction metadata from the decoded words.
func (in *Instruction) loadMeta(dst opDest, src0 src0Fields, src1 src1Fields, line uint32) {
	in.Line = line
	in.DestReg = dst.DestReg
	in.WriteMask = dst.WriteMask
	in.DestFP16 = dst.FP16
	in.TargetsCondReg = dst.NoDest
	in.HasDest = in.Opcode.NumOperands() > 0

	in.SetCond = dst.SetCond
	in.CondRegSet = src0.CondRegModify
	in.CondRegRead = src0.CondRegRead
	in.Cond = src0.Condition
	in.CondMask = src0.CondSwizzle

	in.Precision = dst.Precision
	in.Scale = src1.Scale
	in.Biased = dst.ExpTex
	in.Saturated = dst.Saturate

	in.Sampler = dst.TexNum
}
