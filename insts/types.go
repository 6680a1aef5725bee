package insts

// Precision represents the numeric precision an instruction operates at.
type Precision uint8

// Instruction precisions.
const (
	PrecisionFull    Precision = 0 // 32-bit IEEE floating point
	PrecisionHalf    Precision = 1 // 16-bit half precision
	PrecisionFixed12 Precision = 2 // 12-bit fixed point, clamps to [-2, 2]
	PrecisionFixed9  Precision = 3 // 9-bit fixed point, clamps to [-1, 1]
)

// Scale represents the post-ALU scale applied to an instruction's result.
type Scale uint8

// Result scales. Value 4 is unused by the hardware; on an instruction with a
// destination it decodes as BadScale.
const (
	ScaleNone   Scale = 0
	ScaleTimes2 Scale = 1
	ScaleTimes4 Scale = 2
	ScaleTimes8 Scale = 3
	ScaleDiv2   Scale = 5
	ScaleDiv4   Scale = 6
	ScaleDiv8   Scale = 7
)

// Condition represents the predicate an instruction executes under. The
// three bits encode (less, equal, greater) against zero.
type Condition uint8

// Execution conditions.
const (
	CondFalse        Condition = 0 // never executes; the instruction is skipped
	CondLessThan     Condition = 1
	CondEqual        Condition = 2
	CondLessEqual    Condition = 3
	CondGreaterThan  Condition = 4
	CondNotEqual     Condition = 5
	CondGreaterEqual Condition = 6
	CondTrue         Condition = 7 // unconditional
)

// Semantic identifies an input-register channel.
type Semantic uint8

// Input semantics.
const (
	SemanticWPOS Semantic = 0  // window position
	SemanticCOL0 Semantic = 1  // primary color
	SemanticCOL1 Semantic = 2  // secondary color
	SemanticFOGC Semantic = 3  // fog coordinate
	SemanticTEX0 Semantic = 4  // texture coordinates 0..9
	SemanticTEX1 Semantic = 5
	SemanticTEX2 Semantic = 6
	SemanticTEX3 Semantic = 7
	SemanticTEX4 Semantic = 8
	SemanticTEX5 Semantic = 9
	SemanticTEX6 Semantic = 10
	SemanticTEX7 Semantic = 11
	SemanticTEX8 Semantic = 12
	SemanticTEX9 Semantic = 13
	SemanticSSA  Semantic = 14 // sign of signed area (vFace)

	// NumSemantics bounds the semantic table.
	NumSemantics = 15
)

// OperandKind selects the source-operand variant.
type OperandKind uint8

// Operand kinds, matching the 2-bit reg_type field.
const (
	OperandRegister OperandKind = 0 // temporary register (r# or h#)
	OperandSpecial  OperandKind = 1 // input register or index register
	OperandConstant OperandKind = 2 // embedded vec4 constant
)

// SwizzlePassThrough is the swizzle mask selecting .xyzw in order.
const SwizzlePassThrough = 0xE4

// ProgramControl is the 32-bit control word sent alongside a fragment
// program (NV4097_SET_SHADER_CONTROL).
type ProgramControl uint32

// OutputFromR0 reports whether the color output is in R0 (otherwise H0).
func (c ProgramControl) OutputFromR0() bool { return c&0x40 != 0 }

// PixelKill reports whether the program uses the KIL instruction.
func (c ProgramControl) PixelKill() bool { return c&0x80 != 0 }

// On reports bit 10 of the control word, set on every active program.
func (c ProgramControl) On() bool { return c&0x400 != 0 }

// TxpConversion reports whether TXP instructions should be lowered to
// plain TEX lookups.
func (c ProgramControl) TxpConversion() bool { return c&0x8000 != 0 }

// DepthReplace reports whether the program replaces the fragment depth
// (bits 1-3 nonzero; 0x7 when compiled with depth replace).
func (c ProgramControl) DepthReplace() bool { return (c>>1)&0x7 != 0 }

// RegisterCount returns how many registers the program uses (valid 2..48).
func (c ProgramControl) RegisterCount() uint32 { return uint32(c >> 24) }
