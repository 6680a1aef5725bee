package insts

// Opcode represents a 7-bit fragment-program opcode: the low six bits come
// from the DST word, bit 6 is the branch flag from SRC1.
type Opcode uint8

// Fragment-program opcodes.
const (
	OpNOP       Opcode = 0x00 // No-Operation
	OpMOV       Opcode = 0x01 // Move
	OpMUL       Opcode = 0x02 // Multiply
	OpADD       Opcode = 0x03 // Add
	OpMAD       Opcode = 0x04 // Multiply-Add
	OpDP3       Opcode = 0x05 // 3-component dot product
	OpDP4       Opcode = 0x06 // 4-component dot product
	OpDST       Opcode = 0x07 // Distance
	OpMIN       Opcode = 0x08 // Minimum
	OpMAX       Opcode = 0x09 // Maximum
	OpSLT       Opcode = 0x0A // Set-if-less-than
	OpSGE       Opcode = 0x0B // Set-if-greater-equal
	OpSLE       Opcode = 0x0C // Set-if-less-equal
	OpSGT       Opcode = 0x0D // Set-if-greater-than
	OpSNE       Opcode = 0x0E // Set-if-not-equal
	OpSEQ       Opcode = 0x0F // Set-if-equal
	OpFRC       Opcode = 0x10 // Fraction
	OpFLR       Opcode = 0x11 // Floor
	OpKIL       Opcode = 0x12 // Kill fragment
	OpPK4       Opcode = 0x13 // Pack 4 unsigned bytes
	OpUP4       Opcode = 0x14 // Unpack 4 unsigned bytes
	OpDDX       Opcode = 0x15 // Partial derivative in x
	OpDDY       Opcode = 0x16 // Partial derivative in y
	OpTEX       Opcode = 0x17 // Texture lookup
	OpTXP       Opcode = 0x18 // Texture lookup with projection
	OpTXD       Opcode = 0x19 // Texture lookup with derivatives
	OpRCP       Opcode = 0x1A // Reciprocal
	OpRSQ       Opcode = 0x1B // Reciprocal square root
	OpEX2       Opcode = 0x1C // exp2
	OpLG2       Opcode = 0x1D // log2
	OpLIT       Opcode = 0x1E // Lighting coefficients
	OpLRP       Opcode = 0x1F // Linear interpolation
	OpSTR       Opcode = 0x20 // Set-if-true
	OpSFL       Opcode = 0x21 // Set-if-false
	OpCOS       Opcode = 0x22 // Cosine
	OpSIN       Opcode = 0x23 // Sine
	OpPK2       Opcode = 0x24 // Pack 2 halfs
	OpUP2       Opcode = 0x25 // Unpack 2 halfs
	OpPOW       Opcode = 0x26 // Power
	OpPKB       Opcode = 0x27 // Pack bytes
	OpUPB       Opcode = 0x28 // Unpack bytes
	OpPK16      Opcode = 0x29 // Pack 2 shorts
	OpUP16      Opcode = 0x2A // Unpack 2 shorts
	OpBEM       Opcode = 0x2B // Bump-environment map transform
	OpPKG       Opcode = 0x2C // Pack with gamma
	OpUPG       Opcode = 0x2D // Unpack with gamma
	OpDP2A      Opcode = 0x2E // 2-component dot product plus scalar
	OpTXL       Opcode = 0x2F // Texture lookup with LOD
	OpTXB       Opcode = 0x31 // Texture lookup with bias
	OpTEXBEM    Opcode = 0x33
	OpTXPBEM    Opcode = 0x34
	OpBEMLUM    Opcode = 0x35
	OpREFL      Opcode = 0x36 // Reflect
	OpTIMESWTEX Opcode = 0x37
	OpDP2       Opcode = 0x38 // 2-component dot product
	OpNRM       Opcode = 0x39 // Normalize
	OpDIV       Opcode = 0x3A // Divide
	OpDIVSQ     Opcode = 0x3B // Divide by square root
	OpLIF       Opcode = 0x3C // Final part of LIT
	OpFENCT     Opcode = 0x3D // Fence T
	OpFENCB     Opcode = 0x3E // Fence B

	// Branch opcodes carry the branch flag (bit 6 of the full opcode).
	OpBRK  Opcode = 0x40 // Break out of a loop
	OpCAL  Opcode = 0x41 // Subroutine call
	OpIFE  Opcode = 0x42 // If/else
	OpLOOP Opcode = 0x43 // Counted loop
	OpREP  Opcode = 0x44 // Repeat
	OpRET  Opcode = 0x45 // Return

	// NumOpcodes bounds the opcode space.
	NumOpcodes = 0x46
)

// opcodeInfo describes one opcode's decode behavior.
type opcodeInfo struct {
	name        string
	numOperands int
	valid       bool
}

// opcodeTable maps each opcode to its name and source-operand count. The
// operand count also determines whether the instruction has a destination:
// zero-operand instructions write no register. Entries left zero are holes
// in the opcode space (0x30, 0x32, 0x3F).
var opcodeTable = [NumOpcodes]opcodeInfo{
	OpNOP:       {"NOP", 0, true},
	OpMOV:       {"MOV", 1, true},
	OpMUL:       {"MUL", 2, true},
	OpADD:       {"ADD", 2, true},
	OpMAD:       {"MAD", 3, true},
	OpDP3:       {"DP3", 2, true},
	OpDP4:       {"DP4", 2, true},
	OpDST:       {"DST", 2, true},
	OpMIN:       {"MIN", 2, true},
	OpMAX:       {"MAX", 2, true},
	OpSLT:       {"SLT", 2, true},
	OpSGE:       {"SGE", 2, true},
	OpSLE:       {"SLE", 2, true},
	OpSGT:       {"SGT", 2, true},
	OpSNE:       {"SNE", 2, true},
	OpSEQ:       {"SEQ", 2, true},
	OpFRC:       {"FRC", 1, true},
	OpFLR:       {"FLR", 1, true},
	OpKIL:       {"KIL", 0, true},
	OpPK4:       {"PK4", 1, true},
	OpUP4:       {"UP4", 1, true},
	OpDDX:       {"DDX", 1, true},
	OpDDY:       {"DDY", 1, true},
	OpTEX:       {"TEX", 1, true},
	OpTXP:       {"TXP", 1, true},
	OpTXD:       {"TXD", 1, true},
	OpRCP:       {"RCP", 1, true},
	OpRSQ:       {"RSQ", 1, true},
	OpEX2:       {"EX2", 1, true},
	OpLG2:       {"LG2", 1, true},
	OpLIT:       {"LIT", 1, true},
	OpLRP:       {"LRP", 3, true},
	OpSTR:       {"STR", 2, true},
	OpSFL:       {"SFL", 2, true},
	OpCOS:       {"COS", 1, true},
	OpSIN:       {"SIN", 1, true},
	OpPK2:       {"PK2", 1, true},
	OpUP2:       {"UP2", 1, true},
	OpPOW:       {"POW", 2, true},
	OpPKB:       {"PKB", 1, true},
	OpUPB:       {"UPB", 1, true},
	OpPK16:      {"PK16", 1, true},
	OpUP16:      {"UP16", 1, true},
	OpBEM:       {"BEM", 3, true},
	OpPKG:       {"PKG", 1, true},
	OpUPG:       {"UPG", 1, true},
	OpDP2A:      {"DP2A", 3, true},
	OpTXL:       {"TXL", 3, true},
	OpTXB:       {"TXB", 3, true},
	OpTEXBEM:    {"TEXBEM", 3, true},
	OpTXPBEM:    {"TXPBEM", 3, true},
	OpBEMLUM:    {"BEMLUM", 3, true},
	OpREFL:      {"REFL", 2, true},
	OpTIMESWTEX: {"TIMESWTEX", 1, true},
	OpDP2:       {"DP2", 2, true},
	OpNRM:       {"NRM", 1, true},
	OpDIV:       {"DIV", 2, true},
	OpDIVSQ:     {"DIVSQ", 2, true},
	OpLIF:       {"LIF", 1, true},
	OpFENCT:     {"FENCT", 0, true},
	OpFENCB:     {"FENCB", 0, true},
	OpBRK:       {"BRK", 0, true},
	OpCAL:       {"CAL", 0, true},
	OpIFE:       {"IFE", 0, true},
	OpLOOP:      {"LOOP", 0, true},
	OpREP:       {"REP", 0, true},
	OpRET:       {"RET", 0, true},
}

// Valid reports whether the opcode exists in the instruction set.
func (op Opcode) Valid() bool {
	return op < NumOpcodes && opcodeTable[op].valid
}

// NumOperands returns the number of source operands the opcode consumes.
func (op Opcode) NumOperands() int {
	if !op.Valid() {
		return 0
	}
	return opcodeTable[op].numOperands
}

// IsBranch reports whether the opcode has the branch flag set.
func (op Opcode) IsBranch() bool {
	return op&0x40 != 0
}

func (op Opcode) String() string {
	if !op.Valid() {
		return "INVALID"
	}
	return opcodeTable[op].name
}
