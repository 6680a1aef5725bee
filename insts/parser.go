package insts

import "fmt"

// invalidLine is the sentinel for "no else/end line" on a parse context.
const invalidLine = 0xFFFFFFFF

// parseContext tracks one open block while parsing. The root context owns
// the top-level instruction list; IFE/LOOP/REP push a context whose active
// list is the new instruction's body and which pops at the absolute line
// number stored in the branching instruction.
type parseContext struct {
	opcode   Opcode
	active   *[]*Instruction
	elseList *[]*Instruction
	lineElse uint32
	lineEnd  uint32
}

// Stats carries side results of a parse.
type Stats struct {
	// Size is the program size in bytes: instruction lines plus constant
	// lines, up to and including the line with the end bit.
	Size uint32

	// UnclosedBlocks is set when the end bit was reached with open
	// control-flow blocks. The program is still usable; the emitter closes
	// whatever was produced.
	UnclosedBlocks bool
}

// Parser builds the instruction tree from a fragment-program binary.
type Parser struct {
	r *Reader
}

// NewParser creates a parser over the given program bytes.
func NewParser(data []byte) *Parser {
	return &Parser{r: NewReader(data)}
}

// Parse decodes the program into its instruction tree. Parsing stops at
// the first instruction with the end bit set; bytes after it are ignored.
func (p *Parser) Parse() ([]*Instruction, Stats, error) {
	var result []*Instruction
	var stats Stats

	stack := []*parseContext{{
		opcode:   OpNOP,
		active:   &result,
		lineElse: invalidLine,
		lineEnd:  invalidLine,
	}}

	for {
		top := stack[len(stack)-1]
		line := p.r.LineNumber()

		// Leave or switch the current block before decoding the line.
		if line == top.lineEnd {
			if len(stack) <= 1 {
				return nil, stats, p.errorAt(ErrUnbalancedBlock, 0, "")
			}
			stack = stack[:len(stack)-1]
			top = stack[len(stack)-1]
		} else if line == top.lineElse {
			top.active = top.elseList
		}

		dstW, src0W, src1W, src2W, err := p.r.BeginInstruction()
		if err != nil {
			return nil, stats, p.errorAt(err, 0, "")
		}

		dst := decodeOpDest(dstW)
		src0 := decodeSrc0(src0W)
		src1 := decodeSrc1(src1W)

		op := Opcode(dst.Opcode)
		if src1.OpcodeIsBranch {
			op |= 0x40
		}
		if !op.Valid() {
			return nil, stats, p.errorAt(ErrUnknownOpcode, op, fmt.Sprintf("0x%02X", uint8(op)))
		}

		insn := &Instruction{Opcode: op}
		insn.loadMeta(dst, src0, src1, line)

		for slot := 1; slot <= op.NumOperands(); slot++ {
			operand, err := loadOperand(slot, dstW, src0W, src1W, src2W, p.r)
			if err != nil {
				return nil, stats, p.errorAt(err, op, "")
			}
			insn.Operands[slot-1] = operand
		}

		if insn.HasDest && insn.Scale == 4 {
			return nil, stats, p.errorAt(ErrBadScale, op, "4")
		}

		switch op {
		case OpIFE:
			stack = append(stack, &parseContext{
				opcode:   op,
				active:   &insn.Body,
				elseList: &insn.ElseBody,
				lineElse: src1Target(src1W),
				lineEnd:  src2LoopEnd(src2W),
			})
		case OpLOOP:
			loop := decodeSrc1Loop(src1W)
			insn.LoopInit = loop.InitCounter
			insn.LoopEnd = loop.EndCounter
			insn.LoopIncrement = loop.Increment
			stack = append(stack, &parseContext{
				opcode:   op,
				active:   &insn.Body,
				lineElse: invalidLine,
				lineEnd:  src2LoopEnd(src2W),
			})
		case OpREP:
			insn.RepCount = decodeSrc1Loop(src1W).EndCounter
			stack = append(stack, &parseContext{
				opcode:   op,
				active:   &insn.Body,
				lineElse: invalidLine,
				lineEnd:  src2LoopEnd(src2W),
			})
		case OpCAL:
			insn.CallTarget = src1Target(src1W)
		}

		*top.active = append(*top.active, insn)

		p.r.EndInstruction()

		if dst.End {
			stats.UnclosedBlocks = len(stack) > 1
			break
		}
	}

	stats.Size = p.r.BytesRead()
	return result, stats, nil
}

// errorAt wraps err with the current position and a dump of the line the
// reader is sitting on.
func (p *Parser) errorAt(err error, op Opcode, detail string) error {
	return &ParseError{
		Err:      err,
		Op:       op,
		Line:     p.r.LineNumber(),
		LineDump: p.r.lineDump(),
		Detail:   detail,
	}
}
