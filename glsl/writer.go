// Package glsl generates GLSL 330 fragment shader source from parsed
// fragment-program instruction trees.
package glsl

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/nohbdy/rsxfrag/insts"
)

// Options configures GLSL generation.
type Options struct {
	// SurfaceUnimplemented emits a marker comment for opcodes the writer
	// does not lower, instead of silently producing an empty expression.
	SurfaceUnimplemented bool
}

// Writer generates GLSL from an instruction tree.
type Writer struct {
	instructions []*insts.Instruction
	control      insts.ProgramControl
	opts         Options

	buf         strings.Builder
	indentLevel int

	// Destination write mask of the instruction being emitted, and whether
	// operands should have it propagated onto their swizzles. Scalar
	// producers like dot() disable the propagation.
	writeMask    uint8
	useWriteMask bool

	// Per-component expansion state, used when an instruction's predicate
	// tests a different condition component per channel.
	singleComponent  bool
	currentComponent int

	usedInputs         map[insts.Semantic]struct{}
	defaultRegisters   map[string]struct{}
	conditionRegisters map[string]struct{}
	usedOutputs        map[string]int
}

// NewWriter creates a writer for the given instruction tree and control
// word.
func NewWriter(instructions []*insts.Instruction, control insts.ProgramControl, opts Options) *Writer {
	return &Writer{
		instructions:       instructions,
		control:            control,
		opts:               opts,
		indentLevel:        1,
		usedInputs:         map[insts.Semantic]struct{}{},
		defaultRegisters:   map[string]struct{}{},
		conditionRegisters: map[string]struct{}{},
		usedOutputs:        map[string]int{},
	}
}

// Process emits the complete fragment shader: declarations for every
// input, register, and output the body references, then the main function.
func (w *Writer) Process() string {
	w.processList(w.instructions)

	var out strings.Builder
	out.WriteString("#version 330\n\n")

	inputs := make([]int, 0, len(w.usedInputs))
	for sem := range w.usedInputs {
		inputs = append(inputs, int(sem))
	}
	sort.Ints(inputs)
	for _, sem := range inputs {
		out.WriteString("in vec4 ")
		out.WriteString(inputRegisters[sem])
		out.WriteString(";\n")
	}

	for _, reg := range sortedNames(w.defaultRegisters) {
		if reg[0] == 'h' {
			out.WriteString("mediump ")
		}
		out.WriteString("vec4 ")
		out.WriteString(reg)
		out.WriteString(" = vec4(0, 0, 0, 0);\n")
	}

	for _, reg := range sortedNames(w.conditionRegisters) {
		if reg[0] == 'h' {
			out.WriteString("mediump ")
		}
		out.WriteString("vec4 ")
		out.WriteString(reg)
		out.WriteString(" = vec4(0, 0, 0, 0);\n")
	}

	outputs := make([]string, 0, len(w.usedOutputs))
	for name := range w.usedOutputs {
		outputs = append(outputs, name)
	}
	sort.Strings(outputs)
	for _, name := range outputs {
		if loc := w.usedOutputs[name]; loc >= 0 {
			out.WriteString("layout(location = ")
			out.WriteString(strconv.Itoa(loc))
			out.WriteString(") ")
		}
		out.WriteString("out vec4 ")
		out.WriteString(name)
		out.WriteString(";\n")
	}

	out.WriteString("layout(location = 0) out vec4 ocol;\n\n")

	out.WriteString("void main()\n{\n")
	out.WriteString(w.buf.String())

	if w.control.OutputFromR0() {
		out.WriteString("\tocol = r0;\n")
	} else {
		out.WriteString("\tocol = h0;\n")
	}

	if w.control.DepthReplace() {
		out.WriteString("\tgl_FragDepth = r1.z;\n")
	}

	out.WriteString("}\n")

	return out.String()
}

func (w *Writer) processList(list []*insts.Instruction) {
	for _, in := range list {
		w.singleComponent = false
		w.currentComponent = 0

		switch in.Opcode {
		case insts.OpNOP, insts.OpFENCT, insts.OpFENCB:
			// No emission.

		case insts.OpIFE:
			w.emitIfElse(in)

		case insts.OpLOOP:
			w.emitLoop(in)

		case insts.OpREP:
			w.emitRep(in)

		default:
			if in.Cond == insts.CondFalse {
				// A never-true predicate skips the instruction entirely.
				continue
			}
			if w.isUnimplemented(in.Opcode) && w.opts.SurfaceUnimplemented {
				w.buf.WriteString(indentation[w.indentLevel])
				w.buf.WriteString("// unimplemented: ")
				w.buf.WriteString(in.Opcode.String())
				w.buf.WriteString("\n")
				continue
			}
			if w.canDoSingleInstruction(in) {
				w.preInstruction(in)
				w.emitExpr(in)
				w.postInstruction(in)
			} else {
				// Each written channel tests its own condition component,
				// so expand into one scalar assignment per channel.
				n := writeComponents[in.WriteMask]
				w.singleComponent = true
				for i := 0; i < n; i++ {
					w.currentComponent = i
					w.preInstruction(in)
					w.emitExpr(in)
					w.postInstruction(in)
				}
			}
		}
	}
}

// canDoSingleInstruction reports whether the instruction can be emitted as
// one statement. A predicate that tests the same condition component for
// every channel (or no predicate at all) needs no per-channel expansion.
func (w *Writer) canDoSingleInstruction(in *insts.Instruction) bool {
	if in.Cond == insts.CondTrue {
		return true
	}
	return singleComponentCondition(in.CondMask)
}

func (w *Writer) indent() {
	if w.indentLevel == maxIndentation {
		return
	}
	w.indentLevel++
}

func (w *Writer) unindent() {
	if w.indentLevel == 0 {
		return
	}
	w.indentLevel--
}

// trackRegister records a referenced register so it gets declared.
// Registers 2..4 are output registers; full-precision outputs map to
// layout location index-1, half-precision outputs get no location.
func (w *Writer) trackRegister(name string, index uint8, fp16 bool) {
	if index >= 2 && index <= 4 {
		location := -1
		if !fp16 {
			location = int(index) - 1
		}
		if _, ok := w.usedOutputs[name]; !ok {
			w.usedOutputs[name] = location
		}
		return
	}
	w.defaultRegisters[name] = struct{}{}
}

func (w *Writer) writeSwizzle(mask uint8) {
	if w.singleComponent {
		w.writeSwizzleRange(mask, w.currentComponent, 1)
	} else {
		w.writeSwizzleRange(mask, 0, 4)
	}
}

// writeSwizzleRange writes up to count components of the swizzle mask,
// skipping the first skip components. When write-mask propagation is on,
// only components the destination writes are considered, so operands line
// up with the destination's swizzle.
func (w *Writer) writeSwizzleRange(mask uint8, skip, count int) {
	// '.xyzw' on a full-width destination is the same as adding nothing.
	if mask == insts.SwizzlePassThrough &&
		(!w.useWriteMask || w.writeMask == 0xF) &&
		skip == 0 && count >= 4 {
		return
	}

	written := 0
	skipped := 0

	w.buf.WriteByte('.')
	for i := 0; i < 4; i++ {
		if w.useWriteMask && w.writeMask&(1<<i) == 0 {
			continue
		}
		if skipped < skip {
			skipped++
			continue
		}
		if written < count {
			written++
			w.buf.WriteByte(componentChars[(mask>>(i*2))&0x3])
		}
	}
}

// preInstruction emits everything before the instruction's expression:
// indentation, the predicate guard, the destination and its mask, and the
// opening of the saturate/precision/bias/scale wrappers.
func (w *Writer) preInstruction(in *insts.Instruction) {
	if in.HasDest {
		w.useWriteMask = true
		w.writeMask = in.WriteMask
	} else {
		w.useWriteMask = false
	}

	w.buf.WriteString(indentation[w.indentLevel])

	if in.Cond != insts.CondTrue {
		if w.singleComponent || singleComponentCondition(in.CondMask) {
			// One condition component: a scalar float comparison.
			w.buf.WriteString("if (rc")
			if in.CondRegRead > 0 {
				w.buf.WriteString(strconv.Itoa(int(in.CondRegRead)))
			}
			w.writeSwizzleRange(in.CondMask, w.currentComponent, 1)
			w.buf.WriteString(condGlyphs[in.Cond])
			w.buf.WriteString("0.0) {\n")
		} else {
			w.buf.WriteString("if (all(")
			w.buf.WriteString(condFuncs[in.Cond])
			w.buf.WriteString("(rc")
			if in.CondRegRead > 0 {
				w.buf.WriteString(strconv.Itoa(int(in.CondRegRead)))
			}
			w.writeSwizzle(in.CondMask)
			w.buf.WriteString(", vec4(0.0)))) {\n")
		}

		w.indent()
		w.buf.WriteString(indentation[w.indentLevel])
	}

	if !in.HasDest {
		return
	}

	name := "r"
	if in.DestFP16 {
		name = "h"
	}
	if in.TargetsCondReg {
		name += "c"
		if in.CondRegSet != 0 {
			name += strconv.Itoa(int(in.CondRegSet))
		}
		w.conditionRegisters[name] = struct{}{}
	} else {
		name += strconv.Itoa(int(in.DestReg))
		w.trackRegister(name, in.DestReg, in.DestFP16)
	}
	w.buf.WriteString(name)

	if w.singleComponent {
		w.buf.WriteByte('.')
		if w.writeMask == 0xF {
			w.buf.WriteByte(componentChars[w.currentComponent])
		} else {
			w.buf.WriteByte(writeMasks[w.writeMask][w.currentComponent+1])
		}
	} else {
		w.buf.WriteString(writeMasks[w.writeMask])
	}

	w.buf.WriteString(" = ")

	if in.Biased {
		w.buf.WriteString("(")
	}

	if in.Saturated {
		w.buf.WriteString("clamp(")
	} else {
		switch in.Precision {
		case insts.PrecisionFixed12, insts.PrecisionFixed9:
			w.buf.WriteString("clamp(")
		}
	}

	if in.Scale != insts.ScaleNone {
		w.buf.WriteString("((")
	}
}

// postInstruction closes the wrappers opened by preInstruction and
// terminates the statement and any predicate block.
func (w *Writer) postInstruction(in *insts.Instruction) {
	scale := in.Scale
	if !in.HasDest {
		scale = insts.ScaleNone
	}
	switch scale {
	case insts.ScaleDiv2:
		w.buf.WriteString(") / 2.0)")
	case insts.ScaleDiv4:
		w.buf.WriteString(") / 4.0)")
	case insts.ScaleDiv8:
		w.buf.WriteString(") / 8.0)")
	case insts.ScaleTimes2:
		w.buf.WriteString(") * 2.0)")
	case insts.ScaleTimes4:
		w.buf.WriteString(") * 4.0)")
	case insts.ScaleTimes8:
		w.buf.WriteString(") * 8.0)")
	}

	if in.HasDest {
		if in.Saturated {
			w.buf.WriteString(", 0.0, 1.0)")
		} else {
			switch in.Precision {
			case insts.PrecisionFixed12:
				w.buf.WriteString(", -2.0, 2.0)")
			case insts.PrecisionFixed9:
				w.buf.WriteString(", -1.0, 1.0)")
			}
		}

		if in.Biased {
			w.buf.WriteString(" * 2 - 1)")
		}
	}

	w.buf.WriteString(";\n")

	if in.Cond != insts.CondTrue {
		w.unindent()
		w.buf.WriteString(indentation[w.indentLevel])
		w.buf.WriteString("}\n")
	}

	w.useWriteMask = false
}

// emitExpr writes the expression for one instruction. Opcodes with no
// lowering emit nothing; the destination framing still applies.
func (w *Writer) emitExpr(in *insts.Instruction) {
	switch in.Opcode {
	case insts.OpMOV:
		w.writeOperand(in.Operands[0])

	case insts.OpMUL:
		w.writeOperand(in.Operands[0])
		w.buf.WriteString(" * ")
		w.writeOperand(in.Operands[1])

	case insts.OpADD:
		w.writeOperand(in.Operands[0])
		w.buf.WriteString(" + ")
		w.writeOperand(in.Operands[1])

	case insts.OpMAD:
		w.writeOperand(in.Operands[0])
		w.buf.WriteString(" * ")
		w.writeOperand(in.Operands[1])
		w.buf.WriteString(" + ")
		w.writeOperand(in.Operands[2])

	case insts.OpDIV:
		w.writeOperand(in.Operands[0])
		w.buf.WriteString(" / ")
		w.useWriteMask = false
		w.writeOperand(in.Operands[1])
		if !w.singleComponent {
			w.buf.WriteString(vectorCast[w.writeMask])
		}

	case insts.OpDIVSQ:
		w.writeOperand(in.Operands[0])
		w.buf.WriteString(" / sqrt(")
		w.useWriteMask = false
		w.writeOperand(in.Operands[1])
		if !w.singleComponent {
			w.buf.WriteString(vectorCast[w.writeMask])
		}
		w.buf.WriteString(")")

	case insts.OpDP2:
		w.useWriteMask = false
		w.buf.WriteString("dot(")
		w.writeOperand(in.Operands[0])
		w.buf.WriteString(".xy, ")
		w.writeOperand(in.Operands[1])
		w.buf.WriteString(".xy)")

	case insts.OpDP3:
		w.useWriteMask = false
		w.buf.WriteString("dot(")
		w.writeOperand(in.Operands[0])
		w.buf.WriteString(".xyz, ")
		w.writeOperand(in.Operands[1])
		w.buf.WriteString(".xyz)")

	case insts.OpDP4:
		w.useWriteMask = false
		w.buf.WriteString("dot(")
		w.writeOperand(in.Operands[0])
		w.buf.WriteString(", ")
		w.writeOperand(in.Operands[1])
		w.buf.WriteString(")")

	case insts.OpDP2A:
		w.useWriteMask = false
		w.buf.WriteString("(dot(")
		w.writeOperand(in.Operands[0])
		w.buf.WriteString(".xy, ")
		w.writeOperand(in.Operands[1])
		w.buf.WriteString(".xy) + ")
		w.useWriteMask = true
		w.writeOperand(in.Operands[2])
		w.buf.WriteString(")")

	case insts.OpDST:
		w.buf.WriteString("distance(")
		w.writeOperand(in.Operands[0])
		w.buf.WriteString(", ")
		w.writeOperand(in.Operands[1])
		w.buf.WriteString(")")

	case insts.OpMIN:
		w.writeBinaryFunc("min", in)

	case insts.OpMAX:
		w.writeBinaryFunc("max", in)

	case insts.OpSLT:
		w.writeSetOnCompare(" < ", "lessThan", in)

	case insts.OpSGE:
		w.writeSetOnCompare(" >= ", "greaterThanEqual", in)

	case insts.OpSLE:
		w.writeSetOnCompare(" <= ", "lessThanEqual", in)

	case insts.OpSGT:
		w.writeSetOnCompare(" > ", "greaterThan", in)

	case insts.OpSNE:
		w.writeSetOnCompare(" != ", "notEqual", in)

	case insts.OpSEQ:
		w.writeSetOnCompare(" == ", "equal", in)

	case insts.OpFRC:
		w.writeUnaryFunc("fract", in)

	case insts.OpFLR:
		w.writeUnaryFunc("floor", in)

	case insts.OpDDX:
		w.writeUnaryFunc("dFdx", in)

	case insts.OpDDY:
		w.writeUnaryFunc("dFdy", in)

	case insts.OpNRM:
		w.buf.WriteString("normalize(")
		w.writeOperand(in.Operands[0])
		w.buf.WriteString(".xyz)")

	case insts.OpRCP:
		w.useWriteMask = false
		w.buf.WriteString("(1.0 / (")
		w.writeOperand(in.Operands[0])
		w.buf.WriteString("))")
		if !w.singleComponent {
			w.buf.WriteString(vectorCast[w.writeMask])
		}

	case insts.OpRSQ:
		w.writeCastUnaryFunc("inversesqrt", in)

	case insts.OpEX2:
		w.writeCastUnaryFunc("exp2", in)

	case insts.OpLG2:
		w.writeCastUnaryFunc("log2", in)

	case insts.OpCOS:
		w.writeCastUnaryFunc("cos", in)

	case insts.OpSIN:
		w.writeCastUnaryFunc("sin", in)

	case insts.OpPOW:
		w.buf.WriteString("pow(")
		w.writeOperand(in.Operands[0])
		w.buf.WriteString(", ")
		w.writeOperand(in.Operands[1])
		w.buf.WriteString(")")

	case insts.OpTEX:
		w.writeTexture(in)

	case insts.OpKIL:
		w.buf.WriteString("discard")

	case insts.OpBRK:
		w.buf.WriteString("break")

	case insts.OpRET:
		w.buf.WriteString("return")

	default:
		// Unimplemented opcode: empty expression.
	}
}

func (w *Writer) writeUnaryFunc(name string, in *insts.Instruction) {
	w.buf.WriteString(name)
	w.buf.WriteString("(")
	w.writeOperand(in.Operands[0])
	w.buf.WriteString(")")
}

// writeCastUnaryFunc emits a scalar-producing builtin whose result is
// widened to the destination's component count.
func (w *Writer) writeCastUnaryFunc(name string, in *insts.Instruction) {
	w.useWriteMask = false
	w.writeUnaryFunc(name, in)
	if !w.singleComponent {
		w.buf.WriteString(vectorCast[w.writeMask])
	}
}

func (w *Writer) writeBinaryFunc(name string, in *insts.Instruction) {
	w.buf.WriteString(name)
	w.buf.WriteString("(")
	w.writeOperand(in.Operands[0])
	w.buf.WriteString(", ")
	w.writeOperand(in.Operands[1])
	w.buf.WriteString(")")
}

// writeSetOnCompare emits the SLT family: a scalar float() comparison when
// the destination writes one component, a vecN() over the vector builtin
// otherwise.
func (w *Writer) writeSetOnCompare(glyph, fn string, in *insts.Instruction) {
	if writeComponents[w.writeMask] == 1 {
		w.buf.WriteString("float(")
		w.writeOperand(in.Operands[0])
		w.buf.WriteString(glyph)
		w.writeOperand(in.Operands[1])
		w.buf.WriteString(")")
		return
	}

	fmt.Fprintf(&w.buf, "vec%d(%s(", writeComponents[w.writeMask], fn)
	w.writeOperand(in.Operands[0])
	w.buf.WriteString(", ")
	w.writeOperand(in.Operands[1])
	w.buf.WriteString("))")
}

func (w *Writer) writeTexture(in *insts.Instruction) {
	fmt.Fprintf(&w.buf, "texture(tex%d, ", in.Sampler)
	w.writeOperand(in.Operands[0])
	w.buf.WriteString(".xy)")
}

// writeOperand emits one source operand with its negate/abs modifiers and
// swizzle suffix.
func (w *Writer) writeOperand(op *insts.Operand) {
	if op.Neg {
		w.buf.WriteString("-")
	}
	if op.Abs {
		w.buf.WriteString("abs(")
	}

	switch op.Kind {
	case insts.OperandRegister:
		name := "r"
		if op.FP16 {
			name = "h"
		}
		name += strconv.Itoa(int(op.Index))
		w.trackRegister(name, op.Index, op.FP16)
		w.buf.WriteString(name)

	case insts.OperandSpecial:
		if !op.UseIndexRegister {
			w.buf.WriteString(inputRegisters[op.Semantic])
			w.usedInputs[op.Semantic] = struct{}{}
		} else {
			// FIXME: no sample program exercises the index register.
			fmt.Fprintf(&w.buf, "aL+%d", op.Index)
		}

	case insts.OperandConstant:
		if op.FP16 {
			w.buf.WriteString("half4(")
		} else {
			w.buf.WriteString("vec4(")
		}
		w.buf.WriteString(formatFloat(op.X))
		w.buf.WriteString(", ")
		w.buf.WriteString(formatFloat(op.Y))
		w.buf.WriteString(", ")
		w.buf.WriteString(formatFloat(op.Z))
		w.buf.WriteString(", ")
		w.buf.WriteString(formatFloat(op.W))
		w.buf.WriteString(")")
	}

	w.writeSwizzle(op.Swizzle)

	if op.Abs {
		w.buf.WriteString(")")
	}
}

// emitIfElse emits an IFE instruction with its nested bodies. The guard
// tests the condition register against zero.
func (w *Writer) emitIfElse(in *insts.Instruction) {
	w.buf.WriteString(indentation[w.indentLevel])
	w.buf.WriteString("if (")

	switch in.Cond {
	case insts.CondFalse:
		w.buf.WriteString("false")
	case insts.CondTrue:
		w.buf.WriteString("true")
	case insts.CondGreaterThan:
		w.buf.WriteString("all(greaterThan(rc")
		if in.CondRegRead > 0 {
			w.buf.WriteString("1")
		}
		w.writeSwizzle(in.CondMask)
		w.buf.WriteString(", vec4(0,0,0,0)))")
	case insts.CondEqual:
		w.buf.WriteString("all(equal(rc")
		if in.CondRegRead > 0 {
			w.buf.WriteString("1")
		}
		w.writeSwizzle(in.CondMask)
		w.buf.WriteString(", vec4(0,0,0,0)))")
	default:
		w.buf.WriteString("rc")
		if in.CondRegRead > 0 {
			w.buf.WriteString("1")
		}
		w.writeSwizzle(in.CondMask)
		w.buf.WriteString(condGlyphs[in.Cond])
		w.buf.WriteString("0")
	}

	w.buf.WriteString(") {\n")
	w.indent()
	w.processList(in.Body)
	w.unindent()

	if len(in.ElseBody) > 0 {
		w.buf.WriteString(indentation[w.indentLevel])
		w.buf.WriteString("} else {\n")
		w.indent()
		w.processList(in.ElseBody)
		w.unindent()
	}

	w.buf.WriteString(indentation[w.indentLevel])
	w.buf.WriteString("}\n")
}

func (w *Writer) emitLoop(in *insts.Instruction) {
	w.buf.WriteString(indentation[w.indentLevel])
	fmt.Fprintf(&w.buf, "for (int loopCnt = %d; loopCnt < %d; loopCnt += %d) {\n",
		in.LoopInit, in.LoopEnd, in.LoopIncrement)

	w.indent()
	w.processList(in.Body)
	w.unindent()

	w.buf.WriteString(indentation[w.indentLevel])
	w.buf.WriteString("}\n")
}

func (w *Writer) emitRep(in *insts.Instruction) {
	w.buf.WriteString(indentation[w.indentLevel])
	fmt.Fprintf(&w.buf, "for (int loopCnt = 0; loopCnt < %d; loopCnt++) {\n", in.RepCount)

	w.indent()
	w.processList(in.Body)
	w.unindent()

	w.buf.WriteString(indentation[w.indentLevel])
	w.buf.WriteString("}\n")
}

// isUnimplemented reports whether the opcode has no lowering.
func (w *Writer) isUnimplemented(op insts.Opcode) bool {
	switch op {
	case insts.OpPK4, insts.OpUP4, insts.OpTXP, insts.OpTXD, insts.OpLIT,
		insts.OpLRP, insts.OpSTR, insts.OpSFL, insts.OpPK2, insts.OpUP2,
		insts.OpPKB, insts.OpUPB, insts.OpPK16, insts.OpUP16, insts.OpBEM,
		insts.OpPKG, insts.OpUPG, insts.OpTXL, insts.OpTXB, insts.OpTEXBEM,
		insts.OpTXPBEM, insts.OpBEMLUM, insts.OpREFL, insts.OpTIMESWTEX,
		insts.OpLIF, insts.OpCAL:
		return true
	}
	return false
}

func sortedNames(set map[string]struct{}) []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// formatFloat renders a constant component the shortest way that parses
// back to the same float32.
func formatFloat(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}
