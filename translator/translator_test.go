package translator_test

import (
	"bytes"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nohbdy/rsxfrag/hashing"
	"github.com/nohbdy/rsxfrag/insts"
	"github.com/nohbdy/rsxfrag/translator"
)

var _ = Describe("Translate", func() {
	It("should translate the identity passthrough program", func() {
		result, err := translator.Translate(movColorProgram(), ctrlR0)
		Expect(err).ToNot(HaveOccurred())

		Expect(result.Size).To(Equal(uint32(16)))
		Expect(result.UnclosedBlocks).To(BeFalse())
		Expect(result.GLSL).To(Equal("#version 330\n" +
			"\n" +
			"in vec4 col0;\n" +
			"vec4 r0 = vec4(0, 0, 0, 0);\n" +
			"layout(location = 0) out vec4 ocol;\n" +
			"\n" +
			"void main()\n" +
			"{\n" +
			"\tr0 = col0;\n" +
			"\tocol = r0;\n" +
			"}\n"))
	})

	It("should translate an embedded-constant multiply", func() {
		program := concat(
			line(
				dstWord(insts.OpMUL, true, 0, 0xF, insts.SemanticCOL0),
				uncond(inputReg()),
				constReg(),
				0,
			),
			vecLine(0.5, 0.5, 0.5, 1.0),
		)

		result, err := translator.Translate(program, ctrlR0)
		Expect(err).ToNot(HaveOccurred())
		Expect(result.Size).To(Equal(uint32(32)))
		Expect(result.GLSL).To(ContainSubstring("\tr0 = col0 * vec4(0.5, 0.5, 0.5, 1);\n"))
	})

	It("should be deterministic", func() {
		program := movColorProgram()

		first, err := translator.Translate(program, ctrlR0)
		Expect(err).ToNot(HaveOccurred())
		second, err := translator.Translate(program, ctrlR0)
		Expect(err).ToNot(HaveOccurred())

		Expect(second.GLSL).To(Equal(first.GLSL))
		Expect(second.Hash).To(Equal(first.Hash))
		Expect(second.Hash128).To(Equal(first.Hash128))
	})

	It("should ignore bytes after the end instruction", func() {
		program := movColorProgram()
		clean, err := translator.Translate(program, ctrlR0)
		Expect(err).ToNot(HaveOccurred())

		padded := append(append([]byte{}, program...), 0xFF, 0xFF, 0xFF, 0xFF)
		dirty, err := translator.Translate(padded, ctrlR0)
		Expect(err).ToNot(HaveOccurred())

		Expect(dirty.GLSL).To(Equal(clean.GLSL))
		Expect(dirty.Hash).To(Equal(clean.Hash))
		Expect(dirty.Size).To(Equal(clean.Size))
	})

	It("should fingerprint only the measured bytes", func() {
		program := movColorProgram()
		padded := append(append([]byte{}, program...), 0xFF, 0xFF, 0xFF, 0xFF)
		result, err := translator.Translate(padded, ctrlR0)
		Expect(err).ToNot(HaveOccurred())

		Expect(result.Hash).To(Equal(hashing.Murmur3_32(program, 0)))
		Expect(result.Hash).To(Equal(translator.HashProgram(program)))
	})

	It("should surface parse errors with their position", func() {
		// Opcode 0x30 is a hole in the opcode space.
		program := line(dstWord(insts.Opcode(0x30), true, 0, 0xF, 0), uncond(tempReg(0)), 0, 0)

		_, err := translator.Translate(program, ctrlR0)
		Expect(err).To(MatchError(insts.ErrUnknownOpcode))

		var parseErr *insts.ParseError
		Expect(err).To(BeAssignableToTypeOf(parseErr))
		Expect(err.(*insts.ParseError).Line).To(Equal(uint32(0)))
	})

	It("should forward the surface-unimplemented option", func() {
		program := line(
			dstWord(insts.OpLIT, true, 0, 0xF, 0),
			uncond(tempReg(1)),
			0, 0,
		)

		result, err := translator.Translate(program, ctrlR0,
			translator.WithSurfaceUnimplemented(true))
		Expect(err).ToNot(HaveOccurred())
		Expect(result.GLSL).To(ContainSubstring("// unimplemented: LIT"))
	})
})

var _ = Describe("Pool", func() {
	It("should translate a batch across workers", func() {
		jobs := make([]translator.Job, 16)
		for i := range jobs {
			jobs[i] = translator.Job{Program: movColorProgram(), Control: ctrlR0}
		}

		pool := translator.NewPool(4)
		results := pool.Translate(jobs)

		Expect(results).To(HaveLen(16))
		for i, res := range results {
			Expect(res.Err).ToNot(HaveOccurred())
			Expect(res.Index).To(Equal(i))
			Expect(res.Result.GLSL).To(ContainSubstring("\tr0 = col0;\n"))
		}

		completed, failed := pool.Stats()
		Expect(completed).To(Equal(int64(16)))
		Expect(failed).To(BeZero())
	})

	It("should report failed jobs without aborting the batch", func() {
		bad := line(dstWord(insts.Opcode(0x3F), true, 0, 0xF, 0), uncond(tempReg(0)), 0, 0)
		jobs := []translator.Job{
			{Program: movColorProgram(), Control: ctrlR0},
			{Program: bad, Control: ctrlR0},
		}

		pool := translator.NewPool(2)
		results := pool.Translate(jobs)

		Expect(results[0].Err).ToNot(HaveOccurred())
		Expect(results[1].Err).To(MatchError(insts.ErrUnknownOpcode))

		_, failed := pool.Stats()
		Expect(failed).To(Equal(int64(1)))
	})

	It("should default to one worker per CPU", func() {
		Expect(translator.NewPool(0).NumWorkers).To(BeNumerically(">", 0))
	})

	It("should report progress to an injected writer", func() {
		jobs := []translator.Job{
			{Program: movColorProgram(), Control: ctrlR0},
			{Program: movColorProgram(), Control: ctrlR0},
			{Program: movColorProgram(), Control: ctrlR0},
		}

		progress := &bytes.Buffer{}
		pool := translator.NewPool(2, translator.WithProgress(progress))
		pool.Translate(jobs)

		lines := strings.Split(strings.TrimSpace(progress.String()), "\n")
		Expect(lines).To(HaveLen(3))
		Expect(lines[2]).To(Equal("translated 3/3 programs"))
	})
})
