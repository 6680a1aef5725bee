// Package translator converts fragment-program binaries into GLSL 330
// fragment shader source. Translation is a pure function over the program
// bytes and control word; run one translator per program when translating
// in parallel.
package translator

import (
	"github.com/nohbdy/rsxfrag/glsl"
	"github.com/nohbdy/rsxfrag/hashing"
	"github.com/nohbdy/rsxfrag/insts"
)

// Result holds the output of one translation.
type Result struct {
	// GLSL is the complete fragment shader source.
	GLSL string

	// Hash is the 32-bit fingerprint of the program bytes, suitable as a
	// shader-cache key.
	Hash hashing.HashValue32

	// Hash128 is the 128-bit fingerprint of the same bytes.
	Hash128 hashing.HashValue128

	// Size is the program size in bytes as determined by the parser.
	Size uint32

	// UnclosedBlocks is set when the program ended with open control-flow
	// blocks. The shader is still emitted.
	UnclosedBlocks bool
}

// Option configures a translation.
type Option func(*settings)

type settings struct {
	writerOpts glsl.Options
}

// WithSurfaceUnimplemented makes the emitter mark unimplemented opcodes
// with a comment instead of producing an empty expression.
func WithSurfaceUnimplemented(on bool) Option {
	return func(s *settings) {
		s.writerOpts.SurfaceUnimplemented = on
	}
}

// Translate parses the program, emits GLSL, and fingerprints the bytes the
// parser consumed. On a parse failure it returns the *insts.ParseError
// carrying the line number and a dump of the offending line.
func Translate(program []byte, control insts.ProgramControl, opts ...Option) (*Result, error) {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}

	parser := insts.NewParser(program)
	list, stats, err := parser.Parse()
	if err != nil {
		return nil, err
	}

	writer := glsl.NewWriter(list, control, s.writerOpts)
	source := writer.Process()

	measured := program[:stats.Size]
	return &Result{
		GLSL:           source,
		Hash:           hashing.Murmur3_32(measured, 0),
		Hash128:        hashing.Murmur3_128(measured, 0),
		Size:           stats.Size,
		UnclosedBlocks: stats.UnclosedBlocks,
	}, nil
}

// HashProgram fingerprints a program slice the same way Translate does.
// Callers use it to probe a shader cache before paying for a translation.
func HashProgram(program []byte) hashing.HashValue32 {
	return hashing.Murmur3_32(program, 0)
}
