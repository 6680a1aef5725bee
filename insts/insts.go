// Package insts provides RSX fragment-program instruction definitions and
// decoding.
//
// This package implements decoding of the packed fragment-shader microcode
// into structured instruction representations. A program is a sequence of
// 16-byte lines; each instruction line holds four 32-bit words (DST, SRC0,
// SRC1, SRC2) whose 16-bit halves are stored swapped. Instructions with a
// constant operand are followed by a second 16-byte line carrying a vec4
// float literal.
//
// Usage:
//
//	parser := insts.NewParser(programBytes)
//	list, stats, err := parser.Parse()
//	fmt.Printf("instructions: %d, size: %d bytes\n", len(list), stats.Size)
package insts
