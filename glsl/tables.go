package glsl

// maxIndentation caps the nesting depth of emitted code; deeper blocks
// saturate instead of indenting further.
const maxIndentation = 6

var indentation = [maxIndentation + 1]string{
	"",
	"\t",
	"\t\t",
	"\t\t\t",
	"\t\t\t\t",
	"\t\t\t\t\t",
	"\t\t\t\t\t\t",
}

// condFuncs maps a Condition to the GLSL vector comparison builtin.
var condFuncs = [8]string{
	"false",
	"lessThan",
	"equal",
	"lessThanEqual",
	"greaterThan",
	"notEqual",
	"greaterThanEqual",
	"true",
}

// condGlyphs maps a Condition to the scalar comparison operator.
var condGlyphs = [8]string{
	"false",
	" < ",
	" == ",
	" <= ",
	" > ",
	" != ",
	" >= ",
	"true",
}

// writeMasks maps a 4-bit destination write mask to its swizzle suffix.
// All four components elide the suffix.
var writeMasks = [16]string{
	"",     // 0000
	".x",   // 0001
	".y",   // 0010
	".xy",  // 0011
	".z",   // 0100
	".xz",  // 0101
	".yz",  // 0110
	".xyz", // 0111
	".w",   // 1000
	".xw",  // 1001
	".yw",  // 1010
	".xyw", // 1011
	".zw",  // 1100
	".xzw", // 1101
	".yzw", // 1110
	"",     // 1111
}

// vectorCast limits a vector expression to the number of components the
// destination mask actually writes.
var vectorCast = [16]string{
	"",     // 0000
	".x",   // 0001
	".x",   // 0010
	".xy",  // 0011
	".x",   // 0100
	".xy",  // 0101
	".xy",  // 0110
	".xyz", // 0111
	".x",   // 1000
	".xy",  // 1001
	".xy",  // 1010
	".xyz", // 1011
	".xy",  // 1100
	".xyz", // 1101
	".xyz", // 1110
	"",     // 1111
}

// writeComponents maps a destination write mask to the number of
// components it writes.
var writeComponents = [16]int{4, 1, 1, 2, 1, 2, 2, 3, 1, 2, 2, 3, 2, 3, 3, 4}

// inputRegisters names the GLSL input variable for each input semantic.
var inputRegisters = [15]string{
	"gl_Position",
	"col0", "col1",
	"fogc",
	"tc0", "tc1", "tc2", "tc3", "tc4", "tc5", "tc6", "tc7", "tc8", "tc9",
	"face_sign",
}

var componentChars = [4]byte{'x', 'y', 'z', 'w'}

// singleComponentCondition reports whether the condition mask uses the
// same condition component for every channel.
func singleComponentCondition(conditionMask uint8) bool {
	switch conditionMask {
	case 0x00, 0x55, 0xAA, 0xFF: // all x, all y, all z, all w
		return true
	}
	return false
}
