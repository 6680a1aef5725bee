// Package main provides the entry point for rsxfrag.
// rsxfrag translates RSX fragment-program microcode into GLSL 330.
//
// For the full CLI, use: go run ./cmd/rsxfrag
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("rsxfrag - RSX fragment shader translator")
	fmt.Println("")
	fmt.Println("Usage: rsxfrag <command> [options] <dump>")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  translate  Translate a fragment-program dump to GLSL 330")
	fmt.Println("  hash       Print a program's cache fingerprint")
	fmt.Println("  info       Parse a dump and print program statistics")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/rsxfrag' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/rsxfrag' instead.")
	}
}
