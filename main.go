// Package main provides the entry point for gbsim.
// gbsim is a functional SM83 (Game Boy CPU) instruction-set simulator with
// an optional Akita-based cache model.
//
// For the full CLI, use: go run ./cmd/gbsim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("gbsim - SM83 (Game Boy CPU) Simulator")
	fmt.Println("Cache model built on Akita")
	fmt.Println("")
	fmt.Println("Usage: gbsim [options] <program.gb>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -config    Path to run configuration JSON file")
	fmt.Println("  -origin    Load address of the image")
	fmt.Println("  -entry     Initial program counter (default 0x0100)")
	fmt.Println("  -sp        Initial stack pointer (default 0xFFFE)")
	fmt.Println("  -max       Maximum instructions to execute")
	fmt.Println("  -trace     Print each executed instruction")
	fmt.Println("  -cache     Put the cache model in front of memory")
	fmt.Println("  -v         Verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/gbsim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/gbsim' instead.")
	}
}
