// Package main provides the entry point for RV32Sim.
// RV32Sim is a cycle-accurate simulator of a minimal RV32I softcore.
//
// For the full CLI, use: go run ./cmd/rv32sim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("RV32Sim - RV32I softcore simulator")
	fmt.Println("")
	fmt.Println("Usage: rv32sim [options] <program.elf | image.bin>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -timing      Enable cycle-accurate timing simulation mode")
	fmt.Println("  -config      Path to timing configuration JSON file")
	fmt.Println("  -base        Load/entry address for raw binary images")
	fmt.Println("  -max-cycles  Stop after this many cycles")
	fmt.Println("  -v           Verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/rv32sim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/rv32sim' instead.")
	}
}
