// Package main provides the entry point for TLBSim.
// TLBSim is a trace-driven simulator of a two-level, inclusive TLB
// hierarchy with LRU replacement.
//
// For the full CLI, use: go run ./cmd/tlbsim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("TLBSim - Two-Level TLB Hierarchy Simulator")
	fmt.Println("")
	fmt.Println("Usage: tlbsim [options] <trace-file>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  --config       Path to timing configuration JSON file")
	fmt.Println("  --l1-entries   Number of L1 TLB entries")
	fmt.Println("  --l2-entries   Number of L2 TLB entries")
	fmt.Println("  --page-bits    Page-offset width in bits")
	fmt.Println("  -v             Verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/tlbsim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/tlbsim' instead.")
	}
}
