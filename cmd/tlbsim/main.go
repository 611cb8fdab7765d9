// Package main provides the entry point for TLBSim, a trace-driven
// simulator of a two-level TLB hierarchy.
package main

func main() {
	Execute()
}
