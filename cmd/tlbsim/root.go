package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sarchlab/tlbsim/mem"
	"github.com/sarchlab/tlbsim/timing/latency"
	"github.com/sarchlab/tlbsim/timing/tlb"
	"github.com/sarchlab/tlbsim/trace"
	"github.com/sarchlab/tlbsim/vm"
)

var (
	configPath     string
	l1Entries      int
	l2Entries      int
	pageBits       uint64
	noDemandPaging bool
	verbose        bool
)

// rootCmd replays a memory-access trace through the TLB hierarchy and
// reports the hit/miss counters and the simulated time.
var rootCmd = &cobra.Command{
	Use:   "tlbsim <trace-file>",
	Short: "Trace-driven simulator of a two-level, inclusive TLB hierarchy",
	Long: `TLBSim replays a memory-access trace through a two-level, inclusive
TLB hierarchy with LRU replacement, backed by a demand-paging page-table
walker, and reports per-level hit/miss/invalidation counters, write-backs,
and total simulated time.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return run(cmd, args[0])
	},
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "",
		"path to timing configuration JSON file")
	rootCmd.Flags().IntVar(&l1Entries, "l1-entries", 16,
		"number of L1 TLB entries")
	rootCmd.Flags().IntVar(&l2Entries, "l2-entries", 64,
		"number of L2 TLB entries")
	rootCmd.Flags().Uint64Var(&pageBits, "page-bits", 12,
		"page-offset width in bits (page size is 2^bits bytes)")
	rootCmd.Flags().BoolVar(&noDemandPaging, "no-demand-paging", false,
		"fault on unmapped pages instead of allocating frames")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false,
		"print each translated access")
}

func run(cmd *cobra.Command, tracePath string) error {
	timingConfig := latency.DefaultTimingConfig()
	if configPath != "" {
		var err error
		timingConfig, err = latency.LoadConfig(configPath)
		if err != nil {
			return err
		}
	}
	if err := timingConfig.Validate(); err != nil {
		return fmt.Errorf("invalid timing config: %w", err)
	}

	accesses, err := trace.Load(tracePath)
	if err != nil {
		return err
	}

	clock := latency.NewClock()
	walker := vm.NewWalker(pageBits,
		vm.WithDemandPaging(!noDemandPaging),
		vm.WithLatencySink(clock),
		vm.WithWalkLatency(timingConfig.PageWalkLatency),
	)
	memory := mem.NewMemory()
	sink := mem.NewSink(mem.WithLatencySink(clock, timingConfig.MemoryLatency))

	hierarchy := tlb.New(tlb.Config{
		L1Entries:   l1Entries,
		L2Entries:   l2Entries,
		PageBits:    pageBits,
		L1LatencyNs: timingConfig.L1TLBLatency,
		L2LatencyNs: timingConfig.L2TLBLatency,
	}, walker, clock, sink)

	out := cmd.OutOrStdout()

	for i, access := range accesses {
		switch access.Kind {
		case trace.Invalidate:
			walker.Unmap(access.Addr)
			hierarchy.Invalidate(access.Addr >> pageBits)
			if verbose {
				fmt.Fprintf(out, "%6d  I 0x%X\n", i+1, access.Addr)
			}

		case trace.Read, trace.Write:
			accessType := tlb.AccessRead
			if access.Kind == trace.Write {
				accessType = tlb.AccessWrite
			}

			paddr, err := hierarchy.Translate(access.Addr, accessType)
			if err != nil {
				return fmt.Errorf("record %d (%s 0x%X): %w",
					i+1, access.Kind, access.Addr, err)
			}

			if access.Kind == trace.Write {
				memory.Write64(paddr, access.Addr)
			} else {
				memory.Read64(paddr)
			}
			if verbose {
				fmt.Fprintf(out, "%6d  %s 0x%X -> 0x%X\n",
					i+1, access.Kind, access.Addr, paddr)
			}
		}
	}

	printSummary(out, len(accesses), hierarchy.Stats(), sink, clock)
	return nil
}

func printSummary(out io.Writer, records int, stats tlb.Statistics,
	sink *mem.Sink, clock *latency.Clock) {
	fmt.Fprintf(out, "Trace records:  %d\n", records)
	fmt.Fprintf(out, "L1 TLB: hits=%d misses=%d invalidations=%d\n",
		stats.L1Hits, stats.L1Misses, stats.L1Invalidations)
	fmt.Fprintf(out, "L2 TLB: hits=%d misses=%d invalidations=%d\n",
		stats.L2Hits, stats.L2Misses, stats.L2Invalidations)
	fmt.Fprintf(out, "Write-backs:    %d\n", sink.Writebacks())
	fmt.Fprintf(out, "Simulated time: %d ns\n", clock.Now())
}
