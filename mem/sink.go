package mem

import "github.com/sarchlab/tlbsim/timing/tlb"

// Sink absorbs dirty pages evicted from the TLB hierarchy. Each write-back
// counts once and, when a latency sink is attached, charges the configured
// memory latency. The data itself never leaves the simulated physical
// memory, so there is nothing to copy.
type Sink struct {
	writebacks uint64
	lastPPN    uint64

	clock         tlb.LatencySink
	memoryLatency uint64
}

// SinkOption is a functional option for configuring the Sink.
type SinkOption func(*Sink)

// WithLatencySink makes every write-back charge memory latency.
func WithLatencySink(sink tlb.LatencySink, latencyNs uint64) SinkOption {
	return func(s *Sink) {
		s.clock = sink
		s.memoryLatency = latencyNs
	}
}

// NewSink creates a write-back sink.
func NewSink(opts ...SinkOption) *Sink {
	s := &Sink{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WriteBack records the eviction of a dirty physical page.
func (s *Sink) WriteBack(ppn uint64) {
	s.writebacks++
	s.lastPPN = ppn
	if s.clock != nil {
		s.clock.ChargeLatency(s.memoryLatency)
	}
}

// Writebacks returns the number of pages written back so far.
func (s *Sink) Writebacks() uint64 {
	return s.writebacks
}

// LastPPN returns the physical page number of the most recent write-back.
// Only meaningful if Writebacks() > 0.
func (s *Sink) LastPPN() uint64 {
	return s.lastPPN
}
