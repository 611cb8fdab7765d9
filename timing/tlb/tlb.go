// Package tlb models a two-level, inclusive TLB hierarchy with LRU
// replacement at both levels.
package tlb

// AccessType distinguishes read accesses from write accesses. Writes mark
// the translation entry dirty wherever the lookup resolves.
type AccessType int

const (
	// AccessRead is a load through the translation.
	AccessRead AccessType = iota
	// AccessWrite is a store through the translation.
	AccessWrite
)

// Config holds TLB hierarchy configuration parameters.
type Config struct {
	// L1Entries is the number of fully-associative L1 TLB slots.
	L1Entries int
	// L2Entries is the number of fully-associative L2 TLB slots.
	// Larger than L1Entries in any sensible configuration.
	L2Entries int
	// PageBits is the page-offset width; page size is 1<<PageBits bytes.
	PageBits uint64
	// L1LatencyNs is charged per L1 lookup, hit or miss.
	L1LatencyNs uint64
	// L2LatencyNs is charged per L2 lookup, hit or miss.
	L2LatencyNs uint64
}

// DefaultConfig returns a configuration typical of a small core:
// 16-entry L1, 64-entry L2, 4KB pages, 1ns L1 lookup, 4ns L2 lookup.
func DefaultConfig() Config {
	return Config{
		L1Entries:   16,
		L2Entries:   64,
		PageBits:    12,
		L1LatencyNs: 1,
		L2LatencyNs: 4,
	}
}

// Statistics holds TLB hierarchy performance statistics.
type Statistics struct {
	L1Hits          uint64
	L1Misses        uint64
	L1Invalidations uint64
	L2Hits          uint64
	L2Misses        uint64
	L2Invalidations uint64
}

// LatencySink is the external timing collaborator. The hierarchy charges
// lookup latency for every level it actually searches.
type LatencySink interface {
	ChargeLatency(ns uint64)
}

// PageTable resolves a full TLB miss. A returned error is a fault-class
// condition (e.g. an unmapped page) and is propagated through Translate
// unchanged.
type PageTable interface {
	Translate(vaddr uint64, access AccessType) (uint64, error)
}

// WriteBackSink absorbs dirty pages leaving the hierarchy for good, either
// through invalidation or through L2 eviction during a fill. Promotion
// between levels never reaches the sink.
type WriteBackSink interface {
	WriteBack(ppn uint64)
}

// entry is one TLB slot. Entries are compared by lastAccess for LRU victim
// selection; see victim.go.
type entry struct {
	valid      bool
	dirty      bool
	lastAccess uint64
	vpn        uint64
	ppn        uint64
}

// Hierarchy is a two-level inclusive TLB: every valid L1 mapping is also
// present in L2. It is driven synchronously by a single simulated core and
// carries no internal locking.
type Hierarchy struct {
	config Config

	l1 []entry
	l2 []entry

	// accessCounter is a logical clock shared by both levels. It orders
	// every hit and fill so that "oldest" is well-defined across the
	// hierarchy. It is unrelated to the simulated-time clock behind the
	// LatencySink.
	accessCounter uint64

	stats Statistics

	pageTable PageTable
	clock     LatencySink
	sink      WriteBackSink
}

// New creates a TLB hierarchy with all slots invalid.
func New(config Config, pageTable PageTable, clock LatencySink, sink WriteBackSink) *Hierarchy {
	return &Hierarchy{
		config:    config,
		l1:        make([]entry, config.L1Entries),
		l2:        make([]entry, config.L2Entries),
		pageTable: pageTable,
		clock:     clock,
		sink:      sink,
	}
}

// Config returns the hierarchy configuration.
func (h *Hierarchy) Config() Config {
	return h.config
}

// Stats returns the six hit/miss/invalidation counters.
func (h *Hierarchy) Stats() Statistics {
	return h.stats
}

// ResetStats clears the counters without touching the entries.
func (h *Hierarchy) ResetStats() {
	h.stats = Statistics{}
}

// Reset invalidates every slot in both levels and zeros all counters,
// including the shared access counter. No write-backs are performed.
func (h *Hierarchy) Reset() {
	for i := range h.l1 {
		h.l1[i] = entry{}
	}
	for i := range h.l2 {
		h.l2[i] = entry{}
	}
	h.accessCounter = 0
	h.stats = Statistics{}
}

// nextAccess advances the shared logical clock and returns its new value.
func (h *Hierarchy) nextAccess() uint64 {
	h.accessCounter++
	return h.accessCounter
}

// Translate resolves a virtual address to a physical address for the given
// access type, updating the hierarchy along the way. Lookup escalates
// L1 -> L2 -> page table; an L2 hit promotes the entry into L1, and a page
// table fill inserts into L2 first and then L1 to preserve inclusion. Only
// the page table can fail; its error is returned unchanged.
func (h *Hierarchy) Translate(vaddr uint64, access AccessType) (uint64, error) {
	vpn := vaddr >> h.config.PageBits
	offset := vaddr & ((1 << h.config.PageBits) - 1)

	// L1 lookup. The search cost is paid whether or not it hits.
	h.clock.ChargeLatency(h.config.L1LatencyNs)
	for i := range h.l1 {
		if h.l1[i].valid && h.l1[i].vpn == vpn {
			h.stats.L1Hits++
			h.l1[i].lastAccess = h.nextAccess()
			if access == AccessWrite {
				h.l1[i].dirty = true
			}
			return h.l1[i].ppn<<h.config.PageBits | offset, nil
		}
	}
	h.stats.L1Misses++

	// L2 lookup.
	h.clock.ChargeLatency(h.config.L2LatencyNs)
	for i := range h.l2 {
		if h.l2[i].valid && h.l2[i].vpn == vpn {
			h.stats.L2Hits++
			h.l2[i].lastAccess = h.nextAccess()
			if access == AccessWrite {
				h.l2[i].dirty = true
			}
			h.promote(i)
			return h.l2[i].ppn<<h.config.PageBits | offset, nil
		}
	}
	h.stats.L2Misses++

	// Full miss: walk the page table and fill both levels.
	paddr, err := h.pageTable.Translate(vaddr, access)
	if err != nil {
		return 0, err
	}
	h.fill(vpn, paddr>>h.config.PageBits, access)

	return paddr, nil
}

// promote copies the L2 entry at hitIdx up into L1. If the chosen L1 victim
// holds a valid dirty mapping, that mapping is moved down into L2 instead of
// being discarded, so inclusion and dirty state survive the promotion. The
// mapping normally still has its L2 copy from when it was filled, so the
// forwarding lands on that copy; otherwise a victim slot is selected, and
// the destination must never be the slot that just hit (see
// findVictimExcluding).
func (h *Hierarchy) promote(hitIdx int) {
	l1Pos := findVictim(h.l1)

	if h.l1[l1Pos].valid && h.l1[l1Pos].dirty {
		l2Pos := h.findL2(h.l1[l1Pos].vpn)
		if l2Pos < 0 {
			l2Pos = findVictim(h.l2)
			if l2Pos == hitIdx {
				l2Pos = findVictimExcluding(h.l2, hitIdx)
			}
		}
		h.l2[l2Pos] = h.l1[l1Pos]
	}

	h.l1[l1Pos] = h.l2[hitIdx]
	// Keep the source timestamp equal to the promoted copy's.
	h.l2[hitIdx].lastAccess = h.accessCounter
}

// findL2 returns the index of the valid L2 entry holding vpn, or -1.
func (h *Hierarchy) findL2(vpn uint64) int {
	for i := range h.l2 {
		if h.l2[i].valid && h.l2[i].vpn == vpn {
			return i
		}
	}
	return -1
}

// fill inserts a freshly walked mapping, L2 first and then L1. A valid L2
// victim is leaving the hierarchy entirely: it is written back if dirty,
// and any L1 copy of it is dropped so L1 never holds a mapping L2 lost.
// Both new copies share one timestamp.
func (h *Hierarchy) fill(vpn, ppn uint64, access AccessType) {
	newEntry := entry{
		valid:      true,
		dirty:      access == AccessWrite,
		lastAccess: h.nextAccess(),
		vpn:        vpn,
		ppn:        ppn,
	}

	l2Pos := findVictim(h.l2)
	if h.l2[l2Pos].valid {
		h.evictL2(l2Pos)
	}
	h.l2[l2Pos] = newEntry

	// No dirty forwarding on the L1 side: the displaced L1 mapping, if any,
	// already has its L2 copy under the inclusion policy.
	l1Pos := findVictim(h.l1)
	h.l1[l1Pos] = newEntry
}

// evictL2 retires the valid entry at pos from the hierarchy. The mapping is
// written back if either copy is dirty, and the L1 copy, if resident, is
// invalidated so the inclusion property survives the eviction.
func (h *Hierarchy) evictL2(pos int) {
	dirty := h.l2[pos].dirty
	for i := range h.l1 {
		if h.l1[i].valid && h.l1[i].vpn == h.l2[pos].vpn {
			dirty = dirty || h.l1[i].dirty
			h.l1[i].valid = false
			break
		}
	}
	if dirty {
		h.sink.WriteBack(h.l2[pos].ppn)
	}
}

// Invalidate removes the mapping for a virtual page number from both
// levels. Both levels are always searched regardless of where the mapping
// is found. A dirty L2 entry is written back before being dropped; the L1
// side is never written back because its dirty state is already reflected
// in L2 by the inclusion maintenance of Translate. Invalidating an
// untracked page is a no-op.
func (h *Hierarchy) Invalidate(vpn uint64) {
	for i := range h.l1 {
		if h.l1[i].valid && h.l1[i].vpn == vpn {
			h.stats.L1Invalidations++
			h.l1[i].valid = false
			break
		}
	}

	for i := range h.l2 {
		if h.l2[i].valid && h.l2[i].vpn == vpn {
			h.stats.L2Invalidations++
			if h.l2[i].dirty {
				h.sink.WriteBack(h.l2[i].ppn)
			}
			h.l2[i].valid = false
			break
		}
	}
}
