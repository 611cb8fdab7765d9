// Package vm provides the page-table walker behind the TLB hierarchy.
//
// The walker keeps its mappings in an Akita page table and allocates
// physical frames on demand with a bump allocator. It stands in for the
// slow path of the MMU: the TLB hierarchy only reaches it on a miss in
// both levels.
package vm

import (
	"fmt"

	akitavm "github.com/sarchlab/akita/v4/mem/vm"

	"github.com/sarchlab/tlbsim/timing/tlb"
)

// walkerPID is the process the walker translates for. The simulator models
// a single address space; there is no ASID handling.
const walkerPID = akitavm.PID(1)

// PageFaultError reports an access to a virtual address with no mapping
// when demand paging is disabled.
type PageFaultError struct {
	VAddr uint64
}

func (e *PageFaultError) Error() string {
	return fmt.Sprintf("page fault at virtual address 0x%X", e.VAddr)
}

// Walker resolves virtual addresses that missed in every TLB level.
type Walker struct {
	pageTable akitavm.PageTable
	pageBits  uint64

	// nextFrame is the next physical frame number handed out by the bump
	// allocator. Frames are never reclaimed.
	nextFrame uint64

	demandPaging bool
	clock        tlb.LatencySink
	walkLatency  uint64
}

// WalkerOption is a functional option for configuring the Walker.
type WalkerOption func(*Walker)

// WithDemandPaging controls whether an unmapped access allocates a fresh
// frame (the default) or faults.
func WithDemandPaging(enabled bool) WalkerOption {
	return func(w *Walker) {
		w.demandPaging = enabled
	}
}

// WithLatencySink makes every walk charge its latency against the sink.
func WithLatencySink(sink tlb.LatencySink) WalkerOption {
	return func(w *Walker) {
		w.clock = sink
	}
}

// WithWalkLatency sets the nanoseconds charged per walk. Only meaningful
// together with WithLatencySink.
func WithWalkLatency(ns uint64) WalkerOption {
	return func(w *Walker) {
		w.walkLatency = ns
	}
}

// NewWalker creates a walker for pages of 1<<pageBits bytes.
func NewWalker(pageBits uint64, opts ...WalkerOption) *Walker {
	w := &Walker{
		pageTable:    akitavm.NewPageTable(pageBits),
		pageBits:     pageBits,
		demandPaging: true,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Translate resolves a full virtual address to a physical address. Unmapped
// addresses allocate the next free frame when demand paging is on and
// return a *PageFaultError otherwise. The access type does not influence
// the walk; it is part of the contract so the walker can model
// permission checks later.
func (w *Walker) Translate(vaddr uint64, access tlb.AccessType) (uint64, error) {
	if w.clock != nil {
		w.clock.ChargeLatency(w.walkLatency)
	}

	offset := vaddr & ((1 << w.pageBits) - 1)

	page, found := w.pageTable.Find(walkerPID, vaddr)
	if found {
		return page.PAddr | offset, nil
	}

	if !w.demandPaging {
		return 0, &PageFaultError{VAddr: vaddr}
	}

	paddr := w.nextFrame << w.pageBits
	w.nextFrame++

	w.pageTable.Insert(akitavm.Page{
		PID:      walkerPID,
		VAddr:    vaddr &^ ((1 << w.pageBits) - 1),
		PAddr:    paddr,
		PageSize: 1 << w.pageBits,
		Valid:    true,
	})

	return paddr | offset, nil
}

// Unmap removes the mapping that covers vaddr. It reports whether a
// mapping existed. The caller is responsible for invalidating the TLB
// hierarchy afterwards.
func (w *Walker) Unmap(vaddr uint64) bool {
	_, found := w.pageTable.Find(walkerPID, vaddr)
	if !found {
		return false
	}

	w.pageTable.Remove(walkerPID, vaddr&^((1<<w.pageBits)-1))
	return true
}
