package vm_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tlbsim/timing/latency"
	"github.com/sarchlab/tlbsim/timing/tlb"
	"github.com/sarchlab/tlbsim/vm"
)

var _ = Describe("Walker", func() {
	var walker *vm.Walker

	BeforeEach(func() {
		walker = vm.NewWalker(12)
	})

	Describe("Demand paging", func() {
		It("should allocate frames in order of first touch", func() {
			paddr1, err := walker.Translate(0x5000, tlb.AccessRead)
			Expect(err).NotTo(HaveOccurred())
			Expect(paddr1).To(Equal(uint64(0x0000)))

			paddr2, err := walker.Translate(0x9000, tlb.AccessWrite)
			Expect(err).NotTo(HaveOccurred())
			Expect(paddr2).To(Equal(uint64(0x1000)))
		})

		It("should translate a mapped page consistently", func() {
			first, err := walker.Translate(0x5000, tlb.AccessRead)
			Expect(err).NotTo(HaveOccurred())

			second, err := walker.Translate(0x5000, tlb.AccessWrite)
			Expect(err).NotTo(HaveOccurred())
			Expect(second).To(Equal(first))
		})

		It("should preserve the page offset", func() {
			paddr, err := walker.Translate(0x5ABC, tlb.AccessRead)
			Expect(err).NotTo(HaveOccurred())
			Expect(paddr & 0xFFF).To(Equal(uint64(0xABC)))
		})

		It("should map addresses within one page to one frame", func() {
			first, err := walker.Translate(0x5000, tlb.AccessRead)
			Expect(err).NotTo(HaveOccurred())

			second, err := walker.Translate(0x5FFF, tlb.AccessRead)
			Expect(err).NotTo(HaveOccurred())
			Expect(second >> 12).To(Equal(first >> 12))
		})
	})

	Describe("Faulting", func() {
		BeforeEach(func() {
			walker = vm.NewWalker(12, vm.WithDemandPaging(false))
		})

		It("should fault on an unmapped page", func() {
			_, err := walker.Translate(0x5000, tlb.AccessRead)

			var fault *vm.PageFaultError
			Expect(errors.As(err, &fault)).To(BeTrue())
			Expect(fault.VAddr).To(Equal(uint64(0x5000)))
		})
	})

	Describe("Unmap", func() {
		It("should remove an existing mapping", func() {
			_, err := walker.Translate(0x5000, tlb.AccessRead)
			Expect(err).NotTo(HaveOccurred())

			Expect(walker.Unmap(0x5123)).To(BeTrue())
			Expect(walker.Unmap(0x5123)).To(BeFalse())
		})

		It("should hand out a fresh frame after remapping", func() {
			first, err := walker.Translate(0x5000, tlb.AccessRead)
			Expect(err).NotTo(HaveOccurred())

			walker.Unmap(0x5000)

			second, err := walker.Translate(0x5000, tlb.AccessRead)
			Expect(err).NotTo(HaveOccurred())
			Expect(second).NotTo(Equal(first))
		})

		It("should report false for a page that was never mapped", func() {
			Expect(walker.Unmap(0xAB000)).To(BeFalse())
		})
	})

	Describe("Latency accounting", func() {
		It("should charge the walk latency per walk", func() {
			clock := latency.NewClock()
			walker = vm.NewWalker(12,
				vm.WithLatencySink(clock),
				vm.WithWalkLatency(100),
			)

			walker.Translate(0x1000, tlb.AccessRead)
			walker.Translate(0x2000, tlb.AccessRead)
			Expect(clock.Now()).To(Equal(uint64(200)))
		})
	})
})
