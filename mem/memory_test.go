package mem_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tlbsim/mem"
	"github.com/sarchlab/tlbsim/timing/latency"
)

var _ = Describe("Memory", func() {
	var memory *mem.Memory

	BeforeEach(func() {
		memory = mem.NewMemory()
	})

	It("should return zero for untouched addresses", func() {
		Expect(memory.Read8(0x1234)).To(Equal(uint8(0)))
		Expect(memory.Read64(0xFFFF_0000)).To(Equal(uint64(0)))
	})

	It("should read back written bytes", func() {
		memory.Write8(0x1000, 0xAB)
		Expect(memory.Read8(0x1000)).To(Equal(uint8(0xAB)))
	})

	It("should round trip wider values", func() {
		memory.Write16(0x1000, 0xBEEF)
		memory.Write32(0x2000, 0xDEADBEEF)
		memory.Write64(0x3000, 0xCAFEBABE_12345678)

		Expect(memory.Read16(0x1000)).To(Equal(uint16(0xBEEF)))
		Expect(memory.Read32(0x2000)).To(Equal(uint32(0xDEADBEEF)))
		Expect(memory.Read64(0x3000)).To(Equal(uint64(0xCAFEBABE_12345678)))
	})

	It("should store multi-byte values little-endian", func() {
		memory.Write32(0x1000, 0x11223344)
		Expect(memory.Read8(0x1000)).To(Equal(uint8(0x44)))
		Expect(memory.Read8(0x1003)).To(Equal(uint8(0x11)))
	})

	It("should handle accesses spanning page boundaries", func() {
		memory.Write64(0xFFC, 0x0102030405060708)
		Expect(memory.Read64(0xFFC)).To(Equal(uint64(0x0102030405060708)))
	})
})

var _ = Describe("Sink", func() {
	It("should count write-backs and remember the last page", func() {
		sink := mem.NewSink()
		sink.WriteBack(0x100)
		sink.WriteBack(0x200)

		Expect(sink.Writebacks()).To(Equal(uint64(2)))
		Expect(sink.LastPPN()).To(Equal(uint64(0x200)))
	})

	It("should charge memory latency per write-back when attached", func() {
		clock := latency.NewClock()
		sink := mem.NewSink(mem.WithLatencySink(clock, 150))

		sink.WriteBack(0x100)
		sink.WriteBack(0x101)
		Expect(clock.Now()).To(Equal(uint64(300)))
	})

	It("should charge nothing without a clock", func() {
		sink := mem.NewSink()
		sink.WriteBack(0x100)
		Expect(sink.Writebacks()).To(Equal(uint64(1)))
	})
})
