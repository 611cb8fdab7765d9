// Package mem models the physical memory behind the TLB hierarchy.
package mem

import "encoding/binary"

// memPageSize is the granularity of the sparse backing store. It is an
// implementation detail, independent of the simulated page size.
const memPageSize = 4096

// Memory is a sparse, byte-addressable physical memory. Pages are
// allocated on first touch; reads from unbacked addresses return zero.
type Memory struct {
	pages map[uint64][]byte
}

// NewMemory creates an empty physical memory.
func NewMemory() *Memory {
	return &Memory{
		pages: make(map[uint64][]byte),
	}
}

func (m *Memory) page(addr uint64, allocate bool) ([]byte, uint64) {
	pageNum := addr / memPageSize
	offset := addr % memPageSize

	page, ok := m.pages[pageNum]
	if !ok && allocate {
		page = make([]byte, memPageSize)
		m.pages[pageNum] = page
	}
	return page, offset
}

// Read8 reads one byte.
func (m *Memory) Read8(addr uint64) uint8 {
	page, offset := m.page(addr, false)
	if page == nil {
		return 0
	}
	return page[offset]
}

// Write8 writes one byte.
func (m *Memory) Write8(addr uint64, value uint8) {
	page, offset := m.page(addr, true)
	page[offset] = value
}

// Read16 reads a little-endian 16-bit value.
func (m *Memory) Read16(addr uint64) uint16 {
	var buf [2]byte
	m.readBytes(addr, buf[:])
	return binary.LittleEndian.Uint16(buf[:])
}

// Write16 writes a little-endian 16-bit value.
func (m *Memory) Write16(addr uint64, value uint16) {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], value)
	m.writeBytes(addr, buf[:])
}

// Read32 reads a little-endian 32-bit value.
func (m *Memory) Read32(addr uint64) uint32 {
	var buf [4]byte
	m.readBytes(addr, buf[:])
	return binary.LittleEndian.Uint32(buf[:])
}

// Write32 writes a little-endian 32-bit value.
func (m *Memory) Write32(addr uint64, value uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], value)
	m.writeBytes(addr, buf[:])
}

// Read64 reads a little-endian 64-bit value.
func (m *Memory) Read64(addr uint64) uint64 {
	var buf [8]byte
	m.readBytes(addr, buf[:])
	return binary.LittleEndian.Uint64(buf[:])
}

// Write64 writes a little-endian 64-bit value.
func (m *Memory) Write64(addr uint64, value uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], value)
	m.writeBytes(addr, buf[:])
}

func (m *Memory) readBytes(addr uint64, buf []byte) {
	for i := range buf {
		buf[i] = m.Read8(addr + uint64(i))
	}
}

func (m *Memory) writeBytes(addr uint64, buf []byte) {
	for i, b := range buf {
		m.Write8(addr+uint64(i), b)
	}
}
