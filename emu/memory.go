// Package emu provides functional RV32I emulation.
package emu

// pageSize is the granularity of memory allocation. Pages are allocated
// lazily on first touch so a sparse 32-bit address space stays cheap.
const pageSize = 4096

// Memory is a sparse, byte-addressable 32-bit memory.
// Multi-byte accesses are little-endian, matching RV32I.
type Memory struct {
	pages map[uint32]*[pageSize]byte
}

// NewMemory creates an empty memory.
func NewMemory() *Memory {
	return &Memory{
		pages: make(map[uint32]*[pageSize]byte),
	}
}

// page returns the page containing addr, allocating it if needed.
func (m *Memory) page(addr uint32) *[pageSize]byte {
	base := addr / pageSize
	p, ok := m.pages[base]
	if !ok {
		p = &[pageSize]byte{}
		m.pages[base] = p
	}
	return p
}

// Read8 reads a byte.
func (m *Memory) Read8(addr uint32) byte {
	base := addr / pageSize
	p, ok := m.pages[base]
	if !ok {
		return 0
	}
	return p[addr%pageSize]
}

// Write8 writes a byte.
func (m *Memory) Write8(addr uint32, value byte) {
	m.page(addr)[addr%pageSize] = value
}

// Read16 reads a little-endian halfword.
func (m *Memory) Read16(addr uint32) uint16 {
	return uint16(m.Read8(addr)) | uint16(m.Read8(addr+1))<<8
}

// Write16 writes a little-endian halfword.
func (m *Memory) Write16(addr uint32, value uint16) {
	m.Write8(addr, byte(value))
	m.Write8(addr+1, byte(value>>8))
}

// Read32 reads a little-endian word.
func (m *Memory) Read32(addr uint32) uint32 {
	return uint32(m.Read8(addr)) |
		uint32(m.Read8(addr+1))<<8 |
		uint32(m.Read8(addr+2))<<16 |
		uint32(m.Read8(addr+3))<<24
}

// Write32 writes a little-endian word.
func (m *Memory) Write32(addr uint32, value uint32) {
	m.Write8(addr, byte(value))
	m.Write8(addr+1, byte(value>>8))
	m.Write8(addr+2, byte(value>>16))
	m.Write8(addr+3, byte(value>>24))
}

// WriteMasked32 writes the byte lanes of a word selected by mask.
// Bit i of mask enables lane i (bits [8i+7:8i]). A zero mask writes
// nothing, matching the bus protocol.
func (m *Memory) WriteMasked32(addr uint32, value uint32, mask uint8) {
	for lane := uint32(0); lane < 4; lane++ {
		if mask&(1<<lane) != 0 {
			m.Write8(addr+lane, byte(value>>(8*lane)))
		}
	}
}

// LoadProgram copies a byte image into memory starting at addr.
func (m *Memory) LoadProgram(addr uint32, program []byte) {
	for i, b := range program {
		m.Write8(addr+uint32(i), b)
	}
}
