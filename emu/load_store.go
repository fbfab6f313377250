// Package emu provides functional RV32I emulation.
package emu

import "github.com/sarchlab/rv32sim/insts"

// The byte-lane helpers below model the memory access unit of the
// source core. The bus always transfers aligned 32-bit words; byte and
// halfword accesses select lanes with the low address bits. The same
// functions serve the functional emulator and the cycle-accurate core,
// so both exhibit identical behavior for misaligned addresses: the
// lanes the address bits select are extracted as-is, with no alignment
// check and no trap.

// LoadExtend extracts the byte, halfword, or word sub-field of a 32-bit
// bus word for a load. funct3 encodes the access width in its low two
// bits and zero-extension in bit 2. Halfword selection uses address
// bit 1 only; a halfword load at an odd address reads the lane pair the
// hardware would.
func LoadExtend(rdata, addr uint32, funct3 uint8) uint32 {
	switch funct3 & 0x3 {
	case insts.Funct3Byte:
		b := uint8(rdata >> (8 * (addr & 3)))
		if funct3&0x4 != 0 {
			return uint32(b)
		}
		return uint32(int32(int8(b)))
	case insts.Funct3Half:
		h := uint16(rdata >> (16 * ((addr >> 1) & 1)))
		if funct3&0x4 != 0 {
			return uint32(h)
		}
		return uint32(int32(int16(h)))
	default:
		return rdata
	}
}

// StoreLanes routes a register value onto the byte lanes implied by the
// access width and low address bits, returning the 32-bit write-data
// word and the 4-bit per-byte write mask. Narrow values are replicated
// across all candidate lanes, exactly as the hardware drives the bus;
// the mask picks the lanes that actually commit.
func StoreLanes(value, addr uint32, funct3 uint8) (wdata uint32, mask uint8) {
	switch funct3 & 0x3 {
	case insts.Funct3Byte:
		b := value & 0xFF
		wdata = b | b<<8 | b<<16 | b<<24
		mask = 1 << (addr & 3)
	case insts.Funct3Half:
		h := value & 0xFFFF
		wdata = h | h<<16
		if addr&2 != 0 {
			mask = 0b1100
		} else {
			mask = 0b0011
		}
	default:
		wdata = value
		mask = 0b1111
	}
	return wdata, mask
}

// LoadStoreUnit implements RV32I load and store operations for the
// functional model, driving the byte-lane helpers against memory.
type LoadStoreUnit struct {
	regFile *RegFile
	memory  *Memory
}

// NewLoadStoreUnit creates a new LoadStoreUnit connected to the given
// register file and memory.
func NewLoadStoreUnit(regFile *RegFile, memory *Memory) *LoadStoreUnit {
	return &LoadStoreUnit{
		regFile: regFile,
		memory:  memory,
	}
}

// Load performs rd = extend(mem[rs1 + offset]) with the width and
// extension encoded in funct3.
func (lsu *LoadStoreUnit) Load(rd, rs1 uint8, offset int32, funct3 uint8) {
	addr := lsu.regFile.ReadReg(rs1) + uint32(offset)
	rdata := lsu.memory.Read32(addr &^ 3)
	lsu.regFile.WriteReg(rd, LoadExtend(rdata, addr, funct3))
}

// Store performs mem[rs1 + offset] = rs2 with the width encoded in
// funct3, committing only the byte lanes the mask selects.
func (lsu *LoadStoreUnit) Store(rs1, rs2 uint8, offset int32, funct3 uint8) {
	addr := lsu.regFile.ReadReg(rs1) + uint32(offset)
	wdata, mask := StoreLanes(lsu.regFile.ReadReg(rs2), addr, funct3)
	lsu.memory.WriteMasked32(addr&^3, wdata, mask)
}
