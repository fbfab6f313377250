// Package emu provides functional RV32I emulation.
package emu

import "github.com/sarchlab/rv32sim/insts"

// ALU implements the RV32I arithmetic and logic operations for the
// functional model. It computes results in a single call; the
// cycle-accurate shifter timing lives in the timing core.
type ALU struct {
	regFile *RegFile
}

// NewALU creates a new ALU connected to the given register file.
func NewALU(regFile *RegFile) *ALU {
	return &ALU{regFile: regFile}
}

// Op executes a register-register ALU instruction: rd = rs1 op rs2.
// Bit30 selects SUB for funct3 ADD and SRA for funct3 SR.
func (a *ALU) Op(rd, rs1, rs2, funct3 uint8, bit30 bool) {
	op1 := a.regFile.ReadReg(rs1)
	op2 := a.regFile.ReadReg(rs2)
	a.regFile.WriteReg(rd, Compute(funct3, bit30, true, op1, op2))
}

// OpImm executes an immediate ALU instruction: rd = rs1 op imm.
// For shifts the immediate's low five bits are the shift amount and
// Bit30 selects SRAI; for all other operations Bit30 is ignored, so an
// encoding with bit 30 set still adds rather than subtracts.
func (a *ALU) OpImm(rd, rs1 uint8, imm int32, funct3 uint8, bit30 bool) {
	op1 := a.regFile.ReadReg(rs1)
	a.regFile.WriteReg(rd, Compute(funct3, bit30, false, op1, uint32(imm)))
}

// Compute evaluates a single RV32I ALU operation. It is shared by the
// functional emulator and by tests as the reference semantics.
// isReg distinguishes the register-register class, where Bit30 turns
// ADD into SUB; in the immediate class Bit30 only affects shifts.
func Compute(funct3 uint8, bit30, isReg bool, a, b uint32) uint32 {
	switch funct3 {
	case insts.Funct3ADD:
		if isReg && bit30 {
			return a - b
		}
		return a + b
	case insts.Funct3SLL:
		return a << (b & 31)
	case insts.Funct3SLT:
		if int32(a) < int32(b) {
			return 1
		}
		return 0
	case insts.Funct3SLTU:
		if a < b {
			return 1
		}
		return 0
	case insts.Funct3XOR:
		return a ^ b
	case insts.Funct3SR:
		if bit30 {
			return uint32(int32(a) >> (b & 31))
		}
		return a >> (b & 31)
	case insts.Funct3OR:
		return a | b
	default: // insts.Funct3AND
		return a & b
	}
}
