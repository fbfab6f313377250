package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv32sim/emu"
	"github.com/sarchlab/rv32sim/insts"
)

var _ = Describe("Compute", func() {
	It("should add and subtract", func() {
		Expect(emu.Compute(insts.Funct3ADD, false, true, 7, 3)).To(Equal(uint32(10)))
		Expect(emu.Compute(insts.Funct3ADD, true, true, 7, 3)).To(Equal(uint32(4)))
	})

	It("should wrap addition at 32 bits", func() {
		Expect(emu.Compute(insts.Funct3ADD, false, true, 0xFFFFFFFF, 1)).To(Equal(uint32(0)))
	})

	It("should treat bit30 as ADD in the immediate class", func() {
		// OP-IMM has no SUBI; bit30 only matters for the right shift.
		Expect(emu.Compute(insts.Funct3ADD, true, false, 7, 3)).To(Equal(uint32(10)))
	})

	It("should compare signed with SLT", func() {
		Expect(emu.Compute(insts.Funct3SLT, false, true, 0xFFFFFFFF, 0)).To(Equal(uint32(1)))
		Expect(emu.Compute(insts.Funct3SLT, false, true, 0, 0xFFFFFFFF)).To(Equal(uint32(0)))
		Expect(emu.Compute(insts.Funct3SLT, false, true, 5, 5)).To(Equal(uint32(0)))
	})

	It("should compare unsigned with SLTU", func() {
		Expect(emu.Compute(insts.Funct3SLTU, false, true, 0xFFFFFFFF, 0)).To(Equal(uint32(0)))
		Expect(emu.Compute(insts.Funct3SLTU, false, true, 0, 0xFFFFFFFF)).To(Equal(uint32(1)))
	})

	It("should compute the bitwise operations", func() {
		Expect(emu.Compute(insts.Funct3XOR, false, true, 0xF0F0, 0xFF00)).To(Equal(uint32(0x0FF0)))
		Expect(emu.Compute(insts.Funct3OR, false, true, 0xF0F0, 0xFF00)).To(Equal(uint32(0xFFF0)))
		Expect(emu.Compute(insts.Funct3AND, false, true, 0xF0F0, 0xFF00)).To(Equal(uint32(0xF000)))
	})

	It("should shift left", func() {
		Expect(emu.Compute(insts.Funct3SLL, false, true, 1, 31)).To(Equal(uint32(0x80000000)))
	})

	It("should shift right logically and arithmetically", func() {
		Expect(emu.Compute(insts.Funct3SR, false, true, 0x80000000, 31)).To(Equal(uint32(1)))
		Expect(emu.Compute(insts.Funct3SR, true, true, 0x80000000, 31)).To(Equal(uint32(0xFFFFFFFF)))
	})

	It("should mask the shift amount to five bits", func() {
		Expect(emu.Compute(insts.Funct3SLL, false, true, 1, 33)).To(Equal(uint32(2)))
		Expect(emu.Compute(insts.Funct3SR, false, true, 4, 33)).To(Equal(uint32(2)))
	})
})
