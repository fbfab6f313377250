package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv32sim/emu"
	"github.com/sarchlab/rv32sim/insts"
)

var _ = Describe("BranchTaken", func() {
	It("should evaluate BEQ and BNE", func() {
		Expect(emu.BranchTaken(insts.Funct3BEQ, 5, 5)).To(BeTrue())
		Expect(emu.BranchTaken(insts.Funct3BEQ, 5, 6)).To(BeFalse())
		Expect(emu.BranchTaken(insts.Funct3BNE, 5, 6)).To(BeTrue())
		Expect(emu.BranchTaken(insts.Funct3BNE, 5, 5)).To(BeFalse())
	})

	It("should compare signed for BLT and BGE", func() {
		Expect(emu.BranchTaken(insts.Funct3BLT, 0xFFFFFFFF, 0)).To(BeTrue())
		Expect(emu.BranchTaken(insts.Funct3BLT, 0, 0xFFFFFFFF)).To(BeFalse())
		Expect(emu.BranchTaken(insts.Funct3BGE, 0, 0xFFFFFFFF)).To(BeTrue())
		Expect(emu.BranchTaken(insts.Funct3BGE, 5, 5)).To(BeTrue())
	})

	It("should compare unsigned for BLTU and BGEU", func() {
		Expect(emu.BranchTaken(insts.Funct3BLTU, 0, 0xFFFFFFFF)).To(BeTrue())
		Expect(emu.BranchTaken(insts.Funct3BLTU, 0xFFFFFFFF, 0)).To(BeFalse())
		Expect(emu.BranchTaken(insts.Funct3BGEU, 0xFFFFFFFF, 0)).To(BeTrue())
		Expect(emu.BranchTaken(insts.Funct3BGEU, 5, 5)).To(BeTrue())
	})

	It("should fall through on undefined encodings", func() {
		Expect(emu.BranchTaken(0b010, 1, 1)).To(BeFalse())
		Expect(emu.BranchTaken(0b011, 1, 2)).To(BeFalse())
	})

	It("should agree with SLT and SLTU", func() {
		pairs := [][2]uint32{
			{0, 0}, {1, 2}, {2, 1},
			{0x7FFFFFFF, 0x80000000}, {0x80000000, 0x7FFFFFFF},
			{0xFFFFFFFF, 1}, {1, 0xFFFFFFFF},
		}
		for _, p := range pairs {
			a, b := p[0], p[1]
			Expect(emu.BranchTaken(insts.Funct3BLT, a, b)).
				To(Equal(emu.Compute(insts.Funct3SLT, false, true, a, b) == 1))
			Expect(emu.BranchTaken(insts.Funct3BLTU, a, b)).
				To(Equal(emu.Compute(insts.Funct3SLTU, false, true, a, b) == 1))
		}
	})
})
