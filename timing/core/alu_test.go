package core_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv32sim/insts"
	"github.com/sarchlab/rv32sim/timing/core"
)

var _ = Describe("ALU", func() {
	var a *core.ALU

	BeforeEach(func() {
		a = core.NewALU(false)
	})

	// ticksUntilDone counts Tick calls until the unit reports idle.
	ticksUntilDone := func() int {
		n := 0
		for a.Busy() {
			a.Tick()
			n++
			Expect(n).To(BeNumerically("<", 100))
		}
		return n
	}

	Describe("single-cycle operations", func() {
		It("should add without raising busy", func() {
			a.StartOp(insts.Funct3ADD, false, true, 7, 3)
			Expect(a.Busy()).To(BeFalse())
			Expect(a.Out()).To(Equal(uint32(10)))
		})

		It("should subtract when bit30 is set in the register class", func() {
			a.StartOp(insts.Funct3ADD, true, true, 7, 3)
			Expect(a.Out()).To(Equal(uint32(4)))

			a.StartOp(insts.Funct3ADD, true, true, 3, 7)
			Expect(a.Out()).To(Equal(uint32(0xFFFFFFFC)))
		})

		It("should add when bit30 is set in the immediate class", func() {
			a.StartOp(insts.Funct3ADD, true, false, 7, 3)
			Expect(a.Out()).To(Equal(uint32(10)))
		})

		It("should compute SLT and SLTU from the combined subtraction", func() {
			a.StartOp(insts.Funct3SLT, false, true, 0xFFFFFFFF, 0)
			Expect(a.Out()).To(Equal(uint32(1)))

			a.StartOp(insts.Funct3SLTU, false, true, 0xFFFFFFFF, 0)
			Expect(a.Out()).To(Equal(uint32(0)))
		})

		It("should compute the bitwise operations", func() {
			a.StartOp(insts.Funct3XOR, false, true, 0xF0F0, 0xFF00)
			Expect(a.Out()).To(Equal(uint32(0x0FF0)))
			a.StartOp(insts.Funct3OR, false, true, 0xF0F0, 0xFF00)
			Expect(a.Out()).To(Equal(uint32(0xFFF0)))
			a.StartOp(insts.Funct3AND, false, true, 0xF0F0, 0xFF00)
			Expect(a.Out()).To(Equal(uint32(0xF000)))
		})
	})

	Describe("multi-cycle shifter", func() {
		It("should take one cycle per bit position", func() {
			a.StartOp(insts.Funct3SLL, false, true, 1, 5)
			Expect(a.Busy()).To(BeTrue())
			Expect(ticksUntilDone()).To(Equal(5))
			Expect(a.Out()).To(Equal(uint32(32)))
		})

		It("should complete a zero-amount shift immediately", func() {
			a.StartOp(insts.Funct3SLL, false, true, 0x1234, 0)
			Expect(a.Busy()).To(BeFalse())
			Expect(a.Out()).To(Equal(uint32(0x1234)))
		})

		It("should hold the partial value while busy", func() {
			a.StartOp(insts.Funct3SLL, false, true, 1, 3)
			a.Tick()
			Expect(a.Out()).To(Equal(uint32(2)))
			a.Tick()
			Expect(a.Out()).To(Equal(uint32(4)))
			a.Tick()
			Expect(a.Out()).To(Equal(uint32(8)))
			Expect(a.Busy()).To(BeFalse())
		})

		It("should mask the shift amount to five bits", func() {
			a.StartOp(insts.Funct3SLL, false, true, 1, 33)
			Expect(ticksUntilDone()).To(Equal(1))
			Expect(a.Out()).To(Equal(uint32(2)))
		})

		It("should replicate the sign on arithmetic right shifts", func() {
			a.StartOp(insts.Funct3SR, true, true, 0x80000000, 31)
			ticksUntilDone()
			Expect(a.Out()).To(Equal(uint32(0xFFFFFFFF)))
		})

		It("should shift in zeros on logical right shifts", func() {
			a.StartOp(insts.Funct3SR, false, true, 0x80000000, 31)
			ticksUntilDone()
			Expect(a.Out()).To(Equal(uint32(1)))
		})

		Context("in fast mode", func() {
			BeforeEach(func() {
				a = core.NewALU(true)
			})

			It("should retire four positions per cycle while four remain", func() {
				a.StartOp(insts.Funct3SLL, false, true, 1, 6)
				Expect(ticksUntilDone()).To(Equal(3)) // 4 + 1 + 1
				Expect(a.Out()).To(Equal(uint32(64)))
			})

			It("should finish a 31-bit shift in ten cycles", func() {
				a.StartOp(insts.Funct3SR, false, true, 0x80000000, 31)
				Expect(ticksUntilDone()).To(Equal(10)) // 7*4 + 3*1
				Expect(a.Out()).To(Equal(uint32(1)))
			})
		})
	})

	Describe("branch predicates", func() {
		It("should latch equality", func() {
			a.StartCompare(5, 5)
			Expect(a.TakenBranch(insts.Funct3BEQ)).To(BeTrue())
			Expect(a.TakenBranch(insts.Funct3BNE)).To(BeFalse())
		})

		It("should latch signed and unsigned less-than", func() {
			a.StartCompare(0xFFFFFFFF, 0)
			Expect(a.TakenBranch(insts.Funct3BLT)).To(BeTrue())
			Expect(a.TakenBranch(insts.Funct3BLTU)).To(BeFalse())
			Expect(a.TakenBranch(insts.Funct3BGE)).To(BeFalse())
			Expect(a.TakenBranch(insts.Funct3BGEU)).To(BeTrue())
		})

		It("should not latch the shifter on a compare", func() {
			// BNE shares its funct3 value with SLL; a compare must not
			// start a shift.
			a.StartCompare(1, 31)
			Expect(a.Busy()).To(BeFalse())
		})

		It("should fall through on undefined encodings", func() {
			a.StartCompare(1, 1)
			Expect(a.TakenBranch(0b010)).To(BeFalse())
			Expect(a.TakenBranch(0b011)).To(BeFalse())
		})
	})

	Describe("Reset", func() {
		It("should clear a shift in flight", func() {
			a.StartOp(insts.Funct3SLL, false, true, 1, 10)
			Expect(a.Busy()).To(BeTrue())
			a.Reset()
			Expect(a.Busy()).To(BeFalse())
			Expect(a.Out()).To(Equal(uint32(0)))
		})
	})
})
