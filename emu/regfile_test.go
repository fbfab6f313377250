package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv32sim/emu"
)

var _ = Describe("RegFile", func() {
	var r *emu.RegFile

	BeforeEach(func() {
		r = &emu.RegFile{}
	})

	It("should read back written values", func() {
		for reg := uint8(1); reg < 32; reg++ {
			r.WriteReg(reg, uint32(reg)*3)
		}
		for reg := uint8(1); reg < 32; reg++ {
			Expect(r.ReadReg(reg)).To(Equal(uint32(reg) * 3))
		}
	})

	It("should keep x0 hardwired to zero", func() {
		r.WriteReg(0, 0xDEADBEEF)
		Expect(r.ReadReg(0)).To(Equal(uint32(0)))
	})

	It("should ignore out-of-range indices", func() {
		r.WriteReg(32, 1)
		r.WriteReg(255, 1)
		Expect(r.ReadReg(32)).To(Equal(uint32(0)))
		Expect(r.ReadReg(255)).To(Equal(uint32(0)))
	})

	It("should hold the PC independently of the registers", func() {
		r.PC = 0x1234
		r.WriteReg(1, 0x5678)
		Expect(r.PC).To(Equal(uint32(0x1234)))
	})
})
