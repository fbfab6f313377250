package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv32sim/emu"
)

var _ = Describe("Memory", func() {
	var m *emu.Memory

	BeforeEach(func() {
		m = emu.NewMemory()
	})

	It("should return zero for untouched addresses", func() {
		Expect(m.Read8(0)).To(Equal(byte(0)))
		Expect(m.Read32(0xFFFFFFF0)).To(Equal(uint32(0)))
	})

	It("should store multi-byte values little-endian", func() {
		m.Write32(0x100, 0x12345678)
		Expect(m.Read8(0x100)).To(Equal(byte(0x78)))
		Expect(m.Read8(0x101)).To(Equal(byte(0x56)))
		Expect(m.Read8(0x102)).To(Equal(byte(0x34)))
		Expect(m.Read8(0x103)).To(Equal(byte(0x12)))
		Expect(m.Read16(0x100)).To(Equal(uint16(0x5678)))
	})

	It("should span page boundaries", func() {
		m.Write32(4094, 0xAABBCCDD)
		Expect(m.Read32(4094)).To(Equal(uint32(0xAABBCCDD)))
		Expect(m.Read8(4095)).To(Equal(byte(0xCC)))
		Expect(m.Read8(4096)).To(Equal(byte(0xBB)))
	})

	It("should write only masked byte lanes", func() {
		m.Write32(0x200, 0xAABBCCDD)

		m.WriteMasked32(0x200, 0x11223344, 0b0101)
		Expect(m.Read32(0x200)).To(Equal(uint32(0xAA22CC44)))

		m.WriteMasked32(0x200, 0xFFFFFFFF, 0)
		Expect(m.Read32(0x200)).To(Equal(uint32(0xAA22CC44)))
	})

	It("should load a program image", func() {
		m.LoadProgram(0x300, []byte{1, 2, 3, 4, 5})
		Expect(m.Read8(0x300)).To(Equal(byte(1)))
		Expect(m.Read8(0x304)).To(Equal(byte(5)))
	})
})
