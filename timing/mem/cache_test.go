package mem_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv32sim/emu"
	"github.com/sarchlab/rv32sim/timing/core"
	"github.com/sarchlab/rv32sim/timing/mem"
)

var _ = Describe("CachedRAM", func() {
	var (
		backing *emu.Memory
		cache   *mem.CachedRAM
	)

	// read drives a read transaction to completion and returns the data
	// and the number of wait cycles it took.
	read := func(addr uint32) (uint32, int) {
		in := cache.Step(core.BusOutput{Addr: addr, RStrobe: true})
		waits := 0
		for in.RBusy {
			in = cache.Step(core.BusOutput{})
			waits++
			Expect(waits).To(BeNumerically("<", 100))
		}
		return in.RData, waits
	}

	// write drives a write transaction to completion and returns the
	// number of wait cycles it took.
	write := func(addr, data uint32, mask uint8) int {
		in := cache.Step(core.BusOutput{Addr: addr, WData: data, WMask: mask})
		waits := 0
		for in.WBusy {
			in = cache.Step(core.BusOutput{})
			waits++
			Expect(waits).To(BeNumerically("<", 100))
		}
		return waits
	}

	BeforeEach(func() {
		backing = emu.NewMemory()
		cache = mem.NewCachedRAM(mem.CacheConfig{
			Size:          256,
			Associativity: 2,
			BlockSize:     16,
			HitWait:       1,
			MissWait:      8,
		}, backing)
	})

	It("should miss cold and hit warm", func() {
		backing.Write32(0x100, 0xCAFEBABE)

		data, waits := read(0x100)
		Expect(data).To(Equal(uint32(0xCAFEBABE)))
		Expect(waits).To(Equal(8))

		data, waits = read(0x100)
		Expect(data).To(Equal(uint32(0xCAFEBABE)))
		Expect(waits).To(Equal(1))

		stats := cache.Stats()
		Expect(stats.Reads).To(Equal(uint64(2)))
		Expect(stats.Misses).To(Equal(uint64(1)))
		Expect(stats.Hits).To(Equal(uint64(1)))
	})

	It("should hit the rest of a fetched line", func() {
		backing.Write32(0x100, 1)
		backing.Write32(0x104, 2)
		backing.Write32(0x108, 3)

		read(0x100)
		data, waits := read(0x104)
		Expect(data).To(Equal(uint32(2)))
		Expect(waits).To(Equal(1))
		data, _ = read(0x108)
		Expect(data).To(Equal(uint32(3)))
	})

	It("should write-allocate on a store miss", func() {
		waits := write(0x200, 0x12345678, 0b1111)
		Expect(waits).To(Equal(8))

		data, readWaits := read(0x200)
		Expect(data).To(Equal(uint32(0x12345678)))
		Expect(readWaits).To(Equal(1))
	})

	It("should merge masked lanes into the cached line", func() {
		backing.Write32(0x100, 0xAABBCCDD)

		read(0x100)
		write(0x100, 0x11111111, 0b0110)

		data, _ := read(0x100)
		Expect(data).To(Equal(uint32(0xAA1111DD)))
	})

	It("should hold dirty data back from memory until eviction", func() {
		write(0x100, 0x77, 0b1111)
		Expect(backing.Read32(0x100)).To(Equal(uint32(0)))

		// 256 B, 2 ways, 16 B lines: 8 sets, so addresses 128 bytes
		// apart index the same set. Two more fills evict the dirty line.
		read(0x100 + 128)
		read(0x100 + 256)

		Expect(backing.Read32(0x100)).To(Equal(uint32(0x77)))
		Expect(cache.Stats().Writebacks).To(Equal(uint64(1)))
	})

	It("should write everything back on Flush", func() {
		write(0x100, 0xAA, 0b1111)
		write(0x200, 0xBB, 0b1111)
		Expect(backing.Read32(0x100)).To(Equal(uint32(0)))

		cache.Flush()

		Expect(backing.Read32(0x100)).To(Equal(uint32(0xAA)))
		Expect(backing.Read32(0x200)).To(Equal(uint32(0xBB)))

		// Everything is invalid again: the next read misses.
		_, waits := read(0x100)
		Expect(waits).To(Equal(8))
	})

	It("should bypass the cache for the IO window", func() {
		console := mem.NewConsole(nil)
		cache.SetIO(func(addr uint32) bool { return addr >= 0x400000 }, console)

		before := cache.Stats()
		write(0x400000, 'Z', 0b0001)
		after := cache.Stats()

		Expect(after.Writes).To(Equal(before.Writes))
		Expect(after.Misses).To(Equal(before.Misses))
	})

	It("should serve the core as its bus device", func() {
		prog := []uint32{
			0x00100093, // addi x1, x0, 1
			0x00108093, // addi x1, x1, 1
			0x00100073, // ebreak
		}
		for i, w := range prog {
			backing.Write32(uint32(4*i), w)
		}

		regFile := &emu.RegFile{}
		c := core.NewCore(core.Config{}, regFile)
		machine := core.NewMachine(c, cache)

		Expect(machine.Run(10000)).To(BeTrue())
		Expect(regFile.ReadReg(1)).To(Equal(uint32(2)))
	})
})
