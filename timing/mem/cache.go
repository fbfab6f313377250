// Package mem provides bus devices for the cycle-accurate core.
package mem

import (
	akitacache "github.com/sarchlab/akita/v4/mem/cache"

	"github.com/sarchlab/rv32sim/emu"
	"github.com/sarchlab/rv32sim/timing/core"
)

// CacheConfig holds cache configuration parameters.
type CacheConfig struct {
	// Size in bytes.
	Size int
	// Associativity (number of ways).
	Associativity int
	// BlockSize in bytes (cache line size).
	BlockSize int
	// HitWait is the number of bus wait states on a hit.
	HitWait uint64
	// MissWait is the number of bus wait states on a miss, including
	// the backing memory round trip.
	MissWait uint64
}

// DefaultCacheConfig returns a small unified cache sized for a
// quark-class softcore system: 4KB, 2-way, 16-byte lines, zero-wait
// hits, eight wait states per miss.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		Size:          4 * 1024,
		Associativity: 2,
		BlockSize:     16,
		HitWait:       0,
		MissWait:      8,
	}
}

// CacheStats holds cache performance statistics.
type CacheStats struct {
	Reads      uint64
	Writes     uint64
	Hits       uint64
	Misses     uint64
	Evictions  uint64
	Writebacks uint64
}

// CachedRAM is a bus device that fronts a backing memory with a
// write-back, write-allocate cache. Tag and replacement state are kept
// in an Akita cache directory; only the wait-state count depends on
// hit or miss, which is what makes memory latency variable from the
// core's point of view.
//
// Accesses in the IO window bypass the cache entirely.
type CachedRAM struct {
	cfg CacheConfig
	mem *emu.Memory

	directory *akitacache.DirectoryImpl
	dataStore [][]byte
	stats     CacheStats

	ioPred func(uint32) bool
	io     IOHandler

	// In-flight transactions, same shape as RAM's.
	readPending bool
	readData    uint32
	readLeft    uint64

	writeLeft uint64
}

// NewCachedRAM creates a cache-fronted RAM over the given backing
// memory.
func NewCachedRAM(cfg CacheConfig, backing *emu.Memory) *CachedRAM {
	numSets := cfg.Size / (cfg.Associativity * cfg.BlockSize)
	totalBlocks := numSets * cfg.Associativity

	dataStore := make([][]byte, totalBlocks)
	for i := range dataStore {
		dataStore[i] = make([]byte, cfg.BlockSize)
	}

	return &CachedRAM{
		cfg: cfg,
		mem: backing,
		directory: akitacache.NewDirectory(
			numSets,
			cfg.Associativity,
			cfg.BlockSize,
			akitacache.NewLRUVictimFinder(),
		),
		dataStore: dataStore,
	}
}

// SetIO installs an uncached memory-mapped IO window.
func (c *CachedRAM) SetIO(pred func(uint32) bool, handler IOHandler) {
	c.ioPred = pred
	c.io = handler
}

// Memory returns the backing memory.
func (c *CachedRAM) Memory() *emu.Memory {
	return c.mem
}

// Stats returns cache statistics.
func (c *CachedRAM) Stats() CacheStats {
	return c.stats
}

func (c *CachedRAM) isIO(addr uint32) bool {
	return c.io != nil && c.ioPred != nil && c.ioPred(addr)
}

// Step services the bus for one clock.
func (c *CachedRAM) Step(out core.BusOutput) core.BusInput {
	var in core.BusInput

	// Write port.
	switch {
	case out.WMask != 0:
		c.writeLeft = c.startWrite(out.Addr, out.WData, out.WMask)
	case c.writeLeft > 0:
		c.writeLeft--
	}
	in.WBusy = c.writeLeft > 0

	// Read port.
	switch {
	case out.RStrobe:
		c.readData, c.readLeft = c.startRead(out.Addr)
		c.readPending = true
	case c.readPending && c.readLeft > 0:
		c.readLeft--
	}
	if c.readPending && c.readLeft == 0 {
		c.readPending = false
	}
	if !c.readPending {
		// Read data holds until the next transaction, like a registered
		// SRAM output.
		in.RData = c.readData
	}
	in.RBusy = c.readPending

	return in
}

// startRead performs the functional read immediately and returns the
// data along with the wait-state count its hit/miss outcome costs.
func (c *CachedRAM) startRead(addr uint32) (uint32, uint64) {
	if c.isIO(addr) {
		return c.io.Read(addr)
	}

	c.stats.Reads++
	wordAddr := addr &^ 3

	block, blockData := c.lookup(wordAddr)
	if block != nil {
		c.stats.Hits++
		c.directory.Visit(block)
		return readWord(blockData, c.blockOffset(wordAddr)), c.cfg.HitWait
	}

	c.stats.Misses++
	_, blockData = c.fill(wordAddr)
	return readWord(blockData, c.blockOffset(wordAddr)), c.cfg.MissWait
}

// startWrite performs the functional write immediately (write-allocate
// on miss) and returns the wait-state count. The core only honors
// WBusy for IO stores, so the count mostly matters for statistics and
// IO devices.
func (c *CachedRAM) startWrite(addr, data uint32, mask uint8) uint64 {
	if c.isIO(addr) {
		return c.io.Write(addr, data, mask)
	}

	c.stats.Writes++
	wordAddr := addr &^ 3

	block, blockData := c.lookup(wordAddr)
	wait := c.cfg.HitWait
	if block == nil {
		c.stats.Misses++
		block, blockData = c.fill(wordAddr)
		wait = c.cfg.MissWait
	} else {
		c.stats.Hits++
		c.directory.Visit(block)
	}

	writeWordMasked(blockData, c.blockOffset(wordAddr), data, mask)
	block.IsDirty = true

	return wait
}

// lookup returns the valid block holding addr and its data, or nil.
func (c *CachedRAM) lookup(addr uint32) (*akitacache.Block, []byte) {
	blockAddr := c.blockAddr(addr)
	block := c.directory.Lookup(0, uint64(blockAddr))
	if block == nil || !block.IsValid {
		return nil, nil
	}
	return block, c.dataStore[c.blockIndex(block)]
}

// fill brings the block holding addr in from the backing memory,
// writing back a dirty victim first, and returns the block and its
// data.
func (c *CachedRAM) fill(addr uint32) (*akitacache.Block, []byte) {
	blockAddr := c.blockAddr(addr)

	victim := c.directory.FindVictim(uint64(blockAddr))
	victimData := c.dataStore[c.blockIndex(victim)]

	if victim.IsValid {
		c.stats.Evictions++
		if victim.IsDirty {
			c.stats.Writebacks++
			c.writeBack(uint32(victim.Tag), victimData)
		}
	}

	for i := range victimData {
		victimData[i] = c.mem.Read8(blockAddr + uint32(i))
	}

	victim.Tag = uint64(blockAddr)
	victim.IsValid = true
	victim.IsDirty = false
	c.directory.Visit(victim)

	return victim, victimData
}

// Flush writes back all dirty blocks and invalidates everything.
func (c *CachedRAM) Flush() {
	for _, set := range c.directory.GetSets() {
		for _, block := range set.Blocks {
			if block.IsValid && block.IsDirty {
				c.stats.Writebacks++
				c.writeBack(uint32(block.Tag), c.dataStore[c.blockIndex(block)])
			}
			block.IsValid = false
			block.IsDirty = false
		}
	}
}

func (c *CachedRAM) writeBack(blockAddr uint32, data []byte) {
	for i, b := range data {
		c.mem.Write8(blockAddr+uint32(i), b)
	}
}

func (c *CachedRAM) blockAddr(addr uint32) uint32 {
	return addr / uint32(c.cfg.BlockSize) * uint32(c.cfg.BlockSize)
}

func (c *CachedRAM) blockOffset(addr uint32) int {
	return int(addr % uint32(c.cfg.BlockSize))
}

func (c *CachedRAM) blockIndex(block *akitacache.Block) int {
	return block.SetID*c.cfg.Associativity + block.WayID
}

// readWord reads a little-endian word from block data.
func readWord(data []byte, offset int) uint32 {
	return uint32(data[offset]) |
		uint32(data[offset+1])<<8 |
		uint32(data[offset+2])<<16 |
		uint32(data[offset+3])<<24
}

// writeWordMasked writes the masked byte lanes of a word into block
// data.
func writeWordMasked(data []byte, offset int, value uint32, mask uint8) {
	for lane := 0; lane < 4; lane++ {
		if mask&(1<<lane) != 0 {
			data[offset+lane] = byte(value >> (8 * lane))
		}
	}
}
