// Package latency provides the timing configuration for the simulated
// system: bus wait states, cache geometry, and core timing options.
// Values can be loaded from a JSON file so a board-like memory system
// can be described without recompiling.
package latency

import (
	"encoding/json"
	"fmt"
	"os"
)

// TimingConfig holds wait-state and core timing parameters.
type TimingConfig struct {
	// ResetAddr is the PC applied by reset. Default: 0.
	ResetAddr uint32 `json:"reset_addr"`

	// AddrWidth is the bus address width in bits. Default: 24.
	AddrWidth uint8 `json:"addr_width"`

	// CounterWidth is the cycle counter width in bits as observed by
	// SYSTEM-class reads. Default: 32.
	CounterWidth uint8 `json:"counter_width"`

	// IOBase marks the start of the memory-mapped IO window; any
	// address at or above it matches the core's IO predicate. A value
	// of 0 disables the window. Default: 0x400000 (top quarter of the
	// 24-bit space).
	IOBase uint32 `json:"io_base"`

	// IOWriteWait is the number of write wait states the console device
	// reports per store. IO stores hold the core until the wait
	// expires. Default: 0.
	IOWriteWait uint64 `json:"io_write_wait"`

	// FastShift selects the four-bit-per-cycle shifter. Default: false.
	FastShift bool `json:"fast_shift"`

	// RAMReadWait is the number of wait states per RAM read.
	// Default: 0.
	RAMReadWait uint64 `json:"ram_read_wait"`

	// RAMWriteWait is the number of wait states per RAM write. The
	// core does not wait for ordinary stores, so nonzero values expose
	// the store fast path's weak ordering. Default: 0.
	RAMWriteWait uint64 `json:"ram_write_wait"`

	// CacheEnable fronts the RAM with the cache device. Default: false.
	CacheEnable bool `json:"cache_enable"`

	// CacheSize in bytes. Default: 4096.
	CacheSize int `json:"cache_size"`

	// CacheAssociativity (number of ways). Default: 2.
	CacheAssociativity int `json:"cache_associativity"`

	// CacheBlockSize in bytes. Default: 16.
	CacheBlockSize int `json:"cache_block_size"`

	// CacheHitWait is the number of wait states on a cache hit.
	// Default: 0.
	CacheHitWait uint64 `json:"cache_hit_wait"`

	// CacheMissWait is the number of wait states on a cache miss.
	// Default: 8.
	CacheMissWait uint64 `json:"cache_miss_wait"`
}

// DefaultTimingConfig returns the default system timing: zero-wait
// RAM, no cache, IO window in the top quarter of the 24-bit address
// space.
func DefaultTimingConfig() *TimingConfig {
	return &TimingConfig{
		AddrWidth:          24,
		CounterWidth:       32,
		IOBase:             0x400000,
		RAMReadWait:        0,
		RAMWriteWait:       0,
		CacheSize:          4096,
		CacheAssociativity: 2,
		CacheBlockSize:     16,
		CacheHitWait:       0,
		CacheMissWait:      8,
	}
}

// LoadConfig loads a TimingConfig from a JSON file. Missing fields
// keep their defaults.
func LoadConfig(path string) (*TimingConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read timing config file: %w", err)
	}

	config := DefaultTimingConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse timing config: %w", err)
	}

	return config, nil
}

// SaveConfig writes a TimingConfig to a JSON file.
func (c *TimingConfig) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize timing config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write timing config file: %w", err)
	}

	return nil
}

// Validate checks the configuration for internal consistency.
func (c *TimingConfig) Validate() error {
	if c.AddrWidth == 0 || c.AddrWidth > 32 {
		return fmt.Errorf("addr_width must be in 1..32, got %d", c.AddrWidth)
	}
	if c.CounterWidth == 0 || c.CounterWidth > 64 {
		return fmt.Errorf("counter_width must be in 1..64, got %d", c.CounterWidth)
	}
	if c.ResetAddr%4 != 0 {
		return fmt.Errorf("reset_addr must be word-aligned, got 0x%X", c.ResetAddr)
	}
	if c.CacheEnable {
		if c.CacheBlockSize < 4 || c.CacheBlockSize%4 != 0 {
			return fmt.Errorf("cache_block_size must be a multiple of 4, got %d", c.CacheBlockSize)
		}
		if c.CacheAssociativity <= 0 {
			return fmt.Errorf("cache_associativity must be > 0, got %d", c.CacheAssociativity)
		}
		if c.CacheSize < c.CacheAssociativity*c.CacheBlockSize {
			return fmt.Errorf("cache_size %d too small for %d ways of %d-byte blocks",
				c.CacheSize, c.CacheAssociativity, c.CacheBlockSize)
		}
		if c.CacheMissWait < c.CacheHitWait {
			return fmt.Errorf("cache_miss_wait must be >= cache_hit_wait")
		}
	}
	return nil
}

// IOPredicate returns the IO-address predicate implied by IOBase, or
// nil when the window is disabled.
func (c *TimingConfig) IOPredicate() func(uint32) bool {
	if c.IOBase == 0 {
		return nil
	}
	base := c.IOBase
	return func(addr uint32) bool {
		return addr >= base
	}
}
