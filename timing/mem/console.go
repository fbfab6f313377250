// Package mem provides bus devices for the cycle-accurate core.
package mem

import "io"

// Console is a minimal memory-mapped output device: a store to its
// data register emits the low byte of the written value. It is enough
// to run firmware that prints through a UART-style register, and its
// configurable wait-state count exercises the core's IO store wait
// path.
type Console struct {
	w io.Writer

	// WriteWait is the number of write wait states reported per store.
	WriteWait uint64
}

// NewConsole creates a console device writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// Read returns 0 (always ready), with no wait states.
func (c *Console) Read(addr uint32) (uint32, uint64) {
	return 0, 0
}

// Write emits the low byte of value.
func (c *Console) Write(addr uint32, value uint32, mask uint8) uint64 {
	if c.w != nil && mask&1 != 0 {
		_, _ = c.w.Write([]byte{byte(value)})
	}
	return c.WriteWait
}
