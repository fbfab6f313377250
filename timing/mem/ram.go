// Package mem provides bus devices for the cycle-accurate core:
// plain RAM with configurable wait states, a cache-fronted RAM built on
// Akita cache components, and memory-mapped IO dispatch.
package mem

import (
	"github.com/sarchlab/rv32sim/emu"
	"github.com/sarchlab/rv32sim/timing/core"
)

// IOHandler services memory-mapped IO accesses. The returned wait
// counts are the number of cycles the relevant busy signal stays
// asserted after the access cycle.
type IOHandler interface {
	// Read services an IO load or fetch.
	Read(addr uint32) (value uint32, waitStates uint64)
	// Write services an IO store. The byte-lane mask is the one the
	// core drove on the bus.
	Write(addr uint32, value uint32, mask uint8) (waitStates uint64)
}

// RAM is a word-oriented bus device over a byte-addressable backing
// memory. Reads and writes each take a configurable number of wait
// states; the low two address bits are ignored on the word port, as
// the hardware bus does, with byte lanes selected by the write mask.
//
// A write with nonzero wait states commits to the backing memory only
// when its countdown expires. A read arriving before that observes the
// old contents. This reproduces the weak ordering the core's store
// fast path exposes: the core does not wait for ordinary stores, so
// correctness relies on RAMWriteWait being zero (the default), exactly
// as the source design relies on single-cycle memory writes.
type RAM struct {
	mem *emu.Memory

	readWait  uint64
	writeWait uint64

	ioPred func(uint32) bool
	io     IOHandler

	// In-flight read transaction.
	readPending bool
	readFromRAM bool
	readAddr    uint32
	readData    uint32
	readLeft    uint64

	// In-flight write transaction.
	writePending bool
	writeAddr    uint32
	writeData    uint32
	writeMask    uint8
	writeLeft    uint64
}

// NewRAM creates a RAM device over the given backing memory with the
// given read and write wait-state counts.
func NewRAM(backing *emu.Memory, readWait, writeWait uint64) *RAM {
	return &RAM{
		mem:       backing,
		readWait:  readWait,
		writeWait: writeWait,
	}
}

// SetIO installs a memory-mapped IO window. Accesses whose address
// satisfies pred are routed to handler instead of the backing memory.
// The same predicate should be given to the core's configuration so
// IO stores wait for completion.
func (r *RAM) SetIO(pred func(uint32) bool, handler IOHandler) {
	r.ioPred = pred
	r.io = handler
}

// Memory returns the backing memory.
func (r *RAM) Memory() *emu.Memory {
	return r.mem
}

// isIO reports whether addr falls in the IO window.
func (r *RAM) isIO(addr uint32) bool {
	return r.io != nil && r.ioPred != nil && r.ioPred(addr)
}

// Step services the bus for one clock.
func (r *RAM) Step(out core.BusOutput) core.BusInput {
	var in core.BusInput

	// Write port.
	switch {
	case out.WMask != 0:
		r.startWrite(out.Addr, out.WData, out.WMask)
	case r.writeLeft > 0:
		r.writeLeft--
		if r.writeLeft == 0 && r.writePending {
			r.mem.WriteMasked32(r.writeAddr&^3, r.writeData, r.writeMask)
			r.writePending = false
		}
	}
	in.WBusy = r.writeLeft > 0

	// Read port.
	switch {
	case out.RStrobe:
		r.startRead(out.Addr)
	case r.readPending && r.readLeft > 0:
		r.readLeft--
	}
	if r.readPending && r.readLeft == 0 {
		if r.readFromRAM {
			// Resolved at completion time so a write that committed
			// during the wait is observed.
			r.readData = r.mem.Read32(r.readAddr &^ 3)
		}
		r.readPending = false
	}
	if !r.readPending {
		// Read data holds until the next transaction, like a registered
		// SRAM output.
		in.RData = r.readData
	}
	in.RBusy = r.readPending

	return in
}

func (r *RAM) startRead(addr uint32) {
	r.readAddr = addr
	r.readPending = true
	if r.isIO(addr) {
		r.readData, r.readLeft = r.io.Read(addr)
		r.readFromRAM = false
		return
	}
	r.readLeft = r.readWait
	r.readFromRAM = true
}

func (r *RAM) startWrite(addr, data uint32, mask uint8) {
	if r.isIO(addr) {
		r.writeLeft = r.io.Write(addr, data, mask)
		r.writePending = false
		return
	}
	if r.writeWait == 0 {
		r.mem.WriteMasked32(addr&^3, data, mask)
		r.writePending = false
		r.writeLeft = 0
		return
	}
	r.writeAddr = addr
	r.writeData = data
	r.writeMask = mask
	r.writePending = true
	r.writeLeft = r.writeWait
}
