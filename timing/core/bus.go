// Package core provides the cycle-accurate RV32I core model.
package core

// BusOutput is the set of bus signals the core drives each clock.
type BusOutput struct {
	// Addr is the transaction address, truncated to the configured
	// address width.
	Addr uint32

	// WData is the 32-bit write data. Narrow stores replicate the
	// value across byte lanes; WMask selects the lanes that commit.
	WData uint32

	// WMask is the 4-bit per-byte write mask. Bit i enables byte lane
	// i. A zero mask means no write.
	WMask uint8

	// RStrobe is pulsed for one cycle to start a read transaction.
	// It is asserted during instruction fetch and load.
	RStrobe bool
}

// BusInput is the set of bus signals the core samples each clock.
type BusInput struct {
	// RData is the 32-bit read data. It is valid on the first cycle
	// RBusy is deasserted after a read strobe.
	RData uint32

	// RBusy stalls the core while a read transaction is in flight.
	RBusy bool

	// WBusy stalls the core while a write transaction is in flight.
	// It is only honored for stores matching the IO-address predicate;
	// ordinary stores proceed without waiting.
	WBusy bool
}

// BusDevice models the memory/IO side of the bus.
//
// Step consumes the core's outputs for the current clock and returns
// the input signals the core will sample on the next clock. The core
// never has more than one transaction outstanding, so a device never
// sees a new strobe or write while it is still reporting busy.
type BusDevice interface {
	Step(out BusOutput) BusInput
}
