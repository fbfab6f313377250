// Package core provides the cycle-accurate RV32I core model.
package core

// Machine wires a Core to a BusDevice and steps them in lockstep. It
// is the closed system: one Tick is one clock for both sides, with the
// device's response to this cycle's bus outputs sampled by the core on
// the next cycle, the way registered bus signals behave.
type Machine struct {
	core *Core
	dev  BusDevice

	in BusInput
}

// NewMachine creates a machine from a core and a bus device.
func NewMachine(c *Core, dev BusDevice) *Machine {
	return &Machine{
		core: c,
		dev:  dev,
	}
}

// Core returns the machine's core.
func (m *Machine) Core() *Core {
	return m.core
}

// Tick advances the whole system by one clock.
func (m *Machine) Tick() {
	out := m.core.Step(m.in)
	m.in = m.dev.Step(out)
}

// Halted reports whether the core has retired an EBREAK.
func (m *Machine) Halted() bool {
	return m.core.Halted()
}

// ExitCode returns the a0 register, the halt convention's exit value.
func (m *Machine) ExitCode() int32 {
	return int32(m.core.RegFile().ReadReg(10))
}

// Run ticks until the core halts or maxCycles elapse (0 means no
// limit). It returns true if the core halted.
func (m *Machine) Run(maxCycles uint64) bool {
	for !m.core.Halted() {
		if maxCycles > 0 && m.core.Cycles() >= maxCycles {
			return false
		}
		m.Tick()
	}
	return true
}

// RunCycles ticks exactly n clocks, or fewer if the core halts.
// Returns true if still running.
func (m *Machine) RunCycles(n uint64) bool {
	for i := uint64(0); i < n && !m.core.Halted(); i++ {
		m.Tick()
	}
	return !m.core.Halted()
}

// Stats returns the core's performance statistics.
func (m *Machine) Stats() Stats {
	return m.core.Stats()
}

// Reset resets the core and clears the latched bus inputs. The device
// is left untouched; memory contents survive reset as they do in
// hardware.
func (m *Machine) Reset() {
	m.core.Reset()
	m.in = BusInput{}
}
