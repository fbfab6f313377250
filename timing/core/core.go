// Package core provides the cycle-accurate RV32I core model.
//
// The core is a straight port of a quark-class FPGA softcore: a
// seven-state control FSM sequencing fetch, decode, a one-or-many-cycle
// ALU, and byte-lane memory access over a bus that may stall it for an
// arbitrary number of wait states. One call to Step is one clock.
package core

import (
	"github.com/sarchlab/rv32sim/emu"
	"github.com/sarchlab/rv32sim/insts"
)

// State identifies the active control FSM state. Exactly one state is
// active per clock; the one-hot hardware flags map to this enumeration.
type State uint8

// Control FSM states.
const (
	// StateFetchInstr asserts the read strobe at the PC.
	StateFetchInstr State = iota
	// StateWaitInstr waits out fetch wait states, then latches the
	// instruction and both source operands.
	StateWaitInstr
	// StateExecute1 computes and latches the effective address and
	// starts the ALU.
	StateExecute1
	// StateExecute2 resolves the next PC, asserts writeback, and
	// dispatches to the memory or wait states.
	StateExecute2
	// StateLoad asserts the read strobe at the latched address.
	StateLoad
	// StateStore drives write data and byte-lane mask at the latched
	// address.
	StateStore
	// StateWaitALUOrMem stalls until the shifter and both bus busy
	// signals are clear. Reset forces this state so the core first
	// confirms no write is in flight.
	StateWaitALUOrMem
)

// Config holds the core configuration surface.
type Config struct {
	// ResetAddr is the PC value applied by reset. Must be word-aligned.
	ResetAddr uint32

	// AddrWidth is the bus address width in bits (1-32). Addresses and
	// the PC wrap at this width. Default 24.
	AddrWidth uint8

	// CounterWidth is the cycle counter width in bits (1-64) as seen
	// by SYSTEM-class reads. The internal counter is free-running.
	// Default 32.
	CounterWidth uint8

	// IOAddr decides, on a store, whether the core must wait for the
	// write-busy signal to clear before the next fetch. A nil
	// predicate means no store ever waits; correctness of ordinary
	// memory then relies on single-cycle write completion.
	IOAddr func(addr uint32) bool

	// FastShift selects the four-bit-per-cycle shifter.
	FastShift bool
}

// DefaultConfig returns the source core's default configuration:
// 24-bit addresses, 32-bit cycle counter, reset at 0, no IO predicate,
// one-bit-per-cycle shifter.
func DefaultConfig() Config {
	return Config{
		AddrWidth:    24,
		CounterWidth: 32,
	}
}

// Stats holds performance statistics for the core.
type Stats struct {
	// Cycles is the total number of clocks stepped.
	Cycles uint64
	// Instructions is the number of instructions retired.
	Instructions uint64
	// Stalls is the number of cycles spent waiting on bus busy signals
	// or the shifter.
	Stalls uint64
}

// CPI returns cycles per retired instruction.
func (s Stats) CPI() float64 {
	if s.Instructions == 0 {
		return 0
	}
	return float64(s.Cycles) / float64(s.Instructions)
}

// Core is the cycle-accurate RV32I core.
//
// All latched state lives here: the FSM state, PC, the fetched
// instruction word, both source operands (read one cycle ahead of use,
// from the raw word's index fields), the effective address register,
// the ALU accumulator, and the free-running cycle counter. Everything
// else is recomputed from these latches every step, the way
// combinational signals are.
type Core struct {
	cfg      Config
	addrMask uint32
	cntMask  uint64

	regFile *emu.RegFile
	decoder *insts.Decoder
	alu     *ALU

	state  State
	pc     uint32
	word   uint32             // latched instruction; immutable until the next fetch completes
	inst   *insts.Instruction // decode of word
	rs1Val uint32
	rs2Val uint32
	addr   uint32 // effective address register; bus address for load/store

	cycles uint64
	halted bool
	stats  Stats
}

// NewCore creates a core over the given register file and applies
// reset. The register file is shared with whoever owns it (typically
// the machine and its tests); the core never copies it.
func NewCore(cfg Config, regFile *emu.RegFile) *Core {
	if cfg.AddrWidth == 0 {
		cfg.AddrWidth = 24
	}
	if cfg.CounterWidth == 0 {
		cfg.CounterWidth = 32
	}

	c := &Core{
		cfg:      cfg,
		addrMask: widthMask32(cfg.AddrWidth),
		cntMask:  widthMask64(cfg.CounterWidth),
		regFile:  regFile,
		decoder:  insts.NewDecoder(),
		alu:      NewALU(cfg.FastShift),
	}
	c.Reset()

	return c
}

// widthMask32 returns a mask of the low n bits, saturating at 32.
func widthMask32(n uint8) uint32 {
	if n >= 32 {
		return ^uint32(0)
	}
	return 1<<n - 1
}

// widthMask64 returns a mask of the low n bits, saturating at 64.
func widthMask64(n uint8) uint64 {
	if n >= 64 {
		return ^uint64(0)
	}
	return 1<<n - 1
}

// Reset synchronously forces the FSM to StateWaitALUOrMem and the PC to
// the configured reset address, discarding any in-flight transaction.
// The wait state is entered first so the core confirms no pending write
// before its initial fetch.
func (c *Core) Reset() {
	c.state = StateWaitALUOrMem
	c.pc = c.cfg.ResetAddr & c.addrMask
	c.addr = c.cfg.ResetAddr & c.addrMask
	c.word = 0
	c.inst = c.decoder.Decode(0)
	c.rs1Val = 0
	c.rs2Val = 0
	c.cycles = 0
	c.halted = false
	c.stats = Stats{}
	c.alu.Reset()
}

// RegFile returns the register file the core operates on.
func (c *Core) RegFile() *emu.RegFile {
	return c.regFile
}

// PC returns the current program counter.
func (c *Core) PC() uint32 {
	return c.pc
}

// State returns the active FSM state.
func (c *Core) State() State {
	return c.state
}

// Instr returns the latched instruction word. It is captured once per
// fetch and held until the next fetch completes.
func (c *Core) Instr() uint32 {
	return c.word
}

// Cycles returns the free-running cycle counter.
func (c *Core) Cycles() uint64 {
	return c.cycles
}

// Halted reports whether an EBREAK has retired. This is a simulator
// convention layered on SYSTEM decode; the hardware has no trap and
// would keep executing.
func (c *Core) Halted() bool {
	return c.halted
}

// Stats returns performance statistics.
func (c *Core) Stats() Stats {
	c.stats.Cycles = c.cycles
	return c.stats
}

// Step advances the core by one clock. It samples the bus inputs,
// mutates all latched state atomically, and returns the bus outputs
// driven for this cycle. The cycle counter increments unconditionally,
// whatever the FSM is doing.
//
// The core never starts a new bus transaction while a previous one is
// marked busy: the only states that issue strobes or writes are
// reached strictly after the relevant busy signal cleared.
func (c *Core) Step(in BusInput) BusOutput {
	var out BusOutput

	c.cycles++

	// The shifter decrements on every clock edge while busy. State
	// decisions this cycle use the pre-edge busy value, so the tick is
	// applied after the state logic, except on the cycle that latched
	// the shift amount.
	aluBusy := c.alu.Busy()
	started := false

	switch c.state {
	case StateFetchInstr:
		out.Addr = c.pc
		out.RStrobe = true
		c.state = StateWaitInstr

	case StateWaitInstr:
		out.Addr = c.pc
		if in.RBusy {
			c.stats.Stalls++
			break
		}
		// Latch the word and read both source operands from the raw
		// word's index fields, one cycle before decode consumes them.
		c.word = in.RData
		c.inst = c.decoder.Decode(in.RData)
		c.rs1Val = c.regFile.ReadReg(insts.Rs1(in.RData))
		c.rs2Val = c.regFile.ReadReg(insts.Rs2(in.RData))
		c.state = StateExecute1

	case StateExecute1:
		c.addr = c.effectiveAddress() & c.addrMask
		c.startALU()
		started = true
		c.state = StateExecute2

	case StateExecute2:
		c.execute2()

	case StateLoad:
		out.Addr = c.addr
		out.RStrobe = true
		c.state = StateWaitALUOrMem

	case StateStore:
		out.Addr = c.addr
		out.WData, out.WMask = emu.StoreLanes(c.rs2Val, c.addr, c.inst.Funct3)
		if c.cfg.IOAddr != nil && c.cfg.IOAddr(c.addr) {
			c.state = StateWaitALUOrMem
		} else {
			// Fast path: proceed without confirming the write
			// completed. Ordinary memory is assumed to commit within
			// one cycle; this is the source design's deliberate weak
			// ordering.
			c.state = StateFetchInstr
		}

	case StateWaitALUOrMem:
		out.Addr = c.addr
		c.writeback(in)
		if aluBusy || in.RBusy || in.WBusy {
			c.stats.Stalls++
			break
		}
		c.addr = c.pc
		c.state = StateFetchInstr
	}

	if !started {
		c.alu.Tick()
	}

	return out
}

// effectiveAddress computes base + class-selected immediate. AUIPC,
// JAL, and branches are PC-relative; everything else is rs1-relative.
func (c *Core) effectiveAddress() uint32 {
	switch c.inst.Class {
	case insts.ClassAUIPC:
		return c.pc + c.inst.ImmU
	case insts.ClassJAL:
		return c.pc + uint32(c.inst.ImmJ)
	case insts.ClassBranch:
		return c.pc + uint32(c.inst.ImmB)
	case insts.ClassStore:
		return c.rs1Val + uint32(c.inst.ImmS)
	default:
		// LOAD, JALR, and the ALU classes all select the I-immediate.
		return c.rs1Val + uint32(c.inst.ImmI)
	}
}

// startALU pulses the ALU start signal. Branches only need the
// comparison predicates; the ALU classes (including the unchecked
// fall-through class) run a full operation and may latch the shifter.
func (c *Core) startALU() {
	switch c.inst.Class {
	case insts.ClassALUImm:
		c.alu.StartOp(c.inst.Funct3, c.inst.Bit30, false, c.rs1Val, uint32(c.inst.ImmI))
	case insts.ClassALUReg, insts.ClassUnknown:
		c.alu.StartOp(c.inst.Funct3, c.inst.Bit30, true, c.rs1Val, c.rs2Val)
	case insts.ClassBranch:
		c.alu.StartCompare(c.rs1Val, c.rs2Val)
	}
}

// execute2 is the resolution stage: next PC, next access address,
// writeback, retirement, and dispatch.
func (c *Core) execute2() {
	inst := c.inst

	taken := inst.Class == insts.ClassJAL ||
		inst.Class == insts.ClassJALR ||
		(inst.Class == insts.ClassBranch && c.alu.TakenBranch(inst.Funct3))

	isLoad := inst.Class == insts.ClassLoad
	isStore := inst.Class == insts.ClassStore

	// Writeback uses the pre-update PC for the link address.
	c.writeback(BusInput{})

	// Next fetch/access address: the effective address for memory
	// accesses and taken control transfers, the fall-through otherwise.
	if !isLoad && !isStore && !taken {
		c.addr = (c.pc + 4) & c.addrMask
	}

	// The PC is written exactly once per retired instruction, here.
	if taken {
		c.pc = c.addr &^ 1
	} else {
		c.pc = (c.pc + 4) & c.addrMask
	}

	c.stats.Instructions++
	if inst.IsEBreak() {
		c.halted = true
	}

	switch {
	case isLoad:
		c.state = StateLoad
	case isStore:
		c.state = StateStore
	case c.alu.Busy():
		c.state = StateWaitALUOrMem
	default:
		c.addr = c.pc
		c.state = StateFetchInstr
	}
}

// writeback asserts the register write for the retiring instruction.
// It runs during StateExecute2 and again on every StateWaitALUOrMem
// cycle, exactly as the hardware strobe does; intermediate writes are
// overwritten and the value standing when the wait clears is final.
// Branches and stores produce no architectural register result.
func (c *Core) writeback(in BusInput) {
	inst := c.inst
	if !inst.WritesRegister() {
		return
	}

	var value uint32
	switch inst.Class {
	case insts.ClassSystem:
		value = uint32(c.cycles & c.cntMask)
	case insts.ClassLUI:
		value = inst.ImmU
	case insts.ClassAUIPC:
		value = c.addr
	case insts.ClassJAL, insts.ClassJALR:
		value = (c.pc + 4) & c.addrMask
	case insts.ClassLoad:
		value = emu.LoadExtend(in.RData, c.addr, inst.Funct3)
	default:
		// Both ALU classes and the unchecked fall-through class take
		// the ALU result.
		value = c.alu.Out()
	}

	c.regFile.WriteReg(inst.Rd, value)
}
