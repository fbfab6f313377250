// Package core provides the cycle-accurate RV32I core model.
package core

import "github.com/sarchlab/rv32sim/insts"

// ALU is the cycle-accurate arithmetic unit of the core.
//
// Single-cycle operations (add, subtract, logic, comparisons) complete
// at Start. Shift operations latch the source value and shift amount
// and then consume one cycle per bit position (or per four positions in
// fast mode); the unit reports busy exactly while the remaining amount
// is nonzero, which is the signal the control FSM polls before leaving
// its wait state.
type ALU struct {
	fastShift bool

	out   uint32 // accumulator; holds the in-progress result
	shamt uint8  // remaining shift amount; busy while nonzero
	left  bool   // shift direction
	arith bool   // sign-replicating right shift

	// Comparison predicates derived from the combined subtraction.
	// Valid from the cycle after Start.
	eq  bool
	lt  bool
	ltu bool
}

// NewALU creates an ALU. fastShift selects the two-level shifter that
// retires four bit positions per cycle instead of one.
func NewALU(fastShift bool) *ALU {
	return &ALU{fastShift: fastShift}
}

// compare runs the combined 33-bit subtraction that yields equality and
// both less-than predicates in one step, avoiding a separate
// comparator. The borrow out of bit 32 is the unsigned comparison; the
// signed comparison reuses it when the operand signs agree.
func (a *ALU) compare(op1, op2 uint32) uint64 {
	minus := (uint64(1)<<32 | uint64(op1)) - uint64(op2)

	a.eq = uint32(minus) == 0
	a.ltu = minus>>32 == 0
	if (op1^op2)>>31 != 0 {
		a.lt = op1>>31 != 0
	} else {
		a.lt = a.ltu
	}

	return minus
}

// StartCompare latches the branch predicates for a comparison-class
// instruction. The predicate becomes readable through TakenBranch on
// the following cycle.
func (a *ALU) StartCompare(op1, op2 uint32) {
	a.compare(op1, op2)
}

// StartOp begins an ALU operation. Non-shift operations complete
// immediately; shifts latch the shifter and raise Busy. isReg
// distinguishes the register-register class, where bit30 selects SUB;
// in the immediate class bit30 only selects the arithmetic right shift.
func (a *ALU) StartOp(funct3 uint8, bit30, isReg bool, op1, op2 uint32) {
	minus := a.compare(op1, op2)

	switch funct3 {
	case insts.Funct3ADD:
		if isReg && bit30 {
			a.out = uint32(minus)
		} else {
			a.out = op1 + op2
		}
	case insts.Funct3SLT:
		a.out = b2u(a.lt)
	case insts.Funct3SLTU:
		a.out = b2u(a.ltu)
	case insts.Funct3XOR:
		a.out = op1 ^ op2
	case insts.Funct3OR:
		a.out = op1 | op2
	case insts.Funct3AND:
		a.out = op1 & op2
	case insts.Funct3SLL:
		a.out = op1
		a.shamt = uint8(op2 & 31)
		a.left = true
		a.arith = false
	case insts.Funct3SR:
		a.out = op1
		a.shamt = uint8(op2 & 31)
		a.left = false
		a.arith = bit30
	}
}

// Busy reports whether a multi-cycle shift is still in progress.
func (a *ALU) Busy() bool {
	return a.shamt != 0
}

// Out returns the accumulator. It holds the final result once Busy is
// false; while a shift is in flight it holds the partial value.
func (a *ALU) Out() uint32 {
	return a.out
}

// Tick advances the shifter by one clock: one bit position per cycle,
// or four at a time in fast mode while at least four remain.
func (a *ALU) Tick() {
	if a.shamt == 0 {
		return
	}

	step := uint8(1)
	if a.fastShift && a.shamt >= 4 {
		step = 4
	}

	switch {
	case a.left:
		a.out <<= step
	case a.arith:
		a.out = uint32(int32(a.out) >> step)
	default:
		a.out >>= step
	}

	a.shamt -= step
}

// TakenBranch evaluates the branch predicate for the given comparison
// encoding using the predicates latched by the last Start. Undefined
// encodings fall through to false.
func (a *ALU) TakenBranch(funct3 uint8) bool {
	switch funct3 {
	case insts.Funct3BEQ:
		return a.eq
	case insts.Funct3BNE:
		return !a.eq
	case insts.Funct3BLT:
		return a.lt
	case insts.Funct3BGE:
		return !a.lt
	case insts.Funct3BLTU:
		return a.ltu
	case insts.Funct3BGEU:
		return !a.ltu
	default:
		return false
	}
}

// Reset clears the shifter and predicates.
func (a *ALU) Reset() {
	a.out = 0
	a.shamt = 0
	a.eq = false
	a.lt = false
	a.ltu = false
}

func b2u(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
