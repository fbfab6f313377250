// Package emu provides functional RV32I emulation.
package emu

import "github.com/sarchlab/rv32sim/insts"

// BranchTaken evaluates the RV32I branch predicate for the six
// comparison encodings. Undefined funct3 values (0b010, 0b011) fall
// through to false, matching the unchecked hardware decode.
func BranchTaken(funct3 uint8, a, b uint32) bool {
	switch funct3 {
	case insts.Funct3BEQ:
		return a == b
	case insts.Funct3BNE:
		return a != b
	case insts.Funct3BLT:
		return int32(a) < int32(b)
	case insts.Funct3BGE:
		return int32(a) >= int32(b)
	case insts.Funct3BLTU:
		return a < b
	case insts.Funct3BGEU:
		return a >= b
	default:
		return false
	}
}
