// Package benchmarks provides small encoded RV32I programs and a
// harness for comparing the cycle-accurate core against the functional
// golden model.
package benchmarks

import (
	"encoding/binary"

	"github.com/sarchlab/rv32sim/emu"
	"github.com/sarchlab/rv32sim/insts"
)

// Benchmark is one self-contained test program. Programs end with
// EBREAK and leave their result in a0 (x10).
type Benchmark struct {
	Name        string
	Description string
	// Setup primes architectural state before execution.
	Setup func(regFile *emu.RegFile, memory *emu.Memory)
	// Program is the little-endian instruction stream.
	Program []byte
	// ExpectedExit is the a0 value at the EBREAK.
	ExpectedExit int32
}

// BuildProgram packs instruction words into a little-endian byte
// stream.
func BuildProgram(words ...uint32) []byte {
	program := make([]byte, 4*len(words))
	for i, w := range words {
		binary.LittleEndian.PutUint32(program[4*i:], w)
	}
	return program
}

// GetMicrobenchmarks returns the standard benchmark set. Each one
// stresses a different corner of the core: plain ALU sequencing, the
// multi-cycle shifter, byte-lane memory access, branches, and calls.
func GetMicrobenchmarks() []Benchmark {
	return []Benchmark{
		arithmeticSequential(),
		shiftHeavy(),
		memoryRoundTrip(),
		countdownLoop(),
		functionCall(),
		byteLanes(),
	}
}

// arithmeticSequential chains twenty dependent ADDIs.
func arithmeticSequential() Benchmark {
	words := make([]uint32, 0, 22)
	for i := 0; i < 20; i++ {
		words = append(words, insts.ADDI(10, 10, 1))
	}
	words = append(words, insts.EBREAK())

	return Benchmark{
		Name:         "arithmetic_sequential",
		Description:  "20 dependent ADDIs on a0",
		Program:      BuildProgram(words...),
		ExpectedExit: 20,
	}
}

// shiftHeavy exercises the multi-cycle shifter in both directions,
// including sign replication.
func shiftHeavy() Benchmark {
	return Benchmark{
		Name:        "shift_heavy",
		Description: "left/right/arithmetic shifts through the multi-cycle shifter",
		Program: BuildProgram(
			insts.ADDI(5, 0, 1),    // x5 = 1
			insts.SLLI(5, 5, 31),   // x5 = 0x80000000
			insts.SRAI(6, 5, 31),   // x6 = 0xFFFFFFFF (sign replicated)
			insts.SRLI(7, 5, 31),   // x7 = 1
			insts.ADD(10, 6, 7),    // a0 = -1 + 1 = 0
			insts.ADDI(10, 10, 42), // a0 = 42
			insts.EBREAK(),
		),
		ExpectedExit: 42,
	}
}

// memoryRoundTrip stores a constant built from LUI+ADDI and loads it
// back.
func memoryRoundTrip() Benchmark {
	return Benchmark{
		Name:        "memory_round_trip",
		Description: "LUI/ADDI constant, store word, load word back",
		Program: BuildProgram(
			insts.LUI(2, 0x12345000),  // x2 = 0x12345000
			insts.ADDI(2, 2, 0x678),   // x2 = 0x12345678
			insts.ADDI(1, 0, 0x400),   // x1 = 0x400
			insts.SW(1, 2, 0),         // mem[0x400] = x2
			insts.LW(3, 1, 0),         // x3 = mem[0x400]
			insts.XOR(10, 2, 3),       // a0 = 0 if round trip exact
			insts.EBREAK(),
		),
		ExpectedExit: 0,
	}
}

// countdownLoop runs a five-iteration BNE loop.
func countdownLoop() Benchmark {
	return Benchmark{
		Name:        "countdown_loop",
		Description: "BNE loop decrementing x3 from 5 to 0",
		Program: BuildProgram(
			insts.ADDI(3, 0, 5),     // x3 = 5
			insts.ADDI(10, 10, 1),   // loop: a0++
			insts.ADDI(3, 3, -1),    // x3--
			insts.BNE(3, 0, -8),     // repeat while x3 != 0
			insts.EBREAK(),
		),
		ExpectedExit: 5,
	}
}

// functionCall calls a leaf routine through JAL and returns via JALR.
func functionCall() Benchmark {
	return Benchmark{
		Name:        "function_call",
		Description: "JAL into a leaf routine, JALR return",
		Program: BuildProgram(
			insts.JAL(1, 12),       // call +12, ra = pc+4
			insts.ADDI(10, 10, 1),  // a0++ after return
			insts.EBREAK(),
			insts.ADDI(10, 0, 6),   // leaf: a0 = 6
			insts.JALR(0, 1, 0),    // return
		),
		ExpectedExit: 7,
	}
}

// byteLanes stores a word and reads back each byte and halfword lane,
// with sign and zero extension.
func byteLanes() Benchmark {
	return Benchmark{
		Name:        "byte_lanes",
		Description: "sub-word loads across all four byte lanes",
		Setup: func(regFile *emu.RegFile, memory *emu.Memory) {
			memory.Write32(0x200, 0x80FF017F)
		},
		Program: BuildProgram(
			insts.ADDI(1, 0, 0x200),
			insts.LB(2, 1, 0),   // 0x7F  ->  127
			insts.LB(3, 1, 1),   // 0x01  ->  1
			insts.LB(4, 1, 2),   // 0xFF  ->  -1
			insts.LBU(5, 1, 2),  // 0xFF  ->  255
			insts.LB(6, 1, 3),   // 0x80  ->  -128
			insts.LHU(7, 1, 2),  // 0x80FF -> 33023
			insts.ADD(10, 2, 3), // 128
			insts.ADD(10, 10, 4),
			insts.ADD(10, 10, 5), // 382
			insts.ADD(10, 10, 6), // 254
			insts.ADD(10, 10, 7), // 33277
			insts.EBREAK(),
		),
		ExpectedExit: 33277,
	}
}
