// Package emu provides functional RV32I emulation.
package emu

import (
	"fmt"

	"github.com/sarchlab/rv32sim/insts"
)

// StepResult represents the result of executing a single instruction.
type StepResult struct {
	// Exited is true if the program halted via the EBREAK convention.
	Exited bool

	// ExitCode is the value of a0 (x10) at the halt point.
	ExitCode int32

	// Err is set if execution could not proceed (e.g. the instruction
	// limit was reached). The core architecture itself never faults.
	Err error
}

// Emulator executes RV32I instructions functionally, one instruction
// per step. It serves as the golden model the cycle-accurate core is
// validated against.
type Emulator struct {
	regFile *RegFile
	memory  *Memory
	decoder *insts.Decoder

	// Execution units
	alu *ALU
	lsu *LoadStoreUnit

	// Execution state
	instructionCount uint64
	maxInstructions  uint64 // 0 means no limit
}

// EmulatorOption is a functional option for configuring the Emulator.
type EmulatorOption func(*Emulator)

// WithMemory supplies a pre-populated memory instead of a fresh one.
func WithMemory(memory *Memory) EmulatorOption {
	return func(e *Emulator) {
		e.memory = memory
	}
}

// WithMaxInstructions sets the maximum number of instructions to
// execute. A value of 0 means no limit.
func WithMaxInstructions(max uint64) EmulatorOption {
	return func(e *Emulator) {
		e.maxInstructions = max
	}
}

// NewEmulator creates a new RV32I emulator.
func NewEmulator(opts ...EmulatorOption) *Emulator {
	e := &Emulator{
		regFile: &RegFile{},
		memory:  NewMemory(),
		decoder: insts.NewDecoder(),
	}

	for _, opt := range opts {
		opt(e)
	}

	e.alu = NewALU(e.regFile)
	e.lsu = NewLoadStoreUnit(e.regFile, e.memory)

	return e
}

// RegFile returns the emulator's register file.
func (e *Emulator) RegFile() *RegFile {
	return e.regFile
}

// Memory returns the emulator's memory.
func (e *Emulator) Memory() *Memory {
	return e.memory
}

// InstructionCount returns the number of instructions executed.
func (e *Emulator) InstructionCount() uint64 {
	return e.instructionCount
}

// LoadProgram loads a program image into memory and sets the PC to the
// entry point.
func (e *Emulator) LoadProgram(entry uint32, program []byte) {
	e.memory.LoadProgram(entry, program)
	e.regFile.PC = entry
}

// Reset clears all architectural state.
func (e *Emulator) Reset() {
	e.regFile = &RegFile{}
	e.memory = NewMemory()
	e.instructionCount = 0

	e.alu = NewALU(e.regFile)
	e.lsu = NewLoadStoreUnit(e.regFile, e.memory)
}

// Step executes a single instruction.
func (e *Emulator) Step() StepResult {
	if e.maxInstructions > 0 && e.instructionCount >= e.maxInstructions {
		return StepResult{
			Err: fmt.Errorf("max instructions reached at PC=0x%X", e.regFile.PC),
		}
	}

	// 1. Fetch: read the aligned word at PC
	word := e.memory.Read32(e.regFile.PC &^ 3)

	// 2. Decode
	inst := e.decoder.Decode(word)

	// 3. Execute
	result := e.execute(inst)

	e.instructionCount++

	return result
}

// Run executes instructions until the program halts or an error occurs.
// Returns the exit code (-1 on error).
func (e *Emulator) Run() int32 {
	for {
		result := e.Step()
		if result.Exited {
			return result.ExitCode
		}
		if result.Err != nil {
			return -1
		}
	}
}

// execute dispatches and executes a decoded instruction.
//
// There is no illegal-instruction path: ClassUnknown executes as a
// register-register ALU operation, reproducing the deterministic
// fall-through of the unchecked hardware decode.
func (e *Emulator) execute(inst *insts.Instruction) StepResult {
	pc := e.regFile.PC

	switch inst.Class {
	case insts.ClassLoad:
		e.lsu.Load(inst.Rd, inst.Rs1, inst.ImmI, inst.Funct3)
	case insts.ClassStore:
		e.lsu.Store(inst.Rs1, inst.Rs2, inst.ImmS, inst.Funct3)
	case insts.ClassALUImm:
		e.alu.OpImm(inst.Rd, inst.Rs1, inst.ImmI, inst.Funct3, inst.Bit30)
	case insts.ClassALUReg, insts.ClassUnknown:
		e.alu.Op(inst.Rd, inst.Rs1, inst.Rs2, inst.Funct3, inst.Bit30)
	case insts.ClassLUI:
		e.regFile.WriteReg(inst.Rd, inst.ImmU)
	case insts.ClassAUIPC:
		e.regFile.WriteReg(inst.Rd, pc+inst.ImmU)
	case insts.ClassJAL:
		e.regFile.WriteReg(inst.Rd, pc+4)
		e.regFile.PC = pc + uint32(inst.ImmJ)
		return StepResult{}
	case insts.ClassJALR:
		target := (e.regFile.ReadReg(inst.Rs1) + uint32(inst.ImmI)) &^ 1
		e.regFile.WriteReg(inst.Rd, pc+4)
		e.regFile.PC = target
		return StepResult{}
	case insts.ClassBranch:
		a := e.regFile.ReadReg(inst.Rs1)
		b := e.regFile.ReadReg(inst.Rs2)
		if BranchTaken(inst.Funct3, a, b) {
			e.regFile.PC = pc + uint32(inst.ImmB)
		} else {
			e.regFile.PC = pc + 4
		}
		return StepResult{}
	case insts.ClassSystem:
		if inst.IsEBreak() {
			e.regFile.PC = pc + 4
			return StepResult{
				Exited:   true,
				ExitCode: int32(e.regFile.ReadReg(10)),
			}
		}
		// The only other SYSTEM behavior is reading the cycle counter.
		// The functional model counts retired instructions.
		e.regFile.WriteReg(inst.Rd, uint32(e.instructionCount))
	}

	e.regFile.PC = pc + 4

	return StepResult{}
}
