// Package insts provides RV32I instruction definitions and decoding.
//
// This package implements decoding of RV32I machine code into structured
// instruction representations. Decoding is a pure function of the 32-bit
// instruction word: it extracts the opcode class, register indices, the
// 3-bit function code, the funct7 alternate-operation bit, and all five
// immediate encodings (I/S/B/J sign-extended, U with zero-filled low bits).
//
// Decoding is deliberately unchecked, matching the source hardware: an
// opcode pattern that matches no defined class falls through to
// ClassUnknown and still carries deterministic field values. No
// illegal-instruction error is ever reported.
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	inst := decoder.Decode(0x00108093) // ADDI x1, x1, 1
//	fmt.Printf("Class: %v, Rd: %d, Rs1: %d, Imm: %d\n", inst.Class, inst.Rd, inst.Rs1, inst.ImmI)
package insts
