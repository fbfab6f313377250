// Package insts provides RV32I instruction definitions and decoding.
package insts

// Class represents an RV32I opcode class.
//
// The classes are mutually exclusive and correspond to the 5-bit opcode
// field in bits [6:2] of the instruction word.
type Class uint8

// RV32I opcode classes.
const (
	ClassUnknown Class = iota
	ClassLoad          // LB, LH, LW, LBU, LHU
	ClassALUImm        // ADDI, SLTI, SLTIU, XORI, ORI, ANDI, SLLI, SRLI, SRAI
	ClassAUIPC         // AUIPC
	ClassStore         // SB, SH, SW
	ClassALUReg        // ADD, SUB, SLL, SLT, SLTU, XOR, SRL, SRA, OR, AND
	ClassLUI           // LUI
	ClassBranch        // BEQ, BNE, BLT, BGE, BLTU, BGEU
	ClassJALR          // JALR
	ClassJAL           // JAL
	ClassSystem        // cycle-counter read, EBREAK
)

// Opcode field values (instruction bits [6:2]).
const (
	opcodeLoad   = 0b00000
	opcodeALUImm = 0b00100
	opcodeAUIPC  = 0b00101
	opcodeStore  = 0b01000
	opcodeALUReg = 0b01100
	opcodeLUI    = 0b01101
	opcodeBranch = 0b11000
	opcodeJALR   = 0b11001
	opcodeJAL    = 0b11011
	opcodeSystem = 0b11100
)

// Funct3 values for the branch class.
const (
	Funct3BEQ  = 0b000
	Funct3BNE  = 0b001
	Funct3BLT  = 0b100
	Funct3BGE  = 0b101
	Funct3BLTU = 0b110
	Funct3BGEU = 0b111
)

// Funct3 values for the ALU classes.
const (
	Funct3ADD  = 0b000 // ADD/SUB selected by Bit30 for ClassALUReg
	Funct3SLL  = 0b001
	Funct3SLT  = 0b010
	Funct3SLTU = 0b011
	Funct3XOR  = 0b100
	Funct3SR   = 0b101 // SRL/SRA selected by Bit30
	Funct3OR   = 0b110
	Funct3AND  = 0b111
)

// Funct3 values for the load/store classes (access width and extension).
const (
	Funct3Byte  = 0b000 // LB, SB
	Funct3Half  = 0b001 // LH, SH
	Funct3Word  = 0b010 // LW, SW
	Funct3ByteU = 0b100 // LBU
	Funct3HalfU = 0b101 // LHU
)

// Instruction represents a decoded RV32I instruction.
//
// All immediate variants are decoded unconditionally; the consumer picks
// the one its opcode class calls for, mirroring the hardware immediate
// multiplexer.
type Instruction struct {
	Class Class // Opcode class

	Rd     uint8 // Destination register
	Rs1    uint8 // First source register
	Rs2    uint8 // Second source register
	Funct3 uint8 // 3-bit function code
	Bit30  bool  // funct7 bit 5: SUB vs ADD, SRA vs SRL

	ImmI int32  // I-type immediate, sign-extended
	ImmS int32  // S-type immediate, sign-extended
	ImmB int32  // B-type immediate, sign-extended, bit 0 zero
	ImmJ int32  // J-type immediate, sign-extended, bit 0 zero
	ImmU uint32 // U-type immediate, low 12 bits zero
}

// IsEBreak reports whether the instruction is the EBREAK encoding
// (SYSTEM class, funct3 0, immediate 1). The hardware has no trap for
// it; the simulator harness uses it as a halt convention.
func (i *Instruction) IsEBreak() bool {
	return i.Class == ClassSystem && i.Funct3 == 0 && i.ImmI == 1
}

// WritesRegister reports whether the instruction produces an
// architectural register result. Branches and stores are the only
// classes that do not.
func (i *Instruction) WritesRegister() bool {
	return i.Class != ClassBranch && i.Class != ClassStore
}

// Decoder decodes RV32I machine code into instructions.
type Decoder struct{}

// NewDecoder creates a new RV32I instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode decodes a 32-bit RV32I instruction word.
//
// Decoding never fails: a word whose opcode field matches none of the
// defined classes is returned as ClassUnknown with all fields extracted
// as usual, preserving the unchecked fall-through behavior of the
// source core.
func (d *Decoder) Decode(word uint32) *Instruction {
	inst := &Instruction{
		Rd:     Rd(word),
		Rs1:    Rs1(word),
		Rs2:    Rs2(word),
		Funct3: uint8((word >> 12) & 0x7), // bits [14:12]
		Bit30:  (word>>30)&0x1 == 1,
		ImmI:   ImmI(word),
		ImmS:   ImmS(word),
		ImmB:   ImmB(word),
		ImmJ:   ImmJ(word),
		ImmU:   ImmU(word),
	}

	switch (word >> 2) & 0x1F { // bits [6:2]
	case opcodeLoad:
		inst.Class = ClassLoad
	case opcodeALUImm:
		inst.Class = ClassALUImm
	case opcodeAUIPC:
		inst.Class = ClassAUIPC
	case opcodeStore:
		inst.Class = ClassStore
	case opcodeALUReg:
		inst.Class = ClassALUReg
	case opcodeLUI:
		inst.Class = ClassLUI
	case opcodeBranch:
		inst.Class = ClassBranch
	case opcodeJALR:
		inst.Class = ClassJALR
	case opcodeJAL:
		inst.Class = ClassJAL
	case opcodeSystem:
		inst.Class = ClassSystem
	default:
		inst.Class = ClassUnknown
	}

	return inst
}

// Rd extracts the destination register index (bits [11:7]).
func Rd(word uint32) uint8 {
	return uint8((word >> 7) & 0x1F)
}

// Rs1 extracts the first source register index (bits [19:15]).
func Rs1(word uint32) uint8 {
	return uint8((word >> 15) & 0x1F)
}

// Rs2 extracts the second source register index (bits [24:20]).
func Rs2(word uint32) uint8 {
	return uint8((word >> 20) & 0x1F)
}

// ImmI extracts the I-type immediate, sign-extended to 32 bits.
// Format: imm[11:0] = word[31:20]
func ImmI(word uint32) int32 {
	return int32(word) >> 20
}

// ImmS extracts the S-type immediate, sign-extended to 32 bits.
// Format: imm[11:5] = word[31:25], imm[4:0] = word[11:7]
func ImmS(word uint32) int32 {
	return (int32(word)>>25)<<5 | int32((word>>7)&0x1F)
}

// ImmB extracts the B-type immediate, sign-extended to 32 bits.
// Format: imm[12] = word[31], imm[11] = word[7],
// imm[10:5] = word[30:25], imm[4:1] = word[11:8], imm[0] = 0
func ImmB(word uint32) int32 {
	imm := (int32(word)>>31)<<12 |
		int32((word>>7)&0x1)<<11 |
		int32((word>>25)&0x3F)<<5 |
		int32((word>>8)&0xF)<<1
	return imm
}

// ImmJ extracts the J-type immediate, sign-extended to 32 bits.
// Format: imm[20] = word[31], imm[19:12] = word[19:12],
// imm[11] = word[20], imm[10:1] = word[30:21], imm[0] = 0
func ImmJ(word uint32) int32 {
	imm := (int32(word)>>31)<<20 |
		int32((word>>12)&0xFF)<<12 |
		int32((word>>20)&0x1)<<11 |
		int32((word>>21)&0x3FF)<<1
	return imm
}

// ImmU extracts the U-type immediate: word[31:12] with the low 12 bits
// zero-filled.
func ImmU(word uint32) uint32 {
	return word & 0xFFFFF000
}

// String returns the class mnemonic.
func (c Class) String() string {
	switch c {
	case ClassLoad:
		return "LOAD"
	case ClassALUImm:
		return "OP-IMM"
	case ClassAUIPC:
		return "AUIPC"
	case ClassStore:
		return "STORE"
	case ClassALUReg:
		return "OP"
	case ClassLUI:
		return "LUI"
	case ClassBranch:
		return "BRANCH"
	case ClassJALR:
		return "JALR"
	case ClassJAL:
		return "JAL"
	case ClassSystem:
		return "SYSTEM"
	default:
		return "UNKNOWN"
	}
}
