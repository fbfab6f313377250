// Package insts provides RV32I instruction definitions and decoding.
package insts

// Instruction encoders, the inverse of the decoder's immediate
// splitters. They exist for building test programs and benchmarks
// without an external assembler; immediates are truncated to the field
// widths the formats carry.

// encodeR assembles an R-type instruction.
func encodeR(opcode, funct3, funct7 uint32, rd, rs1, rs2 uint8) uint32 {
	return funct7<<25 | uint32(rs2&0x1F)<<20 | uint32(rs1&0x1F)<<15 |
		funct3<<12 | uint32(rd&0x1F)<<7 | opcode<<2 | 0b11
}

// encodeI assembles an I-type instruction.
func encodeI(opcode, funct3 uint32, rd, rs1 uint8, imm int32) uint32 {
	return uint32(imm&0xFFF)<<20 | uint32(rs1&0x1F)<<15 |
		funct3<<12 | uint32(rd&0x1F)<<7 | opcode<<2 | 0b11
}

// encodeS assembles an S-type instruction.
func encodeS(opcode, funct3 uint32, rs1, rs2 uint8, imm int32) uint32 {
	return uint32((imm>>5)&0x7F)<<25 | uint32(rs2&0x1F)<<20 |
		uint32(rs1&0x1F)<<15 | funct3<<12 |
		uint32(imm&0x1F)<<7 | opcode<<2 | 0b11
}

// encodeB assembles a B-type instruction. imm must be even.
func encodeB(funct3 uint32, rs1, rs2 uint8, imm int32) uint32 {
	return uint32((imm>>12)&0x1)<<31 | uint32((imm>>5)&0x3F)<<25 |
		uint32(rs2&0x1F)<<20 | uint32(rs1&0x1F)<<15 | funct3<<12 |
		uint32((imm>>1)&0xF)<<8 | uint32((imm>>11)&0x1)<<7 |
		opcodeBranch<<2 | 0b11
}

// encodeU assembles a U-type instruction. imm supplies bits [31:12].
func encodeU(opcode uint32, rd uint8, imm uint32) uint32 {
	return imm&0xFFFFF000 | uint32(rd&0x1F)<<7 | opcode<<2 | 0b11
}

// encodeJ assembles a J-type instruction. imm must be even.
func encodeJ(rd uint8, imm int32) uint32 {
	return uint32((imm>>20)&0x1)<<31 | uint32((imm>>1)&0x3FF)<<21 |
		uint32((imm>>11)&0x1)<<20 | uint32((imm>>12)&0xFF)<<12 |
		uint32(rd&0x1F)<<7 | opcodeJAL<<2 | 0b11
}

// ADDI encodes addi rd, rs1, imm.
func ADDI(rd, rs1 uint8, imm int32) uint32 { return encodeI(opcodeALUImm, Funct3ADD, rd, rs1, imm) }

// SLTI encodes slti rd, rs1, imm.
func SLTI(rd, rs1 uint8, imm int32) uint32 { return encodeI(opcodeALUImm, Funct3SLT, rd, rs1, imm) }

// SLTIU encodes sltiu rd, rs1, imm.
func SLTIU(rd, rs1 uint8, imm int32) uint32 { return encodeI(opcodeALUImm, Funct3SLTU, rd, rs1, imm) }

// XORI encodes xori rd, rs1, imm.
func XORI(rd, rs1 uint8, imm int32) uint32 { return encodeI(opcodeALUImm, Funct3XOR, rd, rs1, imm) }

// ORI encodes ori rd, rs1, imm.
func ORI(rd, rs1 uint8, imm int32) uint32 { return encodeI(opcodeALUImm, Funct3OR, rd, rs1, imm) }

// ANDI encodes andi rd, rs1, imm.
func ANDI(rd, rs1 uint8, imm int32) uint32 { return encodeI(opcodeALUImm, Funct3AND, rd, rs1, imm) }

// SLLI encodes slli rd, rs1, shamt.
func SLLI(rd, rs1, shamt uint8) uint32 {
	return encodeI(opcodeALUImm, Funct3SLL, rd, rs1, int32(shamt&31))
}

// SRLI encodes srli rd, rs1, shamt.
func SRLI(rd, rs1, shamt uint8) uint32 {
	return encodeI(opcodeALUImm, Funct3SR, rd, rs1, int32(shamt&31))
}

// SRAI encodes srai rd, rs1, shamt.
func SRAI(rd, rs1, shamt uint8) uint32 {
	return encodeI(opcodeALUImm, Funct3SR, rd, rs1, int32(shamt&31)|0x400)
}

// ADD encodes add rd, rs1, rs2.
func ADD(rd, rs1, rs2 uint8) uint32 { return encodeR(opcodeALUReg, Funct3ADD, 0, rd, rs1, rs2) }

// SUB encodes sub rd, rs1, rs2.
func SUB(rd, rs1, rs2 uint8) uint32 { return encodeR(opcodeALUReg, Funct3ADD, 0x20, rd, rs1, rs2) }

// SLL encodes sll rd, rs1, rs2.
func SLL(rd, rs1, rs2 uint8) uint32 { return encodeR(opcodeALUReg, Funct3SLL, 0, rd, rs1, rs2) }

// SLT encodes slt rd, rs1, rs2.
func SLT(rd, rs1, rs2 uint8) uint32 { return encodeR(opcodeALUReg, Funct3SLT, 0, rd, rs1, rs2) }

// SLTU encodes sltu rd, rs1, rs2.
func SLTU(rd, rs1, rs2 uint8) uint32 { return encodeR(opcodeALUReg, Funct3SLTU, 0, rd, rs1, rs2) }

// XOR encodes xor rd, rs1, rs2.
func XOR(rd, rs1, rs2 uint8) uint32 { return encodeR(opcodeALUReg, Funct3XOR, 0, rd, rs1, rs2) }

// SRL encodes srl rd, rs1, rs2.
func SRL(rd, rs1, rs2 uint8) uint32 { return encodeR(opcodeALUReg, Funct3SR, 0, rd, rs1, rs2) }

// SRA encodes sra rd, rs1, rs2.
func SRA(rd, rs1, rs2 uint8) uint32 { return encodeR(opcodeALUReg, Funct3SR, 0x20, rd, rs1, rs2) }

// OR encodes or rd, rs1, rs2.
func OR(rd, rs1, rs2 uint8) uint32 { return encodeR(opcodeALUReg, Funct3OR, 0, rd, rs1, rs2) }

// AND encodes and rd, rs1, rs2.
func AND(rd, rs1, rs2 uint8) uint32 { return encodeR(opcodeALUReg, Funct3AND, 0, rd, rs1, rs2) }

// LUI encodes lui rd, imm where imm supplies bits [31:12].
func LUI(rd uint8, imm uint32) uint32 { return encodeU(opcodeLUI, rd, imm) }

// AUIPC encodes auipc rd, imm where imm supplies bits [31:12].
func AUIPC(rd uint8, imm uint32) uint32 { return encodeU(opcodeAUIPC, rd, imm) }

// LB encodes lb rd, offset(rs1).
func LB(rd, rs1 uint8, offset int32) uint32 { return encodeI(opcodeLoad, Funct3Byte, rd, rs1, offset) }

// LH encodes lh rd, offset(rs1).
func LH(rd, rs1 uint8, offset int32) uint32 { return encodeI(opcodeLoad, Funct3Half, rd, rs1, offset) }

// LW encodes lw rd, offset(rs1).
func LW(rd, rs1 uint8, offset int32) uint32 { return encodeI(opcodeLoad, Funct3Word, rd, rs1, offset) }

// LBU encodes lbu rd, offset(rs1).
func LBU(rd, rs1 uint8, offset int32) uint32 {
	return encodeI(opcodeLoad, Funct3ByteU, rd, rs1, offset)
}

// LHU encodes lhu rd, offset(rs1).
func LHU(rd, rs1 uint8, offset int32) uint32 {
	return encodeI(opcodeLoad, Funct3HalfU, rd, rs1, offset)
}

// SB encodes sb rs2, offset(rs1).
func SB(rs1, rs2 uint8, offset int32) uint32 { return encodeS(opcodeStore, Funct3Byte, rs1, rs2, offset) }

// SH encodes sh rs2, offset(rs1).
func SH(rs1, rs2 uint8, offset int32) uint32 { return encodeS(opcodeStore, Funct3Half, rs1, rs2, offset) }

// SW encodes sw rs2, offset(rs1).
func SW(rs1, rs2 uint8, offset int32) uint32 { return encodeS(opcodeStore, Funct3Word, rs1, rs2, offset) }

// BEQ encodes beq rs1, rs2, offset.
func BEQ(rs1, rs2 uint8, offset int32) uint32 { return encodeB(Funct3BEQ, rs1, rs2, offset) }

// BNE encodes bne rs1, rs2, offset.
func BNE(rs1, rs2 uint8, offset int32) uint32 { return encodeB(Funct3BNE, rs1, rs2, offset) }

// BLT encodes blt rs1, rs2, offset.
func BLT(rs1, rs2 uint8, offset int32) uint32 { return encodeB(Funct3BLT, rs1, rs2, offset) }

// BGE encodes bge rs1, rs2, offset.
func BGE(rs1, rs2 uint8, offset int32) uint32 { return encodeB(Funct3BGE, rs1, rs2, offset) }

// BLTU encodes bltu rs1, rs2, offset.
func BLTU(rs1, rs2 uint8, offset int32) uint32 { return encodeB(Funct3BLTU, rs1, rs2, offset) }

// BGEU encodes bgeu rs1, rs2, offset.
func BGEU(rs1, rs2 uint8, offset int32) uint32 { return encodeB(Funct3BGEU, rs1, rs2, offset) }

// JAL encodes jal rd, offset.
func JAL(rd uint8, offset int32) uint32 { return encodeJ(rd, offset) }

// JALR encodes jalr rd, offset(rs1).
func JALR(rd, rs1 uint8, offset int32) uint32 { return encodeI(opcodeJALR, 0, rd, rs1, offset) }

// RDCYCLE encodes the SYSTEM-class cycle counter read into rd.
func RDCYCLE(rd uint8) uint32 { return encodeI(opcodeSystem, 0b010, rd, 0, 0) }

// EBREAK encodes the halt convention instruction.
func EBREAK() uint32 { return encodeI(opcodeSystem, 0, 0, 0, 1) }

// NOP encodes addi x0, x0, 0.
func NOP() uint32 { return ADDI(0, 0, 0) }
