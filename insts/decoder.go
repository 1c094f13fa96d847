package insts

import "github.com/xpivx-reader/RISC-V-CPU-SIM/bits"

// Decoder decodes RV32I machine code into Instruction records.
type Decoder struct{}

// NewDecoder creates a new RV32I instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode parses a 32-bit instruction word into its opcode, format, register
// fields, funct codes, and sign-extended immediate, per the RV32I encoding
// (riscv-spec-v2.2, ch. 2). Unknown opcodes decode to Op: OpUnknown,
// Format: FormatUnknown; an undefined funct combination under a known
// opcode decodes to Op: OpUnknown with that opcode's format. The control
// unit reports either as an illegal instruction.
func (d *Decoder) Decode(word uint32) *Instruction {
	inst := &Instruction{Word: word, Op: OpUnknown, Format: FormatUnknown}

	opcode := Opcode(bits.Extract(word, 6, 0))
	inst.Funct3 = uint8(bits.Extract(word, 14, 12))
	inst.Funct7 = uint8(bits.Extract(word, 31, 25))

	switch opcode {
	case OpcodeOp:
		d.decodeR(word, inst)
	case OpcodeOpImm:
		d.decodeOpImm(word, inst)
	case OpcodeLoad:
		d.decodeLoad(word, inst)
	case OpcodeStore:
		d.decodeStore(word, inst)
	case OpcodeBranch:
		d.decodeBranch(word, inst)
	case OpcodeLUI:
		d.decodeU(word, inst)
		inst.Op = OpLUI
	case OpcodeAUIPC:
		d.decodeU(word, inst)
		inst.Op = OpAUIPC
	case OpcodeJAL:
		d.decodeJ(word, inst)
	case OpcodeJALR:
		d.decodeJALR(word, inst)
	case OpcodeSystem:
		d.decodeSystem(word, inst)
	}

	// Register-register ops and immediate shifts define funct7 only as 0x00,
	// or 0x20 for SUB/SRA/SRAI; JALR defines funct3 only as 0.
	usesFunct7 := opcode == OpcodeOp || (opcode == OpcodeOpImm && (inst.Funct3 == 0x1 || inst.Funct3 == 0x5))
	if usesFunct7 && inst.Funct7 != 0x00 && !(inst.Funct7 == 0x20 && (inst.Funct3 == 0x0 || inst.Funct3 == 0x5)) {
		inst.Op = OpUnknown
	}
	if opcode == OpcodeJALR && inst.Funct3 != 0 {
		inst.Op = OpUnknown
	}

	return inst
}

// decodeR decodes the R-type register-register ALU operations.
// Format: funct7[31:25] rs2[24:20] rs1[19:15] funct3[14:12] rd[11:7] opcode[6:0]
func (d *Decoder) decodeR(word uint32, inst *Instruction) {
	inst.Format = FormatR
	inst.Rd = uint8(bits.Extract(word, 11, 7))
	inst.Rs1 = uint8(bits.Extract(word, 19, 15))
	inst.Rs2 = uint8(bits.Extract(word, 24, 20))

	switch inst.Funct3 {
	case 0x0:
		if inst.Funct7 == 0x20 {
			inst.Op = OpSUB
		} else {
			inst.Op = OpADD
		}
	case 0x1:
		inst.Op = OpSLL
	case 0x2:
		inst.Op = OpSLT
	case 0x3:
		inst.Op = OpSLTU
	case 0x4:
		inst.Op = OpXOR
	case 0x5:
		if inst.Funct7 == 0x20 {
			inst.Op = OpSRA
		} else {
			inst.Op = OpSRL
		}
	case 0x6:
		inst.Op = OpOR
	case 0x7:
		inst.Op = OpAND
	}
}

// decodeOpImm decodes the I-type register-immediate ALU operations.
// Format: imm[31:20] rs1[19:15] funct3[14:12] rd[11:7] opcode[6:0]
func (d *Decoder) decodeOpImm(word uint32, inst *Instruction) {
	inst.Format = FormatI
	inst.Rd = uint8(bits.Extract(word, 11, 7))
	inst.Rs1 = uint8(bits.Extract(word, 19, 15))
	inst.Imm = bits.SignExtend(bits.Extract(word, 31, 20), 12)

	switch inst.Funct3 {
	case 0x0:
		inst.Op = OpADDI
	case 0x1:
		inst.Op = OpSLLI
		inst.Imm = bits.Extract(word, 24, 20) // shamt, not sign-extended
	case 0x2:
		inst.Op = OpSLTI
	case 0x3:
		inst.Op = OpSLTIU
	case 0x4:
		inst.Op = OpXORI
	case 0x5:
		inst.Imm = bits.Extract(word, 24, 20) // shamt, not sign-extended
		if inst.Funct7 == 0x20 {
			inst.Op = OpSRAI
		} else {
			inst.Op = OpSRLI
		}
	case 0x6:
		inst.Op = OpORI
	case 0x7:
		inst.Op = OpANDI
	}
}

// decodeLoad decodes the I-type load operations.
// Format: imm[31:20] rs1[19:15] funct3[14:12] rd[11:7] opcode[6:0]
func (d *Decoder) decodeLoad(word uint32, inst *Instruction) {
	inst.Format = FormatI
	inst.Rd = uint8(bits.Extract(word, 11, 7))
	inst.Rs1 = uint8(bits.Extract(word, 19, 15))
	inst.Imm = bits.SignExtend(bits.Extract(word, 31, 20), 12)

	switch inst.Funct3 {
	case 0x0:
		inst.Op = OpLB
	case 0x1:
		inst.Op = OpLH
	case 0x2:
		inst.Op = OpLW
	case 0x4:
		inst.Op = OpLBU
	case 0x5:
		inst.Op = OpLHU
	}
}

// decodeStore decodes the S-type store operations.
// Format: imm[31:25] rs2[24:20] rs1[19:15] funct3[14:12] imm[11:7] opcode[6:0]
func (d *Decoder) decodeStore(word uint32, inst *Instruction) {
	inst.Format = FormatS
	inst.Rs1 = uint8(bits.Extract(word, 19, 15))
	inst.Rs2 = uint8(bits.Extract(word, 24, 20))

	imm := bits.Place(bits.Extract(word, 31, 25), 5) | bits.Extract(word, 11, 7)
	inst.Imm = bits.SignExtend(imm, 12)

	switch inst.Funct3 {
	case 0x0:
		inst.Op = OpSB
	case 0x1:
		inst.Op = OpSH
	case 0x2:
		inst.Op = OpSW
	}
}

// decodeBranch decodes the B-type conditional branch operations.
// Format: imm[12|10:5] rs2 rs1 funct3 imm[4:1|11] opcode
func (d *Decoder) decodeBranch(word uint32, inst *Instruction) {
	inst.Format = FormatB
	inst.Rs1 = uint8(bits.Extract(word, 19, 15))
	inst.Rs2 = uint8(bits.Extract(word, 24, 20))

	imm := bits.Place(bits.Extract(word, 31, 31), 12) |
		bits.Place(bits.Extract(word, 7, 7), 11) |
		bits.Place(bits.Extract(word, 30, 25), 5) |
		bits.Place(bits.Extract(word, 11, 8), 1)
	inst.Imm = bits.SignExtend(imm, 13)

	switch inst.Funct3 {
	case 0x0:
		inst.Op = OpBEQ
	case 0x1:
		inst.Op = OpBNE
	case 0x4:
		inst.Op = OpBLT
	case 0x5:
		inst.Op = OpBGE
	case 0x6:
		inst.Op = OpBLTU
	case 0x7:
		inst.Op = OpBGEU
	}
}

// decodeU decodes the U-type upper-immediate operations (LUI, AUIPC).
// Format: imm[31:12] rd[11:7] opcode[6:0]
func (d *Decoder) decodeU(word uint32, inst *Instruction) {
	inst.Format = FormatU
	inst.Rd = uint8(bits.Extract(word, 11, 7))
	inst.Imm = bits.Place(bits.Extract(word, 31, 12), 12)
}

// decodeJ decodes JAL.
// Format: imm[20|10:1|11|19:12] rd[11:7] opcode[6:0]
func (d *Decoder) decodeJ(word uint32, inst *Instruction) {
	inst.Format = FormatJ
	inst.Rd = uint8(bits.Extract(word, 11, 7))

	imm := bits.Place(bits.Extract(word, 31, 31), 20) |
		bits.Place(bits.Extract(word, 19, 12), 12) |
		bits.Place(bits.Extract(word, 20, 20), 11) |
		bits.Place(bits.Extract(word, 30, 21), 1)
	inst.Imm = bits.SignExtend(imm, 21)
	inst.Op = OpJAL
}

// decodeJALR decodes JALR, an I-type instruction.
// Format: imm[31:20] rs1[19:15] funct3[14:12] rd[11:7] opcode[6:0]
func (d *Decoder) decodeJALR(word uint32, inst *Instruction) {
	inst.Format = FormatI
	inst.Rd = uint8(bits.Extract(word, 11, 7))
	inst.Rs1 = uint8(bits.Extract(word, 19, 15))
	inst.Imm = bits.SignExtend(bits.Extract(word, 31, 20), 12)
	inst.Op = OpJALR
}

// decodeSystem decodes the SYSTEM opcode. Only EBREAK is supported; any
// other SYSTEM encoding decodes to OpUnknown.
func (d *Decoder) decodeSystem(word uint32, inst *Instruction) {
	imm12 := bits.Extract(word, 31, 20)
	rs1 := bits.Extract(word, 19, 15)
	rd := bits.Extract(word, 11, 7)

	if inst.Funct3 == 0 && imm12 == 1 && rs1 == 0 && rd == 0 {
		inst.Format = FormatI
		inst.Op = OpEBREAK
	}
}
