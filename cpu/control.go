package cpu

import "github.com/xpivx-reader/RISC-V-CPU-SIM/insts"

// WBSrc selects which value the writeback stage commits to the
// destination register.
type WBSrc uint8

// Writeback sources.
const (
	WBSrcALU  WBSrc = iota // ALU result (arithmetic, logic, shifts, SLT)
	WBSrcMem               // loaded memory value
	WBSrcPC4               // PC + 4 (JAL, JALR link value)
	WBSrcImm               // the decoded immediate itself (LUI)
)

// MemWidth selects the access width of a load or store.
type MemWidth uint8

// Memory access widths.
const (
	WidthByte MemWidth = iota
	WidthHalf
	WidthWord
)

// ControlFlags is the full set of per-instruction control signals the
// control unit derives from a decoded instruction. The execute, memory
// and writeback stages act purely on these flags; none of them inspect
// the instruction's opcode or funct fields directly.
type ControlFlags struct {
	ALUOp   ALUOp
	CMPOp   CMPOp
	ALUSrcA bool // true: operand A is PC; false: operand A is rs1
	ALUSrcB bool // true: operand B is the immediate; false: operand B is rs2

	IsBranch bool // conditional branch: evaluate CMP, target on taken
	IsJump   bool // unconditional jump (JAL/JALR): always redirects control flow

	MemRead  bool
	MemWrite bool
	MemWidth MemWidth
	MemSigned bool

	RegWrite bool
	WBSrc    WBSrc

	Illegal bool // unknown or malformed instruction
	Halt    bool // EBREAK
}

// ControlUnit derives ControlFlags from a decoded instruction. It holds
// no state of its own; Decode is a pure function of its input.
type ControlUnit struct{}

// NewControlUnit creates a control unit.
func NewControlUnit() *ControlUnit {
	return &ControlUnit{}
}

// Decode derives the control signals for inst.
func (c *ControlUnit) Decode(inst *insts.Instruction) ControlFlags {
	switch inst.Op {
	case insts.OpADD:
		return ControlFlags{ALUOp: ALUAdd, RegWrite: true, WBSrc: WBSrcALU}
	case insts.OpSUB:
		return ControlFlags{ALUOp: ALUSub, RegWrite: true, WBSrc: WBSrcALU}
	case insts.OpXOR:
		return ControlFlags{ALUOp: ALUXor, RegWrite: true, WBSrc: WBSrcALU}
	case insts.OpOR:
		return ControlFlags{ALUOp: ALUOr, RegWrite: true, WBSrc: WBSrcALU}
	case insts.OpAND:
		return ControlFlags{ALUOp: ALUAnd, RegWrite: true, WBSrc: WBSrcALU}
	case insts.OpSLL:
		return ControlFlags{ALUOp: ALUSll, RegWrite: true, WBSrc: WBSrcALU}
	case insts.OpSRL:
		return ControlFlags{ALUOp: ALUSrl, RegWrite: true, WBSrc: WBSrcALU}
	case insts.OpSRA:
		return ControlFlags{ALUOp: ALUSra, RegWrite: true, WBSrc: WBSrcALU}
	case insts.OpSLT:
		return ControlFlags{ALUOp: ALUSlt, RegWrite: true, WBSrc: WBSrcALU}
	case insts.OpSLTU:
		return ControlFlags{ALUOp: ALUSltu, RegWrite: true, WBSrc: WBSrcALU}

	case insts.OpADDI:
		return ControlFlags{ALUOp: ALUAdd, ALUSrcB: true, RegWrite: true, WBSrc: WBSrcALU}
	case insts.OpXORI:
		return ControlFlags{ALUOp: ALUXor, ALUSrcB: true, RegWrite: true, WBSrc: WBSrcALU}
	case insts.OpORI:
		return ControlFlags{ALUOp: ALUOr, ALUSrcB: true, RegWrite: true, WBSrc: WBSrcALU}
	case insts.OpANDI:
		return ControlFlags{ALUOp: ALUAnd, ALUSrcB: true, RegWrite: true, WBSrc: WBSrcALU}
	case insts.OpSLLI:
		return ControlFlags{ALUOp: ALUSll, ALUSrcB: true, RegWrite: true, WBSrc: WBSrcALU}
	case insts.OpSRLI:
		return ControlFlags{ALUOp: ALUSrl, ALUSrcB: true, RegWrite: true, WBSrc: WBSrcALU}
	case insts.OpSRAI:
		return ControlFlags{ALUOp: ALUSra, ALUSrcB: true, RegWrite: true, WBSrc: WBSrcALU}
	case insts.OpSLTI:
		return ControlFlags{ALUOp: ALUSlt, ALUSrcB: true, RegWrite: true, WBSrc: WBSrcALU}
	case insts.OpSLTIU:
		return ControlFlags{ALUOp: ALUSltu, ALUSrcB: true, RegWrite: true, WBSrc: WBSrcALU}

	case insts.OpLB:
		return ControlFlags{ALUOp: ALUAdd, ALUSrcB: true, MemRead: true, MemWidth: WidthByte, MemSigned: true, RegWrite: true, WBSrc: WBSrcMem}
	case insts.OpLH:
		return ControlFlags{ALUOp: ALUAdd, ALUSrcB: true, MemRead: true, MemWidth: WidthHalf, MemSigned: true, RegWrite: true, WBSrc: WBSrcMem}
	case insts.OpLW:
		return ControlFlags{ALUOp: ALUAdd, ALUSrcB: true, MemRead: true, MemWidth: WidthWord, RegWrite: true, WBSrc: WBSrcMem}
	case insts.OpLBU:
		return ControlFlags{ALUOp: ALUAdd, ALUSrcB: true, MemRead: true, MemWidth: WidthByte, RegWrite: true, WBSrc: WBSrcMem}
	case insts.OpLHU:
		return ControlFlags{ALUOp: ALUAdd, ALUSrcB: true, MemRead: true, MemWidth: WidthHalf, RegWrite: true, WBSrc: WBSrcMem}

	case insts.OpSB:
		return ControlFlags{ALUOp: ALUAdd, ALUSrcB: true, MemWrite: true, MemWidth: WidthByte}
	case insts.OpSH:
		return ControlFlags{ALUOp: ALUAdd, ALUSrcB: true, MemWrite: true, MemWidth: WidthHalf}
	case insts.OpSW:
		return ControlFlags{ALUOp: ALUAdd, ALUSrcB: true, MemWrite: true, MemWidth: WidthWord}

	case insts.OpBEQ:
		return ControlFlags{ALUOp: ALUAdd, ALUSrcA: true, ALUSrcB: true, CMPOp: CMPEq, IsBranch: true}
	case insts.OpBNE:
		return ControlFlags{ALUOp: ALUAdd, ALUSrcA: true, ALUSrcB: true, CMPOp: CMPNe, IsBranch: true}
	case insts.OpBLT:
		return ControlFlags{ALUOp: ALUAdd, ALUSrcA: true, ALUSrcB: true, CMPOp: CMPLt, IsBranch: true}
	case insts.OpBGE:
		return ControlFlags{ALUOp: ALUAdd, ALUSrcA: true, ALUSrcB: true, CMPOp: CMPGe, IsBranch: true}
	case insts.OpBLTU:
		return ControlFlags{ALUOp: ALUAdd, ALUSrcA: true, ALUSrcB: true, CMPOp: CMPLtu, IsBranch: true}
	case insts.OpBGEU:
		return ControlFlags{ALUOp: ALUAdd, ALUSrcA: true, ALUSrcB: true, CMPOp: CMPGeu, IsBranch: true}

	case insts.OpLUI:
		return ControlFlags{RegWrite: true, WBSrc: WBSrcImm}
	case insts.OpAUIPC:
		return ControlFlags{ALUOp: ALUAdd, ALUSrcA: true, ALUSrcB: true, RegWrite: true, WBSrc: WBSrcALU}

	case insts.OpJAL:
		return ControlFlags{ALUOp: ALUAdd, ALUSrcA: true, ALUSrcB: true, IsJump: true, RegWrite: true, WBSrc: WBSrcPC4}
	case insts.OpJALR:
		return ControlFlags{ALUOp: ALUAdd, ALUSrcB: true, IsJump: true, RegWrite: true, WBSrc: WBSrcPC4}

	case insts.OpEBREAK:
		return ControlFlags{Halt: true}

	default:
		return ControlFlags{Illegal: true}
	}
}
