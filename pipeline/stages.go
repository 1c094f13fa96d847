package pipeline

import (
	"github.com/xpivx-reader/RISC-V-CPU-SIM/cpu"
	"github.com/xpivx-reader/RISC-V-CPU-SIM/insts"
)

// FetchStage reads the next instruction word from instruction memory.
type FetchStage struct {
	imem *cpu.IMem
}

// NewFetchStage creates a fetch stage backed by imem.
func NewFetchStage(imem *cpu.IMem) *FetchStage {
	return &FetchStage{imem: imem}
}

// Fetch reads the instruction word at byte address pc. ok is false once
// pc runs past the end of the loaded program, signaling end-of-program.
func (f *FetchStage) Fetch(pc uint32) (word uint32, ok bool) {
	return f.imem.Fetch(pc)
}

// DecodeStage parses a fetched instruction word, reads the register file,
// and derives its control signals.
type DecodeStage struct {
	decoder *insts.Decoder
	control *cpu.ControlUnit
	regFile *cpu.RegFile
}

// NewDecodeStage creates a decode stage over the given decoder, control
// unit, and register file.
func NewDecodeStage(decoder *insts.Decoder, control *cpu.ControlUnit, regFile *cpu.RegFile) *DecodeStage {
	return &DecodeStage{decoder: decoder, control: control, regFile: regFile}
}

// DecodeResult is the set of values the decode stage publishes to ID/EX.
type DecodeResult struct {
	Inst   *insts.Instruction
	Flags  cpu.ControlFlags
	Rs1Val uint32
	Rs2Val uint32
}

// Decode parses word, reads rs1/rs2 from the committed register file state,
// and derives control flags. Forwarding is applied by the caller, not here:
// the plain register-file values are always returned, per the hazard unit's
// contract of resolving RAW hazards against the values read in ID.
func (d *DecodeStage) Decode(word uint32) DecodeResult {
	inst := d.decoder.Decode(word)
	flags := d.control.Decode(inst)

	return DecodeResult{
		Inst:   inst,
		Flags:  flags,
		Rs1Val: d.regFile.ReadReg(inst.Rs1),
		Rs2Val: d.regFile.ReadReg(inst.Rs2),
	}
}

// ExecuteStage runs the ALU/CMP and resolves branch and jump targets.
type ExecuteStage struct{}

// NewExecuteStage creates an execute stage.
func NewExecuteStage() *ExecuteStage {
	return &ExecuteStage{}
}

// ExecuteResult is the set of values the execute stage publishes to EX/MEM,
// plus the control-flow resolution the hazard unit consumes the same cycle.
type ExecuteResult struct {
	ALUResult   uint32
	PCPlus4     uint32
	BranchTaken bool
	Target      uint32
}

// Execute computes the ALU result (which doubles as the effective address
// for loads/stores and the branch/jump target for control-flow
// instructions), evaluates the branch condition, and resolves the jump
// target for JAL/JALR.
func (e *ExecuteStage) Execute(idex *IDEXLatch, rs1Val, rs2Val uint32) ExecuteResult {
	opA := rs1Val
	if idex.Flags.ALUSrcA {
		opA = idex.PC
	}
	opB := rs2Val
	if idex.Flags.ALUSrcB {
		opB = idex.Imm
	}

	aluResult := cpu.ALU(idex.Flags.ALUOp, opA, opB)
	if idex.Flags.WBSrc == cpu.WBSrcImm {
		// LUI carries no ALU operation; its result is the raw immediate.
		aluResult = idex.Imm
	}

	result := ExecuteResult{
		ALUResult: aluResult,
		PCPlus4:   idex.PC + 4,
	}

	switch {
	case idex.Flags.IsBranch:
		result.BranchTaken = cpu.CMP(idex.Flags.CMPOp, rs1Val, rs2Val)
		result.Target = result.ALUResult
	case idex.Flags.IsJump:
		result.BranchTaken = true
		if idex.Flags.ALUSrcA {
			// JAL: target is PC-relative, already in ALUResult.
			result.Target = result.ALUResult
		} else {
			// JALR: target is rs1+imm with bit 0 cleared.
			result.Target = result.ALUResult &^ 1
		}
	}

	return result
}

// MemoryStage performs the load/store access for instructions that need one.
type MemoryStage struct {
	dmem *cpu.DMem
}

// NewMemoryStage creates a memory stage backed by dmem.
func NewMemoryStage(dmem *cpu.DMem) *MemoryStage {
	return &MemoryStage{dmem: dmem}
}

// Access performs exmem's load or store against data memory and returns the
// loaded value (zero for stores and non-memory instructions).
func (m *MemoryStage) Access(exmem *EXMEMLatch) uint32 {
	flags := exmem.Flags
	addr := exmem.ALUResult

	switch {
	case flags.MemRead:
		return m.load(addr, flags.MemWidth, flags.MemSigned)
	case flags.MemWrite:
		m.store(addr, flags.MemWidth, exmem.StoreValue)
		return 0
	default:
		return 0
	}
}

func (m *MemoryStage) load(addr uint32, width cpu.MemWidth, signed bool) uint32 {
	switch width {
	case cpu.WidthByte:
		v := m.dmem.ReadByte(addr)
		if signed {
			return uint32(int32(int8(v)))
		}
		return uint32(v)
	case cpu.WidthHalf:
		v := m.dmem.ReadHalf(addr)
		if signed {
			return uint32(int32(int16(v)))
		}
		return uint32(v)
	default:
		return m.dmem.ReadWord(addr)
	}
}

func (m *MemoryStage) store(addr uint32, width cpu.MemWidth, value uint32) {
	switch width {
	case cpu.WidthByte:
		m.dmem.WriteByte(addr, uint8(value))
	case cpu.WidthHalf:
		m.dmem.WriteHalf(addr, uint16(value))
	default:
		m.dmem.WriteWord(addr, value)
	}
}

// WritebackStage commits the final result of a retiring instruction to the
// register file.
type WritebackStage struct {
	regFile *cpu.RegFile
}

// NewWritebackStage creates a writeback stage over regFile.
func NewWritebackStage(regFile *cpu.RegFile) *WritebackStage {
	return &WritebackStage{regFile: regFile}
}

// Writeback commits memwb's result to the register file. A bubble or a
// write-disabled instruction leaves the register file untouched.
func (w *WritebackStage) Writeback(memwb *MEMWBLatch) {
	if !memwb.Valid || !memwb.Flags.RegWrite {
		return
	}

	var value uint32
	switch memwb.Flags.WBSrc {
	case cpu.WBSrcMem:
		value = memwb.MemData
	case cpu.WBSrcPC4:
		value = memwb.PCPlus4
	default:
		value = memwb.ALUResult
	}

	w.regFile.WriteReg(memwb.Rd, value)
}
