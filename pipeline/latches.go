// Package pipeline implements the five-stage in-order RV32I pipeline: the
// inter-stage latches, the stage bodies, hazard detection and forwarding,
// and the simulator driver that ticks them.
package pipeline

import (
	"github.com/xpivx-reader/RISC-V-CPU-SIM/cpu"
	"github.com/xpivx-reader/RISC-V-CPU-SIM/insts"
)

// IFIDLatch holds state fetched in IF and consumed by ID.
type IFIDLatch struct {
	// Valid indicates this latch carries a real instruction, not a bubble.
	Valid bool

	// PC is the byte address the instruction was fetched from.
	PC uint32

	// InstWord is the raw instruction word.
	InstWord uint32
}

// Clear turns the latch into a bubble.
func (l *IFIDLatch) Clear() {
	l.Valid = false
	l.PC = 0
	l.InstWord = 0
}

// IDEXLatch holds state decoded in ID and consumed by EX.
type IDEXLatch struct {
	Valid bool

	PC   uint32
	Inst *insts.Instruction
	Flags cpu.ControlFlags

	// Rs1Val, Rs2Val are the register-file values read in ID; forwarding
	// replaces them in EX, not in this latch.
	Rs1Val uint32
	Rs2Val uint32

	// Rd, Rs1, Rs2 are register indices, carried for hazard detection.
	Rd  uint8
	Rs1 uint8
	Rs2 uint8

	Imm uint32
}

// Clear turns the latch into a bubble.
func (l *IDEXLatch) Clear() {
	*l = IDEXLatch{}
}

// EXMEMLatch holds state produced in EX and consumed by MEM.
type EXMEMLatch struct {
	Valid bool

	PC   uint32
	Inst *insts.Instruction
	Flags cpu.ControlFlags

	// ALUResult is the ALU/branch-target/jump-target/address computed in EX.
	ALUResult uint32

	// StoreValue is rs2's (forwarded) value, used by stores.
	StoreValue uint32

	// PCPlus4 is the link value for JAL/JALR writeback.
	PCPlus4 uint32

	Rd uint8
}

// Clear turns the latch into a bubble.
func (l *EXMEMLatch) Clear() {
	*l = EXMEMLatch{}
}

// MEMWBLatch holds state produced in MEM and consumed by WB.
type MEMWBLatch struct {
	Valid bool

	PC   uint32
	Inst *insts.Instruction
	Flags cpu.ControlFlags

	ALUResult uint32
	MemData   uint32
	PCPlus4   uint32

	Rd uint8
}

// Clear turns the latch into a bubble.
func (l *MEMWBLatch) Clear() {
	*l = MEMWBLatch{}
}
