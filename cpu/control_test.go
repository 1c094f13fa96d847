package cpu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/xpivx-reader/RISC-V-CPU-SIM/cpu"
	"github.com/xpivx-reader/RISC-V-CPU-SIM/insts"
)

var _ = Describe("ControlUnit", func() {
	var cu *cpu.ControlUnit

	BeforeEach(func() {
		cu = cpu.NewControlUnit()
	})

	It("drives a register-register ALU op from the register file, not the immediate", func() {
		flags := cu.Decode(&insts.Instruction{Op: insts.OpADD})

		Expect(flags.ALUOp).To(Equal(cpu.ALUAdd))
		Expect(flags.ALUSrcB).To(BeFalse())
		Expect(flags.RegWrite).To(BeTrue())
		Expect(flags.WBSrc).To(Equal(cpu.WBSrcALU))
	})

	It("drives a register-immediate ALU op from the immediate", func() {
		flags := cu.Decode(&insts.Instruction{Op: insts.OpADDI})

		Expect(flags.ALUSrcB).To(BeTrue())
	})

	It("marks loads as memory reads with the correct width and signedness", func() {
		flags := cu.Decode(&insts.Instruction{Op: insts.OpLBU})

		Expect(flags.MemRead).To(BeTrue())
		Expect(flags.MemWidth).To(Equal(cpu.WidthByte))
		Expect(flags.MemSigned).To(BeFalse())
		Expect(flags.WBSrc).To(Equal(cpu.WBSrcMem))
	})

	It("marks a signed byte load as sign-extending", func() {
		flags := cu.Decode(&insts.Instruction{Op: insts.OpLB})
		Expect(flags.MemSigned).To(BeTrue())
	})

	It("marks stores as memory writes and disables register writeback", func() {
		flags := cu.Decode(&insts.Instruction{Op: insts.OpSW})

		Expect(flags.MemWrite).To(BeTrue())
		Expect(flags.RegWrite).To(BeFalse())
	})

	It("marks conditional branches without a register write, targeting PC+imm", func() {
		flags := cu.Decode(&insts.Instruction{Op: insts.OpBLT})

		Expect(flags.IsBranch).To(BeTrue())
		Expect(flags.CMPOp).To(Equal(cpu.CMPLt))
		Expect(flags.RegWrite).To(BeFalse())
		Expect(flags.ALUSrcA).To(BeTrue())
		Expect(flags.ALUSrcB).To(BeTrue())
	})

	It("drives AUIPC's ALU operand A from PC, not rs1", func() {
		flags := cu.Decode(&insts.Instruction{Op: insts.OpAUIPC})
		Expect(flags.ALUSrcA).To(BeTrue())
	})

	It("drives JALR's ALU operand A from rs1, not PC", func() {
		flags := cu.Decode(&insts.Instruction{Op: insts.OpJALR})
		Expect(flags.ALUSrcA).To(BeFalse())
	})

	It("marks JAL/JALR as jumps that write the link address", func() {
		flags := cu.Decode(&insts.Instruction{Op: insts.OpJAL})

		Expect(flags.IsJump).To(BeTrue())
		Expect(flags.RegWrite).To(BeTrue())
		Expect(flags.WBSrc).To(Equal(cpu.WBSrcPC4))

		flags = cu.Decode(&insts.Instruction{Op: insts.OpJALR})

		Expect(flags.IsJump).To(BeTrue())
		Expect(flags.RegWrite).To(BeTrue())
		Expect(flags.WBSrc).To(Equal(cpu.WBSrcPC4))
	})

	It("drives LUI from the raw immediate with no ALU involved", func() {
		flags := cu.Decode(&insts.Instruction{Op: insts.OpLUI})
		Expect(flags.WBSrc).To(Equal(cpu.WBSrcImm))
	})

	It("marks EBREAK as a halt with no side effects", func() {
		flags := cu.Decode(&insts.Instruction{Op: insts.OpEBREAK})

		Expect(flags.Halt).To(BeTrue())
		Expect(flags.RegWrite).To(BeFalse())
	})

	It("marks an unknown operation illegal", func() {
		flags := cu.Decode(&insts.Instruction{Op: insts.OpUnknown})
		Expect(flags.Illegal).To(BeTrue())
	})
})
