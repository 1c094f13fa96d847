package pipeline_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/xpivx-reader/RISC-V-CPU-SIM/cpu"
	"github.com/xpivx-reader/RISC-V-CPU-SIM/pipeline"
)

var _ = Describe("HazardUnit", func() {
	var h *pipeline.HazardUnit

	BeforeEach(func() {
		h = pipeline.NewHazardUnit()
	})

	Describe("DetectForwarding", func() {
		It("forwards from EX/MEM when it is the freshest producer of rs1", func() {
			idex := &pipeline.IDEXLatch{Valid: true, Rs1: 3, Rs2: 0}
			exmem := &pipeline.EXMEMLatch{Valid: true, Rd: 3, Flags: cpu.ControlFlags{RegWrite: true}}
			memwb := &pipeline.MEMWBLatch{}

			result := h.DetectForwarding(idex, exmem, memwb)
			Expect(result.ForwardRs1).To(Equal(pipeline.ForwardFromEXMEM))
		})

		It("prefers EX/MEM over MEM/WB when both produce the same register", func() {
			idex := &pipeline.IDEXLatch{Valid: true, Rs1: 3}
			exmem := &pipeline.EXMEMLatch{Valid: true, Rd: 3, Flags: cpu.ControlFlags{RegWrite: true}}
			memwb := &pipeline.MEMWBLatch{Valid: true, Rd: 3, Flags: cpu.ControlFlags{RegWrite: true}}

			result := h.DetectForwarding(idex, exmem, memwb)
			Expect(result.ForwardRs1).To(Equal(pipeline.ForwardFromEXMEM))
		})

		It("falls back to MEM/WB when EX/MEM does not produce the register", func() {
			idex := &pipeline.IDEXLatch{Valid: true, Rs1: 3}
			exmem := &pipeline.EXMEMLatch{}
			memwb := &pipeline.MEMWBLatch{Valid: true, Rd: 3, Flags: cpu.ControlFlags{RegWrite: true}}

			result := h.DetectForwarding(idex, exmem, memwb)
			Expect(result.ForwardRs1).To(Equal(pipeline.ForwardFromMEMWB))
		})

		It("never forwards a write to x0", func() {
			idex := &pipeline.IDEXLatch{Valid: true, Rs1: 0}
			exmem := &pipeline.EXMEMLatch{Valid: true, Rd: 0, Flags: cpu.ControlFlags{RegWrite: true}}
			memwb := &pipeline.MEMWBLatch{}

			result := h.DetectForwarding(idex, exmem, memwb)
			Expect(result.ForwardRs1).To(Equal(pipeline.ForwardNone))
		})

		It("does not forward from EX/MEM when that instruction is a load (value not ready until MEM)", func() {
			idex := &pipeline.IDEXLatch{Valid: true, Rs1: 3}
			exmem := &pipeline.EXMEMLatch{Valid: true, Rd: 3, Flags: cpu.ControlFlags{RegWrite: true, MemRead: true}}
			memwb := &pipeline.MEMWBLatch{}

			result := h.DetectForwarding(idex, exmem, memwb)
			Expect(result.ForwardRs1).To(Equal(pipeline.ForwardNone))
		})
	})

	Describe("ForwardedValue", func() {
		It("returns the EX/MEM ALU result", func() {
			exmem := &pipeline.EXMEMLatch{ALUResult: 42}
			memwb := &pipeline.MEMWBLatch{}

			v := h.ForwardedValue(pipeline.ForwardFromEXMEM, 0, exmem, memwb)
			Expect(v).To(Equal(uint32(42)))
		})

		It("returns the loaded data when MEM/WB's producer was a load", func() {
			exmem := &pipeline.EXMEMLatch{}
			memwb := &pipeline.MEMWBLatch{MemData: 7, ALUResult: 99, Flags: cpu.ControlFlags{WBSrc: cpu.WBSrcMem}}

			v := h.ForwardedValue(pipeline.ForwardFromMEMWB, 0, exmem, memwb)
			Expect(v).To(Equal(uint32(7)))
		})

		It("returns the ALU result when MEM/WB's producer was not a load", func() {
			exmem := &pipeline.EXMEMLatch{}
			memwb := &pipeline.MEMWBLatch{ALUResult: 99, Flags: cpu.ControlFlags{WBSrc: cpu.WBSrcALU}}

			v := h.ForwardedValue(pipeline.ForwardFromMEMWB, 0, exmem, memwb)
			Expect(v).To(Equal(uint32(99)))
		})

		It("returns the link value, not the jump target, when EX/MEM's producer was JAL/JALR", func() {
			exmem := &pipeline.EXMEMLatch{ALUResult: 0x1000, PCPlus4: 0x204, Flags: cpu.ControlFlags{WBSrc: cpu.WBSrcPC4}}
			memwb := &pipeline.MEMWBLatch{}

			v := h.ForwardedValue(pipeline.ForwardFromEXMEM, 0, exmem, memwb)
			Expect(v).To(Equal(uint32(0x204)))
		})

		It("returns the link value, not the jump target, when MEM/WB's producer was JAL/JALR", func() {
			exmem := &pipeline.EXMEMLatch{}
			memwb := &pipeline.MEMWBLatch{ALUResult: 0x1000, PCPlus4: 0x204, Flags: cpu.ControlFlags{WBSrc: cpu.WBSrcPC4}}

			v := h.ForwardedValue(pipeline.ForwardFromMEMWB, 0, exmem, memwb)
			Expect(v).To(Equal(uint32(0x204)))
		})
	})

	Describe("DetectLoadUseHazard", func() {
		It("flags a hazard when the next instruction consumes a load's destination", func() {
			idex := &pipeline.IDEXLatch{Valid: true, Rd: 3, Flags: cpu.ControlFlags{MemRead: true}}
			Expect(h.DetectLoadUseHazard(idex, 3, 0)).To(BeTrue())
		})

		It("does not flag a hazard for a non-load producer", func() {
			idex := &pipeline.IDEXLatch{Valid: true, Rd: 3, Flags: cpu.ControlFlags{MemRead: false}}
			Expect(h.DetectLoadUseHazard(idex, 3, 0)).To(BeFalse())
		})

		It("does not flag a hazard when rd is x0", func() {
			idex := &pipeline.IDEXLatch{Valid: true, Rd: 0, Flags: cpu.ControlFlags{MemRead: true}}
			Expect(h.DetectLoadUseHazard(idex, 0, 0)).To(BeFalse())
		})
	})

	Describe("ComputeStalls", func() {
		It("stalls IF and injects a bubble on a load-use hazard", func() {
			result := h.ComputeStalls(true)
			Expect(result.StallIF).To(BeTrue())
			Expect(result.InsertBubbleEX).To(BeTrue())
		})

		It("does nothing when there is no hazard", func() {
			result := h.ComputeStalls(false)
			Expect(result.StallIF).To(BeFalse())
			Expect(result.InsertBubbleEX).To(BeFalse())
		})
	})
})
