package pipeline

import "github.com/xpivx-reader/RISC-V-CPU-SIM/cpu"

// ForwardSource indicates where a forwarded register value should come
// from, in priority order from newest to oldest in-flight result.
type ForwardSource int

// Forwarding sources, in priority order.
const (
	// ForwardNone means no forwarding needed; use the register-file value.
	ForwardNone ForwardSource = iota
	// ForwardFromEXMEM forwards the EX/MEM latch's ALU result.
	ForwardFromEXMEM
	// ForwardFromMEMWB forwards the MEM/WB latch's committed value.
	ForwardFromMEMWB
)

// ForwardingResult carries the forwarding decision for each ID/EX operand.
type ForwardingResult struct {
	ForwardRs1 ForwardSource
	ForwardRs2 ForwardSource
}

// StallResult carries the stall/bubble decisions derived from hazard
// detection for the current cycle.
type StallResult struct {
	// StallIF holds the fetched PC and re-publishes the current IF/ID latch.
	StallIF bool
	// InsertBubbleEX injects a bubble into ID/EX instead of decoding.
	InsertBubbleEX bool
}

// HazardUnit detects RAW data hazards between in-flight instructions and
// computes the forwarding and stall signals that resolve them.
type HazardUnit struct{}

// NewHazardUnit creates a hazard detection unit.
func NewHazardUnit() *HazardUnit {
	return &HazardUnit{}
}

// DetectForwarding determines, for the instruction currently in ID/EX,
// whether its rs1/rs2 operands should be replaced by a value forwarded
// from an older in-flight instruction rather than the register file read in
// ID. EX/MEM takes priority over MEM/WB, since it is the more recent
// result.
func (h *HazardUnit) DetectForwarding(idex *IDEXLatch, exmem *EXMEMLatch, memwb *MEMWBLatch) ForwardingResult {
	if !idex.Valid {
		return ForwardingResult{}
	}

	return ForwardingResult{
		ForwardRs1: h.forwardFor(idex.Rs1, exmem, memwb),
		ForwardRs2: h.forwardFor(idex.Rs2, exmem, memwb),
	}
}

func (h *HazardUnit) forwardFor(reg uint8, exmem *EXMEMLatch, memwb *MEMWBLatch) ForwardSource {
	if reg == 0 {
		return ForwardNone
	}
	if exmem.Valid && exmem.Flags.RegWrite && exmem.Rd == reg && !exmem.Flags.MemRead {
		return ForwardFromEXMEM
	}
	if memwb.Valid && memwb.Flags.RegWrite && memwb.Rd == reg {
		return ForwardFromMEMWB
	}
	return ForwardNone
}

// ForwardedValue resolves a forwarding decision into the value to use in
// place of original, the value read from the register file in ID. The
// EX/MEM latch never carries a load's result (forwardFor excludes it), so
// ALUResult is always the right value there except for JAL/JALR, whose
// writeback value is the link address carried separately in PCPlus4.
func (h *HazardUnit) ForwardedValue(forward ForwardSource, original uint32, exmem *EXMEMLatch, memwb *MEMWBLatch) uint32 {
	switch forward {
	case ForwardFromEXMEM:
		if exmem.Flags.WBSrc == cpu.WBSrcPC4 {
			return exmem.PCPlus4
		}
		return exmem.ALUResult
	case ForwardFromMEMWB:
		switch memwb.Flags.WBSrc {
		case cpu.WBSrcMem:
			return memwb.MemData
		case cpu.WBSrcPC4:
			return memwb.PCPlus4
		default:
			return memwb.ALUResult
		}
	default:
		return original
	}
}

// DetectLoadUseHazard reports whether the load currently in ID/EX produces
// a value that the instruction about to enter ID/EX (decoded from the
// current IF/ID word) needs as rs1 or rs2. A load's result is not ready
// until it has passed through MEM, so this case cannot be resolved by
// forwarding alone and costs one stall cycle.
func (h *HazardUnit) DetectLoadUseHazard(idex *IDEXLatch, nextRs1, nextRs2 uint8) bool {
	if !idex.Valid || !idex.Flags.MemRead || idex.Rd == 0 {
		return false
	}
	return idex.Rd == nextRs1 || idex.Rd == nextRs2
}

// ComputeStalls turns a load-use hazard into concrete stall/bubble signals.
func (h *HazardUnit) ComputeStalls(loadUseHazard bool) StallResult {
	if !loadUseHazard {
		return StallResult{}
	}
	return StallResult{StallIF: true, InsertBubbleEX: true}
}
