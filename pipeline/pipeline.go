package pipeline

import (
	"fmt"

	"github.com/xpivx-reader/RISC-V-CPU-SIM/cpu"
	"github.com/xpivx-reader/RISC-V-CPU-SIM/insts"
)

// Statistics accumulates counters over the lifetime of a Simulator run.
type Statistics struct {
	Cycles            uint64
	Instructions      uint64
	Stalls            uint64
	Flushes           uint64
	ForwardedHazards  uint64
}

// CPI returns the cycles-per-instruction ratio for the run so far. It
// returns 0 before any instruction has retired.
func (s Statistics) CPI() float64 {
	if s.Instructions == 0 {
		return 0
	}
	return float64(s.Cycles) / float64(s.Instructions)
}

// Simulator drives the five pipeline stages over a loaded program, one
// tick at a time, applying hazard detection and forwarding each cycle.
type Simulator struct {
	imem    *cpu.IMem
	dmem    *cpu.DMem
	regFile *cpu.RegFile
	decoder *insts.Decoder
	control *cpu.ControlUnit
	hazard  *HazardUnit

	fetchStage     *FetchStage
	decodeStage    *DecodeStage
	executeStage   *ExecuteStage
	memoryStage    *MemoryStage
	writebackStage *WritebackStage

	pc uint32

	ifid  IFIDLatch
	idex  IDEXLatch
	exmem EXMEMLatch
	memwb MEMWBLatch

	halted bool
	err    error

	stats Statistics
}

// NewSimulator creates a simulator with program loaded into instruction
// memory at offset zero and an empty data memory and register file. The
// entry PC is 0, per the program-image contract.
func NewSimulator(program []uint32) *Simulator {
	imem := cpu.NewIMem(program)
	dmem := cpu.NewDMem()
	regFile := &cpu.RegFile{}
	decoder := insts.NewDecoder()
	control := cpu.NewControlUnit()

	return &Simulator{
		imem:           imem,
		dmem:           dmem,
		regFile:        regFile,
		decoder:        decoder,
		control:        control,
		hazard:         NewHazardUnit(),
		fetchStage:     NewFetchStage(imem),
		decodeStage:    NewDecodeStage(decoder, control, regFile),
		executeStage:   NewExecuteStage(),
		memoryStage:    NewMemoryStage(dmem),
		writebackStage: NewWritebackStage(regFile),
	}
}

// PC returns the current architectural program counter (byte address).
func (s *Simulator) PC() uint32 { return s.pc }

// SetPC overrides the program counter. Intended for tests that seed a
// simulator mid-program; ordinary runs should rely on the PC=0 entry point.
func (s *Simulator) SetPC(pc uint32) { s.pc = pc }

// Halted reports whether the simulator has stopped advancing, either
// because EBREAK retired, the program drained, or a fatal error occurred.
func (s *Simulator) Halted() bool { return s.halted }

// Err returns the fatal error that halted the simulator, if any.
func (s *Simulator) Err() error { return s.err }

// Stats returns a snapshot of the run's accumulated statistics.
func (s *Simulator) Stats() Statistics { return s.stats }

// RegFile exposes the architectural register file for inspection.
func (s *Simulator) RegFile() *cpu.RegFile { return s.regFile }

// DMem exposes data memory for inspection.
func (s *Simulator) DMem() *cpu.DMem { return s.dmem }

// GetIFID returns a snapshot of the IF/ID latch.
func (s *Simulator) GetIFID() IFIDLatch { return s.ifid }

// GetIDEX returns a snapshot of the ID/EX latch.
func (s *Simulator) GetIDEX() IDEXLatch { return s.idex }

// GetEXMEM returns a snapshot of the EX/MEM latch.
func (s *Simulator) GetEXMEM() EXMEMLatch { return s.exmem }

// GetMEMWB returns a snapshot of the MEM/WB latch.
func (s *Simulator) GetMEMWB() MEMWBLatch { return s.memwb }

// Run ticks the simulator until it halts, with no cycle limit.
func (s *Simulator) Run() error {
	for !s.halted {
		s.Tick()
	}
	return s.err
}

// RunCycles ticks the simulator at most n times, stopping early if it
// halts. It reports whether the simulator is still running afterward.
func (s *Simulator) RunCycles(n uint64) bool {
	for i := uint64(0); i < n && !s.halted; i++ {
		s.Tick()
	}
	return !s.halted
}

// RunWithBudget ticks the simulator until it halts or budget cycles have
// elapsed, whichever comes first. If the budget is exhausted without the
// program halting, it returns ErrCycleBudgetExceeded; the simulator state
// up to that point remains inspectable.
func (s *Simulator) RunWithBudget(budget uint64) error {
	for i := uint64(0); i < budget; i++ {
		if s.halted {
			return s.err
		}
		s.Tick()
	}
	if !s.halted {
		return ErrCycleBudgetExceeded
	}
	return s.err
}

// Tick advances the pipeline by exactly one cycle. Stages are evaluated in
// reverse dependency order (WB, MEM, EX, ID, IF) so each stage observes
// the latch contents its upstream stage published on the previous cycle;
// new latch contents are committed only once every stage has run.
func (s *Simulator) Tick() {
	if s.halted {
		return
	}
	s.stats.Cycles++

	forwarding := s.hazard.DetectForwarding(&s.idex, &s.exmem, &s.memwb)
	if forwarding.ForwardRs1 != ForwardNone || forwarding.ForwardRs2 != ForwardNone {
		s.stats.ForwardedHazards++
	}

	loadUseHazard := false
	if s.idex.Valid && s.idex.Flags.MemRead && s.ifid.Valid {
		peek := s.decoder.Decode(s.ifid.InstWord)
		loadUseHazard = s.hazard.DetectLoadUseHazard(&s.idex, peek.Rs1, peek.Rs2)
	}
	stall := s.hazard.ComputeStalls(loadUseHazard)
	if stall.InsertBubbleEX {
		s.stats.Stalls++
	}

	// Stage: Writeback, on the latch produced last cycle.
	s.writebackStage.Writeback(&s.memwb)
	if s.memwb.Valid {
		s.stats.Instructions++
		if s.memwb.Flags.Halt {
			s.halted = true
			return
		}
	}

	// Stage: Memory, on the latch produced last cycle.
	var nextMEMWB MEMWBLatch
	if s.exmem.Valid {
		memData := s.memoryStage.Access(&s.exmem)
		nextMEMWB = MEMWBLatch{
			Valid:     true,
			PC:        s.exmem.PC,
			Inst:      s.exmem.Inst,
			Flags:     s.exmem.Flags,
			ALUResult: s.exmem.ALUResult,
			MemData:   memData,
			PCPlus4:   s.exmem.PCPlus4,
			Rd:        s.exmem.Rd,
		}
	}

	// Stage: Execute, on the latch produced last cycle.
	var nextEXMEM EXMEMLatch
	flush := false
	var flushTarget uint32

	if s.idex.Valid {
		if s.idex.Flags.Illegal {
			s.err = fmt.Errorf("%w: pc=0x%08x word=0x%08x", ErrIllegalInstruction, s.idex.PC, s.idex.Inst.Word)
			s.halted = true
			s.memwb = nextMEMWB
			s.exmem.Clear()
			return
		}

		rs1Val := s.hazard.ForwardedValue(forwarding.ForwardRs1, s.idex.Rs1Val, &s.exmem, &s.memwb)
		rs2Val := s.hazard.ForwardedValue(forwarding.ForwardRs2, s.idex.Rs2Val, &s.exmem, &s.memwb)

		execResult := s.executeStage.Execute(&s.idex, rs1Val, rs2Val)

		nextEXMEM = EXMEMLatch{
			Valid:      true,
			PC:         s.idex.PC,
			Inst:       s.idex.Inst,
			Flags:      s.idex.Flags,
			ALUResult:  execResult.ALUResult,
			StoreValue: rs2Val,
			PCPlus4:    execResult.PCPlus4,
			Rd:         s.idex.Rd,
		}

		if (s.idex.Flags.IsBranch && execResult.BranchTaken) || s.idex.Flags.IsJump {
			flush = true
			flushTarget = execResult.Target
		}
	}

	// Stage: Decode, on the latch produced last cycle. A flush squashes the
	// instruction currently being decoded; a load-use hazard replaces it
	// with a bubble instead.
	var nextIDEX IDEXLatch
	switch {
	case flush, stall.InsertBubbleEX:
		// nextIDEX stays a bubble.
	case s.ifid.Valid:
		decRes := s.decodeStage.Decode(s.ifid.InstWord)
		nextIDEX = IDEXLatch{
			Valid:  true,
			PC:     s.ifid.PC,
			Inst:   decRes.Inst,
			Flags:  decRes.Flags,
			Rs1Val: decRes.Rs1Val,
			Rs2Val: decRes.Rs2Val,
			Rd:     decRes.Inst.Rd,
			Rs1:    decRes.Inst.Rs1,
			Rs2:    decRes.Inst.Rs2,
			Imm:    decRes.Inst.Imm,
		}
	}

	// Stage: Fetch. A flush redirects the PC to the resolved branch/jump
	// target and publishes a bubble this cycle; a load-use stall holds the
	// current IF/ID contents and PC; otherwise fetch the next word.
	var nextIFID IFIDLatch
	switch {
	case flush:
		s.pc = flushTarget
		s.stats.Flushes++
	case stall.StallIF:
		nextIFID = s.ifid
	default:
		word, ok := s.fetchStage.Fetch(s.pc)
		if ok {
			nextIFID = IFIDLatch{Valid: true, PC: s.pc, InstWord: word}
			s.pc += 4
		}
	}

	s.memwb = nextMEMWB
	s.exmem = nextEXMEM
	s.idex = nextIDEX
	s.ifid = nextIFID

	if _, ok := s.imem.Fetch(s.pc); !ok {
		if !s.ifid.Valid && !s.idex.Valid && !s.exmem.Valid && !s.memwb.Valid {
			s.halted = true
		}
	}
}
