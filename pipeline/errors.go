package pipeline

import "errors"

// Sentinel errors surfaced by the simulator driver and the loader. Callers
// match them with errors.Is. ErrIllegalInstruction is wrapped with the
// offending PC and word, ErrUnalignedFetch with the image length, and
// ErrCycleBudgetExceeded is returned unwrapped.
var (
	// ErrIllegalInstruction is returned when an instruction decodes to an
	// unknown opcode/funct combination.
	ErrIllegalInstruction = errors.New("illegal instruction")

	// ErrUnalignedFetch is returned when a program image's length is not a
	// multiple of 4 bytes, so it cannot be parsed into whole instruction
	// words at a 4-byte-aligned PC.
	ErrUnalignedFetch = errors.New("unaligned instruction fetch")

	// ErrCycleBudgetExceeded is returned by RunWithBudget when the
	// configured maximum cycle count is reached without the program
	// halting.
	ErrCycleBudgetExceeded = errors.New("cycle budget exceeded")
)
