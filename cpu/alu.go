package cpu

// ALUOp selects the operation performed by the combinational ALU.
type ALUOp uint8

// ALU operations, matching the ten RV32I arithmetic/logic/shift/compare
// operations that the execute stage can request.
const (
	ALUAdd ALUOp = iota
	ALUSub
	ALUXor
	ALUOr
	ALUAnd
	ALUSll
	ALUSrl
	ALUSra
	ALUSlt
	ALUSltu
)

// ALU is a purely combinational arithmetic/logic unit: given an operation
// and two 32-bit operands it produces a result with no internal state.
func ALU(op ALUOp, a, b uint32) uint32 {
	shamt := b & 0x1F

	switch op {
	case ALUAdd:
		return a + b
	case ALUSub:
		return a - b
	case ALUXor:
		return a ^ b
	case ALUOr:
		return a | b
	case ALUAnd:
		return a & b
	case ALUSll:
		return a << shamt
	case ALUSrl:
		return a >> shamt
	case ALUSra:
		return uint32(int32(a) >> shamt)
	case ALUSlt:
		if int32(a) < int32(b) {
			return 1
		}
		return 0
	case ALUSltu:
		if a < b {
			return 1
		}
		return 0
	}
	return 0
}

// CMPOp selects the condition evaluated by the comparator for branches.
type CMPOp uint8

// Comparator operations, one per RV32I conditional branch.
const (
	CMPEq CMPOp = iota
	CMPNe
	CMPLt
	CMPGe
	CMPLtu
	CMPGeu
)

// CMP evaluates the branch condition op over operands a and b, returning
// true when the branch should be taken.
func CMP(op CMPOp, a, b uint32) bool {
	switch op {
	case CMPEq:
		return a == b
	case CMPNe:
		return a != b
	case CMPLt:
		return int32(a) < int32(b)
	case CMPGe:
		return int32(a) >= int32(b)
	case CMPLtu:
		return a < b
	case CMPGeu:
		return a >= b
	}
	return false
}
