package emu

import "github.com/sarchlab/gbsim/insts"

// Instruction sizes of the jump forms, used when the condition fails.
const (
	jumpSize         = 3
	jumpRelativeSize = 2
)

// EvaluateCondition reports whether the condition holds for the flags.
func EvaluateCondition(f Flags, t insts.JumpTest) bool {
	switch t {
	case insts.JumpNotZero:
		return !f.Zero
	case insts.JumpZero:
		return f.Zero
	case insts.JumpNotCarry:
		return !f.Carry
	case insts.JumpCarry:
		return f.Carry
	case insts.JumpAlways:
		return true
	}
	panic("emu: invalid jump condition " + t.String())
}

// Jump returns the next PC for an absolute jump at the current PC. When
// the condition holds the target is the little-endian address after the
// opcode; otherwise execution falls through past the 3-byte instruction.
func (e *Emulator) Jump(t insts.JumpTest) uint16 {
	if !EvaluateCondition(e.regFile.F, t) {
		return e.pc + jumpSize
	}
	return e.ReadImmediate16()
}

// JumpRelative returns the next PC for a relative jump at the current PC.
// The displacement is a signed byte applied to the address after the
// 2-byte instruction, wrapping at the ends of the address space.
func (e *Emulator) JumpRelative(t insts.JumpTest) uint16 {
	next := e.pc + jumpRelativeSize
	if !EvaluateCondition(e.regFile.F, t) {
		return next
	}

	disp := int8(e.bus.Read8(e.pc + 1))
	return next + uint16(int16(disp))
}
