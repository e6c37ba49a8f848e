package emu

import "github.com/sarchlab/gbsim/insts"

// ReadByteTarget resolves a byte operand. It returns the value and the
// number of instruction bytes the operand accounts for: 1 for registers
// and (HL), 2 for an immediate that follows the opcode.
func (e *Emulator) ReadByteTarget(t insts.ByteTarget) (byte, uint16) {
	switch t {
	case insts.TargetHLIndirect:
		return e.bus.Read8(e.regFile.HL()), 1
	case insts.TargetImmediate:
		return e.bus.Read8(e.pc + 1), 2
	default:
		return *e.regFile.reg8(t), 1
	}
}

// WriteByteTarget stores v into a byte operand. Writing an immediate does
// nothing.
func (e *Emulator) WriteByteTarget(t insts.ByteTarget, v byte) {
	switch t {
	case insts.TargetHLIndirect:
		e.bus.Write8(e.regFile.HL(), v)
	case insts.TargetImmediate:
	default:
		*e.regFile.reg8(t) = v
	}
}

// ReadWordTarget reads a register pair. Pair operands are encoded in the
// opcode, so they consume no extra bytes.
func (e *Emulator) ReadWordTarget(t insts.WordTarget) uint16 {
	return e.regFile.ReadPair(t)
}

// WriteWordTarget writes a register pair.
func (e *Emulator) WriteWordTarget(t insts.WordTarget, v uint16) {
	e.regFile.WritePair(t, v)
}

// ReadImmediate16 reads the little-endian word following the opcode.
func (e *Emulator) ReadImmediate16() uint16 {
	lo := e.bus.Read8(e.pc + 1)
	hi := e.bus.Read8(e.pc + 2)
	return pair(hi, lo)
}
