package emu

import "github.com/sarchlab/gbsim/insts"

// Flag bit positions in the F register.
const (
	flagZeroBit      = 7
	flagSubtractBit  = 6
	flagHalfCarryBit = 5
	flagCarryBit     = 4
)

// Flags represents the F register. Only the high nibble is backed by
// hardware; the low nibble always reads as zero.
type Flags struct {
	// Zero is set when an operation produced zero.
	Zero bool
	// Subtract is set when the last arithmetic operation was a subtraction.
	Subtract bool
	// HalfCarry is set on a carry out of bit 3 (bit 11 for 16-bit adds).
	HalfCarry bool
	// Carry is set on a carry out of bit 7 (bit 15) or a borrow.
	Carry bool
}

// FlagsFromByte unpacks the high nibble of b.
func FlagsFromByte(b byte) Flags {
	return Flags{
		Zero:      b>>flagZeroBit&1 != 0,
		Subtract:  b>>flagSubtractBit&1 != 0,
		HalfCarry: b>>flagHalfCarryBit&1 != 0,
		Carry:     b>>flagCarryBit&1 != 0,
	}
}

// Byte packs the flags into the high nibble.
func (f Flags) Byte() byte {
	return boolBit(f.Zero)<<flagZeroBit |
		boolBit(f.Subtract)<<flagSubtractBit |
		boolBit(f.HalfCarry)<<flagHalfCarryBit |
		boolBit(f.Carry)<<flagCarryBit
}

func boolBit(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// RegFile represents the SM83 register file: seven 8-bit registers, the
// flags register and the stack pointer. The 16-bit pairs AF, BC, DE and HL
// are views over the 8-bit registers, high register in the high byte.
// The zero value is the all-zero reset state.
type RegFile struct {
	A, B, C, D, E, H, L byte

	// F holds the flags.
	F Flags

	// SP is the stack pointer.
	SP uint16
}

// AF returns the accumulator and packed flags.
func (r *RegFile) AF() uint16 {
	return uint16(r.A)<<8 | uint16(r.F.Byte())
}

// SetAF sets the accumulator and flags. The low nibble of v is dropped.
func (r *RegFile) SetAF(v uint16) {
	r.A = byte(v >> 8)
	r.F = FlagsFromByte(byte(v))
}

// BC returns the BC pair.
func (r *RegFile) BC() uint16 { return pair(r.B, r.C) }

// SetBC sets the BC pair.
func (r *RegFile) SetBC(v uint16) { r.B, r.C = split(v) }

// DE returns the DE pair.
func (r *RegFile) DE() uint16 { return pair(r.D, r.E) }

// SetDE sets the DE pair.
func (r *RegFile) SetDE(v uint16) { r.D, r.E = split(v) }

// HL returns the HL pair.
func (r *RegFile) HL() uint16 { return pair(r.H, r.L) }

// SetHL sets the HL pair.
func (r *RegFile) SetHL(v uint16) { r.H, r.L = split(v) }

func pair(hi, lo byte) uint16 {
	return uint16(hi)<<8 | uint16(lo)
}

func split(v uint16) (hi, lo byte) {
	return byte(v >> 8), byte(v)
}

// reg8 returns a pointer to the 8-bit register named by t. It panics for
// (HL) and d8, which are not registers.
func (r *RegFile) reg8(t insts.ByteTarget) *byte {
	switch t {
	case insts.TargetA:
		return &r.A
	case insts.TargetB:
		return &r.B
	case insts.TargetC:
		return &r.C
	case insts.TargetD:
		return &r.D
	case insts.TargetE:
		return &r.E
	case insts.TargetH:
		return &r.H
	case insts.TargetL:
		return &r.L
	}
	panic("emu: " + t.String() + " is not an 8-bit register")
}

// ReadPair reads a register pair.
func (r *RegFile) ReadPair(p insts.WordTarget) uint16 {
	switch p {
	case insts.PairBC:
		return r.BC()
	case insts.PairDE:
		return r.DE()
	case insts.PairHL:
		return r.HL()
	case insts.PairSP:
		return r.SP
	}
	panic("emu: invalid register pair " + p.String())
}

// WritePair writes a register pair.
func (r *RegFile) WritePair(p insts.WordTarget, v uint16) {
	switch p {
	case insts.PairBC:
		r.SetBC(v)
	case insts.PairDE:
		r.SetDE(v)
	case insts.PairHL:
		r.SetHL(v)
	case insts.PairSP:
		r.SP = v
	default:
		panic("emu: invalid register pair " + p.String())
	}
}
