package insts

// Op represents an SM83 operation family.
type Op uint8

// SM83 operations.
const (
	OpUnknown Op = iota
	OpNOP
	OpHALT
	OpLD  // LD r, r' and LD r, d8
	OpLDW // LD rr, d16
	OpADD
	OpADDHL
	OpADDSP
	OpADC
	OpSUB
	OpSBC
	OpAND
	OpOR
	OpXOR
	OpCP
	OpINC
	OpDEC
	OpCCF
	OpSCF
	OpRRA
	OpRLA
	OpRRCA
	OpRLCA
	OpCPL
	OpBIT
	OpRES
	OpSET
	OpSRL
	OpRR
	OpRL
	OpRRC
	OpRLC
	OpSRA
	OpSLA
	OpSWAP
	OpJP
	OpJR
	OpJPHL
)

// ByteTarget is an 8-bit operand. The register values follow the SM83
// encoding order, so the low three bits of an opcode convert directly.
type ByteTarget uint8

// Byte operand targets.
const (
	TargetB ByteTarget = iota
	TargetC
	TargetD
	TargetE
	TargetH
	TargetL
	TargetHLIndirect // (HL)
	TargetA
	TargetImmediate // d8, the byte following the opcode
)

// WordTarget is a 16-bit register pair operand, in SM83 encoding order.
type WordTarget uint8

// Register pair targets.
const (
	PairBC WordTarget = iota
	PairDE
	PairHL
	PairSP
)

// Width tells which half of an IncDecTarget is in use.
type Width uint8

// Operand widths.
const (
	WidthByte Width = iota
	WidthWord
)

// IncDecTarget is the operand of INC and DEC. The byte form updates flags,
// the word form does not.
type IncDecTarget struct {
	Width Width
	Byte  ByteTarget
	Word  WordTarget
}

// ByteOperand returns an 8-bit INC/DEC operand.
func ByteOperand(t ByteTarget) IncDecTarget {
	return IncDecTarget{Width: WidthByte, Byte: t}
}

// WordOperand returns a 16-bit INC/DEC operand.
func WordOperand(t WordTarget) IncDecTarget {
	return IncDecTarget{Width: WidthWord, Word: t}
}

// JumpTest is a jump condition code.
type JumpTest uint8

// Condition codes. The first four follow the cc field encoding.
const (
	JumpNotZero JumpTest = iota
	JumpZero
	JumpNotCarry
	JumpCarry
	JumpAlways
)

// Instruction represents a decoded SM83 instruction.
type Instruction struct {
	Op Op // Operation family

	Opcode   byte // Opcode byte (the byte after 0xCB when Prefixed)
	Prefixed bool // true for the 0xCB extended space

	// Target is the operand of single-operand forms and the destination of LD.
	Target ByteTarget
	// Source is the source of LD.
	Source ByteTarget
	// Pair is the register pair of ADD HL, rr and LD rr, d16.
	Pair WordTarget
	// IncDec is the operand of INC and DEC.
	IncDec IncDecTarget

	// Bit is the bit index of BIT, RES and SET.
	Bit uint8

	// Cond is the condition of JP and JR.
	Cond JumpTest
}
