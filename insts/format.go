package insts

import "fmt"

var opNames = map[Op]string{
	OpUnknown: "???",
	OpNOP:     "NOP",
	OpHALT:    "HALT",
	OpLD:      "LD",
	OpLDW:     "LD",
	OpADD:     "ADD",
	OpADDHL:   "ADD",
	OpADDSP:   "ADD",
	OpADC:     "ADC",
	OpSUB:     "SUB",
	OpSBC:     "SBC",
	OpAND:     "AND",
	OpOR:      "OR",
	OpXOR:     "XOR",
	OpCP:      "CP",
	OpINC:     "INC",
	OpDEC:     "DEC",
	OpCCF:     "CCF",
	OpSCF:     "SCF",
	OpRRA:     "RRA",
	OpRLA:     "RLA",
	OpRRCA:    "RRCA",
	OpRLCA:    "RLCA",
	OpCPL:     "CPL",
	OpBIT:     "BIT",
	OpRES:     "RES",
	OpSET:     "SET",
	OpSRL:     "SRL",
	OpRR:      "RR",
	OpRL:      "RL",
	OpRRC:     "RRC",
	OpRLC:     "RLC",
	OpSRA:     "SRA",
	OpSLA:     "SLA",
	OpSWAP:    "SWAP",
	OpJP:      "JP",
	OpJR:      "JR",
	OpJPHL:    "JP",
}

func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Op(%d)", uint8(o))
}

func (t ByteTarget) String() string {
	switch t {
	case TargetB:
		return "B"
	case TargetC:
		return "C"
	case TargetD:
		return "D"
	case TargetE:
		return "E"
	case TargetH:
		return "H"
	case TargetL:
		return "L"
	case TargetHLIndirect:
		return "(HL)"
	case TargetA:
		return "A"
	case TargetImmediate:
		return "d8"
	}
	return fmt.Sprintf("ByteTarget(%d)", uint8(t))
}

func (t WordTarget) String() string {
	switch t {
	case PairBC:
		return "BC"
	case PairDE:
		return "DE"
	case PairHL:
		return "HL"
	case PairSP:
		return "SP"
	}
	return fmt.Sprintf("WordTarget(%d)", uint8(t))
}

func (t IncDecTarget) String() string {
	if t.Width == WidthWord {
		return t.Word.String()
	}
	return t.Byte.String()
}

func (j JumpTest) String() string {
	switch j {
	case JumpNotZero:
		return "NZ"
	case JumpZero:
		return "Z"
	case JumpNotCarry:
		return "NC"
	case JumpCarry:
		return "C"
	case JumpAlways:
		return ""
	}
	return fmt.Sprintf("JumpTest(%d)", uint8(j))
}

// String renders the instruction in assembler syntax, e.g. "ADC A, (HL)".
func (i Instruction) String() string {
	name := i.Op.String()

	switch i.Op {
	case OpLD:
		return fmt.Sprintf("LD %s, %s", i.Target, i.Source)
	case OpLDW:
		return fmt.Sprintf("LD %s, d16", i.Pair)
	case OpADD, OpADC, OpSBC:
		return fmt.Sprintf("%s A, %s", name, i.Target)
	case OpSUB, OpAND, OpOR, OpXOR, OpCP,
		OpSRL, OpRR, OpRL, OpRRC, OpRLC, OpSRA, OpSLA, OpSWAP:
		return fmt.Sprintf("%s %s", name, i.Target)
	case OpADDHL:
		return fmt.Sprintf("ADD HL, %s", i.Pair)
	case OpADDSP:
		return "ADD SP, r8"
	case OpINC, OpDEC:
		return fmt.Sprintf("%s %s", name, i.IncDec)
	case OpBIT, OpRES, OpSET:
		return fmt.Sprintf("%s %d, %s", name, i.Bit, i.Target)
	case OpJP:
		if i.Cond == JumpAlways {
			return "JP a16"
		}
		return fmt.Sprintf("JP %s, a16", i.Cond)
	case OpJR:
		if i.Cond == JumpAlways {
			return "JR r8"
		}
		return fmt.Sprintf("JR %s, r8", i.Cond)
	case OpJPHL:
		return "JP (HL)"
	}

	return name
}
