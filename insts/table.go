package insts

// Table maps opcode bytes to instructions, one 256-entry table for the
// plain space and one for the 0xCB space. Entries left undefined decode as
// unknown instructions.
type Table struct {
	plain [256]*Instruction
	cb    [256]*Instruction
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{}
}

// Define maps a plain opcode to an instruction.
func (t *Table) Define(opcode byte, inst Instruction) {
	inst.Opcode = opcode
	inst.Prefixed = false
	t.plain[opcode] = &inst
}

// DefineCB maps the byte following a 0xCB prefix to an instruction.
func (t *Table) DefineCB(opcode byte, inst Instruction) {
	inst.Opcode = opcode
	inst.Prefixed = true
	t.cb[opcode] = &inst
}

// Lookup returns a copy of the instruction mapped to the opcode.
func (t *Table) Lookup(opcode byte, prefixed bool) (Instruction, bool) {
	entry := t.plain[opcode]
	if prefixed {
		entry = t.cb[opcode]
	}
	if entry == nil {
		return Instruction{}, false
	}
	return *entry, true
}

// Len returns the number of defined plain and prefixed opcodes.
func (t *Table) Len() (plain, prefixed int) {
	for i := range t.plain {
		if t.plain[i] != nil {
			plain++
		}
		if t.cb[i] != nil {
			prefixed++
		}
	}
	return plain, prefixed
}

// aluOps is the operation order of the 0x80-0xBF block and of the
// d8 forms at 0xC6 + 8*i.
var aluOps = [8]Op{OpADD, OpADC, OpSUB, OpSBC, OpAND, OpXOR, OpOR, OpCP}

// shiftOps is the operation order of the 0xCB 0x00-0x3F block.
var shiftOps = [8]Op{OpRLC, OpRRC, OpRL, OpRR, OpSLA, OpSRA, OpSWAP, OpSRL}

// DefaultTable returns a table holding every supported opcode. The whole
// 0xCB space is defined; plain opcodes outside the supported families
// (stack, calls, I/O loads, interrupt control) are left undefined.
func DefaultTable() *Table {
	t := NewTable()

	t.Define(0x00, Instruction{Op: OpNOP})
	t.Define(0x76, Instruction{Op: OpHALT})

	// LD r, r' (0x76 would be LD (HL), (HL) and is HALT instead)
	for op := 0x40; op <= 0x7F; op++ {
		if op == 0x76 {
			continue
		}
		t.Define(byte(op), Instruction{
			Op:     OpLD,
			Target: ByteTarget(op >> 3 & 0x07),
			Source: ByteTarget(op & 0x07),
		})
	}

	// Column 4, 5 and 6 of the first quarter: INC r, DEC r, LD r, d8
	for r := 0; r < 8; r++ {
		t.Define(byte(0x04|r<<3), Instruction{Op: OpINC, IncDec: ByteOperand(ByteTarget(r))})
		t.Define(byte(0x05|r<<3), Instruction{Op: OpDEC, IncDec: ByteOperand(ByteTarget(r))})
		t.Define(byte(0x06|r<<3), Instruction{Op: OpLD, Target: ByteTarget(r), Source: TargetImmediate})
	}

	// Register pair forms
	for p := 0; p < 4; p++ {
		t.Define(byte(0x01|p<<4), Instruction{Op: OpLDW, Pair: WordTarget(p)})
		t.Define(byte(0x03|p<<4), Instruction{Op: OpINC, IncDec: WordOperand(WordTarget(p))})
		t.Define(byte(0x09|p<<4), Instruction{Op: OpADDHL, Pair: WordTarget(p)})
		t.Define(byte(0x0B|p<<4), Instruction{Op: OpDEC, IncDec: WordOperand(WordTarget(p))})
	}

	// Accumulator rotates and flag control
	t.Define(0x07, Instruction{Op: OpRLCA})
	t.Define(0x0F, Instruction{Op: OpRRCA})
	t.Define(0x17, Instruction{Op: OpRLA})
	t.Define(0x1F, Instruction{Op: OpRRA})
	t.Define(0x2F, Instruction{Op: OpCPL})
	t.Define(0x37, Instruction{Op: OpSCF})
	t.Define(0x3F, Instruction{Op: OpCCF})

	// ALU A, r and ALU A, d8
	for i, op := range aluOps {
		for r := 0; r < 8; r++ {
			t.Define(byte(0x80|i<<3|r), Instruction{Op: op, Target: ByteTarget(r)})
		}
		t.Define(byte(0xC6|i<<3), Instruction{Op: op, Target: TargetImmediate})
	}

	t.Define(0xE8, Instruction{Op: OpADDSP})

	// Jumps
	t.Define(0x18, Instruction{Op: OpJR, Cond: JumpAlways})
	t.Define(0xC3, Instruction{Op: OpJP, Cond: JumpAlways})
	t.Define(0xE9, Instruction{Op: OpJPHL})
	for cc := 0; cc < 4; cc++ {
		t.Define(byte(0x20|cc<<3), Instruction{Op: OpJR, Cond: JumpTest(cc)})
		t.Define(byte(0xC2|cc<<3), Instruction{Op: OpJP, Cond: JumpTest(cc)})
	}

	// 0xCB space
	for i, op := range shiftOps {
		for r := 0; r < 8; r++ {
			t.DefineCB(byte(i<<3|r), Instruction{Op: op, Target: ByteTarget(r)})
		}
	}
	for b := 0; b < 8; b++ {
		for r := 0; r < 8; r++ {
			t.DefineCB(byte(0x40|b<<3|r), Instruction{Op: OpBIT, Bit: uint8(b), Target: ByteTarget(r)})
			t.DefineCB(byte(0x80|b<<3|r), Instruction{Op: OpRES, Bit: uint8(b), Target: ByteTarget(r)})
			t.DefineCB(byte(0xC0|b<<3|r), Instruction{Op: OpSET, Bit: uint8(b), Target: ByteTarget(r)})
		}
	}

	return t
}
