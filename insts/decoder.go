package insts

import (
	"errors"
	"fmt"
)

// ErrUnknownInstruction is matched by every decode failure.
var ErrUnknownInstruction = errors.New("unknown instruction")

// UnknownInstructionError reports an opcode with no decode mapping.
type UnknownInstructionError struct {
	Opcode   byte
	Prefixed bool
}

func (e *UnknownInstructionError) Error() string {
	if e.Prefixed {
		return fmt.Sprintf("unknown instruction 0x%02X 0x%02X", PrefixCB, e.Opcode)
	}
	return fmt.Sprintf("unknown instruction 0x%02X", e.Opcode)
}

// Is reports whether target is ErrUnknownInstruction.
func (e *UnknownInstructionError) Is(target error) bool {
	return target == ErrUnknownInstruction
}

// Decoder decodes SM83 opcodes into instructions.
type Decoder struct {
	table *Table
}

// DecoderOption is a functional option for configuring the Decoder.
type DecoderOption func(*Decoder)

// WithTable replaces the default opcode table.
func WithTable(t *Table) DecoderOption {
	return func(d *Decoder) {
		d.table = t
	}
}

// NewDecoder creates a new SM83 instruction decoder.
func NewDecoder(opts ...DecoderOption) *Decoder {
	d := &Decoder{}
	for _, opt := range opts {
		opt(d)
	}
	if d.table == nil {
		d.table = DefaultTable()
	}
	return d
}

// Decode decodes an opcode byte. When prefixed is true, opcode is the byte
// following 0xCB. An unmapped opcode returns an *UnknownInstructionError.
func (d *Decoder) Decode(opcode byte, prefixed bool) (*Instruction, error) {
	inst, ok := d.table.Lookup(opcode, prefixed)
	if !ok {
		return nil, &UnknownInstructionError{Opcode: opcode, Prefixed: prefixed}
	}
	return &inst, nil
}
