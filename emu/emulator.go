// Package emu provides functional SM83 (Game Boy CPU) emulation.
package emu

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sarchlab/gbsim/insts"
)

// ErrMaxInstructions is returned by Step once the instruction limit is hit.
var ErrMaxInstructions = errors.New("max instructions reached")

// StepResult represents the result of executing a single instruction.
type StepResult struct {
	// Halted is true if the instruction was HALT.
	Halted bool

	// Err is set if the instruction could not be fetched or decoded.
	Err error
}

// Emulator executes SM83 instructions functionally.
type Emulator struct {
	regFile *RegFile
	bus     Bus
	decoder *insts.Decoder
	pc      uint16

	initialSP uint16

	// I/O
	trace  io.Writer
	stderr io.Writer

	// Execution state
	instructionCount uint64
	maxInstructions  uint64 // 0 means no limit
}

// EmulatorOption is a functional option for configuring the Emulator.
type EmulatorOption func(*Emulator)

// WithBus replaces the default flat memory.
func WithBus(bus Bus) EmulatorOption {
	return func(e *Emulator) {
		e.bus = bus
	}
}

// WithDecoder sets a custom decoder.
func WithDecoder(d *insts.Decoder) EmulatorOption {
	return func(e *Emulator) {
		e.decoder = d
	}
}

// WithTrace makes the emulator print one line per executed instruction.
func WithTrace(w io.Writer) EmulatorOption {
	return func(e *Emulator) {
		e.trace = w
	}
}

// WithStderr sets a custom stderr writer.
func WithStderr(w io.Writer) EmulatorOption {
	return func(e *Emulator) {
		e.stderr = w
	}
}

// WithStackPointer sets the initial stack pointer value.
func WithStackPointer(sp uint16) EmulatorOption {
	return func(e *Emulator) {
		e.initialSP = sp
	}
}

// WithMaxInstructions sets the maximum number of instructions to execute.
// A value of 0 means no limit.
func WithMaxInstructions(max uint64) EmulatorOption {
	return func(e *Emulator) {
		e.maxInstructions = max
	}
}

// NewEmulator creates a new SM83 emulator.
func NewEmulator(opts ...EmulatorOption) *Emulator {
	e := &Emulator{
		regFile: &RegFile{},
		bus:     NewMemory(),
		decoder: insts.NewDecoder(),
		stderr:  os.Stderr,
	}

	for _, opt := range opts {
		opt(e)
	}

	e.regFile.SP = e.initialSP

	return e
}

// RegFile returns the emulator's register file.
func (e *Emulator) RegFile() *RegFile {
	return e.regFile
}

// Bus returns the emulator's memory bus.
func (e *Emulator) Bus() Bus {
	return e.bus
}

// PC returns the program counter.
func (e *Emulator) PC() uint16 {
	return e.pc
}

// SetPC sets the program counter.
func (e *Emulator) SetPC(pc uint16) {
	e.pc = pc
}

// InstructionCount returns the number of instructions executed.
func (e *Emulator) InstructionCount() uint64 {
	return e.instructionCount
}

// LoadProgram copies a program onto the bus at origin and points the PC
// at it.
func (e *Emulator) LoadProgram(origin uint16, program []byte) {
	loadBytes(e.bus, origin, program)
	e.pc = origin
}

// Reset clears the registers, the PC and the instruction count. The bus
// contents are kept.
func (e *Emulator) Reset() {
	e.regFile = &RegFile{SP: e.initialSP}
	e.pc = 0
	e.instructionCount = 0
}

// Step executes a single instruction.
// Returns a StepResult indicating whether execution should continue.
func (e *Emulator) Step() StepResult {
	if e.maxInstructions > 0 && e.instructionCount >= e.maxInstructions {
		return StepResult{Err: ErrMaxInstructions}
	}

	// Fetch; 0xCB selects the extended table for the byte that follows.
	opcode := e.bus.Read8(e.pc)
	prefixed := opcode == insts.PrefixCB
	if prefixed {
		opcode = e.bus.Read8(e.pc + 1)
	}

	inst, err := e.decoder.Decode(opcode, prefixed)
	if err != nil {
		return StepResult{Err: fmt.Errorf("decode at PC=0x%04X: %w", e.pc, err)}
	}

	if e.trace != nil {
		e.traceInstruction(inst)
	}

	e.pc = e.Execute(inst)
	e.instructionCount++

	return StepResult{Halted: inst.Op == insts.OpHALT}
}

// Run executes instructions until HALT or an error occurs.
func (e *Emulator) Run() StepResult {
	for {
		result := e.Step()
		if result.Err != nil {
			_, _ = fmt.Fprintf(e.stderr, "Emulation error: %v\n", result.Err)
			return result
		}
		if result.Halted {
			return result
		}
	}
}

func (e *Emulator) traceInstruction(inst *insts.Instruction) {
	r := e.regFile
	_, _ = fmt.Fprintf(e.trace,
		"%04X  %-16s A:%02X F:%02X B:%02X C:%02X D:%02X E:%02X H:%02X L:%02X SP:%04X\n",
		e.pc, inst.String(), r.A, r.F.Byte(), r.B, r.C, r.D, r.E, r.H, r.L, r.SP)
}

// Execute performs a decoded instruction located at the current PC and
// returns the address of the next instruction. It does not move the PC.
func (e *Emulator) Execute(inst *insts.Instruction) uint16 {
	switch inst.Op {
	case insts.OpNOP, insts.OpHALT:
		return e.pc + 1
	case insts.OpLD:
		v, n := e.ReadByteTarget(inst.Source)
		e.WriteByteTarget(inst.Target, v)
		return e.pc + n
	case insts.OpLDW:
		e.WriteWordTarget(inst.Pair, e.ReadImmediate16())
		return e.pc + 3
	case insts.OpADD, insts.OpADC, insts.OpSUB, insts.OpSBC,
		insts.OpAND, insts.OpOR, insts.OpXOR, insts.OpCP:
		return e.executeALU(inst)
	case insts.OpADDHL:
		r := e.regFile
		r.SetHL(AddHL(r.HL(), e.ReadWordTarget(inst.Pair), &r.F))
		return e.pc + 1
	case insts.OpADDSP:
		return e.executeAddSP()
	case insts.OpINC, insts.OpDEC:
		return e.executeIncDec(inst)
	case insts.OpCCF:
		e.setCarry(!e.regFile.F.Carry)
		return e.pc + 1
	case insts.OpSCF:
		e.setCarry(true)
		return e.pc + 1
	case insts.OpRLCA, insts.OpRRCA, insts.OpRLA, insts.OpRRA, insts.OpCPL:
		return e.executeAccumulator(inst)
	case insts.OpBIT, insts.OpRES, insts.OpSET:
		return e.executeBit(inst)
	case insts.OpRLC, insts.OpRRC, insts.OpRL, insts.OpRR,
		insts.OpSLA, insts.OpSRA, insts.OpSWAP, insts.OpSRL:
		return e.executeShift(inst)
	case insts.OpJP:
		return e.Jump(inst.Cond)
	case insts.OpJR:
		return e.JumpRelative(inst.Cond)
	case insts.OpJPHL:
		return e.regFile.HL()
	}

	panic(fmt.Sprintf("emu: cannot execute %v at PC=0x%04X", inst.Op, e.pc))
}

// executeALU runs the accumulator forms A = A op operand.
func (e *Emulator) executeALU(inst *insts.Instruction) uint16 {
	r := e.regFile
	v, n := e.ReadByteTarget(inst.Target)

	switch inst.Op {
	case insts.OpADD:
		r.A = Add(r.A, v, &r.F)
	case insts.OpADC:
		r.A = AddCarry(r.A, v, &r.F)
	case insts.OpSUB:
		r.A = Sub(r.A, v, &r.F)
	case insts.OpSBC:
		r.A = SubCarry(r.A, v, &r.F)
	case insts.OpAND:
		r.A = And(r.A, v, &r.F)
	case insts.OpOR:
		r.A = Or(r.A, v, &r.F)
	case insts.OpXOR:
		r.A = Xor(r.A, v, &r.F)
	case insts.OpCP:
		Sub(r.A, v, &r.F)
	}

	return e.pc + n
}

// executeAddSP adds a signed immediate to SP. The zero flag computed by
// the 16-bit add is discarded.
func (e *Emulator) executeAddSP() uint16 {
	r := e.regFile
	d, n := e.ReadByteTarget(insts.TargetImmediate)

	r.SP = AddHL(r.SP, uint16(int16(int8(d))), &r.F)
	r.F.Zero = false

	return e.pc + n
}

func (e *Emulator) executeIncDec(inst *insts.Instruction) uint16 {
	if inst.IncDec.Width == insts.WidthWord {
		v := e.ReadWordTarget(inst.IncDec.Word)
		if inst.Op == insts.OpINC {
			v++
		} else {
			v--
		}
		e.WriteWordTarget(inst.IncDec.Word, v)
		return e.pc + 1
	}

	f := &e.regFile.F
	v, n := e.ReadByteTarget(inst.IncDec.Byte)
	if inst.Op == insts.OpINC {
		v = Increment(v, f)
	} else {
		v = Decrement(v, f)
	}
	e.WriteByteTarget(inst.IncDec.Byte, v)

	return e.pc + n
}

func (e *Emulator) setCarry(c bool) {
	f := &e.regFile.F
	f.Subtract = false
	f.HalfCarry = false
	f.Carry = c
}

// executeAccumulator runs the one-byte rotates of A and CPL.
func (e *Emulator) executeAccumulator(inst *insts.Instruction) uint16 {
	r := e.regFile

	switch inst.Op {
	case insts.OpRLCA:
		r.A = RotateLeft(r.A, &r.F)
	case insts.OpRRCA:
		r.A = RotateRight(r.A, &r.F)
	case insts.OpRLA:
		r.A = RotateLeftThroughCarry(r.A, &r.F)
	case insts.OpRRA:
		r.A = RotateRightThroughCarry(r.A, &r.F)
	case insts.OpCPL:
		r.A = Complement(r.A, &r.F)
	}

	return e.pc + 1
}

// executeBit runs BIT, RES and SET. The extra byte is the 0xCB prefix.
func (e *Emulator) executeBit(inst *insts.Instruction) uint16 {
	v, n := e.ReadByteTarget(inst.Target)

	switch inst.Op {
	case insts.OpBIT:
		BitCheck(v, inst.Bit, &e.regFile.F)
	case insts.OpRES:
		e.WriteByteTarget(inst.Target, BitReset(v, inst.Bit))
	case insts.OpSET:
		e.WriteByteTarget(inst.Target, BitSet(v, inst.Bit))
	}

	return e.pc + n + 1
}

// executeShift runs the prefixed rotate and shift family.
func (e *Emulator) executeShift(inst *insts.Instruction) uint16 {
	f := &e.regFile.F
	v, n := e.ReadByteTarget(inst.Target)

	var result byte
	switch inst.Op {
	case insts.OpRLC:
		result = RotateLeft(v, f)
	case insts.OpRRC:
		result = RotateRight(v, f)
	case insts.OpRL:
		result = RotateLeftThroughCarry(v, f)
	case insts.OpRR:
		result = RotateRightThroughCarry(v, f)
	case insts.OpSLA:
		result = ShiftLeft(v, f)
	case insts.OpSRA:
		result = ShiftRightArithmetic(v, f)
	case insts.OpSWAP:
		result = SwapNibbles(v, f)
	case insts.OpSRL:
		result = ShiftRightLogical(v, f)
	}

	// Unlike the accumulator rotates, the prefixed forms report zero.
	f.Zero = result == 0
	e.WriteByteTarget(inst.Target, result)

	return e.pc + n + 1
}
