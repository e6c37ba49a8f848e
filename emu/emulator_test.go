package emu_test

import (
	"bytes"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/gbsim/emu"
	"github.com/sarchlab/gbsim/insts"
)

var _ = Describe("Emulator", func() {
	var (
		e         *emu.Emulator
		regs      *emu.RegFile
		stderrBuf *bytes.Buffer
	)

	BeforeEach(func() {
		stderrBuf = &bytes.Buffer{}
		e = emu.NewEmulator(emu.WithStderr(stderrBuf))
		regs = e.RegFile()
	})

	step := func() {
		result := e.Step()
		ExpectWithOffset(1, result.Err).NotTo(HaveOccurred())
	}

	Describe("NewEmulator", func() {
		It("should start from the zero state", func() {
			Expect(e.PC()).To(Equal(uint16(0)))
			Expect(*e.RegFile()).To(Equal(emu.RegFile{}))
			Expect(e.Bus()).NotTo(BeNil())
			Expect(e.InstructionCount()).To(BeZero())
		})

		It("should apply the stack pointer option", func() {
			e = emu.NewEmulator(emu.WithStackPointer(0xFFFE))
			Expect(e.RegFile().SP).To(Equal(uint16(0xFFFE)))
		})

		It("should use a custom bus", func() {
			bus := emu.NewMemory()
			bus.Write8(0x0000, 0x3C)
			e = emu.NewEmulator(emu.WithBus(bus))

			Expect(e.Step().Err).NotTo(HaveOccurred())
			Expect(e.RegFile().A).To(Equal(byte(1)))
		})
	})

	Describe("LoadProgram", func() {
		It("should copy bytes and point PC at the origin", func() {
			e.LoadProgram(0x0100, []byte{0xDE, 0xAD})

			Expect(e.PC()).To(Equal(uint16(0x0100)))
			Expect(e.Bus().Read8(0x0100)).To(Equal(byte(0xDE)))
			Expect(e.Bus().Read8(0x0101)).To(Equal(byte(0xAD)))
		})
	})

	Describe("Step", func() {
		Context("loads", func() {
			It("should load an immediate into a register", func() {
				e.LoadProgram(0x0100, []byte{0x3E, 0x42})
				step()

				Expect(regs.A).To(Equal(byte(0x42)))
				Expect(e.PC()).To(Equal(uint16(0x0102)))
			})

			It("should copy between registers", func() {
				regs.B = 0x99
				e.LoadProgram(0x0100, []byte{0x78})
				step()

				Expect(regs.A).To(Equal(byte(0x99)))
				Expect(e.PC()).To(Equal(uint16(0x0101)))
			})

			It("should store an immediate through HL", func() {
				regs.SetHL(0xC000)
				e.LoadProgram(0x0100, []byte{0x36, 0x55})
				step()

				Expect(e.Bus().Read8(0xC000)).To(Equal(byte(0x55)))
				Expect(e.PC()).To(Equal(uint16(0x0102)))
			})

			It("should load a word immediate into a pair", func() {
				e.LoadProgram(0x0100, []byte{0x21, 0x00, 0xC0, 0x31, 0xFE, 0xFF})
				step()
				step()

				Expect(regs.HL()).To(Equal(uint16(0xC000)))
				Expect(regs.SP).To(Equal(uint16(0xFFFE)))
				Expect(e.PC()).To(Equal(uint16(0x0106)))
			})
		})

		Context("arithmetic", func() {
			It("should add an immediate to A", func() {
				regs.A = 0x0F
				e.LoadProgram(0x0100, []byte{0xC6, 0x01})
				step()

				Expect(regs.A).To(Equal(byte(0x10)))
				Expect(regs.F).To(Equal(emu.Flags{HalfCarry: true}))
				Expect(e.PC()).To(Equal(uint16(0x0102)))
			})

			It("should add a register to A in one byte", func() {
				regs.A, regs.C = 0x12, 0x01
				e.LoadProgram(0x0100, []byte{0x81})
				step()

				Expect(regs.A).To(Equal(byte(0x13)))
				Expect(e.PC()).To(Equal(uint16(0x0101)))
			})

			It("should add with carry adjustment", func() {
				regs.A = 0xFF
				e.LoadProgram(0x0100, []byte{0xCE, 0x01})
				step()

				Expect(regs.A).To(Equal(byte(0x01)))
				Expect(regs.F).To(Equal(emu.Flags{HalfCarry: true, Carry: true}))
			})

			It("should subtract with carry adjustment", func() {
				regs.A = 0x01
				e.LoadProgram(0x0100, []byte{0xDE, 0x02})
				step()

				Expect(regs.A).To(Equal(byte(0xFE)))
				Expect(regs.F).To(Equal(emu.Flags{Subtract: true, HalfCarry: true, Carry: true}))
			})

			It("should subtract through HL", func() {
				regs.A = 0x10
				regs.SetHL(0xC000)
				e.Bus().Write8(0xC000, 0x01)
				e.LoadProgram(0x0100, []byte{0x96})
				step()

				Expect(regs.A).To(Equal(byte(0x0F)))
				Expect(e.PC()).To(Equal(uint16(0x0101)))
			})

			It("should compare without storing", func() {
				regs.A = 0x05
				e.LoadProgram(0x0100, []byte{0xFE, 0x05})
				step()

				Expect(regs.A).To(Equal(byte(0x05)))
				Expect(regs.F).To(Equal(emu.Flags{Zero: true, Subtract: true}))
				Expect(e.PC()).To(Equal(uint16(0x0102)))
			})

			It("should run the logic group", func() {
				regs.A = 0xF0
				e.LoadProgram(0x0100, []byte{0xE6, 0x3C, 0xF6, 0x01, 0xEE, 0x31, 0xAF})
				step()
				Expect(regs.A).To(Equal(byte(0x30)))
				step()
				Expect(regs.A).To(Equal(byte(0x31)))
				step()
				Expect(regs.A).To(Equal(byte(0x00)))
				Expect(regs.F.Zero).To(BeTrue())

				regs.A = 0x55
				step()
				Expect(regs.A).To(Equal(byte(0x00)))
				Expect(e.PC()).To(Equal(uint16(0x0107)))
			})

			It("should add a pair to HL", func() {
				regs.SetHL(0x0FFF)
				regs.SetBC(0x0001)
				e.LoadProgram(0x0100, []byte{0x09})
				step()

				Expect(regs.HL()).To(Equal(uint16(0x1000)))
				Expect(regs.F).To(Equal(emu.Flags{HalfCarry: true}))
				Expect(e.PC()).To(Equal(uint16(0x0101)))
			})

			It("should add a signed displacement to SP", func() {
				e = emu.NewEmulator(emu.WithStackPointer(0xFFFE))
				regs = e.RegFile()
				e.LoadProgram(0x0100, []byte{0xE8, 0xFE})
				step()

				Expect(regs.SP).To(Equal(uint16(0xFFFC)))
				Expect(regs.F).To(Equal(emu.Flags{HalfCarry: true, Carry: true}))
				Expect(e.PC()).To(Equal(uint16(0x0102)))
			})

			It("should always clear zero after ADD SP", func() {
				regs.F.Zero = true
				e.LoadProgram(0x0100, []byte{0xE8, 0x00})
				step()

				Expect(regs.SP).To(Equal(uint16(0x0000)))
				Expect(regs.F.Zero).To(BeFalse())
			})
		})

		Context("increment and decrement", func() {
			It("should set flags on the byte form and keep carry", func() {
				regs.A = 0xFF
				regs.F.Carry = true
				e.LoadProgram(0x0100, []byte{0x3C})
				step()

				Expect(regs.A).To(Equal(byte(0x00)))
				Expect(regs.F).To(Equal(emu.Flags{Zero: true, HalfCarry: true, Carry: true}))
			})

			It("should increment memory through HL", func() {
				regs.SetHL(0xC000)
				e.Bus().Write8(0xC000, 0x41)
				e.LoadProgram(0x0100, []byte{0x34, 0x35, 0x35})
				step()
				Expect(e.Bus().Read8(0xC000)).To(Equal(byte(0x42)))
				step()
				step()
				Expect(e.Bus().Read8(0xC000)).To(Equal(byte(0x40)))
				Expect(regs.F.Subtract).To(BeTrue())
				Expect(e.PC()).To(Equal(uint16(0x0103)))
			})

			It("should leave flags alone on the word form", func() {
				regs.F = emu.FlagsFromByte(0xA0)
				e.LoadProgram(0x0100, []byte{0x0B, 0x33})
				step()
				step()

				Expect(regs.BC()).To(Equal(uint16(0xFFFF)))
				Expect(regs.SP).To(Equal(uint16(0x0001)))
				Expect(regs.F.Byte()).To(Equal(byte(0xA0)))
				Expect(e.PC()).To(Equal(uint16(0x0102)))
			})
		})

		Context("flag instructions", func() {
			It("should set and complement carry", func() {
				regs.F = emu.Flags{Zero: true, Subtract: true, HalfCarry: true}
				e.LoadProgram(0x0100, []byte{0x37, 0x3F})
				step()
				Expect(regs.F).To(Equal(emu.Flags{Zero: true, Carry: true}))
				step()
				Expect(regs.F).To(Equal(emu.Flags{Zero: true}))
				Expect(e.PC()).To(Equal(uint16(0x0102)))
			})

			It("should complement A", func() {
				regs.A = 0x0F
				e.LoadProgram(0x0100, []byte{0x2F})
				step()

				Expect(regs.A).To(Equal(byte(0xF0)))
				Expect(regs.F).To(Equal(emu.Flags{Subtract: true, HalfCarry: true}))
			})
		})

		Context("accumulator rotates", func() {
			It("should rotate A left and leave zero alone", func() {
				regs.A = 0x85
				regs.F.Zero = true
				e.LoadProgram(0x0100, []byte{0x07})
				step()

				Expect(regs.A).To(Equal(byte(0x0B)))
				Expect(regs.F).To(Equal(emu.Flags{Zero: true, Carry: true}))
				Expect(e.PC()).To(Equal(uint16(0x0101)))
			})

			It("should rotate A through carry in both directions", func() {
				regs.A = 0x80
				e.LoadProgram(0x0100, []byte{0x17, 0x1F})
				step()
				Expect(regs.A).To(Equal(byte(0x00)))
				Expect(regs.F.Carry).To(BeTrue())
				step()
				Expect(regs.A).To(Equal(byte(0x80)))
				Expect(regs.F.Carry).To(BeFalse())
			})
		})

		Context("prefixed instructions", func() {
			It("should rotate a register and advance past the prefix", func() {
				regs.B = 0x80
				e.LoadProgram(0x0100, []byte{0xCB, 0x00})
				step()

				Expect(regs.B).To(Equal(byte(0x01)))
				Expect(regs.F).To(Equal(emu.Flags{Carry: true}))
				Expect(e.PC()).To(Equal(uint16(0x0102)))
			})

			It("should report zero on prefixed rotates", func() {
				regs.C = 0x80
				e.LoadProgram(0x0100, []byte{0xCB, 0x11})
				step()

				Expect(regs.C).To(Equal(byte(0x00)))
				Expect(regs.F).To(Equal(emu.Flags{Zero: true, Carry: true}))
			})

			It("should swap nibbles in memory", func() {
				regs.SetHL(0xC000)
				e.Bus().Write8(0xC000, 0xAB)
				e.LoadProgram(0x0100, []byte{0xCB, 0x36})
				step()

				Expect(e.Bus().Read8(0xC000)).To(Equal(byte(0xBA)))
				Expect(e.PC()).To(Equal(uint16(0x0102)))
			})

			It("should test a bit through HL", func() {
				regs.SetHL(0xC000)
				regs.F.Carry = true
				e.Bus().Write8(0xC000, 0x80)
				e.LoadProgram(0x0100, []byte{0xCB, 0x7E, 0xCB, 0x46})
				step()
				Expect(regs.F).To(Equal(emu.Flags{HalfCarry: true, Carry: true}))
				step()
				Expect(regs.F).To(Equal(emu.Flags{Zero: true, HalfCarry: true, Carry: true}))
				Expect(e.PC()).To(Equal(uint16(0x0104)))
			})

			It("should set and reset bits", func() {
				regs.A = 0x00
				e.LoadProgram(0x0100, []byte{0xCB, 0xFF, 0xCB, 0xBF, 0xCB, 0xC7})
				step()
				Expect(regs.A).To(Equal(byte(0x80)))
				step()
				Expect(regs.A).To(Equal(byte(0x00)))
				step()
				Expect(regs.A).To(Equal(byte(0x01)))
				Expect(e.PC()).To(Equal(uint16(0x0106)))
			})

			It("should shift right logically", func() {
				regs.A = 0x01
				e.LoadProgram(0x0100, []byte{0xCB, 0x3F})
				step()

				Expect(regs.A).To(Equal(byte(0x00)))
				Expect(regs.F).To(Equal(emu.Flags{Zero: true, Carry: true}))
			})
		})

		Context("jumps", func() {
			It("should jump to an absolute address", func() {
				e.LoadProgram(0x0100, []byte{0xC3, 0x50, 0x01})
				step()
				Expect(e.PC()).To(Equal(uint16(0x0150)))
			})

			It("should fall through a conditional jump", func() {
				regs.F.Zero = true
				e.LoadProgram(0x0100, []byte{0xC2, 0x50, 0x01})
				step()
				Expect(e.PC()).To(Equal(uint16(0x0103)))
			})

			It("should jump to HL", func() {
				regs.SetHL(0x0200)
				e.LoadProgram(0x0100, []byte{0xE9})
				step()
				Expect(e.PC()).To(Equal(uint16(0x0200)))
			})

			It("should take a relative jump backwards", func() {
				e.LoadProgram(0x0100, []byte{0x00, 0x18, 0xFD})
				step()
				step()
				Expect(e.PC()).To(Equal(uint16(0x0100)))
			})
		})

		Context("errors", func() {
			It("should stop on an unknown opcode without moving PC", func() {
				e.LoadProgram(0x0100, []byte{0xD3})
				result := e.Step()

				Expect(errors.Is(result.Err, insts.ErrUnknownInstruction)).To(BeTrue())
				Expect(result.Err.Error()).To(ContainSubstring("PC=0x0100"))
				Expect(e.PC()).To(Equal(uint16(0x0100)))
				Expect(e.InstructionCount()).To(BeZero())
			})

			It("should stop on 0xCB followed by an unmapped byte", func() {
				table := insts.NewTable()
				table.DefineCB(0x37, insts.Instruction{Op: insts.OpSWAP, Target: insts.TargetA})
				e = emu.NewEmulator(emu.WithDecoder(insts.NewDecoder(insts.WithTable(table))))

				e.LoadProgram(0x0100, []byte{0xCB, 0x38})
				result := e.Step()

				Expect(errors.Is(result.Err, insts.ErrUnknownInstruction)).To(BeTrue())
				Expect(result.Err.Error()).To(ContainSubstring("0xCB 0x38"))
				Expect(e.PC()).To(Equal(uint16(0x0100)))
			})

			It("should enforce the instruction limit", func() {
				e = emu.NewEmulator(emu.WithMaxInstructions(2), emu.WithStderr(stderrBuf))
				result := e.Run()

				Expect(result.Err).To(MatchError(emu.ErrMaxInstructions))
				Expect(e.InstructionCount()).To(Equal(uint64(2)))
				Expect(e.PC()).To(Equal(uint16(0x0002)))
			})
		})
	})

	Describe("Run", func() {
		It("should run a countdown loop until HALT", func() {
			e.LoadProgram(0x0000, []byte{
				0x06, 0x03, // LD B, 3
				0x05,       // DEC B
				0x20, 0xFD, // JR NZ, -3
				0x76,       // HALT
			})
			result := e.Run()

			Expect(result.Err).NotTo(HaveOccurred())
			Expect(result.Halted).To(BeTrue())
			Expect(regs.B).To(Equal(byte(0)))
			Expect(regs.F.Zero).To(BeTrue())
			Expect(e.InstructionCount()).To(Equal(uint64(8)))
			Expect(e.PC()).To(Equal(uint16(0x0006)))
		})

		It("should report decode errors to stderr", func() {
			e.LoadProgram(0x0000, []byte{0x00, 0xDD})
			result := e.Run()

			Expect(result.Err).To(HaveOccurred())
			Expect(stderrBuf.String()).To(ContainSubstring("Emulation error"))
			Expect(stderrBuf.String()).To(ContainSubstring("unknown instruction 0xDD"))
			Expect(e.PC()).To(Equal(uint16(0x0001)))
		})

		It("should trace each instruction", func() {
			traceBuf := &bytes.Buffer{}
			e = emu.NewEmulator(emu.WithTrace(traceBuf))
			e.LoadProgram(0x0100, []byte{0x3E, 0x42, 0x76})
			e.Run()

			Expect(traceBuf.String()).To(ContainSubstring("0100  LD A, d8"))
			Expect(traceBuf.String()).To(ContainSubstring("0102  HALT"))
			Expect(traceBuf.String()).To(ContainSubstring("A:42"))
		})
	})

	Describe("Reset", func() {
		It("should clear registers and counters but keep memory", func() {
			e = emu.NewEmulator(emu.WithStackPointer(0xFFFE))
			e.LoadProgram(0x0100, []byte{0x3E, 0x42, 0x76})
			e.Run()

			e.Reset()

			Expect(e.RegFile().A).To(BeZero())
			Expect(e.RegFile().SP).To(Equal(uint16(0xFFFE)))
			Expect(e.PC()).To(BeZero())
			Expect(e.InstructionCount()).To(BeZero())
			Expect(e.Bus().Read8(0x0100)).To(Equal(byte(0x3E)))
		})
	})
})
