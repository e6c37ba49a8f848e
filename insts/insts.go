// Package insts provides SM83 (Game Boy CPU) instruction definitions and
// decoding.
//
// This package maps raw opcode bytes into structured instruction
// representations. It covers:
//   - 8-bit arithmetic and logic: ADD, ADC, SUB, SBC, AND, OR, XOR, CP
//   - 16-bit arithmetic: ADD HL, rr; ADD SP, r8; INC/DEC rr
//   - Accumulator rotates and flag control: RLCA, RRCA, RLA, RRA, CPL, CCF, SCF
//   - The 0xCB-prefixed space: rotates, shifts, SWAP, BIT, RES, SET
//   - Jumps: JP, JP cc, JP (HL), JR, JR cc
//   - Loads: LD r, r'; LD r, d8; LD rr, d16
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	inst, err := decoder.Decode(0x80, false) // ADD A, B
//	if err != nil {
//		return err
//	}
//	fmt.Println(inst) // ADD A, B
package insts

// PrefixCB is the lead byte of the two-byte extended opcode space.
const PrefixCB byte = 0xCB
