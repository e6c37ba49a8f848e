package benchmarks

import "github.com/sarchlab/gbsim/emu"

// Microbenchmarks are small SM83 loops, each aimed at one part of the
// emulator. All of them end in HALT and are position independent.

// arithmeticLoop sums B down from 200 into A while counting in C.
//
//	0000 LD B,200
//	0002 ADD A,B
//	0003 INC C
//	0004 DEC B
//	0005 JR NZ,0002
//	0007 HALT
func arithmeticLoop() Benchmark {
	return Benchmark{
		Name:        "arithmetic_loop",
		Description: "200 iterations of ADD/INC/DEC - register ALU throughput",
		Program: []byte{
			0x06, 0xC8,
			0x80,
			0x0C,
			0x05,
			0x20, 0xFB,
			0x76,
		},
		ExpectedInstructions: 1 + 200*4 + 1,
	}
}

// memorySequential fills 0xC000..0xC0FF through (HL).
//
//	0000 LD HL,0xC000
//	0003 LD B,0
//	0005 LD (HL),B
//	0006 INC HL
//	0007 DEC B
//	0008 JR NZ,0005
//	000A HALT
func memorySequential() Benchmark {
	return Benchmark{
		Name:        "memory_sequential",
		Description: "256 sequential byte stores - cache line reuse",
		Program: []byte{
			0x21, 0x00, 0xC0,
			0x06, 0x00,
			0x70,
			0x23,
			0x05,
			0x20, 0xFB,
			0x76,
		},
		ExpectedInstructions: 2 + 256*4 + 1,
	}
}

// memoryStrided loads one byte from every 256-byte page in 0x8000..0xBFFF.
//
//	0000 LD HL,0x8000
//	0003 LD BC,0x0100
//	0006 LD D,64
//	0008 LD A,(HL)
//	0009 ADD HL,BC
//	000A DEC D
//	000B JR NZ,0008
//	000D HALT
func memoryStrided() Benchmark {
	return Benchmark{
		Name:        "memory_strided",
		Description: "64 loads with a 256-byte stride - conflict misses",
		Program: []byte{
			0x21, 0x00, 0x80,
			0x01, 0x00, 0x01,
			0x16, 0x40,
			0x7E,
			0x09,
			0x15,
			0x20, 0xFB,
			0x76,
		},
		ExpectedInstructions: 3 + 64*4 + 1,
	}
}

// bitOps runs the prefixed rotate, test and swap forms on A.
//
//	0000 LD A,0x01
//	0002 LD B,100
//	0004 RLC A
//	0006 BIT 0,A
//	0008 SWAP A
//	000A DEC B
//	000B JR NZ,0004
//	000D HALT
func bitOps() Benchmark {
	return Benchmark{
		Name:        "bit_ops",
		Description: "100 iterations of RLC/BIT/SWAP - prefixed decode path",
		Program: []byte{
			0x3E, 0x01,
			0x06, 0x64,
			0xCB, 0x07,
			0xCB, 0x47,
			0xCB, 0x37,
			0x05,
			0x20, 0xF7,
			0x76,
		},
		ExpectedInstructions: 2 + 100*5 + 1,
	}
}

// branchHeavy takes a forward branch on every even counter value.
//
//	0000 LD B,100
//	0002 LD A,B
//	0003 AND 1
//	0005 JR Z,0008
//	0007 NOP
//	0008 DEC B
//	0009 JR NZ,0002
//	000B HALT
func branchHeavy() Benchmark {
	return Benchmark{
		Name:        "branch_heavy",
		Description: "100 iterations with an alternating conditional branch",
		Program: []byte{
			0x06, 0x64,
			0x78,
			0xE6, 0x01,
			0x28, 0x01,
			0x00,
			0x05,
			0x20, 0xF7,
			0x76,
		},
		// The NOP runs for the 50 odd counter values.
		ExpectedInstructions: 1 + 100*5 + 50 + 1,
	}
}

// checksumBlock folds a seeded 64-byte block with ADC, writing the running
// sum back in place.
//
//	0000 LD HL,0xC000
//	0003 LD B,64
//	0005 LD A,(HL)
//	0006 ADC A,B
//	0007 LD (HL),A
//	0008 INC HL
//	0009 DEC B
//	000A JR NZ,0005
//	000C HALT
func checksumBlock() Benchmark {
	return Benchmark{
		Name:        "checksum_block",
		Description: "read-modify-write over a 64-byte block",
		Setup: func(e *emu.Emulator) {
			for i := 0; i < 64; i++ {
				e.Bus().Write8(0xC000+uint16(i), byte(i*7+3))
			}
		},
		Program: []byte{
			0x21, 0x00, 0xC0,
			0x06, 0x40,
			0x7E,
			0x88,
			0x77,
			0x23,
			0x05,
			0x20, 0xF9,
			0x76,
		},
		ExpectedInstructions: 2 + 64*6 + 1,
	}
}

// GetMicrobenchmarks returns the standard microbenchmark suite.
func GetMicrobenchmarks() []Benchmark {
	return []Benchmark{
		arithmeticLoop(),
		memorySequential(),
		memoryStrided(),
		bitOps(),
		branchHeavy(),
		checksumBlock(),
	}
}
