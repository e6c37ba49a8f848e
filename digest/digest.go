// Package digest fingerprints machine state so that runs can be compared
// against golden values without storing full memory dumps.
package digest

import (
	"fmt"

	"github.com/cespare/xxhash"

	"github.com/sarchlab/gbsim/emu"
)

// Digest is a 64-bit xxhash fingerprint.
type Digest uint64

func (d Digest) String() string {
	return fmt.Sprintf("%016x", uint64(d))
}

// registerBytes lays out registers, SP and PC in a fixed order.
func registerBytes(regs *emu.RegFile, pc uint16) []byte {
	return []byte{
		regs.A, regs.F.Byte(),
		regs.B, regs.C,
		regs.D, regs.E,
		regs.H, regs.L,
		byte(regs.SP >> 8), byte(regs.SP),
		byte(pc >> 8), byte(pc),
	}
}

func memoryBytes(bus emu.Bus) []byte {
	mem := make([]byte, emu.AddressSpace)
	for addr := range mem {
		mem[addr] = bus.Read8(uint16(addr))
	}
	return mem
}

// Registers fingerprints the register file and PC.
func Registers(regs *emu.RegFile, pc uint16) Digest {
	return Digest(xxhash.Sum64(registerBytes(regs, pc)))
}

// Memory fingerprints every byte of the address space. Reads go through
// bus, so a cache in front of memory will see them.
func Memory(bus emu.Bus) Digest {
	return Digest(xxhash.Sum64(memoryBytes(bus)))
}

// State fingerprints registers, PC and memory together.
func State(regs *emu.RegFile, pc uint16, bus emu.Bus) Digest {
	h := xxhash.New()
	_, _ = h.Write(registerBytes(regs, pc))
	_, _ = h.Write(memoryBytes(bus))
	return Digest(h.Sum64())
}

// Emulator fingerprints the full state of e.
func Emulator(e *emu.Emulator) Digest {
	return State(e.RegFile(), e.PC(), e.Bus())
}
