package emu

// Bus is a byte-addressable memory over the full 16-bit address space.
// Anything that provides ROM, RAM or memory-mapped peripherals implements
// it; the CPU treats it as opaque storage.
type Bus interface {
	Read8(addr uint16) byte
	Write8(addr uint16, value byte)
}

// AddressSpace is the number of addressable bytes.
const AddressSpace = 0x10000

// Memory is a flat bus backed by one byte per address.
type Memory struct {
	data [AddressSpace]byte
}

// NewMemory creates a zero-filled memory.
func NewMemory() *Memory {
	return &Memory{}
}

// Read8 reads one byte.
func (m *Memory) Read8(addr uint16) byte {
	return m.data[addr]
}

// Write8 writes one byte.
func (m *Memory) Write8(addr uint16, value byte) {
	m.data[addr] = value
}

// LoadProgram copies data into memory starting at origin. Bytes past
// 0xFFFF wrap around to 0x0000.
func (m *Memory) LoadProgram(origin uint16, data []byte) {
	loadBytes(m, origin, data)
}

func loadBytes(bus Bus, origin uint16, data []byte) {
	for i, b := range data {
		bus.Write8(origin+uint16(i), b)
	}
}
