// Package loader reads raw SM83 program images.
package loader

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sarchlab/gbsim/emu"
)

// DefaultEntryPoint is where cartridge code starts after the boot ROM.
const DefaultEntryPoint = 0x0100

var (
	// ErrEmptyImage is returned for an image with no bytes.
	ErrEmptyImage = errors.New("empty program image")

	// ErrImageTooLarge is returned when an image does not fit between its
	// origin and the top of the address space.
	ErrImageTooLarge = errors.New("program image too large")
)

// Program represents a loaded image ready for execution.
type Program struct {
	// Origin is the address of the first byte of Data.
	Origin uint16
	// EntryPoint is the address where execution should begin.
	EntryPoint uint16
	// Data contains the image contents.
	Data []byte
}

// Load reads the image at path and places it at origin. The entry point
// defaults to DefaultEntryPoint when the image covers it and to origin
// otherwise.
func Load(path string, origin uint16) (*Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open program image: %w", err)
	}
	defer func() { _ = f.Close() }()

	return LoadReader(f, origin)
}

// LoadReader is like Load but reads the image from r.
func LoadReader(r io.Reader, origin uint16) (*Program, error) {
	limit := emu.AddressSpace - int(origin)

	// Read one byte past the limit to detect oversize images.
	data, err := io.ReadAll(io.LimitReader(r, int64(limit)+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read program image: %w", err)
	}

	if len(data) == 0 {
		return nil, ErrEmptyImage
	}
	if len(data) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes at origin 0x%04X",
			ErrImageTooLarge, limit, origin)
	}

	prog := &Program{
		Origin:     origin,
		EntryPoint: origin,
		Data:       data,
	}
	if prog.Covers(DefaultEntryPoint) {
		prog.EntryPoint = DefaultEntryPoint
	}

	return prog, nil
}

// Covers reports whether addr falls inside the image.
func (p *Program) Covers(addr uint16) bool {
	return addr >= p.Origin && int(addr)-int(p.Origin) < len(p.Data)
}

// End returns the address one past the last byte of the image.
func (p *Program) End() int {
	return int(p.Origin) + len(p.Data)
}

// LoadIntoMemory copies the image onto a bus.
func (p *Program) LoadIntoMemory(bus emu.Bus) {
	for i, b := range p.Data {
		bus.Write8(p.Origin+uint16(i), b)
	}
}
