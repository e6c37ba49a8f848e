package loader

import (
	"errors"
	"strings"
)

// Cartridge header layout, relative to the start of the address space.
const (
	headerStart      = 0x0100
	headerEnd        = 0x0150
	titleStart       = 0x0134
	titleEnd         = 0x0144
	cgbFlagAddr      = 0x0143
	typeAddr         = 0x0147
	checksumStart    = 0x0134
	checksumEnd      = 0x014D
	headerChecksumAt = 0x014D
)

// ErrNoHeader is returned when an image does not cover 0x0100-0x014F.
var ErrNoHeader = errors.New("image has no cartridge header")

// Header holds the cartridge header fields the runner reports.
type Header struct {
	// Title is the upper-case game title with padding removed.
	Title string
	// CGB is set when byte 0x0143 marks the cartridge as Color-aware.
	CGB bool
	// CartridgeType is the mapper byte at 0x0147.
	CartridgeType byte
	// HeaderChecksum is the byte stored at 0x014D.
	HeaderChecksum byte

	computed byte
}

// Header parses the cartridge header if the image covers it.
func (p *Program) Header() (*Header, error) {
	if !p.Covers(headerStart) || p.End() < headerEnd {
		return nil, ErrNoHeader
	}

	at := func(addr int) byte { return p.Data[addr-int(p.Origin)] }
	raw := func(from, to int) []byte {
		return p.Data[from-int(p.Origin) : to-int(p.Origin)]
	}

	h := &Header{
		CGB:            at(cgbFlagAddr)&0x80 != 0,
		CartridgeType:  at(typeAddr),
		HeaderChecksum: at(headerChecksumAt),
	}

	// Color cartridges give up the last title byte to the CGB flag.
	title := raw(titleStart, titleEnd)
	if h.CGB {
		title = title[:len(title)-1]
	}
	h.Title = strings.TrimRight(string(title), "\x00 ")

	for _, b := range raw(checksumStart, checksumEnd) {
		h.computed = h.computed - b - 1
	}

	return h, nil
}

// ChecksumValid reports whether the stored header checksum matches the
// bytes it covers. The boot ROM refuses to start a cartridge otherwise.
func (h *Header) ChecksumValid() bool {
	return h.computed == h.HeaderChecksum
}
