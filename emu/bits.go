package emu

import (
	"errors"
	"fmt"
)

// ErrBitIndexOutOfBounds is matched by every *BitIndexError.
var ErrBitIndexOutOfBounds = errors.New("bit index out of bounds")

// BitIndexError reports a bit index outside 0..7.
type BitIndexError struct {
	Index uint8
}

func (e *BitIndexError) Error() string {
	return fmt.Sprintf("bit index %d out of bounds (0..7)", e.Index)
}

// Is reports whether target is ErrBitIndexOutOfBounds.
func (e *BitIndexError) Is(target error) bool {
	return target == ErrBitIndexOutOfBounds
}

// BitIndex is a bit position known to be in 0..7.
type BitIndex uint8

// NewBitIndex validates v as a bit position.
func NewBitIndex(v uint8) (BitIndex, error) {
	if v > 7 {
		return 0, &BitIndexError{Index: v}
	}
	return BitIndex(v), nil
}

// Mask returns the single-bit mask for the index.
func (b BitIndex) Mask() byte {
	return 1 << b
}

// BitCheck tests bit idx of v, setting Zero when the bit is clear.
// An out-of-range idx leaves the flags untouched.
func BitCheck(v byte, idx uint8, f *Flags) {
	bit, err := NewBitIndex(idx)
	if err != nil {
		return
	}

	f.Zero = v&bit.Mask() == 0
	f.Subtract = false
	f.HalfCarry = true
}

// BitSet returns v with bit idx set, or v itself for an out-of-range idx.
func BitSet(v byte, idx uint8) byte {
	bit, err := NewBitIndex(idx)
	if err != nil {
		return v
	}
	return v | bit.Mask()
}

// BitReset returns v with bit idx cleared, or v itself for an out-of-range
// idx.
func BitReset(v byte, idx uint8) byte {
	bit, err := NewBitIndex(idx)
	if err != nil {
		return v
	}
	return v &^ bit.Mask()
}
