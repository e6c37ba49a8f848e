package emu

// The ALU primitives operate on unsigned operands and report their side
// effects through the flags they are given. They touch no other state.

// Add performs 8-bit addition: l + r mod 256.
// Zero is only reported when the sum is zero without overflow.
func Add(l, r byte, f *Flags) byte {
	sum := uint16(l) + uint16(r)
	result := byte(sum)
	carry := sum > 0xFF

	f.Zero = result == 0 && !carry
	f.Subtract = false
	f.HalfCarry = (l&0xF)+(r&0xF) > 0xF
	f.Carry = carry

	return result
}

// AddCarry performs Add and then adds 1 if the add itself carried.
// The reported flags are those of the underlying Add.
func AddCarry(l, r byte, f *Flags) byte {
	result := Add(l, r, f)
	if f.Carry {
		result++
	}

	return result
}

// AddHL performs 16-bit addition as used by ADD HL,rr.
// Half carry is the carry out of bit 11.
func AddHL(l, r uint16, f *Flags) uint16 {
	sum := uint32(l) + uint32(r)
	result := uint16(sum)
	carry := sum > 0xFFFF

	f.Zero = result == 0 && !carry
	f.Subtract = false
	f.HalfCarry = (l&0xFFF)+(r&0xFFF) > 0xFFF
	f.Carry = carry

	return result
}

// Sub performs 8-bit subtraction: l - r mod 256.
func Sub(l, r byte, f *Flags) byte {
	result := l - r
	borrow := l < r

	f.Zero = result == 0 && !borrow
	f.Subtract = true
	f.HalfCarry = l&0xF < r&0xF
	f.Carry = borrow

	return result
}

// SubCarry performs Sub and then subtracts 1 if the subtraction borrowed.
// The reported flags are those of the underlying Sub.
func SubCarry(l, r byte, f *Flags) byte {
	result := Sub(l, r, f)
	if f.Carry {
		result--
	}

	return result
}

// And performs bitwise AND. Half carry is always set.
func And(l, r byte, f *Flags) byte {
	result := l & r
	setLogicFlags(result, true, f)
	return result
}

// Or performs bitwise OR.
func Or(l, r byte, f *Flags) byte {
	result := l | r
	setLogicFlags(result, false, f)
	return result
}

// Xor performs bitwise exclusive OR.
func Xor(l, r byte, f *Flags) byte {
	result := l ^ r
	setLogicFlags(result, false, f)
	return result
}

func setLogicFlags(result byte, halfCarry bool, f *Flags) {
	f.Zero = result == 0
	f.Subtract = false
	f.HalfCarry = halfCarry
	f.Carry = false
}

// Complement returns the bitwise NOT of v. Carry is left unchanged.
func Complement(v byte, f *Flags) byte {
	result := ^v

	f.Zero = result == 0
	f.Subtract = true
	f.HalfCarry = true

	return result
}

// Increment adds one to v as INC r does. Carry is left unchanged.
func Increment(v byte, f *Flags) byte {
	result := v + 1

	f.Zero = result == 0
	f.Subtract = false
	f.HalfCarry = v&0xF == 0xF

	return result
}

// Decrement subtracts one from v as DEC r does. Carry is left unchanged.
func Decrement(v byte, f *Flags) byte {
	result := v - 1

	f.Zero = result == 0
	f.Subtract = true
	f.HalfCarry = v&0xF == 0

	return result
}

// RotateLeft rotates v left by one. Bit 7 moves to both bit 0 and carry.
// Zero is left unchanged.
func RotateLeft(v byte, f *Flags) byte {
	msb := v >> 7
	setShiftFlags(msb, f)
	return v<<1 | msb
}

// RotateLeftThroughCarry rotates v left through the carry flag: the old
// carry enters bit 0 and bit 7 becomes the new carry. Zero is left
// unchanged.
func RotateLeftThroughCarry(v byte, f *Flags) byte {
	carryIn := boolBit(f.Carry)
	setShiftFlags(v>>7, f)
	return v<<1 | carryIn
}

// RotateRight rotates v right by one. Bit 0 moves to both bit 7 and carry.
// Zero is cleared.
func RotateRight(v byte, f *Flags) byte {
	lsb := v & 1
	setShiftFlags(lsb, f)
	f.Zero = false
	return v>>1 | lsb<<7
}

// RotateRightThroughCarry rotates v right through the carry flag: the old
// carry enters bit 7 and bit 0 becomes the new carry. Zero is cleared.
func RotateRightThroughCarry(v byte, f *Flags) byte {
	carryIn := boolBit(f.Carry)
	setShiftFlags(v&1, f)
	f.Zero = false
	return v>>1 | carryIn<<7
}

// ShiftLeft shifts v left by one; bit 0 becomes zero.
func ShiftLeft(v byte, f *Flags) byte {
	result := v << 1
	setShiftFlags(v>>7, f)
	f.Zero = result == 0
	return result
}

// ShiftRightLogical shifts v right by one; bit 7 becomes zero.
func ShiftRightLogical(v byte, f *Flags) byte {
	result := v >> 1
	setShiftFlags(v&1, f)
	f.Zero = result == 0
	return result
}

// ShiftRightArithmetic shifts v right by one, keeping bit 7.
func ShiftRightArithmetic(v byte, f *Flags) byte {
	result := v>>1 | v&0x80
	setShiftFlags(v&1, f)
	f.Zero = result == 0
	return result
}

// SwapNibbles exchanges the high and low nibbles of v.
func SwapNibbles(v byte, f *Flags) byte {
	result := v<<4 | v>>4
	setShiftFlags(0, f)
	f.Zero = result == 0
	return result
}

// setShiftFlags clears N and H and loads carry from the bit shifted out.
func setShiftFlags(out byte, f *Flags) {
	f.Subtract = false
	f.HalfCarry = false
	f.Carry = out != 0
}
