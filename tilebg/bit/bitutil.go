package bit

// Combine combines two 8 bit values into a single 16 bit value.
// The high byte will be the most significant one.
func Combine(high, low uint8) uint16 {
	return (uint16(high) << 8) | uint16(low)
}

// Low returns the low (LSB) part of a 16 bit number.
func Low(value uint16) uint8 {
	return uint8(value)
}

// High returns the high (MSB) part of a 16 bit number.
func High(value uint16) uint8 {
	return uint8(value >> 8)
}

// IsSet16 will check if the bit at the specified index is set to 1 or not.
func IsSet16(index, value uint16) bool {
	return ((value >> index) & 1) == 1
}

// Pack16 places the low width bits of v at the given shift.
// Bits of v beyond width are dropped so a field can never spill into its neighbour.
func Pack16(v uint16, shift, width uint16) uint16 {
	mask := uint16((1 << width) - 1)
	return (v & mask) << shift
}

// Field16 extracts width bits starting at shift.
// Example: Field16(0b1101_0110_0000_0000, 14, 2) -> 0b11
func Field16(value uint16, shift, width uint16) uint16 {
	mask := uint16((1 << width) - 1)
	return (value >> shift) & mask
}

// Flag16 returns a value with only the bit at index set when on is true.
func Flag16(index uint16, on bool) uint16 {
	if on {
		return 1 << index
	}
	return 0
}
