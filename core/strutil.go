package core

// itoa converts an integer to a string without pulling in fmt or strconv.
// Debug paths use it so firmware builds stay small.
func itoa(n int) string {
	return itoa64(int64(n))
}

// itoa64 is itoa for 64-bit values. Trace clocks and step intervals are
// int64 and overflow int on the 32-bit targets.
func itoa64(v int64) string {
	if v == 0 {
		return "0"
	}

	// Magnitude as uint64; plain negation overflows for the minimum int64.
	u := uint64(v)
	negative := v < 0
	if negative {
		u = uint64(-v)
	}

	// Build from the right; 20 bytes covers a sign plus any int64.
	var buf [20]byte
	pos := len(buf)
	for u > 0 {
		pos--
		buf[pos] = byte('0' + u%10)
		u /= 10
	}

	if negative {
		pos--
		buf[pos] = '-'
	}

	return string(buf[pos:])
}
