package core

// utoa converts an unsigned integer to a string without using fmt package
// This is a lightweight alternative for embedded systems
func utoa(n uint32) string {
	if n == 0 {
		return "0"
	}

	var buf [10]byte
	pos := len(buf)
	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[pos:])
}

// flagString renders status flags as a compact "I-L-R" style string
func flagString(s Status) string {
	b := []byte{'-', '-', '-'}
	if s.Ignition {
		b[0] = 'I'
	}
	if s.BlinkLeft {
		b[1] = 'L'
	}
	if s.BlinkRight {
		b[2] = 'R'
	}
	return string(b)
}
