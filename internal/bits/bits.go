// Package bits holds the bit-field helpers used to drive Bits segments.
// Bit 0 is the least significant bit of buf[0].
package bits

// Read returns bit index of buf. Indexes outside buf read as 0.
func Read(index int, buf []byte) bool {
	if index < 0 || index>>3 >= len(buf) {
		return false
	}
	return (buf[index>>3]>>(index&0x07))&1 == 1
}

// Rotate rotates the width-bit field held in buf by |n| single-bit steps,
// left for positive n and right for negative n. The bit shifted out of one
// end is carried around to the other. Bits of the last byte above width are
// left untouched.
func Rotate(width int, buf []byte, n int) {
	if width <= 0 || n == 0 || len(buf) == 0 {
		return
	}
	if width > len(buf)*8 {
		width = len(buf) * 8
	}
	last := (width - 1) >> 3
	top := uint((width - 1) & 0x07)
	mask := byte(0xFF >> (7 - top))
	steps := n
	if steps < 0 {
		steps = -steps
	}
	for i := 0; i < steps; i++ {
		keep := buf[last] &^ mask
		if n > 0 {
			carry := (buf[last] >> top) & 1
			for b := 0; b <= last; b++ {
				next := buf[b] >> 7
				buf[b] = buf[b]<<1 | carry
				carry = next
			}
		} else {
			carry := buf[0] & 1
			buf[last] = buf[last]&mask | carry<<(top+1)
			for b := last; b >= 0; b-- {
				next := buf[b] & 1
				buf[b] = buf[b]>>1 | carry<<7
				carry = next
			}
		}
		buf[last] = buf[last]&mask | keep
	}
}

// Pack copies buf into 32-bit words, little endian, so a byte pattern can
// feed a Bits segment. dst is grown only if it is too short.
func Pack(buf []byte, dst []uint32) []uint32 {
	n := (len(buf) + 3) / 4
	if cap(dst) < n {
		dst = make([]uint32, n)
	}
	dst = dst[:n]
	for i := range dst {
		dst[i] = 0
	}
	for i, b := range buf {
		dst[i>>2] |= uint32(b) << (uint(i&3) * 8)
	}
	return dst
}
