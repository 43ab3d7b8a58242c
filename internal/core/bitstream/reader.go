// If you are AI: This file implements an MSB-first bit reader over a byte slice.
// Reads past the end yield zero bits and never fail; callers check BitsLeft when it matters.

package bitstream

// Reader reads bits MSB-first from a byte slice.
// Invariant: pos <= len(data), and bit == 0 whenever pos == len(data).
type Reader struct {
	data []byte
	pos  int  // current byte
	bit  uint // bit within the current byte, 0 is the most significant
}

// NewReader creates a reader positioned at the first bit of data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// BitsLeft returns the number of unread bits.
func (r *Reader) BitsLeft() int {
	if r.pos >= len(r.data) {
		return 0
	}
	return (len(r.data)-r.pos)*8 - int(r.bit)
}

// Offset returns the number of bits consumed so far.
func (r *Reader) Offset() int {
	return r.pos*8 + int(r.bit)
}

// ReadBit returns the next bit as 0 or 1.
func (r *Reader) ReadBit() uint8 {
	if r.pos >= len(r.data) {
		return 0
	}
	v := r.data[r.pos] >> (7 - r.bit) & 1
	r.advance(1)
	return v
}

// ReadUint8 returns the next 8 bits. Near the end only the remaining bits are
// read and they occupy the high positions of the result.
func (r *Reader) ReadUint8() uint8 {
	n := min(8, r.BitsLeft())
	if n == 0 {
		return 0
	}
	head := 8 - int(r.bit)
	v := r.data[r.pos] << r.bit
	if n > head {
		v |= r.data[r.pos+1] >> head
	}
	v &= 0xff << (8 - n)
	r.advance(n)
	return v
}

// ReadUint returns the next n bits (at most 32) as an unsigned value.
func (r *Reader) ReadUint(n int) uint32 {
	n = min(n, 32)
	var v uint32
	for i := 0; i < n; i++ {
		v = v<<1 | uint32(r.ReadBit())
	}
	return v
}

// ReadBits copies the next n bits into dst, packed MSB-first. A trailing
// partial byte lands in the high bits of its destination byte. It returns the
// number of bits copied, clamped to what is left and to the size of dst.
func (r *Reader) ReadBits(dst []byte, n int) int {
	n = min(n, r.BitsLeft(), len(dst)*8)
	if n <= 0 {
		return 0
	}
	full, tail := n/8, n%8

	if r.bit == 0 {
		copy(dst, r.data[r.pos:r.pos+full])
		r.pos += full
	} else {
		head := 8 - r.bit
		for i := 0; i < full; i++ {
			dst[i] = r.data[r.pos]<<r.bit | r.data[r.pos+1]>>head
			r.pos++
		}
	}
	if r.pos >= len(r.data) {
		r.pos = len(r.data)
		r.bit = 0
	}

	if tail > 0 {
		dst[full] = uint8(r.ReadUint(tail)) << (8 - tail)
	}
	return n
}

// Skip advances n bits, stopping at the end of the data.
func (r *Reader) Skip(n int) {
	if n > 0 {
		r.advance(n)
	}
}

func (r *Reader) advance(n int) {
	total := int(r.bit) + n
	r.pos += total / 8
	r.bit = uint(total % 8)
	if r.pos >= len(r.data) {
		r.pos = len(r.data)
		r.bit = 0
	}
}
