// If you are AI: This file implements the fixed-capacity stream cache the demuxer parses from.
// Bytes in [0,pos) are consumed, [pos,size) are unparsed. Every read is bounds checked
// through need(); nothing ever reads past size.

package flv

// streamCache is an append buffer with consume/compact semantics.
// It is owned by exactly one Demuxer and never shared.
// Allocation: One fixed backing array for the lifetime of the demuxer.
type streamCache struct {
	buf   []byte
	size  int   // bytes currently valid
	pos   int   // bytes already consumed by the parser
	start int64 // absolute stream offset of buf[0]
	end   int64 // absolute stream offset one past the last appended byte
}

// newStreamCache allocates a cache with the given capacity.
func newStreamCache(capacity int) *streamCache {
	return &streamCache{buf: make([]byte, capacity)}
}

// capacity returns the total number of bytes the cache can hold.
func (c *streamCache) capacity() int {
	return len(c.buf)
}

// free returns the number of bytes append can still accept.
func (c *streamCache) free() int {
	return len(c.buf) - c.size
}

// buffered returns the number of unparsed bytes.
func (c *streamCache) buffered() int {
	return c.size - c.pos
}

// append copies as much of p as fits and returns the count written.
func (c *streamCache) append(p []byte) int {
	n := copy(c.buf[c.size:], p)
	c.size += n
	c.end += int64(n)
	return n
}

// compact drops consumed bytes by shifting the unparsed tail to offset 0.
func (c *streamCache) compact() {
	if c.pos == 0 {
		return
	}
	if c.pos >= c.size {
		c.reset()
		return
	}
	n := copy(c.buf, c.buf[c.pos:c.size])
	c.start += int64(c.pos)
	c.size = n
	c.pos = 0
}

// reset empties the cache; the absolute offset jumps to the current stream end.
func (c *streamCache) reset() {
	c.size = 0
	c.pos = 0
	c.start = c.end
}

// release drops the backing array. The cache must not be used afterwards.
func (c *streamCache) release() {
	c.reset()
	c.buf = nil
}

// need reports whether n unparsed bytes are available.
func (c *streamCache) need(n int) bool {
	return n >= 0 && c.buffered() >= n
}

// absolute converts a cache offset into a stream offset.
func (c *streamCache) absolute(off int) int64 {
	return c.start + int64(off)
}

// The readers below assume need() has been checked by the caller.

func (c *streamCache) u8() uint8 {
	v := c.buf[c.pos]
	c.pos++
	return v
}

func (c *streamCache) u24() uint32 {
	b := c.buf[c.pos : c.pos+3]
	c.pos += 3
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
}

func (c *streamCache) u32() uint32 {
	b := c.buf[c.pos : c.pos+4]
	c.pos += 4
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

// peek returns the next n unparsed bytes without consuming them.
func (c *streamCache) peek(n int) []byte {
	return c.buf[c.pos : c.pos+n]
}

// discard consumes up to n bytes and returns how many were consumed.
func (c *streamCache) discard(n int64) int64 {
	avail := int64(c.buffered())
	if n > avail {
		n = avail
	}
	c.pos += int(n)
	return n
}
