package bitstream

// WriteBuffer is a byte-granular FIFO the encoder appends whole bytes
// into. All bytes are considered immediately "full": codec.Encode packs
// values at their exact bit width itself and only hands over completed
// bytes, zero-padding the last partial byte of each Encode call.
type WriteBuffer struct {
	buf []byte
}

// NewWriteBuffer returns an empty WriteBuffer.
func NewWriteBuffer() *WriteBuffer {
	return &WriteBuffer{}
}

// AddBytes appends whole bytes to the buffer.
func (b *WriteBuffer) AddBytes(data []byte) {
	b.buf = append(b.buf, data...)
}

// FullBytes returns the number of bytes currently available to drain.
func (b *WriteBuffer) FullBytes() int {
	return len(b.buf)
}

// DrainFullBytes removes and returns all buffered bytes.
func (b *WriteBuffer) DrainFullBytes() []byte {
	out := make([]byte, len(b.buf))
	copy(out, b.buf)
	b.buf = b.buf[:0]

	return out
}

// Reset discards all buffered content.
func (b *WriteBuffer) Reset() {
	b.buf = b.buf[:0]
}
