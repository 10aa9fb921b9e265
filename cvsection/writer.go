package cvsection

import (
	"github.com/e57fmt/e57/bitstream"
	"github.com/e57fmt/e57/codec"
	"github.com/e57fmt/e57/compress"
	"github.com/e57fmt/e57/errs"
	"github.com/e57fmt/e57/format"
	"github.com/e57fmt/e57/internal/pool"
	"github.com/e57fmt/e57/packet"
	"github.com/e57fmt/e57/page"
	"github.com/e57fmt/e57/record"
	"github.com/e57fmt/e57/section"
)

// compressedLenFieldSize is the extra 4-byte exact-compressed-length
// field a Data packet carries when compression is enabled, needed
// because the LZ4 codec's raw block API requires the exact compressed
// byte count and cannot tolerate trailing alignment padding.
const compressedLenFieldSize = 4

// maxPacketPayload bounds the total size of a single uncompressed Data
// packet (its 6-byte header, buffer sizes and buffers) so that
// packet_length, stored on the wire as a 16-bit (length-1) value, fits.
const maxPacketPayload = 65532

// Writer appends points into an open compressed-vector section,
// buffering them and flushing whole Data packets as they fill, and
// patches the section header's final length on Finalize.
type Writer struct {
	w             *page.Writer
	guid          string
	sectionOffset uint64
	header        section.Header
	prototype     record.Prototype

	pointCount uint64
	buffered   [][]record.Value

	maxPointsPerPacket int
	compression        format.CompressionType
	codec              compress.Codec

	buf *pool.ByteBuffer
}

// NewWriter reserves a new compressed-vector section at w's current
// physical position, writing a placeholder section header that is
// patched with its final length on Finalize.
func NewWriter(w *page.Writer, guid string, prototype record.Prototype, opts ...Option) (*Writer, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	cd, err := compress.GetCodec(cfg.compression)
	if err != nil {
		return nil, err
	}

	offset, err := w.PhysicalPosition()
	if err != nil {
		return nil, err
	}

	h := section.Header{
		SectionLength: section.HeaderSize,
		DataOffset:    offset + section.HeaderSize,
	}
	if _, err := w.Write(h.Bytes()); err != nil {
		return nil, errs.NewWrite("failed to write compressed vector section header", err)
	}

	return &Writer{
		w:                  w,
		guid:               guid,
		sectionOffset:      offset,
		header:             h,
		prototype:          prototype,
		maxPointsPerPacket: maxPointsPerPacket(prototype),
		compression:        cfg.compression,
		codec:              cd,
		buf:                pool.GetSectionBuffer(),
	}, nil
}

// Close returns the Writer's pooled scratch buffer. Call after Finalize;
// safe to call more than once.
func (w *Writer) Close() {
	if w.buf != nil {
		pool.PutSectionBuffer(w.buf)
		w.buf = nil
	}
}

// maxPointsPerPacket derives a conservative point count per packet from
// the prototype's total per-point byte width, keeping every packet
// within maxPacketPayload even before any bit-packing savings.
func maxPointsPerPacket(prototype record.Prototype) int {
	perPointBytes := 0
	for _, r := range prototype {
		perPointBytes += (r.Type.BitWidth() + 7) / 8
	}
	if perPointBytes == 0 {
		perPointBytes = 1
	}

	overhead := dataHeaderOverhead(len(prototype))
	n := (maxPacketPayload - overhead) / perPointBytes
	// A multiple of eight points fills every stream's buffer with whole
	// bytes, so no zero padding lands between two packets of a stream.
	if n >= 8 {
		n -= n % 8
	}
	if n < 1 {
		n = 1
	}

	return n
}

func dataHeaderOverhead(n int) int {
	return 6 + 2*n
}

// AddPoint enqueues one point's values, validated against the section's
// prototype, flushing a full packet once enough points have buffered.
func (w *Writer) AddPoint(values []record.Value) error {
	if len(values) != len(w.prototype) {
		return errs.ErrValueCountMismatch
	}
	for i, v := range values {
		if v.Kind != w.prototype[i].Type.Kind {
			return errs.ErrValueTypeMismatch
		}
	}

	w.buffered = append(w.buffered, values)
	w.pointCount++

	if len(w.buffered) >= w.maxPointsPerPacket {
		return w.flushPacket(w.maxPointsPerPacket)
	}

	return nil
}

// flushPacket drains up to k buffered points (fewer if that's all that
// remains) into one Data packet.
func (w *Writer) flushPacket(k int) error {
	if k > len(w.buffered) {
		k = len(w.buffered)
	}
	if k == 0 {
		return nil
	}

	points := w.buffered[:k]
	w.buffered = w.buffered[k:]

	buffers := make([][]byte, len(w.prototype))
	for i, r := range w.prototype {
		wb := bitstream.NewWriteBuffer()
		values := make([]record.Value, k)
		for p := range points {
			values[p] = points[p][i]
		}
		codec.Encode(wb, r.Type, values)
		buffers[i] = wb.DrainFullBytes()
	}

	compRestart := w.compression != format.CompressionNone

	var payload []byte
	var compressedLen uint32
	if compRestart {
		concatenated := w.concatBuffers(buffers)
		compressed, err := w.codec.Compress(concatenated)
		if err != nil {
			return errs.NewWrite("failed to compress data packet payload", err)
		}
		payload = compressed
		compressedLen = uint32(len(compressed))
	} else {
		payload = w.concatBuffers(buffers)
	}

	bodyLen := dataHeaderOverhead(len(w.prototype)) + len(payload)
	if compRestart {
		bodyLen += compressedLenFieldSize
	}
	packetLength := uint64(bodyLen)
	if rem := packetLength % 4; rem != 0 {
		packetLength += 4 - rem
	}

	header := packet.DataHeader{
		Flag:            packet.NewDataFlag(compRestart, w.compression),
		PacketLength:    packetLength,
		BytestreamCount: uint16(len(w.prototype)),
	}
	headerBytes := header.Bytes()
	if _, err := w.w.Write(headerBytes[:]); err != nil {
		return errs.NewWrite("failed to write data packet header", err)
	}

	sizes := make([]byte, 2*len(buffers))
	for i, b := range buffers {
		byteOrder.PutUint16(sizes[2*i:2*i+2], uint16(len(b)))
	}
	if _, err := w.w.Write(sizes); err != nil {
		return errs.NewWrite("failed to write data packet buffer sizes", err)
	}

	if compRestart {
		var lenBuf [compressedLenFieldSize]byte
		byteOrder.PutUint32(lenBuf[:], compressedLen)
		if _, err := w.w.Write(lenBuf[:]); err != nil {
			return errs.NewWrite("failed to write data packet compressed length", err)
		}
	}

	if _, err := w.w.Write(payload); err != nil {
		return errs.NewWrite("failed to write data packet payload", err)
	}

	if err := w.w.Align(); err != nil {
		return err
	}

	w.header.SectionLength += packetLength

	return nil
}

// concatBuffers joins buffers into the Writer's pooled scratch buffer,
// reused across calls to avoid a per-packet allocation. The returned
// slice is only valid until the next flushPacket call.
func (w *Writer) concatBuffers(buffers [][]byte) []byte {
	w.buf.Reset()
	for _, b := range buffers {
		w.buf.MustWrite(b)
	}

	return w.buf.Bytes()
}

// Finalize flushes any buffered points, patches the section header with
// its final length, and returns a Descriptor for publication to the
// caller's XML layer.
func (w *Writer) Finalize() (Descriptor, error) {
	for len(w.buffered) > 0 {
		if err := w.flushPacket(w.maxPointsPerPacket); err != nil {
			return Descriptor{}, err
		}
	}

	endOffset, err := w.w.PhysicalPosition()
	if err != nil {
		return Descriptor{}, err
	}

	if err := w.w.PhysicalSeek(w.sectionOffset); err != nil {
		return Descriptor{}, err
	}
	if _, err := w.w.Write(w.header.Bytes()); err != nil {
		return Descriptor{}, errs.NewWrite("failed to patch compressed vector section header", err)
	}
	if err := w.w.PhysicalSeek(endOffset); err != nil {
		return Descriptor{}, err
	}

	return Descriptor{
		GUID:       w.guid,
		Records:    w.pointCount,
		Prototype:  w.prototype,
		FileOffset: w.sectionOffset,
	}, nil
}
