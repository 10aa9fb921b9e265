package cvsection

import (
	"io"

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

// Reader decodes whole points out of a compressed-vector section,
// demultiplexing each Data packet's concatenated attribute buffers into
// one bitstream.ReadBuffer and one value queue per prototype position,
// synchronizing degenerate (zero-bit) attributes in lock-step with the
// rest via a per-advance min_queue_size bound.
type Reader struct {
	r         *page.Reader
	prototype record.Prototype

	byteStreams []*bitstream.ReadBuffer
	queues      [][]record.Value

	buf *pool.ByteBuffer
}

// NewReader opens a Reader over the compressed-vector section described
// by d, seeking r to its first packet.
func NewReader(r *page.Reader, d Descriptor) (*Reader, error) {
	if _, err := r.SeekPhysical(d.FileOffset); err != nil {
		return nil, err
	}

	headerBuf := make([]byte, section.HeaderSize)
	if _, err := io.ReadFull(r, headerBuf); err != nil {
		return nil, errs.NewRead("failed to read compressed vector section header", err)
	}
	h, err := section.Parse(headerBuf)
	if err != nil {
		return nil, err
	}

	if _, err := r.SeekPhysical(h.DataOffset); err != nil {
		return nil, err
	}

	n := len(d.Prototype)
	streams := make([]*bitstream.ReadBuffer, n)
	queues := make([][]record.Value, n)
	for i := range streams {
		streams[i] = bitstream.NewReadBuffer()
	}

	return &Reader{
		r:           r,
		prototype:   d.Prototype,
		byteStreams: streams,
		queues:      queues,
		buf:         pool.GetPacketBuffer(),
	}, nil
}

// Close returns the Reader's pooled scratch buffer. Safe to call more
// than once; subsequent Advance calls after Close are not supported.
func (r *Reader) Close() {
	if r.buf != nil {
		pool.PutPacketBuffer(r.buf)
		r.buf = nil
	}
}

// Available returns the number of complete points ready to pop, the
// minimum queue length across all attributes.
func (r *Reader) Available() int {
	if len(r.queues) == 0 {
		return 0
	}

	av := len(r.queues[0])
	for _, q := range r.queues[1:] {
		if len(q) < av {
			av = len(q)
		}
	}

	return av
}

// PopPoint removes and returns the next point's values, one popped from
// each attribute queue in prototype order. The caller must ensure
// Available() >= 1 first.
func (r *Reader) PopPoint() ([]record.Value, error) {
	if r.Available() < 1 {
		return nil, errs.NewRead("no point available to pop", nil)
	}

	out := make([]record.Value, len(r.prototype))
	for i := range r.prototype {
		out[i] = r.queues[i][0]
		r.queues[i] = r.queues[i][1:]
	}

	return out, nil
}

// Advance reads and decodes the next packet in the section, appending
// any produced values to the per-attribute queues. Index and Ignored
// packets are skipped unread beyond their declared length.
func (r *Reader) Advance() error {
	var idBuf [1]byte
	if _, err := io.ReadFull(r.r, idBuf[:]); err != nil {
		return errs.NewRead("failed to read packet type id", err)
	}

	switch format.PacketType(idBuf[0]) {
	case format.PacketIndex:
		rest := make([]byte, 15)
		if _, err := io.ReadFull(r.r, rest); err != nil {
			return errs.NewRead("failed to read index packet header", err)
		}
		h, err := packet.ReadIndexHeader(rest)
		if err != nil {
			return err
		}
		if err := r.skip(h.PacketLength - 16); err != nil {
			return err
		}

	case format.PacketIgnored:
		rest := make([]byte, 2)
		if _, err := io.ReadFull(r.r, rest); err != nil {
			return errs.NewRead("failed to read ignored packet header", err)
		}
		h, err := packet.ReadIgnoredHeader(rest)
		if err != nil {
			return err
		}
		if err := r.skip(h.PacketLength - 3); err != nil {
			return err
		}

	case format.PacketData:
		rest := make([]byte, 5)
		if _, err := io.ReadFull(r.r, rest); err != nil {
			return errs.NewRead("failed to read data packet header", err)
		}
		h, err := packet.ReadDataHeader(rest)
		if err != nil {
			return err
		}
		if int(h.BytestreamCount) != len(r.byteStreams) {
			return errs.ErrBytestreamCountMismatch
		}

		if err := r.readDataPacket(h); err != nil {
			return err
		}

	default:
		return errs.ErrUnknownPacketID
	}

	return r.r.Align()
}

func (r *Reader) skip(n uint64) error {
	r.buf.Reset()
	r.buf.ExtendOrGrow(int(n))
	if _, err := io.ReadFull(r.r, r.buf.Bytes()); err != nil {
		return errs.NewRead("failed to skip packet payload", err)
	}

	return nil
}

func (r *Reader) readDataPacket(h packet.DataHeader) error {
	n := len(r.byteStreams)

	sizeBuf := make([]byte, 2*n)
	if _, err := io.ReadFull(r.r, sizeBuf); err != nil {
		return errs.NewRead("failed to read data packet buffer sizes", err)
	}

	uncompressedSizes := make([]int, n)
	for i := range uncompressedSizes {
		uncompressedSizes[i] = int(byteOrder.Uint16(sizeBuf[2*i : 2*i+2]))
	}

	compression := h.Flag.Compression()

	var concatenated []byte
	if compression == format.CompressionNone {
		total := 0
		for _, s := range uncompressedSizes {
			total += s
		}
		r.buf.Reset()
		r.buf.ExtendOrGrow(total)
		if _, err := io.ReadFull(r.r, r.buf.Bytes()); err != nil {
			return errs.NewRead("failed to read data packet buffers", err)
		}
		concatenated = r.buf.Bytes()
	} else {
		var lenBuf [compressedLenFieldSize]byte
		if _, err := io.ReadFull(r.r, lenBuf[:]); err != nil {
			return errs.NewRead("failed to read data packet compressed length", err)
		}
		compressedLen := byteOrder.Uint32(lenBuf[:])

		compressed := make([]byte, compressedLen)
		if _, err := io.ReadFull(r.r, compressed); err != nil {
			return errs.NewRead("failed to read data packet compressed payload", err)
		}

		cd, err := compress.GetCodec(compression)
		if err != nil {
			return err
		}
		decompressed, err := cd.Decompress(compressed)
		if err != nil {
			return errs.NewRead("failed to decompress data packet payload", err)
		}
		concatenated = decompressed
	}

	offset := 0
	for i, size := range uncompressedSizes {
		r.byteStreams[i].Append(concatenated[offset : offset+size])
		offset += size
	}

	minQueueSize := -1
	for i, rec := range r.prototype {
		bits := rec.Type.BitWidth()
		if bits == 0 {
			continue
		}

		items := r.byteStreams[i].Available()/bits + len(r.queues[i])
		if minQueueSize < 0 || items < minQueueSize {
			minQueueSize = items
		}
	}
	if minQueueSize < 0 {
		return errs.ErrMalformedPrototype
	}

	for i, rec := range r.prototype {
		if rec.Type.BitWidth() == 0 {
			for len(r.queues[i]) < minQueueSize {
				r.queues[i] = append(r.queues[i], degenerateValue(rec.Type))
			}
			continue
		}

		r.queues[i] = codec.Decode(r.byteStreams[i], rec.Type, r.queues[i])
	}

	return nil
}

// degenerateValue synthesizes the constant value of a zero-bit
// Integer/ScaledInteger record type; Float64/Float32 always carry a
// fixed nonzero bit width and never reach here.
func degenerateValue(t record.Type) record.Value {
	return record.Value{Kind: t.Kind, Int: t.Min}
}

