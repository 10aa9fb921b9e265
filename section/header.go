package section

import (
	"github.com/e57fmt/e57/endian"
	"github.com/e57fmt/e57/errs"
)

var byteOrder = endian.GetLittleEndianEngine()

// HeaderSize is the fixed on-disk size of a Header, in bytes.
const HeaderSize = 32

const sectionID = 1

// Header is the compressed-vector section header: a section-id byte,
// seven reserved bytes, then the section's total length, the physical
// offset of its first Data/Ignored packet, and the physical offset of
// its Index packet chain (zero if absent).
type Header struct {
	SectionLength uint64
	DataOffset    uint64
	IndexOffset   uint64
}

// Parse decodes a Header from exactly HeaderSize bytes.
func Parse(data []byte) (Header, error) {
	if len(data) != HeaderSize {
		return Header{}, errs.NewRead("compressed vector section header must be exactly 32 bytes", nil)
	}
	if data[0] != sectionID {
		return Header{}, errs.NewInvalidFile("compressed vector section id is not 1", nil)
	}

	h := Header{
		SectionLength: byteOrder.Uint64(data[8:16]),
		DataOffset:    byteOrder.Uint64(data[16:24]),
		IndexOffset:   byteOrder.Uint64(data[24:32]),
	}

	if h.SectionLength%4 != 0 {
		return Header{}, errs.NewInvalidFile("compressed vector section length is not a multiple of four", nil)
	}

	return h, nil
}

// Bytes serializes h into a newly allocated HeaderSize-byte slice.
func (h Header) Bytes() []byte {
	b := make([]byte, HeaderSize)
	b[0] = sectionID
	byteOrder.PutUint64(b[8:16], h.SectionLength)
	byteOrder.PutUint64(b[16:24], h.DataOffset)
	byteOrder.PutUint64(b[24:32], h.IndexOffset)

	return b
}
