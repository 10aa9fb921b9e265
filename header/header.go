// Package header implements the 48-byte file header that opens every E57
// file: an "ASTM-E57" signature, a fixed major/minor format version, the
// physical file length, the XML section's physical offset and logical
// length, and the page size the rest of the file was written with.
package header

import (
	"github.com/e57fmt/e57/endian"
	"github.com/e57fmt/e57/errs"
)

var byteOrder = endian.GetLittleEndianEngine()

// Size is the fixed on-disk size of a Header, in bytes.
const Size = 48

var signature = [8]byte{'A', 'S', 'T', 'M', '-', 'E', '5', '7'}

const (
	majorVersion uint32 = 1
	minorVersion uint32 = 0
)

// Header is the file-level header at physical offset 0.
type Header struct {
	Signature     [8]byte // byte offset 0-7
	Major         uint32  // byte offset 8-11
	Minor         uint32  // byte offset 12-15
	PhysLength    uint64  // byte offset 16-23
	PhysXMLOffset uint64  // byte offset 24-31
	XMLLength     uint64  // byte offset 32-39
	PageSize      uint64  // byte offset 40-47
}

// New returns a Header with the signature, version and pageSize fields
// populated; the length/offset fields are filled in once the file is
// finalized.
func New(pageSize uint64) Header {
	return Header{
		Signature: signature,
		Major:     majorVersion,
		Minor:     minorVersion,
		PageSize:  pageSize,
	}
}

// Parse decodes a Header from exactly Size bytes and validates the
// signature, version and page size fields against the values this module
// supports.
func Parse(data []byte) (Header, error) {
	if len(data) != Size {
		return Header{}, errs.NewRead("file header must be exactly 48 bytes", nil)
	}

	var h Header
	copy(h.Signature[:], data[0:8])
	h.Major = byteOrder.Uint32(data[8:12])
	h.Minor = byteOrder.Uint32(data[12:16])
	h.PhysLength = byteOrder.Uint64(data[16:24])
	h.PhysXMLOffset = byteOrder.Uint64(data[24:32])
	h.XMLLength = byteOrder.Uint64(data[32:40])
	h.PageSize = byteOrder.Uint64(data[40:48])

	if h.Signature != signature {
		return Header{}, errs.NewInvalidFile("unsupported file signature", nil)
	}
	if h.Major != majorVersion {
		return Header{}, errs.NewInvalidFile("unsupported major version", nil)
	}
	if h.Minor != minorVersion {
		return Header{}, errs.NewInvalidFile("unsupported minor version", nil)
	}
	if h.PageSize == 0 {
		return Header{}, errs.NewInvalidFile("page size must be non-zero", nil)
	}

	return h, nil
}

// Bytes serializes h into a newly allocated Size-byte slice.
func (h Header) Bytes() []byte {
	b := make([]byte, Size)

	copy(b[0:8], h.Signature[:])
	byteOrder.PutUint32(b[8:12], h.Major)
	byteOrder.PutUint32(b[12:16], h.Minor)
	byteOrder.PutUint64(b[16:24], h.PhysLength)
	byteOrder.PutUint64(b[24:32], h.PhysXMLOffset)
	byteOrder.PutUint64(b[32:40], h.XMLLength)
	byteOrder.PutUint64(b[40:48], h.PageSize)

	return b
}
