// Package hash derives deterministic 64-bit identifiers from strings and
// byte-oriented keys using xxHash64.
package hash

import (
	"github.com/cespare/xxhash/v2"
	"github.com/e57fmt/e57/endian"
)

var byteOrder = endian.GetLittleEndianEngine()

// ID returns the xxHash64 digest of data.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}

// SectionID derives a deterministic identifier for a point-cloud or image
// section from its physical file offset and its ordinal position among
// the sections (of either kind) written before it. Used to synthesize a
// GUID when the caller does not supply one.
func SectionID(physicalOffset uint64, ordinal int) uint64 {
	var buf [16]byte
	byteOrder.PutUint64(buf[0:8], physicalOffset)
	byteOrder.PutUint64(buf[8:16], uint64(ordinal))

	return xxhash.Sum64(buf[:])
}
