// Package crc32c computes the CRC-32C ("Castagnoli") checksum used to
// guard every page of an e57 file. Go's hash/crc32 dispatches to a
// hardware-accelerated Castagnoli implementation on amd64 and arm64 at
// runtime, so it is used directly rather than a hand-rolled table.
package crc32c

import (
	"hash"
	"hash/crc32"
)

var table = crc32.MakeTable(crc32.Castagnoli)

// Checksum returns the CRC-32C of data.
func Checksum(data []byte) uint32 {
	return crc32.Checksum(data, table)
}

// New returns a hash.Hash32 computing CRC-32C, for streaming use.
func New() hash.Hash32 {
	return crc32.New(table)
}

// PutBigEndian writes v into b[0:4] in big-endian order. E57 pages store
// their trailing checksum big-endian even though the rest of the file is
// little-endian; this is a deliberate format quirk, not a bug, and must
// be preserved on both the read and write paths.
func PutBigEndian(b []byte, v uint32) {
	_ = b[3]
	b[0] = byte(v >> 24)
	b[1] = byte(v >> 16)
	b[2] = byte(v >> 8)
	b[3] = byte(v)
}

// BigEndian reads a big-endian uint32 from b[0:4].
func BigEndian(b []byte) uint32 {
	_ = b[3]
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}
