// Package packet implements the three compressed-vector section packet
// headers (Index, Data, Ignored) described by the wire format: a single
// type-id byte followed by a fixed-size header, each packet_length field
// stored as (length-1) in a uint16 and required to be a multiple of four.
package packet

import (
	"fmt"

	"github.com/e57fmt/e57/endian"
	"github.com/e57fmt/e57/errs"
	"github.com/e57fmt/e57/format"
)

var byteOrder = endian.GetLittleEndianEngine()

// IndexHeader is the 16-byte header of an Index packet: a type byte, a
// reserved byte, the packet length, entry count and index level (both
// currently unused by this module's readers), and nine reserved bytes.
type IndexHeader struct {
	PacketLength uint64
}

const indexHeaderSize = 16

// ReadIndexHeader reads and validates an Index packet header from buf,
// which must contain exactly the 15 bytes following the type-id byte.
func ReadIndexHeader(buf []byte) (IndexHeader, error) {
	if len(buf) != indexHeaderSize-1 {
		return IndexHeader{}, errs.NewRead("short index packet header", nil)
	}
	if buf[0] != 0 {
		return IndexHeader{}, errs.NewInvalidFile("index packet reserved byte is not zero", nil)
	}
	for _, b := range buf[6:] {
		if b != 0 {
			return IndexHeader{}, errs.NewInvalidFile("index packet trailing reserved bytes are not zero", nil)
		}
	}

	length := uint64(byteOrder.Uint16(buf[1:3])) + 1
	if length%4 != 0 {
		return IndexHeader{}, fmt.Errorf("%w: index packet length %d", errs.ErrUnalignedLength, length)
	}
	if length < indexHeaderSize {
		return IndexHeader{}, errs.NewInvalidFile("index packet length is shorter than its own header", nil)
	}

	return IndexHeader{PacketLength: length}, nil
}

// DataFlag is the single flag byte of a Data packet header. Bit 0 is the
// format's comp_restart_flag; bits 1-3 hold the optional
// format.CompressionType chosen for this packet's payload; bits 4-7 are
// reserved zero.
type DataFlag uint8

// NewDataFlag builds a DataFlag from its logical fields.
func NewDataFlag(compRestart bool, comp format.CompressionType) DataFlag {
	var f DataFlag
	if compRestart {
		f |= 1
	}
	f |= DataFlag(comp) << 1

	return f
}

// CompRestart reports the comp_restart_flag bit.
func (f DataFlag) CompRestart() bool { return f&1 != 0 }

// Compression extracts the compression-type bits.
func (f DataFlag) Compression() format.CompressionType {
	return format.CompressionType((f >> 1) & 0x7)
}

const dataHeaderSize = 6

// DataHeader is the 6-byte header of a Data packet.
type DataHeader struct {
	Flag            DataFlag
	PacketLength    uint64
	BytestreamCount uint16
}

// ReadDataHeader reads and validates a Data packet header from buf, which
// must contain exactly the 5 bytes following the type-id byte.
func ReadDataHeader(buf []byte) (DataHeader, error) {
	if len(buf) != dataHeaderSize-1 {
		return DataHeader{}, errs.NewRead("short data packet header", nil)
	}

	flag := DataFlag(buf[0])
	length := uint64(byteOrder.Uint16(buf[1:3])) + 1
	count := byteOrder.Uint16(buf[3:5])

	if length%4 != 0 {
		return DataHeader{}, fmt.Errorf("%w: data packet length %d", errs.ErrUnalignedLength, length)
	}
	if count == 0 {
		return DataHeader{}, errs.NewInvalidFile("data packet bytestream count is zero", nil)
	}

	return DataHeader{Flag: flag, PacketLength: length, BytestreamCount: count}, nil
}

// Bytes serializes h, including the leading type-id byte, for writing.
func (h DataHeader) Bytes() [dataHeaderSize]byte {
	var buf [dataHeaderSize]byte
	buf[0] = byte(format.PacketData)
	buf[1] = byte(h.Flag)
	byteOrder.PutUint16(buf[2:4], uint16(h.PacketLength-1))
	byteOrder.PutUint16(buf[4:6], h.BytestreamCount)

	return buf
}

const ignoredHeaderSize = 3

// IgnoredHeader is the 3-byte header of an Ignored packet.
type IgnoredHeader struct {
	PacketLength uint64
}

// ReadIgnoredHeader reads and validates an Ignored packet header from buf,
// which must contain exactly the 2 bytes following the type-id byte.
func ReadIgnoredHeader(buf []byte) (IgnoredHeader, error) {
	if len(buf) != ignoredHeaderSize-1 {
		return IgnoredHeader{}, errs.NewRead("short ignored packet header", nil)
	}

	length := uint64(byteOrder.Uint16(buf[0:2])) + 1
	if length%4 != 0 {
		return IgnoredHeader{}, fmt.Errorf("%w: ignored packet length %d", errs.ErrUnalignedLength, length)
	}
	if length < ignoredHeaderSize {
		return IgnoredHeader{}, errs.NewInvalidFile("ignored packet length is shorter than its own header", nil)
	}

	return IgnoredHeader{PacketLength: length}, nil
}

// IDByte returns the leading type-id byte for t, or an error for an
// unrecognized packet type.
func IDByte(t format.PacketType) (byte, error) {
	switch t {
	case format.PacketIndex, format.PacketData, format.PacketIgnored:
		return byte(t), nil
	default:
		return 0, fmt.Errorf("%w: %d", errs.ErrUnknownPacketID, t)
	}
}
