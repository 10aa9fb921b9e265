// Package format defines the small closed enumerations used across the
// wire format: packet kinds, per-record value types, and the optional
// Data-packet payload compression codec.
package format

type (
	// PacketType identifies which of the three packet kinds a
	// compressed-vector section packet is.
	PacketType uint8

	// RecordType tags which wire representation a prototype record uses.
	RecordType uint8

	// CompressionType selects the optional payload compressor applied to
	// a Data packet's concatenated attribute buffers. Zero value is
	// CompressionNone, matching the "unset" encoding of the flag byte's
	// compression bits.
	CompressionType uint8
)

const (
	PacketIndex   PacketType = 0x00
	PacketData    PacketType = 0x01
	PacketIgnored PacketType = 0x02
)

const (
	RecordFloat64       RecordType = iota // IEEE 754 double, fixed 64 bits
	RecordFloat32                         // IEEE 754 single, fixed 32 bits
	RecordInteger                         // bounded integer, bit width from min/max
	RecordScaledInteger                   // bounded integer with scale/offset, bit width from min/max
)

const (
	CompressionNone CompressionType = iota // no compression (default, wire-compatible with the base format)
	CompressionZstd                        // Zstandard, via klauspost/compress or gozstd
	CompressionS2                          // S2 (Snappy-compatible), via klauspost/compress
	CompressionLZ4                         // LZ4, via pierrec/lz4
)

func (p PacketType) String() string {
	switch p {
	case PacketIndex:
		return "Index"
	case PacketData:
		return "Data"
	case PacketIgnored:
		return "Ignored"
	default:
		return "Unknown"
	}
}

func (r RecordType) String() string {
	switch r {
	case RecordFloat64:
		return "Float64"
	case RecordFloat32:
		return "Float32"
	case RecordInteger:
		return "Integer"
	case RecordScaledInteger:
		return "ScaledInteger"
	default:
		return "Unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// Valid reports whether c is one of the defined compression codecs.
func (c CompressionType) Valid() bool {
	return c <= CompressionLZ4
}
