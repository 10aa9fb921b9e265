// Package codec implements the bit-pack encode/decode operations that
// translate between a record.Type's wire representation — a run of
// fixed-width bit fields in a bitstream.ReadBuffer/WriteBuffer — and
// decoded record.Value slices.
package codec

import (
	"math"

	"github.com/e57fmt/e57/bitstream"
	"github.com/e57fmt/e57/format"
	"github.com/e57fmt/e57/record"
)

// Decode drains as many complete values as are available from src for a
// record of type t, appending them to dst, and returns the extended
// slice. A degenerate (zero-bit) type never has anything to drain from
// src; callers synthesize its constant value separately (see the
// min_queue_size handling in package cvsection).
func Decode(src *bitstream.ReadBuffer, t record.Type, dst []record.Value) []record.Value {
	bits := t.BitWidth()
	if bits == 0 {
		return dst
	}

	for {
		raw, ok := src.Extract(bits)
		if !ok {
			break
		}

		dst = append(dst, decodeOne(raw, bits, t))
	}

	return dst
}

func decodeOne(raw uint64, bits int, t record.Type) record.Value {
	switch t.Kind {
	case format.RecordFloat64:
		return record.Value{Kind: format.RecordFloat64, Float64: math.Float64frombits(raw)}
	case format.RecordFloat32:
		return record.Value{Kind: format.RecordFloat32, Float32: math.Float32frombits(uint32(raw))}
	case format.RecordInteger, format.RecordScaledInteger:
		masked := raw
		if bits < 64 {
			masked = raw & (uint64(1)<<uint(bits) - 1)
		}

		return record.Value{Kind: t.Kind, Int: t.Min + int64(masked)}
	default:
		return record.Value{}
	}
}

// Encode appends the bit-packed representation of values to dst, which
// must all carry a record.Type matching t. Bits are accumulated one
// partial byte at a time (at most 7 pending bits between values, so the
// per-value shift never overflows a uint64 regardless of bit width) and
// flushed to dst as each byte fills; any bits remaining in the final
// partial byte are zero-padded, per the codec's always-byte-aligned
// write contract.
func Encode(dst *bitstream.WriteBuffer, t record.Type, values []record.Value) {
	bits := t.BitWidth()
	if bits == 0 {
		return
	}

	var carry byte
	var carryBits int

	for _, v := range values {
		raw := encodeOne(v, bits, t)
		remaining := bits

		for remaining > 0 {
			take := 8 - carryBits
			if take > remaining {
				take = remaining
			}

			mask := uint64(1)<<uint(take) - 1
			carry |= byte(raw&mask) << uint(carryBits)
			carryBits += take
			raw >>= uint(take)
			remaining -= take

			if carryBits == 8 {
				dst.AddBytes([]byte{carry})
				carry = 0
				carryBits = 0
			}
		}
	}

	if carryBits > 0 {
		dst.AddBytes([]byte{carry})
	}
}

func encodeOne(v record.Value, bits int, t record.Type) uint64 {
	switch t.Kind {
	case format.RecordFloat64:
		return math.Float64bits(v.Float64)
	case format.RecordFloat32:
		return uint64(math.Float32bits(v.Float32))
	case format.RecordInteger, format.RecordScaledInteger:
		raw := uint64(v.Int - t.Min)
		if bits < 64 {
			raw &= uint64(1)<<uint(bits) - 1
		}

		return raw
	default:
		return 0
	}
}
