// Package record models the prototype of a point-cloud compressed-vector
// section: the ordered list of attribute records a point is made of, each
// naming a well-known E57 field (or an extension namespace/name pair) and
// carrying a Type describing its wire representation and bit width.
package record

import (
	"fmt"
	"math"

	"github.com/e57fmt/e57/format"
)

// Name identifies a well-known point attribute. NameUnknown marks an
// extension attribute identified instead by Namespace/ExtName on the
// owning Record.
type Name uint8

const (
	NameUnknown Name = iota

	CartesianX
	CartesianY
	CartesianZ
	CartesianInvalidState

	SphericalRange
	SphericalAzimuth
	SphericalElevation
	SphericalInvalidState

	Intensity
	IsIntensityInvalid

	ColorRed
	ColorGreen
	ColorBlue
	IsColorInvalid

	RowIndex
	ColumnIndex

	ReturnCount
	ReturnIndex

	TimeStamp
	IsTimeStampInvalid
)

func (n Name) String() string {
	switch n {
	case NameUnknown:
		return "Unknown"
	case CartesianX:
		return "CartesianX"
	case CartesianY:
		return "CartesianY"
	case CartesianZ:
		return "CartesianZ"
	case CartesianInvalidState:
		return "CartesianInvalidState"
	case SphericalRange:
		return "SphericalRange"
	case SphericalAzimuth:
		return "SphericalAzimuth"
	case SphericalElevation:
		return "SphericalElevation"
	case SphericalInvalidState:
		return "SphericalInvalidState"
	case Intensity:
		return "Intensity"
	case IsIntensityInvalid:
		return "IsIntensityInvalid"
	case ColorRed:
		return "ColorRed"
	case ColorGreen:
		return "ColorGreen"
	case ColorBlue:
		return "ColorBlue"
	case IsColorInvalid:
		return "IsColorInvalid"
	case RowIndex:
		return "RowIndex"
	case ColumnIndex:
		return "ColumnIndex"
	case ReturnCount:
		return "ReturnCount"
	case ReturnIndex:
		return "ReturnIndex"
	case TimeStamp:
		return "TimeStamp"
	case IsTimeStampInvalid:
		return "IsTimeStampInvalid"
	default:
		return "Invalid"
	}
}

// Type describes a record's wire representation: which of the four
// RecordType kinds it is, and, for Integer/ScaledInteger, the inclusive
// bound the bit width is derived from.
type Type struct {
	Kind format.RecordType

	// Min/Max bound Integer and ScaledInteger values (inclusive). Unused
	// for Float64/Float32, whose bit width is fixed.
	Min, Max int64

	// Scale and Offset apply only to ScaledInteger: the decoded
	// floating-point value is Offset + Scale*rawInteger.
	Scale  float64
	Offset float64
}

// Float64Type returns a fixed 64-bit IEEE-754 double record type.
func Float64Type() Type { return Type{Kind: format.RecordFloat64} }

// Float32Type returns a fixed 32-bit IEEE-754 single record type.
func Float32Type() Type { return Type{Kind: format.RecordFloat32} }

// IntegerType returns a bounded-integer record type spanning [min, max].
func IntegerType(min, max int64) Type {
	return Type{Kind: format.RecordInteger, Min: min, Max: max}
}

// ScaledIntegerType returns a bounded scaled-integer record type spanning
// [min, max], decoded as offset + scale*raw.
func ScaledIntegerType(min, max int64, scale, offset float64) Type {
	return Type{Kind: format.RecordScaledInteger, Min: min, Max: max, Scale: scale, Offset: offset}
}

// BitWidth returns the number of bits used to store one value of this
// type in the bit-packed wire format. Float64/Float32 are always 64/32
// bits. Integer/ScaledInteger use ceil(log2(max-min+1)) bits, which is 0
// for a degenerate type whose min equals max (a constant, not stored on
// the wire at all).
func (t Type) BitWidth() int {
	switch t.Kind {
	case format.RecordFloat64:
		return 64
	case format.RecordFloat32:
		return 32
	case format.RecordInteger, format.RecordScaledInteger:
		if t.Min == t.Max {
			return 0
		}

		span := uint64(t.Max - t.Min)
		// ceil(log2(span+1))
		bits := 0
		for (uint64(1) << bits) <= span {
			bits++
		}

		return bits
	default:
		return 0
	}
}

// Degenerate reports whether this type has a zero-bit, constant wire
// representation.
func (t Type) Degenerate() bool { return t.BitWidth() == 0 }

// Record is one attribute position in a point-cloud prototype.
type Record struct {
	// Name identifies the well-known attribute this record represents.
	// If NameUnknown, Namespace and ExtName name an extension attribute
	// instead.
	Name Name

	Namespace string
	ExtName   string

	Type Type
}

// Label returns a human-readable identifier for the record, used in
// error messages.
func (r Record) Label() string {
	if r.Name != NameUnknown {
		return r.Name.String()
	}

	return fmt.Sprintf("%s:%s", r.Namespace, r.ExtName)
}

// Prototype is the ordered list of attribute records describing one point
// in a compressed-vector section.
type Prototype []Record

// Value holds one decoded attribute value, tagged by the RecordType kind
// it came from.
type Value struct {
	Kind    format.RecordType
	Float64 float64
	Float32 float32
	Int     int64
}

// Float returns the value as a float64 regardless of its underlying kind,
// applying ScaledInteger's scale/offset transform when t is a
// ScaledInteger type.
func (v Value) Float(t Type) float64 {
	switch v.Kind {
	case format.RecordFloat64:
		return v.Float64
	case format.RecordFloat32:
		return float64(v.Float32)
	case format.RecordInteger:
		return float64(v.Int)
	case format.RecordScaledInteger:
		return t.Offset + t.Scale*float64(v.Int)
	default:
		return math.NaN()
	}
}
