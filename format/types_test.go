package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPacketType_String(t *testing.T) {
	tests := []struct {
		t    PacketType
		want string
	}{
		{PacketIndex, "Index"},
		{PacketData, "Data"},
		{PacketIgnored, "Ignored"},
		{PacketType(0xFF), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			require.Equal(t, tt.want, tt.t.String())
		})
	}
}

func TestRecordType_String(t *testing.T) {
	tests := []struct {
		t    RecordType
		want string
	}{
		{RecordFloat64, "Float64"},
		{RecordFloat32, "Float32"},
		{RecordInteger, "Integer"},
		{RecordScaledInteger, "ScaledInteger"},
		{RecordType(0xFF), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			require.Equal(t, tt.want, tt.t.String())
		})
	}
}

func TestCompressionType_String(t *testing.T) {
	tests := []struct {
		c    CompressionType
		want string
	}{
		{CompressionNone, "None"},
		{CompressionZstd, "Zstd"},
		{CompressionS2, "S2"},
		{CompressionLZ4, "LZ4"},
		{CompressionType(0xFF), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			require.Equal(t, tt.want, tt.c.String())
		})
	}
}

func TestCompressionType_Valid(t *testing.T) {
	require.True(t, CompressionNone.Valid())
	require.True(t, CompressionZstd.Valid())
	require.True(t, CompressionS2.Valid())
	require.True(t, CompressionLZ4.Valid())
	require.False(t, CompressionType(4).Valid())
	require.False(t, CompressionType(0xFF).Valid())
}
