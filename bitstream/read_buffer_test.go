package bitstream

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadBuffer_ExtractZeroBits(t *testing.T) {
	b := NewReadBuffer()
	v, ok := b.Extract(0)
	require.True(t, ok)
	require.Zero(t, v)
}

func TestReadBuffer_ExtractInsufficientBits(t *testing.T) {
	b := NewReadBuffer()
	b.Append([]byte{0x42})

	_, ok := b.Extract(9)
	require.False(t, ok)
	// Unsuccessful extract must not consume bits.
	require.Equal(t, 8, b.Available())
}

func TestReadBuffer_ExtractByteAligned(t *testing.T) {
	b := NewReadBuffer()
	b.Append([]byte{0x01, 0x02, 0x03, 0x04})

	for _, want := range []uint64{0x01, 0x02, 0x03, 0x04} {
		v, ok := b.Extract(8)
		require.True(t, ok)
		require.Equal(t, want, v)
	}

	require.Zero(t, b.Available())
}

func TestReadBuffer_ExtractWideByteAligned(t *testing.T) {
	b := NewReadBuffer()
	b.Append([]byte{0x11, 0x22, 0x33, 0x44})

	v, ok := b.Extract(32)
	require.True(t, ok)
	// Little-endian 32-bit word.
	require.Equal(t, uint64(0x44332211), v)
}

func TestReadBuffer_AppendReclaimsConsumedBytes(t *testing.T) {
	b := NewReadBuffer()
	b.Append([]byte{0xAA, 0xBB})

	_, ok := b.Extract(8)
	require.True(t, ok)
	require.Equal(t, 8, b.Available())

	b.Append([]byte{0xCC})
	require.Equal(t, 16, b.Available())

	v, ok := b.Extract(8)
	require.True(t, ok)
	require.Equal(t, uint64(0xBB), v)

	v, ok = b.Extract(8)
	require.True(t, ok)
	require.Equal(t, uint64(0xCC), v)
}

func TestReadBuffer_Reset(t *testing.T) {
	b := NewReadBuffer()
	b.Append([]byte{0x01, 0x02, 0x03})
	_, _ = b.Extract(8)

	b.Reset()
	require.Zero(t, b.Available())

	b.Append([]byte{0x99})
	v, ok := b.Extract(8)
	require.True(t, ok)
	require.Equal(t, uint64(0x99), v)
}

func TestReadBuffer_UnalignedExtractMatchesManualBits(t *testing.T) {
	b := NewReadBuffer()
	b.Append([]byte{0xB5}) // 1011 0101

	lo, ok := b.Extract(4)
	require.True(t, ok)
	require.Equal(t, uint64(0x5), lo&0xF) // low nibble

	hi, ok := b.Extract(4)
	require.True(t, ok)
	require.Equal(t, uint64(0xB), hi&0xF) // high nibble
}
