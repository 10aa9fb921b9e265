package section

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHeader_RoundTrip(t *testing.T) {
	h := Header{SectionLength: 128, DataOffset: 32, IndexOffset: 96}

	b := h.Bytes()
	require.Len(t, b, HeaderSize)
	require.Equal(t, byte(1), b[0])

	got, err := Parse(b)
	require.NoError(t, err)
	require.Equal(t, h, got)
}

func TestParse_WrongLength(t *testing.T) {
	_, err := Parse(make([]byte, HeaderSize-1))
	require.Error(t, err)
}

func TestParse_WrongSectionID(t *testing.T) {
	b := Header{SectionLength: 32}.Bytes()
	b[0] = 2
	_, err := Parse(b)
	require.Error(t, err)
}

func TestParse_UnalignedSectionLength(t *testing.T) {
	b := Header{SectionLength: 33}.Bytes()
	_, err := Parse(b)
	require.Error(t, err)
}

func TestParse_ZeroIndexOffsetMeansAbsent(t *testing.T) {
	h := Header{SectionLength: 32, DataOffset: 32, IndexOffset: 0}
	got, err := Parse(h.Bytes())
	require.NoError(t, err)
	require.Zero(t, got.IndexOffset)
}
