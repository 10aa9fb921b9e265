package cvsection

import (
	"errors"
	"io"
	"testing"

	"github.com/e57fmt/e57/format"
	"github.com/e57fmt/e57/page"
	"github.com/e57fmt/e57/record"
	"github.com/stretchr/testify/require"
)

// memFile is a minimal in-memory io.ReadWriteSeeker, standing in for a
// real file in these tests.
type memFile struct {
	buf []byte
	pos int64
}

func (m *memFile) Read(p []byte) (int, error) {
	if m.pos >= int64(len(m.buf)) {
		return 0, io.EOF
	}
	n := copy(p, m.buf[m.pos:])
	m.pos += int64(n)

	return n, nil
}

func (m *memFile) Write(p []byte) (int, error) {
	end := m.pos + int64(len(p))
	if end > int64(len(m.buf)) {
		grown := make([]byte, end)
		copy(grown, m.buf)
		m.buf = grown
	}
	n := copy(m.buf[m.pos:end], p)
	m.pos += int64(n)

	return n, nil
}

func (m *memFile) Seek(offset int64, whence int) (int64, error) {
	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = m.pos + offset
	case io.SeekEnd:
		target = int64(len(m.buf)) + offset
	default:
		return 0, errors.New("invalid whence")
	}
	if target < 0 {
		return 0, errors.New("negative position")
	}
	m.pos = target

	return m.pos, nil
}

func xyzPrototype() record.Prototype {
	return record.Prototype{
		{Name: record.CartesianX, Type: record.ScaledIntegerType(-100000, 100000, 0.0001, 0)},
		{Name: record.CartesianY, Type: record.ScaledIntegerType(-100000, 100000, 0.0001, 0)},
		{Name: record.CartesianZ, Type: record.ScaledIntegerType(-100000, 100000, 0.0001, 0)},
	}
}

func TestWriterReader_RoundTrip(t *testing.T) {
	f := &memFile{}
	pw, err := page.NewWriter(f, page.WithPageSize(256))
	require.NoError(t, err)

	prototype := xyzPrototype()
	sw, err := NewWriter(pw, "guid-points", prototype)
	require.NoError(t, err)

	points := [][]record.Value{
		{
			{Kind: format.RecordScaledInteger, Int: 10000},
			{Kind: format.RecordScaledInteger, Int: -20000},
			{Kind: format.RecordScaledInteger, Int: 0},
		},
		{
			{Kind: format.RecordScaledInteger, Int: 99999},
			{Kind: format.RecordScaledInteger, Int: -99999},
			{Kind: format.RecordScaledInteger, Int: 12345},
		},
	}
	for _, p := range points {
		require.NoError(t, sw.AddPoint(p))
	}

	d, err := sw.Finalize()
	require.NoError(t, err)
	sw.Close()
	require.NoError(t, pw.Close())

	require.Equal(t, "guid-points", d.GUID)
	require.Equal(t, uint64(len(points)), d.Records)

	pr, err := page.NewReader(f, page.WithPageSize(256))
	require.NoError(t, err)

	sr, err := NewReader(pr, d)
	require.NoError(t, err)
	defer sr.Close()

	for len(points) > 0 {
		if sr.Available() == 0 {
			require.NoError(t, sr.Advance())
			continue
		}
		got, err := sr.PopPoint()
		require.NoError(t, err)
		require.Equal(t, points[0], got)
		points = points[1:]
	}
}

func TestWriterReader_DegenerateAttributeSynthesized(t *testing.T) {
	f := &memFile{}
	pw, err := page.NewWriter(f, page.WithPageSize(256))
	require.NoError(t, err)

	prototype := record.Prototype{
		{Name: record.CartesianX, Type: record.IntegerType(0, 100)},
		{Name: record.CartesianInvalidState, Type: record.IntegerType(0, 0)}, // degenerate: always 0
	}
	sw, err := NewWriter(pw, "guid-degenerate", prototype)
	require.NoError(t, err)

	require.True(t, prototype[1].Type.Degenerate())

	want := []record.Value{
		{Kind: format.RecordInteger, Int: 42},
		{Kind: format.RecordInteger, Int: 0},
	}
	require.NoError(t, sw.AddPoint(want))

	d, err := sw.Finalize()
	require.NoError(t, err)
	sw.Close()
	require.NoError(t, pw.Close())

	pr, err := page.NewReader(f, page.WithPageSize(256))
	require.NoError(t, err)
	sr, err := NewReader(pr, d)
	require.NoError(t, err)
	defer sr.Close()

	for sr.Available() == 0 {
		require.NoError(t, sr.Advance())
	}
	got, err := sr.PopPoint()
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestWriterReader_CompressedRoundTrip(t *testing.T) {
	f := &memFile{}
	pw, err := page.NewWriter(f, page.WithPageSize(256))
	require.NoError(t, err)

	prototype := xyzPrototype()
	sw, err := NewWriter(pw, "guid-compressed", prototype, WithCompression(format.CompressionLZ4))
	require.NoError(t, err)

	want := []record.Value{
		{Kind: format.RecordScaledInteger, Int: 5000},
		{Kind: format.RecordScaledInteger, Int: -5000},
		{Kind: format.RecordScaledInteger, Int: 1},
	}
	require.NoError(t, sw.AddPoint(want))

	d, err := sw.Finalize()
	require.NoError(t, err)
	sw.Close()
	require.NoError(t, pw.Close())

	pr, err := page.NewReader(f, page.WithPageSize(256))
	require.NoError(t, err)
	sr, err := NewReader(pr, d)
	require.NoError(t, err)
	defer sr.Close()

	for sr.Available() == 0 {
		require.NoError(t, sr.Advance())
	}
	got, err := sr.PopPoint()
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestWriter_RejectsWrongValueCount(t *testing.T) {
	f := &memFile{}
	pw, err := page.NewWriter(f, page.WithPageSize(256))
	require.NoError(t, err)

	sw, err := NewWriter(pw, "guid", xyzPrototype())
	require.NoError(t, err)

	err = sw.AddPoint([]record.Value{{Kind: format.RecordScaledInteger, Int: 1}})
	require.Error(t, err)
}

func TestWriter_RejectsWrongValueKind(t *testing.T) {
	f := &memFile{}
	pw, err := page.NewWriter(f, page.WithPageSize(256))
	require.NoError(t, err)

	sw, err := NewWriter(pw, "guid", xyzPrototype())
	require.NoError(t, err)

	err = sw.AddPoint([]record.Value{
		{Kind: format.RecordFloat64, Float64: 1.0},
		{Kind: format.RecordScaledInteger, Int: 1},
		{Kind: format.RecordScaledInteger, Int: 1},
	})
	require.Error(t, err)
}

func TestWriter_FlushesAcrossMultiplePackets(t *testing.T) {
	f := &memFile{}
	pw, err := page.NewWriter(f, page.WithPageSize(256))
	require.NoError(t, err)

	prototype := xyzPrototype()
	sw, err := NewWriter(pw, "guid-many", prototype)
	require.NoError(t, err)

	// 9 bytes per point allow at most 7280 points per packet, so this
	// takes two packets.
	const n = 10000
	var written [][]record.Value
	for i := 0; i < n; i++ {
		p := []record.Value{
			{Kind: format.RecordScaledInteger, Int: int64(i)},
			{Kind: format.RecordScaledInteger, Int: int64(-i)},
			{Kind: format.RecordScaledInteger, Int: int64(i * 2)},
		}
		written = append(written, p)
		require.NoError(t, sw.AddPoint(p))
	}

	d, err := sw.Finalize()
	require.NoError(t, err)
	sw.Close()
	require.NoError(t, pw.Close())
	require.Equal(t, uint64(n), d.Records)

	pr, err := page.NewReader(f, page.WithPageSize(256))
	require.NoError(t, err)
	sr, err := NewReader(pr, d)
	require.NoError(t, err)
	defer sr.Close()

	for i := 0; i < n; i++ {
		for sr.Available() == 0 {
			require.NoError(t, sr.Advance())
		}
		got, err := sr.PopPoint()
		require.NoError(t, err)
		require.Equal(t, written[i], got)
	}
}
