package e57

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/e57fmt/e57/format"
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
		{Name: record.CartesianX, Type: record.Float64Type()},
		{Name: record.CartesianY, Type: record.Float64Type()},
		{Name: record.CartesianZ, Type: record.Float64Type()},
	}
}

func TestWriteReadFile_PointCloudAndBlob(t *testing.T) {
	f := &memFile{}
	w, err := NewWriter(f)
	require.NoError(t, err)

	prototype := xyzPrototype()
	pc, err := w.AddPointCloud("", prototype)
	require.NoError(t, err)

	points := [][]record.Value{
		{
			{Kind: format.RecordFloat64, Float64: 1.0},
			{Kind: format.RecordFloat64, Float64: 2.0},
			{Kind: format.RecordFloat64, Float64: 3.0},
		},
		{
			{Kind: format.RecordFloat64, Float64: -4.5},
			{Kind: format.RecordFloat64, Float64: 0.0},
			{Kind: format.RecordFloat64, Float64: 100.25},
		},
	}
	for _, p := range points {
		require.NoError(t, pc.AddPoint(p))
	}
	pcDesc, err := pc.Finalize()
	require.NoError(t, err)
	require.Equal(t, uint64(len(points)), pcDesc.Records)

	imgPayload := []byte("fake jpeg bytes for an embedded image")
	blobDesc, err := w.AddImageBlob("", bytes.NewReader(imgPayload))
	require.NoError(t, err)

	xml := []byte("<e57Root><!-- caller-owned XML, opaque here --></e57Root>")
	require.NoError(t, w.Finish(xml))

	r, err := Open(f)
	require.NoError(t, err)

	gotXML, err := r.XML()
	require.NoError(t, err)
	require.Equal(t, xml, gotXML)

	pcr, err := r.PointCloud(pcDesc)
	require.NoError(t, err)
	defer pcr.Close()

	for _, want := range points {
		for pcr.Available() == 0 {
			require.NoError(t, pcr.Advance())
		}
		got, err := pcr.PopPoint()
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	blobReader, err := r.Blob(blobDesc)
	require.NoError(t, err)
	gotImg, err := io.ReadAll(blobReader)
	require.NoError(t, err)
	require.Equal(t, imgPayload, gotImg)
}

func TestWriter_GUIDCollisionAcrossSections(t *testing.T) {
	f := &memFile{}
	w, err := NewWriter(f)
	require.NoError(t, err)

	_, err = w.AddPointCloud("dup-guid", xyzPrototype())
	require.NoError(t, err)

	_, err = w.AddImageBlob("dup-guid", bytes.NewReader([]byte("x")))
	require.Error(t, err)
}

func TestWriter_RejectsUseAfterFinish(t *testing.T) {
	f := &memFile{}
	w, err := NewWriter(f)
	require.NoError(t, err)
	require.NoError(t, w.Finish(nil))

	_, err = w.AddPointCloud("", xyzPrototype())
	require.Error(t, err)

	err = w.Finish(nil)
	require.Error(t, err)
}

func TestWriteReadFile_CustomPageSize(t *testing.T) {
	f := &memFile{}
	w, err := NewWriter(f, WithPageSize(128))
	require.NoError(t, err)

	pc, err := w.AddPointCloud("", xyzPrototype())
	require.NoError(t, err)

	want := []record.Value{
		{Kind: format.RecordFloat64, Float64: 7.0},
		{Kind: format.RecordFloat64, Float64: 8.0},
		{Kind: format.RecordFloat64, Float64: 9.0},
	}
	require.NoError(t, pc.AddPoint(want))
	desc, err := pc.Finalize()
	require.NoError(t, err)
	require.NoError(t, w.Finish([]byte("<xml/>")))

	r, err := Open(f)
	require.NoError(t, err)
	require.Equal(t, uint64(128), r.Header().PageSize)

	pcr, err := r.PointCloud(desc)
	require.NoError(t, err)
	defer pcr.Close()

	for pcr.Available() == 0 {
		require.NoError(t, pcr.Advance())
	}
	got, err := pcr.PopPoint()
	require.NoError(t, err)
	require.Equal(t, want, got)
}
