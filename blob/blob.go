// Package blob writes and reads opaque binary payloads (image data) as
// raw, 4-byte-aligned byte runs through the same CRC-paged layer point
// data uses, anchored by a 16-byte section header rather than the
// compressed-vector packet framing. Content interpretation is out of
// scope for this module; callers own decoding whatever format the blob
// holds.
package blob

import (
	"io"

	"github.com/e57fmt/e57/crc32c"
	"github.com/e57fmt/e57/endian"
	"github.com/e57fmt/e57/errs"
	"github.com/e57fmt/e57/page"
)

var byteOrder = endian.GetLittleEndianEngine()

const sectionHeaderSize = 16
const blobSectionID = 0

// Descriptor anchors one blob within the file: its GUID, its physical
// offset (the start of its 16-byte section header), its logical payload
// length, and a CRC-32C checksum over that payload.
type Descriptor struct {
	GUID     string
	Offset   uint64
	Length   uint64
	Checksum uint32
}

// Write copies all of src into w as a new blob section, returning a
// Descriptor with Offset set to the physical offset Write was called at.
// The caller is responsible for recording the returned offset for later
// XML serialization.
func Write(w *page.Writer, guid string, src io.Reader) (Descriptor, error) {
	offset, err := w.PhysicalPosition()
	if err != nil {
		return Descriptor{}, err
	}

	// Reserve the 16-byte section header; its length field is patched in
	// once the payload has been copied and its size is known.
	header := make([]byte, sectionHeaderSize)
	if _, err := w.Write(header); err != nil {
		return Descriptor{}, errs.NewWrite("failed to reserve blob section header", err)
	}

	checksum := crc32c.New()
	tee := io.TeeReader(src, checksum)

	n, err := io.Copy(w, tee)
	if err != nil {
		return Descriptor{}, errs.NewWrite("failed to write blob payload", err)
	}

	if err := w.Align(); err != nil {
		return Descriptor{}, err
	}

	end, err := w.PhysicalPosition()
	if err != nil {
		return Descriptor{}, err
	}

	if err := w.PhysicalSeek(offset); err != nil {
		return Descriptor{}, err
	}

	byteOrder.PutUint64(header[8:16], uint64(n))
	if _, err := w.Write(header); err != nil {
		return Descriptor{}, errs.NewWrite("failed to patch blob section header", err)
	}

	if err := w.PhysicalSeek(end); err != nil {
		return Descriptor{}, err
	}
	if err := w.Align(); err != nil {
		return Descriptor{}, err
	}

	return Descriptor{
		GUID:     guid,
		Offset:   offset,
		Length:   uint64(n),
		Checksum: checksum.Sum32(),
	}, nil
}

// Open returns a reader over the logical payload of the blob described by
// d, validated against its section header and checksum.
func Open(r *page.Reader, d Descriptor) (io.Reader, error) {
	if _, err := r.SeekPhysical(d.Offset); err != nil {
		return nil, err
	}

	header := make([]byte, sectionHeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, errs.NewRead("failed to read blob section header", err)
	}
	if header[0] != blobSectionID {
		return nil, errs.NewInvalidFile("blob section id is not 0", nil)
	}

	length := byteOrder.Uint64(header[8:16])
	if d.Length > length {
		return nil, errs.NewInvalidFile("blob descriptor length exceeds section length", nil)
	}

	payload := make([]byte, d.Length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, errs.NewRead("failed to read blob payload", err)
	}

	if crc32c.Checksum(payload) != d.Checksum {
		return nil, errs.NewInvalidFile("blob checksum mismatch", errs.ErrChecksumMismatch)
	}

	return &byteReader{data: payload}, nil
}

type byteReader struct {
	data []byte
	pos  int
}

func (b *byteReader) Read(p []byte) (int, error) {
	if b.pos >= len(b.data) {
		return 0, io.EOF
	}

	n := copy(p, b.data[b.pos:])
	b.pos += n

	return n, nil
}
