package e57

import (
	"io"

	"github.com/e57fmt/e57/blob"
	"github.com/e57fmt/e57/cvsection"
	"github.com/e57fmt/e57/errs"
	"github.com/e57fmt/e57/header"
	"github.com/e57fmt/e57/page"
)

// Reader opens an E57 file for reading: its file header, its raw XML
// bytes (left for the caller's own XML layer to parse), and, given the
// descriptors that layer produces, decode pipelines over its
// point-cloud and image-blob sections.
type Reader struct {
	r *page.Reader
	h header.Header
}

// Open reads and validates src's 48-byte file header directly, ahead of
// any CRC-paged access — its bytes coincide with the paged stream's
// first logical bytes either way, so this is equivalent to reading it
// through the paged layer. The header's PageSize field then configures
// the paged reader used for everything after it.
func Open(src io.ReadSeeker) (*Reader, error) {
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, errs.NewRead("failed to seek to file start", err)
	}

	raw := make([]byte, header.Size)
	if _, err := io.ReadFull(src, raw); err != nil {
		return nil, errs.NewRead("failed to read file header", err)
	}
	h, err := header.Parse(raw)
	if err != nil {
		return nil, err
	}

	pr, err := page.NewReader(src, page.WithPageSize(h.PageSize))
	if err != nil {
		return nil, err
	}

	return &Reader{r: pr, h: h}, nil
}

// Header returns the parsed file header.
func (r *Reader) Header() header.Header { return r.h }

// XML returns the file's raw XML section bytes, for the caller's own XML
// layer to parse into point-cloud/image/extension descriptors.
func (r *Reader) XML() ([]byte, error) {
	if _, err := r.r.SeekPhysical(r.h.PhysXMLOffset); err != nil {
		return nil, err
	}

	buf := make([]byte, r.h.XMLLength)
	if _, err := io.ReadFull(r.r, buf); err != nil {
		return nil, errs.NewRead("failed to read xml section", err)
	}

	return buf, nil
}

// PointCloud opens a decode pipeline over the compressed-vector section
// described by d, which the caller obtained from its own parse of the
// XML returned by XML(). The caller must call the returned Reader's
// Close once done with it, to return its pooled scratch buffer.
func (r *Reader) PointCloud(d PointCloudDescriptor) (*cvsection.Reader, error) {
	return cvsection.NewReader(r.r, d)
}

// Blob opens a reader over the image payload described by d.
func (r *Reader) Blob(d BlobDescriptor) (io.Reader, error) {
	return blob.Open(r.r, d)
}
