package e57

import (
	"io"

	"github.com/e57fmt/e57/blob"
	"github.com/e57fmt/e57/cvsection"
	"github.com/e57fmt/e57/errs"
	"github.com/e57fmt/e57/header"
	"github.com/e57fmt/e57/internal/collision"
	"github.com/e57fmt/e57/page"
	"github.com/e57fmt/e57/record"
)

// Writer produces an E57 file onto an io.ReadWriteSeeker, reserving the
// file header at construction and patching it with its final offsets and
// length on Finish. Point-cloud and image-blob sections are appended in
// between via AddPointCloud/AddImageBlob.
type Writer struct {
	w        *page.Writer
	guids    *collision.Registry
	sections int
	finished bool
}

// Option configures a Writer at construction time.
type Option = page.Option

// WithPageSize overrides the page size the file is written with; see
// page.WithPageSize.
func WithPageSize(size uint64) Option { return page.WithPageSize(size) }

// NewWriter creates a Writer over dst, which must be empty, reserving its
// 48-byte file header. The header is patched with its final values by
// Finish.
func NewWriter(dst io.ReadWriteSeeker, opts ...Option) (*Writer, error) {
	pw, err := page.NewWriter(dst, opts...)
	if err != nil {
		return nil, err
	}

	h := header.New(pw.PageSize())
	if _, err := pw.Write(h.Bytes()); err != nil {
		return nil, errs.NewWrite("failed to write placeholder file header", err)
	}

	return &Writer{
		w:     pw,
		guids: collision.NewRegistry(),
	}, nil
}

// PointCloudWriter accumulates points into one compressed-vector section.
type PointCloudWriter struct {
	inner *cvsection.Writer
}

// AddPoint enqueues one point's values; see cvsection.Writer.AddPoint.
func (p *PointCloudWriter) AddPoint(values []record.Value) error {
	return p.inner.AddPoint(values)
}

// Finalize flushes and closes the section, returning its descriptor for
// publication to the caller's XML layer.
func (p *PointCloudWriter) Finalize() (PointCloudDescriptor, error) {
	d, err := p.inner.Finalize()
	p.inner.Close()

	return d, err
}

// AddPointCloud opens a new compressed-vector section for a point cloud
// with the given prototype. If guid is empty, a deterministic GUID is
// derived from the section's physical offset and ordinal; either way the
// GUID is checked for collisions against every other section registered
// in this Writer.
func (w *Writer) AddPointCloud(guid string, prototype record.Prototype, opts ...cvsection.Option) (*PointCloudWriter, error) {
	if w.finished {
		return nil, errs.NewWrite("writer already finished", nil)
	}

	offset, err := w.w.PhysicalPosition()
	if err != nil {
		return nil, err
	}

	guid, err = w.resolveGUID(guid, offset)
	if err != nil {
		return nil, err
	}

	inner, err := cvsection.NewWriter(w.w, guid, prototype, opts...)
	if err != nil {
		return nil, err
	}
	w.sections++

	return &PointCloudWriter{inner: inner}, nil
}

// AddImageBlob copies all of src into a new raw paged blob section. If
// guid is empty, a deterministic GUID is derived the same way
// AddPointCloud does.
func (w *Writer) AddImageBlob(guid string, src io.Reader) (BlobDescriptor, error) {
	if w.finished {
		return BlobDescriptor{}, errs.NewWrite("writer already finished", nil)
	}

	offset, err := w.w.PhysicalPosition()
	if err != nil {
		return BlobDescriptor{}, err
	}

	guid, err = w.resolveGUID(guid, offset)
	if err != nil {
		return BlobDescriptor{}, err
	}
	w.sections++

	return blob.Write(w.w, guid, src)
}

func (w *Writer) resolveGUID(guid string, offset uint64) (string, error) {
	if guid == "" {
		return w.guids.Derive(offset, w.sections)
	}
	if err := w.guids.Register(guid); err != nil {
		return "", err
	}

	return guid, nil
}

// Finish writes the caller-supplied XML document after every section,
// patches the file header with the XML section's offset/length and the
// final physical file size, and flushes the underlying stream. The
// Writer must not be used afterward.
func (w *Writer) Finish(xml []byte) error {
	if w.finished {
		return errs.NewWrite("writer already finished", nil)
	}

	xmlOffset, err := w.w.PhysicalPosition()
	if err != nil {
		return err
	}
	if _, err := w.w.Write(xml); err != nil {
		return errs.NewWrite("failed to write xml section", err)
	}
	if err := w.w.Align(); err != nil {
		return err
	}

	physLength, err := w.w.PhysicalSize()
	if err != nil {
		return err
	}

	h := header.New(w.w.PageSize())
	h.PhysLength = physLength
	h.PhysXMLOffset = xmlOffset
	h.XMLLength = uint64(len(xml))

	if err := w.w.PhysicalSeek(0); err != nil {
		return err
	}
	if _, err := w.w.Write(h.Bytes()); err != nil {
		return errs.NewWrite("failed to patch file header", err)
	}
	if err := w.w.Close(); err != nil {
		return err
	}

	w.finished = true

	return nil
}
