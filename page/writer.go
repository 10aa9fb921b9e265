package page

import (
	"fmt"
	"io"

	"github.com/e57fmt/e57/crc32c"
	"github.com/e57fmt/e57/errs"
)

// Writer is an io.Writer over the logical payload stream of a paged E57
// file, buffering one page at a time and appending the CRC-32C trailer
// once a page fills, or on Flush/Close for a final partial page.
type Writer struct {
	dst io.ReadWriteSeeker

	pageSize uint64
	offset   uint64 // offset within the current page's payload
	pageBuf  []byte
}

// NewWriter creates a Writer wrapping dst, which must be empty (zero
// length) so that physical and logical offsets start aligned.
func NewWriter(dst io.ReadWriteSeeker, opts ...Option) (*Writer, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	end, err := dst.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, errs.NewWrite("failed to seek to end", err)
	}
	if end != 0 {
		return nil, errs.NewWrite("destination is not empty", errs.ErrWriterNotEmpty)
	}

	return &Writer{
		dst:      dst,
		pageSize: cfg.pageSize,
		pageBuf:  make([]byte, cfg.pageSize),
	}, nil
}

func (w *Writer) payloadSize() uint64 { return w.pageSize - checksumSize }

// PageSize returns the page size this Writer was constructed with.
func (w *Writer) PageSize() uint64 { return w.pageSize }

// Write implements io.Writer, buffering bytes into the current page and
// flushing a full page (payload plus CRC-32C trailer) whenever it fills.
func (w *Writer) Write(p []byte) (int, error) {
	written := 0
	for len(p) > 0 {
		remaining := w.payloadSize() - w.offset
		n := uint64(len(p))
		if n > remaining {
			n = remaining
		}

		copy(w.pageBuf[w.offset:w.offset+n], p[:n])
		w.offset += n
		written += int(n)
		p = p[n:]

		if w.offset == w.payloadSize() {
			if err := w.flushPage(); err != nil {
				return written, err
			}
		}
	}

	return written, nil
}

func (w *Writer) flushPage() error {
	checksum := crc32c.Checksum(w.pageBuf[:w.payloadSize()])
	crc32c.PutBigEndian(w.pageBuf[w.payloadSize():], checksum)

	if _, err := w.dst.Write(w.pageBuf); err != nil {
		return errs.NewWrite("failed to write page", err)
	}

	pos, err := w.dst.Seek(0, io.SeekCurrent)
	if err != nil {
		return errs.NewWrite("failed to get position after page write", err)
	}

	w.offset = 0
	if err := w.populateExisting(); err != nil {
		return err
	}

	if _, err := w.dst.Seek(pos, io.SeekStart); err != nil {
		return errs.NewWrite("failed to seek back after page write", err)
	}

	return nil
}

// populateExisting reads whatever page data already exists at the current
// destination position into pageBuf, so that re-entering a partially
// written page (after a PhysicalSeek) preserves bytes the caller isn't
// overwriting.
func (w *Writer) populateExisting() error {
	unread := w.pageBuf
	for len(unread) > 0 {
		n, err := w.dst.Read(unread)
		if err != nil && err != io.EOF {
			return errs.NewWrite("failed to read existing page data", err)
		}
		if n == 0 {
			break
		}
		unread = unread[n:]
	}
	for i := range unread {
		unread[i] = 0
	}

	return nil
}

// Flush writes out any partially filled current page without advancing
// past it, restoring the stream position afterward so further writes
// continue to accumulate into the same page.
func (w *Writer) Flush() error {
	if w.offset == 0 {
		return nil
	}

	pos, err := w.dst.Seek(0, io.SeekCurrent)
	if err != nil {
		return errs.NewWrite("failed to get position before flush", err)
	}

	checksum := crc32c.Checksum(w.pageBuf[:w.payloadSize()])
	crc32c.PutBigEndian(w.pageBuf[w.payloadSize():], checksum)

	if _, err := w.dst.Write(w.pageBuf); err != nil {
		return errs.NewWrite("failed to write page on flush", err)
	}

	if _, err := w.dst.Seek(pos, io.SeekStart); err != nil {
		return errs.NewWrite("failed to seek back after flush", err)
	}

	return nil
}

// Close flushes any pending partial page. The underlying destination is
// not closed.
func (w *Writer) Close() error {
	return w.Flush()
}

// PhysicalPosition returns the current physical offset (including any
// checksum bytes already committed) in the destination stream.
func (w *Writer) PhysicalPosition() (uint64, error) {
	pos, err := w.dst.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, errs.NewWrite("failed to get position", err)
	}

	return uint64(pos) + w.offset, nil
}

// PhysicalSize flushes pending data and returns the total physical size of
// the destination stream written so far.
func (w *Writer) PhysicalSize() (uint64, error) {
	if err := w.Flush(); err != nil {
		return 0, err
	}

	pos, err := w.dst.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, errs.NewWrite("failed to get position", err)
	}

	size, err := w.dst.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, errs.NewWrite("failed to seek to end", err)
	}
	if _, err := w.dst.Seek(pos, io.SeekStart); err != nil {
		return 0, errs.NewWrite("failed to seek back", err)
	}

	return uint64(size), nil
}

// PhysicalSeek flushes the current page, then repositions the writer at a
// physical offset within an already-written page so that its remaining
// bytes may be overwritten — used by the header reservation/patch pattern.
func (w *Writer) PhysicalSeek(pos uint64) error {
	if err := w.Flush(); err != nil {
		return errs.NewWrite("failed to flush before seek", err)
	}

	end, err := w.dst.Seek(0, io.SeekEnd)
	if err != nil {
		return errs.NewWrite("failed to seek to end", err)
	}
	if pos > uint64(end) {
		return errs.NewWrite("cannot seek after end of stream", nil)
	}

	page := pos / w.pageSize
	w.offset = pos % w.pageSize
	if w.offset >= w.payloadSize() {
		return errs.NewWrite("cannot seek into checksum trailer", errs.ErrSeekIntoChecksum)
	}

	pagePhys := page * w.pageSize
	if _, err := w.dst.Seek(int64(pagePhys), io.SeekStart); err != nil {
		return errs.NewWrite("failed to seek to page start", err)
	}

	if err := w.populateExisting(); err != nil {
		return err
	}

	if _, err := w.dst.Seek(int64(pagePhys), io.SeekStart); err != nil {
		return errs.NewWrite("failed to seek back to page start", err)
	}

	return nil
}

// Align writes zero bytes up to the next 4-byte-aligned payload offset.
func (w *Writer) Align() error {
	zeros := [4]byte{}
	rem := w.offset % alignmentSize
	if rem == 0 {
		return nil
	}

	skip := alignmentSize - rem
	if _, err := w.Write(zeros[:skip]); err != nil {
		return fmt.Errorf("failed to write alignment padding: %w", err)
	}

	return nil
}
