// Package page implements the CRC-32C paged layer that every E57 binary
// stream sits on top of: a physical byte stream divided into fixed-size
// pages, each page's payload followed by a big-endian CRC-32C trailer, with
// logical offsets skipping the trailers transparently.
package page

import (
	"fmt"
	"io"

	"github.com/e57fmt/e57/crc32c"
	"github.com/e57fmt/e57/errs"
	"github.com/e57fmt/e57/internal/options"
)

const (
	checksumSize   = 4
	alignmentSize  = 4
	maxPageSize    = 1024 * 1024
	// DefaultPageSize matches the page size used throughout the ASTM E57
	// reference tooling, though this module allows callers to configure
	// a different page size via WithPageSize.
	DefaultPageSize = 1024
)

// Config holds paged-reader/writer construction options.
type Config struct {
	pageSize uint64
}

// Option configures a Reader or Writer at construction time.
type Option = options.Option[*Config]

// WithPageSize overrides the page size used to interpret or produce the
// paged stream. Must be greater than 4 (the checksum size) and at most
// 1 MiB.
func WithPageSize(size uint64) Option {
	return options.New(func(c *Config) error {
		c.pageSize = size
		return nil
	})
}

func newConfig(opts ...Option) (*Config, error) {
	c := &Config{pageSize: DefaultPageSize}
	if err := options.Apply(c, opts...); err != nil {
		return nil, err
	}

	if c.pageSize <= checksumSize {
		return nil, errs.ErrPageSizeTooSmall
	}
	if c.pageSize > maxPageSize {
		return nil, errs.ErrPageSizeTooLarge
	}

	return c, nil
}

// Reader is an io.ReadSeeker over the logical (checksum-stripped) payload
// of a paged E57 stream, validating each page's CRC-32C trailer on first
// access.
type Reader struct {
	src io.ReadSeeker

	pageSize    uint64
	phySize     uint64
	logSize     uint64
	pages       uint64
	offset      uint64
	curPage     int64 // -1 means no page cached
	pageBuf     []byte
}

// NewReader creates a Reader over src, which must report a size that is an
// exact multiple of the configured page size.
func NewReader(src io.ReadSeeker, opts ...Option) (*Reader, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	phySize, err := src.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, errs.NewRead("failed to seek to end", err)
	}
	if phySize == 0 {
		return nil, errs.NewInvalidFile("physical size is zero", errs.ErrEmptyFile)
	}
	if uint64(phySize)%cfg.pageSize != 0 {
		return nil, fmt.Errorf("%w: size %d, page size %d", errs.ErrFileSizeNotMultiple, phySize, cfg.pageSize)
	}

	pages := uint64(phySize) / cfg.pageSize

	return &Reader{
		src:      src,
		pageSize: cfg.pageSize,
		phySize:  uint64(phySize),
		logSize:  pages * (cfg.pageSize - checksumSize),
		pages:    pages,
		curPage:  -1,
		pageBuf:  make([]byte, cfg.pageSize),
	}, nil
}

// LogicalSize returns the total logical (checksum-stripped) byte count.
func (r *Reader) LogicalSize() uint64 { return r.logSize }

func (r *Reader) payloadSize() uint64 { return r.pageSize - checksumSize }

func (r *Reader) loadPage(page uint64) error {
	if page >= r.pages {
		return fmt.Errorf("page %d does not exist, have %d pages", page, r.pages)
	}

	if _, err := r.src.Seek(int64(page*r.pageSize), io.SeekStart); err != nil {
		return errs.NewRead("failed to seek to page", err)
	}
	if _, err := io.ReadFull(r.src, r.pageBuf); err != nil {
		return errs.NewRead("failed to read page", err)
	}

	payload := r.pageBuf[:r.payloadSize()]
	expected := crc32c.BigEndian(r.pageBuf[r.payloadSize():])
	actual := crc32c.Checksum(payload)

	if expected != actual {
		r.curPage = -1
		return errs.NewInvalidFile(fmt.Sprintf("checksum mismatch on page %d", page), errs.ErrChecksumMismatch)
	}

	r.curPage = int64(page)

	return nil
}

// Read implements io.Reader over the logical payload stream.
func (r *Reader) Read(p []byte) (int, error) {
	payloadSize := r.payloadSize()
	page := r.offset / payloadSize
	if page >= r.pages {
		return 0, io.EOF
	}

	if r.curPage != int64(page) {
		if err := r.loadPage(page); err != nil {
			return 0, err
		}
	}

	pageOffset := r.offset % payloadSize
	readable := payloadSize - pageOffset
	n := len(p)
	if uint64(n) > readable {
		n = int(readable)
	}

	copy(p[:n], r.pageBuf[pageOffset:pageOffset+uint64(n)])
	r.offset += uint64(n)

	return n, nil
}

// Seek implements io.Seeker over logical offsets.
func (r *Reader) Seek(offset int64, whence int) (int64, error) {
	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekEnd:
		target = int64(r.logSize) + offset
	case io.SeekCurrent:
		target = int64(r.offset) + offset
	default:
		return 0, fmt.Errorf("invalid whence %d", whence)
	}

	if target < 0 || uint64(target) > r.logSize {
		return 0, fmt.Errorf("%w: %d", errs.ErrSeekPastLogicalEnd, target)
	}

	r.offset = uint64(target)

	return int64(r.offset), nil
}

// SeekPhysical seeks to a physical byte offset (including checksum bytes)
// and returns the corresponding logical offset.
func (r *Reader) SeekPhysical(offset uint64) (uint64, error) {
	if offset >= r.phySize {
		return 0, fmt.Errorf("%w: %d", errs.ErrSeekPastPhysicalEnd, offset)
	}

	pagesBefore := offset / r.pageSize
	r.offset = offset - pagesBefore*checksumSize

	return r.offset, nil
}

// Align advances the logical offset to the next multiple of four.
func (r *Reader) Align() error {
	rem := r.offset % alignmentSize
	if rem == 0 {
		return nil
	}

	skip := alignmentSize - rem
	if r.offset+skip > r.logSize {
		return errs.ErrSeekPastLogicalEnd
	}

	r.offset += skip

	return nil
}
