// Package cvsection implements the compressed-vector section: the
// per-point-cloud binary region framed by a 32-byte section header and a
// run of Data/Index/Ignored packets, plus the encode (Writer) and decode
// (Reader) pipelines that move whole points across that framing.
package cvsection

import (
	"fmt"

	"github.com/e57fmt/e57/endian"
	"github.com/e57fmt/e57/format"
	"github.com/e57fmt/e57/internal/options"
	"github.com/e57fmt/e57/record"
)

var byteOrder = endian.GetLittleEndianEngine()

// Descriptor describes one finalized compressed-vector section for
// publication to the caller's XML layer: its GUID, the number of points
// it holds, its prototype, and the physical offset of its section
// header.
type Descriptor struct {
	GUID       string
	Records    uint64
	Prototype  record.Prototype
	FileOffset uint64
}

// Config holds cvsection.Writer construction options.
type Config struct {
	compression format.CompressionType
}

// Option configures a Writer at construction time.
type Option = options.Option[*Config]

// WithCompression selects the optional per-packet payload compressor
// applied to every Data packet this section's Writer emits. The
// default, CompressionNone, produces output byte-identical to a writer
// with no compression support at all.
func WithCompression(c format.CompressionType) Option {
	return options.New(func(cfg *Config) error {
		if !c.Valid() {
			return fmt.Errorf("invalid compression type: %s", c)
		}
		cfg.compression = c
		return nil
	})
}

func newConfig(opts ...Option) (*Config, error) {
	cfg := &Config{compression: format.CompressionNone}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}
