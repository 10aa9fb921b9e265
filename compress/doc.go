// Package compress provides the optional compression codecs for e57 Data
// packet payloads: None, Zstd, S2 and LZ4, selected per compressed-vector
// section via cvsection.WithCompression.
//
// # Architecture
//
// The package defines three core interfaces:
//
//	type Compressor interface {
//	    Compress(data []byte) ([]byte, error)
//	}
//
//	type Decompressor interface {
//	    Decompress(data []byte) ([]byte, error)
//	}
//
//	type Codec interface {
//	    Compressor
//	    Decompressor
//	}
//
// # Choosing a codec
//
// None leaves the concatenated per-attribute buffers of a Data packet
// untouched and is the default, byte-identical to files with no
// compression enabled. Zstd gives the best ratio at moderate speed. S2 is
// a fast, Snappy-compatible alternative. LZ4 favors decompression speed.
//
// GetCodec and CreateCodec resolve a format.CompressionType to its Codec
// implementation. The zstd codec's cgo-backed variant (zstd_cgo.go) is
// compiled only with the nobuild build tag; every other build uses the
// pure-Go variant (zstd_pure.go).
package compress
