// Package section implements the fixed-size binary structures that frame
// a point cloud's compressed-vector data: the 32-byte section header
// (see header.go) that opens every compressed-vector section and points
// at its Data/Ignored packet run and its optional Index packet chain.
//
// # Section Layout
//
//	┌─────────────────────────────────────────────┐
//	│ Header (32 bytes, fixed)                     │
//	│  - SectionID (1 byte) = 1                    │
//	│  - Reserved (7 bytes)                        │
//	│  - SectionLength (8 bytes)                   │
//	│  - DataOffset (8 bytes)                      │
//	│  - IndexOffset (8 bytes)                     │
//	├───────────────────────────────────────────────┤
//	│ Index packets (optional, skip-only)          │
//	├───────────────────────────────────────────────┤
//	│ Data / Ignored packets                       │
//	└───────────────────────────────────────────────┘
//
// DataOffset always points directly at the first Data/Ignored packet, so
// readers never need to walk the Index chain to locate record data; this
// package therefore has no separate index-entry type, package packet's
// IndexHeader is all that's needed to skip over one.
package section
