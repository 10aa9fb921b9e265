// Package e57 implements the read/write binary codec for the ASTM E57 3D
// imaging file format: the 48-byte file header, the CRC-32C paged byte
// stream every other structure sits on top of, compressed-vector section
// framing for point clouds, and raw paged blob sections for image data.
//
// XML metadata parsing and emission, image content interpretation,
// coordinate transforms and CLI tooling are out of scope: this package
// hands a caller's XML layer the section offsets, prototypes and blob
// descriptors it needs to build or consume that document, and otherwise
// stays out of its way.
//
// # Writing
//
//	w, err := e57.NewWriter(dst)
//	pc, err := w.AddPointCloud("", prototype, cvsection.WithCompression(format.CompressionZstd))
//	for _, point := range points {
//	    err = pc.AddPoint(point)
//	}
//	desc, err := pc.Finalize()
//	img, err := w.AddImageBlob("", bytes.NewReader(jpegData))
//	err = w.Finish(xmlBytes)
//
// # Reading
//
// Descriptors come from the caller's own parse of the XML section, since
// parsing that XML is outside this package's scope:
//
//	r, err := e57.Open(src)
//	xmlBytes, err := r.XML()
//	descriptors := callerXMLLayer.ParsePointClouds(xmlBytes)
//	for _, d := range descriptors {
//	    pc, err := r.PointCloud(d)
//	    for pc.Available() == 0 {
//	        err = pc.Advance()
//	    }
//	    point, err := pc.PopPoint()
//	}
package e57

import (
	"github.com/e57fmt/e57/blob"
	"github.com/e57fmt/e57/cvsection"
)

// PointCloudDescriptor publishes one finalized point-cloud section's
// identity and location to the caller's XML layer.
type PointCloudDescriptor = cvsection.Descriptor

// BlobDescriptor publishes one finalized image blob's identity and
// location to the caller's XML layer.
type BlobDescriptor = blob.Descriptor
