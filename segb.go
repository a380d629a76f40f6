// Package segb decodes the SEGB containers written by Apple platform
// subsystems to log timestamped state records.
//
// Two incompatible revisions exist and are handled by the segb1 and segb2
// sub-packages. This package re-exports their entry points and adds file
// helpers and revision detection.
//
// Example usage:
//
//	f, err := segb.OpenV2("/path/to/file.segb")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer f.Close()
//	for {
//	    entry, err := f.Next(ctx)
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(entry.Metadata.State, len(entry.Data))
//	}
package segb

import (
	"io"
	"os"
	"time"

	"github.com/bft-labs/segb/pkg/cocoa"
	"github.com/bft-labs/segb/pkg/format"
	"github.com/bft-labs/segb/pkg/segb1"
	"github.com/bft-labs/segb/pkg/segb2"
)

type (
	// EntryV1 is a record decoded from a v1 file.
	EntryV1 = segb1.Entry

	// EntryV2 is a record decoded from a v2 file.
	EntryV2 = segb2.Entry

	// EntryMetadata is a decoded v2 trailer slot.
	EntryMetadata = segb2.EntryMetadata

	// EntryState is the closed set of v2 slot states.
	EntryState = segb2.EntryState

	// Revision identifies the on-disk revision of a file.
	Revision = format.Revision

	// FormatError describes a framing failure and its byte offset.
	FormatError = format.FormatError
)

// v2 slot states.
const (
	Written = segb2.Written
	Deleted = segb2.Deleted
)

// Revisions reported by DetectVersion.
const (
	Unknown = format.Unknown
	V1      = format.V1
	V2      = format.V2
)

// Error kinds, checked with errors.Is.
var (
	ErrBadMagic        = format.ErrBadMagic
	ErrTruncatedHeader = format.ErrTruncatedHeader
	ErrTruncatedRecord = format.ErrTruncatedRecord
	ErrInvalidLength   = format.ErrInvalidLength
	ErrInvalidState    = format.ErrInvalidState
	ErrSeek            = format.ErrSeek
)

// DecodeV1 returns a reader over the records of a v1 stream.
func DecodeV1(rs io.ReadSeeker, opts ...segb1.Option) (*segb1.Reader, error) {
	return segb1.NewReader(rs, opts...)
}

// DecodeV2 returns a reader over the records of a v2 stream.
func DecodeV2(rs io.ReadSeeker, opts ...segb2.Option) (*segb2.Reader, error) {
	return segb2.NewReader(rs, opts...)
}

// DecodeCocoaTime converts a Cocoa epoch offset in seconds to a time.Time.
func DecodeCocoaTime(seconds float64) time.Time {
	return cocoa.DecodeTime(seconds)
}

// DetectVersion reports which revision rs holds and rewinds it.
func DetectVersion(rs io.ReadSeeker) (Revision, error) {
	return format.Detect(rs)
}

// V1File is a v1 reader bound to the file it reads from.
type V1File struct {
	*segb1.Reader
	f *os.File
}

// Close closes the underlying file.
func (f *V1File) Close() error {
	return f.f.Close()
}

// V2File is a v2 reader bound to the file it reads from.
type V2File struct {
	*segb2.Reader
	f *os.File
}

// Close closes the underlying file.
func (f *V2File) Close() error {
	return f.f.Close()
}

// OpenV1 opens path and prepares a v1 reader over it. The caller must
// Close the returned file, whether or not the records are fully consumed.
func OpenV1(path string, opts ...segb1.Option) (*V1File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r, err := segb1.NewReader(f, opts...)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &V1File{Reader: r, f: f}, nil
}

// OpenV2 opens path and prepares a v2 reader over it. The caller must
// Close the returned file, whether or not the records are fully consumed.
func OpenV2(path string, opts ...segb2.Option) (*V2File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r, err := segb2.NewReader(f, opts...)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &V2File{Reader: r, f: f}, nil
}
