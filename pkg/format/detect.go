package format

import (
	"errors"
	"io"
)

// Revision identifies a SEGB on-disk revision.
type Revision int

const (
	// Unknown is returned alongside an error when detection fails.
	Unknown Revision = iota
	// V1 files carry the magic at the end of a 56 byte header.
	V1
	// V2 files start with the magic.
	V2
)

const v1MagicOffset = 52

// String returns "v1", "v2" or "unknown".
func (r Revision) String() string {
	switch r {
	case V1:
		return "v1"
	case V2:
		return "v2"
	default:
		return "unknown"
	}
}

// Detect inspects the magic locations of both revisions and rewinds rs to
// the start of the stream before returning.
func Detect(rs io.ReadSeeker) (Revision, error) {
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return Unknown, Wrap(ErrSeek, 0, err, "rewind")
	}
	var head [v1MagicOffset + len(Magic)]byte
	n, err := io.ReadFull(rs, head[:])
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return Unknown, Wrap(ErrTruncatedHeader, 0, err, "read magic")
	}
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return Unknown, Wrap(ErrSeek, 0, err, "rewind")
	}

	switch {
	case n >= len(Magic) && string(head[:len(Magic)]) == Magic:
		return V2, nil
	case n == len(head) && string(head[v1MagicOffset:]) == Magic:
		return V1, nil
	case n < len(Magic):
		return Unknown, Errorf(ErrTruncatedHeader, 0, "%d bytes available", n)
	default:
		return Unknown, Errorf(ErrBadMagic, 0, "no %q marker at offset 0 or %d", Magic, v1MagicOffset)
	}
}
