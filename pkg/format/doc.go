// Package format holds the framing primitives shared by the SEGB v1 and v2
// decoders: the magic marker, alignment arithmetic, revision detection and
// the error kinds reported for malformed input.
//
// Every decoding failure is a *FormatError that unwraps to one of the
// sentinel errors below, so callers can branch with errors.Is:
//
//	if errors.Is(err, format.ErrBadMagic) {
//	    // not a SEGB container of the expected revision
//	}
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
//
// See version.go for version constants that can be used programmatically.
package format
