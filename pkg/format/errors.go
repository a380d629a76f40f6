package format

import (
	"errors"
	"fmt"
)

// Error kinds reported while decoding. None of them is recoverable within a
// decode session: the record sequence stops at the first one.
var (
	// ErrBadMagic is returned when the "SEGB" marker is missing.
	ErrBadMagic = errors.New("segb: bad magic")

	// ErrTruncatedHeader is returned when fewer bytes than a fixed file header are available.
	ErrTruncatedHeader = errors.New("segb: truncated header")

	// ErrTruncatedRecord is returned when a record header or trailer entry is cut short.
	ErrTruncatedRecord = errors.New("segb: truncated record")

	// ErrInvalidLength is returned when a declared or computed length is negative,
	// empty where data is required, or runs past the available bytes.
	ErrInvalidLength = errors.New("segb: invalid length")

	// ErrInvalidState is returned for a v2 trailer state code outside {1, 3}.
	ErrInvalidState = errors.New("segb: invalid entry state")

	// ErrSeek is returned when a computed region falls outside the file.
	ErrSeek = errors.New("segb: seek out of bounds")
)

// FormatError describes a framing failure at a byte offset of the stream.
type FormatError struct {
	// Kind is one of the sentinel errors of this package.
	Kind error

	// Offset is the absolute stream offset the failure relates to.
	Offset int64

	// Detail is a human readable description.
	Detail string

	// Err is the underlying I/O error, if any.
	Err error
}

// Errorf builds a FormatError of the given kind.
func Errorf(kind error, offset int64, format string, args ...any) *FormatError {
	return &FormatError{Kind: kind, Offset: offset, Detail: fmt.Sprintf(format, args...)}
}

// Wrap builds a FormatError of the given kind caused by err.
func Wrap(kind error, offset int64, err error, detail string) *FormatError {
	return &FormatError{Kind: kind, Offset: offset, Detail: detail, Err: err}
}

func (e *FormatError) Error() string {
	msg := fmt.Sprintf("%v at offset %d", e.Kind, e.Offset)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind and the underlying cause to errors.Is/As.
func (e *FormatError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
