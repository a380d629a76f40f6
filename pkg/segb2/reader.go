package segb2

import (
	"context"
	"encoding/binary"
	"errors"
	"io"
	"time"

	"github.com/bft-labs/segb/pkg/cocoa"
	"github.com/bft-labs/segb/pkg/format"
	"github.com/bft-labs/segb/pkg/log"
)

// Reader walks the records of a v2 file in ascending end offset order.
// The trailer is fully loaded by NewReader; records are read lazily.
// A Reader is not safe for concurrent use and owns the stream's cursor
// until it returns io.EOF or an error.
type Reader struct {
	rs           io.ReadSeeker
	logger       log.Logger
	created      time.Time
	trailer      []EntryMetadata // sorted by EndOffset
	next         int             // index into trailer
	trailerStart int64
	pos          int64
	err          error
}

// NewReader reads the header and the complete trailer. The stream is
// rewound to its start first, so offsets in returned entries are absolute.
func NewReader(rs io.ReadSeeker, opts ...Option) (*Reader, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	size, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, format.Wrap(format.ErrSeek, 0, err, "determine stream size")
	}
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, format.Wrap(format.ErrSeek, 0, err, "rewind")
	}

	var header [HeaderLength]byte
	if _, err := io.ReadFull(rs, header[:]); err != nil {
		o.logger.Warn("segb2: short header", log.Int64("size", size))
		return nil, format.Wrap(format.ErrTruncatedHeader, 0, err, "file header")
	}
	if magic := string(header[0:4]); magic != format.Magic {
		o.logger.Warn("segb2: bad magic", log.String("magic", magic))
		return nil, format.Errorf(format.ErrBadMagic, 0, "expected %x, got %x", format.Magic, magic)
	}

	// bytes 16..32 are reserved.
	count := int32(binary.LittleEndian.Uint32(header[4:8]))
	created := cocoa.DecodeBits(binary.LittleEndian.Uint64(header[8:16]))
	if count < 0 {
		return nil, format.Errorf(format.ErrInvalidLength, 4, "negative entry count %d", count)
	}

	trailerStart := size - int64(count)*TrailerEntryLength
	if trailerStart < HeaderLength {
		return nil, format.Errorf(format.ErrSeek, trailerStart,
			"trailer of %d entries starts before end of header (file size %d)", count, size)
	}
	if _, err := rs.Seek(trailerStart, io.SeekStart); err != nil {
		return nil, format.Wrap(format.ErrSeek, trailerStart, err, "seek to trailer")
	}

	trailer, err := readTrailer(rs, trailerStart, int(count))
	if err != nil {
		o.logger.Warn("segb2: bad trailer", log.Err(err))
		return nil, err
	}
	sortByEndOffset(trailer)

	if _, err := rs.Seek(HeaderLength, io.SeekStart); err != nil {
		return nil, format.Wrap(format.ErrSeek, HeaderLength, err, "seek to data region")
	}

	o.logger.Debug("segb2: header read",
		log.Int("entries", int(count)),
		log.Time("created", created),
		log.Int64("trailer_start", trailerStart),
	)

	return &Reader{
		rs:           rs,
		logger:       o.logger,
		created:      created,
		trailer:      trailer,
		trailerStart: trailerStart,
		pos:          HeaderLength,
	}, nil
}

// Created returns the creation timestamp stored in the file header.
func (r *Reader) Created() time.Time {
	return r.created
}

// Count returns the number of trailer entries.
func (r *Reader) Count() int {
	return len(r.trailer)
}

// Trailer returns a copy of the trailer sorted by end offset.
func (r *Reader) Trailer() []EntryMetadata {
	out := make([]EntryMetadata, len(r.trailer))
	copy(out, r.trailer)
	return out
}

// DataRegion returns the absolute bounds [start, end) of the record data.
func (r *Reader) DataRegion() (int64, int64) {
	return HeaderLength, r.trailerStart
}

// Offset returns the current stream position.
func (r *Reader) Offset() int64 {
	return r.pos
}

// Next returns the next entry, or io.EOF after the last trailer slot has
// been consumed. After any other error the sequence is aborted and Next
// keeps returning that error.
func (r *Reader) Next(ctx context.Context) (Entry, error) {
	if r.err != nil {
		return Entry{}, r.err
	}
	select {
	case <-ctx.Done():
		return Entry{}, ctx.Err()
	default:
	}

	if r.next >= len(r.trailer) {
		r.err = io.EOF
		return Entry{}, io.EOF
	}

	entry, err := r.readRecord(r.trailer[r.next])
	if err != nil {
		r.logger.Warn("segb2: aborting decode", log.Offset(r.pos), log.Err(err))
		r.err = err
		return Entry{}, err
	}
	r.next++
	return entry, nil
}

func (r *Reader) readRecord(meta EntryMetadata) (Entry, error) {
	dataStart := r.pos
	end := HeaderLength + int64(meta.EndOffset)
	length := end - dataStart

	if length <= 0 {
		return Entry{}, format.Errorf(format.ErrInvalidLength, meta.MetadataOffset,
			"end offset %d leaves %d bytes for record at %d", meta.EndOffset, length, dataStart)
	}
	if end > r.trailerStart {
		return Entry{}, format.Errorf(format.ErrInvalidLength, meta.MetadataOffset,
			"end offset %d runs into trailer at %d", meta.EndOffset, r.trailerStart)
	}

	data := make([]byte, length)
	if _, err := io.ReadFull(r.rs, data); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Entry{}, format.Wrap(format.ErrTruncatedRecord, dataStart, err, "record payload")
		}
		return Entry{}, err
	}
	r.pos = end

	if pad := format.Padding(r.pos, Alignment); pad != 0 {
		if _, err := r.rs.Seek(pad, io.SeekCurrent); err != nil {
			return Entry{}, format.Wrap(format.ErrSeek, r.pos, err, "skip alignment padding")
		}
		r.pos += pad
	}

	r.logger.Debug("segb2: record",
		log.Offset(dataStart),
		log.Int64("length", length),
		log.String("state", meta.State.String()),
	)

	return Entry{
		Metadata:        meta,
		DataStartOffset: dataStart,
		Data:            data,
	}, nil
}

// ReadAll drains r and returns every remaining entry. On error the entries
// decoded before the failure are returned alongside it.
func ReadAll(ctx context.Context, r *Reader) ([]Entry, error) {
	entries := make([]Entry, 0, r.Count()-r.next)
	for {
		e, err := r.Next(ctx)
		if errors.Is(err, io.EOF) {
			return entries, nil
		}
		if err != nil {
			return entries, err
		}
		entries = append(entries, e)
	}
}
