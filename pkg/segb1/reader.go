package segb1

import (
	"context"
	"encoding/binary"
	"errors"
	"io"
	"math"

	"github.com/bft-labs/segb/pkg/cocoa"
	"github.com/bft-labs/segb/pkg/format"
	"github.com/bft-labs/segb/pkg/log"
)

// Reader walks the records of a v1 file one at a time.
// A Reader is not safe for concurrent use and owns the stream's cursor
// until it returns io.EOF or an error.
type Reader struct {
	rs        io.ReadSeeker
	logger    log.Logger
	size      int64
	endOfData int64
	pos       int64
	hdr       [RecordHeaderLength]byte
	err       error
}

// NewReader reads and validates the file header. The stream is rewound to
// its start first, so offsets in returned entries are absolute.
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
		o.logger.Warn("segb1: short header", log.Int64("size", size))
		return nil, format.Wrap(format.ErrTruncatedHeader, 0, err, "file header")
	}
	if magic := string(header[HeaderLength-len(format.Magic):]); magic != format.Magic {
		o.logger.Warn("segb1: bad magic", log.String("magic", magic))
		return nil, format.Errorf(format.ErrBadMagic, HeaderLength-int64(len(format.Magic)),
			"expected %x, got %x", format.Magic, magic)
	}

	endOfData := int64(binary.LittleEndian.Uint32(header[0:4]))
	if endOfData < HeaderLength {
		return nil, format.Errorf(format.ErrInvalidLength, 0,
			"end of data offset %d precedes end of header", endOfData)
	}

	o.logger.Debug("segb1: header read",
		log.Int64("end_of_data", endOfData),
		log.Int64("size", size),
	)

	return &Reader{
		rs:        rs,
		logger:    o.logger,
		size:      size,
		endOfData: endOfData,
		pos:       HeaderLength,
	}, nil
}

// EndOfData returns the absolute offset at which record data ends, as
// declared by the file header.
func (r *Reader) EndOfData() int64 {
	return r.endOfData
}

// Offset returns the current stream position.
func (r *Reader) Offset() int64 {
	return r.pos
}

// Next returns the next entry, or io.EOF once the cursor reaches the end of
// record data. After any other error the sequence is aborted and Next keeps
// returning that error.
func (r *Reader) Next(ctx context.Context) (Entry, error) {
	if r.err != nil {
		return Entry{}, r.err
	}
	select {
	case <-ctx.Done():
		return Entry{}, ctx.Err()
	default:
	}

	if r.pos >= r.endOfData {
		r.err = io.EOF
		return Entry{}, io.EOF
	}

	entry, err := r.readRecord()
	if err != nil {
		r.logger.Warn("segb1: aborting decode", log.Offset(r.pos), log.Err(err))
		r.err = err
		return Entry{}, err
	}
	return entry, nil
}

func (r *Reader) readRecord() (Entry, error) {
	recordOffset := r.pos
	if _, err := io.ReadFull(r.rs, r.hdr[:]); err != nil {
		return Entry{}, format.Wrap(format.ErrTruncatedRecord, recordOffset, err, "record header")
	}
	r.pos += RecordHeaderLength

	// bytes 4..8 are padding; 24..32 are not interpreted.
	length := int64(int32(binary.LittleEndian.Uint32(r.hdr[0:4])))
	ts1 := cocoa.DecodeTime(math.Float64frombits(binary.LittleEndian.Uint64(r.hdr[8:16])))
	ts2 := cocoa.DecodeTime(math.Float64frombits(binary.LittleEndian.Uint64(r.hdr[16:24])))

	if length < 0 {
		return Entry{}, format.Errorf(format.ErrInvalidLength, recordOffset, "negative record length %d", length)
	}
	if r.pos+length > r.size {
		return Entry{}, format.Errorf(format.ErrInvalidLength, recordOffset,
			"record length %d exceeds remaining %d bytes", length, r.size-r.pos)
	}

	dataStart := r.pos
	data := make([]byte, length)
	if _, err := io.ReadFull(r.rs, data); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Entry{}, format.Wrap(format.ErrTruncatedRecord, dataStart, err, "record payload")
		}
		return Entry{}, err
	}
	r.pos += length

	if pad := format.Padding(r.pos, Alignment); pad != 0 {
		if _, err := r.rs.Seek(pad, io.SeekCurrent); err != nil {
			return Entry{}, format.Wrap(format.ErrSeek, r.pos, err, "skip alignment padding")
		}
		r.pos += pad
	}

	r.logger.Debug("segb1: record",
		log.Offset(dataStart),
		log.Int64("length", length),
		log.Time("timestamp1", ts1),
	)

	return Entry{
		Timestamp1:      ts1,
		Timestamp2:      ts2,
		DataStartOffset: dataStart,
		Data:            data,
	}, nil
}

// ReadAll drains r and returns every remaining entry. On error the entries
// decoded before the failure are returned alongside it.
func ReadAll(ctx context.Context, r *Reader) ([]Entry, error) {
	var entries []Entry
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
