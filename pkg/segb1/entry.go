package segb1

import "time"

// On-disk layout constants.
const (
	HeaderLength       = 56
	RecordHeaderLength = 32
	Alignment          = 8
)

// Entry is a single decoded v1 record.
type Entry struct {
	// Timestamp1 and Timestamp2 are decoded from the record header.
	// Their meaning varies between the subsystems writing SEGB files.
	Timestamp1 time.Time
	Timestamp2 time.Time

	// DataStartOffset is the absolute stream offset of the payload.
	DataStartOffset int64

	// Data is the raw payload.
	Data []byte
}
