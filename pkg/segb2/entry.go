package segb2

import (
	"fmt"
	"time"

	"github.com/bft-labs/segb/pkg/format"
)

// On-disk layout constants.
const (
	HeaderLength       = 32
	TrailerEntryLength = 16
	Alignment          = 4
)

// EntryState records whether a slot still holds live data.
type EntryState uint8

const (
	Written EntryState = 1
	Deleted EntryState = 3
)

// ParseEntryState converts an on-disk state code. Codes other than 1 and 3
// are rejected with format.ErrInvalidState.
func ParseEntryState(code int32) (EntryState, error) {
	switch code {
	case int32(Written):
		return Written, nil
	case int32(Deleted):
		return Deleted, nil
	default:
		return 0, fmt.Errorf("%w: code %d", format.ErrInvalidState, code)
	}
}

func (s EntryState) String() string {
	switch s {
	case Written:
		return "Written"
	case Deleted:
		return "Deleted"
	default:
		return fmt.Sprintf("EntryState(%d)", uint8(s))
	}
}

// EntryMetadata is one decoded trailer slot.
type EntryMetadata struct {
	// MetadataOffset is the absolute offset of the trailer slot.
	MetadataOffset int64

	// EndOffset is where the record's data ends, relative to the data region.
	EndOffset int32

	State EntryState

	// Creation is the slot's timestamp.
	Creation time.Time
}

// Entry is a decoded v2 record.
type Entry struct {
	Metadata EntryMetadata

	// DataStartOffset is the absolute stream offset of the payload.
	DataStartOffset int64

	// Data is the raw payload.
	Data []byte
}
