package segb2

import (
	"cmp"
	"encoding/binary"
	"io"
	"slices"

	"github.com/bft-labs/segb/pkg/cocoa"
	"github.com/bft-labs/segb/pkg/format"
)

// readTrailer reads count slots starting at the current position start.
func readTrailer(rs io.Reader, start int64, count int) ([]EntryMetadata, error) {
	trailer := make([]EntryMetadata, 0, count)
	var slot [TrailerEntryLength]byte

	for i := 0; i < count; i++ {
		off := start + int64(i)*TrailerEntryLength
		if _, err := io.ReadFull(rs, slot[:]); err != nil {
			return nil, format.Wrap(format.ErrTruncatedRecord, off, err, "trailer entry")
		}

		code := int32(binary.LittleEndian.Uint32(slot[4:8]))
		state, err := ParseEntryState(code)
		if err != nil {
			return nil, format.Errorf(format.ErrInvalidState, off, "trailer entry state code %d", code)
		}

		trailer = append(trailer, EntryMetadata{
			MetadataOffset: off,
			EndOffset:      int32(binary.LittleEndian.Uint32(slot[0:4])),
			State:          state,
			Creation:       cocoa.DecodeBits(binary.LittleEndian.Uint64(slot[8:16])),
		})
	}
	return trailer, nil
}

// sortByEndOffset orders slots by end offset. Ties keep trailer order.
func sortByEndOffset(trailer []EntryMetadata) {
	slices.SortStableFunc(trailer, func(a, b EntryMetadata) int {
		return cmp.Compare(a.EndOffset, b.EndOffset)
	})
}
