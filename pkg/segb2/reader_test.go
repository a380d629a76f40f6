package segb2

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/bft-labs/segb/pkg/format"
)

type testRecord struct {
	data  []byte
	state int32
	ts    float64
}

type testSlot struct {
	endOffset int32
	state     int32
	ts        float64
}

// buildFile writes records back to back in the data region and describes
// them with trailer slots in the given order (slot i describes
// records[order[i]]). A nil order keeps data order.
func buildFile(created float64, records []testRecord, order []int) []byte {
	var data bytes.Buffer
	slots := make([]testSlot, len(records))
	for i, rec := range records {
		data.Write(rec.data)
		state := rec.state
		if state == 0 {
			state = int32(Written)
		}
		slots[i] = testSlot{endOffset: int32(data.Len()), state: state, ts: rec.ts}
		data.Write(make([]byte, format.Padding(int64(data.Len()), Alignment)))
	}

	if order != nil {
		permuted := make([]testSlot, len(slots))
		for i, idx := range order {
			permuted[i] = slots[idx]
		}
		slots = permuted
	}
	return assemble(created, data.Bytes(), slots)
}

func assemble(created float64, data []byte, slots []testSlot) []byte {
	var buf bytes.Buffer
	var header [HeaderLength]byte
	copy(header[0:4], format.Magic)
	binary.LittleEndian.PutUint32(header[4:8], uint32(len(slots)))
	binary.LittleEndian.PutUint64(header[8:16], math.Float64bits(created))
	buf.Write(header[:])
	buf.Write(data)

	for _, s := range slots {
		var slot [TrailerEntryLength]byte
		binary.LittleEndian.PutUint32(slot[0:4], uint32(s.endOffset))
		binary.LittleEndian.PutUint32(slot[4:8], uint32(s.state))
		binary.LittleEndian.PutUint64(slot[8:16], math.Float64bits(s.ts))
		buf.Write(slot[:])
	}
	return buf.Bytes()
}

func decode(t *testing.T, b []byte) ([]Entry, error) {
	t.Helper()
	r, err := NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	return ReadAll(context.Background(), r)
}

var epoch = time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)

func TestReader_DecodesRecords(t *testing.T) {
	records := []testRecord{
		{data: []byte("first!"), ts: 60},
		{data: []byte("gone"), state: int32(Deleted), ts: 120},
		{data: []byte("third record"), ts: 86400},
	}
	b := buildFile(3600, records, nil)

	r, err := NewReader(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	if !r.Created().Equal(epoch.Add(time.Hour)) {
		t.Errorf("Created() = %v, want %v", r.Created(), epoch.Add(time.Hour))
	}
	if r.Count() != 3 {
		t.Errorf("Count() = %d, want 3", r.Count())
	}

	entries, err := ReadAll(context.Background(), r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}

	// data region: "first!" 32..38 pad to 40, "gone" 40..44, "third record" 44..56
	trailerStart := int64(56)
	want := []struct {
		start     int64
		endOffset int32
		state     EntryState
		creation  time.Time
	}{
		{32, 6, Written, epoch.Add(time.Minute)},
		{40, 12, Deleted, epoch.Add(2 * time.Minute)},
		{44, 24, Written, epoch.AddDate(0, 0, 1)},
	}
	for i, w := range want {
		e := entries[i]
		if e.DataStartOffset != w.start {
			t.Errorf("entry %d DataStartOffset = %d, want %d", i, e.DataStartOffset, w.start)
		}
		if !bytes.Equal(e.Data, records[i].data) {
			t.Errorf("entry %d data = %q, want %q", i, e.Data, records[i].data)
		}
		if e.Metadata.EndOffset != w.endOffset {
			t.Errorf("entry %d EndOffset = %d, want %d", i, e.Metadata.EndOffset, w.endOffset)
		}
		if e.Metadata.State != w.state {
			t.Errorf("entry %d State = %v, want %v", i, e.Metadata.State, w.state)
		}
		if !e.Metadata.Creation.Equal(w.creation) {
			t.Errorf("entry %d Creation = %v, want %v", i, e.Metadata.Creation, w.creation)
		}
		if wantMeta := trailerStart + int64(i)*TrailerEntryLength; e.Metadata.MetadataOffset != wantMeta {
			t.Errorf("entry %d MetadataOffset = %d, want %d", i, e.Metadata.MetadataOffset, wantMeta)
		}
	}
}

func TestReader_OutOfOrderTrailer(t *testing.T) {
	records := []testRecord{
		{data: []byte("AAAA"), ts: 1},
		{data: []byte("BBBBBBBB"), ts: 2},
	}
	// slot 0 describes the second record (larger end offset).
	b := buildFile(0, records, []int{1, 0})

	entries, err := decode(t, b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}

	trailerStart := int64(HeaderLength + 12)
	if string(entries[0].Data) != "AAAA" || entries[0].Metadata.MetadataOffset != trailerStart+TrailerEntryLength {
		t.Errorf("first entry = %q from slot at %d, want AAAA from slot 1", entries[0].Data, entries[0].Metadata.MetadataOffset)
	}
	if string(entries[1].Data) != "BBBBBBBB" || entries[1].Metadata.MetadataOffset != trailerStart {
		t.Errorf("second entry = %q from slot at %d, want BBBBBBBB from slot 0", entries[1].Data, entries[1].Metadata.MetadataOffset)
	}
}

func TestReader_AlignmentPadding(t *testing.T) {
	// 6 byte record followed by 2 pad bytes holding garbage.
	data := []byte("sixsix\xff\xffok")
	b := assemble(0, data, []testSlot{
		{endOffset: 6, state: 1},
		{endOffset: 10, state: 1},
	})

	r, err := NewReader(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	ctx := context.Background()

	first, err := r.Next(ctx)
	if err != nil {
		t.Fatalf("first Next: %v", err)
	}
	if string(first.Data) != "sixsix" {
		t.Errorf("first data = %q", first.Data)
	}
	if r.Offset() != 40 {
		t.Errorf("offset after first record = %d, want 40", r.Offset())
	}

	second, err := r.Next(ctx)
	if err != nil {
		t.Fatalf("second Next: %v", err)
	}
	if string(second.Data) != "ok" || second.DataStartOffset != 40 {
		t.Errorf("second = %q at %d, want \"ok\" at 40", second.Data, second.DataStartOffset)
	}
	if _, err := r.Next(ctx); err != io.EOF {
		t.Errorf("third Next error = %v, want io.EOF", err)
	}
}

func TestReader_DataRegionProperty(t *testing.T) {
	records := []testRecord{
		{data: bytes.Repeat([]byte{1}, 3)},
		{data: bytes.Repeat([]byte{2}, 9)},
		{data: bytes.Repeat([]byte{3}, 4)},
		{data: bytes.Repeat([]byte{4}, 1)},
		{data: bytes.Repeat([]byte{5}, 14)},
	}
	b := buildFile(0, records, []int{3, 0, 4, 2, 1})

	r, err := NewReader(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	entries, err := ReadAll(context.Background(), r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}

	start, end := r.DataRegion()
	var total int64
	prev := int32(0)
	for i, e := range entries {
		if e.Metadata.EndOffset < prev {
			t.Fatalf("entry %d out of end offset order", i)
		}
		prev = e.Metadata.EndOffset
		total += format.Align(int64(len(e.Data)), Alignment)
	}
	if total != end-start {
		t.Errorf("payload plus padding = %d, want data region length %d", total, end-start)
	}
	if r.Offset() > end {
		t.Errorf("cursor %d ran past trailer start %d", r.Offset(), end)
	}
}

func TestReader_NoEntries(t *testing.T) {
	entries, err := decode(t, buildFile(0, nil, nil))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("got %d entries, want 0", len(entries))
	}
}

func TestReader_TiesKeepTrailerOrder(t *testing.T) {
	b := assemble(0, []byte("data"), []testSlot{
		{endOffset: 4, state: int32(Written), ts: 1},
		{endOffset: 4, state: int32(Deleted), ts: 2},
	})
	r, err := NewReader(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}

	trailer := r.Trailer()
	if trailer[0].State != Written || trailer[1].State != Deleted {
		t.Fatalf("tie broken out of trailer order: %+v", trailer)
	}

	first, err := r.Next(context.Background())
	if err != nil {
		t.Fatalf("first Next: %v", err)
	}
	if first.Metadata.State != Written {
		t.Errorf("first entry state = %v, want Written", first.Metadata.State)
	}
	// The second slot describes an empty span.
	if _, err := r.Next(context.Background()); !errors.Is(err, format.ErrInvalidLength) {
		t.Errorf("second Next error = %v, want ErrInvalidLength", err)
	}
}

func TestReader_Errors(t *testing.T) {
	valid := func() []byte {
		return buildFile(0, []testRecord{{data: []byte("abcd")}}, nil)
	}

	badMagic := valid()
	copy(badMagic[0:4], "BGES")

	negativeCount := valid()
	binary.LittleEndian.PutUint32(negativeCount[4:8], uint32(0xFFFFFFFF))

	tooManyEntries := valid()
	binary.LittleEndian.PutUint32(tooManyEntries[4:8], 100)

	tests := []struct {
		name    string
		data    []byte
		wantErr error
		atOpen  bool
	}{
		{"bad magic", badMagic, format.ErrBadMagic, true},
		{"short header", valid()[:20], format.ErrTruncatedHeader, true},
		{"negative entry count", negativeCount, format.ErrInvalidLength, true},
		{"trailer before header", tooManyEntries, format.ErrSeek, true},
		{"invalid state", assemble(0, []byte("abcd"), []testSlot{{endOffset: 4, state: 2}}), format.ErrInvalidState, true},
		{"zero state", assemble(0, []byte("abcd"), []testSlot{{endOffset: 4, state: 0}}), format.ErrInvalidState, true},
		{"end offset into trailer", assemble(0, []byte("abcd"), []testSlot{{endOffset: 20, state: 1}}), format.ErrInvalidLength, false},
		{"empty span", assemble(0, []byte("abcd"), []testSlot{{endOffset: 0, state: 1}}), format.ErrInvalidLength, false},
		{"negative end offset", assemble(0, []byte("abcd"), []testSlot{{endOffset: -8, state: 1}}), format.ErrInvalidLength, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewReader(bytes.NewReader(tt.data))
			if tt.atOpen {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("NewReader error = %v, want %v", err, tt.wantErr)
				}
				if r != nil {
					t.Error("expected nil reader on error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewReader: %v", err)
			}

			entries, err := ReadAll(context.Background(), r)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ReadAll error = %v, want %v", err, tt.wantErr)
			}
			if len(entries) != 0 {
				t.Errorf("got %d entries before failure, want 0", len(entries))
			}
			if _, again := r.Next(context.Background()); again != err {
				t.Errorf("Next after failure = %v, want %v", again, err)
			}
		})
	}
}

func TestReader_Deterministic(t *testing.T) {
	b := buildFile(5, []testRecord{
		{data: []byte("one"), ts: 1},
		{data: []byte("two two"), ts: 2},
		{data: []byte("three"), state: int32(Deleted), ts: 3},
	}, []int{2, 0, 1})

	first, err := decode(t, b)
	if err != nil {
		t.Fatalf("first decode: %v", err)
	}
	second, err := decode(t, b)
	if err != nil {
		t.Fatalf("second decode: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("decoding twice differs:\n%+v\n%+v", first, second)
	}
}

func TestParseEntryState(t *testing.T) {
	tests := []struct {
		code    int32
		want    EntryState
		wantErr bool
	}{
		{1, Written, false},
		{3, Deleted, false},
		{0, 0, true},
		{2, 0, true},
		{4, 0, true},
		{-1, 0, true},
	}
	for _, tt := range tests {
		got, err := ParseEntryState(tt.code)
		if tt.wantErr {
			if !errors.Is(err, format.ErrInvalidState) {
				t.Errorf("ParseEntryState(%d) error = %v, want ErrInvalidState", tt.code, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseEntryState(%d) = %v, %v; want %v", tt.code, got, err, tt.want)
		}
	}
}

func TestEntryStateString(t *testing.T) {
	if Written.String() != "Written" || Deleted.String() != "Deleted" {
		t.Errorf("unexpected names %q %q", Written, Deleted)
	}
	if got := EntryState(7).String(); got != "EntryState(7)" {
		t.Errorf("EntryState(7).String() = %q", got)
	}
}
