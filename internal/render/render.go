// Package render prints decoded SEGB records as text blocks or JSON lines.
package render

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bft-labs/segb/internal/hexview"
	"github.com/bft-labs/segb/pkg/segb1"
	"github.com/bft-labs/segb/pkg/segb2"
)

// Output formats.
const (
	OutputText = "text"
	OutputJSON = "json"
)

const (
	timeLayout      = "2006-01-02 15:04:05"
	timeLayoutMicro = "2006-01-02 15:04:05.000000"
)

var rule = strings.Repeat("=", 72)

// Renderer writes records to an io.Writer.
type Renderer struct {
	w       io.Writer
	output  string
	hexOpts hexview.Options
	enc     *json.Encoder
}

// New creates a Renderer. Unknown output names render as text.
func New(w io.Writer, output string, hexOpts hexview.Options) *Renderer {
	return &Renderer{w: w, output: output, hexOpts: hexOpts, enc: json.NewEncoder(w)}
}

type v1JSON struct {
	Offset     int64     `json:"offset"`
	Timestamp1 time.Time `json:"timestamp1"`
	Timestamp2 time.Time `json:"timestamp2"`
	Length     int       `json:"length"`
	Data       string    `json:"data"`
}

type v2JSON struct {
	Offset         int64     `json:"offset"`
	MetadataOffset int64     `json:"metadata_offset"`
	EndOffset      int32     `json:"end_offset"`
	State          string    `json:"state"`
	Creation       time.Time `json:"creation"`
	Length         int       `json:"length"`
	Data           string    `json:"data"`
}

// V1 renders a single v1 entry.
func (r *Renderer) V1(e segb1.Entry) error {
	if r.output == OutputJSON {
		return r.enc.Encode(v1JSON{
			Offset:     e.DataStartOffset,
			Timestamp1: e.Timestamp1,
			Timestamp2: e.Timestamp2,
			Length:     len(e.Data),
			Data:       hex.EncodeToString(e.Data),
		})
	}
	_, err := fmt.Fprintf(r.w, "%s\nOffset: %d\nTimestamp1: %s\nTimestamp2: %s\n\n%s\n\n",
		rule, e.DataStartOffset,
		formatTime(e.Timestamp1), formatTime(e.Timestamp2),
		hexview.Format(e.Data, r.hexOpts))
	return err
}

// V2 renders a single v2 entry.
func (r *Renderer) V2(e segb2.Entry) error {
	if r.output == OutputJSON {
		return r.enc.Encode(v2JSON{
			Offset:         e.DataStartOffset,
			MetadataOffset: e.Metadata.MetadataOffset,
			EndOffset:      e.Metadata.EndOffset,
			State:          e.Metadata.State.String(),
			Creation:       e.Metadata.Creation,
			Length:         len(e.Data),
			Data:           hex.EncodeToString(e.Data),
		})
	}
	_, err := fmt.Fprintf(r.w, "%s\nOffset: %d\nCreation Timestamp: %s\nState: %s\n\n%s\n\n",
		rule, e.DataStartOffset,
		formatTime(e.Metadata.Creation), e.Metadata.State,
		hexview.Format(e.Data, r.hexOpts))
	return err
}

// formatTime prints whole seconds bare and anything finer with six
// fractional digits. Sub-microsecond precision is truncated.
func formatTime(t time.Time) string {
	t = t.Truncate(time.Microsecond)
	if t.Nanosecond() == 0 {
		return t.Format(timeLayout)
	}
	return t.Format(timeLayoutMicro)
}

// End marks the end of a record sequence. JSON output has no footer.
func (r *Renderer) End() error {
	if r.output == OutputJSON {
		return nil
	}
	_, err := io.WriteString(r.w, "End of records\n\n")
	return err
}

// DumpV1 renders every entry of rd followed by the footer and returns the
// number of entries written. A decode error stops the dump without a footer.
func (r *Renderer) DumpV1(ctx context.Context, rd *segb1.Reader) (int, error) {
	n := 0
	for {
		e, err := rd.Next(ctx)
		if errors.Is(err, io.EOF) {
			return n, r.End()
		}
		if err != nil {
			return n, err
		}
		if err := r.V1(e); err != nil {
			return n, err
		}
		n++
	}
}

// DumpV2 is DumpV1 for v2 readers.
func (r *Renderer) DumpV2(ctx context.Context, rd *segb2.Reader) (int, error) {
	n := 0
	for {
		e, err := rd.Next(ctx)
		if errors.Is(err, io.EOF) {
			return n, r.End()
		}
		if err != nil {
			return n, err
		}
		if err := r.V2(e); err != nil {
			return n, err
		}
		n++
	}
}
