// Package hexview renders byte slices as offset/hex/ASCII listings.
package hexview

import (
	"fmt"
	"strings"
)

// Options controls the layout of Format.
type Options struct {
	Width       int
	ShowOffset  bool
	ShowASCII   bool
	LineSep     string
	StartOffset int
	// MaxBytes limits the rendered bytes; negative means no limit.
	MaxBytes int
}

// DefaultOptions returns 16 bytes per line with offsets and ASCII shown.
func DefaultOptions() Options {
	return Options{
		Width:      16,
		ShowOffset: true,
		ShowASCII:  true,
		LineSep:    "\n",
		MaxBytes:   -1,
	}
}

// Format renders b. Offsets are relative to StartOffset.
func Format(b []byte, opts Options) string {
	if opts.Width <= 0 {
		opts.Width = 16
	}
	if opts.StartOffset > 0 {
		if opts.StartOffset >= len(b) {
			return ""
		}
		b = b[opts.StartOffset:]
	}
	if opts.MaxBytes >= 0 && opts.MaxBytes < len(b) {
		b = b[:opts.MaxBytes]
	}

	lines := make([]string, 0, (len(b)+opts.Width-1)/opts.Width)
	var sb strings.Builder
	for off := 0; off < len(b); off += opts.Width {
		chunk := b[off:min(off+opts.Width, len(b))]
		sb.Reset()

		if opts.ShowOffset {
			fmt.Fprintf(&sb, "%08x: ", off)
		}
		hex := make([]string, len(chunk))
		for i, c := range chunk {
			hex[i] = fmt.Sprintf("%02x", c)
		}
		sb.WriteString(fmt.Sprintf("%-*s", opts.Width*3, strings.Join(hex, " ")))
		if opts.ShowASCII {
			sb.WriteByte(' ')
			for _, c := range chunk {
				if c >= 0x20 && c < 0x7f {
					sb.WriteByte(c)
				} else {
					sb.WriteByte('.')
				}
			}
		}
		lines = append(lines, sb.String())
	}
	return strings.Join(lines, opts.LineSep)
}
