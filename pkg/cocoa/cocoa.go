package cocoa

import (
	"math"
	"time"
)

// EpochUnix is the Cocoa reference date expressed in Unix seconds.
const EpochUnix int64 = 978307200

// Epoch is the Cocoa reference date, 2001-01-01T00:00:00 UTC.
var Epoch = time.Unix(EpochUnix, 0).UTC()

// MaxOffset bounds the magnitude of offsets DecodeTime can place on the
// time line without overflowing int64 seconds.
const MaxOffset = float64(1 << 62)

// DecodeTime returns Epoch shifted by seconds. Any finite value is accepted,
// including negative offsets; plausibility checks are left to the caller.
// NaN, infinities and offsets whose magnitude reaches MaxOffset have no
// representable position in time and decode to the zero Time.
func DecodeTime(seconds float64) time.Time {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || math.Abs(seconds) >= MaxOffset {
		return time.Time{}
	}
	whole, frac := math.Modf(seconds)
	nsec := int64(math.Round(frac * float64(time.Second)))
	return time.Unix(EpochUnix+int64(whole), nsec).UTC()
}

// DecodeBits decodes a raw little-endian float64 bit pattern as read from disk.
func DecodeBits(bits uint64) time.Time {
	return DecodeTime(math.Float64frombits(bits))
}
