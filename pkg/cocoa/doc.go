// Package cocoa converts Apple "Cocoa" timestamps into time.Time values.
//
// Cocoa timestamps count seconds (possibly fractional) from the reference
// date 2001-01-01T00:00:00 UTC. Both SEGB revisions store them as
// little-endian IEEE-754 doubles.
//
// # Usage
//
//	ts := cocoa.DecodeTime(725_760_000.5)
//	fmt.Println(ts.Format(time.RFC3339Nano))
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
//
// See version.go for version constants that can be used programmatically.
package cocoa
