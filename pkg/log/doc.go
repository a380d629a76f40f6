// Package log provides the logging abstraction used by the SEGB decoders.
//
// Decoders log through the Logger interface so library users are not tied
// to a particular logging package. A zerolog adapter is provided for the
// segbdump command, and a no-op logger is the decoders' default.
//
// # Usage
//
//	logger := log.NewZerologAdapter(os.Stderr, "debug")
//	r, err := segb1.NewReader(f, segb1.WithLogger(logger))
//
// # Version
//
// Current version: 2.0.0
// Minimum compatible version: 2.0.0
//
// See version.go for version constants that can be used programmatically.
package log
