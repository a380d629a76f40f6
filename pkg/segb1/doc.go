// Package segb1 decodes SEGB version 1 containers.
//
// A v1 file starts with a 56 byte header whose first four bytes give the
// absolute offset where record data ends and whose last four bytes are the
// "SEGB" marker. Records follow back to back, each with a 32 byte header
// (length and two Cocoa timestamps) and its payload, padded to 8 bytes.
//
// # Usage
//
//	r, err := segb1.NewReader(f)
//	if err != nil {
//	    return err
//	}
//	for {
//	    entry, err := r.Next(ctx)
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	    // Process entry...
//	}
//
// A Reader consumes its stream destructively and cannot be restarted.
// Decode the file again with a new Reader over a rewound stream.
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
//
// See version.go for version constants that can be used programmatically.
package segb1
