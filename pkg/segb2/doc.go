// Package segb2 decodes SEGB version 2 containers.
//
// A v2 file starts with a 32 byte header holding the "SEGB" marker and the
// number of entries. Record payloads follow the header back to back, each
// padded to 4 bytes. The metadata for every record lives in a trailer of
// 16 byte slots at the end of the file; each slot declares where its
// record's data ends, relative to the start of the data region.
//
// Trailer slots are not necessarily stored in data order, so the Reader
// loads the whole trailer up front and walks the data region in ascending
// end offset order. Entries are therefore yielded by end offset, which is
// usually but not always the physical order of the trailer.
//
// # Usage
//
//	r, err := segb2.NewReader(f)
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
//	    if entry.Metadata.State == segb2.Deleted {
//	        continue
//	    }
//	    // Process entry...
//	}
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
//
// See version.go for version constants that can be used programmatically.
package segb2
