// Package rowbuf decodes the columnar result buffers produced by the native
// engine.
//
// A result buffer carries exactly one batch. Its layout, all integers in the
// buffer's byte order (little-endian from the engine):
//
//	header:     int32 columnCount, int32 rowCount
//	offsets:    columnCount × int64 (byte offset of each column block)
//	column[i]:  int32 nameLen, byte[nameLen] name,
//	            int32 typeTag, int32 totalDataLen,
//	            rowCount values
//
// Fixed-width tags (Int, Long, Float, Double, Bool) store each value as its
// raw bytes with no per-value prefix. Variable-width tags (String, Date,
// Geometry, Other) prefix every value with an int32 length; length zero
// denotes an empty/absent value. There is no null representation for
// fixed-width tags.
//
// Decoding is pure byte inspection: no engine calls, no mutation of the
// input, so it is safe off the worker thread. Every offset and length is
// validated against the buffer size before it is dereferenced; a malformed
// buffer yields an out_of_bounds or invalid_data error instead of a wild
// read.
//
// # Usage
//
//	buf, err := rowbuf.Decode(raw)
//	if err != nil {
//	    return err
//	}
//	for r := 0; r < buf.RowCount; r++ {
//	    for i := range buf.Columns {
//	        v, err := buf.Columns[i].Next()
//	        ...
//	    }
//	}
//
// Columns are consumed strictly in row order: each Next advances that
// column's read cursor past exactly one value. Geometry values are returned
// in canonical form; the embedded coordinate-reference identifier, when
// present, is stripped via package geom.
//
// The Encoder exists for tests and engine fakes; production buffers always
// come from the native library.
package rowbuf
