// Package rows materializes decoded result buffers into a row stream.
//
// A Rows pulls batches from a Fetcher on demand, decodes each batch with
// rowbuf, and hands out one Row per Next call. At most one raw batch is
// held at a time: the previous batch is released back to its producer
// before the next one is requested, so buffer ownership never overlaps.
//
//	rs, _ := rows.New(fetcher, rows.Options{})
//	defer rs.Close()
//	for {
//	    row, err := rs.Next()
//	    if errors.Is(err, rows.EndOfStream()) {
//	        break
//	    }
//	    ...
//	}
//
// Exhaustion is a state, not just an error value: once EndOfStream has
// been returned every later Next returns it again without touching the
// Fetcher.
package rows
