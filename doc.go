// Package h2gis provides Go bindings for the H2GIS native database engine.
//
// H2GIS ships as a natively compiled shared library whose entry points may
// only be exercised from the thread that created its execution context, and
// which returns query results as opaque, length-delimited columnar byte
// buffers. This module bridges both constraints for ordinary Go callers.
//
// # Architecture Overview
//
// The module is organized into several packages with distinct responsibilities:
//
//	h2gis/            Root package with the architecture overview
//	├── bridge/       Single worker-thread dispatch bridge and task queue
//	├── engine/       Native library loading, symbol table, isolate handle
//	├── rowbuf/       Columnar result-buffer codec
//	├── geom/         Extended/canonical WKB geometry transform
//	├── rows/         Pull-based row materializer over fetched batches
//	├── session/      Connection, query and statement orchestration
//	└── errors/       Structured error types
//
// # Quick Start
//
// Open a database and iterate a query:
//
//	br := bridge.New(bridge.Config{})
//	if err := br.EnsureReady(); err != nil {
//	    log.Fatal(err)
//	}
//
//	sess, err := session.Open(br, "H2GIS:/data/cities.mv.db?user=sa")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer sess.Close()
//
//	rs, err := sess.Query("SELECT ID, NAME, THE_GEOM FROM CITIES")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rs.Close()
//
//	for {
//	    row, err := rs.Next()
//	    if errors.Is(err, rows.EndOfStream()) {
//	        break
//	    }
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(row.Values)
//	}
//
// # Thread Confinement
//
// Every call into the native engine runs on exactly one dedicated OS thread
// owned by the bridge. Callers on any goroutine submit work and block until
// the worker has executed it; results and errors propagate back to the
// submitting goroutine only. Buffers returned by the engine are decoded
// read-only off the worker, but released back through it.
//
// # Buffer Ownership
//
// Result buffers are engine-owned memory. The materializer in package rows
// holds at most one batch at a time and releases each buffer through the
// bridge before fetching the next. Callers using the codec directly must
// release buffers themselves; a forgotten release leaks engine-side memory.
package h2gis
