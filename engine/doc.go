// Package engine binds the H2GIS native shared library.
//
// The library is a natively compiled image exporting a fixed set of C entry
// points plus three bootstrap functions that create and attach its execution
// context (the isolate). All of them are resolved exactly once, into an API
// capability struct, on the bridge's worker thread; downstream code calls
// through the struct's fields rather than through named globals.
//
// # Initialization Order
//
// On the worker thread, in order:
//
//  1. Locate  - explicit path, H2GIS_NATIVE_LIB/H2GIS_LIBRARY environment
//     override, or the platform fallback list
//  2. Open    - dlopen the shared library
//  3. Bind    - resolve every entry point into an API struct; missing
//     required symbols fail initialization
//  4. NewIsolate - create the execution context on the calling thread
//
// A failure at any step is fatal to initialization and is never retried.
//
// # The Caller Interface
//
// Caller is the operation surface the bridge hands to submitted tasks. The
// production implementation is Runtime (API + Isolate); tests substitute
// doubles that record call order or thread identity.
//
// # Thread Confinement
//
// The isolate, and therefore every API call taking its thread token, is
// only valid on the thread that created it. Nothing in this package
// enforces that; the bridge does, by construction.
package engine
