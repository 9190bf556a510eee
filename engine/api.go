package engine

// API is the resolved entry-point table of the native library. Fields are
// populated once by Library.Bind on the worker thread; optional entry
// points missing from older library builds stay nil and their Runtime
// wrappers degrade to no-ops, matching the library's own headers.
//
// Every h2gis_* entry point takes the isolate thread token as its first
// argument.
type API struct {
	// Isolate bootstrap (graal_* symbols).
	CreateIsolate func(params uintptr, isolate, thread *uintptr) int32
	AttachThread  func(isolate uintptr, thread *uintptr) int32
	DetachThread  func(thread uintptr) int32

	GetLastError func(thread uintptr) string

	Connect func(thread uintptr, path, user, pass string) int64
	Load    func(thread uintptr, conn int64) int64

	Execute func(thread uintptr, conn int64, sql string) int32
	Fetch   func(thread uintptr, conn int64, sql string) int64

	Prepare               func(thread uintptr, conn int64, sql string) int64
	BindDouble            func(thread uintptr, stmt int64, idx int32, v float64)
	BindInt               func(thread uintptr, stmt int64, idx int32, v int32)
	BindLong              func(thread uintptr, stmt int64, idx int32, v int64)
	BindString            func(thread uintptr, stmt int64, idx int32, v string)
	BindBlob              func(thread uintptr, stmt int64, idx int32, data *byte, n int32)
	ExecutePreparedUpdate func(thread uintptr, stmt int64) int32
	ExecutePreparedQuery  func(thread uintptr, stmt int64) int64

	FetchAll    func(thread uintptr, rs int64, sizeOut *int64) uintptr
	FetchOne    func(thread uintptr, rs int64, sizeOut *int64) uintptr
	FetchBatch  func(thread uintptr, rs int64, size int32, sizeOut *int64) uintptr
	ColumnTypes func(thread uintptr, stmt int64, sizeOut *int64) uintptr

	MetadataJSON func(thread uintptr, conn int64) string

	CloseQuery             func(thread uintptr, handle int64)
	CloseConnection        func(thread uintptr, conn int64)
	DeleteDatabaseAndClose func(thread uintptr, conn int64)
	FreeResultSet          func(thread uintptr, rs int64) int64
	FreeResultBuffer       func(thread uintptr, buf uintptr)
}
