package engine

import "unsafe"

// Buffer is a result buffer owned by the engine: the raw pointer used to
// release it, plus a byte view for the codec. Data must not be accessed
// after the buffer is freed.
type Buffer struct {
	Data []byte

	ptr uintptr
}

// Valid reports whether the engine returned a non-empty buffer.
func (b Buffer) Valid() bool {
	return len(b.Data) > 0
}

// Caller is the engine operation surface handed to tasks submitted through
// the bridge. The production implementation is Runtime; tests substitute
// doubles. Handle conventions follow the native API: connections, result
// sets and statements are int64 handles, negative or zero meaning failure
// per the entry point's contract.
type Caller interface {
	LastError() string

	Connect(path, user, pass string) int64
	Load(conn int64) int64
	Execute(conn int64, sql string) int32
	Fetch(conn int64, sql string) int64

	Prepare(conn int64, sql string) int64
	BindDouble(stmt int64, idx int32, v float64)
	BindInt(stmt int64, idx int32, v int32)
	BindLong(stmt int64, idx int32, v int64)
	BindString(stmt int64, idx int32, v string)
	BindBlob(stmt int64, idx int32, data []byte)
	ExecutePreparedUpdate(stmt int64) int32
	ExecutePreparedQuery(stmt int64) int64

	FetchOne(rs int64) (Buffer, bool)
	FetchAll(rs int64) (Buffer, bool)
	FetchBatch(rs int64, size int32) (Buffer, bool)
	ColumnTypes(stmt int64) (Buffer, bool)
	MetadataJSON(conn int64) string

	CloseQuery(handle int64)
	CloseConnection(conn int64)
	DeleteDatabase(conn int64) int64
	FreeResultSet(rs int64) int64
	FreeBuffer(b Buffer)
}

// Runtime implements Caller over a bound API and a live isolate. All
// methods must run on the isolate's creating thread; the bridge guarantees
// that by construction.
type Runtime struct {
	lib *Library
	api *API
	iso *Isolate
}

// NewRuntime assembles the production Caller.
func NewRuntime(lib *Library, api *API, iso *Isolate) *Runtime {
	return &Runtime{lib: lib, api: api, iso: iso}
}

// Close detaches the isolate and releases the library handle. Must be the
// worker's final act.
func (r *Runtime) Close() error {
	r.iso.Detach(r.api)
	return r.lib.Close()
}

func (r *Runtime) LastError() string {
	if r.api.GetLastError == nil {
		return ""
	}
	return r.api.GetLastError(r.iso.thread)
}

func (r *Runtime) Connect(path, user, pass string) int64 {
	return r.api.Connect(r.iso.thread, path, user, pass)
}

func (r *Runtime) Load(conn int64) int64 {
	if r.api.Load == nil {
		return -1
	}
	return r.api.Load(r.iso.thread, conn)
}

func (r *Runtime) Execute(conn int64, sql string) int32 {
	return r.api.Execute(r.iso.thread, conn, sql)
}

func (r *Runtime) Fetch(conn int64, sql string) int64 {
	if r.api.Fetch == nil {
		return -1
	}
	return r.api.Fetch(r.iso.thread, conn, sql)
}

func (r *Runtime) Prepare(conn int64, sql string) int64 {
	return r.api.Prepare(r.iso.thread, conn, sql)
}

func (r *Runtime) BindDouble(stmt int64, idx int32, v float64) {
	if r.api.BindDouble != nil {
		r.api.BindDouble(r.iso.thread, stmt, idx, v)
	}
}

func (r *Runtime) BindInt(stmt int64, idx int32, v int32) {
	if r.api.BindInt != nil {
		r.api.BindInt(r.iso.thread, stmt, idx, v)
	}
}

func (r *Runtime) BindLong(stmt int64, idx int32, v int64) {
	if r.api.BindLong != nil {
		r.api.BindLong(r.iso.thread, stmt, idx, v)
	}
}

func (r *Runtime) BindString(stmt int64, idx int32, v string) {
	if r.api.BindString != nil {
		r.api.BindString(r.iso.thread, stmt, idx, v)
	}
}

func (r *Runtime) BindBlob(stmt int64, idx int32, data []byte) {
	if r.api.BindBlob == nil || len(data) == 0 {
		return
	}
	r.api.BindBlob(r.iso.thread, stmt, idx, &data[0], int32(len(data)))
}

func (r *Runtime) ExecutePreparedUpdate(stmt int64) int32 {
	if r.api.ExecutePreparedUpdate == nil {
		return -1
	}
	return r.api.ExecutePreparedUpdate(r.iso.thread, stmt)
}

func (r *Runtime) ExecutePreparedQuery(stmt int64) int64 {
	if r.api.ExecutePreparedQuery == nil {
		return 0
	}
	return r.api.ExecutePreparedQuery(r.iso.thread, stmt)
}

func (r *Runtime) bufferCall(fn func(sizeOut *int64) uintptr) (Buffer, bool) {
	var size int64
	ptr := fn(&size)
	if ptr == 0 || size <= 0 {
		return Buffer{}, false
	}
	return Buffer{
		Data: unsafe.Slice((*byte)(unsafe.Pointer(ptr)), size),
		ptr:  ptr,
	}, true
}

func (r *Runtime) FetchOne(rs int64) (Buffer, bool) {
	if r.api.FetchOne == nil {
		return Buffer{}, false
	}
	return r.bufferCall(func(sizeOut *int64) uintptr {
		return r.api.FetchOne(r.iso.thread, rs, sizeOut)
	})
}

func (r *Runtime) FetchAll(rs int64) (Buffer, bool) {
	if r.api.FetchAll == nil {
		return Buffer{}, false
	}
	return r.bufferCall(func(sizeOut *int64) uintptr {
		return r.api.FetchAll(r.iso.thread, rs, sizeOut)
	})
}

func (r *Runtime) FetchBatch(rs int64, size int32) (Buffer, bool) {
	if r.api.FetchBatch == nil {
		return Buffer{}, false
	}
	return r.bufferCall(func(sizeOut *int64) uintptr {
		return r.api.FetchBatch(r.iso.thread, rs, size, sizeOut)
	})
}

func (r *Runtime) ColumnTypes(stmt int64) (Buffer, bool) {
	if r.api.ColumnTypes == nil {
		return Buffer{}, false
	}
	return r.bufferCall(func(sizeOut *int64) uintptr {
		return r.api.ColumnTypes(r.iso.thread, stmt, sizeOut)
	})
}

func (r *Runtime) MetadataJSON(conn int64) string {
	if r.api.MetadataJSON == nil {
		return ""
	}
	return r.api.MetadataJSON(r.iso.thread, conn)
}

func (r *Runtime) CloseQuery(handle int64) {
	if r.api.CloseQuery != nil && handle != 0 {
		r.api.CloseQuery(r.iso.thread, handle)
	}
}

func (r *Runtime) CloseConnection(conn int64) {
	if r.api.CloseConnection != nil && conn >= 0 {
		r.api.CloseConnection(r.iso.thread, conn)
	}
}

// DeleteDatabase returns -1 when the library does not export the entry
// point; the call itself reports nothing.
func (r *Runtime) DeleteDatabase(conn int64) int64 {
	if r.api.DeleteDatabaseAndClose == nil {
		return -1
	}
	r.api.DeleteDatabaseAndClose(r.iso.thread, conn)
	return 0
}

func (r *Runtime) FreeResultSet(rs int64) int64 {
	if r.api.FreeResultSet == nil {
		return -1
	}
	return r.api.FreeResultSet(r.iso.thread, rs)
}

func (r *Runtime) FreeBuffer(b Buffer) {
	if r.api.FreeResultBuffer != nil && b.ptr != 0 {
		r.api.FreeResultBuffer(r.iso.thread, b.ptr)
	}
}
