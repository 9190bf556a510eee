//go:build darwin || linux || freebsd

package engine

import (
	"github.com/ebitengine/purego"
	"go.uber.org/zap"

	"github.com/h2gis/h2gis-go/errors"
)

// Library is an open handle to the native shared library.
type Library struct {
	path   string
	handle uintptr
}

// Open dlopens the native library at path.
func Open(path string) (*Library, error) {
	handle, err := purego.Dlopen(path, purego.RTLD_LAZY|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, errors.LibraryMissing(path, err)
	}
	Logger().Debug("native library loaded", zap.String("path", path))
	return &Library{path: path, handle: handle}, nil
}

// Path returns the path the library was loaded from.
func (l *Library) Path() string {
	return l.path
}

// Close releases the library handle. Only valid once no isolate created
// from it is still attached.
func (l *Library) Close() error {
	if l.handle == 0 {
		return nil
	}
	err := purego.Dlclose(l.handle)
	l.handle = 0
	return err
}

// binder accumulates symbol resolution over one library handle.
type binder struct {
	lib     *Library
	missing []string
}

func (b *binder) fn(fptr any, name string) {
	if _, err := purego.Dlsym(b.lib.handle, name); err != nil {
		b.missing = append(b.missing, name)
		return
	}
	purego.RegisterLibFunc(fptr, b.lib.handle, name)
}

// Bind resolves every entry point into a fresh API table. Required symbols
// (isolate creation, connect, execute, prepare) must resolve; the rest stay
// nil when absent so callers can degrade per entry point.
func (l *Library) Bind() (*API, error) {
	b := &binder{lib: l}
	api := &API{}

	b.fn(&api.CreateIsolate, "graal_create_isolate")
	b.fn(&api.AttachThread, "graal_attach_thread")
	b.fn(&api.DetachThread, "graal_detach_thread")

	b.fn(&api.GetLastError, "h2gis_get_last_error")
	b.fn(&api.Connect, "h2gis_connect")
	b.fn(&api.Load, "h2gis_load")
	b.fn(&api.Execute, "h2gis_execute")
	b.fn(&api.Fetch, "h2gis_fetch")
	b.fn(&api.Prepare, "h2gis_prepare")
	b.fn(&api.BindDouble, "h2gis_bind_double")
	b.fn(&api.BindInt, "h2gis_bind_int")
	b.fn(&api.BindLong, "h2gis_bind_long")
	b.fn(&api.BindString, "h2gis_bind_string")
	b.fn(&api.BindBlob, "h2gis_bind_blob")
	b.fn(&api.ExecutePreparedUpdate, "h2gis_execute_prepared_update")
	b.fn(&api.ExecutePreparedQuery, "h2gis_execute_prepared")
	b.fn(&api.FetchAll, "h2gis_fetch_all")
	b.fn(&api.FetchOne, "h2gis_fetch_one")
	b.fn(&api.FetchBatch, "h2gis_fetch_batch")
	b.fn(&api.ColumnTypes, "h2gis_get_column_types")
	b.fn(&api.MetadataJSON, "h2gis_get_metadata_json")
	b.fn(&api.CloseQuery, "h2gis_close_query")
	b.fn(&api.CloseConnection, "h2gis_close_connection")
	b.fn(&api.DeleteDatabaseAndClose, "h2gis_delete_database_and_close")
	b.fn(&api.FreeResultSet, "h2gis_free_result_set")
	b.fn(&api.FreeResultBuffer, "h2gis_free_result_buffer")

	for _, required := range []struct {
		name string
		ok   bool
	}{
		{"graal_create_isolate", api.CreateIsolate != nil},
		{"h2gis_connect", api.Connect != nil},
		{"h2gis_execute", api.Execute != nil},
		{"h2gis_prepare", api.Prepare != nil},
	} {
		if !required.ok {
			return nil, errors.SymbolMissing(required.name)
		}
	}

	if len(b.missing) > 0 {
		Logger().Debug("optional entry points absent", zap.Strings("symbols", b.missing))
	}
	return api, nil
}
