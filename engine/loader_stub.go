//go:build !(darwin || linux || freebsd)

package engine

import "github.com/h2gis/h2gis-go/errors"

// Library is an open handle to the native shared library.
type Library struct {
	path string
}

// Open reports that dynamic loading is unavailable on this platform.
func Open(path string) (*Library, error) {
	return nil, errors.New(errors.PhaseInit, errors.KindLibraryMissing).
		Detail("dynamic library loading is not supported on this platform").
		Build()
}

// Path returns the path the library was loaded from.
func (l *Library) Path() string {
	return l.path
}

// Close releases the library handle.
func (l *Library) Close() error {
	return nil
}

// Bind resolves the entry-point table.
func (l *Library) Bind() (*API, error) {
	return nil, errors.New(errors.PhaseInit, errors.KindLibraryMissing).
		Detail("dynamic library loading is not supported on this platform").
		Build()
}
