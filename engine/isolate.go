package engine

import (
	"github.com/h2gis/h2gis-go/errors"
)

// Isolate is the engine's process-local execution context: an opaque
// isolate reference plus the thread token of the thread that created it.
// It is created exactly once, on the worker thread, and must never be
// copied or used from any other thread.
type Isolate struct {
	isolate uintptr
	thread  uintptr
}

// NewIsolate creates the execution context on the calling thread.
func NewIsolate(api *API) (*Isolate, error) {
	var iso, thr uintptr
	if rc := api.CreateIsolate(0, &iso, &thr); rc != 0 {
		return nil, errors.New(errors.PhaseInit, errors.KindEngineCall).
			Symbol("graal_create_isolate").
			Detail("isolate creation failed with code %d", rc).
			Build()
	}
	return &Isolate{isolate: iso, thread: thr}, nil
}

// Thread returns the token passed as the first argument of every engine
// call. Only meaningful on the creating thread.
func (i *Isolate) Thread() uintptr {
	return i.thread
}

// Detach detaches the creating thread from the isolate. Must be the last
// engine operation and must run on the creating thread.
func (i *Isolate) Detach(api *API) {
	if i.thread != 0 && api.DetachThread != nil {
		api.DetachThread(i.thread)
	}
	i.thread = 0
	i.isolate = 0
}
