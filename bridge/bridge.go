package bridge

import (
	"io"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/h2gis/h2gis-go/engine"
	"github.com/h2gis/h2gis-go/errors"
)

// State is the bridge lifecycle state.
type State int32

const (
	StateUninitialized State = iota
	StateInitializing
	StateReady
	StateShuttingDown
	StateTerminated
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateShuttingDown:
		return "shutting down"
	case StateTerminated:
		return "terminated"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Config holds bridge configuration. The zero value uses the platform
// library search and a 10 second initialization timeout.
type Config struct {
	// LibraryPath overrides library location; empty falls back to the
	// environment variables and platform search list.
	LibraryPath string

	// InitTimeout bounds how long EnsureReady waits for the worker.
	InitTimeout time.Duration

	// PollInterval is the Ready polling period during initialization.
	PollInterval time.Duration

	// Boot builds the engine caller on the worker thread. Nil means the
	// production bootstrap: locate, load, bind symbols, create isolate.
	// Tests substitute doubles here.
	Boot func(Config) (engine.Caller, error)
}

const (
	defaultInitTimeout  = 10 * time.Second
	defaultPollInterval = 100 * time.Millisecond
)

// Bridge owns the worker thread and its task queue.
type Bridge struct {
	cfg Config

	mu       sync.Mutex
	cond     *sync.Cond
	queue    []*task
	state    State
	draining bool
	stopInit bool
	initErr  error
	caller   engine.Caller
	done     chan struct{}

	refs atomic.Int64
}

// New creates a bridge. No thread is spawned until EnsureReady.
func New(cfg Config) *Bridge {
	if cfg.InitTimeout <= 0 {
		cfg.InitTimeout = defaultInitTimeout
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.Boot == nil {
		cfg.Boot = defaultBoot
	}
	b := &Bridge{cfg: cfg}
	b.cond = sync.NewCond(&b.mu)
	return b
}

func defaultBoot(cfg Config) (engine.Caller, error) {
	path, err := engine.Locate(cfg.LibraryPath)
	if err != nil {
		return nil, err
	}
	lib, err := engine.Open(path)
	if err != nil {
		return nil, err
	}
	api, err := lib.Bind()
	if err != nil {
		lib.Close()
		return nil, err
	}
	iso, err := engine.NewIsolate(api)
	if err != nil {
		lib.Close()
		return nil, err
	}
	return engine.NewRuntime(lib, api, iso), nil
}

// State returns the current lifecycle state.
func (b *Bridge) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// EnsureReady initializes the bridge if necessary and blocks until the
// worker is serving, with a bounded timeout. Idempotent: already-Ready
// calls return nil immediately; a Failed bridge re-fails without retrying.
func (b *Bridge) EnsureReady() error {
	b.mu.Lock()
	switch b.state {
	case StateReady:
		b.mu.Unlock()
		return nil
	case StateFailed:
		err := b.initErr
		b.mu.Unlock()
		return err
	case StateShuttingDown, StateTerminated:
		st := b.state
		b.mu.Unlock()
		return errors.NotReady(st.String())
	case StateUninitialized:
		b.state = StateInitializing
		b.done = make(chan struct{})
		go b.worker()
	}
	b.mu.Unlock()

	return b.awaitReady()
}

func (b *Bridge) awaitReady() error {
	deadline := time.Now().Add(b.cfg.InitTimeout)
	ticker := time.NewTicker(b.cfg.PollInterval)
	defer ticker.Stop()

	for {
		b.mu.Lock()
		switch b.state {
		case StateReady:
			b.mu.Unlock()
			return nil
		case StateFailed:
			err := b.initErr
			b.mu.Unlock()
			return err
		}
		if time.Now().After(deadline) {
			// Abandon initialization: the worker will observe the flag
			// once its bootstrap returns and exit without serving.
			b.stopInit = true
			if b.initErr == nil {
				b.initErr = errors.InitTimeout(b.cfg.InitTimeout.String())
			}
			done := b.done
			b.mu.Unlock()

			engine.Logger().Warn("bridge initialization timed out",
				zap.Duration("timeout", b.cfg.InitTimeout))
			<-done

			b.mu.Lock()
			err := b.initErr
			b.mu.Unlock()
			return err
		}
		b.mu.Unlock()
		<-ticker.C
	}
}

// worker is the only function that ever touches the engine caller. It runs
// locked to its OS thread for the bridge's entire lifetime.
func (b *Bridge) worker() {
	runtime.LockOSThread()
	defer close(b.done)

	caller, err := b.cfg.Boot(b.cfg)

	b.mu.Lock()
	if err != nil {
		b.initErr = err
		b.state = StateFailed
		b.mu.Unlock()
		engine.Logger().Warn("bridge initialization failed", zap.Error(err))
		return
	}
	if b.stopInit {
		if b.initErr == nil {
			b.initErr = errors.NotReady("initialization abandoned")
		}
		b.state = StateFailed
		b.mu.Unlock()
		closeCaller(caller)
		return
	}
	b.caller = caller
	b.state = StateReady
	b.mu.Unlock()

	engine.Logger().Debug("bridge worker ready")

	for {
		b.mu.Lock()
		for len(b.queue) == 0 && !b.draining {
			b.cond.Wait()
		}
		if b.draining && len(b.queue) == 0 {
			b.mu.Unlock()
			break
		}
		t := b.queue[0]
		b.queue = b.queue[1:]
		b.mu.Unlock()

		t.run(caller)
	}

	closeCaller(caller)

	b.mu.Lock()
	b.caller = nil
	b.state = StateTerminated
	b.mu.Unlock()

	engine.Logger().Debug("bridge worker terminated")
}

func closeCaller(c engine.Caller) {
	if closer, ok := c.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			engine.Logger().Warn("engine close failed", zap.Error(err))
		}
	}
}

// Submit enqueues one unit of work for the worker and blocks until it has
// executed. The closure's error reaches only this caller; a panic inside
// it is re-raised here, on the submitting goroutine.
func (b *Bridge) Submit(fn func(engine.Caller) (any, error)) (any, error) {
	b.mu.Lock()
	if b.draining {
		b.mu.Unlock()
		return nil, errors.ShuttingDown()
	}
	if b.state != StateReady {
		st := b.state
		b.mu.Unlock()
		return nil, errors.NotReady(st.String())
	}
	t := &task{fn: fn, done: make(chan taskResult, 1)}
	b.queue = append(b.queue, t)
	b.cond.Signal()
	b.mu.Unlock()

	res := <-t.done
	if res.panicked {
		panic(res.panicVal)
	}
	return res.value, res.err
}

// Do submits fn and returns its typed result.
func Do[T any](b *Bridge, fn func(engine.Caller) (T, error)) (T, error) {
	v, err := b.Submit(func(c engine.Caller) (any, error) {
		return fn(c)
	})
	if err != nil || v == nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// AddRef records a logical session depending on the bridge.
func (b *Bridge) AddRef() {
	n := b.refs.Add(1)
	engine.Logger().Debug("bridge reference added", zap.Int64("refs", n))
}

// Release drops one reference; the drop from one to zero triggers exactly
// one graceful shutdown. A Release without a matching AddRef is ignored.
func (b *Bridge) Release() {
	for {
		cur := b.refs.Load()
		if cur <= 0 {
			engine.Logger().Warn("bridge release without matching add-ref")
			return
		}
		if b.refs.CompareAndSwap(cur, cur-1) {
			engine.Logger().Debug("bridge reference released", zap.Int64("refs", cur-1))
			if cur == 1 {
				b.RequestShutdown()
			}
			return
		}
	}
}

// RequestShutdown starts a graceful drain and blocks until the worker has
// executed every already-queued task, released the engine, and exited.
// Idempotent; concurrent callers all block until the drain completes.
func (b *Bridge) RequestShutdown() {
	b.mu.Lock()
	switch b.state {
	case StateUninitialized:
		// No worker was ever spawned.
		b.state = StateTerminated
		b.mu.Unlock()
		return
	case StateTerminated, StateFailed:
		b.mu.Unlock()
		return
	case StateInitializing:
		b.stopInit = true
		b.draining = true
		b.cond.Broadcast()
	case StateReady:
		engine.Logger().Debug("bridge shutdown requested",
			zap.Int("queued", len(b.queue)))
		b.state = StateShuttingDown
		b.draining = true
		b.cond.Broadcast()
	case StateShuttingDown:
		// Another caller already requested it; fall through and wait.
	}
	done := b.done
	b.mu.Unlock()

	<-done
}
