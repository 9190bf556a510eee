// Package bridge funnels every native engine call onto one dedicated OS
// thread.
//
// The engine's execution context may only be touched from the thread that
// created it, and its calls need far more stack than a typical thread
// default. The bridge therefore owns a single worker locked to its OS
// thread for the bridge's whole lifetime; callers on any goroutine submit
// closures and block until the worker has executed them.
//
// # Lifecycle
//
// A Bridge moves through Uninitialized, Initializing, Ready, ShuttingDown
// and Terminated, with Failed as an absorbing state reachable only from
// Initializing. EnsureReady is idempotent: the first caller spawns the
// worker, which loads the library, binds symbols and creates the isolate
// on itself; concurrent callers poll until Ready or a bounded timeout.
// Once Failed, every later EnsureReady re-fails immediately without
// retrying.
//
// # Submission
//
//	n, err := bridge.Do(br, func(c engine.Caller) (int64, error) {
//	    return c.Connect(path, user, pass), nil
//	})
//
// Tasks execute in FIFO submission order, exactly once, with no
// cancellation: once popped, a task runs to completion. An error returned
// by the closure reaches only its own submitter; a panic inside the
// closure is re-raised on the submitting goroutine. Neither corrupts the
// bridge for other callers.
//
// # Shutdown
//
// Sessions hold references via AddRef/Release; the drop to zero, or an
// explicit RequestShutdown, starts a graceful drain: every task already
// queued still runs, new submissions are refused, and the caller of
// RequestShutdown blocks until the worker has detached the engine context
// and exited.
//
// The type is deliberately constructible rather than a process singleton;
// production code typically keeps one instance, tests create as many as
// they like.
package bridge
