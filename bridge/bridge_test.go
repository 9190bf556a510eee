package bridge

import (
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/h2gis/h2gis-go/engine"
	"github.com/h2gis/h2gis-go/errors"
)

// stubCaller is a minimal engine double. Tests that care about specific
// calls override behavior through the onExecute hook.
type stubCaller struct {
	mu        sync.Mutex
	executed  []string
	closed    bool
	onExecute func(sql string) int32
}

func (s *stubCaller) record(sql string) {
	s.mu.Lock()
	s.executed = append(s.executed, sql)
	s.mu.Unlock()
}

func (s *stubCaller) LastError() string { return "stub failure" }

func (s *stubCaller) Connect(path, user, pass string) int64 { return 1 }
func (s *stubCaller) Load(conn int64) int64                 { return 0 }

func (s *stubCaller) Execute(conn int64, sql string) int32 {
	s.record(sql)
	if s.onExecute != nil {
		return s.onExecute(sql)
	}
	return 0
}

func (s *stubCaller) Fetch(conn int64, sql string) int64 { return 1 }

func (s *stubCaller) Prepare(conn int64, sql string) int64              { return 1 }
func (s *stubCaller) BindDouble(stmt int64, idx int32, v float64)       {}
func (s *stubCaller) BindInt(stmt int64, idx int32, v int32)            {}
func (s *stubCaller) BindLong(stmt int64, idx int32, v int64)           {}
func (s *stubCaller) BindString(stmt int64, idx int32, v string)        {}
func (s *stubCaller) BindBlob(stmt int64, idx int32, data []byte)       {}
func (s *stubCaller) ExecutePreparedUpdate(stmt int64) int32            { return 0 }
func (s *stubCaller) ExecutePreparedQuery(stmt int64) int64             { return 1 }
func (s *stubCaller) FetchOne(rs int64) (engine.Buffer, bool) { return engine.Buffer{}, false }
func (s *stubCaller) FetchAll(rs int64) (engine.Buffer, bool) { return engine.Buffer{}, false }
func (s *stubCaller) FetchBatch(rs int64, n int32) (engine.Buffer, bool) {
	return engine.Buffer{}, false
}
func (s *stubCaller) ColumnTypes(stmt int64) (engine.Buffer, bool) { return engine.Buffer{}, false }
func (s *stubCaller) MetadataJSON(conn int64) string               { return "" }
func (s *stubCaller) CloseQuery(handle int64)                      {}
func (s *stubCaller) CloseConnection(conn int64)                   {}
func (s *stubCaller) DeleteDatabase(conn int64) int64              { return 0 }
func (s *stubCaller) FreeResultSet(rs int64) int64                 { return 0 }
func (s *stubCaller) FreeBuffer(b engine.Buffer)                   {}

func (s *stubCaller) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

func stubBridge(t *testing.T) (*Bridge, *stubCaller) {
	t.Helper()
	stub := &stubCaller{}
	b := New(Config{
		InitTimeout:  2 * time.Second,
		PollInterval: time.Millisecond,
		Boot: func(Config) (engine.Caller, error) {
			return stub, nil
		},
	})
	if err := b.EnsureReady(); err != nil {
		t.Fatalf("EnsureReady: %v", err)
	}
	return b, stub
}

func TestEnsureReady_Idempotent(t *testing.T) {
	boots := 0
	b := New(Config{
		PollInterval: time.Millisecond,
		Boot: func(Config) (engine.Caller, error) {
			boots++
			return &stubCaller{}, nil
		},
	})
	defer b.RequestShutdown()

	for i := 0; i < 3; i++ {
		if err := b.EnsureReady(); err != nil {
			t.Fatalf("EnsureReady #%d: %v", i, err)
		}
	}
	if boots != 1 {
		t.Errorf("boot ran %d times", boots)
	}
	if b.State() != StateReady {
		t.Errorf("state = %v", b.State())
	}
}

func TestEnsureReady_BootFailure(t *testing.T) {
	boots := 0
	bootErr := errors.SymbolMissing("h2gis_connect")
	b := New(Config{
		PollInterval: time.Millisecond,
		Boot: func(Config) (engine.Caller, error) {
			boots++
			return nil, bootErr
		},
	})

	if err := b.EnsureReady(); !stderrors.Is(err, bootErr) {
		t.Fatalf("got %v", err)
	}
	if b.State() != StateFailed {
		t.Fatalf("state = %v", b.State())
	}

	// Failed is absorbing: no retry, same error.
	if err := b.EnsureReady(); !stderrors.Is(err, bootErr) {
		t.Fatalf("re-fail: got %v", err)
	}
	if boots != 1 {
		t.Errorf("boot ran %d times after failure", boots)
	}
}

func TestEnsureReady_Timeout(t *testing.T) {
	b := New(Config{
		InitTimeout:  30 * time.Millisecond,
		PollInterval: 5 * time.Millisecond,
		Boot: func(Config) (engine.Caller, error) {
			time.Sleep(150 * time.Millisecond)
			return &stubCaller{}, nil
		},
	})

	err := b.EnsureReady()
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseInit, Kind: errors.KindTimeout}) {
		t.Fatalf("got %v", err)
	}
	if b.State() != StateFailed {
		t.Errorf("state = %v", b.State())
	}
}

func TestSubmit_NotReady(t *testing.T) {
	b := New(Config{})
	if _, err := b.Submit(func(engine.Caller) (any, error) { return nil, nil }); err == nil {
		t.Fatal("expected error before EnsureReady")
	}
}

func TestSubmit_FIFO(t *testing.T) {
	b, stub := stubBridge(t)
	defer b.RequestShutdown()

	const n = 50
	for i := 0; i < n; i++ {
		sql := string(rune('a' + i%26))
		if _, err := b.Submit(func(c engine.Caller) (any, error) {
			c.Execute(1, sql)
			return nil, nil
		}); err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
	}

	stub.mu.Lock()
	defer stub.mu.Unlock()
	if len(stub.executed) != n {
		t.Fatalf("executed %d tasks, want %d", len(stub.executed), n)
	}
	for i, sql := range stub.executed {
		if want := string(rune('a' + i%26)); sql != want {
			t.Fatalf("task %d ran out of order: %q", i, sql)
		}
	}
}

func TestSubmit_ErrorIsLocalToCaller(t *testing.T) {
	b, _ := stubBridge(t)
	defer b.RequestShutdown()

	taskErr := errors.EngineCall("execute", "boom")
	if _, err := b.Submit(func(engine.Caller) (any, error) {
		return nil, taskErr
	}); !stderrors.Is(err, taskErr) {
		t.Fatalf("got %v", err)
	}

	// The bridge still serves subsequent callers.
	v, err := Do(b, func(c engine.Caller) (int64, error) {
		return c.Connect("p", "u", ""), nil
	})
	if err != nil || v != 1 {
		t.Fatalf("follow-up task: %v %v", v, err)
	}
	if b.State() != StateReady {
		t.Errorf("state = %v", b.State())
	}
}

func TestSubmit_PanicReraisedInCaller(t *testing.T) {
	b, _ := stubBridge(t)
	defer b.RequestShutdown()

	func() {
		defer func() {
			if r := recover(); r != "task exploded" {
				t.Errorf("recovered %v", r)
			}
		}()
		b.Submit(func(engine.Caller) (any, error) {
			panic("task exploded")
		})
		t.Error("Submit returned instead of panicking")
	}()

	// Worker survived the panic.
	if _, err := b.Submit(func(engine.Caller) (any, error) { return nil, nil }); err != nil {
		t.Fatalf("post-panic submit: %v", err)
	}
}

func TestShutdown_DrainsQueue(t *testing.T) {
	b, stub := stubBridge(t)

	const k = 8
	gate := make(chan struct{})
	running := make(chan struct{})
	var wg sync.WaitGroup

	// First task blocks the worker so the rest pile up in the queue.
	wg.Add(1)
	go func() {
		defer wg.Done()
		b.Submit(func(c engine.Caller) (any, error) {
			close(running)
			<-gate
			c.Execute(1, "gate")
			return nil, nil
		})
	}()
	<-running

	for i := 0; i < k; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Submit(func(c engine.Caller) (any, error) {
				c.Execute(1, "queued")
				return nil, nil
			})
		}()
	}

	waitFor(t, func() bool {
		b.mu.Lock()
		defer b.mu.Unlock()
		return len(b.queue) == k
	})

	shutdownDone := make(chan struct{})
	go func() {
		b.RequestShutdown()
		close(shutdownDone)
	}()

	close(gate)
	<-shutdownDone
	wg.Wait()

	stub.mu.Lock()
	executed := len(stub.executed)
	closed := stub.closed
	stub.mu.Unlock()

	if executed != k+1 {
		t.Errorf("executed %d tasks, want %d", executed, k+1)
	}
	if !closed {
		t.Error("engine caller was not closed on shutdown")
	}
	if b.State() != StateTerminated {
		t.Errorf("state = %v", b.State())
	}
}

func TestSubmit_AfterShutdownRequested(t *testing.T) {
	b, _ := stubBridge(t)
	b.RequestShutdown()

	_, err := b.Submit(func(engine.Caller) (any, error) { return nil, nil })
	if err == nil {
		t.Fatal("expected rejection after shutdown")
	}
}

func TestRefCount_TriggersSingleShutdown(t *testing.T) {
	b, stub := stubBridge(t)

	b.AddRef()
	b.Release()

	if b.State() != StateTerminated {
		t.Fatalf("state = %v", b.State())
	}
	stub.mu.Lock()
	closed := stub.closed
	stub.mu.Unlock()
	if !closed {
		t.Error("engine caller not closed")
	}

	// An unmatched Release must neither crash nor double-join.
	b.Release()
	b.Release()
	if b.State() != StateTerminated {
		t.Errorf("state after extra releases = %v", b.State())
	}
}

func TestRequestShutdown_BeforeInit(t *testing.T) {
	b := New(Config{})
	b.RequestShutdown()
	if b.State() != StateTerminated {
		t.Errorf("state = %v", b.State())
	}
	if err := b.EnsureReady(); err == nil {
		t.Error("EnsureReady after terminate must fail")
	}
}

func TestDo_Typed(t *testing.T) {
	b, _ := stubBridge(t)
	defer b.RequestShutdown()

	conn, err := Do(b, func(c engine.Caller) (int64, error) {
		return c.Connect("/db", "sa", ""), nil
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if conn != 1 {
		t.Errorf("conn = %d", conn)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not reached in time")
		}
		time.Sleep(time.Millisecond)
	}
}
