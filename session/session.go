package session

import (
	"go.uber.org/zap"

	"github.com/h2gis/h2gis-go/bridge"
	"github.com/h2gis/h2gis-go/engine"
	"github.com/h2gis/h2gis-go/errors"
	"github.com/h2gis/h2gis-go/rows"
)

const defaultUser = "sa"

// Option adjusts how a session is opened.
type Option func(*settings)

type settings struct {
	user      string
	password  string
	userSet   bool
	batchSize int32
}

type credential struct {
	user, pass string
}

// WithCredentials overrides any credentials carried by the URI.
func WithCredentials(user, password string) Option {
	return func(s *settings) {
		s.user = user
		s.password = password
		s.userSet = true
	}
}

// WithBatchSize sets the row count requested per fetch for Query streams.
func WithBatchSize(n int32) Option {
	return func(s *settings) {
		s.batchSize = n
	}
}

// Session is one engine connection. Methods are safe for concurrent use;
// the bridge serializes the underlying engine calls.
type Session struct {
	b     *bridge.Bridge
	conn  int64
	batch int32

	closed bool
}

// Open connects to the database named by uri. It initializes the bridge
// if needed and holds one bridge reference until Close.
func Open(b *bridge.Bridge, uri string, opts ...Option) (*Session, error) {
	u, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}

	cfg := settings{}
	for _, opt := range opts {
		opt(&cfg)
	}

	// Candidate order: explicit option, URI credentials, engine default.
	// The first accepted pair wins.
	var cands []credential
	if cfg.userSet {
		cands = append(cands, credential{cfg.user, cfg.password})
	}
	if u.User != "" {
		cands = append(cands, credential{u.User, u.Password})
	}
	cands = append(cands, credential{defaultUser, ""})

	if err := b.EnsureReady(); err != nil {
		return nil, err
	}
	b.AddRef()

	conn, err := bridge.Do(b, func(c engine.Caller) (int64, error) {
		conn := int64(-1)
		for _, cand := range cands {
			if conn = c.Connect(u.Path, cand.user, cand.pass); conn >= 0 {
				break
			}
		}
		if conn < 0 {
			return 0, errors.New(errors.PhaseSession, errors.KindEngineCall).
				Symbol("h2gis_connect").
				Detail("connect to %q failed: %s", u.Path, c.LastError()).
				Build()
		}
		if rc := c.Load(conn); rc != 0 {
			c.CloseConnection(conn)
			return 0, errors.New(errors.PhaseSession, errors.KindEngineCall).
				Symbol("h2gis_load").
				Detail("spatial function load failed: %s", c.LastError()).
				Build()
		}
		return conn, nil
	})
	if err != nil {
		b.Release()
		return nil, err
	}

	engine.Logger().Debug("session opened",
		zap.String("path", u.Path),
		zap.Int64("conn", conn))

	return &Session{b: b, conn: conn, batch: cfg.batchSize}, nil
}

// Exec runs a statement that produces no result set.
func (s *Session) Exec(sql string) error {
	if err := s.guard(); err != nil {
		return err
	}
	_, err := s.b.Submit(func(c engine.Caller) (any, error) {
		if rc := c.Execute(s.conn, sql); rc != 0 {
			return nil, errors.EngineCall("h2gis_execute", c.LastError())
		}
		return nil, nil
	})
	return err
}

// Query runs sql and returns a lazily fetched row stream. The caller must
// Close the stream to release the engine-side result set.
func (s *Session) Query(sql string) (*rows.Rows, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	rs, err := bridge.Do(s.b, func(c engine.Caller) (int64, error) {
		h := c.Fetch(s.conn, sql)
		if h <= 0 {
			return 0, errors.EngineCall("h2gis_fetch", c.LastError())
		}
		return h, nil
	})
	if err != nil {
		return nil, err
	}
	return rows.New(&resultFetcher{s: s, rs: rs}, rows.Options{BatchSize: s.batch}), nil
}

// QueryAll runs sql and materializes the complete result in one fetch.
// Prefer Query for results of unknown size.
func (s *Session) QueryAll(sql string) ([]rows.Row, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	data, err := bridge.Do(s.b, func(c engine.Caller) ([]byte, error) {
		h := c.Fetch(s.conn, sql)
		if h <= 0 {
			return nil, errors.EngineCall("h2gis_fetch", c.LastError())
		}
		defer c.FreeResultSet(h)

		buf, ok := c.FetchAll(h)
		if !ok {
			return nil, errors.EngineCall("h2gis_fetch_all", c.LastError())
		}
		defer c.FreeBuffer(buf)
		return append([]byte(nil), buf.Data...), nil
	})
	if err != nil {
		return nil, err
	}
	return rows.All(data)
}

// QueryRow runs sql and returns its single row. A result with zero rows
// reports not-found.
func (s *Session) QueryRow(sql string) (rows.Row, error) {
	if err := s.guard(); err != nil {
		return rows.Row{}, err
	}
	data, err := bridge.Do(s.b, func(c engine.Caller) ([]byte, error) {
		h := c.Fetch(s.conn, sql)
		if h <= 0 {
			return nil, errors.EngineCall("h2gis_fetch", c.LastError())
		}
		defer c.FreeResultSet(h)

		buf, ok := c.FetchOne(h)
		if !ok {
			return nil, errors.EngineCall("h2gis_fetch_one", c.LastError())
		}
		defer c.FreeBuffer(buf)
		return append([]byte(nil), buf.Data...), nil
	})
	if err != nil {
		return rows.Row{}, err
	}
	return rows.Lookup(data)
}

// Drop deletes the database files and closes the connection. The session
// is unusable afterwards; the bridge reference is released either way.
func (s *Session) Drop() error {
	if err := s.guard(); err != nil {
		return err
	}
	s.closed = true

	_, err := s.b.Submit(func(c engine.Caller) (any, error) {
		if rc := c.DeleteDatabase(s.conn); rc != 0 {
			return nil, errors.New(errors.PhaseSession, errors.KindEngineCall).
				Symbol("h2gis_delete_database_and_close").
				Detail("database deletion not supported by this library build").
				Build()
		}
		return nil, nil
	})
	s.b.Release()
	return err
}

// Close closes the engine connection and releases the bridge reference.
// Safe to call more than once.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	_, err := s.b.Submit(func(c engine.Caller) (any, error) {
		c.CloseConnection(s.conn)
		return nil, nil
	})
	s.b.Release()

	engine.Logger().Debug("session closed", zap.Int64("conn", s.conn))
	return err
}

func (s *Session) guard() error {
	if s.closed {
		return errors.New(errors.PhaseSession, errors.KindNotReady).
			Detail("session is closed").Build()
	}
	return nil
}

// resultFetcher adapts one engine result set to the rows.Fetcher
// contract. Each batch is copied out of engine memory and the native
// buffer freed inside the same bridge task, so decoded values never alias
// engine-owned memory.
type resultFetcher struct {
	s      *Session
	rs     int64
	closed bool
}

func (f *resultFetcher) FetchBatch(n int32) ([]byte, error) {
	return bridge.Do(f.s.b, func(c engine.Caller) ([]byte, error) {
		buf, ok := c.FetchBatch(f.rs, n)
		if !ok {
			return nil, errors.EngineCall("h2gis_fetch_batch", c.LastError())
		}
		defer c.FreeBuffer(buf)
		return append([]byte(nil), buf.Data...), nil
	})
}

// Release is a no-op: batches are Go-owned copies.
func (f *resultFetcher) Release(buf []byte) error { return nil }

func (f *resultFetcher) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	_, err := f.s.b.Submit(func(c engine.Caller) (any, error) {
		c.FreeResultSet(f.rs)
		return nil, nil
	})
	return err
}
