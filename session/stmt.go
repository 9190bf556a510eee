package session

import (
	"encoding/binary"

	"github.com/h2gis/h2gis-go/bridge"
	"github.com/h2gis/h2gis-go/engine"
	"github.com/h2gis/h2gis-go/errors"
	"github.com/h2gis/h2gis-go/rowbuf"
	"github.com/h2gis/h2gis-go/rows"
)

// Stmt is a prepared statement. Parameter indexes are 1-based, matching
// the engine's JDBC heritage.
type Stmt struct {
	s      *Session
	h      int64
	closed bool
}

// Prepare compiles sql into a reusable statement.
func (s *Session) Prepare(sql string) (*Stmt, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	h, err := bridge.Do(s.b, func(c engine.Caller) (int64, error) {
		h := c.Prepare(s.conn, sql)
		if h <= 0 {
			return 0, errors.EngineCall("h2gis_prepare", c.LastError())
		}
		return h, nil
	})
	if err != nil {
		return nil, err
	}
	return &Stmt{s: s, h: h}, nil
}

func (st *Stmt) guard() error {
	if st.closed {
		return errors.New(errors.PhaseSession, errors.KindNotReady).
			Detail("statement is closed").Build()
	}
	return st.s.guard()
}

func (st *Stmt) bind(fn func(c engine.Caller)) error {
	if err := st.guard(); err != nil {
		return err
	}
	_, err := st.s.b.Submit(func(c engine.Caller) (any, error) {
		fn(c)
		return nil, nil
	})
	return err
}

// BindDouble binds a float64 parameter.
func (st *Stmt) BindDouble(idx int32, v float64) error {
	return st.bind(func(c engine.Caller) { c.BindDouble(st.h, idx, v) })
}

// BindInt binds an int32 parameter.
func (st *Stmt) BindInt(idx int32, v int32) error {
	return st.bind(func(c engine.Caller) { c.BindInt(st.h, idx, v) })
}

// BindLong binds an int64 parameter.
func (st *Stmt) BindLong(idx int32, v int64) error {
	return st.bind(func(c engine.Caller) { c.BindLong(st.h, idx, v) })
}

// BindString binds a text parameter.
func (st *Stmt) BindString(idx int32, v string) error {
	return st.bind(func(c engine.Caller) { c.BindString(st.h, idx, v) })
}

// BindBlob binds a binary parameter; geometries are bound as their WKB
// bytes.
func (st *Stmt) BindBlob(idx int32, data []byte) error {
	return st.bind(func(c engine.Caller) { c.BindBlob(st.h, idx, data) })
}

// Update executes the statement as a write with the currently bound
// parameters.
func (st *Stmt) Update() error {
	if err := st.guard(); err != nil {
		return err
	}
	_, err := st.s.b.Submit(func(c engine.Caller) (any, error) {
		if rc := c.ExecutePreparedUpdate(st.h); rc != 0 {
			return nil, errors.EngineCall("h2gis_execute_prepared_update", c.LastError())
		}
		return nil, nil
	})
	return err
}

// Query executes the statement as a read and returns its row stream.
func (st *Stmt) Query() (*rows.Rows, error) {
	if err := st.guard(); err != nil {
		return nil, err
	}
	rs, err := bridge.Do(st.s.b, func(c engine.Caller) (int64, error) {
		h := c.ExecutePreparedQuery(st.h)
		if h <= 0 {
			return 0, errors.EngineCall("h2gis_execute_prepared", c.LastError())
		}
		return h, nil
	})
	if err != nil {
		return nil, err
	}
	return rows.New(&resultFetcher{s: st.s, rs: rs}, rows.Options{BatchSize: st.s.batch}), nil
}

// ColumnTypes returns the result column type tags of a prepared query,
// reported by the engine as a packed little-endian int32 array.
func (st *Stmt) ColumnTypes() ([]rowbuf.TypeTag, error) {
	if err := st.guard(); err != nil {
		return nil, err
	}
	data, err := bridge.Do(st.s.b, func(c engine.Caller) ([]byte, error) {
		buf, ok := c.ColumnTypes(st.h)
		if !ok {
			return nil, errors.EngineCall("h2gis_get_column_types", c.LastError())
		}
		defer c.FreeBuffer(buf)
		return append([]byte(nil), buf.Data...), nil
	})
	if err != nil {
		return nil, err
	}
	if len(data)%4 != 0 {
		return nil, errors.InvalidData(errors.PhaseDecode, []string{"column_types"},
			"length is not a multiple of 4")
	}
	tags := make([]rowbuf.TypeTag, len(data)/4)
	for i := range tags {
		tags[i] = rowbuf.TypeTag(int32(binary.LittleEndian.Uint32(data[4*i:])))
	}
	return tags, nil
}

// Close releases the statement handle. Safe to call more than once.
func (st *Stmt) Close() error {
	if st.closed {
		return nil
	}
	st.closed = true
	_, err := st.s.b.Submit(func(c engine.Caller) (any, error) {
		c.CloseQuery(st.h)
		return nil, nil
	})
	return err
}
