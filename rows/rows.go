package rows

import (
	"github.com/h2gis/h2gis-go/errors"
	"github.com/h2gis/h2gis-go/rowbuf"
)

// DefaultBatchSize is how many rows one fetch requests when Options does
// not say otherwise.
const DefaultBatchSize = 1000

// Fetcher produces raw result buffers. FetchBatch returns one encoded
// batch of at most n rows as Go-owned bytes; a batch with zero rows marks
// the end of the stream. Release hands a previously fetched buffer back so
// any native mirror can be freed. Close releases the underlying result
// set.
type Fetcher interface {
	FetchBatch(n int32) ([]byte, error)
	Release(buf []byte) error
	Close() error
}

// Options configures a Rows stream.
type Options struct {
	// BatchSize is the row count requested per fetch; zero or negative
	// means DefaultBatchSize.
	BatchSize int32
}

// Row is one materialized row. Values appear in column order and alias
// the batch they were decoded from; they stay reachable for as long as
// the Row is.
type Row struct {
	Columns []string
	Values  []rowbuf.Value
}

// Value returns the value of the named column.
func (r Row) Value(name string) (rowbuf.Value, bool) {
	for i, c := range r.Columns {
		if c == name {
			return r.Values[i], true
		}
	}
	return rowbuf.Value{}, false
}

// EndOfStream returns the sentinel that Next reports when the stream is
// exhausted. Compare with errors.Is.
func EndOfStream() error {
	return errors.EndOfStream()
}

// Rows streams rows out of successive fetched batches.
type Rows struct {
	f     Fetcher
	batch int32

	buf       *rowbuf.Buffer
	raw       []byte
	row       int
	exhausted bool
	closed    bool
}

// New wraps a Fetcher in a row stream. Nothing is fetched until the first
// Next call.
func New(f Fetcher, opts Options) *Rows {
	batch := opts.BatchSize
	if batch <= 0 {
		batch = DefaultBatchSize
	}
	return &Rows{f: f, batch: batch}
}

// Next returns the next row. After the last row it returns EndOfStream,
// and keeps returning it on every later call.
func (r *Rows) Next() (Row, error) {
	if r.closed {
		return Row{}, errors.New(errors.PhaseFetch, errors.KindNotReady).
			Detail("rows are closed").Build()
	}

	for r.buf == nil || r.row >= r.buf.RowCount {
		if r.exhausted {
			return Row{}, errors.EndOfStream()
		}
		if err := r.refill(); err != nil {
			return Row{}, err
		}
	}

	return r.take()
}

// take decodes one value per column from the current batch.
func (r *Rows) take() (Row, error) {
	row, err := nextRow(r.buf)
	if err != nil {
		return Row{}, err
	}
	r.row++
	return row, nil
}

// nextRow consumes one value from every column of buf.
func nextRow(buf *rowbuf.Buffer) (Row, error) {
	row := Row{
		Columns: make([]string, len(buf.Columns)),
		Values:  make([]rowbuf.Value, len(buf.Columns)),
	}
	for i := range buf.Columns {
		col := &buf.Columns[i]
		v, err := col.Next()
		if err != nil {
			return Row{}, err
		}
		row.Columns[i] = col.Name
		row.Values[i] = v
	}
	return row, nil
}

func (r *Rows) refill() error {
	if err := r.releaseCurrent(); err != nil {
		return err
	}

	data, err := r.f.FetchBatch(r.batch)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		r.exhausted = true
		return nil
	}

	buf, err := rowbuf.Decode(data)
	if err != nil {
		r.f.Release(data)
		return err
	}
	if buf.RowCount == 0 {
		r.exhausted = true
		return r.f.Release(data)
	}

	r.buf = buf
	r.raw = data
	r.row = 0
	return nil
}

func (r *Rows) releaseCurrent() error {
	if r.raw == nil {
		return nil
	}
	raw := r.raw
	r.raw = nil
	r.buf = nil
	return r.f.Release(raw)
}

// Close releases the in-flight batch and the underlying result set.
// Safe to call more than once.
func (r *Rows) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	relErr := r.releaseCurrent()
	if err := r.f.Close(); err != nil {
		return err
	}
	return relErr
}

// Lookup decodes a single-row buffer, as produced by a fetch-one call.
// A buffer with zero rows means the row does not exist.
func Lookup(data []byte) (Row, error) {
	buf, err := rowbuf.Decode(data)
	if err != nil {
		return Row{}, err
	}
	if buf.RowCount == 0 {
		return Row{}, errors.NotFound("row")
	}
	return nextRow(buf)
}

// All materializes every row of one buffer, as produced by a fetch-all
// call. A zero-row buffer yields an empty slice.
func All(data []byte) ([]Row, error) {
	buf, err := rowbuf.Decode(data)
	if err != nil {
		return nil, err
	}
	out := make([]Row, 0, buf.RowCount)
	for i := 0; i < buf.RowCount; i++ {
		row, err := nextRow(buf)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, nil
}
