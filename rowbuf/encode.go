package rowbuf

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Encoder builds conforming result buffers. It exists so tests and engine
// fakes share one source of truth for the wire layout; production buffers
// always come from the native library.
type Encoder struct {
	order binary.ByteOrder
	rows  int
	cols  []encColumn
	err   error
}

type encColumn struct {
	name string
	tag  TypeTag
	data []byte
}

// NewEncoder creates an encoder for a batch of rowCount rows, little-endian.
func NewEncoder(rowCount int) *Encoder {
	return &Encoder{order: binary.LittleEndian, rows: rowCount}
}

// Order overrides the byte order used for all multi-byte fields.
func (e *Encoder) Order(order binary.ByteOrder) *Encoder {
	e.order = order
	return e
}

func (e *Encoder) addColumn(name string, tag TypeTag, n int, data []byte) *Encoder {
	if e.err == nil && n != e.rows {
		e.err = fmt.Errorf("column %s: %d values for %d rows", name, n, e.rows)
		return e
	}
	e.cols = append(e.cols, encColumn{name: name, tag: tag, data: data})
	return e
}

// Int32Column appends a fixed-width int column.
func (e *Encoder) Int32Column(name string, vals []int32) *Encoder {
	data := make([]byte, 4*len(vals))
	for i, v := range vals {
		e.order.PutUint32(data[4*i:], uint32(v))
	}
	return e.addColumn(name, TagInt, len(vals), data)
}

// Int64Column appends a fixed-width long column.
func (e *Encoder) Int64Column(name string, vals []int64) *Encoder {
	data := make([]byte, 8*len(vals))
	for i, v := range vals {
		e.order.PutUint64(data[8*i:], uint64(v))
	}
	return e.addColumn(name, TagLong, len(vals), data)
}

// Float32Column appends a fixed-width float column.
func (e *Encoder) Float32Column(name string, vals []float32) *Encoder {
	data := make([]byte, 4*len(vals))
	for i, v := range vals {
		e.order.PutUint32(data[4*i:], math.Float32bits(v))
	}
	return e.addColumn(name, TagFloat, len(vals), data)
}

// Float64Column appends a fixed-width double column.
func (e *Encoder) Float64Column(name string, vals []float64) *Encoder {
	data := make([]byte, 8*len(vals))
	for i, v := range vals {
		e.order.PutUint64(data[8*i:], math.Float64bits(v))
	}
	return e.addColumn(name, TagDouble, len(vals), data)
}

// BoolColumn appends a fixed-width bool column.
func (e *Encoder) BoolColumn(name string, vals []bool) *Encoder {
	data := make([]byte, len(vals))
	for i, v := range vals {
		if v {
			data[i] = 1
		}
	}
	return e.addColumn(name, TagBool, len(vals), data)
}

func (e *Encoder) variableColumn(name string, tag TypeTag, vals [][]byte) *Encoder {
	size := 0
	for _, v := range vals {
		size += 4 + len(v)
	}
	data := make([]byte, 0, size)
	var lenBuf [4]byte
	for _, v := range vals {
		e.order.PutUint32(lenBuf[:], uint32(len(v)))
		data = append(data, lenBuf[:]...)
		data = append(data, v...)
	}
	return e.addColumn(name, tag, len(vals), data)
}

// StringColumn appends a length-prefixed UTF-8 column. Empty strings encode
// as length zero (absent).
func (e *Encoder) StringColumn(name string, vals []string) *Encoder {
	raw := make([][]byte, len(vals))
	for i, v := range vals {
		raw[i] = []byte(v)
	}
	return e.variableColumn(name, TagString, raw)
}

// GeometryColumn appends a length-prefixed geometry column. Values are
// written as given; pass extended encodings to exercise canonicalization.
func (e *Encoder) GeometryColumn(name string, vals [][]byte) *Encoder {
	return e.variableColumn(name, TagGeometry, vals)
}

// BlobColumn appends a length-prefixed opaque column.
func (e *Encoder) BlobColumn(name string, vals [][]byte) *Encoder {
	return e.variableColumn(name, TagOther, vals)
}

// Encode assembles the buffer.
func (e *Encoder) Encode() ([]byte, error) {
	if e.err != nil {
		return nil, e.err
	}

	headerSize := 8 + 8*len(e.cols)
	out := make([]byte, headerSize)
	e.order.PutUint32(out[0:], uint32(len(e.cols)))
	e.order.PutUint32(out[4:], uint32(e.rows))

	var num [8]byte
	for i, col := range e.cols {
		e.order.PutUint64(out[8+8*i:], uint64(len(out)))

		e.order.PutUint32(num[:4], uint32(len(col.name)))
		out = append(out, num[:4]...)
		out = append(out, col.name...)
		e.order.PutUint32(num[:4], uint32(col.tag))
		out = append(out, num[:4]...)
		e.order.PutUint32(num[:4], uint32(len(col.data)))
		out = append(out, num[:4]...)
		out = append(out, col.data...)
	}
	return out, nil
}
