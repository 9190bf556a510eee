package rowbuf

import (
	"encoding/binary"
	"unicode/utf8"

	"github.com/h2gis/h2gis-go/errors"
	"github.com/h2gis/h2gis-go/geom"
)

// Buffer is one decoded batch: the shared row count plus a read cursor per
// column, positioned at the start of that column's row data.
type Buffer struct {
	RowCount int
	Columns  []Column
}

// Column is one column block of a batch. Next consumes one value and
// advances the column's cursor; values must be consumed in row order.
type Column struct {
	Name    string
	Tag     TypeTag
	DataLen int

	cur   Cursor
	order binary.ByteOrder
}

// Decode parses a result buffer in the engine's byte order (little-endian).
func Decode(data []byte) (*Buffer, error) {
	return DecodeOrder(data, binary.LittleEndian)
}

// DecodeOrder parses a result buffer with an explicit byte order.
func DecodeOrder(data []byte, order binary.ByteOrder) (*Buffer, error) {
	cur := NewCursor(data)

	colCount, err := cur.Int32(order)
	if err != nil {
		return nil, err
	}
	rowCount, err := cur.Int32(order)
	if err != nil {
		return nil, err
	}
	if colCount < 0 || rowCount < 0 {
		return nil, errors.InvalidData(errors.PhaseDecode, []string{"header"},
			"negative column or row count")
	}

	offsets := make([]int64, colCount)
	for i := range offsets {
		off, err := cur.Int64(order)
		if err != nil {
			return nil, err
		}
		if off < 0 || off > int64(len(data)) {
			return nil, errors.OutOfBounds([]string{"offsets"}, int(off), 0, len(data))
		}
		offsets[i] = off
	}

	buf := &Buffer{
		RowCount: int(rowCount),
		Columns:  make([]Column, colCount),
	}

	for i := range buf.Columns {
		col := NewCursor(data)
		if err := col.Seek(offsets[i]); err != nil {
			return nil, err
		}

		nameLen, err := col.Int32(order)
		if err != nil {
			return nil, err
		}
		if nameLen < 0 {
			return nil, errors.InvalidData(errors.PhaseDecode, []string{"column"},
				"negative name length")
		}
		name, err := col.Bytes(int(nameLen))
		if err != nil {
			return nil, err
		}

		tag, err := col.Int32(order)
		if err != nil {
			return nil, err
		}
		dataLen, err := col.Int32(order)
		if err != nil {
			return nil, err
		}
		if dataLen < 0 || col.Remaining() < int(dataLen) {
			return nil, errors.InvalidData(errors.PhaseDecode, []string{"column", string(name)},
				"declared data length exceeds buffer")
		}

		buf.Columns[i] = Column{
			Name:    string(name),
			Tag:     TypeTag(tag),
			DataLen: int(dataLen),
			cur:     col,
			order:   order,
		}
	}

	return buf, nil
}

// Next decodes exactly one value and advances the column's cursor past it.
func (c *Column) Next() (Value, error) {
	if _, ok := c.Tag.FixedWidth(); ok {
		return c.nextFixed()
	}
	return c.nextVariable()
}

func (c *Column) nextFixed() (Value, error) {
	v := Value{Tag: c.Tag}
	switch c.Tag {
	case TagInt:
		n, err := c.cur.Int32(c.order)
		if err != nil {
			return Value{}, err
		}
		v.i64 = int64(n)
	case TagLong:
		n, err := c.cur.Int64(c.order)
		if err != nil {
			return Value{}, err
		}
		v.i64 = n
	case TagFloat:
		f, err := c.cur.Float32(c.order)
		if err != nil {
			return Value{}, err
		}
		v.f64 = float64(f)
	case TagDouble:
		f, err := c.cur.Float64(c.order)
		if err != nil {
			return Value{}, err
		}
		v.f64 = f
	case TagBool:
		b, err := c.cur.Byte()
		if err != nil {
			return Value{}, err
		}
		v.b = b != 0
	default:
		return Value{}, errors.InvalidData(errors.PhaseDecode, []string{"column", c.Name},
			"unknown fixed-width tag")
	}
	return v, nil
}

func (c *Column) nextVariable() (Value, error) {
	length, err := c.cur.Int32(c.order)
	if err != nil {
		return Value{}, err
	}
	if length < 0 {
		return Value{}, errors.InvalidData(errors.PhaseDecode, []string{"column", c.Name},
			"negative value length")
	}

	v := Value{Tag: c.Tag}
	if length == 0 {
		v.empty = true
		return v, nil
	}

	raw, err := c.cur.Bytes(int(length))
	if err != nil {
		return Value{}, err
	}

	switch c.Tag {
	case TagGeometry:
		wkb, err := geom.Canonicalize(raw)
		if err != nil {
			return Value{}, err
		}
		v.raw = wkb
	case TagString, TagDate:
		if !utf8.Valid(raw) {
			return Value{}, errors.InvalidData(errors.PhaseDecode, []string{"column", c.Name},
				"value is not valid UTF-8")
		}
		v.raw = raw
	default:
		v.raw = raw
	}
	return v, nil
}
