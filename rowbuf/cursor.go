package rowbuf

import (
	"encoding/binary"
	"math"

	"github.com/h2gis/h2gis-go/errors"
)

// Cursor is a bounds-checked read position over an immutable byte region.
// Every read validates that the requested bytes lie inside the buffer and
// fails with an out_of_bounds error otherwise; it never reads past the end.
type Cursor struct {
	buf []byte
	off int
}

// NewCursor creates a cursor at offset 0.
func NewCursor(buf []byte) Cursor {
	return Cursor{buf: buf}
}

// Offset returns the current byte position.
func (c *Cursor) Offset() int {
	return c.off
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	return len(c.buf) - c.off
}

// Seek moves the cursor to an absolute offset.
func (c *Cursor) Seek(off int64) error {
	if off < 0 || off > int64(len(c.buf)) {
		return errors.OutOfBounds(nil, int(off), 0, len(c.buf))
	}
	c.off = int(off)
	return nil
}

func (c *Cursor) need(n int) error {
	if n < 0 || c.off+n > len(c.buf) {
		return errors.OutOfBounds(nil, c.off, n, len(c.buf))
	}
	return nil
}

// Skip advances the cursor by n bytes.
func (c *Cursor) Skip(n int) error {
	if err := c.need(n); err != nil {
		return err
	}
	c.off += n
	return nil
}

// Byte reads a single byte.
func (c *Cursor) Byte() (byte, error) {
	if err := c.need(1); err != nil {
		return 0, err
	}
	b := c.buf[c.off]
	c.off++
	return b, nil
}

// Bytes reads exactly n bytes. The returned slice aliases the underlying
// buffer and must be treated as read-only.
func (c *Cursor) Bytes(n int) ([]byte, error) {
	if err := c.need(n); err != nil {
		return nil, err
	}
	b := c.buf[c.off : c.off+n]
	c.off += n
	return b, nil
}

// Int32 reads a 4-byte signed integer in the given byte order.
func (c *Cursor) Int32(order binary.ByteOrder) (int32, error) {
	b, err := c.Bytes(4)
	if err != nil {
		return 0, err
	}
	return int32(order.Uint32(b)), nil
}

// Int64 reads an 8-byte signed integer in the given byte order.
func (c *Cursor) Int64(order binary.ByteOrder) (int64, error) {
	b, err := c.Bytes(8)
	if err != nil {
		return 0, err
	}
	return int64(order.Uint64(b)), nil
}

// Float32 reads a 4-byte IEEE 754 value in the given byte order.
func (c *Cursor) Float32(order binary.ByteOrder) (float32, error) {
	b, err := c.Bytes(4)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(order.Uint32(b)), nil
}

// Float64 reads an 8-byte IEEE 754 value in the given byte order.
func (c *Cursor) Float64(order binary.ByteOrder) (float64, error) {
	b, err := c.Bytes(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(order.Uint64(b)), nil
}
