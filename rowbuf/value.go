package rowbuf

import (
	"encoding/hex"
	"strconv"
)

// Value is one decoded cell. The zero Value is an empty TagOther value.
type Value struct {
	Tag TypeTag

	i64   int64
	f64   float64
	b     bool
	raw   []byte
	empty bool
}

// IsNull reports whether a variable-width value was absent (zero length).
// Fixed-width tags have no null representation on the wire and always
// report false.
func (v Value) IsNull() bool {
	return v.Tag.Variable() && v.empty
}

// Int32 returns the value as int32. Valid for TagInt.
func (v Value) Int32() int32 {
	return int32(v.i64)
}

// Int64 returns the value as int64. Valid for TagInt and TagLong.
func (v Value) Int64() int64 {
	return v.i64
}

// Float32 returns the value as float32. Valid for TagFloat.
func (v Value) Float32() float32 {
	return float32(v.f64)
}

// Float64 returns the value as float64. Valid for TagFloat and TagDouble.
func (v Value) Float64() float64 {
	return v.f64
}

// Bool returns the value as bool. Valid for TagBool.
func (v Value) Bool() bool {
	return v.b
}

// Text returns the decoded UTF-8 text. Valid for TagString and TagDate;
// empty values yield "".
func (v Value) Text() string {
	return string(v.raw)
}

// Bytes returns the raw value bytes of a variable-width value. Geometry
// values are already canonical WKB. The slice aliases the batch buffer and
// is only valid until the buffer is released.
func (v Value) Bytes() []byte {
	return v.raw
}

// String renders the value for display.
func (v Value) String() string {
	if v.IsNull() {
		return "NULL"
	}
	switch v.Tag {
	case TagInt, TagLong:
		return strconv.FormatInt(v.i64, 10)
	case TagFloat, TagDouble:
		return strconv.FormatFloat(v.f64, 'g', -1, 64)
	case TagBool:
		return strconv.FormatBool(v.b)
	case TagString, TagDate:
		return string(v.raw)
	default:
		return "0x" + hex.EncodeToString(v.raw)
	}
}
