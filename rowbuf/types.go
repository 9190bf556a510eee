package rowbuf

import "fmt"

// TypeTag identifies the value encoding of one column. The numeric values
// are part of the wire contract with the native engine.
type TypeTag int32

const (
	TagInt      TypeTag = 1  // int32, 4 bytes
	TagLong     TypeTag = 2  // int64, 8 bytes
	TagFloat    TypeTag = 3  // float32, 4 bytes
	TagDouble   TypeTag = 4  // float64, 8 bytes
	TagBool     TypeTag = 5  // 1 byte
	TagString   TypeTag = 6  // length-prefixed UTF-8
	TagDate     TypeTag = 7  // length-prefixed ISO text
	TagGeometry TypeTag = 8  // length-prefixed WKB, possibly extended
	TagOther    TypeTag = 99 // length-prefixed opaque bytes
)

// FixedWidth returns the static byte width of a fixed-width tag.
// Variable-width tags return (0, false).
func (t TypeTag) FixedWidth() (int, bool) {
	switch t {
	case TagInt, TagFloat:
		return 4, true
	case TagLong, TagDouble:
		return 8, true
	case TagBool:
		return 1, true
	default:
		return 0, false
	}
}

// Variable reports whether values of this tag carry an int32 length prefix.
func (t TypeTag) Variable() bool {
	_, fixed := t.FixedWidth()
	return !fixed
}

func (t TypeTag) String() string {
	switch t {
	case TagInt:
		return "int"
	case TagLong:
		return "long"
	case TagFloat:
		return "float"
	case TagDouble:
		return "double"
	case TagBool:
		return "bool"
	case TagString:
		return "string"
	case TagDate:
		return "date"
	case TagGeometry:
		return "geometry"
	case TagOther:
		return "other"
	default:
		return fmt.Sprintf("tag(%d)", int32(t))
	}
}
