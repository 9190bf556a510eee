// Package geom converts between the engine's extended geometry encoding and
// canonical WKB.
//
// The engine emits geometries as WKB whose shape-type field may carry flag
// 0x20000000. When set, a 4-byte coordinate-reference identifier (SRID)
// follows the shape type, and consumers expect it stripped:
//
//	extended:  [order 1][type|flag 4][srid 4][body ...]
//	canonical: [order 1][type 4][body ...]
//
// The transform is byte-exact. A one-byte offset error corrupts every
// subsequent geometry in the row, so both forms are covered by round-trip
// tests against Extend.
package geom

import (
	"encoding/binary"

	"github.com/h2gis/h2gis-go/errors"
)

// ExtendedFlag marks a shape type that embeds a coordinate-reference
// identifier.
const ExtendedFlag = 0x20000000

// Byte-order markers defined by the WKB format.
const (
	BigEndian    = 0
	LittleEndian = 1
)

const headerSize = 5 // order marker + shape type

func shapeOrder(marker byte) (binary.ByteOrder, error) {
	switch marker {
	case BigEndian:
		return binary.BigEndian, nil
	case LittleEndian:
		return binary.LittleEndian, nil
	default:
		return nil, errors.InvalidData(errors.PhaseDecode, []string{"geometry"},
			"unknown byte-order marker")
	}
}

// Canonicalize strips the embedded identifier from an extended encoding.
// Input without the flag is returned as-is, unmodified and uncopied.
func Canonicalize(wkb []byte) ([]byte, error) {
	if len(wkb) < headerSize {
		return nil, errors.InvalidData(errors.PhaseDecode, []string{"geometry"},
			"geometry shorter than WKB header")
	}
	order, err := shapeOrder(wkb[0])
	if err != nil {
		return nil, err
	}

	shape := order.Uint32(wkb[1:5])
	if shape&ExtendedFlag == 0 {
		return wkb, nil
	}
	if len(wkb) < headerSize+4 {
		return nil, errors.InvalidData(errors.PhaseDecode, []string{"geometry"},
			"extended geometry shorter than header plus identifier")
	}

	out := make([]byte, len(wkb)-4)
	out[0] = wkb[0]
	order.PutUint32(out[1:5], shape&^uint32(ExtendedFlag))
	copy(out[5:], wkb[9:])
	return out, nil
}

// SRID returns the embedded coordinate-reference identifier of an extended
// encoding, or ok=false for a canonical one.
func SRID(wkb []byte) (srid int32, ok bool, err error) {
	if len(wkb) < headerSize {
		return 0, false, errors.InvalidData(errors.PhaseDecode, []string{"geometry"},
			"geometry shorter than WKB header")
	}
	order, err := shapeOrder(wkb[0])
	if err != nil {
		return 0, false, err
	}
	if order.Uint32(wkb[1:5])&ExtendedFlag == 0 {
		return 0, false, nil
	}
	if len(wkb) < headerSize+4 {
		return 0, false, errors.InvalidData(errors.PhaseDecode, []string{"geometry"},
			"extended geometry shorter than header plus identifier")
	}
	return int32(order.Uint32(wkb[5:9])), true, nil
}

// Extend embeds srid into a canonical encoding, producing the extended form.
// The identifier is written in the geometry's own byte order.
func Extend(wkb []byte, srid int32) ([]byte, error) {
	if len(wkb) < headerSize {
		return nil, errors.InvalidData(errors.PhaseDecode, []string{"geometry"},
			"geometry shorter than WKB header")
	}
	order, err := shapeOrder(wkb[0])
	if err != nil {
		return nil, err
	}

	out := make([]byte, len(wkb)+4)
	out[0] = wkb[0]
	order.PutUint32(out[1:5], order.Uint32(wkb[1:5])|ExtendedFlag)
	order.PutUint32(out[5:9], uint32(srid))
	copy(out[9:], wkb[5:])
	return out, nil
}
