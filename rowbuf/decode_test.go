package rowbuf

import (
	"encoding/binary"
	stderrors "errors"
	"math"
	"testing"

	"github.com/h2gis/h2gis-go/errors"
	"github.com/h2gis/h2gis-go/geom"
)

var (
	outOfBounds = &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindOutOfBounds}
	invalidData = &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindInvalidData}
)

func TestDecode_FixedWidth(t *testing.T) {
	ints := []int32{-1, 0, 2147483647}
	doubles := []float64{3.5, -0.25, math.Inf(1)}

	for _, order := range []binary.ByteOrder{binary.LittleEndian, binary.BigEndian} {
		data, err := NewEncoder(3).
			Order(order).
			Int32Column("ID", ints).
			Float64Column("ELEVATION", doubles).
			Encode()
		if err != nil {
			t.Fatalf("encode: %v", err)
		}

		buf, err := DecodeOrder(data, order)
		if err != nil {
			t.Fatalf("decode (%v): %v", order, err)
		}
		if buf.RowCount != 3 {
			t.Fatalf("RowCount = %d", buf.RowCount)
		}
		if len(buf.Columns) != 2 {
			t.Fatalf("columns = %d", len(buf.Columns))
		}
		if buf.Columns[0].Name != "ID" || buf.Columns[0].Tag != TagInt {
			t.Fatalf("column 0 = %q %v", buf.Columns[0].Name, buf.Columns[0].Tag)
		}

		for r := 0; r < 3; r++ {
			v, err := buf.Columns[0].Next()
			if err != nil {
				t.Fatalf("row %d int: %v", r, err)
			}
			if v.Int32() != ints[r] {
				t.Errorf("row %d int = %d, want %d", r, v.Int32(), ints[r])
			}
			if v.IsNull() {
				t.Errorf("fixed-width value must never be null")
			}

			f, err := buf.Columns[1].Next()
			if err != nil {
				t.Fatalf("row %d double: %v", r, err)
			}
			if f.Float64() != doubles[r] {
				t.Errorf("row %d double = %v, want %v", r, f.Float64(), doubles[r])
			}
		}
	}
}

func TestDecode_VariableWidth(t *testing.T) {
	data, err := NewEncoder(3).
		StringColumn("NAME", []string{"Orléans", "", "Lyon"}).
		BlobColumn("PAYLOAD", [][]byte{{0xde, 0xad}, nil, {0x01}}).
		Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	buf, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	wantText := []string{"Orléans", "", "Lyon"}
	for r := 0; r < 3; r++ {
		v, err := buf.Columns[0].Next()
		if err != nil {
			t.Fatalf("row %d: %v", r, err)
		}
		if v.Text() != wantText[r] {
			t.Errorf("row %d = %q, want %q", r, v.Text(), wantText[r])
		}
		if (r == 1) != v.IsNull() {
			t.Errorf("row %d IsNull = %v", r, v.IsNull())
		}

		b, err := buf.Columns[1].Next()
		if err != nil {
			t.Fatalf("row %d blob: %v", r, err)
		}
		if r == 1 && !b.IsNull() {
			t.Error("empty blob must be null")
		}
	}
}

func TestDecode_GeometryCanonicalized(t *testing.T) {
	canonical := make([]byte, 21)
	canonical[0] = geom.LittleEndian
	binary.LittleEndian.PutUint32(canonical[1:5], 1)
	binary.LittleEndian.PutUint64(canonical[5:13], math.Float64bits(2.0))
	binary.LittleEndian.PutUint64(canonical[13:21], math.Float64bits(48.5))

	extended, err := geom.Extend(canonical, 4326)
	if err != nil {
		t.Fatalf("extend: %v", err)
	}

	data, err := NewEncoder(2).
		GeometryColumn("THE_GEOM", [][]byte{extended, canonical}).
		Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	buf, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	for r := 0; r < 2; r++ {
		v, err := buf.Columns[0].Next()
		if err != nil {
			t.Fatalf("row %d: %v", r, err)
		}
		got := v.Bytes()
		if len(got) != len(canonical) {
			t.Fatalf("row %d length = %d, want %d", r, len(got), len(canonical))
		}
		for i := range got {
			if got[i] != canonical[i] {
				t.Fatalf("row %d differs at byte %d", r, i)
			}
		}
	}
}

func TestDecode_ZeroRows(t *testing.T) {
	data, err := NewEncoder(0).
		Int64Column("ID", nil).
		Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	buf, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if buf.RowCount != 0 {
		t.Errorf("RowCount = %d", buf.RowCount)
	}
	if len(buf.Columns) != 1 {
		t.Errorf("columns = %d", len(buf.Columns))
	}
}

func TestDecode_Malformed(t *testing.T) {
	valid, err := NewEncoder(1).
		Int32Column("ID", []int32{7}).
		StringColumn("NAME", []string{"x"}).
		Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	t.Run("truncated header", func(t *testing.T) {
		if _, err := Decode(valid[:6]); !stderrors.Is(err, outOfBounds) {
			t.Errorf("got %v", err)
		}
	})

	t.Run("negative column count", func(t *testing.T) {
		bad := append([]byte(nil), valid...)
		binary.LittleEndian.PutUint32(bad[0:], ^uint32(0))
		if _, err := Decode(bad); !stderrors.Is(err, invalidData) {
			t.Errorf("got %v", err)
		}
	})

	t.Run("offset past end", func(t *testing.T) {
		bad := append([]byte(nil), valid...)
		binary.LittleEndian.PutUint64(bad[8:], uint64(len(bad)+100))
		if _, err := Decode(bad); !stderrors.Is(err, outOfBounds) {
			t.Errorf("got %v", err)
		}
	})

	t.Run("name length overrun", func(t *testing.T) {
		bad := append([]byte(nil), valid...)
		nameOff := binary.LittleEndian.Uint64(bad[8:16])
		binary.LittleEndian.PutUint32(bad[nameOff:], uint32(len(bad)))
		if _, err := Decode(bad); !stderrors.Is(err, outOfBounds) {
			t.Errorf("got %v", err)
		}
	})

	t.Run("truncated row data", func(t *testing.T) {
		data, err := NewEncoder(2).Int64Column("ID", []int64{1, 2}).Encode()
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		// Chop the second row's value but keep the declared data length.
		buf, err := Decode(data[:len(data)-8])
		if !stderrors.Is(err, invalidData) {
			t.Fatalf("decode of truncated buffer: %v (buf=%v)", err, buf)
		}
	})

	t.Run("negative value length", func(t *testing.T) {
		data, err := NewEncoder(1).StringColumn("NAME", []string{"ab"}).Encode()
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		// Overwrite the per-value length prefix with -1.
		binary.LittleEndian.PutUint32(data[len(data)-6:], ^uint32(0))
		buf, err := Decode(data)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if _, err := buf.Columns[0].Next(); !stderrors.Is(err, invalidData) {
			t.Errorf("got %v", err)
		}
	})
}

func TestCursor_Bounds(t *testing.T) {
	c := NewCursor([]byte{1, 2, 3, 4})

	if _, err := c.Int64(binary.LittleEndian); !stderrors.Is(err, outOfBounds) {
		t.Errorf("Int64 past end: %v", err)
	}
	if c.Offset() != 0 {
		t.Errorf("failed read must not advance, offset = %d", c.Offset())
	}
	if err := c.Seek(5); !stderrors.Is(err, outOfBounds) {
		t.Errorf("Seek past end: %v", err)
	}
	if err := c.Seek(4); err != nil {
		t.Errorf("Seek to end: %v", err)
	}
	if c.Remaining() != 0 {
		t.Errorf("Remaining = %d", c.Remaining())
	}
}
