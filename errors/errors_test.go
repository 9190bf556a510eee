package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestError_Format(t *testing.T) {
	err := New(PhaseDecode, KindInvalidData).
		Path("column", "NAME").
		Detail("declared length %d is negative", -3).
		Build()

	msg := err.Error()
	if !strings.Contains(msg, "[decode]") {
		t.Errorf("missing phase in %q", msg)
	}
	if !strings.Contains(msg, "invalid_data") {
		t.Errorf("missing kind in %q", msg)
	}
	if !strings.Contains(msg, "column.NAME") {
		t.Errorf("missing path in %q", msg)
	}
	if !strings.Contains(msg, "-3") {
		t.Errorf("detail not formatted in %q", msg)
	}
}

func TestError_Is(t *testing.T) {
	err := NotFound("feature 42")

	if !stderrors.Is(err, &Error{Phase: PhaseFetch, Kind: KindNotFound}) {
		t.Error("expected match on phase+kind")
	}
	if stderrors.Is(err, &Error{Phase: PhaseFetch, Kind: KindInvalidData}) {
		t.Error("unexpected match on different kind")
	}
	if stderrors.Is(err, &Error{Phase: PhaseDecode, Kind: KindNotFound}) {
		t.Error("unexpected match on different phase")
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := stderrors.New("dlopen failed")
	err := LibraryMissing("/usr/lib/libh2gis.so", cause)

	if !stderrors.Is(err, cause) {
		t.Error("expected cause to be reachable via Unwrap")
	}
	if !strings.Contains(err.Error(), "caused by: dlopen failed") {
		t.Errorf("cause not rendered: %q", err.Error())
	}
}

func TestSymbolMissing(t *testing.T) {
	err := SymbolMissing("h2gis_connect")
	if err.Symbol != "h2gis_connect" {
		t.Errorf("Symbol = %q", err.Symbol)
	}
	if !strings.Contains(err.Error(), "symbol h2gis_connect") {
		t.Errorf("symbol not rendered: %q", err.Error())
	}
}

func TestEngineCall_WithText(t *testing.T) {
	err := EngineCall("execute", "table CITIES not found")
	if !strings.Contains(err.Error(), "table CITIES not found") {
		t.Errorf("engine text missing: %q", err.Error())
	}

	bare := EngineCall("execute", "")
	if strings.Contains(bare.Error(), ": :") {
		t.Errorf("empty engine text rendered badly: %q", bare.Error())
	}
}

func TestOutOfBounds(t *testing.T) {
	err := OutOfBounds([]string{"offsets"}, 12, 8, 16)
	msg := err.Error()
	if !strings.Contains(msg, "offset 12") || !strings.Contains(msg, "size 16") {
		t.Errorf("bounds detail missing: %q", msg)
	}
}
