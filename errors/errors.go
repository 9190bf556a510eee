package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseInit    Phase = "init"    // bridge/worker initialization
	PhaseCall    Phase = "call"    // an engine call on the worker
	PhaseDecode  Phase = "decode"  // result-buffer decoding
	PhaseFetch   Phase = "fetch"   // batch/row materialization
	PhaseSession Phase = "session" // connection and statement handling
)

// Kind categorizes the error
type Kind string

const (
	KindTimeout        Kind = "timeout"
	KindLibraryMissing Kind = "library_missing"
	KindSymbolMissing  Kind = "symbol_missing"
	KindEngineCall     Kind = "engine_call"
	KindOutOfBounds    Kind = "out_of_bounds"
	KindInvalidData    Kind = "invalid_data"
	KindNotFound       Kind = "not_found"
	KindNotReady       Kind = "not_ready"
	KindShuttingDown   Kind = "shutting_down"
	KindEndOfStream    Kind = "end_of_stream"
)

// Error is the structured error type used throughout the module
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Symbol string
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Symbol != "" {
		b.WriteString(": symbol ")
		b.WriteString(e.Symbol)
	}

	if e.Detail != "" {
		if e.Symbol != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Symbol sets the native entry-point name involved
func (b *Builder) Symbol(name string) *Builder {
	b.err.Symbol = name
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// InitTimeout creates an initialization timeout error
func InitTimeout(waited string) *Error {
	return &Error{
		Phase:  PhaseInit,
		Kind:   KindTimeout,
		Detail: fmt.Sprintf("worker did not become ready within %s", waited),
	}
}

// LibraryMissing creates a library resolution error
func LibraryMissing(path string, cause error) *Error {
	return &Error{
		Phase:  PhaseInit,
		Kind:   KindLibraryMissing,
		Detail: fmt.Sprintf("native library not loadable at %q", path),
		Cause:  cause,
	}
}

// SymbolMissing creates a symbol resolution error
func SymbolMissing(symbol string) *Error {
	return &Error{
		Phase:  PhaseInit,
		Kind:   KindSymbolMissing,
		Symbol: symbol,
		Detail: "required entry point not exported",
	}
}

// EngineCall creates an engine call failure with the engine's error text
func EngineCall(op, engineText string) *Error {
	e := &Error{
		Phase:  PhaseCall,
		Kind:   KindEngineCall,
		Detail: op,
	}
	if engineText != "" {
		e.Detail = fmt.Sprintf("%s: %s", op, engineText)
	}
	return e
}

// OutOfBounds creates a buffer decode bounds error
func OutOfBounds(path []string, offset, need, size int) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindOutOfBounds,
		Path:   path,
		Detail: fmt.Sprintf("read of %d bytes at offset %d exceeds buffer size %d", need, offset, size),
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// NotFound creates a not-found error for single-row lookups
func NotFound(what string) *Error {
	return &Error{
		Phase:  PhaseFetch,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s not found", what),
	}
}

// NotReady creates an error for operations attempted before Ready
func NotReady(state string) *Error {
	return &Error{
		Phase:  PhaseCall,
		Kind:   KindNotReady,
		Detail: fmt.Sprintf("bridge is %s", state),
	}
}

// ShuttingDown creates an error for submissions after shutdown was requested
func ShuttingDown() *Error {
	return &Error{
		Phase:  PhaseCall,
		Kind:   KindShuttingDown,
		Detail: "shutdown requested, no new tasks accepted",
	}
}

// EndOfStream creates the sentinel returned when a result stream is exhausted
func EndOfStream() *Error {
	return &Error{
		Phase:  PhaseFetch,
		Kind:   KindEndOfStream,
		Detail: "no more rows",
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
