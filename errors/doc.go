// Package errors provides structured error types for the H2GIS bridge.
//
// Every error carries a Phase (where in processing it occurred) and a Kind
// (what went wrong), so callers can match on categories with errors.Is
// rather than string-compare messages:
//
//	_, err := sess.QueryRow("SELECT ...")
//	if errors.Is(err, &bridgeerrors.Error{Phase: bridgeerrors.PhaseFetch, Kind: bridgeerrors.KindNotFound}) {
//	    // zero rows is a normal outcome, not a failure
//	}
//
// Two errors match when their Phase and Kind agree; Detail, Path and Cause
// are informational. Construction goes through convenience constructors for
// the common cases or the Builder for anything richer:
//
//	err := errors.New(errors.PhaseDecode, errors.KindInvalidData).
//	    Path("column", "THE_GEOM").
//	    Detail("declared length %d exceeds remaining %d", n, rem).
//	    Build()
package errors
