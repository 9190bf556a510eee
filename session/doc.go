// Package session is the connection-level API over the bridge.
//
// A Session maps to one engine connection. It is opened from a data
// source URI, holds a bridge reference for its lifetime, and routes every
// operation through the bridge worker:
//
//	br := bridge.New(bridge.Config{})
//	s, err := session.Open(br, "H2GIS:/data/cities?user=sa")
//	if err != nil { ... }
//	defer s.Close()
//
//	rs, err := s.Query("SELECT ID, NAME, GEOM FROM CITIES")
//
// Closing the last session releases the bridge's final reference and
// shuts the worker down gracefully.
//
// # Data source URIs
//
// Two spellings are accepted: a query form,
//
//	H2GIS:/path/to/db?user=sa&password=secret
//
// and a pipe form,
//
//	/path/to/db|user=sa|password=secret
//
// The H2GIS: prefix is optional and case-insensitive. Recognized keys are
// user (alias username) and password (alias pass); unknown keys are
// ignored. Credentials given through WithCredentials win over the URI;
// when neither supplies them the defaults are user "sa" with an empty
// password.
package session
