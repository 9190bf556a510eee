package session

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/h2gis/h2gis-go/errors"
)

// URI is a parsed data source string.
type URI struct {
	Path     string
	User     string
	Password string
}

// ParseURI parses a data source string in either the query or the pipe
// form. The database path is mandatory; credentials are optional.
func ParseURI(s string) (URI, error) {
	rest := s
	if len(rest) >= 6 && strings.EqualFold(rest[:6], "H2GIS:") {
		rest = rest[6:]
	}
	if rest == "" {
		return URI{}, errors.InvalidData(errors.PhaseSession, []string{"uri"},
			"empty data source")
	}

	if strings.ContainsRune(rest, '|') {
		return parsePipe(rest)
	}
	return parseQuery(rest)
}

func parseQuery(s string) (URI, error) {
	path, query, _ := strings.Cut(s, "?")
	if path == "" {
		return URI{}, errors.InvalidData(errors.PhaseSession, []string{"uri"},
			"missing database path")
	}

	u := URI{Path: path}
	if query == "" {
		return u, nil
	}
	vals, err := url.ParseQuery(query)
	if err != nil {
		return URI{}, errors.Wrap(errors.PhaseSession, errors.KindInvalidData, err,
			"malformed query parameters")
	}
	for key, vv := range vals {
		if len(vv) == 0 {
			continue
		}
		u.applyKey(key, vv[0])
	}
	return u, nil
}

func parsePipe(s string) (URI, error) {
	parts := strings.Split(s, "|")
	if parts[0] == "" {
		return URI{}, errors.InvalidData(errors.PhaseSession, []string{"uri"},
			"missing database path")
	}

	u := URI{Path: parts[0]}
	for _, part := range parts[1:] {
		if part == "" {
			continue
		}
		key, val, ok := strings.Cut(part, "=")
		if !ok {
			return URI{}, errors.InvalidData(errors.PhaseSession, []string{"uri"},
				fmt.Sprintf("segment %q is not key=value", part))
		}
		u.applyKey(key, val)
	}
	return u, nil
}

func (u *URI) applyKey(key, val string) {
	switch strings.ToLower(key) {
	case "user", "username":
		u.User = val
	case "password", "pass":
		u.Password = val
	}
}
