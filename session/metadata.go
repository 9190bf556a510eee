package session

import (
	"encoding/json"
	"strings"

	"github.com/h2gis/h2gis-go/bridge"
	"github.com/h2gis/h2gis-go/engine"
	"github.com/h2gis/h2gis-go/errors"
)

// ColumnInfo describes one column of a table.
type ColumnInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// TableInfo describes one table visible to the connection, including its
// geometry column when the table is spatial.
type TableInfo struct {
	Name           string       `json:"name"`
	GeometryColumn string       `json:"geometryColumn,omitempty"`
	GeometryType   string       `json:"geometryType,omitempty"`
	SRID           int32        `json:"srid,omitempty"`
	Columns        []ColumnInfo `json:"columns"`
}

// Metadata returns the connection's table catalog. The engine reports it
// as JSON, either a bare table array or wrapped in a tables object.
func (s *Session) Metadata() ([]TableInfo, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	js, err := bridge.Do(s.b, func(c engine.Caller) (string, error) {
		return c.MetadataJSON(s.conn), nil
	})
	if err != nil {
		return nil, err
	}

	js = strings.TrimSpace(js)
	if js == "" {
		return nil, nil
	}

	if strings.HasPrefix(js, "[") {
		var tables []TableInfo
		if err := json.Unmarshal([]byte(js), &tables); err != nil {
			return nil, errors.Wrap(errors.PhaseSession, errors.KindInvalidData, err,
				"metadata JSON not parseable")
		}
		return tables, nil
	}

	var payload struct {
		Tables []TableInfo `json:"tables"`
	}
	if err := json.Unmarshal([]byte(js), &payload); err != nil {
		return nil, errors.Wrap(errors.PhaseSession, errors.KindInvalidData, err,
			"metadata JSON not parseable")
	}
	return payload.Tables, nil
}
