package session

import "testing"

func TestParseURI(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want URI
	}{
		{"bare path", "/data/cities", URI{Path: "/data/cities"}},
		{"prefixed", "H2GIS:/data/cities", URI{Path: "/data/cities"}},
		{"prefix case insensitive", "h2gis:/data/cities", URI{Path: "/data/cities"}},
		{
			"query credentials",
			"H2GIS:/data/cities?user=alice&password=secret",
			URI{Path: "/data/cities", User: "alice", Password: "secret"},
		},
		{
			"query aliases",
			"/data/cities?username=bob&pass=pw",
			URI{Path: "/data/cities", User: "bob", Password: "pw"},
		},
		{
			"pipe form",
			"/data/cities|user=alice|password=secret",
			URI{Path: "/data/cities", User: "alice", Password: "secret"},
		},
		{
			"pipe with prefix and empty segment",
			"H2GIS:/data/cities||user=alice",
			URI{Path: "/data/cities", User: "alice"},
		},
		{
			"unknown keys ignored",
			"/data/cities?user=alice&fetchsize=50",
			URI{Path: "/data/cities", User: "alice"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseURI(tt.in)
			if err != nil {
				t.Fatalf("ParseURI(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseURI(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseURI_Invalid(t *testing.T) {
	for _, in := range []string{
		"",
		"H2GIS:",
		"?user=alice",
		"/data/cities|user",
		"|user=alice",
	} {
		if _, err := ParseURI(in); err == nil {
			t.Errorf("ParseURI(%q): expected error", in)
		}
	}
}
