package metadata

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoverURL(t *testing.T) {
	tests := []struct {
		name     string
		id       int
		expected *string
	}{
		{"zero", 0, nil},
		{"negative", -5, nil},
		{"positive", 123, strPtr("https://covers.openlibrary.org/b/id/123-M.jpg")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CoverURL(tt.id))
		})
	}

	// A missing cover id decodes to zero
	var doc olSearchDoc
	require.NoError(t, json.Unmarshal([]byte(`{"key":"/works/W1","cover_i":null}`), &doc))
	assert.Nil(t, CoverURL(doc.CoverI))
}

func TestNormalizeWorkID(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"/works/OL1W", "OL1W"},
		{"OL1W", "OL1W"},
		{"//OL1W", "OL1W"},
		{"/works//OL1W", "OL1W"},
		{"", ""},
		{"/works/", ""},
		{"works/OL1W", "works/OL1W"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeWorkID(tt.input))
		})
	}
}

func TestNormalizeWorkIDIdempotent(t *testing.T) {
	inputs := []string{
		"", "/", "///", "/works/", "/works/OL1W", "OL1W", "/works//works/OL1W",
		"//works/OL1W", "/authors/OL1A", "a/works/b", " /works/x", "/works/works/",
	}
	for _, in := range inputs {
		once := NormalizeWorkID(in)
		assert.Equal(t, once, NormalizeWorkID(once), "input %q", in)
		assert.False(t, strings.HasPrefix(once, "/"), "input %q", in)
	}
}

func TestWorkPath(t *testing.T) {
	assert.Equal(t, "/works/OL1W", WorkPath("OL1W"))
	assert.Equal(t, "/works/OL1W", WorkPath("/works/OL1W"))
	assert.Equal(t, "/works/", WorkPath(""))
	assert.Equal(t, "OL1W", NormalizeWorkID(WorkPath("OL1W")))
}

func TestExtractYear(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *int
	}{
		{"bare year", "1965", intPtr(1965)},
		{"long date", "January 1, 2020", intPtr(2020)},
		{"timestamp", "2008-04-01T03:28:50.625462", intPtr(2008)},
		{"first run wins", "1999 reprinted 2005", intPtr(1999)},
		{"no year", "circa", nil},
		{"short digits", "99", nil},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractYear(tt.input))
		})
	}
}

func TestOLTextDecoding(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"string", `{"description":"A book"}`, "A book"},
		{"typed object", `{"description":{"type":"/type/text","value":"From object"}}`, "From object"},
		{"object without value", `{"description":{"type":"/type/text"}}`, ""},
		{"null", `{"description":null}`, ""},
		{"number", `{"description":42}`, ""},
		{"absent", `{}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var work olWork
			require.NoError(t, json.Unmarshal([]byte(tt.input), &work))
			assert.Equal(t, tt.expected, string(work.Description))
		})
	}
}

func TestFlexStringDecoding(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"string", `{"publish_date":"1966"}`, "1966"},
		{"array", `{"publish_date":["1966","1970"]}`, "1966"},
		{"empty array", `{"publish_date":[]}`, ""},
		{"null", `{"publish_date":null}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var edition olEmbeddedEdition
			require.NoError(t, json.Unmarshal([]byte(tt.input), &edition))
			assert.Equal(t, tt.expected, string(edition.PublishDate))
		})
	}
}

func TestParseScope(t *testing.T) {
	assert.Equal(t, ScopeAuthor, ParseScope("author"))
	assert.Equal(t, ScopeAuthor, ParseScope(" Author "))
	assert.Equal(t, ScopeTitle, ParseScope("title"))
	assert.Equal(t, ScopeTitle, ParseScope(""))
	assert.Equal(t, ScopeTitle, ParseScope("isbn"))
}

func TestLimitsWithDefaults(t *testing.T) {
	l := Limits{SearchResults: 20}.withDefaults()
	assert.Equal(t, 20, l.SearchResults)
	assert.Equal(t, 3, l.Authors)
	assert.Equal(t, 12, l.Subjects)
	assert.Equal(t, 6, l.CoverGallery)
	assert.Equal(t, 5, l.DetailEditions)
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }
