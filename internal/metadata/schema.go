package metadata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// The ol* types mirror only the OpenLibrary fields the catalog reads.
// Every field is optional on the wire; defaults are applied when mapping.

type olSearchResponse struct {
	Docs []olSearchDoc `json:"docs"`
}

type olSearchDoc struct {
	Key              string             `json:"key"`
	Title            string             `json:"title"`
	AuthorName       []string           `json:"author_name"`
	FirstPublishYear int                `json:"first_publish_year"`
	CoverI           int                `json:"cover_i"`
	Editions         olEmbeddedEditions `json:"editions"`
}

type olEmbeddedEditions struct {
	Docs []olEmbeddedEdition `json:"docs"`
}

type olEmbeddedEdition struct {
	Key         string     `json:"key"`
	Title       string     `json:"title"`
	PublishDate flexString `json:"publish_date"`
}

type olWork struct {
	Key              string         `json:"key"`
	Title            string         `json:"title"`
	Description      olText         `json:"description"`
	Subjects         []string       `json:"subjects"`
	Covers           []int          `json:"covers"`
	Authors          []olAuthorRole `json:"authors"`
	FirstPublishDate string         `json:"first_publish_date"`
	Created          olText         `json:"created"`
	Links            []olLink       `json:"links"`
}

type olAuthorRole struct {
	Author olRef `json:"author"`
}

// olRef represents a reference to another Open Library entity
type olRef struct {
	Key string `json:"key"`
}

type olLink struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

type olEditionsResponse struct {
	Entries []olEdition `json:"entries"`
}

type olEdition struct {
	Key         string `json:"key"`
	Title       string `json:"title"`
	PublishDate string `json:"publish_date"`
	Covers      []int  `json:"covers"`
}

type olAuthor struct {
	Name string `json:"name"`
}

// olText accepts either a bare string or a typed {"type": ..., "value": ...} object.
// Any other shape decodes to the empty string.
type olText string

func (t *olText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*t = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = olText(s)
	case data[0] == '{':
		var obj struct {
			Value any `json:"value"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		if s, ok := obj.Value.(string); ok {
			*t = olText(s)
		} else {
			*t = ""
		}
	default:
		*t = ""
	}
	return nil
}

// flexString accepts a string or an array of strings (first element wins)
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*f = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
	case data[0] == '[':
		var list []any
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*f = ""
		if len(list) > 0 {
			if s, ok := list[0].(string); ok {
				*f = flexString(s)
			}
		}
	default:
		*f = ""
	}
	return nil
}

const worksPrefix = "/works/"

var yearPattern = regexp.MustCompile(`\d{4}`)

// CoverURL builds the medium cover image URL for a positive cover id
func CoverURL(id int) *string {
	if id <= 0 {
		return nil
	}
	u := fmt.Sprintf("https://covers.openlibrary.org/b/id/%d-M.jpg", id)
	return &u
}

// NormalizeWorkID strips the /works/ namespace and any leading slashes from a work key
func NormalizeWorkID(key string) string {
	key = strings.TrimPrefix(key, worksPrefix)
	return strings.TrimLeft(key, "/")
}

// WorkPath returns the API path of a work, keeping ids that are already paths
func WorkPath(workID string) string {
	if strings.HasPrefix(workID, worksPrefix) {
		return workID
	}
	return worksPrefix + workID
}

// ExtractYear returns the first 4-digit run in a date string
func ExtractYear(date string) *int {
	match := yearPattern.FindString(date)
	if match == "" {
		return nil
	}
	year, err := strconv.Atoi(match)
	if err != nil {
		return nil
	}
	return &year
}

// optional returns nil for the empty string
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func firstInt(values []int) int {
	if len(values) > 0 {
		return values[0]
	}
	return 0
}

func headStrings(values []string, n int) []string {
	if len(values) > n {
		values = values[:n]
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}
